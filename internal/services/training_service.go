package services

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"

	"github.com/milleralan1/sales-prediction-api/internal/features"
	"github.com/milleralan1/sales-prediction-api/internal/model"
	"github.com/milleralan1/sales-prediction-api/internal/models"
)

// TrainConfig — параметры обучения
type TrainConfig struct {
	Windows []int // размеры скользящих окон
	Trials  int   // количество trial'ов случайного поиска
	Splits  int   // количество сплитов time-series кросс-валидации
	Seed    int64
}

// DefaultTrainConfig — конфигурация, которой обучалась продакшен-модель
func DefaultTrainConfig() TrainConfig {
	return TrainConfig{
		Windows: []int{7, 30},
		Trials:  5,
		Splits:  5,
		Seed:    42,
	}
}

// LoadCSV читает батч исторических наблюдений из CSV-файла.
// Обязательные колонки: Store_id, Store_Type, Location_Type, Region_Code,
// Date, Holiday, Discount, Sales; лишние колонки (ID, #Order) игнорируются.
// Любая некорректная строка фатальна для обучения — частично загруженный
// батч не используется.
func LoadCSV(path string) ([]models.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("открытие %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("чтение %s: %w", path, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%s: нет данных", path)
	}

	col := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		col[name] = i
	}
	for _, name := range []string{"Store_id", "Store_Type", "Location_Type", "Region_Code", "Date", "Holiday", "Discount"} {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("%s: отсутствует колонка %s", path, name)
		}
	}
	_, hasSales := col["Sales"]

	records := make([]models.Record, 0, len(rows)-1)
	for line, row := range rows[1:] {
		date, err := models.ParseDate(row[col["Date"]])
		if err != nil {
			return nil, fmt.Errorf("%s, строка %d: %w", path, line+2, err)
		}

		record := models.Record{
			StoreID:      features.CanonicalStoreID(row[col["Store_id"]]),
			StoreType:    row[col["Store_Type"]],
			LocationType: row[col["Location_Type"]],
			RegionCode:   row[col["Region_Code"]],
			Date:         date,
			Holiday:      features.CanonicalFlag(row[col["Holiday"]]),
			Discount:     features.CanonicalFlag(row[col["Discount"]]),
		}

		if hasSales && row[col["Sales"]] != "" {
			sales, err := strconv.ParseFloat(row[col["Sales"]], 64)
			if err != nil {
				return nil, fmt.Errorf("%s, строка %d: некорректное значение Sales: %w", path, line+2, err)
			}
			record.Sales = models.Float(sales)
		}

		records = append(records, record)
	}
	return records, nil
}

// FromObservations конвертирует накопленные в базе наблюдения в записи
// для обучения
func FromObservations(observations []models.SalesRecord) []models.Record {
	records := make([]models.Record, len(observations))
	for i, o := range observations {
		records[i] = models.Record{
			StoreID:      o.StoreID,
			StoreType:    o.StoreType,
			LocationType: o.LocationType,
			RegionCode:   o.RegionCode,
			Date:         o.Date,
			Holiday:      o.Holiday,
			Discount:     o.Discount,
			Sales:        models.Float(o.Sales),
		}
	}
	return records
}

// PrepareTraining фильтрует и упорядочивает обучающий батч: строки с
// нулевыми продажами исключаются (закрытые дни магазина неинформативны),
// остаток устойчиво сортируется по дате
func PrepareTraining(records []models.Record) []models.Record {
	out := make([]models.Record, 0, len(records))
	for _, r := range records {
		if !r.Sales.Valid || r.Sales.Float64 == 0 {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Date.Before(out[b].Date)
	})
	return out
}

// Train обучает модель: случайный поиск гиперпараметров, затем финальное
// обучение лучшего набора на всех данных. Артефакт собирается только после
// полностью успешного обучения.
func Train(records []models.Record, cfg TrainConfig) (*model.Artifact, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("обучение: пустая выборка")
	}

	slog.Info("Поиск гиперпараметров",
		"rows", len(records),
		"trials", cfg.Trials,
		"splits", cfg.Splits,
	)
	result, err := model.RunSearch(records, model.SearchConfig{
		Trials:  cfg.Trials,
		Splits:  cfg.Splits,
		Windows: cfg.Windows,
		Seed:    cfg.Seed,
	}, model.DefaultParamGrid())
	if err != nil {
		return nil, fmt.Errorf("поиск гиперпараметров: %w", err)
	}
	slog.Info("Лучший набор гиперпараметров",
		"mape", result.Score,
		"n_estimators", result.Params.NEstimators,
		"max_depth", result.Params.MaxDepth,
		"learning_rate", result.Params.LearningRate,
	)

	pipeline := features.NewPipeline(cfg.Windows)
	vectors, err := pipeline.Fit(records)
	if err != nil {
		return nil, fmt.Errorf("обучение конвейера: %w", err)
	}

	y := make([]float64, len(records))
	for i := range records {
		y[i] = records[i].Sales.Float64
	}

	encoder := model.NewEncoder()
	if err := encoder.Fit(vectors, y); err != nil {
		return nil, fmt.Errorf("обучение кодировщика: %w", err)
	}
	X, err := encoder.Transform(vectors)
	if err != nil {
		return nil, fmt.Errorf("кодирование обучающей выборки: %w", err)
	}

	regressor := model.NewRegressor(result.Params)
	if err := regressor.Fit(X, y); err != nil {
		return nil, fmt.Errorf("обучение модели: %w", err)
	}

	return model.NewArtifact(pipeline, encoder, regressor, result.Score), nil
}
