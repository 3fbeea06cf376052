package services

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/milleralan1/sales-prediction-api/internal/features"
	"github.com/milleralan1/sales-prediction-api/internal/model"
	"github.com/milleralan1/sales-prediction-api/internal/models"
	"github.com/milleralan1/sales-prediction-api/pkg/utils"
)

// ErrModelNotLoaded — артефакт модели не загружен; отдается клиенту как 503
var ErrModelNotLoaded = errors.New("модель не загружена")

// PredictionService выполняет прогноз: валидация → нормализация →
// конвейер признаков → модель. Загруженный артефакт (включая замороженную
// историю) иммутабелен и разделяется конкурентными запросами; RWMutex
// захватывается на запись только при перезагрузке артефакта.
type PredictionService struct {
	mu           sync.RWMutex
	artifact     *model.Artifact
	artifactPath string
	data         *DataService // nil — журналирование прогнозов отключено
}

// NewPredictionService создает сервис прогнозов
func NewPredictionService(artifactPath string, data *DataService) *PredictionService {
	return &PredictionService{
		artifactPath: artifactPath,
		data:         data,
	}
}

// LoadModel загружает артефакт с диска и атомарно публикует его для
// обслуживания запросов. Вызывается при старте и по запросу администратора.
func (ps *PredictionService) LoadModel() error {
	artifact, err := model.LoadArtifact(ps.artifactPath)
	if err != nil {
		return err
	}

	ps.mu.Lock()
	ps.artifact = artifact
	ps.mu.Unlock()

	slog.Info("Модель загружена",
		"version", artifact.Version,
		"trained_at", artifact.TrainedAt,
		"stores", len(artifact.History),
	)
	return nil
}

// ModelVersion возвращает версию загруженной модели
func (ps *PredictionService) ModelVersion() (string, bool) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	if ps.artifact == nil {
		return "", false
	}
	return ps.artifact.Version, true
}

// SetArtifact подставляет уже собранный артефакт (для тестов)
func (ps *PredictionService) SetArtifact(artifact *model.Artifact) {
	ps.mu.Lock()
	ps.artifact = artifact
	ps.mu.Unlock()
}

// Predict выполняет прогноз для одного запроса. Запрос — сырой JSON-объект:
// валидатор строго проверяет обязательные поля и категориальные домены,
// нормализатор мягко приводит идентификатор и булевы флаги.
func (ps *PredictionService) Predict(data map[string]any) (*models.Prediction, error) {
	ps.mu.RLock()
	artifact := ps.artifact
	ps.mu.RUnlock()

	if artifact == nil {
		return nil, ErrModelNotLoaded
	}

	if verr := models.ValidateRequest(data); verr != nil {
		return nil, verr
	}

	record, err := recordFromRequest(data)
	if err != nil {
		return nil, err
	}

	vectors, err := artifact.Pipeline().Transform([]models.Record{record})
	if err != nil {
		return nil, fmt.Errorf("вычисление признаков: %w", err)
	}
	X, err := artifact.Encoder.Transform(vectors)
	if err != nil {
		return nil, fmt.Errorf("кодирование признаков: %w", err)
	}

	sales := utils.Round2(utils.SafeFloat(artifact.Regressor.Predict(X[0])))

	// в ответе — канонизированный идентификатор: числовой 7 и строковый
	// "7" отвечаются одним и тем же store_id
	prediction := &models.Prediction{
		Sales:   sales,
		StoreID: record.StoreID,
	}

	// журналирование не должно ронять прогноз
	if ps.data != nil {
		entry := &models.PredictionLog{
			StoreID:      record.StoreID,
			Date:         record.Date,
			Sales:        sales,
			ModelVersion: artifact.Version,
		}
		if err := ps.data.SavePrediction(entry); err != nil {
			slog.Warn("Не удалось сохранить прогноз в журнал", "error", err)
		}
	}

	return prediction, nil
}

// recordFromRequest собирает типизированную запись из провалидированного
// запроса; неправильная дата — неожиданная ошибка обработки (500)
func recordFromRequest(data map[string]any) (models.Record, error) {
	dateStr, ok := data["Date"].(string)
	if !ok {
		dateStr = fmt.Sprint(data["Date"])
	}
	date, err := models.ParseDate(dateStr)
	if err != nil {
		return models.Record{}, err
	}

	return models.Record{
		StoreID:      features.CanonicalStoreID(data["Store_id"]),
		StoreType:    data["Store_Type"].(string),
		LocationType: data["Location_Type"].(string),
		RegionCode:   data["Region_Code"].(string),
		Date:         date,
		Holiday:      features.CanonicalFlag(data["Holiday"]),
		Discount:     features.CanonicalFlag(data["Discount"]),
	}, nil
}
