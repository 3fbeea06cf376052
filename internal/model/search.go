package model

import (
	"fmt"
	"math"
	"math/rand"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/milleralan1/sales-prediction-api/internal/features"
	"github.com/milleralan1/sales-prediction-api/internal/models"
)

// ParamGrid — пространство случайного поиска гиперпараметров
type ParamGrid struct {
	NEstimators   []int
	MaxDepth      []int
	LearningRates []float64
	Subsamples    []float64
	Colsamples    []float64
}

// DefaultParamGrid — сетка, по которой подбиралась продакшен-модель
func DefaultParamGrid() ParamGrid {
	return ParamGrid{
		NEstimators:   []int{500, 1000},
		MaxDepth:      []int{3, 6, 10},
		LearningRates: []float64{0.01, 0.05, 0.1},
		Subsamples:    []float64{0.7, 0.8},
		Colsamples:    []float64{0.7, 0.8},
	}
}

// SearchConfig — параметры случайного поиска
type SearchConfig struct {
	Trials  int
	Splits  int
	Windows []int
	Seed    int64
}

// SearchResult — лучший найденный набор гиперпараметров
type SearchResult struct {
	Params Params
	Score  float64 // MAPE по кросс-валидации
}

// RunSearch выполняет случайный поиск гиперпараметров с расширяющейся
// time-series кросс-валидацией. Записи должны быть отсортированы по дате.
// Каждый trial выполняется в своей горутине на приватных копиях конвейера,
// кодировщика и модели — обучаемое состояние между trial'ами не разделяется.
func RunSearch(records []models.Record, cfg SearchConfig, grid ParamGrid) (SearchResult, error) {
	if len(records) == 0 {
		return SearchResult{}, fmt.Errorf("search: пустая обучающая выборка")
	}

	folds := timeSeriesSplits(len(records), cfg.Splits)
	if len(folds) == 0 {
		return SearchResult{}, fmt.Errorf("search: выборка из %d строк мала для %d сплитов", len(records), cfg.Splits)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	trials := make([]Params, cfg.Trials)
	for i := range trials {
		trials[i] = Params{
			NEstimators:     grid.NEstimators[rng.Intn(len(grid.NEstimators))],
			MaxDepth:        grid.MaxDepth[rng.Intn(len(grid.MaxDepth))],
			LearningRate:    grid.LearningRates[rng.Intn(len(grid.LearningRates))],
			Subsample:       grid.Subsamples[rng.Intn(len(grid.Subsamples))],
			ColsampleByTree: grid.Colsamples[rng.Intn(len(grid.Colsamples))],
			Seed:            rng.Int63(),
		}
	}

	scores := make([]float64, len(trials))
	errs := make([]error, len(trials))

	var wg sync.WaitGroup
	for i := range trials {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			scores[i], errs[i] = crossValidate(records, trials[i], cfg.Windows, folds)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return SearchResult{}, err
		}
	}

	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] < scores[best] {
			best = i
		}
	}
	return SearchResult{Params: trials[best], Score: scores[best]}, nil
}

type foldSplit struct {
	trainEnd  int
	testStart int
	testEnd   int
}

// timeSeriesSplits — расширяющиеся сплиты: обучение на всем, что раньше
// тестового отрезка
func timeSeriesSplits(n, splits int) []foldSplit {
	testSize := n / (splits + 1)
	if testSize == 0 {
		return nil
	}
	folds := make([]foldSplit, 0, splits)
	for i := 0; i < splits; i++ {
		testStart := n - (splits-i)*testSize
		if testStart < 1 {
			continue
		}
		folds = append(folds, foldSplit{
			trainEnd:  testStart,
			testStart: testStart,
			testEnd:   testStart + testSize,
		})
	}
	return folds
}

// crossValidate — средний MAPE набора гиперпараметров по всем фолдам
func crossValidate(records []models.Record, params Params, windows []int, folds []foldSplit) (float64, error) {
	foldScores := make([]float64, 0, len(folds))

	for _, fold := range folds {
		train := records[:fold.trainEnd]
		test := records[fold.testStart:fold.testEnd]

		pipeline := features.NewPipeline(windows)
		vectors, err := pipeline.Fit(train)
		if err != nil {
			return 0, err
		}

		yTrain := targets(train)
		encoder := NewEncoder()
		if err := encoder.Fit(vectors, yTrain); err != nil {
			return 0, err
		}
		X, err := encoder.Transform(vectors)
		if err != nil {
			return 0, err
		}

		regressor := NewRegressor(params)
		if err := regressor.Fit(X, yTrain); err != nil {
			return 0, err
		}

		testVectors, err := pipeline.Transform(test)
		if err != nil {
			return 0, err
		}
		Xt, err := encoder.Transform(testVectors)
		if err != nil {
			return 0, err
		}

		preds := regressor.PredictBatch(Xt)
		foldScores = append(foldScores, mape(targets(test), preds))
	}

	return stat.Mean(foldScores, nil), nil
}

func targets(records []models.Record) []float64 {
	y := make([]float64, len(records))
	for i := range records {
		y[i] = records[i].Sales.Float64
	}
	return y
}

// mape — средняя абсолютная процентная ошибка; нулевые целевые значения
// отфильтрованы на загрузке данных
func mape(y, pred []float64) float64 {
	if len(y) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for i := range y {
		sum += math.Abs(y[i]-pred[i]) / math.Abs(y[i])
	}
	return sum / float64(len(y))
}
