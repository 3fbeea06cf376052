package model

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milleralan1/sales-prediction-api/internal/models"
)

func TestTimeSeriesSplits(t *testing.T) {
	folds := timeSeriesSplits(60, 5)
	require.Len(t, folds, 5)

	// расширяющееся обучающее окно, тестовые отрезки по 10 строк
	assert.Equal(t, foldSplit{trainEnd: 10, testStart: 10, testEnd: 20}, folds[0])
	assert.Equal(t, foldSplit{trainEnd: 50, testStart: 50, testEnd: 60}, folds[4])

	for _, fold := range folds {
		assert.Equal(t, fold.trainEnd, fold.testStart)
		assert.Equal(t, 10, fold.testEnd-fold.testStart)
	}
}

func TestTimeSeriesSplitsTooSmall(t *testing.T) {
	assert.Empty(t, timeSeriesSplits(3, 5))
}

func TestMape(t *testing.T) {
	got := mape([]float64{100, 200}, []float64{110, 180})
	assert.InDelta(t, 0.1, got, 1e-9)

	assert.True(t, math.IsNaN(mape(nil, nil)))
}

// синтетическая история: два магазина, продажи с недельной сезонностью
func searchRecords() []models.Record {
	start := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	records := make([]models.Record, 0, 120)
	for day := 0; day < 60; day++ {
		date := start.AddDate(0, 0, day)
		for _, store := range []string{"1", "2"} {
			base := 100.0
			if store == "2" {
				base = 300.0
			}
			sales := base + 20*float64(day%7)
			records = append(records, models.Record{
				StoreID:      store,
				StoreType:    "S1",
				LocationType: "L1",
				RegionCode:   "R1",
				Date:         date,
				Sales:        models.Float(sales),
			})
		}
	}
	return records
}

func TestRunSearch(t *testing.T) {
	grid := ParamGrid{
		NEstimators:   []int{20},
		MaxDepth:      []int{3},
		LearningRates: []float64{0.1},
		Subsamples:    []float64{1.0},
		Colsamples:    []float64{1.0},
	}

	result, err := RunSearch(searchRecords(), SearchConfig{
		Trials:  2,
		Splits:  3,
		Windows: []int{7},
		Seed:    42,
	}, grid)
	require.NoError(t, err)

	assert.Equal(t, 20, result.Params.NEstimators)
	assert.Equal(t, 3, result.Params.MaxDepth)
	assert.False(t, math.IsNaN(result.Score))
	assert.Greater(t, result.Score, 0.0)
	// на регулярном сигнале модель обязана быть лучше случайной
	assert.Less(t, result.Score, 1.0)
}

func TestRunSearchEmpty(t *testing.T) {
	_, err := RunSearch(nil, SearchConfig{Trials: 1, Splits: 3}, DefaultParamGrid())
	assert.Error(t, err)
}

func TestRunSearchTooFewRows(t *testing.T) {
	records := searchRecords()[:2]
	_, err := RunSearch(records, SearchConfig{Trials: 1, Splits: 5, Windows: []int{7}}, DefaultParamGrid())
	assert.Error(t, err)
}
