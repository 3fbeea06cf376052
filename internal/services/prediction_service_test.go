package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milleralan1/sales-prediction-api/internal/features"
	"github.com/milleralan1/sales-prediction-api/internal/model"
	"github.com/milleralan1/sales-prediction-api/internal/models"
)

// testHistory — 30 дней продаж одного магазина
func testHistory() []models.Record {
	start := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	records := make([]models.Record, 0, 30)
	for i := 0; i < 30; i++ {
		records = append(records, models.Record{
			StoreID:      "1",
			StoreType:    "S1",
			LocationType: "L1",
			RegionCode:   "R1",
			Date:         start.AddDate(0, 0, i),
			Sales:        models.Float(1000 + 50*float64(i%7)),
		})
	}
	return records
}

func testArtifact(t *testing.T) *model.Artifact {
	t.Helper()
	records := testHistory()

	pipeline := features.NewPipeline([]int{7})
	vectors, err := pipeline.Fit(records)
	require.NoError(t, err)

	y := make([]float64, len(records))
	for i := range records {
		y[i] = records[i].Sales.Float64
	}

	encoder := model.NewEncoder()
	require.NoError(t, encoder.Fit(vectors, y))
	X, err := encoder.Transform(vectors)
	require.NoError(t, err)

	regressor := model.NewRegressor(model.Params{
		NEstimators:     20,
		MaxDepth:        3,
		LearningRate:    0.3,
		Subsample:       1.0,
		ColsampleByTree: 1.0,
		Seed:            7,
	})
	require.NoError(t, regressor.Fit(X, y))

	return model.NewArtifact(pipeline, encoder, regressor, 0.1)
}

func predictRequest() map[string]any {
	return map[string]any{
		"Store_id":      "1",
		"Store_Type":    "S1",
		"Location_Type": "L1",
		"Region_Code":   "R1",
		"Date":          "2022-02-01",
		"Holiday":       0,
		"Discount":      "No",
	}
}

func TestPredictModelNotLoaded(t *testing.T) {
	ps := NewPredictionService("нет-файла.json", nil)
	_, err := ps.Predict(predictRequest())
	assert.True(t, errors.Is(err, ErrModelNotLoaded))
}

func TestPredictValidationError(t *testing.T) {
	ps := NewPredictionService("", nil)
	ps.SetArtifact(testArtifact(t))

	data := predictRequest()
	delete(data, "Region_Code")

	_, err := ps.Predict(data)
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Missing fields: Region_Code", verr.Message)
}

func TestPredictHappyPath(t *testing.T) {
	ps := NewPredictionService("", nil)
	ps.SetArtifact(testArtifact(t))

	prediction, err := ps.Predict(predictRequest())
	require.NoError(t, err)
	require.NotNil(t, prediction)

	assert.Equal(t, "1", prediction.StoreID)
	assert.Greater(t, prediction.Sales, 0.0)
	// обучающий сигнал лежит в диапазоне 1000..1300
	assert.InDelta(t, 1150, prediction.Sales, 400)
}

// Числовой идентификатор магазина из JSON канонизируется — история находится
func TestPredictNumericStoreID(t *testing.T) {
	ps := NewPredictionService("", nil)
	ps.SetArtifact(testArtifact(t))

	data := predictRequest()
	data["Store_id"] = 1.0

	prediction, err := ps.Predict(data)
	require.NoError(t, err)
	assert.Equal(t, "1", prediction.StoreID)
}

func TestPredictBadDate(t *testing.T) {
	ps := NewPredictionService("", nil)
	ps.SetArtifact(testArtifact(t))

	data := predictRequest()
	data["Date"] = "не-дата"

	_, err := ps.Predict(data)
	require.Error(t, err)
	var verr *models.ValidationError
	assert.False(t, errors.As(err, &verr))
}

func TestModelVersion(t *testing.T) {
	ps := NewPredictionService("", nil)
	_, loaded := ps.ModelVersion()
	assert.False(t, loaded)

	artifact := testArtifact(t)
	ps.SetArtifact(artifact)
	version, loaded := ps.ModelVersion()
	assert.True(t, loaded)
	assert.Equal(t, artifact.Version, version)
}

func TestLoadModelFromDisk(t *testing.T) {
	artifact := testArtifact(t)
	path := t.TempDir() + "/model.json"
	require.NoError(t, artifact.Save(path))

	ps := NewPredictionService(path, nil)
	require.NoError(t, ps.LoadModel())

	prediction, err := ps.Predict(predictRequest())
	require.NoError(t, err)
	assert.Equal(t, "1", prediction.StoreID)
}
