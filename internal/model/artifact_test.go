package model

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milleralan1/sales-prediction-api/internal/features"
	"github.com/milleralan1/sales-prediction-api/internal/models"
)

// trainedArtifact обучает маленькую модель на синтетической истории
func trainedArtifact(t *testing.T) *Artifact {
	t.Helper()
	records := searchRecords()

	pipeline := features.NewPipeline([]int{7})
	vectors, err := pipeline.Fit(records)
	require.NoError(t, err)

	y := make([]float64, len(records))
	for i := range records {
		y[i] = records[i].Sales.Float64
	}

	encoder := NewEncoder()
	require.NoError(t, encoder.Fit(vectors, y))
	X, err := encoder.Transform(vectors)
	require.NoError(t, err)

	regressor := NewRegressor(Params{
		NEstimators:     20,
		MaxDepth:        3,
		LearningRate:    0.3,
		Subsample:       1.0,
		ColsampleByTree: 1.0,
		Seed:            7,
	})
	require.NoError(t, regressor.Fit(X, y))

	return NewArtifact(pipeline, encoder, regressor, 0.12)
}

func artifactPredict(t *testing.T, a *Artifact, record models.Record) float64 {
	t.Helper()
	vectors, err := a.Pipeline().Transform([]models.Record{record})
	require.NoError(t, err)
	X, err := a.Encoder.Transform(vectors)
	require.NoError(t, err)
	return a.Regressor.Predict(X[0])
}

func TestArtifactSaveLoadRoundTrip(t *testing.T) {
	artifact := trainedArtifact(t)
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, artifact.Save(path))

	loaded, err := LoadArtifact(path)
	require.NoError(t, err)

	assert.Equal(t, artifact.Version, loaded.Version)
	assert.Equal(t, artifact.Windows, loaded.Windows)
	assert.InDelta(t, artifact.BestScore, loaded.BestScore, 1e-9)
	assert.Len(t, loaded.History, len(artifact.History))

	// загруженный артефакт дает тот же прогноз, что и исходный
	query := models.Record{
		StoreID:      "1",
		StoreType:    "S1",
		LocationType: "L1",
		RegionCode:   "R1",
		Date:         time.Date(2022, 3, 2, 0, 0, 0, 0, time.UTC),
	}
	assert.InDelta(t, artifactPredict(t, artifact, query), artifactPredict(t, loaded, query), 1e-9)
}

// Загруженный артефакт разделяется конкурентными запросами: первые
// обращения к конвейеру сразу после загрузки не должны гоняться за его
// восстановление
func TestArtifactConcurrentPredictAfterLoad(t *testing.T) {
	artifact := trainedArtifact(t)
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, artifact.Save(path))

	loaded, err := LoadArtifact(path)
	require.NoError(t, err)

	query := models.Record{
		StoreID:      "1",
		StoreType:    "S1",
		LocationType: "L1",
		RegionCode:   "R1",
		Date:         time.Date(2022, 3, 2, 0, 0, 0, 0, time.UTC),
	}
	want := artifactPredict(t, artifact, query)

	var wg sync.WaitGroup
	preds := make([]float64, 8)
	errs := make([]error, 8)
	for i := range preds {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			vectors, err := loaded.Pipeline().Transform([]models.Record{query})
			if err != nil {
				errs[i] = err
				return
			}
			X, err := loaded.Encoder.Transform(vectors)
			if err != nil {
				errs[i] = err
				return
			}
			preds[i] = loaded.Regressor.Predict(X[0])
		}(i)
	}
	wg.Wait()

	for i := range preds {
		require.NoError(t, errs[i])
		assert.InDelta(t, want, preds[i], 1e-9)
	}
}

func TestArtifactVersioned(t *testing.T) {
	a := trainedArtifact(t)
	assert.NotEmpty(t, a.Version)
	assert.False(t, a.TrainedAt.IsZero())

	b := trainedArtifact(t)
	assert.NotEqual(t, a.Version, b.Version)
}

func TestLoadArtifactMissingFile(t *testing.T) {
	_, err := LoadArtifact(filepath.Join(t.TempDir(), "нет.json"))
	assert.Error(t, err)
}

func TestLoadArtifactIncomplete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":"x"}`), 0o644))

	_, err := LoadArtifact(path)
	assert.Error(t, err)
}

func TestLoadArtifactCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte("не json"), 0o644))

	_, err := LoadArtifact(path)
	assert.Error(t, err)
}
