package model

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/milleralan1/sales-prediction-api/internal/features"
)

// Artifact — сериализованный бандл обученной модели: замороженная история
// конвейера, кодировщик, бустинг и метаданные обучения. Файл пишется
// только после полностью успешного обучения и загружается один раз при
// старте сервиса.
type Artifact struct {
	Version   string                        `json:"version"`
	TrainedAt time.Time                     `json:"trained_at"`
	Windows   []int                         `json:"windows"`
	History   map[string][]features.TailRow `json:"history"`
	Encoder   *Encoder                      `json:"encoder"`
	Regressor *Regressor                    `json:"regressor"`
	BestScore float64                       `json:"best_score"` // MAPE по CV

	pipelineOnce sync.Once
	pipeline     *features.Pipeline
}

// NewArtifact собирает бандл из обученных компонентов
func NewArtifact(pipeline *features.Pipeline, encoder *Encoder, regressor *Regressor, bestScore float64) *Artifact {
	return &Artifact{
		Version:   uuid.New().String(),
		TrainedAt: time.Now().UTC(),
		Windows:   pipeline.Windows(),
		History:   pipeline.History(),
		Encoder:   encoder,
		Regressor: regressor,
		BestScore: bestScore,
		pipeline:  pipeline,
	}
}

// Pipeline возвращает конвейер артефакта; после загрузки с диска конвейер
// восстанавливается из сохраненных окон и хвостов истории. Восстановление
// выполняется ровно один раз — артефакт разделяется конкурентными запросами
func (a *Artifact) Pipeline() *features.Pipeline {
	a.pipelineOnce.Do(func() {
		if a.pipeline == nil {
			p := features.NewPipeline(a.Windows)
			p.RestoreHistory(a.History)
			a.pipeline = p
		}
	})
	return a.pipeline
}

// Save записывает артефакт на диск
func (a *Artifact) Save(path string) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("сериализация артефакта: %w", err)
	}

	// запись через временный файл: частично записанный артефакт не
	// должен быть виден загрузчику
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("запись артефакта: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("запись артефакта: %w", err)
	}
	return nil
}

// LoadArtifact читает артефакт с диска и восстанавливает его состояние
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("чтение артефакта: %w", err)
	}

	var artifact Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("десериализация артефакта: %w", err)
	}
	if artifact.Encoder == nil || artifact.Regressor == nil {
		return nil, fmt.Errorf("артефакт неполон: %s", path)
	}
	artifact.Encoder.rebuildIndex()
	// конвейер восстанавливается до публикации артефакта: загруженная
	// модель полностью готова к конкурентным запросам
	artifact.Pipeline()
	return &artifact, nil
}
