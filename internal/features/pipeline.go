package features

import (
	"fmt"

	"github.com/milleralan1/sales-prediction-api/internal/models"
)

// Pipeline — конвейер инженерии признаков с фиксированным порядком стадий:
// нормализация → кросс-признаки → лаги/скользящие → календарь →
// отбрасывание сырых колонок. Порядок — требование корректности, а не
// стиля: rolling-стадия потребляет нормализованный флаг скидки, а сырая
// дата нужна календарной стадии до того, как будет отброшена.
type Pipeline struct {
	stages  []Stage
	rolling *RollingStage
	fitted  bool
}

// NewPipeline создает конвейер с заданными размерами скользящих окон
func NewPipeline(windows []int) *Pipeline {
	rolling := NewRollingStage(windows)
	return &Pipeline{
		stages: []Stage{
			&normalizeStage{},
			&interactionStage{},
			rolling,
			&calendarStage{},
		},
		rolling: rolling,
	}
}

// Fit обучает конвейер на историческом батче (строки должны содержать
// целевое значение) и возвращает обогащенный батч для обучения модели.
// Каждая стадия обучается на выходе предыдущей.
func (p *Pipeline) Fit(records []models.Record) ([]FeatureVector, error) {
	frame := NewFrame(records)
	for _, stage := range p.stages {
		if err := stage.Fit(frame); err != nil {
			return nil, fmt.Errorf("стадия %s: fit: %w", stage.Name(), err)
		}
		if err := stage.Transform(frame); err != nil {
			return nil, fmt.Errorf("стадия %s: transform: %w", stage.Name(), err)
		}
	}
	p.fitted = true
	return assemble(frame), nil
}

// Transform обогащает батч признаками. Один и тот же код работает при
// обучении и на инференсе — одинаковый магазин, дата и флаги всегда дают
// одинаковый вектор признаков.
func (p *Pipeline) Transform(records []models.Record) ([]FeatureVector, error) {
	if !p.fitted {
		return nil, fmt.Errorf("конвейер не обучен")
	}
	frame := NewFrame(records)
	for _, stage := range p.stages {
		if err := stage.Transform(frame); err != nil {
			return nil, fmt.Errorf("стадия %s: transform: %w", stage.Name(), err)
		}
	}
	return assemble(frame), nil
}

// assemble — финальный шаг отбрасывания: в вектор признаков попадают
// только накопленные стадиями Cat/Num, сырая дата, идентификатор и
// целевая переменная до модели не доходят. StoreID передается отдельно
// исключительно для target-кодирования.
func assemble(frame *Frame) []FeatureVector {
	out := make([]FeatureVector, len(frame.Rows))
	for i := range frame.Rows {
		out[i] = FeatureVector{
			StoreID: frame.Rows[i].Record.StoreID,
			Cat:     frame.Rows[i].Cat,
			Num:     frame.Rows[i].Num,
		}
	}
	return out
}

// Windows возвращает размеры скользящих окон конвейера
func (p *Pipeline) Windows() []int {
	w := make([]int, len(p.rolling.Windows))
	copy(w, p.rolling.Windows)
	return w
}

// History возвращает копию замороженных хвостов истории
func (p *Pipeline) History() map[string][]TailRow {
	return p.rolling.History()
}

// RestoreHistory восстанавливает состояние конвейера из артефакта
func (p *Pipeline) RestoreHistory(tails map[string][]TailRow) {
	p.rolling.RestoreHistory(tails)
	p.fitted = true
}

// Clone возвращает новый необученный конвейер с теми же параметрами.
// Каждый параллельный trial гиперпараметрического поиска работает со
// своей приватной копией — обучаемое состояние не разделяется.
func (p *Pipeline) Clone() *Pipeline {
	return NewPipeline(p.Windows())
}
