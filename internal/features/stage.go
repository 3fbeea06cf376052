package features

import (
	"github.com/milleralan1/sales-prediction-api/internal/models"
)

// Row — одна строка батча с накапливаемыми признаками.
// Num использует NaN как маркер пропущенного значения: лаговые и
// скользящие признаки для магазина без истории остаются NaN, и модель
// обрабатывает пропуск сама (маршрутизация в деревьях).
type Row struct {
	Record models.Record
	Cat    map[string]string
	Num    map[string]float64
}

// Frame — упорядоченный батч строк. Порядок строк соответствует порядку
// исходного батча и сохраняется всеми стадиями.
type Frame struct {
	Rows []Row
}

// NewFrame оборачивает записи в батч
func NewFrame(records []models.Record) *Frame {
	rows := make([]Row, len(records))
	for i, r := range records {
		rows[i] = Row{
			Record: r,
			Cat:    make(map[string]string),
			Num:    make(map[string]float64),
		}
	}
	return &Frame{Rows: rows}
}

// Stage — одна стадия конвейера признаков.
// Fit обучает состояние стадии (для большинства стадий — no-op),
// Transform обогащает батч признаками. Порядок стадий фиксируется
// конструктором конвейера, а не соглашением.
type Stage interface {
	Name() string
	Fit(frame *Frame) error
	Transform(frame *Frame) error
}

// FeatureVector — итоговый набор признаков одной строки, передаваемый
// модели. Сырая дата, идентификатор и целевая переменная сюда не
// попадают (шаг отбрасывания сырых колонок), StoreID передается отдельно
// только для target-кодирования.
type FeatureVector struct {
	StoreID string
	Cat     map[string]string
	Num     map[string]float64
}
