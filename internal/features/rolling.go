package features

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/milleralan1/sales-prediction-api/internal/models"
	"github.com/milleralan1/sales-prediction-api/pkg/utils"
)

// Глубина лагов и запас хвоста истории. Хвост хранит
// max(окно) + guardMargin строк на магазин — ровно столько, сколько нужно,
// чтобы посчитать lag_14 и скользящие средние для записи, идущей сразу
// после обучающего периода.
const (
	lagShort    = 7
	lagLong     = 14
	guardMargin = 14
)

// TailRow — одна строка хвоста истории магазина: дата и целевое значение
type TailRow struct {
	Date  time.Time          `json:"date"`
	Sales models.NullFloat64 `json:"sales"`
}

// RollingStage — stateful-ядро конвейера: лаговые и скользящие признаки
// по целевой переменной. На fit захватывает per-store хвосты истории,
// на transform сшивает хвост с текущим батчем и считает статистики в
// хронологическом порядке. Один и тот же transform работает и при
// обучении, и на инференсе — это гарантия паритета признаков.
//
// Хвосты строятся один раз на fit и дальше только читаются; прогнозы
// никогда не дописывают в них данные (нет петли обратной связи).
type RollingStage struct {
	Windows []int                `json:"windows"`
	Tails   map[string][]TailRow `json:"tails"`
}

// NewRollingStage создает стадию с заданными размерами окон
func NewRollingStage(windows []int) *RollingStage {
	w := make([]int, len(windows))
	copy(w, windows)
	return &RollingStage{
		Windows: w,
		Tails:   make(map[string][]TailRow),
	}
}

func (s *RollingStage) Name() string { return "rolling" }

// Fit захватывает хвост истории каждого магазина: строки группируются по
// идентификатору, устойчиво сортируются по дате, сохраняются последние
// max(окно)+guardMargin строк вместе с целевым значением.
func (s *RollingStage) Fit(frame *Frame) error {
	if len(s.Windows) == 0 {
		return fmt.Errorf("rolling: не заданы размеры окон")
	}

	keep := s.maxWindow() + guardMargin
	s.Tails = make(map[string][]TailRow)

	for storeID, idxs := range groupByStore(frame) {
		ordered := sortByDate(frame, idxs)
		if len(ordered) > keep {
			ordered = ordered[len(ordered)-keep:]
		}
		tail := make([]TailRow, len(ordered))
		for i, idx := range ordered {
			tail[i] = TailRow{
				Date:  frame.Rows[idx].Record.Date,
				Sales: frame.Rows[idx].Record.Sales,
			}
		}
		s.Tails[storeID] = tail
	}
	return nil
}

// Transform обогащает батч лаговыми и скользящими признаками.
// Для каждой группы магазина: хвост истории (только строки строго раньше
// самой ранней даты группы, иначе обучающий батч склеился бы сам с собой),
// затем строки группы по возрастанию даты; статистики считаются по этому
// хронологическому ряду и позиционно возвращаются в исходный порядок батча.
func (s *RollingStage) Transform(frame *Frame) error {
	for storeID, idxs := range groupByStore(frame) {
		s.transformGroup(frame, storeID, idxs)
	}
	return nil
}

func (s *RollingStage) transformGroup(frame *Frame, storeID string, idxs []int) {
	tail, seen := s.Tails[storeID]
	if !seen {
		// магазин не встречался в обучении: все производные признаки —
		// пропуски (NaN), не ноль и не ошибка
		for _, idx := range idxs {
			for _, name := range s.featureNames() {
				frame.Rows[idx].Num[name] = math.NaN()
			}
		}
		return
	}

	ordered := sortByDate(frame, idxs)
	minDate := frame.Rows[ordered[0]].Record.Date

	// хронологический ряд: история до первой даты батча, затем сам батч
	series := make([]float64, 0, len(tail)+len(ordered))
	for _, tr := range tail {
		if !tr.Date.Before(minDate) {
			break
		}
		series = append(series, nullToNaN(tr.Sales))
	}
	base := len(series)
	for _, idx := range ordered {
		series = append(series, nullToNaN(frame.Rows[idx].Record.Sales))
	}

	for i := range ordered {
		pos := base + i
		// позиционное восстановление: i-я по дате строка группы
		// прикрепляется к i-й строке группы в порядке исходного батча
		num := frame.Rows[idxs[i]].Num
		num["Sales_lag_7"] = lagAt(series, pos, lagShort)
		num["Sales_lag_14"] = lagAt(series, pos, lagLong)
		for _, w := range s.Windows {
			num[rollMeanName(w)] = rollMeanAt(series, pos, w)
		}
	}
}

// lagAt возвращает значение ряда на offset позиций раньше pos
func lagAt(series []float64, pos, offset int) float64 {
	if pos-offset < 0 {
		return math.NaN()
	}
	return series[pos-offset]
}

// rollMeanAt — среднее окна из w значений, заканчивающегося на pos-1.
// Сдвиг на единицу обязателен: окно не видит собственное (неизвестное в
// момент прогноза) целевое значение строки. Если в окне меньше w значений
// или встретился пропуск — результат NaN.
func rollMeanAt(series []float64, pos, w int) float64 {
	lo := pos - w
	if lo < 0 {
		return math.NaN()
	}
	window := series[lo:pos]
	for _, v := range window {
		if math.IsNaN(v) {
			return math.NaN()
		}
	}
	return utils.Mean(window)
}

// History возвращает копию захваченных хвостов (для сериализации артефакта)
func (s *RollingStage) History() map[string][]TailRow {
	out := make(map[string][]TailRow, len(s.Tails))
	for storeID, tail := range s.Tails {
		cp := make([]TailRow, len(tail))
		copy(cp, tail)
		out[storeID] = cp
	}
	return out
}

// RestoreHistory восстанавливает хвосты из артефакта
func (s *RollingStage) RestoreHistory(tails map[string][]TailRow) {
	s.Tails = make(map[string][]TailRow, len(tails))
	for storeID, tail := range tails {
		cp := make([]TailRow, len(tail))
		copy(cp, tail)
		s.Tails[storeID] = cp
	}
}

func (s *RollingStage) maxWindow() int {
	max := 0
	for _, w := range s.Windows {
		if w > max {
			max = w
		}
	}
	return max
}

func (s *RollingStage) featureNames() []string {
	names := []string{"Sales_lag_7", "Sales_lag_14"}
	for _, w := range s.Windows {
		names = append(names, rollMeanName(w))
	}
	return names
}

func rollMeanName(w int) string {
	return fmt.Sprintf("Sales_roll_mean_%d", w)
}

// groupByStore группирует индексы строк по магазину, сохраняя порядок
// появления строк в батче
func groupByStore(frame *Frame) map[string][]int {
	groups := make(map[string][]int)
	for i := range frame.Rows {
		storeID := frame.Rows[i].Record.StoreID
		groups[storeID] = append(groups[storeID], i)
	}
	return groups
}

// sortByDate возвращает индексы группы, устойчиво отсортированные по дате:
// равные даты сохраняют порядок исходного батча
func sortByDate(frame *Frame, idxs []int) []int {
	ordered := make([]int, len(idxs))
	copy(ordered, idxs)
	sort.SliceStable(ordered, func(a, b int) bool {
		return frame.Rows[ordered[a]].Record.Date.Before(frame.Rows[ordered[b]].Record.Date)
	})
	return ordered
}

func nullToNaN(v models.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
