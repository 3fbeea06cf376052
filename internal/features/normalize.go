package features

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CanonicalStoreID приводит идентификатор магазина к каноничной строке,
// чтобы 7, 7.0 и "7" давали один и тот же ключ истории.
func CanonicalStoreID(value any) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		// JSON-числа приходят как float64; целочисленные печатаем без дроби
		if v == math.Trunc(v) && !math.IsInf(v, 0) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// CanonicalFlag приводит булево-подобное значение ("Yes"/"No", bool,
// число, числовая строка) к каноничному 0/1. Нераспознанное или
// отсутствующее значение молча становится 0 — осознанный мягкий фолбэк
// для входных данных на инференсе, в отличие от строгой проверки
// категориальных полей в валидаторе.
func CanonicalFlag(value any) int {
	switch v := value.(type) {
	case bool:
		if v {
			return 1
		}
		return 0
	case float64:
		if v != 0 {
			return 1
		}
		return 0
	case int:
		if v != 0 {
			return 1
		}
		return 0
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "yes":
			return 1
		case "no":
			return 0
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && f != 0 {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// normalizeStage — первая стадия конвейера: повторная канонизация уже
// типизированных записей. Идемпотентна, поэтому записи, собранные из
// запроса или из CSV, проходят через один и тот же код.
type normalizeStage struct{}

func (s *normalizeStage) Name() string { return "normalize" }

func (s *normalizeStage) Fit(frame *Frame) error { return nil }

func (s *normalizeStage) Transform(frame *Frame) error {
	for i := range frame.Rows {
		row := &frame.Rows[i]
		row.Record.StoreID = CanonicalStoreID(row.Record.StoreID)
		row.Record.Holiday = CanonicalFlag(row.Record.Holiday)
		row.Record.Discount = CanonicalFlag(row.Record.Discount)

		// категориальные поля и нормализованные флаги становятся
		// признаками модели
		row.Cat["Store_Type"] = row.Record.StoreType
		row.Cat["Location_Type"] = row.Record.LocationType
		row.Cat["Region_Code"] = row.Record.RegionCode
		row.Num["Holiday"] = float64(row.Record.Holiday)
		row.Num["Discount"] = float64(row.Record.Discount)
	}
	return nil
}
