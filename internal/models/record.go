package models

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// NullFloat64 для обработки пустых строк в float64 полях
type NullFloat64 struct {
	sql.NullFloat64
}

// Float возвращает NullFloat64 с валидным значением
func Float(v float64) NullFloat64 {
	return NullFloat64{sql.NullFloat64{Float64: v, Valid: true}}
}

// Scan реализует интерфейс Scanner для обработки пустых строк
func (nf *NullFloat64) Scan(value interface{}) error {
	if value == nil {
		nf.Float64, nf.Valid = 0.0, false
		return nil
	}

	switch v := value.(type) {
	case float64:
		nf.Float64, nf.Valid = v, true
		return nil
	case string:
		if v == "" {
			nf.Float64, nf.Valid = 0.0, false
			return nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			nf.Float64, nf.Valid = 0.0, false
			return nil
		}
		nf.Float64, nf.Valid = f, true
		return nil
	case []byte:
		if len(v) == 0 {
			nf.Float64, nf.Valid = 0.0, false
			return nil
		}
		f, err := strconv.ParseFloat(string(v), 64)
		if err != nil {
			nf.Float64, nf.Valid = 0.0, false
			return nil
		}
		nf.Float64, nf.Valid = f, true
		return nil
	}

	return fmt.Errorf("не удается конвертировать %T в NullFloat64", value)
}

// Value реализует интерфейс Valuer
func (nf NullFloat64) Value() (driver.Value, error) {
	if !nf.Valid {
		return nil, nil
	}
	return nf.Float64, nil
}

// MarshalJSON для корректной сериализации в JSON
func (nf NullFloat64) MarshalJSON() ([]byte, error) {
	if !nf.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(nf.Float64)
}

// UnmarshalJSON для корректной десериализации из JSON
func (nf *NullFloat64) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		nf.Float64, nf.Valid = 0.0, false
		return nil
	}
	if err := json.Unmarshal(data, &nf.Float64); err != nil {
		return err
	}
	nf.Valid = true
	return nil
}

// Record — одно наблюдение (запрос на прогноз или историческая строка).
// StoreID всегда хранится строкой, чтобы числовые и строковые идентификаторы
// ("7" и 7) попадали в один и тот же ключ истории.
type Record struct {
	StoreID      string      `json:"store_id"`
	StoreType    string      `json:"store_type"`
	LocationType string      `json:"location_type"`
	RegionCode   string      `json:"region_code"`
	Date         time.Time   `json:"date"`
	Holiday      int         `json:"holiday"`
	Discount     int         `json:"discount"`
	Sales        NullFloat64 `json:"sales"` // присутствует только у исторических строк
}

// dateLayouts — допустимые форматы поля Date во входных данных
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/01/02",
}

// ParseDate парсит дату из входного запроса или CSV
func ParseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("неверный формат даты: %q", value)
}
