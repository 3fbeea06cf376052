package models

import (
	"fmt"
	"strings"
)

// RequiredFields — обязательные поля запроса на прогноз
var RequiredFields = []string{
	"Store_id", "Store_Type", "Location_Type",
	"Region_Code", "Date", "Holiday", "Discount",
}

// ValidValues — допустимые значения категориальных полей (по обучающим данным)
var ValidValues = map[string][]string{
	"Store_Type":    {"S1", "S2", "S3", "S4"},
	"Location_Type": {"L1", "L2", "L3", "L4", "L5"},
	"Region_Code":   {"R1", "R2", "R3", "R4"},
}

// категориальные поля проверяются в фиксированном порядке,
// чтобы сообщение об ошибке было детерминированным
var categoricalOrder = []string{"Store_Type", "Location_Type", "Region_Code"}

// Виды ошибок валидации
const (
	KindMissingFields      = "MissingFields"
	KindInvalidDomainValue = "InvalidDomainValue"
)

// ValidationError — ошибка валидации входного запроса.
// Всегда восстановимая: отдается клиенту как 400, сервис продолжает работать.
type ValidationError struct {
	Kind    string
	Fields  []string // отсутствующие поля (для MissingFields)
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidateRequest проверяет входной запрос на прогноз.
// Сначала собираются ВСЕ отсутствующие обязательные поля, затем
// категориальные поля проверяются на принадлежность допустимым значениям
// (строго — в отличие от булевых полей, которые нормализатор молча
// приводит к 0/1).
func ValidateRequest(data map[string]any) *ValidationError {
	var missing []string
	for _, field := range RequiredFields {
		if _, ok := data[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{
			Kind:    KindMissingFields,
			Fields:  missing,
			Message: fmt.Sprintf("Missing fields: %s", strings.Join(missing, ", ")),
		}
	}

	for _, field := range categoricalOrder {
		allowed := ValidValues[field]
		value, ok := data[field].(string)
		if !ok || !contains(allowed, value) {
			return &ValidationError{
				Kind:    KindInvalidDomainValue,
				Fields:  []string{field},
				Message: fmt.Sprintf("Invalid %s. Must be one of: %s", field, strings.Join(allowed, ", ")),
			}
		}
	}

	return nil
}

func contains(values []string, v string) bool {
	for _, item := range values {
		if item == v {
			return true
		}
	}
	return false
}
