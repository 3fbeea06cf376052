package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() map[string]any {
	return map[string]any{
		"Store_id":      "7",
		"Store_Type":    "S1",
		"Location_Type": "L1",
		"Region_Code":   "R1",
		"Date":          "2022-01-01",
		"Holiday":       0,
		"Discount":      "Yes",
	}
}

func TestValidateRequestOK(t *testing.T) {
	assert.Nil(t, ValidateRequest(validRequest()))
}

func TestValidateRequestMissingField(t *testing.T) {
	data := validRequest()
	delete(data, "Region_Code")

	err := ValidateRequest(data)
	require.NotNil(t, err)
	assert.Equal(t, KindMissingFields, err.Kind)
	assert.Equal(t, []string{"Region_Code"}, err.Fields)
	assert.Equal(t, "Missing fields: Region_Code", err.Message)
}

// Отсутствующие поля собираются все сразу, в порядке объявления
func TestValidateRequestCollectsAllMissing(t *testing.T) {
	data := validRequest()
	delete(data, "Store_id")
	delete(data, "Date")
	delete(data, "Discount")

	err := ValidateRequest(data)
	require.NotNil(t, err)
	assert.Equal(t, KindMissingFields, err.Kind)
	assert.Equal(t, "Missing fields: Store_id, Date, Discount", err.Message)
}

func TestValidateRequestInvalidStoreType(t *testing.T) {
	data := validRequest()
	data["Store_Type"] = "S9"

	err := ValidateRequest(data)
	require.NotNil(t, err)
	assert.Equal(t, KindInvalidDomainValue, err.Kind)
	assert.Equal(t, "Invalid Store_Type. Must be one of: S1, S2, S3, S4", err.Message)
}

func TestValidateRequestInvalidLocationAndRegion(t *testing.T) {
	data := validRequest()
	data["Location_Type"] = "L9"
	data["Region_Code"] = "R9"

	// поля проверяются в фиксированном порядке — первым сообщается Location_Type
	err := ValidateRequest(data)
	require.NotNil(t, err)
	assert.Equal(t, "Invalid Location_Type. Must be one of: L1, L2, L3, L4, L5", err.Message)
}

// Категориальное поле обязано быть строкой — число не проходит
func TestValidateRequestNonStringCategorical(t *testing.T) {
	data := validRequest()
	data["Region_Code"] = 4.0

	err := ValidateRequest(data)
	require.NotNil(t, err)
	assert.Equal(t, KindInvalidDomainValue, err.Kind)
	assert.Equal(t, "Invalid Region_Code. Must be one of: R1, R2, R3, R4", err.Message)
}

// Пропуски имеют приоритет над доменными ошибками
func TestValidateRequestMissingBeforeDomain(t *testing.T) {
	data := validRequest()
	delete(data, "Date")
	data["Store_Type"] = "S9"

	err := ValidateRequest(data)
	require.NotNil(t, err)
	assert.Equal(t, KindMissingFields, err.Kind)
}
