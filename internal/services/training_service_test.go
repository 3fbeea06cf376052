package services

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milleralan1/sales-prediction-api/internal/models"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "train.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCSV(t *testing.T) {
	// лишние колонки (ID, #Order) игнорируются
	path := writeCSV(t, `ID,Store_id,Store_Type,Location_Type,Region_Code,Date,Holiday,Discount,#Order,Sales
T1,1,S1,L3,R1,2022-01-01,1,Yes,9,7011.84
T2,253,S4,L2,R1,2022-01-02,0,No,60,51789.12
T3,2,S2,L1,R2,2022-01-03,0,Yes,,
`)

	records, err := LoadCSV(path)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "1", records[0].StoreID)
	assert.Equal(t, "S1", records[0].StoreType)
	assert.Equal(t, "L3", records[0].LocationType)
	assert.Equal(t, "R1", records[0].RegionCode)
	assert.Equal(t, 1, records[0].Holiday)
	assert.Equal(t, 1, records[0].Discount)
	assert.True(t, records[0].Date.Equal(time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.True(t, records[0].Sales.Valid)
	assert.Equal(t, 7011.84, records[0].Sales.Float64)

	assert.Equal(t, "253", records[1].StoreID)
	assert.Equal(t, 0, records[1].Discount)

	// пустая колонка Sales — запись без целевого значения
	assert.False(t, records[2].Sales.Valid)
}

func TestLoadCSVWithoutSalesColumn(t *testing.T) {
	path := writeCSV(t, `Store_id,Store_Type,Location_Type,Region_Code,Date,Holiday,Discount
1,S1,L1,R1,2022-01-01,0,No
`)
	records, err := LoadCSV(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.False(t, records[0].Sales.Valid)
}

func TestLoadCSVMissingColumn(t *testing.T) {
	path := writeCSV(t, `Store_id,Store_Type,Location_Type,Date,Holiday,Discount
1,S1,L1,2022-01-01,0,No
`)
	_, err := LoadCSV(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Region_Code")
}

func TestLoadCSVBadDateIsFatal(t *testing.T) {
	path := writeCSV(t, `Store_id,Store_Type,Location_Type,Region_Code,Date,Holiday,Discount,Sales
1,S1,L1,R1,2022-01-01,0,No,10
2,S1,L1,R1,не-дата,0,No,20
`)
	_, err := LoadCSV(path)
	assert.Error(t, err)
}

func TestLoadCSVMissingFile(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "нет.csv"))
	assert.Error(t, err)
}

func TestPrepareTraining(t *testing.T) {
	d := func(day int) time.Time {
		return time.Date(2022, 1, day, 0, 0, 0, 0, time.UTC)
	}
	records := []models.Record{
		{StoreID: "1", Date: d(3), Sales: models.Float(30)},
		{StoreID: "1", Date: d(1), Sales: models.Float(10)},
		{StoreID: "1", Date: d(2), Sales: models.Float(0)},  // закрытый день
		{StoreID: "2", Date: d(1), Sales: models.NullFloat64{}}, // без целевого значения
		{StoreID: "2", Date: d(2), Sales: models.Float(20)},
	}

	out := PrepareTraining(records)
	require.Len(t, out, 3)

	// нулевые и пустые продажи исключены, остаток отсортирован по дате
	assert.Equal(t, 10.0, out[0].Sales.Float64)
	assert.Equal(t, 20.0, out[1].Sales.Float64)
	assert.Equal(t, 30.0, out[2].Sales.Float64)
}

func TestPrepareTrainingStableOrder(t *testing.T) {
	d := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []models.Record{
		{StoreID: "a", Date: d, Sales: models.Float(1)},
		{StoreID: "b", Date: d, Sales: models.Float(2)},
		{StoreID: "c", Date: d, Sales: models.Float(3)},
	}

	out := PrepareTraining(records)
	require.Len(t, out, 3)
	assert.Equal(t, "a", out[0].StoreID)
	assert.Equal(t, "b", out[1].StoreID)
	assert.Equal(t, "c", out[2].StoreID)
}

func TestFromObservations(t *testing.T) {
	date := time.Date(2022, 5, 1, 0, 0, 0, 0, time.UTC)
	observations := []models.SalesRecord{
		{
			StoreID:      "7",
			StoreType:    "S2",
			LocationType: "L2",
			RegionCode:   "R3",
			Date:         date,
			Holiday:      1,
			Discount:     0,
			Sales:        42518.37,
		},
	}

	records := FromObservations(observations)
	require.Len(t, records, 1)
	assert.Equal(t, "7", records[0].StoreID)
	assert.Equal(t, "S2", records[0].StoreType)
	assert.True(t, records[0].Date.Equal(date))
	require.True(t, records[0].Sales.Valid)
	assert.Equal(t, 42518.37, records[0].Sales.Float64)
}
