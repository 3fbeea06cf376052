package features

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milleralan1/sales-prediction-api/internal/models"
)

func calendarFeatures(t *testing.T, date string) map[string]float64 {
	t.Helper()
	frame := NewFrame([]models.Record{queryRecord("1", date)})
	stage := &calendarStage{}
	require.NoError(t, stage.Transform(frame))
	return frame.Rows[0].Num
}

func TestCalendarBasicFeatures(t *testing.T) {
	// 2022-03-15 — вторник
	num := calendarFeatures(t, "2022-03-15")

	assert.Equal(t, 15.0, num["Day"])
	assert.Equal(t, 1.0, num["DayOfWeek"])
	assert.Equal(t, 3.0, num["Month"])
	assert.Equal(t, 0.0, num["is_month_start"])
	assert.Equal(t, 0.0, num["is_month_end"])
	assert.Equal(t, 1.0, num["is_payday"])
	assert.InDelta(t, 1.0, num["month_sin"], 1e-9)
	assert.InDelta(t, 0.0, num["month_cos"], 1e-9)
}

func TestCalendarWeekStartsOnMonday(t *testing.T) {
	// 2022-01-03 — понедельник, 2022-01-09 — воскресенье
	assert.Equal(t, 0.0, calendarFeatures(t, "2022-01-03")["DayOfWeek"])
	assert.Equal(t, 6.0, calendarFeatures(t, "2022-01-09")["DayOfWeek"])
}

func TestCalendarMonthBoundaries(t *testing.T) {
	first := calendarFeatures(t, "2022-06-01")
	assert.Equal(t, 1.0, first["is_month_start"])
	assert.Equal(t, 1.0, first["is_payday"])

	third := calendarFeatures(t, "2022-06-03")
	assert.Equal(t, 1.0, third["is_month_start"])
	assert.Equal(t, 0.0, third["is_payday"])

	end := calendarFeatures(t, "2022-06-28")
	assert.Equal(t, 1.0, end["is_month_end"])
	assert.Equal(t, 0.0, end["is_month_start"])
}

// Декабрь и январь — соседи на окружности месяца
func TestCalendarCyclicMonthEncoding(t *testing.T) {
	dec := calendarFeatures(t, "2022-12-15")
	jan := calendarFeatures(t, "2022-01-15")
	jul := calendarFeatures(t, "2022-07-15")

	distDecJan := math.Hypot(dec["month_sin"]-jan["month_sin"], dec["month_cos"]-jan["month_cos"])
	distDecJul := math.Hypot(dec["month_sin"]-jul["month_sin"], dec["month_cos"]-jul["month_cos"])
	assert.Less(t, distDecJan, distDecJul)
}
