package features

import "math"

// calendarStage — календарные признаки из поля даты. Чистая функция над
// строкой. Циклическое кодирование месяца через sin/cos делает декабрь и
// январь численно соседними для модели.
type calendarStage struct{}

func (s *calendarStage) Name() string { return "calendar" }

func (s *calendarStage) Fit(frame *Frame) error { return nil }

func (s *calendarStage) Transform(frame *Frame) error {
	for i := range frame.Rows {
		row := &frame.Rows[i]
		date := row.Record.Date

		day := date.Day()
		month := int(date.Month())
		// Weekday в Go начинается с воскресенья, признак считается
		// от понедельника (0 = понедельник)
		dayOfWeek := (int(date.Weekday()) + 6) % 7

		row.Num["Day"] = float64(day)
		row.Num["DayOfWeek"] = float64(dayOfWeek)
		row.Num["Month"] = float64(month)
		row.Num["is_month_start"] = boolToFloat(day <= 3)
		row.Num["is_month_end"] = boolToFloat(day >= 28)
		row.Num["is_payday"] = boolToFloat(day == 1 || day == 15)
		row.Num["month_sin"] = math.Sin(2 * math.Pi * float64(month) / 12)
		row.Num["month_cos"] = math.Cos(2 * math.Pi * float64(month) / 12)
	}
	return nil
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
