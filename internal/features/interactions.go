package features

import "fmt"

// interactionStage — кросс-признаки из уже нормализованных полей.
// Чистая функция над строкой: без истории, без случайности, порядок
// строк не важен. Должна выполняться до rolling-стадии, потому что
// та потребляет нормализованный флаг скидки.
type interactionStage struct{}

func (s *interactionStage) Name() string { return "interactions" }

func (s *interactionStage) Fit(frame *Frame) error { return nil }

func (s *interactionStage) Transform(frame *Frame) error {
	for i := range frame.Rows {
		row := &frame.Rows[i]

		row.Num["discount_and_holiday"] = float64(row.Record.Discount & row.Record.Holiday)
		row.Cat["Store_Location_Type"] = row.Record.StoreType + "_" + row.Record.LocationType
		row.Cat["Holiday_Discount"] = fmt.Sprintf("%d_%d", row.Record.Holiday, row.Record.Discount)
	}
	return nil
}
