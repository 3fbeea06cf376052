package model

import "math"

// Regressor — бустинг, обученный в log1p-пространстве целевой переменной.
// Прогноз возвращается в исходный масштаб через expm1, поэтому модель
// никогда не отдает значения меньше -1, а мультипликативная природа
// продаж превращается в аддитивную для деревьев.
type Regressor struct {
	Boosting *GradientBoosting `json:"boosting"`
}

// NewRegressor создает необученный регрессор
func NewRegressor(params Params) *Regressor {
	return &Regressor{Boosting: NewGradientBoosting(params)}
}

// Fit обучает регрессор; целевые значения должны быть неотрицательными
func (r *Regressor) Fit(X [][]float64, y []float64) error {
	z := make([]float64, len(y))
	for i, v := range y {
		z[i] = math.Log1p(v)
	}
	return r.Boosting.Fit(X, z)
}

// Predict возвращает прогноз в исходном масштабе
func (r *Regressor) Predict(x []float64) float64 {
	return math.Expm1(r.Boosting.Predict(x))
}

// PredictBatch возвращает прогнозы для батча строк
func (r *Regressor) PredictBatch(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i := range X {
		out[i] = r.Predict(X[i])
	}
	return out
}
