package models

// ErrorResponse стандартная структура ошибки
type ErrorResponse struct {
	Error   string `json:"error" example:"Validation Error"`
	Message string `json:"message,omitempty" example:"Missing fields: Region_Code"`
}

// Prediction — результат прогноза для одного магазина
type Prediction struct {
	Sales   float64 `json:"sales" example:"42518.37"`
	StoreID string  `json:"store_id" example:"7"`
}

// PredictResponse структура успешного ответа на прогноз
type PredictResponse struct {
	Success    bool       `json:"success" example:"true"`
	Prediction Prediction `json:"prediction"`
}

// HealthResponse структура ответа health-чека
type HealthResponse struct {
	Status       string `json:"status" example:"healthy"`
	ModelLoaded  bool   `json:"model_loaded" example:"true"`
	ModelVersion string `json:"model_version,omitempty"`
	Timestamp    string `json:"timestamp"`
}

// Observation — наблюдение продаж, приходящее по MQTT
type Observation struct {
	StoreID      any     `json:"Store_id"`
	StoreType    string  `json:"Store_Type"`
	LocationType string  `json:"Location_Type"`
	RegionCode   string  `json:"Region_Code"`
	Date         string  `json:"Date"`
	Holiday      any     `json:"Holiday"`
	Discount     any     `json:"Discount"`
	Sales        float64 `json:"Sales"`
}
