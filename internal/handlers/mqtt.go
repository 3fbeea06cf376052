package handlers

import (
	"encoding/json"
	"log/slog"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/milleralan1/sales-prediction-api/internal/features"
	"github.com/milleralan1/sales-prediction-api/internal/models"
	"github.com/milleralan1/sales-prediction-api/internal/services"
)

// SalesIngestHandler принимает наблюдения продаж из MQTT и накапливает их
// в базе для следующего офлайн-переобучения. Наблюдения проходят через те
// же валидатор и нормализатор, что и запросы на прогноз; история признаков
// работающей модели при этом не меняется.
type SalesIngestHandler struct {
	dataService *services.DataService
}

// NewSalesIngestHandler создает обработчик наблюдений
func NewSalesIngestHandler(dataService *services.DataService) *SalesIngestHandler {
	return &SalesIngestHandler{dataService: dataService}
}

// Handle обрабатывает одно MQTT сообщение с наблюдением продаж
func (h *SalesIngestHandler) Handle(client mqtt.Client, msg mqtt.Message) {
	var observation models.Observation
	if err := json.Unmarshal(msg.Payload(), &observation); err != nil {
		slog.Warn("Ошибка декодирования наблюдения", "topic", msg.Topic(), "error", err)
		return
	}

	// валидируем так же строго, как запрос на прогноз
	raw := map[string]any{
		"Store_id":      observation.StoreID,
		"Store_Type":    observation.StoreType,
		"Location_Type": observation.LocationType,
		"Region_Code":   observation.RegionCode,
		"Date":          observation.Date,
		"Holiday":       observation.Holiday,
		"Discount":      observation.Discount,
	}
	if verr := models.ValidateRequest(raw); verr != nil {
		slog.Warn("Невалидное наблюдение", "topic", msg.Topic(), "error", verr.Message)
		return
	}

	date, err := models.ParseDate(observation.Date)
	if err != nil {
		slog.Warn("Невалидная дата наблюдения", "topic", msg.Topic(), "error", err)
		return
	}

	record := &models.SalesRecord{
		StoreID:      features.CanonicalStoreID(observation.StoreID),
		StoreType:    observation.StoreType,
		LocationType: observation.LocationType,
		RegionCode:   observation.RegionCode,
		Date:         date,
		Holiday:      features.CanonicalFlag(observation.Holiday),
		Discount:     features.CanonicalFlag(observation.Discount),
		Sales:        observation.Sales,
		Source:       "mqtt",
	}

	if err := h.dataService.SaveObservation(record); err != nil {
		slog.Error("Не удалось сохранить наблюдение", "store_id", record.StoreID, "error", err)
		return
	}

	slog.Info("Наблюдение сохранено",
		"store_id", record.StoreID,
		"date", record.Date.Format("2006-01-02"),
		"sales", record.Sales,
	)
}
