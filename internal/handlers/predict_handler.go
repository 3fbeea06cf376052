package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/milleralan1/sales-prediction-api/internal/models"
	"github.com/milleralan1/sales-prediction-api/internal/services"
)

// PredictHandler обрабатывает HTTP запросы прогноза продаж
type PredictHandler struct {
	predictionService *services.PredictionService
	dataService       *services.DataService
}

// NewPredictHandler создает новый обработчик прогнозов
func NewPredictHandler(predictionService *services.PredictionService, dataService *services.DataService) *PredictHandler {
	return &PredictHandler{
		predictionService: predictionService,
		dataService:       dataService,
	}
}

// Predict выполняет прогноз продаж для одного магазина
// @Summary Прогноз продаж магазина
// @Description Вычисляет признаки по атрибутам магазина и дате и возвращает прогноз продаж
// @Tags predict
// @Accept json
// @Produce json
// @Param request body map[string]interface{} true "Запрос на прогноз (Store_id, Store_Type, Location_Type, Region_Code, Date, Holiday, Discount)"
// @Success 200 {object} models.PredictResponse "Результат прогноза"
// @Failure 400 {object} models.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} models.ErrorResponse "Внутренняя ошибка сервера"
// @Failure 503 {object} models.ErrorResponse "Модель не загружена"
// @Router /predict [post]
func (h *PredictHandler) Predict(c *gin.Context) {
	var data map[string]any
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Validation Error",
			"message": "invalid JSON body",
		})
		return
	}

	prediction, err := h.predictionService.Predict(data)
	if err != nil {
		var verr *models.ValidationError
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Validation Error",
				"message": verr.Message,
			})
		case errors.Is(err, services.ErrModelNotLoaded):
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "Model not loaded",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, models.PredictResponse{
		Success:    true,
		Prediction: *prediction,
	})
}

// Health проверяет состояние сервиса
// @Summary Проверка состояния сервиса
// @Description Возвращает статус сервиса и версию загруженной модели
// @Tags health
// @Produce json
// @Success 200 {object} models.HealthResponse "Сервис работает"
// @Router /health [get]
func (h *PredictHandler) Health(c *gin.Context) {
	version, loaded := h.predictionService.ModelVersion()
	c.JSON(http.StatusOK, models.HealthResponse{
		Status:       "healthy",
		ModelLoaded:  loaded,
		ModelVersion: version,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	})
}

// GetPredictions возвращает последние прогнозы магазина
// @Summary Журнал прогнозов магазина
// @Description Возвращает последние сохраненные прогнозы для магазина
// @Tags predict
// @Produce json
// @Param store_id path string true "Идентификатор магазина"
// @Param limit query int false "Максимум записей (по умолчанию 20)"
// @Success 200 {array} models.PredictionLog "Журнал прогнозов"
// @Failure 500 {object} models.ErrorResponse "Внутренняя ошибка сервера"
// @Router /predictions/{store_id} [get]
func (h *PredictHandler) GetPredictions(c *gin.Context) {
	if h.dataService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Журнал прогнозов недоступен"})
		return
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	entries, err := h.dataService.GetPredictions(c.Param("store_id"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// ReloadModel перезагружает артефакт модели с диска
// @Summary Перезагрузка модели
// @Description Загружает артефакт модели с диска и атомарно подменяет обслуживаемую модель
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Модель перезагружена"
// @Failure 500 {object} models.ErrorResponse "Не удалось загрузить артефакт"
// @Router /admin/model/reload [post]
func (h *PredictHandler) ReloadModel(c *gin.Context) {
	if err := h.predictionService.LoadModel(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	version, _ := h.predictionService.ModelVersion()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"version": version,
	})
}
