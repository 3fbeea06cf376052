package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/milleralan1/sales-prediction-api/internal/models"
)

// DataService отвечает за работу с базой данных: накопление наблюдений
// продаж для следующего переобучения и журнал выполненных прогнозов
type DataService struct {
	db *gorm.DB
}

// NewDataService создает новый сервис для работы с данными
func NewDataService(db *gorm.DB) *DataService {
	return &DataService{db: db}
}

// SaveObservation сохраняет наблюдение продаж. Таблица наблюдений читается
// только офлайн-тренером: история признаков работающей модели заморожена и
// прогнозы в нее никогда не дописываются.
func (ds *DataService) SaveObservation(record *models.SalesRecord) error {
	if err := ds.db.Create(record).Error; err != nil {
		return fmt.Errorf("ошибка сохранения наблюдения: %w", err)
	}
	return nil
}

// SavePrediction сохраняет выполненный прогноз в журнал
func (ds *DataService) SavePrediction(entry *models.PredictionLog) error {
	if err := ds.db.Create(entry).Error; err != nil {
		return fmt.Errorf("ошибка сохранения прогноза: %w", err)
	}
	return nil
}

// GetPredictions возвращает последние прогнозы магазина
func (ds *DataService) GetPredictions(storeID string, limit int) ([]models.PredictionLog, error) {
	var entries []models.PredictionLog
	err := ds.db.Where("store_id = ?", storeID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("ошибка получения прогнозов: %w", err)
	}
	return entries, nil
}

// LoadObservations возвращает все накопленные наблюдения в хронологическом
// порядке — источник данных тренера при обучении из базы
func (ds *DataService) LoadObservations() ([]models.SalesRecord, error) {
	var records []models.SalesRecord
	err := ds.db.Order("date ASC").Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("ошибка получения наблюдений: %w", err)
	}
	return records, nil
}
