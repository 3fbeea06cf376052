package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SalesRecord — историческое наблюдение продаж в базе данных.
// Таблица накапливает данные для следующего офлайн-переобучения и
// никогда не читается сервисом прогноза при вычислении признаков.
type SalesRecord struct {
	ID           string    `gorm:"type:uuid;primary_key" json:"id"`
	StoreID      string    `gorm:"not null;index" json:"store_id"`
	StoreType    string    `gorm:"not null" json:"store_type"`
	LocationType string    `gorm:"not null" json:"location_type"`
	RegionCode   string    `gorm:"not null" json:"region_code"`
	Date         time.Time `gorm:"not null;index" json:"date"`
	Holiday      int       `json:"holiday"`
	Discount     int       `json:"discount"`
	Sales        float64   `json:"sales"`
	Source       string    `json:"source"` // mqtt | csv
	CreatedAt    time.Time `json:"created_at"`
}

// TableName устанавливает имя таблицы
func (SalesRecord) TableName() string {
	return "sales_records"
}

// BeforeCreate устанавливает ID перед созданием
func (r *SalesRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// PredictionLog — выполненный прогноз в базе данных
type PredictionLog struct {
	ID           string    `gorm:"type:uuid;primary_key" json:"id"`
	StoreID      string    `gorm:"not null;index" json:"store_id"`
	Date         time.Time `gorm:"not null" json:"date"`
	Sales        float64   `json:"sales"`
	ModelVersion string    `json:"model_version"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName устанавливает имя таблицы
func (PredictionLog) TableName() string {
	return "prediction_logs"
}

// BeforeCreate устанавливает ID перед созданием
func (p *PredictionLog) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
