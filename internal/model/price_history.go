package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	PriceSourceOracle = "oracle"
	PriceSourceManual = "manual"
)

type PriceHistory struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	ProductID  uint           `gorm:"not null;index" json:"product_id"`
	Price      float64        `gorm:"not null" json:"price"`
	Source     string         `gorm:"type:varchar(16);not null" json:"source"`
	Raw        datatypes.JSON `gorm:"type:jsonb" json:"raw,omitempty"`
	RecordedAt time.Time      `gorm:"not null;index" json:"recorded_at"`
}

func (PriceHistory) TableName() string {
	return "price_histories"
}
