package model

import (
	"time"

	"gorm.io/datatypes"
)

type Review struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	ProductID      uint           `gorm:"not null;index" json:"product_id"`
	Text           string         `gorm:"type:text;not null" json:"text"`
	Brand          string         `gorm:"type:varchar(100);not null;index" json:"brand"`
	Sentiment      string         `gorm:"type:varchar(16);not null;index" json:"sentiment"`
	Confidence     float64        `gorm:"not null" json:"confidence"`
	KeyTopic       string         `gorm:"type:varchar(32);not null" json:"key_topic"`
	City           string         `gorm:"type:varchar(100)" json:"city,omitempty"`
	Latitude       *float64       `json:"latitude"`
	Longitude      *float64       `json:"longitude"`
	Classification datatypes.JSON `gorm:"type:jsonb" json:"-"`
	CreatedAt      time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
}

func (Review) TableName() string {
	return "reviews"
}

type GetReviewParam struct {
	ProductIDs  []uint
	Company     string
	Brand       string
	Sentiment   string
	Since       time.Time
	Limit       int
	NewestFirst bool
}
