package model

import "time"

// Availability is a dealer stock observation for a product in a city.
type Availability struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ProductID  uint      `gorm:"not null;index" json:"product_id"`
	City       string    `gorm:"type:varchar(100);not null" json:"city"`
	Dealer     string    `gorm:"type:varchar(255)" json:"dealer,omitempty"`
	InStock    bool      `gorm:"not null" json:"in_stock"`
	Notes      string    `gorm:"type:text" json:"notes,omitempty"`
	RecordedAt time.Time `gorm:"not null;index" json:"recorded_at"`
}

func (Availability) TableName() string {
	return "availabilities"
}
