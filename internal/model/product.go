package model

import "time"

type Product struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	ModelName      string         `gorm:"type:varchar(255);not null;uniqueIndex:idx_products_model_company" json:"model_name"`
	Company        string         `gorm:"type:varchar(100);not null;uniqueIndex:idx_products_model_company;index:idx_products_company" json:"company"`
	CurrentPrice   float64        `gorm:"not null;default:0" json:"current_price"`
	PriceUpdatedAt *time.Time     `json:"price_updated_at"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	Reviews        []Review       `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
	PriceHistories []PriceHistory `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
	Availabilities []Availability `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

// HasPrice reports whether a price has been backfilled.
func (p *Product) HasPrice() bool {
	return p.CurrentPrice > 0
}

type GetProductParam struct {
	IDs          []uint
	Company      string
	WithoutPrice bool
	Limit        int
}
