package dto

import "time"

type AnalyzeRequest struct {
	Text      string   `json:"text" validate:"required,max=5000"`
	Latitude  *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude" validate:"omitempty,longitude"`
}

// ClassificationResult is the normalized, always-valid output of the pipeline.
type ClassificationResult struct {
	Brand      string   `json:"brand"`
	City       string   `json:"city,omitempty"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
	Sentiment  string   `json:"sentiment"`
	Confidence float64  `json:"confidence"`
	KeyTopic   string   `json:"key_topic"`
	Fallback   bool     `json:"fallback"`
}

type ProductRef struct {
	ID           uint    `json:"id"`
	ModelName    string  `json:"model_name"`
	Company      string  `json:"company"`
	CurrentPrice float64 `json:"current_price"`
	Created      bool    `json:"created"`
}

type AnalyzeResponse struct {
	ClassificationResult
	PostID   uint        `json:"post_id"`
	ReviewID uint        `json:"review_id,omitempty"`
	Product  *ProductRef `json:"product,omitempty"`
}

type AnalyzeProductResponse struct {
	AnalyzeResponse
	ModelName    string          `json:"model_name"`
	Company      string          `json:"company"`
	CurrentPrice float64         `json:"current_price"`
	Summary      *ProductSummary `json:"summary"`
}

type CreatePostRequest struct {
	Brand      string     `json:"brand" validate:"required,max=100"`
	Text       string     `json:"text" validate:"required"`
	Latitude   *float64   `json:"latitude" validate:"omitempty,latitude"`
	Longitude  *float64   `json:"longitude" validate:"omitempty,longitude"`
	Sentiment  string     `json:"sentiment" validate:"required"`
	Confidence float64    `json:"confidence"`
	KeyTopic   string     `json:"key_topic"`
	CreatedAt  *time.Time `json:"created_at"`
}

type CreateAvailabilityRequest struct {
	City    string `json:"city" validate:"required,max=100"`
	Dealer  string `json:"dealer" validate:"max=255"`
	InStock *bool  `json:"in_stock" validate:"required"`
	Notes   string `json:"notes"`
}

// PriceQuote is a parsed price oracle answer.
type PriceQuote struct {
	Price  float64 `json:"price"`
	Raw    string  `json:"raw"`
	Source string  `json:"source"`
}
