package dto

import "time"

type BrandSentimentCount struct {
	Brand     string `json:"brand"`
	Sentiment string `json:"sentiment"`
	Count     int64  `json:"count"`
}

type BrandSummary struct {
	Brand      string `json:"brand"`
	TotalPosts int64  `json:"total_posts"`
}

type SentimentBreakdown struct {
	Positive        int64 `json:"positive"`
	Negative        int64 `json:"negative"`
	Neutral         int64 `json:"neutral"`
	Total           int64 `json:"total"`
	PositivePercent int   `json:"positive_percent"`
	NegativePercent int   `json:"negative_percent"`
	NeutralPercent  int   `json:"neutral_percent"`
}

type BrandSentimentRatio struct {
	Brand string `json:"brand"`
	SentimentBreakdown
}

type MarketSentimentShare struct {
	Brand          string `json:"brand"`
	Positive       int64  `json:"positive"`
	Total          int64  `json:"total"`
	SentimentShare int    `json:"sentiment_share"`
}

type RegionDistribution struct {
	City      string   `json:"city"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	SentimentBreakdown
}

type GeoPoint struct {
	ID        uint      `json:"id"`
	Brand     string    `json:"brand"`
	City      string    `json:"city,omitempty"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Sentiment string    `json:"sentiment"`
	CreatedAt time.Time `json:"created_at"`
}

type ProductSummary struct {
	ID           uint    `json:"id"`
	ModelName    string  `json:"model_name"`
	Company      string  `json:"company"`
	CurrentPrice float64 `json:"current_price"`
	TotalReviews int64   `json:"total_reviews"`
	SentimentBreakdown
}

type CompanySummary struct {
	Company                string           `json:"company"`
	TotalProducts          int              `json:"total_products"`
	TotalReviews           int64            `json:"total_reviews"`
	Positive               int64            `json:"positive"`
	Negative               int64            `json:"negative"`
	Neutral                int64            `json:"neutral"`
	OverallPositivePercent int              `json:"overall_positive_percent"`
	TopTopics              []TopicCount     `json:"top_topics"`
	Products               []ProductSummary `json:"products"`
	Trend                  *TrendResult     `json:"trend,omitempty"`
}

type TopicCount struct {
	Topic string `json:"topic"`
	Count int64  `json:"count"`
}

type FeatureShare struct {
	Feature string `json:"feature"`
	Percent int    `json:"percent"`
}

type ProductComparison struct {
	Model1      ProductSummary `json:"model1"`
	Model2      ProductSummary `json:"model2"`
	BetterModel string         `json:"better_model"`
	Features1   []FeatureShare `json:"features_model1"`
	Features2   []FeatureShare `json:"features_model2"`
	Insights    []string       `json:"insights"`
}

type CompareResponse struct {
	Comparison ProductComparison `json:"comparison"`
}

type TrendWindow struct {
	From     *time.Time `json:"from,omitempty"`
	To       *time.Time `json:"to,omitempty"`
	Size     int        `json:"size"`
	Positive int        `json:"positive"`
	Negative int        `json:"negative"`
	Score    float64    `json:"score"`
}

type TrendResult struct {
	Brand     string         `json:"brand"`
	Mode      string         `json:"mode"`
	Recent    TrendWindow    `json:"recent"`
	Previous  TrendWindow    `json:"previous"`
	Delta     float64        `json:"delta"`
	Threshold float64        `json:"threshold"`
	Direction TrendDirection `json:"direction"`
}

type TrendQuery struct {
	Mode       string `query:"mode" validate:"omitempty,oneof=window split"`
	WindowDays int    `query:"window_days" validate:"omitempty,min=1,max=365"`
}

type CompareQuery struct {
	Model1 string `query:"model1" validate:"required"`
	Model2 string `query:"model2" validate:"required"`
}

type ReviewQuery struct {
	Sentiment string `query:"sentiment" validate:"omitempty,oneof=positive negative neutral"`
	Limit     int    `query:"limit" validate:"omitempty,min=1,max=500"`
}

// GroupSentimentCount is one row of a (group, sentiment) count query.
type GroupSentimentCount struct {
	GroupKey  string `json:"group_key"`
	Sentiment string `json:"sentiment"`
	Count     int64  `json:"count"`
}

type ProductSentimentCount struct {
	ProductID uint   `json:"product_id"`
	Sentiment string `json:"sentiment"`
	Count     int64  `json:"count"`
}
