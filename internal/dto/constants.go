package dto

const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

const (
	TopicMileage     = "mileage"
	TopicEngine      = "engine"
	TopicService     = "service"
	TopicPrice       = "price"
	TopicComfort     = "comfort"
	TopicPerformance = "performance"
	TopicDesign      = "design"
	TopicSafety      = "safety"
	TopicFeatures    = "features"
	TopicOther       = "other"
)

const BrandUnknown = "Unknown"

// Fallback record values, used whenever the oracle fails or its output
// cannot be decoded.
const (
	FallbackSentiment  = SentimentNeutral
	FallbackConfidence = 0.5
	FallbackTopic      = TopicOther
)

type TrendDirection string

const (
	TrendImproving TrendDirection = "improving"
	TrendDeclining TrendDirection = "declining"
	TrendStable    TrendDirection = "stable"
)

const (
	TrendModeWindow = "window"
	TrendModeSplit  = "split"
)

func IsValidSentiment(s string) bool {
	switch s {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return true
	}
	return false
}
