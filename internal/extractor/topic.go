package extractor

import (
	"geodrive-insight/internal/dto"
	"strings"
)

type topicRule struct {
	Topic    string
	Keywords []string
}

// topicRules are evaluated in order; CategorizeTopic takes the first match.
var topicRules = []topicRule{
	{Topic: dto.TopicMileage, Keywords: []string{"mileage", "fuel", "efficien", "kmpl", "km/l", "economy"}},
	{Topic: dto.TopicEngine, Keywords: []string{"engine", "gearbox", "gear", "transmission", "clutch", "turbo"}},
	{Topic: dto.TopicService, Keywords: []string{"service", "maintenance", "repair", "dealer", "warranty", "spare"}},
	{Topic: dto.TopicPrice, Keywords: []string{"price", "cost", "expensive", "cheap", "afford", "value", "budget"}},
	{Topic: dto.TopicComfort, Keywords: []string{"comfort", "seat", "suspension", "cabin", "space", "legroom", "noise"}},
	{Topic: dto.TopicPerformance, Keywords: []string{"performance", "power", "speed", "acceleration", "pickup", "torque", "handling"}},
	{Topic: dto.TopicSafety, Keywords: []string{"safety", "airbag", "brake", "crash", "ncap", "safe"}},
	{Topic: dto.TopicDesign, Keywords: []string{"design", "look", "style", "stylish", "interior", "exterior", "colour", "color"}},
	{Topic: dto.TopicFeatures, Keywords: []string{"feature", "infotainment", "sunroof", "connectivity", "camera", "touchscreen", "adas"}},
}

// Topics returns the closed topic vocabulary, "other" last.
func Topics() []string {
	out := make([]string, 0, len(topicRules)+1)
	for _, r := range topicRules {
		out = append(out, r.Topic)
	}
	return append(out, dto.TopicOther)
}

// CategorizeTopic maps a free-text topic onto the closed vocabulary.
func CategorizeTopic(raw string) string {
	if matches := MatchTopics(raw); len(matches) > 0 {
		return matches[0]
	}
	return dto.TopicOther
}

// MatchTopics returns every topic whose keywords occur in text, in rule order.
func MatchTopics(text string) []string {
	lower := strings.ToLower(text)
	if strings.TrimSpace(lower) == "" {
		return nil
	}

	var out []string
	for _, r := range topicRules {
		for _, kw := range r.Keywords {
			if strings.Contains(lower, kw) {
				out = append(out, r.Topic)
				break
			}
		}
	}
	return out
}

func IsTopic(topic string) bool {
	for _, t := range Topics() {
		if t == topic {
			return true
		}
	}
	return false
}
