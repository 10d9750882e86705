package helper

import (
	"fmt"
	"geodrive-insight/internal/dto"
	"geodrive-insight/internal/extractor"
	"strings"
	"unicode"
)

// modelNameTokens is how many leading words of a post become a new product name.
const modelNameTokens = 2

// ProposeModelName derives a product name for an unmatched post: the first
// two words stripped of punctuation and title-cased, or "<brand> Model" when
// fewer than two words survive.
func ProposeModelName(text, brand string) string {
	tokens := make([]string, 0, modelNameTokens)
	for _, field := range strings.Fields(text) {
		token := strings.TrimFunc(field, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		token = strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
				return r
			}
			return -1
		}, token)
		if token == "" {
			continue
		}
		tokens = append(tokens, token)
		if len(tokens) == modelNameTokens {
			break
		}
	}

	if len(tokens) < modelNameTokens {
		return fmt.Sprintf("%s Model", brand)
	}
	return extractor.TitleCase(strings.Join(tokens, " "))
}

// FeatureTopics are the buckets used when comparing what two products are praised for.
func FeatureTopics() []string {
	return []string{
		dto.TopicPrice,
		dto.TopicComfort,
		dto.TopicPerformance,
		dto.TopicMileage,
		dto.TopicSafety,
		dto.TopicDesign,
		dto.TopicService,
		dto.TopicFeatures,
	}
}

// BucketFeatures counts, per feature topic, how many texts mention it. A
// text can land in several buckets.
func BucketFeatures(texts []string) map[string]int64 {
	wanted := make(map[string]struct{}, len(FeatureTopics()))
	for _, f := range FeatureTopics() {
		wanted[f] = struct{}{}
	}

	counts := make(map[string]int64, len(wanted))
	for _, text := range texts {
		for _, topic := range extractor.MatchTopics(text) {
			if _, ok := wanted[topic]; ok {
				counts[topic]++
			}
		}
	}
	return counts
}
