// Package normalizer turns untrusted classification oracle output into a
// fixed-shape ClassificationResult. Normalize is total: it never panics and
// never returns a partial record.
package normalizer

import (
	"encoding/json"
	"errors"
	"geodrive-insight/internal/dto"
	"geodrive-insight/internal/extractor"
	"geodrive-insight/pkg/utils"
	"math"
	"strconv"
	"strings"
)

// Outcome describes how a raw response was decoded.
type Outcome string

const (
	OutcomeParsed    Outcome = "parsed"
	OutcomeRecovered Outcome = "recovered"
	OutcomeFallback  Outcome = "fallback"
)

var (
	ErrEmptyResponse = errors.New("empty oracle response")
	ErrNoJSONObject  = errors.New("no json object in oracle response")
)

// maxBraceCandidates bounds how many opening braces the balanced scan tries.
const maxBraceCandidates = 32

// Fields holds the oracle keys after type coercion and defaulting.
type Fields struct {
	Sentiment  string
	Confidence float64
	KeyTopic   string
	Brand      string
}

type Normalizer struct {
	brands *extractor.BrandDetector
}

func New(brands *extractor.BrandDetector) *Normalizer {
	if brands == nil {
		brands = extractor.NewBrandDetector(nil)
	}
	return &Normalizer{brands: brands}
}

func (n *Normalizer) Brands() *extractor.BrandDetector {
	return n.brands
}

// Normalize decodes raw oracle output for text and merges the brand and
// location extracted from text.
func (n *Normalizer) Normalize(text, raw string) (dto.ClassificationResult, Outcome) {
	text = utils.CleanToValidUTF8(text)

	obj, outcome, err := Decode(raw)
	if err != nil {
		return n.Fallback(text), OutcomeFallback
	}

	fields := Coerce(obj)
	return n.merge(text, fields, false), outcome
}

// Fallback is the record produced when the oracle fails or its output is unusable.
func (n *Normalizer) Fallback(text string) dto.ClassificationResult {
	text = utils.CleanToValidUTF8(text)
	return n.merge(text, Fields{
		Sentiment:  dto.FallbackSentiment,
		Confidence: dto.FallbackConfidence,
		KeyTopic:   dto.FallbackTopic,
	}, true)
}

func (n *Normalizer) merge(text string, f Fields, fallback bool) dto.ClassificationResult {
	loc := extractor.DetectLocation(text)
	return dto.ClassificationResult{
		Brand:      n.brands.Detect(text, f.Brand),
		City:       loc.City,
		Latitude:   loc.Latitude,
		Longitude:  loc.Longitude,
		Sentiment:  f.Sentiment,
		Confidence: f.Confidence,
		KeyTopic:   f.KeyTopic,
		Fallback:   fallback,
	}
}

// Decode extracts a JSON object from raw oracle text. It first strips a
// markdown fence and parses the whole payload, then falls back to scanning
// for balanced {...} substrings.
func Decode(raw string) (map[string]interface{}, Outcome, error) {
	raw = utils.CleanToValidUTF8(raw)
	cleaned := StripCodeFence(raw)
	if cleaned == "" {
		return nil, OutcomeFallback, ErrEmptyResponse
	}

	if obj, ok := parseObject(cleaned); ok {
		return obj, OutcomeParsed, nil
	}

	for _, candidate := range balancedObjects(raw) {
		if obj, ok := parseObject(candidate); ok {
			return obj, OutcomeRecovered, nil
		}
	}

	return nil, OutcomeFallback, ErrNoJSONObject
}

// StripCodeFence removes a leading ```lang line and a trailing ``` marker.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			if tag := strings.TrimSpace(s[:nl]); isFenceTag(tag) {
				s = s[nl+1:]
			}
		} else {
			s = strings.TrimLeftFunc(s, isTagRune)
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func isFenceTag(tag string) bool {
	for _, r := range tag {
		if !isTagRune(r) {
			return false
		}
	}
	return true
}

func isTagRune(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_'
}

func parseObject(s string) (map[string]interface{}, bool) {
	var v interface{}
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}
	obj, ok := v.(map[string]interface{})
	return obj, ok
}

// balancedObjects returns every balanced {...} substring of s in order of
// their opening brace. Braces inside JSON strings are ignored.
func balancedObjects(s string) []string {
	var out []string
	start := strings.IndexByte(s, '{')
	for tries := 0; start >= 0 && tries < maxBraceCandidates; tries++ {
		if end := matchBrace(s, start); end > start {
			out = append(out, s[start:end+1])
		}
		next := strings.IndexByte(s[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return out
}

func matchBrace(s string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// Coerce reads the oracle keys from obj with defaults for anything missing
// or mistyped. Keys are matched case-insensitively.
func Coerce(obj map[string]interface{}) Fields {
	lookup := make(map[string]interface{}, len(obj))
	for k, v := range obj {
		lookup[strings.ToLower(strings.TrimSpace(k))] = v
	}

	return Fields{
		Sentiment:  coerceSentiment(lookup["sentiment"]),
		Confidence: coerceConfidence(lookup["confidence"]),
		KeyTopic:   coerceTopic(firstPresent(lookup, "key_topic", "keytopic", "topic")),
		Brand:      coerceString(lookup["brand"]),
	}
}

func firstPresent(lookup map[string]interface{}, keys ...string) interface{} {
	for _, k := range keys {
		if v, ok := lookup[k]; ok {
			return v
		}
	}
	return nil
}

func coerceSentiment(v interface{}) string {
	s, ok := v.(string)
	if !ok {
		return dto.SentimentNeutral
	}
	s = strings.ToLower(strings.TrimSpace(s))
	if dto.IsValidSentiment(s) {
		return s
	}
	return dto.SentimentNeutral
}

func coerceConfidence(v interface{}) float64 {
	var f float64
	switch val := v.(type) {
	case float64:
		f = val
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return dto.FallbackConfidence
		}
		f = parsed
	default:
		return dto.FallbackConfidence
	}
	return ClampConfidence(f)
}

// ClampConfidence bounds f to [0, 1]; NaN becomes the fallback confidence.
func ClampConfidence(f float64) float64 {
	switch {
	case math.IsNaN(f):
		return dto.FallbackConfidence
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}

func coerceTopic(v interface{}) string {
	s, ok := v.(string)
	if !ok {
		return dto.TopicOther
	}
	return extractor.CategorizeTopic(s)
}

func coerceString(v interface{}) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}
