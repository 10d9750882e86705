package repository

import (
	"fmt"
	"geodrive-insight/internal/extractor"
	"strconv"
	"strings"
)

func (r *geminiAIRepository) promptClassifySentiment(text string) string {
	var sb strings.Builder

	sb.WriteString("You are a sentiment classifier for automotive social media posts written by Indian car owners.\n\n")
	sb.WriteString("Classify the post below and answer with ONLY one JSON object, no markdown and no explanation.\n\n")
	sb.WriteString("### Schema\n")
	sb.WriteString(`{
  "sentiment": "positive" | "negative" | "neutral",
  "confidence": number between 0 and 1,
  "key_topic": one of `)
	sb.WriteString(promptEnum(extractor.Topics()))
	sb.WriteString(`,
  "brand": car manufacturer mentioned in the post, or "Unknown"
}
`)
	sb.WriteString("\n### Rules\n")
	sb.WriteString("- key_topic is the single aspect the post talks about most.\n")
	sb.WriteString("- Use \"neutral\" when the post states facts without opinion.\n")
	sb.WriteString("- brand is the manufacturer (e.g. \"Hyundai\" for a Creta), never the model.\n")

	sb.WriteString("\n### Post\n")
	sb.WriteString(text)
	sb.WriteString("\n")

	return sb.String()
}

func (r *geminiAIRepository) promptLookupPrice(modelName string) string {
	return fmt.Sprintf(
		"What is the current ex-showroom starting price in India of the car model %q? "+
			"Answer with only the number and unit, for example \"11.5 lakh\". "+
			"If you do not know, answer \"0\".",
		modelName,
	)
}

// promptEnum renders values the way the schema lists enums: "a" | "b" | "c".
func promptEnum(values []string) string {
	quoted := make([]string, 0, len(values))
	for _, v := range values {
		quoted = append(quoted, strconv.Quote(v))
	}
	return strings.Join(quoted, " | ")
}
