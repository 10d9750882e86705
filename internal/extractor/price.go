package extractor

import (
	"regexp"
	"strconv"
	"strings"
)

var priceRun = regexp.MustCompile(`(?i)(\d[\d,]*(?:\.\d+)?)\s*(lakhs?|lacs?|crores?|cr\b)?`)

// ParsePrice extracts the first numeric run of an oracle price answer.
// Indian unit words directly after the number scale it (lakh 1e5, crore 1e7).
func ParsePrice(raw string) (float64, bool) {
	m := priceRun.FindStringSubmatch(raw)
	if m == nil {
		return 0, false
	}

	value, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0, false
	}

	unit := strings.ToLower(m[2])
	switch {
	case strings.HasPrefix(unit, "lakh"), strings.HasPrefix(unit, "lac"):
		value *= 1e5
	case strings.HasPrefix(unit, "crore"), unit == "cr":
		value *= 1e7
	}

	return value, true
}
