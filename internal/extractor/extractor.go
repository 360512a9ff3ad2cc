// Package extractor finds bracketed identifier/price tokens in free-form text.
package extractor

import (
	"regexp"
	"strconv"

	"vinfeatures/internal/models"
)

// tokenPattern matches [<17 chars>:<price>]. Prices are capped at 18 digits so
// every match fits an int64; longer runs simply do not match.
var tokenPattern = regexp.MustCompile(`\[([A-Z0-9]{17}):(\d{1,18})\]`)

// Extractor scans text for identifier/price tokens.
type Extractor struct {
	pattern *regexp.Regexp
}

// NewExtractor creates a new extractor instance.
func NewExtractor() *Extractor {
	return &Extractor{pattern: tokenPattern}
}

// Extract returns every token in text, left to right. Identifiers are passed
// through unvalidated.
func (e *Extractor) Extract(text string) []models.RawRecord {
	matches := e.pattern.FindAllStringSubmatchIndex(text, -1)
	records := make([]models.RawRecord, 0, len(matches))

	for _, m := range matches {
		price, err := strconv.ParseInt(text[m[4]:m[5]], 10, 64)
		if err != nil {
			continue
		}

		records = append(records, models.RawRecord{
			VIN:    text[m[2]:m[3]],
			Price:  price,
			Offset: m[0],
		})
	}

	return records
}
