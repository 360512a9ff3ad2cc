package normalizer

import (
	"errors"
	"fmt"

	"vinfeatures/internal/models"
)

// Lookup errors, reported only under PolicyDrop.
var (
	ErrUnknownCountry = errors.New("unknown country code")
	ErrUnknownYear    = errors.New("unknown model year code")
	ErrInvalidPolicy  = errors.New("unknown-code policy must be 'sentinel' or 'drop'")
)

// UnknownPolicy decides what happens to codes missing from a lookup table.
type UnknownPolicy string

// Unknown-code policies.
const (
	PolicySentinel UnknownPolicy = "sentinel"
	PolicyDrop     UnknownPolicy = "drop"
)

// ParsePolicy validates a policy name. An empty name selects PolicySentinel.
func ParsePolicy(s string) (UnknownPolicy, error) {
	switch UnknownPolicy(s) {
	case "", PolicySentinel:
		return PolicySentinel, nil
	case PolicyDrop:
		return PolicyDrop, nil
	default:
		return "", fmt.Errorf("%w: got %q", ErrInvalidPolicy, s)
	}
}

// Transformer maps decomposed codes to human-meaningful values.
type Transformer struct {
	policy UnknownPolicy
}

// NewTransformer creates a transformer with the given unknown-code policy.
func NewTransformer(policy UnknownPolicy) *Transformer {
	if policy == "" {
		policy = PolicySentinel
	}

	return &Transformer{policy: policy}
}

// Transform resolves the country and year codes of rec.
func (t *Transformer) Transform(rec models.DecomposedRecord) (models.NormalizedRecord, error) {
	country, countryOK := LookupCountry(rec.Country)
	year, yearOK := LookupYear(rec.YearCode)

	if t.policy == PolicyDrop {
		if !countryOK {
			return models.NormalizedRecord{}, fmt.Errorf("%w: %q", ErrUnknownCountry, rec.Country)
		}

		if !yearOK {
			return models.NormalizedRecord{}, fmt.Errorf("%w: %q", ErrUnknownYear, rec.YearCode)
		}
	}

	return models.NormalizedRecord{
		VIN:             rec.VIN,
		Country:         country,
		Manufacturer:    rec.Manufacturer,
		Model:           rec.Model,
		BodyType:        rec.BodyType,
		EngineType:      rec.EngineType,
		Year:            year,
		PlantCode:       rec.PlantCode,
		Characteristics: rec.Characteristics,
		Serial:          rec.Serial,
		Price:           rec.Price,
	}, nil
}
