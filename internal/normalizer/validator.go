package normalizer

import (
	"vinfeatures/internal/models"
	"vinfeatures/internal/vin"
)

// Validator gates raw records before decomposition.
type Validator struct{}

// NewValidator creates a new validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks the record's identifier. The returned error, if any, is a
// DropError with ReasonInvalidIdentifier wrapping the vin sentinel.
func (v *Validator) Validate(raw models.RawRecord) *models.DropError {
	if err := vin.Validate(raw.VIN); err != nil {
		return models.Drop(models.ReasonInvalidIdentifier, err)
	}

	return nil
}
