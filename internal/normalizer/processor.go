// Package normalizer turns raw identifier/price pairs into normalized records.
package normalizer

import (
	"errors"

	"vinfeatures/internal/decomposer"
	"vinfeatures/internal/models"
)

// Processor runs one record through validation, decomposition and lookup.
type Processor struct {
	validator   *Validator
	transformer *Transformer
}

// NewProcessor creates a new processor instance.
func NewProcessor(policy UnknownPolicy) *Processor {
	return &Processor{
		validator:   NewValidator(),
		transformer: NewTransformer(policy),
	}
}

// Process validates, decomposes and normalizes raw. Failures are returned as
// a Result carrying the drop reason rather than as an error.
func (p *Processor) Process(raw models.RawRecord) models.Result[models.NormalizedRecord] {
	// 1. Validate the identifier
	if dropErr := p.validator.Validate(raw); dropErr != nil {
		return models.Result[models.NormalizedRecord]{Err: dropErr}
	}

	// 2. Decompose
	rec, err := decomposer.Decompose(raw)
	if err != nil {
		reason := models.ReasonInvalidIdentifier
		if errors.Is(err, decomposer.ErrNonNumericSerial) {
			reason = models.ReasonNonNumericSerial
		}

		return models.Result[models.NormalizedRecord]{Err: models.Drop(reason, err)}
	}

	// 3. Resolve lookups
	normalized, err := p.transformer.Transform(rec)
	if err != nil {
		return models.Result[models.NormalizedRecord]{Err: models.Drop(models.ReasonUnknownCategoryCode, err)}
	}

	return models.Result[models.NormalizedRecord]{Value: normalized}
}
