// Package decomposer slices validated identifiers into their positional sub-fields.
package decomposer

import (
	"errors"
	"fmt"
	"strconv"

	"vinfeatures/internal/models"
	"vinfeatures/internal/vin"
)

// Decomposition errors.
var (
	ErrInvalidLength    = errors.New("identifier must be exactly 17 characters")
	ErrNonNumericSerial = errors.New("serial number is not numeric")
)

// Field offsets, end exclusive.
const (
	countryStart, countryEnd                 = 0, 1
	manufacturerStart, manufacturerEnd       = 1, 3
	modelStart, modelEnd                     = 3, 6
	bodyTypeStart, bodyTypeEnd               = 6, 7
	engineTypeStart, engineTypeEnd           = 7, 8
	yearStart, yearEnd                       = 9, 10
	plantStart, plantEnd                     = 10, 11
	characteristicsStart, characteristicsEnd = 11, 12
	serialStart, serialEnd                   = 12, vin.Length
)

// Decompose splits a validated identifier into sub-fields. It performs no
// checksum validation; callers run vin.Validate first.
func Decompose(raw models.RawRecord) (models.DecomposedRecord, error) {
	id := raw.VIN
	if len(id) != vin.Length {
		return models.DecomposedRecord{}, fmt.Errorf("%w: got %d", ErrInvalidLength, len(id))
	}

	serial, err := strconv.ParseUint(id[serialStart:serialEnd], 10, 64)
	if err != nil {
		return models.DecomposedRecord{}, fmt.Errorf("%w: %q", ErrNonNumericSerial, id[serialStart:serialEnd])
	}

	return models.DecomposedRecord{
		VIN:             id,
		Country:         id[countryStart:countryEnd],
		Manufacturer:    id[manufacturerStart:manufacturerEnd],
		Model:           id[modelStart:modelEnd],
		BodyType:        id[bodyTypeStart:bodyTypeEnd],
		EngineType:      id[engineTypeStart:engineTypeEnd],
		YearCode:        id[yearStart:yearEnd],
		PlantCode:       id[plantStart:plantEnd],
		Characteristics: id[characteristicsStart:characteristicsEnd],
		Serial:          serial,
		Price:           raw.Price,
	}, nil
}
