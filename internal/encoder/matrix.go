package encoder

import (
	"errors"
	"fmt"
)

// ErrUnknownColumn is returned when a column name is not part of the matrix.
var ErrUnknownColumn = errors.New("unknown column")

// Feature columns.
const (
	ColManufacturer    = "manufacturer"
	ColModel           = "model"
	ColBodyType        = "body_type"
	ColEngineType      = "engine_type"
	ColCountry         = "country"
	ColYear            = "year"
	ColPlant           = "plant"
	ColCharacteristics = "characteristics"
	ColSerial          = "serial"
	ColPrice           = "price"
)

// Columns is the output column order.
var Columns = []string{
	ColManufacturer,
	ColModel,
	ColBodyType,
	ColEngineType,
	ColCountry,
	ColYear,
	ColPlant,
	ColCharacteristics,
	ColSerial,
	ColPrice,
}

// CategoricalColumns are encoded through a fitted Vocabulary.
var CategoricalColumns = []string{
	ColCountry,
	ColManufacturer,
	ColModel,
	ColBodyType,
	ColEngineType,
	ColPlant,
	ColCharacteristics,
}

// FeatureMatrix is the standardized output table. VINs[i] identifies Rows[i].
type FeatureMatrix struct {
	Columns []string    `json:"columns"`
	VINs    []string    `json:"vins"`
	Rows    [][]float64 `json:"rows"`
}

// Len returns the number of rows.
func (m *FeatureMatrix) Len() int {
	return len(m.Rows)
}

// ColumnIndex returns the position of name.
func (m *FeatureMatrix) ColumnIndex(name string) (int, error) {
	for i, c := range m.Columns {
		if c == name {
			return i, nil
		}
	}

	return -1, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
}

// Column returns a copy of the named column.
func (m *FeatureMatrix) Column(name string) ([]float64, error) {
	j, err := m.ColumnIndex(name)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(m.Rows))
	for i, row := range m.Rows {
		out[i] = row[j]
	}

	return out, nil
}
