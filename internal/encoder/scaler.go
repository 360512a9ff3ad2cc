package encoder

import (
	"errors"
	"fmt"
	"math"
)

// Scaling errors.
var (
	ErrNotFitted         = errors.New("scaler is not fitted")
	ErrDimensionMismatch = errors.New("row width does not match fitted columns")
)

// Scaler standardizes columns to zero mean and unit population variance.
// Columns with zero variance are mapped to all zeros.
type Scaler struct {
	Means []float64 `yaml:"means" json:"means"`
	Stds  []float64 `yaml:"stds" json:"stds"`
}

// FitScaler computes per-column mean and population standard deviation over
// the whole batch.
func FitScaler(rows [][]float64, cols int) (*Scaler, error) {
	means := make([]float64, cols)
	stds := make([]float64, cols)

	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrDimensionMismatch, i, len(row), cols)
		}
	}

	n := float64(len(rows))
	if n == 0 {
		return &Scaler{Means: means, Stds: stds}, nil
	}

	for _, row := range rows {
		for j, x := range row {
			means[j] += x
		}
	}

	for j := range means {
		means[j] /= n
	}

	// second pass over centered values keeps the variance stable for large prices
	for _, row := range rows {
		for j, x := range row {
			d := x - means[j]
			stds[j] += d * d
		}
	}

	for j := range stds {
		stds[j] = math.Sqrt(stds[j] / n)
	}

	return &Scaler{Means: means, Stds: stds}, nil
}

// Cols returns the fitted width.
func (s *Scaler) Cols() int {
	return len(s.Means)
}

// Transform returns standardized copies of rows.
func (s *Scaler) Transform(rows [][]float64) ([][]float64, error) {
	if err := s.check(); err != nil {
		return nil, err
	}

	out := make([][]float64, len(rows))

	for i, row := range rows {
		if len(row) != s.Cols() {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrDimensionMismatch, i, len(row), s.Cols())
		}

		scaled := make([]float64, len(row))
		for j, x := range row {
			if s.Stds[j] > 0 {
				scaled[j] = (x - s.Means[j]) / s.Stds[j]
			}
		}

		out[i] = scaled
	}

	return out, nil
}

// InverseTransform maps standardized rows back to the original scale.
// Zero-variance columns come back as their mean.
func (s *Scaler) InverseTransform(rows [][]float64) ([][]float64, error) {
	if err := s.check(); err != nil {
		return nil, err
	}

	out := make([][]float64, len(rows))

	for i, row := range rows {
		if len(row) != s.Cols() {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrDimensionMismatch, i, len(row), s.Cols())
		}

		orig := make([]float64, len(row))
		for j, z := range row {
			orig[j] = z*s.Stds[j] + s.Means[j]
		}

		out[i] = orig
	}

	return out, nil
}

func (s *Scaler) check() error {
	if s == nil || s.Means == nil || len(s.Means) != len(s.Stds) {
		return ErrNotFitted
	}

	return nil
}
