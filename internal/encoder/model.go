package encoder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"vinfeatures/internal/models"
	"vinfeatures/pkg/metadata"
)

// ModelKind and ModelVersion identify persisted model files.
const (
	ModelKind    = "vinfeatures-model"
	ModelVersion = "1"
)

// ErrCorruptModel is returned when a loaded model is internally inconsistent.
var ErrCorruptModel = errors.New("corrupt model")

// Options configure fitting.
type Options struct {
	// SentinelYear is the numeric value used for models.UnknownYear.
	SentinelYear int
}

// Model is the fitted encoder state: one vocabulary per categorical column and
// the scaler over the full encoded matrix. It is fitted once and reapplied to
// later batches.
type Model struct {
	ID           string                 `yaml:"id"`
	FittedAt     time.Time              `yaml:"fitted_at"`
	SentinelYear int                    `yaml:"sentinel_year"`
	Columns      []string               `yaml:"columns"`
	Vocabularies map[string]*Vocabulary `yaml:"vocabularies"`
	Scaler       *Scaler                `yaml:"scaler"`
}

// Rejected is a record Transform could not encode.
type Rejected struct {
	Index int
	Err   *models.DropError
}

// Fit builds vocabularies and scaler from the whole batch.
func Fit(records []models.NormalizedRecord, opts Options) (*Model, error) {
	m := &Model{
		ID:           uuid.NewString(),
		FittedAt:     time.Now().UTC(),
		SentinelYear: opts.SentinelYear,
		Columns:      append([]string(nil), Columns...),
		Vocabularies: make(map[string]*Vocabulary, len(CategoricalColumns)),
	}

	for _, col := range CategoricalColumns {
		observed := make([]string, len(records))
		for i, rec := range records {
			observed[i] = categoryValue(rec, col)
		}

		m.Vocabularies[col] = FitVocabulary(observed)
	}

	raw := make([][]float64, len(records))

	for i, rec := range records {
		row, err := m.encode(rec)
		if err != nil {
			return nil, fmt.Errorf("encode record %d: %w", i, err)
		}

		raw[i] = row
	}

	scaler, err := FitScaler(raw, len(m.Columns))
	if err != nil {
		return nil, err
	}

	m.Scaler = scaler

	return m, nil
}

// Transform encodes and standardizes records with the fitted state. Records
// carrying categories outside the vocabularies are returned as Rejected and
// excluded from the matrix.
func (m *Model) Transform(records []models.NormalizedRecord) (*FeatureMatrix, []Rejected, error) {
	raw := make([][]float64, 0, len(records))
	vins := make([]string, 0, len(records))

	var rejected []Rejected

	for i, rec := range records {
		row, err := m.encode(rec)
		if err != nil {
			rejected = append(rejected, Rejected{Index: i, Err: models.Drop(models.ReasonUnseenCategory, err)})

			continue
		}

		raw = append(raw, row)
		vins = append(vins, rec.VIN)
	}

	scaled, err := m.Scaler.Transform(raw)
	if err != nil {
		return nil, nil, err
	}

	return &FeatureMatrix{
		Columns: append([]string(nil), m.Columns...),
		VINs:    vins,
		Rows:    scaled,
	}, rejected, nil
}

// Decode maps a category code back to its value.
func (m *Model) Decode(column string, code int) (string, error) {
	v, ok := m.Vocabularies[column]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}

	return v.Decode(code)
}

func (m *Model) encode(rec models.NormalizedRecord) ([]float64, error) {
	row := make([]float64, len(m.Columns))

	for j, col := range m.Columns {
		switch col {
		case ColYear:
			y := float64(m.SentinelYear)
			if rec.Year.Known() {
				y = float64(rec.Year)
			}

			row[j] = y
		case ColSerial:
			row[j] = float64(rec.Serial)
		case ColPrice:
			row[j] = float64(rec.Price)
		default:
			vocab, ok := m.Vocabularies[col]
			if !ok {
				return nil, fmt.Errorf("%w: no vocabulary for %q", ErrCorruptModel, col)
			}

			code, err := vocab.Encode(categoryValue(rec, col))
			if err != nil {
				return nil, fmt.Errorf("%s: %w", col, err)
			}

			row[j] = float64(code)
		}
	}

	return row, nil
}

func categoryValue(rec models.NormalizedRecord, col string) string {
	switch col {
	case ColCountry:
		return rec.Country
	case ColManufacturer:
		return rec.Manufacturer
	case ColModel:
		return rec.Model
	case ColBodyType:
		return rec.BodyType
	case ColEngineType:
		return rec.EngineType
	case ColPlant:
		return rec.PlantCode
	case ColCharacteristics:
		return rec.Characteristics
	default:
		return ""
	}
}

// Validate checks that the model can encode rows.
func (m *Model) Validate() error {
	if m.Scaler == nil {
		return fmt.Errorf("%w: missing scaler", ErrCorruptModel)
	}

	if len(m.Scaler.Means) != len(m.Columns) || len(m.Scaler.Stds) != len(m.Columns) {
		return fmt.Errorf("%w: scaler width %d, columns %d", ErrCorruptModel, len(m.Scaler.Means), len(m.Columns))
	}

	for _, col := range CategoricalColumns {
		if _, ok := m.Vocabularies[col]; !ok {
			return fmt.Errorf("%w: no vocabulary for %q", ErrCorruptModel, col)
		}
	}

	return nil
}

// Marshal returns the signed YAML encoding of the model.
func (m *Model) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal model: %w", err)
	}

	return []byte(metadata.Sign(string(data), ModelKind, ModelVersion)), nil
}

// Save writes the signed model to path.
func (m *Model) Save(path string) error {
	data, err := m.Marshal()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write model file: %w", err)
	}

	return nil
}

// UnmarshalModel verifies the signature of data and decodes the model.
func UnmarshalModel(data []byte) (*Model, error) {
	meta, err := metadata.Verify(string(data))
	if err != nil {
		return nil, fmt.Errorf("model signature: %w", err)
	}

	if meta.Kind != ModelKind {
		return nil, fmt.Errorf("%w: kind %q", ErrCorruptModel, meta.Kind)
	}

	return DecodeModel(data)
}

// DecodeModel parses model YAML without checking its signature.
func DecodeModel(data []byte) (*Model, error) {
	var m Model
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse model YAML: %w", err)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}

	return &m, nil
}

// LoadModel reads and verifies a model written by Save.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}

	return UnmarshalModel(data)
}
