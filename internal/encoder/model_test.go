package encoder

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vinfeatures/internal/models"
	"vinfeatures/pkg/metadata"
)

func records() []models.NormalizedRecord {
	return []models.NormalizedRecord{
		{VIN: "A", Country: "United States", Manufacturer: "HG", Model: "CM8", BodyType: "2", EngineType: "6", Year: 2003, PlantCode: "A", Characteristics: "0", Serial: 4352, Price: 15000},
		{VIN: "B", Country: "Canada", Manufacturer: "FT", Model: "RW0", BodyType: "8", EngineType: "F", Year: 2010, PlantCode: "C", Characteristics: "1", Serial: 12, Price: 9000},
		{VIN: "C", Country: "United States", Manufacturer: "HG", Model: "CM8", BodyType: "2", EngineType: "6", Year: models.UnknownYear, PlantCode: "A", Characteristics: "0", Serial: 77, Price: 21000},
	}
}

func TestFit_ColumnsAndStandardization(t *testing.T) {
	recs := records()

	m, err := Fit(recs, Options{})
	require.NoError(t, err)
	require.NoError(t, m.Validate())

	matrix, rejected, err := m.Transform(recs)
	require.NoError(t, err)
	assert.Empty(t, rejected)

	assert.Equal(t, Columns, matrix.Columns)
	assert.Equal(t, []string{"A", "B", "C"}, matrix.VINs)
	require.Equal(t, 3, matrix.Len())

	for j, col := range matrix.Columns {
		values, err := matrix.Column(col)
		require.NoError(t, err)

		mean, std := columnStats(matrix.Rows, j)
		assert.InDelta(t, 0, mean, eps, col)

		if m.Scaler.Stds[j] > 0 {
			assert.InDelta(t, 1, std, eps, col)
		}

		for _, x := range values {
			assert.False(t, math.IsNaN(x) || math.IsInf(x, 0), col)
		}
	}
}

func TestFit_CategoricalCodes(t *testing.T) {
	m, err := Fit(records(), Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"Canada", "United States"}, m.Vocabularies[ColCountry].Values())
	assert.Equal(t, []string{"FT", "HG"}, m.Vocabularies[ColManufacturer].Values())

	name, err := m.Decode(ColCountry, 1)
	require.NoError(t, err)
	assert.Equal(t, "United States", name)

	_, err = m.Decode(ColPrice, 0)
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestFit_SentinelYear(t *testing.T) {
	recs := records()

	m, err := Fit(recs, Options{SentinelYear: 1980})
	require.NoError(t, err)

	row, err := m.encode(recs[2])
	require.NoError(t, err)

	j := indexOf(t, ColYear)
	assert.Equal(t, 1980.0, row[j])
}

func TestTransform_Deterministic(t *testing.T) {
	recs := records()

	m, err := Fit(recs, Options{})
	require.NoError(t, err)

	a, _, err := m.Transform(recs)
	require.NoError(t, err)

	b, _, err := m.Transform(recs)
	require.NoError(t, err)

	assert.Equal(t, a.Rows, b.Rows)
}

func TestTransform_UnseenCategory(t *testing.T) {
	m, err := Fit(records(), Options{})
	require.NoError(t, err)

	fresh := records()
	fresh[1].Manufacturer = "ZZ"

	matrix, rejected, err := m.Transform(fresh)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "C"}, matrix.VINs)
	require.Len(t, rejected, 1)
	assert.Equal(t, 1, rejected[0].Index)
	assert.Equal(t, models.ReasonUnseenCategory, rejected[0].Err.Reason)
	assert.ErrorIs(t, rejected[0].Err, ErrUnseenCategory)
}

func TestFit_Empty(t *testing.T) {
	m, err := Fit(nil, Options{})
	require.NoError(t, err)

	matrix, rejected, err := m.Transform(nil)
	require.NoError(t, err)
	assert.Empty(t, rejected)
	assert.Equal(t, 0, matrix.Len())
}

func TestModel_SaveLoad(t *testing.T) {
	recs := records()

	m, err := Fit(recs, Options{SentinelYear: 1990})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "model.yaml")
	require.NoError(t, m.Save(path))

	loaded, err := LoadModel(path)
	require.NoError(t, err)

	assert.Equal(t, m.ID, loaded.ID)
	assert.Equal(t, 1990, loaded.SentinelYear)
	assert.Equal(t, m.Scaler.Means, loaded.Scaler.Means)
	assert.Equal(t, m.Scaler.Stds, loaded.Scaler.Stds)

	want, _, err := m.Transform(recs)
	require.NoError(t, err)

	got, _, err := loaded.Transform(recs)
	require.NoError(t, err)

	assert.Equal(t, want.Rows, got.Rows)
}

func TestLoadModel_Tampered(t *testing.T) {
	m, err := Fit(records(), Options{})
	require.NoError(t, err)

	data, err := m.Marshal()
	require.NoError(t, err)

	tampered := strings.Replace(string(data), "sentinel_year: 0", "sentinel_year: 5", 1)
	path := filepath.Join(t.TempDir(), "model.yaml")
	require.NoError(t, os.WriteFile(path, []byte(tampered), 0644))

	_, err = LoadModel(path)
	assert.ErrorIs(t, err, metadata.ErrHashMismatch)
}

func TestUnmarshalModel_Corrupt(t *testing.T) {
	signed := metadata.Sign("id: x\ncolumns: [price]\n", ModelKind, ModelVersion)

	_, err := UnmarshalModel([]byte(signed))
	assert.ErrorIs(t, err, ErrCorruptModel)

	wrongKind := metadata.Sign("id: x\n", "other", "1")

	_, err = UnmarshalModel([]byte(wrongKind))
	assert.ErrorIs(t, err, ErrCorruptModel)
}

func indexOf(t *testing.T, col string) int {
	t.Helper()

	for i, c := range Columns {
		if c == col {
			return i
		}
	}

	t.Fatalf("column %q not found", col)

	return -1
}
