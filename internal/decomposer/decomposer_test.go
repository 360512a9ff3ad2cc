package decomposer

import (
	"errors"
	"testing"

	"vinfeatures/internal/models"
)

func TestDecompose_Fixture(t *testing.T) {
	got, err := Decompose(models.RawRecord{VIN: "1HGCM82633A004352", Price: 15000})
	if err != nil {
		t.Fatalf("Decompose returned unexpected error: %v", err)
	}

	want := models.DecomposedRecord{
		VIN:             "1HGCM82633A004352",
		Country:         "1",
		Manufacturer:    "HG",
		Model:           "CM8",
		BodyType:        "2",
		EngineType:      "6",
		YearCode:        "3",
		PlantCode:       "A",
		Characteristics: "0",
		Serial:          4352,
		Price:           15000,
	}

	if got != want {
		t.Errorf("Decompose() = %+v, want %+v", got, want)
	}
}

func TestDecompose_CheckDigitDropped(t *testing.T) {
	a, errA := Decompose(models.RawRecord{VIN: "1HGCM82633A004352"})
	b, errB := Decompose(models.RawRecord{VIN: "1HGCM826X3A004352"})

	if errA != nil || errB != nil {
		t.Fatalf("unexpected errors: %v, %v", errA, errB)
	}

	a.VIN, b.VIN = "", ""
	if a != b {
		t.Errorf("records differing only in check digit decompose differently: %+v vs %+v", a, b)
	}
}

func TestDecompose_Errors(t *testing.T) {
	tests := []struct {
		name    string
		vin     string
		wantErr error
	}{
		{name: "short", vin: "1HGCM8263", wantErr: ErrInvalidLength},
		{name: "letter in serial", vin: "1HGCM82633A00435A", wantErr: ErrNonNumericSerial},
		{name: "all letters serial", vin: "1HGCM82633AABCDE", wantErr: ErrInvalidLength},
		{name: "letters in serial", vin: "1HGCM82633AABCDEF", wantErr: ErrNonNumericSerial},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decompose(models.RawRecord{VIN: tt.vin})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Decompose(%q) error = %v, want %v", tt.vin, err, tt.wantErr)
			}
		})
	}
}
