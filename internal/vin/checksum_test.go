package vin

import (
	"errors"
	"math/rand/v2"
	"testing"
)

const checkChars = "0123456789X"

func TestValidate_Valid(t *testing.T) {
	for _, id := range []string{
		"1HGCM82633A004352",
		"1M8GDM9AXKP042788",
		"11111111111111111",
	} {
		if err := Validate(id); err != nil {
			t.Errorf("Validate(%q) = %v, want nil", id, err)
		}

		if !IsValid(id) {
			t.Errorf("IsValid(%q) = false", id)
		}
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr error
	}{
		{name: "empty", id: "", wantErr: ErrInvalidLength},
		{name: "too short", id: "1HGCM82633A00435", wantErr: ErrInvalidLength},
		{name: "too long", id: "1HGCM82633A0043521", wantErr: ErrInvalidLength},
		{name: "letter I", id: "INVALIDVIN000000X", wantErr: ErrInvalidCharacter},
		{name: "letter O", id: "1HGCM82633O004352", wantErr: ErrInvalidCharacter},
		{name: "letter Q", id: "QHGCM82633A004352", wantErr: ErrInvalidCharacter},
		{name: "lowercase", id: "1hgcm82633a004352", wantErr: ErrInvalidCharacter},
		{name: "letter check digit", id: "1HGCM826A3A004352", wantErr: ErrInvalidCheckDigit},
		{name: "wrong check digit", id: "1HGCM82643A004352", wantErr: ErrChecksumMismatch},
		{name: "X when digit expected", id: "1HGCM826X3A004352", wantErr: ErrChecksumMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.id)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate(%q) = %v, want %v", tt.id, err, tt.wantErr)
			}

			if IsValid(tt.id) {
				t.Errorf("IsValid(%q) = true", tt.id)
			}
		})
	}
}

func TestCheckDigit(t *testing.T) {
	tests := []struct {
		id   string
		want byte
	}{
		{"1HGCM82633A004352", '3'},
		{"1HGCM82603A004352", '3'},
		{"1M8GDM9A0KP042788", 'X'},
		{"11111111111111111", '1'},
	}

	for _, tt := range tests {
		got, err := CheckDigit(tt.id)
		if err != nil {
			t.Fatalf("CheckDigit(%q) error: %v", tt.id, err)
		}

		if got != tt.want {
			t.Errorf("CheckDigit(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}

	if _, err := CheckDigit("SHORT"); !errors.Is(err, ErrInvalidLength) {
		t.Errorf("CheckDigit(short) = %v, want ErrInvalidLength", err)
	}

	if _, err := CheckDigit("1HGCM82633I004352"); !errors.Is(err, ErrInvalidCharacter) {
		t.Errorf("CheckDigit(with I) = %v, want ErrInvalidCharacter", err)
	}
}

// randomValid builds an identifier from random characters and writes the
// computed check digit into place.
func randomValid(t *testing.T, rng *rand.Rand) string {
	t.Helper()

	alphabet := Alphabet()
	buf := make([]byte, Length)

	for i := range buf {
		buf[i] = alphabet[rng.IntN(len(alphabet))]
	}

	c, err := CheckDigit(string(buf))
	if err != nil {
		t.Fatalf("CheckDigit: %v", err)
	}

	buf[CheckPosition] = c

	return string(buf)
}

func TestValidate_ForwardConstructed(t *testing.T) {
	rng := rand.New(rand.NewPCG(17, 11))

	for range 2000 {
		id := randomValid(t, rng)
		if !IsValid(id) {
			t.Fatalf("forward-constructed %q not valid: %v", id, Validate(id))
		}
	}
}

func TestValidate_CheckDigitMutation(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))

	for range 500 {
		id := randomValid(t, rng)

		for i := 0; i < len(checkChars); i++ {
			c := checkChars[i]
			if c == id[CheckPosition] {
				continue
			}

			mutated := id[:CheckPosition] + string(c) + id[CheckPosition+1:]
			if err := Validate(mutated); !errors.Is(err, ErrChecksumMismatch) {
				t.Fatalf("Validate(%q) = %v, want ErrChecksumMismatch", mutated, err)
			}
		}
	}
}

// Substituting a character with a different checksum value at any weighted
// position always changes the residue, since 11 is prime and both the
// weight and the value delta are non-zero mod 11.
func TestValidate_SingleCharacterCorruption(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 7))
	alphabet := Alphabet()

	for range 300 {
		id := randomValid(t, rng)

		for pos := 0; pos < Length; pos++ {
			if pos == CheckPosition {
				continue
			}

			orig, _ := Transliterate(id[pos])

			for j := 0; j < len(alphabet); j++ {
				v, _ := Transliterate(alphabet[j])
				if v == orig {
					continue
				}

				mutated := id[:pos] + string(alphabet[j]) + id[pos+1:]
				if IsValid(mutated) {
					t.Fatalf("corrupted %q (from %q at %d) still valid", mutated, id, pos)
				}
			}
		}
	}
}
