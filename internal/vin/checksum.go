package vin

import (
	"errors"
	"fmt"
)

// Validation errors.
var (
	ErrInvalidLength     = errors.New("identifier must be exactly 17 characters")
	ErrInvalidCharacter  = errors.New("identifier contains a character outside the allowed alphabet")
	ErrInvalidCheckDigit = errors.New("check digit must be 0-9 or X")
	ErrChecksumMismatch  = errors.New("checksum does not match check digit")
)

// checkX is the check digit value written as the letter X.
const checkX = 10

// Validate returns nil when id is a well-formed identifier whose check digit
// matches its weighted checksum.
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("%w: got %d", ErrInvalidLength, len(id))
	}

	sum, err := checksum(id)
	if err != nil {
		return err
	}

	expected, err := checkValue(id[CheckPosition])
	if err != nil {
		return err
	}

	if sum%11 != expected {
		return fmt.Errorf("%w: residue %d, check digit %q", ErrChecksumMismatch, sum%11, id[CheckPosition])
	}

	return nil
}

// IsValid reports whether id passes Validate.
func IsValid(id string) bool {
	return Validate(id) == nil
}

// CheckDigit computes the check character for id. The character currently at
// the check position is ignored, but must still be in the alphabet.
func CheckDigit(id string) (byte, error) {
	if len(id) != Length {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidLength, len(id))
	}

	sum, err := checksum(id)
	if err != nil {
		return 0, err
	}

	residue := sum % 11
	if residue == checkX {
		return 'X', nil
	}

	return byte('0' + residue), nil
}

func checksum(id string) (int, error) {
	sum := 0

	for i := 0; i < Length; i++ {
		v, ok := Transliterate(id[i])
		if !ok {
			return 0, fmt.Errorf("%w: %q at position %d", ErrInvalidCharacter, id[i], i)
		}

		sum += weights[i] * v
	}

	return sum, nil
}

func checkValue(c byte) (int, error) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), nil
	case c == 'X':
		return checkX, nil
	default:
		return 0, fmt.Errorf("%w: got %q", ErrInvalidCheckDigit, c)
	}
}
