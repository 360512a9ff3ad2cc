// Package vin implements the 17-character vehicle identifier checksum.
package vin

// Length is the canonical identifier length.
const Length = 17

// CheckPosition is the index of the check digit.
const CheckPosition = 8

// transliteration maps a character to its slot index; the value used by the
// checksum is slot mod 10. '.' slots are fillers for I, O and Q and match no
// character.
const transliteration = "0123456789.ABCDEFGH..JKLMN.P.R..STUVWXYZ"

const filler = '.'

var weights = [Length]int{8, 7, 6, 5, 4, 3, 2, 10, 0, 9, 8, 7, 6, 5, 4, 3, 2}

// valueOf is transliteration inverted into a byte-indexed lookup.
var valueOf = buildValueTable()

func buildValueTable() [256]int8 {
	var t [256]int8
	for i := range t {
		t[i] = -1
	}

	for slot := 0; slot < len(transliteration); slot++ {
		c := transliteration[slot]
		if c == filler {
			continue
		}

		t[c] = int8(slot % 10)
	}

	return t
}

// Transliterate returns the checksum value of c, or false when c is outside
// the allowed alphabet.
func Transliterate(c byte) (int, bool) {
	v := valueOf[c]
	if v < 0 {
		return 0, false
	}

	return int(v), true
}

// Weights returns a copy of the per-position checksum weights.
func Weights() [Length]int {
	return weights
}

// Alphabet returns the allowed identifier characters in table order.
func Alphabet() string {
	out := make([]byte, 0, len(transliteration))
	for i := 0; i < len(transliteration); i++ {
		if transliteration[i] != filler {
			out = append(out, transliteration[i])
		}
	}

	return string(out)
}
