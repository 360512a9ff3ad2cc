package models

import (
	"encoding/json"
	"strconv"
)

// Unknown is the sentinel every lookup falls back to when a code is not in its table.
const Unknown = "unknown"

// Year is a model year. The zero value is the unknown sentinel.
type Year int

// UnknownYear marks a year code absent from the lookup table.
const UnknownYear Year = 0

// Known reports whether y came from the lookup table.
func (y Year) Known() bool {
	return y != UnknownYear
}

func (y Year) String() string {
	if !y.Known() {
		return Unknown
	}

	return strconv.Itoa(int(y))
}

// MarshalJSON encodes an unknown year as the sentinel string.
func (y Year) MarshalJSON() ([]byte, error) {
	if !y.Known() {
		return json.Marshal(Unknown)
	}

	return json.Marshal(int(y))
}
