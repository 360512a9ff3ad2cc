// Package models defines the record types passed between pipeline stages.
package models

// RawRecord is an identifier/price pair as found in the input text.
type RawRecord struct {
	VIN    string `json:"vin"`
	Price  int64  `json:"price"`
	Offset int    `json:"offset"`
}

// DecomposedRecord holds the fixed-offset sub-fields of a validated identifier.
// The check digit is consumed by validation and is not carried here.
type DecomposedRecord struct {
	VIN             string `json:"vin"`
	Country         string `json:"country"`
	Manufacturer    string `json:"manufacturer"`
	Model           string `json:"model"`
	BodyType        string `json:"bodyType"`
	EngineType      string `json:"engineType"`
	YearCode        string `json:"yearCode"`
	PlantCode       string `json:"plantCode"`
	Characteristics string `json:"characteristics"`
	Serial          uint64 `json:"serial"`
	Price           int64  `json:"price"`
}

// NormalizedRecord is a DecomposedRecord with the country and year codes
// resolved through the lookup tables.
type NormalizedRecord struct {
	VIN             string `json:"vin"`
	Country         string `json:"country"`
	Manufacturer    string `json:"manufacturer"`
	Model           string `json:"model"`
	BodyType        string `json:"bodyType"`
	EngineType      string `json:"engineType"`
	Year            Year   `json:"year"`
	PlantCode       string `json:"plantCode"`
	Characteristics string `json:"characteristics"`
	Serial          uint64 `json:"serial"`
	Price           int64  `json:"price"`
}
