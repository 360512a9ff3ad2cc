// Package main provides the vincheck command for validating and decomposing
// vehicle identification numbers.
package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"vinfeatures/internal/decomposer"
	"vinfeatures/internal/formatter"
	"vinfeatures/internal/models"
	"vinfeatures/internal/normalizer"
	"vinfeatures/internal/vin"
)

var errInvalid = errors.New("one or more identifiers are invalid")

// checkResult is the outcome for one identifier.
type checkResult struct {
	VIN             string `json:"vin"`
	Valid           bool   `json:"valid"`
	CheckDigit      string `json:"checkDigit,omitempty"`
	Country         string `json:"country,omitempty"`
	Manufacturer    string `json:"manufacturer,omitempty"`
	Model           string `json:"model,omitempty"`
	BodyType        string `json:"bodyType,omitempty"`
	EngineType      string `json:"engineType,omitempty"`
	Year            string `json:"year,omitempty"`
	Plant           string `json:"plant,omitempty"`
	Characteristics string `json:"characteristics,omitempty"`
	Serial          string `json:"serial,omitempty"`
	Error           string `json:"error,omitempty"`
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errInvalid) {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		}

		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("vincheck", flag.ContinueOnError)
	fs.SetOutput(stderr)

	asJSON := fs.Bool("json", false, "Print results as JSON")

	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: vincheck [-json] [VIN ...]")
		fmt.Fprintln(stderr, "Reads one identifier per line from stdin when no arguments are given.")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	ids := fs.Args()
	if len(ids) == 0 {
		scanner := bufio.NewScanner(stdin)
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				ids = append(ids, line)
			}
		}

		if err := scanner.Err(); err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
	}

	results := make([]checkResult, len(ids))
	allValid := true

	for i, id := range ids {
		results[i] = check(strings.ToUpper(id))
		allValid = allValid && results[i].Valid
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")

		if err := enc.Encode(results); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(stdout, render(results))
	}

	if !allValid {
		return errInvalid
	}

	return nil
}

func check(id string) checkResult {
	res := checkResult{VIN: id}

	if len(id) == vin.Length {
		if c, err := vin.CheckDigit(id); err == nil {
			res.CheckDigit = string(c)
		}
	}

	if err := vin.Validate(id); err != nil {
		res.Error = err.Error()

		return res
	}

	rec, err := decomposer.Decompose(models.RawRecord{VIN: id})
	if err != nil {
		res.Error = err.Error()

		return res
	}

	res.Valid = true
	res.Manufacturer = rec.Manufacturer
	res.Model = rec.Model
	res.BodyType = rec.BodyType
	res.EngineType = rec.EngineType
	res.Plant = rec.PlantCode
	res.Characteristics = rec.Characteristics
	res.Serial = strconv.FormatUint(rec.Serial, 10)

	res.Country = models.Unknown
	if name, ok := normalizer.LookupCountry(rec.Country); ok {
		res.Country = name
	}

	res.Year = models.UnknownYear.String()
	if year, ok := normalizer.LookupYear(rec.YearCode); ok {
		res.Year = year.String()
	}

	return res
}

func render(results []checkResult) string {
	header := []string{"vin", "valid", "check", "country", "manufacturer", "model", "body", "engine", "year", "plant", "characteristics", "serial", "error"}
	rows := make([][]string, len(results))

	for i, r := range results {
		rows[i] = []string{
			r.VIN, strconv.FormatBool(r.Valid), r.CheckDigit, r.Country, r.Manufacturer, r.Model,
			r.BodyType, r.EngineType, r.Year, r.Plant, r.Characteristics, r.Serial, r.Error,
		}
	}

	return formatter.Table(header, rows)
}
