// Package output writes feature matrices and drop reports to files or streams.
package output

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"vinfeatures/internal/encoder"
	"vinfeatures/internal/formatter"
	"vinfeatures/internal/models"
)

// Output formats.
const (
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
)

// ErrUnsupportedFormat is returned for formats a writer does not handle.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Stdout is the path that selects standard output.
const Stdout = "-"

// WriteMatrix writes m to w in the given format.
func WriteMatrix(w io.Writer, m *encoder.FeatureMatrix, format string, pretty bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, m, pretty)
	case FormatCSV:
		return writeCSV(w, m)
	case FormatMarkdown:
		_, err := fmt.Fprintln(w, formatter.FeatureTable(m, formatter.DefaultPrecision))

		return err
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// WriteReport writes r to w as json or markdown.
func WriteReport(w io.Writer, r *models.DropReport, format string, pretty bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, r, pretty)
	case FormatMarkdown:
		_, err := io.WriteString(w, formatter.ReportMarkdown(r))

		return err
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// SaveMatrix writes m to path, or to stdout when path is "-".
func SaveMatrix(path string, m *encoder.FeatureMatrix, format string, pretty bool) error {
	return save(path, func(w io.Writer) error {
		return WriteMatrix(w, m, format, pretty)
	})
}

// SaveReport writes r to path, or to stdout when path is "-".
func SaveReport(path string, r *models.DropReport, format string, pretty bool) error {
	return save(path, func(w io.Writer) error {
		return WriteReport(w, r, format, pretty)
	})
}

func save(path string, write func(io.Writer) error) error {
	if path == Stdout {
		return write(os.Stdout)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := write(f); err != nil {
		_ = f.Close()

		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return f.Close()
}

func writeJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}

	return enc.Encode(v)
}

func writeCSV(w io.Writer, m *encoder.FeatureMatrix) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(append([]string{"vin"}, m.Columns...)); err != nil {
		return err
	}

	record := make([]string, len(m.Columns)+1)

	for i, row := range m.Rows {
		record[0] = m.VINs[i]
		for j, v := range row {
			record[j+1] = strconv.FormatFloat(v, 'g', -1, 64)
		}

		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}
