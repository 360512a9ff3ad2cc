// Package main provides the signer command-line tool for verifying and
// re-signing fitted model files.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"vinfeatures/internal/encoder"
	"vinfeatures/pkg/metadata"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("signer", flag.ContinueOnError)
	fs.SetOutput(stderr)

	inputPath := fs.String("input", "", "Path to model file (e.g., model.yaml)")
	sign := fs.Bool("sign", false, "Re-sign the file after validating its content")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *inputPath == "" {
		fmt.Fprintln(stderr, "Usage: signer -input <path> [-sign]")
		fs.PrintDefaults()

		return errors.New("missing -input")
	}

	contentBytes, err := os.ReadFile(*inputPath)
	if err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}

	content := string(contentBytes)
	fmt.Fprintf(stdout, "📂 Reading: %s (%d bytes)\n", *inputPath, len(content))

	if !*sign {
		return verify(content, stdout)
	}

	// Structure is checked on the unsigned body so hand-edited files can be re-signed.
	_, clean := metadata.Extract(content)

	model, err := encoder.DecodeModel([]byte(clean))
	if err != nil {
		return fmt.Errorf("validation failed, skipping signature: %w", err)
	}

	fmt.Fprintf(stdout, "✅ Validation passed (model %s, %d columns)\n", model.ID, len(model.Columns))

	signed := metadata.Sign(clean, encoder.ModelKind, encoder.ModelVersion)
	if err := os.WriteFile(*inputPath, []byte(signed), 0644); err != nil {
		return fmt.Errorf("error writing file: %w", err)
	}

	fmt.Fprintf(stdout, "✍️  Signed and saved to: %s\n", *inputPath)

	return nil
}

func verify(content string, stdout io.Writer) error {
	meta, err := metadata.Verify(content)
	if err != nil {
		return fmt.Errorf("signature check failed: %w", err)
	}

	model, err := encoder.UnmarshalModel([]byte(content))
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "✅ Signature valid: %s v%s, signed %s\n", meta.Kind, meta.Version, meta.LastModify.Format(time.RFC3339))
	fmt.Fprintf(stdout, "   Model %s fitted %s\n", model.ID, model.FittedAt.Format(time.RFC3339))

	for _, col := range encoder.CategoricalColumns {
		fmt.Fprintf(stdout, "   %-16s %d categories\n", col, model.Vocabularies[col].Len())
	}

	return nil
}
