// Package main provides the featurize command that turns text containing
// [VIN:PRICE] tokens into a standardized feature matrix.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"vinfeatures/internal/config"
	"vinfeatures/internal/encoder"
	"vinfeatures/internal/logger"
	"vinfeatures/internal/metrics"
	"vinfeatures/internal/output"
	"vinfeatures/internal/pipeline"
	"vinfeatures/internal/source"
)

var errUsage = errors.New("no input: set -input or configure pipeline.sources")

type options struct {
	configPath   string
	input        string
	outputPath   string
	format       string
	reportPath   string
	reportFormat string
	modelIn      string
	modelOut     string
	policy       string
	workers      int
	logLevel     string
	metricsPath  string
}

func main() {
	// .env is optional
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)

		if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}

		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}

	fs := flag.NewFlagSet("featurize", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.configPath, "config", os.Getenv("VINFEATURES_CONFIG"), "Path to YAML config")
	fs.StringVar(&opts.input, "input", "", "Input file, http(s) URL, or - for stdin")
	fs.StringVar(&opts.outputPath, "output", "", "Feature matrix path, - for stdout")
	fs.StringVar(&opts.format, "format", "", "Matrix format: json, csv, markdown")
	fs.StringVar(&opts.reportPath, "report", "", "Drop report path, - for stdout")
	fs.StringVar(&opts.reportFormat, "report-format", "", "Report format: json, markdown")
	fs.StringVar(&opts.modelIn, "model", "", "Apply a previously fitted model instead of fitting")
	fs.StringVar(&opts.modelOut, "save-model", "", "Write the fitted model to this path")
	fs.StringVar(&opts.policy, "unknown", "", "Unknown code policy: sentinel, drop")
	fs.IntVar(&opts.workers, "workers", 0, "Per-record worker count")
	fs.StringVar(&opts.logLevel, "log-level", os.Getenv("VINFEATURES_LOG_LEVEL"), "Log level: debug, info, warn, error")
	fs.StringVar(&opts.metricsPath, "metrics", "", "Write Prometheus metrics to this textfile")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return opts, nil
}

// loadConfig builds the effective configuration: defaults, then the config
// file, then flags.
func loadConfig(opts *options) (*config.Config, error) {
	cfg := config.Default()

	if opts.configPath != "" {
		loaded, err := config.ReadConfig(opts.configPath)
		if err != nil {
			return nil, err
		}

		cfg = loaded
	}

	if opts.input != "" {
		src := config.SourceConfig{Name: "cli", Enabled: true}
		if strings.HasPrefix(opts.input, "http://") || strings.HasPrefix(opts.input, "https://") {
			src.URL = opts.input
		} else {
			src.File = opts.input
		}

		cfg.Pipeline.Sources = []config.SourceConfig{src}
	}

	if len(cfg.Pipeline.Sources) == 0 {
		return nil, errUsage
	}

	overrides := []struct {
		flag   string
		target *string
	}{
		{opts.outputPath, &cfg.Output.Path},
		{opts.format, &cfg.Output.Format},
		{opts.reportPath, &cfg.Output.ReportPath},
		{opts.reportFormat, &cfg.Output.ReportFormat},
		{opts.modelOut, &cfg.Output.ModelPath},
		{opts.policy, &cfg.Unknown.Policy},
		{opts.logLevel, &cfg.Logging.Level},
		{opts.metricsPath, &cfg.Metrics.TextfilePath},
	}

	for _, o := range overrides {
		if o.flag != "" {
			*o.target = o.flag
		}
	}

	if opts.workers > 0 {
		cfg.Pipeline.Workers = opts.workers
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format, stderr)
	log.Info("starting featurize", "config", cfg.String())

	startTime := time.Now()
	m := metrics.New()

	// 1. Ingestion
	text, err := fetchAll(ctx, cfg, stdin, log, m)
	if err != nil {
		return err
	}

	// 2. Processing
	p, err := pipeline.New(cfg, log, m)
	if err != nil {
		return err
	}

	var res *pipeline.Result

	if opts.modelIn != "" {
		model, loadErr := encoder.LoadModel(opts.modelIn)
		if loadErr != nil {
			return loadErr
		}

		log.Info("applying fitted model", "model", model.ID, "path", opts.modelIn)

		res, err = p.Transform(ctx, text, model)
	} else {
		res, err = p.FitTransform(ctx, text)
	}

	if err != nil {
		return err
	}

	// 3. Output
	if err := output.SaveMatrix(cfg.Output.Path, res.Matrix, cfg.Output.Format, cfg.Output.PrettyPrint); err != nil {
		return err
	}

	if cfg.Output.ReportPath != "" {
		if err := output.SaveReport(cfg.Output.ReportPath, res.Report, cfg.Output.ReportFormat, cfg.Output.PrettyPrint); err != nil {
			return err
		}
	}

	if cfg.Output.ModelPath != "" && opts.modelIn == "" {
		if err := res.Model.Save(cfg.Output.ModelPath); err != nil {
			return err
		}

		log.Info("model saved", "path", cfg.Output.ModelPath)
	}

	if cfg.Metrics.TextfilePath != "" {
		if err := m.WriteTextfile(cfg.Metrics.TextfilePath); err != nil {
			return err
		}
	}

	// 4. Summary
	if cfg.Output.Path != output.Stdout {
		fmt.Fprintln(stdout, "------------------------------------------------")
		fmt.Fprintf(stdout, "📊 Run %s\n", res.Report.RunID)
		fmt.Fprintf(stdout, "Extracted: %d\n", res.Report.Extracted)
		fmt.Fprintf(stdout, "Rows:      %d\n", res.Report.Kept)

		for _, reason := range res.Report.Reasons() {
			fmt.Fprintf(stdout, "Dropped (%s): %d\n", reason, res.Report.Counts[reason])
		}

		fmt.Fprintf(stdout, "Output:    %s\n", cfg.Output.Path)
		fmt.Fprintf(stdout, "Duration:  %v\n", time.Since(startTime).Round(time.Millisecond))
		fmt.Fprintln(stdout, "------------------------------------------------")
	}

	return nil
}

// fetchAll reads every enabled source. The texts form a single batch.
func fetchAll(ctx context.Context, cfg *config.Config, stdin io.Reader, log *logger.Logger, m *metrics.Metrics) (string, error) {
	fetcher := source.NewFetcher(&cfg.Pipeline.Retry).WithStdin(stdin)
	texts := make([]string, 0, len(cfg.Pipeline.Sources))

	start := time.Now()

	for _, src := range cfg.GetEnabledSources() {
		text, err := fetcher.Fetch(ctx, src)
		if err != nil {
			return "", fmt.Errorf("source %s: %w", src.Name, err)
		}

		log.Info("source fetched", "source", src.Name, "from", src.GetSource(), "bytes", len(text))
		texts = append(texts, text)
	}

	m.ObserveStage("fetch", time.Since(start))

	return strings.Join(texts, "\n"), nil
}
