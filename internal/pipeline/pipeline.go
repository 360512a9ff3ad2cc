// Package pipeline runs extraction, per-record normalization and the
// whole-batch encoding step for one input text.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"vinfeatures/internal/config"
	"vinfeatures/internal/encoder"
	"vinfeatures/internal/extractor"
	"vinfeatures/internal/logger"
	"vinfeatures/internal/metrics"
	"vinfeatures/internal/models"
	"vinfeatures/internal/normalizer"
)

// Pipeline turns free text into a feature matrix.
type Pipeline struct {
	extractor *extractor.Extractor
	processor *normalizer.Processor
	opts      encoder.Options
	workers   int
	log       *logger.Logger
	metrics   *metrics.Metrics
}

// Result is the outcome of one run.
type Result struct {
	Matrix *encoder.FeatureMatrix
	Model  *encoder.Model
	Report *models.DropReport
}

// New creates a pipeline from cfg. m may be nil.
func New(cfg *config.Config, log *logger.Logger, m *metrics.Metrics) (*Pipeline, error) {
	policy, err := normalizer.ParsePolicy(cfg.Unknown.Policy)
	if err != nil {
		return nil, err
	}

	workers := cfg.Pipeline.Workers
	if workers < 1 {
		workers = 1
	}

	if log == nil {
		log = logger.Discard()
	}

	return &Pipeline{
		extractor: extractor.NewExtractor(),
		processor: normalizer.NewProcessor(policy),
		opts:      encoder.Options{SentinelYear: cfg.Unknown.SentinelYear},
		workers:   workers,
		log:       log,
		metrics:   m,
	}, nil
}

// FitTransform fits a new model on the batch and encodes it.
func (p *Pipeline) FitTransform(ctx context.Context, text string) (*Result, error) {
	return p.run(ctx, text, nil)
}

// Transform encodes the batch with a previously fitted model. Records whose
// categories the model has not seen are dropped.
func (p *Pipeline) Transform(ctx context.Context, text string, model *encoder.Model) (*Result, error) {
	if model == nil {
		return nil, fmt.Errorf("transform: %w", encoder.ErrNotFitted)
	}

	return p.run(ctx, text, model)
}

func (p *Pipeline) run(ctx context.Context, text string, model *encoder.Model) (*Result, error) {
	runID := uuid.NewString()
	log := p.log.With("run", runID)

	start := time.Now()
	raws := p.extractor.Extract(text)
	p.metrics.ObserveStage("extract", time.Since(start))
	p.metrics.AddExtracted(len(raws))
	log.Info("records extracted", "count", len(raws), "bytes", len(text))

	start = time.Now()

	results, err := p.process(ctx, raws)
	if err != nil {
		return nil, err
	}

	p.metrics.ObserveStage("process", time.Since(start))

	report := models.NewDropReport(runID, len(raws))
	kept := make([]models.NormalizedRecord, 0, len(raws))
	keptRaw := make([]models.RawRecord, 0, len(raws))

	for i, res := range results {
		if !res.OK() {
			p.drop(log, report, raws[i], res.Err)

			continue
		}

		kept = append(kept, res.Value)
		keptRaw = append(keptRaw, raws[i])
	}

	if model == nil {
		start = time.Now()

		model, err = encoder.Fit(kept, p.opts)
		if err != nil {
			return nil, fmt.Errorf("fit: %w", err)
		}

		p.metrics.ObserveStage("fit", time.Since(start))
		log.Info("model fitted", "model", model.ID, "records", len(kept))
	}

	start = time.Now()

	matrix, rejected, err := model.Transform(kept)
	if err != nil {
		return nil, fmt.Errorf("transform: %w", err)
	}

	p.metrics.ObserveStage("transform", time.Since(start))

	for _, r := range rejected {
		p.drop(log, report, keptRaw[r.Index], r.Err)
	}

	report.Kept = matrix.Len()
	p.metrics.AddEmitted(matrix.Len())

	if matrix.Len() == 0 && len(raws) > 0 {
		log.Warn("no records survived", "extracted", len(raws), "reasons", report.Reasons())
	}

	log.Info("batch encoded", "rows", matrix.Len(), "dropped", len(report.Dropped))

	return &Result{Matrix: matrix, Model: model, Report: report}, nil
}

// process runs the per-record stages on a bounded number of goroutines.
// Results keep extraction order.
func (p *Pipeline) process(ctx context.Context, raws []models.RawRecord) ([]models.Result[models.NormalizedRecord], error) {
	results := make([]models.Result[models.NormalizedRecord], len(raws))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i := range raws {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			results[i] = p.processor.Process(raws[i])

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("process records: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("process records: %w", err)
	}

	return results, nil
}

func (p *Pipeline) drop(log *logger.Logger, report *models.DropReport, raw models.RawRecord, err *models.DropError) {
	report.Add(raw, err)
	p.metrics.IncDropped(err.Reason)
	log.Debug("record dropped", "vin", raw.VIN, "offset", raw.Offset, "reason", string(err.Reason), "error", err.Err)
}
