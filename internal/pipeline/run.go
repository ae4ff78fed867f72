// Package pipeline provides the high-level orchestration for the resume generation process.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/jonathan/ats-resume-generator/internal/cost"
	"github.com/jonathan/ats-resume-generator/internal/generation"
	"github.com/jonathan/ats-resume-generator/internal/llm"
	"github.com/jonathan/ats-resume-generator/internal/types"
)

// Defaults mirrored by the CLI
const (
	DefaultCount       = 800
	DefaultConcurrency = 15
	DefaultOutputDir   = "output"
)

// RunOptions holds configuration for one batch
type RunOptions struct {
	Count           int
	Concurrency     int
	SaveCostLog     bool
	OutputDir       string
	ContinueOnError bool
}

// RequestSource draws the per-job generation request
type RequestSource interface {
	Draw(index int, templates []types.Template) types.GenerationRequest
}

// Failure records one isolated job error when ContinueOnError is set
type Failure struct {
	Index int
	Err   error
}

// RunSummary describes a settled batch
type RunSummary struct {
	Requested  int
	Count      int
	Elapsed    time.Duration
	Throughput float64
	Costs      cost.Snapshot
	Results    []types.GenerationResult
	Failures   []Failure
	CostLog    string
}

// Orchestrator fans a batch out to generation jobs with bounded concurrency.
type Orchestrator struct {
	client    llm.Client
	tracker   *cost.Tracker
	renderer  generation.Renderer
	requests  RequestSource
	templates []types.Template
	sink      Sink
	logger    zerolog.Logger
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithSink sets the progress sink.
func WithSink(s Sink) Option {
	return func(o *Orchestrator) { o.sink = s }
}

// WithTemplates restricts the layouts drawn for each resume.
func WithTemplates(templates []types.Template) Option {
	return func(o *Orchestrator) { o.templates = templates }
}

// WithLogger sets the orchestrator's logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// NewOrchestrator wires the collaborators shared by every job in a batch.
func NewOrchestrator(client llm.Client, tracker *cost.Tracker, renderer generation.Renderer, requests RequestSource, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		client:    client,
		tracker:   tracker,
		renderer:  renderer,
		requests:  requests,
		templates: types.Templates,
		sink:      NopSink{},
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Validate checks option ranges.
func (opts RunOptions) Validate() error {
	if opts.Count < 0 {
		return fmt.Errorf("count must be non-negative, got %d", opts.Count)
	}
	if opts.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", opts.Concurrency)
	}
	if opts.OutputDir == "" {
		return errors.New("output directory is required")
	}
	return nil
}

// Run generates opts.Count resumes with at most opts.Concurrency jobs in flight.
// By default the first failure cancels the batch and is returned alongside the
// partial summary. With ContinueOnError, job failures are collected instead,
// but cancellation of ctx still ends the run with an error.
func (o *Orchestrator) Run(ctx context.Context, opts RunOptions) (*RunSummary, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var (
		mu       sync.Mutex
		results  []types.GenerationResult
		failures []Failure
		settled  atomic.Int64
	)

	slots := semaphore.NewWeighted(int64(opts.Concurrency))
	job := generation.NewJob(o.client, o.tracker, o.renderer, slots,
		generation.WithLogger(o.logger),
		generation.WithProgress(func(r types.GenerationResult) {
			o.sink.Advance(types.ProgressEvent{
				Index:     r.Index,
				Completed: int(settled.Add(1)),
				Total:     opts.Count,
				Cost:      r.Cost,
				Path:      r.Path,
			})
		}),
	)

	var g *errgroup.Group
	runCtx := ctx
	if opts.ContinueOnError {
		g = &errgroup.Group{}
	} else {
		g, runCtx = errgroup.WithContext(ctx)
	}

	o.logger.Info().
		Int("count", opts.Count).
		Int("concurrency", opts.Concurrency).
		Str("output", opts.OutputDir).
		Msg("starting batch")

	start := time.Now()
	for i := 1; i <= opts.Count; i++ {
		req := o.requests.Draw(i, o.templates)
		g.Go(func() error {
			result, err := job.Run(runCtx, req)
			if err != nil {
				// an interrupted run is never an isolated failure
				if !opts.ContinueOnError || ctx.Err() != nil {
					return err
				}
				o.logger.Warn().Err(err).Int("index", req.Index).Msg("resume failed")
				mu.Lock()
				failures = append(failures, Failure{Index: req.Index, Err: err})
				mu.Unlock()
				o.sink.Advance(types.ProgressEvent{
					Index:     req.Index,
					Completed: int(settled.Add(1)),
					Total:     opts.Count,
					Error:     err.Error(),
				})
				return nil
			}
			mu.Lock()
			results = append(results, result)
			mu.Unlock()
			return nil
		})
	}
	runErr := g.Wait()
	if runErr == nil {
		runErr = ctx.Err()
	}
	elapsed := time.Since(start)

	summary := &RunSummary{
		Requested:  opts.Count,
		Count:      len(results),
		Elapsed:    elapsed,
		Throughput: throughput(len(results), elapsed),
		Costs:      o.tracker.Snapshot(),
		Results:    results,
		Failures:   failures,
	}

	if runErr != nil {
		o.logger.Error().Err(runErr).Msg("batch aborted")
		return summary, runErr
	}

	if opts.SaveCostLog {
		path, err := WriteCostLog(opts.OutputDir, summary)
		if err != nil {
			return summary, err
		}
		summary.CostLog = path
	}

	o.logger.Info().
		Int("completed", summary.Count).
		Int("failed", len(failures)).
		Dur("elapsed", elapsed).
		Float64("total_cost_usd", summary.Costs.TotalCost).
		Msg("batch complete")
	return summary, nil
}

func throughput(count int, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(count) / elapsed.Seconds()
}
