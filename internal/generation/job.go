package generation

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/jonathan/ats-resume-generator/internal/cost"
	"github.com/jonathan/ats-resume-generator/internal/llm"
	"github.com/jonathan/ats-resume-generator/internal/prompts"
	"github.com/jonathan/ats-resume-generator/internal/types"
)

// Renderer writes a parsed resume to disk and returns the file path
type Renderer interface {
	Render(ctx context.Context, resume *types.Resume, index int, tmpl types.Template) (string, error)
}

// ProgressFunc is called once per successful job after its slot is released
type ProgressFunc func(result types.GenerationResult)

// Job holds the collaborators shared by every generation in a run.
type Job struct {
	client     llm.Client
	tracker    *cost.Tracker
	renderer   Renderer
	slots      *semaphore.Weighted
	onProgress ProgressFunc
	logger     zerolog.Logger
}

// Option configures a Job
type Option func(*Job)

// WithProgress registers a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(j *Job) { j.onProgress = fn }
}

// WithLogger sets the logger used for per-job debug output.
func WithLogger(logger zerolog.Logger) Option {
	return func(j *Job) { j.logger = logger }
}

// NewJob creates a Job. slots bounds how many jobs may be in flight at once.
func NewJob(client llm.Client, tracker *cost.Tracker, renderer Renderer, slots *semaphore.Weighted, opts ...Option) *Job {
	j := &Job{
		client:   client,
		tracker:  tracker,
		renderer: renderer,
		slots:    slots,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Run generates one resume. The slot is acquired before the API call and
// released on every return path, after rendering completes. Progress is
// reported once the slot is free so slow sinks never hold API capacity.
func (j *Job) Run(ctx context.Context, req types.GenerationRequest) (types.GenerationResult, error) {
	result, err := j.generate(ctx, req)
	if err != nil {
		return types.GenerationResult{}, err
	}
	if j.onProgress != nil {
		j.onProgress(result)
	}
	return result, nil
}

func (j *Job) generate(ctx context.Context, req types.GenerationRequest) (types.GenerationResult, error) {
	if err := j.slots.Acquire(ctx, 1); err != nil {
		return types.GenerationResult{}, &JobError{Index: req.Index, Stage: StageAcquire, Cause: err}
	}
	defer j.slots.Release(1)

	log := j.logger.With().Int("index", req.Index).Logger()
	log.Debug().
		Str("industry", req.Industry).
		Str("role", req.Role).
		Int("seniority", req.Seniority).
		Str("template", string(req.Template)).
		Msg("generating resume")

	system, user := prompts.Build(req.Industry, req.Role, req.Seniority)
	resp, err := j.client.GenerateJSON(ctx, llm.Request{System: system, User: user})
	if err != nil {
		return types.GenerationResult{}, &JobError{Index: req.Index, Stage: StageAPI, Cause: err}
	}

	jobCost := j.tracker.Record(resp.Usage.InputTokens, resp.Usage.OutputTokens)
	log.Debug().
		Int("input_tokens", resp.Usage.InputTokens).
		Int("output_tokens", resp.Usage.OutputTokens).
		Float64("cost_usd", jobCost).
		Msg("api call complete")

	resume, err := ParseResume(resp.Content)
	if err != nil {
		return types.GenerationResult{}, &JobError{Index: req.Index, Stage: StageParse, Cause: err}
	}

	path, err := j.renderer.Render(ctx, resume, req.Index, req.Template)
	if err != nil {
		return types.GenerationResult{}, &JobError{Index: req.Index, Stage: StageRender, Cause: err}
	}

	log.Debug().Str("path", path).Msg("resume rendered")
	return types.GenerationResult{Index: req.Index, Cost: jobCost, Path: path, Resume: resume}, nil
}
