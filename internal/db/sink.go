package db

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jonathan/ats-resume-generator/internal/types"
)

// sinkTimeout bounds each per-resume insert
const sinkTimeout = 5 * time.Second

// ResumeRecorder is the subset of DB the sink writes through
type ResumeRecorder interface {
	RecordResume(ctx context.Context, runID uuid.UUID, rc ResumeCost) error
}

// CostSink records each progress event as a resume_costs row. Write failures
// are logged and never interrupt the batch.
type CostSink struct {
	store  ResumeRecorder
	runID  uuid.UUID
	logger zerolog.Logger
}

// NewCostSink creates a sink bound to one run.
func NewCostSink(store ResumeRecorder, runID uuid.UUID, logger zerolog.Logger) *CostSink {
	return &CostSink{store: store, runID: runID, logger: logger}
}

// Advance persists the event.
func (s *CostSink) Advance(event types.ProgressEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), sinkTimeout)
	defer cancel()

	err := s.store.RecordResume(ctx, s.runID, ResumeCost{
		Index: event.Index,
		Cost:  event.Cost,
		Path:  event.Path,
		Error: event.Error,
	})
	if err != nil {
		s.logger.Warn().Err(err).Int("index", event.Index).Msg("failed to persist resume cost")
	}
}
