// Package events publishes generation progress to NATS.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/jonathan/ats-resume-generator/internal/types"
)

// Subjects
const (
	SubjectGenerated = "resumes.generated"
	SubjectFailed    = "resumes.failed"
)

// NATSClient interface to allow mocking
type NATSClient interface {
	Publish(subject string, data []byte) error
}

// ResumeEvent is the message body published per settled job
type ResumeEvent struct {
	RunID string `json:"run_id,omitempty"`
	types.ProgressEvent
	Timestamp time.Time `json:"timestamp"`
}

// Publisher sends one message per settled job. It implements pipeline.Sink;
// publish failures are logged and never interrupt the batch.
type Publisher struct {
	nc     NATSClient
	runID  string
	logger zerolog.Logger
	now    func() time.Time
}

// Connect dials the NATS server.
func Connect(url string) (*nats.Conn, error) {
	conn, err := nats.Connect(url, nats.Name("ats-resume-generator"))
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return conn, nil
}

// NewPublisher creates a publisher tagged with runID.
func NewPublisher(nc NATSClient, runID string, logger zerolog.Logger) *Publisher {
	return &Publisher{nc: nc, runID: runID, logger: logger, now: time.Now}
}

// Publish sends one event on the subject matching its outcome.
func (p *Publisher) Publish(event types.ProgressEvent) error {
	data, err := json.Marshal(ResumeEvent{RunID: p.runID, ProgressEvent: event, Timestamp: p.now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	subject := SubjectGenerated
	if event.Error != "" {
		subject = SubjectFailed
	}
	if err := p.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

// Advance publishes the event, logging any failure.
func (p *Publisher) Advance(event types.ProgressEvent) {
	if err := p.Publish(event); err != nil {
		p.logger.Warn().Err(err).Int("index", event.Index).Msg("failed to publish progress event")
	}
}
