package pipeline

import "github.com/jonathan/ats-resume-generator/internal/types"

// Sink receives one event per settled job. Implementations must be safe
// for concurrent use.
type Sink interface {
	Advance(event types.ProgressEvent)
}

// SinkFunc adapts a function to Sink
type SinkFunc func(event types.ProgressEvent)

// Advance calls f(event).
func (f SinkFunc) Advance(event types.ProgressEvent) {
	f(event)
}

// NopSink discards events
type NopSink struct{}

// Advance does nothing.
func (NopSink) Advance(types.ProgressEvent) {}

type fanOut []Sink

func (f fanOut) Advance(event types.ProgressEvent) {
	for _, s := range f {
		s.Advance(event)
	}
}

// FanOut forwards each event to every non-nil sink in order.
func FanOut(sinks ...Sink) Sink {
	var out fanOut
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	if len(out) == 1 {
		return out[0]
	}
	return out
}
