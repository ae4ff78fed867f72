package observability

import (
	"fmt"
	"io"
	"sync"

	"github.com/pterm/pterm"

	"github.com/jonathan/ats-resume-generator/internal/types"
)

// ProgressBar renders settled jobs as a terminal progress bar. It implements
// pipeline.Sink and is safe for concurrent use.
type ProgressBar struct {
	mu     sync.Mutex
	bar    *pterm.ProgressbarPrinter
	failed int
}

// StartProgressBar starts a bar for total jobs.
func StartProgressBar(out io.Writer, total int) (*ProgressBar, error) {
	bar, err := pterm.DefaultProgressbar.
		WithTotal(total).
		WithTitle("Generating resumes").
		WithShowElapsedTime(true).
		WithShowCount(true).
		WithRemoveWhenDone(false).
		WithWriter(out).
		Start()
	if err != nil {
		return nil, err
	}
	return &ProgressBar{bar: bar}, nil
}

// Advance moves the bar forward one job.
func (p *ProgressBar) Advance(event types.ProgressEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if event.Error != "" {
		p.failed++
		p.bar.UpdateTitle(fmt.Sprintf("Generating resumes (%d failed)", p.failed))
	}
	p.bar.Increment()
}

// Current returns how many jobs the bar has counted.
func (p *ProgressBar) Current() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bar.Current
}

// Stop finishes the bar.
func (p *ProgressBar) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = p.bar.Stop()
}
