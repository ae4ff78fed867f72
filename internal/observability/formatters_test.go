package observability

import (
	"bytes"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ats-resume-generator/internal/cost"
	"github.com/jonathan/ats-resume-generator/internal/pipeline"
	"github.com/jonathan/ats-resume-generator/internal/types"
)

func TestMain(m *testing.M) {
	pterm.DisableStyling()
	os.Exit(m.Run())
}

func sampleSummary() *pipeline.RunSummary {
	return &pipeline.RunSummary{
		Requested:  10,
		Count:      10,
		Elapsed:    4 * time.Second,
		Throughput: 2.5,
		Costs: cost.Snapshot{
			TotalInputTokens:  1234567,
			TotalOutputTokens: 89012,
			TotalCost:         0.0974,
			AverageCost:       0.00974,
		},
	}
}

func TestSummaryRows(t *testing.T) {
	rows := SummaryRows(sampleSummary())

	values := map[string]string{}
	for _, r := range rows[1:] {
		values[r[0]] = r[1]
	}
	assert.Equal(t, []string{"Metric", "Value"}, rows[0])
	assert.Equal(t, "10", values["Resumes Generated"])
	assert.Equal(t, "4.0s", values["Total Time"])
	assert.Equal(t, "2.5 resumes/sec", values["Speed"])
	assert.Equal(t, "1,234,567", values["Input Tokens"])
	assert.Equal(t, "89,012", values["Output Tokens"])
	assert.Equal(t, "$0.009740", values["Avg Cost/Resume"])
	assert.Equal(t, "$0.0974", values["Total Cost"])
	assert.NotContains(t, values, "Failed")
}

func TestSummaryRows_WithFailures(t *testing.T) {
	s := sampleSummary()
	s.Failures = []pipeline.Failure{{Index: 3, Err: errors.New("boom")}}

	var found bool
	for _, r := range SummaryRows(s) {
		if r[0] == "Failed" {
			found = true
			assert.Equal(t, "1", r[1])
		}
	}
	assert.True(t, found)
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintSummary(sampleSummary())

	output := buf.String()
	assert.Contains(t, output, "Resumes Generated")
	assert.Contains(t, output, "Total Cost")
	assert.Contains(t, output, "$0.0974")
}

func TestPrintHeader(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintHeader(RunInfo{
		Count:       800,
		Concurrency: 15,
		Provider:    "openai",
		Model:       "gpt-5-nano",
		Renderer:    "pdf",
		OutputDir:   "output",
	})

	output := buf.String()
	assert.Contains(t, output, "ATS Resume Generator")
	assert.Contains(t, output, "800")
	assert.Contains(t, output, "gpt-5-nano (openai)")
}

func TestPrintFailures(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintFailures(nil)
	assert.Empty(t, buf.String())

	var failures []pipeline.Failure
	for i := 1; i <= 7; i++ {
		failures = append(failures, pipeline.Failure{Index: i, Err: errors.New("api down")})
	}
	p.PrintFailures(failures)

	output := buf.String()
	assert.Contains(t, output, "7 resume(s) failed")
	assert.Contains(t, output, "#5: api down")
	assert.NotContains(t, output, "#6:")
	assert.Contains(t, output, "and 2 more")
}

func TestPrintOutputLocation(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintOutputLocation("/tmp/out", "/tmp/out/cost_log.json")

	assert.Contains(t, buf.String(), "PDFs saved to: /tmp/out/")
	assert.Contains(t, buf.String(), "cost_log.json")
}

func TestGroupThousands(t *testing.T) {
	tests := map[int]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		12345:    "12,345",
		1234567:  "1,234,567",
		-1234567: "-1,234,567",
	}
	for in, want := range tests {
		assert.Equal(t, want, groupThousands(in))
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "1.2s", FormatDuration(1234*time.Millisecond))
}

func TestProgressBar(t *testing.T) {
	var buf bytes.Buffer
	bar, err := StartProgressBar(&buf, 3)
	require.NoError(t, err)

	var sink pipeline.Sink = bar
	sink.Advance(types.ProgressEvent{Index: 1, Completed: 1, Total: 3})
	sink.Advance(types.ProgressEvent{Index: 2, Completed: 2, Total: 3, Error: "boom"})
	assert.Equal(t, 2, bar.Current())

	bar.Stop()
}
