// Package observability provides formatted terminal output for batch runs.
package observability

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"github.com/jonathan/ats-resume-generator/internal/pipeline"
)

// maxFailuresToShow bounds the failure list printed after a run
const maxFailuresToShow = 5

// RunInfo is the configuration echoed in the header box
type RunInfo struct {
	Count       int
	Concurrency int
	Provider    string
	Model       string
	Renderer    string
	OutputDir   string
}

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// PrintHeader prints the boxed run banner.
func (p *Printer) PrintHeader(info RunInfo) {
	content := strings.Join([]string{
		fmt.Sprintf("Resumes:     %d", info.Count),
		fmt.Sprintf("Concurrency: %d", info.Concurrency),
		fmt.Sprintf("Model:       %s (%s)", info.Model, info.Provider),
		fmt.Sprintf("Renderer:    %s", info.Renderer),
		fmt.Sprintf("Output:      %s", info.OutputDir),
	}, "\n")

	pterm.DefaultBox.
		WithTitle("ATS Resume Generator").
		WithWriter(p.out).
		Println(content)
}

// SummaryRows returns the label/value rows of the summary table.
func SummaryRows(s *pipeline.RunSummary) [][]string {
	rows := [][]string{
		{"Metric", "Value"},
		{"Resumes Generated", strconv.Itoa(s.Count)},
	}
	if len(s.Failures) > 0 {
		rows = append(rows, []string{"Failed", strconv.Itoa(len(s.Failures))})
	}
	return append(rows,
		[]string{"Total Time", fmt.Sprintf("%.1fs", s.Elapsed.Seconds())},
		[]string{"Speed", fmt.Sprintf("%.1f resumes/sec", s.Throughput)},
		[]string{"Input Tokens", groupThousands(s.Costs.TotalInputTokens)},
		[]string{"Output Tokens", groupThousands(s.Costs.TotalOutputTokens)},
		[]string{"Avg Cost/Resume", fmt.Sprintf("$%.6f", s.Costs.AverageCost)},
		[]string{"Total Cost", fmt.Sprintf("$%.4f", s.Costs.TotalCost)},
	)
}

// PrintSummary prints the end-of-run table.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintSummary(s *pipeline.RunSummary) {
	fmt.Fprintln(p.out)
	_ = pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithData(SummaryRows(s)).
		WithWriter(p.out).
		Render()
	fmt.Fprintln(p.out)
}

// PrintFailures lists the first isolated failures of a run.
func (p *Printer) PrintFailures(failures []pipeline.Failure) {
	if len(failures) == 0 {
		return
	}
	warn := pterm.Warning.WithWriter(p.out)
	warn.Printfln("%d resume(s) failed", len(failures))
	for _, f := range failures[:min(len(failures), maxFailuresToShow)] {
		warn.Printfln("  #%d: %v", f.Index, f.Err)
	}
	if len(failures) > maxFailuresToShow {
		warn.Printfln("  ... and %d more", len(failures)-maxFailuresToShow)
	}
}

// PrintOutputLocation reports where PDFs and the cost log were written.
func (p *Printer) PrintOutputLocation(dir string, costLog string) {
	pterm.Success.WithWriter(p.out).Printfln("PDFs saved to: %s/", dir)
	if costLog != "" {
		pterm.Info.WithWriter(p.out).Printfln("Cost log saved to: %s", costLog)
	}
}

// FormatDuration renders a duration rounded for display
func FormatDuration(d time.Duration) string {
	return d.Round(100 * time.Millisecond).String()
}

// groupThousands formats n with comma separators, e.g. 1234567 -> 1,234,567
func groupThousands(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var sb strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}
	if neg {
		return "-" + sb.String()
	}
	return sb.String()
}
