package rendering

import (
	"context"
	"sort"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog"
	"golang.org/x/text/encoding/charmap"

	"github.com/jonathan/ats-resume-generator/internal/types"
)

const (
	pageMargin = 18.0
	lineHeight = 5.0
)

// theme is the native layout's version of an HTML template's stylesheet
type theme struct {
	font      string
	nameSize  float64
	bodySize  float64
	accent    [3]int
	band      bool // filled header band behind name and contact line
	centered  bool // centered header
	barTitles bool // section titles drawn on a filled bar instead of above a rule
}

var themes = map[types.Template]theme{
	types.TemplateMinimal:   {font: "Helvetica", nameSize: 20, bodySize: 10, accent: [3]int{34, 34, 34}},
	types.TemplateModern:    {font: "Helvetica", nameSize: 22, bodySize: 10, accent: [3]int{30, 58, 95}, band: true},
	types.TemplateClassic:   {font: "Times", nameSize: 20, bodySize: 11, accent: [3]int{0, 0, 0}, centered: true},
	types.TemplateCorporate: {font: "Arial", nameSize: 21, bodySize: 10, accent: [3]int{122, 31, 43}, barTitles: true},
}

// FPDFWriter lays resumes out natively with fpdf and stamps full document info.
// Core fonts only carry cp1252; other characters are replaced and reported
// through the logger.
type FPDFWriter struct {
	logger zerolog.Logger
}

// FPDFOption configures an FPDFWriter
type FPDFOption func(*FPDFWriter)

// WithFPDFLogger sets the logger that receives unmapped-character warnings.
func WithFPDFLogger(logger zerolog.Logger) FPDFOption {
	return func(w *FPDFWriter) { w.logger = logger }
}

// NewFPDFWriter returns the default PDF backend.
func NewFPDFWriter(opts ...FPDFOption) *FPDFWriter {
	w := &FPDFWriter{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WritePDF draws data into a Letter page document at path.
func (w *FPDFWriter) WritePDF(ctx context.Context, data *TemplateData, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	th, ok := themes[data.Template]
	if !ok {
		return &TemplateError{Template: data.Template, Message: "no native layout"}
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetTitle(data.Metadata.Title, true)
	pdf.SetAuthor(data.Metadata.Author, true)
	pdf.SetSubject(data.Metadata.Subject, true)
	pdf.SetKeywords(data.Metadata.Keywords, true)
	pdf.SetCreator(data.Metadata.Creator, true)

	l := newLayout(pdf, th)
	l.draw(data.Resume)
	if lost := l.unmappedText(); lost != "" {
		w.logger.Warn().
			Str("path", path).
			Str("characters", lost).
			Msg("characters outside cp1252 were replaced in the PDF")
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return &RenderError{Backend: BackendPDF, Path: path, Message: "failed to write", Cause: err}
	}
	return nil
}

// Close is a no-op; fpdf holds no external resources.
func (w *FPDFWriter) Close() error {
	return nil
}

type layout struct {
	pdf      *fpdf.Fpdf
	th       theme
	tr       func(string) string
	unmapped map[rune]struct{}
}

func newLayout(pdf *fpdf.Fpdf, th theme) *layout {
	l := &layout{pdf: pdf, th: th, unmapped: make(map[rune]struct{})}
	toCP1252 := pdf.UnicodeTranslatorFromDescriptor("")
	l.tr = func(s string) string {
		for _, r := range s {
			if _, ok := charmap.Windows1252.EncodeRune(r); !ok {
				l.unmapped[r] = struct{}{}
			}
		}
		return toCP1252(s)
	}
	return l
}

// unmappedText lists the distinct characters the core fonts could not draw.
func (l *layout) unmappedText() string {
	runes := make([]rune, 0, len(l.unmapped))
	for r := range l.unmapped {
		runes = append(runes, r)
	}
	sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })
	return string(runes)
}

func (l *layout) contentWidth() float64 {
	pageW, _ := l.pdf.GetPageSize()
	left, _, right, _ := l.pdf.GetMargins()
	return pageW - left - right
}

func (l *layout) draw(r *types.Resume) {
	l.pdf.AddPage()
	l.header(r)

	l.section("Professional Summary")
	l.body(r.Summary)

	if len(r.Skills) > 0 {
		l.section("Skills")
		l.body(strings.Join(r.Skills, ", "))
	}

	if len(r.Experience) > 0 {
		l.section("Experience")
		for _, exp := range r.Experience {
			l.job(exp)
		}
	}

	if len(r.Education) > 0 {
		l.section("Education")
		for _, edu := range r.Education {
			line := edu.Degree + ", " + edu.Institution
			if edu.Year != "" {
				line += ", " + edu.Year
			}
			if edu.GPA != "" {
				line += " (GPA " + edu.GPA + ")"
			}
			l.body(line)
		}
	}

	if len(r.Certifications) > 0 {
		l.section("Certifications")
		for _, c := range r.Certifications {
			l.bullet(c)
		}
	}
}

func (l *layout) header(r *types.Resume) {
	pdf := l.pdf
	width := l.contentWidth()
	align := "L"
	if l.th.centered {
		align = "C"
	}
	contact := strings.Join([]string{r.Email, r.Phone, r.Location}, " | ")

	if l.th.band {
		pageW, _ := pdf.GetPageSize()
		pdf.SetFillColor(l.th.accent[0], l.th.accent[1], l.th.accent[2])
		pdf.Rect(0, 0, pageW, pageMargin+18, "F")
		pdf.SetTextColor(255, 255, 255)
	} else {
		pdf.SetTextColor(l.th.accent[0], l.th.accent[1], l.th.accent[2])
	}

	pdf.SetFont(l.th.font, "B", l.th.nameSize)
	pdf.CellFormat(width, l.th.nameSize*0.45, l.tr(r.Name), "", 1, align, false, 0, "")
	pdf.SetFont(l.th.font, "", l.th.bodySize)
	pdf.CellFormat(width, lineHeight+1, l.tr(contact), "", 1, align, false, 0, "")

	pdf.SetTextColor(34, 34, 34)
	pdf.Ln(l.spacing())
}

func (l *layout) spacing() float64 {
	if l.th.band {
		return 6
	}
	return 2
}

func (l *layout) section(title string) {
	pdf := l.pdf
	width := l.contentWidth()
	pdf.Ln(2)
	pdf.SetFont(l.th.font, "B", l.th.bodySize+1.5)

	if l.th.barTitles {
		pdf.SetFillColor(l.th.accent[0], l.th.accent[1], l.th.accent[2])
		pdf.SetTextColor(255, 255, 255)
		pdf.CellFormat(width, lineHeight+1.5, l.tr(" "+title), "", 1, "L", true, 0, "")
		pdf.SetTextColor(34, 34, 34)
		pdf.Ln(1)
		return
	}

	pdf.SetTextColor(l.th.accent[0], l.th.accent[1], l.th.accent[2])
	pdf.CellFormat(width, lineHeight+1.5, l.tr(strings.ToUpper(title)), "", 1, "L", false, 0, "")
	pdf.SetDrawColor(l.th.accent[0], l.th.accent[1], l.th.accent[2])
	x, y := pdf.GetX(), pdf.GetY()
	pdf.Line(x, y, x+width, y)
	pdf.SetTextColor(34, 34, 34)
	pdf.Ln(1.5)
}

func (l *layout) body(text string) {
	l.pdf.SetFont(l.th.font, "", l.th.bodySize)
	l.pdf.MultiCell(l.contentWidth(), lineHeight, l.tr(text), "", "L", false)
}

func (l *layout) bullet(text string) {
	pdf := l.pdf
	pdf.SetFont(l.th.font, "", l.th.bodySize)
	pdf.CellFormat(5, lineHeight, l.tr("•"), "", 0, "R", false, 0, "")
	pdf.MultiCell(l.contentWidth()-5, lineHeight, l.tr(" "+text), "", "L", false)
}

func (l *layout) job(exp types.Experience) {
	pdf := l.pdf
	width := l.contentWidth()

	pdf.SetFont(l.th.font, "B", l.th.bodySize+0.5)
	pdf.CellFormat(width, lineHeight+0.5, l.tr(exp.Title), "", 1, "L", false, 0, "")

	meta := exp.Company
	if exp.Location != "" {
		meta += " | " + exp.Location
	}
	meta += " | " + exp.StartDate + " - " + exp.EndDate
	pdf.SetFont(l.th.font, "I", l.th.bodySize-0.5)
	pdf.SetTextColor(85, 85, 85)
	pdf.CellFormat(width, lineHeight, l.tr(meta), "", 1, "L", false, 0, "")
	pdf.SetTextColor(34, 34, 34)

	for _, b := range exp.Bullets {
		l.bullet(b)
	}
	pdf.Ln(1.5)
}
