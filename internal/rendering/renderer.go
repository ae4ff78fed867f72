package rendering

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/jonathan/ats-resume-generator/internal/types"
)

// Backend names a PDF writer implementation
type Backend string

const (
	BackendPDF    Backend = "pdf"
	BackendChrome Backend = "chrome"
)

// ParseBackend converts a name into a Backend. Empty means BackendPDF.
func ParseBackend(name string) (Backend, error) {
	switch Backend(name) {
	case "", BackendPDF:
		return BackendPDF, nil
	case BackendChrome:
		return BackendChrome, nil
	}
	return "", fmt.Errorf("unknown renderer %q (expected pdf or chrome)", name)
}

// Writer turns prepared template data into a PDF file
type Writer interface {
	WritePDF(ctx context.Context, data *TemplateData, path string) error
	Close() error
}

// ContactSource supplies the synthetic identity stamped onto each resume
type ContactSource interface {
	Contact() types.Contact
}

// NewWriter builds the writer for a backend.
func NewWriter(ctx context.Context, backend Backend, logger zerolog.Logger) (Writer, error) {
	switch backend {
	case "", BackendPDF:
		return NewFPDFWriter(WithFPDFLogger(logger)), nil
	case BackendChrome:
		return NewChromeWriter(ctx)
	}
	return nil, fmt.Errorf("unknown renderer %q", backend)
}

// Renderer writes one PDF per generated resume into an output directory.
type Renderer struct {
	outputDir string
	writer    Writer
	contacts  ContactSource
}

// NewRenderer creates a Renderer. The output directory must already exist.
func NewRenderer(outputDir string, writer Writer, contacts ContactSource) *Renderer {
	return &Renderer{outputDir: outputDir, writer: writer, contacts: contacts}
}

// Render injects contact info into resume, lays it out with tmpl and
// writes resume_NNNN.pdf. It returns the written path.
func (r *Renderer) Render(ctx context.Context, resume *types.Resume, index int, tmpl types.Template) (string, error) {
	if resume == nil {
		return "", &RenderError{Message: "nil resume", Path: filepath.Join(r.outputDir, FileName(index))}
	}
	if r.contacts != nil {
		resume.ApplyContact(r.contacts.Contact())
	}

	path := filepath.Join(r.outputDir, FileName(index))
	if err := r.writer.WritePDF(ctx, NewTemplateData(resume, tmpl), path); err != nil {
		return "", fmt.Errorf("rendering %s: %w", FileName(index), err)
	}
	return path, nil
}

// Close releases the underlying writer.
func (r *Renderer) Close() error {
	return r.writer.Close()
}
