// Package rendering turns structured resumes into PDF files.
package rendering

import (
	"fmt"

	"github.com/jonathan/ats-resume-generator/internal/types"
)

// TemplateError means a layout could not produce a document for the resume:
// the template is unknown to the backend, fails to parse, or fails to execute.
// Nothing is written to disk when it is returned.
type TemplateError struct {
	Template types.Template
	Message  string
	Cause    error
}

func (e *TemplateError) Error() string {
	msg := fmt.Sprintf("template %q: %s", e.Template, e.Message)
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// RenderError means a backend failed to produce or save a PDF. Path is the
// target file, which may be missing or partially written.
type RenderError struct {
	Backend Backend
	Path    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	msg := "render error: " + e.Message
	if e.Backend != "" {
		msg = fmt.Sprintf("%s renderer: %s", e.Backend, e.Message)
	}
	if e.Path != "" {
		msg += " (" + e.Path + ")"
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}
