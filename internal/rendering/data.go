package rendering

import (
	"fmt"
	"strings"

	"github.com/jonathan/ats-resume-generator/internal/types"
)

const (
	// Creator is stamped into every PDF's document info
	Creator = "Resume Generator"
	// Subject is stamped into every PDF's document info
	Subject = "Professional Resume"
	// maxKeywords bounds how many skills go into the keyword list
	maxKeywords = 10
)

// Metadata is the PDF document information ATS parsers read
type Metadata struct {
	Title    string
	Author   string
	Subject  string
	Keywords string
	Creator  string
}

// TemplateData is everything a layout needs to draw one resume
type TemplateData struct {
	*types.Resume
	Template types.Template
	Metadata Metadata
}

// BuildMetadata derives document info from a resume whose contact fields are set.
func BuildMetadata(r *types.Resume) Metadata {
	return Metadata{
		Title:    fmt.Sprintf("Resume - %s", r.Name),
		Author:   r.Name,
		Subject:  Subject,
		Keywords: strings.Join(r.TopSkills(maxKeywords), ", "),
		Creator:  Creator,
	}
}

// NewTemplateData bundles a resume with its layout and metadata.
func NewTemplateData(r *types.Resume, tmpl types.Template) *TemplateData {
	return &TemplateData{
		Resume:   r,
		Template: tmpl,
		Metadata: BuildMetadata(r),
	}
}

// FileName returns the output file name for a job index, e.g. resume_0007.pdf
func FileName(index int) string {
	return fmt.Sprintf("resume_%04d.pdf", index)
}
