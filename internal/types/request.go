package types

import "fmt"

// Template identifies one of the fixed resume layouts
type Template string

const (
	TemplateMinimal   Template = "minimal"
	TemplateModern    Template = "modern"
	TemplateClassic   Template = "classic"
	TemplateCorporate Template = "corporate"
)

// Templates lists every available layout in a stable order
var Templates = []Template{TemplateMinimal, TemplateModern, TemplateClassic, TemplateCorporate}

// ParseTemplate converts a name into a Template, rejecting unknown layouts.
func ParseTemplate(name string) (Template, error) {
	for _, t := range Templates {
		if string(t) == name {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown template %q", name)
}

// Seniority bounds, in years of experience
const (
	MinSeniority = 1
	MaxSeniority = 18
)

// GenerationRequest is the per-job input drawn fresh for each index
type GenerationRequest struct {
	Index     int      `json:"index"`
	Industry  string   `json:"industry"`
	Role      string   `json:"role"`
	Seniority int      `json:"seniority"`
	Template  Template `json:"template"`
}

// GenerationResult is what a completed job hands back to the orchestrator
type GenerationResult struct {
	Index  int     `json:"index"`
	Cost   float64 `json:"cost"`
	Path   string  `json:"path"`
	Resume *Resume `json:"-"`
}

// ProgressEvent is emitted once per settled job
type ProgressEvent struct {
	Index     int     `json:"index"`
	Completed int     `json:"completed"`
	Total     int     `json:"total"`
	Cost      float64 `json:"cost_usd"`
	Path      string  `json:"path,omitempty"`
	Error     string  `json:"error,omitempty"`
}
