package generation

import (
	"encoding/json"

	"github.com/jonathan/ats-resume-generator/internal/llm"
	"github.com/jonathan/ats-resume-generator/internal/schemas"
	"github.com/jonathan/ats-resume-generator/internal/types"
)

const maxSnippet = 200

// ParseResume decodes an API body into a Resume after checking it against the envelope schema.
func ParseResume(content string) (*types.Resume, error) {
	cleaned := llm.CleanJSONBlock(content)
	if cleaned == "" {
		return nil, &MalformedResponseError{Message: "empty response body"}
	}

	if err := schemas.ValidateResume([]byte(cleaned)); err != nil {
		return nil, &MalformedResponseError{
			Message: "response does not match resume schema",
			Content: snippet(cleaned),
			Cause:   err,
		}
	}

	var resume types.Resume
	if err := json.Unmarshal([]byte(cleaned), &resume); err != nil {
		return nil, &MalformedResponseError{
			Message: "failed to decode resume",
			Content: snippet(cleaned),
			Cause:   err,
		}
	}
	return &resume, nil
}

func snippet(s string) string {
	if len(s) <= maxSnippet {
		return s
	}
	return s[:maxSnippet] + "..."
}
