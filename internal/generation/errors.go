// Package generation runs a single resume job: prompt, API call, cost accounting, parse and render.
package generation

import "fmt"

// Stage names the step of a job that failed
type Stage string

const (
	StageAcquire Stage = "acquire"
	StageAPI     Stage = "api"
	StageParse   Stage = "parse"
	StageRender  Stage = "render"
)

// MalformedResponseError is returned when the API body is not a resume object
type MalformedResponseError struct {
	Message string
	Content string
	Cause   error
}

func (e *MalformedResponseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed response: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("malformed response: %s", e.Message)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Cause
}

// JobError attaches the job index and failing stage to an error
type JobError struct {
	Index int
	Stage Stage
	Cause error
}

func (e *JobError) Error() string {
	return fmt.Sprintf("resume %d failed at %s: %v", e.Index, e.Stage, e.Cause)
}

func (e *JobError) Unwrap() error {
	return e.Cause
}
