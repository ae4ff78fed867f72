package generation

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/semaphore"

	"github.com/jonathan/ats-resume-generator/internal/cost"
	"github.com/jonathan/ats-resume-generator/internal/llm"
	"github.com/jonathan/ats-resume-generator/internal/types"
)

const validBody = `{
  "summary": "Registered nurse with ICU experience.",
  "skills": ["Patient care", "EHR", "Triage"],
  "experience": [{"title": "RN", "company": "General Hospital", "location": "Denver, CO",
    "start_date": "2018-01", "end_date": "Present", "bullets": ["Managed 6-patient ICU load"]}],
  "education": [{"degree": "BSN", "institution": "State University", "year": 2017}],
  "certifications": ["BLS"]
}`

type stubClient struct {
	mu      sync.Mutex
	content string
	usage   llm.Usage
	err     error
	calls   []llm.Request
}

func (c *stubClient) GenerateJSON(_ context.Context, req llm.Request) (*llm.Response, error) {
	c.mu.Lock()
	c.calls = append(c.calls, req)
	c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	return &llm.Response{Content: c.content, Usage: c.usage, Model: "stub"}, nil
}

func (c *stubClient) Model() string { return "stub" }
func (c *stubClient) Close() error  { return nil }

type stubRenderer struct {
	err  error
	seen *types.Resume
	// slots is checked while rendering to prove the slot is still held
	slots *semaphore.Weighted
	held  bool
}

func (r *stubRenderer) Render(_ context.Context, resume *types.Resume, index int, _ types.Template) (string, error) {
	r.seen = resume
	if r.slots != nil {
		r.held = !r.slots.TryAcquire(1)
		if !r.held {
			r.slots.Release(1)
		}
	}
	if r.err != nil {
		return "", r.err
	}
	return filepath.Join("out", fmt.Sprintf("resume_%04d.pdf", index)), nil
}

func request(index int) types.GenerationRequest {
	return types.GenerationRequest{
		Index:     index,
		Industry:  "Healthcare",
		Role:      "Registered Nurse",
		Seniority: 6,
		Template:  types.TemplateClassic,
	}
}

func TestJob_Run_Success(t *testing.T) {
	client := &stubClient{content: validBody, usage: llm.Usage{InputTokens: 100, OutputTokens: 50}}
	tracker := cost.NewTracker(cost.PricingFor("gpt-5-nano"))
	slots := semaphore.NewWeighted(1)
	renderer := &stubRenderer{slots: slots}

	var progressed []types.GenerationResult
	job := NewJob(client, tracker, renderer, slots, WithProgress(func(r types.GenerationResult) {
		progressed = append(progressed, r)
	}))

	result, err := job.Run(context.Background(), request(4))
	require.NoError(t, err)

	expected := cost.PricingFor("gpt-5-nano").Cost(100, 50)
	assert.Equal(t, 4, result.Index)
	assert.InDelta(t, expected, result.Cost, 1e-15)
	assert.Equal(t, filepath.Join("out", "resume_0004.pdf"), result.Path)
	require.NotNil(t, result.Resume)
	assert.Equal(t, "2017", result.Resume.Education[0].Year)

	assert.Equal(t, 1, tracker.Count())
	assert.Equal(t, 100, tracker.TotalInputTokens())
	assert.Equal(t, 50, tracker.TotalOutputTokens())

	require.Len(t, client.calls, 1)
	assert.Contains(t, client.calls[0].User, "Registered Nurse")
	assert.Contains(t, client.calls[0].User, "Healthcare")

	assert.True(t, renderer.held, "slot should be held during rendering")
	require.Len(t, progressed, 1)
	assert.Equal(t, 4, progressed[0].Index)

	// slot released after return
	assert.True(t, slots.TryAcquire(1))
}

func TestJob_Run_ProgressAfterSlotReleased(t *testing.T) {
	client := &stubClient{content: validBody, usage: llm.Usage{InputTokens: 10, OutputTokens: 10}}
	tracker := cost.NewTracker(cost.PricingFor("gpt-5-nano"))
	slots := semaphore.NewWeighted(1)

	var slotFree bool
	job := NewJob(client, tracker, &stubRenderer{}, slots, WithProgress(func(types.GenerationResult) {
		// a blocking sink such as a database insert runs here
		slotFree = slots.TryAcquire(1)
		if slotFree {
			slots.Release(1)
		}
	}))

	_, err := job.Run(context.Background(), request(2))
	require.NoError(t, err)
	assert.True(t, slotFree, "progress should be reported after the slot is released")
}

func TestJob_Run_APIError(t *testing.T) {
	apiErr := &llm.APICallError{Provider: llm.ProviderOpenAI, Message: "status 500"}
	client := &stubClient{err: apiErr}
	tracker := cost.NewTracker(cost.PricingFor(""))
	slots := semaphore.NewWeighted(2)
	renderer := &stubRenderer{}

	_, err := NewJob(client, tracker, renderer, slots).Run(context.Background(), request(9))
	require.Error(t, err)

	var jobErr *JobError
	require.ErrorAs(t, err, &jobErr)
	assert.Equal(t, 9, jobErr.Index)
	assert.Equal(t, StageAPI, jobErr.Stage)

	var callErr *llm.APICallError
	assert.ErrorAs(t, err, &callErr)

	assert.Equal(t, 0, tracker.Count(), "failed calls are not billed")
	assert.Nil(t, renderer.seen)
	assert.True(t, slots.TryAcquire(2), "slot must be released on failure")
}

func TestJob_Run_MalformedResponse(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "plain text", content: "Sorry, I cannot help with that."},
		{name: "array", content: `["not", "a", "resume"]`},
		{name: "wrong field type", content: `{"summary": 42}`},
		{name: "empty", content: "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &stubClient{content: tt.content, usage: llm.Usage{InputTokens: 10, OutputTokens: 5}}
			tracker := cost.NewTracker(cost.PricingFor(""))
			slots := semaphore.NewWeighted(1)
			renderer := &stubRenderer{}

			_, err := NewJob(client, tracker, renderer, slots).Run(context.Background(), request(2))
			require.Error(t, err)

			var malformed *MalformedResponseError
			assert.ErrorAs(t, err, &malformed)
			var jobErr *JobError
			require.ErrorAs(t, err, &jobErr)
			assert.Equal(t, StageParse, jobErr.Stage)

			assert.Equal(t, 1, tracker.Count(), "usage is recorded before parsing")
			assert.Nil(t, renderer.seen)
			assert.True(t, slots.TryAcquire(1))
		})
	}
}

func TestJob_Run_RenderError(t *testing.T) {
	client := &stubClient{content: validBody}
	slots := semaphore.NewWeighted(1)
	renderer := &stubRenderer{err: errors.New("disk full")}

	_, err := NewJob(client, cost.NewTracker(cost.PricingFor("")), renderer, slots).Run(context.Background(), request(1))
	var jobErr *JobError
	require.ErrorAs(t, err, &jobErr)
	assert.Equal(t, StageRender, jobErr.Stage)
	assert.Contains(t, err.Error(), "disk full")
	assert.True(t, slots.TryAcquire(1))
}

func TestJob_Run_CancelledBeforeSlot(t *testing.T) {
	client := &stubClient{content: validBody}
	slots := semaphore.NewWeighted(1)
	require.True(t, slots.TryAcquire(1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewJob(client, cost.NewTracker(cost.PricingFor("")), &stubRenderer{}, slots).Run(ctx, request(1))
	var jobErr *JobError
	require.ErrorAs(t, err, &jobErr)
	assert.Equal(t, StageAcquire, jobErr.Stage)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, client.calls)
}

func TestParseResume_FencedBody(t *testing.T) {
	resume, err := ParseResume("```json\n" + validBody + "\n```")
	require.NoError(t, err)
	assert.Equal(t, []string{"Patient care", "EHR", "Triage"}, resume.Skills)
	assert.Len(t, resume.Experience, 1)
	assert.Empty(t, resume.Name, "contact fields are filled in by the renderer")
}
