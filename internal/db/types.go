package db

import (
	"time"

	"github.com/google/uuid"
)

// Run status values
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Run represents a generation run record
type Run struct {
	ID             uuid.UUID  `json:"id"`
	Requested      int        `json:"requested"`
	Concurrency    int        `json:"concurrency"`
	Model          string     `json:"model"`
	Status         string     `json:"status"`
	Completed      int        `json:"completed"`
	Failed         int        `json:"failed"`
	InputTokens    int64      `json:"input_tokens"`
	OutputTokens   int64      `json:"output_tokens"`
	TotalCost      float64    `json:"total_cost_usd"`
	ElapsedSeconds float64    `json:"elapsed_seconds"`
	CreatedAt      time.Time  `json:"created_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

// RunInput is the data needed to open a run
type RunInput struct {
	Requested   int
	Concurrency int
	Model       string
}

// RunTotals is written when a run settles
type RunTotals struct {
	Status         string
	Completed      int
	Failed         int
	InputTokens    int64
	OutputTokens   int64
	TotalCost      float64
	ElapsedSeconds float64
}

// ResumeCost is one settled job of a run
type ResumeCost struct {
	Index     int       `json:"index"`
	Cost      float64   `json:"cost_usd"`
	Path      string    `json:"path,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
