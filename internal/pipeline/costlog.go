package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// CostLogFile is written into the output directory when cost logging is on
const CostLogFile = "cost_log.json"

// CostLog is the on-disk record of a batch's spend
type CostLog struct {
	TotalResumes      int       `json:"total_resumes"`
	TotalTimeSeconds  float64   `json:"total_time_seconds"`
	TotalInputTokens  int       `json:"total_input_tokens"`
	TotalOutputTokens int       `json:"total_output_tokens"`
	TotalCost         float64   `json:"total_cost_usd"`
	AverageCost       float64   `json:"avg_cost_per_resume_usd"`
	PerResumeCosts    []float64 `json:"per_resume_costs_usd"`
}

// NewCostLog builds the log record from a summary.
func NewCostLog(s *RunSummary) CostLog {
	costs := s.Costs.Costs
	if costs == nil {
		costs = []float64{}
	}
	return CostLog{
		TotalResumes:      s.Count,
		TotalTimeSeconds:  s.Elapsed.Seconds(),
		TotalInputTokens:  s.Costs.TotalInputTokens,
		TotalOutputTokens: s.Costs.TotalOutputTokens,
		TotalCost:         s.Costs.TotalCost,
		AverageCost:       s.Costs.AverageCost,
		PerResumeCosts:    costs,
	}
}

// WriteCostLog writes cost_log.json into dir and returns its path.
func WriteCostLog(dir string, s *RunSummary) (string, error) {
	data, err := json.MarshalIndent(NewCostLog(s), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal cost log: %w", err)
	}

	path := filepath.Join(dir, CostLogFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write cost log: %w", err)
	}
	return path, nil
}
