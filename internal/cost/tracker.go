package cost

import "sync"

// Tracker accumulates token usage and per-resume costs for one run.
// All methods are safe for concurrent use.
type Tracker struct {
	pricing Pricing

	mu                sync.Mutex
	totalInputTokens  int
	totalOutputTokens int
	totalCost         float64
	costs             []float64
}

// Snapshot is a consistent, read-only view of a Tracker
type Snapshot struct {
	TotalInputTokens  int       `json:"total_input_tokens"`
	TotalOutputTokens int       `json:"total_output_tokens"`
	TotalCost         float64   `json:"total_cost_usd"`
	AverageCost       float64   `json:"avg_cost_per_resume_usd"`
	Costs             []float64 `json:"per_resume_costs_usd"`
}

// NewTracker creates a tracker that prices usage with p.
func NewTracker(p Pricing) *Tracker {
	return &Tracker{pricing: p}
}

// Record adds one request's usage and returns its cost. Costs are appended
// in completion order.
func (t *Tracker) Record(inputTokens, outputTokens int) float64 {
	inputTokens = max(inputTokens, 0)
	outputTokens = max(outputTokens, 0)
	c := t.pricing.Cost(inputTokens, outputTokens)

	t.mu.Lock()
	defer t.mu.Unlock()

	t.totalInputTokens += inputTokens
	t.totalOutputTokens += outputTokens
	t.costs = append(t.costs, c)
	t.totalCost += c
	return c
}

// TotalCost returns the sum of every recorded cost.
func (t *Tracker) TotalCost() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.totalCost
}

// AverageCost returns TotalCost divided by the number of records, or 0 when empty.
func (t *Tracker) AverageCost() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.averageLocked()
}

func (t *Tracker) averageLocked() float64 {
	if len(t.costs) == 0 {
		return 0
	}
	return t.totalCost / float64(len(t.costs))
}

// TotalInputTokens returns the running input token count.
func (t *Tracker) TotalInputTokens() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.totalInputTokens
}

// TotalOutputTokens returns the running output token count.
func (t *Tracker) TotalOutputTokens() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.totalOutputTokens
}

// Count returns the number of recorded requests.
func (t *Tracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.costs)
}

// Costs returns a copy of the per-request costs in completion order.
func (t *Tracker) Costs() []float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]float64, len(t.costs))
	copy(out, t.costs)
	return out
}

// Snapshot captures every field under a single lock.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	costs := make([]float64, len(t.costs))
	copy(costs, t.costs)
	return Snapshot{
		TotalInputTokens:  t.totalInputTokens,
		TotalOutputTokens: t.totalOutputTokens,
		TotalCost:         t.totalCost,
		AverageCost:       t.averageLocked(),
		Costs:             costs,
	}
}
