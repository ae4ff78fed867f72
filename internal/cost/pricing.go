// Package cost tracks token usage and per-resume spend across concurrent generation jobs.
package cost

// Pricing holds per-million-token prices in USD
type Pricing struct {
	InputPer1M  float64 `json:"input_per_1m" mapstructure:"input_per_1m"`
	OutputPer1M float64 `json:"output_per_1m" mapstructure:"output_per_1m"`
}

// DefaultModel is the model whose prices apply when nothing else is configured
const DefaultModel = "gpt-5-nano"

// modelPrices lists published prices for the models the generator is used with
var modelPrices = map[string]Pricing{
	"gpt-5-nano":            {InputPer1M: 0.05, OutputPer1M: 0.40},
	"gpt-5-mini":            {InputPer1M: 0.25, OutputPer1M: 2.00},
	"gpt-4o-mini":           {InputPer1M: 0.15, OutputPer1M: 0.60},
	"gemini-2.5-flash-lite": {InputPer1M: 0.10, OutputPer1M: 0.40},
	"gemini-2.5-flash":      {InputPer1M: 0.30, OutputPer1M: 2.50},
}

// PricingFor returns the prices for a model, falling back to DefaultModel.
func PricingFor(model string) Pricing {
	if p, ok := modelPrices[model]; ok {
		return p
	}
	return modelPrices[DefaultModel]
}

// Known reports whether the model has a price table entry.
func Known(model string) bool {
	_, ok := modelPrices[model]
	return ok
}

// Cost computes the USD cost of a single request.
func (p Pricing) Cost(inputTokens, outputTokens int) float64 {
	return (float64(inputTokens)/1_000_000)*p.InputPer1M +
		(float64(outputTokens)/1_000_000)*p.OutputPer1M
}
