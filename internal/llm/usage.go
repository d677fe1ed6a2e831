package llm

// Usage accumulates token counters across every generation call made
// while producing one final graph, retries included. It is never reset
// mid-request.
type Usage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
	TotalTokens  int64 `json:"total_tokens"`
	CachedTokens int64 `json:"cached_tokens"`
}

// Add folds another attempt's usage into the running total.
func (u *Usage) Add(v Usage) {
	u.InputTokens += v.InputTokens
	u.OutputTokens += v.OutputTokens
	u.TotalTokens += v.TotalTokens
	u.CachedTokens += v.CachedTokens
}

// Pricing is a flat per-1M-token rate card.
type Pricing struct {
	InputPerMillion  float64
	OutputPerMillion float64
}

// GeminiFlashPricing is the published gemini-2.5-flash rate card.
var GeminiFlashPricing = Pricing{InputPerMillion: 0.075, OutputPerMillion: 0.30}

// Cost is the monetary estimate derived linearly from usage. Providers
// without a rate card report zero cost.
type Cost struct {
	InputCost  float64 `json:"input_cost"`
	OutputCost float64 `json:"output_cost"`
	TotalCost  float64 `json:"total_cost"`
}

// CostOf prices the given usage. A zero Pricing yields a zero Cost.
func CostOf(u Usage, p Pricing) Cost {
	in := float64(u.InputTokens) / 1_000_000 * p.InputPerMillion
	out := float64(u.OutputTokens) / 1_000_000 * p.OutputPerMillion
	return Cost{InputCost: in, OutputCost: out, TotalCost: in + out}
}
