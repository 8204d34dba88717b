package chat

// Decoding limits. Caller-supplied values are clamped, never rejected: the
// bot answers short factual questions about a CV and anything longer or
// hotter than this invites drift.
const (
	MaxTokenBudget    = 60
	MaxTemperature    = 0.3
	TopP              = 0.8
	RepetitionPenalty = 1.2
)

// StopTokens deterministically end a generation.
var StopTokens = []string{"\nQ:", "\nQuestion:", "\n\n"}

type GenerationParams struct {
	MaxTokens   int
	Temperature float64
}

// ClampParams returns the effective decoding parameters for a request.
// Zero or negative values take the maximums as defaults.
func ClampParams(p GenerationParams) GenerationParams {
	if p.MaxTokens <= 0 || p.MaxTokens > MaxTokenBudget {
		p.MaxTokens = MaxTokenBudget
	}
	if p.Temperature <= 0 || p.Temperature > MaxTemperature {
		p.Temperature = MaxTemperature
	}
	return p
}
