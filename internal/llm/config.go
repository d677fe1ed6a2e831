package llm

import (
	"context"
	"os"
	"strings"
)

// Provider names resolved from the environment.
const (
	ProviderGemini  = "gemini"
	ProviderLiteLLM = "litellm"
)

const defaultGeminiModel = "gemini-2.5-flash"

// ProviderConfig is a point-in-time snapshot of provider credentials.
// It is resolved once at request start so every attempt within one
// request sees the same provider target, even if the environment changes
// underneath.
type ProviderConfig struct {
	Provider string

	GeminiAPIKey string
	GeminiModel  string

	LiteLLMBaseURL string
	LiteLLMAPIKey  string
	LiteLLMModel   string
}

// ResolveProvider snapshots provider configuration from the environment.
// A fully-configured LiteLLM endpoint wins over a Gemini key.
func ResolveProvider() ProviderConfig {
	cfg := ProviderConfig{
		GeminiAPIKey:   strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiModel:    strings.TrimSpace(os.Getenv("GEMINI_MODEL")),
		LiteLLMBaseURL: strings.TrimSpace(os.Getenv("LITELLM_BASE_URL")),
		LiteLLMAPIKey:  strings.TrimSpace(os.Getenv("LITELLM_API_KEY")),
		LiteLLMModel:   strings.TrimSpace(os.Getenv("LITELLM_MODEL")),
	}
	if cfg.GeminiModel == "" {
		cfg.GeminiModel = defaultGeminiModel
	}
	switch {
	case cfg.LiteLLMBaseURL != "" && cfg.LiteLLMAPIKey != "" && cfg.LiteLLMModel != "":
		cfg.Provider = ProviderLiteLLM
	case cfg.GeminiAPIKey != "":
		cfg.Provider = ProviderGemini
	}
	return cfg
}

// Missing reports whether no provider is usable.
func (c ProviderConfig) Missing() bool { return c.Provider == "" }

// Model returns the model name the active provider will be asked for.
func (c ProviderConfig) Model() string {
	if c.Provider == ProviderLiteLLM {
		return c.LiteLLMModel
	}
	return c.GeminiModel
}

// Pricing returns the rate card for the active provider. LiteLLM
// deployments front arbitrary models, so no pricing is assumed there.
func (c ProviderConfig) Pricing() Pricing {
	if c.Provider == ProviderGemini {
		return GeminiFlashPricing
	}
	return Pricing{}
}

// NewClient builds the provider client for the snapshot. The caller owns
// Close. Wrap the result with Middleware for retries and rate limiting.
func NewClient(ctx context.Context, cfg ProviderConfig) (Client, error) {
	switch cfg.Provider {
	case ProviderLiteLLM:
		return NewOpenAIClient(cfg.LiteLLMBaseURL, cfg.LiteLLMAPIKey, cfg.LiteLLMModel)
	case ProviderGemini:
		return NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	default:
		return nil, ErrMissingConfig
	}
}
