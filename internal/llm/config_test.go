package llm

import "testing"

func setProviderEnv(t *testing.T, gemini, liteURL, liteKey, liteModel string) {
	t.Helper()
	t.Setenv("GEMINI_API_KEY", gemini)
	t.Setenv("GEMINI_MODEL", "")
	t.Setenv("LITELLM_BASE_URL", liteURL)
	t.Setenv("LITELLM_API_KEY", liteKey)
	t.Setenv("LITELLM_MODEL", liteModel)
}

func TestResolveProviderPrecedence(t *testing.T) {
	setProviderEnv(t, "gk", "http://litellm:4000", "lk", "gpt-4o-mini")
	cfg := ResolveProvider()
	if cfg.Provider != ProviderLiteLLM {
		t.Fatalf("expected litellm to win, got %q", cfg.Provider)
	}
	if cfg.Model() != "gpt-4o-mini" {
		t.Fatalf("unexpected model: %q", cfg.Model())
	}
	if cfg.Pricing() != (Pricing{}) {
		t.Fatalf("litellm should carry no rate card")
	}
}

func TestResolveProviderGeminiFallback(t *testing.T) {
	// Incomplete LiteLLM config falls back to Gemini.
	setProviderEnv(t, "gk", "http://litellm:4000", "", "")
	cfg := ResolveProvider()
	if cfg.Provider != ProviderGemini {
		t.Fatalf("expected gemini, got %q", cfg.Provider)
	}
	if cfg.Model() != defaultGeminiModel {
		t.Fatalf("expected default model, got %q", cfg.Model())
	}
	if cfg.Pricing() != GeminiFlashPricing {
		t.Fatalf("expected gemini rate card")
	}
}

func TestResolveProviderMissing(t *testing.T) {
	setProviderEnv(t, "", "", "", "")
	cfg := ResolveProvider()
	if !cfg.Missing() {
		t.Fatalf("expected missing provider, got %q", cfg.Provider)
	}
}
