package llm

import (
	"context"
	"fmt"

	genai "google.golang.org/genai"
)

// GeminiClient is a thin wrapper around the official genai client. It
// only focuses on the API call itself; retries, rate limiting and
// logging are applied via Middleware.
type GeminiClient struct {
	cli   *genai.Client
	model string
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiClient{cli: cli, model: model}, nil
}

func (g *GeminiClient) Name() string { return "Gemini:" + g.model }
func (g *GeminiClient) Close() error { return nil }

// GenerateText sends the user prompt with a separate system instruction
// and deterministic sampling, and maps terminal finish reasons to
// permanent errors so the retry layer does not chase them.
func (g *GeminiClient) GenerateText(ctx context.Context, system, user string, maxTokens int) (string, Usage, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(0)),
		TopP:            genai.Ptr(float32(1)),
		MaxOutputTokens: int32(maxTokens),
	}
	if system != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}

	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: user}}}}, cfg)
	if err != nil {
		return "", Usage{}, err
	}
	usage := extractGeminiUsage(resp)

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", usage, NewPermanentError(ErrEmptyResponse)
	}
	cand := resp.Candidates[0]
	switch cand.FinishReason {
	case genai.FinishReasonStop, genai.FinishReasonUnspecified:
	case genai.FinishReasonMaxTokens:
		return "", usage, NewPermanentError(fmt.Errorf("llm: output exceeded the token limit"))
	case genai.FinishReasonSafety:
		return "", usage, NewPermanentError(fmt.Errorf("llm: response blocked by safety filters"))
	default:
		return "", usage, NewPermanentError(fmt.Errorf("llm: generation stopped: %s", cand.FinishReason))
	}

	var text string
	for _, part := range cand.Content.Parts {
		if part != nil {
			text += part.Text
		}
	}
	if text == "" {
		return "", usage, NewPermanentError(ErrEmptyResponse)
	}
	return text, usage, nil
}

func extractGeminiUsage(resp *genai.GenerateContentResponse) Usage {
	meta := resp.UsageMetadata
	if meta == nil {
		return Usage{}
	}
	return Usage{
		InputTokens:  int64(meta.PromptTokenCount),
		OutputTokens: int64(meta.CandidatesTokenCount),
		TotalTokens:  int64(meta.TotalTokenCount),
		CachedTokens: int64(meta.CachedContentTokenCount),
	}
}
