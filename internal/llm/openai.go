package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// OpenAIClient calls an OpenAI-compatible Chat Completions endpoint,
// typically a LiteLLM proxy fronting whichever model the deployment
// configured.
type OpenAIClient struct {
	http    *http.Client
	baseURL string
	apiKey  string
	model   string
}

func NewOpenAIClient(baseURL, apiKey, model string) (*OpenAIClient, error) {
	baseURL = normalizeBaseURL(baseURL)
	if baseURL == "" {
		return nil, fmt.Errorf("llm: openai base url is required")
	}
	if model == "" {
		return nil, fmt.Errorf("llm: openai model is required")
	}
	return &OpenAIClient{
		http:    &http.Client{Timeout: 120 * time.Second},
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
	}, nil
}

// normalizeBaseURL tolerates base URLs pasted with a full endpoint path.
func normalizeBaseURL(baseURL string) string {
	normalized := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	for _, suffix := range []string{"/chat/completions", "/models"} {
		if strings.HasSuffix(normalized, suffix) {
			normalized = strings.TrimSuffix(normalized, suffix)
			break
		}
	}
	return normalized
}

func (c *OpenAIClient) Name() string { return "LiteLLM:" + c.model }
func (c *OpenAIClient) Close() error { return nil }

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	TopP        float32       `json:"top_p"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens        int64 `json:"prompt_tokens"`
		CompletionTokens    int64 `json:"completion_tokens"`
		TotalTokens         int64 `json:"total_tokens"`
		PromptTokensDetails struct {
			CachedTokens int64 `json:"cached_tokens"`
		} `json:"prompt_tokens_details"`
	} `json:"usage"`
}

func (c *OpenAIClient) GenerateText(ctx context.Context, system, user string, maxTokens int) (string, Usage, error) {
	messages := make([]chatMessage, 0, 2)
	if system != "" {
		messages = append(messages, chatMessage{Role: "system", Content: system})
	}
	messages = append(messages, chatMessage{Role: "user", Content: user})

	body, _ := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: 0,
		TopP:        1,
		MaxTokens:   maxTokens,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", Usage{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", Usage{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		const maxEcho = 2048
		if len(raw) > maxEcho {
			raw = raw[:maxEcho]
		}
		err := fmt.Errorf("llm: unexpected status %s: %s", resp.Status, string(raw))
		if resp.StatusCode == http.StatusBadRequest && strings.Contains(string(raw), "context_length_exceeded") {
			return "", Usage{}, NewPermanentError(err)
		}
		return "", Usage{}, err
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", Usage{}, NewPermanentError(fmt.Errorf("llm: malformed provider response: %w", err))
	}
	usage := Usage{
		InputTokens:  out.Usage.PromptTokens,
		OutputTokens: out.Usage.CompletionTokens,
		TotalTokens:  out.Usage.TotalTokens,
		CachedTokens: out.Usage.PromptTokensDetails.CachedTokens,
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return "", usage, NewPermanentError(ErrEmptyResponse)
	}
	choice := out.Choices[0]
	switch choice.FinishReason {
	case "length":
		return "", usage, NewPermanentError(fmt.Errorf("llm: output exceeded the token limit"))
	case "content_filter":
		return "", usage, NewPermanentError(fmt.Errorf("llm: response blocked by content filter"))
	}
	return choice.Message.Content, usage, nil
}
