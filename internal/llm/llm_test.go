package llm

import (
	"errors"
	"testing"
)

func TestIsTransient(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("googleapi: Error 429: RESOURCE_EXHAUSTED"), true},
		{errors.New("quota exceeded for project"), true},
		{errors.New("Too Many Requests"), true},
		{errors.New("rate_limit_error"), true},
		{errors.New("connection refused"), false},
		{NewPermanentError(errors.New("429 rate limit")), false},
	}
	for _, c := range cases {
		if got := IsTransient(c.err); got != c.want {
			t.Fatalf("IsTransient(%v) = %v, want %v", c.err, got, c.want)
		}
	}
}

func TestPermanentErrorUnwrap(t *testing.T) {
	err := NewPermanentError(ErrEmptyResponse)
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected wrapped ErrEmptyResponse")
	}
	var pErr *PermanentError
	if !errors.As(err, &pErr) {
		t.Fatalf("expected PermanentError via errors.As")
	}
}

func TestUsageAdd(t *testing.T) {
	var total Usage
	total.Add(Usage{InputTokens: 100, OutputTokens: 20, TotalTokens: 120})
	total.Add(Usage{InputTokens: 50, OutputTokens: 10, TotalTokens: 60, CachedTokens: 30})
	want := Usage{InputTokens: 150, OutputTokens: 30, TotalTokens: 180, CachedTokens: 30}
	if total != want {
		t.Fatalf("got %+v want %+v", total, want)
	}
}

func TestCostOf(t *testing.T) {
	u := Usage{InputTokens: 2_000_000, OutputTokens: 1_000_000}
	c := CostOf(u, GeminiFlashPricing)
	if c.InputCost != 0.15 {
		t.Fatalf("input cost: got %v", c.InputCost)
	}
	if c.OutputCost != 0.30 {
		t.Fatalf("output cost: got %v", c.OutputCost)
	}
	if c.TotalCost != 0.45 {
		t.Fatalf("total cost: got %v", c.TotalCost)
	}

	zero := CostOf(u, Pricing{})
	if zero != (Cost{}) {
		t.Fatalf("zero pricing should yield zero cost, got %+v", zero)
	}
}
