package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetryAccumulatesUsageAcrossTransientFailures(t *testing.T) {
	fake := &FakeClient{Replies: []FakeReply{
		{Usage: Usage{InputTokens: 10, TotalTokens: 10}, Err: errors.New("429 rate limit")},
		{Usage: Usage{InputTokens: 10, TotalTokens: 10}, Err: errors.New("quota exceeded")},
		{Text: "ok", Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
	}}
	client := Wrap(fake, Retry(3, time.Millisecond))

	text, usage, err := client.GenerateText(context.Background(), "sys", "user", 100)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if text != "ok" {
		t.Fatalf("unexpected text: %q", text)
	}
	if fake.Calls != 3 {
		t.Fatalf("expected 3 calls, got %d", fake.Calls)
	}
	want := Usage{InputTokens: 30, OutputTokens: 5, TotalTokens: 35}
	if usage != want {
		t.Fatalf("usage: got %+v want %+v", usage, want)
	}
}

func TestRetryStopsOnPermanentError(t *testing.T) {
	fatal := NewPermanentError(errors.New("blocked by safety filters"))
	fake := &FakeClient{Replies: []FakeReply{
		{Usage: Usage{InputTokens: 7, TotalTokens: 7}, Err: fatal},
		{Text: "never reached"},
	}}
	client := Wrap(fake, Retry(3, time.Millisecond))

	_, usage, err := client.GenerateText(context.Background(), "", "u", 100)
	if err == nil {
		t.Fatalf("expected error")
	}
	var pErr *PermanentError
	if !errors.As(err, &pErr) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if fake.Calls != 1 {
		t.Fatalf("permanent error retried: %d calls", fake.Calls)
	}
	if usage.InputTokens != 7 {
		t.Fatalf("failed attempt usage lost: %+v", usage)
	}
}

func TestRetryExhaustsAttempts(t *testing.T) {
	fake := &FakeClient{Replies: []FakeReply{
		{Err: errors.New("429")},
		{Err: errors.New("429")},
		{Err: errors.New("429")},
	}}
	client := Wrap(fake, Retry(3, time.Millisecond))

	_, _, err := client.GenerateText(context.Background(), "", "u", 100)
	if err == nil {
		t.Fatalf("expected error after exhausting retries")
	}
	if fake.Calls != 3 {
		t.Fatalf("expected 3 calls, got %d", fake.Calls)
	}
}

func TestRetryHonorsCancellation(t *testing.T) {
	fake := &FakeClient{Replies: []FakeReply{
		{Err: errors.New("429")},
		{Text: "late"},
	}}
	client := Wrap(fake, Retry(3, time.Minute))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := client.GenerateText(ctx, "", "u", 100)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if fake.Calls != 1 {
		t.Fatalf("expected 1 call, got %d", fake.Calls)
	}
}

func TestWrapOrder(t *testing.T) {
	fake := &FakeClient{Replies: []FakeReply{{Text: "ok"}}}
	client := Wrap(fake, RateLimit(0, 0), Retry(2, time.Millisecond))
	defer client.Close()

	text, _, err := client.GenerateText(context.Background(), "s", "u", 10)
	if err != nil || text != "ok" {
		t.Fatalf("wrapped call: %q, %v", text, err)
	}
}
