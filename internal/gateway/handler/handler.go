package handler

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"flowsight/internal/archive"
	memcache "flowsight/internal/cache/memory"
	"flowsight/internal/history"
	"flowsight/internal/llm"
	"flowsight/internal/workflow"
)

// ClientFactory builds the generation client for one request's provider
// snapshot. Tests swap it for a fake.
type ClientFactory func(ctx context.Context, cfg llm.ProviderConfig) (llm.Client, error)

// Service implements the HTTP surface: analyze, health, history,
// artifacts.
type Service struct {
	history   *history.Store
	artifacts archive.Store
	cache     *memcache.LRUTTL[string, workflow.Result]
	clients   ClientFactory

	// resolveProvider is swapped in tests to avoid touching the process
	// environment.
	resolveProvider func() llm.ProviderConfig
}

// NewService wires the default dependencies. Either store may be nil-ish
// (file-backed history, memory archive) and the service still works.
func NewService(hist *history.Store, artifacts archive.Store) *Service {
	if artifacts == nil {
		artifacts = archive.NewMemoryStore()
	}
	return &Service{
		history:         hist,
		artifacts:       artifacts,
		cache:           memcache.NewLRUTTL[string, workflow.Result](256, 10*time.Minute),
		clients:         defaultClientFactory,
		resolveProvider: llm.ResolveProvider,
	}
}

func defaultClientFactory(ctx context.Context, cfg llm.ProviderConfig) (llm.Client, error) {
	inner, err := llm.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return llm.Wrap(inner,
		llm.WithLogging(nil),
		llm.Retry(3, time.Second),
		llm.RateLimitFromEnv(),
	), nil
}

// BuildMux registers all HTTP handlers on a new ServeMux.
func BuildMux(s *Service) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/analyze", s.handleAnalyze)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/history", s.handleHistory)
	mux.HandleFunc("/api/artifacts", s.handleArtifacts)
	return mux
}

// newAnalysisID returns a unique id for one analysis request.
func newAnalysisID() string {
	var buf [4]byte
	_, _ = rand.Read(buf[:])
	return fmt.Sprintf("an-%d-%s", time.Now().UnixMilli(), hex.EncodeToString(buf[:]))
}

// cacheKey folds the analysis inputs into a stable lookup key.
func cacheKey(code, hint string) string {
	sum := sha256.Sum256([]byte(hint + "\x00" + code))
	return hex.EncodeToString(sum[:])
}
