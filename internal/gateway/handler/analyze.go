package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"flowsight/internal/analyzer"
	"flowsight/internal/diagram"
	"flowsight/internal/history"
	"flowsight/internal/llm"
	"flowsight/internal/workflow"
)

type analyzeRequest struct {
	Code          string                  `json:"code"`
	FilePaths     []string                `json:"file_paths,omitempty"`
	Metadata      []workflow.FunctionMeta `json:"metadata,omitempty"`
	FrameworkHint string                  `json:"framework_hint,omitempty"`
}

type analyzeResponse struct {
	ID        string        `json:"id"`
	Framework string        `json:"framework,omitempty"`
	Graph     diagram.Graph `json:"graph"`
	Usage     llm.Usage     `json:"usage"`
	Cost      llm.Cost      `json:"cost"`
	Attempts  int           `json:"attempts"`
	Cached    bool          `json:"cached,omitempty"`
}

type errorResponse struct {
	Error string    `json:"error"`
	Usage llm.Usage `json:"usage"`
	Cost  llm.Cost  `json:"cost"`
}

func (s *Service) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	if req.Code == "" {
		http.Error(w, "code is required", http.StatusBadRequest)
		return
	}

	framework := req.FrameworkHint
	if framework == "" {
		framework, _ = analyzer.DetectFramework(req.Code)
	}

	// Cheap pre-classification: don't spend a model round-trip on files
	// that clearly make no LLM calls.
	if !analyzer.IsWorkflowCandidate(req.Code) && req.FrameworkHint == "" {
		writeJSON(w, http.StatusOK, analyzeResponse{ID: newAnalysisID(), Graph: diagram.Graph{}})
		return
	}

	key := cacheKey(req.Code, framework)
	if cached, ok := s.cache.Get(key); ok {
		writeJSON(w, http.StatusOK, analyzeResponse{
			ID:        newAnalysisID(),
			Framework: framework,
			Graph:     cached.Graph,
			Usage:     cached.Usage,
			Cost:      cached.Cost,
			Attempts:  cached.Attempts,
			Cached:    true,
		})
		return
	}

	// Provider configuration is snapshotted here; every attempt within
	// this request sees the same target.
	cfg := s.resolveProvider()
	if cfg.Missing() {
		http.Error(w, llm.ErrMissingConfig.Error(), http.StatusServiceUnavailable)
		return
	}

	ctx := r.Context()
	client, err := s.clients(ctx, cfg)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	defer client.Close()

	id := newAnalysisID()
	resolver := &workflow.Resolver{
		Client:  client,
		Pricing: cfg.Pricing(),
		OnReply: func(attempt int, raw string) {
			_ = s.artifacts.Put(ctx, id, fmt.Sprintf("attempt-%d.txt", attempt), []byte(raw))
		},
	}
	result, err := resolver.Resolve(ctx, workflow.Request{
		Code:          req.Code,
		FilePaths:     req.FilePaths,
		Metadata:      req.Metadata,
		FrameworkHint: framework,
	})
	if err != nil {
		s.recordFailure(id, framework, result, err)
		status := http.StatusBadGateway
		var analysisErr *workflow.AnalysisError
		if errors.As(err, &analysisErr) {
			status = http.StatusUnprocessableEntity
		}
		// Usage accumulated before the failure is still reported so the
		// caller's billing stays accurate.
		writeJSON(w, status, errorResponse{
			Error: fmt.Sprintf("analysis failed: %v", err),
			Usage: result.Usage,
			Cost:  result.Cost,
		})
		return
	}

	s.cache.Set(key, *result)
	s.recordSuccess(id, framework, result)
	if raw, err := json.Marshal(result.Graph); err == nil {
		_ = s.artifacts.Put(ctx, id, "graph.json", raw)
	}

	writeJSON(w, http.StatusOK, analyzeResponse{
		ID:        id,
		Framework: framework,
		Graph:     result.Graph,
		Usage:     result.Usage,
		Cost:      result.Cost,
		Attempts:  result.Attempts,
	})
}

func (s *Service) recordSuccess(id, framework string, result *workflow.Result) {
	_ = s.history.Put(history.Record{
		ID:        id,
		Framework: framework,
		NodeCount: len(result.Graph.Nodes),
		EdgeCount: len(result.Graph.Edges),
		Attempts:  result.Attempts,
		Usage:     result.Usage,
		TotalCost: result.Cost.TotalCost,
	})
}

func (s *Service) recordFailure(id, framework string, result *workflow.Result, cause error) {
	rec := history.Record{
		ID:        id,
		Framework: framework,
		Failure:   cause.Error(),
	}
	if result != nil {
		rec.Attempts = result.Attempts
		rec.Usage = result.Usage
		rec.TotalCost = result.Cost.TotalCost
	}
	_ = s.history.Put(rec)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
