package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"flowsight/internal/archive"
)

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	cfg := s.resolveProvider()
	status := "ok"
	if cfg.Missing() {
		status = "missing-provider"
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   status,
		"provider": cfg.Provider,
		"model":    cfg.Model(),
	})
}

func (s *Service) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	writeJSON(w, http.StatusOK, map[string]any{
		"records": s.history.ListRecent(limit),
	})
}

func (s *Service) handleArtifacts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}
	if path := strings.TrimSpace(r.URL.Query().Get("path")); path != "" {
		content, err := s.artifacts.Get(r.Context(), id, path)
		if errors.Is(err, archive.ErrNotFound) {
			http.Error(w, "artifact not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(content)
		return
	}

	paths, err := s.artifacts.List(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":    id,
		"paths": paths,
	})
}
