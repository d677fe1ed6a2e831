package history

import (
	"strings"
	"time"

	"flowsight/internal/llm"
)

// Record summarizes one completed (or failed) analysis request.
type Record struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Framework string    `json:"framework,omitempty"`
	NodeCount int       `json:"node_count"`
	EdgeCount int       `json:"edge_count"`
	Attempts  int       `json:"attempts"`
	Usage     llm.Usage `json:"usage"`
	TotalCost float64   `json:"total_cost"`
	Failure   string    `json:"failure,omitempty"`
}

func normalizeRecord(r Record) Record {
	r.ID = strings.TrimSpace(r.ID)
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	return r
}
