package history

import (
	"encoding/json"

	"flowsight/internal/llm"
)

func (s *Store) ensureSchema() error {
	if s == nil || s.db == nil {
		return nil
	}
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.Exec(`
CREATE TABLE IF NOT EXISTS analysis_records (
  id TEXT PRIMARY KEY,
  created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
  framework TEXT NOT NULL DEFAULT '',
  node_count INTEGER NOT NULL DEFAULT 0,
  edge_count INTEGER NOT NULL DEFAULT 0,
  attempts INTEGER NOT NULL DEFAULT 0,
  usage JSONB NOT NULL DEFAULT '{}',
  total_cost DOUBLE PRECISION NOT NULL DEFAULT 0,
  failure TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_analysis_records_created_at ON analysis_records (created_at DESC);
`)
	})
	return s.schemaErr
}

func (s *Store) putDB(rec Record) error {
	if err := s.ensureSchema(); err != nil {
		return err
	}
	usage, err := json.Marshal(rec.Usage)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
INSERT INTO analysis_records (
  id, created_at, framework, node_count, edge_count, attempts, usage, total_cost, failure
)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (id)
DO UPDATE SET framework=EXCLUDED.framework,
  node_count=EXCLUDED.node_count,
  edge_count=EXCLUDED.edge_count,
  attempts=EXCLUDED.attempts,
  usage=EXCLUDED.usage,
  total_cost=EXCLUDED.total_cost,
  failure=EXCLUDED.failure`,
		rec.ID, rec.CreatedAt, rec.Framework, rec.NodeCount, rec.EdgeCount,
		rec.Attempts, usage, rec.TotalCost, rec.Failure)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, bool) {
	var rec Record
	var usage []byte
	err := row.Scan(
		&rec.ID,
		&rec.CreatedAt,
		&rec.Framework,
		&rec.NodeCount,
		&rec.EdgeCount,
		&rec.Attempts,
		&usage,
		&rec.TotalCost,
		&rec.Failure,
	)
	if err != nil {
		return Record{}, false
	}
	var u llm.Usage
	if json.Unmarshal(usage, &u) == nil {
		rec.Usage = u
	}
	return normalizeRecord(rec), true
}

const recordColumns = `id, created_at, framework, node_count, edge_count, attempts, usage, total_cost, failure`

func (s *Store) getDB(id string) (Record, bool) {
	if err := s.ensureSchema(); err != nil {
		return Record{}, false
	}
	row := s.db.QueryRow(`SELECT `+recordColumns+` FROM analysis_records WHERE id = $1`, id)
	return scanRecord(row)
}

func (s *Store) listRecentDB(limit int) []Record {
	if err := s.ensureSchema(); err != nil {
		return nil
	}
	rows, err := s.db.Query(`SELECT `+recordColumns+` FROM analysis_records
ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil
	}
	defer rows.Close()
	out := make([]Record, 0, limit)
	for rows.Next() {
		if rec, ok := scanRecord(rows); ok {
			out = append(out, rec)
		}
	}
	return out
}
