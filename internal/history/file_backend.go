package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
)

type fileSnapshot struct {
	Records []Record `json:"records"`
}

func (s *Store) ensureLoadedFile() {
	s.loadOnce.Do(func() {
		if s.path == "" {
			return
		}
		raw, err := os.ReadFile(s.path)
		if err != nil {
			return
		}
		var snap fileSnapshot
		if err := json.Unmarshal(raw, &snap); err != nil {
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, rec := range snap.Records {
			rec = normalizeRecord(rec)
			if rec.ID == "" {
				continue
			}
			if _, exists := s.byID[rec.ID]; !exists {
				s.order = append(s.order, rec.ID)
			}
			s.byID[rec.ID] = rec
		}
	})
}

func (s *Store) putFile(rec Record) error {
	s.ensureLoadedFile()
	s.mu.Lock()
	if _, exists := s.byID[rec.ID]; !exists {
		s.order = append(s.order, rec.ID)
	}
	s.byID[rec.ID] = rec
	s.mu.Unlock()
	return s.saveFile()
}

func (s *Store) getFile(id string) (Record, bool) {
	s.ensureLoadedFile()
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.byID[id]
	return rec, ok
}

func (s *Store) listRecentFile(limit int) []Record {
	s.ensureLoadedFile()
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, 0, len(s.order))
	for _, id := range s.order {
		if rec, ok := s.byID[id]; ok {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (s *Store) saveFile() error {
	if s.path == "" {
		return nil
	}
	s.mu.RLock()
	snap := fileSnapshot{Records: make([]Record, 0, len(s.order))}
	for _, id := range s.order {
		if rec, ok := s.byID[id]; ok {
			snap.Records = append(snap.Records, rec)
		}
	}
	s.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
