package archive

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// Store archives the artifacts of one analysis: each attempt's raw model
// reply and the final graph JSON, keyed by analysis id and object path.
type Store interface {
	Put(ctx context.Context, analysisID, path string, content []byte) error
	Get(ctx context.Context, analysisID, path string) ([]byte, error)
	List(ctx context.Context, analysisID string) ([]string, error)
}

var ErrNotFound = errors.New("archive: object not found")

// MemoryStore is the in-process fallback used when no S3 endpoint is
// configured. Contents are lost on restart, which is acceptable for the
// debugging role the archive plays.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

func (s *MemoryStore) Put(_ context.Context, analysisID, path string, content []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[objectKey(analysisID, path)] = append([]byte(nil), content...)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, analysisID, path string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.objects[objectKey(analysisID, path)]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), content...), nil
}

func (s *MemoryStore) List(_ context.Context, analysisID string) ([]string, error) {
	prefix := objectKey(analysisID, "")
	s.mu.RLock()
	defer s.mu.RUnlock()
	var paths []string
	for key := range s.objects {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			paths = append(paths, key[len(prefix):])
		}
	}
	sort.Strings(paths)
	return paths, nil
}
