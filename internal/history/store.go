package history

import (
	"database/sql"
	"os"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Store keeps analysis records in a JSON file or, when a DSN is
// configured, in Postgres with an LRU read cache in front.
type Store struct {
	path string
	db   *sql.DB

	loadOnce sync.Once
	mu       sync.RWMutex
	byID     map[string]Record
	order    []string

	schemaOnce sync.Once
	schemaErr  error

	readCache *lru.Cache[string, Record]
}

// New creates a file-backed store at path.
func New(path string) *Store {
	return &Store{
		path: path,
		byID: make(map[string]Record),
	}
}

// NewPostgres creates a Postgres-backed store.
func NewPostgres(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	cache, err := lru.New[string, Record](1024)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, readCache: cache}, nil
}

// NewFromEnv prefers Postgres via FLOWSIGHT_PG_DSN and falls back to the
// file backend at path.
func NewFromEnv(path string) *Store {
	dsn := strings.TrimSpace(os.Getenv("FLOWSIGHT_PG_DSN"))
	if dsn == "" {
		return New(path)
	}
	s, err := NewPostgres(dsn)
	if err != nil {
		return New(path)
	}
	return s
}

func (s *Store) Put(rec Record) error {
	if s == nil {
		return nil
	}
	rec = normalizeRecord(rec)
	if rec.ID == "" {
		return nil
	}
	if s.db != nil {
		err := s.putDB(rec)
		if err == nil && s.readCache != nil {
			s.readCache.Remove(rec.ID)
		}
		return err
	}
	return s.putFile(rec)
}

func (s *Store) Get(id string) (Record, bool) {
	if s == nil {
		return Record{}, false
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Record{}, false
	}
	if s.db != nil {
		if s.readCache != nil {
			if cached, ok := s.readCache.Get(id); ok {
				return cached, true
			}
		}
		rec, ok := s.getDB(id)
		if ok && s.readCache != nil {
			s.readCache.Add(id, rec)
		}
		return rec, ok
	}
	return s.getFile(id)
}

// ListRecent returns up to limit records, newest first.
func (s *Store) ListRecent(limit int) []Record {
	if s == nil {
		return nil
	}
	if limit <= 0 {
		limit = 50
	}
	if s.db != nil {
		return s.listRecentDB(limit)
	}
	return s.listRecentFile(limit)
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
