package dataset

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when no dataset exists for a given id.
	ErrNotFound = errors.New("no dataset for id")
)

// MemoryStore is a concurrency-safe in-memory registry of uploaded datasets.
// Datasets are session-scoped: retention limits bound how many uploads are
// kept and for how long, nothing is ever written to disk.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]*Dataset

	maxCount int           // max number of datasets kept (0 = unlimited)
	maxAge   time.Duration // max age of a dataset (0 = unlimited)
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxCount is <= 0, it is treated as unlimited.
func NewMemoryStore(maxCount int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:     make(map[string]*Dataset),
		maxCount: maxCount,
		maxAge:   maxAge,
	}
}

// Add registers a parsed dataset, assigns it an id and enforces the count
// limit by evicting the oldest uploads.
func (s *MemoryStore) Add(ds *Dataset) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds.ID = uuid.NewString()
	ds.UploadedAt = time.Now().UTC()
	s.data[ds.ID] = ds

	if s.maxCount > 0 {
		for len(s.data) > s.maxCount {
			oldestID := ""
			var oldest time.Time
			for id, d := range s.data {
				if oldestID == "" || d.UploadedAt.Before(oldest) {
					oldestID = id
					oldest = d.UploadedAt
				}
			}
			delete(s.data, oldestID)
		}
	}

	return ds.ID
}

// Get returns the dataset with the given id.
func (s *MemoryStore) Get(id string) (*Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ds, ok := s.data[id]
	if !ok {
		return nil, ErrNotFound
	}
	return ds, nil
}

// Sweep evicts datasets older than the configured max age and returns the
// number removed. A zero max age disables eviction.
func (s *MemoryStore) Sweep() int {
	if s.maxAge <= 0 {
		return 0
	}

	cutoff := time.Now().UTC().Add(-s.maxAge)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, ds := range s.data {
		if ds.UploadedAt.Before(cutoff) {
			delete(s.data, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of datasets currently held.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
