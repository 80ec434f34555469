// Package memstore is an in-memory store.Adapter, the default backend
// used by tests and by callers that want no durability at all.
package memstore

import (
	"sync"

	"github.com/rajatkb/viscache/store"
)

// Store is a map-backed store.Adapter with an optional byte quota.
// A zero Store has no quota and never fails with ErrQuotaExceeded.
type Store struct {
	mu       sync.Mutex
	data     map[string]string
	quota    int64 // total bytes of keys+values allowed; 0 = unbounded
	disabled bool
}

// New returns an unbounded in-memory store.
func New() *Store {
	return &Store{data: make(map[string]string)}
}

// NewQuota returns an in-memory store that fails Set with
// ErrQuotaExceeded once len(key)+len(value) summed over all entries
// would exceed quotaBytes. It exists to let tests exercise the
// eviction engine against a StoreAdapter that behaves like the real
// browser quota, without depending on a real browser.
func NewQuota(quotaBytes int64) *Store {
	return &Store{data: make(map[string]string), quota: quotaBytes}
}

// Disable makes every subsequent call fail with ErrDisabled, modeling
// a browser session where the store is unavailable.
func (s *Store) Disable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disabled = true
}

func (s *Store) size() int64 {
	var n int64
	for k, v := range s.data {
		n += int64(len(k) + len(v))
	}
	return n
}

func (s *Store) Get(rawKey string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disabled {
		return "", false, store.ErrDisabled
	}
	v, ok := s.data[rawKey]
	return v, ok, nil
}

func (s *Store) Set(rawKey, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disabled {
		return store.ErrDisabled
	}
	if s.quota > 0 {
		var existing int64
		if old, ok := s.data[rawKey]; ok {
			existing = int64(len(rawKey) + len(old))
		}
		projected := s.size() - existing + int64(len(rawKey)+len(value))
		if projected > s.quota {
			return store.ErrQuotaExceeded
		}
	}
	s.data[rawKey] = value
	return nil
}

func (s *Store) Remove(rawKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disabled {
		return store.ErrDisabled
	}
	delete(s.data, rawKey)
	return nil
}

func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disabled {
		return store.ErrDisabled
	}
	s.data = make(map[string]string)
	return nil
}

func (s *Store) Keys() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disabled {
		return nil, store.ErrDisabled
	}
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys, nil
}
