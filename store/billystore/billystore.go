// Package billystore is a go-billy-backed store.Adapter: one
// checksummed blob holding the whole key/value namespace, written
// through billy.Filesystem so the same code serves a real local
// directory (osfs) or an in-memory filesystem (memfs) for tests.
//
// This is the "file" and "IndexedDB-emulation" pluggable backends
// spec.md §9 calls for; the checksum technique (CRC32 over the
// buffer, stored as a 4-byte big-endian prefix) is adapted from the
// teacher's utils/checksums/utils.go.
package billystore

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"io"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/rajatkb/viscache/store"
)

const checksumSize = 4

// Store is a single-file store.Adapter. The whole namespace lives in
// one blob at path; every Set, every Clear, and every Remove of a
// present key rewrites it.
type Store struct {
	mu       sync.Mutex
	fs       billy.Filesystem
	path     string
	quota    int64 // max blob byte size on disk; 0 = unbounded
	disabled bool
}

// NewLocal opens (or creates) a checksummed blob at path on the local
// filesystem, rooted at root, via go-billy's osfs.
func NewLocal(root, path string, quotaBytes int64) *Store {
	return &Store{fs: osfs.New(root), path: path, quota: quotaBytes}
}

// NewMemory creates an in-memory filesystem (go-billy's memfs) backed
// store, useful for tests that want the real blob-encode/decode and
// checksum path without touching disk.
func NewMemory(path string, quotaBytes int64) *Store {
	return &Store{fs: memfs.New(), path: path, quota: quotaBytes}
}

func calculateCRC(checksumLocation, buffer []byte) {
	sum := crc32.ChecksumIEEE(buffer)
	binary.BigEndian.PutUint32(checksumLocation, sum)
}

func compareCRC(a, b []byte) bool {
	return a[0] == b[0] && a[1] == b[1] && a[2] == b[2] && a[3] == b[3]
}

// load reads and validates the blob, returning an empty map if the
// file is absent, truncated, or fails its checksum — external
// corruption is treated as "nothing here", never surfaced.
func (s *Store) load() (map[string]string, error) {
	f, err := s.fs.Open(s.path)
	if err != nil {
		return map[string]string{}, nil
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil || len(raw) < checksumSize {
		return map[string]string{}, nil
	}

	want := raw[:checksumSize]
	body := raw[checksumSize:]
	got := make([]byte, checksumSize)
	calculateCRC(got, body)
	if !compareCRC(want, got) {
		return map[string]string{}, nil
	}

	data := make(map[string]string)
	if err := json.Unmarshal(body, &data); err != nil {
		return map[string]string{}, nil
	}
	return data, nil
}

func (s *Store) save(data map[string]string) error {
	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("billystore: encode blob: %w", store.ErrDisabled)
	}
	if s.quota > 0 && int64(len(body)+checksumSize) > s.quota {
		return store.ErrQuotaExceeded
	}

	blob := make([]byte, checksumSize+len(body))
	copy(blob[checksumSize:], body)
	calculateCRC(blob[:checksumSize], body)

	f, err := s.fs.Create(s.path)
	if err != nil {
		return fmt.Errorf("billystore: create blob: %w", store.ErrDisabled)
	}
	defer f.Close()
	if _, err := f.Write(blob); err != nil {
		return fmt.Errorf("billystore: write blob: %w", store.ErrDisabled)
	}
	return nil
}

func (s *Store) Get(rawKey string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disabled {
		return "", false, store.ErrDisabled
	}
	data, err := s.load()
	if err != nil {
		return "", false, store.ErrDisabled
	}
	v, ok := data[rawKey]
	return v, ok, nil
}

func (s *Store) Set(rawKey, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disabled {
		return store.ErrDisabled
	}
	data, err := s.load()
	if err != nil {
		return store.ErrDisabled
	}
	data[rawKey] = value
	return s.save(data)
}

func (s *Store) Remove(rawKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disabled {
		return store.ErrDisabled
	}
	data, err := s.load()
	if err != nil {
		return store.ErrDisabled
	}
	if _, ok := data[rawKey]; !ok {
		return nil
	}
	delete(data, rawKey)
	return s.save(data)
}

func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disabled {
		return store.ErrDisabled
	}
	return s.save(map[string]string{})
}

func (s *Store) Keys() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disabled {
		return nil, store.ErrDisabled
	}
	data, err := s.load()
	if err != nil {
		return nil, store.ErrDisabled
	}
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	return keys, nil
}

// Disable makes every subsequent call fail with ErrDisabled.
func (s *Store) Disable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disabled = true
}
