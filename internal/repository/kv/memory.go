package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// MemoryStore is a process-local Store. When created with a path it loads
// a JSON snapshot at startup and rewrites it after every mutation, which is
// how the command-line client keeps state between invocations.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
	path string
}

// NewMemoryStore creates an empty, non-persistent store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// OpenFileStore loads (or creates) a snapshot-backed store at path.
func OpenFileStore(path string) (*MemoryStore, error) {
	s := &MemoryStore{data: make(map[string][]byte), path: path}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading store file %s: %w", path, err)
	}
	snapshot := map[string]string{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &snapshot); err != nil {
			return nil, fmt.Errorf("parsing store file %s: %w", path, err)
		}
	}
	for k, v := range snapshot {
		s.data[k] = []byte(v)
	}
	log.Printf("INFO: Loaded %d keys from %s", len(s.data), path)
	return s, nil
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitLocked(key, append([]byte(nil), value...), true)
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; !ok {
		return nil
	}
	return s.commitLocked(key, nil, false)
}

// Update holds the store lock for the whole read-modify-write.
func (s *MemoryStore) Update(_ context.Context, key string, fn func([]byte, bool) ([]byte, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.data[key]
	if ok {
		old = append([]byte(nil), old...)
	}
	next, err := fn(old, ok)
	if errors.Is(err, ErrSkipWrite) {
		return nil
	}
	if err != nil {
		return err
	}
	return s.commitLocked(key, append([]byte(nil), next...), true)
}

func (s *MemoryStore) Close() error { return nil }

// commitLocked stores (or, with present=false, removes) key and writes the
// snapshot. When the snapshot cannot be written the previous entry is put
// back, so memory never runs ahead of the file. Caller holds s.mu.
func (s *MemoryStore) commitLocked(key string, value []byte, present bool) error {
	prev, had := s.data[key]
	if present {
		s.data[key] = value
	} else {
		delete(s.data, key)
	}
	if err := s.flushLocked(); err != nil {
		if had {
			s.data[key] = prev
		} else {
			delete(s.data, key)
		}
		return err
	}
	return nil
}

// flushLocked writes the snapshot atomically. Caller holds s.mu.
func (s *MemoryStore) flushLocked() error {
	if s.path == "" {
		return nil
	}
	snapshot := make(map[string]string, len(s.data))
	for k, v := range s.data {
		snapshot[k] = string(v)
	}
	raw, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding store snapshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating store directory: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("writing store snapshot: %w", err)
	}
	return os.Rename(tmp, s.path)
}
