package blobstore

import (
	"bytes"
	"context"
	"maps"
	"slices"
	"strings"
	"sync"
)

// MemoryStore keeps blobs in process memory. It backs tests and small
// in-process pipelines, and counts writes per name so callers can check
// that an output was stored exactly once.
type MemoryStore struct {
	mu     sync.RWMutex
	blobs  map[string][]byte
	writes map[string]int
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		blobs:  make(map[string][]byte),
		writes: make(map[string]int),
	}
}

// Open returns a handle on the current content of name.
func (s *MemoryStore) Open(ctx context.Context, name string) (Blob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	data, ok := s.blobs[name]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	// Stored slices are never mutated, so handles share them.
	return &memoryBlob{Reader: bytes.NewReader(data), data: data}, nil
}

// Put stores a copy of data under name.
func (s *MemoryStore) Put(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.blobs[name] = slices.Clone(data)
	s.writes[name]++
	return nil
}

// Delete removes name. The write count is kept.
func (s *MemoryStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.blobs, name)
	return nil
}

// List returns the sorted names starting with prefix.
func (s *MemoryStore) List(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var names []string
	for _, name := range slices.Sorted(maps.Keys(s.blobs)) {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	return names, nil
}

// Writes returns how many times name has been put.
func (s *MemoryStore) Writes(name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.writes[name]
}

type memoryBlob struct {
	*bytes.Reader
	data []byte
}

func (b *memoryBlob) Close() error { return nil }

func (b *memoryBlob) Bytes() ([]byte, error) { return b.data, nil }

var (
	_ BlobStore = (*MemoryStore)(nil)
	_ Mappable  = (*memoryBlob)(nil)
)
