// Package audit stores content-addressed records of moves and finished games
// so any observer can verify a game after the fact.
package audit

import (
	"context"
	"errors"
	"sync"

	"liars-server/pkg/commit"
)

// ErrNotFound is returned when no record exists for an ID
var ErrNotFound = errors.New("audit record not found")

// ErrCorrupt is returned when stored content no longer hashes to its ID
var ErrCorrupt = errors.New("audit record does not match its id")

// ID is the 0x-prefixed Keccak-256 hash of a record's content
type ID string

// ContentID returns the ID content is stored under
func ContentID(content []byte) ID {
	return ID(commit.Hash(content).String())
}

// Verify returns true if content hashes to the ID
func (id ID) Verify(content []byte) bool {
	d, err := commit.Parse(string(id))
	if err != nil {
		return false
	}

	return d.Matches(content)
}

// Store is a write-once content-addressed store
type Store interface {
	// Put stores content and returns its ID. Storing the same content twice is not an error.
	Put(ctx context.Context, content []byte) (ID, error)

	// Get returns the content stored under the ID
	Get(ctx context.Context, id ID) ([]byte, error)
}

// Memory is a Store kept in process memory
type Memory struct {
	mu      sync.RWMutex
	records map[ID][]byte
}

// NewMemory returns an empty in-memory store
func NewMemory() *Memory {
	return &Memory{
		records: make(map[ID][]byte),
	}
}

// Put stores the content
func (m *Memory) Put(_ context.Context, content []byte) (ID, error) {
	id := ContentID(content)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, found := m.records[id]; !found {
		b := make([]byte, len(content))
		copy(b, content)
		m.records[id] = b
	}

	return id, nil
}

// Get returns the content
func (m *Memory) Get(_ context.Context, id ID) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	content, found := m.records[id]
	if !found {
		return nil, ErrNotFound
	}

	b := make([]byte, len(content))
	copy(b, content)
	return b, nil
}

// Len returns the number of stored records
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.records)
}
