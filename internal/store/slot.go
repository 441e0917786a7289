package store

import (
	"context"
	"sync"
)

// Slot is the durable-storage contract the stores persist into: a single
// named value with individually-atomic get and set, and nothing else. No
// compare-and-swap, no transactions. The store accessor adds its own
// serialization on top because this primitive alone is not safe for
// concurrent read-modify-write.
type Slot interface {
	// Get returns the current value, or (nil, nil) when the slot has
	// never been written.
	Get(ctx context.Context) ([]byte, error)

	// Set replaces the current value.
	Set(ctx context.Context, value []byte) error
}

// MemorySlot is an in-process Slot for tests and redis-less development.
type MemorySlot struct {
	mu    sync.Mutex
	value []byte
	set   bool
}

// NewMemorySlot returns an empty in-memory slot.
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{}
}

// Get implements Slot.
func (s *MemorySlot) Get(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set {
		return nil, nil
	}
	value := make([]byte, len(s.value))
	copy(value, s.value)
	return value, nil
}

// Set implements Slot.
func (s *MemorySlot) Set(ctx context.Context, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = make([]byte, len(value))
	copy(s.value, value)
	s.set = true
	return nil
}
