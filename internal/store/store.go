package store

import (
	"context"
	"sync"

	"github.com/streetpass/streetpass/internal/logger"
)

// Mutator inspects a freshly-loaded snapshot and optionally produces the
// next state. Returning mutate=false makes the cycle a pure read. The
// snapshot must be treated as read-only; produce a copy instead of
// modifying it in place.
type Mutator[T any] func(snapshot T) (next T, mutate bool)

// ChangeHook runs after every successful mutation with the state before
// and after. It executes inside the serialized cycle: the next accessor
// call does not begin until the hook returns.
type ChangeHook[T any] func(ctx context.Context, prev, curr T)

// Store serializes every read-modify-write cycle against one durable slot.
// The underlying Slot has no compare-and-swap, so the store linearizes
// cycles itself: the mutex is held across the whole
// load -> mutate -> persist -> notify sequence, which is what prevents two
// concurrent discovery events from reading stale snapshots and overwriting
// each other's updates.
//
// State is loaded fresh from the slot at the start of every cycle; nothing
// is cached across calls.
type Store[T any] struct {
	mu        sync.Mutex
	slot      Slot
	parse     func([]byte) T
	serialize func(T) ([]byte, error)
	onChange  ChangeHook[T]
	log       logger.Logger
}

// NewStore builds a store over slot. parse must return the empty state for
// nil or unparseable input; a corrupted persisted blob is treated as
// "empty", never as fatal.
func NewStore[T any](
	slot Slot,
	parse func([]byte) T,
	serialize func(T) ([]byte, error),
	onChange ChangeHook[T],
	log logger.Logger,
) *Store[T] {
	return &Store[T]{
		slot:      slot,
		parse:     parse,
		serialize: serialize,
		onChange:  onChange,
		log:       log,
	}
}

// Access runs one serialized cycle and returns the resulting state. A nil
// mutator reads. Errors during persistence resolve to the pre-mutation
// state rather than propagating; callers that need mutation confirmation
// must compare the returned state.
func (s *Store[T]) Access(ctx context.Context, mutate Mutator[T]) T {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.slot.Get(ctx)
	if err != nil {
		s.log.Warn("slot read failed, treating as empty", logger.Error(err))
		raw = nil
	}
	state := s.parse(raw)

	if mutate == nil {
		return state
	}

	next, ok := mutate(state)
	if !ok {
		return state
	}

	data, err := s.serialize(next)
	if err != nil {
		s.log.Error("state serialization failed, keeping previous state", logger.Error(err))
		return state
	}
	if err := s.slot.Set(ctx, data); err != nil {
		s.log.Error("slot write failed, keeping previous state", logger.Error(err))
		return state
	}

	if s.onChange != nil {
		// Re-parse the raw bytes so the hook sees the pre-mutation state
		// even if the mutator aliased its snapshot.
		s.onChange(ctx, s.parse(raw), next)
	}

	return next
}
