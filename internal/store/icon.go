package store

import (
	"context"
	"encoding/json"

	"github.com/streetpass/streetpass/internal/domain"
	"github.com/streetpass/streetpass/internal/logger"
)

// Icon holds the process-wide UI affordance state in its own slot. It is
// independent of the href store; the two never cross-lock, only the
// one-way change notification links them.
type Icon struct {
	store *Store[domain.IconState]
}

// NewIcon builds the icon store over slot.
func NewIcon(slot Slot, log logger.Logger) *Icon {
	parse := func(raw []byte) domain.IconState {
		if len(raw) == 0 {
			return domain.IconOff()
		}
		var state domain.IconState
		if err := json.Unmarshal(raw, &state); err != nil || state.State == "" {
			return domain.IconOff()
		}
		return state
	}
	serialize := func(state domain.IconState) ([]byte, error) {
		return json.Marshal(state)
	}
	return &Icon{store: NewStore(slot, parse, serialize, nil, log)}
}

// Access runs one serialized cycle. See Store.Access.
func (i *Icon) Access(ctx context.Context, mutate Mutator[domain.IconState]) domain.IconState {
	return i.store.Access(ctx, mutate)
}

// State reads the current icon state.
func (i *Icon) State(ctx context.Context) domain.IconState {
	return i.store.Access(ctx, nil)
}

// ClearUnread zeroes the unread counter, keeping the on/off state. Called
// when the user opens the profile list.
func (i *Icon) ClearUnread(ctx context.Context) domain.IconState {
	return i.store.Access(ctx, func(state domain.IconState) (domain.IconState, bool) {
		state.UnreadCount = 0
		return state, true
	})
}
