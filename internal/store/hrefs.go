package store

import (
	"context"
	"encoding/json"

	"github.com/streetpass/streetpass/internal/domain"
	"github.com/streetpass/streetpass/internal/logger"
)

// Hrefs is the single owner of all discovery records. Every component
// reads or mutates them through Access; no component keeps a private copy
// across cycles.
type Hrefs struct {
	store *Store[*domain.HrefMap]
}

// NewHrefs builds the href store over slot. When icon is non-nil, every
// mutation that grows the visible profile count turns the icon on and
// bumps its unread counter; the notification runs inside the serialized
// cycle, so its ordering matches mutation ordering.
func NewHrefs(slot Slot, icon *Icon, log logger.Logger) *Hrefs {
	var onChange ChangeHook[*domain.HrefMap]
	if icon != nil {
		onChange = func(ctx context.Context, prev, curr *domain.HrefMap) {
			grown := domain.CountProfiles(curr) - domain.CountProfiles(prev)
			if grown <= 0 {
				return
			}
			icon.Access(ctx, func(state domain.IconState) (domain.IconState, bool) {
				return domain.IconState{
					State:       "on",
					UnreadCount: state.UnreadCount + grown,
				}, true
			})
		}
	}

	return &Hrefs{
		store: NewStore(slot, parseHrefMap, serializeHrefMap, onChange, log),
	}
}

func parseHrefMap(raw []byte) *domain.HrefMap {
	m := domain.NewHrefMap()
	if len(raw) == 0 {
		return m
	}
	if err := json.Unmarshal(raw, m); err != nil {
		return domain.NewHrefMap()
	}
	return m
}

func serializeHrefMap(m *domain.HrefMap) ([]byte, error) {
	return json.Marshal(m)
}

// Access runs one serialized cycle. See Store.Access.
func (h *Hrefs) Access(ctx context.Context, mutate Mutator[*domain.HrefMap]) *domain.HrefMap {
	return h.store.Access(ctx, mutate)
}

// Snapshot reads the current state.
func (h *Hrefs) Snapshot(ctx context.Context) *domain.HrefMap {
	return h.store.Access(ctx, nil)
}

// Reset replaces the store with the empty mapping. The only way records
// are destroyed outside expiry.
func (h *Hrefs) Reset(ctx context.Context) {
	h.store.Access(ctx, func(*domain.HrefMap) (*domain.HrefMap, bool) {
		return domain.NewHrefMap(), true
	})
}
