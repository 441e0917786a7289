package store

import (
	"context"
	"encoding/json"

	"github.com/streetpass/streetpass/internal/domain"
	"github.com/streetpass/streetpass/internal/logger"
)

// SettingsStore persists user settings in their own slot.
type SettingsStore struct {
	store *Store[domain.Settings]
}

// NewSettings builds the settings store over slot.
func NewSettings(slot Slot, log logger.Logger) *SettingsStore {
	parse := func(raw []byte) domain.Settings {
		var settings domain.Settings
		if len(raw) == 0 {
			return settings
		}
		if err := json.Unmarshal(raw, &settings); err != nil {
			return domain.Settings{}
		}
		return settings
	}
	serialize := func(settings domain.Settings) ([]byte, error) {
		return json.Marshal(settings)
	}
	return &SettingsStore{store: NewStore(slot, parse, serialize, nil, log)}
}

// Get reads the current settings.
func (s *SettingsStore) Get(ctx context.Context) domain.Settings {
	return s.store.Access(ctx, nil)
}

// Put replaces the settings.
func (s *SettingsStore) Put(ctx context.Context, settings domain.Settings) domain.Settings {
	return s.store.Access(ctx, func(domain.Settings) (domain.Settings, bool) {
		return settings, true
	})
}
