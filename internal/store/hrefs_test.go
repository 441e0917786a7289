package store

import (
	"context"
	"testing"

	"github.com/streetpass/streetpass/internal/domain"
)

func TestIconTurnsOnWhenProfileCountGrows(t *testing.T) {
	ctx := context.Background()
	icon := NewIcon(NewMemorySlot(), testLogger())
	hrefs := NewHrefs(NewMemorySlot(), icon, testLogger())

	if state := icon.State(ctx); state.State != "off" {
		t.Fatalf("initial icon state = %q, want off", state.State)
	}

	insert(ctx, hrefs, record("https://ex.example/@a", 1))
	insert(ctx, hrefs, record("https://ex.example/@b", 2))

	state := icon.State(ctx)
	if state.State != "on" {
		t.Errorf("icon state = %q, want on", state.State)
	}
	if state.UnreadCount != 2 {
		t.Errorf("unread count = %d, want 2", state.UnreadCount)
	}
}

func TestIconIgnoresNonGrowingMutations(t *testing.T) {
	ctx := context.Background()
	icon := NewIcon(NewMemorySlot(), testLogger())
	hrefs := NewHrefs(NewMemorySlot(), icon, testLogger())

	// NotProfile records don't count as profiles.
	hrefs.Access(ctx, func(prev *domain.HrefMap) (*domain.HrefMap, bool) {
		next := prev.Clone()
		next.Set(domain.HrefData{
			RelMeHref:   "https://ex.example/page",
			ProfileData: domain.NotProfile(),
			ViewedAt:    1,
		})
		return next, true
	})

	if state := icon.State(ctx); state.State != "off" || state.UnreadCount != 0 {
		t.Errorf("icon reacted to a NotProfile insert: %+v", state)
	}

	// Deleting profiles must not decrement anything either.
	insert(ctx, hrefs, record("https://ex.example/@a", 2))
	hrefs.Reset(ctx)

	if state := icon.State(ctx); state.UnreadCount != 1 {
		t.Errorf("unread count after reset = %d, want 1", state.UnreadCount)
	}
}

func TestIconClearUnread(t *testing.T) {
	ctx := context.Background()
	icon := NewIcon(NewMemorySlot(), testLogger())
	hrefs := NewHrefs(NewMemorySlot(), icon, testLogger())

	insert(ctx, hrefs, record("https://ex.example/@a", 1))

	state := icon.ClearUnread(ctx)
	if state.State != "on" {
		t.Errorf("clearing unread changed on/off state to %q", state.State)
	}
	if state.UnreadCount != 0 {
		t.Errorf("unread count = %d, want 0", state.UnreadCount)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	ctx := context.Background()
	settings := NewSettings(NewMemorySlot(), testLogger())

	if got := settings.Get(ctx); got != (domain.Settings{}) {
		t.Fatalf("initial settings = %+v, want zero", got)
	}

	want := domain.Settings{
		ProfileURLScheme:    "https://ex.example/@{account}",
		HideProfilesOnClick: true,
	}
	settings.Put(ctx, want)

	if got := settings.Get(ctx); got != want {
		t.Errorf("settings = %+v, want %+v", got, want)
	}
}
