package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/streetpass/streetpass/internal/domain"
	"github.com/streetpass/streetpass/internal/logger"
)

func testLogger() logger.Logger {
	return logger.New("error", false)
}

// failingSlot wraps a slot and fails writes on demand.
type failingSlot struct {
	inner     Slot
	failWrite bool
}

func (s *failingSlot) Get(ctx context.Context) ([]byte, error) {
	return s.inner.Get(ctx)
}

func (s *failingSlot) Set(ctx context.Context, value []byte) error {
	if s.failWrite {
		return errors.New("write refused")
	}
	return s.inner.Set(ctx, value)
}

func record(href string, viewedAt int64) domain.HrefData {
	return domain.HrefData{
		RelMeHref:   href,
		ProfileData: domain.ProfileData{Type: domain.KindProfile, ProfileURL: href},
		WebsiteURL:  "https://site.example",
		ViewedAt:    viewedAt,
	}
}

func insert(ctx context.Context, hrefs *Hrefs, data domain.HrefData) {
	hrefs.Access(ctx, func(prev *domain.HrefMap) (*domain.HrefMap, bool) {
		next := prev.Clone()
		next.Set(data)
		return next, true
	})
}

func TestHrefsConcurrentInsertsLoseNothing(t *testing.T) {
	ctx := context.Background()
	hrefs := NewHrefs(NewMemorySlot(), nil, testLogger())

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			insert(ctx, hrefs, record(fmt.Sprintf("https://ex.example/@user%d", i), int64(i)))
		}(i)
	}
	wg.Wait()

	snapshot := hrefs.Snapshot(ctx)
	if snapshot.Len() != n {
		t.Fatalf("expected %d records after concurrent inserts, got %d", n, snapshot.Len())
	}
	for i := 0; i < n; i++ {
		href := fmt.Sprintf("https://ex.example/@user%d", i)
		if !snapshot.Has(href) {
			t.Errorf("record %q lost", href)
		}
	}
}

func TestHrefsReloadsFromSlotEveryCycle(t *testing.T) {
	ctx := context.Background()
	slot := NewMemorySlot()

	// Two store instances over the same slot: a write through one must be
	// visible to the other, proving state is never cached across cycles.
	first := NewHrefs(slot, nil, testLogger())
	second := NewHrefs(slot, nil, testLogger())

	insert(ctx, first, record("https://ex.example/@a", 1))

	if !second.Snapshot(ctx).Has("https://ex.example/@a") {
		t.Error("second store did not observe write made through first store")
	}
}

func TestHrefsCorruptedBlobTreatedAsEmpty(t *testing.T) {
	ctx := context.Background()
	slot := NewMemorySlot()
	if err := slot.Set(ctx, []byte("{{{ not json")); err != nil {
		t.Fatalf("seeding slot failed: %v", err)
	}

	hrefs := NewHrefs(slot, nil, testLogger())
	snapshot := hrefs.Snapshot(ctx)
	if snapshot.Len() != 0 {
		t.Errorf("corrupted blob should parse as empty, got %d records", snapshot.Len())
	}

	// And the store must still accept writes afterwards.
	insert(ctx, hrefs, record("https://ex.example/@a", 1))
	if hrefs.Snapshot(ctx).Len() != 1 {
		t.Error("store unusable after corrupted blob")
	}
}

func TestAccessResolvesToPreviousStateOnWriteFailure(t *testing.T) {
	ctx := context.Background()
	slot := &failingSlot{inner: NewMemorySlot()}
	hrefs := NewHrefs(slot, nil, testLogger())

	insert(ctx, hrefs, record("https://ex.example/@a", 1))

	slot.failWrite = true
	result := hrefs.Access(ctx, func(prev *domain.HrefMap) (*domain.HrefMap, bool) {
		next := prev.Clone()
		next.Set(record("https://ex.example/@b", 2))
		return next, true
	})

	// The call resolves without panicking, but with the pre-mutation
	// state; the caller sees the mutation did not take.
	if result.Has("https://ex.example/@b") {
		t.Error("failed write must not surface the mutated state")
	}
	if !result.Has("https://ex.example/@a") {
		t.Error("previous state lost on write failure")
	}

	slot.failWrite = false
	if hrefs.Snapshot(ctx).Has("https://ex.example/@b") {
		t.Error("failed write leaked into the slot")
	}
}

func TestAccessNilMutatorIsPureRead(t *testing.T) {
	ctx := context.Background()
	slot := &failingSlot{inner: NewMemorySlot(), failWrite: true}
	hrefs := NewHrefs(slot, nil, testLogger())

	// A read never writes: with writes failing hard, Snapshot still works.
	if got := hrefs.Snapshot(ctx).Len(); got != 0 {
		t.Errorf("expected empty snapshot, got %d records", got)
	}
}

func TestAccessMutatorDeclineLeavesStateAlone(t *testing.T) {
	ctx := context.Background()
	hrefs := NewHrefs(NewMemorySlot(), nil, testLogger())
	insert(ctx, hrefs, record("https://ex.example/@a", 1))

	result := hrefs.Access(ctx, func(prev *domain.HrefMap) (*domain.HrefMap, bool) {
		return nil, false
	})

	if result.Len() != 1 {
		t.Errorf("declined mutation changed state: %d records", result.Len())
	}
}
