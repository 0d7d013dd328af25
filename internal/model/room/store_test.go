package room

import (
	"testing"
	"time"

	"github.com/luokai/emberroom/backend/internal/clock"
)

func newTestStore() (*Store, *clock.Fake) {
	clk := clock.NewFake(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	return NewStore(clk), clk
}

func TestCreateGeneratesDistinctCodes(t *testing.T) {
	store, _ := newTestStore()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		rm := store.Create()
		if len(rm.Code) != codeLength {
			t.Fatalf("unexpected code length: %q", rm.Code)
		}
		if seen[rm.Code] {
			t.Fatalf("duplicate code generated: %s", rm.Code)
		}
		seen[rm.Code] = true
		if !store.Exists(rm.Code) {
			t.Fatalf("created room %s not found in store", rm.Code)
		}
	}

	if store.Len() != 50 {
		t.Fatalf("expected 50 live rooms, got %d", store.Len())
	}
}

func TestCreateInitializesTimestamps(t *testing.T) {
	store, clk := newTestStore()

	rm := store.Create()
	if !rm.CreatedAt.Equal(clk.Now()) {
		t.Fatalf("createdAt mismatch: got %v want %v", rm.CreatedAt, clk.Now())
	}
	if !rm.LastActivity().Equal(clk.Now()) {
		t.Fatalf("lastActivity mismatch: got %v", rm.LastActivity())
	}
	if rm.Status() != StatusActive {
		t.Fatalf("new room should be active, got %s", rm.Status())
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	store, _ := newTestStore()

	rm := store.Create()
	store.Remove(rm.Code)
	if store.Exists(rm.Code) {
		t.Fatalf("room still exists after remove")
	}
	store.Remove(rm.Code)
	store.Remove("NOSUCH")
}

func TestGetMissingRoom(t *testing.T) {
	store, _ := newTestStore()

	if _, ok := store.Get("NOSUCH"); ok {
		t.Fatal("expected lookup miss for unknown code")
	}
}
