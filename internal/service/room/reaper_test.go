package room

import (
	"context"
	"testing"
	"time"

	"github.com/luokai/emberroom/backend/internal/clock"
	"github.com/luokai/emberroom/backend/internal/model/room"
)

func TestReapOnceRemovesIdleRooms(t *testing.T) {
	clk := clock.NewFake(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	store := room.NewStore(clk)
	reaper := NewReaper(store, 5*time.Minute, 30*time.Minute, clk)

	idle := store.Create()
	active := store.Create()

	clk.Advance(31 * time.Minute)
	active.AddParticipant(room.Participant{ConnID: "c1", Name: "Alice"}, clk.Now())

	if n := reaper.reapOnce(); n != 1 {
		t.Fatalf("expected 1 reaped room, got %d", n)
	}
	if store.Exists(idle.Code) {
		t.Fatal("idle room survived the reap")
	}
	if !store.Exists(active.Code) {
		t.Fatal("recently active room was reaped")
	}
}

func TestReapOnceBelowThreshold(t *testing.T) {
	clk := clock.NewFake(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	store := room.NewStore(clk)
	reaper := NewReaper(store, 5*time.Minute, 30*time.Minute, clk)

	rm := store.Create()
	clk.Advance(29 * time.Minute)

	if n := reaper.reapOnce(); n != 0 {
		t.Fatalf("expected nothing reaped, got %d", n)
	}
	if !store.Exists(rm.Code) {
		t.Fatal("room reaped before the inactivity threshold")
	}
}

func TestRunReapsOnTick(t *testing.T) {
	clk := clock.NewFake(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	store := room.NewStore(clk)
	reaper := NewReaper(store, 5*time.Minute, 30*time.Minute, clk)

	rm := store.Create()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go reaper.Run(ctx)

	// Give the run loop a moment to create its ticker before advancing.
	time.Sleep(10 * time.Millisecond)
	clk.Advance(35 * time.Minute)

	deadline := time.Now().Add(2 * time.Second)
	for store.Exists(rm.Code) {
		if time.Now().After(deadline) {
			t.Fatal("idle room not reaped after a tick")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
