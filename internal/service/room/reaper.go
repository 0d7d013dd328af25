package room

import (
	"context"
	"log"
	"time"

	"github.com/luokai/emberroom/backend/internal/clock"
	"github.com/luokai/emberroom/backend/internal/model/room"
)

// Reaper periodically evicts rooms that have been idle past the threshold.
// It is the only component allowed to destroy a room without a user action.
type Reaper struct {
	store    *room.Store
	interval time.Duration
	maxIdle  time.Duration
	clock    clock.Clock
}

// NewReaper builds a reaper scanning every interval for rooms idle longer
// than maxIdle.
func NewReaper(store *room.Store, interval, maxIdle time.Duration, clk clock.Clock) *Reaper {
	return &Reaper{
		store:    store,
		interval: interval,
		maxIdle:  maxIdle,
		clock:    clk,
	}
}

// Run scans until ctx is cancelled. Safe to run alongside normal room
// operations; store access is serialized by the store itself.
func (r *Reaper) Run(ctx context.Context) {
	ticker := r.clock.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			if n := r.reapOnce(); n > 0 {
				log.Printf("[reaper] removed %d idle rooms", n)
			}
		}
	}
}

func (r *Reaper) reapOnce() int {
	cutoff := r.clock.Now().Add(-r.maxIdle)
	reaped := 0
	for _, rm := range r.store.Rooms() {
		if rm.LastActivity().Before(cutoff) {
			r.store.Remove(rm.Code)
			reaped++
		}
	}
	return reaped
}
