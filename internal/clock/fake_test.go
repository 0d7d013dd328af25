package clock

import (
	"testing"
	"time"
)

func TestFakeAfterFuncFiresOnAdvance(t *testing.T) {
	clk := NewFake(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	fired := 0
	clk.AfterFunc(2*time.Second, func() { fired++ })

	clk.Advance(time.Second)
	if fired != 0 {
		t.Fatal("timer fired before its deadline")
	}

	clk.Advance(time.Second)
	if fired != 1 {
		t.Fatalf("expected timer to fire once, fired %d times", fired)
	}

	clk.Advance(10 * time.Second)
	if fired != 1 {
		t.Fatalf("timer fired again: %d", fired)
	}
}

func TestFakeAfterFuncStop(t *testing.T) {
	clk := NewFake(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	fired := false
	timer := clk.AfterFunc(time.Second, func() { fired = true })
	if !timer.Stop() {
		t.Fatal("expected Stop to report the timer as active")
	}

	clk.Advance(5 * time.Second)
	if fired {
		t.Fatal("stopped timer still fired")
	}
}

func TestFakeTickerDeliversDueTicks(t *testing.T) {
	clk := NewFake(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	ticker := clk.NewTicker(time.Minute)
	defer ticker.Stop()

	clk.Advance(30 * time.Second)
	select {
	case <-ticker.C():
		t.Fatal("tick delivered before the interval elapsed")
	default:
	}

	clk.Advance(30 * time.Second)
	select {
	case <-ticker.C():
	default:
		t.Fatal("expected a tick after the interval elapsed")
	}
}
