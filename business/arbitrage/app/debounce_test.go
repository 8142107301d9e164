package app

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebounceCoalescesBursts(t *testing.T) {
	d := NewDebounceScheduler()
	defer d.CancelAll()

	var runs atomic.Int32
	for i := 0; i < 5; i++ {
		d.Schedule(mintBonk, 30*time.Millisecond, func() {
			runs.Add(1)
		})
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(80 * time.Millisecond)

	if got := runs.Load(); got != 1 {
		t.Errorf("task ran %d times, want 1", got)
	}
	if d.Pending() != 0 {
		t.Errorf("Pending() = %d after fire, want 0", d.Pending())
	}
}

func TestDebouncePerAssetTimers(t *testing.T) {
	d := NewDebounceScheduler()
	defer d.CancelAll()

	var bonkRuns, jupRuns atomic.Int32
	d.Schedule(mintBonk, 20*time.Millisecond, func() { bonkRuns.Add(1) })
	d.Schedule(mintJup, 20*time.Millisecond, func() { jupRuns.Add(1) })

	if d.Pending() != 2 {
		t.Fatalf("Pending() = %d, want 2", d.Pending())
	}

	time.Sleep(60 * time.Millisecond)

	if bonkRuns.Load() != 1 || jupRuns.Load() != 1 {
		t.Errorf("runs = %d/%d, want 1/1", bonkRuns.Load(), jupRuns.Load())
	}
}

func TestDebounceCancel(t *testing.T) {
	d := NewDebounceScheduler()

	var runs atomic.Int32
	d.Schedule(mintBonk, 20*time.Millisecond, func() { runs.Add(1) })
	d.Cancel(mintBonk)

	// Cancel is idempotent, including for assets never scheduled.
	d.Cancel(mintBonk)
	d.Cancel(mintJup)

	time.Sleep(50 * time.Millisecond)

	if got := runs.Load(); got != 0 {
		t.Errorf("task ran %d times after cancel, want 0", got)
	}
}

func TestDebounceCancelAll(t *testing.T) {
	d := NewDebounceScheduler()

	var runs atomic.Int32
	d.Schedule(mintBonk, 20*time.Millisecond, func() { runs.Add(1) })
	d.Schedule(mintJup, 20*time.Millisecond, func() { runs.Add(1) })
	d.CancelAll()

	time.Sleep(50 * time.Millisecond)

	if got := runs.Load(); got != 0 {
		t.Errorf("tasks ran %d times after CancelAll, want 0", got)
	}
	if d.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", d.Pending())
	}
}
