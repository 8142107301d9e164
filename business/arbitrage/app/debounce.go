package app

import (
	"sync"
	"time"

	"github.com/solarb/solana-arb-bot/internal/token"
)

// DebounceScheduler coalesces bursts of work per asset: scheduling
// while a timer is pending resets it, so the task runs once after the
// burst quiets down.
type DebounceScheduler struct {
	mu     sync.Mutex
	timers map[token.Mint]*time.Timer
}

// NewDebounceScheduler creates an empty scheduler.
func NewDebounceScheduler() *DebounceScheduler {
	return &DebounceScheduler{
		timers: make(map[token.Mint]*time.Timer),
	}
}

// Schedule runs task after delay, replacing any pending timer for the
// same asset. The task runs on the timer goroutine.
func (d *DebounceScheduler) Schedule(asset token.Mint, delay time.Duration, task func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t, ok := d.timers[asset]; ok {
		t.Stop()
	}

	d.timers[asset] = time.AfterFunc(delay, func() {
		d.mu.Lock()
		delete(d.timers, asset)
		d.mu.Unlock()
		task()
	})
}

// Cancel drops the asset's pending timer, if any. Safe to call for
// assets with nothing pending.
func (d *DebounceScheduler) Cancel(asset token.Mint) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t, ok := d.timers[asset]; ok {
		t.Stop()
		delete(d.timers, asset)
	}
}

// CancelAll drops every pending timer.
func (d *DebounceScheduler) CancelAll() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for asset, t := range d.timers {
		t.Stop()
		delete(d.timers, asset)
	}
}

// Pending returns the number of assets with a timer outstanding.
func (d *DebounceScheduler) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.timers)
}
