package app

import (
	"sync"
	"time"

	"github.com/solarb/solana-arb-bot/internal/token"
)

// ExecutionGate serializes trade execution per asset. TryAcquire wins
// at most once until Release, and Release keeps the asset locked for a
// cooldown before it becomes acquirable again.
type ExecutionGate struct {
	cooldown time.Duration

	mu     sync.Mutex
	held   map[token.Mint]struct{}
	timers map[token.Mint]*time.Timer
}

// NewExecutionGate creates a gate with the given post-trade cooldown.
func NewExecutionGate(cooldown time.Duration) *ExecutionGate {
	return &ExecutionGate{
		cooldown: cooldown,
		held:     make(map[token.Mint]struct{}),
		timers:   make(map[token.Mint]*time.Timer),
	}
}

// TryAcquire attempts to claim the asset for execution. Exactly one
// concurrent caller wins; everyone else gets false until the claim is
// released and its cooldown has passed.
func (g *ExecutionGate) TryAcquire(asset token.Mint) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.held[asset]; ok {
		return false
	}
	g.held[asset] = struct{}{}
	return true
}

// Release starts the asset's cooldown. The asset stays unacquirable
// until the cooldown expires. Idempotent: releasing an unheld asset or
// releasing twice is a no-op.
func (g *ExecutionGate) Release(asset token.Mint) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.held[asset]; !ok {
		return
	}
	if _, ok := g.timers[asset]; ok {
		// Cooldown already running.
		return
	}

	g.timers[asset] = time.AfterFunc(g.cooldown, func() {
		g.mu.Lock()
		delete(g.held, asset)
		delete(g.timers, asset)
		g.mu.Unlock()
	})
}

// Held reports whether the asset is currently claimed or cooling down.
func (g *ExecutionGate) Held(asset token.Mint) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.held[asset]
	return ok
}

// Close stops all cooldown timers.
func (g *ExecutionGate) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	for asset, t := range g.timers {
		t.Stop()
		delete(g.timers, asset)
		delete(g.held, asset)
	}
}
