package app

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestGateSingleWinner(t *testing.T) {
	g := NewExecutionGate(50 * time.Millisecond)
	defer g.Close()

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.TryAcquire(mintBonk) {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	if got := wins.Load(); got != 1 {
		t.Errorf("%d goroutines acquired the gate, want exactly 1", got)
	}
}

func TestGatePerAsset(t *testing.T) {
	g := NewExecutionGate(50 * time.Millisecond)
	defer g.Close()

	if !g.TryAcquire(mintBonk) {
		t.Fatal("first acquire failed")
	}
	if !g.TryAcquire(mintJup) {
		t.Error("acquire on a different asset blocked")
	}
}

func TestGateBlockedWhileHeldAndCoolingDown(t *testing.T) {
	g := NewExecutionGate(40 * time.Millisecond)
	defer g.Close()

	if !g.TryAcquire(mintBonk) {
		t.Fatal("first acquire failed")
	}

	// In flight: blocked.
	if g.TryAcquire(mintBonk) {
		t.Error("acquired while trade in flight")
	}

	g.Release(mintBonk)

	// Cooling down: still blocked.
	if g.TryAcquire(mintBonk) {
		t.Error("acquired during cooldown")
	}
	if !g.Held(mintBonk) {
		t.Error("Held() = false during cooldown")
	}

	time.Sleep(80 * time.Millisecond)

	// Cooldown over: acquirable again.
	if !g.TryAcquire(mintBonk) {
		t.Error("acquire failed after cooldown expired")
	}
}

func TestGateReleaseIdempotent(t *testing.T) {
	g := NewExecutionGate(30 * time.Millisecond)
	defer g.Close()

	// Releasing an unheld asset is a no-op.
	g.Release(mintBonk)
	if g.Held(mintBonk) {
		t.Error("Held() = true after releasing an unheld asset")
	}

	if !g.TryAcquire(mintBonk) {
		t.Fatal("acquire failed")
	}
	g.Release(mintBonk)
	time.Sleep(15 * time.Millisecond)

	// A second release must not restart the cooldown.
	g.Release(mintBonk)
	time.Sleep(25 * time.Millisecond)

	if !g.TryAcquire(mintBonk) {
		t.Error("double release extended the cooldown")
	}
}

func TestGateClose(t *testing.T) {
	g := NewExecutionGate(time.Hour)

	g.TryAcquire(mintBonk)
	g.Release(mintBonk)
	g.Close()

	if g.Held(mintBonk) {
		t.Error("Held() = true after Close")
	}
}
