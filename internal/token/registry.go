package token

import (
	"fmt"
	"sync"
)

// Registry is a thread-safe registry of known tokens.
type Registry struct {
	byMint   map[Mint]*Token
	bySymbol map[string]*Token
	mu       sync.RWMutex
}

// NewRegistry creates a new empty token registry.
func NewRegistry() *Registry {
	return &Registry{
		byMint:   make(map[Mint]*Token),
		bySymbol: make(map[string]*Token),
	}
}

// Register adds a token to the registry.
// Panics if a token with the same mint is already registered.
func (r *Registry) Register(t *Token) {
	if t == nil {
		panic("token: cannot register nil token")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byMint[t.mint]; exists {
		panic(fmt.Sprintf("token: %s already registered", t.mint))
	}

	r.byMint[t.mint] = t
	if t.symbol != "" {
		r.bySymbol[t.symbol] = t
	}
}

// Get retrieves a token by its mint address.
func (r *Registry) Get(mint Mint) (*Token, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byMint[mint]
	return t, ok
}

// MustGet retrieves a token by its mint address, panics if not found.
func (r *Registry) MustGet(mint Mint) *Token {
	t, ok := r.Get(mint)
	if !ok {
		panic(fmt.Sprintf("token: %s not found in registry", mint))
	}
	return t
}

// GetBySymbol retrieves a token by its ticker symbol.
func (r *Registry) GetBySymbol(symbol string) (*Token, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.bySymbol[symbol]
	return t, ok
}

// DisplayName returns the symbol for a known mint, or the short mint
// form for unknown ones.
func (r *Registry) DisplayName(mint Mint) string {
	if t, ok := r.Get(mint); ok {
		return t.Symbol()
	}
	return mint.Short()
}

// All returns all registered tokens.
func (r *Registry) All() []*Token {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Token, 0, len(r.byMint))
	for _, t := range r.byMint {
		result = append(result, t)
	}
	return result
}

// Count returns the number of registered tokens.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byMint)
}

// Has returns true if a token with the given mint is registered.
func (r *Registry) Has(mint Mint) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byMint[mint]
	return ok
}
