// Package di provides a minimal dependency injection container with
// type-safe tokens and lazy singleton resolution.
package di

import (
	"fmt"
	"sync"
)

// ServiceRegistry provides read access to registered services.
type ServiceRegistry interface {
	Get(name string) any
}

// Container extends ServiceRegistry with registration.
type Container interface {
	ServiceRegistry
	Register(name string, value any)
	RegisterFactory(name string, factory func(ServiceRegistry) any)
}

// Token identifies a service of type T in the container.
type Token[T any] struct {
	name string
}

// NewToken creates a token for a service of type T under the given name.
func NewToken[T any](name string) Token[T] {
	return Token[T]{name: name}
}

// Name returns the token's registry name.
func (t Token[T]) Name() string {
	return t.name
}

// RegisterToken registers a lazy factory for the token's service.
func RegisterToken[T any](c Container, token Token[T], factory func(ServiceRegistry) T) {
	c.RegisterFactory(token.name, func(sr ServiceRegistry) any {
		return factory(sr)
	})
}

// GetToken resolves the token's service, invoking its factory on first use.
// It panics on a missing registration or a type mismatch, both of which are
// wiring bugs.
func GetToken[T any](sr ServiceRegistry, token Token[T]) T {
	v := sr.Get(token.name)
	if v == nil {
		panic(fmt.Sprintf("di: service %q not registered", token.name))
	}
	typed, ok := v.(T)
	if !ok {
		panic(fmt.Sprintf("di: service %q has type %T, not the requested type", token.name, v))
	}
	return typed
}

type container struct {
	mu        sync.Mutex
	instances map[string]any
	factories map[string]func(ServiceRegistry) any
	resolving map[string]bool
}

// NewContainer creates an empty container.
func NewContainer() Container {
	return &container{
		instances: make(map[string]any),
		factories: make(map[string]func(ServiceRegistry) any),
		resolving: make(map[string]bool),
	}
}

// Register stores an already-constructed value under name.
func (c *container) Register(name string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.instances[name] = value
}

// RegisterFactory stores a factory invoked lazily on first Get.
func (c *container) RegisterFactory(name string, factory func(ServiceRegistry) any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.factories[name] = factory
}

// Get returns the instance registered under name, building it from its
// factory if needed. Returns nil if nothing is registered.
func (c *container) Get(name string) any {
	c.mu.Lock()

	if v, ok := c.instances[name]; ok {
		c.mu.Unlock()
		return v
	}

	factory, ok := c.factories[name]
	if !ok {
		c.mu.Unlock()
		return nil
	}

	if c.resolving[name] {
		c.mu.Unlock()
		panic(fmt.Sprintf("di: circular dependency resolving %q", name))
	}
	c.resolving[name] = true
	c.mu.Unlock()

	// Factories may resolve other services, so build outside the lock.
	v := factory(c)

	c.mu.Lock()
	c.instances[name] = v
	delete(c.resolving, name)
	c.mu.Unlock()

	return v
}
