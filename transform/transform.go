// Package transform defines the stateful-transform capability: computations
// that need globally accumulated statistics before they can be applied.
// A transform is driven in two phases — memorize (accumulate over data
// chunks, then finalize) and apply — and is obtained from a Factory, one
// fresh instance per call site.
package transform

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rubiojr/facet/eval"
)

// Stateful is the accumulate-then-apply protocol. MemorizeChunk may be
// called any number of times before MemorizeFinish; after MemorizeFinish
// the instance is immutable and Transform is a pure function.
type Stateful interface {
	MemorizeChunk(args ...eval.Value) error
	MemorizeFinish() error
	Transform(args ...eval.Value) (eval.Value, error)
}

// Factory creates a fresh transform instance. The scheduler probes
// namespace values for this type to decide which calls are stateful.
type Factory func() Stateful

// CallFunc lets a factory be called directly in an expression, outside any
// factor schedule. The whole argument set is treated as a single chunk:
// memorize it, finalize, and apply in one shot.
func (f Factory) CallFunc(args []eval.Value) (eval.Value, error) {
	st := f()
	if err := st.MemorizeChunk(args...); err != nil {
		return nil, err
	}
	if err := st.MemorizeFinish(); err != nil {
		return nil, err
	}
	return st.Transform(args...)
}

var (
	mu       sync.RWMutex
	registry = map[string]Factory{}
)

// Register adds a named transform factory to the global registry.
// Registering a duplicate name panics; it indicates an init-time bug.
func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := registry[name]; dup {
		panic(fmt.Sprintf("transform: duplicate registration of %q", name))
	}
	registry[name] = f
}

// Lookup returns the registered factory for name.
func Lookup(name string) (Factory, bool) {
	mu.RLock()
	defer mu.RUnlock()
	f, ok := registry[name]
	return f, ok
}

// Names returns all registered transform names, sorted.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Builtins returns an environment layer exposing every registered factory
// under its registered name.
func Builtins() map[string]eval.Value {
	mu.RLock()
	defer mu.RUnlock()
	layer := make(map[string]eval.Value, len(registry))
	for name, f := range registry {
		layer[name] = f
	}
	return layer
}
