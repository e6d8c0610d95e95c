// Package eval evaluates facet expressions against layered variable
// environments. An environment is an ordered list of immutable mappings
// consulted front to back, plus one mutable write layer that assignments
// go into and that is always consulted first.
package eval

import "fmt"

// Value is any value an expression can produce or consume: float64
// scalars, []float64 vectors, strings, bools, and opaque objects that
// expose methods via the Object interface.
type Value = any

// NameError reports an identifier absent from every environment layer.
type NameError struct {
	Name string
}

func (e *NameError) Error() string {
	return fmt.Sprintf("name %q is not defined", e.Name)
}

// Env is a layered variable environment. Lookups consult the write layer
// first, then each mapping in order; the first hit wins.
type Env struct {
	write  map[string]Value
	layers []map[string]Value
}

// NewEnv builds an environment over the given mappings, outermost last.
// The mappings are not copied; callers must treat them as frozen for the
// lifetime of the environment.
func NewEnv(layers ...map[string]Value) *Env {
	return &Env{write: map[string]Value{}, layers: layers}
}

// Get looks name up through all layers.
func (e *Env) Get(name string) (Value, bool) {
	if v, ok := e.write[name]; ok {
		return v, true
	}
	for _, layer := range e.layers {
		if v, ok := layer[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Has reports whether name resolves in any layer.
func (e *Env) Has(name string) bool {
	_, ok := e.Get(name)
	return ok
}

// Set binds name in the write layer, shadowing any outer binding.
func (e *Env) Set(name string, v Value) {
	e.write[name] = v
}

// With returns a new environment layering the given mappings in front of
// this environment's layers, innermost first. The receiver's write layer
// is not shared; the derived environment starts with a fresh one.
func (e *Env) With(inner ...map[string]Value) *Env {
	layers := make([]map[string]Value, 0, len(inner)+len(e.layers))
	layers = append(layers, inner...)
	layers = append(layers, e.layers...)
	return NewEnv(layers...)
}
