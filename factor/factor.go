// Package factor implements the dependency-aware multi-pass scheduler for
// stateful transforms embedded in expression code, and the streaming
// protocol that drives the scheduled passes over data chunks.
//
// A Factor is built once from source: every bare call resolving to a
// stateful-transform factory is given a fresh instance and its call site
// is rewritten to <instance>.transform(...). Each instance's memorize code
// is derived mechanically from its rewritten call, dependencies between
// instances are inferred from bare references inside that code, and the
// instances are binned into the minimum number of sequential streaming
// passes. After construction the Factor is fed data chunks pass by pass;
// once every pass is finalized, Eval is a pure function of the data.
package factor

import (
	"fmt"

	"github.com/emirpasic/gods/sets/treeset"

	"github.com/rubiojr/facet/eval"
	"github.com/rubiojr/facet/tokens"
	"github.com/rubiojr/facet/transform"
)

// Chunk is one slice of streamed data: variable name to value.
type Chunk = map[string]eval.Value

// NamingError reports a generated instance name shadowing an identifier
// already present in the original source.
type NamingError struct {
	Name string
	Pos  int // byte offset of the shadowed reference in the source
}

func (e *NamingError) Error() string {
	return fmt.Sprintf("names of the form %q are reserved for internal use (offset %d)",
		e.Name, e.Pos)
}

// PassBin is a set of transform instance names whose memorize code can run
// together in one streaming sweep.
type PassBin struct {
	set *treeset.Set
}

// Names returns the member instance names in sorted order.
func (b PassBin) Names() []string {
	names := make([]string, 0, b.set.Size())
	for _, v := range b.set.Values() {
		names = append(names, v.(string))
	}
	return names
}

// Contains reports whether name is a member of this bin.
func (b PassBin) Contains(name string) bool { return b.set.Contains(name) }

// Len returns the number of member instances.
func (b PassBin) Len() int { return b.set.Size() }

// Factor is one term of a model expression: its normalized source plus the
// derived execution schedule. Built once per distinct expression and
// reused across arbitrarily many data chunks.
type Factor struct {
	code string // normalized source
	env  *eval.Env

	instances map[string]transform.Stateful
	bound     map[string]eval.Value // instance name → eval-visible object

	evalCode     *eval.Compiled
	memorizeCode map[string]*eval.Compiled
	bins         []PassBin

	finished int // number of bins whose memorize_finish has run
}

// Build constructs a Factor from expression source. env supplies the
// active namespace: names resolving to a transform.Factory mark stateful
// call sites. All schedule-construction errors surface here; a failed
// build returns no Factor.
func Build(code string, env *eval.Env) (*Factor, error) {
	normalized, err := tokens.NormalizeCode(code)
	if err != nil {
		return nil, err
	}
	f := &Factor{
		code:         normalized,
		env:          env,
		instances:    map[string]transform.Stateful{},
		bound:        map[string]eval.Value{},
		memorizeCode: map[string]*eval.Compiled{},
	}
	if err := f.schedule(); err != nil {
		return nil, err
	}
	return f, nil
}

// Name returns the factor's display name: its normalized source.
func (f *Factor) Name() string { return f.code }

// Code returns the normalized source code.
func (f *Factor) Code() string { return f.code }

// EvalCode returns the rewritten evaluation code.
func (f *Factor) EvalCode() string { return f.evalCode.Code() }

// MemorizeCode returns the derived memorize code for one instance, or ""
// if the name is unknown.
func (f *Factor) MemorizeCode(instance string) string {
	c, ok := f.memorizeCode[instance]
	if !ok {
		return ""
	}
	return c.Code()
}

// Instances returns the instance names across all bins, in pass order.
func (f *Factor) Instances() []string {
	var names []string
	for _, bin := range f.bins {
		names = append(names, bin.Names()...)
	}
	return names
}

// PassesNeeded returns the number of sequential streaming passes the
// schedule requires. Zero means the code has no stateful calls at all.
func (f *Factor) PassesNeeded() int { return len(f.bins) }

// Bins returns the ordered pass bins.
func (f *Factor) Bins() []PassBin { return f.bins }

// Equal reports whether two factors evaluate the same expression: their
// sources are identical up to whitespace.
func (f *Factor) Equal(other *Factor) bool {
	return other != nil && f.code == other.code
}
