package factor

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/sets/treeset"

	"github.com/rubiojr/facet/eval"
	"github.com/rubiojr/facet/tokens"
	"github.com/rubiojr/facet/transform"
)

// instanceName builds the generated, collision-checked name for the i-th
// allocated instance of the named factory.
func instanceName(i int, callee string) string {
	return fmt.Sprintf("_facet_st%d__%s__", i, callee)
}

// schedule performs the whole schedule construction: instance allocation,
// call-site rewriting, memorize-code derivation, and fix-point binning.
func (f *Factor) schedule() error {
	// Allocate an instance per stateful call site and rewrite the site to
	// <instance>.transform(...). The replacement text is a single dotted
	// name token; the rewriter reassembles it into normalized code.
	next := 0
	evalCode, err := tokens.ReplaceBareFuncalls(f.code, func(callee string) string {
		v, ok := f.env.Get(callee)
		if !ok {
			return callee
		}
		factory, ok := v.(transform.Factory)
		if !ok {
			return callee
		}
		name := instanceName(next, callee)
		next++
		f.instances[name] = factory()
		f.bound[name] = &boundTransform{t: f.instances[name]}
		return name + ".transform"
	})
	if err != nil {
		return err
	}

	// A generated name must never collide with an identifier already in
	// the original source: the rewritten code would silently capture it.
	shadowed, found, err := tokens.FindBareRef(f.code, func(name string) bool {
		_, taken := f.instances[name]
		return taken
	})
	if err != nil {
		return err
	}
	if found {
		return &NamingError{Name: shadowed.Text, Pos: shadowed.Pos}
	}

	compiled, err := eval.Compile(evalCode)
	if err != nil {
		return err
	}
	f.evalCode = compiled

	// Each instance appears in the rewritten code exactly once, as
	// <instance>.transform(args). Its memorize code is the sibling call
	// <instance>.memorize_chunk(args) with identical arguments.
	for name := range f.instances {
		calls, err := tokens.CaptureCalls(name, evalCode)
		if err != nil {
			return err
		}
		if len(calls) != 1 {
			panic(fmt.Sprintf("factor: expected exactly one call to %q, found %d",
				name, len(calls)))
		}
		call := calls[0]
		if call.Name != name+".transform" || !strings.HasPrefix(call.Text, call.Name+"(") {
			panic(fmt.Sprintf("factor: malformed transform call %q for %q", call.Text, name))
		}
		memorize := name + ".memorize_chunk" + call.Text[len(call.Name):]
		c, err := eval.Compile(memorize)
		if err != nil {
			return err
		}
		f.memorizeCode[name] = c
	}

	f.bins = f.binPasses()
	return nil
}

// binPasses partitions the instances into ordered pass bins by iterative
// fix-point: collect into the next bin every still-unassigned instance
// whose memorize code holds no bare reference to any other unassigned
// instance. Instance A depends on B exactly when B's generated name
// appears as a bare reference inside A's memorize code, so bin k only
// reads instances finalized in bins before k. The code comes from a
// tree-shaped expression, so the relation is acyclic; a fix-point step
// that assigns nothing is a bug, not bad input.
func (f *Factor) binPasses() []PassBin {
	unsorted := treeset.NewWithStringComparator()
	for name := range f.instances {
		unsorted.Add(name)
	}
	var bins []PassBin
	for unsorted.Size() > 0 {
		bin := treeset.NewWithStringComparator()
		for _, v := range unsorted.Values() {
			name := v.(string)
			dependsOnUnsorted, err := tokens.HasBareRef(f.memorizeCode[name].Code(),
				func(ref string) bool {
					return ref != name && unsorted.Contains(ref)
				})
			if err != nil {
				// The memorize code was produced by our own rewriter and
				// already compiled once.
				panic(fmt.Sprintf("factor: untokenizable memorize code: %v", err))
			}
			if !dependsOnUnsorted {
				bin.Add(name)
			}
		}
		if bin.Size() == 0 {
			panic("factor: scheduling fix-point made no progress; dependency relation is not acyclic")
		}
		for _, v := range bin.Values() {
			unsorted.Remove(v)
		}
		bins = append(bins, PassBin{set: bin})
	}
	return bins
}

// boundTransform exposes a transform instance's protocol methods to
// expression code.
type boundTransform struct {
	t transform.Stateful
}

func (b *boundTransform) CallMethod(name string, args []eval.Value) (eval.Value, error) {
	switch name {
	case "transform":
		return b.t.Transform(args...)
	case "memorize_chunk":
		return nil, b.t.MemorizeChunk(args...)
	case "memorize_finish":
		return nil, b.t.MemorizeFinish()
	}
	return nil, fmt.Errorf("transform instance has no method %q", name)
}
