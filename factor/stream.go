package factor

import (
	"fmt"
	"iter"

	"github.com/rubiojr/facet/eval"
)

// MemorizeChunk feeds one data chunk to every instance in the given pass
// bin. It may be called any number of times per pass, once per chunk; each
// call strictly adds to the instances' accumulated state. Chunks for pass
// k are only accepted while every earlier bin is finalized and bin k is
// not.
func (f *Factor) MemorizeChunk(pass int, data Chunk) error {
	if err := f.checkPass(pass); err != nil {
		return err
	}
	ns := f.env.With(data, f.bound)
	for _, name := range f.bins[pass].Names() {
		if _, err := f.memorizeCode[name].Eval(ns); err != nil {
			return fmt.Errorf("memorize pass %d, instance %s: %w", pass, name, err)
		}
	}
	return nil
}

// MemorizeFinish finalizes every instance in the given pass bin. Called
// exactly once per bin, in ascending pass order, after all chunks of that
// pass have been supplied.
func (f *Factor) MemorizeFinish(pass int) error {
	if err := f.checkPass(pass); err != nil {
		return err
	}
	for _, name := range f.bins[pass].Names() {
		b := f.bound[name].(*boundTransform)
		if err := b.t.MemorizeFinish(); err != nil {
			return fmt.Errorf("finish pass %d, instance %s: %w", pass, name, err)
		}
	}
	f.finished++
	return nil
}

func (f *Factor) checkPass(pass int) error {
	if pass < 0 || pass >= len(f.bins) {
		return fmt.Errorf("pass %d out of range (schedule has %d)", pass, len(f.bins))
	}
	if pass != f.finished {
		return fmt.Errorf("pass %d out of order: %d passes finished", pass, f.finished)
	}
	return nil
}

// Ready reports whether every pass has been finalized and the factor can
// be evaluated.
func (f *Factor) Ready() bool { return f.finished == len(f.bins) }

// Eval evaluates the rewritten code against a data chunk layered over the
// finalized instances. Valid only once every bin has completed
// MemorizeFinish; from then on it is a pure function of the supplied data
// and may be called repeatedly, including on data never memorized.
func (f *Factor) Eval(data Chunk) (eval.Value, error) {
	if !f.Ready() {
		return nil, fmt.Errorf("eval before memorization finished (%d of %d passes)",
			f.finished, len(f.bins))
	}
	return f.evalCode.Eval(f.env.With(data, f.bound))
}

// Stream drives the remaining passes to completion from a restartable
// chunk source, re-ranging the source once per pass. After Stream returns
// successfully the factor is ready for Eval.
func (f *Factor) Stream(chunks iter.Seq[Chunk]) error {
	for pass := f.finished; pass < len(f.bins); pass++ {
		for chunk := range chunks {
			if err := f.MemorizeChunk(pass, chunk); err != nil {
				return err
			}
		}
		if err := f.MemorizeFinish(pass); err != nil {
			return err
		}
	}
	return nil
}
