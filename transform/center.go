package transform

import (
	"fmt"
	"math"

	"github.com/rubiojr/facet/eval"
)

func init() {
	Register("center", func() Stateful { return &Center{} })
	Register("standardize", func() Stateful { return &Standardize{} })
	Register("scale", func() Stateful { return &Standardize{rescaleOnly: true} })
}

// Center subtracts the global mean from each value.
type Center struct {
	sum      float64
	count    int
	mean     float64
	finished bool
}

// MemorizeChunk accumulates the running sum and count.
func (c *Center) MemorizeChunk(args ...eval.Value) error {
	if c.finished {
		return fmt.Errorf("center: memorize_chunk after memorize_finish")
	}
	data, err := dataArg("center", args)
	if err != nil {
		return err
	}
	for _, v := range data {
		c.sum += v
	}
	c.count += len(data)
	return nil
}

// MemorizeFinish freezes the mean.
func (c *Center) MemorizeFinish() error {
	if c.finished {
		return fmt.Errorf("center: memorize_finish called twice")
	}
	c.finished = true
	if c.count > 0 {
		c.mean = c.sum / float64(c.count)
	}
	return nil
}

// Transform returns data with the memorized mean subtracted.
func (c *Center) Transform(args ...eval.Value) (eval.Value, error) {
	if !c.finished {
		return nil, fmt.Errorf("center: transform before memorize_finish")
	}
	data, err := dataArg("center", args)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = v - c.mean
	}
	return scalarize(args[0], out), nil
}

// Standardize centers data and divides by the standard deviation,
// accumulated with Welford's online algorithm. With rescaleOnly it keeps
// the mean and only divides by the deviation.
type Standardize struct {
	rescaleOnly bool
	count       int
	mean        float64
	m2          float64
	stddev      float64
	finished    bool
}

func (s *Standardize) MemorizeChunk(args ...eval.Value) error {
	if s.finished {
		return fmt.Errorf("standardize: memorize_chunk after memorize_finish")
	}
	data, err := dataArg("standardize", args)
	if err != nil {
		return err
	}
	for _, v := range data {
		s.count++
		delta := v - s.mean
		s.mean += delta / float64(s.count)
		s.m2 += delta * (v - s.mean)
	}
	return nil
}

func (s *Standardize) MemorizeFinish() error {
	if s.finished {
		return fmt.Errorf("standardize: memorize_finish called twice")
	}
	s.finished = true
	if s.count > 1 {
		s.stddev = math.Sqrt(s.m2 / float64(s.count-1))
	}
	return nil
}

func (s *Standardize) Transform(args ...eval.Value) (eval.Value, error) {
	if !s.finished {
		return nil, fmt.Errorf("standardize: transform before memorize_finish")
	}
	data, err := dataArg("standardize", args)
	if err != nil {
		return nil, err
	}
	div := s.stddev
	if div == 0 {
		div = 1
	}
	sub := s.mean
	if s.rescaleOnly {
		sub = 0
	}
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = (v - sub) / div
	}
	return scalarize(args[0], out), nil
}

// dataArg extracts the single numeric data argument these transforms take.
func dataArg(name string, args []eval.Value) ([]float64, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%s: expected 1 argument, got %d", name, len(args))
	}
	data, ok := eval.Floats(args[0])
	if !ok {
		return nil, fmt.Errorf("%s: expected numeric data, got %T", name, args[0])
	}
	return data, nil
}

// scalarize mirrors the input shape: a scalar in, a scalar out.
func scalarize(in eval.Value, out []float64) eval.Value {
	if _, isVec := in.([]float64); !isVec && len(out) == 1 {
		return out[0]
	}
	return out
}
