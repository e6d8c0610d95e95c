package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubiojr/facet/eval"
)

func TestRegistry(t *testing.T) {
	f, ok := Lookup("center")
	assert.True(t, ok)
	assert.NotNil(t, f)

	_, ok = Lookup("nope")
	assert.False(t, ok)

	assert.Subset(t, Names(), []string{"center", "scale", "standardize"})

	layer := Builtins()
	_, ok = layer["center"].(Factory)
	assert.True(t, ok)
}

func TestCenterChunked(t *testing.T) {
	c := &Center{}
	require.NoError(t, c.MemorizeChunk([]float64{1, 2}))
	require.NoError(t, c.MemorizeChunk([]float64{12, -10}))
	require.NoError(t, c.MemorizeFinish())

	// mean of 1, 2, 12, -10 is 1.25
	got, err := c.Transform([]float64{1, 2, 12, -10})
	require.NoError(t, err)
	assert.Equal(t, []float64{-0.25, 0.75, 10.75, -11.25}, got)

	// Finished instances are pure: unseen data is fine, state unchanged.
	got, err = c.Transform([]float64{1.25})
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, got)
}

func TestCenterProtocolViolations(t *testing.T) {
	c := &Center{}
	_, err := c.Transform([]float64{1})
	assert.ErrorContains(t, err, "before memorize_finish")

	require.NoError(t, c.MemorizeChunk([]float64{1}))
	require.NoError(t, c.MemorizeFinish())
	assert.ErrorContains(t, c.MemorizeFinish(), "called twice")
	assert.ErrorContains(t, c.MemorizeChunk([]float64{1}), "after memorize_finish")
}

func TestStandardize(t *testing.T) {
	s := &Standardize{}
	require.NoError(t, s.MemorizeChunk([]float64{2, 4}))
	require.NoError(t, s.MemorizeChunk([]float64{4, 6}))
	require.NoError(t, s.MemorizeFinish())

	// mean 4, sample stddev of 2,4,4,6 is sqrt(8/3)
	got, err := s.Transform(4.0)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, got.(float64), 1e-12)

	got, err = s.Transform([]float64{2, 6})
	require.NoError(t, err)
	vec := got.([]float64)
	require.Len(t, vec, 2)
	assert.InDelta(t, -vec[1], vec[0], 1e-12)
}

func TestScaleKeepsMean(t *testing.T) {
	f, ok := Lookup("scale")
	require.True(t, ok)
	s := f()
	require.NoError(t, s.MemorizeChunk([]float64{2, 4, 4, 6}))
	require.NoError(t, s.MemorizeFinish())

	got, err := s.Transform([]float64{2, 4})
	require.NoError(t, err)
	vec := got.([]float64)
	assert.InDelta(t, 2.0, vec[1]/vec[0], 1e-12, "scaling preserves ratios")
	assert.Greater(t, vec[0], 0.0)
}

func TestFactoryOneShot(t *testing.T) {
	// Calling a factory directly treats the arguments as the whole data
	// set: memorize, finish and apply in one step.
	var f Factory = func() Stateful { return &Center{} }
	got, err := f.CallFunc([]eval.Value{[]float64{1, 2, 3}})
	require.NoError(t, err)
	assert.Equal(t, []float64{-1, 0, 1}, got)
}

func TestFactoryOneShotThroughEval(t *testing.T) {
	env := eval.NewEnv(Builtins(), map[string]eval.Value{"x": []float64{1, 2, 3}})
	got, err := eval.Eval("center(x) + 10", env)
	require.NoError(t, err)
	assert.Equal(t, []float64{9, 10, 11}, got)
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	assert.Panics(t, func() {
		Register("center", func() Stateful { return &Center{} })
	})
}
