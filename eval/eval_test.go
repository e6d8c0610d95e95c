package eval

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvLayering(t *testing.T) {
	d1 := map[string]Value{"a": 1.0}
	d2 := map[string]Value{"a": 2.0, "b": 3.0}
	env := NewEnv(d1, d2)

	v, ok := env.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1.0, v)

	v, ok = env.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 3.0, v)

	_, ok = env.Get("c")
	assert.False(t, ok)

	// Assignment goes into the write layer, not the source mappings.
	env.Set("a", 10.0)
	v, _ = env.Get("a")
	assert.Equal(t, 10.0, v)
	assert.Equal(t, 1.0, d1["a"])
}

func TestEnvWith(t *testing.T) {
	env := NewEnv(map[string]Value{"a": 1.0})
	inner := env.With(map[string]Value{"a": 2.0})

	v, _ := inner.Get("a")
	assert.Equal(t, 2.0, v, "inner layer wins")
	v, _ = env.Get("a")
	assert.Equal(t, 1.0, v, "original env unchanged")
}

func TestEvalArithmetic(t *testing.T) {
	env := NewEnv(map[string]Value{"a": 11.0})
	tests := []struct {
		code string
		want Value
	}{
		{"2 * a", 22.0},
		{"a + 1", 12.0},
		{"2 ** 3", 8.0},
		{"7 // 2", 3.0},
		{"7 % 3", 1.0},
		{"-a", -11.0},
		{"a != 0", true},
		{"a <> 0", true},
		{"a == 11", true},
		{"a < 3", false},
		{"(1 + 2) * 3", 9.0},
		{`"ab" + "cd"`, "abcd"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, err := Eval(tt.code, env)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvalVectors(t *testing.T) {
	env := NewEnv(map[string]Value{
		"x": []float64{1, 2, 3},
		"y": []float64{10, 20, 30},
	})

	got, err := Eval("x + y", env)
	require.NoError(t, err)
	assert.Equal(t, []float64{11, 22, 33}, got)

	got, err = Eval("2 * x + 1", env)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 5, 7}, got)

	got, err = Eval("x[1]", env)
	require.NoError(t, err)
	assert.Equal(t, 2.0, got)

	got, err = Eval("x[-1]", env)
	require.NoError(t, err)
	assert.Equal(t, 3.0, got)

	_, err = Eval("x + z", env)
	var nameErr *NameError
	require.True(t, errors.As(err, &nameErr))
	assert.Equal(t, "z", nameErr.Name)

	_, err = Eval("x + w", NewEnv(map[string]Value{
		"x": []float64{1, 2, 3},
		"w": []float64{1, 2},
	}))
	assert.ErrorContains(t, err, "length mismatch")
}

func TestEvalInnerNamespaceWins(t *testing.T) {
	env := NewEnv(map[string]Value{"a": 1.0})
	got, err := Eval("2 * a", env.With(map[string]Value{"a": 2.0}))
	require.NoError(t, err)
	assert.Equal(t, 4.0, got)
}

func TestEvalFunc(t *testing.T) {
	double := Func(func(args ...Value) (Value, error) {
		return binop("*", args[0], 2.0)
	})
	env := NewEnv(map[string]Value{"double": double, "x": 21.0})
	got, err := Eval("double(x)", env)
	require.NoError(t, err)
	assert.Equal(t, 42.0, got)
}

// probe implements Object for method dispatch tests.
type probe struct {
	last string
}

func (p *probe) CallMethod(name string, args []Value) (Value, error) {
	p.last = name
	return float64(len(args)), nil
}

func TestEvalMethodCall(t *testing.T) {
	p := &probe{}
	env := NewEnv(map[string]Value{"obj": p, "x": 1.0})
	got, err := Eval("obj.work(x, 2)", env)
	require.NoError(t, err)
	assert.Equal(t, 2.0, got)
	assert.Equal(t, "work", p.last)
}

func TestCompiledReuse(t *testing.T) {
	c, err := Compile("a + 1")
	require.NoError(t, err)
	assert.Equal(t, "a + 1", c.Code())

	for i := 0.0; i < 3; i++ {
		got, err := c.Eval(NewEnv(map[string]Value{"a": i}))
		require.NoError(t, err)
		assert.Equal(t, i+1, got)
	}
}

func TestEvalNotCallable(t *testing.T) {
	_, err := Eval("x(1)", NewEnv(map[string]Value{"x": 3.0}))
	assert.ErrorContains(t, err, "not callable")
}
