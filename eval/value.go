package eval

import (
	"fmt"
	"math"
)

// Object is the interface for opaque values that expose named methods to
// expressions, such as allocated stateful-transform instances.
type Object interface {
	CallMethod(name string, args []Value) (Value, error)
}

// Callable is the interface for values usable in call position.
type Callable interface {
	CallFunc(args []Value) (Value, error)
}

// Func adapts a plain Go function into a Callable expression value.
type Func func(args ...Value) (Value, error)

// CallFunc implements Callable.
func (f Func) CallFunc(args []Value) (Value, error) { return f(args...) }

// Floats coerces a numeric value to a vector. Scalars become one-element
// vectors. Returns false for non-numeric values.
func Floats(v Value) ([]float64, bool) {
	switch x := v.(type) {
	case []float64:
		return x, true
	case float64:
		return []float64{x}, true
	case int:
		return []float64{float64(x)}, true
	}
	return nil, false
}

func numeric(v Value) (scalar float64, vec []float64, isVec bool, ok bool) {
	switch x := v.(type) {
	case float64:
		return x, nil, false, true
	case int:
		return float64(x), nil, false, true
	case []float64:
		return 0, x, true, true
	}
	return 0, nil, false, false
}

// binop applies an arithmetic or comparison operator to two values.
// Numeric operations work elementwise on vectors with scalar broadcast;
// comparisons are scalar-only; '+' concatenates strings.
func binop(op string, x, y Value) (Value, error) {
	if xs, ok := x.(string); ok {
		if ys, ok := y.(string); ok && op == "+" {
			return xs + ys, nil
		}
	}
	xf, xv, xIsVec, xOK := numeric(x)
	yf, yv, yIsVec, yOK := numeric(y)
	if !xOK || !yOK {
		return nil, fmt.Errorf("operator %q not defined for %T and %T", op, x, y)
	}

	if fn, ok := arith[op]; ok {
		switch {
		case !xIsVec && !yIsVec:
			return fn(xf, yf), nil
		case xIsVec && yIsVec:
			if len(xv) != len(yv) {
				return nil, fmt.Errorf("operator %q: vector length mismatch (%d vs %d)",
					op, len(xv), len(yv))
			}
			out := make([]float64, len(xv))
			for i := range xv {
				out[i] = fn(xv[i], yv[i])
			}
			return out, nil
		case xIsVec:
			out := make([]float64, len(xv))
			for i := range xv {
				out[i] = fn(xv[i], yf)
			}
			return out, nil
		default:
			out := make([]float64, len(yv))
			for i := range yv {
				out[i] = fn(xf, yv[i])
			}
			return out, nil
		}
	}

	if fn, ok := compare[op]; ok {
		if xIsVec || yIsVec {
			return nil, fmt.Errorf("comparison %q not defined for vectors", op)
		}
		return fn(xf, yf), nil
	}
	return nil, fmt.Errorf("unknown operator %q", op)
}

var arith = map[string]func(a, b float64) float64{
	"+":  func(a, b float64) float64 { return a + b },
	"-":  func(a, b float64) float64 { return a - b },
	"*":  func(a, b float64) float64 { return a * b },
	"/":  func(a, b float64) float64 { return a / b },
	"%":  math.Mod,
	"**": math.Pow,
	"//": func(a, b float64) float64 { return math.Floor(a / b) },
}

var compare = map[string]func(a, b float64) bool{
	"==": func(a, b float64) bool { return a == b },
	"!=": func(a, b float64) bool { return a != b },
	"<>": func(a, b float64) bool { return a != b },
	"<":  func(a, b float64) bool { return a < b },
	"<=": func(a, b float64) bool { return a <= b },
	">":  func(a, b float64) bool { return a > b },
	">=": func(a, b float64) bool { return a >= b },
}

func negate(v Value) (Value, error) {
	f, vec, isVec, ok := numeric(v)
	if !ok {
		return nil, fmt.Errorf("operator \"-\" not defined for %T", v)
	}
	if !isVec {
		return -f, nil
	}
	out := make([]float64, len(vec))
	for i := range vec {
		out[i] = -vec[i]
	}
	return out, nil
}
