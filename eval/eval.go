package eval

import (
	"fmt"

	"github.com/rubiojr/facet/ast"
)

// Compiled is a parsed expression, ready for repeated evaluation against
// different environments without re-parsing.
type Compiled struct {
	code string
	expr ast.Expr
}

// Compile parses an expression once. The returned Compiled is immutable
// and safe to evaluate any number of times.
func Compile(code string) (*Compiled, error) {
	expr, err := ast.Parse(code)
	if err != nil {
		return nil, err
	}
	return &Compiled{code: code, expr: expr}, nil
}

// Code returns the source text this expression was compiled from.
func (c *Compiled) Code() string { return c.code }

// Eval evaluates the compiled expression against env.
func (c *Compiled) Eval(env *Env) (Value, error) {
	return evalExpr(c.expr, env)
}

// Eval compiles and evaluates code in one step.
func Eval(code string, env *Env) (Value, error) {
	c, err := Compile(code)
	if err != nil {
		return nil, err
	}
	return c.Eval(env)
}

// boundMethod is an attribute access on an Object, waiting to be called.
type boundMethod struct {
	obj  Object
	name string
}

func (m *boundMethod) CallFunc(args []Value) (Value, error) {
	return m.obj.CallMethod(m.name, args)
}

func evalExpr(e ast.Expr, env *Env) (Value, error) {
	switch n := e.(type) {
	case *ast.NumberLit:
		return n.Value, nil
	case *ast.StringLit:
		return n.Value, nil
	case *ast.Ident:
		v, ok := env.Get(n.Name)
		if !ok {
			return nil, &NameError{Name: n.Name}
		}
		return v, nil
	case *ast.Attr:
		x, err := evalExpr(n.X, env)
		if err != nil {
			return nil, err
		}
		obj, ok := x.(Object)
		if !ok {
			return nil, fmt.Errorf("%T has no attribute %q", x, n.Name)
		}
		return &boundMethod{obj: obj, name: n.Name}, nil
	case *ast.Call:
		return evalCall(n, env)
	case *ast.Index:
		return evalIndex(n, env)
	case *ast.Unary:
		x, err := evalExpr(n.X, env)
		if err != nil {
			return nil, err
		}
		if n.Op == "-" {
			return negate(x)
		}
		return x, nil
	case *ast.Binary:
		x, err := evalExpr(n.X, env)
		if err != nil {
			return nil, err
		}
		y, err := evalExpr(n.Y, env)
		if err != nil {
			return nil, err
		}
		return binop(n.Op, x, y)
	}
	return nil, fmt.Errorf("cannot evaluate %T", e)
}

func evalCall(call *ast.Call, env *Env) (Value, error) {
	fn, err := evalExpr(call.Fn, env)
	if err != nil {
		return nil, err
	}
	callable, ok := fn.(Callable)
	if !ok {
		return nil, fmt.Errorf("%T is not callable", fn)
	}
	args := make([]Value, 0, len(call.Args))
	for _, arg := range call.Args {
		if arg.Name != "" {
			return nil, fmt.Errorf("keyword argument %q is not supported here", arg.Name)
		}
		v, err := evalExpr(arg.Value, env)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return callable.CallFunc(args)
}

func evalIndex(idx *ast.Index, env *Env) (Value, error) {
	x, err := evalExpr(idx.X, env)
	if err != nil {
		return nil, err
	}
	i, err := evalExpr(idx.Index, env)
	if err != nil {
		return nil, err
	}
	vec, ok := x.([]float64)
	if !ok {
		return nil, fmt.Errorf("%T is not indexable", x)
	}
	f, _, isVec, ok := numeric(i)
	if !ok || isVec {
		return nil, fmt.Errorf("index must be a scalar, got %T", i)
	}
	n := int(f)
	if n < 0 {
		n += len(vec)
	}
	if n < 0 || n >= len(vec) {
		return nil, fmt.Errorf("index %d out of range for vector of length %d", int(f), len(vec))
	}
	return vec[n], nil
}
