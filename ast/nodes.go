// Package ast defines a minimal expression AST — names, literals, calls,
// attribute access, indexing, operators — and a parser over the facet token
// stream. The call-site rewriting machinery never uses this package; it
// works on raw tokens. The AST exists only so compiled expressions can be
// evaluated without re-parsing on every data chunk.
package ast

// Expr is the interface for all expression nodes.
type Expr interface {
	expr()
}

// NumberLit is a numeric literal.
type NumberLit struct {
	Value float64
}

// StringLit is a quoted string literal with quotes and escapes resolved.
type StringLit struct {
	Value string
}

// Ident is a bare identifier reference.
type Ident struct {
	Name string
	Pos  int // byte offset in the source expression
}

// Attr is attribute access: X.Name.
type Attr struct {
	X    Expr
	Name string
}

// Arg is one call argument, optionally keyword-named.
type Arg struct {
	Name  string // empty for positional arguments
	Value Expr
}

// Call is a call expression: Fn(Args...).
type Call struct {
	Fn   Expr
	Args []Arg
}

// Index is subscript access: X[Index].
type Index struct {
	X     Expr
	Index Expr
}

// Unary is a prefix operator expression.
type Unary struct {
	Op string
	X  Expr
}

// Binary is an infix operator expression.
type Binary struct {
	Op   string
	X, Y Expr
}

func (*NumberLit) expr() {}
func (*StringLit) expr() {}
func (*Ident) expr()     {}
func (*Attr) expr()      {}
func (*Call) expr()      {}
func (*Index) expr()     {}
func (*Unary) expr()     {}
func (*Binary) expr()    {}
