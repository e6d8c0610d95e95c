package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrecedence(t *testing.T) {
	expr, err := Parse("a + b * c")
	require.NoError(t, err)
	add, ok := expr.(*Binary)
	require.True(t, ok)
	assert.Equal(t, "+", add.Op)
	mul, ok := add.Y.(*Binary)
	require.True(t, ok)
	assert.Equal(t, "*", mul.Op)
}

func TestParsePowerRightAssoc(t *testing.T) {
	expr, err := Parse("2 ** 3 ** 2")
	require.NoError(t, err)
	outer := expr.(*Binary)
	assert.Equal(t, "**", outer.Op)
	_, isLit := outer.X.(*NumberLit)
	assert.True(t, isLit, "left operand of ** should be the literal 2")
	inner, ok := outer.Y.(*Binary)
	require.True(t, ok)
	assert.Equal(t, "**", inner.Op)
}

func TestParseUnaryBindsLooserThanPower(t *testing.T) {
	// -2 ** 2 parses as -(2 ** 2).
	expr, err := Parse("-2 ** 2")
	require.NoError(t, err)
	neg, ok := expr.(*Unary)
	require.True(t, ok)
	assert.Equal(t, "-", neg.Op)
	pow, ok := neg.X.(*Binary)
	require.True(t, ok)
	assert.Equal(t, "**", pow.Op)
}

func TestParseSignedExponent(t *testing.T) {
	expr, err := Parse("2 ** -1")
	require.NoError(t, err)
	pow := expr.(*Binary)
	_, ok := pow.Y.(*Unary)
	assert.True(t, ok)
}

func TestParseCallChain(t *testing.T) {
	expr, err := Parse("obj.transform(x, 2)")
	require.NoError(t, err)
	call, ok := expr.(*Call)
	require.True(t, ok)
	attr, ok := call.Fn.(*Attr)
	require.True(t, ok)
	assert.Equal(t, "transform", attr.Name)
	ident, ok := attr.X.(*Ident)
	require.True(t, ok)
	assert.Equal(t, "obj", ident.Name)
	require.Len(t, call.Args, 2)
}

func TestParseKeywordArgs(t *testing.T) {
	expr, err := Parse("foo(x, df=4)")
	require.NoError(t, err)
	call := expr.(*Call)
	require.Len(t, call.Args, 2)
	assert.Equal(t, "", call.Args[0].Name)
	assert.Equal(t, "df", call.Args[1].Name)
}

func TestParseIndex(t *testing.T) {
	expr, err := Parse("x[i + 1]")
	require.NoError(t, err)
	idx, ok := expr.(*Index)
	require.True(t, ok)
	_, ok = idx.Index.(*Binary)
	assert.True(t, ok)
}

func TestParseStringEscapes(t *testing.T) {
	expr, err := Parse(`"a\nb"`)
	require.NoError(t, err)
	lit := expr.(*StringLit)
	assert.Equal(t, "a\nb", lit.Value)
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"a +",
		"foo(x",
		"x[1",
		"a b",
		"()",
		"a.",
	}
	for _, code := range tests {
		t.Run(code, func(t *testing.T) {
			_, err := Parse(code)
			assert.Error(t, err)
		})
	}
}
