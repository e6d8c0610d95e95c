package tokens

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceBareFuncalls(t *testing.T) {
	replacer := func(name string) string {
		switch name {
		case "a":
			return "b"
		case "foo":
			return "_internal.foo.process"
		}
		return name
	}

	tests := []struct {
		code string
		want string
	}{
		{"foobar()", "foobar()"},
		{"a()", "b()"},
		{"foobar.a()", "foobar.a()"},
		{"foo()", "_internal.foo.process()"},
		{"a + 1", "a + 1"},
		{"b() + a() * x[foo(2 ** 3)]", "b() + b() * x[_internal.foo.process(2 ** 3)]"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, err := ReplaceBareFuncalls(tt.code, replacer)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReplaceBareFuncallsLeavesKeywordArgs(t *testing.T) {
	// A keyword-argument name is followed by '=', never '(', so it is not
	// in call position even when it collides with a replaced name.
	got, err := ReplaceBareFuncalls("bar(a=1) + a(2)", func(name string) string {
		if name == "a" {
			return "b"
		}
		return name
	})
	require.NoError(t, err)
	assert.Equal(t, "bar(a=1) + b(2)", got)
}

func TestReplaceBareFuncallsIdentity(t *testing.T) {
	code := "foo(x) + bar.baz(y)"
	got, err := ReplaceBareFuncalls(code, func(name string) string { return name })
	require.NoError(t, err)
	assert.Equal(t, code, got)
}
