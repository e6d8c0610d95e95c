package tokens

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureCalls(t *testing.T) {
	tests := []struct {
		name string
		obj  string
		code string
		want []Call
	}{
		{
			name: "single occurrence",
			obj:  "foo",
			code: "a + foo.baz(bar) + b.c(d)",
			want: []Call{{Name: "foo.baz", Text: "foo.baz(bar)"}},
		},
		{
			name: "other object in same code",
			obj:  "b",
			code: "a + foo.baz(bar) + b.c(d)",
			want: []Call{{Name: "b.c", Text: "b.c(d)"}},
		},
		{
			name: "nested occurrences capture independently",
			obj:  "foo",
			code: "foo.bar(foo.baz(quux))",
			want: []Call{
				{Name: "foo.bar", Text: "foo.bar(foo.baz(quux))"},
				{Name: "foo.baz", Text: "foo.baz(quux)"},
			},
		},
		{
			name: "mixed bracket nesting",
			obj:  "bar",
			code: "foo[bar.baz(x(z[asdf])) ** 2]",
			want: []Call{{Name: "bar.baz", Text: "bar.baz(x(z[asdf]))"}},
		},
		{
			name: "no occurrences",
			obj:  "missing",
			code: "a + b.c(d)",
			want: []Call{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CaptureCalls(tt.obj, tt.code)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCaptureCallsDottedOnly(t *testing.T) {
	// Attribute access does not open a capture: only bare references do.
	got, err := CaptureCalls("baz", "a + foo.baz(bar)")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCaptureCallsBadReferencePanics(t *testing.T) {
	// A reference not followed by a dotted call violates the capturer's
	// precondition and is an invariant failure, not an error.
	assert.Panics(t, func() {
		CaptureCalls("foo", "foo + 1")
	})
}
