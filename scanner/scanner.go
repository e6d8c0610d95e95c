// Package scanner provides string-boundary-aware byte scanning for the
// facet expression tokenizer. It encapsulates the tracking of double-quoted
// and single-quoted string literals plus escape sequences, so the tokenizer
// does not re-implement inDouble/inSingle/escaped bookkeeping.
package scanner

// closingKind tracks which type of string delimiter was just closed.
type closingKind byte

const (
	noClosing     closingKind = iota
	closingDouble             // just closed a "..." string
	closingSingle             // just closed a '...' string
)

// CodeScanner iterates byte-by-byte over expression source text, tracking
// string literal boundaries (double-quoted, single-quoted) and escape
// sequences. Callers check InString() instead of maintaining their own
// state flags.
//
// InString() returns true for the entire string span including both the
// opening and closing delimiters.
type CodeScanner struct {
	src     string
	pos     int
	inDbl   bool
	inSgl   bool
	escaped bool
	closing closingKind // set when a closing delimiter is processed
}

// New creates a CodeScanner for the given source text.
// Call Next() to advance to the first byte.
func New(src string) *CodeScanner {
	return &CodeScanner{src: src, pos: -1}
}

// Next advances to the next byte, updating string/escape state.
// Returns the byte and true, or (0, false) at end of input.
func (s *CodeScanner) Next() (byte, bool) {
	s.closing = noClosing
	s.pos++
	if s.pos >= len(s.src) {
		return 0, false
	}
	ch := s.src[s.pos]

	if s.escaped {
		s.escaped = false
		return ch, true
	}
	if ch == '\\' && (s.inDbl || s.inSgl) {
		s.escaped = true
		return ch, true
	}
	if ch == '"' && !s.inSgl {
		if s.inDbl {
			s.closing = closingDouble
		}
		s.inDbl = !s.inDbl
	} else if ch == '\'' && !s.inDbl {
		if s.inSgl {
			s.closing = closingSingle
		}
		s.inSgl = !s.inSgl
	}

	return ch, true
}

// InString reports whether the current position is inside a string literal,
// including both opening and closing delimiters.
func (s *CodeScanner) InString() bool {
	return s.inDbl || s.inSgl || s.closing != noClosing
}

// InCode reports whether the current position is outside all string literals.
func (s *CodeScanner) InCode() bool { return !s.InString() }

// Closing reports whether the current byte is a closing string delimiter.
func (s *CodeScanner) Closing() bool { return s.closing != noClosing }

// Pos returns the current byte offset (the position of the last byte
// returned by Next). Returns -1 before the first call to Next.
func (s *CodeScanner) Pos() int { return s.pos }

// Src returns the full source text being scanned.
func (s *CodeScanner) Src() string { return s.src }

// Peek returns the next byte without advancing, or (0, false) at end.
func (s *CodeScanner) Peek() (byte, bool) {
	if s.pos+1 >= len(s.src) {
		return 0, false
	}
	return s.src[s.pos+1], true
}

// IsOpenBracket reports whether ch is an opening bracket/paren/brace.
func IsOpenBracket(ch byte) bool {
	return ch == '(' || ch == '[' || ch == '{'
}

// IsCloseBracket reports whether ch is a closing bracket/paren/brace.
func IsCloseBracket(ch byte) bool {
	return ch == ')' || ch == ']' || ch == '}'
}
