package tokens

import "fmt"

// Call is one captured call expression: the dotted call name (for example
// "obj.transform") and the complete balanced call text.
type Call struct {
	Name string
	Text string
}

// callCapturer accumulates one call expression. It first collects the
// dotted attribute path following the opening reference, then the full
// balanced-bracket call, tracking nesting across (), {} and [].
type callCapturer struct {
	name    []string
	toks    []Token
	depth   int
	started bool
	done    bool
}

func newCallCapturer(start Token) *callCapturer {
	return &callCapturer{name: []string{start.Text}, toks: []Token{start}}
}

func (c *callCapturer) add(tok Token) {
	if c.done {
		return
	}
	c.toks = append(c.toks, tok)
	switch tok.Text {
	case "(", "{", "[":
		c.depth++
	case ")", "}", "]":
		c.depth--
	}
	if c.depth < 0 {
		panic(fmt.Sprintf("tokens: unbalanced brackets while capturing call to %q", c.name[0]))
	}
	if !c.started {
		if tok.Text == "(" {
			c.started = true
		} else {
			if tok.Type != Name && tok.Text != "." {
				panic(fmt.Sprintf(
					"tokens: reference to %q not followed by a dotted call (got %q)",
					c.name[0], tok.Text))
			}
			c.name = append(c.name, tok.Text)
		}
	}
	if c.started && c.depth == 0 {
		c.done = true
	}
}

// CaptureCalls extracts every balanced-bracket call expression reaching
// through the given bare reference name, in left-to-right appearance order.
// Each occurrence of name opens an independent capture, so nested
// references like name.a(name.b(x)) are each captured in full.
//
// Every occurrence of name must be immediately followed by a dotted method
// call. That is a hard precondition: violating input panics rather than
// returning an error, since the caller generated the code being scanned.
func CaptureCalls(name, code string) ([]Call, error) {
	seq, err := AnnotateCode(code)
	if err != nil {
		return nil, err
	}
	var capturers []*callCapturer
	for at := range seq {
		for _, c := range capturers {
			c.add(at.Token)
		}
		if at.BareRef && at.Text == name {
			capturers = append(capturers, newCallCapturer(at.Token))
		}
	}
	calls := make([]Call, 0, len(capturers))
	for _, c := range capturers {
		dotted := ""
		for _, part := range c.name {
			dotted += part
		}
		calls = append(calls, Call{Name: dotted, Text: Normalize(c.toks)})
	}
	return calls, nil
}
