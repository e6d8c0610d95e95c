package tokens

import "iter"

// AnnotatedToken is a Token plus positional classification flags.
//
// BareRef is true iff the token is an identifier not immediately preceded
// by a '.' token. BareFuncall is true iff BareRef is true and the exact
// next token is an opening parenthesis.
type AnnotatedToken struct {
	Token
	BareRef     bool
	BareFuncall bool
}

// Annotate returns a restartable, lazy sequence of annotated tokens.
// Annotation needs one token of lookahead, which the slice provides for
// free; a single-token input yields exactly one annotated token.
func Annotate(toks []Token) iter.Seq[AnnotatedToken] {
	return func(yield func(AnnotatedToken) bool) {
		prevWasDot := false
		for i, tok := range toks {
			at := AnnotatedToken{Token: tok}
			at.BareRef = !prevWasDot && tok.Type == Name
			at.BareFuncall = at.BareRef && i+1 < len(toks) && toks[i+1].Text == "("
			if !yield(at) {
				return
			}
			prevWasDot = tok.Text == "."
		}
	}
}

// AnnotateCode tokenizes code and returns the annotated token sequence.
func AnnotateCode(code string) (iter.Seq[AnnotatedToken], error) {
	toks, err := Tokenize(code)
	if err != nil {
		return nil, err
	}
	return Annotate(toks), nil
}

// FindBareRef returns the first bare reference in code whose text satisfies
// match, or ok=false if there is none.
func FindBareRef(code string, match func(name string) bool) (Token, bool, error) {
	seq, err := AnnotateCode(code)
	if err != nil {
		return Token{}, false, err
	}
	for at := range seq {
		if at.BareRef && match(at.Text) {
			return at.Token, true, nil
		}
	}
	return Token{}, false, nil
}

// HasBareRef reports whether code contains a bare reference to any name
// satisfying match.
func HasBareRef(code string, match func(name string) bool) (bool, error) {
	_, found, err := FindBareRef(code, match)
	return found, err
}

// ReplaceBareFuncalls substitutes the text of every bare-call identifier
// with replacer(text); all other tokens pass through unchanged. Identifiers
// used as bare values, attribute names after a dot, and keyword-argument
// names are never in call position, so they are never touched. The result
// is reassembled in canonical normalized form.
func ReplaceBareFuncalls(code string, replacer func(name string) string) (string, error) {
	seq, err := AnnotateCode(code)
	if err != nil {
		return "", err
	}
	var out []Token
	for at := range seq {
		tok := at.Token
		if at.BareRef && at.BareFuncall {
			tok.Text = replacer(tok.Text)
		}
		out = append(out, tok)
	}
	return Normalize(out), nil
}
