package tokens

import "strings"

// spaceBoth holds operators that want a space on both sides in canonical
// form. Comma and colon additionally want a space after (see spaceAfter).
var spaceBoth = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true, "~": true,
	"<": true, ">": true, "=": true, "&": true, "^": true, "|": true,
	"**": true, "//": true, "<<": true, ">>": true,
	"==": true, "!=": true, "<=": true, ">=": true, "<>": true,
	"+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"**=": true, "//=": true, "<<=": true, ">>=": true,
	"&=": true, "^=": true, "|=": true,
}

var spaceAfterOnly = map[string]bool{",": true, ":": true}

// Normalize reconstructs canonical source text from a token list with
// deterministic minimal spacing. Normalizing the tokens of an already
// normalized string is a no-op, so two sources differing only in
// whitespace normalize identically.
//
// The rules: binary operators are spaced on both sides; comma and colon
// take a space after only; a colon used as a slice separator inside '['
// is unspaced; '*' and '**' directly after '(' or ',' are argument-unpacking
// markers and unspaced; '=' inside brackets is a keyword-argument
// separator and unspaced; '+' and '-' not preceded by something value-like
// are unary and unspaced.
func Normalize(toks []Token) string {
	var text strings.Builder
	prevWasSpaceDelim := false // previous token was a name/number/string
	prevWantsSpace := false    // previous token requested a trailing space
	prevWasOpenParenOrComma := false
	prevWasValueLike := false // name, number, string or closing bracket
	var brackets []string

	for _, tok := range toks {
		if tok.Type == Name || tok.Type == Number || tok.Type == String {
			if prevWantsSpace || prevWasSpaceDelim {
				text.WriteByte(' ')
			}
			text.WriteString(tok.Text)
			prevWantsSpace = false
			prevWasSpaceDelim = true
		} else {
			if tok.Text == "(" || tok.Text == "[" || tok.Text == "{" {
				brackets = append(brackets, tok.Text)
			} else if len(brackets) > 0 && (tok.Text == ")" || tok.Text == "]" || tok.Text == "}") {
				brackets = brackets[:len(brackets)-1]
			}
			wantsBefore := spaceBoth[tok.Text]
			wantsAfter := spaceBoth[tok.Text] || spaceAfterOnly[tok.Text]
			if tok.Text == ":" && len(brackets) > 0 && brackets[len(brackets)-1] == "[" {
				// slice syntax: foo[:10]
				wantsAfter = false
			}
			if (tok.Text == "*" || tok.Text == "**") && prevWasOpenParenOrComma {
				// argument unpacking: foo(*args)
				wantsBefore = false
				wantsAfter = false
			}
			if tok.Text == "=" && len(brackets) > 0 {
				// keyword argument: foo(a=1)
				wantsBefore = false
				wantsAfter = false
			}
			if (tok.Text == "+" || tok.Text == "-") && !prevWasValueLike {
				// unary sign
				wantsBefore = false
				wantsAfter = false
			}
			if prevWantsSpace || wantsBefore {
				text.WriteByte(' ')
			}
			text.WriteString(tok.Text)
			prevWantsSpace = wantsAfter
			prevWasSpaceDelim = false
		}
		prevWasValueLike = tok.Type == Name || tok.Type == Number ||
			tok.Type == String ||
			tok.Text == ")" || tok.Text == "]" || tok.Text == "}"
		prevWasOpenParenOrComma = tok.Text == "(" || tok.Text == ","
	}
	return text.String()
}

// NormalizeCode tokenizes code and reconstructs it in canonical form.
func NormalizeCode(code string) (string, error) {
	toks, err := Tokenize(code)
	if err != nil {
		return "", err
	}
	return Normalize(toks), nil
}
