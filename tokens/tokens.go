// Package tokens implements the token-level code analysis that factor
// scheduling is built on: an expression tokenizer, a canonical spacing
// normalizer, an annotator that classifies identifiers as bare references
// or bare calls, a call-site rewriter, and a balanced-bracket call capturer.
//
// There is deliberately no grammar here. Everything operates on the flat
// token stream, which is enough to rewrite call sites and to extract
// complete call expressions by bracket counting.
package tokens

import (
	"fmt"

	"github.com/rubiojr/facet/scanner"
)

// Type classifies a Token.
type Type uint8

const (
	Name   Type = iota // identifier
	Number             // numeric literal
	String             // quoted string literal, quotes included
	Op                 // operator, bracket, comma, dot, colon
)

func (t Type) String() string {
	switch t {
	case Name:
		return "name"
	case Number:
		return "number"
	case String:
		return "string"
	case Op:
		return "op"
	}
	return "unknown"
}

// Token is one lexical unit of an expression. Immutable once produced.
type Token struct {
	Type Type
	Text string
	Pos  int // byte offset of the first character in the original source
}

// multi-character operators, longest first. Matched before single bytes.
var multiOps = []string{
	"**=", "//=", "<<=", ">>=",
	"**", "//", "<<", ">>", "<=", ">=", "==", "!=", "<>",
	"+=", "-=", "*=", "/=", "%=", "&=", "^=", "|=",
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentByte(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func isOpByte(ch byte) bool {
	switch ch {
	case '+', '-', '*', '/', '%', '~', '<', '>', '=', '&', '^', '|', '!',
		'(', ')', '[', ']', '{', '}', ',', ':', '.':
		return true
	}
	return false
}

// Tokenize lexes an expression string into tokens. Whitespace separates
// tokens and is otherwise discarded. An unexpected character or an
// unterminated string literal is an error.
func Tokenize(code string) ([]Token, error) {
	var toks []Token
	i := 0
	for i < len(code) {
		ch := code[i]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			i++
		case isIdentStart(ch):
			start := i
			for i < len(code) && isIdentByte(code[i]) {
				i++
			}
			toks = append(toks, Token{Type: Name, Text: code[start:i], Pos: start})
		case isDigit(ch) || (ch == '.' && i+1 < len(code) && isDigit(code[i+1])):
			start := i
			i = scanNumber(code, i)
			toks = append(toks, Token{Type: Number, Text: code[start:i], Pos: start})
		case ch == '"' || ch == '\'':
			start := i
			end, err := scanString(code, i)
			if err != nil {
				return nil, err
			}
			i = end
			toks = append(toks, Token{Type: String, Text: code[start:i], Pos: start})
		case isOpByte(ch):
			if op, ok := matchMultiOp(code, i); ok {
				toks = append(toks, Token{Type: Op, Text: op, Pos: i})
				i += len(op)
			} else {
				toks = append(toks, Token{Type: Op, Text: string(ch), Pos: i})
				i++
			}
		default:
			return nil, fmt.Errorf("tokenize: unexpected character %q at offset %d", ch, i)
		}
	}
	return toks, nil
}

// scanNumber consumes an integer or floating point literal starting at i.
// Accepts digits, at most one decimal point, and an exponent suffix.
func scanNumber(code string, i int) int {
	for i < len(code) && isDigit(code[i]) {
		i++
	}
	if i < len(code) && code[i] == '.' {
		// "1.method" style attribute access does not exist for number
		// literals in this language; a dot always extends the literal.
		i++
		for i < len(code) && isDigit(code[i]) {
			i++
		}
	}
	if i < len(code) && (code[i] == 'e' || code[i] == 'E') {
		j := i + 1
		if j < len(code) && (code[j] == '+' || code[j] == '-') {
			j++
		}
		if j < len(code) && isDigit(code[j]) {
			i = j
			for i < len(code) && isDigit(code[i]) {
				i++
			}
		}
	}
	return i
}

// scanString consumes a quoted string starting at i using the byte scanner's
// escape tracking. Returns the offset just past the closing quote.
func scanString(code string, i int) (int, error) {
	sc := scanner.New(code[i:])
	if _, ok := sc.Next(); !ok {
		return i, fmt.Errorf("tokenize: unterminated string at offset %d", i)
	}
	for {
		_, ok := sc.Next()
		if !ok {
			return i, fmt.Errorf("tokenize: unterminated string at offset %d", i)
		}
		if sc.Closing() {
			return i + sc.Pos() + 1, nil
		}
	}
}

func matchMultiOp(code string, i int) (string, bool) {
	for _, op := range multiOps {
		if len(code)-i >= len(op) && code[i:i+len(op)] == op {
			return op, true
		}
	}
	return "", false
}
