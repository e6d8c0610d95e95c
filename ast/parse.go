package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rubiojr/facet/tokens"
)

// Parse tokenizes and parses a single expression. Trailing tokens after a
// complete expression are a syntax error.
func Parse(code string) (Expr, error) {
	toks, err := tokens.Tokenize(code)
	if err != nil {
		return nil, err
	}
	return ParseTokens(toks)
}

// ParseTokens parses a complete expression from a token list.
func ParseTokens(toks []tokens.Token) (Expr, error) {
	p := &parser{toks: toks}
	expr, err := p.comparison()
	if err != nil {
		return nil, err
	}
	if !p.atEnd() {
		return nil, p.errorf("unexpected token %q", p.peek().Text)
	}
	return expr, nil
}

type parser struct {
	toks []tokens.Token
	pos  int
}

func (p *parser) atEnd() bool        { return p.pos >= len(p.toks) }
func (p *parser) peek() tokens.Token { return p.toks[p.pos] }

func (p *parser) advance() tokens.Token {
	t := p.toks[p.pos]
	p.pos++
	return t
}

func (p *parser) errorf(format string, args ...any) error {
	off := -1
	if !p.atEnd() {
		off = p.peek().Pos
	}
	if off >= 0 {
		return fmt.Errorf("parse: %s (offset %d)", fmt.Sprintf(format, args...), off)
	}
	return fmt.Errorf("parse: %s (at end of input)", fmt.Sprintf(format, args...))
}

// match consumes the next token if it is an Op with one of the given texts.
func (p *parser) match(texts ...string) (string, bool) {
	if p.atEnd() || p.peek().Type != tokens.Op {
		return "", false
	}
	for _, text := range texts {
		if p.peek().Text == text {
			p.advance()
			return text, true
		}
	}
	return "", false
}

func (p *parser) expect(text string) error {
	if _, ok := p.match(text); !ok {
		return p.errorf("expected %q", text)
	}
	return nil
}

func (p *parser) comparison() (Expr, error) {
	x, err := p.additive()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.match("==", "!=", "<>", "<=", ">=", "<", ">")
		if !ok {
			return x, nil
		}
		y, err := p.additive()
		if err != nil {
			return nil, err
		}
		x = &Binary{Op: op, X: x, Y: y}
	}
}

func (p *parser) additive() (Expr, error) {
	x, err := p.multiplicative()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.match("+", "-")
		if !ok {
			return x, nil
		}
		y, err := p.multiplicative()
		if err != nil {
			return nil, err
		}
		x = &Binary{Op: op, X: x, Y: y}
	}
}

func (p *parser) multiplicative() (Expr, error) {
	x, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.match("*", "/", "//", "%")
		if !ok {
			return x, nil
		}
		y, err := p.unary()
		if err != nil {
			return nil, err
		}
		x = &Binary{Op: op, X: x, Y: y}
	}
}

func (p *parser) unary() (Expr, error) {
	if op, ok := p.match("+", "-"); ok {
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: op, X: x}, nil
	}
	return p.power()
}

// power parses '**'. It is right associative and its right operand may be
// signed: 2 ** -1 parses, and -2 ** 2 negates the whole power.
func (p *parser) power() (Expr, error) {
	x, err := p.postfix()
	if err != nil {
		return nil, err
	}
	if _, ok := p.match("**"); ok {
		y, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &Binary{Op: "**", X: x, Y: y}, nil
	}
	return x, nil
}

func (p *parser) postfix() (Expr, error) {
	x, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.matchPeek("("):
			p.advance()
			args, err := p.callArgs()
			if err != nil {
				return nil, err
			}
			x = &Call{Fn: x, Args: args}
		case p.matchPeek("."):
			p.advance()
			if p.atEnd() || p.peek().Type != tokens.Name {
				return nil, p.errorf("expected attribute name after '.'")
			}
			x = &Attr{X: x, Name: p.advance().Text}
		case p.matchPeek("["):
			p.advance()
			idx, err := p.comparison()
			if err != nil {
				return nil, err
			}
			if err := p.expect("]"); err != nil {
				return nil, err
			}
			x = &Index{X: x, Index: idx}
		default:
			return x, nil
		}
	}
}

func (p *parser) matchPeek(text string) bool {
	return !p.atEnd() && p.peek().Type == tokens.Op && p.peek().Text == text
}

// callArgs parses a comma-separated argument list up to the closing paren.
// An argument of the form name=expr is a keyword argument.
func (p *parser) callArgs() ([]Arg, error) {
	var args []Arg
	if _, ok := p.match(")"); ok {
		return args, nil
	}
	for {
		arg := Arg{}
		if !p.atEnd() && p.peek().Type == tokens.Name &&
			p.pos+1 < len(p.toks) && p.toks[p.pos+1].Type == tokens.Op &&
			p.toks[p.pos+1].Text == "=" {
			arg.Name = p.advance().Text
			p.advance() // '='
		}
		value, err := p.comparison()
		if err != nil {
			return nil, err
		}
		arg.Value = value
		args = append(args, arg)
		if _, ok := p.match(","); ok {
			continue
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return args, nil
	}
}

func (p *parser) primary() (Expr, error) {
	if p.atEnd() {
		return nil, p.errorf("expected expression")
	}
	tok := p.peek()
	switch tok.Type {
	case tokens.Number:
		p.advance()
		v, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, fmt.Errorf("parse: bad number %q (offset %d)", tok.Text, tok.Pos)
		}
		return &NumberLit{Value: v}, nil
	case tokens.String:
		p.advance()
		return &StringLit{Value: unquote(tok.Text)}, nil
	case tokens.Name:
		p.advance()
		return &Ident{Name: tok.Text, Pos: tok.Pos}, nil
	case tokens.Op:
		if tok.Text == "(" {
			p.advance()
			x, err := p.comparison()
			if err != nil {
				return nil, err
			}
			if err := p.expect(")"); err != nil {
				return nil, err
			}
			return x, nil
		}
	}
	return nil, p.errorf("unexpected token %q", tok.Text)
}

// unquote strips the surrounding quotes and resolves backslash escapes.
// The tokenizer guarantees the literal is well formed.
func unquote(lit string) string {
	body := lit[1 : len(lit)-1]
	if !strings.ContainsRune(body, '\\') {
		return body
	}
	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		ch := body[i]
		if ch != '\\' || i+1 >= len(body) {
			sb.WriteByte(ch)
			continue
		}
		i++
		switch body[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		default:
			sb.WriteByte(body[i])
		}
	}
	return sb.String()
}
