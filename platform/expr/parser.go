package expr

import (
	"fmt"
	"strings"

	"github.com/robbyt/go-calc/platform"
)

// MaxDepth bounds parenthesis and operator nesting so hostile input cannot exhaust the stack.
const MaxDepth = 256

type parser struct {
	lex   lexer
	tok   token
	depth int
}

// Parse turns an expression into an AST. Grammar, lowest precedence first:
//
//	expr    = term { ("+" | "-") term }
//	term    = unary { ("*" | "/" | "%") unary }
//	unary   = ("+" | "-") unary | power
//	power   = primary [ ("^" | "**") unary ]
//	primary = number | name | name "(" expr ")" | "(" expr ")"
//
// Power is right associative and binds tighter than a leading sign, so -2^2 is -4.
// Every failure is a *platform.EvaluationError of kind KindSyntax or KindOverflow.
func Parse(expression string) (Node, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, platform.NewEvaluationError(
			platform.KindSyntax, expression, 0, fmt.Errorf("empty expression"))
	}

	p := &parser{lex: lexer{src: expression}}
	if err := p.advance(); err != nil {
		return nil, err
	}

	n, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, p.unexpected()
	}
	return n, nil
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) errorf(pos int, format string, args ...any) error {
	return platform.NewEvaluationError(platform.KindSyntax, p.lex.src, pos, fmt.Errorf(format, args...))
}

func (p *parser) unexpected() error {
	switch p.tok.kind {
	case tokEOF:
		return p.errorf(p.tok.pos, "unexpected end of expression")
	case tokComma:
		return p.errorf(p.tok.pos, "functions take exactly one argument")
	default:
		return p.errorf(p.tok.pos, "unexpected %s %q", p.tok.kind, p.tok.text)
	}
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > MaxDepth {
		return p.errorf(p.tok.pos, "expression nested too deeply")
	}
	return nil
}

func (p *parser) leave() {
	p.depth--
}

func (p *parser) parseExpr() (Node, error) {
	x, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokPlus || p.tok.kind == tokMinus {
		op, pos := OpAdd, p.tok.pos
		if p.tok.kind == tokMinus {
			op = OpSub
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		y, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		x = &Binary{Op: op, X: x, Y: y, At: pos}
	}
	return x, nil
}

func (p *parser) parseTerm() (Node, error) {
	x, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		var op Op
		switch p.tok.kind {
		case tokStar:
			op = OpMul
		case tokSlash:
			op = OpDiv
		case tokPercent:
			op = OpMod
		default:
			return x, nil
		}
		pos := p.tok.pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		y, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		x = &Binary{Op: op, X: x, Y: y, At: pos}
	}
}

func (p *parser) parseUnary() (Node, error) {
	if p.tok.kind != tokPlus && p.tok.kind != tokMinus {
		return p.parsePower()
	}
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	op, pos := OpPos, p.tok.pos
	if p.tok.kind == tokMinus {
		op = OpNeg
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	x, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &Unary{Op: op, X: x, At: pos}, nil
}

func (p *parser) parsePower() (Node, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokCaret {
		return base, nil
	}
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	pos := p.tok.pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &Binary{Op: OpPow, X: base, Y: exp, At: pos}, nil
}

func (p *parser) parsePrimary() (Node, error) {
	tok := p.tok
	switch tok.kind {
	case tokNumber:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Number{Value: tok.num, Text: tok.text, At: tok.pos}, nil

	case tokIdent:
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.kind != tokLParen {
			return &Ident{Name: tok.text, At: tok.pos}, nil
		}
		arg, err := p.parseGroup()
		if err != nil {
			return nil, err
		}
		return &Call{Func: tok.text, Arg: arg, At: tok.pos}, nil

	case tokLParen:
		return p.parseGroup()

	default:
		return nil, p.unexpected()
	}
}

// parseGroup parses "(" expr ")" starting at the open parenthesis.
func (p *parser) parseGroup() (Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	open := p.tok.pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	x, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.tok.kind == tokEOF {
		return nil, p.errorf(open, "unclosed parenthesis")
	}
	if p.tok.kind != tokRParen {
		return nil, p.unexpected()
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return x, nil
}
