package expr

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/robbyt/go-calc/platform"
)

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokPercent
	tokCaret
	tokLParen
	tokRParen
	tokComma
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of expression"
	case tokNumber:
		return "number"
	case tokIdent:
		return "name"
	case tokComma:
		return "','"
	default:
		return "operator"
	}
}

type token struct {
	kind tokenKind
	text string
	num  float64
	pos  int
}

type lexer struct {
	src string
	i   int
}

func (l *lexer) errorf(kind platform.ErrorKind, pos int, format string, args ...any) error {
	return platform.NewEvaluationError(kind, l.src, pos, fmt.Errorf(format, args...))
}

func (l *lexer) next() (token, error) {
	for l.i < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.i:])
		if !unicode.IsSpace(r) {
			break
		}
		l.i += size
	}
	if l.i >= len(l.src) {
		return token{kind: tokEOF, pos: l.i}, nil
	}

	start := l.i
	r, size := utf8.DecodeRuneInString(l.src[l.i:])
	if r == utf8.RuneError && size == 1 {
		return token{}, l.errorf(platform.KindSyntax, start, "invalid UTF-8 byte")
	}

	single := func(kind tokenKind) (token, error) {
		l.i += size
		return token{kind: kind, text: l.src[start:l.i], pos: start}, nil
	}

	switch r {
	case '+':
		return single(tokPlus)
	case '-', '−':
		return single(tokMinus)
	case '*':
		if l.i+1 < len(l.src) && l.src[l.i+1] == '*' {
			l.i += 2
			return token{kind: tokCaret, text: "**", pos: start}, nil
		}
		return single(tokStar)
	case '×':
		return single(tokStar)
	case '/', '÷':
		return single(tokSlash)
	case '%':
		return single(tokPercent)
	case '^':
		return single(tokCaret)
	case '(':
		return single(tokLParen)
	case ')':
		return single(tokRParen)
	case ',':
		return single(tokComma)
	case '√', '∛':
		return single(tokIdent)
	}

	if r == '.' || isDigit(r) {
		return l.number()
	}
	if isIdentStart(r) {
		l.i += size
		for l.i < len(l.src) {
			r, size := utf8.DecodeRuneInString(l.src[l.i:])
			if !isIdentContinue(r) {
				break
			}
			l.i += size
		}
		return token{kind: tokIdent, text: l.src[start:l.i], pos: start}, nil
	}

	return token{}, l.errorf(platform.KindSyntax, start, "unexpected character %q", r)
}

func (l *lexer) number() (token, error) {
	start := l.i
	l.i = scanNumber(l.src, l.i)
	text := l.src[start:l.i]

	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) && math.IsInf(v, 0) {
			return token{}, l.errorf(platform.KindOverflow, start, "number %s is too large", text)
		}
		if !errors.Is(err, strconv.ErrRange) {
			return token{}, l.errorf(platform.KindSyntax, start, "malformed number %q", text)
		}
	}
	return token{kind: tokNumber, text: text, num: v, pos: start}, nil
}

// scanNumber returns the end of the number starting at i. An exponent is only
// consumed when digits follow it, so "2e" scans as the number 2.
func scanNumber(s string, i int) int {
	for i < len(s) && isDigit(rune(s[i])) {
		i++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(rune(s[i])) {
			i++
		}
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(rune(s[j])) {
			for j < len(s) && isDigit(rune(s[j])) {
				j++
			}
			i = j
		}
	}
	return i
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinue(r rune) bool {
	return isIdentStart(r) || isDigit(r)
}
