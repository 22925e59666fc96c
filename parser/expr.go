package parser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/gosuda/tinyc/ast"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokInt
	tokFloat
	tokIdent
	tokLParen
	tokRParen
	tokLBracket
	tokRBracket
	tokComma
	tokOp
)

type token struct {
	kind tokenKind
	lit  string
}

const maxExprDepth = 256

// ParseExpr parses one expression. Callers that need the
// "unparseable means zero" rule use parseExprOrBad instead.
func ParseExpr(raw string) (ast.Expr, error) {
	toks, err := tokenizeExpr(raw)
	if err != nil {
		return nil, err
	}
	p := &exprParser{tokens: toks}
	expr, err := p.parse(1)
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, fmt.Errorf("unexpected token %q", p.peek().lit)
	}
	return expr, nil
}

func parseExprOrBad(raw string) ast.Expr {
	e, err := ParseExpr(raw)
	if err != nil {
		return ast.BadExpr{Raw: strings.TrimSpace(raw)}
	}
	return e
}

type exprParser struct {
	tokens []token
	pos    int
	depth  int
}

func (p *exprParser) peek() token {
	if p.pos >= len(p.tokens) {
		return token{kind: tokEOF}
	}
	return p.tokens[p.pos]
}

func (p *exprParser) next() token {
	t := p.peek()
	p.pos++
	return t
}

func (p *exprParser) parse(minPrec int) (ast.Expr, error) {
	p.depth++
	if p.depth > maxExprDepth {
		return nil, fmt.Errorf("expression nesting too deep near token %q", p.peek().lit)
	}
	defer func() { p.depth-- }()

	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.kind != tokOp {
			break
		}
		prec := opPrecedence(tok.lit)
		if prec == 0 || prec < minPrec {
			break
		}
		op := p.next().lit
		next := prec + 1
		if op == "^" {
			next = prec
		}
		right, err := p.parse(next)
		if err != nil {
			return nil, err
		}
		left = ast.BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *exprParser) parsePrefix() (ast.Expr, error) {
	t := p.next()
	switch t.kind {
	case tokInt:
		v, err := strconv.ParseInt(t.lit, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", t.lit)
		}
		return ast.IntLit{Value: v}, nil
	case tokFloat:
		v, err := strconv.ParseFloat(t.lit, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float %q", t.lit)
		}
		return ast.FloatLit{Value: v}, nil
	case tokIdent:
		switch t.lit {
		case "true":
			return ast.BoolLit{Value: true}, nil
		case "false":
			return ast.BoolLit{Value: false}, nil
		}
		if p.peek().kind == tokLParen {
			p.next()
			args, err := p.parseList(tokRParen)
			if err != nil {
				return nil, fmt.Errorf("call %s: %w", t.lit, err)
			}
			return ast.CallExpr{Name: t.lit, Args: args}, nil
		}
		if p.peek().kind == tokLBracket {
			p.next()
			idx, err := p.parse(1)
			if err != nil {
				return nil, fmt.Errorf("invalid index expression for %s: %w", t.lit, err)
			}
			if p.peek().kind != tokRBracket {
				return nil, fmt.Errorf("missing ] after index of %s", t.lit)
			}
			p.next()
			return ast.IndexExpr{Name: t.lit, Index: idx}, nil
		}
		return ast.VarRef{Name: t.lit}, nil
	case tokLParen:
		e, err := p.parse(1)
		if err != nil {
			return nil, err
		}
		if p.peek().kind != tokRParen {
			return nil, fmt.Errorf("missing )")
		}
		p.next()
		return e, nil
	case tokLBracket:
		elems, err := p.parseList(tokRBracket)
		if err != nil {
			return nil, fmt.Errorf("array literal: %w", err)
		}
		return ast.ArrayLit{Elems: elems}, nil
	case tokOp:
		if t.lit == "+" || t.lit == "-" || t.lit == "!" {
			right, err := p.parse(precUnary)
			if err != nil {
				return nil, err
			}
			return ast.UnaryExpr{Op: t.lit, Expr: right}, nil
		}
	}
	if t.kind == tokEOF {
		return nil, fmt.Errorf("unexpected end of expression")
	}
	return nil, fmt.Errorf("unexpected token %q", t.lit)
}

// parseList reads comma separated expressions up to the closing token,
// which it consumes.
func (p *exprParser) parseList(closer tokenKind) ([]ast.Expr, error) {
	out := []ast.Expr{}
	if p.peek().kind == closer {
		p.next()
		return out, nil
	}
	for {
		e, err := p.parse(1)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
		if p.peek().kind == tokComma {
			p.next()
			continue
		}
		if p.peek().kind != closer {
			return nil, fmt.Errorf("missing closing bracket")
		}
		p.next()
		return out, nil
	}
}

const precUnary = 7

func opPrecedence(op string) int {
	switch op {
	case "&&":
		return 1
	case "||":
		return 2
	case "==", "!=":
		return 3
	case "<", "<=", ">", ">=":
		return 4
	case "+", "-":
		return 5
	case "*", "/", "%":
		return 6
	case "^":
		return 8
	default:
		return 0
	}
}

func tokenizeExpr(raw string) ([]token, error) {
	r := []rune(strings.TrimSpace(raw))
	toks := make([]token, 0, len(r)/2+1)
	for i := 0; i < len(r); {
		ch := r[i]
		if unicode.IsSpace(ch) {
			i++
			continue
		}
		if isDigit(ch) || (ch == '.' && i+1 < len(r) && isDigit(r[i+1])) {
			j := i
			for j < len(r) && isDigit(r[j]) {
				j++
			}
			kind := tokInt
			if j < len(r) && r[j] == '.' {
				kind = tokFloat
				j++
				for j < len(r) && isDigit(r[j]) {
					j++
				}
			}
			if j < len(r) && (r[j] == 'e' || r[j] == 'E') {
				k := j + 1
				if k < len(r) && (r[k] == '+' || r[k] == '-') {
					k++
				}
				if k < len(r) && isDigit(r[k]) {
					kind = tokFloat
					for k < len(r) && isDigit(r[k]) {
						k++
					}
					j = k
				}
			}
			if j < len(r) && isIdentStart(r[j]) {
				return nil, fmt.Errorf("invalid number %q", string(r[i:j+1]))
			}
			toks = append(toks, token{kind: kind, lit: string(r[i:j])})
			i = j
			continue
		}
		if isIdentStart(ch) {
			j := i + 1
			for j < len(r) && isIdentPart(r[j]) {
				j++
			}
			toks = append(toks, token{kind: tokIdent, lit: string(r[i:j])})
			i = j
			continue
		}
		switch ch {
		case '(':
			toks = append(toks, token{kind: tokLParen, lit: "("})
			i++
			continue
		case ')':
			toks = append(toks, token{kind: tokRParen, lit: ")"})
			i++
			continue
		case '[':
			toks = append(toks, token{kind: tokLBracket, lit: "["})
			i++
			continue
		case ']':
			toks = append(toks, token{kind: tokRBracket, lit: "]"})
			i++
			continue
		case ',':
			toks = append(toks, token{kind: tokComma, lit: ","})
			i++
			continue
		}
		// Two-character operators first so ">=" never splits into ">" "=".
		if i+1 < len(r) {
			two := string(r[i : i+2])
			switch two {
			case "==", "!=", ">=", "<=", "&&", "||":
				toks = append(toks, token{kind: tokOp, lit: two})
				i += 2
				continue
			}
		}
		switch ch {
		case '+', '-', '*', '/', '%', '^', '<', '>', '!':
			toks = append(toks, token{kind: tokOp, lit: string(ch)})
			i++
		default:
			return nil, fmt.Errorf("unexpected character %q", ch)
		}
	}
	toks = append(toks, token{kind: tokEOF})
	return toks, nil
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
