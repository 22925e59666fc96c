package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gosuda/tinyc/ast"
)

// ErrNestingTooDeep is returned when blocks nest deeper than the parser
// allows.
var ErrNestingTooDeep = errors.New("block nesting too deep")

const maxBlockDepth = 256

var instrArity = map[string]int{
	"ADD": 3,
	"SUB": 3,
	"MUL": 3,
	"DIV": 3,
	"MOD": 3,
	"AND": 3,
	"OR":  3,
	"PLE": 2,
	"MIE": 2,
	"INC": 1,
	"DEC": 1,
}

var typeNames = map[string]struct{}{
	"int":   {},
	"float": {},
	"bool":  {},
	"array": {},
}

type stmtParser struct {
	skipped []ast.Skipped
	depth   int
}

func (p *stmtParser) skip(line Line, reason string) {
	p.skipped = append(p.skipped, ast.Skipped{Line: line.Number, Text: line.Content, Reason: reason})
}

func (p *stmtParser) parseBlock(lines []Line) (*ast.Block, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxBlockDepth {
		if len(lines) > 0 {
			return nil, fmt.Errorf("%s:%d: %w", lines[0].File, lines[0].Number, ErrNestingTooDeep)
		}
		return nil, ErrNestingTooDeep
	}
	stmts := make([]ast.Statement, 0, len(lines))
	for idx := 0; idx < len(lines); {
		stmt, consumed, err := p.parseStatement(lines, idx)
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
		idx += consumed
	}
	return &ast.Block{Statements: stmts}, nil
}

func (p *stmtParser) parseStatement(lines []Line, index int) (ast.Statement, int, error) {
	line := lines[index]
	content := line.Content
	switch {
	case strings.HasPrefix(content, "}"):
		if content != "}" {
			p.skip(line, "else without if")
		}
		return nil, 1, nil
	case startsWithWord(content, "if"):
		return p.parseIf(lines, index)
	case startsWithWord(content, "for"):
		return p.parseFor(lines, index)
	case startsWithWord(content, "foreach"):
		return p.parseForeach(lines, index)
	case startsWithWord(content, "match"):
		return p.parseMatch(lines, index)
	case startsWithWord(content, "else"):
		p.skip(line, "else without if")
		return nil, 1, nil
	}
	stmt, reason := parseSimple(content)
	if stmt == nil {
		p.skip(line, reason)
		return nil, 1, nil
	}
	return stmt, 1, nil
}

// headerInner extracts the parenthesised part of `kw (inner) {`.
func headerInner(content, kw string) (string, bool) {
	rest, ok := hasKeyword(content, kw)
	if !ok {
		return "", false
	}
	rest, ok = strings.CutSuffix(rest, "{")
	if !ok {
		return "", false
	}
	rest = strings.TrimSpace(rest)
	if len(rest) < 2 || rest[0] != '(' || rest[len(rest)-1] != ')' {
		return "", false
	}
	inner := strings.TrimSpace(rest[1 : len(rest)-1])
	return inner, inner != ""
}

func consumedTo(lines []Line, from, close int) int {
	if close >= len(lines) {
		return len(lines) - from
	}
	return close + 1 - from
}

func (p *stmtParser) parseIf(lines []Line, from int) (ast.Statement, int, error) {
	raw, ok := headerInner(lines[from].Content, "if")
	if !ok {
		p.skip(lines[from], "malformed if header")
		return nil, 1, nil
	}
	span := ScanBlock(lines, from)
	body, err := p.parseBlock(span.Body)
	if err != nil {
		return nil, 0, err
	}
	stmt := ast.IfStmt{Branches: []ast.IfBranch{{Cond: parseExprOrBad(raw), Body: body}}}

	idx := span.Close
	for idx < len(lines) {
		var rest string
		switch {
		case isElseLine(lines[idx].Content):
			rest = strings.TrimSpace(strings.TrimPrefix(lines[idx].Content, "}"))
		case lines[idx].Content == "}" && idx+1 < len(lines) && startsWithWord(lines[idx+1].Content, "else"):
			idx++
			rest = lines[idx].Content
		default:
			return stmt, consumedTo(lines, from, idx), nil
		}
		after, _ := hasKeyword(rest, "else")
		if startsWithWord(after, "if") {
			condRaw, ok := headerInner(after, "if")
			if !ok {
				p.skip(lines[idx], "malformed else if header")
				return stmt, consumedTo(lines, from, idx), nil
			}
			span = ScanBlock(lines, idx)
			body, err := p.parseBlock(span.Body)
			if err != nil {
				return nil, 0, err
			}
			stmt.Branches = append(stmt.Branches, ast.IfBranch{Cond: parseExprOrBad(condRaw), Body: body})
			idx = span.Close
			continue
		}
		if after != "{" {
			p.skip(lines[idx], "malformed else header")
			return stmt, consumedTo(lines, from, idx), nil
		}
		span = ScanBlock(lines, idx)
		elseBody, err := p.parseBlock(span.Body)
		if err != nil {
			return nil, 0, err
		}
		stmt.Else = elseBody
		return stmt, consumedTo(lines, from, span.Close), nil
	}
	return stmt, consumedTo(lines, from, idx), nil
}

func (p *stmtParser) parseFor(lines []Line, from int) (ast.Statement, int, error) {
	raw, ok := headerInner(lines[from].Content, "for")
	if !ok {
		p.skip(lines[from], "malformed for header")
		return nil, 1, nil
	}
	parts := splitTopLevel(raw, ';')
	if len(parts) != 3 || parts[1] == "" {
		p.skip(lines[from], "for header needs init; cond; incr")
		return nil, 1, nil
	}
	name, init, ok := parseForInit(parts[0])
	if !ok {
		p.skip(lines[from], "malformed for initializer")
		return nil, 1, nil
	}
	incr, _ := parseSimple(parts[2])

	span := ScanBlock(lines, from)
	body, err := p.parseBlock(span.Body)
	if err != nil {
		return nil, 0, err
	}
	return ast.ForStmt{
		Var:  name,
		Init: init,
		Cond: parseExprOrBad(parts[1]),
		Incr: incr,
		Body: body,
	}, consumedTo(lines, from, span.Close), nil
}

func parseForInit(raw string) (string, ast.Expr, bool) {
	raw = strings.TrimSpace(raw)
	isVar := false
	for _, kw := range []string{"int", "float", "bool", "var"} {
		if rest, ok := hasKeyword(raw, kw); ok {
			raw = rest
			isVar = kw == "var"
			break
		}
	}
	a := splitAssign(raw)
	if a == nil || a.Op != "=" {
		return "", nil, false
	}
	name := a.Left
	if isVar {
		n, typ := splitNameAndRest(name)
		if _, ok := typeNames[typ]; typ != "" && !ok {
			return "", nil, false
		}
		name = n
	}
	if !isIdentifier(name) {
		return "", nil, false
	}
	return name, parseExprOrBad(a.Right), true
}

func (p *stmtParser) parseForeach(lines []Line, from int) (ast.Statement, int, error) {
	raw, ok := headerInner(lines[from].Content, "foreach")
	if !ok {
		p.skip(lines[from], "malformed foreach header")
		return nil, 1, nil
	}
	fields := strings.Fields(raw)
	if len(fields) != 3 || fields[1] != "in" || !isIdentifier(fields[0]) || !isIdentifier(fields[2]) {
		p.skip(lines[from], "foreach header needs (name in array)")
		return nil, 1, nil
	}
	span := ScanBlock(lines, from)
	body, err := p.parseBlock(span.Body)
	if err != nil {
		return nil, 0, err
	}
	return ast.ForeachStmt{Var: fields[0], Array: fields[2], Body: body}, consumedTo(lines, from, span.Close), nil
}

func (p *stmtParser) parseMatch(lines []Line, from int) (ast.Statement, int, error) {
	rest, _ := hasKeyword(lines[from].Content, "match")
	subjectRaw, ok := strings.CutSuffix(rest, "{")
	subjectRaw = strings.TrimSpace(subjectRaw)
	if !ok || subjectRaw == "" {
		p.skip(lines[from], "malformed match header")
		return nil, 1, nil
	}
	span := ScanBlock(lines, from)
	stmt := ast.MatchStmt{Subject: parseExprOrBad(subjectRaw)}
	depth := 0
	for _, line := range span.Body {
		if depth == 0 {
			if c, ok := parseCase(line.Content); ok {
				stmt.Cases = append(stmt.Cases, c)
			} else {
				p.skip(line, "not a match case")
			}
		}
		depth += strings.Count(line.Content, "{") - strings.Count(line.Content, "}")
		if depth < 0 {
			depth = 0
		}
	}
	return stmt, consumedTo(lines, from, span.Close), nil
}

func parseCase(content string) (ast.MatchCase, bool) {
	i := indexTopLevel(content, "->")
	if i < 0 {
		return ast.MatchCase{}, false
	}
	pattern := strings.TrimSpace(content[:i])
	action := strings.TrimSpace(strings.TrimRight(content[i+2:], ",; \t"))
	if pattern == "" {
		return ast.MatchCase{}, false
	}
	c := ast.MatchCase{}
	if pattern == "_" {
		c.Wildcard = true
	} else {
		c.Pattern = parseExprOrBad(pattern)
	}
	c.Action, _ = parseSimple(action)
	return c, true
}

// parseSimple classifies a single non-block statement. It returns nil and
// a reason when the line is not a statement; such lines are no-ops.
func parseSimple(content string) (ast.Statement, string) {
	content = strings.TrimSpace(strings.TrimRight(content, "; \t"))
	if content == "" {
		return nil, "empty statement"
	}
	if stmt, matched, reason := parseDecl(content); matched {
		return stmt, reason
	}
	if a := splitAssign(content); a != nil {
		return parseAssign(a)
	}
	if inc := splitIncDec(content); inc != nil {
		return ast.IncDecStmt{Target: inc.Name, Op: inc.Op}, ""
	}
	if fields := fieldsOperands(content); len(fields) > 0 {
		if n, ok := instrArity[fields[0]]; ok {
			return parseInstr(fields, n)
		}
	}
	if rest, ok := hasKeyword(content, "print"); ok {
		if len(rest) < 2 || rest[0] != '(' || rest[len(rest)-1] != ')' {
			return nil, "malformed print"
		}
		inner := strings.TrimSpace(rest[1 : len(rest)-1])
		if inner == "" {
			return nil, "empty print"
		}
		return ast.PrintStmt{Expr: parseExprOrBad(inner)}, ""
	}
	if name, rest := splitNameAndRest(content); isIdentifier(name) && strings.HasPrefix(rest, "(") {
		if call, ok := parseExprOrBad(content).(ast.CallExpr); ok {
			return ast.CallStmt{Call: call}, ""
		}
		return nil, "malformed call"
	}
	return nil, "unrecognised statement"
}

func parseDecl(content string) (ast.Statement, bool, string) {
	var decl ast.DeclStmt
	rest, isVar := hasKeyword(content, "var")
	if !isVar {
		for kw := range typeNames {
			if r, ok := hasKeyword(content, kw); ok {
				rest = r
				decl.Type = kw
				break
			}
		}
		if decl.Type == "" {
			return nil, false, ""
		}
	}
	left := rest
	if a := splitAssign(rest); a != nil {
		if a.Op != "=" {
			return nil, true, "malformed declaration"
		}
		left = a.Left
		decl.Init = parseExprOrBad(a.Right)
	}
	fields := strings.Fields(left)
	switch {
	case len(fields) == 1:
		decl.Name = fields[0]
	case len(fields) == 2 && isVar:
		if _, ok := typeNames[fields[1]]; !ok {
			return nil, true, "unknown type " + fields[1]
		}
		decl.Name, decl.Type = fields[0], fields[1]
	default:
		return nil, true, "malformed declaration"
	}
	if !isIdentifier(decl.Name) {
		return nil, true, "invalid variable name"
	}
	return decl, true, ""
}

func parseAssign(a *assignParts) (ast.Statement, string) {
	if a.Right == "" {
		return nil, "missing assignment value"
	}
	value := parseExprOrBad(a.Right)
	if isIdentifier(a.Left) {
		return ast.AssignStmt{Target: a.Left, Op: a.Op, Expr: value}, ""
	}
	name, rest := splitNameAndRest(a.Left)
	if isIdentifier(name) && len(rest) >= 2 && rest[0] == '[' && rest[len(rest)-1] == ']' {
		return ast.AssignStmt{
			Target: name,
			Index:  parseExprOrBad(rest[1 : len(rest)-1]),
			Op:     a.Op,
			Expr:   value,
		}, ""
	}
	return nil, "invalid assignment target"
}

func parseInstr(fields []string, arity int) (ast.Statement, string) {
	op := fields[0]
	if len(fields)-1 != arity {
		return nil, fmt.Sprintf("%s takes %d operands", op, arity)
	}
	if !isIdentifier(fields[1]) {
		return nil, fmt.Sprintf("%s destination must be a name", op)
	}
	args := make([]ast.Expr, 0, arity-1)
	for _, raw := range fields[2:] {
		args = append(args, parseOperand(raw))
	}
	return ast.InstrStmt{Op: op, Dest: fields[1], Args: args}, ""
}

// parseOperand accepts only the bare operand forms pseudo-instructions
// read: literals, names and array elements. Anything else reads as 0.
func parseOperand(raw string) ast.Expr {
	e, err := ParseExpr(raw)
	if err != nil {
		return ast.IntLit{Value: 0}
	}
	switch ex := e.(type) {
	case ast.IntLit, ast.FloatLit, ast.BoolLit, ast.VarRef, ast.IndexExpr:
		return e
	case ast.UnaryExpr:
		switch ex.Expr.(type) {
		case ast.IntLit, ast.FloatLit:
			if ex.Op == "-" {
				return e
			}
		}
	}
	return ast.IntLit{Value: 0}
}
