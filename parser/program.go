package parser

import (
	"github.com/gosuda/tinyc/ast"
)

// ParseProgram splits src into statement lines and parses them into a
// program tree. Lines that are not statements are recorded in
// Program.Skipped; the only error is ErrNestingTooDeep.
func ParseProgram(file, src string) (*ast.Program, error) {
	lines := SplitLines(file, src)
	p := &stmtParser{}
	body, err := p.parseBlock(lines)
	if err != nil {
		return nil, err
	}
	return &ast.Program{
		File:    file,
		Body:    body,
		Skipped: p.skipped,
	}, nil
}
