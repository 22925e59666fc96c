package tinyc

import (
	"context"

	"github.com/gosuda/tinyc/ast"
	"github.com/gosuda/tinyc/parser"
	tcruntime "github.com/gosuda/tinyc/runtime"
)

// Compile parses src and builds a VM instance with an empty environment.
// file only names the source in diagnostics.
func Compile(file, src string) (*tcruntime.VM, error) {
	program, err := parser.ParseProgram(file, src)
	if err != nil {
		return nil, err
	}
	return tcruntime.New(program)
}

// Parse only returns AST program for tooling use.
func Parse(file, src string) (*ast.Program, error) {
	return parser.ParseProgram(file, src)
}

// Run compiles and executes src against env (a fresh one when nil) and
// returns the printed output together with the final environment.
func Run(ctx context.Context, file, src string, env *tcruntime.Env) ([]tcruntime.Output, *tcruntime.Env, error) {
	vm, err := Compile(file, src)
	if err != nil {
		return nil, env, err
	}
	if env != nil {
		vm.SetEnv(env)
	}
	out, err := vm.Run(ctx)
	return out, vm.Env(), err
}
