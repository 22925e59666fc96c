package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gosuda/tinyc"
	"github.com/gosuda/tinyc/ast"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: go run ./cmd/debug_ast <file>")
		os.Exit(2)
	}
	b, err := os.ReadFile(os.Args[1])
	if err != nil {
		panic(err)
	}
	prog, err := tinyc.Parse(os.Args[1], string(b))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	dumpProgram(os.Stdout, prog)
}

func dumpProgram(w io.Writer, prog *ast.Program) {
	fmt.Fprintf(w, "file=%s stmts=%d skipped=%d\n", prog.File, len(prog.Body.Statements), len(prog.Skipped))
	dumpBlock(w, prog.Body, 1)
	for _, s := range prog.Skipped {
		fmt.Fprintf(w, "skip line %d %q: %s\n", s.Line, s.Text, s.Reason)
	}
}

func dumpBlock(w io.Writer, b *ast.Block, depth int) {
	if b == nil {
		return
	}
	for _, st := range b.Statements {
		dumpStmt(w, st, depth)
	}
}

func dumpStmt(w io.Writer, st ast.Statement, depth int) {
	pad := strings.Repeat("  ", depth)
	switch s := st.(type) {
	case ast.DeclStmt:
		fmt.Fprintf(w, "%sDecl %s type=%q init=%s\n", pad, s.Name, s.Type, exprString(s.Init))
	case ast.AssignStmt:
		target := s.Target
		if s.Index != nil {
			target += "[" + exprString(s.Index) + "]"
		}
		fmt.Fprintf(w, "%sAssign %s %s %s\n", pad, target, s.Op, exprString(s.Expr))
	case ast.IncDecStmt:
		fmt.Fprintf(w, "%sIncDec %s%s\n", pad, s.Target, s.Op)
	case ast.InstrStmt:
		args := make([]string, len(s.Args))
		for i, a := range s.Args {
			args[i] = exprString(a)
		}
		fmt.Fprintf(w, "%sInstr %s %s %s\n", pad, s.Op, s.Dest, strings.Join(args, " "))
	case ast.PrintStmt:
		fmt.Fprintf(w, "%sPrint %s\n", pad, exprString(s.Expr))
	case ast.CallStmt:
		fmt.Fprintf(w, "%sCall %s\n", pad, exprString(s.Call))
	case ast.IfStmt:
		fmt.Fprintf(w, "%sIf branches=%d else=%v\n", pad, len(s.Branches), s.Else != nil)
		for _, br := range s.Branches {
			fmt.Fprintf(w, "%s  when %s\n", pad, exprString(br.Cond))
			dumpBlock(w, br.Body, depth+2)
		}
		if s.Else != nil {
			fmt.Fprintf(w, "%s  else\n", pad)
			dumpBlock(w, s.Else, depth+2)
		}
	case ast.ForStmt:
		fmt.Fprintf(w, "%sFor %s = %s while %s\n", pad, s.Var, exprString(s.Init), exprString(s.Cond))
		if s.Incr != nil {
			dumpStmt(w, s.Incr, depth+1)
		}
		dumpBlock(w, s.Body, depth+1)
	case ast.ForeachStmt:
		fmt.Fprintf(w, "%sForeach %s in %s\n", pad, s.Var, s.Array)
		dumpBlock(w, s.Body, depth+1)
	case ast.MatchStmt:
		fmt.Fprintf(w, "%sMatch %s cases=%d\n", pad, exprString(s.Subject), len(s.Cases))
		for _, c := range s.Cases {
			pat := "_"
			if !c.Wildcard {
				pat = exprString(c.Pattern)
			}
			fmt.Fprintf(w, "%s  case %s\n", pad, pat)
			dumpStmt(w, c.Action, depth+2)
		}
	default:
		fmt.Fprintf(w, "%s%T\n", pad, st)
	}
}

func exprString(e ast.Expr) string {
	switch x := e.(type) {
	case nil:
		return "<nil>"
	case ast.IntLit:
		return fmt.Sprint(x.Value)
	case ast.FloatLit:
		return fmt.Sprint(x.Value)
	case ast.BoolLit:
		return fmt.Sprint(x.Value)
	case ast.VarRef:
		return x.Name
	case ast.IndexExpr:
		return x.Name + "[" + exprString(x.Index) + "]"
	case ast.ArrayLit:
		parts := make([]string, len(x.Elems))
		for i, el := range x.Elems {
			parts[i] = exprString(el)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case ast.UnaryExpr:
		return "(" + x.Op + exprString(x.Expr) + ")"
	case ast.BinaryExpr:
		return "(" + exprString(x.Left) + " " + x.Op + " " + exprString(x.Right) + ")"
	case ast.CallExpr:
		parts := make([]string, len(x.Args))
		for i, a := range x.Args {
			parts[i] = exprString(a)
		}
		return x.Name + "(" + strings.Join(parts, ", ") + ")"
	case ast.BadExpr:
		return "<bad " + x.Raw + ">"
	default:
		return fmt.Sprintf("%T", e)
	}
}
