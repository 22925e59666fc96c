package tcruntime

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gosuda/tinyc/ast"
)

type Output struct {
	Text    string `json:"text"`
	NewLine bool   `json:"newline"`
}

type VM struct {
	program *ast.Program
	env     *Env
	outputs []Output
	hook    func(Output)
	log     zerolog.Logger
}

func New(program *ast.Program) (*VM, error) {
	if program == nil || program.Body == nil {
		return nil, fmt.Errorf("no program to run")
	}
	return &VM{
		program: program,
		env:     NewEnv(),
		log:     zerolog.Nop(),
	}, nil
}

// SetOutputHook registers fn to receive every print as it happens, in
// addition to the list Run returns.
func (vm *VM) SetOutputHook(fn func(Output)) {
	vm.hook = fn
}

func (vm *VM) SetLogger(log zerolog.Logger) {
	vm.log = log
}

func (vm *VM) Env() *Env {
	return vm.env
}

// SetEnv replaces the variable environment, e.g. with a loaded snapshot.
func (vm *VM) SetEnv(env *Env) {
	if env == nil {
		env = NewEnv()
	}
	vm.env = env
}

// Run executes the compiled program against the VM's environment. On
// cancellation it returns the output produced so far with ctx's error.
func (vm *VM) Run(ctx context.Context) ([]Output, error) {
	return vm.Exec(ctx, vm.program)
}

// Exec runs another parsed program against the same environment; the
// REPL feeds each submission through it.
func (vm *VM) Exec(ctx context.Context, program *ast.Program) ([]Output, error) {
	vm.outputs = vm.outputs[:0]
	for _, sk := range program.Skipped {
		vm.log.Debug().
			Str("file", program.File).
			Int("line", sk.Line).
			Str("text", sk.Text).
			Str("reason", sk.Reason).
			Msg("skipped line")
	}
	err := vm.runBlock(ctx, vm.env, program.Body)
	out := append([]Output(nil), vm.outputs...)
	if err != nil {
		return out, fmt.Errorf("run %s: %w", program.File, err)
	}
	return out, nil
}

func (vm *VM) emit(text string) {
	out := Output{Text: text, NewLine: true}
	vm.outputs = append(vm.outputs, out)
	if vm.hook != nil {
		vm.hook(out)
	}
}

func (vm *VM) runBlock(ctx context.Context, env *Env, block *ast.Block) error {
	if block == nil {
		return nil
	}
	for _, stmt := range block.Statements {
		if err := vm.runStatement(ctx, env, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (vm *VM) runStatement(ctx context.Context, env *Env, stmt ast.Statement) error {
	switch s := stmt.(type) {
	case ast.DeclStmt:
		v := Zero(s.Type)
		if s.Init != nil {
			v = vm.eval(env, s.Init)
		}
		env.Set(s.Name, v)
	case ast.AssignStmt:
		if s.Index != nil {
			vm.assignElement(env, s)
			return nil
		}
		vm.assign(env, s)
	case ast.IncDecStmt:
		op := "+"
		if s.Op == "--" {
			op = "-"
		}
		vm.compound(env, s.Target, op, Int(1))
	case ast.InstrStmt:
		vm.execInstr(env, s)
	case ast.PrintStmt:
		vm.emit(vm.eval(env, s.Expr).PrintText())
	case ast.CallStmt:
		vm.eval(env, s.Call)
	case ast.IfStmt:
		for _, br := range s.Branches {
			if vm.evalCond(env, br.Cond) {
				return vm.runBlock(ctx, env, br.Body)
			}
		}
		return vm.runBlock(ctx, env, s.Else)
	case ast.ForStmt:
		return vm.runFor(ctx, env, s)
	case ast.ForeachStmt:
		return vm.runForeach(ctx, env, s)
	case ast.MatchStmt:
		return vm.runMatch(ctx, env, s)
	default:
		return fmt.Errorf("unsupported statement %T", stmt)
	}
	return nil
}

func (vm *VM) assign(env *Env, s ast.AssignStmt) {
	if s.Op == "=" {
		env.Set(s.Target, vm.eval(env, s.Expr))
		return
	}
	rhs, err := vm.evalExpr(env, s.Expr)
	if err != nil {
		vm.log.Debug().Err(err).Str("var", s.Target).Msg("compound assignment skipped")
		return
	}
	vm.compound(env, s.Target, s.Op[:len(s.Op)-1], rhs)
}

// compound applies `name op= rhs` and is a no-op when name is undefined
// or the operation fails.
func (vm *VM) compound(env *Env, name, op string, rhs Value) {
	cur, ok := env.Lookup(name)
	if !ok {
		vm.log.Debug().Str("var", name).Msg("update of undefined variable ignored")
		return
	}
	next, err := evalBinary(op, cur, rhs)
	if err != nil {
		vm.log.Debug().Err(err).Str("var", name).Msg("update skipped")
		return
	}
	env.Set(name, next)
}

func (vm *VM) assignElement(env *Env, s ast.AssignStmt) {
	arr := env.Get(s.Target).Array()
	if arr == nil {
		vm.log.Debug().Str("var", s.Target).Msg("element write to non-array ignored")
		return
	}
	idx := vm.eval(env, s.Index).Int64()
	var next Value
	if s.Op == "=" {
		next = vm.eval(env, s.Expr)
	} else {
		cur, ok := arr.Get(idx)
		if !ok {
			vm.log.Debug().Str("var", s.Target).Int64("index", idx).Msg("element update out of range")
			return
		}
		rhs, err := vm.evalExpr(env, s.Expr)
		if err == nil {
			next, err = evalBinary(s.Op[:len(s.Op)-1], cur, rhs)
		}
		if err != nil {
			vm.log.Debug().Err(err).Str("var", s.Target).Msg("element update skipped")
			return
		}
	}
	if !arr.Set(idx, next) {
		vm.log.Debug().Str("var", s.Target).Int64("index", idx).Msg("element write out of range")
	}
}

func (vm *VM) runFor(ctx context.Context, env *Env, s ast.ForStmt) error {
	env.Set(s.Var, vm.eval(env, s.Init))
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !vm.evalCond(env, s.Cond) {
			return nil
		}
		if err := vm.runBlock(ctx, env, s.Body); err != nil {
			return err
		}
		if s.Incr != nil {
			if err := vm.runStatement(ctx, env, s.Incr); err != nil {
				return err
			}
		}
	}
}

// runForeach reads elements from the array's storage on each iteration,
// so writes made by the body are observed.
func (vm *VM) runForeach(ctx context.Context, env *Env, s ast.ForeachStmt) error {
	arr := env.Get(s.Array).Array()
	if arr == nil {
		vm.log.Debug().Str("var", s.Array).Msg("foreach over non-array skipped")
		return nil
	}
	for i := 0; i < arr.Len(); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		v, _ := arr.Get(int64(i))
		env.Set(s.Var, v)
		if err := vm.runBlock(ctx, env, s.Body); err != nil {
			return err
		}
	}
	return nil
}

func (vm *VM) runMatch(ctx context.Context, env *Env, s ast.MatchStmt) error {
	subject := vm.eval(env, s.Subject)
	for _, c := range s.Cases {
		if !c.Wildcard {
			pattern, err := vm.evalExpr(env, c.Pattern)
			if err != nil {
				continue
			}
			// Scalar patterns compare as integers: 1.5 matches a subject of 1.
			if !pattern.IsArray() {
				pattern = Int(pattern.Int64())
			}
			if !pattern.Equal(subject) {
				continue
			}
		}
		if c.Action == nil {
			return nil
		}
		return vm.runStatement(ctx, env, c.Action)
	}
	return nil
}
