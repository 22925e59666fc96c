package tcruntime

import (
	"math"

	"github.com/gosuda/tinyc/ast"
)

var arithInstr = map[string]string{
	"ADD": "+",
	"SUB": "-",
	"MUL": "*",
	"MOD": "%",
}

func (vm *VM) execInstr(env *Env, s ast.InstrStmt) {
	args := make([]Value, len(s.Args))
	for i, a := range s.Args {
		args[i] = vm.eval(env, a)
	}
	a, b := argAt(args, 0), argAt(args, 1)

	switch s.Op {
	case "ADD", "SUB", "MUL", "MOD":
		v, err := evalBinary(arithInstr[s.Op], a, b)
		if err != nil {
			vm.log.Debug().Err(err).Str("instr", s.Op).Str("dest", s.Dest).Msg("instruction skipped")
			return
		}
		env.Set(s.Dest, v)
	case "DIV":
		v, ok := floorDiv(a, b)
		if !ok {
			vm.log.Debug().Str("instr", s.Op).Str("dest", s.Dest).Msg("instruction skipped")
			return
		}
		env.Set(s.Dest, v)
	case "AND":
		env.Set(s.Dest, Bool(a.Truthy() && b.Truthy()))
	case "OR":
		env.Set(s.Dest, Bool(a.Truthy() || b.Truthy()))
	case "INC":
		vm.compound(env, s.Dest, "+", Int(1))
	case "DEC":
		vm.compound(env, s.Dest, "-", Int(1))
	case "PLE":
		vm.compound(env, s.Dest, "+", a)
	case "MIE":
		vm.compound(env, s.Dest, "-", a)
	}
}

// floorDiv is DIV's integer-floor division. It fails on a zero divisor
// or array operands.
func floorDiv(a, b Value) (Value, bool) {
	if a.IsArray() || b.IsArray() || b.Float64() == 0 {
		return Value{}, false
	}
	if a.Kind() == FloatKind || b.Kind() == FloatKind {
		return Float(math.Floor(a.Float64() / b.Float64())), true
	}
	return Int(floorDivInt(a.Int64(), b.Int64())), true
}
