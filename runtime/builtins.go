package tcruntime

import (
	"fmt"
	"math"
	"sort"

	"github.com/gosuda/tinyc/ast"
)

type builtinFunc func(args []Value) Value

var builtins = map[string]builtinFunc{
	"to_float": func(args []Value) Value {
		return Float(argAt(args, 0).Float64())
	},
	"to_int": func(args []Value) Value {
		return Int(argAt(args, 0).Int64())
	},
	"to_bool": func(args []Value) Value {
		return Bool(argAt(args, 0).Truthy())
	},
	"length": func(args []Value) Value {
		return Int(int64(argAt(args, 0).Array().Len()))
	},
	"max":   builtinMax,
	"abs":   builtinAbs,
	"index": builtinIndex,
	"find": func(args []Value) Value {
		if v, ok := argAt(args, 0).Array().Get(0); ok {
			return v
		}
		return Int(-1)
	},
}

// Builtins lists the callable function names.
func Builtins() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (vm *VM) callBuiltin(env *Env, call ast.CallExpr) (Value, error) {
	fn, ok := builtins[call.Name]
	if !ok {
		return Value{}, fmt.Errorf("unknown function %s", call.Name)
	}
	args := make([]Value, 0, len(call.Args))
	for _, a := range call.Args {
		v, err := vm.evalExpr(env, a)
		if err != nil {
			return Value{}, fmt.Errorf("%s: %w", call.Name, err)
		}
		args = append(args, v)
	}
	return fn(args), nil
}

func argAt(args []Value, i int) Value {
	if i < len(args) {
		return args[i]
	}
	return Int(0)
}

func builtinMax(args []Value) Value {
	arr := argAt(args, 0).Array()
	if arr.Len() == 0 {
		return Int(0)
	}
	elems := arr.Values()
	best := elems[0]
	for _, e := range elems[1:] {
		if greater(e, best) {
			best = e
		}
	}
	return best
}

func greater(a, b Value) bool {
	if a.IsArray() || b.IsArray() {
		return false
	}
	if a.Kind() == FloatKind || b.Kind() == FloatKind {
		return a.Float64() > b.Float64()
	}
	return a.Int64() > b.Int64()
}

func builtinAbs(args []Value) Value {
	v := argAt(args, 0)
	switch v.Kind() {
	case FloatKind:
		return Float(math.Abs(v.Float64()))
	case ArrayKind:
		return Int(0)
	}
	if n := v.Int64(); n < 0 {
		return Int(-n)
	}
	return Int(v.Int64())
}

func builtinIndex(args []Value) Value {
	arr := argAt(args, 0).Array()
	needle := argAt(args, 1)
	for i, e := range arr.Values() {
		if e.Equal(needle) {
			return Int(int64(i))
		}
	}
	return Int(-1)
}
