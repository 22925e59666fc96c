package tcruntime

import (
	"errors"
	"fmt"
	"math"

	"github.com/gosuda/tinyc/ast"
)

var errDivisionByZero = errors.New("division by zero")

// eval applies the language's fallback: any failing expression is Int 0.
func (vm *VM) eval(env *Env, e ast.Expr) Value {
	v, err := vm.evalExpr(env, e)
	if err != nil {
		vm.log.Debug().Err(err).Msg("expression evaluated to 0")
		return Int(0)
	}
	return v
}

func (vm *VM) evalCond(env *Env, e ast.Expr) bool {
	v, err := vm.evalExpr(env, e)
	if err != nil {
		vm.log.Debug().Err(err).Msg("condition evaluated to false")
		return false
	}
	return v.Truthy()
}

func (vm *VM) evalExpr(env *Env, e ast.Expr) (Value, error) {
	switch ex := e.(type) {
	case ast.IntLit:
		return Int(ex.Value), nil
	case ast.FloatLit:
		return Float(ex.Value), nil
	case ast.BoolLit:
		return Bool(ex.Value), nil
	case ast.VarRef:
		return env.Get(ex.Name), nil
	case ast.IndexExpr:
		idx, err := vm.evalExpr(env, ex.Index)
		if err != nil {
			return Value{}, err
		}
		v, _ := env.Get(ex.Name).Array().Get(idx.Int64())
		return v, nil
	case ast.ArrayLit:
		elems := make([]Value, 0, len(ex.Elems))
		for _, el := range ex.Elems {
			v, err := vm.evalExpr(env, el)
			if err != nil {
				return Value{}, err
			}
			elems = append(elems, v)
		}
		return NewArray(elems...), nil
	case ast.UnaryExpr:
		v, err := vm.evalExpr(env, ex.Expr)
		if err != nil {
			return Value{}, err
		}
		return evalUnary(ex.Op, v)
	case ast.BinaryExpr:
		switch ex.Op {
		case "&&":
			left, err := vm.evalExpr(env, ex.Left)
			if err != nil {
				return Value{}, err
			}
			if !left.Truthy() {
				return Bool(false), nil
			}
			right, err := vm.evalExpr(env, ex.Right)
			if err != nil {
				return Value{}, err
			}
			return Bool(right.Truthy()), nil
		case "||":
			left, err := vm.evalExpr(env, ex.Left)
			if err != nil {
				return Value{}, err
			}
			if left.Truthy() {
				return Bool(true), nil
			}
			right, err := vm.evalExpr(env, ex.Right)
			if err != nil {
				return Value{}, err
			}
			return Bool(right.Truthy()), nil
		default:
			left, err := vm.evalExpr(env, ex.Left)
			if err != nil {
				return Value{}, err
			}
			right, err := vm.evalExpr(env, ex.Right)
			if err != nil {
				return Value{}, err
			}
			return evalBinary(ex.Op, left, right)
		}
	case ast.CallExpr:
		return vm.callBuiltin(env, ex)
	case ast.BadExpr:
		return Value{}, fmt.Errorf("unparseable expression %q", ex.Raw)
	default:
		return Value{}, fmt.Errorf("unsupported expression %T", e)
	}
}

func evalUnary(op string, v Value) (Value, error) {
	if op == "!" {
		return Bool(!v.Truthy()), nil
	}
	switch v.Kind() {
	case ArrayKind:
		return Value{}, fmt.Errorf("unary %s on array", op)
	case FloatKind:
		if op == "-" {
			return Float(-v.Float64()), nil
		}
		return v, nil
	}
	switch op {
	case "-":
		return Int(-v.Int64()), nil
	case "+":
		return Int(v.Int64()), nil
	default:
		return Value{}, fmt.Errorf("unsupported unary operator %q", op)
	}
}

func evalBinary(op string, left, right Value) (Value, error) {
	switch op {
	case "==":
		return Bool(left.Equal(right)), nil
	case "!=":
		return Bool(!left.Equal(right)), nil
	}
	if left.IsArray() || right.IsArray() {
		return Value{}, fmt.Errorf("operator %s on array", op)
	}
	useFloat := left.Kind() == FloatKind || right.Kind() == FloatKind
	switch op {
	case "<", "<=", ">", ">=":
		if useFloat {
			return Bool(compareFloat(op, left.Float64(), right.Float64())), nil
		}
		return Bool(compareInt(op, left.Int64(), right.Int64())), nil
	case "+":
		if useFloat {
			return Float(left.Float64() + right.Float64()), nil
		}
		return Int(left.Int64() + right.Int64()), nil
	case "-":
		if useFloat {
			return Float(left.Float64() - right.Float64()), nil
		}
		return Int(left.Int64() - right.Int64()), nil
	case "*":
		if useFloat {
			return Float(left.Float64() * right.Float64()), nil
		}
		return Int(left.Int64() * right.Int64()), nil
	case "/":
		if right.Float64() == 0 {
			return Value{}, errDivisionByZero
		}
		return Float(left.Float64() / right.Float64()), nil
	case "%":
		if right.Float64() == 0 {
			return Value{}, errDivisionByZero
		}
		if useFloat {
			return Float(floorModFloat(left.Float64(), right.Float64())), nil
		}
		return Int(floorModInt(left.Int64(), right.Int64())), nil
	case "^":
		if !useFloat && right.Int64() >= 0 {
			return Int(powInt(left.Int64(), right.Int64())), nil
		}
		return Float(math.Pow(left.Float64(), right.Float64())), nil
	default:
		return Value{}, fmt.Errorf("unsupported binary operator %q", op)
	}
}

func compareInt(op string, a, b int64) bool {
	switch op {
	case "<":
		return a < b
	case "<=":
		return a <= b
	case ">":
		return a > b
	default:
		return a >= b
	}
}

func compareFloat(op string, a, b float64) bool {
	switch op {
	case "<":
		return a < b
	case "<=":
		return a <= b
	case ">":
		return a > b
	default:
		return a >= b
	}
}

// floorModInt takes the sign of the divisor. b must be non-zero.
func floorModInt(a, b int64) int64 {
	m := a % b
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}

func floorModFloat(a, b float64) float64 {
	m := math.Mod(a, b)
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}

func floorDivInt(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func powInt(base, exp int64) int64 {
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result
}
