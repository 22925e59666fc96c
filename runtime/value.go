package tcruntime

import (
	"math"
	"strconv"
)

type ValueKind int

const (
	IntKind ValueKind = iota
	FloatKind
	BoolKind
	ArrayKind
)

func (k ValueKind) String() string {
	switch k {
	case IntKind:
		return "int"
	case FloatKind:
		return "float"
	case BoolKind:
		return "bool"
	case ArrayKind:
		return "array"
	default:
		return "unknown"
	}
}

type Value struct {
	kind ValueKind
	i    int64
	f    float64
	arr  *Array
}

func Int(v int64) Value {
	return Value{kind: IntKind, i: v}
}

func Float(v float64) Value {
	return Value{kind: FloatKind, f: v}
}

func Bool(v bool) Value {
	if v {
		return Value{kind: BoolKind, i: 1}
	}
	return Value{kind: BoolKind}
}

// ArrayOf wraps an existing array; the returned value aliases it.
func ArrayOf(a *Array) Value {
	if a == nil {
		a = &Array{}
	}
	return Value{kind: ArrayKind, arr: a}
}

// NewArray builds a fresh array value holding elems.
func NewArray(elems ...Value) Value {
	return ArrayOf(newArray(elems))
}

// Zero returns the zero value of a declared type name.
func Zero(typ string) Value {
	switch typ {
	case "float":
		return Float(0)
	case "bool":
		return Bool(false)
	case "array":
		return NewArray()
	default:
		return Int(0)
	}
}

func (v Value) Kind() ValueKind {
	return v.kind
}

func (v Value) IsArray() bool {
	return v.kind == ArrayKind
}

// Array returns the backing array, or nil for scalars.
func (v Value) Array() *Array {
	if v.kind != ArrayKind {
		return nil
	}
	return v.arr
}

// Int64 truncates toward zero. Arrays, NaN and values outside the int64
// range read as 0.
func (v Value) Int64() int64 {
	switch v.kind {
	case IntKind, BoolKind:
		return v.i
	case FloatKind:
		return truncFloat(v.f)
	default:
		return 0
	}
}

func (v Value) Float64() float64 {
	switch v.kind {
	case IntKind, BoolKind:
		return float64(v.i)
	case FloatKind:
		return v.f
	default:
		return 0
	}
}

func (v Value) Truthy() bool {
	switch v.kind {
	case FloatKind:
		return v.f != 0
	case ArrayKind:
		return v.arr.Len() > 0
	default:
		return v.i != 0
	}
}

// PrintText is the text print() writes for v.
func (v Value) PrintText() string {
	return strconv.FormatInt(v.Int64(), 10)
}

func (v Value) String() string {
	switch v.kind {
	case FloatKind:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case BoolKind:
		return strconv.FormatBool(v.i != 0)
	case ArrayKind:
		return v.arr.format(0)
	default:
		return strconv.FormatInt(v.i, 10)
	}
}

// Equal compares numerically across int, float and bool. Arrays are
// equal when they have the same length and pairwise equal elements.
func (v Value) Equal(o Value) bool {
	if v.kind == ArrayKind || o.kind == ArrayKind {
		if v.kind != o.kind {
			return false
		}
		return v.arr.equal(o.arr, 0)
	}
	if v.kind == FloatKind || o.kind == FloatKind {
		return v.Float64() == o.Float64()
	}
	return v.i == o.i
}

func truncFloat(f float64) int64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	t := math.Trunc(f)
	if t >= math.MaxInt64 || t < math.MinInt64 {
		return 0
	}
	return int64(t)
}
