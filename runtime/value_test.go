package tcruntime

import (
	"math"
	"testing"
)

func TestValueTruncation(t *testing.T) {
	cases := []struct {
		v    Value
		want int64
	}{
		{Float(3.9), 3},
		{Float(-3.9), -3},
		{Float(math.NaN()), 0},
		{Float(math.Inf(1)), 0},
		{Float(1e300), 0},
		{Bool(true), 1},
		{NewArray(Int(1)), 0},
	}
	for _, tc := range cases {
		if got := tc.v.Int64(); got != tc.want {
			t.Fatalf("%v: got %d want %d", tc.v, got, tc.want)
		}
		if got := tc.v.PrintText(); got != Int(tc.want).String() {
			t.Fatalf("%v: unexpected print text %q", tc.v, got)
		}
	}
}

func TestValueEqual(t *testing.T) {
	if !Int(1).Equal(Float(1)) || !Bool(true).Equal(Int(1)) {
		t.Fatalf("numeric equality should cross kinds")
	}
	if !NewArray(Int(1), Float(2)).Equal(NewArray(Float(1), Int(2))) {
		t.Fatalf("arrays with equal elements should be equal")
	}
	if NewArray(Int(1)).Equal(Int(1)) || NewArray().Equal(NewArray(Int(0))) {
		t.Fatalf("array equality should require arrays of equal length")
	}
}

func TestValueTruthy(t *testing.T) {
	if Int(0).Truthy() || Float(0).Truthy() || Bool(false).Truthy() || NewArray().Truthy() {
		t.Fatalf("zero values should be falsy")
	}
	if !Float(0.1).Truthy() || !NewArray(Int(0)).Truthy() {
		t.Fatalf("non-zero values should be truthy")
	}
}

func TestArrayAliasing(t *testing.T) {
	a := NewArray(Int(1), Int(2))
	b := a
	if !b.Array().Set(1, Int(20)) {
		t.Fatalf("in-range write failed")
	}
	if v, _ := a.Array().Get(1); v.Int64() != 20 {
		t.Fatalf("write not visible through alias: %v", a)
	}
	if a.Array().Set(2, Int(1)) || a.Array().Set(-1, Int(1)) {
		t.Fatalf("out-of-range write should be ignored")
	}
	if v, ok := a.Array().Get(5); ok || v.Int64() != 0 {
		t.Fatalf("out-of-range read should be 0")
	}
}

func TestSelfContainingArray(t *testing.T) {
	a := NewArray(Int(1))
	a.Array().Set(0, a)
	if !a.Equal(a) {
		t.Fatalf("array should equal itself")
	}
	if s := a.String(); s == "" {
		t.Fatalf("expected a bounded rendering")
	}
}

func TestEvalBinary(t *testing.T) {
	cases := []struct {
		op          string
		left, right Value
		want        Value
	}{
		{"+", Int(2), Int(3), Int(5)},
		{"+", Int(2), Float(0.5), Float(2.5)},
		{"-", Bool(true), Int(3), Int(-2)},
		{"*", Int(4), Int(5), Int(20)},
		{"/", Int(7), Int(2), Float(3.5)},
		{"%", Int(-7), Int(3), Int(2)},
		{"%", Int(7), Int(-3), Int(-2)},
		{"%", Float(5.5), Int(2), Float(1.5)},
		{"^", Int(3), Int(4), Int(81)},
		{"^", Int(2), Int(-1), Float(0.5)},
		{"<", Int(1), Float(1.5), Bool(true)},
		{">=", Int(3), Int(3), Bool(true)},
		{"==", Float(2), Int(2), Bool(true)},
		{"!=", NewArray(Int(1)), NewArray(Int(1)), Bool(false)},
	}
	for _, tc := range cases {
		got, err := evalBinary(tc.op, tc.left, tc.right)
		if err != nil {
			t.Fatalf("%v %s %v: %v", tc.left, tc.op, tc.right, err)
		}
		if got.Kind() != tc.want.Kind() || !got.Equal(tc.want) {
			t.Fatalf("%v %s %v: got %v (%s) want %v (%s)", tc.left, tc.op, tc.right, got, got.Kind(), tc.want, tc.want.Kind())
		}
	}
}

func TestEvalBinaryFailures(t *testing.T) {
	for _, tc := range []struct {
		op          string
		left, right Value
	}{
		{"/", Int(1), Int(0)},
		{"%", Int(1), Float(0)},
		{"+", NewArray(), Int(1)},
		{"<", Int(1), NewArray()},
	} {
		if _, err := evalBinary(tc.op, tc.left, tc.right); err == nil {
			t.Fatalf("%v %s %v: expected failure", tc.left, tc.op, tc.right)
		}
	}
}

func TestFloorDiv(t *testing.T) {
	if v, ok := floorDiv(Int(-7), Int(2)); !ok || v.Int64() != -4 {
		t.Fatalf("unexpected floor division: %v", v)
	}
	if _, ok := floorDiv(Int(7), Int(0)); ok {
		t.Fatalf("zero divisor should fail")
	}
	if v, _ := floorDiv(Float(7.5), Int(2)); v.Kind() != FloatKind || v.Float64() != 3 {
		t.Fatalf("unexpected float floor division: %v", v)
	}
}

func TestEnvNames(t *testing.T) {
	env := NewEnv()
	env.Set("b", Int(1))
	env.Set("a", Int(2))
	if names := env.Names(); len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Fatalf("unexpected names: %v", names)
	}
	if env.Has("c") || env.Get("c").Int64() != 0 {
		t.Fatalf("undefined names should read as 0")
	}
}
