package tcruntime

import "strings"

// Array is shared element storage. Values holding the same *Array alias
// each other, so element writes are visible through every name.
type Array struct {
	elems []Value
}

func newArray(elems []Value) *Array {
	cp := make([]Value, len(elems))
	copy(cp, elems)
	return &Array{elems: cp}
}

func (a *Array) Len() int {
	if a == nil {
		return 0
	}
	return len(a.elems)
}

func (a *Array) Get(index int64) (Value, bool) {
	if a == nil || index < 0 || index >= int64(len(a.elems)) {
		return Int(0), false
	}
	return a.elems[index], true
}

// Set writes in place and reports whether index was in bounds.
func (a *Array) Set(index int64, v Value) bool {
	if a == nil || index < 0 || index >= int64(len(a.elems)) {
		return false
	}
	a.elems[index] = v
	return true
}

// Values returns a copy of the current elements.
func (a *Array) Values() []Value {
	if a == nil {
		return nil
	}
	cp := make([]Value, len(a.elems))
	copy(cp, a.elems)
	return cp
}

// maxNesting bounds walks over arrays that contain themselves.
const maxNesting = 256

func (a *Array) equal(o *Array, depth int) bool {
	if a == o {
		return true
	}
	if a.Len() != o.Len() || depth > maxNesting {
		return false
	}
	for i := 0; i < a.Len(); i++ {
		x, y := a.elems[i], o.elems[i]
		if x.IsArray() && y.IsArray() {
			if !x.arr.equal(y.arr, depth+1) {
				return false
			}
			continue
		}
		if !x.Equal(y) {
			return false
		}
	}
	return true
}

func (a *Array) format(depth int) string {
	if depth > maxNesting {
		return "[...]"
	}
	parts := make([]string, 0, a.Len())
	for _, e := range a.Values() {
		if e.IsArray() {
			parts = append(parts, e.arr.format(depth+1))
			continue
		}
		parts = append(parts, e.String())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
