package tcruntime

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
)

type snapshotValue struct {
	Kind  string          `json:"kind"`
	I     int64           `json:"i,omitempty"`
	F     float64         `json:"f,omitempty"`
	S     string          `json:"s,omitempty"` // non-finite floats
	Elems []snapshotValue `json:"elems,omitempty"`
}

type snapshot struct {
	Vars map[string]snapshotValue `json:"vars"`
}

// MarshalEnv encodes env as a JSON snapshot. Arrays are written by value,
// so aliasing between names is not preserved.
func MarshalEnv(env *Env) ([]byte, error) {
	snap := snapshot{Vars: make(map[string]snapshotValue, env.Len())}
	for _, name := range env.Names() {
		sv, err := encodeValue(env.Get(name), 0)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", name, err)
		}
		snap.Vars[name] = sv
	}
	return json.MarshalIndent(snap, "", "  ")
}

func UnmarshalEnv(data []byte) (*Env, error) {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	env := NewEnv()
	for name, sv := range snap.Vars {
		v, err := decodeValue(sv, 0)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		env.Set(name, v)
	}
	return env, nil
}

// SaveEnv writes the VM's environment to path, creating parent dirs.
func (vm *VM) SaveEnv(path string) error {
	data, err := MarshalEnv(vm.env)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

func (vm *VM) LoadEnv(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	env, err := UnmarshalEnv(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	vm.env = env
	return nil
}

func encodeValue(v Value, depth int) (snapshotValue, error) {
	sv := snapshotValue{Kind: v.Kind().String()}
	switch v.Kind() {
	case IntKind, BoolKind:
		sv.I = v.Int64()
	case FloatKind:
		f := v.Float64()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			sv.S = strconv.FormatFloat(f, 'g', -1, 64)
		} else {
			sv.F = f
		}
	case ArrayKind:
		if depth >= maxNesting {
			return snapshotValue{}, fmt.Errorf("array nesting deeper than %d", maxNesting)
		}
		sv.Elems = []snapshotValue{}
		for _, e := range v.Array().Values() {
			ev, err := encodeValue(e, depth+1)
			if err != nil {
				return snapshotValue{}, err
			}
			sv.Elems = append(sv.Elems, ev)
		}
	}
	return sv, nil
}

func decodeValue(sv snapshotValue, depth int) (Value, error) {
	switch sv.Kind {
	case "int":
		return Int(sv.I), nil
	case "bool":
		return Bool(sv.I != 0), nil
	case "float":
		if sv.S != "" {
			f, err := strconv.ParseFloat(sv.S, 64)
			if err != nil {
				return Value{}, fmt.Errorf("invalid float %q", sv.S)
			}
			return Float(f), nil
		}
		return Float(sv.F), nil
	case "array":
		if depth >= maxNesting {
			return Value{}, fmt.Errorf("array nesting deeper than %d", maxNesting)
		}
		elems := make([]Value, 0, len(sv.Elems))
		for _, e := range sv.Elems {
			v, err := decodeValue(e, depth+1)
			if err != nil {
				return Value{}, err
			}
			elems = append(elems, v)
		}
		return NewArray(elems...), nil
	default:
		return Value{}, fmt.Errorf("unknown kind %q", sv.Kind)
	}
}
