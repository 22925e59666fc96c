package tcruntime

import "sort"

// Env is the single global variable scope of a run.
type Env struct {
	vars map[string]Value
}

func NewEnv() *Env {
	return &Env{vars: map[string]Value{}}
}

// Get returns the named value, or Int 0 when it is undefined.
func (e *Env) Get(name string) Value {
	if v, ok := e.vars[name]; ok {
		return v
	}
	return Int(0)
}

func (e *Env) Lookup(name string) (Value, bool) {
	v, ok := e.vars[name]
	return v, ok
}

func (e *Env) Has(name string) bool {
	_, ok := e.vars[name]
	return ok
}

func (e *Env) Set(name string, v Value) {
	e.vars[name] = v
}

func (e *Env) Len() int {
	return len(e.vars)
}

// Names returns the defined names in sorted order.
func (e *Env) Names() []string {
	names := make([]string, 0, len(e.vars))
	for name := range e.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
