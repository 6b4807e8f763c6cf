// Package reducer implements the aggregation dispatcher: a closed registry
// of named reductions (mean, count, unique, n_unique, sum, min, max, median,
// var, std) plus an escape hatch for custom reduction functions. A reducer
// maps a sequence of column values to a single summary value.
package reducer

import (
	"fmt"

	"github.com/recset/recset/pkg/util"
)

// Func reduces a sequence of values into a single summary value.
type Func func(values []any) (any, error)

// Reducer is a resolved reduction: either a registry builtin or a custom
// function.
type Reducer struct {
	name string
	fn   Func
}

// Resolve looks up a builtin reducer by name. Returns ErrUnknownReducer for
// names outside the registry.
func Resolve(name string) (Reducer, error) {
	fn, ok := registry[name]
	if !ok {
		return Reducer{}, NewUnknownReducerError(name)
	}
	return Reducer{name: name, fn: fn}, nil
}

// Custom wraps a user-supplied reduction function. The name is used in
// diagnostics only.
func Custom(name string, fn Func) Reducer {
	if name == "" {
		name = "custom"
	}
	return Reducer{name: name, fn: fn}
}

// ResolveAny dispatches on the argument type: a string resolves against the
// registry, a Func (or a compatible function value) becomes a custom
// reducer, and a Reducer passes through.
func ResolveAny(arg any) (Reducer, error) {
	switch v := arg.(type) {
	case Reducer:
		return v, nil
	case string:
		return Resolve(v)
	case Func:
		return Custom("", v), nil
	case func(values []any) (any, error):
		return Custom("", v), nil
	}
	return Reducer{}, fmt.Errorf("cannot resolve a reducer from argument %s",
		util.Stringify(arg))
}

// Name returns the reducer's name.
func (r Reducer) Name() string { return r.name }

// Reduce applies the reduction to a value sequence.
func (r Reducer) Reduce(values []any) (any, error) {
	if r.fn == nil {
		return nil, NewUnknownReducerError(r.name)
	}
	return r.fn(values)
}

func (r Reducer) String() string {
	return fmt.Sprintf("reducer:%s", r.name)
}

// Names returns the registry names in lexicographic order.
func Names() []string {
	return util.SortedKeys(registry)
}
