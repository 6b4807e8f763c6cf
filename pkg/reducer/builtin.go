package reducer

import (
	"errors"
	"math"
	"reflect"
	"sort"

	"github.com/recset/recset/pkg/record"
	"github.com/recset/recset/pkg/util"
)

// The builtin registry. Sample (n-1 denominator) convention for var/std.
// Reducers defined on empty input: count and n_unique yield 0, sum yields
// int64(0), unique yields an empty list. The rest return ErrEmptyInput.
var registry = map[string]Func{
	"mean":     Mean,
	"count":    Count,
	"unique":   Unique,
	"n_unique": NUnique,
	"sum":      Sum,
	"min":      Min,
	"max":      Max,
	"median":   Median,
	"var":      Var,
	"std":      Std,
}

// Count returns the number of values, distinct or not.
func Count(values []any) (any, error) {
	return int64(len(values)), nil
}

// Unique returns the distinct values as a list. Distinctness is structural
// (values are keyed by their JSON rendering, so lists and nested maps
// participate too); enumeration order is unspecified but the implementation
// keeps first-observed order for determinism.
func Unique(values []any) (any, error) {
	seen := map[string]bool{}
	ret := []any{}
	for _, v := range values {
		key := util.Stringify(v)
		if seen[key] {
			continue
		}
		seen[key] = true
		ret = append(ret, v)
	}
	return ret, nil
}

// NUnique returns the number of distinct values.
func NUnique(values []any) (any, error) {
	vs, err := Unique(values)
	if err != nil {
		return nil, err
	}
	return int64(len(vs.([]any))), nil
}

// Sum adds the values up: an int64 if every value is integral, a float64
// otherwise. The empty sum is int64(0).
func Sum(values []any) (any, error) {
	if len(values) == 0 {
		return int64(0), nil
	}

	is, fs, kind, err := record.AsIntOrFloatList(values)
	if err != nil {
		return nil, err
	}

	if kind == reflect.Int64 {
		v := int64(0)
		for i := range is {
			v += is[i]
		}
		return v, nil
	}

	v := 0.0
	for i := range fs {
		v += fs[i]
	}
	return v, nil
}

// Mean returns the arithmetic mean as a float64.
func Mean(values []any) (any, error) {
	if len(values) == 0 {
		return nil, NewEmptyInputError("mean")
	}

	fs, err := record.AsFloatList(values)
	if err != nil {
		return nil, err
	}

	v := 0.0
	for i := range fs {
		v += fs[i]
	}
	return v / float64(len(fs)), nil
}

// Min returns the smallest value. Numeric sequences keep their kind;
// string sequences compare lexicographically.
func Min(values []any) (any, error) {
	return extremum("min", values, false)
}

// Max returns the largest value.
func Max(values []any) (any, error) {
	return extremum("max", values, true)
}

func extremum(name string, values []any, largest bool) (any, error) {
	if len(values) == 0 {
		return nil, NewEmptyInputError(name)
	}

	is, fs, kind, err := record.AsIntOrFloatList(values)
	if err == nil {
		if kind == reflect.Int64 {
			v := is[0]
			for _, i := range is[1:] {
				if (largest && i > v) || (!largest && i < v) {
					v = i
				}
			}
			return v, nil
		}

		v := fs[0]
		for _, f := range fs[1:] {
			if (largest && f > v) || (!largest && f < v) {
				v = f
			}
		}
		return v, nil
	}

	ss, serr := record.AsStringList(values)
	if serr != nil {
		return nil, err
	}
	v := ss[0]
	for _, s := range ss[1:] {
		if (largest && s > v) || (!largest && s < v) {
			v = s
		}
	}
	return v, nil
}

// Median returns the middle value of the sorted sequence. For an even
// number of values it is the mean of the two middle values, as a float64.
func Median(values []any) (any, error) {
	if len(values) == 0 {
		return nil, NewEmptyInputError("median")
	}

	is, fs, kind, err := record.AsIntOrFloatList(values)
	if err != nil {
		return nil, err
	}

	if kind == reflect.Int64 {
		sorted := append([]int64{}, is...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
		n := len(sorted)
		if n%2 == 1 {
			return sorted[n/2], nil
		}
		return (float64(sorted[n/2-1]) + float64(sorted[n/2])) / 2.0, nil
	}

	sorted := append([]float64{}, fs...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2], nil
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2.0, nil
}

// Var returns the sample variance (n-1 denominator). At least two values
// are required.
func Var(values []any) (any, error) {
	if len(values) == 0 {
		return nil, NewEmptyInputError("var")
	}

	fs, err := record.AsFloatList(values)
	if err != nil {
		return nil, err
	}
	if len(fs) < 2 {
		return nil, errors.New("sample variance requires at least two values")
	}

	mean := 0.0
	for i := range fs {
		mean += fs[i]
	}
	mean /= float64(len(fs))

	v := 0.0
	for i := range fs {
		d := fs[i] - mean
		v += d * d
	}
	return v / float64(len(fs)-1), nil
}

// Std returns the sample standard deviation.
func Std(values []any) (any, error) {
	if len(values) == 0 {
		return nil, NewEmptyInputError("std")
	}

	v, err := Var(values)
	if err != nil {
		return nil, err
	}
	return math.Sqrt(v.(float64)), nil
}
