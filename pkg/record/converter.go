package record

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"

	"github.com/recset/recset/pkg/util"
)

// IsList reports whether a value is a slice or an array.
func IsList(d any) bool {
	dv := reflect.ValueOf(d)
	return dv.Kind() == reflect.Slice || dv.Kind() == reflect.Array
}

// AsList converts a value into a generic list.
func AsList(d any) ([]any, error) {
	if !IsList(d) {
		return nil, fmt.Errorf("argument is not a list: %s", util.Stringify(d))
	}

	if ret, ok := d.([]any); ok {
		return ret, nil
	}

	// typed slices: repack element by element
	dv := reflect.ValueOf(d)
	ret := make([]any, dv.Len())
	for i := 0; i < dv.Len(); i++ {
		ret[i] = dv.Index(i).Interface()
	}
	return ret, nil
}

func AsBool(d any) (bool, error) {
	if d == nil {
		return false, errors.New("argument is nil")
	}

	if reflect.ValueOf(d).Kind() == reflect.Bool {
		return reflect.ValueOf(d).Bool(), nil
	}
	return false, fmt.Errorf("argument is not a boolean: %s", util.Stringify(d))
}

func AsInt(d any) (int64, error) {
	if d == nil {
		return int64(0), errors.New("argument is nil")
	}

	switch reflect.ValueOf(d).Kind() { //nolint:exhaustive
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return reflect.ValueOf(d).Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(reflect.ValueOf(d).Uint()), nil
	}

	return 0, fmt.Errorf("argument is not an int: %s", util.Stringify(d))
}

func AsIntList(d any) ([]int64, error) {
	vs, err := AsList(d)
	if err != nil {
		return []int64{}, err
	}

	ret := []int64{}
	for i := range vs {
		arg, err := AsInt(vs[i])
		if err != nil {
			return []int64{}, err
		}
		ret = append(ret, arg)
	}
	return ret, nil
}

func AsFloat(d any) (float64, error) {
	if d == nil {
		return 0.0, errors.New("argument is nil")
	}

	switch reflect.ValueOf(d).Kind() { //nolint:exhaustive
	case reflect.Float32, reflect.Float64:
		return reflect.ValueOf(d).Float(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(reflect.ValueOf(d).Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(reflect.ValueOf(d).Uint()), nil
	}

	return 0.0, fmt.Errorf("argument is not a float: %s", util.Stringify(d))
}

func AsFloatList(d any) ([]float64, error) {
	vs, err := AsList(d)
	if err != nil {
		return []float64{}, err
	}

	ret := []float64{}
	for i := range vs {
		arg, err := AsFloat(vs[i])
		if err != nil {
			return []float64{}, err
		}
		ret = append(ret, arg)
	}
	return ret, nil
}

// AsIntOrFloatList converts a value into a homogeneous numeric list: an
// int64 list if every element is integral, a float64 list otherwise. The
// returned kind is reflect.Int64 or reflect.Float64 accordingly.
func AsIntOrFloatList(d any) ([]int64, []float64, reflect.Kind, error) {
	is, err := AsIntList(d)
	if err == nil {
		return is, []float64{}, reflect.Int64, nil
	}

	fs, err := AsFloatList(d)
	if err == nil {
		return []int64{}, fs, reflect.Float64, nil
	}

	return []int64{}, []float64{}, reflect.Invalid,
		fmt.Errorf("incompatible elems in numeric list: %s", util.Stringify(d))
}

func AsString(d any) (string, error) {
	if d == nil {
		return "", errors.New("argument is nil")
	}

	if reflect.ValueOf(d).Kind() == reflect.String {
		return reflect.ValueOf(d).String(), nil
	}

	return "", fmt.Errorf("argument is not a string: %s", util.Stringify(d))
}

func AsStringList(d any) ([]string, error) {
	vs, err := AsList(d)
	if err != nil {
		return []string{}, err
	}

	ret := []string{}
	for i := range vs {
		arg, err := AsString(vs[i])
		if err != nil {
			return []string{}, err
		}
		ret = append(ret, arg)
	}
	return ret, nil
}

// AsRecord converts a value into a record.
func AsRecord(d any) (Record, error) {
	ret, ok := d.(Record)
	if !ok {
		return nil, fmt.Errorf("failed to convert argument into a record: %s",
			util.Stringify(d))
	}
	return ret, nil
}

// AsRecordList converts a value into a list of records.
func AsRecordList(d any) ([]Record, error) {
	if r, err := AsRecord(d); err == nil {
		return []Record{r}, nil
	}

	vs, err := AsList(d)
	if err != nil {
		return nil, err
	}

	ret := make([]Record, 0, len(vs))
	for i := range vs {
		r, err := AsRecord(vs[i])
		if err != nil {
			return nil, err
		}
		ret = append(ret, r)
	}
	return ret, nil
}

// FormatValue renders a value for external, textual output (CSV cells and
// the like). Scalars print bare, composites print as JSON.
func FormatValue(d any) string {
	if d == nil {
		return ""
	}

	switch reflect.ValueOf(d).Kind() { //nolint:exhaustive
	case reflect.String:
		return reflect.ValueOf(d).String()
	case reflect.Bool:
		return strconv.FormatBool(reflect.ValueOf(d).Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(reflect.ValueOf(d).Int(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(reflect.ValueOf(d).Float(), 'g', -1, 64)
	}

	return util.Stringify(d)
}
