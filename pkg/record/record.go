// Package record implements the data substrate of the engine: a Record is a
// single row of data, a free-form mapping from field name to a
// JSON-compatible value (bool, int64, float64, string, list, or nested map).
//
// Records are treated as immutable by every consumer in this module: a verb
// that needs to change a record works on a deep copy and leaves the input
// untouched.
package record

import (
	"reflect"

	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/util/json"

	"github.com/recset/recset/pkg/util"
)

// Record is a mapping from field name to value.
type Record = map[string]any

// New returns an empty record.
func New() Record {
	return Record{}
}

// DeepCopy returns a deep copy of a record. The copy shares no mutable state
// with the original.
func DeepCopy(r Record) Record {
	if r == nil {
		return nil
	}
	return runtime.DeepCopyJSON(r)
}

// DeepCopyValue returns a deep copy of an arbitrary JSON-compatible value.
func DeepCopyValue(v any) any {
	if v == nil {
		return nil
	}
	return runtime.DeepCopyJSONValue(v)
}

// DeepEqual reports whether two values are structurally equal.
func DeepEqual(a, b any) bool {
	return reflect.DeepEqual(a, b)
}

// IsRecord reports whether an arbitrary collection item is record-shaped.
func IsRecord(v any) bool {
	_, ok := v.(Record)
	return ok
}

// Keys returns the field names of a record in lexicographic order.
func Keys(r Record) []string {
	return util.SortedKeys(r)
}

// Project returns a new record holding only the requested fields. A missing
// field is an error, as in relational projection.
func Project(r Record, keys ...string) (Record, error) {
	ret := Record{}
	for _, k := range keys {
		v, ok := r[k]
		if !ok {
			return nil, NewFieldNotFoundError(k, r)
		}
		ret[k] = DeepCopyValue(v)
	}
	return ret, nil
}

// Without returns a new record with the given fields removed. Fields absent
// from the record are ignored.
func Without(r Record, keys ...string) Record {
	ret := Record{}
	for k, v := range r {
		if util.Contains(keys, k) {
			continue
		}
		ret[k] = DeepCopyValue(v)
	}
	return ret
}

// FromJSON decodes a JSON object into a record. Numbers decode as int64
// where possible and float64 otherwise, so integer-valued fields stay
// integers across a round-trip.
func FromJSON(b []byte) (Record, error) {
	r := Record{}
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, NewConversionError("record", string(b))
	}
	return r, nil
}

// ToJSON encodes a record as a JSON object.
func ToJSON(r Record) ([]byte, error) {
	return json.Marshal(r)
}
