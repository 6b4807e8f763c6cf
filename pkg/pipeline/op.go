package pipeline

import (
	encjson "encoding/json"
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/util/json"

	"github.com/recset/recset/pkg/collection"
	"github.com/recset/recset/pkg/record"
	"github.com/recset/recset/pkg/util"
)

// Op is one step of a declarative pipeline. On the wire an op is a
// single-key object whose key names the verb and starts with "@":
//
//	{"@keep": {"key": "class", "equals": "math"}}
//	{"@agg": {"avg": ["grade", "mean"]}}
type Op struct {
	Name string
	Raw  string

	keys    []string             // @select, @drop, @group_by
	keep    *keepArg             // @keep
	specs   []collection.AggSpec // @agg, @transform
	sortArg *sortArg             // @sort
	n       int                  // @head, @tail
}

type keepArg struct {
	Key    string `json:"key"`
	Equals any    `json:"equals,omitempty"`
	Lt     any    `json:"lt,omitempty"`
	Gt     any    `json:"gt,omitempty"`
}

type sortArg struct {
	Key     string `json:"key"`
	Reverse bool   `json:"reverse,omitempty"`
}

func (o *Op) UnmarshalJSON(b []byte) error {
	raw := map[string]encjson.RawMessage{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return NewUnmarshalError("op", string(b))
	}

	// an op is a single key that starts with @
	if len(raw) != 1 {
		return NewUnmarshalError("op", string(b))
	}
	op, arg := "", encjson.RawMessage(nil)
	for k, v := range raw {
		op, arg = k, v
	}
	if !strings.HasPrefix(op, "@") {
		return NewUnmarshalError("op", string(b))
	}

	*o = Op{Name: op, Raw: string(b)}

	switch op {
	case "@select", "@drop", "@group_by":
		if err := json.Unmarshal(arg, &o.keys); err != nil {
			// a bare string is a one-element key list
			var key string
			if err := json.Unmarshal(arg, &key); err != nil {
				return NewUnmarshalError("key list", string(arg))
			}
			o.keys = []string{key}
		}
		return nil

	case "@ungroup":
		return nil

	case "@keep":
		o.keep = &keepArg{}
		if err := json.Unmarshal(arg, o.keep); err != nil {
			return NewUnmarshalError("keep condition", string(arg))
		}
		if o.keep.Key == "" {
			return NewInvalidOpError(op, "missing key")
		}
		return nil

	case "@agg", "@transform":
		raw := map[string][]any{}
		if err := json.Unmarshal(arg, &raw); err != nil {
			return NewUnmarshalError("aggregation specs", string(arg))
		}
		for _, name := range util.SortedKeys(raw) {
			pair := raw[name]
			if len(pair) != 2 {
				return NewInvalidOpError(op,
					fmt.Sprintf("spec %q must be a [column, reducer] pair", name))
			}
			col, err := record.AsString(pair[0])
			if err != nil {
				return NewInvalidOpError(op, err.Error())
			}
			red, err := record.AsString(pair[1])
			if err != nil {
				return NewInvalidOpError(op, err.Error())
			}
			o.specs = append(o.specs, collection.AggSpec{Name: name, Column: col, Reducer: red})
		}
		return nil

	case "@sort":
		o.sortArg = &sortArg{}
		if err := json.Unmarshal(arg, o.sortArg); err != nil {
			return NewUnmarshalError("sort argument", string(arg))
		}
		if o.sortArg.Key == "" {
			return NewInvalidOpError(op, "missing key")
		}
		return nil

	case "@head", "@tail":
		if err := json.Unmarshal(arg, &o.n); err != nil {
			return NewUnmarshalError("item count", string(arg))
		}
		return nil
	}

	return NewInvalidOpError(op, "unknown op")
}

// Apply evaluates the op on a collection.
func (o *Op) Apply(c *collection.Collection) (*collection.Collection, error) {
	switch o.Name {
	case "@select":
		return c.Select(o.keys...)
	case "@drop":
		return c.Drop(o.keys...)
	case "@group_by":
		return c.GroupBy(o.keys...), nil
	case "@ungroup":
		return c.Ungroup(), nil
	case "@keep":
		return c.KeepRecords(o.keep.pred())
	case "@agg":
		return c.Agg(o.specs...)
	case "@transform":
		return c.Transform(o.specs...)
	case "@sort":
		return c.SortBy(o.sortArg.Key, o.sortArg.Reverse)
	case "@head":
		return c.Head(o.n)
	case "@tail":
		return c.Tail(o.n)
	}
	return nil, NewInvalidOpError(o.Name, "unknown op")
}

func (o *Op) String() string {
	return fmt.Sprintf("%s:%s", o.Name, o.Raw)
}

// pred compiles a keep condition into a record predicate. A record where
// the key is absent never matches.
func (k *keepArg) pred() func(r record.Record) bool {
	return func(r record.Record) bool {
		v, ok := r[k.Key]
		if !ok {
			return false
		}

		if k.Equals != nil && !record.DeepEqual(v, k.Equals) {
			// decoded numbers may differ in kind from the record's value
			f, err1 := record.AsFloat(v)
			bound, err2 := record.AsFloat(k.Equals)
			if err1 != nil || err2 != nil || f != bound {
				return false
			}
		}
		if k.Lt != nil {
			f, err := record.AsFloat(v)
			if err != nil {
				return false
			}
			bound, err := record.AsFloat(k.Lt)
			if err != nil || f >= bound {
				return false
			}
		}
		if k.Gt != nil {
			f, err := record.AsFloat(v)
			if err != nil {
				return false
			}
			bound, err := record.AsFloat(k.Gt)
			if err != nil || f <= bound {
				return false
			}
		}
		return true
	}
}
