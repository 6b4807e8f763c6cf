package collection

import (
	"github.com/recset/recset/pkg/record"
	"github.com/recset/recset/pkg/util"
)

// GroupBy returns a new collection with the given group-key tuple active,
// overriding any previous tuple. Grouping does not touch the data: it only
// changes how aggregation-aware verbs (Agg, Transform, Mutate, Sort)
// interpret it.
//
// Partitions are enumerated over the full Cartesian product of each key's
// distinct values, so a combination no record exhibits still forms an
// (empty) group. Aggregating an empty group follows the reducers'
// empty-input rules: count/sum/unique/n_unique yield their defined zero
// values, the rest fail.
func (c *Collection) GroupBy(keys ...string) *Collection {
	ret := c.derive(c.items)
	ret.groups = make([]string, len(keys))
	copy(ret.groups, keys)
	return ret
}

// Ungroup returns a new collection with no group-key tuple.
func (c *Collection) Ungroup() *Collection {
	ret := c.derive(c.items)
	ret.groups = nil
	return ret
}

// distinctValues returns the distinct values observed under a field, in
// first-observed record order. Records where the field is absent are
// skipped. Distinctness is structural, keyed on the JSON rendering.
func (c *Collection) distinctValues(recs []record.Record, key string) []any {
	seen := map[string]bool{}
	ret := []any{}
	for i := range recs {
		v, ok := recs[i][key]
		if !ok {
			continue
		}
		s := util.Stringify(v)
		if seen[s] {
			continue
		}
		seen[s] = true
		ret = append(ret, v)
	}
	return ret
}

// groupCombos enumerates the Cartesian product of the group keys' distinct
// value sets, one record per combination mapping each group key to its
// value. The first group key varies slowest.
func (c *Collection) groupCombos() ([]record.Record, error) {
	recs, err := c.records("group")
	if err != nil {
		return nil, err
	}

	sets := make([][]any, len(c.groups))
	for i, key := range c.groups {
		sets[i] = c.distinctValues(recs, key)
	}

	ret := []record.Record{}
	for _, combo := range cartesian(sets) {
		m := record.New()
		for i, key := range c.groups {
			m[key] = combo[i]
		}
		ret = append(ret, m)
	}

	c.log.V(4).Info("group combinations ready", "groups", c.groups,
		"combinations", len(ret))

	return ret, nil
}

// subsets partitions the collection into per-combination sub-collections,
// one per groupCombos entry, in the same order. A record lands in the
// subset whose combination it matches exactly on every group key. Each
// combination re-sweeps the whole record sequence: O(combinations x
// records x keys), the documented cost of grouped aggregation.
func (c *Collection) subsets() ([]record.Record, []*Collection, error) {
	recs, err := c.records("group")
	if err != nil {
		return nil, nil, err
	}

	combos, err := c.groupCombos()
	if err != nil {
		return nil, nil, err
	}

	subs := make([]*Collection, len(combos))
	for i, combo := range combos {
		items := []any{}
		for j := range recs {
			if matchesCombo(recs[j], combo) {
				items = append(items, recs[j])
			}
		}
		subs[i] = c.derive(items)
	}
	return combos, subs, nil
}

func matchesCombo(r record.Record, combo record.Record) bool {
	for key, want := range combo {
		v, ok := r[key]
		if !ok || !record.DeepEqual(v, want) {
			return false
		}
	}
	return true
}

// perGroup applies a verb to every group partition independently and
// concatenates the results in partition enumeration order, preserving the
// group-key tuple on the output.
func (c *Collection) perGroup(fn func(sub *Collection) (*Collection, error)) (*Collection, error) {
	_, subs, err := c.subsets()
	if err != nil {
		return nil, err
	}

	items := []any{}
	for _, sub := range subs {
		res, err := fn(sub.Ungroup())
		if err != nil {
			return nil, err
		}
		items = append(items, res.items...)
	}
	return c.derive(items), nil
}
