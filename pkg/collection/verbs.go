package collection

import (
	"sort"

	"github.com/recset/recset/pkg/record"
	"github.com/recset/recset/pkg/util"
)

// Keep filters the collection: an item survives only if every predicate
// holds for it.
func (c *Collection) Keep(preds ...func(item any) bool) *Collection {
	items := c.Collect()
	for _, pred := range preds {
		items = util.Filter(pred, items)
	}
	c.log.V(4).Info("keep ready", "in", len(c.items), "out", len(items))
	return c.derive(items)
}

// KeepRecords filters with record predicates. Returns ErrTypeMismatch on
// non-record items.
func (c *Collection) KeepRecords(preds ...func(r record.Record) bool) (*Collection, error) {
	recs, err := c.records("keep")
	if err != nil {
		return nil, err
	}

	items := []any{}
	for i := range recs {
		ok := true
		for _, pred := range preds {
			if !pred(recs[i]) {
				ok = false
				break
			}
		}
		if ok {
			items = append(items, recs[i])
		}
	}
	return c.derive(items), nil
}

// Select keeps only the named fields in every record. A field missing from
// any record is an error.
func (c *Collection) Select(keys ...string) (*Collection, error) {
	recs, err := c.records("select")
	if err != nil {
		return nil, err
	}

	items := make([]any, len(recs))
	for i := range recs {
		r, err := record.Project(recs[i], keys...)
		if err != nil {
			return nil, err
		}
		items[i] = r
	}
	return c.derive(items), nil
}

// Drop removes the named fields from every record.
func (c *Collection) Drop(keys ...string) (*Collection, error) {
	recs, err := c.records("drop")
	if err != nil {
		return nil, err
	}

	items := make([]any, len(recs))
	for i := range recs {
		items[i] = record.Without(recs[i], keys...)
	}
	return c.derive(items), nil
}

// Head keeps the first n items. Negative n is an error; n larger than the
// collection clamps.
func (c *Collection) Head(n int) (*Collection, error) {
	if n < 0 {
		return nil, NewInvalidArgumentError("head", "n must be non-negative")
	}
	if n > len(c.items) {
		n = len(c.items)
	}
	return c.derive(c.Collect()[:n]), nil
}

// Tail keeps the last n items.
func (c *Collection) Tail(n int) (*Collection, error) {
	if n < 0 {
		return nil, NewInvalidArgumentError("tail", "n must be non-negative")
	}
	if n > len(c.items) {
		n = len(c.items)
	}
	return c.derive(c.Collect()[len(c.items)-n:]), nil
}

// Sort orders the items by the given less function. Sort is group-aware:
// with an active group-key tuple each partition is sorted independently and
// the partitions are concatenated in enumeration order.
func (c *Collection) Sort(less func(a, b any) bool) (*Collection, error) {
	if c.IsGrouped() {
		return c.perGroup(func(sub *Collection) (*Collection, error) {
			return sub.Sort(less)
		})
	}

	items := c.Collect()
	sort.SliceStable(items, func(i, j int) bool { return less(items[i], items[j]) })
	return c.derive(items), nil
}

// SortBy orders record items by a field, ascending. Items where the field
// is absent sort first.
func (c *Collection) SortBy(key string, reverse bool) (*Collection, error) {
	if _, err := c.records("sort"); err != nil {
		return nil, err
	}

	less := func(a, b any) bool {
		av, aok := a.(record.Record)[key]
		bv, bok := b.(record.Record)[key]
		if !aok || !bok {
			return bok
		}
		if af, err := record.AsFloat(av); err == nil {
			if bf, err := record.AsFloat(bv); err == nil {
				return af < bf
			}
		}
		return record.FormatValue(av) < record.FormatValue(bv)
	}
	if reverse {
		asc := less
		less = func(a, b any) bool { return asc(b, a) }
	}

	return c.Sort(less)
}

// Mutation derives a new field from each record.
type Mutation struct {
	Name string
	Fn   func(r record.Record) (any, error)
}

// Mutate adds or overrides fields in every record. Mutations apply in call
// order and each sees the fields added by the previous ones. Mutate is
// group-aware.
func (c *Collection) Mutate(mutations ...Mutation) (*Collection, error) {
	if c.IsGrouped() {
		return c.perGroup(func(sub *Collection) (*Collection, error) {
			return sub.Mutate(mutations...)
		})
	}

	recs, err := c.records("mutate")
	if err != nil {
		return nil, err
	}

	items := make([]any, len(recs))
	for i := range recs {
		r := record.DeepCopy(recs[i])
		for _, m := range mutations {
			v, err := m.Fn(r)
			if err != nil {
				return nil, err
			}
			r[m.Name] = v
		}
		items[i] = r
	}
	return c.derive(items), nil
}

// MapItems maps every item through a function.
func (c *Collection) MapItems(fn func(item any) any) *Collection {
	return c.derive(util.Map(fn, c.items))
}

// Keys returns the field names appearing in the records: the union by
// default, the intersection with overlap set.
func (c *Collection) Keys(overlap bool) ([]string, error) {
	recs, err := c.records("keys")
	if err != nil {
		return nil, err
	}

	counts := map[string]int{}
	for i := range recs {
		for k := range recs[i] {
			counts[k]++
		}
	}

	ret := []string{}
	for _, k := range util.SortedKeys(counts) {
		if !overlap || counts[k] == len(recs) {
			ret = append(ret, k)
		}
	}
	return ret, nil
}

// Explode turns list-valued fields into multiple records, one per element
// of the Cartesian product of the named lists.
func (c *Collection) Explode(keys ...string) (*Collection, error) {
	recs, err := c.records("explode")
	if err != nil {
		return nil, err
	}

	items := []any{}
	for i := range recs {
		lists := make([][]any, len(keys))
		for j, k := range keys {
			v, ok := recs[i][k]
			if !ok {
				return nil, record.NewFieldNotFoundError(k, recs[i])
			}
			vs, err := record.AsList(v)
			if err != nil {
				return nil, NewInvalidArgumentError("explode", err.Error())
			}
			lists[j] = vs
		}

		for _, combo := range cartesian(lists) {
			r := record.DeepCopy(recs[i])
			for j, k := range keys {
				r[k] = combo[j]
			}
			items = append(items, r)
		}
	}
	return c.derive(items), nil
}

// Reduction folds a sequence of items into a single value.
type Reduction struct {
	Name string
	Fn   func(acc, item any) any
}

// Reduce folds the raw item sequence with each reduction, producing a
// one-record collection mapping reduction names to results. The first item
// seeds the fold; an empty collection is an error.
func (c *Collection) Reduce(reductions ...Reduction) (*Collection, error) {
	if len(c.items) == 0 {
		return nil, NewInvalidArgumentError("reduce", "empty collection")
	}

	res := record.New()
	for _, red := range reductions {
		acc := c.items[0]
		for _, item := range c.items[1:] {
			acc = red.Fn(acc, item)
		}
		res[red.Name] = acc
	}
	return c.derive([]any{res}), nil
}

// cartesian enumerates the Cartesian product of the given lists: the first
// list varies slowest. A zero-length input list yields no combinations.
func cartesian(lists [][]any) [][]any {
	combos := [][]any{{}}
	for _, list := range lists {
		next := make([][]any, 0, len(combos)*len(list))
		for _, combo := range combos {
			for _, v := range list {
				row := make([]any, len(combo), len(combo)+1)
				copy(row, combo)
				next = append(next, append(row, v))
			}
		}
		combos = next
	}
	return combos
}
