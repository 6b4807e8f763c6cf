package collection

import (
	"errors"

	"github.com/recset/recset/pkg/record"
	"github.com/recset/recset/pkg/reducer"
	"github.com/recset/recset/pkg/util"
)

// AggSpec names one aggregation: reduce the values under Column with
// Reducer and store the result under Name. Reducer is a registry name
// (string), a reducer.Func, or a resolved reducer.Reducer.
type AggSpec struct {
	Name    string
	Column  string
	Reducer any
}

// columnValues gathers the values under a column across records, skipping
// records where the column is absent.
func columnValues(recs []record.Record, col string) []any {
	ret := []any{}
	for i := range recs {
		if v, ok := recs[i][col]; ok {
			ret = append(ret, v)
		}
	}
	return ret
}

// SummariseCol applies a reducer, by registry name or as a function, to the
// values under a column. Records missing the column are skipped, not an
// error. SummariseCol ignores the group-key tuple.
func (c *Collection) SummariseCol(funcOrName any, col string) (any, error) {
	recs, err := c.records("summarise")
	if err != nil {
		return nil, err
	}

	red, err := reducer.ResolveAny(funcOrName)
	if err != nil {
		return nil, err
	}

	values := columnValues(recs, col)
	res, err := red.Reduce(values)
	if err != nil {
		return nil, err
	}

	c.log.V(4).Info("summarise ready", "reducer", red.Name(), "column", col,
		"values", len(values), "result", util.Stringify(res))

	return res, nil
}

// Agg aggregates the collection. Ungrouped, the result is a one-record
// collection mapping each spec name to its result over the whole sequence.
// Grouped, each Cartesian group combination contributes one summary record
// holding the combination's key values merged with the spec results over
// that partition; summaries concatenate in combination enumeration order
// and the output keeps the group-key tuple.
func (c *Collection) Agg(specs ...AggSpec) (*Collection, error) {
	if !c.IsGrouped() {
		res, err := c.aggUngrouped(specs)
		if err != nil {
			return nil, NewAggregationError(err)
		}
		return res, nil
	}

	combos, subs, err := c.subsets()
	if err != nil {
		return nil, NewAggregationError(err)
	}

	items := make([]any, len(combos))
	for i := range combos {
		sub, err := subs[i].Ungroup().aggUngrouped(specs)
		if err != nil {
			return nil, NewAggregationError(err)
		}

		summary := record.DeepCopy(combos[i])
		for k, v := range sub.items[0].(record.Record) {
			summary[k] = v
		}
		items[i] = summary
	}

	c.log.V(2).Info("aggregation ready", "groups", c.groups, "rows", len(items))

	return c.derive(items), nil
}

func (c *Collection) aggUngrouped(specs []AggSpec) (*Collection, error) {
	if _, err := c.records("agg"); err != nil {
		return nil, err
	}

	res := record.New()
	for _, spec := range specs {
		v, err := c.SummariseCol(spec.Reducer, spec.Column)
		if err != nil {
			return nil, err
		}
		res[spec.Name] = v
	}
	return c.derive([]any{res}), nil
}

// scalarSummary runs a builtin reducer on a column and replaces an
// empty-input failure with the verb's documented sentinel.
func (c *Collection) scalarSummary(name, col string, empty any) (any, error) {
	res, err := c.SummariseCol(name, col)
	if err != nil {
		if errors.Is(err, reducer.ErrEmptyInput) {
			return empty, nil
		}
		return nil, err
	}
	return res, nil
}

// Sum returns the sum of the values under a column: int64 for integral
// columns, float64 otherwise, int64(0) when no value is present.
func (c *Collection) Sum(col string) (any, error) {
	return c.scalarSummary("sum", col, int64(0))
}

// Mean returns the mean of the values under a column, or nil when no value
// is present.
func (c *Collection) Mean(col string) (any, error) {
	return c.scalarSummary("mean", col, nil)
}

// Count returns how many records carry the column.
func (c *Collection) Count(col string) (int64, error) {
	res, err := c.SummariseCol("count", col)
	if err != nil {
		return 0, err
	}
	return res.(int64), nil
}

// NUnique returns the number of distinct values under a column.
func (c *Collection) NUnique(col string) (int64, error) {
	res, err := c.SummariseCol("n_unique", col)
	if err != nil {
		return 0, err
	}
	return res.(int64), nil
}

// Min returns the smallest value under a column, or nil when no value is
// present.
func (c *Collection) Min(col string) (any, error) {
	return c.scalarSummary("min", col, nil)
}

// Max returns the largest value under a column, or nil when no value is
// present.
func (c *Collection) Max(col string) (any, error) {
	return c.scalarSummary("max", col, nil)
}

// Unique returns the distinct values under a column, empty when no value
// is present.
func (c *Collection) Unique(col string) ([]any, error) {
	res, err := c.SummariseCol("unique", col)
	if err != nil {
		return nil, err
	}
	return res.([]any), nil
}

// Median returns the median of the values under a column, or nil when no
// value is present.
func (c *Collection) Median(col string) (any, error) {
	return c.scalarSummary("median", col, nil)
}

// Var returns the sample variance of the values under a column, or nil
// when no value is present.
func (c *Collection) Var(col string) (any, error) {
	return c.scalarSummary("var", col, nil)
}

// Std returns the sample standard deviation of the values under a column,
// or nil when no value is present.
func (c *Collection) Std(col string) (any, error) {
	return c.scalarSummary("std", col, nil)
}
