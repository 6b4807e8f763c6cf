package collection

import (
	"github.com/recset/recset/pkg/record"
	"github.com/recset/recset/pkg/util"
)

// Mapping is a left-field to right-field correspondence: two records match
// when, for every pair, both fields are present and their values are equal.
type Mapping map[string]string

// JoinOption tweaks join behavior.
type JoinOption func(*joinConfig)

type joinConfig struct {
	lsuffix string
	rsuffix string
}

// WithSuffixes overrides the suffixes appended to colliding, non-mapped
// field names on the left and right side. Defaults are "" and "_joined".
func WithSuffixes(lsuffix, rsuffix string) JoinOption {
	return func(cfg *joinConfig) {
		cfg.lsuffix = lsuffix
		cfg.rsuffix = rsuffix
	}
}

// LeftJoin joins two collections on the mapping. Every left record appears
// in the output: once per matching right record, merged, or once unmerged
// when nothing matches. Matching is naive, all right records are scanned
// per left record.
func (c *Collection) LeftJoin(other *Collection, mapping Mapping, opts ...JoinOption) (*Collection, error) {
	return c.join(other, mapping, true, opts...)
}

// InnerJoin joins two collections on the mapping, emitting one merged
// record per matching left/right pair and nothing for unmatched records on
// either side.
func (c *Collection) InnerJoin(other *Collection, mapping Mapping, opts ...JoinOption) (*Collection, error) {
	return c.join(other, mapping, false, opts...)
}

func (c *Collection) join(other *Collection, mapping Mapping, keepUnmatched bool, opts ...JoinOption) (*Collection, error) {
	cfg := joinConfig{lsuffix: "", rsuffix: "_joined"}
	for _, opt := range opts {
		opt(&cfg)
	}

	left, err := c.records("join")
	if err != nil {
		return nil, NewJoinError(err)
	}
	right, err := other.records("join")
	if err != nil {
		return nil, NewJoinError(err)
	}

	items := []any{}
	for i := range left {
		matched := false
		for j := range right {
			if !matches(left[i], right[j], mapping) {
				continue
			}
			items = append(items, mergeRecords(left[i], right[j], mapping,
				cfg.lsuffix, cfg.rsuffix))
			matched = true
		}
		if !matched && keepUnmatched {
			items = append(items, record.DeepCopy(left[i]))
		}
	}

	c.log.V(2).Info("join ready", "mapping", util.Stringify(mapping),
		"left", len(left), "right", len(right), "out", len(items))

	return c.derive(items), nil
}

// matches checks the equality predicate over all mapped field pairs. A
// mapped field missing on either side makes the pair a non-match, never a
// wildcard.
func matches(l, r record.Record, mapping Mapping) bool {
	for lk, rk := range mapping {
		lv, ok := l[lk]
		if !ok {
			return false
		}
		rv, ok := r[rk]
		if !ok {
			return false
		}
		if !record.DeepEqual(lv, rv) {
			return false
		}
	}
	return true
}

// mergeRecords merges a matching pair into one record. Fields present on
// both sides that are not part of the mapping get the side's suffix
// appended; mapped fields are never suffixed and keep the left record's
// name (the match predicate already forced the values equal).
func mergeRecords(l, r record.Record, mapping Mapping, lsuffix, rsuffix string) record.Record {
	mapped := map[string]bool{}
	for lk, rk := range mapping {
		mapped[lk] = true
		mapped[rk] = true
	}

	suffixed := map[string]bool{}
	for k := range l {
		if _, ok := r[k]; ok && !mapped[k] {
			suffixed[k] = true
		}
	}

	ret := record.New()
	for k, v := range l {
		if suffixed[k] {
			k += lsuffix
		}
		ret[k] = record.DeepCopyValue(v)
	}
	for k, v := range r {
		if suffixed[k] {
			k += rsuffix
		}
		ret[k] = record.DeepCopyValue(v)
	}
	return ret
}
