// Package collection implements an ordered, in-memory sequence of records
// with chainable data-manipulation verbs: filter, select, sort, mutate,
// group, aggregate, transform and join. A collection optionally carries a
// group-key tuple that aggregation-aware verbs use to partition the data;
// the tuple is plain value state set by GroupBy and cleared by Ungroup,
// never hidden mutation.
//
// Verbs never mutate the receiver or its records: every verb derives a new
// collection, deep-copying any record it needs to change.
package collection

import (
	"fmt"

	"github.com/go-logr/logr"

	"github.com/recset/recset/pkg/record"
)

// Collection is an ordered sequence of items, usually records, plus the
// active group-key tuple.
type Collection struct {
	items  []any
	groups []string
	log    logr.Logger
}

// New creates a collection from a sequence of items. Items are typically
// records, but scalar sequences are accepted too for the generic verbs
// (MapItems, Reduce); record-only verbs reject them with ErrTypeMismatch.
func New(items ...any) *Collection {
	return &Collection{items: items, log: logr.Discard()}
}

// FromRecords creates a collection from a record slice.
func FromRecords(recs []record.Record) *Collection {
	items := make([]any, len(recs))
	for i := range recs {
		items[i] = recs[i]
	}
	return New(items...)
}

// WithLogger returns a copy of the collection that traces verb evaluation
// on the given logger.
func (c *Collection) WithLogger(log logr.Logger) *Collection {
	ret := c.derive(c.items)
	ret.log = log
	return ret
}

// derive creates a new collection around the given items while preserving
// the receiver's settings, most notably the group-key tuple.
func (c *Collection) derive(items []any) *Collection {
	return &Collection{items: items, groups: c.groups, log: c.log}
}

// Len returns the number of items.
func (c *Collection) Len() int {
	return len(c.items)
}

// Collect returns the item sequence. The returned slice is fresh but the
// items are the collection's own: treat them as read-only.
func (c *Collection) Collect() []any {
	ret := make([]any, len(c.items))
	copy(ret, c.items)
	return ret
}

// Records returns the items as records. Returns ErrTypeMismatch if any item
// is not record-shaped.
func (c *Collection) Records() ([]record.Record, error) {
	return c.records("records")
}

func (c *Collection) records(verb string) ([]record.Record, error) {
	ret := make([]record.Record, len(c.items))
	for i := range c.items {
		r, ok := c.items[i].(record.Record)
		if !ok {
			return nil, NewTypeMismatchError(verb)
		}
		ret[i] = r
	}
	return ret, nil
}

// GroupKeys returns the active group-key tuple, empty when ungrouped.
func (c *Collection) GroupKeys() []string {
	ret := make([]string, len(c.groups))
	copy(ret, c.groups)
	return ret
}

// IsGrouped reports whether a group-key tuple is active.
func (c *Collection) IsGrouped() bool {
	return len(c.groups) > 0
}

// Copy returns a collection with the same items and settings.
func (c *Collection) Copy() *Collection {
	return c.derive(c.Collect())
}

// Concat appends the items of other collections. Group-key state comes from
// the receiver.
func (c *Collection) Concat(others ...*Collection) *Collection {
	items := c.Collect()
	for _, o := range others {
		items = append(items, o.items...)
	}
	return c.derive(items)
}

// Pipe applies a function to the collection in a chainable manner.
func (c *Collection) Pipe(fn func(*Collection) (*Collection, error)) (*Collection, error) {
	return fn(c)
}

func (c *Collection) String() string {
	return fmt.Sprintf("<collection groups=%v len=%d>", c.groups, len(c.items))
}
