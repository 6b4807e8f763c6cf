// Package source holds the thin adapters between external data
// representations and plain record sequences: CSV files, JSON documents
// and SQLite tables. Adapters carry no engine logic, they only load and
// store []record.Record.
package source

import (
	"context"
	"strconv"
	"strings"

	"github.com/recset/recset/pkg/record"
	"github.com/recset/recset/pkg/util"
)

// Reader loads records from an external representation.
type Reader interface {
	Read(ctx context.Context) ([]record.Record, error)
}

// Writer stores records into an external representation.
type Writer interface {
	Write(ctx context.Context, recs []record.Record) error
}

// inferValue parses a textual cell into the narrowest value type: int64,
// float64, bool, or string. Empty cells map to nil (the field is then
// omitted from the record, matching the engine's missing-column
// semantics).
func inferValue(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}

	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}

	return s
}

// columnSet returns the lexicographically ordered union of the field names
// of a record sequence. The stable order keeps external output
// deterministic.
func columnSet(recs []record.Record) []string {
	seen := map[string]bool{}
	for i := range recs {
		for k := range recs[i] {
			seen[k] = true
		}
	}
	return util.SortedKeys(seen)
}
