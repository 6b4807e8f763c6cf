package source

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"k8s.io/apimachinery/pkg/util/json"

	"github.com/recset/recset/pkg/record"
)

// JSONFile reads and writes record sequences as JSON. Both a top-level
// array of objects and newline-delimited objects (NDJSON) are accepted on
// read; NDJSON controls the output format. Numbers decode as int64 where
// possible.
type JSONFile struct {
	Path   string
	NDJSON bool
}

var (
	_ Reader = &JSONFile{}
	_ Writer = &JSONFile{}
)

func (f *JSONFile) Read(_ context.Context) ([]record.Record, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read json file: %w", err)
	}

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		// decode through a generic list: this is the int64-preserving path
		items := []any{}
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("parse json array: %w", err)
		}
		recs, err := record.AsRecordList(items)
		if err != nil {
			return nil, fmt.Errorf("parse json array: %w", err)
		}
		return recs, nil
	}

	// newline-delimited objects
	recs := []record.Record{}
	scanner := bufio.NewScanner(strings.NewReader(trimmed))
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		r, err := record.FromJSON([]byte(line))
		if err != nil {
			return nil, fmt.Errorf("parse json line: %w", err)
		}
		recs = append(recs, r)
	}
	return recs, scanner.Err()
}

func (f *JSONFile) Write(_ context.Context, recs []record.Record) error {
	file, err := os.Create(f.Path)
	if err != nil {
		return fmt.Errorf("create json file: %w", err)
	}
	defer file.Close() //nolint:errcheck

	if f.NDJSON {
		w := bufio.NewWriter(file)
		for i := range recs {
			b, err := record.ToJSON(recs[i])
			if err != nil {
				return fmt.Errorf("marshal record: %w", err)
			}
			if _, err := w.Write(append(b, '\n')); err != nil {
				return fmt.Errorf("write json line: %w", err)
			}
		}
		return w.Flush()
	}

	b, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}
	if _, err := file.Write(b); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
