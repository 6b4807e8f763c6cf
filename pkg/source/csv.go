package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/recset/recset/pkg/record"
)

// CSVFile reads and writes record sequences as delimited files with a
// header row. Cell values are inferred on read (int64, float64, bool,
// string); empty cells leave the field absent from the record.
type CSVFile struct {
	Path  string
	Comma rune // field delimiter, ',' when unset
}

var (
	_ Reader = &CSVFile{}
	_ Writer = &CSVFile{}
)

func (f *CSVFile) Read(_ context.Context) ([]record.Record, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open csv file: %w", err)
	}
	defer file.Close() //nolint:errcheck

	reader := csv.NewReader(file)
	if f.Comma != 0 {
		reader.Comma = f.Comma
	}
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty csv file %q", f.Path)
	}

	headers := rows[0]
	recs := make([]record.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		r := record.New()
		for j, h := range headers {
			if j >= len(row) {
				break
			}
			if v := inferValue(row[j]); v != nil {
				r[h] = v
			}
		}
		recs = append(recs, r)
	}
	return recs, nil
}

func (f *CSVFile) Write(_ context.Context, recs []record.Record) error {
	file, err := os.Create(f.Path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer file.Close() //nolint:errcheck

	writer := csv.NewWriter(file)
	if f.Comma != 0 {
		writer.Comma = f.Comma
	}

	cols := columnSet(recs)
	if err := writer.Write(cols); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	row := make([]string, len(cols))
	for i := range recs {
		for j, col := range cols {
			if v, ok := recs[i][col]; ok {
				row[j] = record.FormatValue(v)
			} else {
				row[j] = ""
			}
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
