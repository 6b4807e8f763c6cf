package source

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/recset/recset/pkg/record"
)

// SQLiteTable reads and writes record sequences as rows of a SQLite
// table. On write the table is created from the records' column union,
// with column affinity taken from the first value observed under each
// column.
type SQLiteTable struct {
	Path  string
	Table string
}

var (
	_ Reader = &SQLiteTable{}
	_ Writer = &SQLiteTable{}
)

func (s *SQLiteTable) open() (*sql.DB, error) {
	db, err := sql.Open("sqlite", s.Path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite supports a single writer
	db.SetMaxOpenConns(1)
	return db, nil
}

func (s *SQLiteTable) Read(ctx context.Context) ([]record.Record, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close() //nolint:errcheck

	rows, err := db.QueryContext(ctx, fmt.Sprintf(`SELECT * FROM %s`, quoteIdent(s.Table)))
	if err != nil {
		return nil, fmt.Errorf("query table %q: %w", s.Table, err)
	}
	defer rows.Close() //nolint:errcheck

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	recs := []record.Record{}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		r := record.New()
		for i, col := range cols {
			switch v := values[i].(type) {
			case nil:
				// NULL cells leave the field absent
			case []byte:
				r[col] = string(v)
			default:
				r[col] = v
			}
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

func (s *SQLiteTable) Write(ctx context.Context, recs []record.Record) error {
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck

	cols := columnSet(recs)
	if len(cols) == 0 {
		return fmt.Errorf("no columns to write into table %q", s.Table)
	}

	defs := make([]string, len(cols))
	for i, col := range cols {
		defs[i] = fmt.Sprintf("%s %s", quoteIdent(col), affinity(recs, col))
	}
	create := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (%s)`,
		quoteIdent(s.Table), strings.Join(defs, ", "))
	if _, err := db.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("create table %q: %w", s.Table, err)
	}

	placeholders := strings.TrimRight(strings.Repeat("?,", len(cols)), ",")
	quoted := make([]string, len(cols))
	for i := range cols {
		quoted[i] = quoteIdent(cols[i])
	}
	insert := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		quoteIdent(s.Table), strings.Join(quoted, ", "), placeholders)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	for i := range recs {
		args := make([]any, len(cols))
		for j, col := range cols {
			v, ok := recs[i][col]
			if !ok {
				continue
			}
			switch v.(type) {
			case bool, int64, float64, string, nil:
				args[j] = v
			default:
				// composites are stored as JSON text
				args[j] = record.FormatValue(v)
			}
		}
		if _, err := tx.ExecContext(ctx, insert, args...); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("insert row: %w", err)
		}
	}

	return tx.Commit()
}

// affinity derives the column type from the first value observed under the
// column.
func affinity(recs []record.Record, col string) string {
	for i := range recs {
		switch recs[i][col].(type) {
		case int64, bool:
			return "INTEGER"
		case float64:
			return "REAL"
		case string:
			return "TEXT"
		case nil:
			continue
		default:
			return "TEXT"
		}
	}
	return "TEXT"
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
