package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	"github.com/couchcryptid/road-accident-dashboard/internal/domain"
	_ "modernc.org/sqlite"
)

var tableNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLiteLoader reads every row of one table. Column names must match the CSV
// header names.
type SQLiteLoader struct {
	Path  string
	Table string
}

func (l *SQLiteLoader) Load(ctx context.Context) (*domain.Dataset, error) {
	if !tableNameRe.MatchString(l.Table) {
		return nil, fmt.Errorf("invalid table name %q", l.Table)
	}

	db, err := sql.Open("sqlite", l.Path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite dataset: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, fmt.Sprintf(`SELECT * FROM "%s"`, l.Table))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", l.Table, err)
	}
	defer rows.Close()

	header, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	var data [][]string
	for rows.Next() {
		cells := make([]sql.NullString, len(header))
		dest := make([]any, len(header))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan row %d: %w", len(data)+1, err)
		}
		rec := make([]string, len(header))
		for i, c := range cells {
			if c.Valid {
				rec[i] = c.String
			}
		}
		data = append(data, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return domain.NewDataset(header, data), nil
}
