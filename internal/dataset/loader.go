// Package dataset reads the accident table from disk and shares it,
// read-only, for the lifetime of the process.
package dataset

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/road-accident-dashboard/internal/domain"
)

// Loader reads a complete dataset from its source.
type Loader interface {
	Load(ctx context.Context) (*domain.Dataset, error)
}

// NewLoader picks a loader by file extension: .db, .sqlite and .sqlite3 are
// read as SQLite databases, anything else as CSV.
func NewLoader(path, table string) Loader {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return &SQLiteLoader{Path: path, Table: table}
	default:
		return &CSVLoader{Path: path}
	}
}
