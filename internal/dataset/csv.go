package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/couchcryptid/road-accident-dashboard/internal/domain"
)

// CSVLoader reads a header-named CSV file.
type CSVLoader struct {
	Path string
}

func (l *CSVLoader) Load(ctx context.Context) (*domain.Dataset, error) {
	f, err := os.Open(l.Path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	return ReadCSV(ctx, f)
}

// ReadCSV parses CSV from r. The first record is the header; a header-only
// input yields an empty dataset.
func ReadCSV(ctx context.Context, r io.Reader) (*domain.Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &domain.DataError{Err: domain.ErrEmptyDataset}
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	var (
		rows  [][]string
		lines []int
	)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line, _ := reader.FieldPos(0)
		rows = append(rows, rec)
		lines = append(lines, line)
	}
	return domain.NewDatasetWithLines(header, rows, lines), nil
}
