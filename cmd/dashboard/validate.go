package main

import (
	"fmt"

	"github.com/couchcryptid/road-accident-dashboard/internal/domain"
	"github.com/spf13/cobra"
)

// problem is one failed check.
type problem struct {
	line int
	msg  string
}

func newValidateCmd() *cobra.Command {
	var flags datasetFlags

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check every record of the dataset",
		Long: `Validate parses every row as an accident record and checks that accident
identifiers are unique. It lists each problem and exits non-zero if any
were found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds, err := flags.load(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			problems := validateDataset(ds)
			for _, p := range problems {
				fmt.Fprintf(out, "  FAIL line %d: %s\n", p.line, p.msg)
			}
			fmt.Fprintf(out, "%d records, %d problems\n", ds.Len(), len(problems))
			if len(problems) > 0 {
				return fmt.Errorf("%s: %d problems found", flags.path, len(problems))
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func validateDataset(ds *domain.Dataset) []problem {
	if ds.Len() == 0 {
		return []problem{{msg: domain.ErrEmptyDataset.Error()}}
	}

	var problems []problem
	for _, col := range domain.Columns {
		if !ds.HasColumn(col) {
			problems = append(problems, problem{line: 1, msg: fmt.Sprintf("missing column %s", col)})
		}
	}
	if len(problems) > 0 {
		return problems
	}

	seen := make(map[string]int, ds.Len())
	for i := 0; i < ds.Len(); i++ {
		row := ds.Row(i)
		rec, err := domain.ParseRecord(row)
		if err != nil {
			problems = append(problems, problem{line: row.Line(), msg: err.Error()})
			continue
		}
		if first, ok := seen[rec.ID]; ok {
			problems = append(problems, problem{
				line: row.Line(),
				msg:  fmt.Sprintf("duplicate %s %q (first on line %d)", domain.ColAccidentID, rec.ID, first),
			})
			continue
		}
		seen[rec.ID] = row.Line()
	}
	return problems
}
