package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/couchcryptid/road-accident-dashboard/internal/aggregate"
	"github.com/couchcryptid/road-accident-dashboard/internal/config"
	"github.com/couchcryptid/road-accident-dashboard/internal/dataset"
	"github.com/couchcryptid/road-accident-dashboard/internal/domain"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type sectionReport struct {
	Section string          `json:"section" yaml:"section"`
	Title   string          `json:"title" yaml:"title"`
	Rows    aggregate.Table `json:"rows,omitempty" yaml:"rows,omitempty"`
	Error   string          `json:"error,omitempty" yaml:"error,omitempty"`
}

type summaryReport struct {
	Dataset  string          `json:"dataset" yaml:"dataset"`
	Records  int             `json:"records" yaml:"records"`
	Sections []sectionReport `json:"sections" yaml:"sections"`
}

// datasetFlags are shared by the offline commands.
type datasetFlags struct {
	path  string
	table string
}

func (f *datasetFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.path, "dataset", "", "dataset path, .csv or .db/.sqlite/.sqlite3 (default $DATASET_PATH or accident.csv)")
	cmd.Flags().StringVar(&f.table, "table", "", "table name for SQLite datasets (default $DATASET_TABLE or accidents)")
}

// load reads the dataset. Unset flags fall back to the environment, which
// includes any .env file applied before the command ran.
func (f *datasetFlags) load(cmd *cobra.Command) (*domain.Dataset, error) {
	path, table := config.DatasetSource()
	if f.path == "" {
		f.path = path
	}
	if f.table == "" {
		f.table = table
	}

	ds, err := dataset.NewLoader(f.path, f.table).Load(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", f.path, err)
	}
	return ds, nil
}

func newSummarizeCmd() *cobra.Command {
	var (
		flags  datasetFlags
		format string
	)

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Print the six summary tables",
		Long: `Summarize computes every dashboard section over the dataset and prints the
tables. A section that cannot be computed shows its data error; the other
sections are still printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != "yaml" && format != "json" {
				return fmt.Errorf("unsupported format %q (want yaml or json)", format)
			}
			ds, err := flags.load(cmd)
			if err != nil {
				return err
			}
			return writeSummary(cmd.OutOrStdout(), format, buildSummary(flags.path, ds))
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&format, "format", "yaml", "output format: yaml or json")
	return cmd
}

func buildSummary(path string, ds *domain.Dataset) summaryReport {
	sum := aggregate.Aggregate(ds)
	report := summaryReport{Dataset: path, Records: ds.Len()}
	for _, sec := range aggregate.Sections {
		r := sectionReport{Section: string(sec), Title: sec.Title()}
		if table, err := sum.Table(sec); err != nil {
			r.Error = err.Error()
		} else {
			r.Rows = table
		}
		report.Sections = append(report.Sections, r)
	}
	return report
}

func writeSummary(w io.Writer, format string, report summaryReport) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return err
	}
	return enc.Close()
}
