package main

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "dashboard",
		Short: "Road accident dashboard and driver alert service",
		Long: `Dashboard loads a table of road accident records, renders six summary
charts over it, and runs the driver alert form that notifies on overspeeding
or suspected drink driving.

Without a subcommand it runs the HTTP service.`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: loadDotEnv,
		RunE:              runServe,
	}

	root.AddCommand(newServeCmd(), newSummarizeCmd(), newValidateCmd())
	return root
}

// loadDotEnv applies a .env file from the working directory when present.
// Variables already set in the environment win.
func loadDotEnv(_ *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
