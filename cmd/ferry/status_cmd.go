package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd(app *appContainer) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Verify backend credentials and bucket reachability",
		Long: `Probes the configured bucket with the stored credentials and reports
endpoint, location, and (where the backend exposes it) usage. A failing
probe means uploads and fetches would fail with the same credentials.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := app.TransferService.Status(cmd.Context())
			if err != nil {
				return fmt.Errorf("credential check failed: %w", err)
			}

			fmt.Println(app.Formatter.FormatStatusReport(report))
			return nil
		},
	}
}
