package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ferry/internal/flags"
)

func newRootCmd(app *appContainer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ferry",
		Short: "Ferry moves files in and out of object storage.",
		Long: `A command-line tool for transferring files to and from S3-compatible
and Google Cloud Storage buckets. Upload single files or bounded
batches, fetch objects back by their URL, and download from public
URLs, with deterministic key naming and content-type inference.`,
	}

	rootCmd.PersistentFlags().Bool(flags.Debug, false, "Enable verbose logging")

	rootCmd.AddCommand(
		newUploadCmd(app),
		newUploadBatchCmd(app),
		newFetchCmd(app),
		newFetchBatchCmd(app),
		newFetchPublicCmd(app),
		newStatusCmd(app),
		newToolsCmd(app),
		newConfigCmd(app),
	)
	return rootCmd
}

func Execute(app *appContainer) {
	if err := newRootCmd(app).Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
