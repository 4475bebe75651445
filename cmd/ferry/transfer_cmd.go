package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"ferry/internal/flags"
	"ferry/internal/ui/progress"
	"ferry/internal/ui/prompt"
	"ferry/pkg/transfer"
)

type transferFlags struct {
	directory     string
	directoryMode string
	filename      string
	filenameMode  string
	contentType   string
	output        string
	outputDir     string
	force         bool
	quiet         bool
}

func newUploadCmd(app *appContainer) *cobra.Command {
	cmdFlags := transferFlags{}

	uploadCmd := &cobra.Command{
		Use:   "upload [file]",
		Short: "Upload a file to the configured bucket",
		Long: `Uploads a single file to the configured storage backend and prints the
resulting object URL. The storage key is built from the directory, the
directory mode, and the filename mode.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := buildUploadRequest(args[0], cmdFlags)
			if err != nil {
				return err
			}
			req.Filename = cmdFlags.filename
			req.DeclaredContentType = cmdFlags.contentType

			result, err := app.TransferService.Upload(cmd.Context(), req)
			if err != nil {
				return err
			}

			fmt.Println(app.Formatter.FormatResult(result))
			if result.Status == transfer.StatusFailed {
				return fmt.Errorf("upload failed")
			}
			return nil
		},
	}
	addKeyShapeFlags(uploadCmd, &cmdFlags)
	uploadCmd.Flags().StringVar(&cmdFlags.filename, flags.Filename, "", "Override the stored filename")
	uploadCmd.Flags().StringVar(&cmdFlags.contentType, flags.ContentType, "", "Declared MIME type, bypassing signature sniffing")

	return uploadCmd
}

func newUploadBatchCmd(app *appContainer) *cobra.Command {
	cmdFlags := transferFlags{}

	uploadBatchCmd := &cobra.Command{
		Use:   "upload-batch [files...]",
		Short: "Upload multiple files concurrently",
		Long: `Uploads up to the configured maximum number of files with bounded
concurrency. A failed file is reported in the result table without
aborting the rest of the batch.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reqs := make([]transfer.Request, 0, len(args))
			for _, path := range args {
				req, err := buildUploadRequest(path, cmdFlags)
				if err != nil {
					return err
				}
				reqs = append(reqs, req)
			}

			batch, err := runWithProgress(len(reqs), cmdFlags.quiet, func(onItem func(int, transfer.Result)) (transfer.BatchResult, error) {
				return app.TransferService.UploadBatch(cmd.Context(), reqs, onItem)
			})
			if err != nil {
				return err
			}

			fmt.Println(app.Formatter.FormatBatchResult(batch))
			return nil
		},
	}
	addKeyShapeFlags(uploadBatchCmd, &cmdFlags)
	uploadBatchCmd.Flags().BoolVarP(&cmdFlags.quiet, flags.Quiet, flags.QuietShort, false, "Suppress the progress display")

	return uploadBatchCmd
}

func newFetchCmd(app *appContainer) *cobra.Command {
	cmdFlags := transferFlags{}

	fetchCmd := &cobra.Command{
		Use:   "fetch [url]",
		Short: "Fetch an object from the configured bucket by URL",
		Long: `Downloads an object addressed by a URL on the configured storage
endpoint (path or virtual-host style) and writes it to a local file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.TransferService.Fetch(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Println(app.Formatter.FormatResult(result))
			if result.Status == transfer.StatusFailed {
				return fmt.Errorf("fetch failed")
			}

			path := cmdFlags.output
			if path == "" {
				path = result.Key.Basename()
			}
			return writePayload(path, result.Body, cmdFlags.force)
		},
	}
	fetchCmd.Flags().StringVarP(&cmdFlags.output, flags.Output, flags.OutputShort, "", "Local path to write the fetched object to (defaults to the object filename)")
	fetchCmd.Flags().BoolVarP(&cmdFlags.force, flags.Force, flags.ForceShort, false, "Overwrite existing local files without prompting")

	return fetchCmd
}

func newFetchBatchCmd(app *appContainer) *cobra.Command {
	cmdFlags := transferFlags{}

	fetchBatchCmd := &cobra.Command{
		Use:   "fetch-batch [urls...]",
		Short: "Fetch multiple objects concurrently",
		Long: `Downloads up to the configured maximum number of objects with bounded
concurrency. URLs may be passed as separate arguments or as a single
semicolon-delimited list. A failed URL is reported in the result table
without aborting the rest of the batch.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var urls []string
			for _, arg := range args {
				urls = append(urls, transfer.SplitURLList(arg)...)
			}
			if len(urls) == 0 {
				return fmt.Errorf("no URLs given")
			}

			batch, err := runWithProgress(len(urls), cmdFlags.quiet, func(onItem func(int, transfer.Result)) (transfer.BatchResult, error) {
				return app.TransferService.FetchBatch(cmd.Context(), urls, onItem)
			})
			if err != nil {
				return err
			}

			fmt.Println(app.Formatter.FormatBatchResult(batch))

			for _, r := range batch.Items {
				if r.Status != transfer.StatusSuccess {
					continue
				}
				path := filepath.Join(cmdFlags.outputDir, r.Key.Basename())
				if err := writePayload(path, r.Body, cmdFlags.force); err != nil {
					return err
				}
			}
			return nil
		},
	}
	fetchBatchCmd.Flags().StringVar(&cmdFlags.outputDir, flags.OutputDir, ".", "Directory to write fetched objects into")
	fetchBatchCmd.Flags().BoolVarP(&cmdFlags.force, flags.Force, flags.ForceShort, false, "Overwrite existing local files without prompting")
	fetchBatchCmd.Flags().BoolVarP(&cmdFlags.quiet, flags.Quiet, flags.QuietShort, false, "Suppress the progress display")

	return fetchBatchCmd
}

func newFetchPublicCmd(app *appContainer) *cobra.Command {
	cmdFlags := transferFlags{}

	fetchPublicCmd := &cobra.Command{
		Use:   "fetch-public [url]",
		Short: "Download a file from a public URL",
		Long: `Downloads a file from any public HTTP or HTTPS URL without touching the
configured storage backend. The content type reported by the server is
corrected against the filename extension when they disagree.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.TransferService.FetchPublic(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Println(app.Formatter.FormatResult(result))
			if result.Status == transfer.StatusFailed {
				return fmt.Errorf("download failed")
			}

			path := cmdFlags.output
			if path == "" {
				path = result.Key.Basename()
			}
			return writePayload(path, result.Body, cmdFlags.force)
		},
	}
	fetchPublicCmd.Flags().StringVarP(&cmdFlags.output, flags.Output, flags.OutputShort, "", "Local path to write the file to (defaults to the remote filename)")
	fetchPublicCmd.Flags().BoolVarP(&cmdFlags.force, flags.Force, flags.ForceShort, false, "Overwrite existing local files without prompting")

	return fetchPublicCmd
}

func addKeyShapeFlags(cmd *cobra.Command, cmdFlags *transferFlags) {
	cmd.Flags().StringVarP(&cmdFlags.directory, flags.Directory, flags.DirectoryShort, "", "Target directory inside the bucket (required)")
	cmd.MarkFlagRequired(flags.Directory)
	cmd.Flags().StringVar(&cmdFlags.directoryMode, flags.DirectoryMode, "", "Date folder layout: no_subdirectory, yyyy_mm_dd_hierarchy, or yyyy_mm_dd_combined")
	cmd.Flags().StringVar(&cmdFlags.filenameMode, flags.FilenameMode, "", "Filename layout: filename or filename_timestamp")
}

func buildUploadRequest(path string, cmdFlags transferFlags) (transfer.Request, error) {
	dirMode, err := transfer.ParseDirectoryMode(cmdFlags.directoryMode)
	if err != nil {
		return transfer.Request{}, err
	}
	nameMode, err := transfer.ParseFilenameMode(cmdFlags.filenameMode)
	if err != nil {
		return transfer.Request{}, err
	}

	body, err := os.ReadFile(path)
	if err != nil {
		return transfer.Request{}, fmt.Errorf("error reading file '%s': %w", path, err)
	}

	return transfer.Request{
		SourceName:    filepath.Base(path),
		Body:          body,
		Directory:     cmdFlags.directory,
		DirectoryMode: dirMode,
		FilenameMode:  nameMode,
	}, nil
}

// runWithProgress drives the interactive progress display while the
// batch runs. The batch goroutine owns the channel and closes it when
// every item has finished.
func runWithProgress(n int, quiet bool, run func(onItem func(int, transfer.Result)) (transfer.BatchResult, error)) (transfer.BatchResult, error) {
	if quiet {
		return run(nil)
	}

	updates := make(chan progress.ItemUpdate, n)

	var batch transfer.BatchResult
	var runErr error
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer close(updates)
		batch, runErr = run(func(i int, r transfer.Result) {
			label := r.Key.Basename()
			if label == "" {
				label = r.OriginalFilename
			}
			updates <- progress.ItemUpdate{
				Index:  i,
				Label:  label,
				Failed: r.Status == transfer.StatusFailed,
			}
		})
	}()

	if err := progress.Run(n, updates, os.Stderr); err != nil {
		// The display is cosmetic; the batch outcome still stands.
		for range updates {
		}
	}
	<-done

	return batch, runErr
}

// writePayload writes a fetched payload to disk, prompting before
// overwriting an existing file unless forced.
func writePayload(path string, body []byte, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			prompter := prompt.NewStandardPrompter(os.Stdin, os.Stdout)
			ok, err := prompter.Confirm(fmt.Sprintf("File '%s' already exists. Overwrite?", path))
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("not overwriting '%s'", path)
			}
		}
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("error creating output directory: %w", err)
		}
	}

	if err := os.WriteFile(path, body, 0644); err != nil {
		return fmt.Errorf("error writing file '%s': %w", path, err)
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}
