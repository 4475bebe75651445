package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ferry/internal/tooldef"
)

func newToolsCmd(app *appContainer) *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the available transfer operations and their parameters",
		Long: `Prints the embedded operation manifest: every transfer operation the
binary exposes, with its parameters, defaults, and allowed values.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			tools, err := tooldef.Load()
			if err != nil {
				return err
			}

			fmt.Println(app.Formatter.FormatToolList(tools))
			return nil
		},
	}
}
