package main

import (
	"github.com/spf13/cobra"
)

var (
	mutateFile string
	mutateVars []string
)

var mutateCmd = &cobra.Command{
	Use:   "mutate [document]",
	Short: "Run a GraphQL mutation",
	Long: `Run a GraphQL mutation against the configured endpoint.

The document is taken from the positional argument, from --file, or
from stdin, and is sent exactly as written. The response is printed as
JSON, server errors included.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOperation(cmd, args, mutateFile, mutateVars, true)
	},
}

func init() {
	mutateCmd.Flags().StringVarP(&mutateFile, "file", "f", "", "read the document from this file ('-' for stdin)")
	mutateCmd.Flags().StringArrayVar(&mutateVars, "var", nil, "operation variable as key=value, value parsed as JSON (repeatable)")
	rootCmd.AddCommand(mutateCmd)
}
