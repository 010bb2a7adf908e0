package main

import (
	"github.com/spf13/cobra"
)

var (
	queryFile string
	queryVars []string
)

var queryCmd = &cobra.Command{
	Use:   "query [document]",
	Short: "Run a GraphQL query",
	Long: `Run a GraphQL query against the configured endpoint.

The document is taken from the positional argument, from --file, or
from stdin. The query is normalized before it is sent and the response
is printed as JSON, server errors included.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOperation(cmd, args, queryFile, queryVars, false)
	},
}

func init() {
	queryCmd.Flags().StringVarP(&queryFile, "file", "f", "", "read the document from this file ('-' for stdin)")
	queryCmd.Flags().StringArrayVar(&queryVars, "var", nil, "operation variable as key=value, value parsed as JSON (repeatable)")
	rootCmd.AddCommand(queryCmd)
}
