package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/perihelia/graphlink"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the graphlink version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "graphlink "+graphlink.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
