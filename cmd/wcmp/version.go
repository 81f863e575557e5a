package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pthm/wcmp"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of wcmp",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "wcmp version %s\n", wcmp.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
