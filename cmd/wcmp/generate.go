package main

import (
	"github.com/spf13/cobra"

	"github.com/pthm/wcmp/lib/generator"
)

var generateCmd = &cobra.Command{
	Use:   "generate [manifests or dirs]",
	Short: "Generate wrappers for component manifests",
	Long: `Generate a <name>_wc.go wrapper next to every <name>.wcmp.yaml manifest.

Arguments are manifest files, directories, or directories followed by
"/..." to include subdirectories. The default is ./...`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		if len(args) == 0 {
			args = []string{"./..."}
		}
		g := generator.New(generator.Options{DryRun: dryRun, Out: cmd.OutOrStdout()})
		return g.Generate(args...)
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean [dirs]",
	Short: "Remove generated wrappers",
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		if len(args) == 0 {
			args = []string{"./..."}
		}
		g := generator.New(generator.Options{DryRun: dryRun, Out: cmd.OutOrStdout()})
		return g.Clean(args...)
	},
}

func init() {
	generateCmd.Flags().BoolP("dry-run", "n", false, "Print what would be generated without writing files")
	cleanCmd.Flags().BoolP("dry-run", "n", false, "Print what would be removed without deleting files")
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(cleanCmd)
}
