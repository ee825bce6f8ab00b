package cmd

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:   "slate",
	Short: "Frontend for the Slate teaching language",
	Long: `slate parses and type-checks Slate sources.

It runs the two static stages of the interpreter, parsing and semantic
analysis, and reports the first diagnostic it finds. Evaluation of a
checked program is left to the hosting runtime.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}
