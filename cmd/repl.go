package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"slate/repl"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactively parse and type-check Slate sources",
	Run: func(cmd *cobra.Command, args []string) {
		repl.Start(os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
