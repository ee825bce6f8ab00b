package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"slate/lexer"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens <file>",
	Short: "Dump the token stream of a Slate source file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		source := string(content)
		tokens, err := lexer.NewLexer(source).Tokenize()
		if err != nil {
			printDiagnostic(args[0], source, err)
			return fmt.Errorf("tokenize failed")
		}

		for _, tok := range tokens {
			fmt.Printf("%4d  %-10s %s\n", tok.Index, tok.Kind, tok.Text)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokensCmd)
}
