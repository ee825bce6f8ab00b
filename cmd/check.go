package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"slate/internals"
	"slate/lexer"
	"slate/parser"
	"slate/semantics"
)

var errPrefix = color.New(color.FgRed, color.Bold)

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Parse and type-check a Slate source file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		source := string(content)
		if err := checkSource(source); err != nil {
			printDiagnostic(args[0], source, err)
			return fmt.Errorf("check failed")
		}

		fmt.Printf("%s: ok\n", args[0])
		return nil
	},
}

func checkSource(source string) error {
	tokens, err := lexer.NewLexer(source).Tokenize()
	if err != nil {
		return err
	}

	tree, err := parser.NewParser(tokens).Parse()
	if err != nil {
		return err
	}

	return semantics.NewAnalyzer(nil).Analyze(tree)
}

func printDiagnostic(path, source string, err error) {
	var syn *internals.SyntaxError
	if errors.As(err, &syn) {
		row, col := internals.Position(source, syn.Index)
		errPrefix.Fprintf(os.Stderr, "%s:%d:%d: ", path, row, col)
		fmt.Fprintln(os.Stderr, syn.Message)
		return
	}

	errPrefix.Fprintf(os.Stderr, "%s: ", path)
	fmt.Fprintln(os.Stderr, err)
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
