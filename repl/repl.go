package repl

// Interactive front end: accumulates lines until the buffer parses as a whole
// source, runs the analyzer over it, and reports the outcome. Evaluation is
// the host's business, the repl only checks.

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"slate/internals"
	"slate/lexer"
	"slate/parser"
	"slate/semantics"
)

const (
	prompt      = ">>> "
	contPrompt  = "... "
	historyFile = ".slate_history"
)

var (
	errColor = color.New(color.FgRed)
	okColor  = color.New(color.FgGreen)
)

func Start(out io.Writer) {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		source, ok := readSource(ln)
		if !ok {
			fmt.Fprintln(out)
			return
		}
		if strings.TrimSpace(source) == "" {
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(source, "\n", " "))
		check(out, source)
	}
}

// readSource keeps prompting while the buffer still looks incomplete, that
// is, while the parser fails exactly at the end of the input.
func readSource(ln *liner.State) (string, bool) {
	var buffer strings.Builder

	for {
		current := prompt
		if buffer.Len() > 0 {
			current = contPrompt
		}

		line, err := ln.Prompt(current)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}

		if buffer.Len() > 0 {
			buffer.WriteByte('\n')
		}
		buffer.WriteString(line)

		if !incomplete(buffer.String()) {
			return buffer.String(), true
		}
	}
}

func incomplete(source string) bool {
	tokens, err := lexer.NewLexer(source).Tokenize()
	if err != nil || len(tokens) == 0 {
		return false
	}

	_, err = parser.NewParser(tokens).Parse()
	var syn *internals.SyntaxError
	if errors.As(err, &syn) {
		last := tokens[len(tokens)-1]
		return syn.Index >= last.Index+len([]rune(last.Text))
	}
	return false
}

func check(out io.Writer, source string) {
	tokens, err := lexer.NewLexer(source).Tokenize()
	if err != nil {
		report(out, source, err)
		return
	}

	tree, err := parser.NewParser(tokens).Parse()
	if err != nil {
		report(out, source, err)
		return
	}

	if err := semantics.NewAnalyzer(nil).Analyze(tree); err != nil {
		report(out, source, err)
		return
	}

	okColor.Fprintf(out, "ok: %d field(s), %d method(s)\n", len(tree.Fields), len(tree.Methods))
}

func report(out io.Writer, source string, err error) {
	var syn *internals.SyntaxError
	if errors.As(err, &syn) {
		row, col := internals.Position(source, syn.Index)
		errColor.Fprintf(out, "%d:%d: %s\n", row, col, syn.Message)
		return
	}
	errColor.Fprintln(out, err)
}
