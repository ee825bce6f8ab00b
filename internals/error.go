package internals

// This file holds the two fatal error kinds shared by the frontend stages.

import "fmt"

// SyntaxError is raised by the lexer and the parser whenever a grammatical
// expectation is not met. Index is the zero-based character offset of the
// offending token, or the offset just past the last consumed token when the
// input ran out.
type SyntaxError struct {
	Message string
	Index   int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d: %s", e.Index, e.Message)
}

func Syntax(index int, msg ...interface{}) *SyntaxError {
	return &SyntaxError{Message: fmt.Sprint(msg...), Index: index}
}

// SemanticError is raised by the analyzer. It carries no offset, semantic
// failures are reported at the node being analyzed.
type SemanticError struct {
	Message string
}

func (e *SemanticError) Error() string {
	return "semantic error: " + e.Message
}

func Semanticf(format string, args ...interface{}) *SemanticError {
	return &SemanticError{Message: fmt.Sprintf(format, args...)}
}
