package parser

import (
	"math/big"
	"strings"

	"slate/ast"
	"slate/internals"
	"slate/lexer"
)

// The parser consumes the ordered token slice produced by the lexer and
// builds the AST by recursive descent, one precedence tier per function.
// The first unmet expectation is fatal, there is no resynchronization.
type Parser struct {
	tokens []lexer.Token
	pos    int
}

func NewParser(tokens []lexer.Token) *Parser {
	return &Parser{
		tokens: tokens,
		pos:    0,
	}
}

// escape sequences resolved inside character and string literals
var literalEscapes = strings.NewReplacer(
	`\b`, "\b", `\n`, "\n", `\r`, "\r", `\t`, "\t",
	`\'`, "'", `\"`, `"`, `\\`, `\`,
)

func (p *Parser) has(offset int) bool {
	return p.pos+offset >= 0 && p.pos+offset < len(p.tokens)
}

func (p *Parser) get(offset int) lexer.Token {
	return p.tokens[p.pos+offset]
}

// peek reports whether the upcoming tokens match the given patterns in order,
// each pattern being either a literal text or a token kind.
func (p *Parser) peek(patterns ...string) bool {
	for idx, pattern := range patterns {
		if !p.has(idx) {
			return false
		}
		tok := p.get(idx)
		if pattern != tok.Text && pattern != tok.Kind {
			return false
		}
	}
	return true
}

func (p *Parser) match(patterns ...string) bool {
	if p.peek(patterns...) {
		p.pos += len(patterns)
		return true
	}
	return false
}

// require consumes one token matching the pattern or fails with the offset of
// the offending token, or just past the last consumed token when the input is
// exhausted.
func (p *Parser) require(pattern string, msg string) (lexer.Token, error) {
	if !p.match(pattern) {
		return lexer.Token{}, p.error(msg)
	}
	return p.get(-1), nil
}

func (p *Parser) error(msg string) *internals.SyntaxError {
	if p.has(0) {
		return internals.Syntax(p.get(0).Index, msg)
	}
	if p.pos == 0 {
		return internals.Syntax(0, msg)
	}
	last := p.get(-1)
	return internals.Syntax(last.Index+len([]rune(last.Text)), msg)
}

// Parse consumes the whole token sequence: zero or more fields, then zero or
// more methods, in that order. Anything left over is a syntax error.
func (p *Parser) Parse() (*ast.Source, error) {
	source := &ast.Source{
		Fields:  []*ast.Field{},
		Methods: []*ast.Method{},
	}

	for p.peek("LET") {
		tok := p.get(0)
		p.pos++
		field, err := p.parseField(tok)
		if err != nil {
			return nil, err
		}
		source.Fields = append(source.Fields, field)
	}

	for p.peek("DEF") {
		tok := p.get(0)
		p.pos++
		method, err := p.parseMethod(tok)
		if err != nil {
			return nil, err
		}
		source.Methods = append(source.Methods, method)
	}

	if p.has(0) {
		return nil, p.error("expected a field or method declaration")
	}

	return source, nil
}

func (p *Parser) parseField(tok lexer.Token) (*ast.Field, error) {
	name, err := p.require(lexer.TokenIdentifier, "expected an identifier after LET")
	if err != nil {
		return nil, err
	}

	field := &ast.Field{Token: tok, Name: name.Text}

	if p.match(":") {
		typeName, err := p.require(lexer.TokenIdentifier, "expected a type name after ':'")
		if err != nil {
			return nil, err
		}
		field.TypeName = typeName.Text
	}

	if p.match("=") {
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		field.Value = value
	}

	if _, err := p.require(";", "expected ';' after field declaration"); err != nil {
		return nil, err
	}
	return field, nil
}

func (p *Parser) parseMethod(tok lexer.Token) (*ast.Method, error) {
	name, err := p.require(lexer.TokenIdentifier, "expected an identifier after DEF")
	if err != nil {
		return nil, err
	}

	method := &ast.Method{
		Token:              tok,
		Name:               name.Text,
		Parameters:         []string{},
		ParameterTypeNames: []string{},
		Statements:         []ast.Statement{},
	}

	if _, err := p.require("(", "expected '(' after method name"); err != nil {
		return nil, err
	}

	if !p.peek(")") {
		for {
			param, err := p.require(lexer.TokenIdentifier, "expected a parameter name")
			if err != nil {
				return nil, err
			}
			if _, err := p.require(":", "expected ':' after parameter name"); err != nil {
				return nil, err
			}
			paramType, err := p.require(lexer.TokenIdentifier, "expected a parameter type")
			if err != nil {
				return nil, err
			}
			method.Parameters = append(method.Parameters, param.Text)
			method.ParameterTypeNames = append(method.ParameterTypeNames, paramType.Text)
			if !p.match(",") {
				break
			}
		}
	}

	if _, err := p.require(")", "expected ')' after parameters"); err != nil {
		return nil, err
	}

	if p.match(":") {
		returnType, err := p.require(lexer.TokenIdentifier, "expected a return type after ':'")
		if err != nil {
			return nil, err
		}
		method.ReturnTypeName = returnType.Text
	}

	if _, err := p.require("DO", "expected 'DO' before method body"); err != nil {
		return nil, err
	}

	for !p.match("END") {
		if !p.has(0) {
			return nil, p.error("expected 'END' after method body")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		method.Statements = append(method.Statements, stmt)
	}

	return method, nil
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	switch {
	case p.peek("LET"):
		tok := p.get(0)
		p.pos++
		return p.parseDeclaration(tok)
	case p.peek("IF"):
		tok := p.get(0)
		p.pos++
		return p.parseIf(tok)
	case p.peek("FOR"):
		tok := p.get(0)
		p.pos++
		return p.parseFor(tok)
	case p.peek("WHILE"):
		tok := p.get(0)
		p.pos++
		return p.parseWhile(tok)
	case p.peek("RETURN"):
		tok := p.get(0)
		p.pos++
		return p.parseReturn(tok)
	default:
		tok := lexer.Token{}
		if p.has(0) {
			tok = p.get(0)
		}

		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		if p.match("=") {
			assignTok := p.get(-1)
			value, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.require(";", "expected ';' after assignment"); err != nil {
				return nil, err
			}
			return &ast.Assignment{Token: assignTok, Receiver: expr, Value: value}, nil
		}

		if _, err := p.require(";", "expected ';' after expression"); err != nil {
			return nil, err
		}
		return &ast.ExpressionStatement{Token: tok, Expression: expr}, nil
	}
}

func (p *Parser) parseDeclaration(tok lexer.Token) (ast.Statement, error) {
	name, err := p.require(lexer.TokenIdentifier, "expected an identifier after LET")
	if err != nil {
		return nil, err
	}

	decl := &ast.Declaration{Token: tok, Name: name.Text}

	if p.match(":") {
		typeName, err := p.require(lexer.TokenIdentifier, "expected a type name after ':'")
		if err != nil {
			return nil, err
		}
		decl.TypeName = typeName.Text
	}

	if p.match("=") {
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		decl.Value = value
	}

	if _, err := p.require(";", "expected ';' after declaration"); err != nil {
		return nil, err
	}
	return decl, nil
}

func (p *Parser) parseIf(tok lexer.Token) (ast.Statement, error) {
	condition, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if _, err := p.require("DO", "expected 'DO' after if condition"); err != nil {
		return nil, err
	}

	stmt := &ast.IfStatement{
		Token:     tok,
		Condition: condition,
		Then:      []ast.Statement{},
		Else:      []ast.Statement{},
	}

	for !p.peek("ELSE") && !p.peek("END") {
		if !p.has(0) {
			return nil, p.error("expected 'END' after if statement")
		}
		then, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmt.Then = append(stmt.Then, then)
	}

	if p.match("ELSE") {
		for !p.peek("END") {
			if !p.has(0) {
				return nil, p.error("expected 'END' after if statement")
			}
			alt, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			stmt.Else = append(stmt.Else, alt)
		}
	}

	if _, err := p.require("END", "expected 'END' after if statement"); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseFor(tok lexer.Token) (ast.Statement, error) {
	name, err := p.require(lexer.TokenIdentifier, "expected a loop variable after FOR")
	if err != nil {
		return nil, err
	}
	if _, err := p.require("IN", "expected 'IN' after loop variable"); err != nil {
		return nil, err
	}

	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if _, err := p.require("DO", "expected 'DO' after for target"); err != nil {
		return nil, err
	}

	stmt := &ast.ForStatement{
		Token: tok,
		Name:  name.Text,
		Value: value,
		Body:  []ast.Statement{},
	}

	for !p.match("END") {
		if !p.has(0) {
			return nil, p.error("expected 'END' after for body")
		}
		body, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmt.Body = append(stmt.Body, body)
	}

	return stmt, nil
}

func (p *Parser) parseWhile(tok lexer.Token) (ast.Statement, error) {
	condition, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if _, err := p.require("DO", "expected 'DO' after while condition"); err != nil {
		return nil, err
	}

	stmt := &ast.WhileStatement{
		Token:     tok,
		Condition: condition,
		Body:      []ast.Statement{},
	}

	for !p.match("END") {
		if !p.has(0) {
			return nil, p.error("expected 'END' after while body")
		}
		body, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmt.Body = append(stmt.Body, body)
	}

	return stmt, nil
}

func (p *Parser) parseReturn(tok lexer.Token) (ast.Statement, error) {
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.require(";", "expected ';' after return value"); err != nil {
		return nil, err
	}
	return &ast.ReturnStatement{Token: tok, Value: value}, nil
}

// Expression tiers, lowest to highest binding strength. Each tier folds its
// operators left to right, producing a left-leaning chain.

func (p *Parser) parseExpression() (ast.Expression, error) {
	return p.parseLogicalExpression()
}

func (p *Parser) parseLogicalExpression() (ast.Expression, error) {
	left, err := p.parseComparisonExpression()
	if err != nil {
		return nil, err
	}

	for p.match("AND") || p.match("OR") {
		tok := p.get(-1)
		right, err := p.parseComparisonExpression()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Token: tok, Operator: tok.Text, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseComparisonExpression() (ast.Expression, error) {
	left, err := p.parseAdditiveExpression()
	if err != nil {
		return nil, err
	}

	for p.match("<") || p.match("<=") || p.match(">") || p.match(">=") || p.match("==") || p.match("!=") {
		tok := p.get(-1)
		right, err := p.parseAdditiveExpression()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Token: tok, Operator: tok.Text, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAdditiveExpression() (ast.Expression, error) {
	left, err := p.parseMultiplicativeExpression()
	if err != nil {
		return nil, err
	}

	for p.match("+") || p.match("-") {
		tok := p.get(-1)
		right, err := p.parseMultiplicativeExpression()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Token: tok, Operator: tok.Text, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseMultiplicativeExpression() (ast.Expression, error) {
	left, err := p.parseSecondaryExpression()
	if err != nil {
		return nil, err
	}

	for p.match("*") || p.match("/") {
		tok := p.get(-1)
		right, err := p.parseSecondaryExpression()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Token: tok, Operator: tok.Text, Left: left, Right: right}
	}
	return left, nil
}

// parseSecondaryExpression chains member accesses and method calls onto a
// primary expression.
func (p *Parser) parseSecondaryExpression() (ast.Expression, error) {
	primary, err := p.parsePrimaryExpression()
	if err != nil {
		return nil, err
	}

	for p.match(".") {
		name, err := p.require(lexer.TokenIdentifier, "expected a field or method name after '.'")
		if err != nil {
			return nil, err
		}
		if p.match("(") {
			args, err := p.parseArguments()
			if err != nil {
				return nil, err
			}
			primary = &ast.CallExpression{Token: name, Receiver: primary, Name: name.Text, Args: args}
		} else {
			primary = &ast.Access{Token: name, Receiver: primary, Name: name.Text}
		}
	}
	return primary, nil
}

func (p *Parser) parsePrimaryExpression() (ast.Expression, error) {
	switch {
	case p.match("NIL"):
		return &ast.Literal{Token: p.get(-1), Value: nil}, nil

	case p.match("TRUE"):
		return &ast.Literal{Token: p.get(-1), Value: true}, nil

	case p.match("FALSE"):
		return &ast.Literal{Token: p.get(-1), Value: false}, nil

	case p.match(lexer.TokenInteger):
		tok := p.get(-1)
		value, ok := new(big.Int).SetString(tok.Text, 10)
		if !ok {
			return nil, internals.Syntax(tok.Index, "malformed integer literal")
		}
		return &ast.Literal{Token: tok, Value: value}, nil

	case p.match(lexer.TokenDecimal):
		tok := p.get(-1)
		value, ok := new(big.Float).SetString(tok.Text)
		if !ok {
			return nil, internals.Syntax(tok.Index, "malformed decimal literal")
		}
		return &ast.Literal{Token: tok, Value: value}, nil

	case p.match(lexer.TokenCharacter):
		tok := p.get(-1)
		text := []rune(tok.Text)
		value := literalEscapes.Replace(string(text[1 : len(text)-1]))
		return &ast.Literal{Token: tok, Value: []rune(value)[0]}, nil

	case p.match(lexer.TokenString):
		tok := p.get(-1)
		text := []rune(tok.Text)
		value := literalEscapes.Replace(string(text[1 : len(text)-1]))
		return &ast.Literal{Token: tok, Value: value}, nil

	case p.match("("):
		tok := p.get(-1)
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.require(")", "expected ')' after expression"); err != nil {
			return nil, err
		}
		return &ast.Group{Token: tok, Expression: expr}, nil

	case p.match(lexer.TokenIdentifier):
		tok := p.get(-1)
		if p.match("(") {
			args, err := p.parseArguments()
			if err != nil {
				return nil, err
			}
			return &ast.CallExpression{Token: tok, Name: tok.Text, Args: args}, nil
		}
		return &ast.Access{Token: tok, Name: tok.Text}, nil
	}

	return nil, p.error("expected an expression")
}

// parseArguments is called with the opening '(' already consumed.
func (p *Parser) parseArguments() ([]ast.Expression, error) {
	args := []ast.Expression{}

	if !p.peek(")") {
		for {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.match(",") {
				break
			}
		}
	}

	if _, err := p.require(")", "expected ')' after arguments"); err != nil {
		return nil, err
	}
	return args, nil
}
