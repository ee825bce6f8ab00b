package ast

import (
	"bytes"
	"fmt"
	"math/big"
	"strings"

	"slate/env"
	"slate/lexer"
)

type Node interface {
	TokenLiteral() string
	String() string
	GetToken() lexer.Token
}

type Statement interface {
	Node
	statementNode()
}

type Expression interface {
	Node
	expressionNode()
	// Type reports the resolved type attached by the analyzer. Reading it
	// before analysis is a programming error and panics.
	Type() *env.Type
	SetType(*env.Type)
}

// The annotation slots below are written exactly once by the analyzer and
// never overwritten, the panics guard that discipline.

type typeSlot struct {
	resolvedType *env.Type
}

func (s *typeSlot) Type() *env.Type {
	if s.resolvedType == nil {
		panic("ast: expression type read before analysis")
	}
	return s.resolvedType
}

func (s *typeSlot) SetType(tp *env.Type) {
	if s.resolvedType != nil {
		panic("ast: expression type set twice")
	}
	s.resolvedType = tp
}

type variableSlot struct {
	variable *env.Variable
}

func (s *variableSlot) Variable() *env.Variable {
	if s.variable == nil {
		panic("ast: variable binding read before analysis")
	}
	return s.variable
}

func (s *variableSlot) SetVariable(variable *env.Variable) {
	if s.variable != nil {
		panic("ast: variable binding set twice")
	}
	s.variable = variable
}

type functionSlot struct {
	function *env.Function
}

func (s *functionSlot) Function() *env.Function {
	if s.function == nil {
		panic("ast: function binding read before analysis")
	}
	return s.function
}

func (s *functionSlot) SetFunction(function *env.Function) {
	if s.function != nil {
		panic("ast: function binding set twice")
	}
	s.function = function
}

// Source is the root node, field declarations followed by method declarations.
type Source struct {
	Fields  []*Field
	Methods []*Method
}

func (s *Source) TokenLiteral() string {
	if len(s.Fields) > 0 {
		return s.Fields[0].TokenLiteral()
	}
	if len(s.Methods) > 0 {
		return s.Methods[0].TokenLiteral()
	}
	return ""
}

func (s *Source) GetToken() lexer.Token {
	if len(s.Fields) > 0 {
		return s.Fields[0].GetToken()
	}
	if len(s.Methods) > 0 {
		return s.Methods[0].GetToken()
	}
	return lexer.Token{}
}

func (s *Source) String() string {
	parts := make([]string, 0, len(s.Fields)+len(s.Methods))
	for _, field := range s.Fields {
		parts = append(parts, field.String())
	}
	for _, method := range s.Methods {
		parts = append(parts, method.String())
	}
	return strings.Join(parts, " ")
}

type Field struct {
	Token    lexer.Token // the LET token
	Name     string
	TypeName string     // empty when no declared type
	Value    Expression // nil when no initializer
	variableSlot
}

func (f *Field) statementNode()        {}
func (f *Field) TokenLiteral() string  { return f.Token.Text }
func (f *Field) GetToken() lexer.Token { return f.Token }
func (f *Field) String() string {
	var out bytes.Buffer
	out.WriteString("LET " + f.Name)
	if f.TypeName != "" {
		out.WriteString(": " + f.TypeName)
	}
	if f.Value != nil {
		out.WriteString(" = " + f.Value.String())
	}
	out.WriteString(";")
	return out.String()
}

type Method struct {
	Token              lexer.Token // the DEF token
	Name               string
	Parameters         []string
	ParameterTypeNames []string
	ReturnTypeName     string // empty when no declared return type
	Statements         []Statement
	functionSlot
}

func (m *Method) statementNode()        {}
func (m *Method) TokenLiteral() string  { return m.Token.Text }
func (m *Method) GetToken() lexer.Token { return m.Token }
func (m *Method) String() string {
	var out bytes.Buffer
	out.WriteString("DEF " + m.Name + "(")
	for idx, param := range m.Parameters {
		out.WriteString(param + ": " + m.ParameterTypeNames[idx])
		if idx < len(m.Parameters)-1 {
			out.WriteString(", ")
		}
	}
	out.WriteString(")")
	if m.ReturnTypeName != "" {
		out.WriteString(": " + m.ReturnTypeName)
	}
	out.WriteString(" DO " + statementList(m.Statements) + " END")
	return out.String()
}

type ExpressionStatement struct {
	Token      lexer.Token
	Expression Expression
}

func (es *ExpressionStatement) statementNode()        {}
func (es *ExpressionStatement) TokenLiteral() string  { return es.Token.Text }
func (es *ExpressionStatement) GetToken() lexer.Token { return es.Token }
func (es *ExpressionStatement) String() string        { return es.Expression.String() + ";" }

type Declaration struct {
	Token    lexer.Token // the LET token
	Name     string
	TypeName string     // empty when no declared type
	Value    Expression // nil when no initializer
	variableSlot
}

func (d *Declaration) statementNode()        {}
func (d *Declaration) TokenLiteral() string  { return d.Token.Text }
func (d *Declaration) GetToken() lexer.Token { return d.Token }
func (d *Declaration) String() string {
	var out bytes.Buffer
	out.WriteString("LET " + d.Name)
	if d.TypeName != "" {
		out.WriteString(": " + d.TypeName)
	}
	if d.Value != nil {
		out.WriteString(" = " + d.Value.String())
	}
	out.WriteString(";")
	return out.String()
}

type Assignment struct {
	Token    lexer.Token // the = token
	Receiver Expression
	Value    Expression
}

func (a *Assignment) statementNode()        {}
func (a *Assignment) TokenLiteral() string  { return a.Token.Text }
func (a *Assignment) GetToken() lexer.Token { return a.Token }
func (a *Assignment) String() string {
	return a.Receiver.String() + " = " + a.Value.String() + ";"
}

type IfStatement struct {
	Token     lexer.Token // the IF token
	Condition Expression
	Then      []Statement
	Else      []Statement
}

func (is *IfStatement) statementNode()        {}
func (is *IfStatement) TokenLiteral() string  { return is.Token.Text }
func (is *IfStatement) GetToken() lexer.Token { return is.Token }
func (is *IfStatement) String() string {
	var out bytes.Buffer
	out.WriteString("IF " + is.Condition.String() + " DO " + statementList(is.Then))
	if len(is.Else) > 0 {
		out.WriteString(" ELSE " + statementList(is.Else))
	}
	out.WriteString(" END")
	return out.String()
}

type ForStatement struct {
	Token lexer.Token // the FOR token
	Name  string      // the loop variable
	Value Expression  // the iterated expression
	Body  []Statement
}

func (fs *ForStatement) statementNode()        {}
func (fs *ForStatement) TokenLiteral() string  { return fs.Token.Text }
func (fs *ForStatement) GetToken() lexer.Token { return fs.Token }
func (fs *ForStatement) String() string {
	return "FOR " + fs.Name + " IN " + fs.Value.String() + " DO " + statementList(fs.Body) + " END"
}

type WhileStatement struct {
	Token     lexer.Token // the WHILE token
	Condition Expression
	Body      []Statement
}

func (ws *WhileStatement) statementNode()        {}
func (ws *WhileStatement) TokenLiteral() string  { return ws.Token.Text }
func (ws *WhileStatement) GetToken() lexer.Token { return ws.Token }
func (ws *WhileStatement) String() string {
	return "WHILE " + ws.Condition.String() + " DO " + statementList(ws.Body) + " END"
}

type ReturnStatement struct {
	Token lexer.Token // the RETURN token
	Value Expression
}

func (rs *ReturnStatement) statementNode()        {}
func (rs *ReturnStatement) TokenLiteral() string  { return rs.Token.Text }
func (rs *ReturnStatement) GetToken() lexer.Token { return rs.Token }
func (rs *ReturnStatement) String() string        { return "RETURN " + rs.Value.String() + ";" }

// Literal holds the converted value: nil, bool, rune, string, *big.Int or
// *big.Float.
type Literal struct {
	Token lexer.Token
	Value interface{}
	typeSlot
}

func (l *Literal) expressionNode()       {}
func (l *Literal) TokenLiteral() string  { return l.Token.Text }
func (l *Literal) GetToken() lexer.Token { return l.Token }
func (l *Literal) String() string {
	switch value := l.Value.(type) {
	case nil:
		return "NIL"
	case bool:
		if value {
			return "TRUE"
		}
		return "FALSE"
	case rune:
		return "'" + string(value) + "'"
	case string:
		return `"` + value + `"`
	case *big.Int:
		return value.String()
	case *big.Float:
		return value.Text('f', -1)
	default:
		return fmt.Sprintf("%v", value)
	}
}

type Group struct {
	Token      lexer.Token // the ( token
	Expression Expression
	typeSlot
}

func (g *Group) expressionNode()       {}
func (g *Group) TokenLiteral() string  { return g.Token.Text }
func (g *Group) GetToken() lexer.Token { return g.Token }
func (g *Group) String() string        { return "(" + g.Expression.String() + ")" }

type Binary struct {
	Token    lexer.Token // the operator token
	Operator string
	Left     Expression
	Right    Expression
	typeSlot
}

func (b *Binary) expressionNode()       {}
func (b *Binary) TokenLiteral() string  { return b.Token.Text }
func (b *Binary) GetToken() lexer.Token { return b.Token }
func (b *Binary) String() string {
	return "(" + b.Left.String() + " " + b.Operator + " " + b.Right.String() + ")"
}

type Access struct {
	Token    lexer.Token // the name token
	Receiver Expression  // nil for a bare variable access
	Name     string
	variableSlot
	typeSlot
}

func (a *Access) expressionNode()       {}
func (a *Access) TokenLiteral() string  { return a.Token.Text }
func (a *Access) GetToken() lexer.Token { return a.Token }
func (a *Access) String() string {
	if a.Receiver != nil {
		return a.Receiver.String() + "." + a.Name
	}
	return a.Name
}

type CallExpression struct {
	Token    lexer.Token // the name token
	Receiver Expression  // nil for a plain function call
	Name     string
	Args     []Expression
	functionSlot
	typeSlot
}

func (ce *CallExpression) expressionNode()       {}
func (ce *CallExpression) TokenLiteral() string  { return ce.Token.Text }
func (ce *CallExpression) GetToken() lexer.Token { return ce.Token }
func (ce *CallExpression) String() string {
	var out bytes.Buffer
	if ce.Receiver != nil {
		out.WriteString(ce.Receiver.String() + ".")
	}
	args := make([]string, 0, len(ce.Args))
	for _, arg := range ce.Args {
		args = append(args, arg.String())
	}
	out.WriteString(ce.Name + "(" + strings.Join(args, ", ") + ")")
	return out.String()
}

func statementList(statements []Statement) string {
	parts := make([]string, 0, len(statements))
	for _, stmt := range statements {
		parts = append(parts, stmt.String())
	}
	return strings.Join(parts, " ")
}
