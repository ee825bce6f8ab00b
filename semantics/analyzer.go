package semantics

// This file implements the semantic analyzer, a visitor over the AST that
// resolves every name against the scope chain, attaches a type to every
// expression and a binding to every declaration, access and call, and
// enforces the type rules. The first violation aborts the whole pass.

import (
	"math"
	"math/big"

	"slate/ast"
	"slate/env"
	"slate/internals"
)

// EntryPoint is the required zero-parameter method every source must declare.
const EntryPoint = "main"

var (
	minInteger = big.NewInt(math.MinInt32)
	maxInteger = big.NewInt(math.MaxInt32)
)

type Analyzer struct {
	scope      *env.Scope
	returnType *env.Type // expected type of RETURN values in the current method
}

// NewAnalyzer builds an analyzer whose root scope is a child of parent (nil
// for a standalone one). The print intrinsic is pre-registered, its behavior
// lives with the hosting evaluator, only the signature matters here.
func NewAnalyzer(parent *env.Scope) *Analyzer {
	scope := env.NewScope(parent)
	if _, err := scope.DefineFunction("print", []*env.Type{env.Any}, env.Nil); err != nil {
		panic(err)
	}
	return &Analyzer{scope: scope}
}

// Scope exposes the analyzer's root scope so the hosting evaluator can
// register further intrinsics before Analyze runs.
func (a *Analyzer) Scope() *env.Scope { return a.scope }

// Analyze checks the whole source and fills in every annotation slot. On
// error the tree is left partially annotated and must be discarded.
func (a *Analyzer) Analyze(source *ast.Source) error {
	entry := (*ast.Method)(nil)
	for _, method := range source.Methods {
		if method.Name == EntryPoint && len(method.Parameters) == 0 {
			entry = method
			break
		}
	}
	if entry == nil {
		return internals.Semanticf("no %v method found", EntryPoint)
	}
	if returnTypeName(entry) != "Integer" {
		return internals.Semanticf("%v method must return Integer", EntryPoint)
	}

	for _, field := range source.Fields {
		if err := a.visitField(field); err != nil {
			return err
		}
	}
	for _, method := range source.Methods {
		if err := a.visitMethod(method); err != nil {
			return err
		}
	}
	return nil
}

// the entry point defaults to Integer when no return type is declared, every
// other method defaults to Nil
func returnTypeName(method *ast.Method) string {
	if method.ReturnTypeName != "" {
		return method.ReturnTypeName
	}
	if method.Name == EntryPoint {
		return "Integer"
	}
	return "Nil"
}

func (a *Analyzer) visitField(field *ast.Field) error {
	fieldType, err := a.declaredType(field.TypeName, field.Value, field.Name)
	if err != nil {
		return err
	}

	variable, err := a.scope.DefineVariable(field.Name, fieldType)
	if err != nil {
		return err
	}
	field.SetVariable(variable)
	return nil
}

func (a *Analyzer) visitMethod(method *ast.Method) error {
	paramTypes := make([]*env.Type, 0, len(method.ParameterTypeNames))
	for _, name := range method.ParameterTypeNames {
		paramType, err := env.TypeByName(name)
		if err != nil {
			return err
		}
		paramTypes = append(paramTypes, paramType)
	}

	returnType, err := env.TypeByName(returnTypeName(method))
	if err != nil {
		return err
	}

	// the method is defined in the enclosing scope before its body is
	// analyzed, so it can call itself
	function, err := a.scope.DefineFunction(method.Name, paramTypes, returnType)
	if err != nil {
		return err
	}
	method.SetFunction(function)

	prevScope, prevReturn := a.scope, a.returnType
	a.scope = env.NewScope(prevScope)
	a.returnType = returnType

	for idx, param := range method.Parameters {
		if _, err := a.scope.DefineVariable(param, paramTypes[idx]); err != nil {
			return err
		}
	}

	for _, stmt := range method.Statements {
		if err := a.visitStatement(stmt); err != nil {
			return err
		}
	}

	a.scope, a.returnType = prevScope, prevReturn
	return nil
}

func (a *Analyzer) visitStatement(node ast.Statement) error {
	switch stmt := node.(type) {
	case *ast.ExpressionStatement:
		return a.visitExpressionStatement(stmt)
	case *ast.Declaration:
		return a.visitDeclaration(stmt)
	case *ast.Assignment:
		return a.visitAssignment(stmt)
	case *ast.IfStatement:
		return a.visitIf(stmt)
	case *ast.ForStatement:
		return a.visitFor(stmt)
	case *ast.WhileStatement:
		return a.visitWhile(stmt)
	case *ast.ReturnStatement:
		return a.visitReturn(stmt)
	default:
		return internals.Semanticf("unsupported statement %T", node)
	}
}

func (a *Analyzer) visitExpressionStatement(stmt *ast.ExpressionStatement) error {
	if _, ok := stmt.Expression.(*ast.CallExpression); !ok {
		return internals.Semanticf("expression statement must be a function call")
	}
	return a.visitExpression(stmt.Expression)
}

// declaredType implements the shared field/declaration rule: a declared type
// name, an initializer to infer from, or both, in which case the initializer
// must be assignable to the declared type.
func (a *Analyzer) declaredType(typeName string, value ast.Expression, name string) (*env.Type, error) {
	if typeName == "" && value == nil {
		return nil, internals.Semanticf("declaration of %v needs a type or an initializer", name)
	}

	if value != nil {
		if err := a.visitExpression(value); err != nil {
			return nil, err
		}
	}

	if typeName == "" {
		return value.Type(), nil
	}

	declared, err := env.TypeByName(typeName)
	if err != nil {
		return nil, err
	}
	if value != nil {
		if err := requireAssignable(declared, value.Type()); err != nil {
			return nil, err
		}
	}
	return declared, nil
}

func (a *Analyzer) visitDeclaration(stmt *ast.Declaration) error {
	declType, err := a.declaredType(stmt.TypeName, stmt.Value, stmt.Name)
	if err != nil {
		return err
	}

	variable, err := a.scope.DefineVariable(stmt.Name, declType)
	if err != nil {
		return err
	}
	stmt.SetVariable(variable)
	return nil
}

func (a *Analyzer) visitAssignment(stmt *ast.Assignment) error {
	if _, ok := stmt.Receiver.(*ast.Access); !ok {
		return internals.Semanticf("assignment receiver must be an access expression")
	}
	if err := a.visitExpression(stmt.Receiver); err != nil {
		return err
	}
	if err := a.visitExpression(stmt.Value); err != nil {
		return err
	}
	return requireAssignable(stmt.Receiver.Type(), stmt.Value.Type())
}

func (a *Analyzer) visitIf(stmt *ast.IfStatement) error {
	if err := a.visitCondition(stmt.Condition); err != nil {
		return err
	}
	if len(stmt.Then) == 0 {
		return internals.Semanticf("then branch cannot be empty")
	}

	if err := a.visitBlock(stmt.Then); err != nil {
		return err
	}
	if len(stmt.Else) > 0 {
		return a.visitBlock(stmt.Else)
	}
	return nil
}

func (a *Analyzer) visitFor(stmt *ast.ForStatement) error {
	if err := a.visitExpression(stmt.Value); err != nil {
		return err
	}
	if stmt.Value.Type() != env.IntegerIterable {
		return internals.Semanticf("for target must be IntegerIterable, got %v", stmt.Value.Type())
	}
	if len(stmt.Body) == 0 {
		return internals.Semanticf("for body cannot be empty")
	}

	prev := a.scope
	a.scope = env.NewScope(prev)
	if _, err := a.scope.DefineVariable(stmt.Name, env.Integer); err != nil {
		return err
	}
	for _, body := range stmt.Body {
		if err := a.visitStatement(body); err != nil {
			return err
		}
	}
	a.scope = prev
	return nil
}

func (a *Analyzer) visitWhile(stmt *ast.WhileStatement) error {
	if err := a.visitCondition(stmt.Condition); err != nil {
		return err
	}
	return a.visitBlock(stmt.Body)
}

func (a *Analyzer) visitReturn(stmt *ast.ReturnStatement) error {
	if err := a.visitExpression(stmt.Value); err != nil {
		return err
	}
	return requireAssignable(a.returnType, stmt.Value.Type())
}

func (a *Analyzer) visitCondition(condition ast.Expression) error {
	if err := a.visitExpression(condition); err != nil {
		return err
	}
	if condition.Type() != env.Boolean {
		return internals.Semanticf("condition must be Boolean, got %v", condition.Type())
	}
	return nil
}

// visitBlock analyzes a statement list in a fresh child scope, restoring the
// enclosing scope afterwards.
func (a *Analyzer) visitBlock(statements []ast.Statement) error {
	prev := a.scope
	a.scope = env.NewScope(prev)
	for _, stmt := range statements {
		if err := a.visitStatement(stmt); err != nil {
			return err
		}
	}
	a.scope = prev
	return nil
}

func (a *Analyzer) visitExpression(node ast.Expression) error {
	switch expr := node.(type) {
	case *ast.Literal:
		return a.visitLiteral(expr)
	case *ast.Group:
		return a.visitGroup(expr)
	case *ast.Binary:
		return a.visitBinary(expr)
	case *ast.Access:
		return a.visitAccess(expr)
	case *ast.CallExpression:
		return a.visitCall(expr)
	default:
		return internals.Semanticf("unsupported expression %T", node)
	}
}

func (a *Analyzer) visitLiteral(expr *ast.Literal) error {
	switch value := expr.Value.(type) {
	case nil:
		expr.SetType(env.Nil)
	case bool:
		expr.SetType(env.Boolean)
	case rune:
		expr.SetType(env.Character)
	case string:
		expr.SetType(env.String)
	case *big.Int:
		if value.Cmp(minInteger) < 0 || value.Cmp(maxInteger) > 0 {
			return internals.Semanticf("integer literal %v out of range", value)
		}
		expr.SetType(env.Integer)
	case *big.Float:
		expr.SetType(env.Decimal)
	default:
		return internals.Semanticf("unknown literal value %T", expr.Value)
	}
	return nil
}

func (a *Analyzer) visitGroup(expr *ast.Group) error {
	if _, ok := expr.Expression.(*ast.Binary); !ok {
		return internals.Semanticf("grouped expression must contain a binary expression")
	}
	if err := a.visitExpression(expr.Expression); err != nil {
		return err
	}
	expr.SetType(expr.Expression.Type())
	return nil
}

func (a *Analyzer) visitBinary(expr *ast.Binary) error {
	if err := a.visitExpression(expr.Left); err != nil {
		return err
	}
	if err := a.visitExpression(expr.Right); err != nil {
		return err
	}
	left, right := expr.Left.Type(), expr.Right.Type()

	switch expr.Operator {
	case "AND", "OR":
		if left != env.Boolean || right != env.Boolean {
			return internals.Semanticf("both operands of %v must be Boolean", expr.Operator)
		}
		expr.SetType(env.Boolean)

	case "<", "<=", ">", ">=", "==", "!=":
		if left != right || !isComparable(left) {
			return internals.Semanticf("operands of %v must be of the same Comparable type", expr.Operator)
		}
		expr.SetType(env.Boolean)

	case "+":
		switch {
		case left == env.String || right == env.String:
			expr.SetType(env.String)
		case left == env.Integer && right == env.Integer:
			expr.SetType(env.Integer)
		case left == env.Decimal && right == env.Decimal:
			expr.SetType(env.Decimal)
		default:
			return internals.Semanticf("invalid operand types %v and %v for +", left, right)
		}

	case "-", "*", "/":
		if left != right || (left != env.Integer && left != env.Decimal) {
			return internals.Semanticf("operands of %v must both be Integer or both be Decimal", expr.Operator)
		}
		expr.SetType(left)

	default:
		// the grammar only produces the operators above
		return internals.Semanticf("unsupported binary operator %v", expr.Operator)
	}
	return nil
}

func (a *Analyzer) visitAccess(expr *ast.Access) error {
	variable := (*env.Variable)(nil)

	if expr.Receiver != nil {
		if err := a.visitExpression(expr.Receiver); err != nil {
			return err
		}
		field, err := expr.Receiver.Type().FieldOf(expr.Name)
		if err != nil {
			return err
		}
		variable = field
	} else {
		found, err := a.scope.LookupVariable(expr.Name)
		if err != nil {
			return err
		}
		variable = found
	}

	expr.SetVariable(variable)
	expr.SetType(variable.Type)
	return nil
}

func (a *Analyzer) visitCall(expr *ast.CallExpression) error {
	function := (*env.Function)(nil)

	if expr.Receiver != nil {
		if err := a.visitExpression(expr.Receiver); err != nil {
			return err
		}
		method, err := expr.Receiver.Type().MethodOf(expr.Name, len(expr.Args))
		if err != nil {
			return err
		}
		function = method
	} else {
		found, err := a.scope.LookupFunction(expr.Name, len(expr.Args))
		if err != nil {
			return err
		}
		function = found
	}

	expr.SetFunction(function)

	for idx, arg := range expr.Args {
		if err := a.visitExpression(arg); err != nil {
			return err
		}
		if err := requireAssignable(function.ParameterTypes[idx], arg.Type()); err != nil {
			return err
		}
	}

	expr.SetType(function.ReturnType)
	return nil
}

// requireAssignable checks the one-directional compatibility rule: anything
// flows into Any, the four comparable types flow into Comparable, everything
// else must match by identity.
func requireAssignable(target, valueType *env.Type) error {
	if !isAssignableTo(target, valueType) {
		return internals.Semanticf("cannot assign %v to %v", valueType, target)
	}
	return nil
}

func isAssignableTo(target, valueType *env.Type) bool {
	switch target {
	case env.Any:
		return true
	case env.Comparable:
		return isComparable(valueType)
	default:
		return target == valueType
	}
}

func isComparable(tp *env.Type) bool {
	switch tp {
	case env.Integer, env.Decimal, env.Character, env.String:
		return true
	}
	return false
}
