package semantics

import (
	"strings"
	"testing"

	"slate/ast"
	"slate/env"
	"slate/lexer"
	"slate/parser"
)

func parse(t *testing.T, input string) *ast.Source {
	t.Helper()
	tokens, err := lexer.NewLexer(input).Tokenize()
	if err != nil {
		t.Fatalf("input=%q: %v", input, err)
	}
	source, err := parser.NewParser(tokens).Parse()
	if err != nil {
		t.Fatalf("input=%q: %v", input, err)
	}
	return source
}

func analyze(t *testing.T, input string) (*ast.Source, error) {
	t.Helper()
	source := parse(t, input)
	return source, NewAnalyzer(nil).Analyze(source)
}

func TestAnalyzeProgram(t *testing.T) {
	source, err := analyze(t, "LET x = 1; DEF main() DO RETURN x; END")
	if err != nil {
		t.Fatal(err)
	}

	if source.Fields[0].Variable().Type != env.Integer {
		t.Errorf("x inferred as %v", source.Fields[0].Variable().Type)
	}
	if source.Methods[0].Function().ReturnType != env.Integer {
		t.Errorf("main return type defaulted to %v", source.Methods[0].Function().ReturnType)
	}

	ret := source.Methods[0].Statements[0].(*ast.ReturnStatement)
	access := ret.Value.(*ast.Access)
	if access.Variable() != source.Fields[0].Variable() {
		t.Error("the access must alias the binding defined by the field")
	}
	if access.Type() != env.Integer {
		t.Errorf("x access typed %v", access.Type())
	}
}

func TestSemanticFailures(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string // substring of the error message
	}{
		{
			"missing entry point",
			"DEF helper() DO RETURN NIL; END",
			"no main method",
		},
		{
			"entry point with parameters only",
			"DEF main(n: Integer) DO RETURN NIL; END",
			"no main method",
		},
		{
			"entry point return type",
			`DEF main(): String DO RETURN "s"; END`,
			"must return Integer",
		},
		{
			"boolean condition on if",
			"DEF main() DO IF 1 DO print(1); END RETURN 0; END",
			"condition must be Boolean",
		},
		{
			"boolean condition on while",
			`DEF main() DO WHILE "no" DO print(1); END RETURN 0; END`,
			"condition must be Boolean",
		},
		{
			"empty then branch",
			"DEF main() DO IF TRUE DO END RETURN 0; END",
			"then branch cannot be empty",
		},
		{
			"bare expression statement",
			"DEF main() DO 1 + 2; RETURN 0; END",
			"must be a function call",
		},
		{
			"grouped non-binary expression",
			"LET a = 1; DEF main() DO RETURN (a); END",
			"must contain a binary expression",
		},
		{
			"integer literal out of range",
			"LET big = 2147483648; DEF main() DO RETURN 0; END",
			"out of range",
		},
		{
			"declaration without type or initializer",
			"DEF main() DO LET x; RETURN 0; END",
			"needs a type or an initializer",
		},
		{
			"declared type mismatch",
			`LET x: Integer = "s"; DEF main() DO RETURN 0; END`,
			"cannot assign String to Integer",
		},
		{
			"unknown declared type",
			"LET x: Float = 1; DEF main() DO RETURN 0; END",
			"unknown type Float",
		},
		{
			"same-scope redeclaration",
			"DEF main() DO LET x = 1; LET x = 2; RETURN 0; END",
			"already declared",
		},
		{
			"undeclared variable",
			"DEF main() DO RETURN y; END",
			"not declared",
		},
		{
			"assignment receiver shape",
			"DEF main() DO (1 + 2) = 3; RETURN 0; END",
			"must be an access expression",
		},
		{
			"assignment type mismatch",
			`DEF main() DO LET x = 1; x = "s"; RETURN 0; END`,
			"cannot assign String to Integer",
		},
		{
			"return type mismatch",
			"DEF main() DO RETURN NIL; END",
			"cannot assign Nil to Integer",
		},
		{
			"for target must be iterable",
			"DEF main() DO FOR i IN 1 DO print(i); END RETURN 0; END",
			"must be IntegerIterable",
		},
		{
			"empty for body",
			"LET nums: IntegerIterable; DEF main() DO FOR i IN nums DO END RETURN 0; END",
			"for body cannot be empty",
		},
		{
			"arity-sensitive call lookup",
			"DEF f(a: Integer) DO RETURN NIL; END DEF main() DO f(1, 2); RETURN 0; END",
			"function f/2 is not declared",
		},
		{
			"argument type mismatch",
			`DEF f(a: Integer) DO RETURN NIL; END DEF main() DO f("s"); RETURN 0; END`,
			"cannot assign String to Integer",
		},
		{
			"no such field",
			`LET s = "hi"; DEF main() DO RETURN s.missing; END`,
			"has no field missing",
		},
		{
			"no such method",
			`LET s = "hi"; DEF main() DO s.missing(1); RETURN 0; END`,
			"has no method missing/1",
		},
		{
			"mixed operand types",
			"DEF main() DO LET x = 1 + 2.0; RETURN 0; END",
			"invalid operand types",
		},
		{
			"logical operands",
			"DEF main() DO LET x = 1 AND TRUE; RETURN 0; END",
			"must be Boolean",
		},
		{
			"comparison operands",
			"DEF main() DO LET x = TRUE < FALSE; RETURN 0; END",
			"same Comparable type",
		},
		{
			"arithmetic operands",
			`DEF main() DO LET x = "a" * "b"; RETURN 0; END`,
			"both be Integer or both be Decimal",
		},
	}

	for _, tt := range tests {
		_, err := analyze(t, tt.input)
		if err == nil {
			t.Errorf("%s: expected an error", tt.name)
			continue
		}
		if !strings.Contains(err.Error(), tt.expected) {
			t.Errorf("%s: expected %q in %q", tt.name, tt.expected, err.Error())
		}
	}
}

func TestBinaryTyping(t *testing.T) {
	tests := []struct {
		input    string
		expected *env.Type
	}{
		{"LET r = TRUE AND FALSE;", env.Boolean},
		{"LET r = 1 < 2;", env.Boolean},
		{`LET r = "a" == "b";`, env.Boolean},
		{"LET r = 1 + 2;", env.Integer},
		{"LET r = 1.0 + 2.0;", env.Decimal},
		{`LET r = "n = " + 1;`, env.String},
		{`LET r = 1 + " items";`, env.String},
		{"LET r = 6 * 7;", env.Integer},
		{"LET r = 1.0 / 2.0;", env.Decimal},
		{"LET r = 'a' != 'b';", env.Boolean},
	}

	for _, tt := range tests {
		source, err := analyze(t, tt.input+" DEF main() DO RETURN 0; END")
		if err != nil {
			t.Errorf("input=%q: %v", tt.input, err)
			continue
		}
		if got := source.Fields[0].Variable().Type; got != tt.expected {
			t.Errorf("input=%q: expected %v, got %v", tt.input, tt.expected, got)
		}
	}
}

func TestAssignability(t *testing.T) {
	all := []*env.Type{
		env.Nil, env.Any, env.Boolean, env.Integer, env.Decimal,
		env.Character, env.String, env.Comparable, env.IntegerIterable,
	}
	comparable := map[*env.Type]bool{
		env.Integer: true, env.Decimal: true, env.Character: true, env.String: true,
	}

	for _, tp := range all {
		if !isAssignableTo(tp, tp) {
			t.Errorf("%v must be assignable to itself", tp)
		}
		if !isAssignableTo(env.Any, tp) {
			t.Errorf("%v must be assignable to Any", tp)
		}
		if isAssignableTo(env.Comparable, tp) != comparable[tp] {
			t.Errorf("Comparable acceptance of %v is wrong", tp)
		}
	}

	if isAssignableTo(env.Decimal, env.Integer) {
		t.Error("no implicit numeric widening")
	}
	if isAssignableTo(env.Integer, env.Any) {
		t.Error("Any must not flow into a concrete type")
	}
}

func TestShadowingInNestedScopes(t *testing.T) {
	source, err := analyze(t, `
		DEF main() DO
			LET x = 1;
			IF TRUE DO
				LET x = "inner";
				print(x);
			END
			RETURN x;
		END`)
	if err != nil {
		t.Fatal(err)
	}

	stmts := source.Methods[0].Statements
	outer := stmts[0].(*ast.Declaration).Variable()
	if outer.Type != env.Integer {
		t.Errorf("outer x typed %v", outer.Type)
	}

	inner := stmts[1].(*ast.IfStatement).Then[1].(*ast.ExpressionStatement).
		Expression.(*ast.CallExpression).Args[0].(*ast.Access)
	if inner.Variable().Type != env.String {
		t.Errorf("inner reference resolved to %v", inner.Variable().Type)
	}

	ret := stmts[2].(*ast.ReturnStatement).Value.(*ast.Access)
	if ret.Variable() != outer {
		t.Error("the outer binding must survive the inner scope")
	}
}

func TestForLoopBindsIntegerVariable(t *testing.T) {
	source, err := analyze(t, `
		LET nums: IntegerIterable;
		DEF main() DO
			FOR i IN nums DO
				print(i);
			END
			RETURN 0;
		END`)
	if err != nil {
		t.Fatal(err)
	}

	loop := source.Methods[0].Statements[0].(*ast.ForStatement)
	arg := loop.Body[0].(*ast.ExpressionStatement).
		Expression.(*ast.CallExpression).Args[0].(*ast.Access)
	if arg.Type() != env.Integer {
		t.Errorf("loop variable typed %v", arg.Type())
	}
}

func TestMethodSelfReference(t *testing.T) {
	_, err := analyze(t, `
		DEF countdown(n: Integer): Integer DO
			IF n > 0 DO
				RETURN countdown(n - 1);
			END
			RETURN n;
		END
		DEF main() DO RETURN countdown(10); END`)
	if err != nil {
		t.Fatal(err)
	}
}

func TestReceiverMembers(t *testing.T) {
	env.String.DefineField("size", env.Integer)
	env.String.DefineMethod("repeat", []*env.Type{env.Integer}, env.String)

	source, err := analyze(t, `
		LET s = "hi";
		DEF main() DO
			RETURN s.repeat(2).size;
		END`)
	if err != nil {
		t.Fatal(err)
	}

	access := source.Methods[0].Statements[0].(*ast.ReturnStatement).Value.(*ast.Access)
	if access.Type() != env.Integer {
		t.Errorf("field access typed %v", access.Type())
	}
	call := access.Receiver.(*ast.CallExpression)
	if call.Function().ReturnType != env.String {
		t.Errorf("method call typed %v", call.Function().ReturnType)
	}
}

func TestPrintIntrinsic(t *testing.T) {
	for _, input := range []string{
		"DEF main() DO print(1); RETURN 0; END",
		`DEF main() DO print("text"); RETURN 0; END`,
		"DEF main() DO print(NIL); RETURN 0; END",
	} {
		if _, err := analyze(t, input); err != nil {
			t.Errorf("input=%q: %v", input, err)
		}
	}

	// print takes exactly one argument
	if _, err := analyze(t, "DEF main() DO print(1, 2); RETURN 0; END"); err == nil {
		t.Error("expected an arity failure for print/2")
	}
}

func TestEntryPointDefaultsToInteger(t *testing.T) {
	source, err := analyze(t, "DEF main() DO RETURN 1 + 1; END")
	if err != nil {
		t.Fatal(err)
	}
	if source.Methods[0].Function().ReturnType != env.Integer {
		t.Errorf("main defaulted to %v", source.Methods[0].Function().ReturnType)
	}

	// other methods default to Nil
	source, err = analyze(t, "DEF side() DO RETURN NIL; END DEF main() DO side(); RETURN 0; END")
	if err != nil {
		t.Fatal(err)
	}
	if source.Methods[0].Function().ReturnType != env.Nil {
		t.Errorf("side defaulted to %v", source.Methods[0].Function().ReturnType)
	}
}
