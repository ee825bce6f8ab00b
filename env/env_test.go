package env

import "testing"

func TestTypeByName(t *testing.T) {
	for _, name := range []string{
		"Nil", "Any", "Boolean", "Integer", "Decimal",
		"Character", "String", "Comparable", "IntegerIterable",
	} {
		tp, err := TypeByName(name)
		if err != nil {
			t.Fatalf("TypeByName(%q): %v", name, err)
		}
		if tp.Name() != name {
			t.Errorf("TypeByName(%q): got %v", name, tp.Name())
		}
	}

	if _, err := TypeByName("Float"); err == nil {
		t.Error("expected an error for an unknown type name")
	}
}

func TestScopeLookupWalksParents(t *testing.T) {
	root := NewScope(nil)
	middle := NewScope(root)
	leaf := NewScope(middle)

	defined, err := root.DefineVariable("x", Integer)
	if err != nil {
		t.Fatal(err)
	}

	found, err := leaf.LookupVariable("x")
	if err != nil {
		t.Fatal(err)
	}
	if found != defined {
		t.Error("lookup must return the binding defined in the ancestor, not a copy")
	}

	if _, err := leaf.LookupVariable("y"); err == nil {
		t.Error("expected an error for an undeclared variable")
	}
}

func TestScopeShadowing(t *testing.T) {
	outer := NewScope(nil)
	inner := NewScope(outer)

	outerX, err := outer.DefineVariable("x", Integer)
	if err != nil {
		t.Fatal(err)
	}
	innerX, err := inner.DefineVariable("x", String)
	if err != nil {
		t.Fatalf("shadowing in a child scope must be allowed: %v", err)
	}

	found, _ := inner.LookupVariable("x")
	if found != innerX {
		t.Error("inner lookup must resolve to the inner binding")
	}
	found, _ = outer.LookupVariable("x")
	if found != outerX {
		t.Error("outer binding must survive the inner declaration")
	}
}

func TestScopeRejectsRedeclaration(t *testing.T) {
	scope := NewScope(nil)

	if _, err := scope.DefineVariable("x", Integer); err != nil {
		t.Fatal(err)
	}
	if _, err := scope.DefineVariable("x", Integer); err == nil {
		t.Error("expected an error for a same-scope variable redeclaration")
	}

	if _, err := scope.DefineFunction("f", []*Type{Integer}, Nil); err != nil {
		t.Fatal(err)
	}
	if _, err := scope.DefineFunction("f", []*Type{String}, Nil); err == nil {
		t.Error("functions are keyed by name and arity, same arity must collide")
	}
}

func TestFunctionsAreKeyedByArity(t *testing.T) {
	scope := NewScope(nil)

	one, err := scope.DefineFunction("f", []*Type{Integer}, Nil)
	if err != nil {
		t.Fatal(err)
	}
	two, err := scope.DefineFunction("f", []*Type{Integer, Integer}, Nil)
	if err != nil {
		t.Fatalf("same name with a different arity must be allowed: %v", err)
	}

	found, err := scope.LookupFunction("f", 1)
	if err != nil || found != one {
		t.Errorf("LookupFunction(f, 1) = %v, %v", found, err)
	}
	found, err = scope.LookupFunction("f", 2)
	if err != nil || found != two {
		t.Errorf("LookupFunction(f, 2) = %v, %v", found, err)
	}
	if _, err := scope.LookupFunction("f", 3); err == nil {
		t.Error("expected an arity-sensitive lookup failure")
	}
}

func TestTypeMemberCatalog(t *testing.T) {
	owner := newType("Owner")

	field := owner.DefineField("size", Integer)
	found, err := owner.FieldOf("size")
	if err != nil || found != field {
		t.Errorf("FieldOf(size) = %v, %v", found, err)
	}
	if _, err := owner.FieldOf("missing"); err == nil {
		t.Error("expected an error for a missing field")
	}

	method := owner.DefineMethod("clamp", []*Type{Integer, Integer}, Integer)
	found2, err := owner.MethodOf("clamp", 2)
	if err != nil || found2 != method {
		t.Errorf("MethodOf(clamp, 2) = %v, %v", found2, err)
	}
	if _, err := owner.MethodOf("clamp", 1); err == nil {
		t.Error("method lookup must be arity-sensitive")
	}
}
