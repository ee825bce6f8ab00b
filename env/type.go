package env

// This file holds the fixed type catalog plus the two binding kinds. Types
// compare by identity, two names are the same type only when they resolve to
// the same *Type.

import "slate/internals"

type Type struct {
	name    string
	fields  map[string]*Variable
	methods map[methodKey]*Function
}

type methodKey struct {
	name  string
	arity int
}

func newType(name string) *Type {
	return &Type{
		name:    name,
		fields:  make(map[string]*Variable),
		methods: make(map[methodKey]*Function),
	}
}

var (
	Nil             = newType("Nil")
	Any             = newType("Any")
	Boolean         = newType("Boolean")
	Integer         = newType("Integer")
	Decimal         = newType("Decimal")
	Character       = newType("Character")
	String          = newType("String")
	Comparable      = newType("Comparable")
	IntegerIterable = newType("IntegerIterable")
)

var registry = map[string]*Type{
	"Nil":             Nil,
	"Any":             Any,
	"Boolean":         Boolean,
	"Integer":         Integer,
	"Decimal":         Decimal,
	"Character":       Character,
	"String":          String,
	"Comparable":      Comparable,
	"IntegerIterable": IntegerIterable,
}

// TypeByName resolves a declared type name against the fixed catalog.
func TypeByName(name string) (*Type, error) {
	if tp, ok := registry[name]; ok {
		return tp, nil
	}
	return nil, internals.Semanticf("unknown type %v", name)
}

func (t *Type) Name() string { return t.name }

func (t *Type) String() string { return t.name }

// DefineField registers a named member on the type and returns its binding.
// The catalogs of the built-ins start out empty, the hosting evaluator
// installs its standard library through these before analysis runs.
func (t *Type) DefineField(name string, fieldType *Type) *Variable {
	field := &Variable{Name: name, Type: fieldType}
	t.fields[name] = field
	return field
}

func (t *Type) DefineMethod(name string, parameterTypes []*Type, returnType *Type) *Function {
	method := &Function{Name: name, ParameterTypes: parameterTypes, ReturnType: returnType}
	t.methods[methodKey{name: name, arity: len(parameterTypes)}] = method
	return method
}

func (t *Type) FieldOf(name string) (*Variable, error) {
	if field, ok := t.fields[name]; ok {
		return field, nil
	}
	return nil, internals.Semanticf("type %v has no field %v", t.name, name)
}

func (t *Type) MethodOf(name string, arity int) (*Function, error) {
	if method, ok := t.methods[methodKey{name: name, arity: arity}]; ok {
		return method, nil
	}
	return nil, internals.Semanticf("type %v has no method %v/%d", t.name, name, arity)
}

// Variable is the binding produced by a field or declaration. AST nodes hold
// the pointer handed out by the defining scope, never a copy.
type Variable struct {
	Name string
	Type *Type
}

// Function is the binding produced by a method definition, disambiguated by
// name and parameter count only.
type Function struct {
	Name           string
	ParameterTypes []*Type
	ReturnType     *Type
}

func (f *Function) Arity() int { return len(f.ParameterTypes) }
