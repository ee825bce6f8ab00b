package env

import "slate/internals"

type functionKey struct {
	name  string
	arity int
}

// Scope is one node in the chain of nested lexical environments. Lookups walk
// parents upward, definitions always land in the receiver.
type Scope struct {
	parent    *Scope
	variables map[string]*Variable
	functions map[functionKey]*Function
}

func NewScope(parent *Scope) *Scope {
	return &Scope{
		parent:    parent,
		variables: make(map[string]*Variable),
		functions: make(map[functionKey]*Function),
	}
}

func (s *Scope) Parent() *Scope { return s.parent }

// DefineVariable inserts a variable binding into this scope and returns it so
// callers can attach it to their AST node. Redeclaring a name already present
// in the same scope is rejected, shadowing a parent is fine.
func (s *Scope) DefineVariable(name string, varType *Type) (*Variable, error) {
	if _, ok := s.variables[name]; ok {
		return nil, internals.Semanticf("variable %v is already declared in this scope", name)
	}
	variable := &Variable{Name: name, Type: varType}
	s.variables[name] = variable
	return variable, nil
}

func (s *Scope) DefineFunction(name string, parameterTypes []*Type, returnType *Type) (*Function, error) {
	key := functionKey{name: name, arity: len(parameterTypes)}
	if _, ok := s.functions[key]; ok {
		return nil, internals.Semanticf("function %v/%d is already declared in this scope", name, key.arity)
	}
	function := &Function{Name: name, ParameterTypes: parameterTypes, ReturnType: returnType}
	s.functions[key] = function
	return function, nil
}

func (s *Scope) LookupVariable(name string) (*Variable, error) {
	for scope := s; scope != nil; scope = scope.parent {
		if variable, ok := scope.variables[name]; ok {
			return variable, nil
		}
	}
	return nil, internals.Semanticf("variable %v is not declared", name)
}

func (s *Scope) LookupFunction(name string, arity int) (*Function, error) {
	key := functionKey{name: name, arity: arity}
	for scope := s; scope != nil; scope = scope.parent {
		if function, ok := scope.functions[key]; ok {
			return function, nil
		}
	}
	return nil, internals.Semanticf("function %v/%d is not declared", name, arity)
}
