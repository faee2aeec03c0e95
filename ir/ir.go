// Package ir holds the structured output of the binding generator: type
// expressions, value expressions, statements and declarations. Emitters turn
// an ir.File into source text.
package ir

// TypeExpr is a type in generated code.
type TypeExpr interface{ typeExpr() }

// Named is a declared type. Path is empty for predeclared types.
type Named struct {
	Path string
	Name string
}

type Pointer struct{ Elem TypeExpr }

type Slice struct{ Elem TypeExpr }

type Array struct {
	Len  int
	Elem TypeExpr
}

// TypeParamRef refers to a type parameter of the enclosing function.
type TypeParamRef struct{ Name string }

// Generic is an instantiated generic type such as lib.Topic[common.Address].
type Generic struct {
	Base Named
	Args []TypeExpr
}

// Approx is the constraint term ~Type.
type Approx struct{ Type TypeExpr }

// Union is the constraint A | B | ...
type Union struct{ Terms []TypeExpr }

// Tuple is an ordered group of results.
type Tuple struct{ Elems []TypeExpr }

// Unit is the absence of a value.
type Unit struct{}

func (Named) typeExpr()        {}
func (Pointer) typeExpr()      {}
func (Slice) typeExpr()        {}
func (Array) typeExpr()        {}
func (TypeParamRef) typeExpr() {}
func (Generic) typeExpr()      {}
func (Approx) typeExpr()       {}
func (Union) typeExpr()        {}
func (Tuple) typeExpr()        {}
func (Unit) typeExpr()         {}

// Elems flattens t into a result list: Unit has none, Tuple its elements.
func Elems(t TypeExpr) []TypeExpr {
	switch t := t.(type) {
	case Unit:
		return nil
	case Tuple:
		return t.Elems
	}
	return []TypeExpr{t}
}

// TypeParam is a type parameter with its constraint.
type TypeParam struct {
	Name       string
	Constraint TypeExpr
}

// Field is a named, typed slot: a function parameter, a result or a struct field.
type Field struct {
	Name string
	Type TypeExpr
}
