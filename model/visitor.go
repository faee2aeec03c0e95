package model

import "fmt"

// Visitor handles each ParamType variant once. Composite cases receive the
// element type and recurse on their own.
type Visitor[R any] interface {
	Address() R
	Bytes() R
	Bool() R
	String() R
	Int(bits int) R
	Uint(bits int) R
	FixedBytes(size int) R
	Array(elem ParamType) R
	FixedArray(elem ParamType, size int) R
}

// Walk dispatches t to the matching method of v.
func Walk[R any](t ParamType, v Visitor[R]) R {
	switch t.Kind {
	case KindAddress:
		return v.Address()
	case KindBytes:
		return v.Bytes()
	case KindBool:
		return v.Bool()
	case KindString:
		return v.String()
	case KindInt:
		return v.Int(t.Size)
	case KindUint:
		return v.Uint(t.Size)
	case KindFixedBytes:
		return v.FixedBytes(t.Size)
	case KindArray:
		return v.Array(*t.Elem)
	case KindFixedArray:
		return v.FixedArray(*t.Elem, t.Size)
	default:
		panic(fmt.Errorf("unhandled parameter kind %v", t.Kind))
	}
}
