// Package model is the in-memory representation of a contract interface
// description: its constructor, functions and events, and the parameter
// types they carry.
package model

import (
	"fmt"
	"strconv"
)

// Kind enumerates the variants of ParamType.
type Kind uint8

const (
	KindAddress Kind = iota
	KindBytes
	KindBool
	KindString
	KindInt
	KindUint
	KindFixedBytes
	KindArray
	KindFixedArray
)

var kindNames = [...]string{
	KindAddress:    "address",
	KindBytes:      "bytes",
	KindBool:       "bool",
	KindString:     "string",
	KindInt:        "int",
	KindUint:       "uint",
	KindFixedBytes: "fixed bytes",
	KindArray:      "array",
	KindFixedArray: "fixed array",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// ParamType is the type of a single ABI parameter.
//
// Size holds the bit width of Int and Uint, the byte length of FixedBytes and
// the element count of FixedArray. Elem is set for Array and FixedArray only.
type ParamType struct {
	Kind Kind
	Size int
	Elem *ParamType
}

func Address() ParamType            { return ParamType{Kind: KindAddress} }
func Bytes() ParamType              { return ParamType{Kind: KindBytes} }
func Bool() ParamType               { return ParamType{Kind: KindBool} }
func String() ParamType             { return ParamType{Kind: KindString} }
func Int(bits int) ParamType        { return ParamType{Kind: KindInt, Size: bits} }
func Uint(bits int) ParamType       { return ParamType{Kind: KindUint, Size: bits} }
func FixedBytes(size int) ParamType { return ParamType{Kind: KindFixedBytes, Size: size} }

// ArrayOf returns the variable-length array type elem[].
func ArrayOf(elem ParamType) ParamType {
	return ParamType{Kind: KindArray, Elem: &elem}
}

// FixedArrayOf returns the fixed-length array type elem[size].
func FixedArrayOf(elem ParamType, size int) ParamType {
	return ParamType{Kind: KindFixedArray, Size: size, Elem: &elem}
}

// String renders the canonical ABI type string, as used in signatures.
func (t ParamType) String() string {
	switch t.Kind {
	case KindAddress, KindBytes, KindBool, KindString:
		return t.Kind.String()
	case KindInt:
		return "int" + strconv.Itoa(t.Size)
	case KindUint:
		return "uint" + strconv.Itoa(t.Size)
	case KindFixedBytes:
		return "bytes" + strconv.Itoa(t.Size)
	case KindArray:
		return t.Elem.String() + "[]"
	case KindFixedArray:
		return t.Elem.String() + "[" + strconv.Itoa(t.Size) + "]"
	}
	return t.Kind.String()
}

// Equal reports whether t and o describe the same type.
func (t ParamType) Equal(o ParamType) bool {
	if t.Kind != o.Kind || t.Size != o.Size {
		return false
	}
	if t.Elem == nil || o.Elem == nil {
		return t.Elem == nil && o.Elem == nil
	}
	return t.Elem.Equal(*o.Elem)
}

// IsDynamic reports whether values of t have no statically known encoded size.
func (t ParamType) IsDynamic() bool {
	switch t.Kind {
	case KindBytes, KindString, KindArray:
		return true
	case KindFixedArray:
		return t.Elem.IsDynamic()
	}
	return false
}

// Depth is the number of array levels wrapping the innermost element type.
func (t ParamType) Depth() int {
	d := 0
	for t.Elem != nil {
		d++
		t = *t.Elem
	}
	return d
}

// Validate checks that widths and lengths are within the ABI's limits.
func (t ParamType) Validate() error {
	switch t.Kind {
	case KindAddress, KindBytes, KindBool, KindString:
		return nil
	case KindInt, KindUint:
		if t.Size <= 0 || t.Size > 256 || t.Size%8 != 0 {
			return fmt.Errorf("invalid %s width %d", t.Kind, t.Size)
		}
		return nil
	case KindFixedBytes:
		if t.Size <= 0 || t.Size > 32 {
			return fmt.Errorf("invalid fixed bytes length %d", t.Size)
		}
		return nil
	case KindArray, KindFixedArray:
		if t.Elem == nil {
			return fmt.Errorf("%s without element type", t.Kind)
		}
		if t.Kind == KindFixedArray && t.Size <= 0 {
			return fmt.Errorf("invalid fixed array length %d", t.Size)
		}
		if err := t.Elem.Validate(); err != nil {
			return fmt.Errorf("%s element: %w", t.Kind, err)
		}
		return nil
	}
	return fmt.Errorf("unknown parameter kind %d", t.Kind)
}
