// Package bindgen derives typed Go bindings from a contract model. Every
// derivation is a model.Visitor, so native types, call-site bounds,
// conversions and token codecs recurse over the same variant set.
package bindgen

import (
	"fmt"

	"github.com/jshufro/abibind/ir"
	"github.com/jshufro/abibind/model"
)

const (
	// DefaultLib is the import path of the runtime library generated code uses.
	DefaultLib = "github.com/jshufro/abibind/lib"

	commonPath = "github.com/ethereum/go-ethereum/common"
	bindPath   = "github.com/ethereum/go-ethereum/accounts/abi/bind"
	typesPath  = "github.com/ethereum/go-ethereum/core/types"
	bigPath    = "math/big"
)

var (
	byteT    = ir.Named{Name: "byte"}
	boolT    = ir.Named{Name: "bool"}
	stringT  = ir.Named{Name: "string"}
	errorT   = ir.Named{Name: "error"}
	addressT = ir.Named{Path: commonPath, Name: "Address"}
	hashT    = ir.Named{Path: commonPath, Name: "Hash"}
	bigIntT  = ir.Pointer{Elem: ir.Named{Path: bigPath, Name: "Int"}}
)

// Engine holds what the derivations need to know about the generated
// package's surroundings.
type Engine struct {
	lib     string
	libName string
}

// NewEngine returns an Engine whose generated code imports the runtime
// library from lib. An empty lib selects DefaultLib.
func NewEngine(lib string) *Engine {
	if lib == "" {
		lib = DefaultLib
	}
	return &Engine{lib: lib, libName: packageName(lib)}
}

func (e *Engine) libFunc(name string) ir.Qualified { return ir.Qualified{Path: e.lib, Name: name} }
func (e *Engine) libType(name string) ir.Named     { return ir.Named{Path: e.lib, Name: name} }

// TokenType is lib.Token.
func (e *Engine) TokenType() ir.TypeExpr { return e.libType("Token") }

// NativeType is the canonical Go representation of t.
func (e *Engine) NativeType(t model.ParamType) ir.TypeExpr {
	return model.Walk[ir.TypeExpr](t, nativeType{e})
}

type nativeType struct{ e *Engine }

func (v nativeType) Address() ir.TypeExpr { return addressT }
func (v nativeType) Bytes() ir.TypeExpr   { return ir.Slice{Elem: byteT} }
func (v nativeType) Bool() ir.TypeExpr    { return boolT }
func (v nativeType) String() ir.TypeExpr  { return stringT }
func (v nativeType) Int(int) ir.TypeExpr  { return bigIntT }
func (v nativeType) Uint(int) ir.TypeExpr { return bigIntT }
func (v nativeType) FixedBytes(size int) ir.TypeExpr {
	if size == 32 {
		return hashT
	}
	return ir.Array{Len: size, Elem: byteT}
}

func (v nativeType) Array(elem model.ParamType) ir.TypeExpr {
	return ir.Slice{Elem: v.e.NativeType(elem)}
}

func (v nativeType) FixedArray(elem model.ParamType, size int) ir.TypeExpr {
	return ir.Array{Len: size, Elem: v.e.NativeType(elem)}
}

// SlotName names the type parameter of a parameter slot at a nesting depth:
// T0 for the first parameter itself, U0 for its elements, V0 for theirs.
func SlotName(depth, slot int) string {
	const letters = "TUVWXYZ"
	if depth < len(letters) {
		return fmt.Sprintf("%c%d", letters[depth], slot)
	}
	return fmt.Sprintf("T%d_%d", depth, slot)
}

// CallSiteBound lists the type parameters a call site binds for a parameter
// of type t in slot. The first one types the parameter itself; arrays add one
// coupled parameter per nesting level for their elements.
func (e *Engine) CallSiteBound(t model.ParamType, slot int) []ir.TypeParam {
	return model.Walk[[]ir.TypeParam](t, bound{e: e, slot: slot})
}

type bound struct {
	e     *Engine
	depth int
	slot  int
}

func (b bound) leaf(constraint ir.TypeExpr) []ir.TypeParam {
	return []ir.TypeParam{{Name: SlotName(b.depth, b.slot), Constraint: constraint}}
}

func (b bound) Address() []ir.TypeParam {
	return b.leaf(ir.Approx{Type: ir.Array{Len: 20, Elem: byteT}})
}

func (b bound) Bytes() []ir.TypeParam   { return b.leaf(b.e.libType("ByteString")) }
func (b bound) Bool() []ir.TypeParam    { return b.leaf(ir.Approx{Type: boolT}) }
func (b bound) String() []ir.TypeParam  { return b.leaf(b.e.libType("ByteString")) }
func (b bound) Int(int) []ir.TypeParam  { return b.leaf(b.e.libType("Integer")) }
func (b bound) Uint(int) []ir.TypeParam { return b.leaf(b.e.libType("Integer")) }
func (b bound) FixedBytes(size int) []ir.TypeParam {
	return b.leaf(ir.Approx{Type: ir.Array{Len: size, Elem: byteT}})
}

func (b bound) Array(elem model.ParamType) []ir.TypeParam {
	inner := b.nested(elem)
	return append(b.leaf(ir.Approx{Type: ir.Slice{Elem: ir.TypeParamRef{Name: inner[0].Name}}}), inner...)
}

func (b bound) FixedArray(elem model.ParamType, size int) []ir.TypeParam {
	inner := b.nested(elem)
	return append(b.leaf(ir.Approx{Type: ir.Array{Len: size, Elem: ir.TypeParamRef{Name: inner[0].Name}}}), inner...)
}

func (b bound) nested(elem model.ParamType) []ir.TypeParam {
	b.depth++
	return model.Walk[[]ir.TypeParam](elem, b)
}

// Convert turns value, bound by CallSiteBound(t, slot), into an expression of
// type NativeType(t). Array values are converted element by element.
func (e *Engine) Convert(value ir.Expr, t model.ParamType, slot int) ir.Expr {
	return model.Walk[ir.Expr](t, convert{e: e, slot: slot, value: value})
}

type convert struct {
	e     *Engine
	depth int
	slot  int
	value ir.Expr
}

func (c convert) to(t ir.TypeExpr) ir.Expr { return ir.Conv{Type: t, X: c.value} }

func (c convert) Address() ir.Expr { return c.to(addressT) }
func (c convert) Bytes() ir.Expr   { return c.to(ir.Slice{Elem: byteT}) }
func (c convert) Bool() ir.Expr    { return c.to(boolT) }
func (c convert) String() ir.Expr  { return c.to(stringT) }
func (c convert) Int(int) ir.Expr  { return ir.CallOf(c.e.libFunc("BigInt"), c.value) }
func (c convert) Uint(int) ir.Expr { return ir.CallOf(c.e.libFunc("BigInt"), c.value) }

func (c convert) FixedBytes(size int) ir.Expr {
	return c.to(c.e.NativeType(model.FixedBytes(size)))
}

func (c convert) Array(elem model.ParamType) ir.Expr {
	return ir.CallOf(c.e.libFunc("MapSlice"), c.value, c.elem(elem))
}

func (c convert) FixedArray(elem model.ParamType, size int) ir.Expr {
	return ir.Conv{
		Type: ir.Array{Len: size, Elem: c.e.NativeType(elem)},
		X:    ir.CallOf(c.e.libFunc("MapSlice"), ir.SliceOf{X: c.value}, c.elem(elem)),
	}
}

// elem converts one element: func(u1 U0) X { return ... }.
func (c convert) elem(elem model.ParamType) ir.FuncLit {
	inner := convert{e: c.e, depth: c.depth + 1, slot: c.slot}
	param := fmt.Sprintf("u%d", inner.depth)
	inner.value = ir.Id(param)
	return ir.Lambda(param,
		ir.TypeParamRef{Name: SlotName(inner.depth, c.slot)},
		c.e.NativeType(elem),
		model.Walk[ir.Expr](elem, inner))
}
