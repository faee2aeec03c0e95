package bindgen

import (
	"fmt"

	"github.com/jshufro/abibind/ir"
	"github.com/jshufro/abibind/model"
)

// ToToken encodes value, of type NativeType(t), into a lib.Token expression.
// value must be addressable when t is a fixed-size type.
func (e *Engine) ToToken(value ir.Expr, t model.ParamType) ir.Expr {
	return model.Walk[ir.Expr](t, toToken{e: e, value: value})
}

type toToken struct {
	e     *Engine
	depth int
	value ir.Expr
}

func (v toToken) wrap(ctor string, x ir.Expr) ir.Expr { return ir.CallOf(v.e.libFunc(ctor), x) }

func (v toToken) Address() ir.Expr       { return v.wrap("AddressToken", v.value) }
func (v toToken) Bytes() ir.Expr         { return v.wrap("BytesToken", v.value) }
func (v toToken) Bool() ir.Expr          { return v.wrap("BoolToken", v.value) }
func (v toToken) String() ir.Expr        { return v.wrap("StringToken", v.value) }
func (v toToken) Int(int) ir.Expr        { return v.wrap("IntToken", v.value) }
func (v toToken) Uint(int) ir.Expr       { return v.wrap("UintToken", v.value) }
func (v toToken) FixedBytes(int) ir.Expr { return v.wrap("FixedBytesToken", ir.SliceOf{X: v.value}) }

func (v toToken) Array(elem model.ParamType) ir.Expr {
	return v.wrap("ArrayToken", ir.CallOf(v.e.libFunc("MapSlice"), v.value, v.elem(elem)))
}

func (v toToken) FixedArray(elem model.ParamType, _ int) ir.Expr {
	return v.wrap("FixedArrayToken", ir.CallOf(v.e.libFunc("MapSlice"), ir.SliceOf{X: v.value}, v.elem(elem)))
}

// elem encodes one element: func(e1 X) lib.Token { return ... }.
func (v toToken) elem(elem model.ParamType) ir.FuncLit {
	inner := toToken{e: v.e, depth: v.depth + 1}
	param := fmt.Sprintf("e%d", inner.depth)
	inner.value = ir.Id(param)
	return ir.Lambda(param, v.e.NativeType(elem), v.e.TokenType(), model.Walk[ir.Expr](elem, inner))
}

// FromToken decodes token into an expression of type NativeType(t). The
// expression aborts through lib.Expect when the token does not have the shape
// t declares, so it may only appear below a deferred lib.CatchDecode.
func (e *Engine) FromToken(token ir.Expr, t model.ParamType) ir.Expr {
	return model.Walk[ir.Expr](t, fromToken{e: e, token: token})
}

type fromToken struct {
	e     *Engine
	depth int
	token ir.Expr
}

// extract is lib.Expect(token.<method>()).
func (v fromToken) extract(method string) ir.Expr {
	return ir.CallOf(v.e.libFunc("Expect"), ir.Method{Recv: v.token, Name: method})
}

func (v fromToken) Address() ir.Expr { return v.extract("ToAddress") }
func (v fromToken) Bytes() ir.Expr   { return v.extract("ToBytes") }
func (v fromToken) Bool() ir.Expr    { return v.extract("ToBool") }
func (v fromToken) String() ir.Expr  { return v.extract("ToString") }
func (v fromToken) Int(int) ir.Expr  { return v.extract("ToInt") }
func (v fromToken) Uint(int) ir.Expr { return v.extract("ToUint") }

func (v fromToken) FixedBytes(size int) ir.Expr {
	return ir.Conv{
		Type: v.e.NativeType(model.FixedBytes(size)),
		X:    ir.CallOf(v.e.libFunc("ExpectFixedBytes"), v.token, ir.IntLit{Value: size}),
	}
}

func (v fromToken) Array(elem model.ParamType) ir.Expr {
	return ir.CallOf(v.e.libFunc("MapSlice"), v.extract("ToArray"), v.elem(elem))
}

// FixedArray maps lazily and pulls exactly size elements, so a short array
// faults instead of being padded with zero values.
func (v fromToken) FixedArray(elem model.ParamType, size int) ir.Expr {
	seq := ir.CallOf(v.e.libFunc("MapSeq"), v.extract("ToArray"), v.elem(elem))
	return ir.Conv{
		Type: ir.Array{Len: size, Elem: v.e.NativeType(elem)},
		X:    ir.CallOf(v.e.libFunc("TakeN"), seq, ir.IntLit{Value: size}),
	}
}

func (v fromToken) elem(elem model.ParamType) ir.FuncLit {
	inner := fromToken{e: v.e, depth: v.depth + 1}
	param := fmt.Sprintf("e%d", inner.depth)
	inner.token = ir.Id(param)
	return ir.Lambda(param, v.e.TokenType(), v.e.NativeType(elem), model.Walk[ir.Expr](elem, inner))
}
