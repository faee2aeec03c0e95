package bindgen

import (
	"fmt"
	"iter"
	"math/big"
	"reflect"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/jshufro/abibind/ir"
	"github.com/jshufro/abibind/lib"
)

// interp evaluates generated expressions against the runtime library, so
// tests can run what the generator produces without compiling it.
type interp struct {
	e   *Engine
	env map[string]reflect.Value
}

func newInterp(e *Engine) *interp {
	return &interp{e: e, env: make(map[string]reflect.Value)}
}

func (in *interp) bind(name string, v interface{}) { in.env[name] = reflect.ValueOf(v) }

// closure is an evaluated FuncLit.
type closure struct {
	lit ir.FuncLit
	in  *interp
}

func (c closure) call(arg reflect.Value) reflect.Value {
	scope := &interp{e: c.in.e, env: make(map[string]reflect.Value, len(c.in.env)+1)}
	for k, v := range c.in.env {
		scope.env[k] = v
	}
	scope.env[c.lit.Params[0].Name] = arg
	var out reflect.Value
	for _, s := range c.lit.Body {
		out = scope.exec(s)
	}
	return out
}

// lazy is the result of lib.MapSeq.
type lazy struct {
	seq  iter.Seq[reflect.Value]
	elem reflect.Type
}

func (in *interp) typ(t ir.TypeExpr) reflect.Type {
	switch t := t.(type) {
	case ir.Named:
		switch t {
		case addressT:
			return reflect.TypeOf(common.Address{})
		case hashT:
			return reflect.TypeOf(common.Hash{})
		case byteT:
			return reflect.TypeOf(byte(0))
		case boolT:
			return reflect.TypeOf(false)
		case stringT:
			return reflect.TypeOf("")
		case ir.Named{Path: bigPath, Name: "Int"}:
			return reflect.TypeOf(big.Int{})
		case in.e.libType("Token"):
			return reflect.TypeOf(lib.Token{})
		}
	case ir.Pointer:
		return reflect.PointerTo(in.typ(t.Elem))
	case ir.Slice:
		return reflect.SliceOf(in.typ(t.Elem))
	case ir.Array:
		return reflect.ArrayOf(t.Len, in.typ(t.Elem))
	}
	panic(fmt.Sprintf("interp: unsupported type %#v", t))
}

func (in *interp) exec(s ir.Stmt) reflect.Value {
	switch s := s.(type) {
	case ir.Define:
		in.env[s.Names[0]] = in.eval(s.Value)
		return reflect.Value{}
	case ir.Return:
		return in.eval(s.Values[0])
	}
	panic(fmt.Sprintf("interp: unsupported statement %#v", s))
}

func (in *interp) eval(x ir.Expr) reflect.Value {
	switch x := x.(type) {
	case ir.Ident:
		v, ok := in.env[x.Name]
		if !ok {
			panic("interp: unbound " + x.Name)
		}
		return v
	case ir.IntLit:
		return reflect.ValueOf(x.Value)
	case ir.Conv:
		return in.eval(x.X).Convert(in.typ(x.Type))
	case ir.SliceOf:
		v := in.eval(x.X)
		if !v.CanAddr() {
			p := reflect.New(v.Type()).Elem()
			p.Set(v)
			v = p
		}
		return v.Slice(0, v.Len())
	case ir.Index:
		return in.eval(x.X).Index(x.Index)
	case ir.FuncLit:
		return reflect.ValueOf(closure{lit: x, in: in})
	case ir.Composite:
		out := reflect.MakeSlice(in.typ(x.Type), len(x.Elts), len(x.Elts))
		for i, el := range x.Elts {
			out.Index(i).Set(in.eval(el))
		}
		return out
	case ir.Method:
		return in.method(x)[0]
	case ir.Call:
		return in.call(x)
	}
	panic(fmt.Sprintf("interp: unsupported expression %#v", x))
}

func (in *interp) method(m ir.Method) []reflect.Value {
	args := make([]reflect.Value, len(m.Args))
	for i, a := range m.Args {
		args[i] = in.eval(a)
	}
	return in.eval(m.Recv).MethodByName(m.Name).Call(args)
}

func (in *interp) call(c ir.Call) reflect.Value {
	fun, ok := c.Fun.(ir.Qualified)
	if !ok || fun.Path != in.e.lib {
		panic(fmt.Sprintf("interp: unsupported call %#v", c.Fun))
	}

	// Expect takes the two results of a method call.
	if fun.Name == "Expect" {
		res := in.method(c.Args[0].(ir.Method))
		err, _ := res[1].Interface().(error)
		return lib.Expect(res[0], err)
	}

	args := make([]reflect.Value, len(c.Args))
	for i, a := range c.Args {
		args[i] = in.eval(a)
	}
	switch fun.Name {
	case "AddressToken":
		return reflect.ValueOf(lib.AddressToken(args[0].Interface().(common.Address)))
	case "BytesToken":
		return reflect.ValueOf(lib.BytesToken(args[0].Bytes()))
	case "FixedBytesToken":
		return reflect.ValueOf(lib.FixedBytesToken(args[0].Bytes()))
	case "IntToken":
		return reflect.ValueOf(lib.IntToken(args[0].Interface().(*big.Int)))
	case "UintToken":
		return reflect.ValueOf(lib.UintToken(args[0].Interface().(*big.Int)))
	case "BoolToken":
		return reflect.ValueOf(lib.BoolToken(args[0].Bool()))
	case "StringToken":
		return reflect.ValueOf(lib.StringToken(args[0].String()))
	case "ArrayToken":
		return reflect.ValueOf(lib.ArrayToken(args[0].Interface().([]lib.Token)))
	case "FixedArrayToken":
		return reflect.ValueOf(lib.FixedArrayToken(args[0].Interface().([]lib.Token)))
	case "ExpectFixedBytes":
		return reflect.ValueOf(lib.ExpectFixedBytes(args[0].Interface().(lib.Token), int(args[1].Int())))
	case "BigInt":
		return reflect.ValueOf(bigInt(args[0]))
	case "MapSlice":
		f := args[1].Interface().(closure)
		out := reflect.MakeSlice(reflect.SliceOf(in.typ(f.lit.Results[0])), args[0].Len(), args[0].Len())
		for i := 0; i < args[0].Len(); i++ {
			out.Index(i).Set(f.call(args[0].Index(i)))
		}
		return out
	case "MapSeq":
		f := args[1].Interface().(closure)
		elems := make([]reflect.Value, args[0].Len())
		for i := range elems {
			elems[i] = args[0].Index(i)
		}
		return reflect.ValueOf(lazy{seq: lib.MapSeq(elems, f.call), elem: in.typ(f.lit.Results[0])})
	case "TakeN":
		l := args[0].Interface().(lazy)
		vals := lib.TakeN(l.seq, int(args[1].Int()))
		out := reflect.MakeSlice(reflect.SliceOf(l.elem), len(vals), len(vals))
		for i, v := range vals {
			out.Index(i).Set(v)
		}
		return out
	}
	panic("interp: unsupported library function " + fun.Name)
}

func bigInt(v reflect.Value) *big.Int {
	switch n := v.Interface().(type) {
	case *big.Int:
		return lib.BigInt(n)
	case *uint256.Int:
		return lib.BigInt(n)
	}
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return lib.BigInt(v.Int())
	default:
		return lib.BigInt(v.Uint())
	}
}

// decode evaluates x below a CatchDecode, like generated decoders do.
func (in *interp) decode(x ir.Expr) (v reflect.Value, err error) {
	defer lib.CatchDecode(&err)
	return in.eval(x), nil
}
