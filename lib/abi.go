package lib

import (
	"bytes"
	"fmt"
	"math/big"
	"reflect"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

var bigT = reflect.TypeOf((*big.Int)(nil))

func mustArguments(types []string) abi.Arguments {
	out := make(abi.Arguments, len(types))
	for i, typ := range types {
		t, err := abi.NewType(typ, "", nil)
		if err != nil {
			panic(fmt.Errorf("invalid abi type %q: %v", typ, err))
		}
		out[i] = abi.Argument{Type: t}
	}
	return out
}

// Function describes one contract function by its canonical type strings.
// It packs and unpacks call data using go-ethereum's ABI codec.
type Function struct {
	method abi.Method
}

// MustFunction builds a Function. It panics on malformed type strings, which
// can only come from a broken generator.
func MustFunction(name string, inputs, outputs []string) *Function {
	return &Function{
		method: abi.NewMethod(name, name, abi.Function, "", false, false, mustArguments(inputs), mustArguments(outputs)),
	}
}

func (f *Function) Name() string      { return f.method.RawName }
func (f *Function) Signature() string { return f.method.Sig }
func (f *Function) Selector() []byte  { return f.method.ID }

// EncodeInput returns the selector followed by the packed arguments.
func (f *Function) EncodeInput(args []Token) ([]byte, error) {
	packed, err := pack(f.method.Inputs, args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.method.Sig, err)
	}
	return append(append([]byte{}, f.method.ID...), packed...), nil
}

// DecodeInput is the inverse of EncodeInput.
func (f *Function) DecodeInput(data []byte) ([]Token, error) {
	if len(data) < 4 || !bytes.Equal(data[:4], f.method.ID) {
		return nil, fmt.Errorf("%s: call data does not start with selector %x", f.method.Sig, f.method.ID)
	}
	return unpack(f.method.Inputs, data[4:])
}

// EncodeOutput packs return values, as a contract would.
func (f *Function) EncodeOutput(values []Token) ([]byte, error) {
	return pack(f.method.Outputs, values)
}

// DecodeOutput unpacks the return data of a call.
func (f *Function) DecodeOutput(data []byte) ([]Token, error) {
	tokens, err := unpack(f.method.Outputs, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.method.Sig, err)
	}
	return tokens, nil
}

// Constructor describes the deployment arguments of a contract.
type Constructor struct {
	inputs abi.Arguments
}

func MustConstructor(inputs []string) *Constructor {
	return &Constructor{inputs: mustArguments(inputs)}
}

// Encode returns the deployment payload: bytecode followed by the packed arguments.
func (c *Constructor) Encode(bytecode []byte, args []Token) ([]byte, error) {
	packed, err := pack(c.inputs, args)
	if err != nil {
		return nil, fmt.Errorf("constructor: %w", err)
	}
	return append(append([]byte{}, bytecode...), packed...), nil
}

func pack(args abi.Arguments, tokens []Token) ([]byte, error) {
	if len(args) != len(tokens) {
		return nil, fmt.Errorf("expected %d arguments, got %d", len(args), len(tokens))
	}
	values := make([]interface{}, len(tokens))
	for i, t := range tokens {
		v, err := toGo(args[i].Type, t)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		values[i] = v.Interface()
	}
	return args.Pack(values...)
}

func unpack(args abi.Arguments, data []byte) ([]Token, error) {
	values, err := args.UnpackValues(data)
	if err != nil {
		return nil, err
	}
	tokens := make([]Token, len(values))
	for i, v := range values {
		t, err := fromGo(args[i].Type, reflect.ValueOf(v))
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
		tokens[i] = t
	}
	return tokens, nil
}

// toGo converts a token into the Go value go-ethereum expects for typ.
func toGo(typ abi.Type, t Token) (reflect.Value, error) {
	rt := typ.GetType()
	switch typ.T {
	case abi.AddressTy:
		a, err := t.ToAddress()
		return reflect.ValueOf(a), err
	case abi.BytesTy:
		b, err := t.ToBytes()
		return reflect.ValueOf(b), err
	case abi.StringTy:
		s, err := t.ToString()
		return reflect.ValueOf(s), err
	case abi.BoolTy:
		b, err := t.ToBool()
		return reflect.ValueOf(b), err
	case abi.FixedBytesTy:
		b, err := t.ToFixedBytes()
		if err != nil {
			return reflect.Value{}, err
		}
		if len(b) != typ.Size {
			return reflect.Value{}, fmt.Errorf("%s: got %d bytes", typ, len(b))
		}
		v := reflect.New(rt).Elem()
		for i, c := range b {
			v.Index(i).SetUint(uint64(c))
		}
		return v, nil
	case abi.IntTy:
		n, err := t.ToInt()
		if err != nil {
			return reflect.Value{}, err
		}
		return bigToGo(typ, rt, n)
	case abi.UintTy:
		n, err := t.ToUint()
		if err != nil {
			return reflect.Value{}, err
		}
		return bigToGo(typ, rt, n)
	case abi.SliceTy, abi.ArrayTy:
		elems, err := t.ToArray()
		if err != nil {
			return reflect.Value{}, err
		}
		var v reflect.Value
		if typ.T == abi.SliceTy {
			v = reflect.MakeSlice(rt, len(elems), len(elems))
		} else {
			if len(elems) != typ.Size {
				return reflect.Value{}, fmt.Errorf("%s: got %d elements", typ, len(elems))
			}
			v = reflect.New(rt).Elem()
		}
		for i, e := range elems {
			ev, err := toGo(*typ.Elem, e)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
			}
			v.Index(i).Set(ev)
		}
		return v, nil
	}
	return reflect.Value{}, fmt.Errorf("unsupported abi type %s", typ)
}

func bigToGo(typ abi.Type, rt reflect.Type, n *big.Int) (reflect.Value, error) {
	if n == nil {
		n = new(big.Int)
	}
	if !fits(typ, n) {
		return reflect.Value{}, fmt.Errorf("%s: %v out of range", typ, n)
	}
	if rt == bigT {
		return reflect.ValueOf(n), nil
	}
	v := reflect.New(rt).Elem()
	switch rt.Kind() {
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v.SetInt(n.Int64())
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v.SetUint(n.Uint64())
	default:
		return reflect.Value{}, fmt.Errorf("%s: unexpected go type %s", typ, rt)
	}
	return v, nil
}

// fits reports whether n is representable in the intN or uintN typ.
func fits(typ abi.Type, n *big.Int) bool {
	if typ.T == abi.UintTy {
		return n.Sign() >= 0 && n.BitLen() <= typ.Size
	}
	if n.Sign() < 0 {
		// ^n is -n-1, which keeps -2^(size-1) in range
		return new(big.Int).Not(n).BitLen() < typ.Size
	}
	return n.BitLen() < typ.Size
}

// fromGo converts a value unpacked by go-ethereum into a token.
func fromGo(typ abi.Type, v reflect.Value) (Token, error) {
	switch typ.T {
	case abi.AddressTy:
		a, ok := v.Interface().(common.Address)
		if !ok {
			return Token{}, fmt.Errorf("%s: unexpected go type %s", typ, v.Type())
		}
		return AddressToken(a), nil
	case abi.BytesTy:
		return BytesToken(v.Bytes()), nil
	case abi.StringTy:
		return StringToken(v.String()), nil
	case abi.BoolTy:
		return BoolToken(v.Bool()), nil
	case abi.FixedBytesTy:
		b := make([]byte, v.Len())
		for i := range b {
			b[i] = byte(v.Index(i).Uint())
		}
		return FixedBytesToken(b), nil
	case abi.IntTy, abi.UintTy:
		var n *big.Int
		switch {
		case v.Type() == bigT:
			n = new(big.Int).Set(v.Interface().(*big.Int))
		case v.CanInt():
			n = big.NewInt(v.Int())
		case v.CanUint():
			n = new(big.Int).SetUint64(v.Uint())
		default:
			return Token{}, fmt.Errorf("%s: unexpected go type %s", typ, v.Type())
		}
		if typ.T == abi.IntTy {
			return IntToken(n), nil
		}
		return UintToken(n), nil
	case abi.SliceTy, abi.ArrayTy:
		elems := make([]Token, v.Len())
		for i := range elems {
			e, err := fromGo(*typ.Elem, v.Index(i))
			if err != nil {
				return Token{}, fmt.Errorf("element %d: %w", i, err)
			}
			elems[i] = e
		}
		if typ.T == abi.SliceTy {
			return ArrayToken(elems), nil
		}
		return FixedArrayToken(elems), nil
	}
	return Token{}, fmt.Errorf("unsupported abi type %s", typ)
}
