package model

import (
	"io"
	"os"
	"sort"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/pkg/errors"
)

// LoadFile reads a JSON ABI from path.
func LoadFile(path string) (*Contract, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot load contract abi from `%s`", path)
	}
	defer f.Close()

	out, err := Load(f)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot load contract abi from `%s`", path)
	}
	return out, nil
}

// Load parses a JSON ABI.
func Load(r io.Reader) (*Contract, error) {
	parsed, err := abi.JSON(r)
	if err != nil {
		return nil, errors.Wrap(err, "malformed abi")
	}
	return FromABI(&parsed)
}

// FromABI converts a parsed go-ethereum ABI. Functions and events are sorted by
// name, then signature, so that overloads are always numbered the same way.
func FromABI(a *abi.ABI) (*Contract, error) {
	out := new(Contract)

	// NewMethod leaves Sig empty for constructors, but always describes the
	// method in String. A zero Method describes nothing.
	if a.Constructor.String() != "" {
		inputs, err := fromArguments(a.Constructor.Inputs)
		if err != nil {
			return nil, errors.Wrap(err, "constructor")
		}
		out.Constructor = &Constructor{Inputs: inputs}
	}

	{
		out.Functions = make([]Function, 0, len(a.Methods))
		for _, m := range a.Methods {
			inputs, err := fromArguments(m.Inputs)
			if err != nil {
				return nil, errors.Wrapf(err, "function %s", m.Sig)
			}
			outputs, err := fromArguments(m.Outputs)
			if err != nil {
				return nil, errors.Wrapf(err, "function %s outputs", m.Sig)
			}
			out.Functions = append(out.Functions, Function{
				Name:     m.RawName,
				Inputs:   inputs,
				Outputs:  outputs,
				Constant: m.IsConstant(),
			})
		}
		sort.Slice(out.Functions, func(i, j int) bool {
			fi, fj := &out.Functions[i], &out.Functions[j]
			if fi.Name != fj.Name {
				return fi.Name < fj.Name
			}
			return fi.Signature() < fj.Signature()
		})
	}

	{
		out.Events = make([]Event, 0, len(a.Events))
		for _, e := range a.Events {
			inputs, err := fromArguments(e.Inputs)
			if err != nil {
				return nil, errors.Wrapf(err, "event %s", e.Sig)
			}
			out.Events = append(out.Events, Event{
				Name:      e.RawName,
				Inputs:    inputs,
				Anonymous: e.Anonymous,
			})
		}
		sort.Slice(out.Events, func(i, j int) bool {
			ei, ej := &out.Events[i], &out.Events[j]
			if ei.Name != ej.Name {
				return ei.Name < ej.Name
			}
			return ei.Signature() < ej.Signature()
		})
	}

	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

func fromArguments(args abi.Arguments) ([]Param, error) {
	out := make([]Param, 0, len(args))
	for i, arg := range args {
		kind, err := fromType(arg.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "parameter %d (%q)", i, arg.Name)
		}
		out = append(out, Param{
			Name:    arg.Name,
			Kind:    kind,
			Indexed: arg.Indexed,
		})
	}
	return out, nil
}

func fromType(t abi.Type) (ParamType, error) {
	switch t.T {
	case abi.AddressTy:
		return Address(), nil
	case abi.BytesTy:
		return Bytes(), nil
	case abi.BoolTy:
		return Bool(), nil
	case abi.StringTy:
		return String(), nil
	case abi.IntTy:
		return Int(t.Size), nil
	case abi.UintTy:
		return Uint(t.Size), nil
	case abi.FixedBytesTy:
		return FixedBytes(t.Size), nil
	case abi.SliceTy:
		elem, err := fromType(*t.Elem)
		if err != nil {
			return ParamType{}, err
		}
		return ArrayOf(elem), nil
	case abi.ArrayTy:
		elem, err := fromType(*t.Elem)
		if err != nil {
			return ParamType{}, err
		}
		return FixedArrayOf(elem, t.Size), nil
	}
	return ParamType{}, errors.Errorf("unsupported parameter type `%s`", t.String())
}
