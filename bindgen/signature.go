package bindgen

import (
	"fmt"

	"github.com/jshufro/abibind/ir"
	"github.com/jshufro/abibind/model"
)

// Inputs is the call-site side of a parameter list.
type Inputs struct {
	// TypeParams holds the bounds of every parameter, in declaration order.
	TypeParams []ir.TypeParam
	// Params are the call-site parameters, each typed by its first bound.
	Params []ir.Field
	// Convert binds the native value of every parameter to a local.
	Convert []ir.Stmt
	// Tokens is the []lib.Token built from those locals.
	Tokens ir.Expr
}

// Args lists the call-site parameters as arguments, for forwarding calls.
func (in *Inputs) Args() []ir.Expr {
	out := make([]ir.Expr, len(in.Params))
	for i, p := range in.Params {
		out[i] = ir.Id(p.Name)
	}
	return out
}

// Inputs derives the call-site signature of params and the statements turning
// its arguments into tokens. Parameter i binds slot i.
func (e *Engine) Inputs(params []model.Param) (*Inputs, error) {
	names, err := e.Idents(params)
	if err != nil {
		return nil, err
	}

	out := &Inputs{Params: make([]ir.Field, len(params))}
	tokens := make([]ir.Expr, len(params))
	for i, p := range params {
		bounds := e.CallSiteBound(p.Kind, i)
		out.TypeParams = append(out.TypeParams, bounds...)
		out.Params[i] = ir.Field{Name: names[i], Type: ir.TypeParamRef{Name: bounds[0].Name}}

		// The native value gets a local so that fixed-size values are
		// addressable when sliced by the encoder.
		local := "_" + names[i]
		out.Convert = append(out.Convert, ir.Define{
			Names: []string{local},
			Value: e.Convert(ir.Id(names[i]), p.Kind, i),
		})
		tokens[i] = e.ToToken(ir.Id(local), p.Kind)
	}
	out.Tokens = ir.Composite{Type: ir.Slice{Elem: e.TokenType()}, Elts: tokens}
	return out, nil
}

// OutputType aggregates the native types of params: no outputs is Unit, one
// output is its own type, more are a Tuple in declaration order.
func (e *Engine) OutputType(params []model.Param) ir.TypeExpr {
	switch len(params) {
	case 0:
		return ir.Unit{}
	case 1:
		return e.NativeType(params[0].Kind)
	}
	elems := make([]ir.TypeExpr, len(params))
	for i, p := range params {
		elems[i] = e.NativeType(p.Kind)
	}
	return ir.Tuple{Elems: elems}
}

// DecodeOutputs rebuilds every output from the token list tokens, in the
// shape OutputType describes.
func (e *Engine) DecodeOutputs(tokens ir.Expr, params []model.Param) []ir.Expr {
	out := make([]ir.Expr, len(params))
	for i, p := range params {
		out[i] = e.FromToken(ir.Index{X: tokens, Index: i}, p.Kind)
	}
	return out
}

// NativeFields lists the native types of params under their exported names.
// kind selects the type each parameter is carried as.
func (e *Engine) NativeFields(params []model.Param, kind func(model.Param) model.ParamType) ([]ir.Field, error) {
	out := make([]ir.Field, len(params))
	seen := make(map[string]int, len(params))
	for i, p := range params {
		name := FieldName(p.Name, i)
		if j, ok := seen[name]; ok {
			return nil, fmt.Errorf("parameters %d (%q) and %d (%q) both map to field %q", j, params[j].Name, i, p.Name, name)
		}
		seen[name] = i
		out[i] = ir.Field{Name: name, Type: e.NativeType(kind(p))}
	}
	return out, nil
}

// canonicalTypes lists the ABI type strings of params.
func canonicalTypes(params []model.Param) ir.Expr {
	elts := make([]ir.Expr, len(params))
	for i, p := range params {
		elts[i] = ir.StringLit{Value: p.Kind.String()}
	}
	return ir.Composite{Type: ir.Slice{Elem: stringT}, Elts: elts}
}

// results names every element of t blank and appends err.
func results(t ir.TypeExpr) []ir.Field {
	elems := ir.Elems(t)
	out := make([]ir.Field, 0, len(elems)+1)
	for _, el := range elems {
		out = append(out, ir.Field{Name: "_", Type: el})
	}
	return append(out, ir.Field{Name: "err", Type: errorT})
}
