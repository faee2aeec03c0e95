package bindgen

import (
	"fmt"
	"go/token"
	"strings"

	"github.com/jshufro/abibind/ir"
	"github.com/jshufro/abibind/model"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Options configure Generate.
type Options struct {
	// Package is the name of the generated package.
	Package string
	// TypeName prefixes every generated declaration.
	TypeName string
	// Lib is the import path of the runtime library, DefaultLib if empty.
	Lib string
	// Parallelism bounds how many members are generated at once. Zero or
	// less generates them one after another.
	Parallelism int
	Logger      *zap.Logger
}

func (o *Options) validate() error {
	if !token.IsIdentifier(o.Package) {
		return fmt.Errorf("invalid package name %q", o.Package)
	}
	if !token.IsIdentifier(o.TypeName) || !token.IsExported(o.TypeName) {
		return fmt.Errorf("type name %q is not an exported Go identifier", o.TypeName)
	}
	return nil
}

// member generates the declarations of one contract member.
type member struct {
	desc     string
	generate func() ([]ir.Decl, error)
}

// Generate derives the bindings of c. Members are generated independently
// and reassembled in contract order, so the result does not depend on
// Parallelism.
func Generate(c *model.Contract, opts Options) (*ir.File, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	g := &generator{Engine: NewEngine(opts.Lib), typeName: opts.TypeName}
	members := g.members(c)

	decls := make([][]ir.Decl, len(members))
	var eg errgroup.Group
	if opts.Parallelism > 0 {
		eg.SetLimit(opts.Parallelism)
	} else {
		eg.SetLimit(1)
	}
	for i, m := range members {
		eg.Go(func() error {
			out, err := m.generate()
			if err != nil {
				return fmt.Errorf("%s: %w", m.desc, err)
			}
			log.Debug("generated member", zap.String("member", m.desc), zap.Int("declarations", len(out)))
			decls[i] = out
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	file := &ir.File{
		Name:    strings.ToLower(opts.TypeName) + ".go",
		Package: opts.Package,
	}
	seen := make(map[string]string)
	for i, ds := range decls {
		for _, d := range ds {
			if other, ok := seen[d.DeclName()]; ok {
				return nil, fmt.Errorf("%s and %s both declare %s", other, members[i].desc, d.DeclName())
			}
			seen[d.DeclName()] = members[i].desc
			file.Decls = append(file.Decls, d)
		}
	}
	return file, nil
}

type generator struct {
	*Engine
	typeName string
}

func (g *generator) members(c *model.Contract) []member {
	var out []member
	if c.Constructor != nil {
		ctor := c.Constructor
		out = append(out, member{
			desc:     "constructor",
			generate: func() ([]ir.Decl, error) { return g.constructor(ctor) },
		})
	}

	fnames := overloads(len(c.Functions), func(i int) string { return c.Functions[i].Name })
	for i := range c.Functions {
		f, prefix := &c.Functions[i], g.typeName+fnames[i]
		out = append(out, member{
			desc:     "function " + f.Signature(),
			generate: func() ([]ir.Decl, error) { return g.function(f, prefix) },
		})
	}

	enames := overloads(len(c.Events), func(i int) string { return c.Events[i].Name })
	for i := range c.Events {
		ev, prefix := &c.Events[i], g.typeName+enames[i]
		out = append(out, member{
			desc:     "event " + ev.Signature(),
			generate: func() ([]ir.Decl, error) { return g.event(ev, prefix) },
		})
	}
	return out
}

// overloads names n members. Members sharing a name are told apart by their
// position among each other: Transfer0, Transfer1.
func overloads(n int, name func(int) string) []string {
	count := make(map[string]int)
	for i := 0; i < n; i++ {
		count[name(i)]++
	}
	next := make(map[string]int)
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = FieldName(name(i), 0)
		if count[name(i)] > 1 {
			out[i] += fmt.Sprint(next[name(i)])
			next[name(i)]++
		}
	}
	return out
}

func (g *generator) function(f *model.Function, prefix string) ([]ir.Decl, error) {
	in, err := g.Inputs(f.Inputs)
	if err != nil {
		return nil, fmt.Errorf("inputs: %w", err)
	}
	descriptor := prefix + "Function"
	outputs := results(g.OutputType(f.Outputs))
	tokensT := ir.Slice{Elem: g.TokenType()}

	tokens := &ir.FuncDecl{
		Doc:        fmt.Sprintf("%sTokens encodes the arguments of %s.", prefix, f.Signature()),
		Name:       prefix + "Tokens",
		TypeParams: in.TypeParams,
		Params:     in.Params,
		Results:    []ir.Field{{Type: tokensT}},
		Body:       append(append([]ir.Stmt{}, in.Convert...), ir.Return{Values: []ir.Expr{in.Tokens}}),
	}
	callTokens := ir.Call{Fun: ir.Id(tokens.Name), TypeArgs: tokens.TypeArgs(), Args: in.Args()}

	decodeTokens := &ir.FuncDecl{
		Doc:     fmt.Sprintf("%sDecodeOutputTokens rebuilds the results of %s.", prefix, f.Signature()),
		Name:    prefix + "DecodeOutputTokens",
		Params:  []ir.Field{{Name: "tokens", Type: tokensT}},
		Results: outputs,
		Body: []ir.Stmt{
			g.catchDecode(),
			ir.ExprStmt{X: ir.CallOf(g.libFunc("ExpectLen"), ir.Id("tokens"), ir.IntLit{Value: len(f.Outputs)})},
			ir.Return{Values: append(g.DecodeOutputs(ir.Id("tokens"), f.Outputs), ir.Id("nil"))},
		},
	}
	// decoded forwards the token list returned by call to decodeTokens.
	decoded := func(call ir.Expr) []ir.Stmt {
		return []ir.Stmt{
			g.catchDecode(),
			ir.Return{Values: []ir.Expr{ir.CallOf(ir.Id(decodeTokens.Name), ir.CallOf(g.libFunc("Expect"), call))}},
		}
	}

	return []ir.Decl{
		&ir.VarDecl{
			Doc:  fmt.Sprintf("%s describes %s.", descriptor, f.Signature()),
			Name: descriptor,
			Value: ir.CallOf(g.libFunc("MustFunction"),
				ir.StringLit{Value: f.Name}, canonicalTypes(f.Inputs), canonicalTypes(f.Outputs)),
		},
		tokens,
		&ir.FuncDecl{
			Doc:        fmt.Sprintf("%sEncodeInput returns the calldata of %s.", prefix, f.Signature()),
			Name:       prefix + "EncodeInput",
			TypeParams: in.TypeParams,
			Params:     in.Params,
			Results:    []ir.Field{{Type: ir.Slice{Elem: byteT}}, {Type: errorT}},
			Body: []ir.Stmt{ir.Return{Values: []ir.Expr{
				ir.Method{Recv: ir.Id(descriptor), Name: "EncodeInput", Args: []ir.Expr{callTokens}},
			}}},
		},
		decodeTokens,
		&ir.FuncDecl{
			Doc:     fmt.Sprintf("%sDecodeOutput decodes the return data of %s.", prefix, f.Signature()),
			Name:    prefix + "DecodeOutput",
			Params:  []ir.Field{{Name: "data", Type: ir.Slice{Elem: byteT}}},
			Results: outputs,
			Body: decoded(ir.Method{Recv: ir.Id(descriptor), Name: "DecodeOutput", Args: []ir.Expr{ir.Id("data")}}),
		},
		&ir.FuncDecl{
			Doc:        fmt.Sprintf("%sCall calls %s on contract without sending a transaction.", prefix, f.Signature()),
			Name:       prefix + "Call",
			TypeParams: in.TypeParams,
			Params: append([]ir.Field{
				{Name: "opts", Type: ir.Pointer{Elem: ir.Named{Path: bindPath, Name: "CallOpts"}}},
				{Name: "caller", Type: ir.Named{Path: bindPath, Name: "ContractCaller"}},
				{Name: "contract", Type: addressT},
			}, in.Params...),
			Results: outputs,
			Body: decoded(ir.Method{Recv: ir.Id(descriptor), Name: "Call", Args: []ir.Expr{
				ir.Id("opts"), ir.Id("caller"), ir.Id("contract"), callTokens,
			}}),
		},
	}, nil
}

func (g *generator) catchDecode() ir.Stmt {
	return ir.Defer{Call: ir.CallOf(g.libFunc("CatchDecode"), ir.AddressOf{X: ir.Id("err")})}
}

func (g *generator) constructor(c *model.Constructor) ([]ir.Decl, error) {
	in, err := g.Inputs(c.Inputs)
	if err != nil {
		return nil, fmt.Errorf("inputs: %w", err)
	}
	// Every function and event declaration ends in one of their fixed
	// suffixes, none of which is Args, so these names cannot collide.
	descriptor := g.typeName + "Constructor"

	tokens := &ir.FuncDecl{
		Doc:        fmt.Sprintf("%sArgs encodes the constructor arguments.", descriptor),
		Name:       descriptor + "Args",
		TypeParams: in.TypeParams,
		Params:     in.Params,
		Results:    []ir.Field{{Type: ir.Slice{Elem: g.TokenType()}}},
		Body:       append(append([]ir.Stmt{}, in.Convert...), ir.Return{Values: []ir.Expr{in.Tokens}}),
	}
	return []ir.Decl{
		&ir.VarDecl{
			Doc:   fmt.Sprintf("%s describes %s.", descriptor, c.Signature()),
			Name:  descriptor,
			Value: ir.CallOf(g.libFunc("MustConstructor"), canonicalTypes(c.Inputs)),
		},
		tokens,
		&ir.FuncDecl{
			Doc:        fmt.Sprintf("%sDeploy returns the creation code: bytecode followed by the encoded arguments.", g.typeName),
			Name:       g.typeName + "Deploy",
			TypeParams: in.TypeParams,
			Params:     append([]ir.Field{{Name: "bytecode", Type: ir.Slice{Elem: byteT}}}, in.Params...),
			Results:    []ir.Field{{Type: ir.Slice{Elem: byteT}}, {Type: errorT}},
			Body: []ir.Stmt{ir.Return{Values: []ir.Expr{
				ir.Method{Recv: ir.Id(descriptor), Name: "Encode", Args: []ir.Expr{
					ir.Id("bytecode"),
					ir.Call{Fun: ir.Id(tokens.Name), TypeArgs: tokens.TypeArgs(), Args: in.Args()},
				}},
			}}},
		},
	}, nil
}

func (g *generator) event(ev *model.Event, prefix string) ([]ir.Decl, error) {
	fields, err := g.NativeFields(ev.Inputs, model.Param.TopicKind)
	if err != nil {
		return nil, err
	}
	structName := prefix + "Event"
	descriptor := prefix + "EventABI"

	inputs := make([]ir.Expr, 0, len(ev.Inputs)+2)
	inputs = append(inputs, ir.StringLit{Value: ev.Name}, ir.BoolLit{Value: ev.Anonymous})
	values := make([]ir.Expr, len(ev.Inputs))
	for i, p := range ev.Inputs {
		inputs = append(inputs, ir.Composite{Type: g.libType("EventInput"), Elts: []ir.Expr{
			ir.KeyValue{Key: "Type", Value: ir.StringLit{Value: p.Kind.String()}},
			ir.KeyValue{Key: "Indexed", Value: ir.BoolLit{Value: p.Indexed}},
		}})
		values[i] = ir.KeyValue{
			Key:   fields[i].Name,
			Value: g.FromToken(ir.Index{X: ir.Id("tokens"), Index: i}, p.TopicKind()),
		}
	}

	decls := []ir.Decl{
		&ir.StructDecl{
			Doc:    fmt.Sprintf("%s is a decoded %s log. Indexed values stored by hash hold the hash.", structName, ev.Signature()),
			Name:   structName,
			Fields: fields,
		},
		&ir.VarDecl{
			Doc:   fmt.Sprintf("%s describes %s.", descriptor, ev.Signature()),
			Name:  descriptor,
			Value: ir.CallOf(g.libFunc("MustEvent"), inputs...),
		},
		&ir.VarDecl{
			Doc:   fmt.Sprintf("%sTopic is the signature hash of %s.", prefix, ev.Signature()),
			Name:  prefix + "Topic",
			Value: ir.Method{Recv: ir.Id(descriptor), Name: "ID"},
		},
		&ir.FuncDecl{
			Doc:     fmt.Sprintf("Parse%s decodes a %s log.", structName, ev.Signature()),
			Name:    "Parse" + structName,
			Params:  []ir.Field{{Name: "log", Type: ir.Named{Path: typesPath, Name: "Log"}}},
			Results: []ir.Field{{Name: "_", Type: ir.Pointer{Elem: ir.Named{Name: structName}}}, {Name: "err", Type: errorT}},
			Body: []ir.Stmt{
				g.catchDecode(),
				ir.Define{
					Names: []string{"tokens"},
					Value: ir.CallOf(g.libFunc("Expect"), ir.Method{Recv: ir.Id(descriptor), Name: "ParseLog", Args: []ir.Expr{ir.Id("log")}}),
				},
				ir.ExprStmt{X: ir.CallOf(g.libFunc("ExpectLen"), ir.Id("tokens"), ir.IntLit{Value: len(ev.Inputs)})},
				ir.Return{Values: []ir.Expr{
					ir.AddressOf{X: ir.Composite{Type: ir.Named{Name: structName}, Elts: values}},
					ir.Id("nil"),
				}},
			},
		},
	}

	filter, err := g.filter(ev, prefix, descriptor)
	if err != nil {
		return nil, err
	}
	if filter != nil {
		decls = append(decls, filter)
	}
	return decls, nil
}

// filter builds the topic filter of an event with indexed inputs. Each
// indexed input takes the list of values it may match.
func (g *generator) filter(ev *model.Event, prefix, descriptor string) (*ir.FuncDecl, error) {
	names, err := g.Idents(ev.Inputs)
	if err != nil {
		return nil, err
	}
	var params []ir.Field
	var rules []ir.Expr
	for i, p := range ev.Inputs {
		if !p.Indexed {
			continue
		}
		kind := p.TopicKind()
		native := g.NativeType(kind)
		params = append(params, ir.Field{
			Name: names[i],
			Type: ir.Generic{Base: g.libType("Topic"), Args: []ir.TypeExpr{native}},
		})
		rules = append(rules, ir.CallOf(g.libFunc("TopicTokens"),
			ir.Id(names[i]),
			ir.Lambda("e0", native, g.TokenType(), g.ToToken(ir.Id("e0"), kind))))
	}
	if len(params) == 0 {
		return nil, nil
	}
	return &ir.FuncDecl{
		Doc:     fmt.Sprintf("%sFilter returns the log topics matching %s. An empty list matches any value.", prefix, ev.Signature()),
		Name:    prefix + "Filter",
		Params:  params,
		Results: []ir.Field{{Type: ir.Slice{Elem: ir.Slice{Elem: hashT}}}, {Type: errorT}},
		Body: []ir.Stmt{ir.Return{Values: []ir.Expr{
			ir.Method{Recv: ir.Id(descriptor), Name: "Topics", Args: rules},
		}}},
	}, nil
}
