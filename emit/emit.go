// Package emit renders generated declarations as source code.
package emit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jshufro/abibind/ir"
	"google.golang.org/protobuf/compiler/protogen"
	"google.golang.org/protobuf/types/pluginpb"
)

// Emitter turns a generated file into source text.
type Emitter interface {
	Emit(f *ir.File) ([]byte, error)
}

// Go emits gofmt'ed Go source. Imports are collected from the qualified
// identifiers the declarations reference.
type Go struct {
	importPath protogen.GoImportPath
}

var _ Emitter = (*Go)(nil)

// NewGo returns an emitter for a package living at importPath. References to
// that package are left unqualified.
func NewGo(importPath string) *Go {
	return &Go{importPath: protogen.GoImportPath(importPath)}
}

func (e *Go) Emit(f *ir.File) ([]byte, error) {
	plugin, err := protogen.Options{}.New(&pluginpb.CodeGeneratorRequest{})
	if err != nil {
		return nil, err
	}
	g := plugin.NewGeneratedFile(f.Name, e.importPath)
	p := &printer{g: g}

	g.P("// Code generated by abibind. DO NOT EDIT.")
	g.P()
	g.P("package ", f.Package)
	for _, d := range f.Decls {
		g.P()
		p.decl(d)
	}
	if p.err != nil {
		return nil, fmt.Errorf("%s: %w", f.Name, p.err)
	}
	return g.Content()
}

// printer renders ir nodes. The first unsupported node is kept in err and
// rendering carries on with empty text.
type printer struct {
	g   *protogen.GeneratedFile
	err error
}

func (p *printer) fail(format string, args ...interface{}) string {
	if p.err == nil {
		p.err = fmt.Errorf(format, args...)
	}
	return ""
}

func (p *printer) ident(path, name string) string {
	if path == "" {
		return name
	}
	return p.g.QualifiedGoIdent(protogen.GoIdent{GoName: name, GoImportPath: protogen.GoImportPath(path)})
}

func (p *printer) typ(t ir.TypeExpr) string {
	switch t := t.(type) {
	case ir.Named:
		return p.ident(t.Path, t.Name)
	case ir.Pointer:
		return "*" + p.typ(t.Elem)
	case ir.Slice:
		return "[]" + p.typ(t.Elem)
	case ir.Array:
		return "[" + strconv.Itoa(t.Len) + "]" + p.typ(t.Elem)
	case ir.TypeParamRef:
		return t.Name
	case ir.Generic:
		return p.typ(t.Base) + "[" + p.types(t.Args) + "]"
	case ir.Approx:
		return "~" + p.typ(t.Type)
	case ir.Union:
		terms := make([]string, len(t.Terms))
		for i, term := range t.Terms {
			terms[i] = p.typ(term)
		}
		return strings.Join(terms, " | ")
	}
	return p.fail("cannot render type %T", t)
}

func (p *printer) types(ts []ir.TypeExpr) string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = p.typ(t)
	}
	return strings.Join(out, ", ")
}

func (p *printer) expr(e ir.Expr) string {
	switch e := e.(type) {
	case ir.Ident:
		return e.Name
	case ir.Qualified:
		return p.ident(e.Path, e.Name)
	case ir.Call:
		fun := p.expr(e.Fun)
		if len(e.TypeArgs) > 0 {
			fun += "[" + p.types(e.TypeArgs) + "]"
		}
		return fun + "(" + p.exprs(e.Args) + ")"
	case ir.Method:
		return p.expr(e.Recv) + "." + e.Name + "(" + p.exprs(e.Args) + ")"
	case ir.Conv:
		typ := p.typ(e.Type)
		if strings.HasPrefix(typ, "*") {
			typ = "(" + typ + ")"
		}
		return typ + "(" + p.expr(e.X) + ")"
	case ir.SliceOf:
		return p.expr(e.X) + "[:]"
	case ir.Index:
		return p.expr(e.X) + "[" + strconv.Itoa(e.Index) + "]"
	case ir.FuncLit:
		return "func(" + p.fields(e.Params) + ")" + p.results(e.Results) + " {\n" + p.block(e.Body) + "}"
	case ir.Composite:
		return p.composite(e)
	case ir.KeyValue:
		return e.Key + ": " + p.expr(e.Value)
	case ir.AddressOf:
		return "&" + p.expr(e.X)
	case ir.IntLit:
		return strconv.Itoa(e.Value)
	case ir.StringLit:
		return strconv.Quote(e.Value)
	case ir.BoolLit:
		return strconv.FormatBool(e.Value)
	}
	return p.fail("cannot render expression %T", e)
}

func (p *printer) exprs(es []ir.Expr) string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = p.expr(e)
	}
	return strings.Join(out, ", ")
}

// composite puts long literals one element per line.
func (p *printer) composite(c ir.Composite) string {
	typ := p.typ(c.Type)
	if len(c.Elts) <= 2 {
		return typ + "{" + p.exprs(c.Elts) + "}"
	}
	var b strings.Builder
	b.WriteString(typ + "{\n")
	for _, e := range c.Elts {
		b.WriteString(p.expr(e) + ",\n")
	}
	b.WriteString("}")
	return b.String()
}

func (p *printer) fields(fs []ir.Field) string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = strings.TrimSpace(f.Name + " " + p.typ(f.Type))
	}
	return strings.Join(out, ", ")
}

// results renders unnamed result types as they follow a parameter list.
func (p *printer) results(ts []ir.TypeExpr) string {
	switch len(ts) {
	case 0:
		return ""
	case 1:
		return " " + p.typ(ts[0])
	}
	return " (" + p.types(ts) + ")"
}

func (p *printer) stmt(s ir.Stmt) string {
	switch s := s.(type) {
	case ir.Define:
		return strings.Join(s.Names, ", ") + " := " + p.expr(s.Value)
	case ir.Return:
		if len(s.Values) == 0 {
			return "return"
		}
		return "return " + p.exprs(s.Values)
	case ir.Defer:
		return "defer " + p.expr(s.Call)
	case ir.ExprStmt:
		return p.expr(s.X)
	}
	return p.fail("cannot render statement %T", s)
}

func (p *printer) block(body []ir.Stmt) string {
	var b strings.Builder
	for _, s := range body {
		b.WriteString(p.stmt(s) + "\n")
	}
	return b.String()
}

func (p *printer) doc(text string) {
	if text != "" {
		p.g.P("// ", text)
	}
}

func (p *printer) decl(d ir.Decl) {
	switch d := d.(type) {
	case *ir.FuncDecl:
		p.doc(d.Doc)
		head := "func " + d.Name
		if len(d.TypeParams) > 0 {
			params := make([]string, len(d.TypeParams))
			for i, tp := range d.TypeParams {
				params[i] = tp.Name + " " + p.typ(tp.Constraint)
			}
			head += "[" + strings.Join(params, ", ") + "]"
		}
		head += "(" + p.fields(d.Params) + ")" + p.funcResults(d.Results)
		p.g.P(head, " {")
		p.g.P(p.block(d.Body), "}")
	case *ir.StructDecl:
		p.doc(d.Doc)
		p.g.P("type ", d.Name, " struct {")
		for _, f := range d.Fields {
			p.g.P(f.Name, " ", p.typ(f.Type))
		}
		p.g.P("}")
	case *ir.VarDecl:
		p.doc(d.Doc)
		p.g.P("var ", d.Name, " = ", p.expr(d.Value))
	default:
		p.fail("cannot render declaration %T", d)
	}
}

func (p *printer) funcResults(rs []ir.Field) string {
	if len(rs) == 1 && rs[0].Name == "" {
		return " " + p.typ(rs[0].Type)
	}
	if len(rs) == 0 {
		return ""
	}
	return " (" + p.fields(rs) + ")"
}
