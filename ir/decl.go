package ir

// Decl is a top-level declaration.
type Decl interface {
	DeclName() string
}

// FuncDecl is a package-level function. Results may be named; a result with
// an empty name is unnamed.
type FuncDecl struct {
	Doc        string
	Name       string
	TypeParams []TypeParam
	Params     []Field
	Results    []Field
	Body       []Stmt
}

type StructDecl struct {
	Doc    string
	Name   string
	Fields []Field
}

type VarDecl struct {
	Doc   string
	Name  string
	Value Expr
}

func (d *FuncDecl) DeclName() string   { return d.Name }
func (d *StructDecl) DeclName() string { return d.Name }
func (d *VarDecl) DeclName() string    { return d.Name }

// TypeArgs lists d's type parameters as arguments, for forwarding calls.
func (d *FuncDecl) TypeArgs() []TypeExpr {
	out := make([]TypeExpr, len(d.TypeParams))
	for i, tp := range d.TypeParams {
		out[i] = TypeParamRef{Name: tp.Name}
	}
	return out
}

// File is one generated source file.
type File struct {
	Name    string
	Package string
	Decls   []Decl
}
