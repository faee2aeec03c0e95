package ir

// Expr is a value expression in generated code.
type Expr interface{ expr() }

type Ident struct{ Name string }

// Qualified is a package-level identifier of another package.
type Qualified struct {
	Path string
	Name string
}

// Call is Fun[TypeArgs](Args...).
type Call struct {
	Fun      Expr
	TypeArgs []TypeExpr
	Args     []Expr
}

// Method is Recv.Name(Args...).
type Method struct {
	Recv Expr
	Name string
	Args []Expr
}

// Conv is the conversion Type(X).
type Conv struct {
	Type TypeExpr
	X    Expr
}

// SliceOf is X[:]. X must be addressable when it is an array.
type SliceOf struct{ X Expr }

type Index struct {
	X     Expr
	Index int
}

// FuncLit is an anonymous function.
type FuncLit struct {
	Params  []Field
	Results []TypeExpr
	Body    []Stmt
}

// Composite is a composite literal. Elements are KeyValue for structs.
type Composite struct {
	Type TypeExpr
	Elts []Expr
}

type KeyValue struct {
	Key   string
	Value Expr
}

// AddressOf is &X.
type AddressOf struct{ X Expr }

type IntLit struct{ Value int }

type StringLit struct{ Value string }

type BoolLit struct{ Value bool }

func (Ident) expr()     {}
func (Qualified) expr() {}
func (Call) expr()      {}
func (Method) expr()    {}
func (Conv) expr()      {}
func (SliceOf) expr()   {}
func (Index) expr()     {}
func (FuncLit) expr()   {}
func (Composite) expr() {}
func (KeyValue) expr()  {}
func (AddressOf) expr() {}
func (IntLit) expr()    {}
func (StringLit) expr() {}
func (BoolLit) expr()   {}

// Stmt is a statement in a function body.
type Stmt interface{ stmt() }

// Define is Names := Value.
type Define struct {
	Names []string
	Value Expr
}

type Return struct{ Values []Expr }

type Defer struct{ Call Expr }

type ExprStmt struct{ X Expr }

func (Define) stmt()   {}
func (Return) stmt()   {}
func (Defer) stmt()    {}
func (ExprStmt) stmt() {}

// Id is a shorthand for Ident{name}.
func Id(name string) Ident { return Ident{Name: name} }

// CallOf calls fun with args.
func CallOf(fun Expr, args ...Expr) Call { return Call{Fun: fun, Args: args} }

// Lambda is a one-parameter function literal returning body.
func Lambda(param string, paramType, result TypeExpr, body Expr) FuncLit {
	return FuncLit{
		Params:  []Field{{Name: param, Type: paramType}},
		Results: []TypeExpr{result},
		Body:    []Stmt{Return{Values: []Expr{body}}},
	}
}
