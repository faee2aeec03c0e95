package bindgen

import (
	"fmt"
	"go/token"
	pathpkg "path"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/jshufro/abibind/model"
)

// Names generated code declares or imports itself. A parameter may not
// shadow any of them, nor a Go keyword or predeclared identifier. The runtime
// library's package name is added per Engine.
var reserved = map[string]struct{}{}

func init() {
	for _, words := range []string{
		// keywords
		"break case chan const continue default defer else fallthrough for func go goto if import",
		"interface map package range return select struct switch type var",
		// predeclared
		"any bool byte comparable complex64 complex128 error float32 float64 int int8 int16 int32 int64",
		"rune string uint uint8 uint16 uint32 uint64 uintptr true false iota nil",
		"append cap clear close complex copy delete imag len make max min new panic print println real recover",
		// generated code
		"self opts caller contract bytecode tokens data log err",
		"common big bind types",
	} {
		for _, w := range strings.Fields(words) {
			reserved[w] = struct{}{}
		}
	}
}

// Ident maps the declared name of the parameter at index to a Go identifier.
// Unnamed parameters become param<index>; reserved words and the runtime
// library's package name are escaped with a leading underscore.
func (e *Engine) Ident(name string, index int) string {
	id := decapitalise(abi.ToCamelCase(sanitize(name)))
	if id == "" {
		return fmt.Sprintf("param%d", index)
	}
	if _, ok := reserved[id]; ok || id == e.libName || startsWithDigit(id) {
		return "_" + id
	}
	return id
}

// Idents maps a whole parameter list. Two parameters resolving to the same
// identifier is an error: renaming one of them silently would make the
// generated signature lie about the ABI.
func (e *Engine) Idents(params []model.Param) ([]string, error) {
	out := make([]string, len(params))
	seen := make(map[string]int, len(params))
	for i, p := range params {
		id := e.Ident(p.Name, i)
		if j, ok := seen[id]; ok {
			return nil, fmt.Errorf("parameters %d (%q) and %d (%q) both map to identifier %q", j, params[j].Name, i, p.Name, id)
		}
		seen[id] = i
		out[i] = id
	}
	return out, nil
}

// packageName is the name an import of path is given in generated code.
func packageName(path string) string {
	name := sanitize(pathpkg.Base(path))
	r, _ := utf8.DecodeRuneInString(name)
	if token.Lookup(name).IsKeyword() || !unicode.IsLetter(r) {
		return "_" + name
	}
	return name
}

// FieldName maps a declared name to an exported struct field or function name.
func FieldName(name string, index int) string {
	id := capitalise(abi.ToCamelCase(sanitize(name)))
	if id == "" {
		return fmt.Sprintf("Param%d", index)
	}
	if startsWithDigit(id) {
		return "P" + id
	}
	return id
}

// sanitize replaces every rune Go does not allow in identifiers, such as
// Solidity's `$`, with an underscore.
func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '_'
	}, name)
}

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}

func decapitalise(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

func capitalise(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
