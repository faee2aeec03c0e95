package main

import (
	"fmt"
	"go/token"
	"strings"
)

// In-memory representation of a single file to generate
type config struct {
	ABI         string // Path of the JSON ABI to read
	TypeName    string // Exported name prefixing every generated declaration
	Package     string // Package clause of the generated file, defaults to the lower-cased type name
	Out         string // Output path, stdout when empty or "-"
	Lib         string // Import path of the runtime library
	Parallelism int
	LogLevel    string
}

func (c *config) validate() error {
	if c.ABI == "" {
		return fmt.Errorf("an abi file must be provided with --abi")
	}
	if c.TypeName == "" {
		return fmt.Errorf("a type name must be provided with --type")
	}
	if !token.IsIdentifier(c.TypeName) || !token.IsExported(c.TypeName) {
		return fmt.Errorf("type name '%s' must be an exported Go identifier", c.TypeName)
	}
	if c.Package == "" {
		c.Package = strings.ToLower(c.TypeName)
	}
	if !token.IsIdentifier(c.Package) {
		return fmt.Errorf("package name '%s' is not a valid Go identifier", c.Package)
	}
	if c.Parallelism < 0 {
		return fmt.Errorf("parallelism must not be negative, got %d", c.Parallelism)
	}
	return nil
}

func (c *config) stdout() bool {
	return c.Out == "" || c.Out == "-"
}
