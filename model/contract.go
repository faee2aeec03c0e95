package model

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"
)

// Param is a single named, typed parameter. Name may be empty.
type Param struct {
	Name    string
	Kind    ParamType
	Indexed bool // Only meaningful for event inputs
}

// TopicKind is the type an indexed event parameter has once it is stored as a
// log topic. Strings, bytes and arrays are replaced by their keccak-256 hash.
func (p Param) TopicKind() ParamType {
	if !p.Indexed {
		return p.Kind
	}
	switch p.Kind.Kind {
	case KindBytes, KindString, KindArray, KindFixedArray:
		return FixedBytes(32)
	}
	return p.Kind
}

// Function is a callable contract member.
type Function struct {
	Name     string
	Inputs   []Param
	Outputs  []Param
	Constant bool
}

// Signature returns the canonical `name(type,...)` form of f.
func (f *Function) Signature() string {
	return signature(f.Name, f.Inputs)
}

// Selector is the 4-byte method id of f.
func (f *Function) Selector() [4]byte {
	var id [4]byte
	copy(id[:], keccak256([]byte(f.Signature())))
	return id
}

// Event is a log entry a contract may emit.
type Event struct {
	Name      string
	Inputs    []Param
	Anonymous bool
}

// Signature returns the canonical `Name(type,...)` form of e.
func (e *Event) Signature() string {
	return signature(e.Name, e.Inputs)
}

// Topic is the hash of the event signature, stored as the first log topic of
// non-anonymous events.
func (e *Event) Topic() common.Hash {
	return common.BytesToHash(keccak256([]byte(e.Signature())))
}

// Constructor holds the deployment arguments of a contract.
type Constructor struct {
	Inputs []Param
}

func (c *Constructor) Signature() string {
	return signature("constructor", c.Inputs)
}

// Contract is the whole interface description.
type Contract struct {
	Constructor *Constructor
	Functions   []Function
	Events      []Event
}

// Validate checks every parameter type of c.
func (c *Contract) Validate() error {
	if c.Constructor != nil {
		if err := validateParams(c.Constructor.Inputs); err != nil {
			return fmt.Errorf("constructor: %w", err)
		}
	}
	for i := range c.Functions {
		f := &c.Functions[i]
		if err := validateParams(f.Inputs); err != nil {
			return fmt.Errorf("function %s inputs: %w", f.Name, err)
		}
		if err := validateParams(f.Outputs); err != nil {
			return fmt.Errorf("function %s outputs: %w", f.Name, err)
		}
	}
	for i := range c.Events {
		e := &c.Events[i]
		if err := validateParams(e.Inputs); err != nil {
			return fmt.Errorf("event %s: %w", e.Name, err)
		}
	}
	return nil
}

func validateParams(params []Param) error {
	for i, p := range params {
		if err := p.Kind.Validate(); err != nil {
			return fmt.Errorf("parameter %d (%q): %w", i, p.Name, err)
		}
	}
	return nil
}

func signature(name string, params []Param) string {
	types := make([]string, len(params))
	for i, p := range params {
		types[i] = p.Kind.String()
	}
	return name + "(" + strings.Join(types, ",") + ")"
}

func keccak256(data []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	return h.Sum(nil)
}
