package lib

import (
	"bytes"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Kind is the runtime tag of a Token.
type Kind uint8

const (
	AddressKind Kind = iota
	BytesKind
	FixedBytesKind
	IntKind
	UintKind
	BoolKind
	StringKind
	ArrayKind
	FixedArrayKind
)

func (k Kind) String() string {
	switch k {
	case AddressKind:
		return "address"
	case BytesKind:
		return "bytes"
	case FixedBytesKind:
		return "fixed bytes"
	case IntKind:
		return "int"
	case UintKind:
		return "uint"
	case BoolKind:
		return "bool"
	case StringKind:
		return "string"
	case ArrayKind:
		return "array"
	case FixedArrayKind:
		return "fixed array"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Token is a single ABI value in its generic, tagged form. Generated bindings
// build tokens from native values and read them back with the To* methods.
type Token struct {
	kind  Kind
	addr  common.Address
	data  []byte
	num   *big.Int
	flag  bool
	text  string
	elems []Token
}

func AddressToken(a common.Address) Token { return Token{kind: AddressKind, addr: a} }
func BytesToken(b []byte) Token           { return Token{kind: BytesKind, data: b} }
func FixedBytesToken(b []byte) Token      { return Token{kind: FixedBytesKind, data: b} }
func IntToken(n *big.Int) Token           { return Token{kind: IntKind, num: n} }
func UintToken(n *big.Int) Token          { return Token{kind: UintKind, num: n} }
func BoolToken(b bool) Token              { return Token{kind: BoolKind, flag: b} }
func StringToken(s string) Token          { return Token{kind: StringKind, text: s} }
func ArrayToken(elems []Token) Token      { return Token{kind: ArrayKind, elems: elems} }
func FixedArrayToken(elems []Token) Token { return Token{kind: FixedArrayKind, elems: elems} }

// Kind returns the tag of t.
func (t Token) Kind() Kind { return t.kind }

func (t Token) mismatch(want Kind) error {
	return &DecodeError{Want: want, Got: t.kind}
}

func (t Token) ToAddress() (common.Address, error) {
	if t.kind != AddressKind {
		return common.Address{}, t.mismatch(AddressKind)
	}
	return t.addr, nil
}

func (t Token) ToBytes() ([]byte, error) {
	if t.kind != BytesKind {
		return nil, t.mismatch(BytesKind)
	}
	return t.data, nil
}

func (t Token) ToFixedBytes() ([]byte, error) {
	if t.kind != FixedBytesKind {
		return nil, t.mismatch(FixedBytesKind)
	}
	return t.data, nil
}

func (t Token) ToInt() (*big.Int, error) {
	if t.kind != IntKind {
		return nil, t.mismatch(IntKind)
	}
	return t.num, nil
}

func (t Token) ToUint() (*big.Int, error) {
	if t.kind != UintKind {
		return nil, t.mismatch(UintKind)
	}
	return t.num, nil
}

func (t Token) ToBool() (bool, error) {
	if t.kind != BoolKind {
		return false, t.mismatch(BoolKind)
	}
	return t.flag, nil
}

func (t Token) ToString() (string, error) {
	if t.kind != StringKind {
		return "", t.mismatch(StringKind)
	}
	return t.text, nil
}

// ToArray returns the elements of an Array or FixedArray token.
func (t Token) ToArray() ([]Token, error) {
	if t.kind != ArrayKind && t.kind != FixedArrayKind {
		return nil, t.mismatch(ArrayKind)
	}
	return t.elems, nil
}

// Equal reports whether t and o carry the same tag and value.
func (t Token) Equal(o Token) bool {
	if t.kind != o.kind {
		return false
	}
	switch t.kind {
	case AddressKind:
		return t.addr == o.addr
	case BytesKind, FixedBytesKind:
		return bytes.Equal(t.data, o.data)
	case IntKind, UintKind:
		if t.num == nil || o.num == nil {
			return t.num == o.num
		}
		return t.num.Cmp(o.num) == 0
	case BoolKind:
		return t.flag == o.flag
	case StringKind:
		return t.text == o.text
	case ArrayKind, FixedArrayKind:
		if len(t.elems) != len(o.elems) {
			return false
		}
		for i := range t.elems {
			if !t.elems[i].Equal(o.elems[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func (t Token) String() string {
	switch t.kind {
	case AddressKind:
		return t.addr.Hex()
	case BytesKind, FixedBytesKind:
		return fmt.Sprintf("0x%x", t.data)
	case IntKind, UintKind:
		return fmt.Sprint(t.num)
	case BoolKind:
		return fmt.Sprint(t.flag)
	case StringKind:
		return fmt.Sprintf("%q", t.text)
	case ArrayKind, FixedArrayKind:
		parts := make([]string, len(t.elems))
		for i, e := range t.elems {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ",") + "]"
	}
	return t.kind.String()
}
