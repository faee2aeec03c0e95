package lib

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFunctionSelector(t *testing.T) {
	f := MustFunction("transfer", []string{"address", "uint256"}, []string{"bool"})
	assert.Equal(t, "a9059cbb", hex.EncodeToString(f.Selector()))
	assert.Equal(t, "transfer(address,uint256)", f.Signature())
	assert.Equal(t, "transfer", f.Name())
}

func TestMustFunctionPanicsOnBadType(t *testing.T) {
	assert.Panics(t, func() { MustFunction("f", []string{"foo"}, nil) })
	assert.Panics(t, func() { MustFunction("f", nil, []string{"uint256["}) })
}

func TestPackRoundTrip(t *testing.T) {
	types := []string{"address", "bytes", "bytes32", "bytes4", "int8", "int256", "uint16", "uint256", "bool", "string", "uint8[][]", "bool[2][3]", "string[]"}
	values := []Token{
		AddressToken(common.HexToAddress("0xac2245BE4C2C1E9752499Bcd34861B761d62fC27")),
		BytesToken([]byte{0xde, 0xad}),
		FixedBytesToken(common.HexToHash("0x01").Bytes()),
		FixedBytesToken([]byte{1, 2, 3, 4}),
		IntToken(big.NewInt(-3)),
		IntToken(new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 200))),
		UintToken(big.NewInt(65535)),
		UintToken(new(big.Int).Lsh(big.NewInt(1), 255)),
		BoolToken(true),
		StringToken("hello"),
		ArrayToken([]Token{
			ArrayToken([]Token{UintToken(big.NewInt(1)), UintToken(big.NewInt(2))}),
			ArrayToken(nil),
		}),
		FixedArrayToken([]Token{
			FixedArrayToken([]Token{BoolToken(true), BoolToken(false)}),
			FixedArrayToken([]Token{BoolToken(false), BoolToken(false)}),
			FixedArrayToken([]Token{BoolToken(true), BoolToken(true)}),
		}),
		ArrayToken([]Token{StringToken("a"), StringToken("")}),
	}

	f := MustFunction("everything", types, types)

	input, err := f.EncodeInput(values)
	require.NoError(t, err)
	args, err := f.DecodeInput(input)
	require.NoError(t, err)

	output, err := f.EncodeOutput(values)
	require.NoError(t, err)
	results, err := f.DecodeOutput(output)
	require.NoError(t, err)

	require.Len(t, args, len(values))
	require.Len(t, results, len(values))
	for i := range values {
		assert.True(t, values[i].Equal(args[i]), "input %d (%s): %s != %s", i, types[i], values[i], args[i])
		assert.True(t, values[i].Equal(results[i]), "output %d (%s): %s != %s", i, types[i], values[i], results[i])
	}
}

func TestPackErrors(t *testing.T) {
	f := MustFunction("f", []string{"uint8", "bytes4", "bool[2]"}, nil)

	tests := []struct {
		name string
		args []Token
	}{
		{"count", []Token{UintToken(big.NewInt(1))}},
		{"overflow", []Token{UintToken(big.NewInt(256)), FixedBytesToken(make([]byte, 4)), FixedArrayToken([]Token{BoolToken(true), BoolToken(true)})}},
		{"kind", []Token{IntToken(big.NewInt(1)), FixedBytesToken(make([]byte, 4)), FixedArrayToken([]Token{BoolToken(true), BoolToken(true)})}},
		{"fixed bytes length", []Token{UintToken(big.NewInt(1)), FixedBytesToken(make([]byte, 3)), FixedArrayToken([]Token{BoolToken(true), BoolToken(true)})}},
		{"fixed array length", []Token{UintToken(big.NewInt(1)), FixedBytesToken(make([]byte, 4)), FixedArrayToken([]Token{BoolToken(true)})}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.EncodeInput(tt.args)
			assert.Error(t, err)
		})
	}
}

func TestPackIntegerRange(t *testing.T) {
	pow := func(n uint) *big.Int { return new(big.Int).Lsh(big.NewInt(1), n) }
	minus := func(n *big.Int) *big.Int { return new(big.Int).Neg(n) }
	dec := func(n *big.Int) *big.Int { return new(big.Int).Sub(n, big.NewInt(1)) }

	tests := []struct {
		typ string
		tok Token
		ok  bool
	}{
		{"uint8", UintToken(big.NewInt(255)), true},
		{"uint8", UintToken(big.NewInt(256)), false},
		{"uint24", UintToken(dec(pow(24))), true},
		{"uint24", UintToken(pow(30)), false},
		{"uint24", UintToken(big.NewInt(-1)), false},
		{"uint256", UintToken(dec(pow(256))), true},
		{"uint256", UintToken(pow(256)), false},
		{"uint256", UintToken(big.NewInt(-1)), false},
		{"int8", IntToken(big.NewInt(-128)), true},
		{"int8", IntToken(big.NewInt(-129)), false},
		{"int24", IntToken(minus(pow(23))), true},
		{"int24", IntToken(dec(minus(pow(23)))), false},
		{"int24", IntToken(dec(pow(23))), true},
		{"int24", IntToken(pow(23)), false},
		{"int256", IntToken(minus(pow(255))), true},
		{"int256", IntToken(pow(255)), false},
	}
	for _, tt := range tests {
		t.Run(tt.typ+" "+tt.tok.String(), func(t *testing.T) {
			f := MustFunction("f", []string{tt.typ}, nil)
			_, err := f.EncodeInput([]Token{tt.tok})
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, "out of range")
			}
		})
	}
}

func TestDecodeInputWrongSelector(t *testing.T) {
	f := MustFunction("f", nil, nil)
	_, err := f.DecodeInput([]byte{1, 2, 3, 4})
	assert.Error(t, err)
}

func TestConstructorEncode(t *testing.T) {
	c := MustConstructor([]string{"uint256"})
	code := []byte{0x60, 0x80}
	data, err := c.Encode(code, []Token{UintToken(big.NewInt(1))})
	require.NoError(t, err)
	require.Len(t, data, 2+32)
	assert.Equal(t, code, data[:2])
	assert.Equal(t, byte(1), data[33])
	assert.Equal(t, []byte{0x60, 0x80}, code, "bytecode must not be modified")
}
