package lib

import (
	"math/big"
	"slices"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenExtract(t *testing.T) {
	addr := common.HexToAddress("0x1d8f8f00cfa6758d7bE78336684788Fb0ee0Fa46")

	a, err := AddressToken(addr).ToAddress()
	require.NoError(t, err)
	assert.Equal(t, addr, a)

	n, err := UintToken(big.NewInt(7)).ToUint()
	require.NoError(t, err)
	assert.Equal(t, int64(7), n.Int64())

	elems, err := FixedArrayToken([]Token{BoolToken(true)}).ToArray()
	require.NoError(t, err)
	assert.Len(t, elems, 1)

	_, err = BoolToken(true).ToString()
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, StringKind, de.Want)
	assert.Equal(t, BoolKind, de.Got)

	_, err = IntToken(big.NewInt(1)).ToUint()
	assert.Error(t, err)
	_, err = BytesToken(nil).ToFixedBytes()
	assert.Error(t, err)
}

func TestTokenEqual(t *testing.T) {
	a := ArrayToken([]Token{UintToken(big.NewInt(1)), UintToken(big.NewInt(2))})
	b := ArrayToken([]Token{UintToken(big.NewInt(1)), UintToken(big.NewInt(2))})
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(FixedArrayToken(b.elems)))
	assert.False(t, a.Equal(ArrayToken(b.elems[:1])))
	assert.Equal(t, "[1,2]", a.String())
}

func TestBigInt(t *testing.T) {
	type amount uint16

	assert.Equal(t, "-5", BigInt(int8(-5)).String())
	assert.Equal(t, "65535", BigInt(amount(65535)).String())
	assert.Equal(t, "18446744073709551615", BigInt(uint64(1<<64-1)).String())
	assert.Equal(t, "42", BigInt(uint256.NewInt(42)).String())
	assert.Equal(t, "0", BigInt((*big.Int)(nil)).String())

	orig := big.NewInt(9)
	cp := BigInt(orig)
	cp.SetInt64(10)
	assert.Equal(t, int64(9), orig.Int64(), "BigInt must copy")
}

func TestMapSeqIsLazy(t *testing.T) {
	calls := 0
	seq := MapSeq([]int{1, 2, 3, 4}, func(v int) int {
		calls++
		return v * 2
	})
	var got []int
	func() {
		var err error
		defer CatchDecode(&err)
		got = TakeN(seq, 2)
	}()
	assert.Equal(t, []int{2, 4}, got)
	assert.Equal(t, 2, calls)
	assert.Equal(t, []int{2, 4, 6, 8}, slices.Collect(seq))
}
