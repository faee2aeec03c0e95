package lib

import (
	"fmt"
	"iter"
	"math/big"
	"reflect"

	"github.com/holiman/uint256"
)

// Integer is every value a generated binding accepts where the ABI declares an
// intN or uintN parameter.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		*big.Int | *uint256.Int
}

// ByteString is accepted where the ABI declares bytes or string.
type ByteString interface {
	~[]byte | ~string
}

// BigInt converts any Integer into a freshly allocated *big.Int. A nil
// pointer converts to zero.
func BigInt[T Integer](v T) *big.Int {
	switch n := any(v).(type) {
	case *big.Int:
		if n == nil {
			return new(big.Int)
		}
		return new(big.Int).Set(n)
	case *uint256.Int:
		if n == nil {
			return new(big.Int)
		}
		return n.ToBig()
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return big.NewInt(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return new(big.Int).SetUint64(rv.Uint())
	}
	panic(fmt.Errorf("unhandled integer type %T", v))
}

// MapSlice applies f to every element of s.
func MapSlice[S ~[]E, E, R any](s S, f func(E) R) []R {
	out := make([]R, len(s))
	for i, e := range s {
		out[i] = f(e)
	}
	return out
}

// MapSeq lazily applies f to the elements of s.
func MapSeq[E, R any](s []E, f func(E) R) iter.Seq[R] {
	return func(yield func(R) bool) {
		for _, e := range s {
			if !yield(f(e)) {
				return
			}
		}
	}
}
