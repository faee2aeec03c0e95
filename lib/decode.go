package lib

import (
	"fmt"
	"iter"
)

// DecodeError reports decoded data that disagrees with the declared
// interface: a token of the wrong kind, or the wrong number of values.
type DecodeError struct {
	Want Kind
	Got  Kind
	Msg  string
}

func (e *DecodeError) Error() string {
	if e.Msg != "" {
		return "abi decode: " + e.Msg
	}
	return fmt.Sprintf("abi decode: expected %s token, got %s", e.Want, e.Got)
}

// failure carries an error through a panic up to CatchDecode.
type failure struct {
	err error
}

func fail(err error) {
	panic(failure{err})
}

func faultf(format string, args ...interface{}) {
	fail(&DecodeError{Msg: fmt.Sprintf(format, args...)})
}

// Expect returns v, or aborts the enclosing decode with err.
// It must only be used below a deferred CatchDecode.
func Expect[T any](v T, err error) T {
	if err != nil {
		fail(err)
	}
	return v
}

// ExpectFixedBytes extracts the payload of a fixed bytes token and checks
// that it holds exactly size bytes.
func ExpectFixedBytes(t Token, size int) []byte {
	b := Expect(t.ToFixedBytes())
	if len(b) != size {
		faultf("expected %d fixed bytes, got %d", size, len(b))
	}
	return b
}

// ExpectLen aborts the enclosing decode unless exactly n tokens are present.
func ExpectLen(tokens []Token, n int) {
	if len(tokens) != n {
		faultf("expected %d tokens, got %d", n, len(tokens))
	}
}

// TakeN pulls exactly n values from seq. A sequence shorter than n aborts
// the enclosing decode; values past n are never pulled.
func TakeN[T any](seq iter.Seq[T], n int) []T {
	out := make([]T, 0, n)
	if n == 0 {
		return out
	}
	for v := range seq {
		out = append(out, v)
		if len(out) == n {
			return out
		}
	}
	faultf("fixed array: expected %d elements, got %d", n, len(out))
	return nil
}

// CatchDecode turns an abort raised by Expect and friends back into an error
// stored in *err. Any other panic is propagated.
//
//	func Decode(tokens []Token) (_ bool, err error) {
//		defer CatchDecode(&err)
//		...
//	}
func CatchDecode(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if f, ok := r.(failure); ok {
		*err = f.err
		return
	}
	panic(r)
}
