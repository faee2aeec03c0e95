package lib

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
)

// Call is one contract call captured by an Interceptor.
type Call struct {
	Address  *common.Address
	Function *Function // nil when the selector is not registered
	CallData []byte
}

// Args decodes the captured call data.
func (c *Call) Args() ([]Token, error) {
	if c.Function == nil {
		return nil, fmt.Errorf("unknown selector %x", c.CallData[:min(4, len(c.CallData))])
	}
	return c.Function.DecodeInput(c.CallData)
}

// An interceptor lets you call the generated type-safe functions without a live
// backend: the generated code encodes the call data, and the interceptor, posing
// as the bind.ContractCaller, records it and answers with canned return values.
//
// An Interceptor is safe for concurrent use. Intercept sessions run one at a
// time; calls made from any goroutine during a session are recorded in it.
type Interceptor struct {
	// lock serializes Intercept sessions
	lock sync.Mutex
	// mu guards the fields below
	mu sync.Mutex

	functions map[[4]byte]*Function
	replies   map[[4]byte][]byte
	code      []byte

	out *[]*Call
}

func NewInterceptor() *Interceptor {
	return &Interceptor{
		functions: make(map[[4]byte]*Function),
		replies:   make(map[[4]byte][]byte),
		code:      []byte{0x00},
	}
}

// Reply registers the values returned whenever f is called.
func (i *Interceptor) Reply(f *Function, outputs []Token) error {
	data, err := f.EncodeOutput(outputs)
	if err != nil {
		return err
	}
	var id [4]byte
	copy(id[:], f.Selector())

	i.mu.Lock()
	defer i.mu.Unlock()
	i.functions[id] = f
	i.replies[id] = data
	return nil
}

// Register lets the interceptor decode calls to f without replying to them.
func (i *Interceptor) Register(f *Function) {
	var id [4]byte
	copy(id[:], f.Selector())

	i.mu.Lock()
	defer i.mu.Unlock()
	i.functions[id] = f
}

func (i *Interceptor) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.out == nil {
		return nil, fmt.Errorf("invalid operation- calls must only be made in Intercept()'s callback")
	}
	if len(call.Data) < 4 {
		return nil, fmt.Errorf("call data too short: %d bytes", len(call.Data))
	}

	var id [4]byte
	copy(id[:], call.Data)

	out := new(Call)
	out.Address = call.To
	out.Function = i.functions[id]
	out.CallData = call.Data
	*i.out = append(*i.out, out)

	return i.replies[id], nil
}

func (i *Interceptor) CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error) {
	return i.code, nil
}

// Intercept records every call cb makes through the interceptor into out.
func (i *Interceptor) Intercept(out *[]*Call, cb func() error) error {
	i.lock.Lock()
	defer i.lock.Unlock()

	i.setOut(out)
	defer i.setOut(nil)
	return cb()
}

func (i *Interceptor) setOut(out *[]*Call) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.out = out
}
