package lib

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

// Call executes f against the contract at address through caller and
// decodes the returned data.
func (f *Function) Call(opts *bind.CallOpts, caller bind.ContractCaller, address common.Address, args []Token) ([]Token, error) {
	if opts == nil {
		opts = new(bind.CallOpts)
	}
	input, err := f.EncodeInput(args)
	if err != nil {
		return nil, err
	}

	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	msg := ethereum.CallMsg{From: opts.From, To: &address, Data: input}

	var output []byte
	if opts.Pending {
		pc, ok := caller.(bind.PendingContractCaller)
		if !ok {
			return nil, bind.ErrNoPendingState
		}
		output, err = pc.PendingCallContract(ctx, msg)
	} else {
		output, err = caller.CallContract(ctx, msg, opts.BlockNumber)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.method.Sig, err)
	}

	// An empty reply to a function with outputs usually means there is no contract
	if len(output) == 0 && len(f.method.Outputs) > 0 {
		code, err := caller.CodeAt(ctx, address, opts.BlockNumber)
		if err != nil {
			return nil, err
		}
		if len(code) == 0 {
			return nil, bind.ErrNoCode
		}
	}
	return f.DecodeOutput(output)
}
