package contract

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/Mohsinsiddi/w3dash/internal/chain"
)

// Caller calls read-only functions on one contract.
type Caller struct {
	reader  chain.Reader
	abi     abi.ABI
	address common.Address
}

// NewCaller binds an ABI to a contract address.
func NewCaller(r chain.Reader, parsed abi.ABI, address common.Address) *Caller {
	return &Caller{reader: r, abi: parsed, address: address}
}

// Address returns the bound contract address.
func (c *Caller) Address() common.Address { return c.address }

// Call packs method(args...), executes eth_call and unpacks the outputs.
func (c *Caller) Call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", method, err)
	}
	raw, err := c.reader.ReadCall(ctx, c.address, data)
	if err != nil {
		return nil, fmt.Errorf("%s call failed: %w", method, err)
	}
	out, err := c.abi.Unpack(method, raw)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", method, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("decoding %s: no outputs", method)
	}
	return out, nil
}

// Pack returns calldata for a write function.
func (c *Caller) Pack(method string, args ...interface{}) ([]byte, error) {
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", method, err)
	}
	return data, nil
}

// callOne calls a single-output method and asserts the result type.
func callOne[T any](ctx context.Context, c *Caller, method string, args ...interface{}) (T, error) {
	var zero T
	out, err := c.Call(ctx, method, args...)
	if err != nil {
		return zero, err
	}
	v, ok := out[0].(T)
	if !ok {
		return zero, fmt.Errorf("decoding %s: unexpected type %T", method, out[0])
	}
	return v, nil
}
