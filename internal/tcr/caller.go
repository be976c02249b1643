package tcr

import (
	"context"
	"fmt"
	"math/big"

	"github.com/Mohsinsiddi/lcurate/internal/chain"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Reader executes read-only calls against the chain.
type Reader interface {
	Call(ctx context.Context, msg chain.CallMsg) ([]byte, error)
}

// caller binds an ABI to a contract address for view calls.
type caller struct {
	address common.Address
	abi     abi.ABI
	reader  Reader
}

func (c *caller) pack(method string, args ...any) ([]byte, error) {
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", method, err)
	}
	return data, nil
}

// call runs a view function and returns the raw return data.
func (c *caller) call(ctx context.Context, method string, args ...any) ([]byte, error) {
	data, err := c.pack(method, args...)
	if err != nil {
		return nil, err
	}
	out, err := c.reader.Call(ctx, chain.CallMsg{To: c.address, Data: data})
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", method, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("calling %s: empty result (is %s a contract?)", method, c.address.Hex())
	}
	return out, nil
}

// callInto decodes a multi-value return into out, matching output names to
// struct fields.
func (c *caller) callInto(ctx context.Context, out any, method string, args ...any) error {
	raw, err := c.call(ctx, method, args...)
	if err != nil {
		return err
	}
	if err := c.abi.UnpackIntoInterface(out, method, raw); err != nil {
		return fmt.Errorf("decoding %s: %w", method, err)
	}
	return nil
}

// callSingle returns the one return value of method.
func (c *caller) callSingle(ctx context.Context, method string, args ...any) (any, error) {
	raw, err := c.call(ctx, method, args...)
	if err != nil {
		return nil, err
	}
	vals, err := c.abi.Unpack(method, raw)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", method, err)
	}
	if len(vals) != 1 {
		return nil, fmt.Errorf("decoding %s: expected 1 value, got %d", method, len(vals))
	}
	return vals[0], nil
}

func (c *caller) callBig(ctx context.Context, method string, args ...any) (*big.Int, error) {
	v, err := c.callSingle(ctx, method, args...)
	if err != nil {
		return nil, err
	}
	n, ok := v.(*big.Int)
	if !ok {
		return nil, fmt.Errorf("decoding %s: unexpected type %T", method, v)
	}
	return n, nil
}
