package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Fees holds the fee caps used to build a transaction.
type Fees struct {
	TipCap  *big.Int // max priority fee per gas (wei)
	FeeCap  *big.Int // max fee per gas (wei)
	BaseFee *big.Int // nil on pre-EIP-1559 chains
}

// MaxCost returns the worst-case fee for gas units.
func (f *Fees) MaxCost(gas uint64) *big.Int {
	return new(big.Int).Mul(f.FeeCap, new(big.Int).SetUint64(gas))
}

// GasPrice returns the current legacy gas price.
func (c *EVMClient) GasPrice(ctx context.Context) (*big.Int, error) {
	return c.callBig(ctx, "eth_gasPrice")
}

// MaxPriorityFee returns the node's suggested priority fee.
func (c *EVMClient) MaxPriorityFee(ctx context.Context) (*big.Int, error) {
	return c.callBig(ctx, "eth_maxPriorityFeePerGas")
}

// BaseFee returns the base fee of the latest block, or nil on legacy chains.
func (c *EVMClient) BaseFee(ctx context.Context) (*big.Int, error) {
	var header *struct {
		BaseFeePerGas *hexutil.Big `json:"baseFeePerGas"`
	}
	if err := c.callInto(ctx, &header, "eth_getBlockByNumber", "latest", false); err != nil {
		return nil, err
	}
	if header == nil {
		return nil, fmt.Errorf("latest block not found")
	}
	if header.BaseFeePerGas == nil {
		return nil, nil
	}
	return header.BaseFeePerGas.ToInt(), nil
}

// SuggestFees derives EIP-1559 fee caps: tip from eth_maxPriorityFeePerGas
// (falling back to eth_gasPrice on nodes without it) and cap = 2*baseFee + tip.
// Legacy chains get tip == cap == gasPrice.
func (c *EVMClient) SuggestFees(ctx context.Context) (*Fees, error) {
	baseFee, err := c.BaseFee(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting base fee: %w", err)
	}

	if baseFee == nil {
		gp, err := c.GasPrice(ctx)
		if err != nil {
			return nil, fmt.Errorf("getting gas price: %w", err)
		}
		return &Fees{TipCap: gp, FeeCap: gp}, nil
	}

	tip, err := c.MaxPriorityFee(ctx)
	if err != nil {
		var rpcErr *RPCError
		if !errors.As(err, &rpcErr) {
			return nil, fmt.Errorf("getting priority fee: %w", err)
		}
		if tip, err = c.GasPrice(ctx); err != nil {
			return nil, fmt.Errorf("getting gas price: %w", err)
		}
	}

	feeCap := new(big.Int).Mul(baseFee, big.NewInt(2))
	feeCap.Add(feeCap, tip)
	return &Fees{TipCap: tip, FeeCap: feeCap, BaseFee: baseFee}, nil
}

// WeiToGwei converts a Wei value to Gwei as float64.
func WeiToGwei(wei *big.Int) float64 {
	if wei == nil {
		return 0
	}
	f, _ := new(big.Float).Quo(
		new(big.Float).SetInt(wei),
		new(big.Float).SetFloat64(1e9),
	).Float64()
	return f
}
