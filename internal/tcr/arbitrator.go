package tcr

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Arbitrator reads from an arbitrator contract.
type Arbitrator struct {
	c *caller
}

// NewArbitrator binds the arbitrator at address.
func NewArbitrator(address common.Address, reader Reader) *Arbitrator {
	return &Arbitrator{c: &caller{address: address, abi: arbitratorABI, reader: reader}}
}

// Address returns the arbitrator address.
func (a *Arbitrator) Address() common.Address { return a.c.address }

// ArbitrationCost returns the fee to open a dispute. extraData is passed
// through unchanged.
func (a *Arbitrator) ArbitrationCost(ctx context.Context, extraData []byte) (*big.Int, error) {
	if extraData == nil {
		extraData = []byte{}
	}
	return a.c.callBig(ctx, "arbitrationCost", extraData)
}

// Arbitrators prices disputes on any arbitrator reachable through reader.
type Arbitrators struct {
	Reader Reader
}

// ArbitrationCost binds arbitrator and reads its cost.
func (a Arbitrators) ArbitrationCost(ctx context.Context, arbitrator common.Address, extraData []byte) (*big.Int, error) {
	return NewArbitrator(arbitrator, a.Reader).ArbitrationCost(ctx, extraData)
}
