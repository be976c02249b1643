// Package deposit computes the deposits the registry asks for: a base deposit
// set by the registry plus the arbitrator's arbitration cost.
package deposit

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/Mohsinsiddi/lcurate/internal/config"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// ErrInvalidArbitrator is returned when the registry reports the zero address
// as its arbitrator.
var ErrInvalidArbitrator = errors.New("invalid arbitrator address")

// Kind selects which base deposit applies.
type Kind int

const (
	Submission Kind = iota
	SubmissionChallenge
	Removal
	RemovalChallenge
)

// Kinds lists every deposit kind in display order.
var Kinds = []Kind{Submission, SubmissionChallenge, Removal, RemovalChallenge}

func (k Kind) String() string {
	switch k {
	case Submission:
		return "Submission"
	case SubmissionChallenge:
		return "Submission challenge"
	case Removal:
		return "Removal"
	case RemovalChallenge:
		return "Removal challenge"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Breakdown is a computed deposit. Amounts are in wei.
type Breakdown struct {
	Kind            Kind
	BaseDeposit     *big.Int
	ArbitrationCost *big.Int
	Total           *big.Int
	ChallengePeriod time.Duration
}

// Compute adds the base deposit and arbitration cost. Nil amounts count as 0.
func Compute(base, cost *big.Int) Breakdown {
	if base == nil {
		base = new(big.Int)
	}
	if cost == nil {
		cost = new(big.Int)
	}
	return Breakdown{
		BaseDeposit:     new(big.Int).Set(base),
		ArbitrationCost: new(big.Int).Set(cost),
		Total:           new(big.Int).Add(base, cost),
	}
}

// Format renders wei as ether with config.DisplayPrecision fixed decimals.
// The conversion is an exact decimal shift; rounding only happens at the
// last displayed place.
func Format(wei *big.Int) string {
	if wei == nil {
		wei = new(big.Int)
	}
	return decimal.NewFromBigInt(wei, -18).StringFixed(config.DisplayPrecision)
}

// FormatExact renders wei as ether without rounding.
func FormatExact(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	return decimal.NewFromBigInt(wei, -18).String()
}

// ChallengePeriodDays returns the challenge period in whole days, rounded up.
func (b Breakdown) ChallengePeriodDays() int {
	day := 24 * time.Hour
	return int((b.ChallengePeriod + day - 1) / day)
}

// --- calculator ---

// Source reads the registry parameters a deposit depends on.
type Source interface {
	BaseDeposit(ctx context.Context, k Kind) (*big.Int, error)
	Arbitrator(ctx context.Context) (common.Address, error)
	ArbitratorExtraData(ctx context.Context) ([]byte, error)
	ChallengePeriodDuration(ctx context.Context) (time.Duration, error)
}

// Arbitration prices a dispute on a given arbitrator.
type Arbitration interface {
	ArbitrationCost(ctx context.Context, arbitrator common.Address, extraData []byte) (*big.Int, error)
}

// Calculator gathers the inputs of a deposit and computes it.
type Calculator struct {
	src Source
	arb Arbitration
}

// NewCalculator creates a Calculator.
func NewCalculator(src Source, arb Arbitration) *Calculator {
	return &Calculator{src: src, arb: arb}
}

// Deposit computes the deposit of kind k.
func (c *Calculator) Deposit(ctx context.Context, k Kind) (*Breakdown, error) {
	cost, period, err := c.arbitration(ctx)
	if err != nil {
		return nil, err
	}
	return c.withBase(ctx, k, cost, period)
}

// All computes every deposit kind, reading the arbitrator once.
func (c *Calculator) All(ctx context.Context) ([]Breakdown, error) {
	cost, period, err := c.arbitration(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Breakdown, 0, len(Kinds))
	for _, k := range Kinds {
		b, err := c.withBase(ctx, k, cost, period)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, nil
}

func (c *Calculator) arbitration(ctx context.Context) (*big.Int, time.Duration, error) {
	arbitrator, err := c.src.Arbitrator(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("reading arbitrator: %w", err)
	}
	if arbitrator == (common.Address{}) {
		return nil, 0, ErrInvalidArbitrator
	}
	extra, err := c.src.ArbitratorExtraData(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("reading arbitrator extra data: %w", err)
	}
	cost, err := c.arb.ArbitrationCost(ctx, arbitrator, extra)
	if err != nil {
		return nil, 0, fmt.Errorf("reading arbitration cost: %w", err)
	}
	period, err := c.src.ChallengePeriodDuration(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("reading challenge period: %w", err)
	}
	return cost, period, nil
}

func (c *Calculator) withBase(ctx context.Context, k Kind, cost *big.Int, period time.Duration) (*Breakdown, error) {
	base, err := c.src.BaseDeposit(ctx, k)
	if err != nil {
		return nil, fmt.Errorf("reading %s base deposit: %w", k, err)
	}
	b := Compute(base, cost)
	b.Kind = k
	b.ChallengePeriod = period
	return &b, nil
}
