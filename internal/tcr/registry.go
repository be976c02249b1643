// Package tcr is a client for a Light Generalized TCR registry contract and
// the arbitrator it defers disputes to.
package tcr

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/Mohsinsiddi/lcurate/internal/chain"
	"github.com/Mohsinsiddi/lcurate/internal/config"
	"github.com/Mohsinsiddi/lcurate/internal/deposit"
	"github.com/Mohsinsiddi/lcurate/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"
)

// Errors.
var (
	ErrInsufficientFunds  = errors.New("insufficient funds for deposit and gas")
	ErrNothingToChallenge = errors.New("item has no pending request to challenge")
	ErrAlreadyChallenged  = errors.New("request is already disputed")
	ErrNoRequests         = errors.New("item has no requests")
)

// Node is the chain access the registry client needs.
type Node interface {
	Reader
	Balance(ctx context.Context, addr common.Address) (*big.Int, error)
	EstimateGas(ctx context.Context, msg chain.CallMsg) (uint64, error)
	SuggestFees(ctx context.Context) (*chain.Fees, error)
	WaitForReceipt(ctx context.Context, hash string, interval time.Duration) (*chain.TxReceipt, error)
}

// Wallet is the account that pays for and signs writes. *wallet.Adapter
// satisfies it.
type Wallet interface {
	CurrentAccount(ctx context.Context) string
	SendTransaction(ctx context.Context, req wallet.TxRequest) (string, error)
}

// ItemInfo is the result of getItemInfo.
type ItemInfo struct {
	Status           Status
	NumberOfRequests *big.Int
	SumDeposit       *big.Int
}

// RequestInfo is the result of getRequestInfo.
type RequestInfo struct {
	Disputed                   bool
	DisputeID                  *big.Int
	SubmissionTime             time.Time
	Resolved                   bool
	Parties                    [3]common.Address // none, requester, challenger
	NumberOfRounds             *big.Int
	Ruling                     Party
	RequestArbitrator          common.Address
	RequestArbitratorExtraData []byte
	MetaEvidenceID             *big.Int
}

// Requester returns the address that made the request.
func (r *RequestInfo) Requester() common.Address { return r.Parties[PartyRequester] }

// Challenger returns the challenger, or the zero address if unchallenged.
func (r *RequestInfo) Challenger() common.Address { return r.Parties[PartyChallenger] }

// Tx describes a write sent through the wallet.
type Tx struct {
	Hash    string
	From    string
	Method  string
	Gas     uint64
	Deposit *deposit.Breakdown
}

// Registry reads from and writes to a registry contract.
type Registry struct {
	c        *caller
	node     Node
	wallet   Wallet
	deposits *deposit.Calculator
	poll     time.Duration
	log      *zap.Logger
}

var _ deposit.Source = (*Registry)(nil)

// Option configures a Registry.
type Option func(*Registry)

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) { r.log = l.Named("registry") }
}

// WithPollInterval sets how often WaitMined polls for a receipt.
func WithPollInterval(d time.Duration) Option {
	return func(r *Registry) { r.poll = d }
}

// NewRegistry binds the registry at address. w may be nil for read-only use.
func NewRegistry(address common.Address, node Node, w Wallet, opts ...Option) *Registry {
	r := &Registry{
		c:      &caller{address: address, abi: registryABI, reader: node},
		node:   node,
		wallet: w,
		poll:   config.ReceiptPollInterval,
		log:    zap.NewNop(),
	}
	r.deposits = deposit.NewCalculator(r, Arbitrators{Reader: node})
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Address returns the registry address.
func (r *Registry) Address() common.Address { return r.c.address }

// Deposits returns the calculator reading this registry.
func (r *Registry) Deposits() *deposit.Calculator { return r.deposits }

// --- reads ---

func (r *Registry) SubmissionBaseDeposit(ctx context.Context) (*big.Int, error) {
	return r.c.callBig(ctx, "submissionBaseDeposit")
}

func (r *Registry) RemovalBaseDeposit(ctx context.Context) (*big.Int, error) {
	return r.c.callBig(ctx, "removalBaseDeposit")
}

func (r *Registry) SubmissionChallengeBaseDeposit(ctx context.Context) (*big.Int, error) {
	return r.c.callBig(ctx, "submissionChallengeBaseDeposit")
}

func (r *Registry) RemovalChallengeBaseDeposit(ctx context.Context) (*big.Int, error) {
	return r.c.callBig(ctx, "removalChallengeBaseDeposit")
}

// BaseDeposit returns the base deposit for kind k.
func (r *Registry) BaseDeposit(ctx context.Context, k deposit.Kind) (*big.Int, error) {
	switch k {
	case deposit.Submission:
		return r.SubmissionBaseDeposit(ctx)
	case deposit.SubmissionChallenge:
		return r.SubmissionChallengeBaseDeposit(ctx)
	case deposit.Removal:
		return r.RemovalBaseDeposit(ctx)
	case deposit.RemovalChallenge:
		return r.RemovalChallengeBaseDeposit(ctx)
	}
	return nil, fmt.Errorf("unknown deposit kind %d", int(k))
}

// Arbitrator returns the registry's arbitrator address.
func (r *Registry) Arbitrator(ctx context.Context) (common.Address, error) {
	v, err := r.c.callSingle(ctx, "arbitrator")
	if err != nil {
		return common.Address{}, err
	}
	addr, ok := v.(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("decoding arbitrator: unexpected type %T", v)
	}
	return addr, nil
}

// ArbitratorExtraData returns the opaque bytes passed to the arbitrator.
func (r *Registry) ArbitratorExtraData(ctx context.Context) ([]byte, error) {
	v, err := r.c.callSingle(ctx, "arbitratorExtraData")
	if err != nil {
		return nil, err
	}
	b, ok := v.([]byte)
	if !ok {
		return nil, fmt.Errorf("decoding arbitratorExtraData: unexpected type %T", v)
	}
	return b, nil
}

// ChallengePeriodDuration returns how long requests stay challengeable.
func (r *Registry) ChallengePeriodDuration(ctx context.Context) (time.Duration, error) {
	secs, err := r.c.callBig(ctx, "challengePeriodDuration")
	if err != nil {
		return 0, err
	}
	return time.Duration(secs.Int64()) * time.Second, nil
}

// GetItemInfo returns the on-chain state of an item.
func (r *Registry) GetItemInfo(ctx context.Context, itemID [32]byte) (*ItemInfo, error) {
	var raw struct {
		Status           uint8
		NumberOfRequests *big.Int
		SumDeposit       *big.Int
	}
	if err := r.c.callInto(ctx, &raw, "getItemInfo", itemID); err != nil {
		return nil, err
	}
	return &ItemInfo{
		Status:           Status(raw.Status),
		NumberOfRequests: raw.NumberOfRequests,
		SumDeposit:       raw.SumDeposit,
	}, nil
}

// GetRequestInfo returns request requestID of an item.
func (r *Registry) GetRequestInfo(ctx context.Context, itemID [32]byte, requestID *big.Int) (*RequestInfo, error) {
	var raw struct {
		Disputed                   bool
		DisputeID                  *big.Int
		SubmissionTime             *big.Int
		Resolved                   bool
		Parties                    [3]common.Address
		NumberOfRounds             *big.Int
		Ruling                     uint8
		RequestArbitrator          common.Address
		RequestArbitratorExtraData []byte
		MetaEvidenceID             *big.Int
	}
	if err := r.c.callInto(ctx, &raw, "getRequestInfo", itemID, requestID); err != nil {
		return nil, err
	}
	return &RequestInfo{
		Disputed:                   raw.Disputed,
		DisputeID:                  raw.DisputeID,
		SubmissionTime:             time.Unix(raw.SubmissionTime.Int64(), 0).UTC(),
		Resolved:                   raw.Resolved,
		Parties:                    raw.Parties,
		NumberOfRounds:             raw.NumberOfRounds,
		Ruling:                     Party(raw.Ruling),
		RequestArbitrator:          raw.RequestArbitrator,
		RequestArbitratorExtraData: raw.RequestArbitratorExtraData,
		MetaEvidenceID:             raw.MetaEvidenceID,
	}, nil
}

// LatestRequest returns the most recent request of an item.
func (r *Registry) LatestRequest(ctx context.Context, itemID [32]byte) (*ItemInfo, *RequestInfo, error) {
	info, err := r.GetItemInfo(ctx, itemID)
	if err != nil {
		return nil, nil, err
	}
	if info.NumberOfRequests == nil || info.NumberOfRequests.Sign() == 0 {
		return info, nil, ErrNoRequests
	}
	latest := new(big.Int).Sub(info.NumberOfRequests, big.NewInt(1))
	req, err := r.GetRequestInfo(ctx, itemID, latest)
	if err != nil {
		return info, nil, err
	}
	return info, req, nil
}

// --- writes ---

// AddItem submits item, paying the submission deposit.
func (r *Registry) AddItem(ctx context.Context, item string) (*Tx, error) {
	return r.write(ctx, deposit.Submission, "addItem", item)
}

// RemoveItem requests removal of a registered item, paying the removal deposit.
func (r *Registry) RemoveItem(ctx context.Context, itemID [32]byte, evidence string) (*Tx, error) {
	return r.write(ctx, deposit.Removal, "removeItem", itemID, FormatEvidenceURI(evidence))
}

// ChallengeRequest challenges the pending request of an item. The deposit kind
// follows the item's status.
func (r *Registry) ChallengeRequest(ctx context.Context, itemID [32]byte, evidence string) (*Tx, error) {
	kind, err := r.ChallengeKind(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return r.write(ctx, kind, "challengeRequest", itemID, FormatEvidenceURI(evidence))
}

// ChallengeKind returns the deposit kind a challenge of itemID would pay, or
// an error when its latest request cannot be challenged.
func (r *Registry) ChallengeKind(ctx context.Context, itemID [32]byte) (deposit.Kind, error) {
	info, req, err := r.LatestRequest(ctx, itemID)
	if errors.Is(err, ErrNoRequests) {
		return 0, ErrNothingToChallenge
	}
	if err != nil {
		return 0, err
	}

	var kind deposit.Kind
	switch info.Status {
	case RegistrationRequested:
		kind = deposit.SubmissionChallenge
	case ClearingRequested:
		kind = deposit.RemovalChallenge
	default:
		return 0, fmt.Errorf("%w (status %s)", ErrNothingToChallenge, info.Status.Label())
	}
	if req.Disputed {
		return 0, ErrAlreadyChallenged
	}
	return kind, nil
}

// WaitMined waits for the receipt of a write.
func (r *Registry) WaitMined(ctx context.Context, hash string) (*chain.TxReceipt, error) {
	return r.node.WaitForReceipt(ctx, hash, r.poll)
}

// write sends method with the exact wei deposit of kind as value.
func (r *Registry) write(ctx context.Context, kind deposit.Kind, method string, args ...any) (*Tx, error) {
	if r.wallet == nil {
		return nil, wallet.ErrNotConnected
	}
	from := r.wallet.CurrentAccount(ctx)
	if from == "" {
		return nil, wallet.ErrNotConnected
	}

	dep, err := r.deposits.Deposit(ctx, kind)
	if err != nil {
		return nil, err
	}

	data, err := r.c.pack(method, args...)
	if err != nil {
		return nil, err
	}

	sender := common.HexToAddress(from)
	gas, err := r.node.EstimateGas(ctx, chain.CallMsg{From: sender, To: r.c.address, Data: data, Value: dep.Total})
	if err != nil {
		return nil, fmt.Errorf("estimating gas for %s: %w", method, fundsErr(err))
	}
	gas = WithGasMargin(gas)

	fees, err := r.node.SuggestFees(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting fees: %w", err)
	}
	balance, err := r.node.Balance(ctx, sender)
	if err != nil {
		return nil, fmt.Errorf("getting balance: %w", err)
	}
	need := new(big.Int).Add(dep.Total, fees.MaxCost(gas))
	if balance.Cmp(need) < 0 {
		return nil, fmt.Errorf("%w: have %s ETH, need %s ETH",
			ErrInsufficientFunds, deposit.Format(balance), deposit.Format(need))
	}

	r.log.Debug("sending",
		zap.String("method", method),
		zap.String("from", from),
		zap.String("value", dep.Total.String()),
		zap.Uint64("gas", gas))

	hash, err := r.wallet.SendTransaction(ctx, wallet.TxRequest{
		From:  from,
		To:    r.c.address.Hex(),
		Data:  hexutil.Encode(data),
		Value: hexutil.EncodeBig(dep.Total),
		Gas:   hexutil.EncodeUint64(gas),
	})
	if err != nil {
		return nil, fundsErr(err)
	}

	r.log.Info("transaction sent", zap.String("method", method), zap.String("hash", hash))
	return &Tx{Hash: hash, From: from, Method: method, Gas: gas, Deposit: dep}, nil
}

// WithGasMargin adds config.GasMarginPercent to an estimate.
func WithGasMargin(gas uint64) uint64 {
	return gas * (100 + config.GasMarginPercent) / 100
}

// fundsErr tags node "insufficient funds" failures with ErrInsufficientFunds.
func fundsErr(err error) error {
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "insufficient funds") {
		return fmt.Errorf("%w: %w", ErrInsufficientFunds, err)
	}
	return err
}
