package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Mohsinsiddi/lcurate/internal/chain"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"
)

// Errors returned by Adapter.
var (
	ErrProviderMissing = errors.New("no wallet provider found")
	ErrUserRejected    = errors.New("request rejected by user")
	ErrNotConnected    = errors.New("wallet not connected")
)

// Adapter is the app-side view of a wallet provider: connect, read the
// current account, make sure the wallet is on the expected chain, and send.
type Adapter struct {
	provider Provider
	expected *chain.Chain
	log      *zap.Logger
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithAdapterLogger attaches a logger.
func WithAdapterLogger(l *zap.Logger) AdapterOption {
	return func(a *Adapter) { a.log = l.Named("adapter") }
}

// NewAdapter wraps p. A nil p is allowed; every operation then fails with
// ErrProviderMissing except CurrentAccount, which returns "".
func NewAdapter(p Provider, expected *chain.Chain, opts ...AdapterOption) *Adapter {
	a := &Adapter{provider: p, expected: expected, log: zap.NewNop()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Expected returns the chain the adapter keeps the wallet on.
func (a *Adapter) Expected() *chain.Chain { return a.expected }

// Connect asks the wallet for access and returns the first account.
func (a *Adapter) Connect(ctx context.Context) (string, error) {
	if a.provider == nil {
		return "", ErrProviderMissing
	}
	var accounts []string
	if err := a.request(ctx, &accounts, "eth_requestAccounts"); err != nil {
		return "", err
	}
	if len(accounts) == 0 {
		return "", ErrNotConnected
	}
	a.log.Info("wallet connected", zap.String("account", accounts[0]))
	return accounts[0], nil
}

// CurrentAccount returns the connected account without prompting, or "".
func (a *Adapter) CurrentAccount(ctx context.Context) string {
	if a.provider == nil {
		return ""
	}
	var accounts []string
	if err := a.request(ctx, &accounts, "eth_accounts"); err != nil || len(accounts) == 0 {
		return ""
	}
	return accounts[0]
}

// ChainID returns the chain the wallet is on.
func (a *Adapter) ChainID(ctx context.Context) (int64, error) {
	if a.provider == nil {
		return 0, ErrProviderMissing
	}
	var hex string
	if err := a.request(ctx, &hex, "eth_chainId"); err != nil {
		return 0, err
	}
	id, err := hexutil.DecodeUint64(hex)
	if err != nil {
		return 0, fmt.Errorf("invalid chain id %q: %w", hex, err)
	}
	return int64(id), nil
}

// SwitchToExpectedChain asks the wallet to switch to the expected chain,
// adding it first if the wallet does not know it (code 4902).
func (a *Adapter) SwitchToExpectedChain(ctx context.Context) error {
	if a.provider == nil {
		return ErrProviderMissing
	}
	params := SwitchChainParams{ChainID: a.expected.HexChainID()}
	err := a.request(ctx, nil, "wallet_switchEthereumChain", params)
	if err == nil {
		return nil
	}

	var perr *ProviderError
	if !errors.As(err, &perr) || perr.Code != CodeUnrecognizedChain {
		return err
	}
	a.log.Info("chain unknown to wallet, adding", zap.String("chain", a.expected.DisplayName))
	return a.request(ctx, nil, "wallet_addEthereumChain", a.expected.AddParams())
}

// SendTransaction submits req through the wallet and returns the tx hash.
func (a *Adapter) SendTransaction(ctx context.Context, req TxRequest) (string, error) {
	if a.provider == nil {
		return "", ErrProviderMissing
	}
	var hash string
	if err := a.request(ctx, &hash, "eth_sendTransaction", req); err != nil {
		return "", err
	}
	return hash, nil
}

// OnAccountsChanged calls fn with the new active account ("" when the wallet
// disconnects). It returns an unsubscribe func.
func (a *Adapter) OnAccountsChanged(fn func(account string)) func() {
	if a.provider == nil {
		return func() {}
	}
	return a.provider.On(EventAccountsChanged, func(payload any) {
		accounts, _ := payload.([]string)
		if len(accounts) == 0 {
			fn("")
			return
		}
		fn(accounts[0])
	})
}

func (a *Adapter) request(ctx context.Context, out any, method string, params ...any) error {
	raw, err := a.provider.Request(ctx, method, params...)
	if err != nil {
		return classify(err)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding %s result: %w", method, err)
	}
	return nil
}

// classify maps provider error codes onto the adapter's sentinel errors,
// keeping the provider error in the chain.
func classify(err error) error {
	var perr *ProviderError
	if !errors.As(err, &perr) {
		return err
	}
	switch perr.Code {
	case CodeUserRejected:
		return fmt.Errorf("%w: %w", ErrUserRejected, err)
	case CodeUnauthorized, CodeDisconnected:
		return fmt.Errorf("%w: %w", ErrNotConnected, err)
	}
	return err
}

// FormatWalletAddress shortens addr to 0x1234...abcd.
func FormatWalletAddress(addr string) string {
	if addr == "" {
		return "Not connected"
	}
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}
