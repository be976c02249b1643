package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/Mohsinsiddi/lcurate/internal/chain"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Chains every local wallet knows without wallet_addEthereumChain.
var builtinChains = []int64{1, 11155111}

// Backend is the node access the local wallet needs to send transactions.
type Backend interface {
	PendingNonce(ctx context.Context, addr common.Address) (uint64, error)
	SuggestFees(ctx context.Context) (*chain.Fees, error)
	EstimateGas(ctx context.Context, msg chain.CallMsg) (uint64, error)
	SendRawTransaction(ctx context.Context, raw []byte) (string, error)
}

// Dialer returns a Backend for a chain.
type Dialer func(ctx context.Context, c *chain.Chain) (Backend, error)

// ChainBook persists the chains added through wallet_addEthereumChain.
type ChainBook interface {
	HasKnownChain(id int64) bool
	AddKnownChain(id int64) bool
	Save() error
}

// ApprovalRequest describes what the user is asked to approve.
type ApprovalRequest struct {
	Method  string
	Title   string
	Details [][2]string
}

// Approver asks the user to approve a wallet request. Returning false
// rejects it with code 4001.
type Approver func(ctx context.Context, req ApprovalRequest) bool

// LocalProvider is a Provider backed by the wallets in the keychain. It keeps
// the wallet-side rules of a browser wallet: accounts must be connected
// before use, chains must be known before switching, and every signature
// needs user approval.
type LocalProvider struct {
	wallets *Manager
	chains  *chain.Registry
	dial    Dialer
	session *Session
	book    ChainBook
	approve Approver
	log     *zap.Logger
	events  emitter
}

var _ Provider = (*LocalProvider)(nil)

// LocalOption configures a LocalProvider.
type LocalOption func(*LocalProvider)

// WithApprover sets the approval prompt. The default rejects everything.
func WithApprover(a Approver) LocalOption {
	return func(p *LocalProvider) { p.approve = a }
}

// WithSession sets where connected accounts are remembered.
func WithSession(s *Session) LocalOption {
	return func(p *LocalProvider) { p.session = s }
}

// WithChainBook sets where added chains are persisted.
func WithChainBook(b ChainBook) LocalOption {
	return func(p *LocalProvider) { p.book = b }
}

// WithProviderLogger attaches a logger.
func WithProviderLogger(l *zap.Logger) LocalOption {
	return func(p *LocalProvider) { p.log = l.Named("wallet") }
}

// NewLocalProvider creates a provider exposing the default wallet of mgr.
func NewLocalProvider(mgr *Manager, chains *chain.Registry, dial Dialer, opts ...LocalOption) *LocalProvider {
	p := &LocalProvider{
		wallets: mgr,
		chains:  chains,
		dial:    dial,
		session: NewSession(DefaultSessionPath()),
		book:    &memBook{},
		approve: func(context.Context, ApprovalRequest) bool { return false },
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// On subscribes to accountsChanged ([]string) or chainChanged (hex string).
func (p *LocalProvider) On(event string, fn func(any)) func() {
	return p.events.on(event, fn)
}

// Request dispatches a wallet RPC.
func (p *LocalProvider) Request(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	p.log.Debug("request", zap.String("method", method))

	var (
		result any
		err    error
	)
	switch method {
	case "eth_requestAccounts":
		result, err = p.requestAccounts(ctx)
	case "eth_accounts":
		result = p.accounts()
	case "eth_chainId":
		result = hexutil.EncodeUint64(uint64(p.chainID()))
	case "wallet_switchEthereumChain":
		err = p.switchChain(params)
	case "wallet_addEthereumChain":
		err = p.addChain(ctx, params)
	case "eth_sendTransaction":
		result, err = p.sendTransaction(ctx, params)
	case "personal_sign":
		result, err = p.personalSign(ctx, params)
	default:
		err = providerErr(CodeUnsupported, "method %s is not supported", method)
	}
	if err != nil {
		p.log.Debug("request failed", zap.String("method", method), zap.Error(err))
		return nil, err
	}
	return json.Marshal(result)
}

// Disconnect forgets every connected account.
func (p *LocalProvider) Disconnect() error {
	if err := p.session.Clear(); err != nil {
		return err
	}
	p.events.emit(EventAccountsChanged, []string{})
	return nil
}

// --- accounts ---

func (p *LocalProvider) accounts() []string {
	w := p.wallets.Default()
	if w == nil || !p.session.IsAuthorized(w.Address) {
		return []string{}
	}
	return []string{w.Address}
}

func (p *LocalProvider) requestAccounts(ctx context.Context) ([]string, error) {
	w := p.wallets.Default()
	if w == nil {
		return nil, providerErr(CodeUnauthorized, "no wallet configured; add one with `lcurate wallet add`")
	}
	if p.session.IsAuthorized(w.Address) {
		return []string{w.Address}, nil
	}

	ok := p.approve(ctx, ApprovalRequest{
		Method: "eth_requestAccounts",
		Title:  "Connect wallet to lcurate",
		Details: [][2]string{
			{"Wallet", w.Name},
			{"Address", w.Address},
			{"Type", w.Type},
		},
	})
	if !ok {
		return nil, providerErr(CodeUserRejected, "User rejected the request.")
	}
	if err := p.session.Authorize(w.Address); err != nil {
		return nil, providerErr(CodeInternal, "saving session: %v", err)
	}
	accounts := []string{w.Address}
	p.events.emit(EventAccountsChanged, accounts)
	return accounts, nil
}

// --- chains ---

func (p *LocalProvider) chainID() int64 {
	return p.session.ChainID(builtinChains[0])
}

func (p *LocalProvider) knows(id int64) bool {
	if _, err := p.chains.GetByChainID(id); err != nil {
		return false
	}
	for _, b := range builtinChains {
		if b == id {
			return true
		}
	}
	return p.book.HasKnownChain(id)
}

func (p *LocalProvider) switchChain(params []any) error {
	var req SwitchChainParams
	if err := decodeParam(params, 0, &req); err != nil {
		return err
	}
	id, err := hexutil.DecodeUint64(req.ChainID)
	if err != nil {
		return providerErr(CodeInvalidParams, "invalid chainId %q", req.ChainID)
	}
	if !p.knows(int64(id)) {
		return providerErr(CodeUnrecognizedChain,
			"Unrecognized chain ID %q. Try adding the chain using wallet_addEthereumChain first.", req.ChainID)
	}
	return p.setChain(int64(id))
}

func (p *LocalProvider) setChain(id int64) error {
	if p.chainID() == id {
		return nil
	}
	if err := p.session.SetChainID(id); err != nil {
		return providerErr(CodeInternal, "saving session: %v", err)
	}
	p.events.emit(EventChainChanged, hexutil.EncodeUint64(uint64(id)))
	return nil
}

func (p *LocalProvider) addChain(ctx context.Context, params []any) error {
	var req chain.AddChainParams
	if err := decodeParam(params, 0, &req); err != nil {
		return err
	}
	id, err := hexutil.DecodeUint64(req.ChainID)
	if err != nil {
		return providerErr(CodeInvalidParams, "invalid chainId %q", req.ChainID)
	}
	c, err := p.chains.GetByChainID(int64(id))
	if err != nil {
		return providerErr(CodeInvalidParams, "chain %s is not supported by this wallet", req.ChainID)
	}

	if !p.knows(c.ChainID) {
		ok := p.approve(ctx, ApprovalRequest{
			Method: "wallet_addEthereumChain",
			Title:  "Add and switch network",
			Details: [][2]string{
				{"Network", req.ChainName},
				{"Chain ID", fmt.Sprintf("%d", c.ChainID)},
				{"Currency", req.NativeCurrency.Symbol},
				{"RPC", strings.Join(req.RPCURLs, ", ")},
			},
		})
		if !ok {
			return providerErr(CodeUserRejected, "User rejected the request.")
		}
		if p.book.AddKnownChain(c.ChainID) {
			if err := p.book.Save(); err != nil {
				return providerErr(CodeInternal, "saving network: %v", err)
			}
		}
	}
	return p.setChain(c.ChainID)
}

// --- signing ---

func (p *LocalProvider) authorizedSigner(from string) (*Wallet, error) {
	w := p.wallets.Default()
	if w == nil || !strings.EqualFold(w.Address, from) || !p.session.IsAuthorized(w.Address) {
		return nil, providerErr(CodeUnauthorized, "The requested account has not been authorized by the user.")
	}
	if !w.CanSign() {
		return nil, providerErr(CodeUnauthorized, "wallet %q is watch-only and cannot sign", w.Name)
	}
	return w, nil
}

func (p *LocalProvider) sendTransaction(ctx context.Context, params []any) (string, error) {
	var req TxRequest
	if err := decodeParam(params, 0, &req); err != nil {
		return "", err
	}
	w, err := p.authorizedSigner(req.From)
	if err != nil {
		return "", err
	}
	if !common.IsHexAddress(req.To) {
		return "", providerErr(CodeInvalidParams, "invalid to address %q", req.To)
	}
	to := common.HexToAddress(req.To)

	value := new(big.Int)
	if req.Value != "" {
		if value, err = hexutil.DecodeBig(req.Value); err != nil {
			return "", providerErr(CodeInvalidParams, "invalid value %q", req.Value)
		}
	}
	var data []byte
	if req.Data != "" {
		if data, err = hexutil.Decode(req.Data); err != nil {
			return "", providerErr(CodeInvalidParams, "invalid data: %v", err)
		}
	}

	c, err := p.chains.GetByChainID(p.chainID())
	if err != nil {
		return "", providerErr(CodeDisconnected, "wallet is on an unknown chain %d", p.chainID())
	}
	backend, err := p.dial(ctx, c)
	if err != nil {
		return "", providerErr(CodeDisconnected, "connecting to %s: %v", c.DisplayName, err)
	}

	from := common.HexToAddress(w.Address)
	var gas uint64
	if req.Gas != "" {
		if gas, err = hexutil.DecodeUint64(req.Gas); err != nil {
			return "", providerErr(CodeInvalidParams, "invalid gas %q", req.Gas)
		}
	} else if gas, err = backend.EstimateGas(ctx, chain.CallMsg{From: from, To: to, Data: data, Value: value}); err != nil {
		return "", nodeErr(err)
	}

	fees, err := backend.SuggestFees(ctx)
	if err != nil {
		return "", nodeErr(err)
	}

	ok := p.approve(ctx, ApprovalRequest{
		Method: "eth_sendTransaction",
		Title:  "Confirm transaction",
		Details: [][2]string{
			{"Network", c.DisplayName},
			{"From", w.Name + " " + w.Address},
			{"To", to.Hex()},
			{"Value", formatEther(value) + " " + c.NativeCurrency.Symbol},
			{"Gas limit", fmt.Sprintf("%d", gas)},
			{"Max fee", formatEther(fees.MaxCost(gas)) + " " + c.NativeCurrency.Symbol},
		},
	})
	if !ok {
		return "", providerErr(CodeUserRejected, "User denied transaction signature.")
	}

	nonce, err := backend.PendingNonce(ctx, from)
	if err != nil {
		return "", nodeErr(err)
	}

	chainID := big.NewInt(c.ChainID)
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     nonce,
		GasTipCap: fees.TipCap,
		GasFeeCap: fees.FeeCap,
		Gas:       gas,
		To:        &to,
		Value:     value,
		Data:      data,
	})
	raw, err := NewSigner(w, p.wallets.Keys()).SignTx(tx, chainID)
	if err != nil {
		return "", providerErr(CodeInternal, "%v", err)
	}

	hash, err := backend.SendRawTransaction(ctx, raw)
	if err != nil {
		return "", nodeErr(err)
	}
	p.log.Info("transaction sent", zap.String("hash", hash), zap.Uint64("nonce", nonce), zap.Int64("chain", c.ChainID))
	return hash, nil
}

func (p *LocalProvider) personalSign(ctx context.Context, params []any) (string, error) {
	var msgHex, from string
	if err := decodeParam(params, 0, &msgHex); err != nil {
		return "", err
	}
	if err := decodeParam(params, 1, &from); err != nil {
		return "", err
	}
	w, err := p.authorizedSigner(from)
	if err != nil {
		return "", err
	}
	msg, err := hexutil.Decode(msgHex)
	if err != nil {
		msg = []byte(msgHex)
	}

	ok := p.approve(ctx, ApprovalRequest{
		Method:  "personal_sign",
		Title:   "Sign message",
		Details: [][2]string{{"Wallet", w.Name}, {"Message", string(msg)}},
	})
	if !ok {
		return "", providerErr(CodeUserRejected, "User denied message signature.")
	}

	sig, err := NewSigner(w, p.wallets.Keys()).SignMessage(msg)
	if err != nil {
		return "", providerErr(CodeInternal, "%v", err)
	}
	return hexutil.Encode(sig), nil
}

// --- helpers ---

// decodeParam converts params[i] into out through its JSON form, the way the
// value would cross a real provider boundary.
func decodeParam(params []any, i int, out any) error {
	if i >= len(params) {
		return providerErr(CodeInvalidParams, "missing parameter %d", i)
	}
	raw, err := json.Marshal(params[i])
	if err != nil {
		return providerErr(CodeInvalidParams, "parameter %d: %v", i, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return providerErr(CodeInvalidParams, "parameter %d: %v", i, err)
	}
	return nil
}

// nodeErr wraps a node failure as an internal provider error, keeping the
// node's message so callers can recognise e.g. insufficient funds.
func nodeErr(err error) error {
	var rpcErr *chain.RPCError
	if errors.As(err, &rpcErr) {
		return &ProviderError{Code: CodeInternal, Message: rpcErr.Message, Data: rpcErr.Code}
	}
	return providerErr(CodeInternal, "%v", err)
}

func formatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	return decimal.NewFromBigInt(wei, -18).String()
}

type memBook struct{ ids []int64 }

func (b *memBook) HasKnownChain(id int64) bool {
	for _, k := range b.ids {
		if k == id {
			return true
		}
	}
	return false
}

func (b *memBook) AddKnownChain(id int64) bool {
	if b.HasKnownChain(id) {
		return false
	}
	b.ids = append(b.ids, id)
	return true
}

func (b *memBook) Save() error { return nil }
