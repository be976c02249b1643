package wallet

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// EIP-1193 / EIP-1474 provider error codes.
const (
	CodeUserRejected      = 4001
	CodeUnauthorized      = 4100
	CodeUnsupported       = 4200
	CodeDisconnected      = 4900
	CodeUnrecognizedChain = 4902
	CodeInvalidParams     = -32602
	CodeInternal          = -32603
)

// Provider events.
const (
	EventAccountsChanged = "accountsChanged"
	EventChainChanged    = "chainChanged"
)

// Provider is a request/response wallet API in the shape browser wallets
// expose (EIP-1193): a method name, positional params, a JSON result.
type Provider interface {
	Request(ctx context.Context, method string, params ...any) (json.RawMessage, error)
	// On subscribes to a provider event and returns an unsubscribe func.
	On(event string, fn func(payload any)) func()
}

// ProviderError is the error object a Provider returns.
type ProviderError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error %d: %s", e.Code, e.Message)
}

func providerErr(code int, format string, args ...any) *ProviderError {
	return &ProviderError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// TxRequest is the eth_sendTransaction parameter object. Quantities are
// 0x-prefixed hex.
type TxRequest struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Data  string `json:"data,omitempty"`
	Value string `json:"value,omitempty"`
	Gas   string `json:"gas,omitempty"`
}

// SwitchChainParams is the wallet_switchEthereumChain parameter object.
type SwitchChainParams struct {
	ChainID string `json:"chainId"`
}

// --- event fan-out ---

type emitter struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]func(any)
}

func (e *emitter) on(event string, fn func(any)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.subs == nil {
		e.subs = make(map[string]map[int]func(any))
	}
	if e.subs[event] == nil {
		e.subs[event] = make(map[int]func(any))
	}
	id := e.nextID
	e.nextID++
	e.subs[event][id] = fn
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.subs[event], id)
	}
}

func (e *emitter) emit(event string, payload any) {
	e.mu.Lock()
	fns := make([]func(any), 0, len(e.subs[event]))
	for _, fn := range e.subs[event] {
		fns = append(fns, fn)
	}
	e.mu.Unlock()
	for _, fn := range fns {
		fn(payload)
	}
}
