package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"
)

// ErrTxReverted is returned by WaitForReceipt when the mined transaction failed.
var ErrTxReverted = errors.New("transaction reverted")

// EVMClient is a minimal JSON-RPC client for EVM chains.
type EVMClient struct {
	url    string
	client *http.Client
	log    *zap.Logger
	nextID atomic.Int64
}

// Option configures an EVMClient.
type Option func(*EVMClient)

// WithHTTPClient replaces the default 15 s timeout client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *EVMClient) { c.client = h }
}

// WithLogger attaches a logger for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(c *EVMClient) { c.log = l.Named("rpc") }
}

// NewEVMClient creates a new EVM JSON-RPC client pointed at url.
func NewEVMClient(url string, opts ...Option) *EVMClient {
	c := &EVMClient{
		url: url,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the endpoint this client talks to.
func (c *EVMClient) URL() string { return c.url }

// RPCError is the error object of a JSON-RPC response. Wallet-facing code
// inspects Code and Message to classify failures.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

// CallMsg describes an eth_call / eth_estimateGas request.
type CallMsg struct {
	From  common.Address
	To    common.Address
	Data  []byte
	Value *big.Int
}

func (m CallMsg) arg() map[string]string {
	arg := map[string]string{"to": m.To.Hex()}
	if m.From != (common.Address{}) {
		arg["from"] = m.From.Hex()
	}
	if len(m.Data) > 0 {
		arg["data"] = hexutil.Encode(m.Data)
	}
	if m.Value != nil && m.Value.Sign() > 0 {
		arg["value"] = hexutil.EncodeBig(m.Value)
	}
	return arg
}

// TxReceipt holds the on-chain receipt of a mined transaction.
type TxReceipt struct {
	Hash        string
	Status      uint64 // 1 = success, 0 = reverted
	BlockNumber uint64
	GasUsed     uint64
}

// ChainID returns the chain's ID.
func (c *EVMClient) ChainID(ctx context.Context) (int64, error) {
	n, err := c.callBig(ctx, "eth_chainId")
	if err != nil {
		return 0, err
	}
	return n.Int64(), nil
}

// BlockNumber returns the latest block number.
func (c *EVMClient) BlockNumber(ctx context.Context) (uint64, error) {
	n, err := c.callBig(ctx, "eth_blockNumber")
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

// Ping tests the RPC endpoint and returns latency + block number.
func (c *EVMClient) Ping(ctx context.Context) (latency time.Duration, blockNum uint64, err error) {
	start := time.Now()
	blockNum, err = c.BlockNumber(ctx)
	return time.Since(start), blockNum, err
}

// Balance returns the native balance of addr in wei.
func (c *EVMClient) Balance(ctx context.Context, addr common.Address) (*big.Int, error) {
	return c.callBig(ctx, "eth_getBalance", addr.Hex(), "latest")
}

// PendingNonce returns the transaction count including queued transactions.
func (c *EVMClient) PendingNonce(ctx context.Context, addr common.Address) (uint64, error) {
	n, err := c.callBig(ctx, "eth_getTransactionCount", addr.Hex(), "pending")
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

// Call executes a read-only contract call and returns the raw return data.
func (c *EVMClient) Call(ctx context.Context, msg CallMsg) ([]byte, error) {
	var out string
	if err := c.callInto(ctx, &out, "eth_call", msg.arg(), "latest"); err != nil {
		return nil, err
	}
	data, err := hexutil.Decode(out)
	if err != nil {
		return nil, fmt.Errorf("decoding call result: %w", err)
	}
	return data, nil
}

// EstimateGas estimates gas for a transaction. Errors are returned as-is; the
// caller decides whether a failed estimate should abort the send.
func (c *EVMClient) EstimateGas(ctx context.Context, msg CallMsg) (uint64, error) {
	n, err := c.callBig(ctx, "eth_estimateGas", msg.arg())
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

// SendRawTransaction broadcasts a signed raw transaction and returns its hash.
func (c *EVMClient) SendRawTransaction(ctx context.Context, raw []byte) (string, error) {
	var hash string
	if err := c.callInto(ctx, &hash, "eth_sendRawTransaction", hexutil.Encode(raw)); err != nil {
		return "", err
	}
	return hash, nil
}

// TransactionReceipt fetches the receipt for hash.
// Returns nil, nil if the transaction is still pending.
func (c *EVMClient) TransactionReceipt(ctx context.Context, hash string) (*TxReceipt, error) {
	var r *struct {
		Status      hexutil.Uint64 `json:"status"`
		BlockNumber hexutil.Uint64 `json:"blockNumber"`
		GasUsed     hexutil.Uint64 `json:"gasUsed"`
	}
	if err := c.callInto(ctx, &r, "eth_getTransactionReceipt", hash); err != nil {
		return nil, err
	}
	if r == nil {
		return nil, nil // still pending
	}
	return &TxReceipt{
		Hash:        hash,
		Status:      uint64(r.Status),
		BlockNumber: uint64(r.BlockNumber),
		GasUsed:     uint64(r.GasUsed),
	}, nil
}

// WaitForReceipt polls every interval until the transaction is mined or ctx
// expires. A reverted transaction yields the receipt and ErrTxReverted.
func (c *EVMClient) WaitForReceipt(ctx context.Context, hash string, interval time.Duration) (*TxReceipt, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		receipt, err := c.TransactionReceipt(ctx, hash)
		if err != nil {
			return nil, err
		}
		if receipt != nil {
			if receipt.Status == 0 {
				return receipt, fmt.Errorf("%w (hash: %s)", ErrTxReverted, hash)
			}
			return receipt, nil
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("transaction %s not mined: %w", hash, ctx.Err())
		case <-ticker.C:
		}
	}
}

// --- internal JSON-RPC plumbing ---

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      int64         `json:"id"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error"`
}

func (c *EVMClient) callBig(ctx context.Context, method string, params ...interface{}) (*big.Int, error) {
	var out hexutil.Big
	if err := c.callInto(ctx, &out, method, params...); err != nil {
		return nil, err
	}
	return out.ToInt(), nil
}

func (c *EVMClient) callInto(ctx context.Context, out interface{}, method string, params ...interface{}) error {
	raw, err := c.callCtx(ctx, method, params...)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parsing %s result: %w", method, err)
	}
	return nil
}

func (c *EVMClient) callCtx(ctx context.Context, method string, params ...interface{}) (json.RawMessage, error) {
	if params == nil {
		params = []interface{}{}
	}
	reqBody, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      c.nextID.Add(1),
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("RPC request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	c.log.Debug("call", zap.String("method", method), zap.Int("status", resp.StatusCode), zap.Duration("took", time.Since(start)))

	var rpcResp rpcResponse
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return nil, fmt.Errorf("RPC request failed: HTTP %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	if rpcResp.Error != nil {
		return nil, rpcResp.Error
	}
	return rpcResp.Result, nil
}
