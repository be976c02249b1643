package chain

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

// rpcMock creates a test HTTP server that serves a fixed JSON-RPC response
// per method. Pass method→result pairs; any unknown method returns an RPC error.
func rpcMock(t *testing.T, responses map[string]interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string `json:"method"`
			ID     int64  `json:"id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if result, ok := responses[req.Method]; ok {
			json.NewEncoder(w).Encode(map[string]interface{}{ //nolint:errcheck
				"jsonrpc": "2.0",
				"id":      req.ID,
				"result":  result,
			})
		} else {
			json.NewEncoder(w).Encode(map[string]interface{}{ //nolint:errcheck
				"jsonrpc": "2.0",
				"id":      req.ID,
				"error":   map[string]interface{}{"code": -32601, "message": "method not found"},
			})
		}
	}))
}

// rpcErrorServer creates a test HTTP server that always returns a JSON-RPC error.
func rpcErrorServer(t *testing.T, code int, msg string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID int64 `json:"id"`
		}
		json.NewDecoder(r.Body).Decode(&req) //nolint:errcheck
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{ //nolint:errcheck
			"jsonrpc": "2.0",
			"id":      req.ID,
			"error":   map[string]interface{}{"code": code, "message": msg},
		})
	}))
}

// rpcBadJSON creates a server that returns malformed JSON.
func rpcBadJSON(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{not valid json`)) //nolint:errcheck
	}))
}

// captureParams records the params of every request for a method.
func captureParams(t *testing.T, method string, result interface{}) (*httptest.Server, func() []json.RawMessage) {
	t.Helper()
	var mu sync.Mutex
	var got []json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string            `json:"method"`
			Params []json.RawMessage `json:"params"`
			ID     int64             `json:"id"`
		}
		json.NewDecoder(r.Body).Decode(&req) //nolint:errcheck
		if req.Method == method {
			mu.Lock()
			got = append(got, req.Params...)
			mu.Unlock()
		}
		json.NewEncoder(w).Encode(map[string]interface{}{ //nolint:errcheck
			"jsonrpc": "2.0", "id": req.ID, "result": result,
		})
	}))
	return srv, func() []json.RawMessage {
		mu.Lock()
		defer mu.Unlock()
		return got
	}
}

var ctx = context.Background()

// ---------------------------------------------------------------------------
// basic reads
// ---------------------------------------------------------------------------

func TestChainID(t *testing.T) {
	srv := rpcMock(t, map[string]interface{}{"eth_chainId": "0x1"})
	defer srv.Close()

	id, err := NewEVMClient(srv.URL).ChainID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
}

func TestBlockNumber(t *testing.T) {
	srv := rpcMock(t, map[string]interface{}{"eth_blockNumber": "0x1234"})
	defer srv.Close()

	n, err := NewEVMClient(srv.URL).BlockNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x1234), n)
}

func TestPing(t *testing.T) {
	srv := rpcMock(t, map[string]interface{}{"eth_blockNumber": "0x10"})
	defer srv.Close()

	latency, block, err := NewEVMClient(srv.URL).Ping(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(16), block)
	assert.Greater(t, latency, time.Duration(0))
}

func TestBalance(t *testing.T) {
	srv := rpcMock(t, map[string]interface{}{"eth_getBalance": "0xde0b6b3a7640000"})
	defer srv.Close()

	bal, err := NewEVMClient(srv.URL).Balance(ctx, common.HexToAddress("0x01"))
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000", bal.String())
}

func TestPendingNonceUsesPendingTag(t *testing.T) {
	srv, params := captureParams(t, "eth_getTransactionCount", "0x7")
	defer srv.Close()

	n, err := NewEVMClient(srv.URL).PendingNonce(ctx, common.HexToAddress("0x01"))
	require.NoError(t, err)
	assert.Equal(t, uint64(7), n)

	got := params()
	require.Len(t, got, 2)
	assert.JSONEq(t, `"pending"`, string(got[1]))
}

func TestCallDecodesReturnData(t *testing.T) {
	srv := rpcMock(t, map[string]interface{}{"eth_call": "0x00ff"})
	defer srv.Close()

	out, err := NewEVMClient(srv.URL).Call(ctx, CallMsg{To: common.HexToAddress("0x02")})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0xff}, out)
}

func TestCallMsgArgOmitsEmptyFields(t *testing.T) {
	arg := CallMsg{To: common.HexToAddress("0x02")}.arg()
	assert.Len(t, arg, 1)
	assert.Contains(t, arg, "to")

	arg = CallMsg{
		From:  common.HexToAddress("0x01"),
		To:    common.HexToAddress("0x02"),
		Data:  []byte{0xab},
		Value: big.NewInt(255),
	}.arg()
	assert.Equal(t, "0xab", arg["data"])
	assert.Equal(t, "0xff", arg["value"])
	assert.Equal(t, common.HexToAddress("0x01").Hex(), arg["from"])
}

func TestEstimateGasReturnsErrorWithoutFallback(t *testing.T) {
	srv := rpcErrorServer(t, 3, "execution reverted")
	defer srv.Close()

	_, err := NewEVMClient(srv.URL).EstimateGas(ctx, CallMsg{To: common.HexToAddress("0x02")})
	require.Error(t, err)

	var rpcErr *RPCError
	require.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, 3, rpcErr.Code)
	assert.Equal(t, "execution reverted", rpcErr.Message)
}

func TestEstimateGas(t *testing.T) {
	srv := rpcMock(t, map[string]interface{}{"eth_estimateGas": "0x5208"})
	defer srv.Close()

	gas, err := NewEVMClient(srv.URL).EstimateGas(ctx, CallMsg{To: common.HexToAddress("0x02")})
	require.NoError(t, err)
	assert.Equal(t, uint64(21000), gas)
}

func TestSendRawTransaction(t *testing.T) {
	srv, params := captureParams(t, "eth_sendRawTransaction", "0xhash")
	defer srv.Close()

	hash, err := NewEVMClient(srv.URL).SendRawTransaction(ctx, []byte{0x02, 0xf8})
	require.NoError(t, err)
	assert.Equal(t, "0xhash", hash)
	assert.JSONEq(t, `"0x02f8"`, string(params()[0]))
}

// ---------------------------------------------------------------------------
// error paths
// ---------------------------------------------------------------------------

func TestRPCErrorIsTyped(t *testing.T) {
	srv := rpcErrorServer(t, -32000, "insufficient funds for gas * price + value")
	defer srv.Close()

	_, err := NewEVMClient(srv.URL).ChainID(ctx)
	var rpcErr *RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, -32000, rpcErr.Code)
	assert.Contains(t, err.Error(), "insufficient funds")
}

func TestBadJSONResponse(t *testing.T) {
	srv := rpcBadJSON(t)
	defer srv.Close()

	_, err := NewEVMClient(srv.URL).BlockNumber(ctx)
	assert.Error(t, err)
}

func TestHTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewEVMClient(srv.URL).BlockNumber(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 429")
}

func TestConnectionRefused(t *testing.T) {
	_, err := NewEVMClient("http://127.0.0.1:19991").ChainID(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RPC request failed")
}

func TestCancelledContext(t *testing.T) {
	srv := rpcMock(t, map[string]interface{}{"eth_chainId": "0x1"})
	defer srv.Close()

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	_, err := NewEVMClient(srv.URL).ChainID(cctx)
	assert.ErrorIs(t, err, context.Canceled)
}

// ---------------------------------------------------------------------------
// receipts
// ---------------------------------------------------------------------------

func TestTransactionReceiptSuccess(t *testing.T) {
	srv := rpcMock(t, map[string]interface{}{
		"eth_getTransactionReceipt": map[string]interface{}{
			"status":      "0x1",
			"blockNumber": "0x100",
			"gasUsed":     "0x5208",
		},
	})
	defer srv.Close()

	receipt, err := NewEVMClient(srv.URL).TransactionReceipt(ctx, "0xtxhash")
	require.NoError(t, err)
	require.NotNil(t, receipt)
	assert.Equal(t, uint64(1), receipt.Status)
	assert.Equal(t, uint64(256), receipt.BlockNumber)
	assert.Equal(t, uint64(21000), receipt.GasUsed)
	assert.Equal(t, "0xtxhash", receipt.Hash)
}

func TestTransactionReceiptPending(t *testing.T) {
	srv := rpcMock(t, map[string]interface{}{"eth_getTransactionReceipt": nil})
	defer srv.Close()

	receipt, err := NewEVMClient(srv.URL).TransactionReceipt(ctx, "0xpending")
	require.NoError(t, err)
	assert.Nil(t, receipt, "pending tx should return nil receipt")
}

func TestWaitForReceiptReverted(t *testing.T) {
	srv := rpcMock(t, map[string]interface{}{
		"eth_getTransactionReceipt": map[string]interface{}{
			"status": "0x0", "blockNumber": "0x1", "gasUsed": "0x1",
		},
	})
	defer srv.Close()

	receipt, err := NewEVMClient(srv.URL).WaitForReceipt(ctx, "0xbad", time.Millisecond)
	assert.ErrorIs(t, err, ErrTxReverted)
	require.NotNil(t, receipt)
}

func TestWaitForReceiptTimesOut(t *testing.T) {
	srv := rpcMock(t, map[string]interface{}{"eth_getTransactionReceipt": nil})
	defer srv.Close()

	tctx, cancel := context.WithTimeout(ctx, 30*time.Millisecond)
	defer cancel()

	_, err := NewEVMClient(srv.URL).WaitForReceipt(tctx, "0xslow", 5*time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// ---------------------------------------------------------------------------
// fees
// ---------------------------------------------------------------------------

func TestSuggestFeesEIP1559(t *testing.T) {
	srv := rpcMock(t, map[string]interface{}{
		"eth_getBlockByNumber":     map[string]interface{}{"baseFeePerGas": "0x64"}, // 100
		"eth_maxPriorityFeePerGas": "0xa",                                           // 10
	})
	defer srv.Close()

	fees, err := NewEVMClient(srv.URL).SuggestFees(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(10), fees.TipCap.Int64())
	assert.Equal(t, int64(210), fees.FeeCap.Int64())
	assert.Equal(t, int64(100), fees.BaseFee.Int64())
	assert.Equal(t, int64(2100), fees.MaxCost(10).Int64())
}

func TestSuggestFeesFallsBackToGasPriceForTip(t *testing.T) {
	srv := rpcMock(t, map[string]interface{}{
		"eth_getBlockByNumber": map[string]interface{}{"baseFeePerGas": "0x64"},
		"eth_gasPrice":         "0x14", // 20
	})
	defer srv.Close()

	fees, err := NewEVMClient(srv.URL).SuggestFees(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(20), fees.TipCap.Int64())
	assert.Equal(t, int64(220), fees.FeeCap.Int64())
}

func TestSuggestFeesLegacyChain(t *testing.T) {
	srv := rpcMock(t, map[string]interface{}{
		"eth_getBlockByNumber": map[string]interface{}{"number": "0x1"},
		"eth_gasPrice":         "0x3b9aca00",
	})
	defer srv.Close()

	fees, err := NewEVMClient(srv.URL).SuggestFees(ctx)
	require.NoError(t, err)
	assert.Nil(t, fees.BaseFee)
	assert.Equal(t, fees.TipCap, fees.FeeCap)
	assert.InDelta(t, 1.0, WeiToGwei(fees.FeeCap), 1e-9)
}

func TestWeiToGweiNil(t *testing.T) {
	assert.Equal(t, 0.0, WeiToGwei(nil))
}
