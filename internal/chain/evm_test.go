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
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

// rpcMock creates a test HTTP server that serves a fixed JSON-RPC response
// per method. Values may be funcs returning the result, to vary per call.
// Any unknown method returns an RPC error.
func rpcMock(t *testing.T, responses map[string]interface{}) *httptest.Server {
	t.Helper()
	var mu sync.Mutex
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string          `json:"method"`
			ID     json.RawMessage `json:"id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		mu.Lock()
		result, ok := responses[req.Method]
		if fn, isFn := result.(func() interface{}); isFn {
			result = fn()
		}
		mu.Unlock()
		if ok {
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
	t.Cleanup(srv.Close)
	return srv
}

func dialMock(t *testing.T, responses map[string]interface{}) *EVMClient {
	t.Helper()
	srv := rpcMock(t, responses)
	c, err := Dial(context.Background(), srv.URL, WithPollInterval(10*time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func headerJSON(t *testing.T, number int64, baseFee *big.Int) json.RawMessage {
	t.Helper()
	h := &types.Header{
		Number:     big.NewInt(number),
		Difficulty: big.NewInt(0),
		GasLimit:   30_000_000,
		Time:       1_700_000_000,
		BaseFee:    baseFee,
		Extra:      []byte{},
	}
	raw, err := json.Marshal(h)
	require.NoError(t, err)
	return raw
}

func receiptJSON(t *testing.T, hash common.Hash, status uint64, block int64) json.RawMessage {
	t.Helper()
	r := &types.Receipt{
		Type:              types.DynamicFeeTxType,
		Status:            status,
		CumulativeGasUsed: 21000,
		Logs:              []*types.Log{},
		TxHash:            hash,
		GasUsed:           21000,
		BlockNumber:       big.NewInt(block),
		EffectiveGasPrice: big.NewInt(1),
	}
	raw, err := json.Marshal(r)
	require.NoError(t, err)
	return raw
}

// testSigner is a minimal Signer backed by a fresh secp256k1 key.
type testSigner struct {
	addr common.Address
	sign func(*types.Transaction, *big.Int) (*types.Transaction, error)
}

func (s testSigner) Address() common.Address { return s.addr }
func (s testSigner) SignTx(tx *types.Transaction, id *big.Int) (*types.Transaction, error) {
	return s.sign(tx, id)
}

func newTestSigner(t *testing.T) testSigner {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return testSigner{
		addr: crypto.PubkeyToAddress(key.PublicKey),
		sign: func(tx *types.Transaction, id *big.Int) (*types.Transaction, error) {
			return types.SignTx(tx, types.LatestSignerForChainID(id), key)
		},
	}
}

var testHash = common.HexToHash("0xabc123")

// ---------------------------------------------------------------------------
// reads
// ---------------------------------------------------------------------------

func TestNativeBalance(t *testing.T) {
	c := dialMock(t, map[string]interface{}{
		"eth_getBalance": "0xde0b6b3a7640000", // 1 ETH
	})
	bal, err := c.NativeBalance(context.Background(), common.HexToAddress("0x01"))
	require.NoError(t, err)
	assert.Equal(t, "1", FormatUnits(bal, 18))
}

func TestNativeBalanceRPCError(t *testing.T) {
	c := dialMock(t, map[string]interface{}{})
	_, err := c.NativeBalance(context.Background(), common.HexToAddress("0x01"))
	assert.Error(t, err)
}

func TestReadCallReturnsBytes(t *testing.T) {
	c := dialMock(t, map[string]interface{}{
		"eth_call": "0x0000000000000000000000000000000000000000000000000000000000000012",
	})
	out, err := c.ReadCall(context.Background(), common.HexToAddress("0x02"), []byte{0x31, 0x3c, 0xe5, 0x67})
	require.NoError(t, err)
	require.Len(t, out, 32)
	assert.Equal(t, byte(18), out[31])
}

func TestPingReportsBlock(t *testing.T) {
	c := dialMock(t, map[string]interface{}{"eth_blockNumber": "0x10"})
	_, block, err := c.Ping(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(16), block)
}

func TestTransactionCount(t *testing.T) {
	c := dialMock(t, map[string]interface{}{"eth_getTransactionCount": "0x7"})
	n, err := c.TransactionCount(context.Background(), common.HexToAddress("0x01"))
	require.NoError(t, err)
	assert.Equal(t, uint64(7), n)
}

// ---------------------------------------------------------------------------
// fees
// ---------------------------------------------------------------------------

func TestSuggestFeesEIP1559(t *testing.T) {
	c := dialMock(t, map[string]interface{}{
		"eth_getBlockByNumber":     headerJSON(t, 100, big.NewInt(1_000)),
		"eth_maxPriorityFeePerGas": "0x64", // 100
	})
	fees, err := c.SuggestFees(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(100), fees.TipCap.Int64())
	assert.Equal(t, int64(2_100), fees.FeeCap.Int64())
}

func TestSuggestFeesLegacy(t *testing.T) {
	c := dialMock(t, map[string]interface{}{
		"eth_getBlockByNumber": headerJSON(t, 100, nil),
		"eth_gasPrice":         "0x3b9aca00",
	})
	fees, err := c.SuggestFees(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1_000_000_000), fees.TipCap.Int64())
	assert.Equal(t, fees.TipCap, fees.FeeCap)
}

func TestWeiToGwei(t *testing.T) {
	assert.Equal(t, "1.5", WeiToGwei(big.NewInt(1_500_000_000)).String())
	assert.True(t, WeiToGwei(nil).IsZero())
}

// ---------------------------------------------------------------------------
// SendTransaction
// ---------------------------------------------------------------------------

func sendResponses(t *testing.T) map[string]interface{} {
	return map[string]interface{}{
		"eth_chainId":              "0x2105",
		"eth_getTransactionCount":  "0x3",
		"eth_getBlockByNumber":     headerJSON(t, 100, big.NewInt(1_000)),
		"eth_maxPriorityFeePerGas": "0x64",
		"eth_estimateGas":          "0x5208",
		"eth_sendRawTransaction":   testHash.Hex(),
	}
}

func TestSendTransactionReturnsSignedHash(t *testing.T) {
	c := dialMock(t, sendResponses(t))
	s := newTestSigner(t)

	var signed *types.Transaction
	wrapped := s
	wrapped.sign = func(tx *types.Transaction, id *big.Int) (*types.Transaction, error) {
		out, err := s.sign(tx, id)
		signed = out
		return out, err
	}

	to := common.HexToAddress("0x000000000000000000000000000000000000dEaD")
	hash, err := c.SendTransaction(context.Background(), wrapped, TxRequest{To: to, Value: big.NewInt(5)})
	require.NoError(t, err)
	require.NotNil(t, signed)
	assert.Equal(t, signed.Hash(), hash)
	assert.Equal(t, uint64(3), signed.Nonce())
	assert.Equal(t, uint64(21000), signed.Gas())
	assert.Equal(t, int64(8453), signed.ChainId().Int64())
	assert.Equal(t, to, *signed.To())
}

func TestSendTransactionGasFallback(t *testing.T) {
	resp := sendResponses(t)
	delete(resp, "eth_estimateGas")
	c := dialMock(t, resp)
	s := newTestSigner(t)

	var gas uint64
	wrapped := s
	wrapped.sign = func(tx *types.Transaction, id *big.Int) (*types.Transaction, error) {
		gas = tx.Gas()
		return s.sign(tx, id)
	}
	_, err := c.SendTransaction(context.Background(), wrapped, TxRequest{
		To: common.HexToAddress("0x02"), Data: []byte{1}, GasFallback: 60_000,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(60_000), gas)
}

func TestSendTransactionEstimateErrorWithoutFallback(t *testing.T) {
	resp := sendResponses(t)
	delete(resp, "eth_estimateGas")
	c := dialMock(t, resp)
	_, err := c.SendTransaction(context.Background(), newTestSigner(t), TxRequest{To: common.HexToAddress("0x02")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "estimating gas")
}

func TestSendTransactionSignerError(t *testing.T) {
	c := dialMock(t, sendResponses(t))
	s := newTestSigner(t)
	s.sign = func(*types.Transaction, *big.Int) (*types.Transaction, error) {
		return nil, errors.New("user rejected")
	}
	_, err := c.SendTransaction(context.Background(), s, TxRequest{To: common.HexToAddress("0x02")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user rejected")
}

// ---------------------------------------------------------------------------
// WaitForReceipt
// ---------------------------------------------------------------------------

func TestWaitForReceiptSuccess(t *testing.T) {
	c := dialMock(t, map[string]interface{}{
		"eth_getTransactionReceipt": receiptJSON(t, testHash, 1, 42),
	})
	r, err := c.WaitForReceipt(context.Background(), testHash, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), r.Status)
	assert.Equal(t, uint64(42), r.BlockNumber)
	assert.Equal(t, testHash.Hex(), r.Hash)
}

func TestWaitForReceiptPendingThenMined(t *testing.T) {
	calls := 0
	mined := receiptJSON(t, testHash, 1, 42)
	c := dialMock(t, map[string]interface{}{
		"eth_getTransactionReceipt": func() interface{} {
			calls++
			if calls < 3 {
				return nil
			}
			return mined
		},
	})
	r, err := c.WaitForReceipt(context.Background(), testHash, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), r.BlockNumber)
	assert.GreaterOrEqual(t, calls, 3)
}

func TestWaitForReceiptReverted(t *testing.T) {
	c := dialMock(t, map[string]interface{}{
		"eth_getTransactionReceipt": receiptJSON(t, testHash, 0, 42),
	})
	r, err := c.WaitForReceipt(context.Background(), testHash, 1)
	require.ErrorIs(t, err, ErrReverted)
	require.NotNil(t, r)
	assert.Equal(t, uint64(0), r.Status)
}

func TestWaitForReceiptTimeout(t *testing.T) {
	c := dialMock(t, map[string]interface{}{
		"eth_getTransactionReceipt": nil,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.WaitForReceipt(ctx, testHash, 1)
	assert.ErrorIs(t, err, ErrConfirmTimeout)
}

func TestWaitForReceiptWaitsForDepth(t *testing.T) {
	head := uint64(42)
	c := dialMock(t, map[string]interface{}{
		"eth_getTransactionReceipt": receiptJSON(t, testHash, 1, 42),
		"eth_blockNumber": func() interface{} {
			head++
			return hexutil.Uint64(head)
		},
	})
	_, err := c.WaitForReceipt(context.Background(), testHash, 3)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, head, uint64(44))
}

// ---------------------------------------------------------------------------
// SigningClient
// ---------------------------------------------------------------------------

func TestSigningClientBindsSigner(t *testing.T) {
	c := dialMock(t, sendResponses(t))
	s := newTestSigner(t)
	sc := NewSigningClient(c, s, 0)
	assert.Equal(t, s.addr, sc.Account())
	assert.Equal(t, uint64(1), sc.confirmations)

	hash, err := sc.SubmitTransaction(context.Background(), TxRequest{To: common.HexToAddress("0x02")})
	require.NoError(t, err)
	assert.NotEqual(t, common.Hash{}, hash)
}
