package integration_test

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/require"

	"github.com/Mohsinsiddi/w3dash/internal/chain"
	"github.com/Mohsinsiddi/w3dash/internal/contract"
)

// callHandler answers one eth_call. args is the calldata after the selector.
type callHandler func(args []byte) interface{}

// rpcNode is a mock EVM JSON-RPC node. Plain methods answer from results;
// eth_call is routed by 4-byte selector to calls. Values in results may be
// funcs taking the raw params.
type rpcNode struct {
	mu      sync.Mutex
	results map[string]interface{}
	calls   map[string]callHandler
	seen    map[string]int
}

func newRPCNode(results map[string]interface{}) *rpcNode {
	if results == nil {
		results = map[string]interface{}{}
	}
	return &rpcNode{results: results, calls: map[string]callHandler{}, seen: map[string]int{}}
}

// onCall registers the handler for a function signature such as
// "balanceOf(address)".
func (n *rpcNode) onCall(signature string, h callHandler) *rpcNode {
	sel := contract.Selector(signature)
	n.calls[hex.EncodeToString(sel[:])] = h
	return n
}

func (n *rpcNode) count(method string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.seen[method]
}

func (n *rpcNode) serve(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string            `json:"method"`
			Params []json.RawMessage `json:"params"`
			ID     json.RawMessage   `json:"id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		n.mu.Lock()
		n.seen[req.Method]++
		result, ok := n.results[req.Method]
		if req.Method == "eth_call" {
			result, ok = n.dispatchCall(req.Params)
		}
		n.mu.Unlock()
		if fn, isFn := result.(func([]json.RawMessage) interface{}); isFn {
			result = fn(req.Params)
		}

		w.Header().Set("Content-Type", "application/json")
		if !ok {
			json.NewEncoder(w).Encode(map[string]interface{}{ //nolint:errcheck
				"jsonrpc": "2.0",
				"id":      req.ID,
				"error":   map[string]interface{}{"code": -32601, "message": "method not found"},
			})
			return
		}
		if err, isErr := result.(rpcError); isErr {
			json.NewEncoder(w).Encode(map[string]interface{}{ //nolint:errcheck
				"jsonrpc": "2.0",
				"id":      req.ID,
				"error":   map[string]interface{}{"code": 3, "message": string(err)},
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{ //nolint:errcheck
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  result,
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

// rpcError makes a call answer with a JSON-RPC error carrying the message.
type rpcError string

func (n *rpcNode) dispatchCall(params []json.RawMessage) (interface{}, bool) {
	if len(params) == 0 {
		return nil, false
	}
	var msg struct {
		Data  hexutil.Bytes `json:"data"`
		Input hexutil.Bytes `json:"input"`
	}
	if err := json.Unmarshal(params[0], &msg); err != nil {
		return nil, false
	}
	data := msg.Input
	if len(data) == 0 {
		data = msg.Data
	}
	if len(data) < 4 {
		return nil, false
	}
	h, ok := n.calls[hex.EncodeToString(data[:4])]
	if !ok {
		return rpcError("execution reverted"), true
	}
	return h(data[4:]), true
}

// dial connects a client to the node.
func (n *rpcNode) dial(t *testing.T) *chain.EVMClient {
	t.Helper()
	srv := n.serve(t)
	c, err := chain.Dial(context.Background(), srv.URL, chain.WithPollInterval(10*time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

// abiReturn ABI-encodes values of the given solidity types as a call result.
func abiReturn(t *testing.T, typ string, v interface{}) interface{} {
	t.Helper()
	at, err := abi.NewType(typ, "", nil)
	require.NoError(t, err)
	out, err := abi.Arguments{{Type: at}}.Pack(v)
	require.NoError(t, err)
	return hexutil.Encode(out)
}

// wordAt reads the i-th 32-byte argument word as an integer.
func wordAt(args []byte, i int) *big.Int {
	start := i * 32
	if len(args) < start+32 {
		return new(big.Int)
	}
	return new(big.Int).SetBytes(args[start : start+32])
}
