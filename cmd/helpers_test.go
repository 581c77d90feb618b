package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"

	"github.com/Mohsinsiddi/w3dash/internal/chain"
	"github.com/Mohsinsiddi/w3dash/internal/wallet"
)

const deadAddr = "0x000000000000000000000000000000000000dEaD"

// node is a mock JSON-RPC endpoint answering fixed results per method.
// eth_call always reverts unless calls has an entry for the selector.
type node struct {
	mu      sync.Mutex
	results map[string]interface{}
	seen    map[string]int
}

func newNode(t *testing.T, results map[string]interface{}) (*node, string) {
	t.Helper()
	n := &node{results: results, seen: map[string]int{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string          `json:"method"`
			ID     json.RawMessage `json:"id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		n.mu.Lock()
		n.seen[req.Method]++
		result, ok := n.results[req.Method]
		if fn, isFn := result.(func() interface{}); isFn {
			result = fn()
		}
		n.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if !ok {
			json.NewEncoder(w).Encode(map[string]interface{}{ //nolint:errcheck
				"jsonrpc": "2.0",
				"id":      req.ID,
				"error":   map[string]interface{}{"code": 3, "message": "execution reverted"},
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
	return n, srv.URL
}

func (n *node) count(method string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.seen[method]
}

// total counts every request the node has answered.
func (n *node) total() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	var sum int
	for _, c := range n.seen {
		sum += c
	}
	return sum
}

func headerJSON(t *testing.T) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(&types.Header{
		Number:     big.NewInt(100),
		Difficulty: big.NewInt(0),
		GasLimit:   30_000_000,
		Time:       1_700_000_000,
		BaseFee:    big.NewInt(1_000_000),
		Extra:      []byte{},
	})
	require.NoError(t, err)
	return raw
}

func receiptJSON(t *testing.T) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(&types.Receipt{
		Type:              types.DynamicFeeTxType,
		Status:            types.ReceiptStatusSuccessful,
		CumulativeGasUsed: 21000,
		Logs:              []*types.Log{},
		TxHash:            common.HexToHash("0xabc123"),
		GasUsed:           21000,
		BlockNumber:       big.NewInt(101),
		EffectiveGasPrice: big.NewInt(1),
	})
	require.NoError(t, err)
	return raw
}

// harness wires the root command to a temp config dir, an in-memory wallet
// manager and a mock node.
type harness struct {
	t   *testing.T
	dir string
	mgr *wallet.Manager
	url string
}

func newHarness(t *testing.T, results map[string]interface{}) (*harness, *node) {
	t.Helper()
	n, url := newNode(t, results)
	h := &harness{t: t, dir: t.TempDir(), mgr: wallet.NewManager(wallet.WithInMemoryStore()), url: url}

	prevMgr, prevDial := newWalletManager, dialNetwork
	newWalletManager = func() (*wallet.Manager, error) { return h.mgr, nil }
	dialNetwork = func(ctx context.Context, _ *chain.Network) (*chain.EVMClient, error) {
		return chain.Dial(ctx, h.url, chain.WithPollInterval(10*time.Millisecond))
	}
	t.Cleanup(func() { newWalletManager, dialNetwork = prevMgr, prevDial })
	return h, n
}

// run executes the root command with args and returns stdout and stderr.
func (h *harness) run(stdin string, args ...string) (string, string, error) {
	h.t.Helper()
	resetFlags()

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--config", h.dir}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

// resetFlags clears package-level flag values left over from a previous run.
func resetFlags() {
	txYes, txForm, txWallet = false, false, ""
	testnet, mainnet, verbose = false, false, false
	nftOwnerFlag, tokenOwnerFlag, walletKeyFlag = "", "", ""
	walletInfoLive = false
	configChainFlag = 0
}
