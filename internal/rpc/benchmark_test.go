package rpc_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Mohsinsiddi/w3dash/internal/providers"
	"github.com/Mohsinsiddi/w3dash/internal/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// blockServer answers eth_blockNumber with a fixed block after delay.
func blockServer(t *testing.T, block string, delay time.Duration) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID json.RawMessage `json:"id"`
		}
		json.NewDecoder(r.Body).Decode(&req) //nolint:errcheck
		time.Sleep(delay)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{ //nolint:errcheck
			"jsonrpc": "2.0", "id": req.ID, "result": block,
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestBenchmarkMeasuresEveryCandidate(t *testing.T) {
	a := blockServer(t, "0x64", 0)
	b := blockServer(t, "0x65", 0)

	results := rpc.Benchmark(context.Background(), []providers.Endpoint{
		{URL: a.URL, Source: "a"},
		{URL: b.URL, Source: "b"},
		{URL: "http://127.0.0.1:1", Source: "dead"},
	}, 2*time.Second)

	require.Len(t, results, 3)
	assert.Equal(t, uint64(100), results[0].BlockNumber)
	assert.Equal(t, uint64(101), results[1].BlockNumber)
	assert.True(t, results[0].Healthy())
	assert.False(t, results[2].Healthy())
}

func TestConnectPicksFastest(t *testing.T) {
	slow := blockServer(t, "0x64", 150*time.Millisecond)
	fast := blockServer(t, "0x64", 0)

	c, err := rpc.Connect(context.Background(), []providers.Endpoint{
		{URL: slow.URL, Source: "slow"},
		{URL: fast.URL, Source: "fast"},
	}, rpc.AlgorithmFastest, 2*time.Second, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer c.Close()
	assert.Equal(t, fast.URL, c.URL())
}

func TestConnectSingleCandidateSkipsBenchmark(t *testing.T) {
	c, err := rpc.Connect(context.Background(), []providers.Endpoint{
		{URL: "http://127.0.0.1:1", Source: "only"},
	}, rpc.AlgorithmFastest, time.Second, nil)
	require.NoError(t, err, "dialing an HTTP endpoint is lazy")
	defer c.Close()
	assert.Equal(t, "http://127.0.0.1:1", c.URL())
}

func TestConnectNoCandidates(t *testing.T) {
	_, err := rpc.Connect(context.Background(), nil, rpc.AlgorithmFailover, time.Second, nil)
	assert.ErrorIs(t, err, rpc.ErrNoHealthyRPC)
}
