package rpc

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Mohsinsiddi/w3dash/internal/chain"
	"github.com/Mohsinsiddi/w3dash/internal/logging"
	"github.com/Mohsinsiddi/w3dash/internal/providers"
)

// Benchmark pings every candidate in parallel, each bounded by timeout.
func Benchmark(ctx context.Context, candidates []providers.Endpoint, timeout time.Duration) []Endpoint {
	results := make([]Endpoint, len(candidates))
	var wg sync.WaitGroup

	for i, cand := range candidates {
		wg.Add(1)
		go func(idx int, cand providers.Endpoint) {
			defer wg.Done()
			pctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			res := Endpoint{URL: cand.URL, Source: cand.Source}
			c, err := chain.Dial(pctx, cand.URL)
			if err != nil {
				res.Err = err
				results[idx] = res
				return
			}
			defer c.Close()
			res.Latency, res.BlockNumber, res.Err = c.Ping(pctx)
			results[idx] = res
		}(i, cand)
	}

	wg.Wait()
	return results
}

// Connect benchmarks the candidates, picks one and dials it. A single
// candidate is dialled without a benchmark.
func Connect(ctx context.Context, candidates []providers.Endpoint, algo Algorithm, timeout time.Duration, log *zap.Logger) (*chain.EVMClient, error) {
	log = logging.OrNop(log)
	switch len(candidates) {
	case 0:
		return nil, ErrNoHealthyRPC
	case 1:
		log.Debug("using only endpoint", zap.String("source", candidates[0].Source))
		return chain.Dial(ctx, candidates[0].URL)
	}

	results := Benchmark(ctx, candidates, timeout)
	for _, r := range results {
		log.Debug("benchmarked endpoint",
			zap.String("source", r.Source),
			zap.Duration("latency", r.Latency),
			zap.Uint64("block", r.BlockNumber),
			zap.Error(r.Err))
	}
	winner, err := Pick(results, algo)
	if err != nil {
		return nil, err
	}
	log.Debug("selected endpoint", zap.String("source", winner.Source), zap.String("algorithm", string(algo)))
	return chain.Dial(ctx, winner.URL)
}
