package rpc

import (
	"errors"
	"time"
)

// ErrNoHealthyRPC is returned when no healthy RPC endpoint is available.
var ErrNoHealthyRPC = errors.New("no healthy RPC endpoint available")

// Algorithm defines how an RPC endpoint is selected.
type Algorithm string

const (
	AlgorithmFastest  Algorithm = "fastest"
	AlgorithmFailover Algorithm = "failover"

	// Discard nodes more than this many blocks behind the best.
	staleBlockThreshold = 3
)

// ParseAlgorithm maps a config value to an Algorithm, defaulting to failover.
func ParseAlgorithm(s string) Algorithm {
	if Algorithm(s) == AlgorithmFastest {
		return AlgorithmFastest
	}
	return AlgorithmFailover
}

// Endpoint is one candidate URL with its measured attributes.
type Endpoint struct {
	URL         string
	Source      string
	Latency     time.Duration
	BlockNumber uint64
	Err         error
}

// Healthy reports whether the last ping succeeded.
func (e Endpoint) Healthy() bool { return e.Err == nil }

// Pick selects an endpoint from benchmarked candidates. Order matters for
// failover: the first healthy endpoint wins.
func Pick(endpoints []Endpoint, algo Algorithm) (*Endpoint, error) {
	var best uint64
	for _, e := range endpoints {
		if e.Healthy() && e.BlockNumber > best {
			best = e.BlockNumber
		}
	}

	var winner *Endpoint
	for i := range endpoints {
		e := &endpoints[i]
		if !e.Healthy() || best-e.BlockNumber > staleBlockThreshold {
			continue
		}
		if algo == AlgorithmFailover {
			return e, nil
		}
		if winner == nil || e.Latency < winner.Latency {
			winner = e
		}
	}
	if winner == nil {
		return nil, ErrNoHealthyRPC
	}
	return winner, nil
}
