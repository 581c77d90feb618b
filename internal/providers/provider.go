package providers

import (
	"github.com/Mohsinsiddi/w3dash/internal/chain"
	"github.com/Mohsinsiddi/w3dash/internal/config"
)

// Endpoint is one candidate RPC URL and where it came from.
type Endpoint struct {
	URL    string
	Source string
}

// Provider turns a network into an RPC URL. An empty URL means the provider
// does not serve that network.
type Provider interface {
	Name() string
	RPCURL(n *chain.Network) string
}

// Public serves each network's public endpoint.
type Public struct{}

func (Public) Name() string                   { return "public" }
func (Public) RPCURL(n *chain.Network) string { return n.PublicRPC }

// Build returns the ordered candidate list for a network:
//
//  1. custom RPCs from config, in the order they were added
//  2. Alchemy, if a key is configured and the network has an Alchemy slug
//  3. the public endpoint
func Build(n *chain.Network, cfg *config.Config) []Endpoint {
	var out []Endpoint
	for _, u := range cfg.GetRPCs(n.ChainID) {
		out = append(out, Endpoint{URL: u, Source: "custom"})
	}

	ps := []Provider{Public{}}
	if a := NewAlchemy(cfg.GetProviderKey("alchemy")); a != nil {
		ps = []Provider{a, Public{}}
	}
	for _, p := range ps {
		if u := p.RPCURL(n); u != "" {
			out = append(out, Endpoint{URL: u, Source: p.Name()})
		}
	}
	return dedupe(out)
}

func dedupe(in []Endpoint) []Endpoint {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, e := range in {
		if seen[e.URL] {
			continue
		}
		seen[e.URL] = true
		out = append(out, e)
	}
	return out
}
