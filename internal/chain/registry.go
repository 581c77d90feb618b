package chain

import "strings"

// Network holds all metadata for one supported chain.
type Network struct {
	Name           string `json:"name"`
	DisplayName    string `json:"display_name"`
	ChainID        int64  `json:"chain_id"`
	NativeCurrency string `json:"native_currency"`
	NativeDecimals uint8  `json:"native_decimals"`
	PublicRPC      string `json:"public_rpc"`
	Explorer       string `json:"explorer"`
	Testnet        bool   `json:"testnet"`
	// AlchemySlug is the Alchemy network identifier; empty when the
	// network has no key-gated endpoint.
	AlchemySlug string `json:"alchemy_slug,omitempty"`
}

// Registry is the network registry.
type Registry struct {
	networks []Network
	byName   map[string]*Network
	byID     map[int64]*Network
}

// NewRegistry returns the registry of the production chain and its testnet.
func NewRegistry() *Registry {
	networks := allNetworks()
	r := &Registry{
		networks: networks,
		byName:   make(map[string]*Network, len(networks)),
		byID:     make(map[int64]*Network, len(networks)),
	}
	for i := range r.networks {
		n := &r.networks[i]
		r.byName[n.Name] = n
		r.byID[n.ChainID] = n
	}
	return r
}

// All returns every network in the registry.
func (r *Registry) All() []Network {
	return r.networks
}

// GetByName finds a network by its slug name (e.g. "base", "base-sepolia").
func (r *Registry) GetByName(name string) (*Network, error) {
	n, ok := r.byName[strings.ToLower(name)]
	if !ok {
		return nil, ErrChainNotFound
	}
	return n, nil
}

// GetByChainID finds a network by its numeric chain ID.
func (r *Registry) GetByChainID(id int64) (*Network, error) {
	n, ok := r.byID[id]
	if !ok {
		return nil, ErrChainNotFound
	}
	return n, nil
}

// Counterpart returns the testnet for a production network and vice versa.
func (r *Registry) Counterpart(n *Network) *Network {
	for i := range r.networks {
		if r.networks[i].Testnet != n.Testnet {
			return &r.networks[i]
		}
	}
	return n
}

// --- network data ---

func allNetworks() []Network {
	return []Network{
		{
			Name: "base", DisplayName: "Base", ChainID: 8453,
			NativeCurrency: "ETH", NativeDecimals: 18,
			PublicRPC:   "https://mainnet.base.org",
			Explorer:    "https://basescan.org",
			AlchemySlug: "base-mainnet",
		},
		{
			Name: "base-sepolia", DisplayName: "Base Sepolia", ChainID: 84532,
			NativeCurrency: "ETH", NativeDecimals: 18,
			PublicRPC: "https://sepolia.base.org",
			Explorer:  "https://sepolia.basescan.org",
			Testnet:   true,
		},
	}
}
