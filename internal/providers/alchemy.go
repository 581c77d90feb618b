package providers

import (
	"fmt"

	"github.com/Mohsinsiddi/w3dash/internal/chain"
)

// Alchemy builds key-gated Alchemy endpoints.
type Alchemy struct {
	apiKey  string
	baseURL string // overrides the hosted domain in tests
}

// NewAlchemy returns nil when no key is configured.
func NewAlchemy(apiKey string) *Alchemy {
	if apiKey == "" {
		return nil
	}
	return &Alchemy{apiKey: apiKey}
}

func (a *Alchemy) Name() string { return "alchemy" }

// RPCURL returns https://<slug>.g.alchemy.com/v2/<key>, or "" for networks
// without an Alchemy slug.
func (a *Alchemy) RPCURL(n *chain.Network) string {
	if n.AlchemySlug == "" {
		return ""
	}
	if a.baseURL != "" {
		return fmt.Sprintf("%s/%s/v2/%s", a.baseURL, n.AlchemySlug, a.apiKey)
	}
	return fmt.Sprintf("https://%s.g.alchemy.com/v2/%s", n.AlchemySlug, a.apiKey)
}
