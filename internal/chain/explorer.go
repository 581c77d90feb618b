package chain

import "strings"

// TxURL returns the block-explorer link for a transaction hash.
func (n *Network) TxURL(hash string) string {
	return strings.TrimRight(n.Explorer, "/") + "/tx/" + hash
}

// AddressURL returns the block-explorer link for an account or contract.
func (n *Network) AddressURL(addr string) string {
	return strings.TrimRight(n.Explorer, "/") + "/address/" + addr
}

// TokenURL returns the block-explorer link for one NFT.
func (n *Network) TokenURL(contract, tokenID string) string {
	return strings.TrimRight(n.Explorer, "/") + "/nft/" + contract + "/" + tokenID
}
