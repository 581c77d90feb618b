package transfer

import (
	"github.com/ethereum/go-ethereum/common"
)

// Kind is what a workflow moves or changes.
type Kind int

const (
	KindNative Kind = iota
	KindToken
	KindNFT
	KindTokenMint
	KindTokenBurn
	KindTokenApprove
)

func (k Kind) String() string {
	switch k {
	case KindNative:
		return "native"
	case KindToken:
		return "token"
	case KindNFT:
		return "nft"
	case KindTokenMint:
		return "mint"
	case KindTokenBurn:
		return "burn"
	case KindTokenApprove:
		return "approve"
	}
	return "unknown"
}

// Asset identifies what a workflow acts on. It is fixed for the lifetime of
// a workflow.
type Asset struct {
	Kind     Kind
	Contract common.Address // zero for native transfers
	Decimals uint8          // 0 for NFTs
	Symbol   string
}

// NativeAsset is the chain's native coin (18 decimals).
func NativeAsset(symbol string) Asset {
	return Asset{Kind: KindNative, Decimals: 18, Symbol: symbol}
}

// TokenAsset is a fungible token. kind selects transfer, mint, burn or approve.
func TokenAsset(kind Kind, contract common.Address, decimals uint8, symbol string) Asset {
	return Asset{Kind: kind, Contract: contract, Decimals: decimals, Symbol: symbol}
}

// NFTAsset parses a user-supplied ERC-721 contract address.
func NFTAsset(contract string) (Asset, error) {
	addr, err := ParseAddress(contract)
	if err != nil {
		return Asset{}, err
	}
	return Asset{Kind: KindNFT, Contract: addr, Symbol: "NFT"}, nil
}

// fungible reports whether amounts are validated against a balance snapshot.
func (a Asset) fungible() bool {
	return a.Kind == KindNative || a.Kind == KindToken || a.Kind == KindTokenBurn
}

// needsRecipient is false only for burns.
func (a Asset) needsRecipient() bool {
	return a.Kind != KindTokenBurn
}
