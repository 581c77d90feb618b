package contract

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Mohsinsiddi/w3dash/internal/chain"
)

// ERC721 reads and builds calldata for an arbitrary ERC-721 contract.
type ERC721 struct {
	*Caller
}

// NewERC721 binds the minimal ERC-721 ABI to address.
func NewERC721(r chain.Reader, address common.Address) *ERC721 {
	return &ERC721{Caller: NewCaller(r, ERC721ABI, address)}
}

// BalanceOf returns how many tokens owner holds.
func (n *ERC721) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	return callOne[*big.Int](ctx, n.Caller, "balanceOf", owner)
}

// TokenOfOwnerByIndex returns the index-th token owned by owner.
func (n *ERC721) TokenOfOwnerByIndex(ctx context.Context, owner common.Address, index *big.Int) (*big.Int, error) {
	return callOne[*big.Int](ctx, n.Caller, "tokenOfOwnerByIndex", owner, index)
}

func (n *ERC721) TokenURI(ctx context.Context, id *big.Int) (string, error) {
	return callOne[string](ctx, n.Caller, "tokenURI", id)
}

func (n *ERC721) OwnerOf(ctx context.Context, id *big.Int) (common.Address, error) {
	return callOne[common.Address](ctx, n.Caller, "ownerOf", id)
}

// SupportsInterface performs an ERC-165 probe.
func (n *ERC721) SupportsInterface(ctx context.Context, id [4]byte) (bool, error) {
	return callOne[bool](ctx, n.Caller, "supportsInterface", id)
}

// SafeTransferFromData builds safeTransferFrom(from, to, tokenId) calldata.
func (n *ERC721) SafeTransferFromData(from, to common.Address, id *big.Int) ([]byte, error) {
	return n.Pack("safeTransferFrom", from, to, id)
}
