package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// TxRequest describes a state-changing call before it is signed.
type TxRequest struct {
	To    common.Address
	Value *big.Int
	Data  []byte
	// GasFallback is used when estimation fails; zero means estimation
	// failures are returned to the caller.
	GasFallback uint64
}

// Signer produces signatures for one account.
type Signer interface {
	Address() common.Address
	SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
}

// Reader is the read half of a chain adapter.
type Reader interface {
	ReadCall(ctx context.Context, to common.Address, data []byte) ([]byte, error)
	NativeBalance(ctx context.Context, addr common.Address) (*big.Int, error)
}

// Adapter is the capability set a transfer workflow needs from a chain.
type Adapter interface {
	Reader
	Account() common.Address
	SubmitTransaction(ctx context.Context, req TxRequest) (common.Hash, error)
	WaitForConfirmation(ctx context.Context, hash common.Hash) (*TxReceipt, error)
}

// SigningClient binds an EVMClient to one signer and confirmation policy.
type SigningClient struct {
	*EVMClient
	signer        Signer
	confirmations uint64
}

// NewSigningClient returns an Adapter that signs with s and treats a
// transaction as confirmed after the given number of blocks.
func NewSigningClient(c *EVMClient, s Signer, confirmations uint64) *SigningClient {
	if confirmations == 0 {
		confirmations = 1
	}
	return &SigningClient{EVMClient: c, signer: s, confirmations: confirmations}
}

// Account returns the signing address.
func (s *SigningClient) Account() common.Address { return s.signer.Address() }

// SubmitTransaction signs and broadcasts req.
func (s *SigningClient) SubmitTransaction(ctx context.Context, req TxRequest) (common.Hash, error) {
	return s.SendTransaction(ctx, s.signer, req)
}

// WaitForConfirmation blocks until the transaction reaches the configured
// confirmation depth.
func (s *SigningClient) WaitForConfirmation(ctx context.Context, hash common.Hash) (*TxReceipt, error) {
	return s.WaitForReceipt(ctx, hash, s.confirmations)
}
