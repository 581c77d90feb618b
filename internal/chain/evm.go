package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/Mohsinsiddi/w3dash/internal/config"
)

// EVMClient talks to an EVM-compatible chain over JSON-RPC.
type EVMClient struct {
	url       string
	eth       *ethclient.Client
	pollEvery time.Duration
}

// Option configures an EVMClient.
type Option func(*EVMClient)

// WithPollInterval overrides how often receipts are polled.
func WithPollInterval(d time.Duration) Option {
	return func(c *EVMClient) { c.pollEvery = d }
}

// Dial connects to the RPC endpoint at url.
func Dial(ctx context.Context, url string, opts ...Option) (*EVMClient, error) {
	eth, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", url, err)
	}
	c := &EVMClient{url: url, eth: eth, pollEvery: config.ReceiptPollEvery}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// URL returns the endpoint this client is connected to.
func (c *EVMClient) URL() string { return c.url }

// Close releases the underlying connection.
func (c *EVMClient) Close() { c.eth.Close() }

// ChainID returns the chain ID reported by the node.
func (c *EVMClient) ChainID(ctx context.Context) (*big.Int, error) {
	return c.eth.ChainID(ctx)
}

// BlockNumber returns the latest block number.
func (c *EVMClient) BlockNumber(ctx context.Context) (uint64, error) {
	return c.eth.BlockNumber(ctx)
}

// Ping measures round-trip latency with eth_blockNumber.
func (c *EVMClient) Ping(ctx context.Context) (latency time.Duration, blockNum uint64, err error) {
	start := time.Now()
	blockNum, err = c.eth.BlockNumber(ctx)
	return time.Since(start), blockNum, err
}

// NativeBalance returns the account's native-currency balance in wei.
func (c *EVMClient) NativeBalance(ctx context.Context, addr common.Address) (*big.Int, error) {
	return c.eth.BalanceAt(ctx, addr, nil)
}

// TransactionCount returns the number of transactions sent from addr.
func (c *EVMClient) TransactionCount(ctx context.Context, addr common.Address) (uint64, error) {
	return c.eth.NonceAt(ctx, addr, nil)
}

// ReadCall executes a read-only contract call against the latest block.
func (c *EVMClient) ReadCall(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	return c.eth.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
}

// SendTransaction builds an EIP-1559 transaction for req, signs it with
// signer and broadcasts it. The returned hash is known before mining.
func (c *EVMClient) SendTransaction(ctx context.Context, signer Signer, req TxRequest) (common.Hash, error) {
	from := signer.Address()
	value := req.Value
	if value == nil {
		value = new(big.Int)
	}

	chainID, err := c.eth.ChainID(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("chain id: %w", err)
	}
	nonce, err := c.eth.PendingNonceAt(ctx, from)
	if err != nil {
		return common.Hash{}, fmt.Errorf("nonce: %w", err)
	}
	fees, err := c.SuggestFees(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("fees: %w", err)
	}
	gas, err := c.eth.EstimateGas(ctx, ethereum.CallMsg{
		From: from, To: &req.To, Value: value, Data: req.Data,
	})
	if err != nil {
		if req.GasFallback == 0 {
			return common.Hash{}, fmt.Errorf("estimating gas: %w", err)
		}
		gas = req.GasFallback
	}

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     nonce,
		GasTipCap: fees.TipCap,
		GasFeeCap: fees.FeeCap,
		Gas:       gas,
		To:        &req.To,
		Value:     value,
		Data:      req.Data,
	})
	signed, err := signer.SignTx(tx, chainID)
	if err != nil {
		return common.Hash{}, fmt.Errorf("signing: %w", err)
	}
	if err := c.eth.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, fmt.Errorf("broadcast: %w", err)
	}
	return signed.Hash(), nil
}

// TxReceipt is the subset of a mined transaction's receipt we surface.
type TxReceipt struct {
	Hash        string `json:"hash"`
	Status      uint64 `json:"status"` // 1 = success, 0 = reverted
	BlockNumber uint64 `json:"block_number"`
	GasUsed     uint64 `json:"gas_used"`
}

func toReceipt(r *types.Receipt) *TxReceipt {
	out := &TxReceipt{Hash: r.TxHash.Hex(), Status: r.Status, GasUsed: r.GasUsed}
	if r.BlockNumber != nil {
		out.BlockNumber = r.BlockNumber.Uint64()
	}
	return out
}

// WaitForReceipt polls until the transaction is mined and buried under the
// requested number of confirmations (1 means "included"). A reverted
// transaction returns its receipt together with ErrReverted. When ctx hits
// its deadline first, ErrConfirmTimeout is returned.
func (c *EVMClient) WaitForReceipt(ctx context.Context, hash common.Hash, confirmations uint64) (*TxReceipt, error) {
	ticker := time.NewTicker(c.pollEvery)
	defer ticker.Stop()

	for {
		r, err := c.eth.TransactionReceipt(ctx, hash)
		switch {
		case errors.Is(err, ethereum.NotFound):
			// still pending
		case err != nil && ctx.Err() == nil:
			return nil, err
		case err == nil:
			if r.Status == types.ReceiptStatusFailed {
				return toReceipt(r), fmt.Errorf("%w (hash: %s)", ErrReverted, hash.Hex())
			}
			done, err := c.buried(ctx, r, confirmations)
			if err != nil && ctx.Err() == nil {
				return nil, err
			}
			if done {
				return toReceipt(r), nil
			}
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w: %s", ErrConfirmTimeout, hash.Hex())
			}
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *EVMClient) buried(ctx context.Context, r *types.Receipt, confirmations uint64) (bool, error) {
	if confirmations <= 1 || r.BlockNumber == nil {
		return true, nil
	}
	head, err := c.eth.BlockNumber(ctx)
	if err != nil {
		return false, err
	}
	return head+1 >= r.BlockNumber.Uint64()+confirmations, nil
}
