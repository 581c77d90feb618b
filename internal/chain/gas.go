package chain

import (
	"context"
	"math/big"

	"github.com/shopspring/decimal"
)

// Fees are the EIP-1559 fee caps used for a new transaction.
type Fees struct {
	TipCap *big.Int
	FeeCap *big.Int
}

// SuggestFees derives fee caps from the node's tip suggestion and the latest
// base fee. Chains without a base fee fall back to eth_gasPrice for both caps.
func (c *EVMClient) SuggestFees(ctx context.Context) (*Fees, error) {
	head, err := c.eth.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, err
	}
	if head.BaseFee == nil {
		gp, err := c.eth.SuggestGasPrice(ctx)
		if err != nil {
			return nil, err
		}
		return &Fees{TipCap: gp, FeeCap: gp}, nil
	}
	tip, err := c.eth.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, err
	}
	feeCap := new(big.Int).Mul(head.BaseFee, big.NewInt(2))
	feeCap.Add(feeCap, tip)
	return &Fees{TipCap: tip, FeeCap: feeCap}, nil
}

// GasPrice returns the node's legacy gas price suggestion in wei.
func (c *EVMClient) GasPrice(ctx context.Context) (*big.Int, error) {
	return c.eth.SuggestGasPrice(ctx)
}

// WeiToGwei converts a wei amount to gwei.
func WeiToGwei(wei *big.Int) decimal.Decimal {
	if wei == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(wei, -9)
}
