package contract

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Mohsinsiddi/w3dash/internal/chain"
)

// Token reads and builds calldata for the MinimalToken contract.
type Token struct {
	*Caller
}

// NewToken binds the token ABI to address.
func NewToken(r chain.Reader, address common.Address) *Token {
	return &Token{Caller: NewCaller(r, TokenABI, address)}
}

// TokenInfo bundles the token's static metadata and supply figures.
type TokenInfo struct {
	Address     common.Address
	Name        string
	Symbol      string
	Decimals    uint8
	TotalSupply chain.Amount
	MaxSupply   chain.Amount
}

func (t *Token) Name(ctx context.Context) (string, error) {
	return callOne[string](ctx, t.Caller, "name")
}

func (t *Token) Symbol(ctx context.Context) (string, error) {
	return callOne[string](ctx, t.Caller, "symbol")
}

func (t *Token) Decimals(ctx context.Context) (uint8, error) {
	return callOne[uint8](ctx, t.Caller, "decimals")
}

// Owner returns the Ownable owner (the only account allowed to mint).
func (t *Token) Owner(ctx context.Context) (common.Address, error) {
	return callOne[common.Address](ctx, t.Caller, "owner")
}

// TotalSupply returns the current supply scaled by decimals.
func (t *Token) TotalSupply(ctx context.Context, decimals uint8) (chain.Amount, error) {
	return t.amount(ctx, decimals, "totalSupply")
}

// MaxSupply returns the supply cap scaled by decimals.
func (t *Token) MaxSupply(ctx context.Context, decimals uint8) (chain.Amount, error) {
	return t.amount(ctx, decimals, "MAX_SUPPLY")
}

// BalanceOf returns the holder's balance scaled by decimals.
func (t *Token) BalanceOf(ctx context.Context, holder common.Address, decimals uint8) (chain.Amount, error) {
	return t.amount(ctx, decimals, "balanceOf", holder)
}

// Allowance returns how much spender may move on behalf of owner.
func (t *Token) Allowance(ctx context.Context, owner, spender common.Address, decimals uint8) (chain.Amount, error) {
	return t.amount(ctx, decimals, "allowance", owner, spender)
}

// Info reads name, symbol, decimals and both supply figures.
func (t *Token) Info(ctx context.Context) (*TokenInfo, error) {
	info := &TokenInfo{Address: t.Address()}
	var err error
	if info.Name, err = t.Name(ctx); err != nil {
		return nil, err
	}
	if info.Symbol, err = t.Symbol(ctx); err != nil {
		return nil, err
	}
	if info.Decimals, err = t.Decimals(ctx); err != nil {
		return nil, err
	}
	if info.TotalSupply, err = t.TotalSupply(ctx, info.Decimals); err != nil {
		return nil, err
	}
	if info.MaxSupply, err = t.MaxSupply(ctx, info.Decimals); err != nil {
		return nil, err
	}
	return info, nil
}

func (t *Token) amount(ctx context.Context, decimals uint8, method string, args ...interface{}) (chain.Amount, error) {
	raw, err := callOne[*big.Int](ctx, t.Caller, method, args...)
	if err != nil {
		return chain.Amount{}, err
	}
	return chain.NewAmount(raw, decimals), nil
}

// --- write calldata ---

func (t *Token) TransferData(to common.Address, amount *big.Int) ([]byte, error) {
	return t.Pack("transfer", to, amount)
}

func (t *Token) ApproveData(spender common.Address, amount *big.Int) ([]byte, error) {
	return t.Pack("approve", spender, amount)
}

func (t *Token) MintData(to common.Address, amount *big.Int) ([]byte, error) {
	return t.Pack("mint", to, amount)
}

func (t *Token) BurnData(amount *big.Int) ([]byte, error) {
	return t.Pack("burn", amount)
}
