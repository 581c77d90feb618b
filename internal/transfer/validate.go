package transfer

import (
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Mohsinsiddi/w3dash/internal/chain"
)

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// Request is the raw form input for one transfer.
type Request struct {
	Recipient string
	Amount    string
	TokenID   string
}

// Validated is a request that passed validation, in on-chain units.
type Validated struct {
	Recipient common.Address
	Amount    *big.Int // smallest unit; nil for NFTs
	TokenID   *big.Int // NFTs only
}

// ParseAddress accepts exactly "0x" followed by 40 hex digits.
func ParseAddress(s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if !addressPattern.MatchString(s) {
		return common.Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	return common.HexToAddress(s), nil
}

// Validate checks req for asset against the balance snapshot. It performs
// no I/O. balance may be nil when it has not been loaded yet, which fails
// validation for assets that spend a balance.
func Validate(asset Asset, req Request, balance *chain.Amount) (*Validated, error) {
	var out Validated

	if asset.needsRecipient() {
		addr, err := ParseAddress(req.Recipient)
		if err != nil {
			return nil, err
		}
		out.Recipient = addr
	}

	if asset.Kind == KindNFT {
		id, err := ParseTokenID(req.TokenID)
		if err != nil {
			return nil, err
		}
		out.TokenID = id
		return &out, nil
	}

	d, err := chain.ParseAmount(req.Amount, asset.Decimals)
	switch {
	case errors.Is(err, chain.ErrTooManyDecimals):
		return nil, fmt.Errorf("%w: %q allows at most %d", ErrTooManyDecimals, req.Amount, asset.Decimals)
	case err != nil:
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, req.Amount)
	}
	if !d.IsPositive() {
		return nil, fmt.Errorf("%w: %s", ErrNonPositiveAmount, d)
	}

	if asset.fungible() {
		if balance == nil {
			return nil, ErrBalanceUnknown
		}
		if d.GreaterThan(balance.Decimal()) {
			return nil, fmt.Errorf("%w: requested %s, available %s", ErrInsufficientBalance, d, balance)
		}
	}

	out.Amount = chain.ToUnits(d, asset.Decimals)
	return &out, nil
}

// ParseTokenID accepts a non-negative base-10 or 0x-prefixed hex integer.
func ParseTokenID(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrMissingTokenID
	}
	base, digits := 10, s
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		base, digits = 16, s[2:]
	}
	id, ok := new(big.Int).SetString(digits, base)
	if !ok || digits == "" || id.Sign() < 0 || strings.ContainsAny(digits, "+-_") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTokenID, s)
	}
	return id, nil
}
