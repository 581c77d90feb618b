package chain

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is an on-chain quantity in the asset's smallest unit together with
// the decimal precision used to render it.
type Amount struct {
	Raw      *big.Int
	Decimals uint8
}

// NewAmount creates an Amount. A nil raw value is treated as zero.
func NewAmount(raw *big.Int, decimals uint8) Amount {
	if raw == nil {
		raw = new(big.Int)
	}
	return Amount{Raw: new(big.Int).Set(raw), Decimals: decimals}
}

// Decimal returns the human-readable value.
func (a Amount) Decimal() decimal.Decimal {
	raw := a.Raw
	if raw == nil {
		raw = new(big.Int)
	}
	return decimal.NewFromBigInt(raw, -int32(a.Decimals))
}

// String renders the human-readable value without trailing zeros.
func (a Amount) String() string {
	return a.Decimal().String()
}

// FormatUnits converts a smallest-unit integer to a decimal string.
func FormatUnits(raw *big.Int, decimals uint8) string {
	return NewAmount(raw, decimals).String()
}

// WeiToETH converts a wei amount to an ETH decimal string.
func WeiToETH(wei *big.Int) string { return FormatUnits(wei, 18) }

// ParseAmount parses a human-readable decimal string. The result must be
// representable with the given number of decimals.
func ParseAmount(s string, decimals uint8) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	shifted := d.Shift(int32(decimals))
	if !shifted.Equal(shifted.Truncate(0)) {
		return decimal.Zero, fmt.Errorf("%w: %q allows at most %d", ErrTooManyDecimals, s, decimals)
	}
	return d, nil
}

// ParseUnits converts a human-readable decimal string to the smallest unit.
func ParseUnits(s string, decimals uint8) (*big.Int, error) {
	d, err := ParseAmount(s, decimals)
	if err != nil {
		return nil, err
	}
	return ToUnits(d, decimals), nil
}

// ToUnits scales an already-validated decimal to the smallest unit.
func ToUnits(d decimal.Decimal, decimals uint8) *big.Int {
	return d.Shift(int32(decimals)).BigInt()
}
