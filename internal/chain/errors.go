package chain

import "errors"

var (
	// ErrChainNotFound is returned when a chain ID or name is not supported.
	ErrChainNotFound = errors.New("chain not found")
	// ErrReverted is returned when a mined transaction has status 0.
	ErrReverted = errors.New("transaction reverted")
	// ErrConfirmTimeout is returned when a transaction is not confirmed in time.
	ErrConfirmTimeout = errors.New("transaction not confirmed in time")
	// ErrInvalidAmount is returned for amounts that are not decimal numbers.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrTooManyDecimals is returned when an amount has more fractional digits
	// than the asset supports.
	ErrTooManyDecimals = errors.New("too many decimal places")
)
