package transfer

import (
	"errors"
	"fmt"
)

// ErrValidation is wrapped by every input validation failure.
var ErrValidation = errors.New("invalid transfer request")

var (
	ErrInvalidAddress      = fmt.Errorf("%w: invalid address", ErrValidation)
	ErrInvalidAmount       = fmt.Errorf("%w: invalid amount", ErrValidation)
	ErrNonPositiveAmount   = fmt.Errorf("%w: amount must be greater than zero", ErrValidation)
	ErrTooManyDecimals     = fmt.Errorf("%w: too many decimal places", ErrValidation)
	ErrInsufficientBalance = fmt.Errorf("%w: insufficient balance", ErrValidation)
	ErrBalanceUnknown      = fmt.Errorf("%w: balance not loaded", ErrValidation)
	ErrMissingTokenID      = fmt.Errorf("%w: token ID required", ErrValidation)
	ErrInvalidTokenID      = fmt.Errorf("%w: invalid token ID", ErrValidation)
)

var (
	// ErrBusy is returned when a submission is already outstanding.
	ErrBusy = errors.New("a transfer is already in progress")
	// ErrInvalidTransition is returned for events the current state does not accept.
	ErrInvalidTransition = errors.New("invalid lifecycle transition")
)
