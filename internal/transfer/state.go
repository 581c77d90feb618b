package transfer

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Mohsinsiddi/w3dash/internal/chain"
)

// State is a transfer's lifecycle position.
type State int

const (
	StateIdle State = iota
	StatePendingSignature
	StatePendingConfirmation
	StateConfirmed
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePendingSignature:
		return "pending-signature"
	case StatePendingConfirmation:
		return "pending-confirmation"
	case StateConfirmed:
		return "confirmed"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Terminal reports whether no further events are expected.
func (s State) Terminal() bool { return s == StateConfirmed || s == StateFailed }

// Busy reports whether a submission or its confirmation wait is outstanding.
func (s State) Busy() bool { return s == StatePendingSignature || s == StatePendingConfirmation }

// EventKind enumerates the inputs of the state machine.
type EventKind int

const (
	EventSubmitted EventKind = iota
	EventAccepted
	EventConfirmed
	EventFailed
)

func (k EventKind) String() string {
	return [...]string{"submitted", "accepted", "confirmed", "failed"}[k]
}

// Event drives a Record from one state to the next.
type Event struct {
	Kind    EventKind
	Hash    common.Hash      // accepted
	Receipt *chain.TxReceipt // confirmed, or failed after mining
	Err     error            // failed
}

func Submitted() Event                   { return Event{Kind: EventSubmitted} }
func Accepted(h common.Hash) Event       { return Event{Kind: EventAccepted, Hash: h} }
func Confirmed(r *chain.TxReceipt) Event { return Event{Kind: EventConfirmed, Receipt: r} }
func Failed(err error, r *chain.TxReceipt) Event {
	return Event{Kind: EventFailed, Err: err, Receipt: r}
}

// Record is the observable outcome of one submission.
type Record struct {
	State   State
	Hash    common.Hash
	Receipt *chain.TxReceipt
	Err     error
}

// HasHash reports whether the node accepted the transaction.
func (r Record) HasHash() bool { return r.Hash != (common.Hash{}) }

// Apply returns the record after ev, or ErrInvalidTransition. A submit from
// a terminal state starts over from idle.
func (r Record) Apply(ev Event) (Record, error) {
	if ev.Kind == EventSubmitted && r.State.Terminal() {
		r = Record{}
	}

	switch {
	case r.State == StateIdle && ev.Kind == EventSubmitted:
		return Record{State: StatePendingSignature}, nil

	case r.State == StatePendingSignature && ev.Kind == EventAccepted:
		r.State = StatePendingConfirmation
		r.Hash = ev.Hash
		return r, nil

	case r.State == StatePendingConfirmation && ev.Kind == EventConfirmed:
		r.State = StateConfirmed
		r.Receipt = ev.Receipt
		return r, nil

	case r.State.Busy() && ev.Kind == EventFailed:
		r.State = StateFailed
		r.Err = ev.Err
		r.Receipt = ev.Receipt
		return r, nil
	}
	return r, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, ev.Kind, r.State)
}
