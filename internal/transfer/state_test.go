package transfer

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohsinsiddi/w3dash/internal/chain"
)

func TestLifecycleHappyPath(t *testing.T) {
	var r Record
	var err error
	hash := common.HexToHash("0x01")

	r, err = r.Apply(Submitted())
	require.NoError(t, err)
	assert.Equal(t, StatePendingSignature, r.State)
	assert.False(t, r.HasHash())

	r, err = r.Apply(Accepted(hash))
	require.NoError(t, err)
	assert.Equal(t, StatePendingConfirmation, r.State)
	assert.Equal(t, hash, r.Hash)

	receipt := &chain.TxReceipt{Status: 1}
	r, err = r.Apply(Confirmed(receipt))
	require.NoError(t, err)
	assert.Equal(t, StateConfirmed, r.State)
	assert.Same(t, receipt, r.Receipt)
	assert.True(t, r.State.Terminal())
}

func TestLifecycleFailureBeforeHash(t *testing.T) {
	r, _ := Record{}.Apply(Submitted())
	boom := errors.New("user rejected")
	r, err := r.Apply(Failed(boom, nil))
	require.NoError(t, err)
	assert.Equal(t, StateFailed, r.State)
	assert.Equal(t, boom, r.Err)
	assert.False(t, r.HasHash())
}

func TestLifecycleRejectsInvalidTransitions(t *testing.T) {
	cases := []struct {
		from State
		ev   Event
	}{
		{StateIdle, Accepted(common.Hash{1})},
		{StateIdle, Confirmed(nil)},
		{StateIdle, Failed(errors.New("x"), nil)},
		{StatePendingSignature, Submitted()},
		{StatePendingSignature, Confirmed(nil)},
		{StatePendingConfirmation, Submitted()},
		{StatePendingConfirmation, Accepted(common.Hash{1})},
		{StateConfirmed, Failed(errors.New("x"), nil)},
		{StateFailed, Confirmed(nil)},
	}
	for _, tc := range cases {
		r := Record{State: tc.from}
		got, err := r.Apply(tc.ev)
		assert.ErrorIs(t, err, ErrInvalidTransition, "%s on %s", tc.ev.Kind, tc.from)
		assert.Equal(t, tc.from, got.State)
	}
}

func TestLifecycleResubmitFromTerminalResets(t *testing.T) {
	for _, from := range []Record{
		{State: StateConfirmed, Hash: common.Hash{1}, Receipt: &chain.TxReceipt{}},
		{State: StateFailed, Err: errors.New("reverted")},
	} {
		r, err := from.Apply(Submitted())
		require.NoError(t, err)
		assert.Equal(t, Record{State: StatePendingSignature}, r)
	}
}

func TestStateStrings(t *testing.T) {
	assert.Equal(t, "pending-signature", StatePendingSignature.String())
	assert.Equal(t, "pending-confirmation", StatePendingConfirmation.String())
	assert.True(t, StatePendingConfirmation.Busy())
	assert.False(t, StateIdle.Busy())
	assert.Equal(t, "accepted", EventAccepted.String())
}
