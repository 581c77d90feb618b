package transfer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Mohsinsiddi/w3dash/internal/chain"
	"github.com/Mohsinsiddi/w3dash/internal/config"
	"github.com/Mohsinsiddi/w3dash/internal/contract"
	"github.com/Mohsinsiddi/w3dash/internal/logging"
)

// Observer receives every record change. It runs on the submitting
// goroutine and must not block.
type Observer func(Record)

// Workflow owns one transfer form: its input, balance snapshot and the
// record of the latest submission. It is safe for concurrent use; only one
// submission may be outstanding at a time.
type Workflow struct {
	backend        chain.Adapter
	asset          Asset
	log            *zap.Logger
	confirmTimeout time.Duration

	mu        sync.Mutex
	form      Request
	record    Record
	balance   *chain.Amount
	observers map[int]Observer
	nextObs   int
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(l *zap.Logger) Option {
	return func(w *Workflow) { w.log = logging.OrNop(l) }
}

// WithConfirmTimeout bounds how long a submitted transaction may stay
// pending before the record fails with chain.ErrConfirmTimeout.
func WithConfirmTimeout(d time.Duration) Option {
	return func(w *Workflow) { w.confirmTimeout = d }
}

// New creates an idle workflow for asset.
func New(backend chain.Adapter, asset Asset, opts ...Option) *Workflow {
	w := &Workflow{
		backend:        backend,
		asset:          asset,
		log:            zap.NewNop(),
		confirmTimeout: config.TxConfirmTimeout,
		observers:      map[int]Observer{},
	}
	for _, o := range opts {
		o(w)
	}
	w.log = w.log.With(zap.Stringer("asset", asset.Kind))
	return w
}

// Asset returns the asset this workflow acts on.
func (w *Workflow) Asset() Asset { return w.asset }

// Record returns a copy of the latest submission record.
func (w *Workflow) Record() Record {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.record
}

// Busy reports whether a submission is outstanding.
func (w *Workflow) Busy() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.record.State.Busy()
}

// Form returns the current input.
func (w *Workflow) Form() Request {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.form
}

// SetForm replaces the current input.
func (w *Workflow) SetForm(req Request) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.form = req
}

// Balance returns the last balance snapshot, or nil before the first refresh.
func (w *Workflow) Balance() *chain.Amount {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.balance == nil {
		return nil
	}
	b := chain.NewAmount(w.balance.Raw, w.balance.Decimals)
	return &b
}

// Observe registers fn for record changes. The returned func detaches it;
// changes after detaching are not delivered.
func (w *Workflow) Observe(fn Observer) (detach func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	id := w.nextObs
	w.nextObs++
	w.observers[id] = fn
	return func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		delete(w.observers, id)
	}
}

// Validate checks the current form against the current snapshot.
func (w *Workflow) Validate() (*Validated, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Validate(w.asset, w.form, w.balance)
}

// RefreshBalance re-reads the connected account's balance of the asset and
// stores it as the new snapshot.
func (w *Workflow) RefreshBalance(ctx context.Context) (chain.Amount, error) {
	account := w.backend.Account()
	var (
		bal chain.Amount
		err error
	)
	switch w.asset.Kind {
	case KindNative:
		raw, e := w.backend.NativeBalance(ctx, account)
		bal, err = chain.NewAmount(raw, w.asset.Decimals), e
	case KindNFT:
		raw, e := contract.NewERC721(w.backend, w.asset.Contract).BalanceOf(ctx, account)
		bal, err = chain.NewAmount(raw, 0), e
	default:
		bal, err = contract.NewToken(w.backend, w.asset.Contract).BalanceOf(ctx, account, w.asset.Decimals)
	}
	if err != nil {
		return chain.Amount{}, fmt.Errorf("reading balance: %w", err)
	}

	w.mu.Lock()
	w.balance = &bal
	w.mu.Unlock()
	return bal, nil
}

// Submit validates the form and, if valid, signs, broadcasts and waits for
// the transaction. Validation failures return an error wrapping
// ErrValidation and leave the record untouched. Submission and confirmation
// failures move the record to failed and return the underlying error.
// On confirmation the balance is refreshed and the form cleared before
// observers are notified.
func (w *Workflow) Submit(ctx context.Context) (Record, error) {
	w.mu.Lock()
	if w.record.State.Busy() {
		w.mu.Unlock()
		return Record{}, ErrBusy
	}
	v, err := Validate(w.asset, w.form, w.balance)
	if err != nil {
		w.mu.Unlock()
		return Record{}, err
	}
	req, err := w.buildTx(v)
	if err != nil {
		w.mu.Unlock()
		return Record{}, err
	}
	rec, err := w.apply(Submitted())
	w.mu.Unlock()
	if err != nil {
		return rec, err
	}
	w.notify(rec)

	w.log.Debug("submitting", zap.Stringer("to", req.To))
	hash, err := w.backend.SubmitTransaction(ctx, req)
	if err != nil {
		err = contract.DescribeRevert(err)
		w.log.Warn("submission rejected", zap.Error(err))
		return w.transition(Failed(err, nil))
	}

	rec, err = w.transition(Accepted(hash))
	if err != nil {
		return rec, err
	}
	w.log.Info("transaction accepted", zap.Stringer("hash", hash))

	wctx, cancel := context.WithTimeout(ctx, w.confirmTimeout)
	defer cancel()
	receipt, err := w.backend.WaitForConfirmation(wctx, hash)
	if err != nil {
		w.log.Warn("confirmation failed", zap.Stringer("hash", hash), zap.Error(err))
		return w.transition(Failed(err, receipt))
	}

	return w.confirm(ctx, receipt)
}

// confirm reconciles the snapshot and clears the form, then publishes the
// confirmed record. Both happen while the record is still pending
// confirmation, so Busy holds off a second submit until the snapshot is
// current. A failed refresh is logged and keeps the record confirmed.
func (w *Workflow) confirm(ctx context.Context, receipt *chain.TxReceipt) (Record, error) {
	if _, err := w.RefreshBalance(ctx); err != nil {
		w.log.Warn("balance refresh after confirmation failed", zap.Error(err))
	}

	w.mu.Lock()
	w.form = Request{}
	rec, err := w.apply(Confirmed(receipt))
	w.mu.Unlock()
	if err != nil {
		return rec, err
	}

	w.notify(rec)
	return rec, nil
}

// transition applies ev, notifies observers and returns the record. A
// failed event's error is returned to the caller as well.
func (w *Workflow) transition(ev Event) (Record, error) {
	w.mu.Lock()
	rec, err := w.apply(ev)
	w.mu.Unlock()
	if err != nil {
		return rec, err
	}
	w.notify(rec)
	if rec.State == StateFailed {
		return rec, rec.Err
	}
	return rec, nil
}

// apply must be called with mu held.
func (w *Workflow) apply(ev Event) (Record, error) {
	next, err := w.record.Apply(ev)
	if err != nil {
		return w.record, err
	}
	w.record = next
	return next, nil
}

func (w *Workflow) notify(rec Record) {
	w.mu.Lock()
	obs := make([]Observer, 0, len(w.observers))
	for _, fn := range w.observers {
		obs = append(obs, fn)
	}
	w.mu.Unlock()
	for _, fn := range obs {
		fn(rec)
	}
}

func (w *Workflow) buildTx(v *Validated) (chain.TxRequest, error) {
	switch w.asset.Kind {
	case KindNative:
		return chain.TxRequest{To: v.Recipient, Value: v.Amount, GasFallback: config.GasLimitETHTransfer}, nil
	case KindNFT:
		data, err := contract.NewERC721(w.backend, w.asset.Contract).
			SafeTransferFromData(w.backend.Account(), v.Recipient, v.TokenID)
		return chain.TxRequest{To: w.asset.Contract, Data: data, GasFallback: config.GasLimitNFTTransfer}, err
	}

	tok := contract.NewToken(w.backend, w.asset.Contract)
	var (
		data []byte
		err  error
		gas  = config.GasLimitERC20Transfer
	)
	switch w.asset.Kind {
	case KindToken:
		data, err = tok.TransferData(v.Recipient, v.Amount)
	case KindTokenApprove:
		data, err = tok.ApproveData(v.Recipient, v.Amount)
	case KindTokenMint:
		data, err = tok.MintData(v.Recipient, v.Amount)
		gas = config.GasLimitERC20Mint
	case KindTokenBurn:
		data, err = tok.BurnData(v.Amount)
	default:
		return chain.TxRequest{}, fmt.Errorf("unsupported asset kind %s", w.asset.Kind)
	}
	return chain.TxRequest{To: w.asset.Contract, Data: data, GasFallback: gas}, err
}
