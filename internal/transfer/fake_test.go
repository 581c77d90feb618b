package transfer

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Mohsinsiddi/w3dash/internal/chain"
	"github.com/Mohsinsiddi/w3dash/internal/contract"
)

// fakeBackend is an in-memory chain.Adapter. It records every call so tests
// can assert that validation failures never reach the network.
type fakeBackend struct {
	mu sync.Mutex

	account   common.Address
	native    *big.Int
	balanceOf *big.Int // token or NFT balanceOf result

	submitErr error
	waitErr   error
	readErr   error
	receipt   *chain.TxReceipt
	hold      chan struct{} // WaitForConfirmation blocks until closed
	readHold  chan struct{} // NativeBalance blocks until closed
	reading   chan struct{} // signalled when NativeBalance starts blocking
	onSubmit  func(chain.TxRequest)

	calls     int
	submitted []chain.TxRequest
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		account:   common.HexToAddress("0xaAaAaAaaAaAaAaaAaAAAAAAAAaaaAaAaAaaAaaAa"),
		native:    big.NewInt(0),
		balanceOf: big.NewInt(0),
	}
}

func (f *fakeBackend) Account() common.Address { return f.account }

func (f *fakeBackend) NativeBalance(ctx context.Context, _ common.Address) (*big.Int, error) {
	f.mu.Lock()
	f.calls++
	hold, reading := f.readHold, f.reading
	f.mu.Unlock()
	if hold != nil {
		if reading != nil {
			reading <- struct{}{}
		}
		select {
		case <-hold:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return nil, f.readErr
	}
	return new(big.Int).Set(f.native), nil
}

func (f *fakeBackend) ReadCall(_ context.Context, _ common.Address, data []byte) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.readErr != nil {
		return nil, f.readErr
	}
	m, err := contract.TokenABI.MethodById(data[:4])
	if err != nil || m.Name != "balanceOf" {
		return nil, errors.New("execution reverted")
	}
	return m.Outputs.Pack(new(big.Int).Set(f.balanceOf))
}

func (f *fakeBackend) SubmitTransaction(_ context.Context, req chain.TxRequest) (common.Hash, error) {
	f.mu.Lock()
	f.calls++
	f.submitted = append(f.submitted, req)
	err, hook := f.submitErr, f.onSubmit
	f.mu.Unlock()
	if err != nil {
		return common.Hash{}, err
	}
	if hook != nil {
		hook(req)
	}
	return common.HexToHash("0xfeed"), nil
}

func (f *fakeBackend) WaitForConfirmation(ctx context.Context, hash common.Hash) (*chain.TxReceipt, error) {
	f.mu.Lock()
	f.calls++
	hold, err, r := f.hold, f.waitErr, f.receipt
	f.mu.Unlock()
	if hold != nil {
		select {
		case <-hold:
		case <-ctx.Done():
			return nil, chain.ErrConfirmTimeout
		}
	}
	if r == nil {
		r = &chain.TxReceipt{Hash: hash.Hex(), Status: 1, BlockNumber: 10, GasUsed: 21000}
	}
	if err != nil {
		return r, err
	}
	return r, nil
}

func (f *fakeBackend) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func eth(s string) *big.Int {
	v, err := chain.ParseUnits(s, 18)
	if err != nil {
		panic(err)
	}
	return v
}
