package nft

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/Mohsinsiddi/w3dash/internal/chain"
	"github.com/Mohsinsiddi/w3dash/internal/config"
	"github.com/Mohsinsiddi/w3dash/internal/contract"
	"github.com/Mohsinsiddi/w3dash/internal/logging"
)

// ErrNotEnumerable is returned when a contract does not expose the ERC-721
// enumerable ownership index.
var ErrNotEnumerable = errors.New("contract may not support ERC721Enumerable")

// Descriptor is one owned token ready for display.
type Descriptor struct {
	TokenID     *big.Int
	Name        string
	Image       string
	Description string
	Contract    common.Address
	TokenURI    string
}

// Result is the outcome of one enumeration.
type Result struct {
	Descriptors []Descriptor
	// Total is the owned count reported by the contract; it may exceed
	// len(Descriptors) because of the cap and skipped entries.
	Total   *big.Int
	Skipped int
}

// Capped reports whether the contract reported more tokens than were walked.
func (r *Result) Capped(limit int) bool {
	return r.Total != nil && r.Total.Cmp(big.NewInt(int64(limit))) > 0
}

// Enumerator walks an owner's tokens on an ERC-721 contract.
type Enumerator struct {
	reader   chain.Reader
	fetcher  *Fetcher
	limit    int
	log      *zap.Logger
	progress func(done, total int)
}

// Option configures an Enumerator.
type Option func(*Enumerator)

// WithFetcher replaces the metadata fetcher.
func WithFetcher(f *Fetcher) Option { return func(e *Enumerator) { e.fetcher = f } }

// WithLimit overrides the number of tokens walked.
func WithLimit(n int) Option { return func(e *Enumerator) { e.limit = n } }

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(l *zap.Logger) Option { return func(e *Enumerator) { e.log = logging.OrNop(l) } }

// WithProgress registers a callback invoked after each index.
func WithProgress(fn func(done, total int)) Option {
	return func(e *Enumerator) { e.progress = fn }
}

// NewEnumerator returns an Enumerator capped at config.MaxNFTs.
func NewEnumerator(r chain.Reader, opts ...Option) *Enumerator {
	e := &Enumerator{
		reader:  r,
		fetcher: NewFetcher("", nil),
		limit:   config.MaxNFTs,
		log:     zap.NewNop(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Limit returns the cap applied to each walk.
func (e *Enumerator) Limit() int { return e.limit }

// Enumerate lists up to Limit tokens owned by owner at contractAddr, in
// index order. Any failure for a single index skips that entry. The
// ERC-165 answer is only a hint: some collections misreport it, so a
// denial is confirmed by a failed lookup of index 0. A contract that
// cannot report the owned count, or fails every index lookup walked,
// yields ErrNotEnumerable.
func (e *Enumerator) Enumerate(ctx context.Context, owner, contractAddr common.Address) (*Result, error) {
	n := contract.NewERC721(e.reader, contractAddr)
	log := e.log.With(zap.Stringer("contract", contractAddr))

	count, err := n.BalanceOf(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotEnumerable, err)
	}
	res := &Result{Total: count}
	if count.Sign() == 0 {
		return res, nil
	}

	ok, err := n.SupportsInterface(ctx, contract.ERC721EnumerableID)
	denied := err == nil && !ok
	switch {
	case err != nil:
		log.Debug("supportsInterface unanswered; continuing", zap.Error(err))
	case denied:
		log.Debug("contract denies ERC721Enumerable; trying the index anyway")
	}

	walk := e.limit
	if count.IsInt64() && count.Int64() < int64(walk) {
		walk = int(count.Int64())
	}

	indexFailures := 0
	for i := 0; i < walk; i++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		d, err := e.describe(ctx, n, owner, i)
		if e.progress != nil {
			e.progress(i+1, walk)
		}
		if err != nil {
			var ie indexError
			if errors.As(err, &ie) {
				if denied && i == 0 {
					return nil, fmt.Errorf("%w: interface denied and index 0 failed: %v", ErrNotEnumerable, err)
				}
				indexFailures++
			}
			log.Debug("skipping token", zap.Int("index", i), zap.Error(err))
			res.Skipped++
			continue
		}
		res.Descriptors = append(res.Descriptors, *d)
	}

	if walk > 0 && indexFailures == walk {
		return nil, fmt.Errorf("%w: tokenOfOwnerByIndex failed for every index", ErrNotEnumerable)
	}
	return res, nil
}

// indexError marks a failed tokenOfOwnerByIndex lookup.
type indexError struct{ err error }

func (e indexError) Error() string { return e.err.Error() }
func (e indexError) Unwrap() error { return e.err }

func (e *Enumerator) describe(ctx context.Context, n *contract.ERC721, owner common.Address, index int) (*Descriptor, error) {
	id, err := n.TokenOfOwnerByIndex(ctx, owner, big.NewInt(int64(index)))
	if err != nil {
		return nil, indexError{err}
	}
	uri, err := n.TokenURI(ctx, id)
	if err != nil {
		return nil, err
	}

	d := &Descriptor{
		TokenID:  id,
		Name:     fallbackName(id),
		Contract: n.Address(),
		TokenURI: uri,
	}
	if uri == "" {
		return d, nil
	}

	fctx, cancel := context.WithTimeout(ctx, config.MetadataTimeout)
	defer cancel()
	md, err := e.fetcher.Fetch(fctx, uri)
	if err != nil {
		return nil, err
	}
	if md.Name != "" {
		d.Name = md.Name
	}
	d.Image = md.Image
	d.Description = md.Description
	return d, nil
}

func fallbackName(id *big.Int) string {
	return "Token #" + id.String()
}
