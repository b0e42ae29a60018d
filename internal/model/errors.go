package model

import "errors"

var (
	// ErrOutOfOrder means a disposal is dated before the acquisition it must be matched against.
	ErrOutOfOrder = errors.New("currency out transaction detected before currency in transaction")
	// ErrMissingPrice means a volume cannot be derived because the unit price is zero or absent.
	ErrMissingPrice = errors.New("missing fiat price")
	// ErrUnmatchedDisposal means disposals remain after every acquisition was consumed.
	ErrUnmatchedDisposal = errors.New("disposal exceeds acquired volume")
	// ErrUntrackedAsset means a buy or sell leg names a ticker outside the tracked universe.
	ErrUntrackedAsset = errors.New("untracked asset")
	// ErrNotTrade means a non-trade transaction was passed to Decompose.
	ErrNotTrade = errors.New("not a trade")
)
