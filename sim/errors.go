package sim

import "errors"

// Trade validation failures. All are user-visible and recoverable; none
// leave partial state behind.
var (
	// ErrInvalidQuantity rejects non-positive trade quantities.
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")

	// ErrUnknownInstrument rejects names outside the registry.
	ErrUnknownInstrument = errors.New("unknown instrument")

	// ErrInsufficientFunds rejects a buy whose cost exceeds the balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInsufficientShares rejects a sell larger than the holding.
	ErrInsufficientShares = errors.New("insufficient shares")

	// ErrPersistence marks a failed save or mirror write. The in-memory
	// mutation stands; the next successful save reconciles the durable
	// copy.
	ErrPersistence = errors.New("persistence failure")
)
