// internal/game/errors.go
package game

import "errors"

// Bet and deck errors, classified so the UI can offer the right recovery
// (retry vs. request a new deck). Locally detected preconditions never
// reach the gateway.
var (
	// ErrNoSelection means no card index was chosen.
	ErrNoSelection = errors.New("no card selected")

	// ErrInvalidAmount means the wager is missing, non-positive or outside
	// the configured min/max bounds.
	ErrInvalidAmount = errors.New("bet amount out of bounds")

	// ErrDeckExpired means the deck's validity window has closed, locally
	// (countdown hit zero) or as reported by the contract.
	ErrDeckExpired = errors.New("deck expired")

	// ErrInsufficientHouseBalance means the house cannot cover the maximum
	// payout for this wager; the bet is refused before any transaction so
	// the player does not pay gas for a bet the house cannot honor.
	ErrInsufficientHouseBalance = errors.New("house balance below max payout")

	// ErrUserRejected means the signing step was declined.
	ErrUserRejected = errors.New("transaction rejected by user")

	// ErrSubmissionFailed is the generic write-path failure (network, revert).
	ErrSubmissionFailed = errors.New("bet submission failed")

	// ErrOutcomeNotFound means the bet transaction mined but no outcome
	// record could be decoded. Funds may have moved; the result is
	// indeterminate and reported as such, never guessed.
	ErrOutcomeNotFound = errors.New("bet outcome not found in receipt")

	// ErrDeckRequestInFlight means a deck request is already pending; at
	// most one may be in flight at a time.
	ErrDeckRequestInFlight = errors.New("deck request already in flight")
)
