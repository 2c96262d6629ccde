package models

import "errors"

var (
	// ErrInsufficientBankroll aborts staking once the bankroll drops below
	// the configured floor. No state is mutated when this is returned.
	ErrInsufficientBankroll = errors.New("insufficient bankroll")

	// ErrUnknownStrategy is returned by the dispatch surface for an
	// unrecognized strategy name.
	ErrUnknownStrategy = errors.New("unknown strategy")
)
