package play

import "errors"

var (
	ErrInvalidRequest   = errors.New("invalid_request")
	ErrAccountNotFound  = errors.New("account_not_found")
	ErrRoundNotFound    = errors.New("round_not_found")
	ErrSeedNotFound     = errors.New("seed_not_found")
	ErrSeedStillActive  = errors.New("seed_still_active")
	ErrStrategyNotFound = errors.New("strategy_not_found")
	ErrInsufficientFund = errors.New("insufficient_balance")
)
