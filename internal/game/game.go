// Package game holds the settlement modules. Each bet type settles as a pure
// function of its parameters and the draws it is given, so a round can be
// replayed exactly from a revealed seed.
package game

import (
	"errors"
	"math"

	"quant-casino/internal/fair"
)

type Type string

const (
	TypeDice      Type = "dice"
	TypeBlackjack Type = "blackjack"
	TypePlinko    Type = "plinko"
	TypeSlots     Type = "slots"
)

var (
	ErrInvalidTarget    = errors.New("invalid_target")
	ErrInvalidCondition = errors.New("invalid_condition")
	ErrInvalidRisk      = errors.New("invalid_risk")
	ErrInvalidAmount    = errors.New("invalid_amount")
	ErrUnknownGame      = errors.New("unknown_game")
)

// Limits are the platform constants shared by every round.
type Limits struct {
	HouseEdge     float64
	MaxMultiplier float64
}

// Outcome is the settled result of one round. Payout is gross: it includes
// the returned stake on a win or push.
type Outcome struct {
	Value   float64
	Win     bool
	Push    bool
	Payout  int64
	Payload any
}

// Bet is one playable round. DrawWidth is the number of nonces the round
// consumes; Settle must only read draws at offsets [0, DrawWidth).
type Bet interface {
	Game() Type
	DrawWidth() uint64
	Settle(draw fair.DrawFunc, limits Limits) (Outcome, error)
}

// clampPayout rounds to whole credits and caps at amount times the maximum
// multiplier.
func clampPayout(amount int64, payout float64, limits Limits) int64 {
	ceiling := float64(amount) * limits.MaxMultiplier
	if payout > ceiling {
		payout = ceiling
	}
	return int64(math.Round(payout))
}
