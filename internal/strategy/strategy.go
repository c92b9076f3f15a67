// Package strategy drives automated runs: a sequential loop that places
// bets through an Executor, feeds every settled round into the progression
// engine and the rule interpreter, and enforces the global stop conditions.
package strategy

import (
	"context"
	"errors"

	"quant-casino/internal/game"
	"quant-casino/internal/progression"
	"quant-casino/internal/rules"
)

var ErrInsufficientBalance = errors.New("insufficient_balance")

// Stop reasons, reported in priority order when several are true at once.
const (
	StopInsufficientBalance = "insufficient_balance"
	StopRule                = "rule_stop"
	StopBalanceBelow        = "balance_below"
	StopBalanceAbove        = "balance_above"
	StopConsecutiveLosses   = "consecutive_losses"
	StopConsecutiveWins     = "consecutive_wins"
	StopLossAbove           = "loss_above"
	StopProfitAbove         = "profit_above"
	StopMaxRounds           = "max_rounds"
	StopCancelled           = "cancelled"
)

// Round is one settled bet as seen by the loop.
type Round struct {
	Value   float64
	Win     bool
	Payout  int64
	Balance int64
	Nonce   uint64
}

// Executor settles a single dice bet against a balance. Implementations
// must debit the stake and credit the payout atomically and return
// ErrInsufficientBalance when the stake cannot be covered.
type Executor interface {
	PlaceBet(ctx context.Context, bet game.DiceBet) (Round, error)
}

// RoundRecord is one entry of a run's audit trail. Skipped and paused
// rounds appear with a zero bet.
type RoundRecord struct {
	Round         int            `json:"round"`
	OutcomeValue  float64        `json:"outcomeValue"`
	Win           bool           `json:"win"`
	Payout        int64          `json:"payout"`
	Balance       int64          `json:"balance"`
	BetAmount     int64          `json:"betAmount"`
	Target        float64        `json:"target"`
	Condition     game.Condition `json:"condition"`
	Nonce         uint64         `json:"nonce,omitempty"`
	ExecutedRules []string       `json:"executedRules"`
}

// RunResult is the immutable summary of a finished (or cancelled) run.
type RunResult struct {
	Results       []RoundRecord `json:"results"`
	SessionPnl    int64         `json:"sessionPnl"`
	FinalBalance  int64         `json:"finalBalance"`
	RoundsPlayed  int           `json:"roundsPlayed"`
	StoppedReason string        `json:"stoppedReason"`
	TotalWins     int           `json:"totalWins"`
	TotalLosses   int           `json:"totalLosses"`
	WinRate       float64       `json:"winRate"`
}

// RunParams bundle everything one run needs. Progression is optional; when
// set it sizes the next bet before the rule pass, and rules that fire may
// overwrite it.
type RunParams struct {
	Strategy        *rules.Strategy
	Progression     *progression.Config
	MaxRounds       int
	StartingBalance int64
}

// Runner holds the platform constants shared by every run.
type Runner struct {
	Game    game.Limits
	Bets    rules.Limits
	HardCap int
}

func NewRunner(gameLimits game.Limits, minBet, maxBet int64, hardCap int) *Runner {
	return &Runner{
		Game:    gameLimits,
		Bets:    rules.Limits{MinBet: minBet, MaxBet: maxBet},
		HardCap: hardCap,
	}
}
