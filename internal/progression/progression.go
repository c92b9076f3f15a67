// Package progression computes the next bet size from prior round outcomes.
// Every algorithm is a pure step: (state, result) in, (bet, state) out, so a
// run can replay or resume from any recorded state.
package progression

import (
	"errors"
	"math"

	"quant-casino/internal/game"
)

type Type string

const (
	Flat       Type = "flat"
	Martingale Type = "martingale"
	Paroli     Type = "paroli"
	Dalembert  Type = "dalembert"
	Fibonacci  Type = "fibonacci"
	Labouchere Type = "labouchere"
	Oscar      Type = "oscar"
	Kelly      Type = "kelly"
)

var ErrInsufficientFunds = errors.New("insufficient_funds")

var fibSeq = []int64{1, 1, 2, 3, 5, 8, 13, 21, 34, 55, 89, 144, 233, 377, 610, 987, 1597, 2584}

var labouchereDefaultLine = []int64{1, 2, 3, 4}

const (
	kellyWindow     = 20
	kellyMinSamples = 5
	kellyFraction   = 0.25
	kellyMaxShare   = 0.5
)

// Config describes one strategy's sizing behavior. Zero values fall back to
// the defaults applied in Next.
type Config struct {
	Type                 Type           `json:"type"`
	BaseAmount           int64          `json:"baseAmount"`
	MaxBet               int64          `json:"maxBet,omitempty"`
	MaxConsecutiveLosses int            `json:"maxConsecutiveLosses,omitempty"`
	MaxConsecutiveWins   int            `json:"maxConsecutiveWins,omitempty"`
	UnitStep             int64          `json:"unitStep,omitempty"`
	Target               float64        `json:"target,omitempty"`
	Condition            game.Condition `json:"condition,omitempty"`
}

// Limits are the platform bounds every computed bet is clamped into.
type Limits struct {
	MinBet    int64
	MaxBet    int64
	HouseEdge float64
}

// Result is the settled round the step reacts to.
type Result struct {
	Win       bool
	Payout    int64
	BetAmount int64
}

// State is the mutable position of one progression across rounds.
type State struct {
	Type              Type     `json:"type"`
	BaseAmount        int64    `json:"baseAmount"`
	CurrentBet        int64    `json:"currentBet"`
	ConsecutiveLosses int      `json:"consecutiveLosses"`
	ConsecutiveWins   int      `json:"consecutiveWins"`
	FibIndex          int      `json:"fibIndex"`
	LabouchereLine    []int64  `json:"labouchereLine"`
	OscarProfitTarget int64    `json:"oscarProfitTarget"`
	OscarProfit       int64    `json:"oscarProfit"`
	RecentResults     []bool   `json:"recentResults"`
}

// NewState seeds a progression at its base bet.
func NewState(cfg Config, limits Limits, balance int64) (State, error) {
	base := cfg.BaseAmount
	if base <= 0 {
		base = 10
	}
	base, err := clamp(base, cfg, limits, balance)
	if err != nil {
		return State{}, err
	}
	t := cfg.Type
	if t == "" {
		t = Flat
	}
	return State{
		Type:              t,
		BaseAmount:        base,
		CurrentBet:        base,
		LabouchereLine:    append([]int64(nil), labouchereDefaultLine...),
		OscarProfitTarget: 1,
	}, nil
}

// Next computes the following round's bet. A nil result (skipped or paused
// round) leaves the state untouched and re-clamps the current bet.
func (s State) Next(result *Result, cfg Config, limits Limits, balance int64) (int64, State, error) {
	if result == nil {
		bet, err := clamp(s.CurrentBet, cfg, limits, balance)
		return bet, s, err
	}

	next := s.clone()
	next.RecentResults = append(next.RecentResults, result.Win)
	if len(next.RecentResults) > kellyWindow {
		next.RecentResults = next.RecentResults[len(next.RecentResults)-kellyWindow:]
	}

	maxLosses := cfg.MaxConsecutiveLosses
	if maxLosses <= 0 {
		maxLosses = 10
	}
	maxWins := cfg.MaxConsecutiveWins
	if maxWins <= 0 {
		maxWins = 3
	}
	unitStep := cfg.UnitStep
	if unitStep <= 0 {
		unitStep = 1
	}
	strategyMax := cfg.MaxBet
	if strategyMax <= 0 {
		strategyMax = limits.MaxBet
	}
	base := s.BaseAmount
	win := result.Win

	switch s.Type {
	case Martingale:
		if win {
			next.reset(base)
			break
		}
		next.ConsecutiveLosses++
		if next.ConsecutiveLosses >= maxLosses {
			next.reset(base)
			break
		}
		next.CurrentBet = minInt64(s.CurrentBet*2, strategyMax)

	case Paroli:
		if !win {
			next.reset(base)
			break
		}
		next.ConsecutiveWins++
		if next.ConsecutiveWins >= maxWins {
			next.reset(base)
			break
		}
		next.CurrentBet = minInt64(s.CurrentBet*3, strategyMax)

	case Dalembert:
		unit := base * unitStep
		if win {
			next.CurrentBet = maxInt64(base, s.CurrentBet-unit)
		} else {
			next.CurrentBet = s.CurrentBet + unit
		}
		next.CurrentBet = minInt64(next.CurrentBet, strategyMax)

	case Fibonacci:
		if win {
			next.FibIndex = s.FibIndex - 2
			if next.FibIndex < 0 {
				next.FibIndex = 0
			}
		} else {
			next.FibIndex = s.FibIndex + 1
			if next.FibIndex >= len(fibSeq) {
				next.FibIndex = len(fibSeq) - 1
			}
		}
		next.CurrentBet = minInt64(base*fibSeq[next.FibIndex], strategyMax)

	case Labouchere:
		line := next.LabouchereLine
		if len(line) == 0 {
			next.LabouchereLine = append([]int64(nil), labouchereDefaultLine...)
			next.CurrentBet = base
			break
		}
		units := line[0] + line[len(line)-1]
		if win {
			trimmed := line[1 : len(line)-1]
			if len(trimmed) == 0 {
				next.LabouchereLine = append([]int64(nil), labouchereDefaultLine...)
			} else {
				next.LabouchereLine = append([]int64(nil), trimmed...)
			}
		} else {
			next.LabouchereLine = append(append([]int64(nil), line...), units)
		}
		next.CurrentBet = minInt64(base*units, strategyMax)

	case Oscar:
		unit := base * unitStep
		if !win {
			next.OscarProfit = 0
			next.OscarProfitTarget = 1
			next.CurrentBet = base
			break
		}
		next.OscarProfit++
		if next.OscarProfit >= next.OscarProfitTarget {
			next.OscarProfit = 0
			next.OscarProfitTarget = 1
			next.CurrentBet = base
		} else {
			next.CurrentBet = minInt64(s.CurrentBet+unit, strategyMax)
		}

	case Kelly:
		next.CurrentBet = kellyBet(next.RecentResults, cfg, limits, balance, base, strategyMax)

	default: // flat
		next.CurrentBet = base
	}

	bet, err := clamp(next.CurrentBet, cfg, limits, balance)
	return bet, next, err
}

// kellyBet sizes a quarter-kelly bet from the observed win rate over the
// rolling window. Too few samples or a non-positive edge fall back to base.
func kellyBet(results []bool, cfg Config, limits Limits, balance, base, strategyMax int64) int64 {
	if len(results) < kellyMinSamples {
		return base
	}
	wins := 0
	for _, w := range results {
		if w {
			wins++
		}
	}
	winRate := float64(wins) / float64(len(results))

	target := cfg.Target
	if target <= 0 {
		target = 50
	}
	condition := cfg.Condition
	if condition == "" {
		condition = game.Over
	}
	probability := target / 100
	if condition == game.Over {
		probability = (100 - target) / 100
	}
	if probability <= 0 {
		return base
	}
	odds := (1-limits.HouseEdge)/probability - 1
	if odds <= 0 {
		return base
	}
	edge := winRate*(1+odds) - 1
	if edge <= 0 {
		return base
	}
	fraction := math.Min(edge/odds*kellyFraction, kellyMaxShare)
	bet := int64(math.Floor(float64(balance) * fraction))
	return maxInt64(base, minInt64(bet, strategyMax))
}

// clamp bounds a bet to [minBet, min(maxBet, balance)]. When the balance
// cannot even cover the minimum bet the caller gets ErrInsufficientFunds
// instead of a silently shrunken bet.
func clamp(amount int64, cfg Config, limits Limits, balance int64) (int64, error) {
	upper := limits.MaxBet
	if cfg.MaxBet > 0 && cfg.MaxBet < upper {
		upper = cfg.MaxBet
	}
	if balance < upper {
		upper = balance
	}
	if upper < limits.MinBet {
		return 0, ErrInsufficientFunds
	}
	if amount < limits.MinBet {
		return limits.MinBet, nil
	}
	if amount > upper {
		return upper, nil
	}
	return amount, nil
}

func (s State) clone() State {
	out := s
	out.LabouchereLine = append([]int64(nil), s.LabouchereLine...)
	out.RecentResults = append([]bool(nil), s.RecentResults...)
	return out
}

func (s *State) reset(base int64) {
	s.CurrentBet = base
	s.ConsecutiveLosses = 0
	s.ConsecutiveWins = 0
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
