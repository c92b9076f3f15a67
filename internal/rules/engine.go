package rules

import (
	"math"
	"sort"
	"strings"

	"quant-casino/internal/game"
)

const lastResultsWindow = 50

// Limits are the platform-wide bet bounds applied after strategy limits.
type Limits struct {
	MinBet int64
	MaxBet int64
}

// Round is the settled outcome fed into the interpreter.
type Round struct {
	Win       bool
	Payout    int64
	Roll      float64
	BetAmount int64
}

type RuleCounter struct {
	LastTriggeredRound int `json:"lastTriggeredRound"`
	ExecutionCount     int `json:"executionCount"`
}

// State is the interpreter's view of a run, updated once per settled round.
type State struct {
	TotalRounds  int `json:"totalRounds"`
	TotalWins    int `json:"totalWins"`
	TotalLosses  int `json:"totalLosses"`
	StreakWins   int `json:"streakWins"`
	StreakLosses int `json:"streakLosses"`

	SessionProfit int64 `json:"sessionProfit"`
	SessionLoss   int64 `json:"sessionLoss"`

	StartingBalance int64 `json:"startingBalance"`
	CurrentBalance  int64 `json:"currentBalance"`
	HighestBalance  int64 `json:"highestBalance"`
	LowestBalance   int64 `json:"lowestBalance"`

	RuleCounters map[string]RuleCounter `json:"ruleCounters"`
	// Enable/disable overrides set by cross-rule actions.
	RuleOverrides map[string]bool `json:"ruleOverrides,omitempty"`

	LastResults []bool `json:"lastResults"`

	CurrentBet       int64          `json:"currentBet"`
	BaseBet          int64          `json:"baseBet"`
	CurrentTarget    float64        `json:"currentTarget"`
	CurrentCondition game.Condition `json:"currentCondition"`

	PausedRounds int  `json:"pausedRounds"`
	SkipNextBet  bool `json:"skipNextBet"`
}

// Decision is the interpreter's output for one round: the next round's
// parameters plus which rules fired.
type Decision struct {
	NewState      State
	NextBet       int64
	NextTarget    float64
	NextCondition game.Condition
	ExecutedRules []string
	ShouldStop    bool
}

// NewState seeds interpreter state from a strategy and a starting balance.
func NewState(s *Strategy, balance int64) State {
	return State{
		StartingBalance:  balance,
		CurrentBalance:   balance,
		HighestBalance:   balance,
		LowestBalance:    balance,
		RuleCounters:     map[string]RuleCounter{},
		LastResults:      []bool{},
		CurrentBet:       s.BaseConfig.Amount,
		BaseBet:          s.BaseConfig.Amount,
		CurrentTarget:    s.BaseConfig.Target,
		CurrentCondition: s.BaseConfig.Condition,
	}
}

// ProcessRound folds one settled round into the state and evaluates the rule
// list. Later matching rules overwrite fields written by earlier ones in the
// same pass; a stop action short-circuits the rest of the pass. In
// sequential mode only the first matching rule runs.
func ProcessRound(strategy *Strategy, state State, round Round, limits Limits) Decision {
	next := state.clone()
	next.TotalRounds++
	next.CurrentBalance += round.Payout - round.BetAmount
	if p := next.SessionProfit + round.Payout - round.BetAmount; p > 0 {
		next.SessionProfit = p
	} else {
		next.SessionProfit = 0
	}
	if !round.Win {
		next.SessionLoss += round.BetAmount
	}
	next.LastResults = append(next.LastResults, round.Win)
	if len(next.LastResults) > lastResultsWindow {
		next.LastResults = next.LastResults[len(next.LastResults)-lastResultsWindow:]
	}
	next.SkipNextBet = false

	if round.Win {
		next.TotalWins++
		next.StreakWins = state.StreakWins + 1
		next.StreakLosses = 0
	} else {
		next.TotalLosses++
		next.StreakLosses = state.StreakLosses + 1
		next.StreakWins = 0
	}
	if next.CurrentBalance > next.HighestBalance {
		next.HighestBalance = next.CurrentBalance
	}
	if next.CurrentBalance < next.LowestBalance {
		next.LowestBalance = next.CurrentBalance
	}

	bet := float64(state.CurrentBet)
	target := state.CurrentTarget
	condition := state.CurrentCondition
	executed := []string{}
	stop := false

	for _, rule := range enabledRulesInOrder(strategy, next) {
		if !shouldTrigger(rule, next) {
			continue
		}
		stop = applyRule(rule, strategy, &next, &bet, &target, &condition, limits)
		executed = append(executed, rule.ID)
		if stop {
			break
		}
		if strategy.ExecutionMode == Sequential || strategy.ExecutionMode == Priority {
			break
		}
	}

	finalBet := clampBet(bet, strategy.GlobalLimits, limits)
	finalTarget := clampTarget(target)

	next.CurrentBet = finalBet
	next.CurrentTarget = finalTarget
	next.CurrentCondition = condition

	return Decision{
		NewState:      next,
		NextBet:       finalBet,
		NextTarget:    finalTarget,
		NextCondition: condition,
		ExecutedRules: executed,
		ShouldStop:    stop,
	}
}

// applyRule runs one rule's action, records its counters, and reports
// whether it requested a stop.
func applyRule(rule Rule, strategy *Strategy, state *State, bet, target *float64, condition *game.Condition, limits Limits) bool {
	stop := applyAction(rule.Action, strategy, state, bet, target, condition, limits, 0)

	counter := state.RuleCounters[rule.ID]
	counter.LastTriggeredRound = state.TotalRounds
	counter.ExecutionCount++
	state.RuleCounters[rule.ID] = counter
	return stop
}

func enabledRulesInOrder(strategy *Strategy, state State) []Rule {
	out := make([]Rule, 0, len(strategy.Rules))
	for _, r := range strategy.Rules {
		if state.ruleEnabled(r) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

func (s State) ruleEnabled(r Rule) bool {
	if override, ok := s.RuleOverrides[r.ID]; ok {
		return override
	}
	return r.Enabled
}

func shouldTrigger(rule Rule, state State) bool {
	if rule.CooldownRounds > 0 {
		if last := state.RuleCounters[rule.ID].LastTriggeredRound; last > 0 &&
			state.TotalRounds-last < rule.CooldownRounds {
			return false
		}
	}
	if rule.MaxExecutions > 0 && state.RuleCounters[rule.ID].ExecutionCount >= rule.MaxExecutions {
		return false
	}
	return evaluateTrigger(rule.Trigger, state)
}

func evaluateTrigger(trigger Trigger, state State) bool {
	value := trigger.Value
	if value == 0 {
		value = 1
	}
	n := int(value)
	var lastResult, haveLast bool
	if len(state.LastResults) > 0 {
		lastResult = state.LastResults[len(state.LastResults)-1]
		haveLast = true
	}

	switch trigger.Type {
	case TriggerWin, TriggerLastWasWin:
		return haveLast && lastResult
	case TriggerLoss, TriggerLastWasLoss:
		return haveLast && !lastResult

	case TriggerStreakWin, TriggerStreakWinAtLeast:
		return state.StreakWins >= n
	case TriggerStreakLoss, TriggerStreakLossAtLeast:
		return state.StreakLosses >= n
	case TriggerStreakWinExactly:
		return state.StreakWins == n
	case TriggerStreakLossExactly:
		return state.StreakLosses == n

	case TriggerEveryNWins:
		return state.TotalWins > 0 && state.TotalWins%n == 0
	case TriggerEveryNLosses:
		return state.TotalLosses > 0 && state.TotalLosses%n == 0
	case TriggerEveryNRounds:
		return state.TotalRounds%n == 0

	case TriggerProfitAbove:
		return float64(state.SessionProfit) > value
	case TriggerProfitBelow:
		return float64(state.SessionProfit) < value
	case TriggerLossAbove:
		return float64(state.SessionLoss) > value
	case TriggerLossBelow:
		return float64(state.SessionLoss) < value
	case TriggerBalanceAbove:
		return float64(state.CurrentBalance) > value
	case TriggerBalanceBelow:
		return float64(state.CurrentBalance) < value
	case TriggerBalancePctAbove:
		return balancePct(state) > value
	case TriggerBalancePctBelow:
		return -balancePct(state) > value
	case TriggerBalancePctChange:
		return math.Abs(balancePct(state)) >= value

	case TriggerWinRateAbove:
		return state.TotalRounds > 0 && winRate(state) > value
	case TriggerWinRateBelow:
		return state.TotalRounds > 0 && winRate(state) < value
	case TriggerWinRateExactly:
		return state.TotalRounds > 0 && math.Abs(winRate(state)-value) < 0.01

	case TriggerPatternWinLoss:
		return matchPattern(trigger.Pattern, state.LastResults)
	case TriggerPatternLastN:
		return lastNAllEqual(state.LastResults, n)
	case TriggerAlternating:
		return alternating(state.LastResults)
	case TriggerNoWinForN:
		return lastNAll(state.LastResults, n, false)
	case TriggerNoLossForN:
		return lastNAll(state.LastResults, n, true)

	case TriggerTotalWinsEquals:
		return state.TotalWins == n
	case TriggerTotalLossesEquals:
		return state.TotalLosses == n
	case TriggerRoundsEquals:
		return state.TotalRounds == n

	case TriggerLastNWereWins:
		return lastNAll(state.LastResults, n, true)
	case TriggerLastNWereLosses:
		return lastNAll(state.LastResults, n, false)
	}
	return false
}

// applyAction mutates the pending round parameters. Cross-rule actions
// recurse at most one level so a rule cannot chain into a loop.
func applyAction(action Action, strategy *Strategy, state *State, bet, target *float64, condition *game.Condition, limits Limits, depth int) bool {
	value := action.Value

	switch action.Type {
	case ActionIncreaseBetPercent:
		*bet *= 1 + value/100
	case ActionDecreaseBetPercent:
		*bet *= 1 - value/100
	case ActionMultiplyBet:
		*bet *= value
	case ActionDivideBet:
		if value == 0 {
			value = 1
		}
		*bet /= value

	case ActionIncreaseBetAbsolute:
		*bet += value
	case ActionDecreaseBetAbsolute:
		*bet = math.Max(float64(limits.MinBet), *bet-value)
	case ActionSetBetAbsolute:
		if value == 0 {
			value = float64(limits.MinBet)
		}
		*bet = value
	case ActionSetBetPctOfBalance:
		*bet = float64(state.CurrentBalance) * value / 100
	case ActionSetBetPctOfBase:
		*bet = float64(state.BaseBet) * value / 100

	case ActionResetBet:
		*bet = float64(state.BaseBet)
	case ActionDoubleBet:
		*bet *= 2
	case ActionHalveBet:
		*bet /= 2
	case ActionTripleBet:
		*bet *= 3
	case ActionMaxBet:
		*bet = float64(limits.MaxBet)
	case ActionMinBet:
		*bet = float64(limits.MinBet)

	case ActionSwitchOverUnder:
		if *condition == game.Over {
			*condition = game.Under
		} else {
			*condition = game.Over
		}
		*target = 99 - *target
	case ActionSetOver:
		*condition = game.Over
	case ActionSetUnder:
		*condition = game.Under

	case ActionSetTargetAbsolute:
		*target = math.Max(0, math.Min(99, value))
	case ActionIncreaseTarget:
		*target = math.Min(99, *target+value)
	case ActionDecreaseTarget:
		*target = math.Max(0, *target-value)
	case ActionInvertTarget:
		*target = 99 - *target
	case ActionDoubleTarget:
		*target = math.Min(99, *target*2)
	case ActionHalveTarget:
		*target = math.Floor(*target / 2)

	case ActionStop:
		return true
	case ActionPauseNRounds:
		state.PausedRounds = int(value)
	case ActionSkipNextBet:
		state.SkipNextBet = true
	case ActionResetAllRules:
		state.RuleCounters = map[string]RuleCounter{}

	case ActionExecuteRule:
		if depth == 0 {
			if other, ok := findRule(strategy, action.TargetRuleID); ok {
				return applyAction(other.Action, strategy, state, bet, target, condition, limits, depth+1)
			}
		}
	case ActionEnableRule:
		state.setRuleOverride(action.TargetRuleID, true)
	case ActionDisableRule:
		state.setRuleOverride(action.TargetRuleID, false)
	}
	return false
}

func (s *State) setRuleOverride(id string, enabled bool) {
	if id == "" {
		return
	}
	if s.RuleOverrides == nil {
		s.RuleOverrides = map[string]bool{}
	}
	s.RuleOverrides[id] = enabled
}

func findRule(strategy *Strategy, id string) (Rule, bool) {
	for _, r := range strategy.Rules {
		if r.ID == id {
			return r, true
		}
	}
	return Rule{}, false
}

func clampBet(bet float64, gl *GlobalLimits, limits Limits) int64 {
	if gl != nil {
		if gl.MaxBet > 0 && bet > float64(gl.MaxBet) {
			bet = float64(gl.MaxBet)
		}
		if gl.MinBet > 0 && bet < float64(gl.MinBet) {
			bet = float64(gl.MinBet)
		}
	}
	out := int64(math.Round(bet))
	if out < limits.MinBet {
		out = limits.MinBet
	}
	if out > limits.MaxBet {
		out = limits.MaxBet
	}
	return out
}

// clampTarget keeps targets on the integer grid [0, 99] the rule actions
// operate on.
func clampTarget(target float64) float64 {
	return math.Max(0, math.Min(99, math.Round(target)))
}

func balancePct(state State) float64 {
	if state.StartingBalance == 0 {
		return 0
	}
	return float64(state.CurrentBalance-state.StartingBalance) / float64(state.StartingBalance) * 100
}

func winRate(state State) float64 {
	return float64(state.TotalWins) / float64(state.TotalRounds) * 100
}

func matchPattern(pattern string, results []bool) bool {
	if pattern == "" || len(results) < len(pattern) {
		return false
	}
	recent := results[len(results)-len(pattern):]
	for i, ch := range strings.ToUpper(pattern) {
		if (ch == 'W') != recent[i] {
			return false
		}
	}
	return true
}

func lastNAllEqual(results []bool, n int) bool {
	if n <= 0 || len(results) < n {
		return false
	}
	recent := results[len(results)-n:]
	for _, r := range recent {
		if r != recent[0] {
			return false
		}
	}
	return true
}

func lastNAll(results []bool, n int, want bool) bool {
	if n <= 0 || len(results) < n {
		return false
	}
	for _, r := range results[len(results)-n:] {
		if r != want {
			return false
		}
	}
	return true
}

func alternating(results []bool) bool {
	if len(results) < 2 {
		return false
	}
	recent := results
	if len(recent) > 4 {
		recent = recent[len(recent)-4:]
	}
	for i := 1; i < len(recent); i++ {
		if recent[i] == recent[i-1] {
			return false
		}
	}
	return true
}

func (s State) clone() State {
	out := s
	out.RuleCounters = make(map[string]RuleCounter, len(s.RuleCounters))
	for k, v := range s.RuleCounters {
		out.RuleCounters[k] = v
	}
	if s.RuleOverrides != nil {
		out.RuleOverrides = make(map[string]bool, len(s.RuleOverrides))
		for k, v := range s.RuleOverrides {
			out.RuleOverrides[k] = v
		}
	}
	out.LastResults = append([]bool(nil), s.LastResults...)
	return out
}
