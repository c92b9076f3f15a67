// Package rules interprets declarative trigger/action rules over the running
// state of a strategy. Trigger and action kinds are closed enums evaluated by
// exhaustive switch, so adding a kind without handling it is visible at
// review instead of silently falling through at runtime.
package rules

import "quant-casino/internal/game"

type TriggerType string

const (
	// Basic win/loss.
	TriggerWin  TriggerType = "win"
	TriggerLoss TriggerType = "loss"

	// Streak-based.
	TriggerStreakWin         TriggerType = "streak_win"
	TriggerStreakLoss        TriggerType = "streak_loss"
	TriggerStreakWinAtLeast  TriggerType = "streak_win_at_least"
	TriggerStreakLossAtLeast TriggerType = "streak_loss_at_least"
	TriggerStreakWinExactly  TriggerType = "streak_win_exactly"
	TriggerStreakLossExactly TriggerType = "streak_loss_exactly"

	// Count-based.
	TriggerEveryNWins   TriggerType = "every_n_wins"
	TriggerEveryNLosses TriggerType = "every_n_losses"
	TriggerEveryNRounds TriggerType = "every_n_rounds"

	// Financial.
	TriggerProfitAbove      TriggerType = "profit_above"
	TriggerProfitBelow      TriggerType = "profit_below"
	TriggerLossAbove        TriggerType = "loss_above"
	TriggerLossBelow        TriggerType = "loss_below"
	TriggerBalanceAbove     TriggerType = "balance_above"
	TriggerBalanceBelow     TriggerType = "balance_below"
	TriggerBalancePctAbove  TriggerType = "balance_percent_above"
	TriggerBalancePctBelow  TriggerType = "balance_percent_below"
	TriggerBalancePctChange TriggerType = "balance_percent_change"

	// Win rate.
	TriggerWinRateAbove   TriggerType = "win_rate_above"
	TriggerWinRateBelow   TriggerType = "win_rate_below"
	TriggerWinRateExactly TriggerType = "win_rate_exactly"

	// Pattern-based.
	TriggerPatternWinLoss TriggerType = "pattern_win_loss"
	TriggerPatternLastN   TriggerType = "pattern_last_n"
	TriggerAlternating    TriggerType = "alternating_wins_losses"
	TriggerNoWinForN      TriggerType = "no_win_for_n"
	TriggerNoLossForN     TriggerType = "no_loss_for_n"

	// Comparative.
	TriggerTotalWinsEquals   TriggerType = "total_wins_equals"
	TriggerTotalLossesEquals TriggerType = "total_losses_equals"
	TriggerRoundsEquals      TriggerType = "rounds_equals"

	// Volatility.
	TriggerLastNWereWins   TriggerType = "last_n_were_wins"
	TriggerLastNWereLosses TriggerType = "last_n_were_losses"
	TriggerLastWasWin      TriggerType = "last_result_was_win"
	TriggerLastWasLoss     TriggerType = "last_result_was_loss"
)

type ActionType string

const (
	// Bet amount, percentage.
	ActionIncreaseBetPercent ActionType = "increase_bet_percent"
	ActionDecreaseBetPercent ActionType = "decrease_bet_percent"
	ActionMultiplyBet        ActionType = "multiply_bet"
	ActionDivideBet          ActionType = "divide_bet"

	// Bet amount, absolute.
	ActionIncreaseBetAbsolute ActionType = "increase_bet_absolute"
	ActionDecreaseBetAbsolute ActionType = "decrease_bet_absolute"
	ActionSetBetAbsolute      ActionType = "set_bet_absolute"
	ActionSetBetPctOfBalance  ActionType = "set_bet_percent_of_balance"
	ActionSetBetPctOfBase     ActionType = "set_bet_percent_of_base"

	// Bet amount, special.
	ActionResetBet  ActionType = "reset_bet"
	ActionDoubleBet ActionType = "double_bet"
	ActionHalveBet  ActionType = "halve_bet"
	ActionTripleBet ActionType = "triple_bet"
	ActionMaxBet    ActionType = "max_bet"
	ActionMinBet    ActionType = "min_bet"

	// Condition.
	ActionSwitchOverUnder ActionType = "switch_over_under"
	ActionSetOver         ActionType = "set_over"
	ActionSetUnder        ActionType = "set_under"
	ActionInvertTarget    ActionType = "invert_target"

	// Target.
	ActionSetTargetAbsolute ActionType = "set_target_absolute"
	ActionIncreaseTarget    ActionType = "increase_target"
	ActionDecreaseTarget    ActionType = "decrease_target"
	ActionDoubleTarget      ActionType = "double_target"
	ActionHalveTarget       ActionType = "halve_target"

	// Control flow.
	ActionStop          ActionType = "stop"
	ActionPauseNRounds  ActionType = "pause_n_rounds"
	ActionSkipNextBet   ActionType = "skip_next_bet"
	ActionResetAllRules ActionType = "reset_all_rules"

	// Cross-rule.
	ActionExecuteRule ActionType = "execute_rule"
	ActionEnableRule  ActionType = "enable_rule"
	ActionDisableRule ActionType = "disable_rule"
)

type ExecutionMode string

const (
	Sequential  ExecutionMode = "sequential"
	AllMatching ExecutionMode = "all_matching"
	// Priority mode behaves as sequential: rules are already a total order.
	Priority ExecutionMode = "priority"
)

type Trigger struct {
	Type    TriggerType `json:"type"`
	Value   float64     `json:"value,omitempty"`
	Value2  float64     `json:"value2,omitempty"`
	Pattern string      `json:"pattern,omitempty"`
}

type Action struct {
	Type         ActionType `json:"type"`
	Value        float64    `json:"value,omitempty"`
	TargetRuleID string     `json:"targetRuleId,omitempty"`
}

type Rule struct {
	ID             string  `json:"id"`
	Order          int     `json:"order"`
	Enabled        bool    `json:"enabled"`
	Name           string  `json:"name,omitempty"`
	Trigger        Trigger `json:"trigger"`
	Action         Action  `json:"action"`
	CooldownRounds int     `json:"cooldownRounds,omitempty"`
	MaxExecutions  int     `json:"maxExecutions,omitempty"`
}

// GlobalLimits are run-wide stop conditions independent of any rule. Pointer
// fields distinguish "unset" from a genuine zero threshold.
type GlobalLimits struct {
	MaxBet                  int64  `json:"maxBet,omitempty"`
	MinBet                  int64  `json:"minBet,omitempty"`
	MaxRounds               int    `json:"maxRounds,omitempty"`
	StopIfBalanceBelow      *int64 `json:"stopIfBalanceBelow,omitempty"`
	StopIfBalanceAbove      *int64 `json:"stopIfBalanceAbove,omitempty"`
	StopOnConsecutiveLosses int    `json:"stopOnConsecutiveLosses,omitempty"`
	StopOnConsecutiveWins   int    `json:"stopOnConsecutiveWins,omitempty"`
	StopOnProfitAbove       *int64 `json:"stopOnProfitAbove,omitempty"`
	StopOnLossAbove         *int64 `json:"stopOnLossAbove,omitempty"`
}

type BaseConfig struct {
	Amount    int64          `json:"amount"`
	Target    float64        `json:"target"`
	Condition game.Condition `json:"condition"`
}

// Strategy is one user-defined automation: base parameters, an ordered rule
// list, and global safety limits.
type Strategy struct {
	ID            string        `json:"id,omitempty"`
	Name          string        `json:"name"`
	Description   string        `json:"description,omitempty"`
	BaseConfig    BaseConfig    `json:"baseConfig"`
	Rules         []Rule        `json:"rules"`
	GlobalLimits  *GlobalLimits `json:"globalLimits,omitempty"`
	ExecutionMode ExecutionMode `json:"executionMode"`
}
