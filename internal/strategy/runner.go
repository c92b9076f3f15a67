package strategy

import (
	"context"
	"errors"

	"quant-casino/internal/game"
	"quant-casino/internal/progression"
	"quant-casino/internal/rules"
)

// Run executes a strategy for up to min(params.MaxRounds, globalLimits
// maxRounds, hard cap) rounds. Cancellation is checked at the top of every
// iteration; a cancelled run still returns a valid result covering exactly
// the rounds completed so far. Only ErrInsufficientBalance from the
// executor is a stop condition; any other executor error aborts the run and
// is returned alongside the partial result.
func (r *Runner) Run(ctx context.Context, exec Executor, params RunParams) (RunResult, error) {
	st := params.Strategy
	limit := params.MaxRounds
	if limit <= 0 || limit > r.HardCap {
		limit = r.HardCap
	}
	if gl := st.GlobalLimits; gl != nil && gl.MaxRounds > 0 && gl.MaxRounds < limit {
		limit = gl.MaxRounds
	}

	state := rules.NewState(st, params.StartingBalance)
	balance := params.StartingBalance

	var progCfg progression.Config
	var progState progression.State
	var progLimits progression.Limits
	useProgression := params.Progression != nil
	if useProgression {
		progCfg = *params.Progression
		progLimits = progression.Limits{
			MinBet:    r.Bets.MinBet,
			MaxBet:    r.Bets.MaxBet,
			HouseEdge: r.Game.HouseEdge,
		}
		var err error
		progState, err = progression.NewState(progCfg, progLimits, balance)
		if err != nil {
			return RunResult{
				FinalBalance:  balance,
				StoppedReason: StopInsufficientBalance,
				Results:       []RoundRecord{},
			}, nil
		}
		state.CurrentBet = progState.CurrentBet
	}

	amount := state.CurrentBet
	target := state.CurrentTarget
	condition := state.CurrentCondition

	results := []RoundRecord{}
	var sessionPnl int64
	stoppedReason := StopMaxRounds

loop:
	for round := 1; round <= limit; round++ {
		select {
		case <-ctx.Done():
			stoppedReason = StopCancelled
			break loop
		default:
		}

		if state.SkipNextBet {
			state.SkipNextBet = false
			results = append(results, noopRecord(round, balance, target, condition))
			continue
		}
		if state.PausedRounds > 0 {
			state.PausedRounds--
			results = append(results, noopRecord(round, balance, target, condition))
			continue
		}

		bet := game.DiceBet{Amount: amount, Target: target, Condition: condition}
		settled, err := exec.PlaceBet(ctx, bet)
		if err != nil {
			if errors.Is(err, ErrInsufficientBalance) {
				stoppedReason = StopInsufficientBalance
				break
			}
			return runResult(results, sessionPnl, balance, stoppedReason, state), err
		}

		balance = settled.Balance
		sessionPnl += settled.Payout - amount

		if useProgression {
			progBet, nextProg, err := progState.Next(&progression.Result{
				Win:       settled.Win,
				Payout:    settled.Payout,
				BetAmount: amount,
			}, progCfg, progLimits, balance)
			if err != nil {
				// Record the settled round, then stop: the progression
				// cannot size a legal next bet from this balance.
				decision := rules.ProcessRound(st, state, ruleRound(settled, amount), r.Bets)
				results = append(results, settledRecord(round, settled, amount, target, condition, decision.ExecutedRules))
				state = decision.NewState
				stoppedReason = StopInsufficientBalance
				break
			}
			progState = nextProg
			state.CurrentBet = progBet
		}

		decision := rules.ProcessRound(st, state, ruleRound(settled, amount), r.Bets)
		results = append(results, settledRecord(round, settled, amount, target, condition, decision.ExecutedRules))

		state = decision.NewState
		amount = decision.NextBet
		target = decision.NextTarget
		condition = decision.NextCondition

		if reason := stopReason(decision, st.GlobalLimits, state, balance); reason != "" {
			stoppedReason = reason
			break
		}
	}

	return runResult(results, sessionPnl, balance, stoppedReason, state), nil
}

// stopReason evaluates the global stop conditions in their fixed priority
// order and returns the first that holds, or "".
func stopReason(decision rules.Decision, gl *rules.GlobalLimits, state rules.State, balance int64) string {
	if decision.ShouldStop {
		return StopRule
	}
	if gl == nil {
		return ""
	}
	if gl.StopIfBalanceBelow != nil && balance < *gl.StopIfBalanceBelow {
		return StopBalanceBelow
	}
	if gl.StopIfBalanceAbove != nil && balance >= *gl.StopIfBalanceAbove {
		return StopBalanceAbove
	}
	if gl.StopOnConsecutiveLosses > 0 && state.StreakLosses >= gl.StopOnConsecutiveLosses {
		return StopConsecutiveLosses
	}
	if gl.StopOnConsecutiveWins > 0 && state.StreakWins >= gl.StopOnConsecutiveWins {
		return StopConsecutiveWins
	}
	if gl.StopOnLossAbove != nil && state.SessionLoss >= *gl.StopOnLossAbove {
		return StopLossAbove
	}
	if gl.StopOnProfitAbove != nil && state.SessionProfit >= *gl.StopOnProfitAbove {
		return StopProfitAbove
	}
	return ""
}

func ruleRound(settled Round, amount int64) rules.Round {
	return rules.Round{
		Win:       settled.Win,
		Payout:    settled.Payout,
		Roll:      settled.Value,
		BetAmount: amount,
	}
}

func noopRecord(round int, balance int64, target float64, condition game.Condition) RoundRecord {
	return RoundRecord{
		Round:         round,
		Balance:       balance,
		Target:        target,
		Condition:     condition,
		ExecutedRules: []string{},
	}
}

func settledRecord(round int, settled Round, amount int64, target float64, condition game.Condition, executed []string) RoundRecord {
	return RoundRecord{
		Round:         round,
		OutcomeValue:  settled.Value,
		Win:           settled.Win,
		Payout:        settled.Payout,
		Balance:       settled.Balance,
		BetAmount:     amount,
		Target:        target,
		Condition:     condition,
		Nonce:         settled.Nonce,
		ExecutedRules: executed,
	}
}

func runResult(results []RoundRecord, sessionPnl, balance int64, reason string, state rules.State) RunResult {
	settled := 0
	for _, rec := range results {
		if rec.BetAmount > 0 {
			settled++
		}
	}
	winRate := 0.0
	if settled > 0 {
		winRate = float64(state.TotalWins) / float64(settled) * 100
	}
	return RunResult{
		Results:       results,
		SessionPnl:    sessionPnl,
		FinalBalance:  balance,
		RoundsPlayed:  len(results),
		StoppedReason: reason,
		TotalWins:     state.TotalWins,
		TotalLosses:   state.TotalLosses,
		WinRate:       winRate,
	}
}
