package play

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"quant-casino/internal/config"
	"quant-casino/internal/game"
	"quant-casino/internal/progression"
	"quant-casino/internal/rules"
	"quant-casino/internal/testutil"
)

func openService(t *testing.T) (*Service, context.Context, func()) {
	t.Helper()
	st, cleanup := testutil.OpenTestStore(t)
	serverCfg := config.ServerConfig{InitialCredits: 10000}
	gameCfg := config.GameConfig{
		HouseEdge:       0.01,
		MaxMultiplier:   1000,
		MinBet:          1,
		MaxBet:          10000,
		MaxRoundsPerRun: 100000,
	}
	return NewService(st, serverCfg, gameCfg), context.Background(), cleanup
}

func TestRegisterAndBalance(t *testing.T) {
	svc, ctx, cleanup := openService(t)
	defer cleanup()

	reg, err := svc.Register(ctx, RegisterInput{Name: "alice"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if reg.Balance != 10000 || reg.APIKey == "" {
		t.Fatalf("unexpected registration: %+v", reg)
	}

	bal, err := svc.Balance(ctx, reg.AccountID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if bal.Balance != 10000 {
		t.Fatalf("expected 10000, got %d", bal.Balance)
	}

	if _, err := svc.Register(ctx, RegisterInput{Name: "  "}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestPlayDiceSettlesAndVerifies(t *testing.T) {
	svc, ctx, cleanup := openService(t)
	defer cleanup()

	reg, err := svc.Register(ctx, RegisterInput{Name: "alice"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	resp, err := svc.PlayDice(ctx, reg.AccountID, game.DiceBet{
		Amount: 100, Target: 50, Condition: game.Over,
	}, "lucky")
	if err != nil {
		t.Fatalf("play dice: %v", err)
	}
	if resp.Verification.ServerSeed == "" {
		t.Fatal("single-round seed must be revealed inline")
	}
	wantBalance := 10000 - 100 + resp.Payout
	if resp.Balance != wantBalance {
		t.Fatalf("expected balance %d, got %d", wantBalance, resp.Balance)
	}

	// The per-bet seed is born retired, so the round verifies immediately.
	verify, err := svc.VerifyRound(ctx, reg.AccountID, resp.RoundID)
	if err != nil {
		t.Fatalf("verify round: %v", err)
	}
	if !verify.Valid {
		t.Fatalf("recorded round must replay valid: %+v", verify)
	}
	if verify.Replayed.Payout != resp.Payout {
		t.Fatalf("replayed payout %d != recorded %d", verify.Replayed.Payout, resp.Payout)
	}

	rounds, err := svc.Rounds(ctx, reg.AccountID, "dice", 10, 0)
	if err != nil {
		t.Fatalf("list rounds: %v", err)
	}
	if len(rounds.Items) != 1 || rounds.Items[0].RoundID != resp.RoundID {
		t.Fatalf("unexpected round history: %+v", rounds.Items)
	}
}

func TestPlayRejectsOutOfBoundsBet(t *testing.T) {
	svc, ctx, cleanup := openService(t)
	defer cleanup()

	reg, err := svc.Register(ctx, RegisterInput{Name: "alice"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err = svc.PlaySlots(ctx, reg.AccountID, game.SlotsBet{Amount: 20000}, "")
	if !errors.Is(err, game.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestRunStrategyPersistsRounds(t *testing.T) {
	svc, ctx, cleanup := openService(t)
	defer cleanup()

	reg, err := svc.Register(ctx, RegisterInput{Name: "alice"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	resp, err := svc.RunStrategy(ctx, reg.AccountID, RunInput{
		Strategy: &rules.Strategy{
			Name: "flat-ten",
			BaseConfig: rules.BaseConfig{
				Amount: 10, Target: 50, Condition: game.Over,
			},
			ExecutionMode: rules.Sequential,
		},
		Progression: &progression.Config{Type: progression.Flat, BaseAmount: 10},
		MaxRounds:   5,
		ClientSeed:  "session-seed",
	})
	if err != nil {
		t.Fatalf("run strategy: %v", err)
	}
	if resp.RoundsPlayed != 5 {
		t.Fatalf("expected 5 rounds, got %d", resp.RoundsPlayed)
	}
	if resp.SeedHash == "" || resp.ClientSeed != "session-seed" {
		t.Fatalf("unexpected seed info: %+v", resp)
	}

	rounds, err := svc.Rounds(ctx, reg.AccountID, "dice", 10, 0)
	if err != nil {
		t.Fatalf("list rounds: %v", err)
	}
	if len(rounds.Items) != 5 {
		t.Fatalf("expected 5 persisted rounds, got %d", len(rounds.Items))
	}

	bal, err := svc.Balance(ctx, reg.AccountID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if bal.Balance != resp.FinalBalance {
		t.Fatalf("ledger balance %d != run final balance %d", bal.Balance, resp.FinalBalance)
	}

	// A second run reuses the active session seed with advanced nonces.
	again, err := svc.RunStrategy(ctx, reg.AccountID, RunInput{
		Strategy: &rules.Strategy{
			Name: "flat-ten",
			BaseConfig: rules.BaseConfig{
				Amount: 10, Target: 50, Condition: game.Over,
			},
			ExecutionMode: rules.Sequential,
		},
		MaxRounds: 1,
	})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if again.SeedID != resp.SeedID {
		t.Fatalf("expected same session seed, got %s vs %s", again.SeedID, resp.SeedID)
	}
	if len(again.Results) != 1 || again.Results[0].Nonce != 5 {
		t.Fatalf("expected nonce 5 on round six, got %+v", again.Results)
	}
}

func TestStrategyRunBlockedOnActiveSeedReveal(t *testing.T) {
	svc, ctx, cleanup := openService(t)
	defer cleanup()

	reg, err := svc.Register(ctx, RegisterInput{Name: "alice"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	seed, err := svc.RotateSeed(ctx, reg.AccountID, "client")
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if _, err := svc.RevealSeed(ctx, reg.AccountID, seed.SeedID); !errors.Is(err, ErrSeedStillActive) {
		t.Fatalf("expected ErrSeedStillActive, got %v", err)
	}

	// Rotating retires the seed, after which reveal succeeds.
	next, err := svc.RotateSeed(ctx, reg.AccountID, "client-2")
	if err != nil {
		t.Fatalf("second rotate: %v", err)
	}
	if next.RetiredSeedID != seed.SeedID {
		t.Fatalf("expected retired %s, got %s", seed.SeedID, next.RetiredSeedID)
	}
	revealed, err := svc.RevealSeed(ctx, reg.AccountID, seed.SeedID)
	if err != nil {
		t.Fatalf("reveal retired seed: %v", err)
	}
	if revealed.ServerSeed == "" || revealed.RevealedAt == nil {
		t.Fatalf("unexpected reveal: %+v", revealed)
	}
}

func TestStrategyCRUDAndRunByID(t *testing.T) {
	svc, ctx, cleanup := openService(t)
	defer cleanup()

	reg, err := svc.Register(ctx, RegisterInput{Name: "alice"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	saved, err := svc.SaveStrategy(ctx, reg.AccountID, &rules.Strategy{
		Name: "stored",
		BaseConfig: rules.BaseConfig{
			Amount: 10, Target: 50, Condition: game.Over,
		},
		ExecutionMode: rules.Sequential,
	})
	if err != nil {
		t.Fatalf("save strategy: %v", err)
	}

	run, err := svc.RunStrategy(ctx, reg.AccountID, RunInput{StrategyID: saved.ID, MaxRounds: 2})
	if err != nil {
		t.Fatalf("run stored strategy: %v", err)
	}
	if run.RoundsPlayed != 2 {
		t.Fatalf("expected 2 rounds, got %d", run.RoundsPlayed)
	}

	list, err := svc.ListStrategies(ctx, reg.AccountID, 10, 0)
	if err != nil {
		t.Fatalf("list strategies: %v", err)
	}
	if len(list.Items) != 1 {
		t.Fatalf("expected 1 strategy, got %d", len(list.Items))
	}

	if err := svc.DeleteStrategy(ctx, reg.AccountID, saved.ID); err != nil {
		t.Fatalf("delete strategy: %v", err)
	}
	if _, err := svc.GetStrategy(ctx, reg.AccountID, saved.ID); !errors.Is(err, ErrStrategyNotFound) {
		t.Fatalf("expected ErrStrategyNotFound, got %v", err)
	}
	if _, err := svc.RunStrategy(ctx, reg.AccountID, RunInput{StrategyID: saved.ID}); !errors.Is(err, ErrStrategyNotFound) {
		t.Fatalf("expected ErrStrategyNotFound for run, got %v", err)
	}
}

func TestDecodeBetRejectsUnknownGame(t *testing.T) {
	if _, err := decodeBet(game.Type("roulette"), json.RawMessage(`{}`)); !errors.Is(err, game.ErrUnknownGame) {
		t.Fatalf("expected ErrUnknownGame, got %v", err)
	}
}
