package play

import (
	"context"
	"encoding/json"
	"errors"

	"quant-casino/internal/fair"
	"quant-casino/internal/game"
	"quant-casino/internal/store"
	"quant-casino/internal/strategy"
)

// ledgerExecutor settles strategy-run bets against the database. Every bet
// reserves its nonce window on the session seed, moves the balance through
// one atomic settle, and leaves a game_rounds row behind.
type ledgerExecutor struct {
	store     *store.Store
	accountID string
	seed      store.ServerSeed
	limits    game.Limits
}

func (e *ledgerExecutor) PlaceBet(ctx context.Context, bet game.DiceBet) (strategy.Round, error) {
	base, err := e.store.AdvanceSeedNonce(ctx, e.seed.ID, int64(bet.DrawWidth()))
	if err != nil {
		return strategy.Round{}, err
	}
	nonce := uint64(base)

	out, err := bet.Settle(fair.Drawer(e.seed.Secret, e.seed.ClientSeed, nonce), e.limits)
	if err != nil {
		return strategy.Round{}, err
	}

	roundID := store.NewID()
	balance, err := e.store.Settle(ctx, e.accountID, bet.Amount, out.Payout, "round", roundID)
	if err != nil {
		if errors.Is(err, store.ErrInsufficientBalance) {
			return strategy.Round{}, strategy.ErrInsufficientBalance
		}
		return strategy.Round{}, err
	}

	doc := roundDocument{
		Outcome: out.Payload,
		Value:   out.Value,
		Push:    out.Push,
		Verification: game.Verification{
			ServerSeedHash: e.seed.SeedHash,
			ClientSeed:     e.seed.ClientSeed,
			Nonce:          nonce,
		},
	}
	doc.Bet, _ = json.Marshal(bet)
	payload, err := json.Marshal(doc)
	if err != nil {
		return strategy.Round{}, err
	}
	if err := e.store.InsertGameRound(ctx, store.GameRound{
		ID:            roundID,
		AccountID:     e.accountID,
		GameType:      string(bet.Game()),
		BetAmount:     bet.Amount,
		Win:           out.Win,
		Payout:        out.Payout,
		ResultPayload: payload,
		SeedID:        e.seed.ID,
		ClientSeed:    e.seed.ClientSeed,
		Nonce:         base,
	}); err != nil {
		return strategy.Round{}, err
	}

	return strategy.Round{
		Value:   out.Value,
		Win:     out.Win,
		Payout:  out.Payout,
		Balance: balance,
		Nonce:   nonce,
	}, nil
}
