package play

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"

	"quant-casino/internal/config"
	"quant-casino/internal/fair"
	"quant-casino/internal/game"
	"quant-casino/internal/ledger"
	"quant-casino/internal/rules"
	"quant-casino/internal/store"
	"quant-casino/internal/strategy"
)

// Service is the application layer: it owns the seed lifecycle, moves money
// through the ledger, and records every settled round.
type Service struct {
	store  *store.Store
	ledger *ledger.Ledger
	server config.ServerConfig
	game   config.GameConfig
	runner *strategy.Runner
}

func NewService(st *store.Store, serverCfg config.ServerConfig, gameCfg config.GameConfig) *Service {
	return &Service{
		store:  st,
		ledger: ledger.New(st),
		server: serverCfg,
		game:   gameCfg,
		runner: strategy.NewRunner(
			game.Limits{HouseEdge: gameCfg.HouseEdge, MaxMultiplier: gameCfg.MaxMultiplier},
			gameCfg.MinBet, gameCfg.MaxBet, gameCfg.MaxRoundsPerRun,
		),
	}
}

// roundDocument is the JSONB body persisted with every round. Bet keeps the
// original parameters so the round can be replayed from a revealed seed.
type roundDocument struct {
	Bet          json.RawMessage   `json:"bet"`
	Outcome      any               `json:"outcome"`
	Value        float64           `json:"value"`
	Push         bool              `json:"push,omitempty"`
	Verification game.Verification `json:"verification"`
}

func (s *Service) limits() game.Limits {
	return game.Limits{HouseEdge: s.game.HouseEdge, MaxMultiplier: s.game.MaxMultiplier}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*RegisterResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, ErrInvalidRequest
	}
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	apiKey := "qc_" + hex.EncodeToString(buf)
	id := store.NewID()
	if err := s.store.CreateAccount(ctx, id, store.HashAPIKey(apiKey), in.Name, s.server.InitialCredits); err != nil {
		return nil, err
	}
	return &RegisterResponse{AccountID: id, APIKey: apiKey, Balance: s.server.InitialCredits}, nil
}

func (s *Service) Balance(ctx context.Context, accountID string) (*BalanceResponse, error) {
	bal, err := s.store.GetAccountBalance(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &BalanceResponse{AccountID: accountID, Balance: bal}, nil
}

func (s *Service) TopUp(ctx context.Context, accountID string, amount int64) (*BalanceResponse, error) {
	if amount <= 0 {
		return nil, ErrInvalidRequest
	}
	bal, err := s.ledger.CreditTopUp(ctx, accountID, amount)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &BalanceResponse{AccountID: accountID, Balance: bal}, nil
}

func (s *Service) PlayDice(ctx context.Context, accountID string, bet game.DiceBet, clientSeed string) (*PlayResponse, error) {
	if err := bet.Validate(); err != nil {
		return nil, err
	}
	return s.playSingle(ctx, accountID, bet, clientSeed)
}

func (s *Service) PlayBlackjack(ctx context.Context, accountID string, bet game.BlackjackBet, clientSeed string) (*PlayResponse, error) {
	if err := bet.Validate(); err != nil {
		return nil, err
	}
	return s.playSingle(ctx, accountID, bet, clientSeed)
}

func (s *Service) PlayPlinko(ctx context.Context, accountID string, bet game.PlinkoBet, clientSeed string) (*PlayResponse, error) {
	if err := bet.Validate(); err != nil {
		return nil, err
	}
	return s.playSingle(ctx, accountID, bet, clientSeed)
}

func (s *Service) PlaySlots(ctx context.Context, accountID string, bet game.SlotsBet, clientSeed string) (*PlayResponse, error) {
	if err := bet.Validate(); err != nil {
		return nil, err
	}
	return s.playSingle(ctx, accountID, bet, clientSeed)
}

// playSingle settles one standalone round. The seed is single-use: created
// retired, so the secret can be returned with the outcome and the round is
// verifiable immediately.
func (s *Service) playSingle(ctx context.Context, accountID string, bet game.Bet, clientSeed string) (*PlayResponse, error) {
	if s.betAmount(bet) < s.game.MinBet || s.betAmount(bet) > s.game.MaxBet {
		return nil, game.ErrInvalidAmount
	}

	secret, err := fair.NewServerSeed()
	if err != nil {
		return nil, err
	}
	seed := store.ServerSeed{
		ID:         store.NewID(),
		AccountID:  accountID,
		SeedHash:   secret.Hash,
		Secret:     secret.Secret,
		ClientSeed: clientSeed,
		NextNonce:  int64(bet.DrawWidth()),
	}
	if err := s.store.CreateServerSeed(ctx, seed); err != nil {
		return nil, err
	}

	out, err := bet.Settle(fair.Drawer(secret.Secret, clientSeed, 0), s.limits())
	if err != nil {
		return nil, err
	}

	roundID := store.NewID()
	balance, err := s.ledger.SettleRound(ctx, accountID, roundID, s.betAmount(bet), out.Payout)
	if err != nil {
		if errors.Is(err, store.ErrInsufficientBalance) {
			return nil, ErrInsufficientFund
		}
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	verification := game.Verification{
		ServerSeedHash: secret.Hash,
		ClientSeed:     clientSeed,
		Nonce:          0,
		ServerSeed:     secret.Secret,
	}
	doc := roundDocument{
		Outcome:      out.Payload,
		Value:        out.Value,
		Push:         out.Push,
		Verification: verification,
	}
	doc.Bet, _ = json.Marshal(bet)
	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	if err := s.store.InsertGameRound(ctx, store.GameRound{
		ID:            roundID,
		AccountID:     accountID,
		GameType:      string(bet.Game()),
		BetAmount:     s.betAmount(bet),
		Win:           out.Win,
		Payout:        out.Payout,
		ResultPayload: payload,
		SeedID:        seed.ID,
		ClientSeed:    clientSeed,
		Nonce:         0,
	}); err != nil {
		return nil, err
	}

	return &PlayResponse{
		RoundID:      roundID,
		GameType:     bet.Game(),
		BetAmount:    s.betAmount(bet),
		Win:          out.Win,
		Push:         out.Push,
		Payout:       out.Payout,
		Balance:      balance,
		Outcome:      out.Payload,
		Verification: verification,
	}, nil
}

func (s *Service) betAmount(bet game.Bet) int64 {
	switch b := bet.(type) {
	case game.DiceBet:
		return b.Amount
	case game.BlackjackBet:
		return b.Amount
	case game.PlinkoBet:
		return b.Amount
	case game.SlotsBet:
		return b.Amount
	default:
		return 0
	}
}

// RotateSeed retires the account's active seed and installs a fresh one.
// Strategy runs settle against the active seed.
func (s *Service) RotateSeed(ctx context.Context, accountID, clientSeed string) (*SeedResponse, error) {
	secret, err := fair.NewServerSeed()
	if err != nil {
		return nil, err
	}
	seed := store.ServerSeed{
		ID:         store.NewID(),
		AccountID:  accountID,
		SeedHash:   secret.Hash,
		Secret:     secret.Secret,
		ClientSeed: clientSeed,
	}
	retiredID, err := s.store.RotateServerSeed(ctx, seed)
	if err != nil {
		return nil, err
	}
	return &SeedResponse{
		SeedID:        seed.ID,
		SeedHash:      secret.Hash,
		ClientSeed:    clientSeed,
		Active:        true,
		RetiredSeedID: retiredID,
	}, nil
}

func (s *Service) ActiveSeed(ctx context.Context, accountID string) (*SeedResponse, error) {
	seed, err := s.store.GetActiveServerSeed(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSeedNotFound
		}
		return nil, err
	}
	return &SeedResponse{
		SeedID:     seed.ID,
		SeedHash:   seed.SeedHash,
		ClientSeed: seed.ClientSeed,
		NextNonce:  seed.NextNonce,
		Active:     true,
	}, nil
}

// RevealSeed exposes a retired seed's secret so its rounds can be replayed.
func (s *Service) RevealSeed(ctx context.Context, accountID, seedID string) (*RevealResponse, error) {
	seed, err := s.store.GetServerSeed(ctx, seedID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSeedNotFound
		}
		return nil, err
	}
	if seed.AccountID != accountID {
		return nil, ErrSeedNotFound
	}
	revealed, err := s.store.RevealServerSeed(ctx, seedID)
	if err != nil {
		if errors.Is(err, store.ErrSeedActive) {
			return nil, ErrSeedStillActive
		}
		return nil, err
	}
	return &RevealResponse{
		SeedID:     revealed.ID,
		SeedHash:   revealed.SeedHash,
		ServerSeed: revealed.Secret,
		ClientSeed: revealed.ClientSeed,
		RevealedAt: revealed.RevealedAt,
	}, nil
}

// VerifyRound replays a recorded round from its seed and reports whether the
// recorded outcome matches. The seed must no longer be active.
func (s *Service) VerifyRound(ctx context.Context, accountID, roundID string) (*VerifyResponse, error) {
	round, err := s.store.GetGameRound(ctx, roundID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrRoundNotFound
		}
		return nil, err
	}
	if round.AccountID != accountID {
		return nil, ErrRoundNotFound
	}
	seed, err := s.store.GetServerSeed(ctx, round.SeedID)
	if err != nil {
		return nil, err
	}
	if seed.Active {
		return nil, ErrSeedStillActive
	}

	var doc roundDocument
	if err := json.Unmarshal(round.ResultPayload, &doc); err != nil {
		return nil, err
	}
	bet, err := decodeBet(game.Type(round.GameType), doc.Bet)
	if err != nil {
		return nil, err
	}

	valid, err := game.Verify(bet, seed.Secret, seed.SeedHash, round.ClientSeed, uint64(round.Nonce), s.limits(), game.Outcome{
		Value:  doc.Value,
		Win:    round.Win,
		Push:   doc.Push,
		Payout: round.Payout,
	})
	if err != nil {
		return nil, err
	}
	replayed, err := game.Replay(bet, seed.Secret, round.ClientSeed, uint64(round.Nonce), s.limits())
	if err != nil {
		return nil, err
	}
	resp := &VerifyResponse{RoundID: roundID, Valid: valid}
	resp.Replayed.Value = replayed.Value
	resp.Replayed.Win = replayed.Win
	resp.Replayed.Payout = replayed.Payout
	return resp, nil
}

func decodeBet(gameType game.Type, raw json.RawMessage) (game.Bet, error) {
	switch gameType {
	case game.TypeDice:
		var b game.DiceBet
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, err
		}
		return b, nil
	case game.TypeBlackjack:
		var b game.BlackjackBet
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, err
		}
		return b, nil
	case game.TypePlinko:
		var b game.PlinkoBet
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, err
		}
		return b, nil
	case game.TypeSlots:
		var b game.SlotsBet
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, game.ErrUnknownGame
	}
}

// RunStrategy executes an automated run against the account's active seed,
// creating one if the account has none. Every settled round is persisted and
// the balance moves through the ledger bet by bet.
func (s *Service) RunStrategy(ctx context.Context, accountID string, in RunInput) (*RunResponse, error) {
	st, err := s.resolveStrategy(ctx, accountID, in)
	if err != nil {
		return nil, err
	}
	base := game.DiceBet{
		Amount:    st.BaseConfig.Amount,
		Target:    st.BaseConfig.Target,
		Condition: st.BaseConfig.Condition,
	}
	if err := base.Validate(); err != nil {
		return nil, err
	}

	seed, err := s.store.GetActiveServerSeed(ctx, accountID)
	if errors.Is(err, store.ErrNotFound) {
		rotated, rerr := s.RotateSeed(ctx, accountID, in.ClientSeed)
		if rerr != nil {
			return nil, rerr
		}
		seed, err = s.store.GetServerSeed(ctx, rotated.SeedID)
	}
	if err != nil {
		return nil, err
	}

	balance, err := s.store.GetAccountBalance(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	exec := &ledgerExecutor{
		store:     s.store,
		accountID: accountID,
		seed:      seed,
		limits:    s.limits(),
	}
	result, err := s.runner.Run(ctx, exec, strategy.RunParams{
		Strategy:        st,
		Progression:     in.Progression,
		MaxRounds:       in.MaxRounds,
		StartingBalance: balance,
	})
	if err != nil {
		return nil, err
	}
	return &RunResponse{
		RunResult:  result,
		SeedID:     seed.ID,
		SeedHash:   seed.SeedHash,
		ClientSeed: seed.ClientSeed,
	}, nil
}

func (s *Service) resolveStrategy(ctx context.Context, accountID string, in RunInput) (*rules.Strategy, error) {
	if in.Strategy != nil {
		return in.Strategy, nil
	}
	if in.StrategyID == "" {
		return nil, ErrInvalidRequest
	}
	rec, err := s.store.GetStrategy(ctx, in.StrategyID, accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrStrategyNotFound
		}
		return nil, err
	}
	var st rules.Strategy
	if err := json.Unmarshal(rec.Definition, &st); err != nil {
		return nil, ErrInvalidRequest
	}
	st.ID = rec.ID
	return &st, nil
}

func (s *Service) SaveStrategy(ctx context.Context, accountID string, st *rules.Strategy) (*StrategyResponse, error) {
	if st == nil || strings.TrimSpace(st.Name) == "" {
		return nil, ErrInvalidRequest
	}
	base := game.DiceBet{
		Amount:    st.BaseConfig.Amount,
		Target:    st.BaseConfig.Target,
		Condition: st.BaseConfig.Condition,
	}
	if err := base.Validate(); err != nil {
		return nil, err
	}
	if st.ID == "" {
		st.ID = store.NewID()
	}
	definition, err := json.Marshal(st)
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveStrategy(ctx, store.StrategyRecord{
		ID:         st.ID,
		AccountID:  accountID,
		Name:       st.Name,
		Definition: definition,
	}); err != nil {
		return nil, err
	}
	rec, err := s.store.GetStrategy(ctx, st.ID, accountID)
	if err != nil {
		return nil, err
	}
	return strategyResponse(rec)
}

func (s *Service) GetStrategy(ctx context.Context, accountID, id string) (*StrategyResponse, error) {
	rec, err := s.store.GetStrategy(ctx, id, accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrStrategyNotFound
		}
		return nil, err
	}
	return strategyResponse(rec)
}

func (s *Service) ListStrategies(ctx context.Context, accountID string, limit, offset int) (*StrategyListResponse, error) {
	items, err := s.store.ListStrategies(ctx, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]StrategyResponse, 0, len(items))
	for _, rec := range items {
		resp, err := strategyResponse(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, *resp)
	}
	return &StrategyListResponse{Items: out, Limit: limit, Offset: offset}, nil
}

func (s *Service) DeleteStrategy(ctx context.Context, accountID, id string) error {
	err := s.store.DeleteStrategy(ctx, id, accountID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrStrategyNotFound
	}
	return err
}

func strategyResponse(rec store.StrategyRecord) (*StrategyResponse, error) {
	var st rules.Strategy
	if err := json.Unmarshal(rec.Definition, &st); err != nil {
		return nil, err
	}
	st.ID = rec.ID
	return &StrategyResponse{
		ID:        rec.ID,
		Name:      rec.Name,
		Strategy:  &st,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}, nil
}

func (s *Service) Rounds(ctx context.Context, accountID, gameType string, limit, offset int) (*RoundListResponse, error) {
	items, err := s.store.ListGameRounds(ctx, accountID, gameType, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]RoundItem, 0, len(items))
	for _, r := range items {
		var doc roundDocument
		_ = json.Unmarshal(r.ResultPayload, &doc)
		out = append(out, RoundItem{
			RoundID:      r.ID,
			GameType:     r.GameType,
			BetAmount:    r.BetAmount,
			Win:          r.Win,
			Payout:       r.Payout,
			Outcome:      doc.Outcome,
			Verification: doc.Verification,
			CreatedAt:    r.CreatedAt,
		})
	}
	return &RoundListResponse{Items: out, Limit: limit, Offset: offset}, nil
}

func (s *Service) Ledger(ctx context.Context, accountID string, limit, offset int) (*LedgerListResponse, error) {
	items, err := s.store.ListLedgerEntries(ctx, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]LedgerItem, 0, len(items))
	for _, e := range items {
		out = append(out, LedgerItem{
			ID:        e.ID,
			Type:      e.Type,
			Amount:    e.Amount,
			RefType:   e.RefType,
			RefID:     e.RefID,
			CreatedAt: e.CreatedAt,
		})
	}
	return &LedgerListResponse{Items: out, Limit: limit, Offset: offset}, nil
}
