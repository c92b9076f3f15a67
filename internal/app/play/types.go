package play

import (
	"time"

	"quant-casino/internal/game"
	"quant-casino/internal/progression"
	"quant-casino/internal/rules"
	"quant-casino/internal/strategy"
)

type RegisterInput struct {
	Name string
}

type RegisterResponse struct {
	AccountID string `json:"accountId"`
	APIKey    string `json:"apiKey"`
	Balance   int64  `json:"balance"`
}

type BalanceResponse struct {
	AccountID string `json:"accountId"`
	Balance   int64  `json:"balance"`
}

// PlayResponse is the settled outcome of one single-round bet. The seed for
// a single round is born retired, so the server seed is revealed inline.
type PlayResponse struct {
	RoundID      string            `json:"roundId"`
	GameType     game.Type         `json:"gameType"`
	BetAmount    int64             `json:"betAmount"`
	Win          bool              `json:"win"`
	Push         bool              `json:"push,omitempty"`
	Payout       int64             `json:"payout"`
	Balance      int64             `json:"balance"`
	Outcome      any               `json:"outcome"`
	Verification game.Verification `json:"verification"`
}

type SeedResponse struct {
	SeedID        string `json:"seedId"`
	SeedHash      string `json:"seedHash"`
	ClientSeed    string `json:"clientSeed"`
	NextNonce     int64  `json:"nextNonce"`
	Active        bool   `json:"active"`
	RetiredSeedID string `json:"retiredSeedId,omitempty"`
}

type RevealResponse struct {
	SeedID     string     `json:"seedId"`
	SeedHash   string     `json:"seedHash"`
	ServerSeed string     `json:"serverSeed"`
	ClientSeed string     `json:"clientSeed"`
	RevealedAt *time.Time `json:"revealedAt"`
}

type VerifyResponse struct {
	RoundID  string `json:"roundId"`
	Valid    bool   `json:"valid"`
	Replayed struct {
		Value  float64 `json:"value"`
		Win    bool    `json:"win"`
		Payout int64   `json:"payout"`
	} `json:"replayed"`
}

// RunInput carries either an inline strategy or the ID of a stored one.
type RunInput struct {
	Strategy    *rules.Strategy     `json:"strategy,omitempty"`
	StrategyID  string              `json:"strategyId,omitempty"`
	Progression *progression.Config `json:"progression,omitempty"`
	MaxRounds   int                 `json:"maxRounds,omitempty"`
	ClientSeed  string              `json:"clientSeed,omitempty"`
}

type RunResponse struct {
	strategy.RunResult
	SeedID     string `json:"seedId"`
	SeedHash   string `json:"seedHash"`
	ClientSeed string `json:"clientSeed"`
}

type StrategyResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Strategy  *rules.Strategy `json:"strategy"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type StrategyListResponse struct {
	Items  []StrategyResponse `json:"items"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}

type RoundItem struct {
	RoundID      string            `json:"roundId"`
	GameType     string            `json:"gameType"`
	BetAmount    int64             `json:"betAmount"`
	Win          bool              `json:"win"`
	Payout       int64             `json:"payout"`
	Outcome      any               `json:"outcome"`
	Verification game.Verification `json:"verification"`
	CreatedAt    time.Time         `json:"createdAt"`
}

type RoundListResponse struct {
	Items  []RoundItem `json:"items"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
}

type LedgerItem struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Amount    int64     `json:"amount"`
	RefType   string    `json:"refType,omitempty"`
	RefID     string    `json:"refId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type LedgerListResponse struct {
	Items  []LedgerItem `json:"items"`
	Limit  int          `json:"limit"`
	Offset int          `json:"offset"`
}
