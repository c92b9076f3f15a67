package store

import "time"

type Account struct {
	ID        string
	Name      string
	Balance   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

type LedgerEntry struct {
	ID        string
	AccountID string
	Type      string
	Amount    int64
	RefType   string
	RefID     string
	CreatedAt time.Time
}

// ServerSeed is the persisted commit-reveal secret. Secret leaves the
// database only after the seed is retired.
type ServerSeed struct {
	ID         string
	AccountID  string
	SeedHash   string
	Secret     string
	ClientSeed string
	NextNonce  int64
	Active     bool
	RevealedAt *time.Time
	CreatedAt  time.Time
}

type GameRound struct {
	ID            string
	AccountID     string
	GameType      string
	BetAmount     int64
	Win           bool
	Payout        int64
	ResultPayload []byte
	SeedID        string
	ClientSeed    string
	Nonce         int64
	CreatedAt     time.Time
}

// StrategyRecord stores a strategy definition as JSONB; the engine parses
// Definition into its rule types on load.
type StrategyRecord struct {
	ID         string
	AccountID  string
	Name       string
	Definition []byte
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
