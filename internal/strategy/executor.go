package strategy

import (
	"context"

	"quant-casino/internal/fair"
	"quant-casino/internal/game"
)

// MemoryExecutor settles bets against an in-memory balance using one fair
// session. It backs offline simulation and tests; nothing is persisted.
type MemoryExecutor struct {
	session *fair.Session
	limits  game.Limits
	balance int64
}

func NewMemoryExecutor(secret, clientSeed string, balance int64, limits game.Limits) *MemoryExecutor {
	return &MemoryExecutor{
		session: fair.NewSession(secret, clientSeed),
		limits:  limits,
		balance: balance,
	}
}

func (m *MemoryExecutor) Balance() int64 { return m.balance }

func (m *MemoryExecutor) PlaceBet(ctx context.Context, bet game.DiceBet) (Round, error) {
	if m.balance < bet.Amount {
		return Round{}, ErrInsufficientBalance
	}
	nonce := m.session.Nonce()
	out, err := bet.Settle(m.session.Drawer(), m.limits)
	if err != nil {
		return Round{}, err
	}
	m.session.Advance(bet.DrawWidth())
	m.balance += out.Payout - bet.Amount
	return Round{
		Value:   out.Value,
		Win:     out.Win,
		Payout:  out.Payout,
		Balance: m.balance,
		Nonce:   nonce,
	}, nil
}
