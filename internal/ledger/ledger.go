package ledger

import (
	"context"

	"quant-casino/internal/store"
)

type Ledger struct {
	Store *store.Store
}

func New(s *store.Store) *Ledger {
	return &Ledger{Store: s}
}

func (l *Ledger) DebitStake(ctx context.Context, accountID, roundID string, amount int64) (int64, error) {
	return l.Store.Debit(ctx, accountID, amount, "bet_debit", "round", roundID)
}

func (l *Ledger) CreditPayout(ctx context.Context, accountID, roundID string, amount int64) (int64, error) {
	return l.Store.Credit(ctx, accountID, amount, "payout_credit", "round", roundID)
}

// SettleRound applies the stake and payout in one transaction.
func (l *Ledger) SettleRound(ctx context.Context, accountID, roundID string, stake, payout int64) (int64, error) {
	return l.Store.Settle(ctx, accountID, stake, payout, "round", roundID)
}

func (l *Ledger) CreditTopUp(ctx context.Context, accountID string, amount int64) (int64, error) {
	return l.Store.Credit(ctx, accountID, amount, "admin_topup", "admin", "")
}
