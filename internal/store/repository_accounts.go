package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

func (s *Store) CreateAccount(ctx context.Context, id, apiKeyHash, name string, initial int64) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO accounts (id, api_key_hash, name, balance)
		VALUES ($1, $2, $3, $4)`,
		id, apiKeyHash, name, initial)
	return err
}

func (s *Store) GetAccountByAPIKeyHash(ctx context.Context, apiKeyHash string) (Account, error) {
	var a Account
	err := s.Pool.QueryRow(ctx, `
		SELECT id, name, balance, created_at, updated_at
		FROM accounts WHERE api_key_hash = $1`,
		apiKeyHash).Scan(&a.ID, &a.Name, &a.Balance, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return Account{}, mapNotFound(err)
	}
	return a, nil
}

func (s *Store) GetAccountBalance(ctx context.Context, accountID string) (int64, error) {
	var bal int64
	err := s.Pool.QueryRow(ctx,
		`SELECT balance FROM accounts WHERE id = $1`, accountID).Scan(&bal)
	if err != nil {
		return 0, mapNotFound(err)
	}
	return bal, nil
}

// Debit locks the account row, checks funds, writes the new balance and a
// ledger row in one transaction. Returns the post-debit balance.
func (s *Store) Debit(ctx context.Context, accountID string, amount int64, entryType, refType, refID string) (int64, error) {
	if amount < 0 {
		return 0, errors.New("amount must be positive")
	}
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	bal, err := balanceForUpdate(ctx, tx, accountID)
	if err != nil {
		return 0, err
	}
	if bal < amount {
		return 0, ErrInsufficientBalance
	}
	newBal := bal - amount
	if err := applyBalance(ctx, tx, accountID, newBal, entryType, refType, refID, -amount); err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return newBal, nil
}

// Credit mirrors Debit without the funds check.
func (s *Store) Credit(ctx context.Context, accountID string, amount int64, entryType, refType, refID string) (int64, error) {
	if amount < 0 {
		return 0, errors.New("amount must be positive")
	}
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	bal, err := balanceForUpdate(ctx, tx, accountID)
	if err != nil {
		return 0, err
	}
	newBal := bal + amount
	if err := applyBalance(ctx, tx, accountID, newBal, entryType, refType, refID, amount); err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return newBal, nil
}

// Settle debits the stake and credits the payout as one atomic movement, so
// a crash between the two cannot strand a round half-applied.
func (s *Store) Settle(ctx context.Context, accountID string, stake, payout int64, refType, refID string) (int64, error) {
	if stake < 0 || payout < 0 {
		return 0, errors.New("amounts must be positive")
	}
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	bal, err := balanceForUpdate(ctx, tx, accountID)
	if err != nil {
		return 0, err
	}
	if bal < stake {
		return 0, ErrInsufficientBalance
	}
	newBal := bal - stake
	if err := applyBalance(ctx, tx, accountID, newBal, "bet_debit", refType, refID, -stake); err != nil {
		return 0, err
	}
	if payout > 0 {
		newBal += payout
		if err := applyBalance(ctx, tx, accountID, newBal, "payout_credit", refType, refID, payout); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return newBal, nil
}

func balanceForUpdate(ctx context.Context, tx pgx.Tx, accountID string) (int64, error) {
	var bal int64
	err := tx.QueryRow(ctx,
		`SELECT balance FROM accounts WHERE id = $1 FOR UPDATE`, accountID).Scan(&bal)
	if err != nil {
		return 0, mapNotFound(err)
	}
	return bal, nil
}

func applyBalance(ctx context.Context, tx pgx.Tx, accountID string, newBal int64, entryType, refType, refID string, delta int64) error {
	if _, err := tx.Exec(ctx, `
		UPDATE accounts SET balance = $1, updated_at = now() WHERE id = $2`,
		newBal, accountID); err != nil {
		return err
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO ledger_entries (id, account_id, type, amount, ref_type, ref_id)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		NewID(), accountID, entryType, delta, refType, refID)
	return err
}

func (s *Store) ListLedgerEntries(ctx context.Context, accountID string, limit, offset int) ([]LedgerEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT id, account_id, type, amount, ref_type, ref_id, created_at
		FROM ledger_entries
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`,
		accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []LedgerEntry{}
	for rows.Next() {
		var e LedgerEntry
		if err := rows.Scan(&e.ID, &e.AccountID, &e.Type, &e.Amount, &e.RefType, &e.RefID, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
