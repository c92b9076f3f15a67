package store

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// CreateServerSeed inserts a new seed. Active seeds serve an account's
// strategy runs; per-bet seeds are inserted already retired.
func (s *Store) CreateServerSeed(ctx context.Context, seed ServerSeed) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO server_seeds (id, account_id, seed_hash, secret, client_seed, next_nonce, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		seed.ID, seed.AccountID, seed.SeedHash, seed.Secret, seed.ClientSeed, seed.NextNonce, seed.Active)
	return err
}

// RotateServerSeed retires the account's active seed (if any) and installs
// the new one in the same transaction, so there is never a moment with two
// active seeds.
func (s *Store) RotateServerSeed(ctx context.Context, seed ServerSeed) (retiredID string, err error) {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		UPDATE server_seeds SET active = FALSE
		WHERE account_id = $1 AND active
		RETURNING id`, seed.AccountID).Scan(&retiredID)
	if err != nil && err != pgx.ErrNoRows {
		return "", err
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO server_seeds (id, account_id, seed_hash, secret, client_seed, next_nonce, active)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE)`,
		seed.ID, seed.AccountID, seed.SeedHash, seed.Secret, seed.ClientSeed, seed.NextNonce); err != nil {
		return "", err
	}
	return retiredID, tx.Commit(ctx)
}

func (s *Store) GetServerSeed(ctx context.Context, id string) (ServerSeed, error) {
	var seed ServerSeed
	err := s.Pool.QueryRow(ctx, `
		SELECT id, account_id, seed_hash, secret, client_seed, next_nonce, active, revealed_at, created_at
		FROM server_seeds WHERE id = $1`, id).
		Scan(&seed.ID, &seed.AccountID, &seed.SeedHash, &seed.Secret, &seed.ClientSeed,
			&seed.NextNonce, &seed.Active, &seed.RevealedAt, &seed.CreatedAt)
	if err != nil {
		return ServerSeed{}, mapNotFound(err)
	}
	return seed, nil
}

func (s *Store) GetActiveServerSeed(ctx context.Context, accountID string) (ServerSeed, error) {
	var seed ServerSeed
	err := s.Pool.QueryRow(ctx, `
		SELECT id, account_id, seed_hash, secret, client_seed, next_nonce, active, revealed_at, created_at
		FROM server_seeds WHERE account_id = $1 AND active`, accountID).
		Scan(&seed.ID, &seed.AccountID, &seed.SeedHash, &seed.Secret, &seed.ClientSeed,
			&seed.NextNonce, &seed.Active, &seed.RevealedAt, &seed.CreatedAt)
	if err != nil {
		return ServerSeed{}, mapNotFound(err)
	}
	return seed, nil
}

// AdvanceSeedNonce reserves width nonces on a seed and returns the base of
// the reserved window.
func (s *Store) AdvanceSeedNonce(ctx context.Context, seedID string, width int64) (int64, error) {
	var base int64
	err := s.Pool.QueryRow(ctx, `
		UPDATE server_seeds SET next_nonce = next_nonce + $2
		WHERE id = $1
		RETURNING next_nonce - $2`, seedID, width).Scan(&base)
	if err != nil {
		return 0, mapNotFound(err)
	}
	return base, nil
}

// RevealServerSeed marks a retired seed as revealed and returns it with its
// secret. Revealing an active seed is a protocol violation.
func (s *Store) RevealServerSeed(ctx context.Context, id string) (ServerSeed, error) {
	seed, err := s.GetServerSeed(ctx, id)
	if err != nil {
		return ServerSeed{}, err
	}
	if seed.Active {
		return ServerSeed{}, ErrSeedActive
	}
	if seed.RevealedAt == nil {
		err := s.Pool.QueryRow(ctx, `
			UPDATE server_seeds SET revealed_at = now()
			WHERE id = $1 AND revealed_at IS NULL
			RETURNING revealed_at`, id).Scan(&seed.RevealedAt)
		if err != nil && err != pgx.ErrNoRows {
			return ServerSeed{}, err
		}
	}
	return seed, nil
}
