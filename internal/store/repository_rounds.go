package store

import "context"

func (s *Store) InsertGameRound(ctx context.Context, r GameRound) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO game_rounds (id, account_id, game_type, bet_amount, win, payout, result_payload, seed_id, client_seed, nonce)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		r.ID, r.AccountID, r.GameType, r.BetAmount, r.Win, r.Payout, r.ResultPayload, r.SeedID, r.ClientSeed, r.Nonce)
	return err
}

func (s *Store) GetGameRound(ctx context.Context, id string) (GameRound, error) {
	var r GameRound
	err := s.Pool.QueryRow(ctx, `
		SELECT id, account_id, game_type, bet_amount, win, payout, result_payload, seed_id, client_seed, nonce, created_at
		FROM game_rounds WHERE id = $1`, id).
		Scan(&r.ID, &r.AccountID, &r.GameType, &r.BetAmount, &r.Win, &r.Payout,
			&r.ResultPayload, &r.SeedID, &r.ClientSeed, &r.Nonce, &r.CreatedAt)
	if err != nil {
		return GameRound{}, mapNotFound(err)
	}
	return r, nil
}

func (s *Store) ListGameRounds(ctx context.Context, accountID string, gameType string, limit, offset int) ([]GameRound, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT id, account_id, game_type, bet_amount, win, payout, result_payload, seed_id, client_seed, nonce, created_at
		FROM game_rounds
		WHERE account_id = $1 AND ($2 = '' OR game_type = $2)
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4`,
		accountID, gameType, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []GameRound{}
	for rows.Next() {
		var r GameRound
		if err := rows.Scan(&r.ID, &r.AccountID, &r.GameType, &r.BetAmount, &r.Win, &r.Payout,
			&r.ResultPayload, &r.SeedID, &r.ClientSeed, &r.Nonce, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
