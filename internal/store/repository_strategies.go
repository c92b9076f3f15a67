package store

import "context"

func (s *Store) SaveStrategy(ctx context.Context, rec StrategyRecord) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO strategies (id, account_id, name, definition)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, definition = EXCLUDED.definition, updated_at = now()
		WHERE strategies.account_id = EXCLUDED.account_id`,
		rec.ID, rec.AccountID, rec.Name, rec.Definition)
	return err
}

func (s *Store) GetStrategy(ctx context.Context, id, accountID string) (StrategyRecord, error) {
	var rec StrategyRecord
	err := s.Pool.QueryRow(ctx, `
		SELECT id, account_id, name, definition, created_at, updated_at
		FROM strategies WHERE id = $1 AND account_id = $2`, id, accountID).
		Scan(&rec.ID, &rec.AccountID, &rec.Name, &rec.Definition, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return StrategyRecord{}, mapNotFound(err)
	}
	return rec, nil
}

func (s *Store) ListStrategies(ctx context.Context, accountID string, limit, offset int) ([]StrategyRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT id, account_id, name, definition, created_at, updated_at
		FROM strategies
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`,
		accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []StrategyRecord{}
	for rows.Next() {
		var rec StrategyRecord
		if err := rows.Scan(&rec.ID, &rec.AccountID, &rec.Name, &rec.Definition, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) DeleteStrategy(ctx context.Context, id, accountID string) error {
	tag, err := s.Pool.Exec(ctx,
		`DELETE FROM strategies WHERE id = $1 AND account_id = $2`, id, accountID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
