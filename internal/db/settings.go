package db

import (
	"context"
	"strconv"
)

func (s *Store) GetSettings(ctx context.Context) (Settings, error) {
	defaults := Settings{
		DefaultBookID:    0,
		ExplorerMaxMoves: 20,
		LookupLogLimit:   200,
	}
	rows := []struct {
		Key   string `db:"key"`
		Value string `db:"value"`
	}{}
	if err := s.db.SelectContext(ctx, &rows, `
		SELECT key, CAST(value AS TEXT) AS value
		FROM settings
	`); err != nil {
		return Settings{}, err
	}
	settings := defaults
	for _, row := range rows {
		switch row.Key {
		case "default_book_id":
			if v, err := strconv.ParseInt(row.Value, 10, 64); err == nil {
				settings.DefaultBookID = v
			}
		case "explorer_max_moves":
			if v, err := strconv.Atoi(row.Value); err == nil {
				settings.ExplorerMaxMoves = v
			}
		case "lookup_log_limit":
			if v, err := strconv.Atoi(row.Value); err == nil {
				settings.LookupLogLimit = v
			}
		}
	}
	return settings, nil
}

func (s *Store) UpdateSettings(ctx context.Context, settings Settings) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	upsert := `INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	if _, err = tx.ExecContext(ctx, upsert, "default_book_id", settings.DefaultBookID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, upsert, "explorer_max_moves", settings.ExplorerMaxMoves); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, upsert, "lookup_log_limit", settings.LookupLogLimit); err != nil {
		return err
	}

	return tx.Commit()
}
