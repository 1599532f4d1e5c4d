package db

import (
	"context"
	"fmt"
)

func (s *Store) RecordLookup(ctx context.Context, bookID int64, fen string, key uint64, matches int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO lookups (book_id, fen, key, matches) VALUES (?, ?, ?, ?)
	`, bookID, fen, fmt.Sprintf("%016x", key), matches)
	return err
}

func (s *Store) RecentLookups(ctx context.Context, limit int) ([]Lookup, error) {
	var out []Lookup
	err := s.db.SelectContext(ctx, &out, `
		SELECT l.id, l.looked_at, l.book_id, b.name AS book_name, l.fen, l.key, l.matches
		FROM lookups l
		JOIN books b ON b.id = l.book_id
		ORDER BY l.id DESC
		LIMIT ?
	`, limit)
	return out, err
}

func (s *Store) CountLookups(ctx context.Context) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM lookups`)
	return n, err
}

// PruneLookups keeps only the newest limit rows of the lookup log.
func (s *Store) PruneLookups(ctx context.Context, limit int) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM lookups
		WHERE id NOT IN (SELECT id FROM lookups ORDER BY id DESC LIMIT ?)
	`, limit)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
