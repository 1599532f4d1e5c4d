package db

import (
	"context"
	"database/sql"
	"errors"
)

func (s *Store) AddBook(ctx context.Context, name, path string, records int) (int64, error) {
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO books (name, path, records) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET path = excluded.path, records = excluded.records
	`, name, path, records); err != nil {
		return 0, err
	}
	// last_insert_rowid is not set on the conflict path, so resolve the
	// id by name either way.
	var id int64
	if err := s.db.GetContext(ctx, &id, `SELECT id FROM books WHERE name = ?`, name); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Store) GetBook(ctx context.Context, id int64) (Book, error) {
	var b Book
	err := s.db.GetContext(ctx, &b, `
		SELECT id, name, path, records, added_at FROM books WHERE id = ?
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Book{}, sql.ErrNoRows
	}
	return b, err
}

func (s *Store) ListBooks(ctx context.Context) ([]Book, error) {
	var out []Book
	err := s.db.SelectContext(ctx, &out, `
		SELECT id, name, path, records, added_at FROM books ORDER BY name
	`)
	return out, err
}

func (s *Store) DeleteBook(ctx context.Context, id int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) CountBooks(ctx context.Context) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM books`)
	return n, err
}
