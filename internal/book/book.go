package book

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/notnil/chess"
)

// Book is a Polyglot opening book backed by a file on disk. Unlike the
// underlying Reader, a Book is safe for concurrent use: lookups are
// serialized over the shared file cursor.
type Book struct {
	mu sync.Mutex
	f  *os.File
	r  *Reader
}

// Load opens a book file. The returned Book holds the file open until
// Close is called.
func Load(path string) (*Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open book: %w", err)
	}
	r, err := NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("load book %s: %w", path, err)
	}
	return &Book{f: f, r: r}, nil
}

// Close releases the underlying file. It waits for any in-flight
// lookup to finish before closing.
func (b *Book) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.f.Close()
}

// Len returns the total number of records in the book.
func (b *Book) Len() int {
	return b.r.Len()
}

// MoveWeight is one candidate book move for a position.
type MoveWeight struct {
	UCI    string
	Weight int
}

// Moves returns the book's candidates for pos, heaviest first.
func (b *Book) Moves(pos *chess.Position) ([]MoveWeight, error) {
	b.mu.Lock()
	entries, err := b.r.Find(KeyFromPosition(pos))
	b.mu.Unlock()
	if err != nil {
		return nil, err
	}
	moves := make([]MoveWeight, 0, len(entries))
	for _, e := range entries {
		moves = append(moves, MoveWeight{UCI: e.Move.UCI(), Weight: int(e.Weight)})
	}
	sort.SliceStable(moves, func(i, j int) bool {
		return moves[i].Weight > moves[j].Weight
	})
	return moves, nil
}

// Lookup returns the heaviest book move for pos, if the position is in
// the book.
func (b *Book) Lookup(pos *chess.Position) (string, bool) {
	moves, err := b.Moves(pos)
	if err != nil || len(moves) == 0 {
		return "", false
	}
	return moves[0].UCI, true
}
