package lines

import (
	"context"
	"sort"
	"strings"

	"github.com/notnil/chess"
	"golang.org/x/sync/errgroup"

	"polybook/internal/book"
)

// Line is one opening line read out of a book: the move sequence from
// the starting position and the weight of its final move.
type Line struct {
	Moves  []string
	Weight int
}

func (l Line) String() string {
	return strings.Join(l.Moves, " ")
}

// Walker expands every book line from a starting position, depth-first,
// bounded by MaxPlies and MinWeight. Each first move's subtree is walked
// by its own goroutine over its own file handle, so walkers never share
// a seek cursor.
type Walker struct {
	Path      string
	MaxPlies  int
	MinWeight int
}

// Walk returns the complete set of lines reachable from pos, in
// depth-first order with the heaviest move expanded first at every
// ply. Use SortByLength for an export-friendly ordering.
func (w *Walker) Walk(ctx context.Context, pos *chess.Position) ([]Line, error) {
	maxPlies := w.MaxPlies
	if maxPlies <= 0 {
		maxPlies = 16
	}

	root, err := book.Load(w.Path)
	if err != nil {
		return nil, err
	}
	first, err := root.Moves(pos)
	closeErr := root.Close()
	if err != nil {
		return nil, err
	}
	if closeErr != nil {
		return nil, closeErr
	}

	results := make([][]Line, len(first))
	g, ctx := errgroup.WithContext(ctx)
	for i, mw := range first {
		g.Go(func() error {
			b, err := book.Load(w.Path)
			if err != nil {
				return err
			}
			defer b.Close()

			next, err := applyUCI(pos, mw.UCI)
			if err != nil {
				// The book move is not legal in this position; keep the
				// one-ply line rather than abandoning the walk.
				results[i] = []Line{{Moves: []string{mw.UCI}, Weight: mw.Weight}}
				return nil
			}
			lines, err := w.walk(ctx, b, next, []string{mw.UCI}, mw.Weight, maxPlies)
			if err != nil {
				return err
			}
			results[i] = lines
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []Line
	for _, lines := range results {
		out = append(out, lines...)
	}
	return out, nil
}

func (w *Walker) walk(ctx context.Context, b *book.Book, pos *chess.Position, prefix []string, weight, maxPlies int) ([]Line, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(prefix) >= maxPlies {
		return []Line{{Moves: prefix, Weight: weight}}, nil
	}

	moves, err := b.Moves(pos)
	if err != nil {
		return nil, err
	}

	var out []Line
	for _, mw := range moves {
		if mw.Weight < w.MinWeight {
			continue
		}
		next, err := applyUCI(pos, mw.UCI)
		if err != nil {
			continue
		}
		line := append(append([]string(nil), prefix...), mw.UCI)
		sub, err := w.walk(ctx, b, next, line, mw.Weight, maxPlies)
		if err != nil {
			return nil, err
		}
		out = append(out, sub...)
	}
	if len(out) == 0 {
		out = []Line{{Moves: prefix, Weight: weight}}
	}
	return out, nil
}

func applyUCI(pos *chess.Position, uci string) (*chess.Position, error) {
	mv, err := chess.UCINotation{}.Decode(pos, uci)
	if err != nil {
		return nil, err
	}
	return pos.Update(mv), nil
}

// SortByLength orders lines shortest first, which reads naturally when
// exporting (transpositions group together).
func SortByLength(ls []Line) {
	sort.SliceStable(ls, func(i, j int) bool {
		if len(ls[i].Moves) != len(ls[j].Moves) {
			return len(ls[i].Moves) < len(ls[j].Moves)
		}
		return ls[i].String() < ls[j].String()
	})
}
