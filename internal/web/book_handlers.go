package web

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/notnil/chess"

	"polybook/internal/book"
	"polybook/internal/db"
)

type BookMoveView struct {
	UCI     string
	SAN     string
	Weight  int
	Percent float64
	NextFEN string
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	view := map[string]any{
		"Page": "index",
	}

	books, err := h.store.ListBooks(ctx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	lookupCount, err := h.store.CountLookups(ctx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	settings, err := h.store.GetSettings(ctx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	view["Books"] = books
	view["LookupCount"] = lookupCount
	view["DefaultBookID"] = settings.DefaultBookID
	_ = h.tpl.ExecuteTemplate(w, "index.html", view)
}

func (h *Handler) handleBookExplorer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	view := map[string]any{
		"Page": "book",
	}

	books, err := h.store.ListBooks(ctx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	view["Books"] = books

	settings, err := h.store.GetSettings(ctx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	row, err := h.selectBook(r, books, settings)
	if err != nil {
		view["Error"] = err.Error()
		_ = h.tpl.ExecuteTemplate(w, "book_explorer.html", view)
		return
	}
	view["Book"] = row

	fen := strings.TrimSpace(r.URL.Query().Get("fen"))
	pos := chess.StartingPosition()
	if fen != "" {
		opt, err := chess.FEN(fen)
		if err != nil {
			view["Error"] = "Invalid FEN."
			_ = h.tpl.ExecuteTemplate(w, "book_explorer.html", view)
			return
		}
		pos = chess.NewGame(opt).Position()
	} else {
		fen = pos.String()
	}

	bk, release, err := h.books.Get(row.Path)
	if err != nil {
		view["Error"] = err.Error()
		_ = h.tpl.ExecuteTemplate(w, "book_explorer.html", view)
		return
	}
	defer release()

	moves, err := bk.Moves(pos)
	if err != nil {
		view["Error"] = err.Error()
		_ = h.tpl.ExecuteTemplate(w, "book_explorer.html", view)
		return
	}
	if len(moves) > settings.ExplorerMaxMoves && settings.ExplorerMaxMoves > 0 {
		moves = moves[:settings.ExplorerMaxMoves]
	}

	key := book.KeyFromPosition(pos).Hash()
	if err := h.store.RecordLookup(ctx, row.ID, fen, key, len(moves)); err == nil {
		_, _ = h.store.PruneLookups(ctx, settings.LookupLogLimit)
	}

	total := 0
	for _, mv := range moves {
		total += mv.Weight
	}

	moveViews := make([]BookMoveView, 0, len(moves))
	for _, mv := range moves {
		moveView := BookMoveView{UCI: mv.UCI, Weight: mv.Weight}
		if total > 0 {
			moveView.Percent = float64(mv.Weight) * 100 / float64(total)
		}
		n := chess.UCINotation{}
		decoded, err := n.Decode(pos, mv.UCI)
		if err == nil {
			moveView.SAN = chess.AlgebraicNotation{}.Encode(pos, decoded)
			moveView.NextFEN = pos.Update(decoded).String()
		}
		moveViews = append(moveViews, moveView)
	}

	view["FEN"] = fen
	view["Key"] = key
	view["Moves"] = moveViews
	view["Board"] = boardFromPosition(pos)
	view["Arrows"] = arrowsFromMoves(moves, total)
	_ = h.tpl.ExecuteTemplate(w, "book_explorer.html", view)
}

func (h *Handler) handleLookups(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	settings, err := h.store.GetSettings(ctx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	lookups, err := h.store.RecentLookups(ctx, settings.LookupLogLimit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	_ = h.tpl.ExecuteTemplate(w, "lookups.html", map[string]any{
		"Page":    "lookups",
		"Lookups": lookups,
	})
}

// selectBook resolves the explorer's book: the ?book=<id> parameter if
// present, the configured default otherwise, or the only registered book
// when there is just one.
func (h *Handler) selectBook(r *http.Request, books []db.Book, settings db.Settings) (db.Book, error) {
	if raw := strings.TrimSpace(r.URL.Query().Get("book")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return db.Book{}, errors.New("invalid book id")
		}
		row, err := h.store.GetBook(r.Context(), id)
		if errors.Is(err, sql.ErrNoRows) {
			return db.Book{}, errors.New("unknown book")
		}
		return row, err
	}
	if settings.DefaultBookID != 0 {
		row, err := h.store.GetBook(r.Context(), settings.DefaultBookID)
		if err == nil {
			return row, nil
		}
	}
	if len(books) == 1 {
		return books[0], nil
	}
	return db.Book{}, errors.New("no opening book configured")
}
