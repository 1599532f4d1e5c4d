package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/notnil/chess"

	"polybook/internal/book"
)

func (h *Handler) handleAPIBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.store.ListBooks(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	type bookJSON struct {
		ID      int64  `json:"id"`
		Name    string `json:"name"`
		Records int    `json:"records"`
		AddedAt string `json:"added_at"`
	}
	out := make([]bookJSON, 0, len(books))
	for _, b := range books {
		out = append(out, bookJSON{ID: b.ID, Name: b.Name, Records: b.Records, AddedAt: b.AddedAt})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"books": out})
}

func (h *Handler) handleAPILookup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	books, err := h.store.ListBooks(ctx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	settings, err := h.store.GetSettings(ctx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	row, err := h.selectBook(r, books, settings)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	pos := chess.StartingPosition()
	fen := strings.TrimSpace(r.URL.Query().Get("fen"))
	if fen != "" {
		opt, err := chess.FEN(fen)
		if err != nil {
			http.Error(w, "invalid fen", http.StatusBadRequest)
			return
		}
		pos = chess.NewGame(opt).Position()
	} else {
		fen = pos.String()
	}

	bk, release, err := h.books.Get(row.Path)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer release()
	moves, err := bk.Moves(pos)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	key := book.KeyFromPosition(pos).Hash()
	if err := h.store.RecordLookup(ctx, row.ID, fen, key, len(moves)); err == nil {
		_, _ = h.store.PruneLookups(ctx, settings.LookupLogLimit)
	}

	type moveJSON struct {
		UCI    string `json:"uci"`
		Weight int    `json:"weight"`
	}
	out := make([]moveJSON, 0, len(moves))
	for _, mv := range moves {
		out = append(out, moveJSON{UCI: mv.UCI, Weight: mv.Weight})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"book":  row.Name,
		"fen":   fen,
		"key":   fmt.Sprintf("%016x", key),
		"moves": out,
	})
}
