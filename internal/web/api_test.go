package web

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/notnil/chess"

	"polybook/internal/book"
	"polybook/internal/bookcache"
	"polybook/internal/db"
)

func newTestServer(t *testing.T) (*http.ServeMux, *db.Store, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := db.Open(filepath.Join(dir, "test.sqlite"))
	if err != nil {
		t.Fatalf("db.Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	cache := bookcache.New()
	t.Cleanup(cache.Close)

	h := NewHandler(store, cache, "secret", dir)
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return mux, store, dir
}

// writeStartposBook writes a one-position book: e2e4 and d2d4 for the
// starting position.
func writeStartposBook(t *testing.T, dir string) string {
	t.Helper()
	key := book.KeyFromPosition(chess.StartingPosition()).Hash()

	pack := func(fromRank, fromFile, toRank, toFile int) uint16 {
		return uint16(toFile | toRank<<3 | fromFile<<6 | fromRank<<9)
	}
	buf := make([]byte, 32)
	binary.BigEndian.PutUint64(buf[0:], key)
	binary.BigEndian.PutUint16(buf[8:], pack(1, 4, 3, 4)) // e2e4
	binary.BigEndian.PutUint16(buf[10:], 120)
	binary.BigEndian.PutUint64(buf[16:], key)
	binary.BigEndian.PutUint16(buf[24:], pack(1, 3, 3, 3)) // d2d4
	binary.BigEndian.PutUint16(buf[26:], 80)

	path := filepath.Join(dir, "start.bin")
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("write book: %v", err)
	}
	return path
}

func TestAPILookup(t *testing.T) {
	mux, store, dir := newTestServer(t)
	path := writeStartposBook(t, dir)

	if _, err := store.AddBook(context.Background(), "start", path, 2); err != nil {
		t.Fatalf("AddBook: %v", err)
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/api/lookup", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Book  string `json:"book"`
		Key   string `json:"key"`
		Moves []struct {
			UCI    string `json:"uci"`
			Weight int    `json:"weight"`
		} `json:"moves"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Book != "start" || resp.Key != "463b96181691fc9c" {
		t.Fatalf("resp = %+v", resp)
	}
	if len(resp.Moves) != 2 || resp.Moves[0].UCI != "e2e4" || resp.Moves[1].UCI != "d2d4" {
		t.Fatalf("moves = %+v", resp.Moves)
	}

	// The lookup lands in the log.
	lookups, err := store.RecentLookups(context.Background(), 10)
	if err != nil {
		t.Fatalf("RecentLookups: %v", err)
	}
	if len(lookups) != 1 || lookups[0].Matches != 2 {
		t.Fatalf("lookups = %+v", lookups)
	}
}

func TestAPILookupUnknownPosition(t *testing.T) {
	mux, store, dir := newTestServer(t)
	path := writeStartposBook(t, dir)
	if _, err := store.AddBook(context.Background(), "start", path, 2); err != nil {
		t.Fatalf("AddBook: %v", err)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/lookup?fen=rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR+b+KQkq+e3+0+1", nil)
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Moves []any `json:"moves"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Moves) != 0 {
		t.Fatalf("moves = %+v, want none", resp.Moves)
	}
}

func TestAPILookupNoBooks(t *testing.T) {
	mux, _, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/api/lookup", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestAdminRequiresToken(t *testing.T) {
	mux, _, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/admin/books", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/admin/books?token=secret", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
