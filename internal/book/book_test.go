package book

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/notnil/chess"
)

func writeBook(t *testing.T, recs ...[3]uint64) string {
	t.Helper()
	sort.SliceStable(recs, func(i, j int) bool { return recs[i][0] < recs[j][0] })
	path := filepath.Join(t.TempDir(), "test.bin")
	if err := os.WriteFile(path, bookBytes(t, recs...), 0o644); err != nil {
		t.Fatalf("write book: %v", err)
	}
	return path
}

func TestBookLookup(t *testing.T) {
	start := polyglotKey(chess.StartingPosition())
	path := writeBook(t,
		[3]uint64{start, uint64(packMove(1, 4, 3, 4, 0)), 200}, // e2e4
		[3]uint64{start, uint64(packMove(1, 3, 3, 3, 0)), 150}, // d2d4
		[3]uint64{start, uint64(packMove(0, 6, 2, 5, 0)), 50},  // g1f3
		[3]uint64{start ^ 0xdeadbeef, uint64(packMove(1, 4, 3, 4, 0)), 999},
	)

	b, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer b.Close()

	if b.Len() != 4 {
		t.Fatalf("Len = %d, want 4", b.Len())
	}

	moves, err := b.Moves(chess.StartingPosition())
	if err != nil {
		t.Fatalf("Moves: %v", err)
	}
	want := []MoveWeight{{"e2e4", 200}, {"d2d4", 150}, {"g1f3", 50}}
	if len(moves) != len(want) {
		t.Fatalf("moves = %+v, want %+v", moves, want)
	}
	for i := range want {
		if moves[i] != want[i] {
			t.Errorf("moves[%d] = %+v, want %+v", i, moves[i], want[i])
		}
	}

	uci, ok := b.Lookup(chess.StartingPosition())
	if !ok || uci != "e2e4" {
		t.Fatalf("Lookup = %q, %v; want e2e4, true", uci, ok)
	}

	after := positionFromFEN(t, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1")
	if uci, ok := b.Lookup(after); ok {
		t.Fatalf("Lookup after 1.e4 = %q, want no move", uci)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.bin")); err == nil {
		t.Fatal("want error for missing file")
	}
}

func TestLoadRaggedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ragged.bin")
	if err := os.WriteFile(path, make([]byte, 24), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("want error for ragged file")
	}
}
