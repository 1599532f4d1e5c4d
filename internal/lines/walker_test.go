package lines

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/notnil/chess"

	"polybook/internal/book"
)

func packMove(fromRank, fromFile, toRank, toFile int) uint16 {
	return uint16(toFile | toRank<<3 | fromFile<<6 | fromRank<<9)
}

func posAfter(t *testing.T, ucis ...string) *chess.Position {
	t.Helper()
	pos := chess.StartingPosition()
	for _, uci := range ucis {
		mv, err := chess.UCINotation{}.Decode(pos, uci)
		if err != nil {
			t.Fatalf("decode %q: %v", uci, err)
		}
		pos = pos.Update(mv)
	}
	return pos
}

func TestWalk(t *testing.T) {
	start := book.KeyFromPosition(chess.StartingPosition()).Hash()
	afterE4 := book.KeyFromPosition(posAfter(t, "e2e4")).Hash()

	type rec struct {
		key    uint64
		move   uint16
		weight uint16
	}
	recs := []rec{
		{start, packMove(1, 4, 3, 4), 100},   // e2e4
		{afterE4, packMove(6, 4, 4, 4), 80},  // e7e5
		{afterE4, packMove(6, 2, 4, 2), 60},  // c7c5
	}
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].key < recs[j].key })

	buf := make([]byte, 0, len(recs)*16)
	for _, r := range recs {
		b := make([]byte, 16)
		binary.BigEndian.PutUint64(b[0:8], r.key)
		binary.BigEndian.PutUint16(b[8:10], r.move)
		binary.BigEndian.PutUint16(b[10:12], r.weight)
		buf = append(buf, b...)
	}
	path := filepath.Join(t.TempDir(), "walk.bin")
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("write book: %v", err)
	}

	w := &Walker{Path: path, MaxPlies: 4}
	got, err := w.Walk(context.Background(), chess.StartingPosition())
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	SortByLength(got)

	want := []string{"e2e4 c7c5", "e2e4 e7e5"}
	if len(got) != len(want) {
		t.Fatalf("lines = %v, want %v", got, want)
	}
	for i, line := range got {
		if line.String() != want[i] {
			t.Errorf("line %d = %q, want %q", i, line.String(), want[i])
		}
	}
}
