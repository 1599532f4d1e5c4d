package bookcache

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/notnil/chess"
)

func writeRecords(t *testing.T, path string, n int) {
	t.Helper()
	buf := make([]byte, n*16)
	for i := 0; i < n; i++ {
		binary.BigEndian.PutUint64(buf[i*16:], uint64(i))
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("write book: %v", err)
	}
}

func touch(t *testing.T, path string) {
	t.Helper()
	// Force a distinct modtime regardless of filesystem resolution.
	later := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
}

func TestGetCachesByPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.bin")
	writeRecords(t, path, 3)

	c := New()
	defer c.Close()

	a, releaseA, err := c.Get(path)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer releaseA()
	b, releaseB, err := c.Get(path)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer releaseB()
	if a != b {
		t.Fatal("second Get returned a different book")
	}
	if a.Len() != 3 {
		t.Fatalf("Len = %d, want 3", a.Len())
	}
}

func TestGetReloadsOnModTimeChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.bin")
	writeRecords(t, path, 3)

	c := New()
	defer c.Close()

	a, releaseA, err := c.Get(path)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	releaseA()

	writeRecords(t, path, 5)
	touch(t, path)

	b, releaseB, err := c.Get(path)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer releaseB()
	if a == b {
		t.Fatal("book was not reloaded after the file changed")
	}
	if b.Len() != 5 {
		t.Fatalf("Len = %d, want 5", b.Len())
	}
}

func TestReloadKeepsHeldBookOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.bin")
	writeRecords(t, path, 3)

	c := New()
	defer c.Close()

	a, releaseA, err := c.Get(path)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	writeRecords(t, path, 5)
	touch(t, path)

	b, releaseB, err := c.Get(path)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer releaseB()
	if a == b {
		t.Fatal("book was not reloaded after the file changed")
	}

	// The replaced book is still held, so lookups on it must keep
	// working until it is released.
	if _, err := a.Moves(chess.StartingPosition()); err != nil {
		t.Fatalf("held book unusable after reload: %v", err)
	}

	releaseA()
	if _, err := a.Moves(chess.StartingPosition()); err == nil {
		t.Fatal("replaced book still open after last release")
	}

	// The current book is unaffected by releasing the old one.
	if _, err := b.Moves(chess.StartingPosition()); err != nil {
		t.Fatalf("current book unusable: %v", err)
	}
}

func TestGetMissingFile(t *testing.T) {
	c := New()
	defer c.Close()
	if _, _, err := c.Get(filepath.Join(t.TempDir(), "absent.bin")); err == nil {
		t.Fatal("want error for missing file")
	}
}
