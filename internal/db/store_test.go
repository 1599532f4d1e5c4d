package db

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.sqlite"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestBooksRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.AddBook(ctx, "perf", "/books/Performance.bin", 92954)
	if err != nil {
		t.Fatalf("AddBook: %v", err)
	}

	b, err := s.GetBook(ctx, id)
	if err != nil {
		t.Fatalf("GetBook: %v", err)
	}
	if b.Name != "perf" || b.Path != "/books/Performance.bin" || b.Records != 92954 {
		t.Fatalf("book = %+v", b)
	}

	// Re-adding under the same name updates in place.
	if _, err := s.AddBook(ctx, "perf", "/books/perf2.bin", 10); err != nil {
		t.Fatalf("AddBook update: %v", err)
	}
	books, err := s.ListBooks(ctx)
	if err != nil {
		t.Fatalf("ListBooks: %v", err)
	}
	if len(books) != 1 || books[0].Path != "/books/perf2.bin" {
		t.Fatalf("books = %+v", books)
	}

	n, err := s.DeleteBook(ctx, id)
	if err != nil || n != 1 {
		t.Fatalf("DeleteBook = %d, %v", n, err)
	}
}

func TestLookupLog(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.AddBook(ctx, "perf", "/books/Performance.bin", 1)
	if err != nil {
		t.Fatalf("AddBook: %v", err)
	}

	for i := 0; i < 5; i++ {
		if err := s.RecordLookup(ctx, id, "startpos", 0x463b96181691fc9c, i); err != nil {
			t.Fatalf("RecordLookup: %v", err)
		}
	}

	recent, err := s.RecentLookups(ctx, 3)
	if err != nil {
		t.Fatalf("RecentLookups: %v", err)
	}
	if len(recent) != 3 || recent[0].Matches != 4 || recent[0].BookName != "perf" {
		t.Fatalf("recent = %+v", recent)
	}
	if recent[0].Key != "463b96181691fc9c" {
		t.Fatalf("key = %q", recent[0].Key)
	}

	pruned, err := s.PruneLookups(ctx, 2)
	if err != nil || pruned != 3 {
		t.Fatalf("PruneLookups = %d, %v", pruned, err)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	settings, err := s.GetSettings(ctx)
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if settings.ExplorerMaxMoves != 20 || settings.LookupLogLimit != 200 {
		t.Fatalf("defaults = %+v", settings)
	}

	settings.DefaultBookID = 3
	settings.ExplorerMaxMoves = 12
	if err := s.UpdateSettings(ctx, settings); err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}

	got, err := s.GetSettings(ctx)
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if got.DefaultBookID != 3 || got.ExplorerMaxMoves != 12 {
		t.Fatalf("settings = %+v", got)
	}
}
