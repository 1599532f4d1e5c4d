package db

type Settings struct {
	DefaultBookID    int64 `db:"default_book_id"`
	ExplorerMaxMoves int   `db:"explorer_max_moves"`
	LookupLogLimit   int   `db:"lookup_log_limit"`
}

type Book struct {
	ID      int64  `db:"id"`
	Name    string `db:"name"`
	Path    string `db:"path"`
	Records int    `db:"records"`
	AddedAt string `db:"added_at"`
}

type Lookup struct {
	ID       int64  `db:"id"`
	LookedAt string `db:"looked_at"`
	BookID   int64  `db:"book_id"`
	BookName string `db:"book_name"`
	FEN      string `db:"fen"`
	Key      string `db:"key"`
	Matches  int    `db:"matches"`
}
