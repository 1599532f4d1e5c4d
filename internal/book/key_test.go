package book

import (
	"math/rand"
	"testing"

	"github.com/notnil/chess"
)

func positionFromFEN(t *testing.T, fen string) *chess.Position {
	t.Helper()
	opt, err := chess.FEN(fen)
	if err != nil {
		t.Fatalf("invalid FEN %q: %v", fen, err)
	}
	return chess.NewGame(opt).Position()
}

// Reference vectors from the Polyglot book format description, covering
// castling-rights changes and en-passant eligibility both ways.
func TestPolyglotKeyVectors(t *testing.T) {
	tests := []struct {
		fen  string
		want uint64
	}{
		{"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", 0x463b96181691fc9c},
		{"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1", 0x823c9b50fd114196},
		{"rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 2", 0x0756b94461c50fb0},
		{"rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR b KQkq - 0 2", 0x662fafb965db29d4},
		{"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3", 0x22a48b5a8e47ff78},
		{"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPPKPPP/RNBQ1BNR b kq - 0 3", 0x652a607ca3f242c1},
		{"rnbq1bnr/ppp1pkpp/8/3pPp2/8/8/PPPPKPPP/RNBQ1BNR w - - 0 4", 0x00fdd303c946bdd9},
		{"rnbqkbnr/p1pppppp/8/8/PpP4P/8/1P1PPPP1/RNBQKBNR b KQkq c3 0 3", 0x3c8123ea7b067637},
		{"rnbqkbnr/p1pppppp/8/8/P6P/R1p5/1P1PPPP1/1NBQKBNR b Kkq - 0 4", 0x5c3f9b829b279560},
	}

	for _, tt := range tests {
		if got := polyglotKey(positionFromFEN(t, tt.fen)); got != tt.want {
			t.Errorf("fen %q => got 0x%016x want 0x%016x", tt.fen, got, tt.want)
		}
	}
}

func TestHashIgnoresPieceOrder(t *testing.T) {
	key := KeyFromPosition(chess.StartingPosition())
	want := key.Hash()

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		rng.Shuffle(len(key.Pieces), func(a, b int) {
			key.Pieces[a], key.Pieces[b] = key.Pieces[b], key.Pieces[a]
		})
		if got := key.Hash(); got != want {
			t.Fatalf("shuffle %d: hash = 0x%016x, want 0x%016x", i, got, want)
		}
	}
}

func TestEnPassantFileRequiresCapturablePawn(t *testing.T) {
	tests := []struct {
		fen  string
		want int
	}{
		// After 1.e4: the e3 marker is set but no black pawn stands on
		// d4 or f4, so the file must not enter the hash.
		{"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1", -1},
		// After 1.e4 d5: d6 marker, but the white e-pawn is on e4, not
		// beside d5.
		{"rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 2", -1},
		// After 1.e4 d5 2.e5 f5: the e5 pawn can take f6 en passant.
		{"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3", 5},
		// After 1.a4 b5 2.h4 b4 3.c4: the b4 pawn can take c3.
		{"rnbqkbnr/p1pppppp/8/8/PpP4P/8/1P1PPPP1/RNBQKBNR b KQkq c3 0 3", 2},
	}

	for _, tt := range tests {
		key := KeyFromPosition(positionFromFEN(t, tt.fen))
		if key.EnPassantFile != tt.want {
			t.Errorf("fen %q: EnPassantFile = %d, want %d", tt.fen, key.EnPassantFile, tt.want)
		}
	}
}

func TestKeyFromPositionCastleRights(t *testing.T) {
	key := KeyFromPosition(positionFromFEN(t, "rnbqkbnr/p1pppppp/8/8/P6P/R1p5/1P1PPPP1/1NBQKBNR b Kkq - 0 4"))
	if !key.WhiteCastle.KingSide || key.WhiteCastle.QueenSide {
		t.Errorf("white castle = %+v, want king side only", key.WhiteCastle)
	}
	if !key.BlackCastle.KingSide || !key.BlackCastle.QueenSide {
		t.Errorf("black castle = %+v, want both sides", key.BlackCastle)
	}
	if key.Turn != Black {
		t.Errorf("turn = %v, want Black", key.Turn)
	}
}

func TestHandBuiltKeyMatchesHostConversion(t *testing.T) {
	// The starting position assembled without the rules library.
	back := []PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	var pieces []Piece
	for file, pt := range back {
		pieces = append(pieces,
			Piece{Type: pt, Side: White, Rank: 0, File: file},
			Piece{Type: Pawn, Side: White, Rank: 1, File: file},
			Piece{Type: Pawn, Side: Black, Rank: 6, File: file},
			Piece{Type: pt, Side: Black, Rank: 7, File: file},
		)
	}
	key := &Key{
		Pieces:        pieces,
		WhiteCastle:   CastleRights{KingSide: true, QueenSide: true},
		BlackCastle:   CastleRights{KingSide: true, QueenSide: true},
		EnPassantFile: -1,
		Turn:          White,
	}
	if got := key.Hash(); got != 0x463b96181691fc9c {
		t.Fatalf("hash = 0x%016x, want 0x463b96181691fc9c", got)
	}
}
