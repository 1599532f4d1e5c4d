package book

import (
	"github.com/notnil/chess"
)

// Side is the color of a piece or the side to move.
type Side uint8

const (
	White Side = iota
	Black
)

// PieceType enumerates the six piece kinds in the order the Polyglot
// table indexes them.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
)

// Piece is one occupied square of a position snapshot. Rank and File are
// zero-based, rank 0 being White's back rank.
type Piece struct {
	Type PieceType
	Side Side
	Rank int
	File int
}

func (p Piece) hash() uint64 {
	kind := int(p.Type)*2 + 1
	if p.Side == Black {
		kind--
	}
	return random64[64*kind+8*p.Rank+p.File]
}

// CastleRights holds one side's remaining castling options.
type CastleRights struct {
	KingSide  bool
	QueenSide bool
}

func (cr CastleRights) hash(side Side) uint64 {
	base := castleOffset
	if side == Black {
		base += 2
	}
	var h uint64
	if cr.KingSide {
		h ^= random64[base]
	}
	if cr.QueenSide {
		h ^= random64[base+1]
	}
	return h
}

// Key is a normalized position snapshot, the sole input to the Polyglot
// hash. It carries no reference to the rules library, so any host engine
// can populate one.
//
// EnPassantFile must be set (0..7) only when a pawn of the side to move
// can legally capture en passant right now, meaning an own pawn stands
// directly beside the en-passant target square. A file left over from a
// double push with no capturing pawn adjacent must stay -1, or the hash
// will not match the book.
type Key struct {
	Pieces        []Piece
	WhiteCastle   CastleRights
	BlackCastle   CastleRights
	EnPassantFile int // 0..7, or -1 when absent
	Turn          Side
}

// Hash computes the 64-bit Polyglot fingerprint of the snapshot. Piece
// order is irrelevant: contributions combine with XOR.
func (k *Key) Hash() uint64 {
	var h uint64
	for _, p := range k.Pieces {
		h ^= p.hash()
	}
	h ^= k.WhiteCastle.hash(White)
	h ^= k.BlackCastle.hash(Black)
	if k.EnPassantFile >= 0 {
		h ^= random64[enPassantOffset+k.EnPassantFile]
	}
	if k.Turn == White {
		h ^= random64[turnOffset]
	}
	return h
}

// KeyFromPosition builds a snapshot from a host position, including the
// en-passant capture-legality check described on Key.
func KeyFromPosition(pos *chess.Position) *Key {
	board := pos.Board()
	pieces := make([]Piece, 0, 32)
	for sq := chess.A1; sq <= chess.H8; sq++ {
		p := board.Piece(sq)
		if p == chess.NoPiece {
			continue
		}
		pieces = append(pieces, Piece{
			Type: pieceType(p.Type()),
			Side: sideOf(p.Color()),
			Rank: int(sq.Rank()),
			File: int(sq.File()),
		})
	}

	cr := pos.CastleRights()
	key := &Key{
		Pieces: pieces,
		WhiteCastle: CastleRights{
			KingSide:  cr.CanCastle(chess.White, chess.KingSide),
			QueenSide: cr.CanCastle(chess.White, chess.QueenSide),
		},
		BlackCastle: CastleRights{
			KingSide:  cr.CanCastle(chess.Black, chess.KingSide),
			QueenSide: cr.CanCastle(chess.Black, chess.QueenSide),
		},
		EnPassantFile: -1,
		Turn:          sideOf(pos.Turn()),
	}

	if ep := pos.EnPassantSquare(); ep != chess.NoSquare && epCapturable(board, ep, pos.Turn()) {
		key.EnPassantFile = int(ep.File())
	}
	return key
}

// epCapturable reports whether a pawn of the side to move stands next to
// the en-passant target square, i.e. whether the capture is actually
// available this move.
func epCapturable(board *chess.Board, ep chess.Square, turn chess.Color) bool {
	pawnRank := int(ep.Rank()) - 1
	if turn == chess.Black {
		pawnRank = int(ep.Rank()) + 1
	}
	for _, df := range [2]int{-1, 1} {
		file := int(ep.File()) + df
		if file < 0 || file > 7 {
			continue
		}
		p := board.Piece(chess.NewSquare(chess.File(file), chess.Rank(pawnRank)))
		if p != chess.NoPiece && p.Type() == chess.Pawn && p.Color() == turn {
			return true
		}
	}
	return false
}

func pieceType(t chess.PieceType) PieceType {
	switch t {
	case chess.Pawn:
		return Pawn
	case chess.Knight:
		return Knight
	case chess.Bishop:
		return Bishop
	case chess.Rook:
		return Rook
	case chess.Queen:
		return Queen
	default:
		return King
	}
}

func sideOf(c chess.Color) Side {
	if c == chess.White {
		return White
	}
	return Black
}

// polyglotKey is the fingerprint of a host position.
func polyglotKey(pos *chess.Position) uint64 {
	return KeyFromPosition(pos).Hash()
}
