package book

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// recordSize is the fixed on-disk size of one book record: 8 bytes of
// big-endian key, 2 of packed move, 2 of weight and 4 of unused "learn"
// data.
const recordSize = 16

// ErrInvalidRecord reports a record whose packed move cannot be decoded.
// Book files come from outside the process, so this is a recoverable
// error, not a panic.
var ErrInvalidRecord = errors.New("book: invalid record")

// Square addresses one board square, zero-based.
type Square struct {
	Rank int
	File int
}

// Move is a decoded book move. Promotion is NoPromotion unless the move
// promotes a pawn.
type Move struct {
	From      Square
	To        Square
	Promotion PieceType
}

// NoPromotion marks a move that does not promote.
const NoPromotion PieceType = 0xff

// UCI renders the move in long algebraic notation, e.g. "e2e4" or "a7a8q".
func (m Move) UCI() string {
	s := fmt.Sprintf("%c%d%c%d", 'a'+byte(m.From.File), m.From.Rank+1, 'a'+byte(m.To.File), m.To.Rank+1)
	switch m.Promotion {
	case Knight:
		return s + "n"
	case Bishop:
		return s + "b"
	case Rook:
		return s + "r"
	case Queen:
		return s + "q"
	}
	return s
}

// Entry is the decoded payload of one record. The key and learn fields
// are not retained.
type Entry struct {
	Move   Move
	Weight uint16
}

// decodeEntry unpacks a 16-byte record. The querying position's castle
// rights decide whether a raw castling move (king slides from its home
// file onto the rook's corner square) is rewritten to the king's real
// landing square; without the matching right the raw move is kept, which
// is what the format specifies for such files.
func decodeEntry(rec []byte, white, black CastleRights) (Entry, error) {
	packed := binary.BigEndian.Uint16(rec[8:10])
	weight := binary.BigEndian.Uint16(rec[10:12])

	mv := Move{
		To:        Square{File: int(packed & 7), Rank: int(packed >> 3 & 7)},
		From:      Square{File: int(packed >> 6 & 7), Rank: int(packed >> 9 & 7)},
		Promotion: NoPromotion,
	}

	switch promo := packed >> 12 & 7; promo {
	case 0:
	case 1:
		mv.Promotion = Knight
	case 2:
		mv.Promotion = Bishop
	case 3:
		mv.Promotion = Rook
	case 4:
		mv.Promotion = Queen
	default:
		return Entry{}, fmt.Errorf("%w: promotion code %d", ErrInvalidRecord, promo)
	}

	if mv.From.File == 4 && mv.From.Rank == mv.To.Rank {
		switch {
		case mv.To == (Square{Rank: 0, File: 7}) && white.KingSide:
			mv.To.File = 6
		case mv.To == (Square{Rank: 0, File: 0}) && white.QueenSide:
			mv.To.File = 2
		case mv.To == (Square{Rank: 7, File: 7}) && black.KingSide:
			mv.To.File = 6
		case mv.To == (Square{Rank: 7, File: 0}) && black.QueenSide:
			mv.To.File = 2
		}
	}

	return Entry{Move: mv, Weight: weight}, nil
}
