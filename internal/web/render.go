package web

import (
	"fmt"

	"github.com/notnil/chess"

	"polybook/internal/book"
)

type SquareView struct {
	Glyph  string
	Class  string
	Square string
}

type ArrowView struct {
	X1      float64
	Y1      float64
	X2      float64
	Y2      float64
	Opacity float64
}

var whiteGlyphs = map[chess.PieceType]string{
	chess.King:   "♔",
	chess.Queen:  "♕",
	chess.Rook:   "♖",
	chess.Bishop: "♗",
	chess.Knight: "♘",
	chess.Pawn:   "♙",
}

var blackGlyphs = map[chess.PieceType]string{
	chess.King:   "♚",
	chess.Queen:  "♛",
	chess.Rook:   "♜",
	chess.Bishop: "♝",
	chess.Knight: "♞",
	chess.Pawn:   "♟",
}

func pieceGlyph(p chess.Piece) string {
	if p == chess.NoPiece {
		return ""
	}
	if p.Color() == chess.White {
		return whiteGlyphs[p.Type()]
	}
	return blackGlyphs[p.Type()]
}

// boardFromPosition renders the position rank 8 first, the way the board
// is drawn.
func boardFromPosition(pos *chess.Position) [][]SquareView {
	board := make([][]SquareView, 0, 8)
	b := pos.Board()

	for r := chess.Rank8; r >= chess.Rank1; r-- {
		row := make([]SquareView, 0, 8)
		for f := chess.FileA; f <= chess.FileH; f++ {
			sq := chess.NewSquare(f, r)

			// a1 is dark.
			class := "sq dark"
			if (int(f)+int(r))%2 == 1 {
				class = "sq light"
			}

			row = append(row, SquareView{
				Glyph:  pieceGlyph(b.Piece(sq)),
				Class:  class,
				Square: fmt.Sprintf("%c%d", 'a'+byte(f), int(r)+1),
			})
		}
		board = append(board, row)
	}
	return board
}

// arrowsFromMoves maps each candidate move to an arrow in the board's
// 0..8 viewBox coordinates, heavier moves drawn more opaque.
func arrowsFromMoves(moves []book.MoveWeight, total int) []ArrowView {
	if len(moves) == 0 {
		return nil
	}
	out := make([]ArrowView, 0, len(moves))
	for _, mv := range moves {
		if len(mv.UCI) < 4 {
			continue
		}
		x1, y1, ok1 := squareCenter(mv.UCI[0], mv.UCI[1])
		x2, y2, ok2 := squareCenter(mv.UCI[2], mv.UCI[3])
		if !ok1 || !ok2 {
			continue
		}
		opacity := 0.35
		if total > 0 {
			opacity = 0.25 + 0.65*float64(mv.Weight)/float64(total)
		}
		out = append(out, ArrowView{X1: x1, Y1: y1, X2: x2, Y2: y2, Opacity: opacity})
	}
	return out
}

func squareCenter(file, rank byte) (float64, float64, bool) {
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return 0, 0, false
	}
	// viewBox is 0..8 with rank 8 at top.
	x := float64(file-'a') + 0.5
	y := 8 - float64(rank-'1') - 0.5
	return x, y, true
}
