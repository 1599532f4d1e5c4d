package main

import (
	"fmt"
	"os"

	"github.com/notnil/chess"

	"polybook/internal/book"
)

// bookcheck probes a Polyglot book file: record count plus the book
// moves for a position (the starting position by default).
func main() {
	path := "data/books/Performance.bin"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	b, err := book.Load(path)
	if err != nil {
		fmt.Println("load error:", err)
		os.Exit(1)
	}
	defer b.Close()

	pos := chess.StartingPosition()
	if len(os.Args) > 2 {
		opt, err := chess.FEN(os.Args[2])
		if err != nil {
			fmt.Println("invalid FEN:", err)
			os.Exit(1)
		}
		pos = chess.NewGame(opt).Position()
	}

	fmt.Printf("%s: %d records\n", path, b.Len())
	fmt.Printf("key: %016x\n", book.KeyFromPosition(pos).Hash())

	moves, err := b.Moves(pos)
	if err != nil {
		fmt.Println("lookup error:", err)
		os.Exit(1)
	}
	if len(moves) == 0 {
		fmt.Println("position not in book")
		return
	}
	for _, mv := range moves {
		fmt.Printf("%-6s weight %d\n", mv.UCI, mv.Weight)
	}
}
