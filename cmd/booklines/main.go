package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/notnil/chess"

	"polybook/internal/lines"
)

// booklines prints every opening line a book holds from a position, one
// line per row with the weight of its last move.
func main() {
	maxPlies := flag.Int("plies", 12, "maximum line length in plies")
	minWeight := flag.Int("min-weight", 0, "skip moves below this weight")
	fen := flag.String("fen", "", "starting position (default: initial position)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: booklines [flags] <book.bin>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	pos := chess.StartingPosition()
	if *fen != "" {
		opt, err := chess.FEN(*fen)
		if err != nil {
			log.Fatalf("invalid FEN: %v", err)
		}
		pos = chess.NewGame(opt).Position()
	}

	w := &lines.Walker{
		Path:      flag.Arg(0),
		MaxPlies:  *maxPlies,
		MinWeight: *minWeight,
	}
	out, err := w.Walk(context.Background(), pos)
	if err != nil {
		log.Fatal(err)
	}

	lines.SortByLength(out)
	for _, line := range out {
		fmt.Printf("%s # %d\n", line, line.Weight)
	}
}
