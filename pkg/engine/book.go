package engine

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/vancezuo/parallel-chess/pkg/board"
)

// Book represents an opening book. It is consulted only at the root of a
// think, before searching.
type Book interface {
	// Find returns candidate continuations -- potentially with duplicates,
	// which weight the pick -- for the game line played so far from the
	// initial position. An empty result takes the book out of play for the
	// rest of the game.
	Find(ctx context.Context, b *board.Board, line []string) ([]string, error)
}

// NoBook is an empty opening book.
var NoBook Book = &LineBook{}

// LineBook is an in-memory opening book of lines: space-separated coordinate
// move sequences from the initial position, one per row, such as
// "e2e4 e7e5 g1f3".
type LineBook struct {
	lines [][]string
}

// NewLineBook reads an opening book, one line per row. Blank rows and rows
// starting with '#' are skipped.
func NewLineBook(r io.Reader) (*LineBook, error) {
	var lines [][]string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		row := strings.TrimSpace(scanner.Text())
		if row == "" || strings.HasPrefix(row, "#") {
			continue
		}
		lines = append(lines, strings.Fields(row))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return &LineBook{lines: lines}, nil
}

func (lb *LineBook) Find(ctx context.Context, b *board.Board, line []string) ([]string, error) {
	var ret []string
	for _, bl := range lb.lines {
		if len(bl) <= len(line) || !equalPrefix(bl, line) {
			continue
		}
		ret = append(ret, bl[len(line)])
	}
	return ret, nil
}

func equalPrefix(line, prefix []string) bool {
	for i, m := range prefix {
		if !strings.EqualFold(line[i], m) {
			return false
		}
	}
	return true
}
