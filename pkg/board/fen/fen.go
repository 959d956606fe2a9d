// Package fen contains utilities for reading and writing positions in FEN
// notation.
package fen

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/vancezuo/parallel-chess/pkg/board"
)

const (
	Initial = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
)

// Decode returns a new board from a FEN description.
//
// Example:
//
//	"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
func Decode(fen string) (*board.Board, error) {
	// A FEN record contains six space-separated fields.

	parts := strings.Fields(strings.TrimSpace(fen))
	if len(parts) != 6 {
		return nil, fmt.Errorf("invalid number of sections in FEN: '%v'", fen)
	}

	b := &board.Board{Side: board.Light, Xside: board.Dark, EP: -1}
	for i := 0; i < board.NumSquares; i++ {
		b.Color[i] = board.NoColor
		b.Piece[i] = board.NoPiece
	}

	// (1) Piece placement, rank 8 through rank 1, file a through file h.
	// Uppercase is Light, lowercase is Dark; digits count blank squares.

	sq := board.A8
	for _, r := range parts[0] {
		switch {
		case r == '/':
			if board.Col(sq) != 0 {
				return nil, fmt.Errorf("misplaced rank separator in FEN: '%v'", fen)
			}

		case unicode.IsDigit(r):
			sq += int(r - '0')
			if sq > board.NumSquares {
				return nil, fmt.Errorf("invalid number of squares in FEN: '%v'", fen)
			}

		case unicode.IsLetter(r):
			if sq >= board.NumSquares {
				return nil, fmt.Errorf("invalid number of squares in FEN: '%v'", fen)
			}
			piece, ok := board.ParsePiece(r)
			if !ok {
				return nil, fmt.Errorf("invalid piece '%c' in FEN: '%v'", r, fen)
			}
			if unicode.IsUpper(r) {
				b.Color[sq] = board.Light
			} else {
				b.Color[sq] = board.Dark
			}
			b.Piece[sq] = piece
			sq++

		default:
			return nil, fmt.Errorf("invalid character '%c' in FEN: '%v'", r, fen)
		}
	}
	if sq != board.NumSquares {
		return nil, fmt.Errorf("invalid number of squares in FEN: '%v'", fen)
	}

	// (2) Active color: "w" or "b".

	switch parts[1] {
	case "w":
		b.Side, b.Xside = board.Light, board.Dark
	case "b":
		b.Side, b.Xside = board.Dark, board.Light
	default:
		return nil, fmt.Errorf("invalid active color in FEN: '%v'", fen)
	}

	// (3) Castling availability: "-", or a subset of "KQkq".

	if parts[2] != "-" {
		for _, r := range parts[2] {
			switch r {
			case 'K':
				b.Castle |= board.LightKingSide
			case 'Q':
				b.Castle |= board.LightQueenSide
			case 'k':
				b.Castle |= board.DarkKingSide
			case 'q':
				b.Castle |= board.DarkQueenSide
			default:
				return nil, fmt.Errorf("invalid castling in FEN: '%v'", fen)
			}
		}
	}

	// (4) En passant target square, or "-".

	if parts[3] != "-" {
		runes := []rune(parts[3])
		if len(runes) != 2 {
			return nil, fmt.Errorf("invalid en passant in FEN: '%v'", fen)
		}
		ep, err := board.ParseSquare(runes[0], runes[1])
		if err != nil {
			return nil, fmt.Errorf("invalid en passant in FEN: '%v'", fen)
		}
		b.EP = ep
	}

	// (5) Halfmove clock since the last pawn advance or capture.

	fifty, err := strconv.Atoi(parts[4])
	if err != nil || fifty < 0 {
		return nil, fmt.Errorf("invalid halfmove clock in FEN: '%v'", fen)
	}
	b.Fifty = fifty

	// (6) Fullmove number. The board tracks game plies from its own start,
	// so the field is validated but not retained.

	if fm, err := strconv.Atoi(parts[5]); err != nil || fm < 1 {
		return nil, fmt.Errorf("invalid full moves in FEN: '%v'", fen)
	}

	b.SetHash()
	return b, nil
}

// Encode encodes the position in FEN notation.
func Encode(b *board.Board) string {
	var sb strings.Builder
	for row := 0; row < 8; row++ {
		blanks := 0
		for col := 0; col < 8; col++ {
			sq := row*8 + col
			if b.Color[sq] == board.NoColor {
				blanks++
				continue
			}
			if blanks > 0 {
				sb.WriteString(strconv.Itoa(blanks))
				blanks = 0
			}
			p := b.Piece[sq].String()
			if b.Color[sq] == board.Light {
				p = strings.ToUpper(p)
			}
			sb.WriteString(p)
		}
		if blanks > 0 {
			sb.WriteString(strconv.Itoa(blanks))
		}
		if row < 7 {
			sb.WriteString("/")
		}
	}

	ep := "-"
	if b.EP != -1 {
		ep = board.SquareString(b.EP)
	}
	return fmt.Sprintf("%v %v %v %v %v %v", sb.String(), b.Side, b.Castle, ep, b.Fifty, b.Hply/2+1)
}
