package board

import "fmt"

// Squares are ints 0..63, row-major from A8=0 to H1=63. Row 0 is rank 8, so
// Light pieces start on rows 6-7 and move toward row 0.
const (
	A8, B8, C8, D8, E8, F8, G8, H8 = 0, 1, 2, 3, 4, 5, 6, 7
	A7, B7, C7, D7, E7, F7, G7, H7 = 8, 9, 10, 11, 12, 13, 14, 15
	A6, B6, C6, D6, E6, F6, G6, H6 = 16, 17, 18, 19, 20, 21, 22, 23
	A5, B5, C5, D5, E5, F5, G5, H5 = 24, 25, 26, 27, 28, 29, 30, 31
	A4, B4, C4, D4, E4, F4, G4, H4 = 32, 33, 34, 35, 36, 37, 38, 39
	A3, B3, C3, D3, E3, F3, G3, H3 = 40, 41, 42, 43, 44, 45, 46, 47
	A2, B2, C2, D2, E2, F2, G2, H2 = 48, 49, 50, 51, 52, 53, 54, 55
	A1, B1, C1, D1, E1, F1, G1, H1 = 56, 57, 58, 59, 60, 61, 62, 63
)

const NumSquares = 64

// Row returns the square's row, 0 at rank 8 through 7 at rank 1.
func Row(sq int) int {
	return sq >> 3
}

// Col returns the square's file, 0 at file a through 7 at file h.
func Col(sq int) int {
	return sq & 7
}

// ParseSquare parses a square in algebraic notation, such as "e4".
func ParseSquare(f, r rune) (int, error) {
	if f < 'a' || f > 'h' {
		return 0, fmt.Errorf("invalid file: %q", f)
	}
	if r < '1' || r > '8' {
		return 0, fmt.Errorf("invalid rank: %q", r)
	}
	return int(f-'a') + 8*(8-int(r-'0')), nil
}

// SquareString returns the square in algebraic notation.
func SquareString(sq int) string {
	return fmt.Sprintf("%c%d", rune('a'+Col(sq)), 8-Row(sq))
}
