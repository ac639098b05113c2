package chess

import (
	"errors"
	"fmt"
)

var (
	ErrIllegalMove     = errors.New("illegal move")
	ErrOutOfBounds     = errors.New("square out of bounds")
	ErrInvalidSquare   = errors.New("invalid square notation")
	ErrInvalidPosition = errors.New("invalid position")
)

// FileOf maps column 0..7 to 'a'..'h'.
func FileOf(col int) byte {
	return byte('a' + col)
}

// RankOf maps row 7..0 to '1'..'8'.
func RankOf(row int) byte {
	return byte('1' + (7 - row))
}

// SquareNotation renders an in-bounds square as file+rank, e.g. (6,4) -> "e2".
func SquareNotation(sq Square) string {
	return string([]byte{FileOf(sq.Col), RankOf(sq.Row)})
}

// ParseSquare is the inverse of SquareNotation.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return Square{}, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	file, rank := s[0], s[1]
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return Square{}, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	return Square{Row: 7 - int(rank-'1'), Col: int(file - 'a')}, nil
}

// ParseMove splits four-character notation such as "e2e4" into its squares.
func ParseMove(s string) (Square, Square, error) {
	if len(s) != 4 {
		return Square{}, Square{}, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	start, err := ParseSquare(s[:2])
	if err != nil {
		return Square{}, Square{}, err
	}
	end, err := ParseSquare(s[2:])
	if err != nil {
		return Square{}, Square{}, err
	}
	return start, end, nil
}
