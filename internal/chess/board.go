package chess

import "fmt"

type Color int8

const (
	NoColor Color = iota
	White
	Black
)

func (c Color) Opponent() Color {
	switch c {
	case White:
		return Black
	case Black:
		return White
	}
	return NoColor
}

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	}
	return "none"
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	switch string(text) {
	case "white":
		*c = White
	case "black":
		*c = Black
	case "none":
		*c = NoColor
	default:
		return fmt.Errorf("invalid color %q", text)
	}
	return nil
}

func (c Color) tag() byte {
	switch c {
	case White:
		return 'w'
	case Black:
		return 'b'
	}
	return '-'
}

type PieceType int8

const (
	NoPiece PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

func (t PieceType) String() string {
	switch t {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	}
	return "none"
}

func (t PieceType) tag() byte {
	switch t {
	case Pawn:
		return 'p'
	case Knight:
		return 'N'
	case Bishop:
		return 'B'
	case Rook:
		return 'R'
	case Queen:
		return 'Q'
	case King:
		return 'K'
	}
	return '-'
}

// Piece is a value: copying a Piece never shares state with the board it came from.
// The zero value is the empty square.
type Piece struct {
	Color Color
	Type  PieceType
}

var Empty = Piece{}

func (p Piece) IsEmpty() bool {
	return p.Type == NoPiece
}

// String renders the two-character tag used by clients, e.g. "wp", "bK", "--".
func (p Piece) String() string {
	if p.IsEmpty() {
		return "--"
	}
	return string([]byte{p.Color.tag(), p.Type.tag()})
}

func (p Piece) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Piece) UnmarshalText(text []byte) error {
	parsed, err := ParsePiece(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePiece is the inverse of Piece.String.
func ParsePiece(tag string) (Piece, error) {
	if tag == "--" {
		return Empty, nil
	}
	if len(tag) != 2 {
		return Empty, fmt.Errorf("invalid piece tag %q", tag)
	}
	var p Piece
	switch tag[0] {
	case 'w':
		p.Color = White
	case 'b':
		p.Color = Black
	default:
		return Empty, fmt.Errorf("invalid piece color in %q", tag)
	}
	switch tag[1] {
	case 'p':
		p.Type = Pawn
	case 'N':
		p.Type = Knight
	case 'B':
		p.Type = Bishop
	case 'R':
		p.Type = Rook
	case 'Q':
		p.Type = Queen
	case 'K':
		p.Type = King
	default:
		return Empty, fmt.Errorf("invalid piece type in %q", tag)
	}
	return p, nil
}

// Square uses board-array coordinates: row 0 is black's back rank, row 7 is white's.
type Square struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (s Square) InBounds() bool {
	return s.Row >= 0 && s.Row < 8 && s.Col >= 0 && s.Col < 8
}

func (s Square) add(d Direction, steps int) Square {
	return Square{Row: s.Row + d.Row*steps, Col: s.Col + d.Col*steps}
}

func (s Square) String() string {
	if !s.InBounds() {
		return fmt.Sprintf("(%d,%d)", s.Row, s.Col)
	}
	return SquareNotation(s)
}

// Direction is a unit step (or a knight offset) in board-array coordinates.
type Direction struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (d Direction) reverse() Direction {
	return Direction{Row: -d.Row, Col: -d.Col}
}

var (
	orthogonalDirs = []Direction{{Row: -1, Col: 0}, {Row: 0, Col: -1}, {Row: 1, Col: 0}, {Row: 0, Col: 1}}
	diagonalDirs   = []Direction{{Row: -1, Col: -1}, {Row: -1, Col: 1}, {Row: 1, Col: -1}, {Row: 1, Col: 1}}
	kingDirs       = append(append([]Direction{}, orthogonalDirs...), diagonalDirs...)
	knightOffsets  = []Direction{{Row: -2, Col: -1}, {Row: -2, Col: 1}, {Row: -1, Col: -2}, {Row: -1, Col: 2}, {Row: 1, Col: -2}, {Row: 1, Col: 2}, {Row: 2, Col: -1}, {Row: 2, Col: 1}}
)

// Board is an 8x8 array of piece values. Assigning a Board copies it.
type Board [8][8]Piece

func (b *Board) At(sq Square) Piece {
	return b[sq.Row][sq.Col]
}

func (b *Board) set(sq Square, p Piece) {
	b[sq.Row][sq.Col] = p
}

// Tags returns the board as piece tags, row 0 first.
func (b *Board) Tags() [8][8]string {
	var out [8][8]string
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			out[r][c] = b[r][c].String()
		}
	}
	return out
}

// ParseBoard builds a board from eight rows of eight space separated tags.
func ParseBoard(rows [8]string) (Board, error) {
	var b Board
	for r, line := range rows {
		var tags [8]string
		n, _ := fmt.Sscan(line, &tags[0], &tags[1], &tags[2], &tags[3], &tags[4], &tags[5], &tags[6], &tags[7])
		if n != 8 {
			return Board{}, fmt.Errorf("row %d: want 8 tags, got %d", r, n)
		}
		for c, tag := range tags {
			p, err := ParsePiece(tag)
			if err != nil {
				return Board{}, fmt.Errorf("row %d: %w", r, err)
			}
			b[r][c] = p
		}
	}
	return b, nil
}

func newBoard() Board {
	var b Board
	backRank := [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for c := 0; c < 8; c++ {
		b[0][c] = Piece{Color: Black, Type: backRank[c]}
		b[1][c] = Piece{Color: Black, Type: Pawn}
		b[6][c] = Piece{Color: White, Type: Pawn}
		b[7][c] = Piece{Color: White, Type: backRank[c]}
	}
	return b
}
