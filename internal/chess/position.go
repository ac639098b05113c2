package chess

import "fmt"

// Position is the authoritative game state: board, side to move, king locations
// and move history. It is not safe for concurrent use; callers serialize access.
type Position struct {
	board      Board
	sideToMove Color
	history    []Move
	whiteKing  Square
	blackKing  Square

	// Derived by analyzeThreats on every legality query.
	inCheck bool
	pins    map[Square]Direction
	checks  []Check
}

// Check is one piece giving check. Dir points from the king toward the attacker;
// for knight and pawn checks it is the raw offset and Sliding is false.
type Check struct {
	Attacker Square    `json:"attacker"`
	Dir      Direction `json:"dir"`
	Sliding  bool      `json:"sliding"`
}

// NewPosition returns the standard initial setup with white to move.
func NewPosition() *Position {
	return &Position{
		board:      newBoard(),
		sideToMove: White,
		history:    make([]Move, 0),
		whiteKing:  Square{Row: 7, Col: 4},
		blackKing:  Square{Row: 0, Col: 4},
	}
}

// NewPositionFromBoard sets up an arbitrary position. The board must hold exactly
// one king per color and no pawn on its own back rank.
func NewPositionFromBoard(board Board, toMove Color) (*Position, error) {
	if toMove != White && toMove != Black {
		return nil, fmt.Errorf("%w: side to move %v", ErrInvalidPosition, toMove)
	}
	p := &Position{
		board:      board,
		sideToMove: toMove,
		history:    make([]Move, 0),
	}
	var whiteKings, blackKings int
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			pc := board[r][c]
			switch {
			case pc.Type == King && pc.Color == White:
				whiteKings++
				p.whiteKing = Square{Row: r, Col: c}
			case pc.Type == King && pc.Color == Black:
				blackKings++
				p.blackKing = Square{Row: r, Col: c}
			case pc.Type == Pawn && pc.Color == White && r == 7,
				pc.Type == Pawn && pc.Color == Black && r == 0:
				return nil, fmt.Errorf("%w: %s pawn on its back rank at %s", ErrInvalidPosition, pc.Color, Square{Row: r, Col: c})
			}
		}
	}
	if whiteKings != 1 || blackKings != 1 {
		return nil, fmt.Errorf("%w: want one king per color, got %d white and %d black", ErrInvalidPosition, whiteKings, blackKings)
	}
	return p, nil
}

// Board returns a copy of the board for rendering.
func (p *Position) Board() Board {
	return p.board
}

func (p *Position) SideToMove() Color {
	return p.sideToMove
}

// History returns a copy of the moves played so far, oldest first.
func (p *Position) History() []Move {
	out := make([]Move, len(p.history))
	copy(out, p.history)
	return out
}

func (p *Position) KingSquare(c Color) Square {
	if c == White {
		return p.whiteKing
	}
	return p.blackKing
}

// MakeMove applies m without checking legality. Only moves taken from LegalMoves
// keep the position consistent.
func (p *Position) MakeMove(m Move) {
	p.board.set(m.End, m.PieceMoved)
	p.board.set(m.Start, Empty)
	p.history = append(p.history, m)
	p.sideToMove = p.sideToMove.Opponent()
	if m.PieceMoved.Type == King {
		p.setKingSquare(m.PieceMoved.Color, m.End)
	}
}

// UndoMove reverts the last move. It does nothing when no move has been made.
func (p *Position) UndoMove() {
	if len(p.history) == 0 {
		return
	}
	m := p.history[len(p.history)-1]
	p.history = p.history[:len(p.history)-1]
	p.board.set(m.Start, m.PieceMoved)
	p.board.set(m.End, m.PieceCaptured)
	p.sideToMove = p.sideToMove.Opponent()
	if m.PieceMoved.Type == King {
		p.setKingSquare(m.PieceMoved.Color, m.Start)
	}
}

// TryMove applies the move from start to end if it is legal for the side to move
// and returns the applied move.
func (p *Position) TryMove(start, end Square) (Move, error) {
	if !start.InBounds() || !end.InBounds() {
		return Move{}, fmt.Errorf("%w: %v -> %v", ErrOutOfBounds, start, end)
	}
	candidate := NewMove(start, end, &p.board)
	for _, legal := range p.LegalMoves() {
		if legal.Equals(candidate) {
			p.MakeMove(legal)
			return legal, nil
		}
	}
	return Move{}, fmt.Errorf("%w: %s", ErrIllegalMove, candidate.Algebraic())
}

func (p *Position) setKingSquare(c Color, sq Square) {
	if c == White {
		p.whiteKing = sq
	} else {
		p.blackKing = sq
	}
}
