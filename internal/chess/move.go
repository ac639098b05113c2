package chess

// Move records one board transition together with the pieces needed to undo it.
type Move struct {
	Start         Square `json:"from"`
	End           Square `json:"to"`
	PieceMoved    Piece  `json:"piece"`
	PieceCaptured Piece  `json:"capturedPiece"`
}

// NewMove captures the moved and captured pieces from board by value.
// Both squares must already be in bounds.
func NewMove(start, end Square, board *Board) Move {
	return Move{
		Start:         start,
		End:           end,
		PieceMoved:    board.At(start),
		PieceCaptured: board.At(end),
	}
}

// Equals compares coordinates only.
func (m Move) Equals(other Move) bool {
	return m.Start == other.Start && m.End == other.End
}

// ID packs the coordinates as startRow*1000 + startCol*100 + endRow*10 + endCol.
func (m Move) ID() int {
	return m.Start.Row*1000 + m.Start.Col*100 + m.End.Row*10 + m.End.Col
}

func (m Move) IsCapture() bool {
	return !m.PieceCaptured.IsEmpty()
}

// Algebraic renders the move as start and end squares, e.g. "e2e4".
func (m Move) Algebraic() string {
	return SquareNotation(m.Start) + SquareNotation(m.End)
}

func (m Move) String() string {
	return m.Algebraic()
}
