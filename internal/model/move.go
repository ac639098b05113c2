package model

import (
	"fmt"

	"github.com/Stryder91/Chess/internal/chess"
)

// WSMove is a move as submitted by a client, in square notation ("e2", "e4").
type WSMove struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (m WSMove) Squares() (chess.Square, chess.Square, error) {
	from, err := chess.ParseSquare(m.From)
	if err != nil {
		return chess.Square{}, chess.Square{}, fmt.Errorf("from: %w", err)
	}
	to, err := chess.ParseSquare(m.To)
	if err != nil {
		return chess.Square{}, chess.Square{}, fmt.Errorf("to: %w", err)
	}
	return from, to, nil
}

type Ply struct {
	Piece         chess.Piece `json:"piece"`
	From          string      `json:"from"`
	To            string      `json:"to"`
	CapturedPiece chess.Piece `json:"capturedPiece"`
	Notation      string      `json:"notation"`
}

// Move pairs white's ply with black's reply. BlackPly is nil until black has moved.
type Move struct {
	Number   int  `json:"number"`
	WhitePly *Ply `json:"whitePly"`
	BlackPly *Ply `json:"blackPly"`
}

type SimpleMove struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func newPly(m chess.Move) *Ply {
	return &Ply{
		Piece:         m.PieceMoved,
		From:          chess.SquareNotation(m.Start),
		To:            chess.SquareNotation(m.End),
		CapturedPiece: m.PieceCaptured,
		Notation:      m.Algebraic(),
	}
}

// pairMoves groups a ply history into numbered moves. A history that starts
// with black (custom setups) leaves the first WhitePly empty.
func pairMoves(history []chess.Move) []Move {
	out := make([]Move, 0, (len(history)+1)/2)
	for _, m := range history {
		ply := newPly(m)
		if m.PieceMoved.Color == chess.White || len(out) == 0 || out[len(out)-1].BlackPly != nil {
			out = append(out, Move{Number: len(out) + 1})
		}
		last := &out[len(out)-1]
		if m.PieceMoved.Color == chess.White {
			last.WhitePly = ply
		} else {
			last.BlackPly = ply
		}
	}
	return out
}
