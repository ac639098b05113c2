package model

import "github.com/Stryder91/Chess/internal/chess"

// GameState is the client-facing snapshot of a game.
type GameState struct {
	ID             string         `json:"id"`
	Version        uint64         `json:"version"`
	Board          [8][8]string   `json:"board"`
	ToMove         chess.Color    `json:"toMove"`
	MoveHistory    []Move         `json:"moveHistory"`
	CapturedPieces CapturedPieces `json:"capturedPieces"`
	IsCheck        bool           `json:"isCheck"`
	LegalMoves     []SimpleMove   `json:"legalMoves"`
	Resolve        *string        `json:"resolve"`
	LastMove       *SimpleMove    `json:"lastMove"`
	Players        Players        `json:"players"`
}

// CapturedPieces lists, per side, the enemy pieces that side has taken.
type CapturedPieces struct {
	White []chess.Piece `json:"white"`
	Black []chess.Piece `json:"black"`
}

// state builds a snapshot. Callers hold g.mu.
func (g *Game) state() GameState {
	board := g.position.Board()
	history := g.position.History()

	state := GameState{
		ID:             g.ID,
		Version:        g.version,
		Board:          board.Tags(),
		ToMove:         g.position.SideToMove(),
		MoveHistory:    pairMoves(history),
		CapturedPieces: capturedPieces(history),
		IsCheck:        g.isCheck,
		LegalMoves:     make([]SimpleMove, 0, len(g.legalMoves)),
		Players:        g.players,
	}
	for _, m := range g.legalMoves {
		state.LegalMoves = append(state.LegalMoves, SimpleMove{
			From: chess.SquareNotation(m.Start),
			To:   chess.SquareNotation(m.End),
		})
	}
	if g.resolve != Ongoing {
		result := string(g.resolve)
		state.Resolve = &result
	}
	if g.lastMove != nil {
		state.LastMove = &SimpleMove{
			From: chess.SquareNotation(g.lastMove.Start),
			To:   chess.SquareNotation(g.lastMove.End),
		}
	}
	return state
}

func capturedPieces(history []chess.Move) CapturedPieces {
	captured := CapturedPieces{
		White: make([]chess.Piece, 0),
		Black: make([]chess.Piece, 0),
	}
	for _, m := range history {
		if !m.IsCapture() {
			continue
		}
		switch m.PieceMoved.Color {
		case chess.White:
			captured.White = append(captured.White, m.PieceCaptured)
		case chess.Black:
			captured.Black = append(captured.Black, m.PieceCaptured)
		}
	}
	return captured
}
