package model

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Stryder91/Chess/internal/chess"
	"github.com/Stryder91/Chess/internal/storage"
	"github.com/rs/zerolog"
)

var (
	ErrGameFull      = errors.New("game is full")
	ErrNotInGame     = errors.New("player not in game")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrNotAuthorized = errors.New("not authorized to join this game")
	ErrGameOver      = errors.New("game is over")
)

type Resolution string

const (
	Ongoing   Resolution = ""
	Checkmate Resolution = "checkmate"
	Stalemate Resolution = "stalemate"
)

// Game is one running game: a chess position, its two seats and the sockets
// watching it. All access to the position goes through g.mu.
type Game struct {
	ID          string
	mu          sync.Mutex
	position    *chess.Position
	players     Players
	legalMoves  []chess.Move
	isCheck     bool
	resolve     Resolution
	lastMove    *chess.Move
	version     uint64
	connections *GameConnections
	log         zerolog.Logger
}

func NewGame(id string, log zerolog.Logger) *Game {
	g := &Game{
		ID:          id,
		position:    chess.NewPosition(),
		players:     newPlayers(),
		connections: NewGameConnections(),
		log:         log.With().Str("game", id).Logger(),
	}
	g.refresh()
	return g
}

// AddPlayer seats playerID, white first. A player already seated gets the same seat back.
func (g *Game) AddPlayer(playerID string) (chess.Color, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if c := g.players.colorOf(playerID); c != chess.NoColor {
		return c, nil
	}
	if g.players.White.ID == "" {
		g.players.White.ID = playerID
		g.log.Info().Str("player", playerID).Msg("seated as white")
		return chess.White, nil
	}
	if g.players.Black.ID == "" {
		g.players.Black.ID = playerID
		g.log.Info().Str("player", playerID).Msg("seated as black")
		return chess.Black, nil
	}
	return chess.NoColor, ErrGameFull
}

// SetPlayers restores both seats, used when a game is rebuilt from its record.
func (g *Game) SetPlayers(white, black string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.players.White.ID = white
	g.players.Black.ID = black
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.players.colorOf(playerID) != chess.NoColor
}

func (g *Game) Players() Players {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.players
}

func (g *Game) Resolution() Resolution {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.resolve
}

// MakeMove plays move for playerID if it is that player's turn and the move is legal.
func (g *Game) MakeMove(playerID string, move WSMove) error {
	from, to, err := move.Squares()
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	color := g.players.colorOf(playerID)
	if color == chess.NoColor {
		return ErrNotInGame
	}
	if g.resolve != Ongoing {
		return fmt.Errorf("%w: %s", ErrGameOver, g.resolve)
	}
	if color != g.position.SideToMove() {
		return ErrNotYourTurn
	}

	played, err := g.position.TryMove(from, to)
	if err != nil {
		return err
	}
	g.lastMove = &played
	g.refresh()
	g.log.Debug().Str("player", playerID).Str("move", played.Algebraic()).Bool("check", g.isCheck).Msg("move played")
	if g.resolve != Ongoing {
		g.log.Info().Str("resolve", string(g.resolve)).Msg("game over")
	}

	go g.broadcastState(g.state())
	return nil
}

// Undo takes back the last ply. With nothing to undo it does nothing.
func (g *Game) Undo(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.players.colorOf(playerID) == chess.NoColor {
		return ErrNotInGame
	}
	history := g.position.History()
	if len(history) == 0 {
		return nil
	}
	g.position.UndoMove()
	g.lastMove = nil
	if len(history) > 1 {
		prev := history[len(history)-2]
		g.lastMove = &prev
	}
	g.refresh()
	g.log.Debug().Str("player", playerID).Str("move", history[len(history)-1].Algebraic()).Msg("move undone")

	go g.broadcastState(g.state())
	return nil
}

// Replay plays recorded moves in order, bypassing seat and turn checks.
func (g *Game) Replay(moves []string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	for i, notation := range moves {
		from, to, err := chess.ParseMove(notation)
		if err != nil {
			return fmt.Errorf("replay ply %d: %w", i+1, err)
		}
		played, err := g.position.TryMove(from, to)
		if err != nil {
			return fmt.Errorf("replay ply %d: %w", i+1, err)
		}
		g.lastMove = &played
	}
	g.refresh()
	return nil
}

// Moves returns the history in move notation, oldest first.
func (g *Game) Moves() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	return notations(g.position.History())
}

// LegalMoves returns the legal moves of the side to move in move notation.
func (g *Game) LegalMoves() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	return notations(g.legalMoves)
}

// Record snapshots the game for the archive.
func (g *Game) Record() *storage.GameRecord {
	g.mu.Lock()
	defer g.mu.Unlock()

	return &storage.GameRecord{
		ID:      g.ID,
		White:   g.players.White.ID,
		Black:   g.players.Black.ID,
		Moves:   notations(g.position.History()),
		Resolve: string(g.resolve),
	}
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.state()
}

// refresh recomputes everything derived from the position. Callers hold g.mu.
func (g *Game) refresh() {
	g.version++
	g.legalMoves = g.position.LegalMoves()
	g.isCheck = g.position.InCheck()
	g.resolve = Ongoing
	if len(g.legalMoves) == 0 {
		if g.isCheck {
			g.resolve = Checkmate
		} else {
			g.resolve = Stalemate
		}
	}
}

func notations(moves []chess.Move) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.Algebraic()
	}
	return out
}
