package service

import (
	"fmt"

	"github.com/Stryder91/Chess/internal/chess"
	"github.com/Stryder91/Chess/internal/model"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type GameService struct {
	gameManager *GameManager
	log         zerolog.Logger
}

func NewGameService(gameManager *GameManager, log zerolog.Logger) *GameService {
	return &GameService{
		gameManager: gameManager,
		log:         log,
	}
}

func (gs *GameService) JoinGame(gameID string, playerID string) (chess.Color, error) {
	return gs.gameManager.AddPlayerToGame(gameID, playerID)
}

func (gs *GameService) CreateGame() (string, error) {
	gameID := uuid.New().String()

	if err := gs.gameManager.CreateGame(gameID); err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}

	return gameID, nil
}

func (gs *GameService) GetGameState(gameID string) (model.GameState, error) {
	return gs.gameManager.GetGameState(gameID)
}

func (gs *GameService) LegalMoves(gameID string) ([]string, error) {
	return gs.gameManager.LegalMoves(gameID)
}

func (gs *GameService) DeleteGame(gameID string, playerID string) error {
	return gs.gameManager.DeleteGame(gameID, playerID)
}

func (gs *GameService) ListGames() ([]string, error) {
	return gs.gameManager.ListGames()
}

func (gs *GameService) HandleMove(gameID string, playerID string, move model.WSMove) error {
	if err := gs.gameManager.MakeMove(gameID, playerID, move); err != nil {
		gs.log.Debug().Err(err).Str("game", gameID).Str("player", playerID).Msg("move rejected")
		return err
	}

	return nil
}

func (gs *GameService) HandleUndo(gameID string, playerID string) error {
	return gs.gameManager.Undo(gameID, playerID)
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn model.Conn) error {
	return gs.gameManager.RegisterConnection(gameID, playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string, conn model.Conn) {
	gs.gameManager.UnregisterConnection(gameID, playerID, conn)
}

func (gs *GameService) SendError(gameID string, conn model.Conn, err error) {
	gs.gameManager.SendError(gameID, conn, err)
}
