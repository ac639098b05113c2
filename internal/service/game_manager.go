package service

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/Stryder91/Chess/internal/chess"
	"github.com/Stryder91/Chess/internal/model"
	"github.com/Stryder91/Chess/internal/storage"
	"github.com/Stryder91/Chess/internal/ws"
	"github.com/rs/zerolog"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game already exists")
)

// GameManager owns every live game. With an archive attached, each game is
// written through after every change and reloaded on demand.
type GameManager struct {
	games     map[string]*model.Game
	archive   *storage.Archive
	log       zerolog.Logger
	mu        sync.RWMutex
	persistMu sync.Mutex
}

// NewGameManager returns a manager. archive may be nil.
func NewGameManager(archive *storage.Archive, log zerolog.Logger) *GameManager {
	return &GameManager{
		games:   make(map[string]*model.Game),
		archive: archive,
		log:     log,
	}
}

func (gm *GameManager) CreateGame(gameID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return ErrGameExists
	}
	if gm.archive != nil {
		_, err := gm.archive.LoadGame(gameID)
		if err == nil {
			return ErrGameExists
		}
		if !errors.Is(err, storage.ErrRecordNotFound) {
			return err
		}
	}

	game := model.NewGame(gameID, gm.log)
	gm.games[gameID] = game
	gm.log.Info().Str("game", gameID).Msg("game created")
	gm.persist(game)
	return nil
}

// GetGame returns a live game, rebuilding it from the archive if needed.
func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	game, exists := gm.games[gameID]
	gm.mu.RUnlock()
	if exists {
		return game, nil
	}
	if gm.archive == nil {
		return nil, ErrGameNotFound
	}

	gm.mu.Lock()
	defer gm.mu.Unlock()
	if game, exists := gm.games[gameID]; exists {
		return game, nil
	}

	rec, err := gm.archive.LoadGame(gameID)
	if errors.Is(err, storage.ErrRecordNotFound) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load game %s: %w", gameID, err)
	}

	game = model.NewGame(gameID, gm.log)
	game.SetPlayers(rec.White, rec.Black)
	if err := game.Replay(rec.Moves); err != nil {
		return nil, fmt.Errorf("restore game %s: %w", gameID, err)
	}
	if replayed := game.Resolution(); string(replayed) != rec.Resolve {
		gm.log.Warn().Str("game", gameID).Str("recorded", rec.Resolve).Str("replayed", string(replayed)).
			Msg("archived resolution disagrees with replay")
	}
	gm.games[gameID] = game
	gm.log.Info().Str("game", gameID).Int("plies", len(rec.Moves)).Msg("game restored from archive")
	return game, nil
}

func (gm *GameManager) AddPlayerToGame(gameID string, playerID string) (chess.Color, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return chess.NoColor, err
	}

	color, err := game.AddPlayer(playerID)
	if err != nil {
		return chess.NoColor, err
	}
	gm.persist(game)
	return color, nil
}

func (gm *GameManager) GetGameState(gameID string) (model.GameState, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.GetState(), nil
}

func (gm *GameManager) MakeMove(gameID string, playerID string, move model.WSMove) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}

	if err := game.MakeMove(playerID, move); err != nil {
		return err
	}
	gm.persist(game)
	return nil
}

func (gm *GameManager) Undo(gameID string, playerID string) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}

	if err := game.Undo(playerID); err != nil {
		return err
	}
	gm.persist(game)
	return nil
}

// DeleteGame forgets a game and removes its archived record. Only a seated
// player may delete it.
func (gm *GameManager) DeleteGame(gameID string, playerID string) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	if !game.IsPlayerInGame(playerID) {
		return model.ErrNotInGame
	}

	gm.mu.Lock()
	delete(gm.games, gameID)
	gm.mu.Unlock()

	if gm.archive != nil {
		gm.persistMu.Lock()
		defer gm.persistMu.Unlock()
		if err := gm.archive.DeleteGame(gameID); err != nil {
			return fmt.Errorf("delete archived game %s: %w", gameID, err)
		}
	}
	gm.log.Info().Str("game", gameID).Str("player", playerID).Msg("game deleted")
	return nil
}

func (gm *GameManager) LegalMoves(gameID string) ([]string, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.LegalMoves(), nil
}

// ListGames returns the ids of every known game, live or archived, sorted.
func (gm *GameManager) ListGames() ([]string, error) {
	seen := make(map[string]struct{})

	gm.mu.RLock()
	for id := range gm.games {
		seen[id] = struct{}{}
	}
	gm.mu.RUnlock()

	if gm.archive != nil {
		records, err := gm.archive.ListGames()
		if err != nil {
			return nil, fmt.Errorf("list archive: %w", err)
		}
		for _, rec := range records {
			seen[rec.ID] = struct{}{}
		}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

func (gm *GameManager) RegisterConnection(gameID string, playerID string, conn model.Conn) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.RegisterConnection(playerID, conn)
}

func (gm *GameManager) UnregisterConnection(gameID string, playerID string, conn model.Conn) {
	gm.mu.RLock()
	game, exists := gm.games[gameID]
	gm.mu.RUnlock()
	if !exists {
		return
	}
	game.UnregisterConnection(playerID, conn)
}

// SendError reports err to a single socket of the game.
func (gm *GameManager) SendError(gameID string, conn model.Conn, err error) {
	msg, merr := ws.NewMessage(ws.MessageTypeError, ws.ErrorPayload{Error: err.Error()})
	if merr != nil {
		gm.log.Error().Err(merr).Msg("failed to marshal error message")
		return
	}

	gm.mu.RLock()
	game, exists := gm.games[gameID]
	gm.mu.RUnlock()
	if !exists {
		_ = conn.WriteJSON(msg)
		return
	}
	if werr := game.Send(conn, msg); werr != nil {
		gm.log.Warn().Err(werr).Str("game", gameID).Msg("failed to send error message")
	}
}

// persist writes the game's current record. The in-memory game stays
// authoritative, so a failed write is logged and not returned.
func (gm *GameManager) persist(game *model.Game) {
	if gm.archive == nil {
		return
	}
	gm.persistMu.Lock()
	defer gm.persistMu.Unlock()

	if err := gm.archive.SaveGame(game.Record()); err != nil {
		gm.log.Error().Err(err).Str("game", game.ID).Msg("failed to archive game")
	}
}
