package model

import (
	"fmt"
	"sync"

	"github.com/Stryder91/Chess/internal/chess"
	"github.com/Stryder91/Chess/internal/ws"
	"github.com/gofiber/websocket/v2"
)

// Conn is the part of a websocket connection a game writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// GameConnections holds the sockets for a single game, one per player.
// writeMu serializes writes; a socket accepts one writer at a time.
type GameConnections struct {
	connections map[string]Conn // playerID -> connection
	mu          sync.RWMutex
	writeMu     sync.Mutex
	lastSent    uint64
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]Conn),
	}
}

func (gc *GameConnections) Len() int {
	gc.mu.RLock()
	defer gc.mu.RUnlock()
	return len(gc.connections)
}

// RegisterConnection attaches conn for playerID. Seated players may always
// connect; anyone else may watch while a seat is still open. A second
// connection for the same player is closed and the first one kept.
func (g *Game) RegisterConnection(playerID string, conn Conn) error {
	connID := fmt.Sprintf("%p", conn)

	g.mu.Lock()
	isAuthorized := g.players.colorOf(playerID) != chess.NoColor || g.players.hasOpenSeat()
	state := g.state()
	g.mu.Unlock()

	if !isAuthorized {
		return ErrNotAuthorized
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		g.connections.mu.Unlock()
		g.log.Debug().Str("player", playerID).Str("conn", connID).Msg("rejecting duplicate connection")
		_ = conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "Connection already exists"),
		)
		_ = conn.Close()
		return nil
	}
	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()
	g.log.Info().Str("player", playerID).Str("conn", connID).Msg("connection registered")

	go g.broadcastState(state)
	return nil
}

// UnregisterConnection forgets playerID's socket if it is still conn.
func (g *Game) UnregisterConnection(playerID string, conn Conn) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if current, exists := g.connections.connections[playerID]; exists && current == conn {
		delete(g.connections.connections, playerID)
		g.log.Info().Str("player", playerID).Msg("connection unregistered")
	}
}

// broadcastState sends state to every registered socket and drops those that
// fail. A state older than one already sent is skipped.
func (g *Game) broadcastState(state GameState) {
	msg, err := ws.NewMessage(ws.MessageTypeGameState, state)
	if err != nil {
		g.log.Error().Err(err).Msg("failed to marshal state")
		return
	}

	g.connections.writeMu.Lock()
	defer g.connections.writeMu.Unlock()
	if state.Version < g.connections.lastSent {
		return
	}
	g.connections.lastSent = state.Version

	g.connections.mu.RLock()
	active := make(map[string]Conn, len(g.connections.connections))
	for playerID, conn := range g.connections.connections {
		active[playerID] = conn
	}
	g.connections.mu.RUnlock()

	for playerID, conn := range active {
		if err := conn.WriteJSON(msg); err != nil {
			g.log.Warn().Err(err).Str("player", playerID).Msg("failed to send state, dropping connection")
			g.UnregisterConnection(playerID, conn)
		}
	}
}

// Send writes a single message to conn, serialized with broadcasts.
func (g *Game) Send(conn Conn, msg ws.Message) error {
	g.connections.writeMu.Lock()
	defer g.connections.writeMu.Unlock()
	return conn.WriteJSON(msg)
}
