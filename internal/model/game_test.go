package model

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Stryder91/Chess/internal/chess"
	"github.com/Stryder91/Chess/internal/ws"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"
)

type fakeConn struct {
	mu       sync.Mutex
	received chan ws.Message
	frames   []int
	closed   bool
	fail     bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{received: make(chan ws.Message, 32)}
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("broken pipe")
	}
	c.received <- v.(ws.Message)
	return nil
}

func (c *fakeConn) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = append(c.frames, messageType)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// nextState waits for a gameState message with at least the given version.
func (c *fakeConn) nextState(t *testing.T, minVersion uint64) GameState {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case msg := <-c.received:
			if msg.Type != ws.MessageTypeGameState {
				t.Fatalf("unexpected message type %q", msg.Type)
			}
			var state GameState
			if err := json.Unmarshal(msg.Payload, &state); err != nil {
				t.Fatalf("decode state: %v", err)
			}
			if state.Version >= minVersion {
				return state
			}
		case <-deadline:
			t.Fatalf("no state with version >= %d received", minVersion)
		}
	}
}

func newSeatedGame(t *testing.T) *Game {
	t.Helper()
	g := NewGame("g1", zerolog.Nop())
	if c, err := g.AddPlayer("alice"); err != nil || c != chess.White {
		t.Fatalf("alice: %v %v", c, err)
	}
	if c, err := g.AddPlayer("bob"); err != nil || c != chess.Black {
		t.Fatalf("bob: %v %v", c, err)
	}
	return g
}

func play(t *testing.T, g *Game, player, from, to string) {
	t.Helper()
	if err := g.MakeMove(player, WSMove{From: from, To: to}); err != nil {
		t.Fatalf("%s %s%s: %v", player, from, to, err)
	}
}

func TestAddPlayer(t *testing.T) {
	g := newSeatedGame(t)
	if c, err := g.AddPlayer("alice"); err != nil || c != chess.White {
		t.Fatalf("rejoin: got %v %v, want white", c, err)
	}
	if _, err := g.AddPlayer("carol"); !errors.Is(err, ErrGameFull) {
		t.Fatalf("third player: got %v want ErrGameFull", err)
	}
	if !g.IsPlayerInGame("bob") || g.IsPlayerInGame("carol") || g.IsPlayerInGame("") {
		t.Fatalf("IsPlayerInGame is wrong")
	}
}

func TestMakeMoveRejections(t *testing.T) {
	g := newSeatedGame(t)
	cases := []struct {
		name   string
		player string
		move   WSMove
		want   error
	}{
		{"spectator", "carol", WSMove{From: "e2", To: "e4"}, ErrNotInGame},
		{"wrong side", "bob", WSMove{From: "e7", To: "e5"}, ErrNotYourTurn},
		{"illegal", "alice", WSMove{From: "e2", To: "e5"}, chess.ErrIllegalMove},
		{"bad square", "alice", WSMove{From: "e2", To: "z9"}, chess.ErrInvalidSquare},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := g.MakeMove(tc.player, tc.move); !errors.Is(err, tc.want) {
				t.Fatalf("got %v want %v", err, tc.want)
			}
		})
	}
	if moves := g.Moves(); len(moves) != 0 {
		t.Fatalf("rejected moves were recorded: %v", moves)
	}
}

func TestGameStateAfterMoves(t *testing.T) {
	g := newSeatedGame(t)
	play(t, g, "alice", "e2", "e4")
	play(t, g, "bob", "d7", "d5")
	play(t, g, "alice", "e4", "d5")

	state := g.GetState()
	if state.ToMove != chess.Black {
		t.Fatalf("toMove: %v", state.ToMove)
	}
	if state.Board[3][3] != "wp" || state.Board[6][4] != "--" || state.Board[4][4] != "--" {
		t.Fatalf("board: %v", state.Board)
	}
	if len(state.MoveHistory) != 2 {
		t.Fatalf("history: %+v", state.MoveHistory)
	}
	first := state.MoveHistory[0]
	if first.WhitePly == nil || first.WhitePly.Notation != "e2e4" || first.BlackPly == nil || first.BlackPly.Notation != "d7d5" {
		t.Fatalf("first move: %+v", first)
	}
	if second := state.MoveHistory[1]; second.WhitePly.Notation != "e4d5" || second.BlackPly != nil {
		t.Fatalf("second move: %+v", second)
	}
	if len(state.CapturedPieces.White) != 1 || state.CapturedPieces.White[0] != (chess.Piece{Color: chess.Black, Type: chess.Pawn}) {
		t.Fatalf("captured: %+v", state.CapturedPieces)
	}
	if state.LastMove == nil || state.LastMove.From != "e4" || state.LastMove.To != "d5" {
		t.Fatalf("last move: %+v", state.LastMove)
	}
	if len(state.LegalMoves) != len(g.LegalMoves()) {
		t.Fatalf("legal moves disagree")
	}
	if got := g.Moves(); len(got) != 3 || got[2] != "e4d5" {
		t.Fatalf("moves: %v", got)
	}
}

func TestCheckmateEndsGameAndUndoReopensIt(t *testing.T) {
	g := newSeatedGame(t)
	play(t, g, "alice", "f2", "f3")
	play(t, g, "bob", "e7", "e5")
	play(t, g, "alice", "g2", "g4")
	play(t, g, "bob", "d8", "h4")

	if g.Resolution() != Checkmate {
		t.Fatalf("resolution: %q", g.Resolution())
	}
	state := g.GetState()
	if !state.IsCheck || state.Resolve == nil || *state.Resolve != "checkmate" || len(state.LegalMoves) != 0 {
		t.Fatalf("state after mate: check=%v resolve=%v legal=%d", state.IsCheck, state.Resolve, len(state.LegalMoves))
	}
	if err := g.MakeMove("alice", WSMove{From: "a2", To: "a3"}); !errors.Is(err, ErrGameOver) {
		t.Fatalf("move after mate: %v", err)
	}

	if err := g.Undo("alice"); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if g.Resolution() != Ongoing {
		t.Fatalf("resolution after undo: %q", g.Resolution())
	}
	if state := g.GetState(); state.LastMove == nil || state.LastMove.From != "g2" {
		t.Fatalf("last move after undo: %+v", state.LastMove)
	}
}

func TestUndo(t *testing.T) {
	g := newSeatedGame(t)
	before := g.GetState()
	if err := g.Undo("alice"); err != nil {
		t.Fatalf("undo on empty history: %v", err)
	}
	if after := g.GetState(); after.Version != before.Version {
		t.Fatalf("empty undo changed the game")
	}
	if err := g.Undo("carol"); !errors.Is(err, ErrNotInGame) {
		t.Fatalf("spectator undo: %v", err)
	}

	play(t, g, "alice", "e2", "e4")
	if err := g.Undo("bob"); err != nil {
		t.Fatalf("undo: %v", err)
	}
	state := g.GetState()
	if state.Board != before.Board || state.ToMove != chess.White || state.LastMove != nil {
		t.Fatalf("undo did not restore the game: %+v", state)
	}
}

func TestReplay(t *testing.T) {
	g := NewGame("g2", zerolog.Nop())
	if err := g.Replay([]string{"e2e4", "e7e5", "g1f3"}); err != nil {
		t.Fatalf("replay: %v", err)
	}
	state := g.GetState()
	if state.ToMove != chess.Black || state.Board[5][5] != "wN" {
		t.Fatalf("replayed state: %+v", state)
	}
	if err := NewGame("g3", zerolog.Nop()).Replay([]string{"e2e5"}); !errors.Is(err, chess.ErrIllegalMove) {
		t.Fatalf("bad replay: %v", err)
	}
}

func TestBroadcastToConnections(t *testing.T) {
	g := newSeatedGame(t)
	alice, bob := newFakeConn(), newFakeConn()
	if err := g.RegisterConnection("alice", alice); err != nil {
		t.Fatalf("register alice: %v", err)
	}
	if err := g.RegisterConnection("bob", bob); err != nil {
		t.Fatalf("register bob: %v", err)
	}
	initial := alice.nextState(t, 0)

	play(t, g, "alice", "e2", "e4")
	for _, conn := range []*fakeConn{alice, bob} {
		state := conn.nextState(t, initial.Version+1)
		if state.Board[4][4] != "wp" || state.ToMove != chess.Black {
			t.Fatalf("broadcast state: %+v", state)
		}
	}
}

func TestDuplicateConnectionIsClosed(t *testing.T) {
	g := newSeatedGame(t)
	first, second := newFakeConn(), newFakeConn()
	if err := g.RegisterConnection("alice", first); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := g.RegisterConnection("alice", second); err != nil {
		t.Fatalf("duplicate register: %v", err)
	}
	second.mu.Lock()
	defer second.mu.Unlock()
	if !second.closed || len(second.frames) != 1 || second.frames[0] != websocket.CloseMessage {
		t.Fatalf("duplicate connection not closed: closed=%v frames=%v", second.closed, second.frames)
	}
	if n := g.connections.Len(); n != 1 {
		t.Fatalf("connections: %d", n)
	}
}

func TestFailingConnectionIsDropped(t *testing.T) {
	g := newSeatedGame(t)
	conn := newFakeConn()
	conn.fail = true
	if err := g.RegisterConnection("bob", conn); err != nil {
		t.Fatalf("register: %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for g.connections.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("failing connection was not dropped")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestSpectatorsOnlyWhileSeatOpen(t *testing.T) {
	g := NewGame("g4", zerolog.Nop())
	if _, err := g.AddPlayer("alice"); err != nil {
		t.Fatal(err)
	}
	if err := g.RegisterConnection("carol", newFakeConn()); err != nil {
		t.Fatalf("spectator with open seat: %v", err)
	}
	if _, err := g.AddPlayer("bob"); err != nil {
		t.Fatal(err)
	}
	if err := g.RegisterConnection("dave", newFakeConn()); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("spectator with full game: %v", err)
	}
}
