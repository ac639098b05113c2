package chess

import (
	"errors"
	"testing"
)

var initialTags = [8][8]string{
	{"bR", "bN", "bB", "bQ", "bK", "bB", "bN", "bR"},
	{"bp", "bp", "bp", "bp", "bp", "bp", "bp", "bp"},
	{"--", "--", "--", "--", "--", "--", "--", "--"},
	{"--", "--", "--", "--", "--", "--", "--", "--"},
	{"--", "--", "--", "--", "--", "--", "--", "--"},
	{"--", "--", "--", "--", "--", "--", "--", "--"},
	{"wp", "wp", "wp", "wp", "wp", "wp", "wp", "wp"},
	{"wR", "wN", "wB", "wQ", "wK", "wB", "wN", "wR"},
}

// mustPosition builds a position from eight rows of tags, row 0 first.
func mustPosition(t *testing.T, toMove Color, rows ...string) *Position {
	t.Helper()
	if len(rows) != 8 {
		t.Fatalf("want 8 rows, got %d", len(rows))
	}
	var in [8]string
	copy(in[:], rows)
	board, err := ParseBoard(in)
	if err != nil {
		t.Fatalf("parse board: %v", err)
	}
	pos, err := NewPositionFromBoard(board, toMove)
	if err != nil {
		t.Fatalf("new position: %v", err)
	}
	return pos
}

func TestInitialBoard(t *testing.T) {
	pos := NewPosition()
	board := pos.Board()
	if got := board.Tags(); got != initialTags {
		t.Fatalf("initial board mismatch:\n got %v\nwant %v", got, initialTags)
	}
	if pos.SideToMove() != White {
		t.Fatalf("side to move: got %v want white", pos.SideToMove())
	}
	if got := pos.KingSquare(White); got != (Square{Row: 7, Col: 4}) {
		t.Fatalf("white king: got %v", got)
	}
	if got := pos.KingSquare(Black); got != (Square{Row: 0, Col: 4}) {
		t.Fatalf("black king: got %v", got)
	}
}

func TestBoardSnapshotIsACopy(t *testing.T) {
	pos := NewPosition()
	snapshot := pos.Board()
	snapshot[6][4] = Empty
	board := pos.Board()
	if board[6][4] != (Piece{Color: White, Type: Pawn}) {
		t.Fatalf("mutating a snapshot changed the position")
	}
}

func TestPieceTagRoundTrip(t *testing.T) {
	for _, tag := range []string{"--", "wp", "wN", "wB", "wR", "wQ", "wK", "bp", "bN", "bB", "bR", "bQ", "bK"} {
		p, err := ParsePiece(tag)
		if err != nil {
			t.Fatalf("ParsePiece(%q): %v", tag, err)
		}
		if p.String() != tag {
			t.Errorf("round trip %q -> %q", tag, p.String())
		}
	}
	for _, bad := range []string{"", "w", "xp", "wX", "wpp"} {
		if _, err := ParsePiece(bad); err == nil {
			t.Errorf("ParsePiece(%q) succeeded", bad)
		}
	}
}

func TestNewPositionFromBoardValidation(t *testing.T) {
	cases := []struct {
		name string
		rows [8]string
	}{
		{
			name: "missing black king",
			rows: [8]string{
				"-- -- -- -- -- -- -- --",
				"-- -- -- -- -- -- -- --",
				"-- -- -- -- -- -- -- --",
				"-- -- -- -- -- -- -- --",
				"-- -- -- -- -- -- -- --",
				"-- -- -- -- -- -- -- --",
				"-- -- -- -- -- -- -- --",
				"-- -- -- -- wK -- -- --",
			},
		},
		{
			name: "two white kings",
			rows: [8]string{
				"-- -- -- -- bK -- -- --",
				"-- -- -- -- -- -- -- --",
				"-- -- -- -- -- -- -- --",
				"-- -- -- -- -- -- -- --",
				"-- -- -- -- -- -- -- --",
				"-- -- -- -- -- -- -- --",
				"-- -- -- -- -- -- -- wK",
				"-- -- -- -- wK -- -- --",
			},
		},
		{
			name: "white pawn on its back rank",
			rows: [8]string{
				"-- -- -- -- bK -- -- --",
				"-- -- -- -- -- -- -- --",
				"-- -- -- -- -- -- -- --",
				"-- -- -- -- -- -- -- --",
				"-- -- -- -- -- -- -- --",
				"-- -- -- -- -- -- -- --",
				"-- -- -- -- -- -- -- --",
				"wp -- -- -- wK -- -- --",
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			board, err := ParseBoard(tc.rows)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if _, err := NewPositionFromBoard(board, White); !errors.Is(err, ErrInvalidPosition) {
				t.Fatalf("got %v, want ErrInvalidPosition", err)
			}
		})
	}
}

func TestParseBoardRejectsShortRow(t *testing.T) {
	rows := [8]string{"-- --"}
	if _, err := ParseBoard(rows); err == nil {
		t.Fatalf("expected error for short row")
	}
}
