package model

import "github.com/Stryder91/Chess/internal/chess"

type ClientPlayer struct {
	ID    string      `json:"name"`
	Color chess.Color `json:"color"`
}

type Players struct {
	White ClientPlayer `json:"white"`
	Black ClientPlayer `json:"black"`
}

func newPlayers() Players {
	return Players{
		White: ClientPlayer{Color: chess.White},
		Black: ClientPlayer{Color: chess.Black},
	}
}

// colorOf returns the seat held by playerID, or NoColor.
func (p Players) colorOf(playerID string) chess.Color {
	switch {
	case playerID == "":
		return chess.NoColor
	case p.White.ID == playerID:
		return chess.White
	case p.Black.ID == playerID:
		return chess.Black
	}
	return chess.NoColor
}

func (p Players) hasOpenSeat() bool {
	return p.White.ID == "" || p.Black.ID == ""
}
