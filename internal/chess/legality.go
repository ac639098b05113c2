package chess

var noSquare = Square{Row: -1, Col: -1}

// LegalMoves returns the moves the side to move may actually play. An empty
// result means checkmate when InCheck reports true and stalemate otherwise.
func (p *Position) LegalMoves() []Move {
	p.analyzeThreats()
	side := p.sideToMove
	king := p.KingSquare(side)
	pseudo := p.PseudoLegalMoves()
	legal := make([]Move, 0, len(pseudo))

	var resolving map[Square]bool
	if len(p.checks) == 1 {
		resolving = make(map[Square]bool)
		for _, sq := range p.checks[0].Interpositions(king) {
			resolving[sq] = true
		}
	}

	for _, m := range pseudo {
		if m.PieceMoved.Type == King {
			if !p.attackedBy(m.End, side.Opponent(), m.Start) {
				legal = append(legal, m)
			}
			continue
		}
		switch {
		case len(p.checks) >= 2:
			continue
		case len(p.checks) == 1:
			if _, pinned := p.pins[m.Start]; pinned || !resolving[m.End] {
				continue
			}
		default:
			if dir, pinned := p.pins[m.Start]; pinned && !alongRay(m, dir) {
				continue
			}
		}
		legal = append(legal, m)
	}
	return legal
}

// InCheck reports whether the side to move is in check.
func (p *Position) InCheck() bool {
	p.analyzeThreats()
	return p.inCheck
}

// Checks returns the pieces currently giving check to the side to move.
func (p *Position) Checks() []Check {
	p.analyzeThreats()
	out := make([]Check, len(p.checks))
	copy(out, p.checks)
	return out
}

// Pins returns the pinned pieces of the side to move, each with the direction
// from its king toward the pinning piece.
func (p *Position) Pins() map[Square]Direction {
	p.analyzeThreats()
	out := make(map[Square]Direction, len(p.pins))
	for sq, d := range p.pins {
		out[sq] = d
	}
	return out
}

// SquareUnderAttack reports whether any piece of the side not to move attacks sq.
func (p *Position) SquareUnderAttack(sq Square) bool {
	return p.attackedBy(sq, p.sideToMove.Opponent(), noSquare)
}

// Interpositions lists the squares a non-king piece may move to in order to
// answer this check: the squares strictly between king and a sliding attacker,
// followed by the attacker's own square.
func (c Check) Interpositions(king Square) []Square {
	if !c.Sliding {
		return []Square{c.Attacker}
	}
	var out []Square
	for i := 1; i < 8; i++ {
		sq := king.add(c.Dir, i)
		out = append(out, sq)
		if sq == c.Attacker || !sq.InBounds() {
			break
		}
	}
	return out
}

// analyzeThreats scans outward from the king of the side to move and records
// checks and pins.
func (p *Position) analyzeThreats() {
	side := p.sideToMove
	enemy := side.Opponent()
	king := p.KingSquare(side)

	p.inCheck = false
	p.pins = make(map[Square]Direction)
	p.checks = p.checks[:0]

	for _, d := range kingDirs {
		diagonal := d.Row != 0 && d.Col != 0
		candidate, shielded := noSquare, false
		for i := 1; i < 8; i++ {
			sq := king.add(d, i)
			if !sq.InBounds() {
				break
			}
			pc := p.board.At(sq)
			if pc.IsEmpty() {
				continue
			}
			if pc.Color == side {
				if shielded {
					break
				}
				candidate, shielded = sq, true
				continue
			}
			if slidesAlong(pc.Type, diagonal) {
				if shielded {
					p.pins[candidate] = d
				} else {
					p.checks = append(p.checks, Check{Attacker: sq, Dir: d, Sliding: true})
				}
			}
			break
		}
	}

	for _, off := range knightOffsets {
		sq := king.add(off, 1)
		if sq.InBounds() && p.board.At(sq) == (Piece{Color: enemy, Type: Knight}) {
			p.checks = append(p.checks, Check{Attacker: sq, Dir: off})
		}
	}

	for _, dc := range []int{-1, 1} {
		off := Direction{Row: -pawnForward(enemy), Col: dc}
		sq := king.add(off, 1)
		if sq.InBounds() && p.board.At(sq) == (Piece{Color: enemy, Type: Pawn}) {
			p.checks = append(p.checks, Check{Attacker: sq, Dir: off})
		}
	}

	p.inCheck = len(p.checks) > 0
}

// attackedBy reports whether a piece of color by attacks target. The vacated
// square is treated as empty so sliders see through a king stepping off it.
func (p *Position) attackedBy(target Square, by Color, vacated Square) bool {
	at := func(sq Square) Piece {
		if sq == vacated {
			return Empty
		}
		return p.board.At(sq)
	}

	for _, d := range kingDirs {
		diagonal := d.Row != 0 && d.Col != 0
		for i := 1; i < 8; i++ {
			sq := target.add(d, i)
			if !sq.InBounds() {
				break
			}
			pc := at(sq)
			if pc.IsEmpty() {
				continue
			}
			if pc.Color == by && slidesAlong(pc.Type, diagonal) {
				return true
			}
			break
		}
	}
	for _, off := range knightOffsets {
		sq := target.add(off, 1)
		if sq.InBounds() && at(sq) == (Piece{Color: by, Type: Knight}) {
			return true
		}
	}
	for _, d := range kingDirs {
		sq := target.add(d, 1)
		if sq.InBounds() && at(sq) == (Piece{Color: by, Type: King}) {
			return true
		}
	}
	for _, dc := range []int{-1, 1} {
		sq := Square{Row: target.Row - pawnForward(by), Col: target.Col + dc}
		if sq.InBounds() && at(sq) == (Piece{Color: by, Type: Pawn}) {
			return true
		}
	}
	return false
}

func slidesAlong(t PieceType, diagonal bool) bool {
	if diagonal {
		return t == Bishop || t == Queen
	}
	return t == Rook || t == Queen
}

// alongRay reports whether m moves parallel to d, in either direction.
func alongRay(m Move, d Direction) bool {
	dr := m.End.Row - m.Start.Row
	dc := m.End.Col - m.Start.Col
	return dr*d.Col-dc*d.Row == 0
}
