package chess

// PseudoLegalMoves returns every move that obeys piece geometry and occupancy for
// the side to move, ignoring checks and pins. Duplicates are not removed.
func (p *Position) PseudoLegalMoves() []Move {
	moves := make([]Move, 0, 64)
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			pc := p.board[r][c]
			if pc.IsEmpty() || pc.Color != p.sideToMove {
				continue
			}
			sq := Square{Row: r, Col: c}
			switch pc.Type {
			case Pawn:
				p.pawnMoves(sq, &moves)
			case Knight:
				p.knightMoves(sq, &moves)
			case Bishop:
				p.bishopMoves(sq, &moves)
			case Rook:
				p.rookMoves(sq, &moves)
			case Queen:
				p.queenMoves(sq, &moves)
			case King:
				p.kingMoves(sq, &moves)
			}
		}
	}
	return moves
}

func pawnForward(c Color) int {
	if c == White {
		return -1
	}
	return 1
}

func pawnStartRow(c Color) int {
	if c == White {
		return 6
	}
	return 1
}

func (p *Position) pawnMoves(sq Square, moves *[]Move) {
	color := p.board.At(sq).Color
	dir := Direction{Row: pawnForward(color)}

	// A pawn on the far rank stays a pawn and has nowhere to go.
	one := sq.add(dir, 1)
	if !one.InBounds() {
		return
	}
	if p.board.At(one).IsEmpty() {
		*moves = append(*moves, NewMove(sq, one, &p.board))
		two := sq.add(dir, 2)
		if sq.Row == pawnStartRow(color) && p.board.At(two).IsEmpty() {
			*moves = append(*moves, NewMove(sq, two, &p.board))
		}
	}
	for _, dc := range []int{-1, 1} {
		target := Square{Row: one.Row, Col: sq.Col + dc}
		if !target.InBounds() {
			continue
		}
		if victim := p.board.At(target); !victim.IsEmpty() && victim.Color != color {
			*moves = append(*moves, NewMove(sq, target, &p.board))
		}
	}
}

func (p *Position) knightMoves(sq Square, moves *[]Move) {
	p.stepMoves(sq, knightOffsets, moves)
}

func (p *Position) kingMoves(sq Square, moves *[]Move) {
	p.stepMoves(sq, kingDirs, moves)
}

// stepMoves adds single-step destinations that are on the board and not held by a friendly piece.
func (p *Position) stepMoves(sq Square, offsets []Direction, moves *[]Move) {
	color := p.board.At(sq).Color
	for _, d := range offsets {
		target := sq.add(d, 1)
		if !target.InBounds() {
			continue
		}
		if occupant := p.board.At(target); occupant.IsEmpty() || occupant.Color != color {
			*moves = append(*moves, NewMove(sq, target, &p.board))
		}
	}
}

func (p *Position) bishopMoves(sq Square, moves *[]Move) {
	p.slideMoves(sq, diagonalDirs, moves)
}

func (p *Position) rookMoves(sq Square, moves *[]Move) {
	p.slideMoves(sq, orthogonalDirs, moves)
}

func (p *Position) queenMoves(sq Square, moves *[]Move) {
	p.rookMoves(sq, moves)
	p.bishopMoves(sq, moves)
}

// slideMoves walks each ray until the edge or the first occupied square, which is
// included only when it holds an enemy piece.
func (p *Position) slideMoves(sq Square, dirs []Direction, moves *[]Move) {
	color := p.board.At(sq).Color
	for _, d := range dirs {
		for i := 1; i < 8; i++ {
			target := sq.add(d, i)
			if !target.InBounds() {
				break
			}
			occupant := p.board.At(target)
			if occupant.IsEmpty() {
				*moves = append(*moves, NewMove(sq, target, &p.board))
				continue
			}
			if occupant.Color != color {
				*moves = append(*moves, NewMove(sq, target, &p.board))
			}
			break
		}
	}
}
