package game

import (
	"fmt"
	"strings"
)

// Piece is the content of a point: empty or a player's piece.
type Piece uint8

const (
	Empty Piece = iota
	Player1
	Player2
)

// Player identifies one of the two sides. NoPlayer is used when nobody has won.
type Player = Piece

const NoPlayer Player = Empty

// Opponent returns the other player.
func Opponent(p Player) Player {
	if p == Player1 {
		return Player2
	}
	return Player1
}

func (p Piece) String() string {
	switch p {
	case Empty:
		return "Empty"
	case Player1:
		return "Player1"
	case Player2:
		return "Player2"
	default:
		return fmt.Sprintf("Piece(%d)", uint8(p))
	}
}

// index of a player into per-player arrays
func (p Piece) index() int {
	return int(p) - 1
}

// Board is the content of the 24 points. It is a value type, copies are independent.
type Board [NumCells]Piece

// Get returns the piece at c, Empty if c is not on the field.
func (b *Board) Get(c Cell) Piece {
	if !c.Valid() {
		return Empty
	}
	return b[c]
}

// Count returns the number of pieces of p on the board.
func (b *Board) Count(p Piece) int {
	count := 0
	for _, piece := range b {
		if piece == p {
			count++
		}
	}
	return count
}

// Cells returns the points held by p, in ascending order.
func (b *Board) Cells(p Piece) []Cell {
	var cells []Cell
	for c, piece := range b {
		if piece == p {
			cells = append(cells, Cell(c))
		}
	}
	return cells
}

// String renders the board as three rows of eight points, outer square first.
func (b Board) String() string {
	var sb strings.Builder
	for c, piece := range b {
		if c > 0 && c%8 == 0 {
			sb.WriteByte('\n')
		}
		switch piece {
		case Player1:
			sb.WriteByte('X')
		case Player2:
			sb.WriteByte('O')
		default:
			sb.WriteByte('.')
		}
	}
	return sb.String()
}
