package learning

import (
	"fmt"

	"morris/game"
	"morris/meta"
)

const bitsPerCell = 2

// Encode packs the board into three 16-bit words, one per square.
// Every point takes two bits (00 empty, 01 player 1, 10 player 2), the point
// at offset 0 of a square in the top bits of its word.
func Encode(b game.Board) StateKey {
	var key StateKey
	for square := range key {
		var value uint16
		start := square * meta.NUM_OF_SQUARE_PLACES
		for c := start; c < start+meta.NUM_OF_SQUARE_PLACES; c++ {
			value = value<<bitsPerCell | uint16(b[c])&0b11
		}
		key[square] = value
	}
	return key
}

// Decode is the inverse of Encode.
func Decode(key StateKey) (game.Board, error) {
	var b game.Board
	for square, value := range key {
		start := square * meta.NUM_OF_SQUARE_PLACES
		for offset := 0; offset < meta.NUM_OF_SQUARE_PLACES; offset++ {
			shift := (meta.NUM_OF_SQUARE_PLACES - 1 - offset) * bitsPerCell
			piece := game.Piece(value >> shift & 0b11)
			if piece > game.Player2 {
				return game.Board{}, fmt.Errorf("key %s: invalid piece at point %d", key, start+offset)
			}
			b[start+offset] = piece
		}
	}
	return b, nil
}
