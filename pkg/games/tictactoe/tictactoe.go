// Package tictactoe implements the 3x3 game for the tree search. It is
// small enough to solve completely, which makes it the reference game for
// the engine's tests.
package tictactoe

import (
	"fmt"
	"strings"

	"github.com/pacman82/monte-carlo-tree-search/pkg/mcts"
)

// Move is a cell index, 0..8, row major:
//
//	0 1 2
//	3 4 5
//	6 7 8
type Move uint8

func (m Move) String() string {
	return fmt.Sprintf("(%d,%d)", m%3, m/3)
}

// All rows, columns and diagonals as cell bitmasks
var winMasks = [8]uint16{
	0b000000111, 0b000111000, 0b111000000, // rows
	0b001001001, 0b010010010, 0b100100100, // columns
	0b100010001, 0b001010100, // diagonals
}

// Board is a tic-tac-toe position. Player one owns the crosses and makes
// the first move of a fresh game.
type Board struct {
	// One cell occupancy bitboard per player, bit i = cell i
	marks  [2]uint16
	stones uint8
}

func New() *Board {
	return &Board{}
}

// Board after playing the given moves from an empty position, alternating
// players. Panics on illegal moves.
func FromMoves(moves ...Move) *Board {
	board := New()
	for _, move := range moves {
		board.Play(move)
	}
	return board
}

func (b *Board) State(buf []Move) ([]Move, mcts.Verdict) {
	buf = buf[:0]
	if b.won(mcts.PlayerOne) {
		return buf, mcts.WinPlayerOne
	}
	if b.won(mcts.PlayerTwo) {
		return buf, mcts.WinPlayerTwo
	}
	if b.stones == 9 {
		return buf, mcts.Draw
	}
	occupied := b.marks[0] | b.marks[1]
	for cell := Move(0); cell < 9; cell++ {
		if occupied&(1<<cell) == 0 {
			buf = append(buf, cell)
		}
	}
	return buf, mcts.Ongoing
}

func (b *Board) won(p mcts.Player) bool {
	marks := b.marks[p]
	for _, mask := range winMasks {
		if marks&mask == mask {
			return true
		}
	}
	return false
}

func (b *Board) Play(move Move) {
	if move > 8 || (b.marks[0]|b.marks[1])&(1<<move) != 0 {
		panic(fmt.Sprintf("tictactoe: illegal move %v", move))
	}
	b.marks[b.Player()] |= 1 << move
	b.stones++
}

func (b *Board) Player() mcts.Player {
	if b.stones%2 == 0 {
		return mcts.PlayerOne
	}
	return mcts.PlayerTwo
}

// Owner of the given cell, false if the cell is empty
func (b *Board) Cell(cell Move) (mcts.Player, bool) {
	if b.marks[0]&(1<<cell) != 0 {
		return mcts.PlayerOne, true
	}
	if b.marks[1]&(1<<cell) != 0 {
		return mcts.PlayerTwo, true
	}
	return mcts.PlayerOne, false
}

func (b *Board) Clone() *Board {
	clone := *b
	return &clone
}

func (b *Board) String() string {
	var builder strings.Builder
	for cell := Move(0); cell < 9; cell++ {
		switch {
		case b.marks[0]&(1<<cell) != 0:
			builder.WriteByte('X')
		case b.marks[1]&(1<<cell) != 0:
			builder.WriteByte('O')
		default:
			builder.WriteByte('.')
		}
		if cell%3 == 2 && cell != 8 {
			builder.WriteByte('\n')
		}
	}
	return builder.String()
}
