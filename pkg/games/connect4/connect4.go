// Package connect4 implements the classic 7x6 game for the tree search
package connect4

import (
	"fmt"
	"strings"

	"github.com/pacman82/monte-carlo-tree-search/pkg/mcts"
)

// Move is the column a stone is dropped into, 0..6
type Move uint8

const (
	columns = 7
	rows    = 6
)

// Board is a connect four position. Player one moves first on a fresh
// board. Stones are kept in one bitboard per player using the usual 7 bits
// per column layout (one spare bit on top of each column), so four in a row
// reduces to a couple of shifts in any direction.
type Board struct {
	bb      [2]uint64
	heights [columns]uint8
	stones  uint8
}

func New() *Board {
	return &Board{}
}

// Board after dropping stones into the given columns from an empty
// position, alternating players. Panics on full columns.
func FromMoves(moves ...Move) *Board {
	board := New()
	for _, move := range moves {
		board.Play(move)
	}
	return board
}

func (b *Board) State(buf []Move) ([]Move, mcts.Verdict) {
	buf = buf[:0]
	if fourInARow(b.bb[0]) {
		return buf, mcts.WinPlayerOne
	}
	if fourInARow(b.bb[1]) {
		return buf, mcts.WinPlayerTwo
	}
	if b.stones == columns*rows {
		return buf, mcts.Draw
	}
	for col := Move(0); col < columns; col++ {
		if b.heights[col] < rows {
			buf = append(buf, col)
		}
	}
	return buf, mcts.Ongoing
}

// Shift distances: vertical, horizontal and both diagonals
var directions = [4]int{1, columns, columns - 1, columns + 1}

func fourInARow(bb uint64) bool {
	for _, dir := range directions {
		pairs := bb & (bb >> dir)
		if pairs&(pairs>>(2*dir)) != 0 {
			return true
		}
	}
	return false
}

func (b *Board) Play(move Move) {
	if move >= columns || b.heights[move] >= rows {
		panic(fmt.Sprintf("connect4: illegal move %d", move))
	}
	b.bb[b.Player()] |= 1 << (uint8(move)*columns + b.heights[move])
	b.heights[move]++
	b.stones++
}

func (b *Board) Player() mcts.Player {
	if b.stones%2 == 0 {
		return mcts.PlayerOne
	}
	return mcts.PlayerTwo
}

func (b *Board) Clone() *Board {
	clone := *b
	return &clone
}

func (b *Board) String() string {
	var builder strings.Builder
	for row := rows - 1; row >= 0; row-- {
		for col := 0; col < columns; col++ {
			bit := uint64(1) << (col*columns + row)
			switch {
			case b.bb[0]&bit != 0:
				builder.WriteByte('X')
			case b.bb[1]&bit != 0:
				builder.WriteByte('O')
			default:
				builder.WriteByte('.')
			}
		}
		if row != 0 {
			builder.WriteByte('\n')
		}
	}
	return builder.String()
}
