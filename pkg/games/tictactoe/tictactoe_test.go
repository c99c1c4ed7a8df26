package tictactoe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pacman82/monte-carlo-tree-search/pkg/mcts"
)

func TestFreshBoardIsOngoing(t *testing.T) {
	moves, verdict := New().State(nil)

	assert.Equal(t, mcts.Ongoing, verdict)
	require.Len(t, moves, 9)
	for i, move := range moves {
		assert.Equal(t, Move(i), move)
	}
}

func TestPlayersAlternate(t *testing.T) {
	board := New()
	assert.Equal(t, mcts.PlayerOne, board.Player())
	board.Play(4)
	assert.Equal(t, mcts.PlayerTwo, board.Player())
	board.Play(0)
	assert.Equal(t, mcts.PlayerOne, board.Player())
}

func TestWinDetection(t *testing.T) {
	cases := []struct {
		name    string
		moves   []Move
		verdict mcts.Verdict
	}{
		{"top row", []Move{0, 3, 1, 4, 2}, mcts.WinPlayerOne},
		{"left column", []Move{0, 1, 3, 2, 6}, mcts.WinPlayerOne},
		{"diagonal", []Move{0, 1, 4, 2, 8}, mcts.WinPlayerOne},
		{"anti diagonal by o", []Move{0, 2, 1, 4, 5, 6}, mcts.WinPlayerTwo},
		{"middle row by o", []Move{0, 3, 1, 4, 8, 5}, mcts.WinPlayerTwo},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			moves, verdict := FromMoves(tc.moves...).State(nil)
			assert.Equal(t, tc.verdict, verdict)
			assert.Empty(t, moves)
		})
	}
}

func TestFullBoardWithoutLineIsADraw(t *testing.T) {
	// X O X
	// X O O
	// O X X
	board := FromMoves(4, 1, 0, 8, 3, 6, 7, 5, 2)

	moves, verdict := board.State(nil)
	assert.Equal(t, mcts.Draw, verdict)
	assert.Empty(t, moves)
}

func TestStateListsOnlyEmptyCells(t *testing.T) {
	board := FromMoves(4, 0, 8)

	moves, _ := board.State(nil)
	assert.Equal(t, []Move{1, 2, 3, 5, 6, 7}, moves)
}

func TestIllegalMovePanics(t *testing.T) {
	board := FromMoves(4)

	assert.Panics(t, func() { board.Play(4) })
	assert.Panics(t, func() { board.Play(9) })
}

func TestCellOwnership(t *testing.T) {
	board := FromMoves(4, 7)

	owner, occupied := board.Cell(4)
	assert.True(t, occupied)
	assert.Equal(t, mcts.PlayerOne, owner)

	owner, occupied = board.Cell(7)
	assert.True(t, occupied)
	assert.Equal(t, mcts.PlayerTwo, owner)

	_, occupied = board.Cell(0)
	assert.False(t, occupied)
}

func TestCloneIsIndependent(t *testing.T) {
	board := FromMoves(4)
	clone := board.Clone()
	clone.Play(0)

	_, occupied := board.Cell(0)
	assert.False(t, occupied)
	_, occupied = clone.Cell(0)
	assert.True(t, occupied)
}

func TestString(t *testing.T) {
	board := FromMoves(4, 0, 8)

	assert.Equal(t, "O..\n.X.\n..X", board.String())
}

// Exhaustive minimax, the ground truth to check the solver against
func minimax(board *Board) mcts.Verdict {
	moves, verdict := board.State(nil)
	if verdict.Terminal() {
		return verdict
	}

	player := board.Player()
	best := mcts.WinFor(player.Opponent())
	for _, move := range moves {
		next := board.Clone()
		next.Play(move)
		result := minimax(next)
		if result == mcts.WinFor(player) {
			return result
		}
		if result == mcts.Draw {
			best = mcts.Draw
		}
	}
	return best
}

func TestSolverAgreesWithMinimax(t *testing.T) {
	mcts.SetSeedGeneratorFn(func() int64 { return 42 })

	positions := [][]Move{
		{4, 0, 1},
		{4, 6, 2, 8},
		{4, 1, 6, 2, 0},
		{4, 0, 1, 7},
		{4, 2, 8},
	}
	for _, moves := range positions {
		board := FromMoves(moves...)
		want := minimax(board)

		search := mcts.NewUcbSolverSearch[Move](board)
		search.RunPlayouts(20_000)

		require.True(t, search.RootSolved(), "position %v", moves)
		assert.Equal(t, want, search.RootEval().Verdict(), "position %v", moves)
	}
}
