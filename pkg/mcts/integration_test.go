package mcts_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pacman82/monte-carlo-tree-search/pkg/games/tictactoe"
	"github.com/pacman82/monte-carlo-tree-search/pkg/mcts"
)

func TestMain(m *testing.M) {
	// Fixed seeds make every search in here reproducible
	mcts.SetSeedGeneratorFn(func() int64 { return 42 })
	os.Exit(m.Run())
}

func TestSearchIsDeterministicUnderFixedSeed(t *testing.T) {
	a := mcts.NewUcbSolverSearch[tictactoe.Move](tictactoe.New())
	b := mcts.NewUcbSolverSearch[tictactoe.Move](tictactoe.New())

	a.RunPlayouts(500)
	b.RunPlayouts(500)

	assert.Equal(t, a.Tree().Len(), b.Tree().Len())
	assert.Equal(t, a.EvalByMove(), b.EvalByMove())
	assert.Equal(t, a.Pv(), b.Pv())
	bestA, okA := a.BestMove()
	bestB, okB := b.BestMove()
	assert.Equal(t, okA, okB)
	assert.Equal(t, bestA, bestB)
}

func TestEveryMoveTriedBeforeAnyRevisit(t *testing.T) {
	search := mcts.NewUcbSearch[tictactoe.Move](tictactoe.New())

	search.RunPlayouts(9)

	evals := search.EvalByMove()
	require.Len(t, evals, 9)
	for _, moveEval := range evals {
		assert.True(t, moveEval.Explored)
		assert.Equal(t, int32(1), moveEval.Eval.Total())
	}
}

// Every node with expanded links holds one tally for its own expansion plus
// the tallies of all playouts that went through it into a child. Verifies
// that backpropagation touches exactly the nodes on the selection path.
func TestVisitCountsAreConsistent(t *testing.T) {
	search := mcts.NewUcbSearch[tictactoe.Move](tictactoe.New())

	search.RunPlayouts(300)

	tree := search.Tree()
	assert.Equal(t, int32(300), tree.Eval(mcts.RootIndex).Total())

	var walk func(node int32)
	walk = func(node int32) {
		links := tree.Links(node)
		if len(links) == 0 {
			return
		}
		var children int32
		for _, link := range links {
			child, explored := link.Child()
			if !explored {
				continue
			}
			children += tree.Eval(child).Total()
			walk(child)
		}
		expected := children
		if node != mcts.RootIndex {
			expected++
		}
		assert.Equal(t, expected, tree.Eval(node).Total(), "node %d", node)
	}
	walk(mcts.RootIndex)
}

// Replays the moves on the links against the game and checks that every
// link matches a legal move and every node caches the right verdict
func TestTreeHoldsOnlyLegalEdges(t *testing.T) {
	search := mcts.NewUcbSolverSearch[tictactoe.Move](tictactoe.New())

	search.RunPlayouts(500)

	tree := search.Tree()
	var walk func(node int32, game *tictactoe.Board)
	walk = func(node int32, game *tictactoe.Board) {
		legal, verdict := game.State(nil)
		assert.Equal(t, verdict, tree.Verdict(node))

		links := tree.Links(node)
		require.Len(t, links, len(legal))
		for i, link := range links {
			assert.Equal(t, legal[i], link.Move)
			child, explored := link.Child()
			if !explored {
				continue
			}
			next := game.Clone()
			next.Play(link.Move)
			walk(child, next)
		}
	}
	walk(mcts.RootIndex, tictactoe.New())
}

func TestResumedSearchMatchesSingleRun(t *testing.T) {
	resumed := mcts.NewUcbSearch[tictactoe.Move](tictactoe.New())
	single := mcts.NewUcbSearch[tictactoe.Move](tictactoe.New())

	resumed.RunPlayouts(200)
	resumed.RunPlayouts(100)
	single.RunPlayouts(300)

	assert.Equal(t, single.Tree().Len(), resumed.Tree().Len())
	assert.Equal(t, single.RootEval(), resumed.RootEval())
	assert.Equal(t, single.EvalByMove(), resumed.EvalByMove())
}

func TestSolveTicTacToe(t *testing.T) {
	if testing.Short() {
		t.Skip("solving the whole game takes a while")
	}
	search := mcts.NewUcbSolverSearch[tictactoe.Move](tictactoe.New())

	// 9! playouts would visit every move sequence once, the solver needs far
	// fewer since proven subtrees stop being sampled
	search.RunPlayouts(1_000_000)

	assert.Equal(t, mcts.EvalDraw(), search.RootEval())
}

func TestReportWinIfInitializedWithTerminalPosition(t *testing.T) {
	// X won the top row already
	game := tictactoe.FromMoves(0, 3, 1, 4, 2)
	search := mcts.NewUcbSolverSearch[tictactoe.Move](game)

	assert.Equal(t, mcts.EvalWin(mcts.PlayerOne), search.RootEval())
	_, ok := search.BestMove()
	assert.False(t, ok)
	assert.False(t, search.Playout())
}

func TestSolveWinInOneMove(t *testing.T) {
	// -------
	// |X|O|O|
	// |-----|
	// |3|X|5|
	// |-----|
	// |X|7|O|
	// -------
	// X completes the 0 3 6 column
	game := tictactoe.FromMoves(4, 1, 6, 2, 0, 8)
	search := mcts.NewUcbSolverSearch[tictactoe.Move](game)

	search.RunPlayouts(3)

	assert.Equal(t, mcts.EvalWin(mcts.PlayerOne), search.RootEval())
	best, ok := search.BestMove()
	require.True(t, ok)
	assert.Equal(t, tictactoe.Move(3), best)
}

func TestPreventImmediateWinOfPlayerTwo(t *testing.T) {
	// -------
	// | | |X|
	// |-----|
	// | |X| |
	// |-----|
	// |O| |O|
	// -------
	// X must play 7 to prevent O from winning in the next turn
	game := tictactoe.FromMoves(4, 6, 2, 8)
	search := mcts.NewUcbSolverSearch[tictactoe.Move](game)

	search.RunPlayouts(200)

	best, ok := search.BestMove()
	require.True(t, ok)
	assert.Equal(t, tictactoe.Move(7), best)
}

func TestPreventImmediateWinOfPlayerOne(t *testing.T) {
	// -------
	// | | |X|
	// |-----|
	// | |X| |
	// |-----|
	// |O|X|O|
	// -------
	// O must block the 1 4 7 column
	game := tictactoe.FromMoves(4, 6, 2, 8, 7)
	search := mcts.NewUcbSolverSearch[tictactoe.Move](game)

	search.RunPlayouts(200)

	best, ok := search.BestMove()
	require.True(t, ok)
	assert.Equal(t, tictactoe.Move(1), best)
}

func TestBackpropagationOfDraw(t *testing.T) {
	// Center against a corner is a draw with perfect play on both sides
	game := tictactoe.FromMoves(4, 2)
	search := mcts.NewUcbSolverSearch[tictactoe.Move](game)

	search.RunPlayouts(20_000)

	assert.Equal(t, mcts.EvalDraw(), search.RootEval())
}

func TestSolveDrawInOneMove(t *testing.T) {
	// -------
	// |O|X|O|
	// |-----|
	// |X|X|O|
	// |-----|
	// |X|O|8|
	// -------
	game := tictactoe.FromMoves(4, 0, 1, 7, 6, 2, 3, 5)
	search := mcts.NewUcbSolverSearch[tictactoe.Move](game)

	search.RunPlayouts(1)

	assert.Equal(t, mcts.EvalDraw(), search.RootEval())
	best, ok := search.BestMove()
	require.True(t, ok)
	assert.Equal(t, tictactoe.Move(8), best)
}

func TestSolveDrawInTwoMoves(t *testing.T) {
	// -------
	// |O|X|O|
	// |-----|
	// |X|X|5|
	// |-----|
	// |X|O|8|
	// -------
	// O must block the 3 4 5 row, conceding the draw
	game := tictactoe.FromMoves(4, 0, 1, 7, 6, 2, 3)
	search := mcts.NewUcbSolverSearch[tictactoe.Move](game)

	search.RunPlayouts(10)

	assert.Equal(t, mcts.EvalDraw(), search.RootEval())
	best, ok := search.BestMove()
	require.True(t, ok)
	assert.Equal(t, tictactoe.Move(5), best)
}

func TestSolveDrawInThreeMoves(t *testing.T) {
	// -------
	// |O|X|O|
	// |-----|
	// |3|X|5|
	// |-----|
	// |X|O|8|
	// -------
	game := tictactoe.FromMoves(4, 0, 1, 7, 6, 2)
	search := mcts.NewUcbSolverSearch[tictactoe.Move](game)

	search.RunPlayouts(100)

	assert.Equal(t, mcts.EvalDraw(), search.RootEval())
}

func TestSolveDefeatInTwoMoves(t *testing.T) {
	// -------
	// |X|O|O|
	// |-----|
	// |3|X|5|
	// |-----|
	// |X|7|8|
	// -------
	// X threatens both the 0 4 8 diagonal and the 0 3 6 column, O cannot
	// block twice
	game := tictactoe.FromMoves(4, 1, 6, 2, 0)
	search := mcts.NewUcbSolverSearch[tictactoe.Move](game)

	search.RunPlayouts(100)

	assert.Equal(t, mcts.EvalWin(mcts.PlayerOne), search.RootEval())
}

func TestSolveWinInFiveMoves(t *testing.T) {
	// Replying to the center with an edge is already losing
	game := tictactoe.FromMoves(4, 1)
	search := mcts.NewUcbSolverSearch[tictactoe.Move](game)

	search.RunPlayouts(10_000)

	assert.Equal(t, mcts.EvalWin(mcts.PlayerOne), search.RootEval())
}

func TestUnexploredRootChildren(t *testing.T) {
	search := mcts.NewUcbSolverSearch[tictactoe.Move](tictactoe.New())

	// Even without a single playout there is a tentative best move and
	// evaluations for all nine replies
	_, ok := search.BestMove()
	assert.True(t, ok)

	evals := search.EvalByMove()
	require.Len(t, evals, 9)
	for _, moveEval := range evals {
		assert.False(t, moveEval.Explored)
	}
}

func TestPlayTicTacToeUsingUcbSolver(t *testing.T) {
	game := tictactoe.New()
	for {
		_, verdict := game.State(nil)
		if verdict.Terminal() {
			// Two equally strong players hold each other to a draw
			assert.Equal(t, mcts.Draw, verdict)
			return
		}
		search := mcts.NewUcbSolverSearch[tictactoe.Move](game)
		search.RunPlayouts(1_000)
		best, ok := search.BestMove()
		require.True(t, ok)
		game.Play(best)
	}
}

func TestPlayTicTacToeUsingUcb(t *testing.T) {
	game := tictactoe.New()
	for {
		_, verdict := game.State(nil)
		if verdict.Terminal() {
			return
		}
		search := mcts.NewUcbSearch[tictactoe.Move](game)
		search.RunPlayouts(1_000)
		best, ok := search.BestMove()
		require.True(t, ok)
		game.Play(best)
	}
}
