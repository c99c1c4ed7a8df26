package mcts

import "fmt"

type evalKind uint8

const (
	evalUndecided evalKind = iota
	evalWin
	evalDraw
)

// Eval is the node evaluation used by UcbSolver. A node is either proven to
// be a win for one player or a draw (given perfect play of both sides), or
// still undecided with the playout counts collected so far. Proven values
// spread up the tree by backward induction, which turns the search into a
// weak solver: it learns whether a move wins, draws or loses, but not in
// how many moves.
//
// The zero value is undecided with an empty count. Eval values built by the
// constructors are canonical and can be compared with ==.
type Eval struct {
	kind   evalKind
	winner Player
	count  Count
}

func EvalUndecided(count Count) Eval {
	return Eval{kind: evalUndecided, count: count}
}

func EvalWin(winner Player) Eval {
	return Eval{kind: evalWin, winner: winner}
}

func EvalDraw() Eval {
	return Eval{kind: evalDraw}
}

func evalForVerdict(v Verdict) Eval {
	switch v {
	case WinPlayerOne:
		return EvalWin(PlayerOne)
	case WinPlayerTwo:
		return EvalWin(PlayerTwo)
	case Draw:
		return EvalDraw()
	}
	return Eval{}
}

// Solved reports whether the outcome is proven
func (e Eval) Solved() bool {
	return e.kind != evalUndecided
}

// Winner of a proven win, false otherwise
func (e Eval) Winner() (Player, bool) {
	return e.winner, e.kind == evalWin
}

func (e Eval) Draw() bool {
	return e.kind == evalDraw
}

// Playout counts of an undecided evaluation, false if solved
func (e Eval) Undecided() (Count, bool) {
	return e.count, e.kind == evalUndecided
}

// Total count of playouts, solved evaluations count as one
func (e Eval) Total() int32 {
	if e.kind == evalUndecided {
		return e.count.Total()
	}
	return 1
}

// AsCount converts solved evaluations to their counting counterpart
func (e Eval) AsCount() Count {
	switch e.kind {
	case evalWin:
		var count Count
		count.ReportWinFor(e.winner)
		return count
	case evalDraw:
		return Count{Draws: 1}
	}
	return e.count
}

// Verdict of a proven outcome, Ongoing while undecided
func (e Eval) Verdict() Verdict {
	switch e.kind {
	case evalWin:
		return WinFor(e.winner)
	case evalDraw:
		return Draw
	}
	return Ongoing
}

// Reward of the evaluation for the judging player, see Count.Reward
func (e Eval) Reward(judging Player) float64 {
	switch e.kind {
	case evalWin:
		if e.winner == judging {
			return 1
		}
		return 0
	case evalDraw:
		return 0.5
	}
	return e.count.Reward(judging)
}

func (e Eval) String() string {
	switch e.kind {
	case evalWin:
		return fmt.Sprintf("win(%v)", e.winner)
	case evalDraw:
		return "draw"
	}
	return fmt.Sprintf("undecided(w1=%d w2=%d d=%d)",
		e.count.WinsPlayerOne, e.count.WinsPlayerTwo, e.count.Draws)
}

// Delta is propagated from child to parent while UcbSolver backpropagates
type Delta struct {
	// Did the child change to a proven win or draw? For undecided values the
	// count is not the count of the child, but the change of the child.
	Propagated Eval

	// Count of the child before the change, converted via AsCount
	PreviousCount Count
}
