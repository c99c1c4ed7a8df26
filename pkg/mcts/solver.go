package mcts

import (
	"cmp"
	"math/rand"
)

// UcbSolver scores nodes with UCB like Ucb does, but additionally proves
// outcomes: a terminal node is a known win, draw or loss, and whenever all
// moves of a node are proven, the node itself becomes proven by backward
// induction. A proven win for the player to move solves the node
// immediately. Proving a whole game can take a lot of memory and compute,
// but the undecided counts remain useful if the search is stopped before a
// proof is reached.
type UcbSolver[T MoveLike, G GameLike[T, G]] struct {
	bias BiasLike[T, G]

	// Weight of the exploration term in the UCB formula
	ExplorationParam float64

	// Selection weight of a child proven to lose for the selecting player.
	// 0 (the default) means proven losses are never sampled again unless
	// nothing else is selectable. Proven draws always weigh 0.5.
	ProvenLossWeight float64
}

// Create the strategy with the given bias, nil defaults to RandomPlayout
func NewUcbSolver[T MoveLike, G GameLike[T, G]](bias BiasLike[T, G]) *UcbSolver[T, G] {
	if bias == nil {
		bias = NewRandomPlayout[T, G]()
	}
	return &UcbSolver[T, G]{bias: bias, ExplorationParam: DefaultExplorationParam}
}

func (u *UcbSolver[T, G]) Init(verdict Verdict) Eval {
	return evalForVerdict(verdict)
}

func (u *UcbSolver[T, G]) Bias(game G, rng *rand.Rand) Eval {
	return EvalUndecided(u.bias.Estimate(game, rng))
}

func (u *UcbSolver[T, G]) SelectChildPos(parent Eval, children []MaybeEval[Eval], selecting Player) (int, bool) {
	if len(children) == 0 {
		return 0, false
	}
	parentTotal := float64(parent.Total())
	best := -1
	bestWeight := 0.0
	for pos, child := range children {
		if !child.Explored {
			return pos, true
		}
		var weight float64
		switch {
		case child.Eval.Draw():
			weight = 0.5
		case child.Eval.Solved():
			winner, _ := child.Eval.Winner()
			if winner == selecting {
				// A proven win dominates, nothing to weigh up
				return pos, true
			}
			weight = u.ProvenLossWeight
		default:
			count, _ := child.Eval.Undecided()
			weight = count.Ucb(parentTotal, selecting, u.ExplorationParam)
		}
		if best < 0 || weight > bestWeight {
			best = pos
			bestWeight = weight
		}
	}
	return best, true
}

// Reached only through solved nodes (a terminal leaf, or a line kept
// selectable by a proven draw). Re-observe the proven outcome so the counts
// along the path stay consistent.
func (u *UcbSolver[T, G]) Reevaluate(_ G, eval *Eval) Delta {
	return Delta{Propagated: *eval, PreviousCount: eval.AsCount()}
}

func (u *UcbSolver[T, G]) Update(eval *Eval, siblings []MaybeEval[Eval], delta Delta, choosing Player) Delta {
	previousCount := eval.AsCount()
	propagated := delta.Propagated
	previousChildCount := delta.PreviousCount

	// The choosing player will pick a proven win whenever there is one
	if propagated == EvalWin(choosing) {
		*eval = propagated
		return Delta{Propagated: propagated, PreviousCount: previousCount}
	}

	// No guaranteed win for the chooser. If the updated child is solved and
	// every sibling is a proven draw or loss, the node itself is solved to
	// the best of those outcomes.
	if propagated.Solved() {
		loss := EvalWin(choosing.Opponent())
		acc := propagated
		proven := true
		for _, sibling := range siblings {
			if !sibling.Explored {
				// Unexplored children left, no proof possible yet
				proven = false
				break
			}
			if sibling.Eval == EvalDraw() {
				acc = EvalDraw()
			} else if sibling.Eval != loss {
				proven = false
				break
			}
		}
		if proven {
			*eval = acc
			return Delta{Propagated: acc, PreviousCount: previousCount}
		}
	}

	// No proof, propagate counts. A solved child converts into counts
	// replacing everything it reported while it was undecided.
	var propagatedCount Count
	switch {
	case propagated == EvalWin(PlayerOne):
		propagatedCount = Count{WinsPlayerOne: previousChildCount.Total() + propagated.Total()}
		propagatedCount.Sub(previousChildCount)
	case propagated == EvalWin(PlayerTwo):
		propagatedCount = Count{WinsPlayerTwo: previousChildCount.Total() + propagated.Total()}
		propagatedCount.Sub(previousChildCount)
	case propagated == EvalDraw():
		propagatedCount = Count{Draws: previousChildCount.Total() + propagated.Total()}
		propagatedCount.Sub(previousChildCount)
	default:
		propagatedCount, _ = propagated.Undecided()
	}

	// Nodes already solved keep their proof, only undecided counts change
	if count, undecided := eval.Undecided(); undecided {
		count.Add(propagatedCount)
		*eval = EvalUndecided(count)
	}
	return Delta{Propagated: EvalUndecided(propagatedCount), PreviousCount: previousCount}
}

func (u *UcbSolver[T, G]) InitialDelta(eval Eval) Delta {
	return Delta{Propagated: eval}
}

func (u *UcbSolver[T, G]) Solved(eval Eval) bool {
	return eval.Solved()
}

// Proven outcomes order by desirability for the judging player, undecided
// pairs by visits (the empirical favorite) and then reward
func (u *UcbSolver[T, G]) Compare(a, b Eval, judging Player) int {
	aWinner, aWin := a.Winner()
	bWinner, bWin := b.Winner()
	switch {
	case aWin && bWin:
		if aWinner == bWinner {
			return 0
		}
		return forJudge(aWinner == judging)
	case aWin:
		return forJudge(aWinner == judging)
	case bWin:
		return -forJudge(bWinner == judging)
	case a.Draw() && b.Draw():
		return 0
	case a.Draw():
		count, _ := b.Undecided()
		return cmp.Compare(0.5, count.Reward(judging))
	case b.Draw():
		count, _ := a.Undecided()
		return cmp.Compare(count.Reward(judging), 0.5)
	default:
		if c := cmp.Compare(a.Total(), b.Total()); c != 0 {
			return c
		}
		return cmp.Compare(a.Reward(judging), b.Reward(judging))
	}
}

func forJudge(favorable bool) int {
	if favorable {
		return 1
	}
	return -1
}

func (u *UcbSolver[T, G]) Reward(eval Eval, judging Player) float64 {
	return eval.Reward(judging)
}
