package mcts

import (
	"cmp"
	"math/rand"
)

// Ucb is the textbook UCB1 strategy. Nodes carry plain playout counts and
// nothing is ever proven, so the search keeps sampling until a limit stops
// it. Use UcbSolver if you want proven outcomes.
type Ucb[T MoveLike, G GameLike[T, G]] struct {
	bias BiasLike[T, G]

	// Weight of the exploration term in the UCB formula. Higher values
	// spread playouts wider over the tree, lower values concentrate them on
	// the moves that look best so far.
	ExplorationParam float64
}

// Create the strategy with the given bias, nil defaults to RandomPlayout
func NewUcb[T MoveLike, G GameLike[T, G]](bias BiasLike[T, G]) *Ucb[T, G] {
	if bias == nil {
		bias = NewRandomPlayout[T, G]()
	}
	return &Ucb[T, G]{bias: bias, ExplorationParam: DefaultExplorationParam}
}

func (u *Ucb[T, G]) Init(verdict Verdict) Count {
	return countForVerdict(verdict)
}

func (u *Ucb[T, G]) Bias(game G, rng *rand.Rand) Count {
	return u.bias.Estimate(game, rng)
}

func (u *Ucb[T, G]) SelectChildPos(parent Count, children []MaybeEval[Count], selecting Player) (int, bool) {
	if len(children) == 0 {
		return 0, false
	}
	parentTotal := float64(parent.Total())
	best := -1
	bestScore := 0.0
	for pos, child := range children {
		if !child.Explored {
			return pos, true
		}
		score := child.Eval.Ucb(parentTotal, selecting, u.ExplorationParam)
		if best < 0 || score > bestScore {
			best = pos
			bestScore = score
		}
	}
	return best, true
}

// Reached for terminal nodes only, every other node has selectable
// children. Re-observe the outcome by propagating one of each tally the
// node has seen.
func (u *Ucb[T, G]) Reevaluate(_ G, eval *Count) Count {
	delta := Count{
		WinsPlayerOne: zeroOrOne(eval.WinsPlayerOne),
		WinsPlayerTwo: zeroOrOne(eval.WinsPlayerTwo),
		Draws:         zeroOrOne(eval.Draws),
	}
	eval.Add(delta)
	return delta
}

func zeroOrOne(i int32) int32 {
	if i == 0 {
		return 0
	}
	return 1
}

func (u *Ucb[T, G]) Update(eval *Count, _ []MaybeEval[Count], delta Count, _ Player) Count {
	eval.Add(delta)
	return delta
}

func (u *Ucb[T, G]) InitialDelta(eval Count) Count {
	return eval
}

func (u *Ucb[T, G]) Solved(Count) bool {
	return false
}

// More visits beats fewer, the empirical favorite. Reward breaks ties.
func (u *Ucb[T, G]) Compare(a, b Count, judging Player) int {
	if c := cmp.Compare(a.Total(), b.Total()); c != 0 {
		return c
	}
	return cmp.Compare(a.Reward(judging), b.Reward(judging))
}

func (u *Ucb[T, G]) Reward(eval Count, judging Player) float64 {
	return eval.Reward(judging)
}
