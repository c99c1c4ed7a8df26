package mcts

import "math/rand"

// MaybeEval is the evaluation of a child as seen through a link, which may
// still be unexplored
type MaybeEval[E any] struct {
	Eval     E
	Explored bool
}

// Evaluation of a root move, as reported by Search.EvalByMove
type MoveEval[T MoveLike, E any] struct {
	Move     T
	Eval     E
	Explored bool
}

// StrategyLike controls selection, evaluation and backpropagation of the
// search. E is the evaluation stored per node, D the delta propagated from
// child to parent during backpropagation. The tree and the driver treat
// both as opaque.
//
// Ucb and UcbSolver are the provided implementations.
type StrategyLike[T MoveLike, G GameLike[T, G], E, D any] interface {
	// Initial evaluation of a node created for a position with the given
	// verdict. Called with Ongoing only for the root before any playout;
	// Ongoing nodes created during a playout get their evaluation from Bias.
	Init(verdict Verdict) E

	// Initial evaluation of a freshly expanded, non terminal node. The game
	// is a scratch copy positioned at the new node, it may be mutated.
	Bias(game G, rng *rand.Rand) E

	// Position of the link to follow during selection, among the children
	// of a node. ok is false if no child is selectable, which makes the
	// driver reevaluate the node instead of descending further. Unexplored
	// children take priority over everything else, ties break towards the
	// lowest position.
	SelectChildPos(parent E, children []MaybeEval[E], selecting Player) (pos int, ok bool)

	// Reevaluate a node selected as the end of a playout even though it was
	// expanded before (a terminal or otherwise unselectable node). Mutates
	// the evaluation in place and returns the delta for backpropagation.
	Reevaluate(game G, eval *E) D

	// Update the evaluation of a node with the delta propagated by the
	// updated child and return the delta for the node's own parent. The
	// siblings are the other children of the node, in link order.
	Update(eval *E, siblings []MaybeEval[E], delta D, choosing Player) D

	// Delta a freshly expanded node with the given evaluation propagates to
	// its parent
	InitialDelta(eval E) D

	// Solved reports whether the evaluation is a proven outcome. The driver
	// stops playing out once the root is solved.
	Solved(eval E) bool

	// Compare orders two evaluations from the point of view of the judging
	// player: positive if a is the better pick, negative if b is, zero if
	// they are equally good
	Compare(a, b E, judging Player) int

	// Reward of the evaluation for the judging player, between 0 (loss)
	// and 1 (win)
	Reward(eval E, judging Player) float64
}
