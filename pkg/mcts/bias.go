package mcts

import "math/rand"

// BiasLike estimates the outcome of a freshly expanded position, giving the
// search an initial idea which subtrees are worth exploring. The classic
// choice is a random playout, but anything producing a Count works, for
// example a neural network scoring the position statically.
type BiasLike[T MoveLike, G GameLike[T, G]] interface {
	// Estimate the outcome of the position. The game is a scratch copy, it
	// may be played to the end.
	Estimate(game G, rng *rand.Rand) Count
}

// RandomPlayout plays uniformly random moves until the game is over and
// reports the final verdict as a single tally
type RandomPlayout[T MoveLike, G GameLike[T, G]] struct {
	buf []T
}

func NewRandomPlayout[T MoveLike, G GameLike[T, G]]() *RandomPlayout[T, G] {
	return &RandomPlayout[T, G]{}
}

func (r *RandomPlayout[T, G]) Estimate(game G, rng *rand.Rand) Count {
	for {
		moves, verdict := game.State(r.buf[:0])
		r.buf = moves
		if verdict.Terminal() {
			return countForVerdict(verdict)
		}
		game.Play(moves[rng.Intn(len(moves))])
	}
}
