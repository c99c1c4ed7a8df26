// Package neural provides a bias strategy backed by a feed-forward network.
// Instead of playing a random game to estimate a fresh node, the network
// scores the position statically, which trades rollout time for a (possibly
// trained) prior.
package neural

import (
	"math"
	"math/rand"

	"github.com/patrikeh/go-deep"

	"github.com/pacman82/monte-carlo-tree-search/pkg/mcts"
)

// DefaultWeight is how many playouts a network prediction is worth
const DefaultWeight = 10

// Features converts a position into the input vector of the network
type Features[G any] func(game G) []float64

// Bias estimates fresh nodes with a network prediction. The network must
// output a single value, interpreted as the expected reward for player one
// in [0, 1]; predictions outside that range are clamped.
type Bias[T mcts.MoveLike, G mcts.GameLike[T, G]] struct {
	network  *deep.Neural
	features Features[G]
	weight   int32
}

func New[T mcts.MoveLike, G mcts.GameLike[T, G]](network *deep.Neural, features Features[G]) *Bias[T, G] {
	if network == nil {
		panic("neural: nil network")
	}
	if features == nil {
		panic("neural: nil feature function")
	}
	return &Bias[T, G]{network: network, features: features, weight: DefaultWeight}
}

// SetWeight sets how many playouts a prediction counts as. Heavier weights
// make the search trust the network longer before its own statistics take
// over.
func (b *Bias[T, G]) SetWeight(weight int32) *Bias[T, G] {
	b.weight = max(1, weight)
	return b
}

func (b *Bias[T, G]) Estimate(game G, _ *rand.Rand) mcts.Count {
	prediction := b.network.Predict(b.features(game))[0]
	prediction = math.Min(1, math.Max(0, prediction))
	winsOne := int32(math.Round(prediction * float64(b.weight)))
	return mcts.Count{
		WinsPlayerOne: winsOne,
		WinsPlayerTwo: b.weight - winsOne,
	}
}
