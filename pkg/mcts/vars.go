package mcts

import (
	"math"
	"time"
)

// Exploration parameter used in the UCB formula, higher values increase
// exploration while lower values increase exploitation. sqrt(2) is the
// theoretical choice for rewards in [0, 1], tune it per game.
const DefaultExplorationParam = math.Sqrt2

var SeedGeneratorFn SeedGeneratorFnType = func() int64 {
	return time.Now().UnixNano()
}

// Set custom seed generator function for the random number generators of
// new searches, by default uses current time in nanoseconds. Handy to pin
// seeds in tests.
func SetSeedGeneratorFn(f SeedGeneratorFnType) {
	if f != nil {
		SeedGeneratorFn = f
	}
}
