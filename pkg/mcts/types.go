package mcts

// Common value types shared by the tree, the strategies and the games

// Moves are stored inside tree links by value, so they should stay small
// (a cell index, a column, a packed from/to square pair)
type MoveLike comparable

type SeedGeneratorFnType func() int64

// One of the two sides of the game
type Player uint8

const (
	PlayerOne Player = iota
	PlayerTwo
)

func (p Player) Opponent() Player {
	if p == PlayerOne {
		return PlayerTwo
	}
	return PlayerOne
}

func (p Player) String() string {
	if p == PlayerOne {
		return "one"
	}
	return "two"
}

// Verdict is the absolute outcome of a game position. It is not relative to
// the side to move, so evaluations of different nodes can be compared
// directly during backpropagation.
type Verdict uint8

const (
	Ongoing Verdict = iota
	WinPlayerOne
	WinPlayerTwo
	Draw
)

// Verdict for a win of the given player
func WinFor(p Player) Verdict {
	if p == PlayerOne {
		return WinPlayerOne
	}
	return WinPlayerTwo
}

func (v Verdict) Terminal() bool {
	return v != Ongoing
}

// Winner of the position, false for Ongoing and Draw
func (v Verdict) Winner() (Player, bool) {
	switch v {
	case WinPlayerOne:
		return PlayerOne, true
	case WinPlayerTwo:
		return PlayerTwo, true
	}
	return PlayerOne, false
}

func (v Verdict) String() string {
	switch v {
	case Ongoing:
		return "ongoing"
	case WinPlayerOne:
		return "win-player-one"
	case WinPlayerTwo:
		return "win-player-two"
	default:
		return "draw"
	}
}
