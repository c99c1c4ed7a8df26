package mcts

import "math"

// Count accumulates wins and draws observed in the subtree behind a node
type Count struct {
	WinsPlayerOne int32
	WinsPlayerTwo int32
	Draws         int32
}

func countForVerdict(v Verdict) Count {
	switch v {
	case WinPlayerOne:
		return Count{WinsPlayerOne: 1}
	case WinPlayerTwo:
		return Count{WinsPlayerTwo: 1}
	case Draw:
		return Count{Draws: 1}
	}
	return Count{}
}

// Total count of playouts
func (c Count) Total() int32 {
	return c.WinsPlayerOne + c.WinsPlayerTwo + c.Draws
}

// Reward is a value between 0 and 1 indicating how rewarding this outcome
// is for the judging player. 0 is a loss, 1 a win and 0.5 a draw, though
// 0.5 may also just mean undecided. Contains no exploration term, so it is
// suited for picking a move after the search, not during it. An empty count
// is reported as 0.5.
func (c Count) Reward(judging Player) float64 {
	total := c.Total()
	if total == 0 {
		return 0.5
	}
	wins := c.WinsPlayerOne
	if judging == PlayerTwo {
		wins = c.WinsPlayerTwo
	}
	return (float64(wins) + float64(c.Draws)*0.5) / float64(total)
}

// Upper confidence bound, used to pick the link to follow during selection.
// Balances exploitation (reward) against exploration (the second term).
// Unvisited counts score +Inf, so they are always preferred.
func (c Count) Ucb(totalVisitsParent float64, judging Player, explorationParam float64) float64 {
	total := c.Total()
	if total == 0 {
		return math.Inf(1)
	}
	return c.Reward(judging) + explorationParam*math.Sqrt(math.Log(totalVisitsParent)/float64(total))
}

func (c *Count) Add(other Count) {
	c.WinsPlayerOne += other.WinsPlayerOne
	c.WinsPlayerTwo += other.WinsPlayerTwo
	c.Draws += other.Draws
}

func (c *Count) Sub(other Count) {
	c.WinsPlayerOne -= other.WinsPlayerOne
	c.WinsPlayerTwo -= other.WinsPlayerTwo
	c.Draws -= other.Draws
}

// Increment the win count of the given player by one
func (c *Count) ReportWinFor(p Player) {
	if p == PlayerOne {
		c.WinsPlayerOne++
	} else {
		c.WinsPlayerTwo++
	}
}
