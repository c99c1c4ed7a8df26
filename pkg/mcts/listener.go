package mcts

type SearchLine[T MoveLike] struct {
	BestMove T
	Moves    []T
	Eval     float64
	Terminal bool
	Draw     bool
}

type ListenerTreeStats[T MoveLike] struct {
	Maxdepth   int
	Cycles     int
	TimeMs     int
	Cps        uint32
	Size       uint32
	Line       SearchLine[T]
	StopReason StopReason
}

// Listener function callback, will receive current tree statistics, like
// max depth of the tree, number of playouts so far
type ListenerFunc[T MoveLike] func(ListenerTreeStats[T])

type StatsListener[T MoveLike] struct {
	// called when 'max depth' increases
	onDepth ListenerFunc[T]

	// called every N full playout cycles
	onCycle ListenerFunc[T]
	nCycles int

	// called when the search stops (either by limiter or 'stop' signal)
	onStop ListenerFunc[T]
}

func NewStatsListener[T MoveLike]() StatsListener[T] {
	return StatsListener[T]{nCycles: 1}
}

// Attach new on max depth change callback
func (listener *StatsListener[T]) OnDepth(onDepth ListenerFunc[T]) *StatsListener[T] {
	listener.onDepth = onDepth
	return listener
}

// Attach new on cycle callback, this will slow down the search because of
// the pv evaluation, so use it only for debugging
func (listener *StatsListener[T]) OnCycle(onCycle ListenerFunc[T]) *StatsListener[T] {
	listener.onCycle = onCycle
	return listener
}

func (listener *StatsListener[T]) SetCycleInterval(n int) *StatsListener[T] {
	if n < 1 {
		n = 1
	}
	listener.nCycles = n
	return listener
}

// Attach 'on search end' callback, called once after the search loop,
// makes 'StopReason' available in the stats
func (listener *StatsListener[T]) OnStop(onStop ListenerFunc[T]) *StatsListener[T] {
	listener.onStop = onStop
	return listener
}
