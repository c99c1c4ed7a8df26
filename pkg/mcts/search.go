package mcts

import (
	"context"
	"math/rand"
	"unsafe"

	"github.com/rs/zerolog"
)

// Search owns a game position and grows a Tree of evaluations for it, one
// playout at a time. It only stores the root game state, positions of inner
// nodes are reconstructed by replaying moves along the selection path.
//
// A search is single threaded. Run whole searches in parallel (one per
// goroutine) if you need concurrency, see the bench package.
type Search[T MoveLike, G GameLike[T, G], E, D any] struct {
	game     G
	tree     *Tree[T, E]
	strategy StrategyLike[T, G, E, D]
	Limiter  *Limiter
	listener *StatsListener[T]
	logger   zerolog.Logger
	rng      *rand.Rand

	// Remember the best move from the root node. Only replaced when a
	// strictly better one is found, so among equally good moves the search
	// keeps the one discovered first. The win found earliest, and the loss
	// realized latest, tend to be the moves a human would pick.
	bestMove T
	hasBest  bool

	cycles   uint32
	maxdepth int
	cps      uint32

	// Reusable buffers, to avoid allocating on every playout
	moveBuf    []T
	childBuf   []MaybeEval[E]
	siblingBuf []MaybeEval[E]
	path       []int32
}

// Create a search for the given position. The game is cloned, the caller's
// copy stays untouched. Both type parameters of the strategy fix the
// evaluation and delta types of the tree.
func NewSearch[T MoveLike, G GameLike[T, G], E, D any](game G, strategy StrategyLike[T, G, E, D]) *Search[T, G, E, D] {
	if strategy == nil {
		panic("mcts: nil strategy")
	}

	game = game.Clone()
	moves, verdict := game.State(nil)
	s := &Search[T, G, E, D]{
		game:     game,
		tree:     NewTree(strategy.Init(verdict), verdict, moves),
		strategy: strategy,
		Limiter:  NewLimiter(uint32(unsafe.Sizeof(node[T, E]{}))),
		listener: &StatsListener[T]{nCycles: 1},
		logger:   zerolog.Nop(),
		rng:      rand.New(rand.NewSource(SeedGeneratorFn())),
		moveBuf:  moves[:0],
	}

	// Start out with the first move, so BestMove returns something even
	// before the first playout
	if links := s.tree.Links(RootIndex); len(links) > 0 {
		s.bestMove = links[0].Move
		s.hasBest = true
	}
	return s
}

// Convenience constructor for a search using the UcbSolver strategy with
// random playout bias
func NewUcbSolverSearch[T MoveLike, G GameLike[T, G]](game G) *Search[T, G, Eval, Delta] {
	return NewSearch[T, G, Eval, Delta](game, NewUcbSolver[T, G](nil))
}

// Convenience constructor for a search using the plain Ucb strategy with
// random playout bias
func NewUcbSearch[T MoveLike, G GameLike[T, G]](game G) *Search[T, G, Count, Count] {
	return NewSearch[T, G, Count, Count](game, NewUcb[T, G](nil))
}

// Playout one cycle of selection, expansion, evaluation and
// backpropagation. Returns true if the playout may have changed the
// evaluation of the root, false if the root is already solved.
func (s *Search[T, G, E, D]) Playout() bool {
	if s.strategy.Solved(s.tree.Eval(RootIndex)) {
		return false
	}

	s.path = s.path[:0]
	s.path = append(s.path, RootIndex)
	game := s.game.Clone()

	var delta D
	for {
		current := s.path[len(s.path)-1]
		links := s.tree.Links(current)
		if len(links) == 0 {
			// Terminal node selected again, re-observe its outcome
			delta = s.strategy.Reevaluate(game, s.tree.evalPtr(current))
			break
		}

		pos, ok := s.strategy.SelectChildPos(s.tree.Eval(current), s.children(links), game.Player())
		if !ok {
			delta = s.strategy.Reevaluate(game, s.tree.evalPtr(current))
			break
		}

		link := links[pos]
		game.Play(link.Move)
		if child, explored := link.Child(); explored {
			s.path = append(s.path, child)
			continue
		}

		// Unexplored link, create the node behind it
		moves, verdict := game.State(s.moveBuf[:0])
		s.moveBuf = moves
		var eval E
		if verdict.Terminal() {
			eval = s.strategy.Init(verdict)
		} else {
			eval = s.strategy.Bias(game.Clone(), s.rng)
		}
		child := s.tree.AddChild(current, pos, eval, verdict, moves)
		s.path = append(s.path, child)
		delta = s.strategy.InitialDelta(eval)
		break
	}

	if depth := len(s.path) - 1; depth > s.maxdepth {
		s.maxdepth = depth
		s.invokeListener(s.listener.onDepth)
	}

	s.backpropagate(delta, game.Player())
	s.updateBestMove()
	return true
}

// Evaluations of the children behind the given links, in link order
func (s *Search[T, G, E, D]) children(links []Link[T]) []MaybeEval[E] {
	s.childBuf = s.childBuf[:0]
	for _, link := range links {
		if child, explored := link.Child(); explored {
			s.childBuf = append(s.childBuf, MaybeEval[E]{Eval: s.tree.Eval(child), Explored: true})
		} else {
			s.childBuf = append(s.childBuf, MaybeEval[E]{})
		}
	}
	return s.childBuf
}

// Like children, but leaving out the child with the given index
func (s *Search[T, G, E, D]) siblings(links []Link[T], without int32) []MaybeEval[E] {
	s.siblingBuf = s.siblingBuf[:0]
	for _, link := range links {
		child, explored := link.Child()
		if child == without && explored {
			continue
		}
		if explored {
			s.siblingBuf = append(s.siblingBuf, MaybeEval[E]{Eval: s.tree.Eval(child), Explored: true})
		} else {
			s.siblingBuf = append(s.siblingBuf, MaybeEval[E]{})
		}
	}
	return s.siblingBuf
}

// Walk the selection path back to the root, updating each node with the
// delta its child propagated. The player flips at every step, starting from
// the player to move at the end of the path.
func (s *Search[T, G, E, D]) backpropagate(delta D, player Player) {
	child := s.path[len(s.path)-1]
	for i := len(s.path) - 2; i >= 0; i-- {
		player = player.Opponent()
		current := s.path[i]
		delta = s.strategy.Update(
			s.tree.evalPtr(current),
			s.siblings(s.tree.Links(current), child),
			delta,
			player,
		)
		child = current
	}
}

func (s *Search[T, G, E, D]) updateBestMove() {
	player := s.game.Player()
	unexplored := s.strategy.Init(Ongoing)

	var bestEval E
	var bestMove T
	first := true
	for _, link := range s.tree.Links(RootIndex) {
		eval := unexplored
		if child, explored := link.Child(); explored {
			eval = s.tree.Eval(child)
		}
		if first {
			bestEval = eval
			bestMove = link.Move
			first = false
			continue
		}
		cmp := s.strategy.Compare(eval, bestEval, player)
		// The incumbent only has to hold its ground, a challenger has to be
		// strictly better
		replace := cmp > 0
		if s.hasBest && link.Move == s.bestMove {
			replace = cmp >= 0
		}
		if replace {
			bestEval = eval
			bestMove = link.Move
		}
	}
	if !first {
		s.bestMove = bestMove
		s.hasBest = true
	}
}

// Run playouts until a limit is hit, the context is cancelled or the root
// is solved. Limits apply per call: running twice with a cycle limit of N
// grows the same tree by up to N playouts each time.
func (s *Search[T, G, E, D]) Run() {
	s.Limiter.Reset()
	s.cycles = 0
	s.cps = 0
	solved := false

	for s.Limiter.Ok(uint32(s.tree.Len()), uint32(s.maxdepth), s.cycles) {
		if !s.Playout() {
			solved = true
			break
		}
		s.cycles++
		s.cps = s.cycles * 1000 / s.Limiter.Elapsed()
		if s.listener.onCycle != nil && int(s.cycles)%s.listener.nCycles == 0 {
			s.listener.onCycle(s.listenerStats())
		}
	}

	s.Limiter.EvaluateStopReason(uint32(s.tree.Len()), uint32(s.maxdepth), s.cycles)
	if solved {
		s.Limiter.markSolved()
	}
	s.invokeListener(s.listener.onStop)

	event := s.logger.Debug().
		Uint32("cycles", s.cycles).
		Int("nodes", s.tree.Len()).
		Int("maxdepth", s.maxdepth).
		Stringer("stop", s.Limiter.StopReason())
	if s.hasBest {
		event = event.Any("bestmove", s.bestMove)
	}
	event.Msg("search stopped")
}

// Run up to n playouts, stopping early if the root gets solved. Unlike Run
// this checks no limits, which makes playout counts exactly reproducible.
func (s *Search[T, G, E, D]) RunPlayouts(n uint32) {
	for i := uint32(0); i < n; i++ {
		if !s.Playout() {
			break
		}
		s.cycles++
	}
}

// Picks one of the best moves for the player to move at the root. false if
// the root position is terminal.
func (s *Search[T, G, E, D]) BestMove() (T, bool) {
	return s.bestMove, s.hasBest
}

// True if the outcome of the root position is proven
func (s *Search[T, G, E, D]) RootSolved() bool {
	return s.strategy.Solved(s.tree.Eval(RootIndex))
}

// Evaluation of the root node
func (s *Search[T, G, E, D]) RootEval() E {
	return s.tree.Eval(RootIndex)
}

// Evaluations of all root moves, in move order. Unexplored moves report the
// strategy's initial evaluation.
func (s *Search[T, G, E, D]) EvalByMove() []MoveEval[T, E] {
	links := s.tree.Links(RootIndex)
	evals := make([]MoveEval[T, E], len(links))
	for i, link := range links {
		evals[i] = MoveEval[T, E]{Move: link.Move, Eval: s.strategy.Init(Ongoing)}
		if child, explored := link.Child(); explored {
			evals[i] = MoveEval[T, E]{Move: link.Move, Eval: s.tree.Eval(child), Explored: true}
		}
	}
	return evals
}

// Principal variation: the sequence of moves both players would pick
// according to the current evaluations
func (s *Search[T, G, E, D]) Pv() []T {
	pv, _ := s.pvTail()
	return pv
}

func (s *Search[T, G, E, D]) pvTail() ([]T, Verdict) {
	var pv []T
	current := RootIndex
	player := s.game.Player()
	for {
		links := s.tree.Links(current)
		best := int32(noNode)
		var bestEval E
		var bestMove T
		for _, link := range links {
			child, explored := link.Child()
			if !explored {
				continue
			}
			if best == noNode || s.strategy.Compare(s.tree.Eval(child), bestEval, player) > 0 {
				best = child
				bestEval = s.tree.Eval(child)
				bestMove = link.Move
			}
		}
		if best == noNode {
			return pv, s.tree.Verdict(current)
		}
		pv = append(pv, bestMove)
		current = best
		player = player.Opponent()
	}
}

func (s *Search[T, G, E, D]) listenerStats() ListenerTreeStats[T] {
	moves, verdict := s.pvTail()
	line := SearchLine[T]{
		Moves:    moves,
		Eval:     s.strategy.Reward(s.tree.Eval(RootIndex), s.game.Player()),
		Terminal: verdict.Terminal(),
		Draw:     verdict == Draw,
	}
	if s.hasBest {
		line.BestMove = s.bestMove
	}
	return ListenerTreeStats[T]{
		Maxdepth:   s.maxdepth,
		Cycles:     int(s.cycles),
		TimeMs:     int(s.Limiter.Elapsed()),
		Cps:        s.cps,
		Size:       uint32(s.tree.Len()),
		Line:       line,
		StopReason: s.Limiter.StopReason(),
	}
}

func (s *Search[T, G, E, D]) invokeListener(f ListenerFunc[T]) {
	if f != nil {
		f(s.listenerStats())
	}
}

// The tree built so far. Callers may inspect it but must not keep the
// pointer across further playouts of a different search.
func (s *Search[T, G, E, D]) Tree() *Tree[T, E] {
	return s.tree
}

// A copy of the root game state
func (s *Search[T, G, E, D]) Game() G {
	return s.game.Clone()
}

// Total number of playout cycles ran during the last Run (or since the last
// Run for RunPlayouts)
func (s *Search[T, G, E, D]) Cycles() int {
	return int(s.cycles)
}

// Maximum depth reached during the search, note that usually
// MaxDepth != len(Pv())
func (s *Search[T, G, E, D]) MaxDepth() int {
	return s.maxdepth
}

// Get cycles per second statistic of the last Run
func (s *Search[T, G, E, D]) Cps() uint32 {
	return s.cps
}

// Get the reason why the search was stopped, valid after Run returns
func (s *Search[T, G, E, D]) StopReason() StopReason {
	return s.Limiter.StopReason()
}

func (s *Search[T, G, E, D]) SetLimits(limits *Limits) *Search[T, G, E, D] {
	s.Limiter.SetLimits(limits)
	return s
}

func (s *Search[T, G, E, D]) Limits() *Limits {
	return s.Limiter.Limits()
}

// Adds custom context to the limiter, enabling cancellation through it.
// Checked between playouts, a running playout is never interrupted.
func (s *Search[T, G, E, D]) SetContext(ctx context.Context) *Search[T, G, E, D] {
	s.Limiter.SetContext(ctx)
	return s
}

func (s *Search[T, G, E, D]) SetLogger(logger zerolog.Logger) *Search[T, G, E, D] {
	s.logger = logger
	return s
}

// Replace the random number generator, seeded via SeedGeneratorFn by
// default
func (s *Search[T, G, E, D]) SetRand(rng *rand.Rand) *Search[T, G, E, D] {
	if rng != nil {
		s.rng = rng
	}
	return s
}

func (s *Search[T, G, E, D]) StatsListener() *StatsListener[T] {
	return s.listener
}
