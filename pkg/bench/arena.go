// Package bench plays a series of games between two engine configurations,
// to A/B test strategies, biases or limits against each other. Whole games
// run in parallel workers; every single search stays single threaded.
package bench

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/pacman82/monte-carlo-tree-search/pkg/mcts"
)

type MatchResult int

const (
	Pl1Win    MatchResult = 1
	Pl2Win    MatchResult = -1
	MatchDraw MatchResult = 0
)

// PlayerLike produces the next move for the given position. ok is false if
// the position is terminal.
type PlayerLike[T mcts.MoveLike, G mcts.GameLike[T, G]] interface {
	NextMove(game G) (T, bool)
}

// PlayerFunc adapts a plain function to PlayerLike
type PlayerFunc[T mcts.MoveLike, G mcts.GameLike[T, G]] func(game G) (T, bool)

func (f PlayerFunc[T, G]) NextMove(game G) (T, bool) {
	return f(game)
}

// PlayerFactory creates an independent player instance. Each worker calls
// the factories once, players are never shared between goroutines.
type PlayerFactory[T mcts.MoveLike, G mcts.GameLike[T, G]] func() PlayerLike[T, G]

// SearchPlayer is a factory for players running a fresh search per move
// with the given limits
func SearchPlayer[T mcts.MoveLike, G mcts.GameLike[T, G], E, D any](
	strategy func() mcts.StrategyLike[T, G, E, D],
	limits *mcts.Limits,
) PlayerFactory[T, G] {
	if limits == nil {
		limits = mcts.DefaultLimits().SetMovetime(1000)
	}
	return func() PlayerLike[T, G] {
		return PlayerFunc[T, G](func(game G) (T, bool) {
			search := mcts.NewSearch(game, strategy())
			search.SetLimits(limits)
			search.Run()
			return search.BestMove()
		})
	}
}

// ArenaStats counts finished games, safe to read while the arena is running
type ArenaStats struct {
	p1Wins    uint32
	p2Wins    uint32
	draws     uint32
	firstWins uint32
}

func (as *ArenaStats) Total() int {
	return as.P1Wins() + as.P2Wins() + as.Draws()
}

func (as *ArenaStats) P1Wins() int {
	return int(atomic.LoadUint32(&as.p1Wins))
}

func (as *ArenaStats) P2Wins() int {
	return int(atomic.LoadUint32(&as.p2Wins))
}

func (as *ArenaStats) Draws() int {
	return int(atomic.LoadUint32(&as.draws))
}

// Wins of whoever moved first, regardless of which player it was. A large
// skew here usually says more about the game than about the players.
func (as *ArenaStats) FirstToMoveWins() int {
	return int(atomic.LoadUint32(&as.firstWins))
}

type VersusArena[T mcts.MoveLike, G mcts.GameLike[T, G]] struct {
	ArenaStats
	Player1  PlayerFactory[T, G]
	Player2  PlayerFactory[T, G]
	NGames   uint
	NWorkers uint

	start  G
	wg     sync.WaitGroup
	done   chan struct{}
	ctx    context.Context
	logger zerolog.Logger
}

func NewVersusArena[T mcts.MoveLike, G mcts.GameLike[T, G]](
	start G, player1, player2 PlayerFactory[T, G],
) *VersusArena[T, G] {
	if player1 == nil || player2 == nil {
		panic("bench: nil player factory")
	}
	return &VersusArena[T, G]{
		Player1:  player1,
		Player2:  player2,
		NGames:   100,
		NWorkers: 2,
		start:    start.Clone(),
		ctx:      context.Background(),
		logger:   zerolog.Nop(),
	}
}

func (va *VersusArena[T, G]) WithContext(ctx context.Context) *VersusArena[T, G] {
	va.ctx = ctx
	return va
}

func (va *VersusArena[T, G]) WithLogger(logger zerolog.Logger) *VersusArena[T, G] {
	va.logger = logger
	return va
}

func (va *VersusArena[T, G]) Setup(nGames, nWorkers uint) *VersusArena[T, G] {
	va.NGames = max(1, nGames)
	va.NWorkers = max(1, nWorkers)
	return va
}

// Start distributes the games over the workers and returns immediately,
// call Wait for the result
func (va *VersusArena[T, G]) Start(listener ListenerLike[T]) {
	if listener == nil {
		listener = DefaultListener[T]{}
	}
	listener.OnStart(int(va.NGames), int(va.NWorkers))

	nGames := va.NGames / va.NWorkers
	rest := va.NGames % va.NWorkers
	for id := uint(0); id < va.NWorkers; id++ {
		games := nGames
		if id < rest {
			games++
		}
		va.wg.Add(1)
		go va.worker(int(id), int(games), listener)
	}

	va.done = make(chan struct{})
	go func() {
		defer close(va.done)
		va.wg.Wait()
		listener.Summary(SummaryInfo{
			TotalGames:      va.Total(),
			P1Wins:          va.P1Wins(),
			P2Wins:          va.P2Wins(),
			Draws:           va.Draws(),
			FirstToMoveWins: va.FirstToMoveWins(),
			Workers:         int(va.NWorkers),
		})
		listener.OnEnd()
	}()
}

// Wait blocks until all workers finished and the summary was reported
func (va *VersusArena[T, G]) Wait() {
	if va.done != nil {
		<-va.done
	}
}

func (va *VersusArena[T, G]) worker(id, nGames int, listener ListenerLike[T]) {
	defer va.wg.Done()

	rng := rand.New(rand.NewSource(mcts.SeedGeneratorFn() + int64(id)))
	player1 := va.Player1()
	player2 := va.Player2()

	for i := 0; i < nGames; i++ {
		select {
		case <-va.ctx.Done():
			return
		default:
		}

		// Swap sides at random, so neither player profits from always
		// having the first move
		switched := rng.Intn(2) == 1
		first, second := player1, player2
		if switched {
			first, second = player2, player1
		}

		moves, verdict := va.playGame(first, second)
		result := va.record(verdict, switched)

		va.logger.Debug().
			Int("worker", id).
			Int("game", i).
			Stringer("verdict", verdict).
			Bool("switched", switched).
			Int("moves", len(moves)).
			Msg("arena game finished")

		listener.OnGameFinished(GameInfo[T]{
			WorkerID:      id,
			NGames:        nGames,
			FinishedGames: va.Total(),
			Moves:         moves,
			Result:        result,
			P1Wins:        va.P1Wins(),
			P2Wins:        va.P2Wins(),
			Draws:         va.Draws(),
		})
	}
}

// Play one game from the arena's start position, first moving first.
// Returns the move list and the final verdict.
func (va *VersusArena[T, G]) playGame(first, second PlayerLike[T, G]) ([]T, mcts.Verdict) {
	game := va.start.Clone()
	var moves []T
	players := [2]PlayerLike[T, G]{first, second}

	for turn := 0; ; turn++ {
		select {
		case <-va.ctx.Done():
			_, verdict := game.State(nil)
			return moves, verdict
		default:
		}

		move, ok := players[turn%2].NextMove(game.Clone())
		if !ok {
			_, verdict := game.State(nil)
			return moves, verdict
		}
		game.Play(move)
		moves = append(moves, move)
	}
}

// Book the verdict of a finished game into the stats. The start position's
// side to move moved first; switched tells whether Player2 had that side.
func (va *VersusArena[T, G]) record(verdict mcts.Verdict, switched bool) MatchResult {
	winner, won := verdict.Winner()
	if !won {
		atomic.AddUint32(&va.draws, 1)
		return MatchDraw
	}

	if winner == va.start.Player() {
		atomic.AddUint32(&va.firstWins, 1)
	}

	player2Won := (winner == va.start.Player()) == switched
	if player2Won {
		atomic.AddUint32(&va.p2Wins, 1)
		return Pl2Win
	}
	atomic.AddUint32(&va.p1Wins, 1)
	return Pl1Win
}
