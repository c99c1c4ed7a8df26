package bench

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/muesli/termenv"

	"github.com/pacman82/monte-carlo-tree-search/pkg/mcts"
)

// GameInfo is handed to the listener after every finished game
type GameInfo[T mcts.MoveLike] struct {
	WorkerID      int
	NGames        int
	FinishedGames int
	Moves         []T
	Result        MatchResult
	P1Wins        int
	P2Wins        int
	Draws         int
}

type SummaryInfo struct {
	TotalGames      int
	P1Wins          int
	P2Wins          int
	Draws           int
	FirstToMoveWins int
	Workers         int
}

// ListenerLike observes the arena's progress. Callbacks may be invoked from
// multiple worker goroutines concurrently, except OnStart, Summary and
// OnEnd which are called once.
type ListenerLike[T mcts.MoveLike] interface {
	OnStart(nGames, nWorkers int)
	OnGameFinished(info GameInfo[T])
	Summary(info SummaryInfo)
	OnEnd()
}

// DefaultListener ignores everything
type DefaultListener[T mcts.MoveLike] struct{}

func (DefaultListener[T]) OnStart(int, int)           {}
func (DefaultListener[T]) OnGameFinished(GameInfo[T]) {}
func (DefaultListener[T]) Summary(SummaryInfo)        {}
func (DefaultListener[T]) OnEnd()                     {}

// TermListener prints colored progress lines to stdout. termenv degrades
// the colors gracefully when stdout is not a terminal.
type TermListener[T mcts.MoveLike] struct {
	mu     sync.Mutex
	output *termenv.Output
}

// Create a listener writing to w, nil defaults to stdout
func NewTermListener[T mcts.MoveLike](w io.Writer) *TermListener[T] {
	if w == nil {
		w = os.Stdout
	}
	return &TermListener[T]{output: termenv.NewOutput(w)}
}

func (l *TermListener[T]) OnStart(nGames, nWorkers int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.output, "running %d games on %d workers\n", nGames, nWorkers)
}

func (l *TermListener[T]) OnGameFinished(info GameInfo[T]) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var result termenv.Style
	switch info.Result {
	case Pl1Win:
		result = l.output.String("p1 win").Foreground(termenv.ANSIGreen)
	case Pl2Win:
		result = l.output.String("p2 win").Foreground(termenv.ANSIRed)
	default:
		result = l.output.String("draw").Foreground(termenv.ANSIYellow)
	}

	fmt.Fprintf(l.output, "[worker %d] game %3d/%d %s in %d moves (p1 %d, p2 %d, draws %d)\n",
		info.WorkerID, info.FinishedGames, info.NGames, result,
		len(info.Moves), info.P1Wins, info.P2Wins, info.Draws)
}

func (l *TermListener[T]) Summary(info SummaryInfo) {
	l.mu.Lock()
	defer l.mu.Unlock()

	header := l.output.String("summary").Bold()
	fmt.Fprintf(l.output, "%s: %d games on %d workers\n", header, info.TotalGames, info.Workers)
	fmt.Fprintf(l.output, "  %s %d\n", l.output.String("player1 wins").Foreground(termenv.ANSIGreen), info.P1Wins)
	fmt.Fprintf(l.output, "  %s %d\n", l.output.String("player2 wins").Foreground(termenv.ANSIRed), info.P2Wins)
	fmt.Fprintf(l.output, "  %s %d\n", l.output.String("draws").Foreground(termenv.ANSIYellow), info.Draws)
	fmt.Fprintf(l.output, "  first to move won %d times\n", info.FirstToMoveWins)
}

func (l *TermListener[T]) OnEnd() {}
