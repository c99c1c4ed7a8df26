package mcts

// GameLike is the contract a game must fulfill to be searched. It describes
// a deterministic, perfect information, two player game with alternating
// turns. The engine treats positions as opaque: it only ever asks for the
// legal moves, plays one of them, or clones the state.
//
// Rules every implementation must keep:
//
//   - State returns the legal moves in a deterministic order. The order is
//     the tie break order during selection, so it must not depend on
//     anything but the position itself.
//   - State returns an empty move list if and only if the verdict is
//     terminal.
//   - Play is only called with moves previously returned by State for the
//     current position. Implementations may panic on anything else.
//   - Clone returns an independent copy; playing moves on the copy must not
//     affect the original.
type GameLike[T MoveLike, G any] interface {
	// Append the legal moves of the current position to buf and return it,
	// together with the verdict of the position. buf is a reusable buffer,
	// implementations should not keep a reference to it.
	State(buf []T) ([]T, Verdict)

	// Advance the position by the given legal move
	Play(move T)

	// Side to move in the current position
	Player() Player

	// Independent copy of the game state
	Clone() G
}
