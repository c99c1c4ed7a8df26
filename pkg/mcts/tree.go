package mcts

import "fmt"

// RootIndex is the index of the root node in every tree
const RootIndex int32 = 0

// Marks a link whose child node has not been created yet
const noNode int32 = -1

// Link labels an edge of the tree with the move leading to the child
// position. Unexplored links carry the move but no child node.
type Link[T MoveLike] struct {
	Move  T
	child int32
}

func (l Link[T]) Explored() bool {
	return l.child != noNode
}

// Index of the child node, false if the link is unexplored
func (l Link[T]) Child() (int32, bool) {
	return l.child, l.child != noNode
}

type node[T MoveLike, E any] struct {
	eval    E
	verdict Verdict
	links   []Link[T]
}

// Tree is an arena of game tree nodes. Nodes live in a flat slice and refer
// to each other by index, the root is always index 0. The tree is append
// only: nodes are never removed and indices stay valid for the lifetime of
// the tree. It stores no game states, only moves on the links and one
// evaluation per node; positions are reconstructed by replaying moves from
// the root.
type Tree[T MoveLike, E any] struct {
	nodes    []node[T, E]
	numLinks int
}

// Create a tree holding only a root node with the given evaluation, verdict
// and legal moves. The moves are copied into the root's links.
func NewTree[T MoveLike, E any](eval E, verdict Verdict, moves []T) *Tree[T, E] {
	t := &Tree[T, E]{nodes: make([]node[T, E], 0, 1+len(moves))}
	t.nodes = append(t.nodes, node[T, E]{eval: eval, verdict: verdict, links: newLinks(moves)})
	t.numLinks = len(moves)
	return t
}

func newLinks[T MoveLike](moves []T) []Link[T] {
	if len(moves) == 0 {
		return nil
	}
	links := make([]Link[T], len(moves))
	for i, move := range moves {
		links[i] = Link[T]{Move: move, child: noNode}
	}
	return links
}

// Number of nodes in the tree
func (t *Tree[T, E]) Len() int {
	return len(t.nodes)
}

// Number of links in the tree, explored or not
func (t *Tree[T, E]) NumLinks() int {
	return t.numLinks
}

func (t *Tree[T, E]) Eval(node int32) E {
	return t.nodes[node].eval
}

func (t *Tree[T, E]) evalPtr(node int32) *E {
	return &t.nodes[node].eval
}

// Verdict of the node's position, cached at expansion time
func (t *Tree[T, E]) Verdict(node int32) Verdict {
	return t.nodes[node].verdict
}

// Links of the node in the move order reported by the game. Terminal nodes
// have no links. The returned slice is owned by the tree, callers must not
// modify it.
func (t *Tree[T, E]) Links(node int32) []Link[T] {
	return t.nodes[node].links
}

// AddChild creates a new node behind the pos-th link of parent and returns
// its index. The moves become the links of the new node. Panics if the link
// is already explored or pos is out of range, both indicate a broken search
// driver rather than a recoverable condition.
func (t *Tree[T, E]) AddChild(parent int32, pos int, eval E, verdict Verdict, moves []T) int32 {
	links := t.nodes[parent].links
	if pos < 0 || pos >= len(links) {
		panic(fmt.Sprintf("mcts: expanding link %d of node %d, which has %d links", pos, parent, len(links)))
	}
	if links[pos].Explored() {
		panic(fmt.Sprintf("mcts: link %d of node %d is already expanded", pos, parent))
	}

	child := int32(len(t.nodes))
	t.nodes = append(t.nodes, node[T, E]{eval: eval, verdict: verdict, links: newLinks(moves)})
	t.nodes[parent].links[pos].child = child
	t.numLinks += len(moves)
	return child
}
