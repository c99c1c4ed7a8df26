package mcts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTreeHoldsOnlyRoot(t *testing.T) {
	tree := NewTree(Count{}, Ongoing, []int{1, 2, 3})

	assert.Equal(t, 1, tree.Len())
	assert.Equal(t, 3, tree.NumLinks())
	assert.Equal(t, Ongoing, tree.Verdict(RootIndex))

	links := tree.Links(RootIndex)
	require.Len(t, links, 3)
	for i, link := range links {
		assert.Equal(t, i+1, link.Move)
		assert.False(t, link.Explored())
		_, explored := link.Child()
		assert.False(t, explored)
	}
}

func TestAddChildResolvesLink(t *testing.T) {
	tree := NewTree(Count{}, Ongoing, []int{1, 2})

	child := tree.AddChild(RootIndex, 1, Count{Draws: 1}, Ongoing, []int{7})

	assert.Equal(t, int32(1), child)
	assert.Equal(t, 2, tree.Len())
	assert.Equal(t, 3, tree.NumLinks())

	link := tree.Links(RootIndex)[1]
	require.True(t, link.Explored())
	got, _ := link.Child()
	assert.Equal(t, child, got)
	assert.Equal(t, Count{Draws: 1}, tree.Eval(child))

	// The other link stays unexplored
	assert.False(t, tree.Links(RootIndex)[0].Explored())
}

func TestAddChildTerminal(t *testing.T) {
	tree := NewTree(Count{}, Ongoing, []int{1})

	child := tree.AddChild(RootIndex, 0, Count{WinsPlayerOne: 1}, WinPlayerOne, nil)

	assert.Equal(t, WinPlayerOne, tree.Verdict(child))
	assert.Empty(t, tree.Links(child))
}

func TestDoubleExpansionPanics(t *testing.T) {
	tree := NewTree(Count{}, Ongoing, []int{1, 2})
	tree.AddChild(RootIndex, 0, Count{}, Ongoing, []int{3})

	assert.Panics(t, func() {
		tree.AddChild(RootIndex, 0, Count{}, Ongoing, []int{3})
	})
}

func TestExpansionOutOfRangePanics(t *testing.T) {
	tree := NewTree(Count{}, Ongoing, []int{1, 2})

	assert.Panics(t, func() {
		tree.AddChild(RootIndex, 2, Count{}, Ongoing, nil)
	})
	assert.Panics(t, func() {
		tree.AddChild(RootIndex, -1, Count{}, Ongoing, nil)
	})
}

func TestIndicesStayValidWhileGrowing(t *testing.T) {
	tree := NewTree(Count{}, Ongoing, []int{1, 2, 3})

	first := tree.AddChild(RootIndex, 0, Count{WinsPlayerOne: 1}, Ongoing, []int{4})
	for pos := 1; pos < 3; pos++ {
		tree.AddChild(RootIndex, pos, Count{}, Ongoing, []int{4, 5})
	}
	grandchild := tree.AddChild(first, 0, Count{WinsPlayerTwo: 1}, Ongoing, nil)

	assert.Equal(t, 5, tree.Len())
	assert.Equal(t, Count{WinsPlayerOne: 1}, tree.Eval(first))
	assert.Equal(t, Count{WinsPlayerTwo: 1}, tree.Eval(grandchild))
	got, _ := tree.Links(first)[0].Child()
	assert.Equal(t, grandchild, got)
}
