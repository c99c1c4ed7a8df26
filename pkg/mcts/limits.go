package mcts

import (
	"encoding/json"
	"math"
	"strings"
)

type Limits struct {
	Depth    int
	Nodes    uint32
	Cycles   uint32
	Movetime int
	Infinite bool
	ByteSize int64
}

func (l Limits) String() string {
	builder := strings.Builder{}
	_ = json.NewEncoder(&builder).Encode(l)
	return builder.String()
}

const (
	DefaultDepthLimit    int    = math.MaxInt
	DefaultNodeLimit     uint32 = math.MaxUint32
	DefaultMovetimeLimit int    = -1
	DefaultByteSizeLimit int64  = -1
	DefaultCyclesLimit   uint32 = math.MaxUint32
)

func DefaultLimits() *Limits {
	return &Limits{
		Depth:    DefaultDepthLimit,
		Nodes:    DefaultNodeLimit,
		Cycles:   DefaultCyclesLimit,
		Movetime: DefaultMovetimeLimit,
		Infinite: true,
		ByteSize: DefaultByteSizeLimit,
	}
}

// Set the maximum depth of the search
func (l *Limits) SetDepth(depth int) *Limits {
	l.Depth = depth
	l.Infinite = false
	return l
}

// Set the maxiumum number of nodes the tree may hold
func (l *Limits) SetNodes(nodes uint32) *Limits {
	l.Nodes = nodes
	l.Infinite = false
	return l
}

// Set the number of playout cycles of the search
func (l *Limits) SetCycles(cycles uint32) *Limits {
	l.Cycles = cycles
	l.Infinite = false
	return l
}

// Set the maximum time to think, in milliseconds
func (l *Limits) SetMovetime(movetime int) *Limits {
	l.Movetime = movetime
	l.Infinite = false
	return l
}

func (l *Limits) SetInfinite(infinite bool) {
	l.Infinite = infinite
}

func (l *Limits) SetMbSize(mbsize int) *Limits {
	return l.SetByteSize(int64(mbsize) * (1 << 20))
}

// Limit the memory held by tree nodes, approximated from the node size
func (l *Limits) SetByteSize(bytesize int64) *Limits {
	l.ByteSize = bytesize
	l.Infinite = false
	return l
}

func (l *Limits) InfiniteSize() bool {
	return l.ByteSize == -1
}
