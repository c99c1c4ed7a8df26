package mcts

import (
	"context"
	"math"
)

type StopReason int

const (
	StopNone      StopReason = 0
	StopInterrupt StopReason = 1  // Stopped by user, by calling .SetStop(true) or context cancellation
	StopMovetime  StopReason = 2  // Time limit reached
	StopMemory    StopReason = 4  // Memory limit reached
	StopNodes     StopReason = 8  // Node count limit reached
	StopDepth     StopReason = 16 // Depth limit reached
	StopCycles    StopReason = 32 // Cycle limit reached
	StopSolved    StopReason = 64 // Root was solved, further playouts would change nothing
)

func (sr StopReason) String() string {
	if sr == StopNone {
		return "None"
	}

	reasons := []struct {
		flag StopReason
		name string
	}{
		{StopInterrupt, "Interrupt"},
		{StopMovetime, "Movetime"},
		{StopMemory, "Memory"},
		{StopNodes, "Nodes"},
		{StopDepth, "Depth"},
		{StopCycles, "Cycles"},
		{StopSolved, "Solved"},
	}

	var result string
	for _, r := range reasons {
		if sr&r.flag == r.flag {
			if result != "" {
				result += "|"
			}
			result += r.name
		}
	}

	return result
}

// Limiter decides when the search loop has to stop. It combines the
// configured Limits with a stop flag and an optional context, both checked
// between playouts.
type Limiter struct {
	limits   *Limits
	Timer    *_Timer
	nodeSize uint32
	maxSize  uint32
	stop     bool
	reason   StopReason
	ctx      context.Context
}

func NewLimiter(nodesize uint32) *Limiter {
	return &Limiter{
		limits:   DefaultLimits(),
		Timer:    _NewTimer(),
		nodeSize: nodesize,
		ctx:      context.Background(),
	}
}

// Reset the limiter's flags, called on search setup
func (l *Limiter) Reset() {
	l.Timer.Movetime(l.limits.Movetime)
	l.Timer.Reset()
	l.stop = false
	l.reason = StopNone

	// Calculate the maximum node count based on memory
	if l.limits.ByteSize != DefaultByteSizeLimit {
		l.maxSize = uint32(l.limits.ByteSize / int64(l.nodeSize))
	} else {
		l.maxSize = math.MaxUint32
	}
}

// Evaluate the stop reason based on the current state and keep it, called
// once after the search loop exits
func (l *Limiter) EvaluateStopReason(size, depth, cycles uint32) {
	reason := StopNone

	if l.Stop() {
		reason |= StopInterrupt
	}
	if !l.limits.Infinite {
		if l.Timer.IsEnd() {
			reason |= StopMovetime
		}
		if l.maxSize <= size {
			reason |= StopMemory
		}
		if l.limits.Nodes <= size {
			reason |= StopNodes
		}
		if l.limits.Depth <= int(depth) {
			reason |= StopDepth
		}
		if l.limits.Cycles <= cycles {
			reason |= StopCycles
		}
	}

	l.reason = reason
}

// Mark that the search stopped because the root is solved
func (l *Limiter) markSolved() {
	l.reason |= StopSolved
}

// Get the reason why the search was stopped, valid after search ends
func (l *Limiter) StopReason() StopReason {
	return l.reason
}

// Adding a context enables cancellation through it, checked between
// playouts like the other limits
func (l *Limiter) SetContext(ctx context.Context) {
	l.ctx = ctx
}

// Set the stop signal, will cause the search loop to exit
func (l *Limiter) SetStop(v bool) {
	l.stop = v
}

func (l *Limiter) Stop() bool {
	select {
	case <-l.ctx.Done():
		l.stop = true
	default:
	}
	return l.stop
}

func (l *Limiter) SetLimits(limits *Limits) {
	l.limits = limits
}

func (l *Limiter) Limits() *Limits {
	return l.limits
}

// Get elapsed time in ms (from the last 'Reset' call)
func (l *Limiter) Elapsed() uint32 {
	return uint32(l.Timer.Deltatime())
}

// Whether the search may keep going, called in the main search loop
func (l *Limiter) Ok(size, depth, cycles uint32) bool {
	if l.Stop() {
		return false
	}
	if l.limits.Infinite {
		return true
	}
	return !l.Timer.IsEnd() &&
		l.maxSize > size &&
		l.limits.Nodes > size &&
		l.limits.Depth > int(depth) &&
		l.limits.Cycles > cycles
}
