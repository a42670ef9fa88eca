package timer

import (
	"time"

	"github.com/Nikamura/archerio-clone-sub003/internal/core/handle"
)

// Group is a set of cancellation tokens owned by one party (a room, a
// scheduler). CancelAll drains it synchronously.
type Group struct {
	q       *Queue
	handles []handle.ID
}

func NewGroup(q *Queue) *Group {
	return &Group{q: q, handles: make([]handle.ID, 0, 8)}
}

// After schedules fn on the underlying queue and tracks the token.
func (g *Group) After(now, delay time.Duration, fn Task) handle.ID {
	id := g.q.After(now, delay, fn)
	g.handles = append(g.handles, id)
	return id
}

// At schedules fn at an absolute clock time and tracks the token.
func (g *Group) At(fireAt time.Duration, fn Task) handle.ID {
	id := g.q.At(fireAt, fn)
	g.handles = append(g.handles, id)
	return id
}

// Pending counts tracked tokens that have not fired yet.
func (g *Group) Pending() int {
	n := 0
	for _, id := range g.handles {
		if g.q.Pending(id) {
			n++
		}
	}
	return n
}

// CancelAll cancels every tracked token that is still pending and forgets
// them all. Safe to call repeatedly; returns the number actually cancelled.
func (g *Group) CancelAll() int {
	n := 0
	for _, id := range g.handles {
		if g.q.Cancel(id) {
			n++
		}
	}
	g.handles = g.handles[:0]
	return n
}
