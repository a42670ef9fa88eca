// Package timer runs deferred tasks against the simulation clock.
//
// Tasks are keyed by a generational handle: cancelling a handle that already
// fired, or was already cancelled, is a no-op.
package timer

import (
	"sort"
	"time"

	"github.com/Nikamura/archerio-clone-sub003/internal/core/handle"
)

// Task runs once when the clock reaches its fire time.
type Task func(now time.Duration)

type entry struct {
	id     handle.ID
	fireAt time.Duration
	seq    uint64
	fn     Task
}

// maxRounds bounds how many times Advance re-scans for tasks that were
// scheduled at or before now by tasks it just ran.
const maxRounds = 64

// Queue is single-goroutine; it is driven by TimerSystem once per tick.
type Queue struct {
	alloc   *handle.Allocator
	entries []entry
	seq     uint64
	due     []handle.ID
}

func NewQueue() *Queue {
	return &Queue{
		alloc:   handle.NewAllocator(64),
		entries: make([]entry, 0, 64),
		due:     make([]handle.ID, 0, 16),
	}
}

// At schedules fn to run on the first Advance whose now >= fireAt.
func (q *Queue) At(fireAt time.Duration, fn Task) handle.ID {
	id := q.alloc.Create()
	idx := int(id.Index())
	for len(q.entries) <= idx {
		q.entries = append(q.entries, entry{})
	}
	q.seq++
	q.entries[idx] = entry{id: id, fireAt: fireAt, seq: q.seq, fn: fn}
	return id
}

// After schedules fn delay after now.
func (q *Queue) After(now, delay time.Duration, fn Task) handle.ID {
	return q.At(now+delay, fn)
}

// Cancel drops a pending task. Returns false when id already fired or was
// cancelled.
func (q *Queue) Cancel(id handle.ID) bool {
	if !q.alloc.Destroy(id) {
		return false
	}
	q.entries[id.Index()] = entry{}
	return true
}

// Pending reports whether id is still waiting to fire.
func (q *Queue) Pending(id handle.ID) bool { return q.alloc.Alive(id) }

// Len returns the number of pending tasks.
func (q *Queue) Len() int { return q.alloc.Len() }

// Advance runs every task due at now, ordered by fire time then scheduling
// order. Tasks scheduled for <= now by a running task fire in the same call.
func (q *Queue) Advance(now time.Duration) int {
	fired := 0
	for round := 0; round < maxRounds; round++ {
		q.collectDue(now)
		if len(q.due) == 0 {
			break
		}
		for _, id := range q.due {
			// an earlier task in this batch may have cancelled this one
			if !q.alloc.Alive(id) {
				continue
			}
			e := q.entries[id.Index()]
			q.alloc.Destroy(id)
			q.entries[id.Index()] = entry{}
			e.fn(now)
			fired++
		}
	}
	return fired
}

func (q *Queue) collectDue(now time.Duration) {
	q.due = q.due[:0]
	for i := range q.entries {
		e := &q.entries[i]
		if e.fn == nil || e.fireAt > now {
			continue
		}
		// entries are cleared on fire/cancel, so a set fn means the slot is live
		q.due = append(q.due, e.id)
	}
	sort.Slice(q.due, func(a, b int) bool {
		ea, eb := q.entries[q.due[a].Index()], q.entries[q.due[b].Index()]
		if ea.fireAt != eb.fireAt {
			return ea.fireAt < eb.fireAt
		}
		return ea.seq < eb.seq
	})
}
