// Package pool is a fixed-capacity, never-growing store of recyclable entities.
package pool

import (
	"time"

	"github.com/Nikamura/archerio-clone-sub003/internal/core/handle"
	"go.uber.org/zap"
)

// Resetter is implemented by payloads that need clearing when their slot is
// handed to a new owner.
type Resetter interface {
	Reset()
}

type slot[E any] struct {
	active    bool
	spawnTime time.Duration
	gen       uint32
	payload   E
}

// Stats is a snapshot of pool counters.
type Stats struct {
	Capacity int
	Active   int
	Recycled uint64
	Dropped  uint64
}

// Pool owns every slot's lifecycle. A payload's address never changes after
// construction; refs handed out by Acquire carry the slot generation and go
// stale the moment the slot is released or recycled.
type Pool[E any] struct {
	name        string
	slots       []slot[E]
	freeList    []uint32
	active      int
	minLifetime time.Duration
	onRecycle   func(handle.ID, *E)
	log         *zap.Logger

	recycled uint64
	dropped  uint64
}

// Option customises a Pool at construction.
type Option[E any] func(*Pool[E])

// WithRecycleHook is called with the outgoing ref just before an active slot
// is forcibly taken over by the recycling policy.
func WithRecycleHook[E any](fn func(handle.ID, *E)) Option[E] {
	return func(p *Pool[E]) { p.onRecycle = fn }
}

// New builds a pool of exactly capacity slots. init, if non-nil, prepares each
// payload once.
func New[E any](name string, capacity int, minLifetime time.Duration, init func(i int, e *E), log *zap.Logger, opts ...Option[E]) *Pool[E] {
	if capacity < 0 {
		capacity = 0
	}
	if log == nil {
		log = zap.NewNop()
	}
	p := &Pool[E]{
		name:        name,
		slots:       make([]slot[E], capacity),
		freeList:    make([]uint32, 0, capacity),
		minLifetime: minLifetime,
		log:         log.With(zap.String("pool", name)),
	}
	for i := range p.slots {
		p.slots[i].gen = 1
		if init != nil {
			init(i, &p.slots[i].payload)
		}
	}
	// lowest index is handed out first
	for i := capacity - 1; i >= 0; i-- {
		p.freeList = append(p.freeList, uint32(i))
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Acquire returns a free slot, or recycles the oldest active slot whose age is
// at least minLifetime. When every active slot is younger, the request is
// dropped and ok is false.
func (p *Pool[E]) Acquire(now time.Duration) (ref handle.ID, payload *E, ok bool) {
	if n := len(p.freeList); n > 0 {
		idx := p.freeList[n-1]
		p.freeList = p.freeList[:n-1]
		s := &p.slots[idx]
		s.active = true
		s.spawnTime = now
		p.active++
		resetPayload(&s.payload)
		return handle.New(idx, s.gen), &s.payload, true
	}

	oldest := -1
	for i := range p.slots {
		s := &p.slots[i]
		if !s.active || now-s.spawnTime < p.minLifetime {
			continue
		}
		if oldest < 0 || s.spawnTime < p.slots[oldest].spawnTime {
			oldest = i
		}
	}
	if oldest < 0 {
		p.dropped++
		p.log.Debug("pool exhausted, spawn dropped",
			zap.Int("capacity", len(p.slots)),
			zap.Duration("now", now))
		return handle.None, nil, false
	}

	s := &p.slots[oldest]
	if p.onRecycle != nil {
		p.onRecycle(handle.New(uint32(oldest), s.gen), &s.payload)
	}
	s.gen++
	s.spawnTime = now
	resetPayload(&s.payload)
	p.recycled++
	p.log.Debug("recycled oldest slot", zap.Int("slot", oldest))
	return handle.New(uint32(oldest), s.gen), &s.payload, true
}

// Release deactivates the slot named by ref. Releasing a stale ref or an
// inactive slot is a no-op; the return value reports whether anything changed.
func (p *Pool[E]) Release(ref handle.ID) bool {
	s := p.lookup(ref)
	if s == nil {
		return false
	}
	p.deactivate(ref.Index(), s)
	return true
}

func (p *Pool[E]) deactivate(idx uint32, s *slot[E]) {
	s.active = false
	s.gen++
	p.active--
	p.freeList = append(p.freeList, idx)
}

// Get returns the payload if ref still names an active slot.
func (p *Pool[E]) Get(ref handle.ID) (*E, bool) {
	s := p.lookup(ref)
	if s == nil {
		return nil, false
	}
	return &s.payload, true
}

// Alive reports whether ref still names an active slot.
func (p *Pool[E]) Alive(ref handle.ID) bool {
	return p.lookup(ref) != nil
}

// SpawnTime returns the acquire time of an active slot.
func (p *Pool[E]) SpawnTime(ref handle.ID) (time.Duration, bool) {
	s := p.lookup(ref)
	if s == nil {
		return 0, false
	}
	return s.spawnTime, true
}

func (p *Pool[E]) lookup(ref handle.ID) *slot[E] {
	idx := ref.Index()
	if ref.IsZero() || int(idx) >= len(p.slots) {
		return nil
	}
	s := &p.slots[idx]
	if !s.active || s.gen != ref.Generation() {
		return nil
	}
	return s
}

// Each calls fn for every active slot in index order. fn may release the
// slot it is given.
func (p *Pool[E]) Each(fn func(ref handle.ID, e *E)) {
	for i := range p.slots {
		s := &p.slots[i]
		if s.active {
			fn(handle.New(uint32(i), s.gen), &s.payload)
		}
	}
}

// ReleaseAll deactivates every active slot and returns how many there were.
func (p *Pool[E]) ReleaseAll() int {
	n := 0
	for i := range p.slots {
		s := &p.slots[i]
		if s.active {
			p.deactivate(uint32(i), s)
			n++
		}
	}
	return n
}

func (p *Pool[E]) ActiveCount() int { return p.active }
func (p *Pool[E]) Capacity() int    { return len(p.slots) }
func (p *Pool[E]) Name() string     { return p.name }

func (p *Pool[E]) Stats() Stats {
	return Stats{
		Capacity: len(p.slots),
		Active:   p.active,
		Recycled: p.recycled,
		Dropped:  p.dropped,
	}
}

func resetPayload[E any](e *E) {
	if r, ok := any(e).(Resetter); ok {
		r.Reset()
	}
}
