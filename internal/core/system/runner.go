package system

import (
	"sort"
	"time"
)

// Clock is the monotonic simulation clock. Only Runner advances it.
type Clock struct {
	now time.Duration
}

func (c *Clock) Now() time.Duration { return c.now }

// Runner executes systems in phase order each tick.
type Runner struct {
	clock   *Clock
	systems []System
	sorted  bool
}

func NewRunner(clock *Clock) *Runner {
	if clock == nil {
		clock = &Clock{}
	}
	return &Runner{
		clock:   clock,
		systems: make([]System, 0, 16),
	}
}

func (r *Runner) Clock() *Clock { return r.clock }

func (r *Runner) Register(s System) {
	r.systems = append(r.systems, s)
	r.sorted = false
}

// Tick advances the clock by dt, then runs every system in phase order.
// Systems sharing a phase keep their registration order.
func (r *Runner) Tick(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	r.clock.now += dt
	r.ensureSorted()
	for _, s := range r.systems {
		s.Update(r.clock.now, dt)
	}
}

// TickPhase runs only the systems of one phase without advancing the clock.
// Used to drain queued commands between ticks.
func (r *Runner) TickPhase(phase Phase) {
	r.ensureSorted()
	for _, s := range r.systems {
		if s.Phase() == phase {
			s.Update(r.clock.now, 0)
		}
	}
}

func (r *Runner) ensureSorted() {
	if !r.sorted {
		sort.SliceStable(r.systems, func(i, j int) bool {
			return r.systems[i].Phase() < r.systems[j].Phase()
		})
		r.sorted = true
	}
}
