package system

import (
	"time"

	coresys "github.com/Nikamura/archerio-clone-sub003/internal/core/system"
	"github.com/Nikamura/archerio-clone-sub003/internal/core/timer"
)

// TimerSystem fires every deferred task that is due: wave spawns, the portal
// delay, and fade-outs. Phase 1 (Timers).
type TimerSystem struct {
	queue *timer.Queue
}

func NewTimerSystem(q *timer.Queue) *TimerSystem {
	return &TimerSystem{queue: q}
}

func (s *TimerSystem) Phase() coresys.Phase { return coresys.PhaseTimers }

func (s *TimerSystem) Update(now, _ time.Duration) {
	s.queue.Advance(now)
}
