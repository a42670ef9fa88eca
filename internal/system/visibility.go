package system

import (
	"time"

	coresys "github.com/Nikamura/archerio-clone-sub003/internal/core/system"
	"github.com/Nikamura/archerio-clone-sub003/internal/world"
	"go.uber.org/zap"
)

// VisibilitySystem polls off-screen spawns and re-enables their bounds
// collision once they walk into view. Runs once per poll interval, not every
// tick. Phase 3 (Visibility).
type VisibilitySystem struct {
	world    *world.State
	interval time.Duration
	next     time.Duration
	log      *zap.Logger
}

func NewVisibilitySystem(ws *world.State, interval time.Duration, log *zap.Logger) *VisibilitySystem {
	return &VisibilitySystem{world: ws, interval: interval, log: log}
}

func (s *VisibilitySystem) Phase() coresys.Phase { return coresys.PhaseVisibility }

func (s *VisibilitySystem) Update(now, _ time.Duration) {
	if now < s.next {
		return
	}
	s.next = now + s.interval

	if n := s.world.EnableVisibleCollisions(); n > 0 {
		s.log.Debug("spawns entered view", zap.Int("count", n))
	}
}
