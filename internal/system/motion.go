package system

import (
	"time"

	coresys "github.com/Nikamura/archerio-clone-sub003/internal/core/system"
	"github.com/Nikamura/archerio-clone-sub003/internal/world"
)

// MotionSystem moves enemies and projectiles and resolves projectile hits.
// Phase 2 (Update).
type MotionSystem struct {
	world *world.State
}

func NewMotionSystem(ws *world.State) *MotionSystem {
	return &MotionSystem{world: ws}
}

func (s *MotionSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *MotionSystem) Update(now, dt time.Duration) {
	s.world.Step(now, dt)
}
