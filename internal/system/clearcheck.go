package system

import (
	"time"

	coresys "github.com/Nikamura/archerio-clone-sub003/internal/core/system"
	"github.com/Nikamura/archerio-clone-sub003/internal/director"
	"github.com/Nikamura/archerio-clone-sub003/internal/world"
)

// ClearCheckSystem runs the room clear check after this tick's deaths were
// reaped. Phase 5 (Evaluate).
type ClearCheckSystem struct {
	dir *director.Director
}

func NewClearCheckSystem(dir *director.Director) *ClearCheckSystem {
	return &ClearCheckSystem{dir: dir}
}

func (s *ClearCheckSystem) Phase() coresys.Phase { return coresys.PhaseEvaluate }

func (s *ClearCheckSystem) Update(now, _ time.Duration) {
	s.dir.Evaluate(now)
}

// PortalSystem starts the room transition when the player touches an open
// portal. Phase 5 (Evaluate), after ClearCheckSystem.
type PortalSystem struct {
	world *world.State
	dir   *director.Director
}

func NewPortalSystem(ws *world.State, dir *director.Director) *PortalSystem {
	return &PortalSystem{world: ws, dir: dir}
}

func (s *PortalSystem) Phase() coresys.Phase { return coresys.PhaseEvaluate }

func (s *PortalSystem) Update(now, _ time.Duration) {
	if s.world.PlayerAtPortal() {
		s.dir.EnterPortal(now)
	}
}
