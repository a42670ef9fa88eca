package system

import (
	"time"

	coresys "github.com/Nikamura/archerio-clone-sub003/internal/core/system"
	"github.com/Nikamura/archerio-clone-sub003/internal/world"
)

// ReapSystem releases enemies killed this tick back to their pool.
// Phase 4 (Reap).
type ReapSystem struct {
	world *world.State
}

func NewReapSystem(ws *world.State) *ReapSystem {
	return &ReapSystem{world: ws}
}

func (s *ReapSystem) Phase() coresys.Phase { return coresys.PhaseReap }

func (s *ReapSystem) Update(_, _ time.Duration) {
	s.world.Reap()
}
