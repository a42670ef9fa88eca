package system

import (
	"time"

	coresys "github.com/Nikamura/archerio-clone-sub003/internal/core/system"
	"github.com/Nikamura/archerio-clone-sub003/internal/director"
	"go.uber.org/zap"
)

// CommandSystem applies director commands queued since the last tick.
// Phase 0 (Input).
type CommandSystem struct {
	dir *director.Director
	log *zap.Logger
}

func NewCommandSystem(dir *director.Director, log *zap.Logger) *CommandSystem {
	return &CommandSystem{dir: dir, log: log}
}

func (s *CommandSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *CommandSystem) Update(now, _ time.Duration) {
	if n := s.dir.ProcessCommands(now); n > 0 {
		s.log.Debug("commands applied", zap.Int("count", n))
	}
}
