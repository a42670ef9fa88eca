package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput      Phase = iota // 0: drain director commands
	PhaseTimers                  // 1: fire deferred tasks (waves, portal, fade-out)
	PhaseUpdate                  // 2: motion, projectile expiry
	PhaseVisibility              // 3: off-screen spawn collision poll
	PhaseReap                    // 4: release entities that died this tick
	PhaseEvaluate                // 5: clear check, portal contact
	PhaseOutput                  // 6: flush notifications to presentation
	PhasePersist                 // 7: progression ledger flush
)

// System is the interface every tick system implements. now is the
// simulation clock after this tick's advance.
type System interface {
	Phase() Phase
	Update(now, dt time.Duration)
}
