package world

import (
	"time"

	"github.com/Nikamura/archerio-clone-sub003/internal/core/handle"
	"github.com/Nikamura/archerio-clone-sub003/internal/geom"
	"go.uber.org/zap"
)

// Pickup is a currency drop left by a killed enemy.
type Pickup struct {
	Pos   geom.Vec2
	Value int64
}

func (p *Pickup) Reset() { *p = Pickup{} }

// DropPickup places a currency pickup. A full pickup pool recycles its oldest
// drop, or loses this one.
func (s *State) DropPickup(now time.Duration, pos geom.Vec2, value int64) (handle.ID, bool) {
	ref, p, ok := s.Pickups.Acquire(now)
	if !ok {
		s.log.Debug("pickup dropped", zap.Int64("value", value))
		return handle.None, false
	}
	p.Pos = pos
	p.Value = value
	return ref, true
}

// CollectPickups gathers every active pickup to the player, releases them and
// returns the summed value.
func (s *State) CollectPickups() int64 {
	var total int64
	s.Pickups.Each(func(ref handle.ID, p *Pickup) {
		total += p.Value
		s.Pickups.Release(ref)
	})
	return total
}
