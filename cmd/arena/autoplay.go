package main

import (
	"time"

	"github.com/Nikamura/archerio-clone-sub003/internal/director"
	"github.com/Nikamura/archerio-clone-sub003/internal/geom"
	"github.com/Nikamura/archerio-clone-sub003/internal/sim"
	"go.uber.org/zap"
)

const (
	fireInterval    = 150 * time.Millisecond
	projectileSpeed = 900.0
	arrowDamage     = 60.0
	walkSpeed       = 320.0 // px/s
	engageRange     = 220.0

	// a room still active after this long is skipped
	stuckAfter = 45 * time.Second
)

// autoplay stands in for the combat layer: it walks the player toward the
// nearest enemy, shoots at it, and walks into the portal once it opens.
type autoplay struct {
	s        *sim.Sim
	nextShot time.Duration
	last     time.Duration
	room     int
	wave     int
	roomAt   time.Duration
	log      *zap.Logger
}

func newAutoplay(s *sim.Sim, log *zap.Logger) *autoplay {
	return &autoplay{s: s, log: log}
}

func (a *autoplay) step(now time.Duration) {
	dt := (now - a.last).Seconds()
	a.last = now

	w := a.s.World()
	st := a.s.Director().State()
	if st.RoomIndex != a.room || st.EndlessWave != a.wave {
		a.room, a.wave, a.roomAt = st.RoomIndex, st.EndlessWave, now
	}

	switch st.Phase {
	case director.PhaseCleared:
		if p := w.Portal(); p.Open {
			a.walk(p.Pos, dt)
		}
		return
	case director.PhaseActive:
	default:
		return
	}

	if now-a.roomAt > stuckAfter {
		a.log.Warn("autoplay stuck, skipping room", zap.Int("room", st.RoomIndex))
		a.s.Submit(director.DebugSkip{})
		a.roomAt = now
		return
	}

	_, pos, ok := w.NearestEnemy(w.PlayerPosition())
	if !ok {
		return
	}
	if w.PlayerPosition().Dist(pos) > engageRange {
		a.walk(pos, dt)
	}
	if now < a.nextShot {
		return
	}
	a.nextShot = now + fireInterval
	to := pos.Sub(w.PlayerPosition())
	if d := to.Len(); d > 0 {
		w.FirePlayerProjectile(now, w.PlayerPosition(), to.Scale(projectileSpeed/d), arrowDamage)
	}
}

func (a *autoplay) walk(target geom.Vec2, dt float64) {
	w := a.s.World()
	from := w.PlayerPosition()
	to := target.Sub(from)
	d := to.Len()
	step := walkSpeed * dt
	if d <= step {
		w.SetPlayerPosition(target)
		return
	}
	w.SetPlayerPosition(from.Add(to.Scale(step / d)))
}
