package world

import (
	"time"

	"github.com/Nikamura/archerio-clone-sub003/internal/core/handle"
	"github.com/Nikamura/archerio-clone-sub003/internal/geom"
	"github.com/Nikamura/archerio-clone-sub003/internal/pool"
	"go.uber.org/zap"
)

const (
	hostileProjectileSpeed = 320.0 // px per second
	playerHitRadius        = 16.0
	offscreenSlack         = 32.0 // px past the arena edge before a projectile is dropped
)

// Projectile is shared by the player and hostile projectile pools.
type Projectile struct {
	Pos     geom.Vec2
	Vel     geom.Vec2 // px per second
	Damage  float64
	Expires time.Duration
}

func (p *Projectile) Reset() { *p = Projectile{} }

// FirePlayerProjectile acquires a player projectile. Under pressure the pool
// may recycle its oldest projectile or drop this one.
func (s *State) FirePlayerProjectile(now time.Duration, pos, vel geom.Vec2, damage float64) (handle.ID, bool) {
	return s.launch(s.PlayerProjectiles, now, pos, vel, damage)
}

// FireHostileProjectile acquires a hostile projectile.
func (s *State) FireHostileProjectile(now time.Duration, pos, vel geom.Vec2, damage float64) (handle.ID, bool) {
	return s.launch(s.HostileProjectiles, now, pos, vel, damage)
}

func (s *State) launch(pl *pool.Pool[Projectile], now time.Duration, pos, vel geom.Vec2, damage float64) (handle.ID, bool) {
	ref, p, ok := pl.Acquire(now)
	if !ok {
		return handle.None, false
	}
	p.Pos = pos
	p.Vel = vel
	p.Damage = damage
	p.Expires = now + s.projectileTTL
	return ref, true
}

// ReleaseHostileProjectiles cancels every hostile projectile in flight.
func (s *State) ReleaseHostileProjectiles() int {
	n := s.HostileProjectiles.ReleaseAll()
	if n > 0 {
		s.log.Debug("hostile projectiles cancelled", zap.Int("count", n))
	}
	return n
}

// Step advances everything that moves by dt: top spawns walking in, ranged
// enemies firing, and both projectile pools with hit and expiry checks.
func (s *State) Step(now, dt time.Duration) {
	secs := dt.Seconds()
	s.stepEnemies(now, secs)
	s.rebuildGrid()
	s.stepPlayerProjectiles(now, secs)
	s.stepHostileProjectiles(now, secs)
}

func (s *State) stepEnemies(now time.Duration, secs float64) {
	s.Enemies.Each(func(_ handle.ID, e *Enemy) {
		if e.Dead {
			return
		}
		if e.Walking {
			to := e.Target.Sub(e.Pos)
			dist := to.Len()
			step := e.Speed * secs
			if dist <= step || dist == 0 {
				e.Pos = e.Target
				e.Walking = false
			} else {
				e.Pos = e.Pos.Add(to.Scale(step / dist))
			}
		}
		if e.Kind.Ranged() && !e.Walking && now >= e.NextShot {
			e.NextShot = now + rangedFireInterval
			to := s.player.Sub(e.Pos)
			if d := to.Len(); d > 0 {
				s.FireHostileProjectile(now, e.Pos, to.Scale(hostileProjectileSpeed/d), e.Damage)
			}
		}
	})
}

func (s *State) rebuildGrid() {
	s.grid.reset()
	s.Enemies.Each(func(ref handle.ID, e *Enemy) {
		if !e.Dead {
			s.grid.add(ref, e.Pos, e.Size)
		}
	})
}

func (s *State) stepPlayerProjectiles(now time.Duration, secs float64) {
	s.PlayerProjectiles.Each(func(ref handle.ID, p *Projectile) {
		p.Pos = p.Pos.Add(p.Vel.Scale(secs))
		if now >= p.Expires || s.offscreen(p.Pos) || s.hitsWall(p.Pos) {
			s.PlayerProjectiles.Release(ref)
			return
		}
		hit := handle.None
		s.grid.nearby(p.Pos, func(eref handle.ID) bool {
			e, ok := s.Enemies.Get(eref)
			if ok && !e.Dead && e.Pos.Dist(p.Pos) <= e.Size {
				hit = eref
				return true
			}
			return false
		})
		if !hit.IsZero() {
			s.DamageEnemy(now, hit, p.Damage)
			s.PlayerProjectiles.Release(ref)
		}
	})
}

func (s *State) stepHostileProjectiles(now time.Duration, secs float64) {
	s.HostileProjectiles.Each(func(ref handle.ID, p *Projectile) {
		p.Pos = p.Pos.Add(p.Vel.Scale(secs))
		switch {
		case now >= p.Expires || s.offscreen(p.Pos) || s.hitsWall(p.Pos):
			s.HostileProjectiles.Release(ref)
		case p.Pos.Dist(s.player) <= playerHitRadius:
			s.playerHits++
			s.HostileProjectiles.Release(ref)
		}
	})
}

func (s *State) offscreen(p geom.Vec2) bool {
	return p.X < -offscreenSlack || p.X > s.Width+offscreenSlack ||
		p.Y < -offscreenSlack || p.Y > s.Height+offscreenSlack
}

func (s *State) hitsWall(p geom.Vec2) bool {
	for _, w := range s.walls {
		if w.Contains(p) {
			return true
		}
	}
	return false
}
