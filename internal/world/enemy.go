package world

import (
	"time"

	"github.com/Nikamura/archerio-clone-sub003/internal/core/event"
	"github.com/Nikamura/archerio-clone-sub003/internal/core/handle"
	"github.com/Nikamura/archerio-clone-sub003/internal/data"
	"github.com/Nikamura/archerio-clone-sub003/internal/geom"
	"go.uber.org/zap"
)

// rangedFireInterval is how often a ranged enemy fires at the player.
const rangedFireInterval = 2 * time.Second

// Enemy is the payload of an enemy pool slot. Refs to it are only valid while
// the slot is active; re-check with Enemies.Get every tick.
type Enemy struct {
	Kind     data.Kind
	Pos      geom.Vec2
	Target   geom.Vec2 // walk-in destination for top spawns
	Walking  bool
	HP       float64
	MaxHP    float64
	Damage   float64
	Speed    float64 // px per second
	Size     float64 // collision radius
	Currency int64

	BlastRadius float64 // bomber

	Boss     bool
	MiniBoss bool
	BossID   string
	BossName string

	// Top spawns start above the visible area with bounds collision off;
	// VisibilitySystem turns it back on once.
	TopSpawn        bool
	BoundsCollision bool

	NextShot time.Duration
	Dead     bool
}

func (e *Enemy) Reset() { *e = Enemy{} }

// EnemySpawn is a fully scaled spawn request.
type EnemySpawn struct {
	Kind        data.Kind
	Pos         geom.Vec2
	Health      float64
	Damage      float64
	Speed       float64
	Size        float64
	Currency    int64
	BlastRadius float64
	TopSpawn    bool

	Boss     bool
	MiniBoss bool
	BossID   string
	BossName string
}

// SpawnEnemy acquires an enemy slot and fills it from sp. A top spawn is
// placed above the top edge and walks down to sp.Pos. ok is false when the
// pool dropped the request.
func (s *State) SpawnEnemy(now time.Duration, sp EnemySpawn) (handle.ID, bool) {
	ref, e, ok := s.Enemies.Acquire(now)
	if !ok {
		s.log.Debug("enemy spawn dropped", zap.Stringer("kind", sp.Kind))
		return handle.None, false
	}
	e.Kind = sp.Kind
	e.HP = sp.Health
	e.MaxHP = sp.Health
	e.Damage = sp.Damage
	e.Speed = sp.Speed
	e.Size = sp.Size
	e.Currency = sp.Currency
	e.BlastRadius = sp.BlastRadius
	e.Boss = sp.Boss
	e.MiniBoss = sp.MiniBoss
	e.BossID = sp.BossID
	e.BossName = sp.BossName
	e.TopSpawn = sp.TopSpawn
	e.NextShot = now + rangedFireInterval

	if sp.TopSpawn {
		e.Pos = geom.V(sp.Pos.X, -s.topMargin-sp.Size)
		e.Target = sp.Pos
		e.Walking = true
		e.BoundsCollision = false
	} else {
		e.Pos = sp.Pos
		e.BoundsCollision = true
	}
	return ref, true
}

// EnemyAlive reports whether ref names a live, not-yet-killed enemy.
func (s *State) EnemyAlive(ref handle.ID) bool {
	e, ok := s.Enemies.Get(ref)
	return ok && !e.Dead
}

// ActiveHostiles counts live enemies. Enemies killed this tick but not yet
// reaped do not count.
func (s *State) ActiveHostiles() int {
	n := 0
	s.Enemies.Each(func(_ handle.ID, e *Enemy) {
		if !e.Dead {
			n++
		}
	})
	return n
}

// DamageEnemy applies amount and kills the enemy when its health runs out.
// Returns true if this call killed it.
func (s *State) DamageEnemy(now time.Duration, ref handle.ID, amount float64) bool {
	e, ok := s.Enemies.Get(ref)
	if !ok || e.Dead {
		return false
	}
	e.HP -= amount
	if e.Boss {
		s.outbox.Push(event.BossHealth{Current: max(e.HP, 0), Max: e.MaxHP, Name: e.BossName})
	}
	if e.HP <= 0 {
		return s.KillEnemy(now, ref)
	}
	return false
}

// KillEnemy marks the enemy dead and queues it for Reap. Death side effects
// (currency drop, bomber explosion, boss bar) happen here, once.
func (s *State) KillEnemy(now time.Duration, ref handle.ID) bool {
	e, ok := s.Enemies.Get(ref)
	if !ok || e.Dead {
		return false
	}
	e.Dead = true
	e.HP = 0
	s.deathQueue = append(s.deathQueue, ref)

	if e.Currency > 0 {
		s.DropPickup(now, e.Pos, e.Currency)
	}
	if e.Kind == data.KindBomber {
		s.outbox.Push(event.BombExplosion{X: e.Pos.X, Y: e.Pos.Y, Radius: e.BlastRadius, Damage: e.Damage})
	}
	if e.Boss {
		s.outbox.Push(event.BossHealthHidden{})
	}
	return true
}

// Reap releases every enemy killed since the last Reap.
func (s *State) Reap() int {
	n := 0
	for _, ref := range s.deathQueue {
		if s.Enemies.Release(ref) {
			n++
		}
	}
	s.deathQueue = s.deathQueue[:0]
	return n
}

// ReleaseHostiles releases every enemy still in the pool, dead or alive.
func (s *State) ReleaseHostiles() int {
	s.deathQueue = s.deathQueue[:0]
	return s.Enemies.ReleaseAll()
}

// NearestEnemy returns the live enemy closest to p.
func (s *State) NearestEnemy(p geom.Vec2) (handle.ID, geom.Vec2, bool) {
	best := handle.None
	var bestPos geom.Vec2
	bestDist := -1.0
	s.Enemies.Each(func(ref handle.ID, e *Enemy) {
		if e.Dead {
			return
		}
		if d := e.Pos.Dist(p); bestDist < 0 || d < bestDist {
			best, bestPos, bestDist = ref, e.Pos, d
		}
	})
	return best, bestPos, bestDist >= 0
}

// EnableVisibleCollisions turns bounds collision back on for top spawns that
// are now inside the visible area. Returns how many were switched.
func (s *State) EnableVisibleCollisions() int {
	n := 0
	s.Enemies.Each(func(_ handle.ID, e *Enemy) {
		if e.BoundsCollision || e.Dead {
			return
		}
		if e.Pos.Y >= 0 && e.Pos.Y <= s.Height && e.Pos.X >= 0 && e.Pos.X <= s.Width {
			e.BoundsCollision = true
			n++
		}
	})
	return n
}

func (s *State) onEnemyRecycled(ref handle.ID, e *Enemy) {
	s.log.Debug("enemy recycled", zap.Stringer("kind", e.Kind), zap.Uint64("ref", uint64(ref)))
	if e.Boss && !e.Dead {
		s.outbox.Push(event.BossHealthHidden{})
	}
}
