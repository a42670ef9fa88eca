package world

import (
	"time"

	"github.com/Nikamura/archerio-clone-sub003/internal/config"
	"github.com/Nikamura/archerio-clone-sub003/internal/core/event"
	"github.com/Nikamura/archerio-clone-sub003/internal/core/handle"
	"github.com/Nikamura/archerio-clone-sub003/internal/geom"
	"github.com/Nikamura/archerio-clone-sub003/internal/pool"
	"go.uber.org/zap"
)

// Portal is the exit trigger opened after a room clears.
type Portal struct {
	Open   bool
	Pos    geom.Vec2
	Radius float64
}

// State is everything that lives inside the arena for one run: the four
// entity pools, the current room's walls and portal, and the player position.
// Accessed only from the simulation goroutine, no locks.
type State struct {
	Width  float64
	Height float64

	PlayerProjectiles  *pool.Pool[Projectile]
	HostileProjectiles *pool.Pool[Projectile]
	Enemies            *pool.Pool[Enemy]
	Pickups            *pool.Pool[Pickup]

	walls  []geom.Rect
	portal Portal
	player geom.Vec2
	grid   *hitGrid

	topMargin     float64
	projectileTTL time.Duration

	// killed this tick, released by Reap
	deathQueue []handle.ID
	playerHits int

	outbox *event.Outbox
	log    *zap.Logger
}

// NewState allocates every pool up front. Nothing in the arena allocates
// entity storage after this returns.
func NewState(cfg *config.Config, outbox *event.Outbox, log *zap.Logger) *State {
	s := &State{
		Width:         cfg.Arena.Width,
		Height:        cfg.Arena.Height,
		player:        geom.V(cfg.Arena.PlayerSpawn[0]*cfg.Arena.Width, cfg.Arena.PlayerSpawn[1]*cfg.Arena.Height),
		topMargin:     cfg.Waves.TopSpawnMargin,
		projectileTTL: cfg.Pools.ProjectileTTL,
		deathQueue:    make([]handle.ID, 0, cfg.Pools.Enemies),
		grid:          newHitGrid(),
		outbox:        outbox,
		log:           log,
	}
	s.PlayerProjectiles = pool.New[Projectile]("player_projectiles",
		cfg.Pools.PlayerProjectiles, cfg.Pools.MinLifetime, nil, log)
	s.HostileProjectiles = pool.New[Projectile]("hostile_projectiles",
		cfg.Pools.HostileProjectiles, cfg.Pools.MinLifetime, nil, log)
	s.Enemies = pool.New[Enemy]("enemies",
		cfg.Pools.Enemies, cfg.Pools.EnemyMinLifetime, nil, log,
		pool.WithRecycleHook(s.onEnemyRecycled))
	s.Pickups = pool.New[Pickup]("pickups",
		cfg.Pools.Pickups, cfg.Pools.MinLifetime, nil, log)
	return s
}

func (s *State) SetPlayerPosition(p geom.Vec2) { s.player = p }
func (s *State) PlayerPosition() geom.Vec2     { return s.player }

// PlayerHits counts hostile projectiles that reached the player.
func (s *State) PlayerHits() int { return s.playerHits }

// SetWalls replaces the room's walls. The slice is copied.
func (s *State) SetWalls(walls []geom.Rect) {
	s.walls = append(s.walls[:0], walls...)
}

func (s *State) Walls() []geom.Rect { return s.walls }

// OpenPortal materializes the exit trigger.
func (s *State) OpenPortal(pos geom.Vec2, radius float64) {
	s.portal = Portal{Open: true, Pos: pos, Radius: radius}
}

// ClosePortal removes the exit trigger.
func (s *State) ClosePortal() { s.portal = Portal{} }

func (s *State) Portal() Portal { return s.portal }

// PlayerAtPortal reports whether the portal is open and the player stands in it.
func (s *State) PlayerAtPortal() bool {
	return s.portal.Open && s.portal.Pos.Dist(s.player) <= s.portal.Radius
}

// ClearRoom deactivates every active entry of every pool, regardless of which
// room spawned it, and removes walls and portal. Returns how many pool
// entries were released.
func (s *State) ClearRoom() int {
	n := s.Enemies.ReleaseAll()
	n += s.PlayerProjectiles.ReleaseAll()
	n += s.HostileProjectiles.ReleaseAll()
	n += s.Pickups.ReleaseAll()
	s.deathQueue = s.deathQueue[:0]
	s.walls = s.walls[:0]
	s.portal = Portal{}
	if n > 0 {
		s.log.Debug("room cleanup released entities", zap.Int("count", n))
	}
	return n
}

// PoolStats returns a snapshot of every pool, keyed by pool name.
func (s *State) PoolStats() map[string]pool.Stats {
	return map[string]pool.Stats{
		s.PlayerProjectiles.Name():  s.PlayerProjectiles.Stats(),
		s.HostileProjectiles.Name(): s.HostileProjectiles.Stats(),
		s.Enemies.Name():            s.Enemies.Stats(),
		s.Pickups.Name():            s.Pickups.Stats(),
	}
}
