// Package director is the room lifecycle state machine.
//
// A room moves Entering -> Active -> Cleared -> Transitioning -> Entering(next).
// The director owns RoomState and is the only thing that mutates it; the
// presentation layer sees values through the outbox and State().
package director

import (
	"time"

	"github.com/Nikamura/archerio-clone-sub003/internal/config"
	"github.com/Nikamura/archerio-clone-sub003/internal/core/event"
	"github.com/Nikamura/archerio-clone-sub003/internal/core/handle"
	"github.com/Nikamura/archerio-clone-sub003/internal/core/timer"
	"github.com/Nikamura/archerio-clone-sub003/internal/data"
	"github.com/Nikamura/archerio-clone-sub003/internal/difficulty"
	"github.com/Nikamura/archerio-clone-sub003/internal/geom"
	"github.com/Nikamura/archerio-clone-sub003/internal/layout"
	"github.com/Nikamura/archerio-clone-sub003/internal/rng"
	"github.com/Nikamura/archerio-clone-sub003/internal/wave"
	"github.com/Nikamura/archerio-clone-sub003/internal/world"
	"go.uber.org/zap"
)

// Phase is the director's lifecycle position.
type Phase uint8

const (
	PhaseEntering Phase = iota
	PhaseActive
	PhaseCleared // waiting for the portal
	PhaseTransitioning
	PhaseVictory
)

func (p Phase) String() string {
	switch p {
	case PhaseEntering:
		return "entering"
	case PhaseActive:
		return "active"
	case PhaseCleared:
		return "cleared"
	case PhaseTransitioning:
		return "transitioning"
	case PhaseVictory:
		return "victory"
	}
	return "unknown"
}

// State is RoomState. Copies handed out by Director.State are snapshots.
type State struct {
	Phase                Phase
	RoomIndex            int
	TotalRooms           int
	Cleared              bool
	Transitioning        bool
	PendingSpawns        int
	BossRef              handle.ID
	BossActive           bool // boss or mini-boss room
	MiniBoss             bool
	EndlessWave          int
	DifficultyMultiplier float64
}

// Progression is the persistence collaborator. The director reports what a
// clear earned and asks whether to skip the portal; it never touches storage.
type Progression interface {
	ReportCurrency(roomIndex int, amount int64)
	AutoAdvance() bool
}

// Deps bundles everything the director orchestrates. All fields are required.
type Deps struct {
	Config      config.DirectorConfig
	Level       difficulty.Level
	PlayerSpawn geom.Vec2

	World     *world.State
	Generator *layout.Generator
	Waves     *wave.Scheduler
	Timers    *timer.Queue
	RNG       *rng.RNG
	Enemies   *data.EnemyTable
	Bosses    *data.BossTable
	Provider  difficulty.Provider
	Progress  Progression
	Outbox    *event.Outbox
	Log       *zap.Logger
}

type Director struct {
	cfg         config.DirectorConfig
	level       difficulty.Level
	playerSpawn geom.Vec2

	state  State
	layout *layout.Layout
	boss   *data.BossTemplate

	world      *world.State
	gen        *layout.Generator
	waves      *wave.Scheduler
	roomTimers *timer.Group // portal delay, fade-out
	rng        *rng.RNG
	enemies    *data.EnemyTable
	bosses     *data.BossTable
	provider   difficulty.Provider
	progress   Progression
	outbox     *event.Outbox
	commands   *event.Queue[Command]
	log        *zap.Logger
}

func New(d Deps) *Director {
	dir := &Director{
		cfg:         d.Config,
		level:       d.Level,
		playerSpawn: d.PlayerSpawn,
		world:       d.World,
		gen:         d.Generator,
		waves:       d.Waves,
		roomTimers:  timer.NewGroup(d.Timers),
		rng:         d.RNG,
		enemies:     d.Enemies,
		bosses:      d.Bosses,
		provider:    d.Provider,
		progress:    d.Progress,
		outbox:      d.Outbox,
		commands:    event.NewQueue[Command](8),
		log:         d.Log,
	}
	dir.state = dir.initialState()
	return dir
}

func (d *Director) initialState() State {
	return State{
		Phase:                PhaseEntering,
		RoomIndex:            1,
		TotalRooms:           d.cfg.TotalRooms,
		EndlessWave:          1,
		DifficultyMultiplier: difficulty.EndlessMultiplier(1),
	}
}

// Start enters the first room.
func (d *Director) Start(now time.Duration) {
	d.enterRoom(now)
}

// State returns a snapshot of RoomState.
func (d *Director) State() State { return d.state }

// Layout returns the current room's layout, nil between rooms.
func (d *Director) Layout() *layout.Layout { return d.layout }

// Boss returns the boss identity chosen for the current room, if any.
func (d *Director) Boss() *data.BossTemplate { return d.boss }

func (d *Director) context() difficulty.Context {
	return difficulty.Context{
		Level:       d.level,
		Chapter:     d.cfg.Chapter,
		RoomIndex:   d.state.RoomIndex,
		TotalRooms:  d.state.TotalRooms,
		EndlessWave: d.state.EndlessWave,
	}
}

// presentedWave is the endless wave shown to the presentation layer, 0
// outside endless mode.
func (d *Director) presentedWave() int {
	if !d.cfg.Endless {
		return 0
	}
	return d.state.EndlessWave
}
