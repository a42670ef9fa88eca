// Package sim assembles the encounter core into one tickable simulation.
package sim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Nikamura/archerio-clone-sub003/internal/config"
	"github.com/Nikamura/archerio-clone-sub003/internal/core/event"
	coresys "github.com/Nikamura/archerio-clone-sub003/internal/core/system"
	"github.com/Nikamura/archerio-clone-sub003/internal/core/timer"
	"github.com/Nikamura/archerio-clone-sub003/internal/data"
	"github.com/Nikamura/archerio-clone-sub003/internal/difficulty"
	"github.com/Nikamura/archerio-clone-sub003/internal/director"
	"github.com/Nikamura/archerio-clone-sub003/internal/geom"
	"github.com/Nikamura/archerio-clone-sub003/internal/layout"
	"github.com/Nikamura/archerio-clone-sub003/internal/persist"
	"github.com/Nikamura/archerio-clone-sub003/internal/rng"
	"github.com/Nikamura/archerio-clone-sub003/internal/scripting"
	"github.com/Nikamura/archerio-clone-sub003/internal/system"
	"github.com/Nikamura/archerio-clone-sub003/internal/wave"
	"github.com/Nikamura/archerio-clone-sub003/internal/world"
	"go.uber.org/zap"
)

// Options are the collaborators a caller may supply. Zero values mean: no
// presentation, and the store named by the storage config.
type Options struct {
	Presenter event.Presenter
	Store     persist.Store
}

// Sim owns every subsystem of one run. Not safe for concurrent use; drive it
// from a single goroutine.
type Sim struct {
	cfg    *config.Config
	tables *data.Tables

	runner   *coresys.Runner
	rng      *rng.RNG
	world    *world.State
	gen      *layout.Generator
	director *director.Director
	ledger   *persist.Ledger
	store    persist.Store
	persist  *system.PersistSystem
	script   *scripting.Engine

	log *zap.Logger
}

// New builds a simulation from cfg. The first room is entered by Start.
func New(ctx context.Context, cfg *config.Config, opts Options, log *zap.Logger) (*Sim, error) {
	tables, err := loadTables(cfg.Data)
	if err != nil {
		return nil, err
	}

	table, err := difficulty.NewTable(cfg.Difficulty)
	if err != nil {
		return nil, err
	}
	var provider difficulty.Provider = table
	var script *scripting.Engine
	if cfg.Difficulty.Script != "" {
		script, err = scripting.NewEngine(cfg.Difficulty.Script, table, log)
		if err != nil {
			return nil, err
		}
		provider = script
	}

	store := opts.Store
	if store == nil {
		if store, err = persist.Open(ctx, cfg.Storage, log); err != nil {
			closeScript(script)
			return nil, fmt.Errorf("open store: %w", err)
		}
	}
	ledger, err := persist.LoadLedger(ctx, store, cfg.Storage.Profile,
		cfg.Director.Chapter, cfg.Director.AutoAdvanceDefault, log)
	if err != nil {
		closeScript(script)
		store.Close()
		return nil, err
	}

	r := rng.New(cfg.Arena.Seed)
	timers := timer.NewQueue()
	outbox := event.NewOutbox()
	ws := world.NewState(cfg, outbox, log)
	gen := layout.NewGenerator(tables.Layouts, tables.Enemies, r, cfg.Arena.Width, cfg.Arena.Height, log)

	dir := director.New(director.Deps{
		Config:      cfg.Director,
		Level:       difficulty.Level(cfg.Difficulty.Level),
		PlayerSpawn: geom.V(cfg.Arena.PlayerSpawn[0]*cfg.Arena.Width, cfg.Arena.PlayerSpawn[1]*cfg.Arena.Height),
		World:       ws,
		Generator:   gen,
		Waves:       wave.NewScheduler(timers, r, cfg.Waves, log),
		Timers:      timers,
		RNG:         r,
		Enemies:     tables.Enemies,
		Bosses:      tables.Bosses,
		Provider:    provider,
		Progress:    ledger,
		Outbox:      outbox,
		Log:         log,
	})

	persistSys := system.NewPersistSystem(ledger, store, cfg.Storage.FlushInterval, log)

	runner := coresys.NewRunner(nil)
	runner.Register(system.NewCommandSystem(dir, log))
	runner.Register(system.NewTimerSystem(timers))
	runner.Register(system.NewMotionSystem(ws))
	runner.Register(system.NewVisibilitySystem(ws, cfg.Waves.VisibilityPoll, log))
	runner.Register(system.NewReapSystem(ws))
	runner.Register(system.NewClearCheckSystem(dir))
	runner.Register(system.NewPortalSystem(ws, dir))
	runner.Register(system.NewOutputSystem(outbox, opts.Presenter))
	runner.Register(persistSys)

	log.Info("simulation ready",
		zap.Uint64("seed", cfg.Arena.Seed),
		zap.Int("rooms", cfg.Director.TotalRooms),
		zap.Bool("endless", cfg.Director.Endless),
		zap.String("difficulty", cfg.Difficulty.Level),
		zap.Int("enemy_kinds", tables.Enemies.Count()),
		zap.Int("layouts", tables.Layouts.Count()))

	return &Sim{
		cfg:      cfg,
		tables:   tables,
		runner:   runner,
		rng:      r,
		world:    ws,
		gen:      gen,
		director: dir,
		ledger:   ledger,
		store:    store,
		persist:  persistSys,
		script:   script,
		log:      log,
	}, nil
}

func loadTables(cfg config.DataConfig) (*data.Tables, error) {
	if cfg.Dir == "" {
		return data.Defaults()
	}
	return data.LoadTables(cfg.Dir)
}

func closeScript(e *scripting.Engine) {
	if e != nil {
		e.Close()
	}
}

// Start enters the first room at the current clock.
func (s *Sim) Start() {
	s.director.Start(s.Now())
}

// Tick advances the simulation by dt and runs one pass of every system.
func (s *Sim) Tick(dt time.Duration) {
	s.runner.Tick(dt)
}

// Submit queues a director command for the next tick's input phase.
func (s *Sim) Submit(c director.Command) {
	s.director.Submit(c)
}

func (s *Sim) Now() time.Duration           { return s.runner.Clock().Now() }
func (s *Sim) Director() *director.Director { return s.director }
func (s *Sim) World() *world.State          { return s.world }
func (s *Sim) Ledger() *persist.Ledger      { return s.ledger }
func (s *Sim) Store() persist.Store         { return s.store }
func (s *Sim) Tables() *data.Tables         { return s.tables }
func (s *Sim) Generator() *layout.Generator { return s.gen }
func (s *Sim) RNG() *rng.RNG                { return s.rng }
func (s *Sim) Config() *config.Config       { return s.cfg }

// Close flushes progression and releases the store and script engine.
func (s *Sim) Close() error {
	var errs []error
	if err := s.persist.Flush(); err != nil {
		errs = append(errs, err)
	}
	if err := s.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}
	closeScript(s.script)
	return errors.Join(errs...)
}
