package director

import (
	"math"
	"testing"
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
	"go.uber.org/zap/zaptest"
)

type fakeProgress struct {
	auto     bool
	reports  []int
	currency int64
}

func (f *fakeProgress) ReportCurrency(room int, amount int64) {
	f.reports = append(f.reports, room)
	f.currency += amount
}

func (f *fakeProgress) AutoAdvance() bool { return f.auto }

type harness struct {
	t        *testing.T
	d        *Director
	q        *timer.Queue
	world    *world.State
	outbox   *event.Outbox
	progress *fakeProgress
	rec      *event.Recorder
	now      time.Duration
}

func newHarness(t *testing.T, mutate func(*config.Config)) *harness {
	t.Helper()
	cfg := config.Defaults()
	cfg.Director.TotalRooms = 3
	cfg.Director.MiniBossRoom = 0
	if mutate != nil {
		mutate(cfg)
	}
	log := zaptest.NewLogger(t)
	tables, err := data.Defaults()
	if err != nil {
		t.Fatal(err)
	}
	table, err := difficulty.NewTable(cfg.Difficulty)
	if err != nil {
		t.Fatal(err)
	}

	r := rng.New(cfg.Arena.Seed)
	q := timer.NewQueue()
	out := event.NewOutbox()
	w := world.NewState(cfg, out, log)
	spawn := geom.V(cfg.Arena.PlayerSpawn[0]*cfg.Arena.Width, cfg.Arena.PlayerSpawn[1]*cfg.Arena.Height)
	progress := &fakeProgress{}

	d := New(Deps{
		Config:      cfg.Director,
		Level:       difficulty.Level(cfg.Difficulty.Level),
		PlayerSpawn: spawn,
		World:       w,
		Generator:   layout.NewGenerator(tables.Layouts, tables.Enemies, r, cfg.Arena.Width, cfg.Arena.Height, log),
		Waves:       wave.NewScheduler(q, r, cfg.Waves, log),
		Timers:      q,
		RNG:         r,
		Enemies:     tables.Enemies,
		Bosses:      tables.Bosses,
		Provider:    table,
		Progress:    progress,
		Outbox:      out,
		Log:         log,
	})
	return &harness{t: t, d: d, q: q, world: w, outbox: out, progress: progress, rec: &event.Recorder{}}
}

// tick mirrors the sim's phase order: commands, timers, reap, clear check,
// output.
func (h *harness) tick(dt time.Duration) {
	h.now += dt
	h.d.ProcessCommands(h.now)
	h.q.Advance(h.now)
	h.world.Reap()
	h.d.Evaluate(h.now)
	h.outbox.Drain(func(n event.Notification) { event.Deliver(h.rec, n) })
}

func (h *harness) killAll() {
	h.world.Enemies.Each(func(ref handle.ID, _ *world.Enemy) {
		h.world.KillEnemy(h.now, ref)
	})
}

func TestEndlessWrapAfterLastRoom(t *testing.T) {
	h := newHarness(t, func(c *config.Config) { c.Director.Endless = true })
	h.d.Start(0)
	for i := 0; i < 3; i++ {
		if !h.d.AdvanceRoom(h.now) {
			t.Fatalf("AdvanceRoom %d ignored", i+1)
		}
	}
	st := h.d.State()
	if st.RoomIndex != 1 || st.EndlessWave != 2 || st.DifficultyMultiplier != 1.5 {
		t.Fatalf("state = %+v, want room 1, wave 2, multiplier 1.5", st)
	}
}

func TestEndlessMultiplierFormula(t *testing.T) {
	h := newHarness(t, func(c *config.Config) {
		c.Director.Endless = true
		c.Director.TotalRooms = 1
	})
	h.d.Start(0)
	for want := 2; want <= 50; want++ {
		h.d.AdvanceRoom(h.now)
		st := h.d.State()
		if st.EndlessWave != want {
			t.Fatalf("EndlessWave = %d, want %d", st.EndlessWave, want)
		}
		if exp := math.Pow(1.5, float64(want-1)); st.DifficultyMultiplier != exp {
			t.Fatalf("wave %d multiplier = %v, want %v", want, st.DifficultyMultiplier, exp)
		}
	}
}

func TestRoomIndexMonotonicThenVictory(t *testing.T) {
	h := newHarness(t, nil)
	h.d.Start(0)
	for want := 2; want <= 3; want++ {
		h.d.AdvanceRoom(h.now)
		if got := h.d.State().RoomIndex; got != want {
			t.Fatalf("RoomIndex = %d, want %d", got, want)
		}
	}
	h.d.AdvanceRoom(h.now)
	h.tick(0)
	st := h.d.State()
	if st.Phase != PhaseVictory || st.RoomIndex != 3 {
		t.Fatalf("state after last room = %+v", st)
	}
	if h.rec.Count(event.Victory{}) != 1 {
		t.Fatal("no victory notification")
	}
	if h.d.AdvanceRoom(h.now) || h.d.DebugSkip(h.now) {
		t.Fatal("actions accepted after victory")
	}
}

func TestZeroEnemyRoomClearsNextTick(t *testing.T) {
	h := newHarness(t, func(c *config.Config) { c.Director.BaseEnemyCount = 0 })
	h.d.Start(0)
	if st := h.d.State(); st.PendingSpawns != 0 || st.Cleared {
		t.Fatalf("state on entry = %+v", st)
	}
	h.tick(16 * time.Millisecond)
	if st := h.d.State(); !st.Cleared || st.Phase != PhaseCleared {
		t.Fatalf("empty room not cleared after one tick: %+v", st)
	}
	if len(h.progress.reports) != 1 || h.progress.reports[0] != 1 {
		t.Fatalf("progress reports = %v", h.progress.reports)
	}
}

func TestClearFlowThroughPortal(t *testing.T) {
	h := newHarness(t, nil)
	h.d.Start(0)

	h.tick(0)
	st := h.d.State()
	if st.PendingSpawns != 2 || h.world.ActiveHostiles() != 2 {
		t.Fatalf("after first wave: pending=%d active=%d", st.PendingSpawns, h.world.ActiveHostiles())
	}

	// killing the first wave must not clear while a wave is pending
	h.killAll()
	h.tick(16 * time.Millisecond)
	if h.d.State().Cleared {
		t.Fatal("cleared with spawns pending")
	}

	h.tick(1500 * time.Millisecond)
	if h.d.State().PendingSpawns != 0 || h.world.ActiveHostiles() != 2 {
		t.Fatalf("second wave: pending=%d active=%d", h.d.State().PendingSpawns, h.world.ActiveHostiles())
	}
	h.killAll()
	h.tick(16 * time.Millisecond)

	st = h.d.State()
	if !st.Cleared || st.Phase != PhaseCleared {
		t.Fatalf("room not cleared: %+v", st)
	}
	if h.progress.currency <= 0 {
		t.Fatal("no currency reported")
	}
	if h.world.Pickups.ActiveCount() != 0 {
		t.Fatal("pickups not collected")
	}

	if h.world.Portal().Open {
		t.Fatal("portal opened before its delay")
	}
	h.tick(500 * time.Millisecond)
	if !h.world.Portal().Open || h.rec.Count(event.PortalOpened{}) != 1 {
		t.Fatal("portal not opened after delay")
	}

	h.world.SetPlayerPosition(h.world.Portal().Pos)
	if !h.d.EnterPortal(h.now) {
		t.Fatal("EnterPortal rejected")
	}
	if h.d.EnterPortal(h.now) || h.d.AdvanceRoom(h.now) || h.d.DebugSkip(h.now) {
		t.Fatal("re-entrant action accepted while transitioning")
	}
	h.tick(300 * time.Millisecond)
	st = h.d.State()
	if st.RoomIndex != 2 || st.Transitioning || st.Phase != PhaseActive {
		t.Fatalf("after fade: %+v", st)
	}
	if h.rec.Count(event.RoomEntered{}) != 2 || h.rec.Count(event.RoomCleared{}) != 1 {
		t.Fatalf("notifications = %+v", h.rec.Notes)
	}
}

func TestEnterPortalBeforeClearIgnored(t *testing.T) {
	h := newHarness(t, nil)
	h.d.Start(0)
	h.tick(0)
	if h.d.EnterPortal(h.now) {
		t.Fatal("EnterPortal accepted in an active room")
	}
	if h.d.State().RoomIndex != 1 {
		t.Fatal("room advanced")
	}
}

func TestAutoAdvanceSkipsPortal(t *testing.T) {
	h := newHarness(t, func(c *config.Config) { c.Director.BaseEnemyCount = 0 })
	h.progress.auto = true
	h.d.Start(0)
	h.tick(16 * time.Millisecond)
	if !h.d.State().Transitioning {
		t.Fatal("auto-advance did not start the transition")
	}
	h.tick(300 * time.Millisecond)
	if h.d.State().RoomIndex != 2 {
		t.Fatalf("RoomIndex = %d, want 2", h.d.State().RoomIndex)
	}
	if h.rec.Count(event.PortalOpened{}) != 0 {
		t.Fatal("portal opened under auto-advance")
	}
}

func TestBossRoomClearsOnBossDeath(t *testing.T) {
	h := newHarness(t, func(c *config.Config) { c.Director.TotalRooms = 2 })
	h.d.Start(0)
	h.d.AdvanceRoom(h.now)
	h.tick(0)

	st := h.d.State()
	if !st.BossActive || st.BossRef.IsZero() {
		t.Fatalf("boss room state = %+v", st)
	}
	boss := h.d.Boss()
	if boss == nil {
		t.Fatal("no boss chosen")
	}
	e, ok := h.world.Enemies.Get(st.BossRef)
	if !ok || !e.Boss || e.MiniBoss {
		t.Fatalf("boss entity = %+v", e)
	}
	if e.MaxHP != boss.Health {
		t.Fatalf("boss health = %v, want %v", e.MaxHP, boss.Health)
	}
	if h.rec.Count(event.BossSpawned{}) != 1 || h.rec.Count(event.BossHealth{}) != 1 {
		t.Fatalf("notifications = %+v", h.rec.Notes)
	}

	h.world.KillEnemy(h.now, st.BossRef)
	h.tick(16 * time.Millisecond)
	if !h.d.State().Cleared {
		t.Fatal("boss room not cleared after boss death")
	}
	if h.rec.Count(event.BossHealthHidden{}) != 1 {
		t.Fatal("boss bar not hidden")
	}
}

func TestMiniBossDiscount(t *testing.T) {
	h := newHarness(t, func(c *config.Config) {
		c.Director.TotalRooms = 10
		c.Director.MiniBossRoom = 2
	})
	h.d.Start(0)
	h.d.AdvanceRoom(h.now)
	h.tick(0)

	st := h.d.State()
	if !st.MiniBoss {
		t.Fatalf("room 2 not a mini-boss room: %+v", st)
	}
	boss := h.d.Boss()
	e, ok := h.world.Enemies.Get(st.BossRef)
	if !ok || !e.MiniBoss {
		t.Fatal("mini-boss not spawned")
	}
	if e.MaxHP != boss.Health*difficulty.MiniBossHealth {
		t.Errorf("health = %v, want %v", e.MaxHP, boss.Health*difficulty.MiniBossHealth)
	}
	if e.Damage != boss.Damage*difficulty.MiniBossDamage {
		t.Errorf("damage = %v, want %v", e.Damage, boss.Damage*difficulty.MiniBossDamage)
	}
	if e.Size != boss.Size*difficulty.MiniBossSize {
		t.Errorf("size = %v, want %v", e.Size, boss.Size*difficulty.MiniBossSize)
	}
}

func TestDebugSkipCancelsPendingWaves(t *testing.T) {
	h := newHarness(t, nil)
	h.d.Start(0)
	h.tick(0)
	if !h.d.DebugSkip(h.now) {
		t.Fatal("DebugSkip rejected")
	}
	// the second wave would have fired here
	h.tick(300 * time.Millisecond)
	st := h.d.State()
	if st.RoomIndex != 2 {
		t.Fatalf("RoomIndex = %d, want 2", st.RoomIndex)
	}
	// only room 2's first wave is alive
	if n := h.world.ActiveHostiles(); n != 2 {
		t.Fatalf("active hostiles = %d, want 2", n)
	}
	h.tick(1200 * time.Millisecond)
	if n := h.world.ActiveHostiles(); n != 2 {
		t.Fatalf("room 1 wave leaked into room 2: %d hostiles", n)
	}
}

func TestResetLevelPreservesProgression(t *testing.T) {
	h := newHarness(t, func(c *config.Config) {
		c.Director.Endless = true
		c.Director.BaseEnemyCount = 0
	})
	h.d.Start(0)
	h.tick(16 * time.Millisecond)
	for i := 0; i < 4; i++ {
		h.d.AdvanceRoom(h.now)
	}
	before := len(h.progress.reports)

	h.d.Submit(ResetLevel{})
	h.tick(0)
	st := h.d.State()
	if st.RoomIndex != 1 || st.EndlessWave != 1 || st.DifficultyMultiplier != 1 {
		t.Fatalf("after reset: %+v", st)
	}
	if len(h.progress.reports) < before {
		t.Fatal("reset touched progression")
	}
}

func TestCommandsForceLayout(t *testing.T) {
	h := newHarness(t, nil)
	h.d.Start(0)
	h.d.Submit(ForceLayout{Category: data.CategoryCorridor, Index: 0})
	h.d.Submit(AdvanceRoom{})
	h.tick(0)
	if got := h.d.Layout().Template; got != "corridor_vertical" {
		t.Fatalf("template = %s, want corridor_vertical", got)
	}
	h.d.Submit(ClearForcedLayout{})
	h.tick(0)
	if _, forced := h.d.gen.Forced(); forced {
		t.Fatal("override survived ClearForcedLayout")
	}
}

func TestSameSeedSameRun(t *testing.T) {
	run := func() []string {
		h := newHarness(t, nil)
		h.d.Start(0)
		var names []string
		for i := 0; i < 3; i++ {
			names = append(names, h.d.Layout().Template)
			h.d.AdvanceRoom(h.now)
		}
		return names
	}
	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("room %d: %s vs %s", i+1, a[i], b[i])
		}
	}
}
