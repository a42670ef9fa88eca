package director

import (
	"time"

	"github.com/Nikamura/archerio-clone-sub003/internal/core/event"
	"github.com/Nikamura/archerio-clone-sub003/internal/core/handle"
	"github.com/Nikamura/archerio-clone-sub003/internal/data"
	"github.com/Nikamura/archerio-clone-sub003/internal/difficulty"
	"github.com/Nikamura/archerio-clone-sub003/internal/layout"
	"github.com/Nikamura/archerio-clone-sub003/internal/wave"
	"github.com/Nikamura/archerio-clone-sub003/internal/world"
	"go.uber.org/zap"
)

// enterRoom generates the layout for state.RoomIndex, materializes its walls
// and schedules its waves.
func (d *Director) enterRoom(now time.Duration) {
	d.state.Phase = PhaseEntering
	d.world.SetPlayerPosition(d.playerSpawn)

	mult := d.provider.Multipliers(d.context())
	d.layout = d.gen.Generate(layout.Request{
		RoomIndex:      d.state.RoomIndex,
		TotalRooms:     d.state.TotalRooms,
		MiniBossRoom:   d.cfg.MiniBossRoom,
		PlayerPos:      d.playerSpawn,
		BaseEnemyCount: d.cfg.BaseEnemyCount,
		ExtraPerRoom:   d.cfg.ExtraPerRoom,
		Difficulty:     mult,
	})
	d.world.SetWalls(d.layout.Walls)

	d.state.Cleared = false
	d.state.PendingSpawns = len(d.layout.SpawnRecords)
	d.state.BossRef = handle.None
	d.state.BossActive = d.layout.Boss || d.layout.MiniBoss
	d.state.MiniBoss = d.layout.MiniBoss
	d.boss = nil
	if d.state.BossActive {
		d.boss = d.pickBoss()
	}

	d.waves.Schedule(d.layout.SpawnRecords, now, d.onWave, d.onAllFired)
	d.state.Phase = PhaseActive

	d.outbox.Push(event.RoomEntered{RoomIndex: d.state.RoomIndex, EndlessWave: d.presentedWave()})
	d.log.Info("room entered",
		zap.Int("room", d.state.RoomIndex),
		zap.Int("endless_wave", d.state.EndlessWave),
		zap.String("layout", d.layout.Template),
		zap.Int("spawns", d.state.PendingSpawns),
		zap.Bool("boss", d.state.BossActive))
}

func (d *Director) pickBoss() *data.BossTemplate {
	candidates := d.bosses.Pool(d.cfg.Chapter)
	if len(candidates) == 0 {
		d.log.Warn("no boss pool for chapter", zap.Int("chapter", d.cfg.Chapter))
		return nil
	}
	return &candidates[d.rng.Intn(len(candidates))]
}

func (d *Director) onWave(now time.Duration, w *wave.Wave) {
	for i, rec := range w.Records {
		d.spawn(now, rec, w.TopFlags[i])
		d.state.PendingSpawns--
	}
	d.Evaluate(now)
}

func (d *Director) onAllFired(now time.Duration) {
	d.log.Debug("all waves fired", zap.Int("room", d.state.RoomIndex), zap.Duration("now", now))
}

// spawn materializes one record. Multipliers are read fresh for every spawn.
// A dropped spawn still counts as consumed.
func (d *Director) spawn(now time.Duration, rec layout.SpawnRecord, top bool) {
	mult := d.provider.Multipliers(d.context())
	if rec.Kind.IsBoss() {
		d.spawnBoss(now, rec, mult)
		return
	}
	tpl := d.enemies.Get(rec.Kind)
	if tpl == nil {
		d.log.Warn("no template for enemy kind", zap.Stringer("kind", rec.Kind))
		return
	}
	d.world.SpawnEnemy(now, world.EnemySpawn{
		Kind:        rec.Kind,
		Pos:         rec.Position,
		Health:      tpl.Health * mult.EnemyHealth,
		Damage:      tpl.Damage * mult.EnemyDamage,
		Speed:       tpl.Speed * mult.EnemySpeed,
		Size:        tpl.Size,
		Currency:    tpl.Currency,
		BlastRadius: tpl.BlastRadius,
		TopSpawn:    top,
	})
}

func (d *Director) spawnBoss(now time.Duration, rec layout.SpawnRecord, mult difficulty.Multipliers) {
	b := d.boss
	if b == nil {
		return
	}
	health := b.Health * mult.BossHealth
	damage := b.Damage * mult.BossDamage
	size := b.Size
	if d.state.MiniBoss {
		health *= difficulty.MiniBossHealth
		damage *= difficulty.MiniBossDamage
		size *= difficulty.MiniBossSize
	}
	ref, ok := d.world.SpawnEnemy(now, world.EnemySpawn{
		Kind:     data.KindBoss,
		Pos:      rec.Position,
		Health:   health,
		Damage:   damage,
		Speed:    b.Speed * mult.EnemySpeed,
		Size:     size,
		Currency: b.Currency,
		Boss:     true,
		MiniBoss: d.state.MiniBoss,
		BossID:   b.ID,
		BossName: b.Name,
	})
	if !ok {
		return
	}
	d.state.BossRef = ref
	d.outbox.Push(event.BossSpawned{BossID: b.ID, BossName: b.Name})
	d.outbox.Push(event.BossHealth{Current: health, Max: health, Name: b.Name})
	d.log.Info("boss spawned",
		zap.String("boss", b.ID),
		zap.Bool("mini", d.state.MiniBoss),
		zap.Float64("health", health))
}

// Evaluate runs the clear check. It is a no-op unless the room is active.
// A boss room clears when its boss is dead; any remaining hostiles are
// released first so the clear condition holds.
func (d *Director) Evaluate(now time.Duration) {
	if d.state.Phase != PhaseActive || d.state.Cleared || d.state.Transitioning {
		return
	}
	if d.state.PendingSpawns > 0 {
		return
	}
	if d.state.BossActive {
		if d.world.EnemyAlive(d.state.BossRef) {
			return
		}
		d.world.ReleaseHostiles()
	} else if d.world.ActiveHostiles() > 0 {
		return
	}
	d.onCleared(now)
}

func (d *Director) onCleared(now time.Duration) {
	d.state.Cleared = true
	d.state.Phase = PhaseCleared

	d.world.ReleaseHostileProjectiles()
	collected := d.world.CollectPickups()
	d.progress.ReportCurrency(d.state.RoomIndex, collected)
	d.outbox.Push(event.RoomCleared{RoomIndex: d.state.RoomIndex, CollectedCurrency: collected})
	d.log.Info("room cleared",
		zap.Int("room", d.state.RoomIndex),
		zap.Int64("currency", collected))

	if d.progress.AutoAdvance() {
		d.beginTransition(now)
		return
	}
	d.roomTimers.After(now, d.cfg.PortalDelay, d.openPortal)
}

func (d *Director) openPortal(now time.Duration) {
	if d.state.Phase != PhaseCleared || d.layout == nil {
		return
	}
	pos := d.layout.Door.Center()
	d.world.OpenPortal(pos, d.cfg.PortalRadius)
	d.outbox.Push(event.PortalOpened{X: pos.X, Y: pos.Y})
	d.log.Debug("portal opened", zap.Duration("now", now))
}

// beginTransition starts the fade-out; the room advances when it ends.
func (d *Director) beginTransition(now time.Duration) {
	d.state.Transitioning = true
	d.state.Phase = PhaseTransitioning
	d.waves.CancelAll()
	d.roomTimers.CancelAll()
	d.world.ClosePortal()
	d.roomTimers.After(now, d.cfg.FadeOut, d.advance)
}

// advance moves to the next room, wrapping into the next endless wave or
// declaring victory past the last room.
func (d *Director) advance(now time.Duration) {
	d.state.Transitioning = true
	d.cleanup()

	d.state.RoomIndex++
	if d.state.RoomIndex > d.state.TotalRooms {
		if !d.cfg.Endless {
			d.state.RoomIndex = d.state.TotalRooms
			d.state.Transitioning = false
			d.state.Phase = PhaseVictory
			d.outbox.Push(event.Victory{})
			d.log.Info("victory", zap.Int("rooms", d.state.TotalRooms))
			return
		}
		d.state.RoomIndex = 1
		d.state.EndlessWave++
		d.state.DifficultyMultiplier = difficulty.EndlessMultiplier(d.state.EndlessWave)
		d.log.Info("endless wave",
			zap.Int("wave", d.state.EndlessWave),
			zap.Float64("multiplier", d.state.DifficultyMultiplier))
	}
	d.state.Transitioning = false
	d.enterRoom(now)
}

// cleanup cancels every pending room task before wiping the pools, so no
// wave can fire into an entity set that is being cleared.
func (d *Director) cleanup() {
	d.waves.CancelAll()
	d.roomTimers.CancelAll()
	if d.state.BossActive && d.world.EnemyAlive(d.state.BossRef) {
		d.outbox.Push(event.BossHealthHidden{})
	}
	d.world.ClearRoom()

	d.layout = nil
	d.boss = nil
	d.state.Cleared = false
	d.state.PendingSpawns = 0
	d.state.BossRef = handle.None
	d.state.BossActive = false
	d.state.MiniBoss = false
}
