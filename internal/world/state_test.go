package world

import (
	"testing"
	"time"

	"github.com/Nikamura/archerio-clone-sub003/internal/config"
	"github.com/Nikamura/archerio-clone-sub003/internal/core/event"
	"github.com/Nikamura/archerio-clone-sub003/internal/data"
	"github.com/Nikamura/archerio-clone-sub003/internal/geom"
	"go.uber.org/zap/zaptest"
)

func newTestState(t *testing.T) (*State, *event.Outbox) {
	t.Helper()
	cfg := config.Defaults()
	cfg.Pools.Enemies = 4
	cfg.Pools.Pickups = 4
	cfg.Pools.PlayerProjectiles = 8
	cfg.Pools.HostileProjectiles = 8
	out := event.NewOutbox()
	return NewState(cfg, out, zaptest.NewLogger(t)), out
}

func drain(out *event.Outbox) []event.Notification {
	var got []event.Notification
	out.Drain(func(n event.Notification) { got = append(got, n) })
	return got
}

func TestSpawnKillReap(t *testing.T) {
	s, out := newTestState(t)
	ref, ok := s.SpawnEnemy(0, EnemySpawn{Kind: data.KindBat, Pos: geom.V(100, 200), Health: 30, Currency: 2})
	if !ok {
		t.Fatal("spawn dropped")
	}
	if s.ActiveHostiles() != 1 || !s.EnemyAlive(ref) {
		t.Fatal("spawned enemy not counted")
	}

	if s.DamageEnemy(time.Second, ref, 10) {
		t.Fatal("10 damage killed a 30 hp bat")
	}
	if !s.DamageEnemy(time.Second, ref, 25) {
		t.Fatal("lethal damage did not kill")
	}
	if s.DamageEnemy(time.Second, ref, 25) {
		t.Fatal("dead enemy killed twice")
	}
	if s.ActiveHostiles() != 0 {
		t.Fatalf("ActiveHostiles = %d after kill", s.ActiveHostiles())
	}
	if s.Enemies.ActiveCount() != 1 {
		t.Fatal("enemy released before reap")
	}
	if n := s.Reap(); n != 1 {
		t.Fatalf("Reap = %d, want 1", n)
	}
	if s.Enemies.ActiveCount() != 0 || s.EnemyAlive(ref) {
		t.Fatal("enemy still active after reap")
	}
	if s.Pickups.ActiveCount() != 1 {
		t.Fatal("no currency pickup dropped")
	}
	if got := s.CollectPickups(); got != 2 {
		t.Fatalf("CollectPickups = %d, want 2", got)
	}
	if s.Pickups.ActiveCount() != 0 {
		t.Fatal("pickups left after collection")
	}
	if notes := drain(out); len(notes) != 0 {
		t.Fatalf("bat produced notifications: %+v", notes)
	}
}

func TestBomberAndBossNotifications(t *testing.T) {
	s, out := newTestState(t)
	bomber, _ := s.SpawnEnemy(0, EnemySpawn{Kind: data.KindBomber, Pos: geom.V(50, 60), Health: 1, Damage: 25, BlastRadius: 90})
	boss, _ := s.SpawnEnemy(0, EnemySpawn{Kind: data.KindBoss, Pos: geom.V(360, 300), Health: 100, Boss: true, BossName: "Stone Golem"})

	s.KillEnemy(0, bomber)
	s.DamageEnemy(0, boss, 40)
	s.DamageEnemy(0, boss, 100)

	notes := drain(out)
	want := []event.Notification{
		event.BombExplosion{X: 50, Y: 60, Radius: 90, Damage: 25},
		event.BossHealth{Current: 60, Max: 100, Name: "Stone Golem"},
		event.BossHealth{Current: 0, Max: 100, Name: "Stone Golem"},
		event.BossHealthHidden{},
	}
	if len(notes) != len(want) {
		t.Fatalf("got %d notifications %+v, want %d", len(notes), notes, len(want))
	}
	for i := range want {
		if notes[i] != want[i] {
			t.Errorf("notification %d = %#v, want %#v", i, notes[i], want[i])
		}
	}
}

func TestTopSpawnWalksInAndEnablesCollisionOnce(t *testing.T) {
	s, _ := newTestState(t)
	ref, _ := s.SpawnEnemy(0, EnemySpawn{Kind: data.KindBat, Pos: geom.V(200, 100), Health: 10, Speed: 5000, Size: 10, TopSpawn: true})
	e, _ := s.Enemies.Get(ref)
	if e.Pos.Y >= 0 || e.BoundsCollision {
		t.Fatalf("top spawn starts at %+v collision=%v", e.Pos, e.BoundsCollision)
	}
	if n := s.EnableVisibleCollisions(); n != 0 {
		t.Fatal("collision enabled while off-screen")
	}

	s.Step(100*time.Millisecond, 100*time.Millisecond)
	if e.Walking {
		t.Fatalf("still walking at %+v", e.Pos)
	}
	if e.Pos != geom.V(200, 100) {
		t.Fatalf("arrived at %+v", e.Pos)
	}
	if n := s.EnableVisibleCollisions(); n != 1 {
		t.Fatalf("EnableVisibleCollisions = %d, want 1", n)
	}
	if n := s.EnableVisibleCollisions(); n != 0 {
		t.Fatalf("second poll re-enabled %d", n)
	}
}

func TestProjectilesExpireAndHit(t *testing.T) {
	s, _ := newTestState(t)
	target, _ := s.SpawnEnemy(0, EnemySpawn{Kind: data.KindSlime, Pos: geom.V(100, 100), Health: 5, Size: 20})

	if _, ok := s.FirePlayerProjectile(0, geom.V(100, 150), geom.V(0, -500), 10); !ok {
		t.Fatal("fire dropped")
	}
	if _, ok := s.FirePlayerProjectile(0, geom.V(600, 1000), geom.V(0, 0), 10); !ok {
		t.Fatal("fire dropped")
	}

	s.Step(100*time.Millisecond, 100*time.Millisecond)
	if s.EnemyAlive(target) {
		t.Fatal("projectile did not hit")
	}
	if s.PlayerProjectiles.ActiveCount() != 1 {
		t.Fatalf("active projectiles = %d, want 1", s.PlayerProjectiles.ActiveCount())
	}

	s.Step(4*time.Second, 0)
	if s.PlayerProjectiles.ActiveCount() != 0 {
		t.Fatal("projectile outlived its ttl")
	}
}

func TestRangedEnemyFiresAtPlayer(t *testing.T) {
	s, _ := newTestState(t)
	s.SetPlayerPosition(geom.V(100, 400))
	s.SpawnEnemy(0, EnemySpawn{Kind: data.KindTurret, Pos: geom.V(100, 100), Health: 50, Damage: 7})

	s.Step(time.Second, time.Second)
	if s.HostileProjectiles.ActiveCount() != 0 {
		t.Fatal("fired before the interval")
	}
	s.Step(2*time.Second, 16*time.Millisecond)
	if s.HostileProjectiles.ActiveCount() != 1 {
		t.Fatalf("hostile projectiles = %d, want 1", s.HostileProjectiles.ActiveCount())
	}
	// the rest of the 300 px at 320 px/s
	s.Step(2*time.Second+950*time.Millisecond, 934*time.Millisecond)
	if s.PlayerHits() != 1 {
		t.Fatalf("PlayerHits = %d, want 1", s.PlayerHits())
	}
	if n := s.ReleaseHostileProjectiles(); n != 0 {
		t.Fatalf("released %d after hit", n)
	}
}

func TestClearRoomReleasesEverything(t *testing.T) {
	s, _ := newTestState(t)
	s.SetWalls([]geom.Rect{{X: 0, Y: 0, W: 10, H: 10}})
	s.OpenPortal(geom.V(360, 40), 48)
	s.SpawnEnemy(0, EnemySpawn{Kind: data.KindBat, Health: 1})
	ref, _ := s.SpawnEnemy(0, EnemySpawn{Kind: data.KindBat, Health: 1})
	s.KillEnemy(0, ref)
	s.FireHostileProjectile(0, geom.V(1, 1), geom.V(0, 0), 1)
	s.FirePlayerProjectile(0, geom.V(1, 1), geom.V(0, 0), 1)
	s.DropPickup(0, geom.V(5, 5), 3)

	if n := s.ClearRoom(); n != 5 {
		t.Fatalf("ClearRoom released %d, want 5", n)
	}
	for name, st := range s.PoolStats() {
		if st.Active != 0 {
			t.Errorf("pool %s has %d active after cleanup", name, st.Active)
		}
	}
	if len(s.Walls()) != 0 || s.Portal().Open {
		t.Fatal("walls or portal survived cleanup")
	}
	if n := s.Reap(); n != 0 {
		t.Fatalf("Reap after cleanup = %d", n)
	}
}

func TestPlayerAtPortal(t *testing.T) {
	s, _ := newTestState(t)
	s.SetPlayerPosition(geom.V(360, 60))
	if s.PlayerAtPortal() {
		t.Fatal("closed portal reported contact")
	}
	s.OpenPortal(geom.V(360, 40), 48)
	if !s.PlayerAtPortal() {
		t.Fatal("player inside radius not at portal")
	}
	s.SetPlayerPosition(geom.V(360, 400))
	if s.PlayerAtPortal() {
		t.Fatal("distant player at portal")
	}
}
