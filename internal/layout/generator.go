// Package layout turns a room index and difficulty into walls and spawn records.
//
// Every choice draws from the shared run RNG, so the same RNG state and
// request always produce the same layout.
package layout

import (
	"math"

	"github.com/Nikamura/archerio-clone-sub003/internal/data"
	"github.com/Nikamura/archerio-clone-sub003/internal/difficulty"
	"github.com/Nikamura/archerio-clone-sub003/internal/geom"
	"github.com/Nikamura/archerio-clone-sub003/internal/rng"
	"go.uber.org/zap"
)

const (
	placementAttempts = 12
	edgeMargin        = 24.0 // px kept clear along the arena border
	wallClearance     = 10.0 // px kept clear around walls
)

// SpawnRecord is consumed exactly once by the wave scheduler.
type SpawnRecord struct {
	Position geom.Vec2 `yaml:"position"`
	Kind     data.Kind `yaml:"kind"`
}

// Region is a weighted spawn circle in arena pixels.
type Region struct {
	Area   geom.Circle `yaml:"area"`
	Weight float64     `yaml:"weight"`
}

// Layout is one room's generated content, in arena pixels.
type Layout struct {
	Template     string        `yaml:"template"`
	Category     data.Category `yaml:"category"`
	Walls        []geom.Rect   `yaml:"walls"`
	SpawnRegions []Region      `yaml:"spawn_regions"`
	SpawnRecords []SpawnRecord `yaml:"spawn_records"`
	Door         geom.Rect     `yaml:"door"`
	PlayerSafe   geom.Circle   `yaml:"player_safe"`
	Boss         bool          `yaml:"boss"`
	MiniBoss     bool          `yaml:"mini_boss"`
}

// Request carries everything Generate reads besides the RNG.
type Request struct {
	RoomIndex      int
	TotalRooms     int
	MiniBossRoom   int // 0 = no mini-boss room
	PlayerPos      geom.Vec2
	BaseEnemyCount int
	ExtraPerRoom   int
	Difficulty     difficulty.Multipliers
}

// Override forces a template choice for debugging.
type Override struct {
	Category data.Category
	Index    int
}

// Generator is not safe for concurrent use; it shares the run RNG.
type Generator struct {
	layouts *data.LayoutTable
	enemies *data.EnemyTable
	rng     *rng.RNG
	width   float64
	height  float64
	forced  *Override
	log     *zap.Logger
}

func NewGenerator(layouts *data.LayoutTable, enemies *data.EnemyTable, r *rng.RNG, width, height float64, log *zap.Logger) *Generator {
	return &Generator{
		layouts: layouts,
		enemies: enemies,
		rng:     r,
		width:   width,
		height:  height,
		log:     log,
	}
}

// Force pins the template choice until ClearForce. An out-of-range choice is
// accepted here and falls back to random selection at generation time.
func (g *Generator) Force(category data.Category, index int) {
	g.forced = &Override{Category: category, Index: index}
}

func (g *Generator) ClearForce() { g.forced = nil }

// Forced returns the active override, if any.
func (g *Generator) Forced() (Override, bool) {
	if g.forced == nil {
		return Override{}, false
	}
	return *g.forced, true
}

// IsBossRoom reports whether roomIndex is the chapter's final room.
func IsBossRoom(roomIndex, totalRooms int) bool {
	return roomIndex == totalRooms
}

// IsMiniBossRoom reports whether roomIndex is the configured mini-boss room.
// The final room is always a full boss room instead.
func IsMiniBossRoom(roomIndex, totalRooms, miniBossRoom int) bool {
	return miniBossRoom > 0 && roomIndex == miniBossRoom && !IsBossRoom(roomIndex, totalRooms)
}

// EnemyCount is round(base*scaling) + extra, never negative.
func EnemyCount(base int, scaling float64, extra int) int {
	n := int(math.Round(float64(base)*scaling)) + extra
	if n < 0 {
		return 0
	}
	return n
}

// Generate builds the layout for req.
func (g *Generator) Generate(req Request) *Layout {
	boss := IsBossRoom(req.RoomIndex, req.TotalRooms)
	mini := IsMiniBossRoom(req.RoomIndex, req.TotalRooms, req.MiniBossRoom)

	tpl := g.pickTemplate(boss || mini)
	out := g.materialize(tpl, req.PlayerPos)
	out.Boss = boss
	out.MiniBoss = mini

	if boss || mini {
		out.SpawnRecords = []SpawnRecord{{Position: g.bossPosition(out), Kind: data.KindBoss}}
		return out
	}

	count := EnemyCount(req.BaseEnemyCount, req.Difficulty.RoomScaling, req.ExtraPerRoom)
	roster := g.enemies.Roster(req.RoomIndex)
	if len(roster) == 0 || len(out.SpawnRegions) == 0 {
		if count > 0 {
			g.log.Warn("no roster or regions for room, generating empty room",
				zap.Int("room", req.RoomIndex), zap.String("template", out.Template))
		}
		return out
	}

	weights := make([]float64, len(roster))
	for i, e := range roster {
		weights[i] = e.Weight
	}
	out.SpawnRecords = make([]SpawnRecord, 0, count)
	for i := 0; i < count; i++ {
		kind := roster[g.rng.WeightedSelect(weights)].Kind
		out.SpawnRecords = append(out.SpawnRecords, SpawnRecord{
			Position: g.placeSpawn(out),
			Kind:     kind,
		})
	}
	return out
}

func (g *Generator) pickTemplate(bossRoom bool) *data.LayoutTemplate {
	if g.forced != nil {
		wantBoss := g.forced.Category == data.CategoryBossArena
		if tpl, ok := g.layouts.Get(g.forced.Category, g.forced.Index); ok && wantBoss == bossRoom {
			return tpl
		} else if !ok {
			g.log.Warn("forced layout out of range, using random",
				zap.String("category", string(g.forced.Category)),
				zap.Int("index", g.forced.Index))
		}
	}

	if bossRoom {
		n := g.layouts.Variants(data.CategoryBossArena)
		tpl, _ := g.layouts.Get(data.CategoryBossArena, g.rng.Intn(n))
		return tpl
	}
	cats := g.layouts.Combat()
	if len(cats) == 0 {
		tpl, _ := g.layouts.Get(data.CategoryBossArena, 0)
		return tpl
	}
	c := cats[g.rng.Intn(len(cats))]
	tpl, _ := g.layouts.Get(c, g.rng.Intn(g.layouts.Variants(c)))
	return tpl
}

func (g *Generator) materialize(tpl *data.LayoutTemplate, playerPos geom.Vec2) *Layout {
	out := &Layout{
		Template:     tpl.Name,
		Category:     tpl.Category,
		Walls:        make([]geom.Rect, 0, len(tpl.Walls)),
		SpawnRegions: make([]Region, 0, len(tpl.Regions)),
		Door:         tpl.Door.Scale(g.width, g.height),
		PlayerSafe:   geom.Circle{Center: playerPos, Radius: tpl.PlayerSafe * g.width},
	}
	for _, w := range tpl.Walls {
		out.Walls = append(out.Walls, w.Scale(g.width, g.height))
	}
	for _, r := range tpl.Regions {
		out.SpawnRegions = append(out.SpawnRegions, Region{
			Area: geom.Circle{
				Center: r.Area.Center.Mul(g.width, g.height),
				Radius: r.Area.Radius * g.width,
			},
			Weight: r.Weight,
		})
	}
	return out
}

func (g *Generator) bossPosition(l *Layout) geom.Vec2 {
	if len(l.SpawnRegions) > 0 {
		return l.SpawnRegions[0].Area.Center
	}
	return geom.V(g.width/2, g.height*0.3)
}

// placeSpawn samples a point inside a weighted region that is outside every
// safe zone and wall. After placementAttempts misses it settles on the last
// region's centre so the draw count stays fixed per attempt.
func (g *Generator) placeSpawn(l *Layout) geom.Vec2 {
	weights := make([]float64, len(l.SpawnRegions))
	for i, r := range l.SpawnRegions {
		weights[i] = r.Weight
	}
	var region Region
	for attempt := 0; attempt < placementAttempts; attempt++ {
		region = l.SpawnRegions[g.rng.WeightedSelect(weights)]
		angle := g.rng.Range(0, 2*math.Pi)
		dist := math.Sqrt(g.rng.Next()) * region.Area.Radius
		p := geom.V(
			geom.Clamp(region.Area.Center.X+math.Cos(angle)*dist, edgeMargin, g.width-edgeMargin),
			geom.Clamp(region.Area.Center.Y+math.Sin(angle)*dist, edgeMargin, g.height-edgeMargin),
		)
		if g.placeable(l, p) {
			return p
		}
	}
	return region.Area.Center
}

func (g *Generator) placeable(l *Layout, p geom.Vec2) bool {
	if l.PlayerSafe.Contains(p) || l.Door.Inflate(wallClearance).Contains(p) {
		return false
	}
	for _, w := range l.Walls {
		if w.Inflate(wallClearance).Contains(p) {
			return false
		}
	}
	return true
}
