// Package difficulty turns run progress into stat multipliers.
//
// Every multiplier is a product of independent factors (difficulty level,
// chapter, endless wave, room progression); nothing is added on top, so the
// final value of any stat can be predicted by multiplying the factors out.
package difficulty

import (
	"fmt"
	"math"

	"github.com/Nikamura/archerio-clone-sub003/internal/config"
)

// Mini-boss discount relative to the chosen boss's scaled stats.
const (
	MiniBossHealth = 0.5
	MiniBossDamage = 0.6
	MiniBossSize   = 0.85
)

// EndlessBase is the per-wave growth of the endless multiplier.
const EndlessBase = 1.5

// Level names a difficulty preset.
type Level string

const (
	LevelEasy   Level = "easy"
	LevelNormal Level = "normal"
	LevelHard   Level = "hard"
	LevelInsane Level = "insane"
)

// Multipliers scale base stats at spawn time.
type Multipliers struct {
	RoomScaling float64 // enemy count factor
	EnemyHealth float64
	EnemyDamage float64
	EnemySpeed  float64
	BossHealth  float64
	BossDamage  float64
}

// Identity leaves every stat unchanged.
func Identity() Multipliers {
	return Multipliers{1, 1, 1, 1, 1, 1}
}

// Mul multiplies component-wise.
func (m Multipliers) Mul(o Multipliers) Multipliers {
	return Multipliers{
		RoomScaling: m.RoomScaling * o.RoomScaling,
		EnemyHealth: m.EnemyHealth * o.EnemyHealth,
		EnemyDamage: m.EnemyDamage * o.EnemyDamage,
		EnemySpeed:  m.EnemySpeed * o.EnemySpeed,
		BossHealth:  m.BossHealth * o.BossHealth,
		BossDamage:  m.BossDamage * o.BossDamage,
	}
}

// Context is what a provider may look at. EndlessWave is 1 for the first pass.
type Context struct {
	Level       Level
	Chapter     int
	RoomIndex   int
	TotalRooms  int
	EndlessWave int
}

// Provider is queried once per spawn; implementations must be pure functions
// of ctx.
type Provider interface {
	Multipliers(ctx Context) Multipliers
}

// EndlessMultiplier is 1.5^(wave-1); waves below 1 count as 1.
func EndlessMultiplier(endlessWave int) float64 {
	if endlessWave < 1 {
		return 1
	}
	return math.Pow(EndlessBase, float64(endlessWave-1))
}

var presets = map[Level]Multipliers{
	LevelEasy:   {RoomScaling: 0.8, EnemyHealth: 0.7, EnemyDamage: 0.7, EnemySpeed: 0.9, BossHealth: 0.75, BossDamage: 0.75},
	LevelNormal: Identity(),
	LevelHard:   {RoomScaling: 1.25, EnemyHealth: 1.3, EnemyDamage: 1.25, EnemySpeed: 1.1, BossHealth: 1.4, BossDamage: 1.3},
	LevelInsane: {RoomScaling: 1.5, EnemyHealth: 1.7, EnemyDamage: 1.5, EnemySpeed: 1.2, BossHealth: 1.9, BossDamage: 1.6},
}

// Table is the built-in provider.
type Table struct {
	roomStep    float64
	chapterStep float64
}

// NewTable validates the configured level and builds the table provider.
func NewTable(cfg config.DifficultyConfig) (*Table, error) {
	if _, ok := presets[Level(cfg.Level)]; !ok {
		return nil, fmt.Errorf("unknown difficulty level %q", cfg.Level)
	}
	return &Table{roomStep: cfg.RoomStep, chapterStep: cfg.ChapterStep}, nil
}

// Preset returns the level's base multipliers; unknown levels are normal.
func Preset(l Level) Multipliers {
	if m, ok := presets[l]; ok {
		return m
	}
	return Identity()
}

func (t *Table) Multipliers(ctx Context) Multipliers {
	chapter := t.ChapterFactor(ctx.Chapter)
	room := t.RoomFactor(ctx.RoomIndex)
	endless := EndlessMultiplier(ctx.EndlessWave)

	progress := Multipliers{
		RoomScaling: 1,
		EnemyHealth: chapter * room * endless,
		EnemyDamage: chapter * room * endless,
		EnemySpeed:  1,
		BossHealth:  chapter * endless,
		BossDamage:  chapter * endless,
	}
	return Preset(ctx.Level).Mul(progress)
}

// ChapterFactor is 1 + (chapter-1)*chapterStep.
func (t *Table) ChapterFactor(chapter int) float64 {
	if chapter < 1 {
		chapter = 1
	}
	return 1 + float64(chapter-1)*t.chapterStep
}

// RoomFactor is 1 + (room-1)*roomStep.
func (t *Table) RoomFactor(room int) float64 {
	if room < 1 {
		room = 1
	}
	return 1 + float64(room-1)*t.roomStep
}
