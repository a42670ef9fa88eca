package data

import (
	"fmt"
	"os"

	"github.com/Nikamura/archerio-clone-sub003/internal/geom"
	"gopkg.in/yaml.v3"
)

// Category groups layout templates. The set is closed.
type Category string

const (
	CategoryOpenArena   Category = "open_arena"
	CategoryCorridor    Category = "corridor"
	CategorySplitArena  Category = "split_arena"
	CategoryCornerRooms Category = "corner_rooms"
	CategoryMaze        Category = "maze"
	CategoryGauntlet    Category = "gauntlet"
	CategoryAmbush      Category = "ambush"
	CategoryBossArena   Category = "boss_arena"
)

// Categories lists every category in selection order.
var Categories = []Category{
	CategoryOpenArena,
	CategoryCorridor,
	CategorySplitArena,
	CategoryCornerRooms,
	CategoryMaze,
	CategoryGauntlet,
	CategoryAmbush,
	CategoryBossArena,
}

func (c Category) Valid() bool {
	for _, k := range Categories {
		if k == c {
			return true
		}
	}
	return false
}

// SpawnRegion is a weighted circle in normalized (0-1) arena space.
type SpawnRegion struct {
	Area   geom.Circle `yaml:"area"`
	Weight float64     `yaml:"weight"`
}

// LayoutTemplate describes one arena shape in normalized coordinates.
type LayoutTemplate struct {
	Name     string        `yaml:"name"`
	Category Category      `yaml:"category"`
	Walls    []geom.Rect   `yaml:"walls"`
	Regions  []SpawnRegion `yaml:"regions"`

	// Safe zones. PlayerSafe is a radius around the player's spawn; Door is
	// the exit strip at the top where the portal opens.
	PlayerSafe float64   `yaml:"player_safe"`
	Door       geom.Rect `yaml:"door"`
}

type layoutListFile struct {
	Layouts []LayoutTemplate `yaml:"layouts"`
}

// LayoutTable holds templates grouped by category, each group in file order.
type LayoutTable struct {
	byCategory map[Category][]LayoutTemplate
	count      int
}

// LoadLayoutTable loads layout templates from a YAML file.
func LoadLayoutTable(path string) (*LayoutTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout_list: %w", err)
	}
	return ParseLayoutTable(raw)
}

func ParseLayoutTable(raw []byte) (*LayoutTable, error) {
	var f layoutListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse layout_list: %w", err)
	}
	t := &LayoutTable{byCategory: make(map[Category][]LayoutTemplate)}
	for _, l := range f.Layouts {
		if !l.Category.Valid() {
			return nil, fmt.Errorf("parse layout_list: %s: unknown category %q", l.Name, l.Category)
		}
		if len(l.Regions) == 0 && l.Category != CategoryBossArena {
			return nil, fmt.Errorf("parse layout_list: %s: no spawn regions", l.Name)
		}
		t.byCategory[l.Category] = append(t.byCategory[l.Category], l)
		t.count++
	}
	if len(t.byCategory[CategoryBossArena]) == 0 {
		return nil, fmt.Errorf("parse layout_list: no boss_arena template")
	}
	return t, nil
}

// Get returns the template at index within category.
func (t *LayoutTable) Get(c Category, index int) (*LayoutTemplate, bool) {
	list := t.byCategory[c]
	if index < 0 || index >= len(list) {
		return nil, false
	}
	return &list[index], true
}

// Variants returns how many templates category c has.
func (t *LayoutTable) Variants(c Category) int { return len(t.byCategory[c]) }

// Combat returns the non-boss categories that have at least one template,
// in Categories order.
func (t *LayoutTable) Combat() []Category {
	out := make([]Category, 0, len(Categories))
	for _, c := range Categories {
		if c != CategoryBossArena && len(t.byCategory[c]) > 0 {
			out = append(out, c)
		}
	}
	return out
}

func (t *LayoutTable) Count() int { return t.count }
