package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EnemyTemplate holds base stats for one regular enemy kind.
type EnemyTemplate struct {
	Kind     Kind    `yaml:"kind"`
	Health   float64 `yaml:"health"`
	Damage   float64 `yaml:"damage"`
	Speed    float64 `yaml:"speed"` // px per second
	Size     float64 `yaml:"size"`  // collision radius, px
	Weight   float64 `yaml:"weight"`
	MinRoom  int     `yaml:"min_room"`
	Currency int64   `yaml:"currency"` // value of the pickup dropped on death

	// bomber only
	BlastRadius float64 `yaml:"blast_radius"`
}

type enemyListFile struct {
	Enemies []EnemyTemplate `yaml:"enemies"`
}

// EnemyTable holds every regular enemy template, in file order.
type EnemyTable struct {
	list   []EnemyTemplate
	byKind map[Kind]*EnemyTemplate
}

// LoadEnemyTable loads enemy templates from a YAML file.
func LoadEnemyTable(path string) (*EnemyTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read enemy_list: %w", err)
	}
	return ParseEnemyTable(raw)
}

func ParseEnemyTable(raw []byte) (*EnemyTable, error) {
	var f enemyListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse enemy_list: %w", err)
	}
	t := &EnemyTable{
		list:   f.Enemies,
		byKind: make(map[Kind]*EnemyTemplate, len(f.Enemies)),
	}
	for i := range t.list {
		e := &t.list[i]
		if e.Kind.IsBoss() {
			return nil, fmt.Errorf("parse enemy_list: boss kind belongs in the boss list")
		}
		if _, dup := t.byKind[e.Kind]; dup {
			return nil, fmt.Errorf("parse enemy_list: duplicate kind %s", e.Kind)
		}
		t.byKind[e.Kind] = e
	}
	return t, nil
}

// Get returns the template for k, or nil if none is loaded.
func (t *EnemyTable) Get(k Kind) *EnemyTemplate {
	return t.byKind[k]
}

// Roster returns the templates unlocked at roomIndex, in file order.
func (t *EnemyTable) Roster(roomIndex int) []*EnemyTemplate {
	out := make([]*EnemyTemplate, 0, len(t.list))
	for i := range t.list {
		if t.list[i].MinRoom <= roomIndex && t.list[i].Weight > 0 {
			out = append(out, &t.list[i])
		}
	}
	return out
}

func (t *EnemyTable) Count() int { return len(t.list) }
