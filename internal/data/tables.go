package data

import (
	"embed"
	"fmt"
	"path/filepath"
)

//go:embed defaults/*.yaml
var defaults embed.FS

// Tables bundles every static table the core reads.
type Tables struct {
	Enemies *EnemyTable
	Bosses  *BossTable
	Layouts *LayoutTable
}

// LoadTables reads enemy_list.yaml, boss_list.yaml and layout_list.yaml from dir.
func LoadTables(dir string) (*Tables, error) {
	enemies, err := LoadEnemyTable(filepath.Join(dir, "enemy_list.yaml"))
	if err != nil {
		return nil, err
	}
	bosses, err := LoadBossTable(filepath.Join(dir, "boss_list.yaml"))
	if err != nil {
		return nil, err
	}
	layouts, err := LoadLayoutTable(filepath.Join(dir, "layout_list.yaml"))
	if err != nil {
		return nil, err
	}
	return &Tables{Enemies: enemies, Bosses: bosses, Layouts: layouts}, nil
}

// Defaults returns the tables compiled into the binary.
func Defaults() (*Tables, error) {
	read := func(name string) ([]byte, error) {
		raw, err := defaults.ReadFile("defaults/" + name)
		if err != nil {
			return nil, fmt.Errorf("read embedded %s: %w", name, err)
		}
		return raw, nil
	}

	raw, err := read("enemy_list.yaml")
	if err != nil {
		return nil, err
	}
	enemies, err := ParseEnemyTable(raw)
	if err != nil {
		return nil, err
	}

	if raw, err = read("boss_list.yaml"); err != nil {
		return nil, err
	}
	bosses, err := ParseBossTable(raw)
	if err != nil {
		return nil, err
	}

	if raw, err = read("layout_list.yaml"); err != nil {
		return nil, err
	}
	layouts, err := ParseLayoutTable(raw)
	if err != nil {
		return nil, err
	}
	return &Tables{Enemies: enemies, Bosses: bosses, Layouts: layouts}, nil
}
