package data

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// BossTemplate is one boss identity in a chapter's pool.
type BossTemplate struct {
	ID       string  `yaml:"id"`
	Name     string  `yaml:"name"`
	Health   float64 `yaml:"health"`
	Damage   float64 `yaml:"damage"`
	Speed    float64 `yaml:"speed"`
	Size     float64 `yaml:"size"`
	Currency int64   `yaml:"currency"`
}

type chapterEntry struct {
	Chapter int            `yaml:"chapter"`
	Bosses  []BossTemplate `yaml:"bosses"`
}

type bossListFile struct {
	Chapters []chapterEntry `yaml:"chapters"`
}

// BossTable holds boss pools indexed by chapter.
type BossTable struct {
	chapters map[int][]BossTemplate
	order    []int
}

// LoadBossTable loads chapter boss pools from a YAML file.
func LoadBossTable(path string) (*BossTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read boss_list: %w", err)
	}
	return ParseBossTable(raw)
}

func ParseBossTable(raw []byte) (*BossTable, error) {
	var f bossListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse boss_list: %w", err)
	}
	t := &BossTable{chapters: make(map[int][]BossTemplate, len(f.Chapters))}
	for _, c := range f.Chapters {
		if len(c.Bosses) == 0 {
			return nil, fmt.Errorf("parse boss_list: chapter %d has no bosses", c.Chapter)
		}
		t.chapters[c.Chapter] = c.Bosses
		t.order = append(t.order, c.Chapter)
	}
	sort.Ints(t.order)
	return t, nil
}

// Pool returns the boss pool for chapter. Chapters past the last defined one
// reuse the highest chapter's pool; nil only when the table is empty.
func (t *BossTable) Pool(chapter int) []BossTemplate {
	if p, ok := t.chapters[chapter]; ok {
		return p
	}
	if len(t.order) == 0 {
		return nil
	}
	best := t.order[0]
	for _, c := range t.order {
		if c <= chapter {
			best = c
		}
	}
	return t.chapters[best]
}

func (t *BossTable) Count() int {
	n := 0
	for _, p := range t.chapters {
		n += len(p)
	}
	return n
}
