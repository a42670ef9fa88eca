// layoutdump prints the layouts a seed generates for a range of rooms as YAML.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Nikamura/archerio-clone-sub003/internal/config"
	"github.com/Nikamura/archerio-clone-sub003/internal/data"
	"github.com/Nikamura/archerio-clone-sub003/internal/difficulty"
	"github.com/Nikamura/archerio-clone-sub003/internal/geom"
	"github.com/Nikamura/archerio-clone-sub003/internal/layout"
	"github.com/Nikamura/archerio-clone-sub003/internal/rng"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type room struct {
	Index  int            `yaml:"index"`
	Layout *layout.Layout `yaml:"layout"`
}

func main() {
	seed := flag.Uint64("seed", 1, "rng seed")
	from := flag.Int("from", 1, "first room")
	to := flag.Int("to", 10, "last room")
	dataDir := flag.String("data", "", "table directory (empty = embedded defaults)")
	cfgPath := flag.String("config", "", "config file (empty = defaults)")
	flag.Parse()

	if err := dump(*cfgPath, *dataDir, *seed, *from, *to); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func dump(cfgPath, dataDir string, seed uint64, from, to int) error {
	cfg := config.Defaults()
	if cfgPath != "" {
		var err error
		if cfg, err = config.Load(cfgPath); err != nil {
			return err
		}
	}
	if from < 1 || to < from {
		return fmt.Errorf("bad room range %d..%d", from, to)
	}

	var tables *data.Tables
	var err error
	if dataDir != "" {
		tables, err = data.LoadTables(dataDir)
	} else {
		tables, err = data.Defaults()
	}
	if err != nil {
		return err
	}
	provider, err := difficulty.NewTable(cfg.Difficulty)
	if err != nil {
		return err
	}

	total := max(to, cfg.Director.TotalRooms)
	gen := layout.NewGenerator(tables.Layouts, tables.Enemies, rng.New(seed), cfg.Arena.Width, cfg.Arena.Height, zap.NewNop())
	spawn := geom.V(cfg.Arena.PlayerSpawn[0]*cfg.Arena.Width, cfg.Arena.PlayerSpawn[1]*cfg.Arena.Height)

	rooms := make([]room, 0, to-from+1)
	for i := from; i <= to; i++ {
		mult := provider.Multipliers(difficulty.Context{
			Level:       difficulty.Level(cfg.Difficulty.Level),
			Chapter:     cfg.Director.Chapter,
			RoomIndex:   i,
			TotalRooms:  total,
			EndlessWave: 1,
		})
		rooms = append(rooms, room{
			Index: i,
			Layout: gen.Generate(layout.Request{
				RoomIndex:      i,
				TotalRooms:     total,
				MiniBossRoom:   cfg.Director.MiniBossRoom,
				PlayerPos:      spawn,
				BaseEnemyCount: cfg.Director.BaseEnemyCount,
				ExtraPerRoom:   cfg.Director.ExtraPerRoom,
				Difficulty:     mult,
			}),
		})
	}

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(rooms)
}
