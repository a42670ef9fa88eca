package main

import (
	"context"
	"testing"

	"github.com/Nikamura/archerio-clone-sub003/internal/config"
	"github.com/Nikamura/archerio-clone-sub003/internal/data"
	"github.com/Nikamura/archerio-clone-sub003/internal/director"
	"github.com/Nikamura/archerio-clone-sub003/internal/persist"
	"github.com/Nikamura/archerio-clone-sub003/internal/sim"
	"go.uber.org/zap/zaptest"
)

func TestParseForceLayout(t *testing.T) {
	tests := []struct {
		in      string
		want    director.ForceLayout
		wantErr bool
	}{
		{"corridor:0", director.ForceLayout{Category: data.CategoryCorridor, Index: 0}, false},
		{"maze:2", director.ForceLayout{Category: data.CategoryMaze, Index: 2}, false},
		{"maze", director.ForceLayout{}, true},
		{"maze:x", director.ForceLayout{}, true},
		{"castle:1", director.ForceLayout{}, true},
	}
	for _, tt := range tests {
		got, err := parseForceLayout(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseForceLayout(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseForceLayout(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestAutoplayReachesVictory(t *testing.T) {
	cfg := config.Defaults()
	cfg.Director.TotalRooms = 2
	cfg.Director.MiniBossRoom = 0
	log := zaptest.NewLogger(t)

	s, err := sim.New(context.Background(), cfg, sim.Options{Store: persist.NewMemoryStore()}, log)
	if err != nil {
		t.Fatalf("sim.New: %v", err)
	}
	defer s.Close()

	bot := newAutoplay(s, log)
	s.Start()
	for i := 0; i < 20000; i++ {
		bot.step(s.Now())
		s.Tick(cfg.Arena.TickRate)
		if s.Director().State().Phase == director.PhaseVictory {
			return
		}
	}
	t.Fatalf("no victory, state %+v", s.Director().State())
}
