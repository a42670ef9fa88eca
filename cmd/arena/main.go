package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/Nikamura/archerio-clone-sub003/internal/config"
	"github.com/Nikamura/archerio-clone-sub003/internal/data"
	"github.com/Nikamura/archerio-clone-sub003/internal/director"
	"github.com/Nikamura/archerio-clone-sub003/internal/logging"
	"github.com/Nikamura/archerio-clone-sub003/internal/sim"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(seed uint64) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m            Arena Encounter Core           \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mseed:\033[0m %d\n\n", seed)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := strconv.Itoa(count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main loop ─────────────────────────────────────────────────────

type flags struct {
	seed        uint64
	rooms       int
	endless     bool
	forceLayout string
	maxTicks    int
	fast        bool
}

func parseFlags() flags {
	var f flags
	flag.Uint64Var(&f.seed, "seed", 0, "rng seed (0 = config)")
	flag.IntVar(&f.rooms, "rooms", 0, "rooms per run (0 = config)")
	flag.BoolVar(&f.endless, "endless", false, "loop the room sequence with growing difficulty")
	flag.StringVar(&f.forceLayout, "force-layout", "", "pin the layout template, category:index")
	flag.IntVar(&f.maxTicks, "max-ticks", 0, "stop after this many ticks (0 = until victory or signal)")
	flag.BoolVar(&f.fast, "fast", false, "tick as fast as possible instead of at tick_rate")
	flag.Parse()
	return f
}

func parseForceLayout(s string) (director.ForceLayout, error) {
	cat, idx, ok := strings.Cut(s, ":")
	if !ok {
		return director.ForceLayout{}, fmt.Errorf("force-layout %q: want category:index", s)
	}
	n, err := strconv.Atoi(idx)
	if err != nil {
		return director.ForceLayout{}, fmt.Errorf("force-layout %q: %w", s, err)
	}
	c := data.Category(cat)
	if !c.Valid() {
		return director.ForceLayout{}, fmt.Errorf("force-layout %q: unknown category", s)
	}
	return director.ForceLayout{Category: c, Index: n}, nil
}

func run() error {
	f := parseFlags()

	// 1. Load config
	cfgPath := "config/arena.toml"
	if p := os.Getenv("ARENA_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg := config.Defaults()
	if _, err := os.Stat(cfgPath); err == nil {
		if cfg, err = config.Load(cfgPath); err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	}
	if f.seed != 0 {
		cfg.Arena.Seed = f.seed
	}
	if f.rooms > 0 {
		cfg.Director.TotalRooms = f.rooms
		if cfg.Director.MiniBossRoom >= f.rooms {
			cfg.Director.MiniBossRoom = 0
		}
	}
	if f.endless {
		cfg.Director.Endless = true
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// 2. Init logger
	log, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Arena.Seed)

	// 3. Assemble the simulation
	printSection("startup")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s, err := sim.New(ctx, cfg, sim.Options{Presenter: &consolePresenter{}}, log)
	if err != nil {
		return fmt.Errorf("sim: %w", err)
	}
	defer func() {
		if err := s.Close(); err != nil {
			log.Error("shutdown", zap.Error(err))
		}
	}()
	printOK(fmt.Sprintf("storage %s ready", cfg.Storage.Driver))
	printStat("enemy kinds", s.Tables().Enemies.Count())
	printStat("boss identities", s.Tables().Bosses.Count())
	printStat("layout templates", s.Tables().Layouts.Count())
	printStat("currency banked", int(s.Ledger().Profile().Currency))
	fmt.Println()

	if f.forceLayout != "" {
		cmd, err := parseForceLayout(f.forceLayout)
		if err != nil {
			return err
		}
		s.Director().ForceLayout(cmd.Category, cmd.Index)
	}

	// 4. Start game loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	printSection("running")
	printReady(fmt.Sprintf("tick %s, %d rooms, endless=%v", cfg.Arena.TickRate, cfg.Director.TotalRooms, cfg.Director.Endless))
	fmt.Println()

	bot := newAutoplay(s, log)
	s.Start()

	ticker := time.NewTicker(cfg.Arena.TickRate)
	defer ticker.Stop()

	for ticks := 0; f.maxTicks == 0 || ticks < f.maxTicks; ticks++ {
		if f.fast {
			select {
			case sig := <-shutdownCh:
				log.Info("shutdown signal", zap.String("signal", sig.String()))
				return nil
			default:
			}
		} else {
			select {
			case <-ticker.C:
			case sig := <-shutdownCh:
				log.Info("shutdown signal", zap.String("signal", sig.String()))
				return nil
			}
		}

		bot.step(s.Now())
		s.Tick(cfg.Arena.TickRate)

		if s.Director().State().Phase == director.PhaseVictory {
			summarize(s)
			return nil
		}
	}
	log.Info("tick limit reached", zap.Int("ticks", f.maxTicks), zap.Stringer("phase", s.Director().State().Phase))
	summarize(s)
	return nil
}

func summarize(s *sim.Sim) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	st := s.Director().State()
	fmt.Println()
	printSection("summary")
	printStat("room", st.RoomIndex)
	printStat("endless wave", st.EndlessWave)
	p := s.Ledger().Profile()
	printStat("rooms cleared (profile)", p.RoomsCleared)
	printStat("best room", p.BestRoom)
	printStat("currency", int(p.Currency))
	printStat("player hits taken", s.World().PlayerHits())
	for name, ps := range s.World().PoolStats() {
		printStat(name+" recycled", int(ps.Recycled))
		printStat(name+" dropped", int(ps.Dropped))
	}
	if err := s.Ledger().Flush(ctx, s.Store()); err == nil {
		if clears, err := s.Store().RecentClears(ctx, p.Name, 5); err == nil && len(clears) > 0 {
			printReady(fmt.Sprintf("last clear: room %d, %d currency", clears[0].RoomIndex, clears[0].Currency))
		}
	}
}
