// Package wave splits a room's spawn records into time-delayed waves.
package wave

import (
	"time"

	"github.com/Nikamura/archerio-clone-sub003/internal/config"
	"github.com/Nikamura/archerio-clone-sub003/internal/core/handle"
	"github.com/Nikamura/archerio-clone-sub003/internal/core/timer"
	"github.com/Nikamura/archerio-clone-sub003/internal/layout"
	"github.com/Nikamura/archerio-clone-sub003/internal/rng"
	"go.uber.org/zap"
)

// Rooms with more records than this get a third wave.
const twoWaveLimit = 6

// Wave is one fired batch. TopFlags[i] says whether Records[i] walks in from
// above the top edge.
type Wave struct {
	Index    int
	FireAt   time.Duration
	Records  []layout.SpawnRecord
	TopFlags []bool

	fired bool
}

// Fired reports whether the wave has run.
func (w *Wave) Fired() bool { return w.fired }

// OnWave materializes a fired wave.
type OnWave func(now time.Duration, w *Wave)

// OnAllFired runs once, after the last wave of a schedule has fired.
type OnAllFired func(now time.Duration)

// Scheduler owns the cancel tokens for the current room's waves.
type Scheduler struct {
	group     *timer.Group
	rng       *rng.RNG
	delay     time.Duration
	topChance float64
	waves     []*Wave
	log       *zap.Logger
}

func NewScheduler(q *timer.Queue, r *rng.RNG, cfg config.WavesConfig, log *zap.Logger) *Scheduler {
	return &Scheduler{
		group:     timer.NewGroup(q),
		rng:       r,
		delay:     cfg.Delay,
		topChance: cfg.TopSpawnChance,
		log:       log,
	}
}

// Count returns how many waves n records are split into.
func Count(n int) int {
	if n <= twoWaveLimit {
		return 2
	}
	return 3
}

// Split cuts records into Count(len) contiguous chunks of ceil(n/waves);
// trailing chunks may be short or empty.
func Split(records []layout.SpawnRecord) [][]layout.SpawnRecord {
	waves := Count(len(records))
	size := (len(records) + waves - 1) / waves
	out := make([][]layout.SpawnRecord, waves)
	for k := range out {
		lo := min(k*size, len(records))
		hi := min(lo+size, len(records))
		out[k] = records[lo:hi]
	}
	return out
}

// Schedule decides top-spawn flags for every record up front, then schedules
// wave k at now + k*delay. Wave 0 is due immediately and fires on the next
// timer advance. Empty chunks are not scheduled; with no records at all,
// onAll runs before Schedule returns.
func (s *Scheduler) Schedule(records []layout.SpawnRecord, now time.Duration, onWave OnWave, onAll OnAllFired) []handle.ID {
	flags := s.topFlags(records)

	s.waves = s.waves[:0]
	chunks := Split(records)
	start := 0
	for k, chunk := range chunks {
		if len(chunk) == 0 {
			continue
		}
		s.waves = append(s.waves, &Wave{
			Index:    k,
			FireAt:   now + time.Duration(k)*s.delay,
			Records:  chunk,
			TopFlags: flags[start : start+len(chunk)],
		})
		start += len(chunk)
	}

	if len(s.waves) == 0 {
		if onAll != nil {
			onAll(now)
		}
		return nil
	}

	remaining := len(s.waves)
	ids := make([]handle.ID, 0, len(s.waves))
	for _, w := range s.waves {
		w := w
		ids = append(ids, s.group.At(w.FireAt, func(now time.Duration) {
			if w.fired {
				return
			}
			w.fired = true
			s.log.Debug("wave fired",
				zap.Int("wave", w.Index),
				zap.Int("records", len(w.Records)))
			onWave(now, w)
			remaining--
			if remaining == 0 && onAll != nil {
				onAll(now)
			}
		}))
	}
	return ids
}

func (s *Scheduler) topFlags(records []layout.SpawnRecord) []bool {
	flags := make([]bool, len(records))
	for i, rec := range records {
		if rec.Kind.TopSpawnEligible() {
			flags[i] = s.rng.Chance(s.topChance)
		}
	}
	return flags
}

// CancelAll stops every wave that has not fired. Already-fired waves are
// unaffected; calling it again is a no-op.
func (s *Scheduler) CancelAll() int {
	n := s.group.CancelAll()
	if n > 0 {
		s.log.Debug("pending waves cancelled", zap.Int("count", n))
	}
	return n
}

// Pending counts waves still waiting to fire.
func (s *Scheduler) Pending() int { return s.group.Pending() }

// Waves returns the current schedule, fired waves included.
func (s *Scheduler) Waves() []*Wave { return s.waves }
