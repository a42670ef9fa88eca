package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Ledger buffers progression changes between flushes. It is the director's
// Progression collaborator: clears are recorded in memory on the simulation
// goroutine and written out by Flush. Not safe for concurrent use.
type Ledger struct {
	profile Profile
	chapter int
	pending []RoomClear
	dirty   bool

	now func() time.Time
	log *zap.Logger
}

// NewLedger starts a ledger from an already loaded profile.
func NewLedger(p Profile, chapter int, log *zap.Logger) *Ledger {
	return &Ledger{profile: p, chapter: chapter, now: time.Now, log: log}
}

// LoadLedger reads the named profile from store. An unknown profile starts
// empty with autoAdvance as its preference.
func LoadLedger(ctx context.Context, store Store, name string, chapter int, autoAdvance bool, log *zap.Logger) (*Ledger, error) {
	p, err := store.LoadProfile(ctx, name)
	switch {
	case errors.Is(err, ErrProfileNotFound):
		p = Profile{Name: name, AutoAdvance: autoAdvance}
		log.Info("new profile", zap.String("profile", name))
	case err != nil:
		return nil, fmt.Errorf("load ledger: %w", err)
	default:
		log.Info("profile loaded",
			zap.String("profile", name),
			zap.Int64("currency", p.Currency),
			zap.Int("best_room", p.BestRoom))
	}
	return NewLedger(p, chapter, log), nil
}

// ReportCurrency records a room clear and the currency it collected.
func (l *Ledger) ReportCurrency(roomIndex int, amount int64) {
	l.profile.Currency += amount
	l.profile.RoomsCleared++
	if roomIndex > l.profile.BestRoom {
		l.profile.BestRoom = roomIndex
	}
	l.pending = append(l.pending, RoomClear{
		Profile:   l.profile.Name,
		Chapter:   l.chapter,
		RoomIndex: roomIndex,
		Currency:  amount,
		ClearedAt: l.now(),
	})
	l.dirty = true
}

func (l *Ledger) AutoAdvance() bool { return l.profile.AutoAdvance }

func (l *Ledger) SetAutoAdvance(on bool) {
	if l.profile.AutoAdvance == on {
		return
	}
	l.profile.AutoAdvance = on
	l.dirty = true
}

// Profile returns the in-memory totals, including unflushed clears.
func (l *Ledger) Profile() Profile { return l.profile }

// Pending is the number of clears not yet written.
func (l *Ledger) Pending() int { return len(l.pending) }

// Flush writes buffered changes. On failure the buffer is kept for the next
// attempt.
func (l *Ledger) Flush(ctx context.Context, store Store) error {
	if !l.dirty {
		return nil
	}
	if err := store.SaveProgress(ctx, l.profile, l.pending); err != nil {
		return fmt.Errorf("flush ledger: %w", err)
	}
	l.log.Debug("progression flushed",
		zap.String("profile", l.profile.Name),
		zap.Int("clears", len(l.pending)))
	l.pending = l.pending[:0]
	l.dirty = false
	return nil
}
