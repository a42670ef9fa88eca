package system

import (
	"context"
	"time"

	coresys "github.com/Nikamura/archerio-clone-sub003/internal/core/system"
	"github.com/Nikamura/archerio-clone-sub003/internal/persist"
	"go.uber.org/zap"
)

// PersistSystem periodically writes the progression ledger to its store.
// Failed flushes keep their buffer and are retried on the next interval.
// Phase 7 (Persist).
type PersistSystem struct {
	ledger   *persist.Ledger
	store    persist.Store
	interval time.Duration
	next     time.Duration
	log      *zap.Logger
}

func NewPersistSystem(ledger *persist.Ledger, store persist.Store, interval time.Duration, log *zap.Logger) *PersistSystem {
	return &PersistSystem{ledger: ledger, store: store, interval: interval, next: interval, log: log}
}

func (s *PersistSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *PersistSystem) Update(now, _ time.Duration) {
	if now < s.next {
		return
	}
	s.next = now + s.interval
	s.flush()
}

// Flush writes the ledger immediately. Called on shutdown.
func (s *PersistSystem) Flush() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.ledger.Flush(ctx, s.store)
}

func (s *PersistSystem) flush() {
	if err := s.Flush(); err != nil {
		s.log.Error("progression flush failed", zap.Int("pending", s.ledger.Pending()), zap.Error(err))
	}
}
