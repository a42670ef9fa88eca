package system

import (
	"time"

	"github.com/Nikamura/archerio-clone-sub003/internal/core/event"
	coresys "github.com/Nikamura/archerio-clone-sub003/internal/core/system"
)

// OutputSystem hands this tick's notifications to the presentation layer in
// emission order. Phase 6 (Output).
type OutputSystem struct {
	outbox    *event.Outbox
	presenter event.Presenter
}

func NewOutputSystem(outbox *event.Outbox, p event.Presenter) *OutputSystem {
	if p == nil {
		p = event.NopPresenter{}
	}
	return &OutputSystem{outbox: outbox, presenter: p}
}

func (s *OutputSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *OutputSystem) Update(_, _ time.Duration) {
	s.outbox.Drain(func(n event.Notification) {
		event.Deliver(s.presenter, n)
	})
}
