package director

import (
	"time"

	"github.com/Nikamura/archerio-clone-sub003/internal/data"
	"go.uber.org/zap"
)

// Command is an externally triggered director action. The set is closed.
type Command interface {
	command()
}

type (
	EnterPortal struct{}
	AdvanceRoom struct{}
	DebugSkip   struct{}
	ForceLayout struct {
		Category data.Category
		Index    int
	}
	ClearForcedLayout struct{}
	ResetLevel        struct{}
)

func (EnterPortal) command()       {}
func (AdvanceRoom) command()       {}
func (DebugSkip) command()         {}
func (ForceLayout) command()       {}
func (ClearForcedLayout) command() {}
func (ResetLevel) command()        {}

// Submit queues c for the next ProcessCommands.
func (d *Director) Submit(c Command) { d.commands.Push(c) }

// ProcessCommands applies every queued command in submission order.
func (d *Director) ProcessCommands(now time.Duration) int {
	return d.commands.Drain(func(c Command) {
		switch c := c.(type) {
		case EnterPortal:
			d.EnterPortal(now)
		case AdvanceRoom:
			d.AdvanceRoom(now)
		case DebugSkip:
			d.DebugSkip(now)
		case ForceLayout:
			d.ForceLayout(c.Category, c.Index)
		case ClearForcedLayout:
			d.ClearForcedLayout()
		case ResetLevel:
			d.ResetLevel(now)
		}
	})
}

// EnterPortal starts the transition out of a cleared room. Ignored while
// transitioning or before the room is cleared.
func (d *Director) EnterPortal(now time.Duration) bool {
	if d.state.Transitioning {
		d.log.Debug("enter portal ignored, already transitioning")
		return false
	}
	if d.state.Phase != PhaseCleared {
		d.log.Debug("enter portal ignored, room not cleared", zap.Stringer("phase", d.state.Phase))
		return false
	}
	d.beginTransition(now)
	return true
}

// AdvanceRoom moves to the next room immediately, skipping the fade. Ignored
// while transitioning and after victory.
func (d *Director) AdvanceRoom(now time.Duration) bool {
	if d.state.Transitioning || d.state.Phase == PhaseVictory {
		d.log.Debug("advance room ignored", zap.Stringer("phase", d.state.Phase))
		return false
	}
	d.advance(now)
	return true
}

// DebugSkip force-starts the transition regardless of the clear condition.
func (d *Director) DebugSkip(now time.Duration) bool {
	if d.state.Transitioning || d.state.Phase == PhaseVictory {
		d.log.Debug("debug skip ignored", zap.Stringer("phase", d.state.Phase))
		return false
	}
	d.log.Info("debug skip", zap.Int("room", d.state.RoomIndex))
	d.beginTransition(now)
	return true
}

// ForceLayout pins the generator's template choice for every following room
// until ClearForcedLayout.
func (d *Director) ForceLayout(category data.Category, index int) {
	d.gen.Force(category, index)
	d.log.Info("layout forced", zap.String("category", string(category)), zap.Int("index", index))
}

func (d *Director) ClearForcedLayout() {
	d.gen.ClearForce()
}

// ResetLevel rebuilds RoomState from scratch and re-enters room 1. Persistent
// progression and the RNG stream are left alone.
func (d *Director) ResetLevel(now time.Duration) {
	d.cleanup()
	d.state = d.initialState()
	d.log.Info("level reset")
	d.enterRoom(now)
}
