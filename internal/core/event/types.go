package event

// Notification is a read-only message for the presentation layer. The set of
// implementations is closed to this package.
type Notification interface {
	notification()
}

// RoomEntered fires when a room's layout is up and its waves are scheduled.
// EndlessWave is 0 outside endless mode.
type RoomEntered struct {
	RoomIndex   int
	EndlessWave int
}

type RoomCleared struct {
	RoomIndex         int
	CollectedCurrency int64
}

type BossSpawned struct {
	BossID   string
	BossName string
}

type BossHealth struct {
	Current float64
	Max     float64
	Name    string
}

type BossHealthHidden struct{}

type BombExplosion struct {
	X, Y   float64
	Radius float64
	Damage float64
}

type PortalOpened struct {
	X, Y float64
}

type Victory struct{}

func (RoomEntered) notification()      {}
func (RoomCleared) notification()      {}
func (BossSpawned) notification()      {}
func (BossHealth) notification()       {}
func (BossHealthHidden) notification() {}
func (BombExplosion) notification()    {}
func (PortalOpened) notification()     {}
func (Victory) notification()          {}

// Outbox collects notifications during a tick for OutputSystem to deliver.
type Outbox = Queue[Notification]

func NewOutbox() *Outbox { return NewQueue[Notification](16) }
