package event

// Presenter is the presentation layer's view of the core. It receives values
// only and has no path back into director state.
type Presenter interface {
	OnRoomEntered(roomIndex, endlessWave int)
	OnRoomCleared(roomIndex int, collectedCurrency int64)
	OnBossSpawned(bossID, bossName string)
	OnShowBossHealth(current, max float64, name string)
	OnHideBossHealth()
	OnBombExplosion(x, y, radius, damage float64)
	OnPortalOpened(x, y float64)
	OnVictory()
}

// Deliver routes n to the matching Presenter method.
func Deliver(p Presenter, n Notification) {
	switch n := n.(type) {
	case RoomEntered:
		p.OnRoomEntered(n.RoomIndex, n.EndlessWave)
	case RoomCleared:
		p.OnRoomCleared(n.RoomIndex, n.CollectedCurrency)
	case BossSpawned:
		p.OnBossSpawned(n.BossID, n.BossName)
	case BossHealth:
		p.OnShowBossHealth(n.Current, n.Max, n.Name)
	case BossHealthHidden:
		p.OnHideBossHealth()
	case BombExplosion:
		p.OnBombExplosion(n.X, n.Y, n.Radius, n.Damage)
	case PortalOpened:
		p.OnPortalOpened(n.X, n.Y)
	case Victory:
		p.OnVictory()
	}
}

// NopPresenter discards everything.
type NopPresenter struct{}

func (NopPresenter) OnRoomEntered(int, int)                             {}
func (NopPresenter) OnRoomCleared(int, int64)                           {}
func (NopPresenter) OnBossSpawned(string, string)                       {}
func (NopPresenter) OnShowBossHealth(float64, float64, string)          {}
func (NopPresenter) OnHideBossHealth()                                  {}
func (NopPresenter) OnBombExplosion(float64, float64, float64, float64) {}
func (NopPresenter) OnPortalOpened(float64, float64)                    {}
func (NopPresenter) OnVictory()                                         {}

// Recorder keeps every notification it is handed, in order. Useful for
// tests and replay logs.
type Recorder struct {
	Notes []Notification
}

func (r *Recorder) OnRoomEntered(roomIndex, endlessWave int) {
	r.Notes = append(r.Notes, RoomEntered{RoomIndex: roomIndex, EndlessWave: endlessWave})
}
func (r *Recorder) OnRoomCleared(roomIndex int, collected int64) {
	r.Notes = append(r.Notes, RoomCleared{RoomIndex: roomIndex, CollectedCurrency: collected})
}
func (r *Recorder) OnBossSpawned(id, name string) {
	r.Notes = append(r.Notes, BossSpawned{BossID: id, BossName: name})
}
func (r *Recorder) OnShowBossHealth(cur, max float64, name string) {
	r.Notes = append(r.Notes, BossHealth{Current: cur, Max: max, Name: name})
}
func (r *Recorder) OnHideBossHealth() { r.Notes = append(r.Notes, BossHealthHidden{}) }
func (r *Recorder) OnBombExplosion(x, y, radius, damage float64) {
	r.Notes = append(r.Notes, BombExplosion{X: x, Y: y, Radius: radius, Damage: damage})
}
func (r *Recorder) OnPortalOpened(x, y float64) { r.Notes = append(r.Notes, PortalOpened{X: x, Y: y}) }
func (r *Recorder) OnVictory()                  { r.Notes = append(r.Notes, Victory{}) }

// Count returns how many recorded notifications have the same dynamic type as like.
func (r *Recorder) Count(like Notification) int {
	n := 0
	for _, note := range r.Notes {
		if sameKind(note, like) {
			n++
		}
	}
	return n
}

func sameKind(a, b Notification) bool {
	switch a.(type) {
	case RoomEntered:
		_, ok := b.(RoomEntered)
		return ok
	case RoomCleared:
		_, ok := b.(RoomCleared)
		return ok
	case BossSpawned:
		_, ok := b.(BossSpawned)
		return ok
	case BossHealth:
		_, ok := b.(BossHealth)
		return ok
	case BossHealthHidden:
		_, ok := b.(BossHealthHidden)
		return ok
	case BombExplosion:
		_, ok := b.(BombExplosion)
		return ok
	case PortalOpened:
		_, ok := b.(PortalOpened)
		return ok
	case Victory:
		_, ok := b.(Victory)
		return ok
	}
	return false
}
