package persist

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

type failingStore struct {
	*MemoryStore
	fail bool
}

func (s *failingStore) SaveProgress(ctx context.Context, p Profile, clears []RoomClear) error {
	if s.fail {
		return errors.New("disk full")
	}
	return s.MemoryStore.SaveProgress(ctx, p, clears)
}

func TestLedgerNewProfileUsesDefault(t *testing.T) {
	l, err := LoadLedger(context.Background(), NewMemoryStore(), "fresh", 1, true, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("LoadLedger: %v", err)
	}
	if !l.AutoAdvance() {
		t.Error("new profile should take the auto-advance default")
	}
	if l.Profile().Name != "fresh" {
		t.Errorf("name = %q", l.Profile().Name)
	}
}

func TestLedgerLoadsExistingProfile(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	store.SaveProgress(ctx, Profile{Name: "old", Currency: 40, BestRoom: 6}, nil)

	l, err := LoadLedger(ctx, store, "old", 1, true, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("LoadLedger: %v", err)
	}
	if l.AutoAdvance() {
		t.Error("stored preference must win over the default")
	}
	if l.Profile().Currency != 40 {
		t.Errorf("currency = %d, want 40", l.Profile().Currency)
	}
}

func TestLedgerReportAndFlush(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	l := NewLedger(Profile{Name: "p", BestRoom: 4}, 2, zaptest.NewLogger(t))
	fixed := time.UnixMilli(1_700_000_000_000)
	l.now = func() time.Time { return fixed }

	l.ReportCurrency(1, 3)
	l.ReportCurrency(2, 0)
	l.ReportCurrency(5, 4)

	p := l.Profile()
	if p.Currency != 7 || p.RoomsCleared != 3 || p.BestRoom != 5 {
		t.Errorf("profile = %+v, want currency 7, cleared 3, best 5", p)
	}
	if l.Pending() != 3 {
		t.Fatalf("pending = %d, want 3", l.Pending())
	}

	if err := l.Flush(ctx, store); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if l.Pending() != 0 {
		t.Errorf("pending after flush = %d", l.Pending())
	}
	saved, _ := store.LoadProfile(ctx, "p")
	if saved != p {
		t.Errorf("saved = %+v, want %+v", saved, p)
	}
	recent, _ := store.RecentClears(ctx, "p", 10)
	if len(recent) != 3 {
		t.Fatalf("stored clears = %d, want 3", len(recent))
	}
	if recent[0].RoomIndex != 5 || recent[0].Chapter != 2 || !recent[0].ClearedAt.Equal(fixed) {
		t.Errorf("newest clear = %+v", recent[0])
	}
}

func TestLedgerFlushKeepsBufferOnError(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{MemoryStore: NewMemoryStore(), fail: true}
	l := NewLedger(Profile{Name: "p"}, 1, zaptest.NewLogger(t))

	l.ReportCurrency(1, 2)
	if err := l.Flush(ctx, store); err == nil {
		t.Fatal("Flush should fail")
	}
	if l.Pending() != 1 {
		t.Fatalf("pending = %d, want 1 after failed flush", l.Pending())
	}

	store.fail = false
	if err := l.Flush(ctx, store); err != nil {
		t.Fatalf("Flush retry: %v", err)
	}
	recent, _ := store.RecentClears(ctx, "p", 10)
	if len(recent) != 1 {
		t.Errorf("stored clears = %d, want 1", len(recent))
	}
}

func TestLedgerFlushSkipsWhenClean(t *testing.T) {
	store := &failingStore{MemoryStore: NewMemoryStore(), fail: true}
	l := NewLedger(Profile{Name: "p"}, 1, zaptest.NewLogger(t))
	if err := l.Flush(context.Background(), store); err != nil {
		t.Fatalf("clean flush touched the store: %v", err)
	}

	l.SetAutoAdvance(false)
	if err := l.Flush(context.Background(), store); err != nil {
		t.Fatalf("unchanged preference marked dirty: %v", err)
	}
	l.SetAutoAdvance(true)
	if err := l.Flush(context.Background(), store); err == nil {
		t.Fatal("changed preference should reach the store")
	}
}
