package persist

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// exerciseStore runs the same round trip against any backend.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.LoadProfile(ctx, "ranger"); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("LoadProfile(unknown) err = %v, want ErrProfileNotFound", err)
	}

	base := time.UnixMilli(1_700_000_000_000)
	p := Profile{Name: "ranger", Currency: 7, BestRoom: 2, RoomsCleared: 2, AutoAdvance: true}
	clears := []RoomClear{
		{Profile: "ranger", Chapter: 1, RoomIndex: 1, Currency: 3, ClearedAt: base},
		{Profile: "ranger", Chapter: 1, RoomIndex: 2, Currency: 4, ClearedAt: base.Add(time.Second)},
	}
	if err := s.SaveProgress(ctx, p, clears); err != nil {
		t.Fatalf("SaveProgress: %v", err)
	}

	got, err := s.LoadProfile(ctx, "ranger")
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if got != p {
		t.Errorf("profile = %+v, want %+v", got, p)
	}

	p.Currency = 12
	p.BestRoom = 3
	p.RoomsCleared = 3
	p.AutoAdvance = false
	more := []RoomClear{{Profile: "ranger", Chapter: 1, RoomIndex: 3, Currency: 5, ClearedAt: base.Add(2 * time.Second)}}
	if err := s.SaveProgress(ctx, p, more); err != nil {
		t.Fatalf("SaveProgress (update): %v", err)
	}
	got, err = s.LoadProfile(ctx, "ranger")
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if got != p {
		t.Errorf("profile after update = %+v, want %+v", got, p)
	}

	recent, err := s.RecentClears(ctx, "ranger", 2)
	if err != nil {
		t.Fatalf("RecentClears: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("RecentClears returned %d, want 2", len(recent))
	}
	if recent[0].RoomIndex != 3 || recent[1].RoomIndex != 2 {
		t.Errorf("recent rooms = [%d %d], want [3 2]", recent[0].RoomIndex, recent[1].RoomIndex)
	}
	if !recent[0].ClearedAt.Equal(base.Add(2 * time.Second)) {
		t.Errorf("cleared_at = %v, want %v", recent[0].ClearedAt, base.Add(2*time.Second))
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saves", "arena.db")
	s, err := OpenSQLite(context.Background(), path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer s.Close()
	exerciseStore(t, s)
}

func TestSQLiteStoreReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "arena.db")

	s, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := s.SaveProgress(ctx, Profile{Name: "p", Currency: 9}, nil); err != nil {
		t.Fatalf("SaveProgress: %v", err)
	}
	s.Close()

	// migrations must be idempotent across reopen
	s, err = OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	p, err := s.LoadProfile(ctx, "p")
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if p.Currency != 9 {
		t.Errorf("currency = %d, want 9", p.Currency)
	}
}

func TestLocalStore(t *testing.T) {
	appName := fmt.Sprintf("arena_store_test_%d", time.Now().UnixNano())
	s, err := OpenLocal(appName)
	if err != nil {
		t.Skipf("local data dir unavailable: %v", err)
	}
	t.Cleanup(func() {
		if home, err := os.UserHomeDir(); err == nil {
			os.RemoveAll(filepath.Join(home, ".local", "share", appName))
		}
	})
	exerciseStore(t, s)
}
