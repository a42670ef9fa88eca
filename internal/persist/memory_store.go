package persist

import (
	"context"
	"sync"
)

// MemoryStore is a process-local Store for tests and throwaway runs.
type MemoryStore struct {
	mu       sync.Mutex
	profiles map[string]Profile
	clears   map[string][]RoomClear
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles: make(map[string]Profile),
		clears:   make(map[string][]RoomClear),
	}
}

func (s *MemoryStore) LoadProfile(_ context.Context, name string) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[name]
	if !ok {
		return Profile{}, ErrProfileNotFound
	}
	return p, nil
}

func (s *MemoryStore) SaveProgress(_ context.Context, p Profile, clears []RoomClear) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.Name] = p
	s.clears[p.Name] = append(s.clears[p.Name], clears...)
	return nil
}

// RecentClears returns up to limit clears, newest first.
func (s *MemoryStore) RecentClears(_ context.Context, profile string, limit int) ([]RoomClear, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.clears[profile]
	out := make([]RoomClear, 0, min(limit, len(all)))
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, all[i])
	}
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }
