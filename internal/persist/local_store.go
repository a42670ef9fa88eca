package persist

import (
	"context"
	"fmt"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

const (
	profilesObject = "profiles"
	clearsObject   = "clears"

	// clears kept per profile in the local save
	localClearHistory = 64
)

// LocalStore keeps progression in the per-user application data directory,
// one yaml document per profile.
type LocalStore struct {
	m *gdata.Manager
}

func OpenLocal(appName string) (*LocalStore, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("open local data: %w", err)
	}
	return &LocalStore{m: m}, nil
}

func (s *LocalStore) LoadProfile(_ context.Context, name string) (Profile, error) {
	if !s.m.ObjectPropExists(profilesObject, name) {
		return Profile{}, ErrProfileNotFound
	}
	raw, err := s.m.LoadObjectProp(profilesObject, name)
	if err != nil {
		return Profile{}, fmt.Errorf("load profile: %w", err)
	}
	var p Profile
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return Profile{}, fmt.Errorf("decode profile: %w", err)
	}
	p.Name = name
	return p, nil
}

// SaveProgress writes the clear history first, then the profile.
func (s *LocalStore) SaveProgress(_ context.Context, p Profile, clears []RoomClear) error {
	if len(clears) > 0 {
		history, err := s.loadClears(p.Name)
		if err != nil {
			return err
		}
		history = append(history, clears...)
		if n := len(history); n > localClearHistory {
			history = history[n-localClearHistory:]
		}
		raw, err := yaml.Marshal(history)
		if err != nil {
			return fmt.Errorf("encode clears: %w", err)
		}
		if err := s.m.SaveObjectProp(clearsObject, p.Name, raw); err != nil {
			return fmt.Errorf("save clears: %w", err)
		}
	}

	raw, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := s.m.SaveObjectProp(profilesObject, p.Name, raw); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func (s *LocalStore) RecentClears(_ context.Context, profile string, limit int) ([]RoomClear, error) {
	history, err := s.loadClears(profile)
	if err != nil {
		return nil, err
	}
	out := make([]RoomClear, 0, min(limit, len(history)))
	for i := len(history) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, history[i])
	}
	return out, nil
}

func (s *LocalStore) loadClears(profile string) ([]RoomClear, error) {
	if !s.m.ObjectPropExists(clearsObject, profile) {
		return nil, nil
	}
	raw, err := s.m.LoadObjectProp(clearsObject, profile)
	if err != nil {
		return nil, fmt.Errorf("load clears: %w", err)
	}
	var history []RoomClear
	if err := yaml.Unmarshal(raw, &history); err != nil {
		return nil, fmt.Errorf("decode clears: %w", err)
	}
	return history, nil
}

func (s *LocalStore) Close() error { return nil }
