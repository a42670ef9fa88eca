package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Nikamura/archerio-clone-sub003/internal/config"
	"go.uber.org/zap"
)

// ErrProfileNotFound is returned by LoadProfile for an unknown profile name.
var ErrProfileNotFound = errors.New("profile not found")

// Profile is the persistent per-player progression record.
type Profile struct {
	Name         string `yaml:"name"`
	Currency     int64  `yaml:"currency"`
	BestRoom     int    `yaml:"best_room"`
	RoomsCleared int    `yaml:"rooms_cleared"`
	AutoAdvance  bool   `yaml:"auto_advance"`
}

// RoomClear is one cleared room, appended to the profile's history.
type RoomClear struct {
	Profile   string    `yaml:"profile"`
	Chapter   int       `yaml:"chapter"`
	RoomIndex int       `yaml:"room_index"`
	Currency  int64     `yaml:"currency"`
	ClearedAt time.Time `yaml:"cleared_at"`
}

// Store is a progression backend. SaveProgress writes the profile and its new
// clears atomically where the backend allows it.
type Store interface {
	LoadProfile(ctx context.Context, name string) (Profile, error)
	SaveProgress(ctx context.Context, p Profile, clears []RoomClear) error
	RecentClears(ctx context.Context, profile string, limit int) ([]RoomClear, error)
	Close() error
}

// Open returns the backend selected by cfg.Driver, migrated and ready.
func Open(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) (Store, error) {
	switch cfg.Driver {
	case "", "memory":
		return NewMemoryStore(), nil
	case "postgres":
		db, err := NewDB(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		if err := RunMigrations(ctx, db.Pool); err != nil {
			db.Close()
			return nil, err
		}
		log.Info("progression store ready", zap.String("driver", cfg.Driver))
		return NewPGStore(db), nil
	case "sqlite":
		s, err := OpenSQLite(ctx, cfg.Path)
		if err != nil {
			return nil, err
		}
		log.Info("progression store ready", zap.String("driver", cfg.Driver), zap.String("path", cfg.Path))
		return s, nil
	case "local":
		s, err := OpenLocal(cfg.AppName)
		if err != nil {
			return nil, err
		}
		log.Info("progression store ready", zap.String("driver", cfg.Driver), zap.String("app", cfg.AppName))
		return s, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}
