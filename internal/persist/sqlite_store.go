package persist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps progression in a single local sqlite file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and migrates it.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer at a time.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	if err := RunSQLiteMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) LoadProfile(ctx context.Context, name string) (Profile, error) {
	p := Profile{Name: name}
	err := s.db.QueryRowContext(ctx,
		`SELECT currency, best_room, rooms_cleared, auto_advance FROM profiles WHERE name = ?`,
		name,
	).Scan(&p.Currency, &p.BestRoom, &p.RoomsCleared, &p.AutoAdvance)
	if errors.Is(err, sql.ErrNoRows) {
		return Profile{}, ErrProfileNotFound
	}
	if err != nil {
		return Profile{}, fmt.Errorf("load profile: %w", err)
	}
	return p, nil
}

func (s *SQLiteStore) SaveProgress(ctx context.Context, p Profile, clears []RoomClear) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("progress begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO profiles (name, currency, best_room, rooms_cleared, auto_advance, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (name) DO UPDATE SET
		   currency = excluded.currency,
		   best_room = excluded.best_room,
		   rooms_cleared = excluded.rooms_cleared,
		   auto_advance = excluded.auto_advance,
		   updated_at = excluded.updated_at`,
		p.Name, p.Currency, p.BestRoom, p.RoomsCleared, p.AutoAdvance, time.Now().UnixMilli(),
	); err != nil {
		return fmt.Errorf("profile upsert: %w", err)
	}

	for _, c := range clears {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO room_clears (profile, chapter, room_index, currency, cleared_at)
			 VALUES (?, ?, ?, ?, ?)`,
			p.Name, c.Chapter, c.RoomIndex, c.Currency, c.ClearedAt.UnixMilli(),
		); err != nil {
			return fmt.Errorf("room clear insert: %w", err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) RecentClears(ctx context.Context, profile string, limit int) ([]RoomClear, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT chapter, room_index, currency, cleared_at FROM room_clears
		 WHERE profile = ? ORDER BY cleared_at DESC, id DESC LIMIT ?`,
		profile, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent clears: %w", err)
	}
	defer rows.Close()

	var out []RoomClear
	for rows.Next() {
		var ms int64
		c := RoomClear{Profile: profile}
		if err := rows.Scan(&c.Chapter, &c.RoomIndex, &c.Currency, &ms); err != nil {
			return nil, fmt.Errorf("scan clear: %w", err)
		}
		c.ClearedAt = time.UnixMilli(ms)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
