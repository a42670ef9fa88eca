package persist

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// PGStore keeps progression in postgres.
type PGStore struct {
	db *DB
}

func NewPGStore(db *DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) LoadProfile(ctx context.Context, name string) (Profile, error) {
	p := Profile{Name: name}
	err := s.db.Pool.QueryRow(ctx,
		`SELECT currency, best_room, rooms_cleared, auto_advance FROM profiles WHERE name = $1`,
		name,
	).Scan(&p.Currency, &p.BestRoom, &p.RoomsCleared, &p.AutoAdvance)
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, ErrProfileNotFound
	}
	if err != nil {
		return Profile{}, fmt.Errorf("load profile: %w", err)
	}
	return p, nil
}

// SaveProgress upserts the profile and appends the clears in one transaction.
func (s *PGStore) SaveProgress(ctx context.Context, p Profile, clears []RoomClear) error {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("progress begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO profiles (name, currency, best_room, rooms_cleared, auto_advance, updated_at)
		 VALUES ($1, $2, $3, $4, $5, now())
		 ON CONFLICT (name) DO UPDATE SET
		   currency = EXCLUDED.currency,
		   best_room = EXCLUDED.best_room,
		   rooms_cleared = EXCLUDED.rooms_cleared,
		   auto_advance = EXCLUDED.auto_advance,
		   updated_at = now()`,
		p.Name, p.Currency, p.BestRoom, p.RoomsCleared, p.AutoAdvance,
	); err != nil {
		return fmt.Errorf("profile upsert: %w", err)
	}

	for _, c := range clears {
		if _, err := tx.Exec(ctx,
			`INSERT INTO room_clears (profile, chapter, room_index, currency, cleared_at)
			 VALUES ($1, $2, $3, $4, $5)`,
			p.Name, c.Chapter, c.RoomIndex, c.Currency, c.ClearedAt,
		); err != nil {
			return fmt.Errorf("room clear insert: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (s *PGStore) RecentClears(ctx context.Context, profile string, limit int) ([]RoomClear, error) {
	rows, err := s.db.Pool.Query(ctx,
		`SELECT chapter, room_index, currency, cleared_at FROM room_clears
		 WHERE profile = $1 ORDER BY cleared_at DESC, id DESC LIMIT $2`,
		profile, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent clears: %w", err)
	}
	defer rows.Close()

	var out []RoomClear
	for rows.Next() {
		c := RoomClear{Profile: profile}
		if err := rows.Scan(&c.Chapter, &c.RoomIndex, &c.Currency, &c.ClearedAt); err != nil {
			return nil, fmt.Errorf("scan clear: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PGStore) Close() error {
	s.db.Close()
	return nil
}
