package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

const userColumns = `id, nickname, username, avatar_ref, is_bot, ticket_balance, presence_state, last_heartbeat_at, created_at`

func scanUser(row roomScanner) (*User, error) {
	var u User
	var heartbeat sql.NullTime
	err := row.Scan(&u.ID, &u.Nickname, &u.Username, &u.AvatarRef, &u.IsBot,
		&u.TicketBalance, &u.PresenceState, &heartbeat, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if heartbeat.Valid {
		t := heartbeat.Time
		u.LastHeartbeatAt = &t
	}
	return &u, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*User, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// UpsertBot creates a synthetic participant if absent. Existing bots keep
// their profile so repeated calls are idempotent.
func (s *Store) UpsertBot(ctx context.Context, u *User) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO users (id, nickname, username, avatar_ref, is_bot, presence_state, last_heartbeat_at)
		VALUES ($1,$2,$3,$4,TRUE,$5,now())
		ON CONFLICT (id) DO NOTHING`,
		u.ID, u.Nickname, u.Username, u.AvatarRef, PresenceBrowsing)
	return err
}

func (s *Store) ListBots(ctx context.Context) ([]*User, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE is_bot ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *Store) UpdateBotPresence(ctx context.Context, id, state string, at time.Time) error {
	res, err := s.DB.ExecContext(ctx,
		`UPDATE users SET presence_state = $2, last_heartbeat_at = $3 WHERE id = $1 AND is_bot`,
		id, state, at)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
