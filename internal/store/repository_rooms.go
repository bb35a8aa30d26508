package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const roomColumns = `id, name, host_id, host_name, status, mode, players, min_players, max_players,
	external_session_id, voice_channel_link, created_at, last_activity_at, started_at, finished_at`

type roomScanner interface {
	Scan(dest ...any) error
}

func scanRoom(row roomScanner) (*Room, error) {
	var r Room
	var players []byte
	var startedAt, finishedAt sql.NullTime
	err := row.Scan(&r.ID, &r.Name, &r.HostID, &r.HostName, &r.Status, &r.Mode, &players,
		&r.MinPlayers, &r.MaxPlayers, &r.ExternalSessionID, &r.VoiceChannelLink,
		&r.CreatedAt, &r.LastActivityAt, &startedAt, &finishedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(players, &r.Players); err != nil {
		return nil, fmt.Errorf("decode players for room %s: %w", r.ID, err)
	}
	if startedAt.Valid {
		t := startedAt.Time
		r.StartedAt = &t
	}
	if finishedAt.Valid {
		t := finishedAt.Time
		r.FinishedAt = &t
	}
	return &r, nil
}

func (s *Store) CreateRoom(ctx context.Context, r *Room) (string, error) {
	if r.ID == "" {
		r.ID = NewID()
	}
	players, err := json.Marshal(r.Players)
	if err != nil {
		return "", err
	}
	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO rooms (id, name, host_id, host_name, status, mode, players, min_players, max_players,
			external_session_id, voice_channel_link, created_at, last_activity_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		r.ID, r.Name, r.HostID, r.HostName, r.Status, r.Mode, players, r.MinPlayers, r.MaxPlayers,
		r.ExternalSessionID, r.VoiceChannelLink, r.CreatedAt, r.LastActivityAt)
	return r.ID, err
}

func (s *Store) GetRoom(ctx context.Context, id string) (*Room, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id = $1`, id)
	return scanRoom(row)
}

// UpdateRoom runs mutate against the current document under a row lock and
// writes back the result in the same transaction. An error from mutate rolls
// the transaction back and is returned unchanged.
func (s *Store) UpdateRoom(ctx context.Context, id string, mutate func(*Room) error) error {
	tx, err := s.DB.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id = $1 FOR UPDATE`, id)
	r, err := scanRoom(row)
	if err != nil {
		return err
	}
	if err := mutate(r); err != nil {
		return err
	}
	players, err := json.Marshal(r.Players)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE rooms SET name = $2, status = $3, mode = $4, players = $5,
			external_session_id = $6, voice_channel_link = $7,
			last_activity_at = $8, started_at = $9, finished_at = $10
		WHERE id = $1`,
		r.ID, r.Name, r.Status, r.Mode, players, r.ExternalSessionID, r.VoiceChannelLink,
		r.LastActivityAt, nullTime(r.StartedAt), nullTime(r.FinishedAt))
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) DeleteRoom(ctx context.Context, id string) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	return err
}

func (s *Store) ListRoomsByStatus(ctx context.Context, statuses ...string) ([]*Room, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+roomColumns+` FROM rooms WHERE status = ANY($1) ORDER BY created_at ASC`, statuses)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*Room{}
	for rows.Next() {
		r, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
