package store

import (
	"context"
)

func (s *Store) InsertArchive(ctx context.Context, e *ArchiveEntry) (string, error) {
	if e.ID == "" {
		e.ID = NewID()
	}
	leaderboard := e.Leaderboard
	if len(leaderboard) == 0 {
		leaderboard = []byte("[]")
	}
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO archive (id, session_id, winner, leaderboard, duration_ms)
		VALUES ($1,$2,$3,$4,$5)`,
		e.ID, e.SessionID, e.Winner, leaderboard, e.DurationMS)
	return e.ID, err
}
