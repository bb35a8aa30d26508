package archive

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"rivalis-live/internal/app/live"
	"rivalis-live/internal/store"
)

var ErrInvalidRequest = errors.New("invalid_request")

// ArchiveStore persists finished-session summaries.
type ArchiveStore interface {
	InsertArchive(ctx context.Context, e *store.ArchiveEntry) (string, error)
}

// Service records a finished session and retires its room. The archive write
// and the room deletion are separate operations on purpose: a summary that
// outlives a failed delete is harmless, the reverse is lost data.
type Service struct {
	store ArchiveStore
	live  *live.Service
}

func NewService(st ArchiveStore, liveSvc *live.Service) *Service {
	return &Service{store: st, live: liveSvc}
}

type SessionSummary struct {
	SessionID        string          `json:"sessionId"`
	FinalLeaderboard json.RawMessage `json:"finalLeaderboard"`
	Winner           string          `json:"winner"`
	DurationMS       int64           `json:"durationMs"`
}

// ArchiveSession writes the summary, then ends the room. A room that is
// already gone (client raced us, or it never lived here) still archives.
func (s *Service) ArchiveSession(ctx context.Context, sum SessionSummary) (string, error) {
	if sum.SessionID == "" {
		return "", ErrInvalidRequest
	}
	id, err := s.store.InsertArchive(ctx, &store.ArchiveEntry{
		SessionID:   sum.SessionID,
		Winner:      sum.Winner,
		Leaderboard: sum.FinalLeaderboard,
		DurationMS:  sum.DurationMS,
	})
	if err != nil {
		return "", err
	}
	if err := s.live.EndRoom(ctx, sum.SessionID); err != nil {
		if !errors.Is(err, live.ErrRoomNotFound) && !errors.Is(err, live.ErrInvalidState) {
			return "", err
		}
		log.Debug().Str("session_id", sum.SessionID).Err(err).Msg("room already retired during archive")
	}
	return id, nil
}
