package live

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"rivalis-live/internal/store"
)

// RoomStore is the document-store contract the lifecycle manager runs on.
// UpdateRoom must apply the mutator atomically against the current document;
// a mutator error aborts the write.
type RoomStore interface {
	CreateRoom(ctx context.Context, r *store.Room) (string, error)
	GetRoom(ctx context.Context, id string) (*store.Room, error)
	UpdateRoom(ctx context.Context, id string, mutate func(*store.Room) error) error
	DeleteRoom(ctx context.Context, id string) error
	ListRoomsByStatus(ctx context.Context, statuses ...string) ([]*store.Room, error)
}

// VoiceProvisioner creates and tears down the voice channel for a room.
// Best-effort: callers log failures and move on.
type VoiceProvisioner interface {
	Provision(ctx context.Context, roomID string) (string, error)
	Teardown(ctx context.Context, roomID string) error
}

// EngineBridge delegates rep-scoring sessions to the external compute engine.
type EngineBridge interface {
	CreateSession(ctx context.Context, mode, exercise string) (string, error)
	EndSession(ctx context.Context, sessionID string) error
}

// Service is the only writer of room documents. Every mutation goes through
// a store transaction; side-channel calls happen outside of them.
type Service struct {
	rooms          RoomStore
	voice          VoiceProvisioner
	engine         EngineBridge
	adapterTimeout time.Duration
}

func NewService(rooms RoomStore, voice VoiceProvisioner, engine EngineBridge, adapterTimeout time.Duration) *Service {
	if adapterTimeout <= 0 {
		adapterTimeout = 5 * time.Second
	}
	return &Service{rooms: rooms, voice: voice, engine: engine, adapterTimeout: adapterTimeout}
}

type CreateRoomParams struct {
	HostID     string
	HostName   string
	HostAvatar string
	Mode       string
	Showdown   string
	Exercise   string
	MinPlayers int
	MaxPlayers int
}

// CreateRoom opens a waiting room with the host seated and ready. The engine
// session is requested first (its id rides along in the document); the voice
// channel is provisioned after the room exists, never inside the write.
func (s *Service) CreateRoom(ctx context.Context, p CreateRoomParams) (*store.Room, error) {
	if p.HostID == "" || p.HostName == "" {
		return nil, ErrInvalidRequest
	}
	if p.Mode == "" {
		p.Mode = "classic"
	}
	if p.MinPlayers <= 0 {
		p.MinPlayers = 2
	}
	if p.MaxPlayers < p.MinPlayers {
		p.MaxPlayers = 6
	}

	externalSessionID := ""
	if s.engine != nil {
		cctx, cancel := context.WithTimeout(ctx, s.adapterTimeout)
		id, err := s.engine.CreateSession(cctx, p.Mode, p.Exercise)
		cancel()
		if err != nil {
			log.Warn().Err(err).Str("mode", p.Mode).Msg("engine session create failed, room continues without one")
		} else {
			externalSessionID = id
		}
	}

	now := time.Now().UTC()
	room := &store.Room{
		Name:     roomName(p.Showdown, p.Mode),
		HostID:   p.HostID,
		HostName: p.HostName,
		Status:   store.RoomStatusWaiting,
		Mode:     p.Mode,
		Players: []store.Player{{
			UserID:      p.HostID,
			DisplayName: p.HostName,
			AvatarRef:   p.HostAvatar,
			Ready:       true,
			JoinedAt:    now,
		}},
		MinPlayers:        p.MinPlayers,
		MaxPlayers:        p.MaxPlayers,
		ExternalSessionID: externalSessionID,
		CreatedAt:         now,
		LastActivityAt:    now,
	}
	roomID, err := s.rooms.CreateRoom(ctx, room)
	if err != nil {
		return nil, err
	}
	room.ID = roomID

	if s.voice != nil {
		cctx, cancel := context.WithTimeout(ctx, s.adapterTimeout)
		link, err := s.voice.Provision(cctx, roomID)
		cancel()
		if err != nil {
			log.Warn().Err(err).Str("room_id", roomID).Msg("voice channel provisioning failed")
		} else if link != "" {
			err = s.rooms.UpdateRoom(ctx, roomID, func(r *store.Room) error {
				r.VoiceChannelLink = link
				r.LastActivityAt = time.Now().UTC()
				return nil
			})
			if err != nil {
				log.Warn().Err(err).Str("room_id", roomID).Msg("storing voice link failed")
			} else {
				room.VoiceChannelLink = link
			}
		}
	}
	return room, nil
}

// JoinRoom seats userID in a waiting room. Joining a room you are already in
// is a no-op.
func (s *Service) JoinRoom(ctx context.Context, roomID, userID, displayName, avatar string) error {
	if roomID == "" || userID == "" {
		return ErrInvalidRequest
	}
	err := s.rooms.UpdateRoom(ctx, roomID, func(r *store.Room) error {
		if r.Status != store.RoomStatusWaiting {
			return ErrInvalidState
		}
		if r.HasPlayer(userID) {
			return nil
		}
		if len(r.Players) >= r.MaxPlayers {
			return ErrRoomFull
		}
		r.Players = append(r.Players, store.Player{
			UserID:      userID,
			DisplayName: displayName,
			AvatarRef:   avatar,
			JoinedAt:    time.Now().UTC(),
		})
		r.LastActivityAt = time.Now().UTC()
		return nil
	})
	return mapStoreErr(err)
}

func (s *Service) SetReady(ctx context.Context, roomID, userID string, ready bool) error {
	if roomID == "" || userID == "" {
		return ErrInvalidRequest
	}
	err := s.rooms.UpdateRoom(ctx, roomID, func(r *store.Room) error {
		if r.Status != store.RoomStatusWaiting {
			return ErrInvalidState
		}
		for i := range r.Players {
			if r.Players[i].UserID == userID {
				r.Players[i].Ready = ready
				r.LastActivityAt = time.Now().UTC()
				return nil
			}
		}
		return ErrPlayerNotFound
	})
	return mapStoreErr(err)
}

// StartRoom transitions waiting -> playing once quorum is met and everyone is
// ready. Of two concurrent starts only the first transaction sees "waiting";
// the loser gets ErrInvalidState.
func (s *Service) StartRoom(ctx context.Context, roomID, requestingUserID string) error {
	if roomID == "" {
		return ErrInvalidRequest
	}
	err := s.rooms.UpdateRoom(ctx, roomID, func(r *store.Room) error {
		if r.Status != store.RoomStatusWaiting {
			return ErrInvalidState
		}
		if len(r.Players) < r.MinPlayers {
			return ErrInvalidState
		}
		for _, p := range r.Players {
			if !p.Ready {
				return ErrInvalidState
			}
		}
		now := time.Now().UTC()
		r.Status = store.RoomStatusPlaying
		r.StartedAt = &now
		r.LastActivityAt = now
		return nil
	})
	return mapStoreErr(err)
}

// EndRoom marks the room ended, tears down side-channels best-effort, then
// deletes the document. Adapter failures never roll back the transition.
func (s *Service) EndRoom(ctx context.Context, roomID string) error {
	if roomID == "" {
		return ErrInvalidRequest
	}
	var externalSessionID string
	err := s.rooms.UpdateRoom(ctx, roomID, func(r *store.Room) error {
		if r.Status == store.RoomStatusEnded {
			return ErrInvalidState
		}
		now := time.Now().UTC()
		r.Status = store.RoomStatusEnded
		r.FinishedAt = &now
		r.LastActivityAt = now
		externalSessionID = r.ExternalSessionID
		return nil
	})
	if err != nil {
		return mapStoreErr(err)
	}

	if s.voice != nil {
		cctx, cancel := context.WithTimeout(ctx, s.adapterTimeout)
		if err := s.voice.Teardown(cctx, roomID); err != nil {
			log.Warn().Err(err).Str("room_id", roomID).Msg("voice channel teardown failed")
		}
		cancel()
	}
	if s.engine != nil && externalSessionID != "" {
		cctx, cancel := context.WithTimeout(ctx, s.adapterTimeout)
		if err := s.engine.EndSession(cctx, externalSessionID); err != nil {
			log.Warn().Err(err).Str("session_id", externalSessionID).Msg("engine session end failed")
		}
		cancel()
	}

	return s.rooms.DeleteRoom(ctx, roomID)
}

// TouchRoom records client activity so idle cleanup never reaps a room that
// is still being looked at.
func (s *Service) TouchRoom(ctx context.Context, roomID string) error {
	if roomID == "" {
		return ErrInvalidRequest
	}
	err := s.rooms.UpdateRoom(ctx, roomID, func(r *store.Room) error {
		if r.Status == store.RoomStatusEnded {
			return ErrInvalidState
		}
		r.LastActivityAt = time.Now().UTC()
		return nil
	})
	return mapStoreErr(err)
}

// ListActiveRooms backs the lobby browser: everything joinable or in play.
func (s *Service) ListActiveRooms(ctx context.Context) ([]*store.Room, error) {
	return s.rooms.ListRoomsByStatus(ctx, store.RoomStatusWaiting, store.RoomStatusPlaying)
}

func (s *Service) GetRoom(ctx context.Context, roomID string) (*store.Room, error) {
	r, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return r, nil
}

func roomName(showdown, mode string) string {
	var b strings.Builder
	if showdown != "" {
		b.WriteString(showdown)
		b.WriteString(" ")
	}
	if mode == "chaos" {
		b.WriteString("Chaos ")
	}
	b.WriteString("Arena")
	return b.String()
}

func mapStoreErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrRoomNotFound
	}
	return err
}
