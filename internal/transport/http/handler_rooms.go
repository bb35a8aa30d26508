package httptransport

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"rivalis-live/internal/app/live"
	"rivalis-live/internal/app/rewards"
)

type RoomHandlers struct {
	live *live.Service
}

func NewRoomHandlers(liveSvc *live.Service) *RoomHandlers {
	return &RoomHandlers{live: liveSvc}
}

func (h *RoomHandlers) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rooms, err := h.live.ListActiveRooms(r.Context())
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		WriteJSON(w, map[string]any{"success": true, "rooms": rooms})
	}
}

func (h *RoomHandlers) Create() http.HandlerFunc {
	type request struct {
		HostID     string `json:"hostId"`
		HostName   string `json:"hostName"`
		HostAvatar string `json:"hostAvatar"`
		Mode       string `json:"mode"`
		Showdown   string `json:"showdown"`
		Exercise   string `json:"exercise"`
		MinPlayers int    `json:"minPlayers"`
		MaxPlayers int    `json:"maxPlayers"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := DecodeJSON(r, &req); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		room, err := h.live.CreateRoom(r.Context(), live.CreateRoomParams{
			HostID:     req.HostID,
			HostName:   req.HostName,
			HostAvatar: req.HostAvatar,
			Mode:       req.Mode,
			Showdown:   req.Showdown,
			Exercise:   req.Exercise,
			MinPlayers: req.MinPlayers,
			MaxPlayers: req.MaxPlayers,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, map[string]any{
			"success":          true,
			"roomId":           room.ID,
			"voiceChannelLink": room.VoiceChannelLink,
		})
	}
}

func (h *RoomHandlers) Join() http.HandlerFunc {
	type request struct {
		UserID      string `json:"userId"`
		DisplayName string `json:"displayName"`
		Avatar      string `json:"avatar"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := DecodeJSON(r, &req); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		roomID := chi.URLParam(r, "room_id")
		if err := h.live.JoinRoom(r.Context(), roomID, req.UserID, req.DisplayName, req.Avatar); err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, map[string]any{"success": true})
	}
}

func (h *RoomHandlers) Ready() http.HandlerFunc {
	type request struct {
		UserID string `json:"userId"`
		Ready  bool   `json:"ready"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := DecodeJSON(r, &req); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		roomID := chi.URLParam(r, "room_id")
		if err := h.live.SetReady(r.Context(), roomID, req.UserID, req.Ready); err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, map[string]any{"success": true})
	}
}

func (h *RoomHandlers) Start() http.HandlerFunc {
	type request struct {
		UserID string `json:"userId"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := DecodeJSON(r, &req); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		roomID := chi.URLParam(r, "room_id")
		if err := h.live.StartRoom(r.Context(), roomID, req.UserID); err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, map[string]any{"success": true})
	}
}

func (h *RoomHandlers) Touch() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := chi.URLParam(r, "room_id")
		if err := h.live.TouchRoom(r.Context(), roomID); err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, map[string]any{"success": true})
	}
}

func (h *RoomHandlers) End() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := chi.URLParam(r, "room_id")
		if err := h.live.EndRoom(r.Context(), roomID); err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, map[string]any{"success": true})
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, live.ErrInvalidRequest), errors.Is(err, rewards.ErrInvalidRequest):
		WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
	case errors.Is(err, live.ErrRoomNotFound):
		WriteHTTPError(w, http.StatusNotFound, "room_not_found")
	case errors.Is(err, live.ErrPlayerNotFound):
		WriteHTTPError(w, http.StatusNotFound, "player_not_found")
	case errors.Is(err, rewards.ErrUserNotFound):
		WriteHTTPError(w, http.StatusNotFound, "user_not_found")
	case errors.Is(err, live.ErrRoomFull):
		WriteHTTPError(w, http.StatusConflict, "room_full")
	case errors.Is(err, live.ErrInvalidState):
		WriteHTTPError(w, http.StatusConflict, "invalid_state")
	case errors.Is(err, rewards.ErrConflict):
		WriteHTTPError(w, http.StatusServiceUnavailable, "conflict")
	default:
		WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
	}
}
