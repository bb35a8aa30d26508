package httptransport

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"rivalis-live/internal/app/live"
	"rivalis-live/internal/bots"
	"rivalis-live/internal/store"
)

// BotDirectory is the slice of the user store the admin console reads and
// pokes.
type BotDirectory interface {
	ListBots(ctx context.Context) ([]*store.User, error)
	GetUser(ctx context.Context, id string) (*store.User, error)
	UpdateBotPresence(ctx context.Context, id, state string, at time.Time) error
}

// BotHandlers is the admin console surface over the synthetic pool.
type BotHandlers struct {
	store BotDirectory
	live  *live.Service
}

func NewBotHandlers(dir BotDirectory, liveSvc *live.Service) *BotHandlers {
	return &BotHandlers{store: dir, live: liveSvc}
}

func (h *BotHandlers) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roster, err := h.store.ListBots(r.Context())
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		WriteJSON(w, map[string]any{"success": true, "bots": roster})
	}
}

// ForceJoin pushes one bot into the first waiting room with a free seat.
func (h *BotHandlers) ForceJoin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		botID := chi.URLParam(r, "bot_id")
		if !bots.IsBotID(botID) {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		bot, err := h.store.GetUser(r.Context(), botID)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		rooms, err := h.live.ListActiveRooms(r.Context())
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		for _, room := range rooms {
			if room.Status != store.RoomStatusWaiting || room.HasPlayer(botID) || len(room.Players) >= room.MaxPlayers {
				continue
			}
			if err := h.live.JoinRoom(r.Context(), room.ID, bot.ID, bot.Nickname, bot.AvatarRef); err != nil {
				continue
			}
			_ = h.live.SetReady(r.Context(), room.ID, bot.ID, true)
			WriteJSON(w, map[string]any{"success": true, "roomId": room.ID})
			return
		}
		WriteHTTPError(w, http.StatusConflict, "no_joinable_room")
	}
}

// ForceLeave parks a bot: it drops to idle presence and stops being picked
// by the fillers until the next scheduler pass.
func (h *BotHandlers) ForceLeave() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		botID := chi.URLParam(r, "bot_id")
		if !bots.IsBotID(botID) {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		if err := h.store.UpdateBotPresence(r.Context(), botID, store.PresenceIdle, time.Now().UTC()); err != nil {
			writeStoreError(w, err)
			return
		}
		WriteJSON(w, map[string]any{"success": true})
	}
}

func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		WriteHTTPError(w, http.StatusNotFound, "not_found")
		return
	}
	WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
}
