package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	"rivalis-live/internal/app/archive"
	"rivalis-live/internal/app/rewards"
)

type SessionHandlers struct {
	archive      *archive.Service
	ledger       *rewards.Ledger
	bonusTickets int64
}

func NewSessionHandlers(archiveSvc *archive.Service, ledger *rewards.Ledger, bonusTickets int64) *SessionHandlers {
	return &SessionHandlers{archive: archiveSvc, ledger: ledger, bonusTickets: bonusTickets}
}

// SessionEnded archives a finished session's summary and retires its room.
func (h *SessionHandlers) SessionEnded() http.HandlerFunc {
	type request struct {
		SessionID        string          `json:"sessionId"`
		FinalLeaderboard json.RawMessage `json:"finalLeaderboard"`
		Winner           string          `json:"winner"`
		DurationMS       int64           `json:"durationMs"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := DecodeJSON(r, &req); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		_, err := h.archive.ArchiveSession(r.Context(), archive.SessionSummary{
			SessionID:        req.SessionID,
			FinalLeaderboard: req.FinalLeaderboard,
			Winner:           req.Winner,
			DurationMS:       req.DurationMS,
		})
		if err != nil {
			if errors.Is(err, archive.ErrInvalidRequest) {
				WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
				return
			}
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, map[string]any{"success": true, "sessionId": req.SessionID})
	}
}

// ShareBonus awards the social-share ticket bonus at most once per session
// per platform, no matter how many times the client retries.
func (h *SessionHandlers) ShareBonus() http.HandlerFunc {
	type request struct {
		UserID       string `json:"userId"`
		SessionID    string `json:"sessionId"`
		Platform     string `json:"platform"`
		BonusTickets int64  `json:"bonusTickets"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := DecodeJSON(r, &req); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		if req.UserID == "" || req.SessionID == "" || req.Platform == "" {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		amount := req.BonusTickets
		if amount <= 0 {
			amount = h.bonusTickets
		}
		key := req.SessionID + "_" + req.Platform
		res, err := h.ledger.AwardOnce(r.Context(), key, req.UserID, amount)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if !res.Awarded {
			WriteJSON(w, map[string]any{"success": true, "alreadyAwarded": true, "balance": res.Balance})
			return
		}
		WriteJSON(w, map[string]any{"success": true, "awardedTickets": amount, "balance": res.Balance})
	}
}
