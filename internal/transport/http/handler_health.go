package httptransport

import (
	"context"
	"net/http"
	"time"

	"rivalis-live/internal/app/live"
)

// Pinger reports backing store reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthHandler(db Pinger, liveSvc *live.Service, startedAt time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dbState := "ok"
		status := http.StatusOK
		if err := db.Ping(r.Context()); err != nil {
			dbState = "unreachable"
			status = http.StatusServiceUnavailable
		}
		activeRooms := -1
		if rooms, err := liveSvc.ListActiveRooms(r.Context()); err == nil {
			activeRooms = len(rooms)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		WriteJSON(w, map[string]any{
			"success": status == http.StatusOK,
			"health": map[string]any{
				"db":            dbState,
				"uptimeSeconds": int64(time.Since(startedAt).Seconds()),
				"activeRooms":   activeRooms,
			},
		})
	}
}
