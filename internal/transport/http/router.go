package httptransport

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"rivalis-live/internal/app/archive"
	"rivalis-live/internal/app/live"
	"rivalis-live/internal/app/rewards"
	"rivalis-live/internal/config"
	"rivalis-live/internal/store"
)

func NewRouter(st *store.Store, cfg config.ServerConfig, liveSvc *live.Service, ledger *rewards.Ledger, archiveSvc *archive.Service) *chi.Mux {
	roomHandlers := NewRoomHandlers(liveSvc)
	sessionHandlers := NewSessionHandlers(archiveSvc, ledger, cfg.ShareBonusTickets)
	botHandlers := NewBotHandlers(st, liveSvc)
	startedAt := time.Now()

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.With(APILogMiddleware()).Get("/healthz", HealthHandler(st, liveSvc, startedAt))

	r.Route("/api", func(r chi.Router) {
		r.Use(APILogMiddleware())

		r.Get("/rooms", roomHandlers.List())
		r.Post("/rooms", roomHandlers.Create())
		r.Post("/rooms/{room_id}/join", roomHandlers.Join())
		r.Post("/rooms/{room_id}/ready", roomHandlers.Ready())
		r.Post("/rooms/{room_id}/start", roomHandlers.Start())
		r.Post("/rooms/{room_id}/touch", roomHandlers.Touch())
		r.Post("/rooms/{room_id}/end", roomHandlers.End())

		r.Group(func(r chi.Router) {
			r.Use(SecretAuthMiddleware(cfg.HubSecret))
			r.Post("/sessions/ended", sessionHandlers.SessionEnded())
			r.Post("/share-bonus", sessionHandlers.ShareBonus())
		})

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.AdminAPIKey))
			r.Get("/bots", botHandlers.List())
			r.Post("/bots/{bot_id}/join", botHandlers.ForceJoin())
			r.Post("/bots/{bot_id}/leave", botHandlers.ForceLeave())
		})
	})

	return r
}
