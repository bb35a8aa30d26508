package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"rivalis-live/internal/app/archive"
	"rivalis-live/internal/app/live"
	"rivalis-live/internal/app/rewards"
	"rivalis-live/internal/bots"
	"rivalis-live/internal/config"
	"rivalis-live/internal/external"
	"rivalis-live/internal/logging"
	"rivalis-live/internal/store"
	httptransport "rivalis-live/internal/transport/http"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadApp()
	if err != nil {
		panic(err)
	}
	logging.Init(cfg.Log)

	st, err := store.New(cfg.Server.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("store init failed")
	}
	defer st.Close()
	if err := st.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("db ping failed")
	}
	if err := st.MigrateUp(); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}

	var voice live.VoiceProvisioner
	if cfg.Server.DiscordBotURL != "" {
		voice = external.NewVoiceClient(cfg.Server.DiscordBotURL, cfg.Server.AdapterTimeout)
	}
	var engine live.EngineBridge
	if cfg.Server.UseLiveEngineRooms && cfg.Server.LiveEngineURL != "" {
		engine = external.NewEngineClient(cfg.Server.LiveEngineURL, cfg.Server.AdapterTimeout)
	}

	liveSvc := live.NewService(st, voice, engine, cfg.Server.AdapterTimeout)
	ledger := rewards.NewLedger(st)
	archiveSvc := archive.NewService(st, liveSvc)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Bots.Enabled {
		registry := bots.NewRegistry(st, time.Now().UnixNano())
		go bots.NewPopulationScheduler(st, registry, cfg.Bots, time.Now().UnixNano()).Run(ctx)
		go bots.NewHostOrchestrator(liveSvc, registry, cfg.Bots).Run(ctx)
		go bots.NewLobbyFiller(liveSvc, registry, cfg.Bots).Run(ctx)
		log.Info().Msg("bot schedulers running")
	}

	router := httptransport.NewRouter(st, cfg.Server, liveSvc, ledger, archiveSvc)
	server := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Server.HTTPAddr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
}
