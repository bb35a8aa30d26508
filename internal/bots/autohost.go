package bots

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"rivalis-live/internal/app/live"
	"rivalis-live/internal/config"
)

var hostShowdowns = []string{"Pushups", "Squats", "Burpees", "Plank"}

// HostOrchestrator guarantees there is always something to spectate: when no
// room is waiting or playing, it spins up a bot-hosted one and starts it.
// Two instances can race on the emptiness check; a duplicate bot room is
// accepted and resolves itself once idle.
type HostOrchestrator struct {
	live     *live.Service
	registry *Registry
	cfg      config.BotsConfig
}

func NewHostOrchestrator(liveSvc *live.Service, reg *Registry, cfg config.BotsConfig) *HostOrchestrator {
	return &HostOrchestrator{live: liveSvc, registry: reg, cfg: cfg}
}

func (o *HostOrchestrator) Run(ctx context.Context) {
	o.tick(ctx)
	ticker := time.NewTicker(o.cfg.AutoHostInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			o.tick(ctx)
		}
	}
}

func (o *HostOrchestrator) tick(ctx context.Context) {
	roomID, err := o.EnsureBotHostedLobby(ctx, o.cfg.RoomMinPlayers, o.cfg.RoomMaxPlayers)
	if err != nil {
		log.Warn().Err(err).Msg("bot auto-host iteration failed")
		return
	}
	if roomID != "" {
		log.Info().Str("room_id", roomID).Msg("bot-hosted room started")
	}
}

// EnsureBotHostedLobby is a no-op while any room is active. Otherwise it
// creates a room with a bot host, fills it with ready bots and starts it.
func (o *HostOrchestrator) EnsureBotHostedLobby(ctx context.Context, minPlayers, maxPlayers int) (string, error) {
	active, err := o.live.ListActiveRooms(ctx)
	if err != nil {
		return "", err
	}
	if len(active) > 0 {
		return "", nil
	}

	crew, err := o.registry.EnsureBotsOnline(ctx, maxPlayers)
	if err != nil {
		return "", err
	}
	host := crew[0]
	showdown := hostShowdowns[o.registry.Intn(len(hostShowdowns))]
	room, err := o.live.CreateRoom(ctx, live.CreateRoomParams{
		HostID:     host.ID,
		HostName:   host.Nickname,
		HostAvatar: host.AvatarRef,
		Mode:       "classic",
		Showdown:   showdown,
		Exercise:   showdown,
		MinPlayers: minPlayers,
		MaxPlayers: maxPlayers,
	})
	if err != nil {
		return "", err
	}

	for _, bot := range crew[1:] {
		if err := o.live.JoinRoom(ctx, room.ID, bot.ID, bot.Nickname, bot.AvatarRef); err != nil {
			log.Warn().Err(err).Str("bot_id", bot.ID).Str("room_id", room.ID).Msg("bot join failed")
			continue
		}
		if err := o.live.SetReady(ctx, room.ID, bot.ID, true); err != nil {
			log.Warn().Err(err).Str("bot_id", bot.ID).Str("room_id", room.ID).Msg("bot ready failed")
		}
	}
	if err := o.live.SetReady(ctx, room.ID, host.ID, true); err != nil {
		return "", err
	}
	if err := o.live.StartRoom(ctx, room.ID, host.ID); err != nil {
		return "", err
	}
	return room.ID, nil
}
