package bots

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"rivalis-live/internal/app/live"
	"rivalis-live/internal/config"
	"rivalis-live/internal/store"
)

// LobbyFiller tops up human-hosted waiting rooms with one ready bot per tick.
// The pre-join capacity check only trims wasted attempts; JoinRoom's own
// transactional full check is what keeps the room within maxPlayers.
type LobbyFiller struct {
	live     *live.Service
	registry *Registry
	cfg      config.BotsConfig
}

func NewLobbyFiller(liveSvc *live.Service, reg *Registry, cfg config.BotsConfig) *LobbyFiller {
	return &LobbyFiller{live: liveSvc, registry: reg, cfg: cfg}
}

func (f *LobbyFiller) Run(ctx context.Context) {
	f.tick(ctx)
	ticker := time.NewTicker(f.cfg.FillInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			f.tick(ctx)
		}
	}
}

func (f *LobbyFiller) tick(ctx context.Context) {
	if err := f.FillUserLobbies(ctx); err != nil {
		log.Warn().Err(err).Msg("lobby fill iteration failed")
	}
}

// FillUserLobbies joins one bot into every user-hosted waiting room that
// still has a seat.
func (f *LobbyFiller) FillUserLobbies(ctx context.Context) error {
	rooms, err := f.live.ListActiveRooms(ctx)
	if err != nil {
		return err
	}
	lobbies := make([]*store.Room, 0, len(rooms))
	for _, r := range rooms {
		if r.Status != store.RoomStatusWaiting || IsBotID(r.HostID) {
			continue
		}
		if len(r.Players) < r.MaxPlayers {
			lobbies = append(lobbies, r)
		}
	}
	if len(lobbies) == 0 {
		return nil
	}

	crew, err := f.registry.EnsureBotsOnline(ctx, 10)
	if err != nil {
		return err
	}
	for _, lobby := range lobbies {
		// Re-read right before joining; the list above can be stale.
		current, err := f.live.GetRoom(ctx, lobby.ID)
		if err != nil {
			continue
		}
		if current.Status != store.RoomStatusWaiting || len(current.Players) >= current.MaxPlayers {
			continue
		}
		bot := pickFreeBot(crew, current, f.registry.Intn(len(crew)))
		if bot == nil {
			continue
		}
		if err := f.live.JoinRoom(ctx, lobby.ID, bot.ID, bot.Nickname, bot.AvatarRef); err != nil {
			log.Debug().Err(err).Str("room_id", lobby.ID).Str("bot_id", bot.ID).Msg("lobby fill join lost the race")
			continue
		}
		if err := f.live.SetReady(ctx, lobby.ID, bot.ID, true); err != nil {
			log.Warn().Err(err).Str("room_id", lobby.ID).Str("bot_id", bot.ID).Msg("lobby fill ready failed")
		}
	}
	return nil
}

// pickFreeBot scans the crew starting at a random offset for a bot not
// already seated in the room.
func pickFreeBot(crew []*store.User, room *store.Room, start int) *store.User {
	for i := range crew {
		bot := crew[(start+i)%len(crew)]
		if !room.HasPlayer(bot.ID) {
			return bot
		}
	}
	return nil
}

// IsBotID reports whether a user id belongs to the synthetic pool.
func IsBotID(id string) bool {
	return strings.HasPrefix(id, "bot_")
}
