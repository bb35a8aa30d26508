package bots

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"

	"rivalis-live/internal/config"
	"rivalis-live/internal/store"
)

// PopulationScheduler keeps a time-of-day-sized pool of bots present:
// a skeleton crew through the night, a full roster otherwise.
type PopulationScheduler struct {
	store    BotStore
	registry *Registry
	cfg      config.BotsConfig
	rand     *rand.Rand
	now      func() time.Time
}

func NewPopulationScheduler(st BotStore, reg *Registry, cfg config.BotsConfig, seed int64) *PopulationScheduler {
	return &PopulationScheduler{
		store:    st,
		registry: reg,
		cfg:      cfg,
		rand:     rand.New(rand.NewSource(seed)),
		now:      time.Now,
	}
}

// TargetBotCount picks the pool size for an hour of day. The exact bounds
// are a policy knob; the quiet window (00:00-04:59) always stays below the
// daytime range.
func (p *PopulationScheduler) TargetBotCount(hour int) int {
	if hour >= 0 && hour < 5 {
		return 2 + p.rand.Intn(3) // 2-4
	}
	return 10 + p.rand.Intn(6) // 10-15
}

// Run drives the presence loop until ctx is cancelled. Each presence tick
// refreshes every bot's heartbeat; each re-evaluation tick recomputes the
// target count and re-ensures the pool. One bot's write failure never stops
// the others or the loop.
func (p *PopulationScheduler) Run(ctx context.Context) {
	botIDs := p.evaluate(ctx)

	presence := time.NewTicker(p.cfg.PresenceInterval)
	reeval := time.NewTicker(p.cfg.ReevalInterval)
	defer presence.Stop()
	defer reeval.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-presence.C:
			p.heartbeat(ctx, botIDs, now)
		case <-reeval.C:
			botIDs = p.evaluate(ctx)
		}
	}
}

func (p *PopulationScheduler) evaluate(ctx context.Context) []string {
	target := p.TargetBotCount(p.now().Hour())
	online, err := p.registry.EnsureBotsOnline(ctx, target)
	if err != nil {
		log.Error().Err(err).Int("target", target).Msg("ensure bots online failed")
		return nil
	}
	ids := make([]string, len(online))
	for i, b := range online {
		ids[i] = b.ID
	}
	log.Info().Int("target", target).Msg("bot population evaluated")
	return ids
}

func (p *PopulationScheduler) heartbeat(ctx context.Context, botIDs []string, now time.Time) {
	for _, id := range botIDs {
		state := store.PresenceBrowsing
		if p.rand.Intn(2) == 0 {
			state = store.PresenceIdle
		}
		if err := p.store.UpdateBotPresence(ctx, id, state, now.UTC()); err != nil {
			log.Warn().Err(err).Str("bot_id", id).Msg("bot heartbeat failed")
		}
	}
}
