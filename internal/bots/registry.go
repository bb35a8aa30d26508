package bots

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"rivalis-live/internal/store"
)

// BotStore is the slice of the user store the bot subsystem writes to.
type BotStore interface {
	UpsertBot(ctx context.Context, u *store.User) error
	ListBots(ctx context.Context) ([]*store.User, error)
	UpdateBotPresence(ctx context.Context, id, state string, at time.Time) error
}

var botNames = []string{
	"Alex", "Jordan", "Taylor", "Morgan", "Casey", "Riley", "Skyler", "Avery", "Quinn", "Peyton",
	"Jamie", "Drew", "Reese", "Rowan", "Sawyer", "Emerson", "Finley", "Hayden", "Jules", "Kai",
}

var botAvatars = []string{
	"/assets/avatars/avatar1.png",
	"/assets/avatars/avatar2.png",
	"/assets/avatars/avatar3.png",
	"/assets/avatars/avatar4.png",
	"/assets/avatars/avatar5.png",
}

// BotID returns the deterministic identity for the n-th pool slot.
func BotID(n int) string {
	return fmt.Sprintf("bot_%03d", n)
}

// Registry maintains the deterministic pool of synthetic participants.
// The embedded rand is shared by every bot loop, hence the lock.
type Registry struct {
	store  BotStore
	randMu sync.Mutex
	rand   *rand.Rand
}

func NewRegistry(st BotStore, seed int64) *Registry {
	return &Registry{store: st, rand: rand.New(rand.NewSource(seed))}
}

func (g *Registry) Intn(n int) int {
	g.randMu.Lock()
	defer g.randMu.Unlock()
	return g.rand.Intn(n)
}

// Profile rolls a nickname/avatar combination for one bot. The id stays
// deterministic; only the cosmetics are random.
func (g *Registry) Profile() (nickname, username, avatar string) {
	name := botNames[g.Intn(len(botNames))]
	username = fmt.Sprintf("%s%04d", strings.ToLower(name), g.Intn(10000))
	return name, username, botAvatars[g.Intn(len(botAvatars))]
}

// EnsureBotsOnline upserts bot_000..bot_(n-1) and returns their records.
// Calling it twice does not create twice the bots.
func (g *Registry) EnsureBotsOnline(ctx context.Context, n int) ([]*store.User, error) {
	out := make([]*store.User, 0, n)
	for i := 0; i < n; i++ {
		nickname, username, avatar := g.Profile()
		bot := &store.User{
			ID:        BotID(i),
			Nickname:  nickname,
			Username:  username,
			AvatarRef: avatar,
			IsBot:     true,
		}
		if err := g.store.UpsertBot(ctx, bot); err != nil {
			return nil, fmt.Errorf("ensure bot %s: %w", bot.ID, err)
		}
		out = append(out, bot)
	}
	return out, nil
}
