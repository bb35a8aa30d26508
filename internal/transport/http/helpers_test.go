package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"rivalis-live/internal/app/archive"
	"rivalis-live/internal/app/live"
	"rivalis-live/internal/app/rewards"
	"rivalis-live/internal/store"
)

type memRooms struct {
	mu    sync.Mutex
	seq   int
	rooms map[string]*store.Room
}

func newMemRooms() *memRooms {
	return &memRooms{rooms: make(map[string]*store.Room)}
}

func copyRoom(r *store.Room) *store.Room {
	c := *r
	c.Players = append([]store.Player(nil), r.Players...)
	return &c
}

func (m *memRooms) CreateRoom(_ context.Context, r *store.Room) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	id := fmt.Sprintf("room_%03d", m.seq)
	c := copyRoom(r)
	c.ID = id
	m.rooms[id] = c
	return id, nil
}

func (m *memRooms) GetRoom(_ context.Context, id string) (*store.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return copyRoom(r), nil
}

func (m *memRooms) UpdateRoom(_ context.Context, id string, mutate func(*store.Room) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[id]
	if !ok {
		return store.ErrNotFound
	}
	c := copyRoom(r)
	if err := mutate(c); err != nil {
		return err
	}
	m.rooms[id] = c
	return nil
}

func (m *memRooms) DeleteRoom(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rooms, id)
	return nil
}

func (m *memRooms) ListRoomsByStatus(_ context.Context, statuses ...string) ([]*store.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*store.Room{}
	for _, r := range m.rooms {
		for _, s := range statuses {
			if r.Status == s {
				out = append(out, copyRoom(r))
				break
			}
		}
	}
	return out, nil
}

type memRewards struct {
	mu       sync.Mutex
	applied  map[string]bool
	balances map[string]int64
}

func newMemRewards() *memRewards {
	return &memRewards{applied: make(map[string]bool), balances: make(map[string]int64)}
}

func (m *memRewards) AwardReward(_ context.Context, key, userID string, amount int64) (bool, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.balances[userID]; !ok {
		return false, 0, store.ErrNotFound
	}
	if m.applied[key] {
		return false, m.balances[userID], nil
	}
	m.applied[key] = true
	m.balances[userID] += amount
	return true, m.balances[userID], nil
}

type memArchive struct {
	mu      sync.Mutex
	seq     int
	entries []*store.ArchiveEntry
}

func (m *memArchive) InsertArchive(_ context.Context, e *store.ArchiveEntry) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	m.entries = append(m.entries, e)
	return fmt.Sprintf("arc_%03d", m.seq), nil
}

type memDirectory struct {
	mu       sync.Mutex
	users    map[string]*store.User
	presence map[string]string
}

func newMemDirectory() *memDirectory {
	return &memDirectory{users: make(map[string]*store.User), presence: make(map[string]string)}
}

func (m *memDirectory) ListBots(_ context.Context) ([]*store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*store.User
	for _, u := range m.users {
		if u.IsBot {
			c := *u
			out = append(out, &c)
		}
	}
	return out, nil
}

func (m *memDirectory) GetUser(_ context.Context, id string) (*store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (m *memDirectory) UpdateBotPresence(_ context.Context, id, state string, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return store.ErrNotFound
	}
	m.presence[id] = state
	return nil
}

// testEnv wires the handlers onto a router the same way NewRouter does,
// with in-memory stores instead of Postgres.
type testEnv struct {
	router  *chi.Mux
	rooms   *memRooms
	rewards *memRewards
	archive *memArchive
	dir     *memDirectory
	liveSvc *live.Service
}

const (
	testHubSecret = "hub-secret"
	testAdminKey  = "admin-key"
)

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		rooms:   newMemRooms(),
		rewards: newMemRewards(),
		archive: &memArchive{},
		dir:     newMemDirectory(),
	}
	env.liveSvc = live.NewService(env.rooms, nil, nil, time.Second)
	ledger := rewards.NewLedger(env.rewards)
	archiveSvc := archive.NewService(env.archive, env.liveSvc)

	roomHandlers := NewRoomHandlers(env.liveSvc)
	sessionHandlers := NewSessionHandlers(archiveSvc, ledger, 100)
	botHandlers := NewBotHandlers(env.dir, env.liveSvc)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Get("/rooms", roomHandlers.List())
		r.Post("/rooms", roomHandlers.Create())
		r.Post("/rooms/{room_id}/join", roomHandlers.Join())
		r.Post("/rooms/{room_id}/ready", roomHandlers.Ready())
		r.Post("/rooms/{room_id}/start", roomHandlers.Start())
		r.Post("/rooms/{room_id}/touch", roomHandlers.Touch())
		r.Post("/rooms/{room_id}/end", roomHandlers.End())

		r.Group(func(r chi.Router) {
			r.Use(SecretAuthMiddleware(testHubSecret))
			r.Post("/sessions/ended", sessionHandlers.SessionEnded())
			r.Post("/share-bonus", sessionHandlers.ShareBonus())
		})

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(testAdminKey))
			r.Get("/bots", botHandlers.List())
			r.Post("/bots/{bot_id}/join", botHandlers.ForceJoin())
			r.Post("/bots/{bot_id}/leave", botHandlers.ForceLeave())
		})
	})
	env.router = r
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func hubAuth() map[string]string {
	return map[string]string{"Authorization": "Bearer " + testHubSecret}
}

func adminAuth() map[string]string {
	return map[string]string{"X-Admin-Key": testAdminKey}
}
