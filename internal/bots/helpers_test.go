package bots

import (
	"context"
	"fmt"
	"sync"
	"time"

	"rivalis-live/internal/store"
)

// memBots is an in-memory BotStore. Upserts are idempotent on id, matching
// the SQL store's ON CONFLICT DO NOTHING.
type memBots struct {
	mu       sync.Mutex
	users    map[string]*store.User
	presence map[string]string
	failIDs  map[string]error
}

func newMemBots() *memBots {
	return &memBots{
		users:    make(map[string]*store.User),
		presence: make(map[string]string),
		failIDs:  make(map[string]error),
	}
}

func (m *memBots) UpsertBot(_ context.Context, u *store.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; ok {
		return nil
	}
	c := *u
	m.users[u.ID] = &c
	return nil
}

func (m *memBots) ListBots(_ context.Context) ([]*store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*store.User, 0, len(m.users))
	for _, u := range m.users {
		c := *u
		out = append(out, &c)
	}
	return out, nil
}

func (m *memBots) UpdateBotPresence(_ context.Context, id, state string, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failIDs[id]; ok {
		return err
	}
	if _, ok := m.users[id]; !ok {
		return store.ErrNotFound
	}
	m.presence[id] = state
	return nil
}

// memRooms mirrors the SQL room store for the orchestrator and filler tests.
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
	var out []*store.Room
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
