package bots

import (
	"context"
	"errors"
	"testing"
	"time"

	"rivalis-live/internal/config"
	"rivalis-live/internal/store"
)

func TestTargetBotCountBands(t *testing.T) {
	st := newMemBots()
	p := NewPopulationScheduler(st, NewRegistry(st, 1), config.BotsConfig{}, 1)

	for hour := 0; hour < 24; hour++ {
		for i := 0; i < 30; i++ {
			got := p.TargetBotCount(hour)
			if hour < 5 {
				if got < 2 || got > 4 {
					t.Fatalf("hour %d: count %d outside quiet band 2-4", hour, got)
				}
			} else {
				if got < 10 || got > 15 {
					t.Fatalf("hour %d: count %d outside daytime band 10-15", hour, got)
				}
			}
		}
	}
}

func TestEvaluateEnsuresPool(t *testing.T) {
	st := newMemBots()
	p := NewPopulationScheduler(st, NewRegistry(st, 1), config.BotsConfig{}, 1)
	p.now = func() time.Time {
		return time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC) // daytime
	}

	ids := p.evaluate(context.Background())
	if len(ids) < 10 || len(ids) > 15 {
		t.Fatalf("evaluated pool size = %d, want 10-15", len(ids))
	}
	stored, _ := st.ListBots(context.Background())
	if len(stored) != len(ids) {
		t.Fatalf("stored %d bots, evaluate reported %d", len(stored), len(ids))
	}
}

func TestHeartbeatIsolatesFailures(t *testing.T) {
	st := newMemBots()
	reg := NewRegistry(st, 1)
	ctx := context.Background()
	if _, err := reg.EnsureBotsOnline(ctx, 3); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	st.failIDs[BotID(1)] = errors.New("write failed")

	p := NewPopulationScheduler(st, reg, config.BotsConfig{}, 1)
	p.heartbeat(ctx, []string{BotID(0), BotID(1), BotID(2)}, time.Now())

	for _, id := range []string{BotID(0), BotID(2)} {
		state := st.presence[id]
		if state != store.PresenceBrowsing && state != store.PresenceIdle {
			t.Errorf("bot %s presence = %q, want browsing or idle", id, state)
		}
	}
	if _, ok := st.presence[BotID(1)]; ok {
		t.Error("failing bot should have no presence write")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	st := newMemBots()
	p := NewPopulationScheduler(st, NewRegistry(st, 1), config.BotsConfig{
		PresenceInterval: time.Hour,
		ReevalInterval:   time.Hour,
	}, 1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
