package rewards

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"rivalis-live/internal/store"
)

const (
	maxAttempts  = 3
	retryBackoff = 25 * time.Millisecond
)

// RewardStore applies a ledger key and its balance increment in one
// serializable transaction. It reports store.ErrConflict on contention.
type RewardStore interface {
	AwardReward(ctx context.Context, key, userID string, amount int64) (awarded bool, balance int64, err error)
}

// Result of an AwardOnce call. Balance always reflects exactly one
// application of the amount for the given key.
type Result struct {
	Awarded bool  `json:"awarded"`
	Balance int64 `json:"balance"`
}

// Ledger issues in-game currency at most once per ledger key.
type Ledger struct {
	store RewardStore
}

func NewLedger(store RewardStore) *Ledger {
	return &Ledger{store: store}
}

// AwardOnce increments userID's balance by amount unless key was already
// applied. Transaction conflicts are retried a bounded number of times;
// after that ErrConflict surfaces and the caller may safely retry with the
// same key.
func (l *Ledger) AwardOnce(ctx context.Context, key, userID string, amount int64) (Result, error) {
	if key == "" || userID == "" || amount <= 0 {
		return Result{}, ErrInvalidRequest
	}
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		awarded, balance, err := l.store.AwardReward(ctx, key, userID, amount)
		switch {
		case err == nil:
			return Result{Awarded: awarded, Balance: balance}, nil
		case errors.Is(err, store.ErrNotFound):
			return Result{}, ErrUserNotFound
		case errors.Is(err, store.ErrConflict):
			lastErr = err
			log.Debug().Str("key", key).Int("attempt", attempt).Msg("reward transaction conflict, retrying")
			select {
			case <-ctx.Done():
				return Result{}, ctx.Err()
			case <-time.After(retryBackoff * time.Duration(attempt)):
			}
		default:
			return Result{}, err
		}
	}
	return Result{}, errors.Join(ErrConflict, lastErr)
}
