package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// AwardReward applies a ledger key at most once. In one serializable
// transaction it reads the reward event for key; if present it returns the
// current balance untouched, otherwise it increments the user's ticket
// balance and writes the event row. Serialization failures and duplicate-key
// races surface as ErrConflict so the caller can retry.
func (s *Store) AwardReward(ctx context.Context, key, userID string, amount int64) (awarded bool, balance int64, err error) {
	tx, err := s.DB.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return false, 0, err
	}
	defer tx.Rollback()

	var existingUser string
	err = tx.QueryRowContext(ctx, `SELECT user_id FROM reward_events WHERE key = $1`, key).Scan(&existingUser)
	switch {
	case err == nil:
		if err := tx.QueryRowContext(ctx,
			`SELECT ticket_balance FROM users WHERE id = $1`, existingUser).Scan(&balance); err != nil {
			return false, 0, err
		}
		if err := tx.Commit(); err != nil {
			return false, 0, mapConflict(err)
		}
		return false, balance, nil
	case errors.Is(err, sql.ErrNoRows):
		// first application of this key
	default:
		return false, 0, err
	}

	err = tx.QueryRowContext(ctx,
		`UPDATE users SET ticket_balance = ticket_balance + $2 WHERE id = $1 RETURNING ticket_balance`,
		userID, amount).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, 0, fmt.Errorf("award %s: %w", userID, ErrNotFound)
		}
		return false, 0, mapConflict(err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO reward_events (key, user_id, amount) VALUES ($1,$2,$3)`, key, userID, amount); err != nil {
		return false, 0, mapConflict(err)
	}
	if err := tx.Commit(); err != nil {
		return false, 0, mapConflict(err)
	}
	return true, balance, nil
}

func mapConflict(err error) error {
	if isRetryable(err) {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}
