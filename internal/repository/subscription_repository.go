package repository

import (
	"context"
	"database/sql"
)

// SubscriptionRepo manages the (channel, subscriber) edge records that
// back the channel profile aggregates.
type SubscriptionRepo struct{ DB *sql.DB }

func NewSubscriptionRepo(db *sql.DB) *SubscriptionRepo { return &SubscriptionRepo{DB: db} }

// Toggle subscribes subscriberID to channelID, or unsubscribes when the
// edge already exists. Returns whether the subscriber follows the channel
// after the call. The delete-first ordering keeps the toggle idempotent
// under retries.
func (r *SubscriptionRepo) Toggle(ctx context.Context, channelID, subscriberID uint64) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM subscriptions WHERE channel_id=? AND subscriber_id=?",
		channelID, subscriberID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil // edge existed, now removed
	}
	if _, err := r.DB.ExecContext(ctx,
		"INSERT INTO subscriptions (channel_id, subscriber_id) VALUES (?,?)",
		channelID, subscriberID); err != nil {
		if isFKViolation(err) {
			return false, ErrNotFound
		}
		return false, err
	}
	return true, nil
}
