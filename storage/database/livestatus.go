package database

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/kwachira/ratiba/core/livestatus"
)

// liveStatusPublisher persists the personal live-status records for one
// user. Writes are best-effort from the state machine's perspective; the
// machine logs failures and never retries.
type liveStatusPublisher struct {
	db     *sqlx.DB
	userID string
}

var _ livestatus.Publisher = (*liveStatusPublisher)(nil) // interface compliance check

func NewLiveStatusPublisher(db *sqlx.DB, userID string) *liveStatusPublisher {
	return &liveStatusPublisher{db: db, userID: userID}
}

func (pub liveStatusPublisher) StartStatus(ctx context.Context, rec livestatus.Record) error {
	_, err := pub.db.ExecContext(ctx,
		`INSERT INTO live_statuses
		   (activity_id, user_id, class_name, teacher, room, activity, color_hex,
		    block_label, starts_at, ends_at, remaining, progress, as_of)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		rec.ActivityID, pub.userID, rec.ClassName, rec.Teacher, rec.Room, rec.Activity,
		rec.ColorHex, rec.BlockLabel, rec.StartsAt, rec.EndsAt,
		int64(rec.Content.TimeRemaining), rec.Content.Progress, rec.Content.AsOf)
	return errors.Wrap(err, "inserting live status")
}

func (pub liveStatusPublisher) UpdateStatus(ctx context.Context, rec livestatus.Record) error {
	_, err := pub.db.ExecContext(ctx,
		`UPDATE live_statuses SET remaining = $2, progress = $3, as_of = $4 WHERE activity_id = $1`,
		rec.ActivityID, int64(rec.Content.TimeRemaining), rec.Content.Progress, rec.Content.AsOf)
	return errors.Wrap(err, "updating live status")
}

func (pub liveStatusPublisher) EndStatus(ctx context.Context, activityID string, at time.Time) error {
	_, err := pub.db.ExecContext(ctx,
		`UPDATE live_statuses SET ended_at = $2 WHERE activity_id = $1 AND ended_at IS NULL`,
		activityID, at)
	return errors.Wrap(err, "ending live status")
}
