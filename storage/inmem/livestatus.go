package inmem

import (
	"context"
	"time"

	"github.com/kwachira/ratiba/core/livestatus"
)

type liveStatusPublisher struct {
	db *liveTable
}

var _ livestatus.Publisher = (*liveStatusPublisher)(nil)

func NewLiveStatusPublisher(db *DB) *liveStatusPublisher {
	return &liveStatusPublisher{db: db.live}
}

func (pub *liveStatusPublisher) StartStatus(ctx context.Context, rec livestatus.Record) error {
	pub.db.mutex.Lock()
	defer pub.db.mutex.Unlock()

	pub.db.t[rec.ActivityID] = rec
	return nil
}

func (pub *liveStatusPublisher) UpdateStatus(ctx context.Context, rec livestatus.Record) error {
	pub.db.mutex.Lock()
	defer pub.db.mutex.Unlock()

	pub.db.t[rec.ActivityID] = rec
	return nil
}

func (pub *liveStatusPublisher) EndStatus(ctx context.Context, activityID string, at time.Time) error {
	pub.db.mutex.Lock()
	defer pub.db.mutex.Unlock()

	if rec, ok := pub.db.t[activityID]; ok {
		ended := at
		rec.EndedAt = &ended
		pub.db.t[activityID] = rec
	}
	return nil
}

// Records returns a snapshot of everything written, for tests.
func (pub *liveStatusPublisher) Records() []livestatus.Record {
	pub.db.mutex.RLock()
	defer pub.db.mutex.RUnlock()

	records := make([]livestatus.Record, 0, len(pub.db.t))
	for _, rec := range pub.db.t {
		records = append(records, rec)
	}
	return records
}
