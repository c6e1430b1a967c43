package inmem

import (
	"context"
	"time"

	"github.com/kwachira/ratiba/core/schedule"
)

type overrideRepository struct {
	db *overrideTable
}

var _ schedule.Repository = (*overrideRepository)(nil)

func NewOverrideRepository(db *DB) *overrideRepository {
	return &overrideRepository{db: db.overrides}
}

func (r *overrideRepository) GetOverrideByDate(ctx context.Context, date time.Time) (schedule.DayOverride, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	if ov, ok := r.db.t[schedule.Midnight(date)]; ok {
		return ov, nil
	}
	return schedule.DayOverride{}, schedule.ErrNotFound
}

func (r *overrideRepository) UpsertOverride(ctx context.Context, ov schedule.DayOverride) (schedule.DayOverride, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	r.db.t[schedule.Midnight(ov.Date)] = ov
	return ov, nil
}

func (r *overrideRepository) DeleteOverride(ctx context.Context, id string) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	for date, ov := range r.db.t {
		if ov.ID == id {
			delete(r.db.t, date)
			return nil
		}
	}
	return schedule.ErrNotFound
}
