package inmem

import (
	"context"

	"github.com/kwachira/ratiba/core/sports"
)

type sportsRepository struct {
	db *sportsTable
}

var _ sports.Repository = (*sportsRepository)(nil)

func NewSportsRepository(db *DB) *sportsRepository {
	return &sportsRepository{db: db.sports}
}

func (r *sportsRepository) GetEvent(ctx context.Context, eventID string) (sports.Event, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	if ev, ok := r.db.events[eventID]; ok {
		return ev, nil
	}
	return sports.Event{}, sports.ErrNotFound
}

func (r *sportsRepository) SaveEvent(ctx context.Context, ev sports.Event) (sports.Event, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	r.db.events[ev.EventID] = ev
	return ev, nil
}

func (r *sportsRepository) GetStatus(ctx context.Context, eventID string) (sports.Status, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	if st, ok := r.db.statuses[eventID]; ok {
		return st, nil
	}
	return sports.Status{}, sports.ErrNotFound
}

func (r *sportsRepository) SaveStatus(ctx context.Context, st sports.Status) (sports.Status, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	r.db.statuses[st.EventID] = st
	return st, nil
}

func (r *sportsRepository) GetClaim(ctx context.Context, eventID string) (sports.ReporterClaim, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	if c, ok := r.db.claims[eventID]; ok {
		return c, nil
	}
	return sports.ReporterClaim{}, sports.ErrNotFound
}

func (r *sportsRepository) SaveClaim(ctx context.Context, c sports.ReporterClaim) (sports.ReporterClaim, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	r.db.claims[c.EventID] = c
	return c, nil
}
