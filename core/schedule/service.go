package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/kwachira/ratiba/core"
)

type (
	Repository interface {
		GetOverrideByDate(ctx context.Context, date time.Time) (DayOverride, error)
		UpsertOverride(ctx context.Context, ov DayOverride) (DayOverride, error)
		DeleteOverride(ctx context.Context, id string) error
	}

	// Service owns day-override lookups. Overrides are fetched at most once
	// per calendar day and cached keyed by the date's midnight instant;
	// entries older than a day are purged on access.
	Service struct {
		repo   Repository
		logger core.Logger

		mu    sync.Mutex
		cache map[time.Time]cacheEntry
	}

	cacheEntry struct {
		override  *DayOverride // nil: no active override for that date
		fetchedAt time.Time
	}
)

var nowFunc = time.Now // mockable

func NewService(repo Repository, logger core.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		cache:  make(map[time.Time]cacheEntry),
	}
}

// OverrideForDate resolves the active override for date's day, if any.
// A nil override with a nil error means the standard grid applies.
func (svc *Service) OverrideForDate(ctx context.Context, date time.Time) (*DayOverride, error) {
	key := Midnight(date)

	svc.mu.Lock()
	svc.purgeLocked()
	if entry, ok := svc.cache[key]; ok {
		svc.mu.Unlock()
		return entry.override, nil
	}
	svc.mu.Unlock()

	ov, err := svc.repo.GetOverrideByDate(ctx, key)
	switch errors.Cause(err) {
	case nil:
	case ErrNotFound:
		svc.putCache(key, nil)
		return nil, nil
	default:
		return nil, errors.Wrap(err, "fetching day override")
	}

	if !ov.Active {
		svc.putCache(key, nil)
		return nil, nil
	}
	svc.putCache(key, &ov)
	return &ov, nil
}

func (svc *Service) putCache(key time.Time, ov *DayOverride) {
	svc.mu.Lock()
	svc.cache[key] = cacheEntry{override: ov, fetchedAt: nowFunc()}
	svc.mu.Unlock()
}

func (svc *Service) purgeLocked() {
	cutoff := nowFunc().Add(-24 * time.Hour)
	for key, entry := range svc.cache {
		if entry.fetchedAt.Before(cutoff) {
			delete(svc.cache, key)
		}
	}
}

// SetOverride validates and persists an override, replacing any previous one
// for the same date, and invalidates the cache entry for that date.
func (svc *Service) SetOverride(ctx context.Context, ov DayOverride) (DayOverride, error) {
	if err := ValidateBlocks(ov.Blocks); err != nil {
		return DayOverride{}, core.NewValidationError(err, core.FieldError{Field: "blocks", Error: err.Error()})
	}
	if ov.ID == "" {
		ov.ID = uuid.New().String()
	}
	ov.Date = Midnight(ov.Date)
	if ov.CreatedAt.IsZero() {
		ov.CreatedAt = nowFunc().UTC()
	}

	saved, err := svc.repo.UpsertOverride(ctx, ov)
	if err != nil {
		return DayOverride{}, errors.Wrap(err, "saving day override")
	}

	svc.mu.Lock()
	delete(svc.cache, saved.Date)
	svc.mu.Unlock()
	return saved, nil
}

// DeactivateOverride turns an existing override off, restoring the standard grid.
func (svc *Service) DeactivateOverride(ctx context.Context, date time.Time) error {
	key := Midnight(date)
	ov, err := svc.repo.GetOverrideByDate(ctx, key)
	if err != nil {
		return err
	}
	ov.Active = false
	if _, err = svc.repo.UpsertOverride(ctx, ov); err != nil {
		return errors.Wrap(err, "deactivating day override")
	}
	svc.mu.Lock()
	delete(svc.cache, key)
	svc.mu.Unlock()
	return nil
}

// ImportCandidate turns the output of an external image-to-schedule
// transformer into an override for date. The transformer result is opaque;
// only the structure is validated here, then date's weekday selects the
// block list to use.
func (svc *Service) ImportCandidate(ctx context.Context, candidate map[Weekday][]TimeBlock, date time.Time, title, createdBy string) (DayOverride, error) {
	if len(candidate) == 0 {
		return DayOverride{}, core.NewValidationError(errors.New("empty schedule candidate"))
	}
	for day, blocks := range candidate {
		if !day.Valid() {
			return DayOverride{}, core.NewValidationError(errors.Errorf("invalid weekday %d in candidate", day))
		}
		if err := ValidateBlocks(blocks); err != nil {
			return DayOverride{}, core.NewValidationError(err, core.FieldError{Field: day.String(), Error: err.Error()})
		}
	}

	blocks, ok := candidate[WeekdayOf(date)]
	if !ok {
		return DayOverride{}, core.NewValidationError(errors.Errorf("candidate has no %s schedule", WeekdayOf(date)))
	}
	return svc.SetOverride(ctx, DayOverride{
		Date:      date,
		Title:     title,
		Blocks:    blocks,
		CreatedBy: createdBy,
		Active:    true,
	})
}
