package sports

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/kwachira/ratiba/core"
)

type (
	Repository interface {
		GetEvent(ctx context.Context, eventID string) (Event, error)
		SaveEvent(ctx context.Context, ev Event) (Event, error)
		GetStatus(ctx context.Context, eventID string) (Status, error)
		SaveStatus(ctx context.Context, st Status) (Status, error)
		GetClaim(ctx context.Context, eventID string) (ReporterClaim, error)
		SaveClaim(ctx context.Context, c ReporterClaim) (ReporterClaim, error)
	}

	// Service runs the sports live-status variant: many concurrent statuses
	// keyed by event id, with a manual reporter channel layered over the
	// automatically-derived defaults.
	Service struct {
		conf   *core.Config
		repo   Repository
		logger core.Logger

		mu         sync.Mutex
		debouncers map[string]*debouncer

		subMu sync.Mutex
		subs  map[string]map[chan Status]struct{}

		nowFunc func() time.Time // mockable
	}
)

func NewService(conf *core.Config, repo Repository, logger core.Logger) *Service {
	return &Service{
		conf:       conf,
		repo:       repo,
		logger:     logger,
		debouncers: make(map[string]*debouncer),
		subs:       make(map[string]map[chan Status]struct{}),
		nowFunc:    time.Now,
	}
}

// UpsertEvent registers (or corrects) a tracked event.
func (svc *Service) UpsertEvent(ctx context.Context, ev Event) (Event, error) {
	if err := ev.Validate(); err != nil {
		return Event{}, err
	}
	return svc.repo.SaveEvent(ctx, ev)
}

// Event reads one tracked event.
func (svc *Service) Event(ctx context.Context, eventID string) (Event, error) {
	return svc.repo.GetEvent(ctx, eventID)
}

// Claim acquires the single reporter slot for an event. An active unexpired
// claim by someone else fails with a conflict carrying the holder's name;
// expired or released claims are simply taken over. The 1:1 keying on event
// id makes a losing race a create-conflict, not something to arbitrate.
func (svc *Service) Claim(ctx context.Context, eventID, reporterID, reporterName string) (ReporterClaim, error) {
	now := svc.nowFunc()

	existing, err := svc.repo.GetClaim(ctx, eventID)
	switch errors.Cause(err) {
	case nil:
		if existing.HeldAt(now) && existing.ReporterID != reporterID {
			return ReporterClaim{}, core.NewConflictError(ErrAlreadyClaimed, existing.ReporterName)
		}
	case ErrNotFound:
	default:
		return ReporterClaim{}, errors.Wrap(err, "looking up reporter claim")
	}

	claim := ReporterClaim{
		EventID:      eventID,
		ReporterID:   reporterID,
		ReporterName: reporterName,
		ClaimedAt:    now,
		ExpiresAt:    now.Add(svc.conf.Sports.ClaimTTL),
		Status:       ClaimActive,
	}
	return svc.repo.SaveClaim(ctx, claim)
}

// Release gives the claim up explicitly. Claims also self-expire at
// ExpiresAt without a release.
func (svc *Service) Release(ctx context.Context, eventID, reporterID string) error {
	claim, err := svc.repo.GetClaim(ctx, eventID)
	if err != nil {
		return err
	}
	if claim.ReporterID != reporterID {
		return core.NewConflictError(ErrNotClaimHolder, claim.ReporterName)
	}
	claim.Status = ClaimReleased
	if _, err = svc.repo.SaveClaim(ctx, claim); err != nil {
		return errors.Wrap(err, "releasing reporter claim")
	}
	return nil
}

// PublishUpdate merges a reporter's sparse update over the stored status and
// persists only on genuine change, so rapid identical submissions do not
// amplify writes. The caller must hold the event's active claim.
func (svc *Service) PublishUpdate(ctx context.Context, eventID, reporterID string, upd Update) (Status, error) {
	if err := upd.Validate(); err != nil {
		return Status{}, err
	}
	now := svc.nowFunc()

	claim, err := svc.repo.GetClaim(ctx, eventID)
	if err != nil {
		return Status{}, err
	}
	if !claim.HeldAt(now) || claim.ReporterID != reporterID {
		return Status{}, core.NewConflictError(ErrNotClaimHolder, claim.ReporterName)
	}

	current, err := svc.repo.GetStatus(ctx, eventID)
	switch errors.Cause(err) {
	case nil:
	case ErrNotFound:
		current, err = svc.defaultStatus(ctx, eventID)
		if err != nil {
			return Status{}, err
		}
	default:
		return Status{}, errors.Wrap(err, "loading sports status")
	}

	merged := current
	merged.TopFinishers = append([]string(nil), current.TopFinishers...)
	if upd.State != nil {
		merged.State = EventState(*upd.State)
	}
	if upd.HomeScore != nil {
		merged.HomeScore = *upd.HomeScore
	}
	if upd.AwayScore != nil {
		merged.AwayScore = *upd.AwayScore
	}
	if upd.PeriodLabel != nil {
		merged.PeriodLabel = *upd.PeriodLabel
	}
	if upd.ClockRemaining != nil {
		merged.ClockRemaining = *upd.ClockRemaining
		merged.ClockAsOf = now
	}
	if upd.Possession != nil {
		merged.Possession = *upd.Possession
	}
	if upd.LastEvent != nil {
		merged.LastEvent = *upd.LastEvent
	}
	if upd.TopFinishers != nil {
		merged.TopFinishers = upd.TopFinishers
	}
	merged.ReporterName = claim.ReporterName

	if merged.equal(&current) {
		return current, nil
	}
	merged.UpdatedAt = now

	saved, err := svc.repo.SaveStatus(ctx, merged)
	if err != nil {
		return Status{}, errors.Wrap(err, "saving sports status")
	}
	svc.emit(saved)
	return saved, nil
}

// QueueUpdate coalesces rapid reporter edits into a single publish after a
// short quiet period; every new edit cancels and restarts the delay.
func (svc *Service) QueueUpdate(eventID, reporterID string, upd Update) {
	svc.mu.Lock()
	deb, ok := svc.debouncers[eventID]
	if !ok {
		deb = newDebouncer(svc.conf.Sports.PublishDebounce)
		svc.debouncers[eventID] = deb
	}
	svc.mu.Unlock()

	deb.trigger(upd, func(latest Update) {
		if _, err := svc.PublishUpdate(context.Background(), eventID, reporterID, latest); err != nil {
			svc.logger.Error("debounced sports publish failed", err)
		}
	})
}

// Close stops every pending debounce timer; queued edits are dropped.
func (svc *Service) Close() {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	for _, deb := range svc.debouncers {
		deb.stop()
	}
}

// StatusNow reads an event's status with the clock recomputed for now.
func (svc *Service) StatusNow(ctx context.Context, eventID string) (Status, error) {
	st, err := svc.repo.GetStatus(ctx, eventID)
	if err != nil {
		return Status{}, err
	}
	st.ClockRemaining = st.RemainingNow(svc.nowFunc())
	st.ClockAsOf = svc.nowFunc()
	return st, nil
}

// defaultStatus derives the automatic pre-reporter payload from the event.
func (svc *Service) defaultStatus(ctx context.Context, eventID string) (Status, error) {
	ev, err := svc.repo.GetEvent(ctx, eventID)
	if err != nil {
		return Status{}, err
	}
	return Status{
		EventID:   ev.EventID,
		SportType: ev.SportType,
		State:     StateUpcoming,
	}, nil
}

// Subscribe streams status changes for one event; sends never block.
func (svc *Service) Subscribe(eventID string) chan Status {
	ch := make(chan Status, 8)
	svc.subMu.Lock()
	if svc.subs[eventID] == nil {
		svc.subs[eventID] = make(map[chan Status]struct{})
	}
	svc.subs[eventID][ch] = struct{}{}
	svc.subMu.Unlock()
	return ch
}

func (svc *Service) Unsubscribe(eventID string, ch chan Status) {
	svc.subMu.Lock()
	if subs, ok := svc.subs[eventID]; ok {
		delete(subs, ch)
	}
	svc.subMu.Unlock()
	close(ch)
}

func (svc *Service) emit(st Status) {
	svc.subMu.Lock()
	defer svc.subMu.Unlock()
	for ch := range svc.subs[st.EventID] {
		select {
		case ch <- st:
		default:
		}
	}
}
