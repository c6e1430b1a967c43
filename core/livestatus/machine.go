package livestatus

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/kwachira/ratiba/core"
	"github.com/kwachira/ratiba/core/projection"
	"github.com/kwachira/ratiba/core/schedule"
)

type (
	// Projector recomputes the schedule projection for an instant. The
	// student context (user, parity source) is bound by the caller.
	Projector interface {
		Project(ctx context.Context, now time.Time) (projection.CurrentBlockView, error)
	}

	ProjectorFunc func(ctx context.Context, now time.Time) (projection.CurrentBlockView, error)

	// Publisher persists live-status records to the remote store. All
	// methods are best-effort from the machine's perspective: failures are
	// logged by the machine, never retried automatically.
	Publisher interface {
		StartStatus(ctx context.Context, rec Record) error
		UpdateStatus(ctx context.Context, rec Record) error
		EndStatus(ctx context.Context, activityID string, at time.Time) error
	}

	// Machine owns what should be broadcast right now. Every entry point
	// (periodic tick, app foreground, push-triggered wake, boundary timer)
	// funnels into Reconcile, which serializes through one mutex so
	// concurrent ticks can never race to start two publications.
	Machine struct {
		conf      *core.Config
		projector Projector
		publisher Publisher
		push      core.PushChannel
		logger    core.Logger

		mu         sync.Mutex
		state      State
		current    *Record
		occupant   projection.Occupant
		endedUntil time.Time
		boundary   *time.Timer

		subMu sync.Mutex
		subs  map[chan Record]struct{}

		nowFunc func() time.Time // mockable
	}
)

func (f ProjectorFunc) Project(ctx context.Context, now time.Time) (projection.CurrentBlockView, error) {
	return f(ctx, now)
}

func NewMachine(conf *core.Config, projector Projector, publisher Publisher, push core.PushChannel, logger core.Logger) *Machine {
	return &Machine{
		conf:      conf,
		projector: projector,
		publisher: publisher,
		push:      push,
		logger:    logger,
		subs:      make(map[chan Record]struct{}),
		nowFunc:   time.Now,
	}
}

// Run drives the periodic re-check until ctx is cancelled.
func (m *Machine) Run(ctx context.Context) {
	ticker := time.NewTicker(m.conf.LiveStatus.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			m.Stop()
			return
		case <-ticker.C:
			if err := m.Reconcile(ctx); err != nil {
				m.logger.Error("live status reconcile failed", err)
			}
		}
	}
}

// Wake is the push-triggered (or app-foreground) entry point. It funnels
// into the same serialized reconciliation as the timer tick.
func (m *Machine) Wake(ctx context.Context) error {
	return m.Reconcile(ctx)
}

// Stop cancels the armed boundary timer and any pending push delivery.
func (m *Machine) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.boundary != nil {
		m.boundary.Stop()
		m.boundary = nil
	}
	m.push.Cancel()
}

// State reports the current slot state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Current returns a copy of the record being published, if any.
func (m *Machine) Current() *Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil
	}
	rec := *m.current
	return &rec
}

// Reconcile recomputes the projection and applies the idempotent transition
// rules: same occupant is a no-op (no restart, no flicker), a differing
// occupant is a drift correction (immediate end, fresh start under a new
// activity id), a vanished occupant ends the publication with the grace
// dismissal window.
func (m *Machine) Reconcile(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.nowFunc()
	view, err := m.projector.Project(ctx, now)
	if err != nil {
		return errors.Wrap(err, "projecting schedule")
	}

	if m.state == StateEnded && !now.Before(m.endedUntil) {
		m.state = StateIdle
		m.current = nil
	}

	cur := view.Current
	occupied := cur != nil && cur.Occupant.Kind != projection.OccupantFree

	switch m.state {
	case StatePublishing:
		if !occupied {
			m.endLocked(ctx, now, false)
			return nil
		}
		if m.occupant.Same(cur.Occupant) && m.current.BlockLabel == cur.Block.Label {
			m.refreshLocked(ctx, now)
			return nil
		}
		// either a drift correction (wrong occupant was broadcast) or a
		// rollover into the next block; both end the old record now
		m.endLocked(ctx, now, true)
		m.startLocked(ctx, now, *cur)
	default: // Idle, or Ended with the grace window still open
		if occupied && m.state == StateIdle {
			m.startLocked(ctx, now, *cur)
		}
	}
	return nil
}

func (m *Machine) startLocked(ctx context.Context, now time.Time, cur projection.OccupiedBlock) {
	startsAt := timeOn(now, cur.Block.Start)
	endsAt := timeOn(now, cur.Block.End)

	rec := Record{
		ActivityID: uuid.New().String(),
		BlockLabel: cur.Block.Label,
		BlockStart: cur.Block.Start,
		BlockEnd:   cur.Block.End,
		StartsAt:   startsAt,
		EndsAt:     endsAt,
		Content:    contentAt(now, startsAt, endsAt),
	}
	switch cur.Occupant.Kind {
	case projection.OccupantClass:
		rec.ClassName = cur.Occupant.Class.ClassName
		rec.Teacher = cur.Occupant.Class.TeacherName
		rec.Room = cur.Occupant.Class.Room
		rec.ColorHex = cur.Occupant.Class.ColorHex
	case projection.OccupantActivity:
		rec.Activity = cur.Occupant.Activity
	}

	if err := m.publisher.StartStatus(ctx, rec); err != nil {
		m.logger.Error("starting live status", err)
	}

	m.state = StatePublishing
	m.current = &rec
	m.occupant = cur.Occupant

	// self-trigger just past the block boundary so transitions do not rely
	// solely on the foreground ticker; the push wake covers background
	delay := endsAt.Sub(now) + time.Second
	if m.boundary != nil {
		m.boundary.Stop()
	}
	m.boundary = time.AfterFunc(delay, func() {
		if err := m.Reconcile(context.Background()); err != nil {
			m.logger.Error("boundary reconcile failed", err)
		}
	})
	m.push.DeliverSilent(map[string]interface{}{
		"reason":      "block-boundary",
		"activity_id": rec.ActivityID,
	}, int(delay/time.Second))

	m.emit(rec)
}

func (m *Machine) endLocked(ctx context.Context, now time.Time, immediate bool) {
	rec := m.current
	if rec == nil {
		m.state = StateIdle
		return
	}
	at := now
	rec.EndedAt = &at
	rec.Content = contentAt(now, rec.StartsAt, rec.EndsAt)

	if err := m.publisher.EndStatus(ctx, rec.ActivityID, at); err != nil {
		m.logger.Error("ending live status", err)
	}

	if m.boundary != nil {
		m.boundary.Stop()
		m.boundary = nil
	}

	if immediate {
		m.state = StateIdle
		m.current = nil
	} else {
		m.state = StateEnded
		m.endedUntil = now.Add(m.conf.LiveStatus.GracePeriod)
	}
	m.emit(*rec)
}

// refreshLocked recomputes the content snapshot; an unchanged snapshot
// produces zero writes, which keeps back-to-back reconciles idempotent.
func (m *Machine) refreshLocked(ctx context.Context, now time.Time) {
	content := contentAt(now, m.current.StartsAt, m.current.EndsAt)
	if content == m.current.Content {
		return
	}
	m.current.Content = content
	if err := m.publisher.UpdateStatus(ctx, *m.current); err != nil {
		m.logger.Error("updating live status", err)
	}
	m.emit(*m.current)
}

// Subscribe returns a stream of record snapshots. Sends never block the
// reconciler: a slow consumer misses intermediate updates.
func (m *Machine) Subscribe() chan Record {
	ch := make(chan Record, 8)
	m.subMu.Lock()
	m.subs[ch] = struct{}{}
	m.subMu.Unlock()
	return ch
}

func (m *Machine) Unsubscribe(ch chan Record) {
	m.subMu.Lock()
	delete(m.subs, ch)
	m.subMu.Unlock()
	close(ch)
}

func (m *Machine) emit(rec Record) {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	for ch := range m.subs {
		select {
		case ch <- rec:
		default:
		}
	}
}

// timeOn places a block time on date's calendar day, in date's location.
func timeOn(date time.Time, bt schedule.BlockTime) time.Time {
	y, mo, d := date.Date()
	return time.Date(y, mo, d, bt.Hour(), bt.Minute(), 0, 0, date.Location())
}
