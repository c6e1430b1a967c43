package sports

import (
	"time"

	"github.com/pkg/errors"

	"github.com/kwachira/ratiba/core"
)

var (
	// errors
	ErrNotFound      = errors.New("sports record not found")
	ErrAlreadyClaimed = errors.New("event already claimed by another reporter")
	ErrNotClaimHolder = errors.New("claim held by a different reporter")
)

// EventState of a tracked sports event.
type EventState string

const (
	StateUpcoming EventState = "upcoming"
	StateLive     EventState = "live"
	StateFinal    EventState = "final"
)

func (s EventState) Valid() bool {
	return s == StateUpcoming || s == StateLive || s == StateFinal
}

// Event is the parent entity statuses and claims hang off of.
type Event struct {
	EventID   string    `json:"event_id" validate:"required"`
	SportType string    `json:"sport_type" validate:"required"`
	Opponent  string    `json:"opponent"`
	StartsAt  time.Time `json:"starts_at"`
}

func (ev *Event) Validate() error {
	ev.SportType = core.CleanString(ev.SportType)
	ev.Opponent = core.CleanString(ev.Opponent)
	return core.Validate.Struct(ev)
}

// Status is the live payload for one event. Many may be published
// concurrently, keyed by event id. The match clock is stored as a
// remaining-duration-as-of-a-timestamp pair; readers recompute via
// RemainingNow rather than relying on periodic republishes.
type Status struct {
	EventID        string        `json:"event_id"`
	SportType      string        `json:"sport_type"`
	State          EventState    `json:"state"`
	HomeScore      int           `json:"home_score"`
	AwayScore      int           `json:"away_score"`
	PeriodLabel    string        `json:"period_label"`
	ClockRemaining time.Duration `json:"clock_remaining"`
	ClockAsOf      time.Time     `json:"clock_as_of"`
	Possession     string        `json:"possession"`
	LastEvent      string        `json:"last_event"`
	TopFinishers   []string      `json:"top_finishers,omitempty"`
	ReporterName   string        `json:"reporter_name"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// RemainingNow recomputes the match clock for an instant. Only a live match
// has a running clock.
func (s *Status) RemainingNow(now time.Time) time.Duration {
	if s.State != StateLive {
		return s.ClockRemaining
	}
	remaining := s.ClockRemaining - now.Sub(s.ClockAsOf)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// equal ignores UpdatedAt so that republishing identical content can be
// suppressed (write amplification against the remote store).
func (s *Status) equal(other *Status) bool {
	if s.EventID != other.EventID ||
		s.SportType != other.SportType ||
		s.State != other.State ||
		s.HomeScore != other.HomeScore ||
		s.AwayScore != other.AwayScore ||
		s.PeriodLabel != other.PeriodLabel ||
		s.ClockRemaining != other.ClockRemaining ||
		!s.ClockAsOf.Equal(other.ClockAsOf) ||
		s.Possession != other.Possession ||
		s.LastEvent != other.LastEvent ||
		s.ReporterName != other.ReporterName ||
		len(s.TopFinishers) != len(other.TopFinishers) {
		return false
	}
	for i := range s.TopFinishers {
		if s.TopFinishers[i] != other.TopFinishers[i] {
			return false
		}
	}
	return true
}

// ClaimStatus of a reporter claim.
type ClaimStatus string

const (
	ClaimPending  ClaimStatus = "pending"
	ClaimActive   ClaimStatus = "active"
	ClaimReleased ClaimStatus = "released"
)

// ReporterClaim is a time-boxed, single-holder entitlement to push manual
// updates for one event. It is a soft lock: races fall to the remote
// store's last-writer-wins, and a duplicate attempt is reported as
// already-claimed rather than retried.
type ReporterClaim struct {
	EventID      string      `json:"event_id"`
	ReporterID   string      `json:"reporter_id"`
	ReporterName string      `json:"reporter_name"`
	ClaimedAt    time.Time   `json:"claimed_at"`
	ExpiresAt    time.Time   `json:"expires_at"`
	Status       ClaimStatus `json:"status"`
}

// HeldAt reports whether the claim is active and unexpired at now; an
// expired claim reads as released even without an explicit release.
func (c *ReporterClaim) HeldAt(now time.Time) bool {
	return c.Status == ClaimActive && now.Before(c.ExpiresAt)
}

// Update is a sparse reporter-pushed change merged over the stored status;
// nil fields keep their current values.
type Update struct {
	State          *string        `json:"state" validate:"omitempty,oneof=upcoming live final"`
	HomeScore      *int           `json:"home_score" validate:"omitempty,gte=0"`
	AwayScore      *int           `json:"away_score" validate:"omitempty,gte=0"`
	PeriodLabel    *string        `json:"period_label"`
	ClockRemaining *time.Duration `json:"clock_remaining" validate:"omitempty,gte=0"`
	Possession     *string        `json:"possession"`
	LastEvent      *string        `json:"last_event"`
	TopFinishers   []string       `json:"top_finishers"`
}

func (u *Update) Validate() error { return core.Validate.Struct(u) }
