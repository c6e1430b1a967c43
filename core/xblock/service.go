package xblock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/kwachira/ratiba/core"
	"github.com/kwachira/ratiba/core/roster"
	"github.com/kwachira/ratiba/core/schedule"
)

type (
	Repository interface {
		// FindExact matches on the full identity tuple, the day set compared
		// as an exact set (not subset/superset).
		FindExact(ctx context.Context, className, teacherName string, parity schedule.Parity, xDays schedule.WeekdaySet) (ConsensusRecord, error)
		QueryByKey(ctx context.Context, className, teacherName string, parity schedule.Parity) ([]ConsensusRecord, error)
		CreateRecord(ctx context.Context, rec ConsensusRecord) (ConsensusRecord, error)
		IncrementVotes(ctx context.Context, id string) (ConsensusRecord, error)
	}

	// Consensus records and tallies crowd submissions of X-day sets.
	Consensus struct {
		repo Repository
	}
)

var nowFunc = time.Now // mockable

func NewConsensus(repo Repository) *Consensus {
	return &Consensus{repo: repo}
}

// SubmitOrIncrement records a vote: an exact-match record gets its tally
// bumped, otherwise a fresh record starts at one vote. The lookup-then-write
// is best-effort across concurrent submitters; consensus is advisory, not
// authoritative, so no cross-store coordination is attempted.
func (c *Consensus) SubmitOrIncrement(ctx context.Context, nv NewVote, submittedBy string) (ConsensusRecord, error) {
	if err := nv.Validate(); err != nil {
		return ConsensusRecord{}, err
	}
	parity, err := schedule.ParseParity(nv.Parity)
	if err != nil {
		return ConsensusRecord{}, core.NewValidationError(err, core.FieldError{Field: "parity", Error: err.Error()})
	}
	xDays := schedule.NewWeekdaySet()
	for _, name := range nv.XDays {
		d, err := schedule.ParseWeekday(name)
		if err != nil {
			return ConsensusRecord{}, core.NewValidationError(err, core.FieldError{Field: "x_days", Error: err.Error()})
		}
		xDays = xDays.With(d)
	}

	existing, err := c.repo.FindExact(ctx, nv.ClassName, nv.TeacherName, parity, xDays)
	switch errors.Cause(err) {
	case nil:
		return c.repo.IncrementVotes(ctx, existing.ID)
	case ErrNotFound:
		return c.repo.CreateRecord(ctx, ConsensusRecord{
			ID:          uuid.New().String(),
			ClassName:   nv.ClassName,
			TeacherName: nv.TeacherName,
			Parity:      parity,
			XDays:       xDays,
			Votes:       1,
			SubmittedBy: submittedBy,
			SubmittedAt: nowFunc().UTC(),
		})
	default:
		return ConsensusRecord{}, errors.Wrap(err, "looking up consensus record")
	}
}

// MostVoted returns the single highest-tally record for the key triple.
// Ties are broken arbitrarily by repository order; acceptable while the
// standard-table fallback exists.
func (c *Consensus) MostVoted(ctx context.Context, className, teacherName string, parity schedule.Parity) (ConsensusRecord, error) {
	records, err := c.repo.QueryByKey(ctx, className, teacherName, parity)
	if err != nil {
		return ConsensusRecord{}, errors.Wrap(err, "querying consensus records")
	}
	if len(records) == 0 {
		return ConsensusRecord{}, ErrNotFound
	}
	best := records[0]
	for _, rec := range records[1:] {
		if rec.Votes > best.Votes {
			best = rec
		}
	}
	return best, nil
}

// AutoPopulateCandidate returns the most-voted day set once it has reached
// the auto-populate threshold; ErrNotFound below it.
func (c *Consensus) AutoPopulateCandidate(ctx context.Context, className, teacherName string, parity schedule.Parity) (schedule.WeekdaySet, error) {
	rec, err := c.MostVoted(ctx, className, teacherName, parity)
	if err != nil {
		return 0, err
	}
	if rec.Votes < autoPopulateThreshold {
		return 0, ErrNotFound
	}
	return rec.XDays, nil
}

// Resolver decides which weekdays a class's extended sub-block applies on,
// in strict tier priority: the student's personal setting, then crowd
// consensus at threshold, then the standard table. First match wins; tiers
// are never merged.
type Resolver struct {
	consensus *Consensus
	logger    core.Logger
}

func NewResolver(consensus *Consensus, logger core.Logger) *Resolver {
	return &Resolver{consensus: consensus, logger: logger}
}

// Resolve returns the applicable X-day set for the assignment's class.
// A personal set is final even when empty: explicitly empty means the class
// never meets in extended form, which is distinct from "not configured".
func (r *Resolver) Resolve(ctx context.Context, a *roster.ClassAssignment, letter roster.BlockLetter, parity schedule.Parity) schedule.WeekdaySet {
	// tier 1: personal
	if a != nil {
		if personal := a.XDaysFor(parity); personal != nil {
			return *personal
		}
	}

	// tier 2: consensus; a read failure only gates a background refinement,
	// so it is skipped silently and the standard table stays authoritative.
	if a != nil && a.ClassName != "" {
		xDays, err := r.consensus.AutoPopulateCandidate(ctx, a.ClassName, a.TeacherName, parity)
		switch errors.Cause(err) {
		case nil:
			return xDays
		case ErrNotFound:
		default:
			r.logger.Warn("consensus lookup failed, falling back to standard table", err)
		}
	}

	// tier 3: standard
	return StandardXDays(letter, parity)
}

// UsesXBlock reports whether the extended sub-block applies on day. The day
// is simply tested for membership in the resolved set; a non-empty tier-1
// set that does not mention the day means the day is not an X-day, full stop.
func (r *Resolver) UsesXBlock(ctx context.Context, a *roster.ClassAssignment, letter roster.BlockLetter, parity schedule.Parity, day schedule.Weekday) bool {
	return r.Resolve(ctx, a, letter, parity).Has(day)
}
