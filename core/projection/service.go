package projection

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/kwachira/ratiba/core"
	"github.com/kwachira/ratiba/core/roster"
	"github.com/kwachira/ratiba/core/schedule"
	"github.com/kwachira/ratiba/core/xblock"
)

// Service combines the time grid, the student's assignment maps, the X-block
// resolver and the day-override lookup into a single "what is happening now"
// answer. All student context is passed in explicitly; there is no ambient
// shared state.
type Service struct {
	overrides *schedule.Service
	roster    *roster.Service
	resolver  *xblock.Resolver
	profile   roster.ExtracurricularProfile
	logger    core.Logger
}

func NewService(
	overrides *schedule.Service,
	rosterSvc *roster.Service,
	resolver *xblock.Resolver,
	profile roster.ExtracurricularProfile,
	logger core.Logger,
) *Service {
	return &Service{
		overrides: overrides,
		roster:    rosterSvc,
		resolver:  resolver,
		profile:   profile,
		logger:    logger,
	}
}

// Project resolves the current and next blocks at now, and who occupies the
// current one. An override active for now's date replaces the standard grid
// wholesale; an override fetch failure is logged and the standard grid used,
// since the cached/standard value stays authoritative until the next
// successful fetch.
func (svc *Service) Project(ctx context.Context, now time.Time, parity schedule.Parity, userID string) (CurrentBlockView, error) {
	var overrideBlocks []schedule.TimeBlock
	ov, err := svc.overrides.OverrideForDate(ctx, now)
	if err != nil {
		svc.logger.Warn("day override fetch failed, using standard grid", err)
	} else if ov != nil {
		overrideBlocks = ov.Blocks
	}

	view := CurrentBlockView{
		Next: schedule.NextBlock(now, parity, overrideBlocks),
		AsOf: now,
	}

	current := schedule.CurrentBlock(now, parity, overrideBlocks)
	if current == nil {
		return view, nil
	}

	assignments, err := svc.roster.Map(ctx, userID, parity)
	if err != nil {
		return CurrentBlockView{}, errors.Wrap(err, "loading assignments")
	}

	view.Current = &OccupiedBlock{
		Block:    *current,
		Occupant: svc.occupantOf(ctx, *current, parity, assignments, schedule.WeekdayOf(now)),
	}
	return view, nil
}

func (svc *Service) occupantOf(
	ctx context.Context,
	block schedule.TimeBlock,
	parity schedule.Parity,
	assignments map[roster.BlockLetter]roster.ClassAssignment,
	day schedule.Weekday,
) Occupant {
	// named non-academic activity; opt-in ones occupy the block only for
	// participating students
	if activity, ok := activityFor(block.Label); ok {
		if isOptIn(activity) && !svc.profile.ParticipatesIn(activity) {
			return Free()
		}
		return ActivityOccupant(activity)
	}

	// extension-marked sub-block: shares its letter with the main block but
	// is gated independently by the resolved X-days
	if letter, ok := extendedBlockLetter(block.Label); ok {
		a, found := assignments[letter]
		if !found {
			return Free()
		}
		if !svc.resolver.UsesXBlock(ctx, &a, letter, parity, day) {
			return Free()
		}
		return ClassOccupant(a)
	}

	// ordinary lettered block; anything outside A-G yields a free period
	letter, err := roster.ParseBlockLetter(block.Label)
	if err != nil {
		return Free()
	}
	if a, found := assignments[letter]; found {
		return ClassOccupant(a)
	}
	return Free()
}
