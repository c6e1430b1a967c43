package xblock

import (
	"time"

	"github.com/pkg/errors"

	"github.com/kwachira/ratiba/core"
	"github.com/kwachira/ratiba/core/roster"
	"github.com/kwachira/ratiba/core/schedule"
)

var (
	// errors
	ErrNotFound = errors.New("consensus record not found")
)

// autoPopulateThreshold is the vote count at which a crowd-sourced day set
// becomes eligible to auto-populate a student's settings.
const autoPopulateThreshold = 3

// ConsensusRecord is one crowd-submitted X-day set for a class. Identity is
// the full (class, teacher, parity, exact day set) tuple: two different day
// sets for the same class are distinct records with independent tallies.
// Records are never deleted automatically.
type ConsensusRecord struct {
	ID          string              `json:"id"`
	ClassName   string              `json:"class_name"`
	TeacherName string              `json:"teacher_name"`
	Parity      schedule.Parity     `json:"parity"`
	XDays       schedule.WeekdaySet `json:"x_days"`
	Votes       int                 `json:"votes"`
	SubmittedBy string              `json:"submitted_by"`
	SubmittedAt time.Time           `json:"submitted_at"`
}

// NewVote contains information needed to submit an X-day vote.
type NewVote struct {
	ClassName   string   `json:"class_name" validate:"required"`
	TeacherName string   `json:"teacher_name" validate:"required"`
	Parity      string   `json:"parity" validate:"required"`
	XDays       []string `json:"x_days" validate:"dive,weekday"`
}

func (nv *NewVote) Validate() error {
	nv.ClassName = core.CleanString(nv.ClassName)
	nv.TeacherName = core.CleanString(nv.TeacherName)
	return core.Validate.Struct(nv)
}

// standardXDays is the institutional default table: block letter x rotation
// -> weekdays on which the extended sub-block applies. Immutable.
var standardXDays = map[roster.BlockLetter]map[schedule.Parity]schedule.WeekdaySet{
	roster.BlockA: {
		schedule.ParityRed:   schedule.NewWeekdaySet(schedule.Monday, schedule.Thursday),
		schedule.ParityWhite: schedule.NewWeekdaySet(schedule.Tuesday),
	},
	roster.BlockB: {
		schedule.ParityRed:   schedule.NewWeekdaySet(schedule.Tuesday, schedule.Friday),
		schedule.ParityWhite: schedule.NewWeekdaySet(schedule.Monday),
	},
	roster.BlockC: {
		schedule.ParityRed:   schedule.NewWeekdaySet(schedule.Monday),
		schedule.ParityWhite: schedule.NewWeekdaySet(schedule.Wednesday),
	},
	roster.BlockD: {
		schedule.ParityRed:   schedule.NewWeekdaySet(schedule.Tuesday),
		schedule.ParityWhite: schedule.NewWeekdaySet(schedule.Thursday),
	},
	roster.BlockE: {
		schedule.ParityRed:   schedule.NewWeekdaySet(schedule.Wednesday),
		schedule.ParityWhite: schedule.NewWeekdaySet(schedule.Thursday),
	},
	roster.BlockF: {
		schedule.ParityRed:   schedule.NewWeekdaySet(schedule.Friday),
		schedule.ParityWhite: schedule.NewWeekdaySet(schedule.Tuesday),
	},
	roster.BlockG: {
		schedule.ParityRed:   schedule.NewWeekdaySet(schedule.Thursday),
		schedule.ParityWhite: schedule.NewWeekdaySet(schedule.Monday, schedule.Friday),
	},
}

// StandardXDays returns the default day set for a letter and rotation;
// empty for unknown letters.
func StandardXDays(letter roster.BlockLetter, parity schedule.Parity) schedule.WeekdaySet {
	if byParity, ok := standardXDays[letter]; ok {
		return byParity[parity]
	}
	return schedule.NewWeekdaySet()
}
