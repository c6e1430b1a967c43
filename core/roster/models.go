package roster

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/kwachira/ratiba/core"
	"github.com/kwachira/ratiba/core/schedule"
)

var (
	// errors
	ErrNotFound = errors.New("class assignment not found")
)

// BlockLetter identifies one of the seven lettered periods, A through G.
type BlockLetter string

const (
	BlockA BlockLetter = "A"
	BlockB BlockLetter = "B"
	BlockC BlockLetter = "C"
	BlockD BlockLetter = "D"
	BlockE BlockLetter = "E"
	BlockF BlockLetter = "F"
	BlockG BlockLetter = "G"
)

func (l BlockLetter) Valid() bool {
	return len(l) == 1 && l[0] >= 'A' && l[0] <= 'G'
}

// Period is the letter's ordinal, 1..7; 0 for an invalid letter.
func (l BlockLetter) Period() int {
	if !l.Valid() {
		return 0
	}
	return int(l[0]-'A') + 1
}

// ParseBlockLetter accepts a single letter A-G, any case.
func ParseBlockLetter(s string) (BlockLetter, error) {
	l := BlockLetter(strings.ToUpper(strings.TrimSpace(s)))
	if !l.Valid() {
		return "", errors.Errorf("invalid block letter %q", s)
	}
	return l, nil
}

// ClassAssignment binds a student's class to a block letter within one
// rotation. XDaysRed/XDaysWhite are the student's personal X-day settings:
// nil means not configured, an explicit empty set means the class never
// meets in extended form. The two meanings are distinct and the resolver
// depends on the difference.
type ClassAssignment struct {
	BlockLetter BlockLetter          `json:"block_letter"`
	ClassName   string               `json:"class_name"`
	TeacherName string               `json:"teacher_name"`
	Room        string               `json:"room"`
	ColorHex    string               `json:"color_hex"`
	XDaysRed    *schedule.WeekdaySet `json:"x_days_red,omitempty"`
	XDaysWhite  *schedule.WeekdaySet `json:"x_days_white,omitempty"`
}

// XDaysFor returns the personal X-day set for the given rotation; nil when
// not configured.
func (a *ClassAssignment) XDaysFor(parity schedule.Parity) *schedule.WeekdaySet {
	if parity == schedule.ParityWhite {
		return a.XDaysWhite
	}
	return a.XDaysRed
}

// NewAssignment contains information needed to set a ClassAssignment.
type NewAssignment struct {
	BlockLetter string   `json:"block_letter" validate:"required,blockletter"`
	ClassName   string   `json:"class_name" validate:"required"`
	TeacherName string   `json:"teacher_name" validate:"required"`
	Room        string   `json:"room"`
	ColorHex    string   `json:"color_hex" validate:"omitempty,hexcolor"`
	XDaysRed    []string `json:"x_days_red" validate:"omitempty,dive,weekday"`
	XDaysWhite  []string `json:"x_days_white" validate:"omitempty,dive,weekday"`
}

func (na *NewAssignment) Validate() error {
	na.ClassName = core.CleanString(na.ClassName)
	na.TeacherName = core.CleanString(na.TeacherName)
	na.Room = core.CleanString(na.Room)
	return core.Validate.Struct(na)
}

// days converts weekday names to a set; nil input stays nil (not configured).
func days(names []string) (*schedule.WeekdaySet, error) {
	if names == nil {
		return nil, nil
	}
	set := schedule.NewWeekdaySet()
	for _, name := range names {
		d, err := schedule.ParseWeekday(name)
		if err != nil {
			return nil, err
		}
		set = set.With(d)
	}
	return &set, nil
}

// ExtracurricularProfile answers whether the student takes part in an
// opt-in activity period.
type ExtracurricularProfile interface {
	ParticipatesIn(activity string) bool
}

// Profile is the explicit per-student context object handed to the
// projection and live-status constructors; there is no ambient global.
type Profile struct {
	UserID     string
	Activities map[string]bool // opt-in activity label -> participates
}

var _ ExtracurricularProfile = (*Profile)(nil)

func (p *Profile) ParticipatesIn(activity string) bool {
	if p == nil {
		return false
	}
	return p.Activities[strings.ToLower(activity)]
}
