package projection

import (
	"strings"
	"time"

	"github.com/kwachira/ratiba/core/roster"
	"github.com/kwachira/ratiba/core/schedule"
)

// OccupantKind tags what fills a time block at a given instant.
type OccupantKind string

const (
	OccupantClass    OccupantKind = "class"
	OccupantActivity OccupantKind = "activity"
	OccupantFree     OccupantKind = "free"
)

// Occupant is the tagged union of a block's possible occupants: a resolved
// class assignment, a named non-class activity, or free time.
type Occupant struct {
	Kind     OccupantKind             `json:"kind"`
	Class    *roster.ClassAssignment  `json:"class,omitempty"`
	Activity string                   `json:"activity,omitempty"`
}

func ClassOccupant(a roster.ClassAssignment) Occupant {
	return Occupant{Kind: OccupantClass, Class: &a}
}

func ActivityOccupant(label string) Occupant {
	return Occupant{Kind: OccupantActivity, Activity: label}
}

func Free() Occupant {
	return Occupant{Kind: OccupantFree}
}

// Same reports occupant identity for drift detection: classes compare by
// class name and block letter, activities by label.
func (o Occupant) Same(other Occupant) bool {
	if o.Kind != other.Kind {
		return false
	}
	switch o.Kind {
	case OccupantClass:
		return o.Class.ClassName == other.Class.ClassName &&
			o.Class.BlockLetter == other.Class.BlockLetter
	case OccupantActivity:
		return o.Activity == other.Activity
	}
	return true
}

// CurrentBlockView is what the presentation layer gets for an instant.
type CurrentBlockView struct {
	Current *OccupiedBlock      `json:"current,omitempty"`
	Next    *schedule.TimeBlock `json:"next,omitempty"`
	AsOf    time.Time           `json:"as_of"`
}

type OccupiedBlock struct {
	Block    schedule.TimeBlock `json:"block"`
	Occupant Occupant           `json:"occupant"`
}

// The closed set of known non-academic activity labels. Senate and chapel
// chorus are opt-in: they occupy the block only for students whose
// extracurricular profile says they take part.
var (
	knownActivities = map[string]struct{}{
		"lunch":           {},
		"assembly":        {},
		"chapel":          {},
		"athletics":       {},
		"community-time":  {},
		"faculty-meeting": {},
		"announcements":   {},
		"break":           {},
		"senate":          {},
		"general-meeting": {},
		"chapel-chorus":   {},
	}

	optInActivities = map[string]struct{}{
		"senate":        {},
		"chapel-chorus": {},
	}
)

// activityFor normalizes a block label ("Community Time") to its canonical
// activity key ("community-time"); ok is false for academic/unknown labels.
func activityFor(label string) (string, bool) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(label)), " ", "-")
	_, ok := knownActivities[key]
	return key, ok
}

func isOptIn(activity string) bool {
	_, ok := optInActivities[activity]
	return ok
}

// extendedBlockLetter splits an extension-marked label ("Ax", "aX") into its
// block letter. ok is false for labels without the trailing case-insensitive
// "x" marker or without a valid letter.
func extendedBlockLetter(label string) (roster.BlockLetter, bool) {
	if len(label) != 2 || (label[1] != 'x' && label[1] != 'X') {
		return "", false
	}
	letter, err := roster.ParseBlockLetter(label[:1])
	if err != nil {
		return "", false
	}
	return letter, true
}
