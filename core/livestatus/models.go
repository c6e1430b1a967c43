package livestatus

import (
	"time"

	"github.com/kwachira/ratiba/core/schedule"
)

// State of the broadcast slot. At most one record is published at a time.
type State int

const (
	StateIdle State = iota
	StatePublishing
	StateEnded // ended, pending dismissal
)

func (s State) String() string {
	switch s {
	case StatePublishing:
		return "publishing"
	case StateEnded:
		return "ended"
	}
	return "idle"
}

// Content is the mutable snapshot refreshed on every tick while publishing.
type Content struct {
	TimeRemaining time.Duration `json:"time_remaining"`
	Progress      float64       `json:"progress"` // in [0, 1]
	AsOf          time.Time     `json:"as_of"`
}

// Record is the personal live-status payload. A record is ended, never
// deleted: EndedAt marks the transition into the pending-dismissal state.
type Record struct {
	ActivityID string `json:"activity_id"`
	UserID     string `json:"user_id"`

	// occupant snapshot; ClassName et al. for a class, Activity otherwise
	ClassName string `json:"class_name,omitempty"`
	Teacher   string `json:"teacher,omitempty"`
	Room      string `json:"room,omitempty"`
	Activity  string `json:"activity,omitempty"`
	ColorHex  string `json:"color_hex,omitempty"`

	BlockLabel string             `json:"block_label"`
	BlockStart schedule.BlockTime `json:"block_start"`
	BlockEnd   schedule.BlockTime `json:"block_end"`
	StartsAt   time.Time          `json:"starts_at"`
	EndsAt     time.Time          `json:"ends_at"`

	Content Content    `json:"content"`
	EndedAt *time.Time `json:"ended_at,omitempty"`
}

// contentAt computes the snapshot for an instant inside (or around) the window.
func contentAt(now, startsAt, endsAt time.Time) Content {
	remaining := endsAt.Sub(now)
	if remaining < 0 {
		remaining = 0
	}
	var progress float64
	if total := endsAt.Sub(startsAt); total > 0 {
		progress = float64(now.Sub(startsAt)) / float64(total)
	}
	if progress < 0 {
		progress = 0
	} else if progress > 1 {
		progress = 1
	}
	return Content{TimeRemaining: remaining, Progress: progress, AsOf: now}
}
