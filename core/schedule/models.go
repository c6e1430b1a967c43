package schedule

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

var (
	// errors
	ErrNotFound     = errors.New("day override not found")
	ErrBadBlockTime = errors.New("malformed block time")
)

// Weekday is a fixed 1..7 numbering, Sunday through Saturday.
// It deliberately does not depend on any calendar localization.
type Weekday int

const (
	Sunday Weekday = iota + 1
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

var weekdayNames = [...]string{"", "Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

func (d Weekday) String() string {
	if d < Sunday || d > Saturday {
		return "Unknown"
	}
	return weekdayNames[d]
}

func (d Weekday) Valid() bool { return d >= Sunday && d <= Saturday }

// WeekdayOf derives the fixed 1..7 weekday from t.
func WeekdayOf(t time.Time) Weekday {
	return Weekday(int(t.Weekday()) + 1)
}

// ParseWeekday resolves a full English weekday name, any case.
func ParseWeekday(name string) (Weekday, error) {
	for d := Sunday; d <= Saturday; d++ {
		if strings.EqualFold(name, weekdayNames[d]) {
			return d, nil
		}
	}
	return 0, errors.Errorf("unknown weekday %q", name)
}

// WeekdaySet is a set of weekdays backed by a bitmask.
// The zero value is the empty set; two sets are equal iff their values are equal,
// which gives the exact-set identity the consensus tally depends on.
type WeekdaySet uint8

func NewWeekdaySet(days ...Weekday) WeekdaySet {
	var s WeekdaySet
	for _, d := range days {
		s = s.With(d)
	}
	return s
}

func (s WeekdaySet) With(d Weekday) WeekdaySet {
	if !d.Valid() {
		return s
	}
	return s | 1<<uint(d-1)
}

func (s WeekdaySet) Has(d Weekday) bool {
	if !d.Valid() {
		return false
	}
	return s&(1<<uint(d-1)) != 0
}

func (s WeekdaySet) IsEmpty() bool { return s == 0 }

func (s WeekdaySet) Days() []Weekday {
	days := make([]Weekday, 0, 7)
	for d := Sunday; d <= Saturday; d++ {
		if s.Has(d) {
			days = append(days, d)
		}
	}
	return days
}

func (s WeekdaySet) String() string {
	names := make([]string, 0, 7)
	for _, d := range s.Days() {
		names = append(names, d.String())
	}
	return strings.Join(names, ",")
}

func (s WeekdaySet) MarshalJSON() ([]byte, error) {
	names := make([]string, 0, 7)
	for _, d := range s.Days() {
		names = append(names, d.String())
	}
	return json.Marshal(names)
}

func (s *WeekdaySet) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	set := WeekdaySet(0)
	for _, name := range names {
		d, err := ParseWeekday(name)
		if err != nil {
			return err
		}
		set = set.With(d)
	}
	*s = set
	return nil
}

// Parity is one of the two alternating week rotations.
type Parity string

const (
	ParityRed   Parity = "red"
	ParityWhite Parity = "white"
)

func (p Parity) Valid() bool { return p == ParityRed || p == ParityWhite }

// ParseParity also accepts the legacy A/B aliases (A=red, B=white).
func ParseParity(s string) (Parity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "red", "a":
		return ParityRed, nil
	case "white", "b":
		return ParityWhite, nil
	}
	return "", errors.Errorf("unknown parity %q", s)
}

// BlockTime is a time of day in minutes since midnight.
type BlockTime int

// ParseBlockTime parses the compact H:MM form of the institutional tables.
// Hours 1-3 are implicitly PM; this ambiguity is baked into the static
// tables and is preserved as-is, not corrected. Extending the tables past
// 3:xx PM requires re-specifying them in explicit 24-hour times first.
func ParseBlockTime(s string) (BlockTime, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, errors.Wrapf(ErrBadBlockTime, "%q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, errors.Wrapf(ErrBadBlockTime, "%q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, errors.Wrapf(ErrBadBlockTime, "%q", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, errors.Wrapf(ErrBadBlockTime, "%q", s)
	}
	if h >= 1 && h <= 3 {
		h += 12
	}
	return BlockTime(h*60 + m), nil
}

// MustBlockTime panics on a malformed time; for the static tables only.
func MustBlockTime(s string) BlockTime {
	bt, err := ParseBlockTime(s)
	if err != nil {
		panic(err)
	}
	return bt
}

func (bt BlockTime) Hour() int   { return int(bt) / 60 }
func (bt BlockTime) Minute() int { return int(bt) % 60 }

// String renders the compact table form (13:15 prints as "1:15").
func (bt BlockTime) String() string {
	h := bt.Hour()
	if h >= 13 && h <= 15 {
		h -= 12
	}
	return fmt.Sprintf("%d:%02d", h, bt.Minute())
}

// MinuteOfDay is t's wall-clock position on the BlockTime scale.
func MinuteOfDay(t time.Time) BlockTime {
	return BlockTime(t.Hour()*60 + t.Minute())
}

// TimeBlock is one named block of a day's schedule. Immutable.
type TimeBlock struct {
	Label string    `json:"label"`
	Start BlockTime `json:"start"`
	End   BlockTime `json:"end"`
}

// Contains reports whether m falls in the block's half-open [Start, End)
// window. A boundary instant belongs to the block that is starting.
func (b TimeBlock) Contains(m BlockTime) bool {
	return b.Start <= m && m < b.End
}

func (b TimeBlock) Duration() time.Duration {
	return time.Duration(b.End-b.Start) * time.Minute
}

// DaySchedule is the ordered block list for one weekday of one rotation.
type DaySchedule struct {
	Weekday Weekday
	Parity  Parity
	Blocks  []TimeBlock
}

// DayOverride fully replaces the standard schedule for one calendar date.
// There is no merging: when active, its blocks are the day's schedule.
type DayOverride struct {
	ID        string      `json:"id"`
	Date      time.Time   `json:"date"` // midnight, school timezone
	Title     string      `json:"title"`
	Blocks    []TimeBlock `json:"blocks"`
	CreatedBy string      `json:"created_by"`
	CreatedAt time.Time   `json:"created_at"`
	Active    bool        `json:"active"`
}

// Midnight truncates t to its day start in t's own location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
