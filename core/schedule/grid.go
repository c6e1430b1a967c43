package schedule

import (
	"time"

	"github.com/pkg/errors"
)

// blk builds one static table entry; panics on a malformed time, which is
// acceptable for package-level constants only.
func blk(label, start, end string) TimeBlock {
	return TimeBlock{Label: label, Start: MustBlockTime(start), End: MustBlockTime(end)}
}

// The standard grids, one per rotation. Weekday entries are pre-sorted by
// start time; CurrentBlock/NextBlock rely on that order and never sort.
// Sunday has no entry: looking it up falls back to Monday (see ScheduleFor).
var (
	gridRed = map[Weekday][]TimeBlock{
		Monday: {
			blk("Ax", "8:00", "8:25"),
			blk("A", "8:25", "9:05"),
			blk("B", "9:10", "9:50"),
			blk("Announcements", "9:50", "10:05"),
			blk("C", "10:10", "10:50"),
			blk("Cx", "10:50", "11:15"),
			blk("D", "11:20", "12:00"),
			blk("Lunch", "12:00", "12:40"),
			blk("E", "12:45", "1:25"),
			blk("F", "1:30", "2:10"),
			blk("G", "2:15", "2:55"),
			blk("Athletics", "3:05", "3:55"),
		},
		Tuesday: {
			blk("Bx", "8:00", "8:25"),
			blk("B", "8:25", "9:05"),
			blk("C", "9:10", "9:50"),
			blk("Community Time", "9:50", "10:20"),
			blk("D", "10:25", "11:05"),
			blk("Dx", "11:05", "11:30"),
			blk("E", "11:35", "12:15"),
			blk("Lunch", "12:15", "12:55"),
			blk("F", "1:00", "1:40"),
			blk("G", "1:45", "2:25"),
			blk("A", "2:30", "3:10"),
			blk("Athletics", "3:20", "3:55"),
		},
		Wednesday: {
			blk("Chapel", "8:00", "8:30"),
			blk("Ex", "8:35", "9:00"),
			blk("E", "9:00", "9:40"),
			blk("F", "9:45", "10:25"),
			blk("Break", "10:25", "10:40"),
			blk("G", "10:45", "11:25"),
			blk("A", "11:30", "12:10"),
			blk("Lunch", "12:10", "12:50"),
			blk("B", "12:55", "1:35"),
			blk("C", "1:40", "2:20"),
			blk("D", "2:25", "3:05"),
		},
		Thursday: {
			blk("Ax", "8:00", "8:25"),
			blk("A", "8:25", "9:05"),
			blk("Senate", "9:10", "9:40"),
			blk("B", "9:45", "10:25"),
			blk("Gx", "10:25", "10:50"),
			blk("G", "10:55", "11:35"),
			blk("Lunch", "11:35", "12:15"),
			blk("C", "12:20", "1:00"),
			blk("D", "1:05", "1:45"),
			blk("E", "1:50", "2:30"),
			blk("F", "2:35", "3:15"),
		},
		Friday: {
			blk("Assembly", "8:00", "8:40"),
			blk("B", "8:45", "9:25"),
			blk("Bx", "9:25", "9:50"),
			blk("C", "9:55", "10:35"),
			blk("D", "10:40", "11:20"),
			blk("Lunch", "11:20", "12:00"),
			blk("E", "12:05", "12:45"),
			blk("Fx", "12:45", "1:10"),
			blk("F", "1:10", "1:50"),
			blk("G", "1:55", "2:35"),
			blk("Faculty Meeting", "2:45", "3:30"),
		},
		Saturday: {
			blk("General Meeting", "8:00", "8:20"),
			blk("A", "8:25", "9:05"),
			blk("B", "9:10", "9:50"),
			blk("C", "9:55", "10:35"),
			blk("D", "10:40", "11:20"),
		},
	}

	gridWhite = map[Weekday][]TimeBlock{
		Monday: {
			blk("Gx", "8:00", "8:25"),
			blk("G", "8:25", "9:05"),
			blk("A", "9:10", "9:50"),
			blk("Chapel Chorus", "9:50", "10:20"),
			blk("B", "10:25", "11:05"),
			blk("Bx", "11:05", "11:30"),
			blk("C", "11:35", "12:15"),
			blk("Lunch", "12:15", "12:55"),
			blk("D", "1:00", "1:40"),
			blk("E", "1:45", "2:25"),
			blk("F", "2:30", "3:10"),
		},
		Tuesday: {
			blk("Fx", "8:00", "8:25"),
			blk("F", "8:25", "9:05"),
			blk("G", "9:10", "9:50"),
			blk("Community Time", "9:50", "10:20"),
			blk("A", "10:25", "11:05"),
			blk("Ax", "11:05", "11:30"),
			blk("B", "11:35", "12:15"),
			blk("Lunch", "12:15", "12:55"),
			blk("C", "1:00", "1:40"),
			blk("D", "1:45", "2:25"),
			blk("E", "2:30", "3:10"),
		},
		Wednesday: {
			blk("Chapel", "8:00", "8:30"),
			blk("Cx", "8:35", "9:00"),
			blk("C", "9:00", "9:40"),
			blk("D", "9:45", "10:25"),
			blk("Break", "10:25", "10:40"),
			blk("E", "10:45", "11:25"),
			blk("F", "11:30", "12:10"),
			blk("Lunch", "12:10", "12:50"),
			blk("G", "12:55", "1:35"),
			blk("A", "1:40", "2:20"),
			blk("B", "2:25", "3:05"),
		},
		Thursday: {
			blk("Ex", "8:00", "8:25"),
			blk("E", "8:25", "9:05"),
			blk("Senate", "9:10", "9:40"),
			blk("F", "9:45", "10:25"),
			blk("Dx", "10:25", "10:50"),
			blk("D", "10:55", "11:35"),
			blk("Lunch", "11:35", "12:15"),
			blk("G", "12:20", "1:00"),
			blk("A", "1:05", "1:45"),
			blk("B", "1:50", "2:30"),
			blk("C", "2:35", "3:15"),
		},
		Friday: {
			blk("Assembly", "8:00", "8:40"),
			blk("D", "8:45", "9:25"),
			blk("Gx", "9:25", "9:50"),
			blk("G", "9:55", "10:35"),
			blk("E", "10:40", "11:20"),
			blk("Lunch", "11:20", "12:00"),
			blk("F", "12:05", "12:45"),
			blk("A", "12:50", "1:30"),
			blk("B", "1:35", "2:15"),
			blk("C", "2:20", "3:00"),
			blk("Athletics", "3:10", "3:55"),
		},
		Saturday: {
			blk("General Meeting", "8:00", "8:20"),
			blk("E", "8:25", "9:05"),
			blk("F", "9:10", "9:50"),
			blk("G", "9:55", "10:35"),
			blk("A", "10:40", "11:20"),
		},
	}
)

func gridFor(parity Parity) map[Weekday][]TimeBlock {
	if parity == ParityWhite {
		return gridWhite
	}
	return gridRed
}

// ScheduleForDay is the standard block list for one weekday of one rotation.
// A weekday with no entry falls back to Monday's schedule. That default
// predates this implementation and is preserved as-is; whether Sunday should
// instead be empty is an open product question.
func ScheduleForDay(day Weekday, parity Parity) []TimeBlock {
	grid := gridFor(parity)
	if blocks, ok := grid[day]; ok {
		return blocks
	}
	return grid[Monday]
}

// ScheduleFor is the standard block list for t's weekday.
func ScheduleFor(t time.Time, parity Parity) []TimeBlock {
	return ScheduleForDay(WeekdayOf(t), parity)
}

// CurrentBlock finds the block containing t, on the half-open [start, end)
// rule: an instant exactly on a boundary belongs to the block that is
// starting, never the one ending. A non-empty override is used verbatim in
// place of the standard grid.
func CurrentBlock(t time.Time, parity Parity, override []TimeBlock) *TimeBlock {
	blocks := override
	if len(blocks) == 0 {
		blocks = ScheduleFor(t, parity)
	}
	m := MinuteOfDay(t)
	for i := range blocks {
		if blocks[i].Contains(m) {
			b := blocks[i]
			return &b
		}
	}
	return nil
}

// NextBlock finds the first block starting strictly after t, in list order.
// Blocks are assumed pre-sorted; no sort is performed.
func NextBlock(t time.Time, parity Parity, override []TimeBlock) *TimeBlock {
	blocks := override
	if len(blocks) == 0 {
		blocks = ScheduleFor(t, parity)
	}
	m := MinuteOfDay(t)
	for i := range blocks {
		if blocks[i].Start > m {
			b := blocks[i]
			return &b
		}
	}
	return nil
}

// ValidateBlocks checks the DaySchedule invariant: every block well-formed,
// blocks ordered by start time, and no two blocks overlapping. The invariant
// is not enforced by construction, so override candidates must pass here
// before use.
func ValidateBlocks(blocks []TimeBlock) error {
	if len(blocks) == 0 {
		return errors.New("empty block list")
	}
	for i, b := range blocks {
		if b.Label == "" {
			return errors.Errorf("block %d: empty label", i)
		}
		if b.Start >= b.End {
			return errors.Errorf("block %q: start %s not before end %s", b.Label, b.Start, b.End)
		}
		if i > 0 {
			prev := blocks[i-1]
			if b.Start < prev.Start {
				return errors.Errorf("block %q starts before preceding block %q", b.Label, prev.Label)
			}
			if b.Start < prev.End {
				return errors.Errorf("block %q overlaps preceding block %q", b.Label, prev.Label)
			}
		}
	}
	return nil
}
