package schedule

import (
	"reflect"
	"testing"
	"time"
)

// aMonday returns an instant on a Monday at the given table time.
func aMonday(t *testing.T, clock string) time.Time {
	t.Helper()
	bt := MustBlockTime(clock)
	return time.Date(2026, 8, 31, bt.Hour(), bt.Minute(), 0, 0, time.UTC) // a Monday
}

func TestStandardGrids_valid(t *testing.T) {
	for _, parity := range []Parity{ParityRed, ParityWhite} {
		for day := Sunday; day <= Saturday; day++ {
			blocks := ScheduleForDay(day, parity)
			if err := ValidateBlocks(blocks); err != nil {
				t.Errorf("%s/%s grid invalid: %v", parity, day, err)
			}
		}
	}
}

func TestScheduleForDay_mondayFallback(t *testing.T) {
	for _, parity := range []Parity{ParityRed, ParityWhite} {
		if !reflect.DeepEqual(ScheduleForDay(Sunday, parity), ScheduleForDay(Monday, parity)) {
			t.Errorf("%s: Sunday should fall back to Monday's schedule", parity)
		}
	}
}

func TestCurrentBlock(t *testing.T) {
	tests := []struct {
		name  string
		at    string
		want  string // block label; empty means no block
	}{
		{name: "first block", at: "8:10", want: "Ax"},
		{name: "start boundary belongs to starting block", at: "8:25", want: "A"},
		{name: "mid block", at: "8:40", want: "A"},
		{name: "gap between blocks", at: "9:07", want: ""},
		{name: "before school", at: "7:00", want: ""},
		{name: "after school", at: "16:00", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CurrentBlock(aMonday(t, tt.at), ParityRed, nil)
			if tt.want == "" {
				if got != nil {
					t.Fatalf("CurrentBlock() = %q, want none", got.Label)
				}
				return
			}
			if got == nil || got.Label != tt.want {
				t.Fatalf("CurrentBlock() = %v, want %q", got, tt.want)
			}
		})
	}
}

func TestCurrentBlock_override(t *testing.T) {
	override := []TimeBlock{
		{Label: "Assembly", Start: MustBlockTime("9:00"), End: MustBlockTime("10:00")},
		{Label: "A", Start: MustBlockTime("10:05"), End: MustBlockTime("11:00")},
	}

	got := CurrentBlock(aMonday(t, "9:30"), ParityRed, override)
	if got == nil || got.Label != "Assembly" {
		t.Fatalf("CurrentBlock() = %v, want Assembly", got)
	}

	// the override replaces the grid wholesale: outside its blocks, nothing
	if got := CurrentBlock(aMonday(t, "8:10"), ParityRed, override); got != nil {
		t.Errorf("CurrentBlock() = %q, want none during override day", got.Label)
	}
}

func TestNextBlock(t *testing.T) {
	next := NextBlock(aMonday(t, "8:10"), ParityRed, nil)
	if next == nil || next.Label != "A" {
		t.Fatalf("NextBlock() = %v, want A", next)
	}

	// strictly after: at A's own start the next is the block after it
	next = NextBlock(aMonday(t, "8:25"), ParityRed, nil)
	if next == nil || next.Label == "A" {
		t.Fatalf("NextBlock() at start should skip the starting block, got %v", next)
	}

	if next = NextBlock(aMonday(t, "11:00"), ParityRed, nil); next == nil {
		t.Fatal("NextBlock() mid-day should find a block")
	}
	if next = NextBlock(aMonday(t, "9:00"), ParityRed, nil); next == nil {
		t.Fatal("NextBlock() in a gap should find a block")
	}
	if next = NextBlock(aMonday(t, "16:00"), ParityRed, nil); next != nil {
		t.Errorf("NextBlock() after the last block = %q, want none", next.Label)
	}
}

func TestValidateBlocks(t *testing.T) {
	blk := func(label, start, end string) TimeBlock {
		return TimeBlock{Label: label, Start: MustBlockTime(start), End: MustBlockTime(end)}
	}

	tests := []struct {
		name    string
		blocks  []TimeBlock
		wantErr bool
	}{
		{name: "empty list", blocks: nil, wantErr: true},
		{name: "ok", blocks: []TimeBlock{blk("A", "8:00", "8:40"), blk("B", "8:45", "9:25")}},
		{name: "adjacent ok", blocks: []TimeBlock{blk("A", "8:00", "8:40"), blk("B", "8:40", "9:25")}},
		{name: "empty label", blocks: []TimeBlock{blk("", "8:00", "8:40")}, wantErr: true},
		{name: "zero duration", blocks: []TimeBlock{blk("A", "8:00", "8:00")}, wantErr: true},
		{name: "inverted", blocks: []TimeBlock{blk("A", "9:00", "8:00")}, wantErr: true},
		{name: "unsorted", blocks: []TimeBlock{blk("B", "8:45", "9:25"), blk("A", "8:00", "8:40")}, wantErr: true},
		{name: "overlap", blocks: []TimeBlock{blk("A", "8:00", "8:50"), blk("B", "8:45", "9:25")}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateBlocks(tt.blocks); (err != nil) != tt.wantErr {
				t.Errorf("ValidateBlocks() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
