package xblock

import (
	"context"
	"testing"

	"github.com/pkg/errors"

	"github.com/kwachira/ratiba/core/roster"
	"github.com/kwachira/ratiba/core/schedule"
)

type fakeVoteRepo struct {
	records []ConsensusRecord
	failAll bool
}

var errStoreDown = errors.New("store down")

func (r *fakeVoteRepo) FindExact(ctx context.Context, className, teacherName string, parity schedule.Parity, xDays schedule.WeekdaySet) (ConsensusRecord, error) {
	if r.failAll {
		return ConsensusRecord{}, errStoreDown
	}
	for _, rec := range r.records {
		if rec.ClassName == className && rec.TeacherName == teacherName && rec.Parity == parity && rec.XDays == xDays {
			return rec, nil
		}
	}
	return ConsensusRecord{}, ErrNotFound
}

func (r *fakeVoteRepo) QueryByKey(ctx context.Context, className, teacherName string, parity schedule.Parity) ([]ConsensusRecord, error) {
	if r.failAll {
		return nil, errStoreDown
	}
	var out []ConsensusRecord
	for _, rec := range r.records {
		if rec.ClassName == className && rec.TeacherName == teacherName && rec.Parity == parity {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeVoteRepo) CreateRecord(ctx context.Context, rec ConsensusRecord) (ConsensusRecord, error) {
	if r.failAll {
		return ConsensusRecord{}, errStoreDown
	}
	r.records = append(r.records, rec)
	return rec, nil
}

func (r *fakeVoteRepo) IncrementVotes(ctx context.Context, id string) (ConsensusRecord, error) {
	for i := range r.records {
		if r.records[i].ID == id {
			r.records[i].Votes++
			return r.records[i], nil
		}
	}
	return ConsensusRecord{}, ErrNotFound
}

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

func vote(days ...string) NewVote {
	return NewVote{ClassName: "Geometry", TeacherName: "Ms. Doe", Parity: "red", XDays: days}
}

func TestConsensus_SubmitOrIncrement(t *testing.T) {
	repo := &fakeVoteRepo{}
	c := NewConsensus(repo)
	ctx := context.Background()

	rec, err := c.SubmitOrIncrement(ctx, vote("Monday", "Thursday"), "usr1")
	if err != nil {
		t.Fatalf("SubmitOrIncrement() failed: %v", err)
	}
	if rec.Votes != 1 || rec.ID == "" {
		t.Errorf("first vote = %+v", rec)
	}

	// identical day set increments the same record
	rec2, err := c.SubmitOrIncrement(ctx, vote("Thursday", "Monday"), "usr2")
	if err != nil {
		t.Fatal(err)
	}
	if rec2.ID != rec.ID || rec2.Votes != 2 {
		t.Errorf("identical set should increment, got %+v", rec2)
	}

	// a different exact set is a new record with its own tally
	rec3, err := c.SubmitOrIncrement(ctx, vote("Monday"), "usr3")
	if err != nil {
		t.Fatal(err)
	}
	if rec3.ID == rec.ID || rec3.Votes != 1 {
		t.Errorf("different set should start fresh, got %+v", rec3)
	}
	if len(repo.records) != 2 {
		t.Errorf("store has %d records, want 2", len(repo.records))
	}

	// legacy parity alias maps onto the same identity
	rec4, err := c.SubmitOrIncrement(ctx, NewVote{
		ClassName: "Geometry", TeacherName: "Ms. Doe", Parity: "A", XDays: []string{"Monday", "Thursday"},
	}, "usr4")
	if err != nil {
		t.Fatal(err)
	}
	if rec4.ID != rec.ID || rec4.Votes != 3 {
		t.Errorf("parity alias should hit the same record, got %+v", rec4)
	}
}

func TestConsensus_SubmitOrIncrement_invalid(t *testing.T) {
	c := NewConsensus(&fakeVoteRepo{})
	ctx := context.Background()

	if _, err := c.SubmitOrIncrement(ctx, NewVote{TeacherName: "x", Parity: "red"}, "usr1"); err == nil {
		t.Error("missing class name should fail")
	}
	if _, err := c.SubmitOrIncrement(ctx, NewVote{ClassName: "x", TeacherName: "y", Parity: "green"}, "usr1"); err == nil {
		t.Error("unknown parity should fail")
	}
	if _, err := c.SubmitOrIncrement(ctx, vote("Funday"), "usr1"); err == nil {
		t.Error("unknown weekday should fail")
	}
}

func TestConsensus_AutoPopulateCandidate(t *testing.T) {
	repo := &fakeVoteRepo{}
	c := NewConsensus(repo)
	ctx := context.Background()

	// below threshold: no candidate
	for _, by := range []string{"u1", "u2"} {
		if _, err := c.SubmitOrIncrement(ctx, vote("Monday", "Thursday"), by); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := c.AutoPopulateCandidate(ctx, "Geometry", "Ms. Doe", schedule.ParityRed); errors.Cause(err) != ErrNotFound {
		t.Errorf("below threshold: error = %v, want ErrNotFound", err)
	}

	// a 2-2 split across two sets still has no candidate
	for _, by := range []string{"u3", "u4"} {
		if _, err := c.SubmitOrIncrement(ctx, vote("Tuesday"), by); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := c.AutoPopulateCandidate(ctx, "Geometry", "Ms. Doe", schedule.ParityRed); errors.Cause(err) != ErrNotFound {
		t.Errorf("split vote: error = %v, want ErrNotFound", err)
	}

	// third vote for one set reaches the threshold
	if _, err := c.SubmitOrIncrement(ctx, vote("Monday", "Thursday"), "u5"); err != nil {
		t.Fatal(err)
	}
	xDays, err := c.AutoPopulateCandidate(ctx, "Geometry", "Ms. Doe", schedule.ParityRed)
	if err != nil {
		t.Fatalf("AutoPopulateCandidate() failed: %v", err)
	}
	if xDays != schedule.NewWeekdaySet(schedule.Monday, schedule.Thursday) {
		t.Errorf("candidate = %v", xDays)
	}

	// unknown key
	if _, err = c.AutoPopulateCandidate(ctx, "Nope", "Nobody", schedule.ParityRed); errors.Cause(err) != ErrNotFound {
		t.Errorf("unknown key: error = %v, want ErrNotFound", err)
	}
}

func TestStandardXDays(t *testing.T) {
	if got := StandardXDays(roster.BlockA, schedule.ParityRed); got != schedule.NewWeekdaySet(schedule.Monday, schedule.Thursday) {
		t.Errorf("A/red = %v", got)
	}
	if got := StandardXDays(roster.BlockLetter("Z"), schedule.ParityRed); !got.IsEmpty() {
		t.Errorf("unknown letter = %v, want empty", got)
	}
	// every letter has an entry for both rotations
	for l := roster.BlockA; l <= roster.BlockG; l = roster.BlockLetter(l[0] + 1) {
		for _, p := range []schedule.Parity{schedule.ParityRed, schedule.ParityWhite} {
			if StandardXDays(l, p).IsEmpty() {
				t.Errorf("%s/%s has no standard days", l, p)
			}
		}
	}
}

func TestResolver_tiers(t *testing.T) {
	repo := &fakeVoteRepo{}
	consensus := NewConsensus(repo)
	r := NewResolver(consensus, nopLogger{})
	ctx := context.Background()

	personal := schedule.NewWeekdaySet(schedule.Friday)
	empty := schedule.NewWeekdaySet()

	withPersonal := &roster.ClassAssignment{
		BlockLetter: roster.BlockA, ClassName: "Geometry", TeacherName: "Ms. Doe", XDaysRed: &personal,
	}
	withEmptyPersonal := &roster.ClassAssignment{
		BlockLetter: roster.BlockA, ClassName: "Geometry", TeacherName: "Ms. Doe", XDaysRed: &empty,
	}
	unconfigured := &roster.ClassAssignment{
		BlockLetter: roster.BlockA, ClassName: "Geometry", TeacherName: "Ms. Doe",
	}

	// tier 1 beats everything, even with consensus present
	for _, by := range []string{"u1", "u2", "u3"} {
		if _, err := consensus.SubmitOrIncrement(ctx, vote("Tuesday"), by); err != nil {
			t.Fatal(err)
		}
	}
	if got := r.Resolve(ctx, withPersonal, roster.BlockA, schedule.ParityRed); got != personal {
		t.Errorf("personal set should win, got %v", got)
	}

	// an explicitly empty personal set is final, not a fallthrough
	if got := r.Resolve(ctx, withEmptyPersonal, roster.BlockA, schedule.ParityRed); !got.IsEmpty() {
		t.Errorf("explicit empty set should be final, got %v", got)
	}

	// tier 2: consensus at threshold
	if got := r.Resolve(ctx, unconfigured, roster.BlockA, schedule.ParityRed); got != schedule.NewWeekdaySet(schedule.Tuesday) {
		t.Errorf("consensus should apply, got %v", got)
	}

	// tier 3: standard table when consensus is below threshold
	other := &roster.ClassAssignment{BlockLetter: roster.BlockB, ClassName: "Algebra", TeacherName: "Mr. Roe"}
	if got := r.Resolve(ctx, other, roster.BlockB, schedule.ParityRed); got != StandardXDays(roster.BlockB, schedule.ParityRed) {
		t.Errorf("standard table should apply, got %v", got)
	}

	// nil assignment resolves straight to the standard table
	if got := r.Resolve(ctx, nil, roster.BlockC, schedule.ParityRed); got != StandardXDays(roster.BlockC, schedule.ParityRed) {
		t.Errorf("nil assignment = %v", got)
	}

	// a consensus read failure falls back to the standard table, not an error
	repo.failAll = true
	if got := r.Resolve(ctx, unconfigured, roster.BlockA, schedule.ParityRed); got != StandardXDays(roster.BlockA, schedule.ParityRed) {
		t.Errorf("store failure should fall back to standard, got %v", got)
	}
}

func TestResolver_UsesXBlock(t *testing.T) {
	r := NewResolver(NewConsensus(&fakeVoteRepo{}), nopLogger{})
	ctx := context.Background()

	personal := schedule.NewWeekdaySet(schedule.Friday)
	a := &roster.ClassAssignment{BlockLetter: roster.BlockA, ClassName: "Geometry", XDaysRed: &personal}

	if !r.UsesXBlock(ctx, a, roster.BlockA, schedule.ParityRed, schedule.Friday) {
		t.Error("Friday is in the personal set")
	}
	// Monday is a standard A/red X-day, but the personal set omits it: no X
	if r.UsesXBlock(ctx, a, roster.BlockA, schedule.ParityRed, schedule.Monday) {
		t.Error("personal set omitting Monday must win over the standard table")
	}
}
