package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/kwachira/ratiba/core"
)

type fakeOverrideRepo struct {
	overrides map[time.Time]DayOverride
	getCalls  int
}

func newFakeOverrideRepo() *fakeOverrideRepo {
	return &fakeOverrideRepo{overrides: make(map[time.Time]DayOverride)}
}

func (r *fakeOverrideRepo) GetOverrideByDate(ctx context.Context, date time.Time) (DayOverride, error) {
	r.getCalls++
	if ov, ok := r.overrides[date]; ok {
		return ov, nil
	}
	return DayOverride{}, ErrNotFound
}

func (r *fakeOverrideRepo) UpsertOverride(ctx context.Context, ov DayOverride) (DayOverride, error) {
	r.overrides[ov.Date] = ov
	return ov, nil
}

func (r *fakeOverrideRepo) DeleteOverride(ctx context.Context, id string) error { return nil }

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

func testBlocks() []TimeBlock {
	return []TimeBlock{
		{Label: "Assembly", Start: MustBlockTime("9:00"), End: MustBlockTime("10:00")},
		{Label: "A", Start: MustBlockTime("10:05"), End: MustBlockTime("11:00")},
	}
}

func TestService_OverrideForDate_cachesPerDay(t *testing.T) {
	repo := newFakeOverrideRepo()
	svc := NewService(repo, nopLogger{})
	ctx := context.Background()

	date := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	repo.overrides[date] = DayOverride{ID: "ov1", Date: date, Blocks: testBlocks(), Active: true}

	// two lookups on the same day, at different clock times, hit the store once
	for _, clock := range []int{8, 14} {
		ov, err := svc.OverrideForDate(ctx, date.Add(time.Duration(clock)*time.Hour))
		if err != nil {
			t.Fatalf("OverrideForDate() failed: %v", err)
		}
		if ov == nil || ov.ID != "ov1" {
			t.Fatalf("OverrideForDate() = %v, want ov1", ov)
		}
	}
	if repo.getCalls != 1 {
		t.Errorf("store hit %d times, want 1", repo.getCalls)
	}

	// a different day is a fresh lookup
	if _, err := svc.OverrideForDate(ctx, date.AddDate(0, 0, 1)); err != nil {
		t.Fatalf("OverrideForDate() failed: %v", err)
	}
	if repo.getCalls != 2 {
		t.Errorf("store hit %d times, want 2", repo.getCalls)
	}
}

func TestService_OverrideForDate_missAndInactive(t *testing.T) {
	repo := newFakeOverrideRepo()
	svc := NewService(repo, nopLogger{})
	ctx := context.Background()

	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	// no override: nil result, and the miss is cached too
	ov, err := svc.OverrideForDate(ctx, date)
	if err != nil || ov != nil {
		t.Fatalf("OverrideForDate() = %v, %v; want nil, nil", ov, err)
	}
	if _, err = svc.OverrideForDate(ctx, date); err != nil {
		t.Fatal(err)
	}
	if repo.getCalls != 1 {
		t.Errorf("store hit %d times, want 1", repo.getCalls)
	}

	// an inactive override reads as absent
	date2 := date.AddDate(0, 0, 1)
	repo.overrides[date2] = DayOverride{ID: "ov2", Date: date2, Blocks: testBlocks(), Active: false}
	if ov, err = svc.OverrideForDate(ctx, date2); err != nil || ov != nil {
		t.Errorf("inactive override: got %v, %v; want nil, nil", ov, err)
	}
}

func TestService_SetOverride(t *testing.T) {
	repo := newFakeOverrideRepo()
	svc := NewService(repo, nopLogger{})
	ctx := context.Background()

	date := time.Date(2026, 9, 2, 13, 45, 0, 0, time.UTC) // mid-day instant

	ov, err := svc.SetOverride(ctx, DayOverride{Date: date, Title: "Spirit Day", Blocks: testBlocks(), Active: true})
	if err != nil {
		t.Fatalf("SetOverride() failed: %v", err)
	}
	if ov.ID == "" {
		t.Error("SetOverride() should assign an id")
	}
	if ov.Date != Midnight(date) {
		t.Errorf("SetOverride() date = %v, want midnight", ov.Date)
	}

	// the new override is visible immediately (cache invalidated)
	got, err := svc.OverrideForDate(ctx, date)
	if err != nil || got == nil || got.Title != "Spirit Day" {
		t.Fatalf("OverrideForDate() after set = %v, %v", got, err)
	}

	// invalid block lists are rejected with a field error
	_, err = svc.SetOverride(ctx, DayOverride{Date: date, Blocks: nil})
	if _, ok := err.(*core.ValidationError); !ok {
		t.Errorf("SetOverride(empty blocks) error = %T, want *core.ValidationError", err)
	}
}

func TestService_DeactivateOverride(t *testing.T) {
	repo := newFakeOverrideRepo()
	svc := NewService(repo, nopLogger{})
	ctx := context.Background()

	date := time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC)
	if _, err := svc.SetOverride(ctx, DayOverride{Date: date, Blocks: testBlocks(), Active: true}); err != nil {
		t.Fatal(err)
	}

	if err := svc.DeactivateOverride(ctx, date); err != nil {
		t.Fatalf("DeactivateOverride() failed: %v", err)
	}
	if ov, err := svc.OverrideForDate(ctx, date); err != nil || ov != nil {
		t.Errorf("after deactivation: got %v, %v; want nil, nil", ov, err)
	}

	// deactivating a date with no override reports not-found
	if err := svc.DeactivateOverride(ctx, date.AddDate(0, 1, 0)); err != ErrNotFound {
		t.Errorf("DeactivateOverride(no override) error = %v, want ErrNotFound", err)
	}
}

func TestService_ImportCandidate(t *testing.T) {
	repo := newFakeOverrideRepo()
	svc := NewService(repo, nopLogger{})
	ctx := context.Background()

	date := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC) // a Monday
	candidate := map[Weekday][]TimeBlock{
		Monday:  testBlocks(),
		Tuesday: testBlocks(),
	}

	ov, err := svc.ImportCandidate(ctx, candidate, date, "Exam Week", "admin")
	if err != nil {
		t.Fatalf("ImportCandidate() failed: %v", err)
	}
	if len(ov.Blocks) != 2 || ov.Title != "Exam Week" || !ov.Active {
		t.Errorf("ImportCandidate() = %+v", ov)
	}

	// a candidate missing the date's weekday is rejected
	if _, err = svc.ImportCandidate(ctx, map[Weekday][]TimeBlock{Tuesday: testBlocks()}, date, "", ""); err == nil {
		t.Error("ImportCandidate() should fail when the date's weekday is absent")
	}

	// a candidate with any invalid day list is rejected wholesale
	bad := map[Weekday][]TimeBlock{
		Monday:  testBlocks(),
		Tuesday: {{Label: "", Start: 0, End: 0}},
	}
	if _, err = svc.ImportCandidate(ctx, bad, date, "", ""); err == nil {
		t.Error("ImportCandidate() should validate every day in the candidate")
	}

	if _, err = svc.ImportCandidate(ctx, nil, date, "", ""); err == nil {
		t.Error("ImportCandidate() should reject an empty candidate")
	}
}
