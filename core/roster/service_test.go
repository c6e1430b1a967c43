package roster

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"

	"github.com/kwachira/ratiba/core/schedule"
)

type fakeAssignmentRepo struct {
	assignments map[string]map[BlockLetter]ClassAssignment // userID/parity -> letter
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{assignments: make(map[string]map[BlockLetter]ClassAssignment)}
}

func (r *fakeAssignmentRepo) key(userID string, parity schedule.Parity) string {
	return userID + "/" + string(parity)
}

func (r *fakeAssignmentRepo) GetAssignments(ctx context.Context, userID string, parity schedule.Parity) ([]ClassAssignment, error) {
	var list []ClassAssignment
	for _, a := range r.assignments[r.key(userID, parity)] {
		list = append(list, a)
	}
	return list, nil
}

func (r *fakeAssignmentRepo) UpsertAssignment(ctx context.Context, userID string, parity schedule.Parity, a ClassAssignment) (ClassAssignment, error) {
	key := r.key(userID, parity)
	if r.assignments[key] == nil {
		r.assignments[key] = make(map[BlockLetter]ClassAssignment)
	}
	r.assignments[key][a.BlockLetter] = a
	return a, nil
}

func (r *fakeAssignmentRepo) DeleteAssignment(ctx context.Context, userID string, parity schedule.Parity, letter BlockLetter) error {
	if m, ok := r.assignments[r.key(userID, parity)]; ok {
		delete(m, letter)
	}
	return nil
}

func TestParseBlockLetter(t *testing.T) {
	tests := []struct {
		in      string
		want    BlockLetter
		wantErr bool
	}{
		{in: "A", want: BlockA},
		{in: "g", want: BlockG},
		{in: " c ", want: BlockC},
		{in: "H", wantErr: true},
		{in: "AB", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseBlockLetter(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseBlockLetter(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseBlockLetter(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBlockLetter_Period(t *testing.T) {
	if got := BlockA.Period(); got != 1 {
		t.Errorf("A.Period() = %d, want 1", got)
	}
	if got := BlockG.Period(); got != 7 {
		t.Errorf("G.Period() = %d, want 7", got)
	}
	if got := BlockLetter("Z").Period(); got != 0 {
		t.Errorf("Z.Period() = %d, want 0", got)
	}
}

func TestService_Set(t *testing.T) {
	repo := newFakeAssignmentRepo()
	svc := NewService(repo)
	ctx := context.Background()

	a, err := svc.Set(ctx, "usr1", schedule.ParityRed, NewAssignment{
		BlockLetter: "a",
		ClassName:   " Geometry ",
		TeacherName: "Ms. Doe",
		Room:        "204",
		ColorHex:    "#ff0000",
		XDaysRed:    []string{"Monday", "Thursday"},
	})
	if err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if a.BlockLetter != BlockA {
		t.Errorf("letter = %q, want A", a.BlockLetter)
	}
	if a.ClassName != "Geometry" {
		t.Errorf("class name not cleaned: %q", a.ClassName)
	}
	if a.XDaysRed == nil || !a.XDaysRed.Has(schedule.Monday) || !a.XDaysRed.Has(schedule.Thursday) {
		t.Errorf("x days red = %v", a.XDaysRed)
	}
	if a.XDaysWhite != nil {
		t.Error("unset x days should stay nil (not configured)")
	}

	// replacing the same letter keeps at most one assignment per letter
	if _, err = svc.Set(ctx, "usr1", schedule.ParityRed, NewAssignment{
		BlockLetter: "A", ClassName: "Algebra", TeacherName: "Mr. Roe",
	}); err != nil {
		t.Fatal(err)
	}
	m, err := svc.Map(ctx, "usr1", schedule.ParityRed)
	if err != nil {
		t.Fatal(err)
	}
	if len(m) != 1 || m[BlockA].ClassName != "Algebra" {
		t.Errorf("Map() = %v, want single Algebra at A", m)
	}
}

func TestService_Set_explicitEmptyXDays(t *testing.T) {
	svc := NewService(newFakeAssignmentRepo())

	a, err := svc.Set(context.Background(), "usr1", schedule.ParityRed, NewAssignment{
		BlockLetter: "B",
		ClassName:   "Studio Art",
		TeacherName: "Ms. Lee",
		XDaysRed:    []string{}, // configured: never meets extended
	})
	if err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if a.XDaysRed == nil {
		t.Fatal("explicit empty list must produce an empty set, not nil")
	}
	if !a.XDaysRed.IsEmpty() {
		t.Errorf("x days = %v, want empty set", a.XDaysRed)
	}
}

func TestService_Set_invalid(t *testing.T) {
	svc := NewService(newFakeAssignmentRepo())
	ctx := context.Background()

	tests := []struct {
		name string
		na   NewAssignment
	}{
		{name: "missing class name", na: NewAssignment{BlockLetter: "A", TeacherName: "x"}},
		{name: "bad letter", na: NewAssignment{BlockLetter: "H", ClassName: "x", TeacherName: "y"}},
		{name: "bad color", na: NewAssignment{BlockLetter: "A", ClassName: "x", TeacherName: "y", ColorHex: "red"}},
		{name: "bad weekday", na: NewAssignment{BlockLetter: "A", ClassName: "x", TeacherName: "y", XDaysRed: []string{"Funday"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Set(ctx, "usr1", schedule.ParityRed, tt.na)
			if err == nil {
				t.Fatal("Set() should fail")
			}
			if _, ok := err.(validator.ValidationErrors); !ok {
				t.Errorf("Set() error = %T (%v), want validator.ValidationErrors", err, err)
			}
		})
	}
}

func TestService_Remove(t *testing.T) {
	repo := newFakeAssignmentRepo()
	svc := NewService(repo)
	ctx := context.Background()

	if _, err := svc.Set(ctx, "usr1", schedule.ParityWhite, NewAssignment{
		BlockLetter: "C", ClassName: "Biology", TeacherName: "Dr. Ada",
	}); err != nil {
		t.Fatal(err)
	}

	if err := svc.Remove(ctx, "usr1", schedule.ParityWhite, BlockC); err != nil {
		t.Fatalf("Remove() failed: %v", err)
	}
	m, _ := svc.Map(ctx, "usr1", schedule.ParityWhite)
	if len(m) != 0 {
		t.Errorf("Map() after remove = %v, want empty", m)
	}

	if err := svc.Remove(ctx, "usr1", schedule.ParityWhite, "Z"); err == nil {
		t.Error("Remove() should reject an invalid letter")
	}
}

func TestProfile_ParticipatesIn(t *testing.T) {
	var p *Profile
	if p.ParticipatesIn("senate") {
		t.Error("nil profile participates in nothing")
	}

	p = &Profile{UserID: "usr1", Activities: map[string]bool{"senate": true}}
	if !p.ParticipatesIn("Senate") {
		t.Error("participation lookup should be case-insensitive")
	}
	if p.ParticipatesIn("chapel-chorus") {
		t.Error("unlisted activity should read as non-participating")
	}
}
