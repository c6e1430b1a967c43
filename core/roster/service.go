package roster

import (
	"context"

	"github.com/pkg/errors"

	"github.com/kwachira/ratiba/core/schedule"
)

type (
	Repository interface {
		GetAssignments(ctx context.Context, userID string, parity schedule.Parity) ([]ClassAssignment, error)
		UpsertAssignment(ctx context.Context, userID string, parity schedule.Parity, a ClassAssignment) (ClassAssignment, error)
		DeleteAssignment(ctx context.Context, userID string, parity schedule.Parity, letter BlockLetter) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Set validates and stores an assignment; at most one per letter per
// rotation, so an existing assignment for the letter is replaced.
func (svc *Service) Set(ctx context.Context, userID string, parity schedule.Parity, na NewAssignment) (ClassAssignment, error) {
	if err := na.Validate(); err != nil {
		return ClassAssignment{}, err
	}

	letter, err := ParseBlockLetter(na.BlockLetter)
	if err != nil {
		return ClassAssignment{}, err
	}
	xRed, err := days(na.XDaysRed)
	if err != nil {
		return ClassAssignment{}, err
	}
	xWhite, err := days(na.XDaysWhite)
	if err != nil {
		return ClassAssignment{}, err
	}

	a := ClassAssignment{
		BlockLetter: letter,
		ClassName:   na.ClassName,
		TeacherName: na.TeacherName,
		Room:        na.Room,
		ColorHex:    na.ColorHex,
		XDaysRed:    xRed,
		XDaysWhite:  xWhite,
	}
	return svc.repo.UpsertAssignment(ctx, userID, parity, a)
}

// Remove clears the letter's assignment; the period becomes free.
func (svc *Service) Remove(ctx context.Context, userID string, parity schedule.Parity, letter BlockLetter) error {
	if !letter.Valid() {
		return errors.Errorf("invalid block letter %q", letter)
	}
	return svc.repo.DeleteAssignment(ctx, userID, parity, letter)
}

// Map returns the student's assignment map for one rotation, keyed by letter.
// Absence of a letter means a free period.
func (svc *Service) Map(ctx context.Context, userID string, parity schedule.Parity) (map[BlockLetter]ClassAssignment, error) {
	list, err := svc.repo.GetAssignments(ctx, userID, parity)
	if err != nil {
		return nil, errors.Wrap(err, "querying assignments")
	}
	m := make(map[BlockLetter]ClassAssignment, len(list))
	for _, a := range list {
		m[a.BlockLetter] = a
	}
	return m, nil
}
