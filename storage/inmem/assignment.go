package inmem

import (
	"context"
	"sort"

	"github.com/kwachira/ratiba/core/roster"
	"github.com/kwachira/ratiba/core/schedule"
)

type assignmentRepository struct {
	db *assignmentTable
}

var _ roster.Repository = (*assignmentRepository)(nil)

func NewAssignmentRepository(db *DB) *assignmentRepository {
	return &assignmentRepository{db: db.assignments}
}

func (r *assignmentRepository) GetAssignments(ctx context.Context, userID string, parity schedule.Parity) ([]roster.ClassAssignment, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	var assignments []roster.ClassAssignment
	for key, a := range r.db.t {
		if key.userID == userID && key.parity == parity {
			assignments = append(assignments, a)
		}
	}
	sort.Slice(assignments, func(i, j int) bool {
		return assignments[i].BlockLetter < assignments[j].BlockLetter
	})
	return assignments, nil
}

func (r *assignmentRepository) UpsertAssignment(ctx context.Context, userID string, parity schedule.Parity, a roster.ClassAssignment) (roster.ClassAssignment, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	r.db.t[assignmentKey{userID, parity, a.BlockLetter}] = a
	return a, nil
}

func (r *assignmentRepository) DeleteAssignment(ctx context.Context, userID string, parity schedule.Parity, letter roster.BlockLetter) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	delete(r.db.t, assignmentKey{userID, parity, letter})
	return nil
}
