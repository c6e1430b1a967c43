package inmem

import (
	"context"

	"github.com/kwachira/ratiba/core/schedule"
	"github.com/kwachira/ratiba/core/xblock"
)

type consensusRepository struct {
	db *voteTable
}

var _ xblock.Repository = (*consensusRepository)(nil)

func NewConsensusRepository(db *DB) *consensusRepository {
	return &consensusRepository{db: db.votes}
}

func (r *consensusRepository) FindExact(ctx context.Context, className, teacherName string, parity schedule.Parity, xDays schedule.WeekdaySet) (xblock.ConsensusRecord, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	for _, id := range r.db.ord {
		rec := r.db.t[id]
		if rec.ClassName == className && rec.TeacherName == teacherName &&
			rec.Parity == parity && rec.XDays == xDays {
			return rec, nil
		}
	}
	return xblock.ConsensusRecord{}, xblock.ErrNotFound
}

func (r *consensusRepository) QueryByKey(ctx context.Context, className, teacherName string, parity schedule.Parity) ([]xblock.ConsensusRecord, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	var records []xblock.ConsensusRecord
	for _, id := range r.db.ord {
		rec := r.db.t[id]
		if rec.ClassName == className && rec.TeacherName == teacherName && rec.Parity == parity {
			records = append(records, rec)
		}
	}
	return records, nil
}

func (r *consensusRepository) CreateRecord(ctx context.Context, rec xblock.ConsensusRecord) (xblock.ConsensusRecord, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	r.db.t[rec.ID] = rec
	r.db.ord = append(r.db.ord, rec.ID)
	return rec, nil
}

func (r *consensusRepository) IncrementVotes(ctx context.Context, id string) (xblock.ConsensusRecord, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	rec, ok := r.db.t[id]
	if !ok {
		return xblock.ConsensusRecord{}, xblock.ErrNotFound
	}
	rec.Votes++
	r.db.t[id] = rec
	return rec, nil
}
