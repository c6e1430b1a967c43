package database

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/kwachira/ratiba/core/schedule"
	"github.com/kwachira/ratiba/core/xblock"
)

type (
	consensusRepository struct {
		db *sqlx.DB
	}

	voteRow struct {
		ID          string    `db:"id"`
		ClassName   string    `db:"class_name"`
		TeacherName string    `db:"teacher_name"`
		Parity      string    `db:"parity"`
		XDays       int64     `db:"x_days"`
		Votes       int       `db:"votes"`
		SubmittedBy string    `db:"submitted_by"`
		SubmittedAt time.Time `db:"submitted_at"`
	}
)

var _ xblock.Repository = (*consensusRepository)(nil) // interface compliance check

func NewConsensusRepository(db *sqlx.DB) *consensusRepository {
	return &consensusRepository{db: db}
}

func (repo consensusRepository) decode(row voteRow) xblock.ConsensusRecord {
	return xblock.ConsensusRecord{
		ID:          row.ID,
		ClassName:   row.ClassName,
		TeacherName: row.TeacherName,
		Parity:      schedule.Parity(row.Parity),
		XDays:       schedule.WeekdaySet(row.XDays),
		Votes:       row.Votes,
		SubmittedBy: row.SubmittedBy,
		SubmittedAt: row.SubmittedAt,
	}
}

const voteColumns = `id, class_name, teacher_name, parity, x_days, votes, submitted_by, submitted_at`

func (repo consensusRepository) FindExact(ctx context.Context, className, teacherName string, parity schedule.Parity, xDays schedule.WeekdaySet) (xblock.ConsensusRecord, error) {
	var row voteRow
	err := repo.db.GetContext(ctx, &row,
		`SELECT `+voteColumns+` FROM xblock_votes
		 WHERE class_name = $1 AND teacher_name = $2 AND parity = $3 AND x_days = $4`,
		className, teacherName, string(parity), int64(xDays))
	if err != nil {
		return xblock.ConsensusRecord{}, trapNoRowsErr(err, xblock.ErrNotFound, "finding consensus record")
	}
	return repo.decode(row), nil
}

func (repo consensusRepository) QueryByKey(ctx context.Context, className, teacherName string, parity schedule.Parity) ([]xblock.ConsensusRecord, error) {
	var rows []voteRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT `+voteColumns+` FROM xblock_votes
		 WHERE class_name = $1 AND teacher_name = $2 AND parity = $3
		 ORDER BY votes DESC, submitted_at`,
		className, teacherName, string(parity))
	if err != nil {
		return nil, errors.Wrap(err, "querying consensus records")
	}
	records := make([]xblock.ConsensusRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, repo.decode(row))
	}
	return records, nil
}

func (repo consensusRepository) CreateRecord(ctx context.Context, rec xblock.ConsensusRecord) (xblock.ConsensusRecord, error) {
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO xblock_votes (`+voteColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (class_name, teacher_name, parity, x_days)
		 DO UPDATE SET votes = xblock_votes.votes + 1`,
		rec.ID, rec.ClassName, rec.TeacherName, string(rec.Parity), int64(rec.XDays),
		rec.Votes, rec.SubmittedBy, rec.SubmittedAt)
	if err != nil {
		return xblock.ConsensusRecord{}, errors.Wrap(err, "creating consensus record")
	}
	return rec, nil
}

func (repo consensusRepository) IncrementVotes(ctx context.Context, id string) (xblock.ConsensusRecord, error) {
	var row voteRow
	err := repo.db.GetContext(ctx, &row,
		`UPDATE xblock_votes SET votes = votes + 1 WHERE id = $1 RETURNING `+voteColumns,
		id)
	if err != nil {
		return xblock.ConsensusRecord{}, trapNoRowsErr(err, xblock.ErrNotFound, "incrementing vote tally")
	}
	return repo.decode(row), nil
}
