package database

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/kwachira/ratiba/core/roster"
	"github.com/kwachira/ratiba/core/schedule"
)

type (
	assignmentRepository struct {
		db *sqlx.DB
	}

	assignmentRow struct {
		UserID      string        `db:"user_id"`
		Parity      string        `db:"parity"`
		BlockLetter string        `db:"block_letter"`
		ClassName   string        `db:"class_name"`
		TeacherName string        `db:"teacher_name"`
		Room        string        `db:"room"`
		ColorHex    string        `db:"color_hex"`
		XDaysRed    sql.NullInt64 `db:"x_days_red"`
		XDaysWhite  sql.NullInt64 `db:"x_days_white"`
	}
)

var _ roster.Repository = (*assignmentRepository)(nil) // interface compliance check

func NewAssignmentRepository(db *sqlx.DB) *assignmentRepository {
	return &assignmentRepository{db: db}
}

// NULL x-day columns keep the not-configured / explicitly-empty distinction
// the resolver's tier 1 depends on.
func nullableSet(n sql.NullInt64) *schedule.WeekdaySet {
	if !n.Valid {
		return nil
	}
	set := schedule.WeekdaySet(n.Int64)
	return &set
}

func nullableInt(s *schedule.WeekdaySet) sql.NullInt64 {
	if s == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*s), Valid: true}
}

func (repo assignmentRepository) decode(row assignmentRow) roster.ClassAssignment {
	return roster.ClassAssignment{
		BlockLetter: roster.BlockLetter(row.BlockLetter),
		ClassName:   row.ClassName,
		TeacherName: row.TeacherName,
		Room:        row.Room,
		ColorHex:    row.ColorHex,
		XDaysRed:    nullableSet(row.XDaysRed),
		XDaysWhite:  nullableSet(row.XDaysWhite),
	}
}

func (repo assignmentRepository) GetAssignments(ctx context.Context, userID string, parity schedule.Parity) ([]roster.ClassAssignment, error) {
	var rows []assignmentRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT user_id, parity, block_letter, class_name, teacher_name, room, color_hex, x_days_red, x_days_white
		 FROM class_assignments WHERE user_id = $1 AND parity = $2 ORDER BY block_letter`,
		userID, string(parity))
	if err != nil {
		return nil, errors.Wrap(err, "querying assignments")
	}
	assignments := make([]roster.ClassAssignment, 0, len(rows))
	for _, row := range rows {
		a := repo.decode(row)
		if !a.BlockLetter.Valid() {
			continue // malformed persisted row reads as absent
		}
		assignments = append(assignments, a)
	}
	return assignments, nil
}

func (repo assignmentRepository) UpsertAssignment(ctx context.Context, userID string, parity schedule.Parity, a roster.ClassAssignment) (roster.ClassAssignment, error) {
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO class_assignments
		   (user_id, parity, block_letter, class_name, teacher_name, room, color_hex, x_days_red, x_days_white)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (user_id, parity, block_letter) DO UPDATE
		 SET class_name = EXCLUDED.class_name, teacher_name = EXCLUDED.teacher_name,
		     room = EXCLUDED.room, color_hex = EXCLUDED.color_hex,
		     x_days_red = EXCLUDED.x_days_red, x_days_white = EXCLUDED.x_days_white`,
		userID, string(parity), string(a.BlockLetter), a.ClassName, a.TeacherName,
		a.Room, a.ColorHex, nullableInt(a.XDaysRed), nullableInt(a.XDaysWhite))
	if err != nil {
		return roster.ClassAssignment{}, errors.Wrap(err, "saving assignment")
	}
	return a, nil
}

func (repo assignmentRepository) DeleteAssignment(ctx context.Context, userID string, parity schedule.Parity, letter roster.BlockLetter) error {
	_, err := repo.db.ExecContext(ctx,
		`DELETE FROM class_assignments WHERE user_id = $1 AND parity = $2 AND block_letter = $3`,
		userID, string(parity), string(letter))
	if err != nil {
		return errors.Wrap(err, "deleting assignment")
	}
	return nil
}
