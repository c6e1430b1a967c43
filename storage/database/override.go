package database

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/kwachira/ratiba/core/schedule"
)

type (
	overrideRepository struct {
		db *sqlx.DB
	}

	overrideRow struct {
		ID        string    `db:"id"`
		Date      time.Time `db:"date"`
		Title     string    `db:"title"`
		Blocks    []byte    `db:"blocks"`
		CreatedBy string    `db:"created_by"`
		CreatedAt time.Time `db:"created_at"`
		Active    bool      `db:"active"`
	}
)

var _ schedule.Repository = (*overrideRepository)(nil) // interface compliance check

func NewOverrideRepository(db *sqlx.DB) *overrideRepository {
	return &overrideRepository{db: db}
}

func (repo overrideRepository) decode(row overrideRow) (schedule.DayOverride, error) {
	var blocks []schedule.TimeBlock
	if err := json.Unmarshal(row.Blocks, &blocks); err != nil {
		// malformed persisted record reads as absent
		return schedule.DayOverride{}, schedule.ErrNotFound
	}
	return schedule.DayOverride{
		ID:        row.ID,
		Date:      row.Date,
		Title:     row.Title,
		Blocks:    blocks,
		CreatedBy: row.CreatedBy,
		CreatedAt: row.CreatedAt,
		Active:    row.Active,
	}, nil
}

func (repo overrideRepository) GetOverrideByDate(ctx context.Context, date time.Time) (schedule.DayOverride, error) {
	var row overrideRow
	err := repo.db.GetContext(ctx, &row,
		`SELECT id, date, title, blocks, created_by, created_at, active FROM day_overrides WHERE date = $1`,
		date)
	if err != nil {
		return schedule.DayOverride{}, trapNoRowsErr(err, schedule.ErrNotFound, "finding day override")
	}
	return repo.decode(row)
}

func (repo overrideRepository) UpsertOverride(ctx context.Context, ov schedule.DayOverride) (schedule.DayOverride, error) {
	blocks, err := json.Marshal(ov.Blocks)
	if err != nil {
		return schedule.DayOverride{}, errors.Wrap(err, "encoding override blocks")
	}
	_, err = repo.db.ExecContext(ctx,
		`INSERT INTO day_overrides (id, date, title, blocks, created_by, created_at, active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (date) DO UPDATE
		 SET title = EXCLUDED.title, blocks = EXCLUDED.blocks,
		     created_by = EXCLUDED.created_by, active = EXCLUDED.active`,
		ov.ID, ov.Date, ov.Title, blocks, ov.CreatedBy, ov.CreatedAt, ov.Active)
	if err != nil {
		return schedule.DayOverride{}, errors.Wrap(err, "saving day override")
	}
	return ov, nil
}

func (repo overrideRepository) DeleteOverride(ctx context.Context, id string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM day_overrides WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting day override")
	}
	return nil
}
