package database

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/kwachira/ratiba/core/sports"
)

type (
	sportsRepository struct {
		db *sqlx.DB
	}

	eventRow struct {
		EventID   string    `db:"event_id"`
		SportType string    `db:"sport_type"`
		Opponent  string    `db:"opponent"`
		StartsAt  time.Time `db:"starts_at"`
	}

	statusRow struct {
		EventID        string         `db:"event_id"`
		SportType      string         `db:"sport_type"`
		State          string         `db:"state"`
		HomeScore      int            `db:"home_score"`
		AwayScore      int            `db:"away_score"`
		PeriodLabel    string         `db:"period_label"`
		ClockRemaining int64          `db:"clock_remaining"`
		ClockAsOf      *time.Time     `db:"clock_as_of"`
		Possession     string         `db:"possession"`
		LastEvent      string         `db:"last_event"`
		TopFinishers   pq.StringArray `db:"top_finishers"`
		ReporterName   string         `db:"reporter_name"`
		UpdatedAt      time.Time      `db:"updated_at"`
	}

	claimRow struct {
		EventID      string    `db:"event_id"`
		ReporterID   string    `db:"reporter_id"`
		ReporterName string    `db:"reporter_name"`
		ClaimedAt    time.Time `db:"claimed_at"`
		ExpiresAt    time.Time `db:"expires_at"`
		Status       string    `db:"status"`
	}
)

var _ sports.Repository = (*sportsRepository)(nil) // interface compliance check

func NewSportsRepository(db *sqlx.DB) *sportsRepository {
	return &sportsRepository{db: db}
}

func (repo sportsRepository) GetEvent(ctx context.Context, eventID string) (sports.Event, error) {
	var row eventRow
	err := repo.db.GetContext(ctx, &row,
		`SELECT event_id, sport_type, opponent, starts_at FROM sports_events WHERE event_id = $1`,
		eventID)
	if err != nil {
		return sports.Event{}, trapNoRowsErr(err, sports.ErrNotFound, "finding sports event")
	}
	return sports.Event(row), nil
}

func (repo sportsRepository) SaveEvent(ctx context.Context, ev sports.Event) (sports.Event, error) {
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO sports_events (event_id, sport_type, opponent, starts_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (event_id) DO UPDATE
		 SET sport_type = EXCLUDED.sport_type, opponent = EXCLUDED.opponent, starts_at = EXCLUDED.starts_at`,
		ev.EventID, ev.SportType, ev.Opponent, ev.StartsAt)
	if err != nil {
		return sports.Event{}, errors.Wrap(err, "saving sports event")
	}
	return ev, nil
}

func (repo sportsRepository) decodeStatus(row statusRow) sports.Status {
	st := sports.Status{
		EventID:        row.EventID,
		SportType:      row.SportType,
		State:          sports.EventState(row.State),
		HomeScore:      row.HomeScore,
		AwayScore:      row.AwayScore,
		PeriodLabel:    row.PeriodLabel,
		ClockRemaining: time.Duration(row.ClockRemaining),
		Possession:     row.Possession,
		LastEvent:      row.LastEvent,
		TopFinishers:   row.TopFinishers,
		ReporterName:   row.ReporterName,
		UpdatedAt:      row.UpdatedAt,
	}
	if row.ClockAsOf != nil {
		st.ClockAsOf = *row.ClockAsOf
	}
	return st
}

func (repo sportsRepository) GetStatus(ctx context.Context, eventID string) (sports.Status, error) {
	var row statusRow
	err := repo.db.GetContext(ctx, &row,
		`SELECT event_id, sport_type, state, home_score, away_score, period_label,
		        clock_remaining, clock_as_of, possession, last_event, top_finishers,
		        reporter_name, updated_at
		 FROM sports_statuses WHERE event_id = $1`,
		eventID)
	if err != nil {
		return sports.Status{}, trapNoRowsErr(err, sports.ErrNotFound, "finding sports status")
	}
	if !sports.EventState(row.State).Valid() {
		return sports.Status{}, sports.ErrNotFound // malformed row reads as absent
	}
	return repo.decodeStatus(row), nil
}

func (repo sportsRepository) SaveStatus(ctx context.Context, st sports.Status) (sports.Status, error) {
	var clockAsOf *time.Time
	if !st.ClockAsOf.IsZero() {
		clockAsOf = &st.ClockAsOf
	}
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO sports_statuses
		   (event_id, sport_type, state, home_score, away_score, period_label,
		    clock_remaining, clock_as_of, possession, last_event, top_finishers,
		    reporter_name, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 ON CONFLICT (event_id) DO UPDATE
		 SET state = EXCLUDED.state, home_score = EXCLUDED.home_score,
		     away_score = EXCLUDED.away_score, period_label = EXCLUDED.period_label,
		     clock_remaining = EXCLUDED.clock_remaining, clock_as_of = EXCLUDED.clock_as_of,
		     possession = EXCLUDED.possession, last_event = EXCLUDED.last_event,
		     top_finishers = EXCLUDED.top_finishers, reporter_name = EXCLUDED.reporter_name,
		     updated_at = EXCLUDED.updated_at`,
		st.EventID, st.SportType, string(st.State), st.HomeScore, st.AwayScore,
		st.PeriodLabel, int64(st.ClockRemaining), clockAsOf, st.Possession, st.LastEvent,
		pq.StringArray(st.TopFinishers), st.ReporterName, st.UpdatedAt)
	if err != nil {
		return sports.Status{}, errors.Wrap(err, "saving sports status")
	}
	return st, nil
}

func (repo sportsRepository) GetClaim(ctx context.Context, eventID string) (sports.ReporterClaim, error) {
	var row claimRow
	err := repo.db.GetContext(ctx, &row,
		`SELECT event_id, reporter_id, reporter_name, claimed_at, expires_at, status
		 FROM reporter_claims WHERE event_id = $1`,
		eventID)
	if err != nil {
		return sports.ReporterClaim{}, trapNoRowsErr(err, sports.ErrNotFound, "finding reporter claim")
	}
	return sports.ReporterClaim{
		EventID:      row.EventID,
		ReporterID:   row.ReporterID,
		ReporterName: row.ReporterName,
		ClaimedAt:    row.ClaimedAt,
		ExpiresAt:    row.ExpiresAt,
		Status:       sports.ClaimStatus(row.Status),
	}, nil
}

func (repo sportsRepository) SaveClaim(ctx context.Context, c sports.ReporterClaim) (sports.ReporterClaim, error) {
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO reporter_claims (event_id, reporter_id, reporter_name, claimed_at, expires_at, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (event_id) DO UPDATE
		 SET reporter_id = EXCLUDED.reporter_id, reporter_name = EXCLUDED.reporter_name,
		     claimed_at = EXCLUDED.claimed_at, expires_at = EXCLUDED.expires_at,
		     status = EXCLUDED.status`,
		c.EventID, c.ReporterID, c.ReporterName, c.ClaimedAt, c.ExpiresAt, string(c.Status))
	if err != nil {
		return sports.ReporterClaim{}, errors.Wrap(err, "saving reporter claim")
	}
	return c, nil
}
