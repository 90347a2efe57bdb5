package storage

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/model"
)

const scheduleColumns = `id, court_id, day_of_week, open_time, close_time, is_active`

func scanSchedule(row pgx.Row) (model.ScheduleRule, error) {
	var (
		s           model.ScheduleRule
		courtID     *int64
		day         int16
		openAt, closeAt pgtype.Time
	)
	if err := row.Scan(&s.ID, &courtID, &day, &openAt, &closeAt, &s.Active); err != nil {
		return model.ScheduleRule{}, translate(err)
	}
	s.Court = model.CourtScopeFromPtr(courtID)
	s.Day = model.Weekday(day)
	s.OpenTime = clockValue(openAt)
	s.CloseTime = clockValue(closeAt)
	return s, nil
}

func collectSchedules(rows pgx.Rows) ([]model.ScheduleRule, error) {
	defer rows.Close()
	var out []model.ScheduleRule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

// ListScheduleRules returns the active rules for day that apply to courtID, court rules first.
func (r *Repository) ListScheduleRules(ctx context.Context, courtID int64, day model.Weekday) ([]model.ScheduleRule, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+scheduleColumns+`
		FROM court_schedules
		WHERE is_active AND day_of_week = $2 AND (court_id = $1 OR court_id IS NULL)
		ORDER BY court_id DESC NULLS LAST, open_time
	`, courtID, int16(day))
	if err != nil {
		return nil, err
	}
	return collectSchedules(rows)
}

// ListSchedules lists every rule, optionally only those bound to courtID.
func (r *Repository) ListSchedules(ctx context.Context, courtID *int64) ([]model.ScheduleRule, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+scheduleColumns+`
		FROM court_schedules
		WHERE $1::bigint IS NULL OR court_id = $1
		ORDER BY court_id NULLS FIRST, day_of_week, open_time
	`, courtID)
	if err != nil {
		return nil, err
	}
	return collectSchedules(rows)
}

func (r *Repository) GetSchedule(ctx context.Context, id int64) (model.ScheduleRule, error) {
	return scanSchedule(r.pool.QueryRow(ctx, `SELECT `+scheduleColumns+` FROM court_schedules WHERE id = $1`, id))
}

func (r *Repository) CreateSchedule(ctx context.Context, s model.ScheduleRule) (model.ScheduleRule, error) {
	return scanSchedule(r.pool.QueryRow(ctx, `
		INSERT INTO court_schedules (court_id, day_of_week, open_time, close_time, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+scheduleColumns,
		s.Court.Ptr(), int16(s.Day), clockParam(s.OpenTime), clockParam(s.CloseTime), s.Active))
}

func (r *Repository) UpdateSchedule(ctx context.Context, s model.ScheduleRule) (model.ScheduleRule, error) {
	return scanSchedule(r.pool.QueryRow(ctx, `
		UPDATE court_schedules
		SET court_id = $2, day_of_week = $3, open_time = $4, close_time = $5, is_active = $6
		WHERE id = $1
		RETURNING `+scheduleColumns,
		s.ID, s.Court.Ptr(), int16(s.Day), clockParam(s.OpenTime), clockParam(s.CloseTime), s.Active))
}

func (r *Repository) DeleteSchedule(ctx context.Context, id int64) error {
	return affectedOne(r.pool.Exec(ctx, `DELETE FROM court_schedules WHERE id = $1`, id))
}

// EnsureSchedule inserts the rule unless one already exists for the same court and weekday.
func (r *Repository) EnsureSchedule(ctx context.Context, s model.ScheduleRule) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO court_schedules (court_id, day_of_week, open_time, close_time, is_active)
		SELECT $1, $2, $3, $4, $5
		WHERE NOT EXISTS (
			SELECT 1 FROM court_schedules
			WHERE court_id IS NOT DISTINCT FROM $1 AND day_of_week = $2
		)
	`, s.Court.Ptr(), int16(s.Day), clockParam(s.OpenTime), clockParam(s.CloseTime), s.Active)
	if err != nil {
		return false, translate(err)
	}
	return tag.RowsAffected() == 1, nil
}
