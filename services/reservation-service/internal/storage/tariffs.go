package storage

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/model"
)

const tariffColumns = `id, court_id, day_of_week, start_time, end_time, price_per_hour_cents, is_active`

func scanTariff(row pgx.Row) (model.TariffRule, error) {
	var (
		t          model.TariffRule
		courtID    *int64
		day        *int16
		start, end pgtype.Time
	)
	if err := row.Scan(&t.ID, &courtID, &day, &start, &end, &t.PricePerHourCents, &t.Active); err != nil {
		return model.TariffRule{}, translate(err)
	}
	t.Court = model.CourtScopeFromPtr(courtID)
	t.Day = model.DayScopeFromPtr(intPtr(day))
	t.StartTime = clockValue(start)
	t.EndTime = clockValue(end)
	return t, nil
}

func collectTariffs(rows pgx.Rows) ([]model.TariffRule, error) {
	defer rows.Close()
	var out []model.TariffRule
	for rows.Next() {
		t, err := scanTariff(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

// ListTariffRules returns active tariffs that could price a booking on courtID on day.
func (r *Repository) ListTariffRules(ctx context.Context, courtID int64, day model.Weekday) ([]model.TariffRule, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+tariffColumns+`
		FROM court_tariffs
		WHERE is_active
		  AND (court_id = $1 OR court_id IS NULL)
		  AND (day_of_week = $2 OR day_of_week IS NULL)
		ORDER BY id
	`, courtID, int16(day))
	if err != nil {
		return nil, err
	}
	return collectTariffs(rows)
}

func (r *Repository) ListTariffs(ctx context.Context, courtID *int64) ([]model.TariffRule, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+tariffColumns+`
		FROM court_tariffs
		WHERE $1::bigint IS NULL OR court_id = $1
		ORDER BY court_id NULLS FIRST, day_of_week NULLS FIRST, start_time
	`, courtID)
	if err != nil {
		return nil, err
	}
	return collectTariffs(rows)
}

func (r *Repository) GetTariff(ctx context.Context, id int64) (model.TariffRule, error) {
	return scanTariff(r.pool.QueryRow(ctx, `SELECT `+tariffColumns+` FROM court_tariffs WHERE id = $1`, id))
}

func (r *Repository) CreateTariff(ctx context.Context, t model.TariffRule) (model.TariffRule, error) {
	return scanTariff(r.pool.QueryRow(ctx, `
		INSERT INTO court_tariffs (court_id, day_of_week, start_time, end_time, price_per_hour_cents, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+tariffColumns,
		t.Court.Ptr(), int16Ptr(t.Day.Ptr()), clockParam(t.StartTime), clockParam(t.EndTime), t.PricePerHourCents, t.Active))
}

func (r *Repository) UpdateTariff(ctx context.Context, t model.TariffRule) (model.TariffRule, error) {
	return scanTariff(r.pool.QueryRow(ctx, `
		UPDATE court_tariffs
		SET court_id = $2, day_of_week = $3, start_time = $4, end_time = $5, price_per_hour_cents = $6, is_active = $7
		WHERE id = $1
		RETURNING `+tariffColumns,
		t.ID, t.Court.Ptr(), int16Ptr(t.Day.Ptr()), clockParam(t.StartTime), clockParam(t.EndTime), t.PricePerHourCents, t.Active))
}

func (r *Repository) DeleteTariff(ctx context.Context, id int64) error {
	return affectedOne(r.pool.Exec(ctx, `DELETE FROM court_tariffs WHERE id = $1`, id))
}
