package storage

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/model"
)

const closureColumns = `id, court_id, start_time, end_time, reason, created_at`

func scanClosure(row pgx.Row) (model.Closure, error) {
	var (
		c       model.Closure
		courtID *int64
	)
	if err := row.Scan(&c.ID, &courtID, &c.StartTime, &c.EndTime, &c.Reason, &c.CreatedAt); err != nil {
		return model.Closure{}, translate(err)
	}
	c.Court = model.CourtScopeFromPtr(courtID)
	return c, nil
}

func collectClosures(rows pgx.Rows) ([]model.Closure, error) {
	defer rows.Close()
	var out []model.Closure
	for rows.Next() {
		c, err := scanClosure(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

// ListClosures returns closures for courtID or every court that intersect [from, to).
func (r *Repository) ListClosures(ctx context.Context, courtID int64, from, to time.Time) ([]model.Closure, error) {
	return r.closuresOverlapping(ctx, r.pool, &courtID, from, to)
}

// ClosureFilter narrows the admin closure listing; zero values do not filter.
type ClosureFilter struct {
	CourtID *int64
	From    time.Time
	To      time.Time
}

func (r *Repository) ListClosuresFiltered(ctx context.Context, f ClosureFilter) ([]model.Closure, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+closureColumns+`
		FROM court_closures
		WHERE ($1::bigint IS NULL OR court_id = $1 OR court_id IS NULL)
		  AND ($2::timestamp IS NULL OR end_time > $2)
		  AND ($3::timestamp IS NULL OR start_time < $3)
		ORDER BY start_time
	`, f.CourtID, nullTime(f.From), nullTime(f.To))
	if err != nil {
		return nil, err
	}
	return collectClosures(rows)
}

// ClosuresOverlapping is the in-transaction variant used when validating a booking.
func (r *Repository) ClosuresOverlapping(ctx context.Context, tx pgx.Tx, courtID int64, from, to time.Time) ([]model.Closure, error) {
	return r.closuresOverlapping(ctx, tx, &courtID, from, to)
}

func (r *Repository) closuresOverlapping(ctx context.Context, q querier, courtID *int64, from, to time.Time) ([]model.Closure, error) {
	rows, err := q.Query(ctx, `
		SELECT `+closureColumns+`
		FROM court_closures
		WHERE (court_id = $1 OR court_id IS NULL)
		  AND end_time > $2 AND start_time < $3
		ORDER BY start_time
	`, courtID, from, to)
	if err != nil {
		return nil, err
	}
	return collectClosures(rows)
}

func (r *Repository) GetClosure(ctx context.Context, id int64) (model.Closure, error) {
	return scanClosure(r.pool.QueryRow(ctx, `SELECT `+closureColumns+` FROM court_closures WHERE id = $1`, id))
}

func (r *Repository) CreateClosure(ctx context.Context, c model.Closure) (model.Closure, error) {
	return scanClosure(r.pool.QueryRow(ctx, `
		INSERT INTO court_closures (court_id, start_time, end_time, reason)
		VALUES ($1, $2, $3, $4)
		RETURNING `+closureColumns,
		c.Court.Ptr(), c.StartTime, c.EndTime, c.Reason))
}

func (r *Repository) UpdateClosure(ctx context.Context, c model.Closure) (model.Closure, error) {
	return scanClosure(r.pool.QueryRow(ctx, `
		UPDATE court_closures
		SET court_id = $2, start_time = $3, end_time = $4, reason = $5
		WHERE id = $1
		RETURNING `+closureColumns,
		c.ID, c.Court.Ptr(), c.StartTime, c.EndTime, c.Reason))
}

func (r *Repository) DeleteClosure(ctx context.Context, id int64) error {
	return affectedOne(r.pool.Exec(ctx, `DELETE FROM court_closures WHERE id = $1`, id))
}

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
