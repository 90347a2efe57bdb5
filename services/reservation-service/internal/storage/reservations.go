package storage

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/availability"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/model"
)

const reservationColumns = `id, court_id, user_id, start_time, end_time, customer_name, customer_phone,
	status, expires_at, price_cents, created_at, updated_at`

func scanReservation(row pgx.Row) (model.Reservation, error) {
	var (
		res    model.Reservation
		status string
	)
	err := row.Scan(
		&res.ID,
		&res.CourtID,
		&res.UserID,
		&res.StartTime,
		&res.EndTime,
		&res.CustomerName,
		&res.CustomerPhone,
		&status,
		&res.ExpiresAt,
		&res.PriceCents,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if err != nil {
		return model.Reservation{}, translate(err)
	}
	res.Status = model.ReservationStatus(status)
	return res, nil
}

func collectReservations(rows pgx.Rows) ([]model.Reservation, error) {
	defer rows.Close()
	var out []model.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

func (r *Repository) CreateReservation(ctx context.Context, tx pgx.Tx, res model.Reservation) (model.Reservation, error) {
	return scanReservation(tx.QueryRow(ctx, `
		INSERT INTO reservations
			(court_id, user_id, start_time, end_time, customer_name, customer_phone, status, expires_at, price_cents)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+reservationColumns,
		res.CourtID, res.UserID, res.StartTime, res.EndTime, res.CustomerName, res.CustomerPhone,
		string(res.Status), res.ExpiresAt, res.PriceCents))
}

func (r *Repository) GetReservation(ctx context.Context, id int64) (model.Reservation, error) {
	return scanReservation(r.pool.QueryRow(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE id = $1`, id))
}

func (r *Repository) GetReservationForUpdate(ctx context.Context, tx pgx.Tx, id int64) (model.Reservation, error) {
	return scanReservation(tx.QueryRow(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE id = $1 FOR UPDATE`, id))
}

// SetReservationStatus moves the reservation to status. Leaving pending always drops the hold.
func (r *Repository) SetReservationStatus(ctx context.Context, tx pgx.Tx, id int64, status model.ReservationStatus, now time.Time) (model.Reservation, error) {
	return scanReservation(tx.QueryRow(ctx, `
		UPDATE reservations
		SET status = $2,
		    expires_at = CASE WHEN $2 = 'pending' THEN expires_at ELSE NULL END,
		    updated_at = $3
		WHERE id = $1
		RETURNING `+reservationColumns,
		id, string(status), now))
}

// HasOverlap reports a non-cancelled reservation on courtID intersecting [start, end).
func (r *Repository) HasOverlap(ctx context.Context, tx pgx.Tx, courtID int64, start, end time.Time) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM reservations
			WHERE court_id = $1 AND status <> 'cancelled'
			  AND start_time < $3 AND end_time > $2
		)
	`, courtID, start, end).Scan(&exists)
	return exists, err
}

// ExpireLapsed cancels pending reservations whose hold ended at or before now, optionally for one
// court, and returns them.
func (r *Repository) ExpireLapsed(ctx context.Context, tx pgx.Tx, courtID *int64, now time.Time) ([]model.Reservation, error) {
	rows, err := tx.Query(ctx, `
		UPDATE reservations
		SET status = 'cancelled', expires_at = NULL, updated_at = $2
		WHERE status = 'pending'
		  AND expires_at IS NOT NULL AND expires_at <= $2
		  AND ($1::bigint IS NULL OR court_id = $1)
		RETURNING `+reservationColumns,
		courtID, now)
	if err != nil {
		return nil, err
	}
	return collectReservations(rows)
}

// ListOccupied returns the intervals of courtID blocked at now inside [from, to).
func (r *Repository) ListOccupied(ctx context.Context, courtID int64, from, to, now time.Time) ([]availability.Window, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+reservationColumns+`
		FROM reservations
		WHERE court_id = $1
		  AND (status = 'confirmed' OR (status = 'pending' AND (expires_at IS NULL OR expires_at > $4)))
		  AND start_time < $3 AND end_time > $2
		ORDER BY start_time
	`, courtID, from, to, now)
	if err != nil {
		return nil, err
	}
	reservations, err := collectReservations(rows)
	if err != nil {
		return nil, err
	}
	return availability.OccupiedWindows(reservations, now), nil
}

// ReservationFilter narrows listings; zero values do not filter.
type ReservationFilter struct {
	CourtID *int64
	UserID  *int64
	Status  model.ReservationStatus
	From    time.Time
	To      time.Time
	// Within keeps only reservations fully inside [From, To); otherwise any overlap matches.
	Within bool
}

func (r *Repository) ListReservations(ctx context.Context, f ReservationFilter) ([]model.Reservation, error) {
	var status *string
	if f.Status != "" {
		s := string(f.Status)
		status = &s
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+reservationColumns+`
		FROM reservations
		WHERE ($1::bigint IS NULL OR court_id = $1)
		  AND ($2::bigint IS NULL OR user_id = $2)
		  AND ($3::text IS NULL OR status = $3)
		  AND ($4::timestamp IS NULL OR (CASE WHEN $6 THEN start_time >= $4 ELSE end_time > $4 END))
		  AND ($5::timestamp IS NULL OR (CASE WHEN $6 THEN end_time <= $5 ELSE start_time < $5 END))
		ORDER BY start_time, id
	`, f.CourtID, f.UserID, status, nullTime(f.From), nullTime(f.To), f.Within)
	if err != nil {
		return nil, err
	}
	return collectReservations(rows)
}

// ListStarting returns confirmed reservations starting in [from, to), for calendar feeds.
func (r *Repository) ListStarting(ctx context.Context, courtID, userID *int64, from, to time.Time) ([]model.Reservation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+reservationColumns+`
		FROM reservations
		WHERE status = 'confirmed'
		  AND ($1::bigint IS NULL OR court_id = $1)
		  AND ($2::bigint IS NULL OR user_id = $2)
		  AND start_time >= $3 AND start_time < $4
		ORDER BY start_time
	`, courtID, userID, from, to)
	if err != nil {
		return nil, err
	}
	return collectReservations(rows)
}
