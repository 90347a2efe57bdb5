package storage

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/model"
)

const courtColumns = `id, name, surface, is_active`

func scanCourt(row pgx.Row) (model.Court, error) {
	var c model.Court
	if err := row.Scan(&c.ID, &c.Name, &c.Surface, &c.IsActive); err != nil {
		return model.Court{}, translate(err)
	}
	return c, nil
}

func (r *Repository) CreateCourt(ctx context.Context, c model.Court) (model.Court, error) {
	return scanCourt(r.pool.QueryRow(ctx, `
		INSERT INTO courts (name, surface, is_active)
		VALUES ($1, $2, $3)
		RETURNING `+courtColumns,
		c.Name, c.Surface, c.IsActive))
}

func (r *Repository) GetCourt(ctx context.Context, id int64) (model.Court, error) {
	return scanCourt(r.pool.QueryRow(ctx, `SELECT `+courtColumns+` FROM courts WHERE id = $1`, id))
}

// LockCourt takes a row lock on the court so concurrent bookings for it serialize.
func (r *Repository) LockCourt(ctx context.Context, tx pgx.Tx, id int64) (model.Court, error) {
	return scanCourt(tx.QueryRow(ctx, `SELECT `+courtColumns+` FROM courts WHERE id = $1 FOR UPDATE`, id))
}

func (r *Repository) GetCourtByName(ctx context.Context, name string) (model.Court, error) {
	return scanCourt(r.pool.QueryRow(ctx, `SELECT `+courtColumns+` FROM courts WHERE name = $1`, name))
}

// ListCourts returns courts ordered by name; inactive ones only when includeInactive is set.
func (r *Repository) ListCourts(ctx context.Context, includeInactive bool) ([]model.Court, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+courtColumns+`
		FROM courts
		WHERE is_active OR $1
		ORDER BY name
	`, includeInactive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courts []model.Court
	for rows.Next() {
		c, err := scanCourt(rows)
		if err != nil {
			return nil, err
		}
		courts = append(courts, c)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return courts, nil
}

func (r *Repository) UpdateCourt(ctx context.Context, c model.Court) (model.Court, error) {
	return scanCourt(r.pool.QueryRow(ctx, `
		UPDATE courts
		SET name = $2, surface = $3, is_active = $4
		WHERE id = $1
		RETURNING `+courtColumns,
		c.ID, c.Name, c.Surface, c.IsActive))
}

// DeactivateCourt hides the court from listings and booking; history is kept.
func (r *Repository) DeactivateCourt(ctx context.Context, id int64) error {
	return affectedOne(r.pool.Exec(ctx, `UPDATE courts SET is_active = FALSE WHERE id = $1`, id))
}
