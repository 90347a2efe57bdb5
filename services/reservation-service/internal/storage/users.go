package storage

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/model"
)

const userColumns = `id, email, full_name, phone, hashed_password, is_active, is_admin, created_at`

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	if err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.Phone, &u.HashedPassword, &u.IsActive, &u.IsAdmin, &u.CreatedAt); err != nil {
		return model.User{}, translate(err)
	}
	return u, nil
}

// CreateUser inserts u; a duplicate email is ErrConflict.
func (r *Repository) CreateUser(ctx context.Context, u model.User) (model.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		INSERT INTO users (email, full_name, phone, hashed_password, is_active, is_admin)
		VALUES (lower($1), $2, $3, $4, $5, $6)
		RETURNING `+userColumns,
		u.Email, u.FullName, u.Phone, u.HashedPassword, u.IsActive, u.IsAdmin))
}

func (r *Repository) GetUser(ctx context.Context, id int64) (model.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = lower($1)`, email))
}

func (r *Repository) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return users, nil
}

func (r *Repository) UpdateUser(ctx context.Context, u model.User) (model.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		UPDATE users
		SET email = lower($2), full_name = $3, phone = $4, hashed_password = $5, is_active = $6, is_admin = $7
		WHERE id = $1
		RETURNING `+userColumns,
		u.ID, u.Email, u.FullName, u.Phone, u.HashedPassword, u.IsActive, u.IsAdmin))
}
