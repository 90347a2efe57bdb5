package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/md-rashed-zaman/courtreserve/libs/auth"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/model"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/storage"
)

const (
	AdminEmail    = "admin@reservatenis.com"
	AdminPassword = "admin123"
	adminName     = "Administrador ReservaTenis"
	adminPhone    = "+54 11 0000-0000"
)

var (
	seedCourts = []model.Court{
		{Name: "Cancha 1", Surface: "Polvo de ladrillo", IsActive: true},
		{Name: "Cancha 2", Surface: "Polvo de ladrillo", IsActive: true},
		{Name: "Cancha 3", Surface: "Cemento", IsActive: true},
		{Name: "Cancha 4", Surface: "Cemento", IsActive: true},
	}
	seedOpen  = model.NewClock(8, 0)
	seedClose = model.NewClock(23, 0)
)

// SeedStore is the part of the repository the bootstrap seed writes to.
type SeedStore interface {
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	CreateUser(ctx context.Context, u model.User) (model.User, error)
	ListCourts(ctx context.Context, includeInactive bool) ([]model.Court, error)
	CreateCourt(ctx context.Context, c model.Court) (model.Court, error)
	EnsureSchedule(ctx context.Context, s model.ScheduleRule) (bool, error)
}

type SeedResult struct {
	AdminCreated     bool
	CourtsCreated    int
	SchedulesCreated int
}

// Seed creates the default admin and, on an empty database, four courts open
// every day from 08:00 to 23:00. It is safe to run repeatedly.
func Seed(ctx context.Context, store SeedStore, logger *slog.Logger) (SeedResult, error) {
	var res SeedResult

	_, err := store.GetUserByEmail(ctx, AdminEmail)
	switch {
	case storage.IsNotFound(err):
		hash, err := auth.HashPassword(AdminPassword)
		if err != nil {
			return res, err
		}
		if _, err := store.CreateUser(ctx, model.User{
			Email:          AdminEmail,
			FullName:       adminName,
			Phone:          adminPhone,
			HashedPassword: hash,
			IsActive:       true,
			IsAdmin:        true,
		}); err != nil {
			return res, fmt.Errorf("create admin: %w", err)
		}
		res.AdminCreated = true
		logger.Info("admin user created", "email", AdminEmail)
	case err != nil:
		return res, err
	}

	courts, err := store.ListCourts(ctx, true)
	if err != nil {
		return res, err
	}
	if len(courts) > 0 {
		return res, nil
	}
	for _, c := range seedCourts {
		created, err := store.CreateCourt(ctx, c)
		if err != nil {
			return res, fmt.Errorf("create court %q: %w", c.Name, err)
		}
		res.CourtsCreated++
		for day := model.Monday; day <= model.Sunday; day++ {
			inserted, err := store.EnsureSchedule(ctx, model.ScheduleRule{
				Court:     model.ForCourt(created.ID),
				Day:       day,
				OpenTime:  seedOpen,
				CloseTime: seedClose,
				Active:    true,
			})
			if err != nil {
				return res, fmt.Errorf("schedule court %d: %w", created.ID, err)
			}
			if inserted {
				res.SchedulesCreated++
			}
		}
	}
	logger.Info("default courts created", "courts", res.CourtsCreated, "schedules", res.SchedulesCreated)
	return res, nil
}
