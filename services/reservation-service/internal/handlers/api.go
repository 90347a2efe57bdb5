package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/availability"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/booking"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/model"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/notify"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/pricing"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/reports"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/storage"
)

// Notifier re-sends a stored notification. *notify.Dispatcher implements it.
type Notifier interface {
	Resend(ctx context.Context, id int64) (model.Notification, error)
}

var _ Notifier = (*notify.Dispatcher)(nil)

// API serves the public /api/v1 surface of the reservation service.
type API struct {
	repo     *storage.Repository
	bookings *booking.Service
	engine   *availability.Engine
	tariffs  *pricing.Resolver
	reports  *reports.Builder
	notifier Notifier
	auth     *Authenticator
	logger   *slog.Logger
	now      func() time.Time
}

type Deps struct {
	Repo     *storage.Repository
	Bookings *booking.Service
	Engine   *availability.Engine
	Tariffs  *pricing.Resolver
	Reports  *reports.Builder
	Notifier Notifier
	Auth     *Authenticator
	Logger   *slog.Logger
}

func NewAPI(d Deps) *API {
	return &API{
		repo:     d.Repo,
		bookings: d.Bookings,
		engine:   d.Engine,
		tariffs:  d.Tariffs,
		reports:  d.Reports,
		notifier: d.Notifier,
		auth:     d.Auth,
		logger:   d.Logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (a *API) Register(mux *http.ServeMux) {
	user, admin := a.auth.Require, a.auth.RequireAdmin

	mux.HandleFunc("POST /api/v1/auth/login", a.auth.Login)

	mux.HandleFunc("POST /api/v1/users", a.RegisterUser)
	mux.HandleFunc("POST /api/v1/users/admin", admin(a.CreateUser))
	mux.HandleFunc("GET /api/v1/users/me", user(a.Me))
	mux.HandleFunc("GET /api/v1/users", admin(a.ListUsers))
	mux.HandleFunc("GET /api/v1/users/{id}", admin(a.GetUser))
	mux.HandleFunc("PUT /api/v1/users/{id}", admin(a.UpdateUser))

	mux.HandleFunc("POST /api/v1/courts", admin(a.CreateCourt))
	mux.HandleFunc("GET /api/v1/courts", a.ListCourts)
	mux.HandleFunc("GET /api/v1/courts/{id}", a.GetCourt)
	mux.HandleFunc("PUT /api/v1/courts/{id}", admin(a.UpdateCourt))
	mux.HandleFunc("DELETE /api/v1/courts/{id}", admin(a.DeleteCourt))
	mux.HandleFunc("GET /api/v1/courts/{id}/availability", a.Availability)
	mux.HandleFunc("GET /api/v1/courts/{id}/price", a.Price)

	mux.HandleFunc("POST /api/v1/admin/schedules", admin(a.CreateSchedule))
	mux.HandleFunc("GET /api/v1/admin/schedules", admin(a.ListSchedules))
	mux.HandleFunc("PUT /api/v1/admin/schedules/{id}", admin(a.UpdateSchedule))
	mux.HandleFunc("DELETE /api/v1/admin/schedules/{id}", admin(a.DeleteSchedule))

	mux.HandleFunc("POST /api/v1/admin/tariffs", admin(a.CreateTariff))
	mux.HandleFunc("GET /api/v1/admin/tariffs", admin(a.ListTariffs))
	mux.HandleFunc("PUT /api/v1/admin/tariffs/{id}", admin(a.UpdateTariff))
	mux.HandleFunc("DELETE /api/v1/admin/tariffs/{id}", admin(a.DeleteTariff))

	mux.HandleFunc("POST /api/v1/admin/closures", admin(a.CreateClosure))
	mux.HandleFunc("GET /api/v1/admin/closures", admin(a.ListClosures))
	mux.HandleFunc("GET /api/v1/admin/closures/{id}", admin(a.GetClosure))
	mux.HandleFunc("PUT /api/v1/admin/closures/{id}", admin(a.UpdateClosure))
	mux.HandleFunc("DELETE /api/v1/admin/closures/{id}", admin(a.DeleteClosure))

	mux.HandleFunc("GET /api/v1/admin/notifications", admin(a.ListNotifications))
	mux.HandleFunc("POST /api/v1/admin/notifications/{id}/send", admin(a.SendNotification))

	mux.HandleFunc("POST /api/v1/reservations", user(a.CreateReservation))
	mux.HandleFunc("GET /api/v1/reservations", user(a.ListReservations))
	mux.HandleFunc("GET /api/v1/reservations/{id}", user(a.GetReservation))
	mux.HandleFunc("POST /api/v1/reservations/{id}/confirm", user(a.ConfirmReservation))
	mux.HandleFunc("DELETE /api/v1/reservations/{id}", user(a.CancelReservation))

	mux.HandleFunc("GET /api/v1/reports/occupancy", admin(a.OccupancyReport))
	mux.HandleFunc("GET /api/v1/reports/revenue", admin(a.RevenueReport))

	mux.HandleFunc("GET /api/v1/calendars/me.ics", user(a.MyCalendar))
	mux.HandleFunc("GET /api/v1/calendars/courts/{file}", a.CourtCalendar)
}
