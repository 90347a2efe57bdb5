package handlers

import (
	"time"

	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/model"
)

func stamp(t time.Time) string { return t.UTC().Format(model.TimestampLayout) }

func stampPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := stamp(*t)
	return &s
}

type userResponse struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	Phone     string `json:"phone"`
	IsActive  bool   `json:"is_active"`
	IsAdmin   bool   `json:"is_admin"`
	CreatedAt string `json:"created_at"`
}

func toUser(u model.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Phone:     u.Phone,
		IsActive:  u.IsActive,
		IsAdmin:   u.IsAdmin,
		CreatedAt: stamp(u.CreatedAt),
	}
}

type courtResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Surface  string `json:"surface"`
	IsActive bool   `json:"is_active"`
}

func toCourt(c model.Court) courtResponse {
	return courtResponse{ID: c.ID, Name: c.Name, Surface: c.Surface, IsActive: c.IsActive}
}

type scheduleResponse struct {
	ID        int64           `json:"id"`
	CourtID   *int64          `json:"court_id"`
	DayOfWeek int             `json:"day_of_week"`
	OpenTime  model.ClockTime `json:"open_time"`
	CloseTime model.ClockTime `json:"close_time"`
	IsActive  bool            `json:"is_active"`
}

func toSchedule(s model.ScheduleRule) scheduleResponse {
	return scheduleResponse{
		ID:        s.ID,
		CourtID:   s.Court.Ptr(),
		DayOfWeek: int(s.Day),
		OpenTime:  s.OpenTime,
		CloseTime: s.CloseTime,
		IsActive:  s.Active,
	}
}

type tariffResponse struct {
	ID                int64           `json:"id"`
	CourtID           *int64          `json:"court_id"`
	DayOfWeek         *int            `json:"day_of_week"`
	StartTime         model.ClockTime `json:"start_time"`
	EndTime           model.ClockTime `json:"end_time"`
	PricePerHourCents int64           `json:"price_per_hour_cents"`
	IsActive          bool            `json:"is_active"`
}

func toTariff(t model.TariffRule) tariffResponse {
	return tariffResponse{
		ID:                t.ID,
		CourtID:           t.Court.Ptr(),
		DayOfWeek:         t.Day.Ptr(),
		StartTime:         t.StartTime,
		EndTime:           t.EndTime,
		PricePerHourCents: t.PricePerHourCents,
		IsActive:          t.Active,
	}
}

type closureResponse struct {
	ID        int64  `json:"id"`
	CourtID   *int64 `json:"court_id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Reason    string `json:"reason"`
	CreatedAt string `json:"created_at"`
}

func toClosure(c model.Closure) closureResponse {
	return closureResponse{
		ID:        c.ID,
		CourtID:   c.Court.Ptr(),
		StartTime: stamp(c.StartTime),
		EndTime:   stamp(c.EndTime),
		Reason:    c.Reason,
		CreatedAt: stamp(c.CreatedAt),
	}
}

type reservationResponse struct {
	ID            int64   `json:"id"`
	CourtID       int64   `json:"court_id"`
	UserID        *int64  `json:"user_id"`
	StartTime     string  `json:"start_time"`
	EndTime       string  `json:"end_time"`
	CustomerName  string  `json:"customer_name"`
	CustomerPhone string  `json:"customer_phone"`
	Status        string  `json:"status"`
	PriceCents    *int64  `json:"price_cents"`
	ExpiresAt     *string `json:"expires_at"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

func toReservation(r model.Reservation) reservationResponse {
	return reservationResponse{
		ID:            r.ID,
		CourtID:       r.CourtID,
		UserID:        r.UserID,
		StartTime:     stamp(r.StartTime),
		EndTime:       stamp(r.EndTime),
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		Status:        string(r.Status),
		PriceCents:    r.PriceCents,
		ExpiresAt:     stampPtr(r.ExpiresAt),
		CreatedAt:     stamp(r.CreatedAt),
		UpdatedAt:     stamp(r.UpdatedAt),
	}
}

func toReservations(rs []model.Reservation) []reservationResponse {
	out := make([]reservationResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, toReservation(r))
	}
	return out
}

type notificationResponse struct {
	ID            int64   `json:"id"`
	ReservationID *int64  `json:"reservation_id"`
	UserID        *int64  `json:"user_id"`
	Channel       string  `json:"channel"`
	EventType     string  `json:"event_type"`
	Recipient     string  `json:"recipient"`
	Payload       string  `json:"payload"`
	Status        string  `json:"status"`
	ErrorMessage  string  `json:"error_message"`
	CreatedAt     string  `json:"created_at"`
	SentAt        *string `json:"sent_at"`
}

func toNotification(n model.Notification) notificationResponse {
	return notificationResponse{
		ID:            n.ID,
		ReservationID: n.ReservationID,
		UserID:        n.UserID,
		Channel:       n.Channel,
		EventType:     n.EventType,
		Recipient:     n.Recipient,
		Payload:       string(n.Payload),
		Status:        string(n.Status),
		ErrorMessage:  n.ErrorMessage,
		CreatedAt:     stamp(n.CreatedAt),
		SentAt:        stampPtr(n.SentAt),
	}
}
