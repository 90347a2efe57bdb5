package model

import "time"

type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
)

func (s ReservationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

type Reservation struct {
	ID            int64
	CourtID       int64
	UserID        *int64
	StartTime     time.Time
	EndTime       time.Time
	CustomerName  string
	CustomerPhone string
	Status        ReservationStatus
	ExpiresAt     *time.Time
	PriceCents    *int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Occupies reports whether the reservation blocks its interval at now: confirmed ones always do,
// pending ones until their hold lapses.
func (r Reservation) Occupies(now time.Time) bool {
	switch r.Status {
	case StatusConfirmed:
		return true
	case StatusPending:
		return r.ExpiresAt == nil || r.ExpiresAt.After(now)
	default:
		return false
	}
}

// HoldLapsed reports a pending reservation whose hold expired at or before now.
func (r Reservation) HoldLapsed(now time.Time) bool {
	return r.Status == StatusPending && r.ExpiresAt != nil && !r.ExpiresAt.After(now)
}

func (r Reservation) OwnedBy(userID int64) bool {
	return r.UserID != nil && *r.UserID == userID
}
