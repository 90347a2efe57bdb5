package outbox

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/model"
)

// Event is the domain event envelope written to the outbox table.
// The Kafka topic name equals EventType.
type Event struct {
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

const (
	ReservationCreated   = "reservation.created.v1"
	ReservationConfirmed = "reservation.confirmed.v1"
	ReservationCancelled = "reservation.cancelled.v1"
	ReservationExpired   = "reservation.expired.v1"
)

type reservationPayload struct {
	ReservationID int64   `json:"reservation_id"`
	CourtID       int64   `json:"court_id"`
	UserID        *int64  `json:"user_id,omitempty"`
	StartTime     string  `json:"start_time"`
	EndTime       string  `json:"end_time"`
	Status        string  `json:"status"`
	PriceCents    *int64  `json:"price_cents,omitempty"`
	ExpiresAt     *string `json:"expires_at,omitempty"`
	OccurredAt    string  `json:"occurred_at"`
}

// ReservationEvent builds the envelope for a reservation state change.
func ReservationEvent(eventType string, r model.Reservation, at time.Time) (Event, error) {
	p := reservationPayload{
		ReservationID: r.ID,
		CourtID:       r.CourtID,
		UserID:        r.UserID,
		StartTime:     r.StartTime.Format(model.TimestampLayout),
		EndTime:       r.EndTime.Format(model.TimestampLayout),
		Status:        string(r.Status),
		PriceCents:    r.PriceCents,
		OccurredAt:    at.UTC().Format(time.RFC3339),
	}
	if r.ExpiresAt != nil {
		s := r.ExpiresAt.Format(model.TimestampLayout)
		p.ExpiresAt = &s
	}
	payload, err := json.Marshal(p)
	if err != nil {
		return Event{}, err
	}
	return Event{
		AggregateType: "reservation",
		AggregateID:   strconv.FormatInt(r.ID, 10),
		EventType:     eventType,
		Payload:       payload,
	}, nil
}
