package notify

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/model"
)

// ReservationDetails is the payload stored with reservation notifications.
type ReservationDetails struct {
	ReservationID int64  `json:"reservation_id"`
	CourtID       int64  `json:"court_id"`
	CourtName     string `json:"court_name"`
	CustomerName  string `json:"customer_name"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	Status        string `json:"status"`
	PriceCents    *int64 `json:"price_cents,omitempty"`
	ExpiresAt     string `json:"expires_at,omitempty"`
}

func DetailsFor(r model.Reservation, court model.Court) ReservationDetails {
	d := ReservationDetails{
		ReservationID: r.ID,
		CourtID:       r.CourtID,
		CourtName:     court.Name,
		CustomerName:  r.CustomerName,
		StartTime:     r.StartTime.Format(model.TimestampLayout),
		EndTime:       r.EndTime.Format(model.TimestampLayout),
		Status:        string(r.Status),
		PriceCents:    r.PriceCents,
	}
	if r.ExpiresAt != nil {
		d.ExpiresAt = r.ExpiresAt.Format(model.TimestampLayout)
	}
	return d
}

// Compose renders the subject and body for a notification.
func Compose(n model.Notification) (string, string, error) {
	var d ReservationDetails
	if len(n.Payload) > 0 {
		if err := json.Unmarshal(n.Payload, &d); err != nil {
			return "", "", fmt.Errorf("decode payload: %w", err)
		}
	}

	var subject string
	switch n.EventType {
	case model.EventReservationCreated:
		subject = fmt.Sprintf("Reservation #%d received", d.ReservationID)
	case model.EventReservationConfirmed:
		subject = fmt.Sprintf("Reservation #%d confirmed", d.ReservationID)
	case model.EventReservationCancelled:
		subject = fmt.Sprintf("Reservation #%d cancelled", d.ReservationID)
	default:
		subject = "Court reservation update"
	}

	var b strings.Builder
	if d.CustomerName != "" {
		fmt.Fprintf(&b, "Hello %s,\n\n", d.CustomerName)
	}
	court := d.CourtName
	if court == "" {
		court = fmt.Sprintf("court %d", d.CourtID)
	}
	fmt.Fprintf(&b, "%s: %s from %s to %s.\n", subject, court, d.StartTime, d.EndTime)
	if d.PriceCents != nil {
		fmt.Fprintf(&b, "Price: %d.%02d\n", *d.PriceCents/100, *d.PriceCents%100)
	}
	if n.EventType == model.EventReservationCreated && d.ExpiresAt != "" {
		fmt.Fprintf(&b, "Please confirm before %s or the hold is released.\n", d.ExpiresAt)
	}
	return subject, b.String(), nil
}
