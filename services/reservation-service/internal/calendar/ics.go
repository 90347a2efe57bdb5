// Package calendar renders confirmed reservations as iCalendar feeds.
package calendar

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/model"
)

const (
	ContentType = "text/calendar"
	productID   = "-//ReservaTenis//EN"
)

// Feed look-ahead in days.
const (
	DefaultDays = 30
	MaxDays     = 180
)

// EventUID is stable per reservation so calendar clients update events in place.
func EventUID(reservationID int64) string {
	return fmt.Sprintf("reservation-%d@reservatenis", reservationID)
}

// Feed builds a calendar named name with one VEVENT per reservation.
func Feed(name string, reservations []model.Reservation) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName(name)

	for _, r := range reservations {
		ev := cal.AddEvent(EventUID(r.ID))
		stamp := r.CreatedAt
		if stamp.IsZero() {
			stamp = time.Now()
		}
		ev.SetDtStampTime(stamp.UTC())
		ev.SetStartAt(r.StartTime.UTC())
		ev.SetEndAt(r.EndTime.UTC())
		ev.SetSummary(fmt.Sprintf("Court #%d - %s", r.CourtID, r.CustomerName))
		ev.SetDescription("Status: " + string(r.Status))
	}
	return cal.Serialize()
}

func CourtFeedName(court model.Court) string { return "Court " + court.Name }

func UserFeedName(u model.User) string {
	if u.FullName != "" {
		return "Reservas " + u.FullName
	}
	return "Reservas " + u.Email
}
