package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/model"
)

func TestFeed(t *testing.T) {
	start := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)
	out := Feed("Court Cancha 1", []model.Reservation{{
		ID:           5,
		CourtID:      1,
		StartTime:    start,
		EndTime:      start.Add(time.Hour),
		CustomerName: "Ana",
		Status:       model.StatusConfirmed,
		CreatedAt:    start.Add(-24 * time.Hour),
	}})

	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"PRODID:-//ReservaTenis//EN",
		"X-WR-CALNAME:Court Cancha 1",
		"UID:reservation-5@reservatenis",
		"DTSTART:20250110T080000Z",
		"DTEND:20250110T090000Z",
		"SUMMARY:Court #1 - Ana",
		"END:VCALENDAR",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("feed missing %q:\n%s", want, out)
		}
	}
}

func TestFeedEmpty(t *testing.T) {
	out := Feed("Reservas ana@example.com", nil)
	if strings.Contains(out, "BEGIN:VEVENT") {
		t.Fatalf("unexpected event:\n%s", out)
	}
}

func TestFeedNames(t *testing.T) {
	if got := UserFeedName(model.User{Email: "a@b.c"}); got != "Reservas a@b.c" {
		t.Fatalf("UserFeedName = %q", got)
	}
	if got := UserFeedName(model.User{Email: "a@b.c", FullName: "Ana"}); got != "Reservas Ana" {
		t.Fatalf("UserFeedName = %q", got)
	}
	if got := CourtFeedName(model.Court{Name: "Cancha 2"}); got != "Court Cancha 2" {
		t.Fatalf("CourtFeedName = %q", got)
	}
}
