package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/md-rashed-zaman/courtreserve/libs/httpx"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/calendar"
)

func feedDays(r *http.Request) (int, bool) {
	days, _, err := queryInt(r, "days", calendar.DefaultDays)
	if err != nil || days < 1 || days > calendar.MaxDays {
		return 0, false
	}
	return days, true
}

func writeCalendar(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", calendar.ContentType+"; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

// CourtCalendar serves /calendars/courts/{id}.ics; it needs no authentication.
func (a *API) CourtCalendar(w http.ResponseWriter, r *http.Request) {
	raw, ok := strings.CutSuffix(r.PathValue("file"), ".ics")
	if !ok {
		httpx.Error(w, http.StatusNotFound, "Not Found")
		return
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		httpx.Error(w, http.StatusUnprocessableEntity, "invalid court id")
		return
	}
	days, ok := feedDays(r)
	if !ok {
		httpx.Error(w, http.StatusUnprocessableEntity, "days must be between 1 and 180")
		return
	}
	court, ok := a.activeCourt(w, r, id)
	if !ok {
		return
	}

	now := a.now()
	list, err := a.repo.ListStarting(r.Context(), &court.ID, nil, now, now.Add(time.Duration(days)*24*time.Hour))
	if err != nil {
		fail(w, r, a.logger, err)
		return
	}
	writeCalendar(w, calendar.Feed(calendar.CourtFeedName(court), list))
}

func (a *API) MyCalendar(w http.ResponseWriter, r *http.Request) {
	days, ok := feedDays(r)
	if !ok {
		httpx.Error(w, http.StatusUnprocessableEntity, "days must be between 1 and 180")
		return
	}
	u, _ := CurrentUser(r.Context())

	now := a.now()
	list, err := a.repo.ListStarting(r.Context(), nil, &u.ID, now, now.Add(time.Duration(days)*24*time.Hour))
	if err != nil {
		fail(w, r, a.logger, err)
		return
	}
	writeCalendar(w, calendar.Feed(calendar.UserFeedName(u), list))
}
