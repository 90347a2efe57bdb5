package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/md-rashed-zaman/courtreserve/libs/httpx"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/reports"
)

func parseRange(r *http.Request) (reports.Range, int, string) {
	q := r.URL.Query()
	rawFrom, rawTo := strings.TrimSpace(q.Get("date_from")), strings.TrimSpace(q.Get("date_to"))
	if rawFrom == "" || rawTo == "" {
		return reports.Range{}, http.StatusUnprocessableEntity, "date_from and date_to are required"
	}
	from, err := parseDate(rawFrom)
	if err != nil {
		return reports.Range{}, http.StatusUnprocessableEntity, "date_from: " + err.Error()
	}
	to, err := parseDate(rawTo)
	if err != nil {
		return reports.Range{}, http.StatusUnprocessableEntity, "date_to: " + err.Error()
	}
	rng, err := reports.NewRange(from, to)
	if errors.Is(err, reports.ErrInvalidRange) {
		return reports.Range{}, http.StatusBadRequest, err.Error()
	}
	return rng, 0, ""
}

func (a *API) OccupancyReport(w http.ResponseWriter, r *http.Request) {
	rng, status, detail := parseRange(r)
	if status != 0 {
		httpx.Error(w, status, detail)
		return
	}
	slotMinutes, _, err := queryInt(r, "slot_minutes", 60)
	if err != nil {
		httpx.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if slotMinutes <= 0 {
		httpx.Error(w, http.StatusUnprocessableEntity, "slot_minutes must be positive")
		return
	}

	report, err := a.reports.Occupancy(r.Context(), rng, time.Duration(slotMinutes)*time.Minute)
	if err != nil {
		fail(w, r, a.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (a *API) RevenueReport(w http.ResponseWriter, r *http.Request) {
	rng, status, detail := parseRange(r)
	if status != 0 {
		httpx.Error(w, status, detail)
		return
	}
	report, err := a.reports.Revenue(r.Context(), rng)
	if err != nil {
		fail(w, r, a.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}
