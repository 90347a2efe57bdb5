package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/md-rashed-zaman/courtreserve/libs/httpx"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/availability"
)

type availabilityParams struct {
	date     time.Time
	slot     time.Duration
	override []availability.Window
}

// parseAvailability validates the query before anything touches storage.
func parseAvailability(r *http.Request) (availabilityParams, int, string) {
	q := r.URL.Query()
	raw := strings.TrimSpace(q.Get("date"))
	if raw == "" {
		return availabilityParams{}, http.StatusUnprocessableEntity, "date is required"
	}
	date, err := parseDate(raw)
	if err != nil {
		return availabilityParams{}, http.StatusUnprocessableEntity, err.Error()
	}

	slotMinutes, _, err := queryInt(r, "slot_minutes", 60)
	if err != nil {
		return availabilityParams{}, http.StatusUnprocessableEntity, err.Error()
	}
	if slotMinutes <= 0 {
		return availabilityParams{}, http.StatusBadRequest, "slot_minutes must be positive"
	}

	fromHour, hasFrom, err := queryInt(r, "from_hour", 0)
	if err != nil {
		return availabilityParams{}, http.StatusUnprocessableEntity, err.Error()
	}
	toHour, hasTo, err := queryInt(r, "to_hour", 0)
	if err != nil {
		return availabilityParams{}, http.StatusUnprocessableEntity, err.Error()
	}
	if hasFrom != hasTo {
		return availabilityParams{}, http.StatusBadRequest, "from_hour and to_hour must be provided together"
	}

	p := availabilityParams{date: date, slot: time.Duration(slotMinutes) * time.Minute}
	if hasFrom {
		if fromHour < 0 || toHour > 24 {
			return availabilityParams{}, http.StatusUnprocessableEntity, "hours must be between 0 and 24"
		}
		if fromHour >= toHour {
			return availabilityParams{}, http.StatusBadRequest, "from_hour must be before to_hour"
		}
		p.override = []availability.Window{availability.MustWindow(
			date.Add(time.Duration(fromHour)*time.Hour),
			date.Add(time.Duration(toHour)*time.Hour),
		)}
	}
	return p, 0, ""
}

// Availability lists the bookable slots of a court on a date.
func (a *API) Availability(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	p, status, detail := parseAvailability(r)
	if status != 0 {
		httpx.Error(w, status, detail)
		return
	}
	if _, ok := a.activeCourt(w, r, id); !ok {
		return
	}

	ctx := r.Context()
	if _, err := a.bookings.ExpireLapsed(ctx, &id); err != nil {
		fail(w, r, a.logger, err)
		return
	}
	res, err := a.engine.Availability(ctx, availability.Query{
		CourtID:  id,
		Date:     p.date,
		Slot:     p.slot,
		Now:      a.now(),
		Override: p.override,
	})
	if err != nil {
		fail(w, r, a.logger, err)
		return
	}
	if res.NoSchedule() {
		httpx.Error(w, http.StatusBadRequest, "No schedule defined for this date")
		return
	}
	slots := res.Slots
	if slots == nil {
		slots = []availability.Window{}
	}
	httpx.JSON(w, http.StatusOK, slots)
}

type priceResponse struct {
	CourtID    int64  `json:"court_id"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	PriceCents *int64 `json:"price_cents"`
}

// Price quotes a slot without booking it; price_cents is null when no tariff applies.
func (a *API) Price(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	q := r.URL.Query()
	start, err := parseTimestamp(q.Get("start"))
	if err != nil {
		httpx.Error(w, http.StatusUnprocessableEntity, "start: "+err.Error())
		return
	}
	end, err := parseTimestamp(q.Get("end"))
	if err != nil {
		httpx.Error(w, http.StatusUnprocessableEntity, "end: "+err.Error())
		return
	}
	slot, err := availability.NewWindow(start, end)
	if err != nil {
		fail(w, r, a.logger, err)
		return
	}
	if _, ok := a.activeCourt(w, r, id); !ok {
		return
	}

	resp := priceResponse{CourtID: id, StartTime: stamp(slot.Start()), EndTime: stamp(slot.End())}
	cents, found, err := a.tariffs.ResolvePrice(r.Context(), id, slot.Start(), slot.End())
	if err != nil {
		fail(w, r, a.logger, err)
		return
	}
	if found {
		resp.PriceCents = &cents
	}
	httpx.JSON(w, http.StatusOK, resp)
}
