package handlers

import (
	"net/http"
	"strings"

	"github.com/md-rashed-zaman/courtreserve/libs/httpx"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/availability"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/booking"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/storage"
)

type createReservationRequest struct {
	CourtID       int64  `json:"court_id" validate:"required,gt=0"`
	StartTime     string `json:"start_time" validate:"required"`
	EndTime       string `json:"end_time" validate:"required"`
	CustomerName  string `json:"customer_name" validate:"required,max=120"`
	CustomerPhone string `json:"customer_phone" validate:"max=40"`
	UserID        *int64 `json:"user_id" validate:"omitnil,gt=0"`
}

func (a *API) CreateReservation(w http.ResponseWriter, r *http.Request) {
	var req createReservationRequest
	if !decode(w, r, &req) {
		return
	}
	start, err := parseTimestamp(req.StartTime)
	if err != nil {
		httpx.Error(w, http.StatusUnprocessableEntity, "start_time: "+err.Error())
		return
	}
	end, err := parseTimestamp(req.EndTime)
	if err != nil {
		httpx.Error(w, http.StatusUnprocessableEntity, "end_time: "+err.Error())
		return
	}
	slot, err := availability.NewWindow(start, end)
	if err != nil {
		httpx.Error(w, http.StatusUnprocessableEntity, "end_time must be after start_time")
		return
	}

	actor, _ := CurrentUser(r.Context())
	res, err := a.bookings.Create(r.Context(), actor, booking.CreateRequest{
		CourtID:       req.CourtID,
		Slot:          slot,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		UserID:        req.UserID,
	})
	if err != nil {
		fail(w, r, a.logger, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toReservation(res))
}

// ListReservations keeps reservations lying inside [date_from, date_to]; non-admins only see their own.
func (a *API) ListReservations(w http.ResponseWriter, r *http.Request) {
	courtID, err := queryID(r, "court_id")
	if err != nil {
		httpx.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	from, err := queryTime(r, "date_from")
	if err != nil {
		httpx.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	to, err := queryTime(r, "date_to")
	if err != nil {
		httpx.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	actor, _ := CurrentUser(r.Context())
	list, err := a.bookings.List(r.Context(), actor, storage.ReservationFilter{
		CourtID: courtID,
		From:    from,
		To:      to,
		Within:  true,
	})
	if err != nil {
		fail(w, r, a.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toReservations(list))
}

func (a *API) GetReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	actor, _ := CurrentUser(r.Context())
	res, err := a.bookings.Get(r.Context(), actor, id)
	if err != nil {
		fail(w, r, a.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toReservation(res))
}

func (a *API) ConfirmReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	actor, _ := CurrentUser(r.Context())
	res, err := a.bookings.Confirm(r.Context(), actor, id)
	if err != nil {
		fail(w, r, a.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toReservation(res))
}

func (a *API) CancelReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	actor, _ := CurrentUser(r.Context())
	res, err := a.bookings.Cancel(r.Context(), actor, id)
	if err != nil {
		fail(w, r, a.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toReservation(res))
}
