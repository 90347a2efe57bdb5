package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/md-rashed-zaman/courtreserve/libs/httpx"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/availability"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/booking"
)

var bookingErrors = []struct {
	err    error
	status int
	detail string
}{
	{booking.ErrCourtNotFound, http.StatusNotFound, "Court not found"},
	{booking.ErrUserNotFound, http.StatusNotFound, "Target user not found"},
	{booking.ErrReservationNotFound, http.StatusNotFound, "Reservation not found"},
	{booking.ErrNoSchedule, http.StatusBadRequest, "No schedule defined for this date"},
	{booking.ErrOutsideHours, http.StatusBadRequest, "Slot outside operating hours"},
	{booking.ErrCourtClosed, http.StatusBadRequest, "Court closed for maintenance"},
	{booking.ErrSlotTaken, http.StatusBadRequest, "Time slot already booked"},
	{booking.ErrSlotConflict, http.StatusConflict, "Time slot already booked"},
	{booking.ErrCancelled, http.StatusBadRequest, "Reservation is cancelled"},
	{booking.ErrForbidden, http.StatusForbidden, "Not authorized for this reservation"},
	{availability.ErrInvalidInterval, http.StatusBadRequest, "end_time must be after start_time"},
}

// statusFor maps domain errors onto HTTP; ok is false for unexpected errors.
func statusFor(err error) (status int, detail string, ok bool) {
	for _, m := range bookingErrors {
		if errors.Is(err, m.err) {
			return m.status, m.detail, true
		}
	}
	return http.StatusInternalServerError, "internal error", false
}

// fail writes the response for err, logging anything unexpected.
func fail(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status, detail, ok := statusFor(err)
	if !ok {
		logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "request_id", httpx.RequestIDFromContext(r.Context()), "err", err)
	}
	httpx.Error(w, status, detail)
}
