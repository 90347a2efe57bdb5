package booking

import "errors"

var (
	ErrCourtNotFound       = errors.New("court not found")
	ErrUserNotFound        = errors.New("target user not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrNoSchedule          = errors.New("no schedule defined for this date")
	ErrOutsideHours        = errors.New("slot outside operating hours")
	ErrCourtClosed         = errors.New("court closed for maintenance")
	ErrSlotTaken           = errors.New("time slot already booked")
	ErrSlotConflict        = errors.New("time slot was booked concurrently")
	ErrCancelled           = errors.New("reservation is cancelled")
	ErrForbidden           = errors.New("not authorized for this reservation")
)
