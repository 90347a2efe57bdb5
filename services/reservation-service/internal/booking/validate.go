package booking

import (
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/availability"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/model"
)

// CheckSlot verifies that slot fits inside one operating window and touches no closure of courtID.
func CheckSlot(slot availability.Window, operating []availability.Window, closures []model.Closure, courtID int64) error {
	if len(operating) == 0 {
		return ErrNoSchedule
	}
	if !availability.WithinAny(slot, operating) {
		return ErrOutsideHours
	}
	for _, c := range closures {
		if !c.Court.Matches(courtID) {
			continue
		}
		w, err := availability.NewWindow(c.StartTime, c.EndTime)
		if err != nil {
			continue
		}
		if w.Overlaps(slot) {
			return ErrCourtClosed
		}
	}
	return nil
}

// CanAccess reports whether actor may read or change r.
func CanAccess(actor model.User, r model.Reservation) bool {
	return actor.IsAdmin || r.OwnedBy(actor.ID)
}
