package availability

import (
	"time"

	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/model"
)

// ComputeAvailableSlots packs fixed length slots into the free windows around the occupied
// intervals. Slots sit on a grid anchored at the start of their free window, so after an occupied
// interval packing resumes at the next grid boundary. No partial slot is ever emitted.
//
// slot must be positive; callers validate it, so a non-positive value panics.
func ComputeAvailableSlots(free, occupied []Window, slot time.Duration) []Window {
	if slot <= 0 {
		panic("availability: slot duration must be positive")
	}
	if len(free) == 0 {
		return nil
	}

	lo, hi := free[0].start, free[0].end
	for _, w := range free[1:] {
		if w.start.Before(lo) {
			lo = w.start
		}
		if w.end.After(hi) {
			hi = w.end
		}
	}
	busy := make([]Window, 0, len(occupied))
	for _, o := range occupied {
		if c, ok := o.Clip(lo, hi); ok {
			busy = append(busy, c)
		}
	}
	sortByStart(busy)

	var slots []Window
	for _, w := range free {
		cursor := w.start
		for _, b := range busy {
			if !b.end.After(cursor) || !b.start.Before(w.end) {
				continue
			}
			if b.start.After(cursor) {
				slots = pack(slots, align(cursor, w.start, slot), b.start, slot)
			}
			cursor = b.end
			if !cursor.Before(w.end) {
				break
			}
		}
		if cursor.Before(w.end) {
			slots = pack(slots, align(cursor, w.start, slot), w.end, slot)
		}
	}
	return slots
}

// align rounds t up to the next multiple of slot past origin.
func align(t, origin time.Time, slot time.Duration) time.Time {
	if rem := t.Sub(origin) % slot; rem > 0 {
		return t.Add(slot - rem)
	}
	return t
}

func pack(dst []Window, from, to time.Time, slot time.Duration) []Window {
	for t := from; !t.Add(slot).After(to); t = t.Add(slot) {
		dst = append(dst, Window{start: t, end: t.Add(slot)})
	}
	return dst
}

// TotalSlots is how many slots fit in the combined length of windows, ignoring window boundaries.
func TotalSlots(windows []Window, slot time.Duration) int {
	if slot <= 0 {
		panic("availability: slot duration must be positive")
	}
	return int(TotalDuration(windows) / slot)
}

// OccupiedWindows keeps the reservations that block their interval at now.
func OccupiedWindows(reservations []model.Reservation, now time.Time) []Window {
	out := make([]Window, 0, len(reservations))
	for _, r := range reservations {
		if !r.Occupies(now) {
			continue
		}
		w, err := NewWindow(r.StartTime, r.EndTime)
		if err != nil {
			continue
		}
		out = append(out, w)
	}
	return out
}
