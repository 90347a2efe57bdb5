package availability

import "github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/model"

// SubtractClosures removes every closure that applies to courtID from the operating windows.
// The result is sorted, pairwise disjoint and independent of the order of either input.
// Overlapping operating windows are merged first.
func SubtractClosures(windows []Window, closures []model.Closure, courtID int64) []Window {
	if len(windows) == 0 {
		return nil
	}
	blocks := make([]Window, 0, len(closures))
	for _, c := range closures {
		if !c.Court.Matches(courtID) {
			continue
		}
		b, err := NewWindow(c.StartTime, c.EndTime)
		if err != nil {
			continue
		}
		blocks = append(blocks, b)
	}
	return subtract(union(windows), union(blocks))
}

// subtract walks each window with a cursor over the sorted, merged blocks.
func subtract(windows, blocks []Window) []Window {
	var out []Window
	for _, w := range windows {
		cursor := w.start
		for _, b := range blocks {
			if !b.end.After(cursor) {
				continue
			}
			if !b.start.Before(w.end) {
				break
			}
			if b.start.After(cursor) {
				out = append(out, Window{start: cursor, end: b.start})
			}
			cursor = b.end
			if !cursor.Before(w.end) {
				break
			}
		}
		if cursor.Before(w.end) {
			out = append(out, Window{start: cursor, end: w.end})
		}
	}
	return out
}
