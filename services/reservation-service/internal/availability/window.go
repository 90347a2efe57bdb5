package availability

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/model"
)

var ErrInvalidInterval = errors.New("interval end must be after start")

// Window is a half-open interval [start, end) with start < end. The zero value is not a valid window;
// build windows with NewWindow.
type Window struct {
	start time.Time
	end   time.Time
}

func NewWindow(start, end time.Time) (Window, error) {
	if !end.After(start) {
		return Window{}, fmt.Errorf("%w: [%s, %s)", ErrInvalidInterval,
			start.Format(model.TimestampLayout), end.Format(model.TimestampLayout))
	}
	return Window{start: start, end: end}, nil
}

// MustWindow is NewWindow for callers that already hold the invariant; it panics otherwise.
func MustWindow(start, end time.Time) Window {
	w, err := NewWindow(start, end)
	if err != nil {
		panic(err)
	}
	return w
}

func (w Window) Start() time.Time { return w.start }

func (w Window) End() time.Time { return w.end }

func (w Window) Duration() time.Duration { return w.end.Sub(w.start) }

func (w Window) Overlaps(o Window) bool {
	return w.start.Before(o.end) && o.start.Before(w.end)
}

// Contains reports whether o lies entirely inside w.
func (w Window) Contains(o Window) bool {
	return !o.start.Before(w.start) && !o.end.After(w.end)
}

// Clip returns the part of w inside [lo, hi), if any.
func (w Window) Clip(lo, hi time.Time) (Window, bool) {
	start, end := w.start, w.end
	if start.Before(lo) {
		start = lo
	}
	if end.After(hi) {
		end = hi
	}
	if !end.After(start) {
		return Window{}, false
	}
	return Window{start: start, end: end}, true
}

func (w Window) Equal(o Window) bool {
	return w.start.Equal(o.start) && w.end.Equal(o.end)
}

func (w Window) String() string {
	return "[" + w.start.Format(model.TimestampLayout) + ", " + w.end.Format(model.TimestampLayout) + ")"
}

type windowJSON struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

func (w Window) MarshalJSON() ([]byte, error) {
	return json.Marshal(windowJSON{
		StartTime: w.start.Format(model.TimestampLayout),
		EndTime:   w.end.Format(model.TimestampLayout),
	})
}

// OverlapsAny reports whether w overlaps any of others.
func OverlapsAny(w Window, others []Window) bool {
	for _, o := range others {
		if w.Overlaps(o) {
			return true
		}
	}
	return false
}

// WithinAny reports whether some window of containers fully contains w.
func WithinAny(w Window, containers []Window) bool {
	for _, c := range containers {
		if c.Contains(w) {
			return true
		}
	}
	return false
}

// TotalDuration sums the lengths of windows.
func TotalDuration(windows []Window) time.Duration {
	var total time.Duration
	for _, w := range windows {
		total += w.Duration()
	}
	return total
}

// DaySpan is the 24 hour window starting at midnight of date.
func DaySpan(date time.Time) Window {
	start := model.DateOf(date)
	return Window{start: start, end: start.AddDate(0, 0, 1)}
}

func sortByStart(ws []Window) {
	sort.SliceStable(ws, func(i, j int) bool {
		if !ws[i].start.Equal(ws[j].start) {
			return ws[i].start.Before(ws[j].start)
		}
		return ws[i].end.Before(ws[j].end)
	})
}

// union sorts a copy of ws and merges overlapping windows. Touching windows stay separate.
func union(ws []Window) []Window {
	if len(ws) == 0 {
		return nil
	}
	sorted := append([]Window(nil), ws...)
	sortByStart(sorted)
	out := make([]Window, 0, len(sorted))
	cur := sorted[0]
	for _, w := range sorted[1:] {
		if w.start.Before(cur.end) {
			if w.end.After(cur.end) {
				cur.end = w.end
			}
			continue
		}
		out = append(out, cur)
		cur = w
	}
	return append(out, cur)
}
