package availability

import (
	"sort"
	"time"

	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/model"
)

// ResolveWindows turns the schedule rules for date's weekday into operating windows on that date.
// Court specific rules come first, then global ones, each group by open time. Rules are not merged,
// so a court rule and a global rule for the same day both produce a window.
func ResolveWindows(rules []model.ScheduleRule, courtID int64, date time.Time) []Window {
	day := model.WeekdayOf(date)
	matched := make([]model.ScheduleRule, 0, len(rules))
	for _, r := range rules {
		if !r.Active || r.Day != day || !r.Court.Matches(courtID) {
			continue
		}
		matched = append(matched, r)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if a.Court.Specific() != b.Court.Specific() {
			return a.Court.Specific()
		}
		return a.OpenTime < b.OpenTime
	})

	windows := make([]Window, 0, len(matched))
	for _, r := range matched {
		w, err := NewWindow(r.OpenTime.On(date), r.CloseTime.On(date))
		if err != nil {
			// close <= open is rejected on write; a stray row contributes nothing.
			continue
		}
		windows = append(windows, w)
	}
	return windows
}
