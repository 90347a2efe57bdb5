// Package reports aggregates occupancy and revenue per court over a date range.
package reports

import (
	"errors"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/availability"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/model"
)

var ErrInvalidRange = errors.New("date_from must be before date_to")

// Range is an inclusive span of calendar days.
type Range struct {
	From time.Time
	To   time.Time
}

func NewRange(from, to time.Time) (Range, error) {
	from, to = model.DateOf(from), model.DateOf(to)
	if from.After(to) {
		return Range{}, ErrInvalidRange
	}
	return Range{From: from, To: to}, nil
}

// Days lists every date in the range.
func (r Range) Days() []time.Time {
	var out []time.Time
	for d := r.From; !d.After(r.To); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

// Start and End bound the range as instants; End is midnight after the last day.
func (r Range) Start() time.Time { return r.From }
func (r Range) End() time.Time   { return r.To.AddDate(0, 0, 1) }

type OccupancyEntry struct {
	CourtID       int64   `json:"court_id"`
	CourtName     string  `json:"court_name"`
	TotalSlots    int     `json:"total_slots"`
	BookedSlots   int     `json:"booked_slots"`
	OccupancyRate float64 `json:"occupancy_rate"`
}

type OccupancyReport struct {
	DateFrom    string           `json:"date_from"`
	DateTo      string           `json:"date_to"`
	SlotMinutes int              `json:"slot_minutes"`
	Courts      []OccupancyEntry `json:"courts"`
}

type RevenueEntry struct {
	CourtID           int64  `json:"court_id"`
	CourtName         string `json:"court_name"`
	ReservationsCount int    `json:"reservations_count"`
	RevenueCents      int64  `json:"revenue_cents"`
}

type RevenueReport struct {
	DateFrom string         `json:"date_from"`
	DateTo   string         `json:"date_to"`
	Courts   []RevenueEntry `json:"courts"`
}

// Rate is booked/total rounded to two decimals, zero when nothing is bookable.
func Rate(booked, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(booked)/float64(total)*100) / 100
}

// BookedSlots counts, per court, the whole slots covered by each reservation once clipped to span.
// Each reservation is floored on its own, so two half slots never add up to one.
func BookedSlots(reservations []model.Reservation, span availability.Window, slot time.Duration) map[int64]int {
	out := make(map[int64]int)
	for _, r := range reservations {
		w, err := availability.NewWindow(r.StartTime, r.EndTime)
		if err != nil {
			continue
		}
		clipped, ok := w.Clip(span.Start(), span.End())
		if !ok {
			continue
		}
		out[r.CourtID] += int(clipped.Duration() / slot)
	}
	return out
}

// Revenue groups reservations by court, summing prices (missing prices count as zero), ordered by court id.
// Courts absent from names are labelled "Court <id>".
func Revenue(reservations []model.Reservation, names map[int64]string) []RevenueEntry {
	byCourt := make(map[int64]*RevenueEntry)
	for _, r := range reservations {
		e, ok := byCourt[r.CourtID]
		if !ok {
			e = &RevenueEntry{CourtID: r.CourtID, CourtName: courtLabel(r.CourtID, names)}
			byCourt[r.CourtID] = e
		}
		e.ReservationsCount++
		if r.PriceCents != nil {
			e.RevenueCents += *r.PriceCents
		}
	}
	out := make([]RevenueEntry, 0, len(byCourt))
	for _, e := range byCourt {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CourtID < out[j].CourtID })
	return out
}

func courtLabel(id int64, names map[int64]string) string {
	if name, ok := names[id]; ok {
		return name
	}
	return "Court " + strconv.FormatInt(id, 10)
}
