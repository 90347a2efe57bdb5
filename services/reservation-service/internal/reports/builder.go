package reports

import (
	"context"
	"time"

	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/availability"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/model"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/storage"
)

// Store is the read side the reports need. *storage.Repository implements it.
type Store interface {
	ListCourts(ctx context.Context, includeInactive bool) ([]model.Court, error)
	ListReservations(ctx context.Context, f storage.ReservationFilter) ([]model.Reservation, error)
}

// FreeTime resolves the bookable windows of a court on a date.
type FreeTime interface {
	FreeWindows(ctx context.Context, courtID int64, date time.Time) ([]availability.Window, error)
}

type Builder struct {
	store Store
	free  FreeTime
}

func NewBuilder(store Store, free FreeTime) *Builder {
	return &Builder{store: store, free: free}
}

// Occupancy reports, for every active court, how many slots were bookable in the range and how
// many of them confirmed reservations took.
func (b *Builder) Occupancy(ctx context.Context, rng Range, slot time.Duration) (OccupancyReport, error) {
	if slot <= 0 {
		panic("reports: slot duration must be positive")
	}
	courts, err := b.store.ListCourts(ctx, false)
	if err != nil {
		return OccupancyReport{}, err
	}

	total := make(map[int64]int, len(courts))
	for _, day := range rng.Days() {
		for _, c := range courts {
			free, err := b.free.FreeWindows(ctx, c.ID, day)
			if err != nil {
				return OccupancyReport{}, err
			}
			total[c.ID] += availability.TotalSlots(free, slot)
		}
	}

	span := availability.MustWindow(rng.Start(), rng.End())
	confirmed, err := b.store.ListReservations(ctx, storage.ReservationFilter{
		Status: model.StatusConfirmed,
		From:   span.Start(),
		To:     span.End(),
	})
	if err != nil {
		return OccupancyReport{}, err
	}
	booked := BookedSlots(confirmed, span, slot)

	report := OccupancyReport{
		DateFrom:    rng.From.Format(model.DateLayout),
		DateTo:      rng.To.Format(model.DateLayout),
		SlotMinutes: int(slot / time.Minute),
		Courts:      make([]OccupancyEntry, 0, len(courts)),
	}
	for _, c := range courts {
		report.Courts = append(report.Courts, OccupancyEntry{
			CourtID:       c.ID,
			CourtName:     c.Name,
			TotalSlots:    total[c.ID],
			BookedSlots:   booked[c.ID],
			OccupancyRate: Rate(booked[c.ID], total[c.ID]),
		})
	}
	return report, nil
}

// Revenue sums confirmed reservations lying entirely inside the range.
func (b *Builder) Revenue(ctx context.Context, rng Range) (RevenueReport, error) {
	confirmed, err := b.store.ListReservations(ctx, storage.ReservationFilter{
		Status: model.StatusConfirmed,
		From:   rng.Start(),
		To:     rng.End(),
		Within: true,
	})
	if err != nil {
		return RevenueReport{}, err
	}
	courts, err := b.store.ListCourts(ctx, true)
	if err != nil {
		return RevenueReport{}, err
	}
	names := make(map[int64]string, len(courts))
	for _, c := range courts {
		names[c.ID] = c.Name
	}
	return RevenueReport{
		DateFrom: rng.From.Format(model.DateLayout),
		DateTo:   rng.To.Format(model.DateLayout),
		Courts:   Revenue(confirmed, names),
	}, nil
}
