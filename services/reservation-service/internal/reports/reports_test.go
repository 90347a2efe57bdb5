package reports

import (
	"context"
	"testing"
	"time"

	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/availability"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/model"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/storage"
)

func date(day int) time.Time { return time.Date(2025, 1, day, 0, 0, 0, 0, time.UTC) }

func at(day, hour int) time.Time { return date(day).Add(time.Duration(hour) * time.Hour) }

func price(c int64) *int64 { return &c }

func TestNewRange(t *testing.T) {
	if _, err := NewRange(date(11), date(10)); err != ErrInvalidRange {
		t.Fatalf("err = %v, want ErrInvalidRange", err)
	}
	r, err := NewRange(at(10, 15), date(12))
	if err != nil {
		t.Fatalf("NewRange: %v", err)
	}
	if days := r.Days(); len(days) != 3 || !days[0].Equal(date(10)) || !days[2].Equal(date(12)) {
		t.Fatalf("days = %v", days)
	}
	if !r.End().Equal(date(13)) {
		t.Fatalf("end = %v", r.End())
	}
}

func TestRate(t *testing.T) {
	tests := []struct {
		booked, total int
		want          float64
	}{
		{0, 0, 0},
		{1, 3, 0.33},
		{2, 3, 0.67},
		{15, 15, 1},
	}
	for _, tc := range tests {
		if got := Rate(tc.booked, tc.total); got != tc.want {
			t.Fatalf("Rate(%d, %d) = %v, want %v", tc.booked, tc.total, got, tc.want)
		}
	}
}

func TestBookedSlotsClipsToRange(t *testing.T) {
	span := availability.MustWindow(date(10), date(11))
	got := BookedSlots([]model.Reservation{
		{CourtID: 1, StartTime: at(10, 8), EndTime: at(10, 10)},
		{CourtID: 1, StartTime: at(10, 23), EndTime: at(11, 1)},
		{CourtID: 2, StartTime: at(10, 12), EndTime: at(10, 12).Add(90 * time.Minute)},
		{CourtID: 2, StartTime: at(11, 8), EndTime: at(11, 9)},
	}, span, time.Hour)

	if got[1] != 3 {
		t.Fatalf("court 1 booked = %d, want 3", got[1])
	}
	if got[2] != 1 {
		t.Fatalf("court 2 booked = %d, want 1", got[2])
	}
}

func TestRevenueGroupsByCourt(t *testing.T) {
	got := Revenue([]model.Reservation{
		{CourtID: 3, PriceCents: price(1000)},
		{CourtID: 1, PriceCents: price(2500)},
		{CourtID: 3},
		{CourtID: 3, PriceCents: price(500)},
	}, map[int64]string{1: "Cancha 1"})

	if len(got) != 2 {
		t.Fatalf("entries = %d", len(got))
	}
	if got[0].CourtID != 1 || got[0].CourtName != "Cancha 1" || got[0].RevenueCents != 2500 || got[0].ReservationsCount != 1 {
		t.Fatalf("court 1 = %+v", got[0])
	}
	if got[1].CourtID != 3 || got[1].CourtName != "Court 3" || got[1].RevenueCents != 1500 || got[1].ReservationsCount != 3 {
		t.Fatalf("court 3 = %+v", got[1])
	}
}

type fakeStore struct {
	courts       []model.Court
	reservations []model.Reservation
	filters      []storage.ReservationFilter
}

func (f *fakeStore) ListCourts(_ context.Context, includeInactive bool) ([]model.Court, error) {
	var out []model.Court
	for _, c := range f.courts {
		if c.IsActive || includeInactive {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) ListReservations(_ context.Context, filter storage.ReservationFilter) ([]model.Reservation, error) {
	f.filters = append(f.filters, filter)
	return f.reservations, nil
}

// eightToTwelve opens every court 08:00-12:00.
type eightToTwelve struct{}

func (eightToTwelve) FreeWindows(_ context.Context, _ int64, day time.Time) ([]availability.Window, error) {
	return []availability.Window{
		availability.MustWindow(day.Add(8*time.Hour), day.Add(12*time.Hour)),
	}, nil
}

func TestBuilderOccupancy(t *testing.T) {
	store := &fakeStore{
		courts: []model.Court{
			{ID: 1, Name: "Cancha 1", IsActive: true},
			{ID: 2, Name: "Cancha 2", IsActive: false},
		},
		reservations: []model.Reservation{
			{CourtID: 1, StartTime: at(10, 8), EndTime: at(10, 9), Status: model.StatusConfirmed},
			{CourtID: 1, StartTime: at(11, 9), EndTime: at(11, 11), Status: model.StatusConfirmed},
		},
	}
	rng, _ := NewRange(date(10), date(11))

	report, err := NewBuilder(store, eightToTwelve{}).Occupancy(context.Background(), rng, time.Hour)
	if err != nil {
		t.Fatalf("Occupancy: %v", err)
	}
	if len(report.Courts) != 1 {
		t.Fatalf("courts = %+v", report.Courts)
	}
	e := report.Courts[0]
	if e.TotalSlots != 8 || e.BookedSlots != 3 || e.OccupancyRate != 0.38 {
		t.Fatalf("entry = %+v", e)
	}
	if report.DateFrom != "2025-01-10" || report.DateTo != "2025-01-11" || report.SlotMinutes != 60 {
		t.Fatalf("report = %+v", report)
	}
	if f := store.filters[0]; f.Status != model.StatusConfirmed || f.Within || !f.To.Equal(date(12)) {
		t.Fatalf("filter = %+v", f)
	}
}

func TestBuilderRevenue(t *testing.T) {
	store := &fakeStore{
		courts: []model.Court{{ID: 2, Name: "Cancha 2"}},
		reservations: []model.Reservation{
			{CourtID: 2, PriceCents: price(4000)},
		},
	}
	rng, _ := NewRange(date(10), date(10))

	report, err := NewBuilder(store, eightToTwelve{}).Revenue(context.Background(), rng)
	if err != nil {
		t.Fatalf("Revenue: %v", err)
	}
	if len(report.Courts) != 1 || report.Courts[0].CourtName != "Cancha 2" || report.Courts[0].RevenueCents != 4000 {
		t.Fatalf("report = %+v", report)
	}
	if f := store.filters[0]; !f.Within || !f.From.Equal(date(10)) || !f.To.Equal(date(11)) {
		t.Fatalf("filter = %+v", f)
	}
}
