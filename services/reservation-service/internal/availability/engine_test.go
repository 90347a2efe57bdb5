package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/model"
)

// memStore answers the engine's reads from slices, filtering the way the SQL repository does.
type memStore struct {
	rules        []model.ScheduleRule
	closures     []model.Closure
	reservations []model.Reservation
	err          error

	closureFrom, closureTo time.Time
}

func (s *memStore) ListScheduleRules(_ context.Context, courtID int64, d model.Weekday) ([]model.ScheduleRule, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []model.ScheduleRule
	for _, r := range s.rules {
		if r.Active && r.Day == d && r.Court.Matches(courtID) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memStore) ListClosures(_ context.Context, courtID int64, from, to time.Time) ([]model.Closure, error) {
	s.closureFrom, s.closureTo = from, to
	var out []model.Closure
	for _, c := range s.closures {
		if c.Court.Matches(courtID) && c.EndTime.After(from) && c.StartTime.Before(to) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *memStore) ListOccupied(_ context.Context, courtID int64, from, to, now time.Time) ([]Window, error) {
	var candidates []model.Reservation
	for _, r := range s.reservations {
		if r.CourtID == courtID && r.EndTime.After(from) && r.StartTime.Before(to) {
			candidates = append(candidates, r)
		}
	}
	return OccupiedWindows(candidates, now), nil
}

func seededStore() *memStore {
	lapsed := at(7, 0)
	return &memStore{
		rules: []model.ScheduleRule{
			rule(model.AnyCourt(), model.Friday, model.NewClock(8, 0), model.NewClock(23, 0)),
		},
		closures: []model.Closure{
			closure(model.ForCourt(2), win(8, 0, 23, 0)),
			closure(model.AnyCourt(), win(20, 0, 21, 0)),
		},
		reservations: []model.Reservation{
			{CourtID: 1, StartTime: at(10, 0), EndTime: at(11, 30), Status: model.StatusConfirmed},
			{CourtID: 1, StartTime: at(15, 0), EndTime: at(16, 0), Status: model.StatusPending, ExpiresAt: &lapsed},
			{CourtID: 2, StartTime: at(8, 0), EndTime: at(9, 0), Status: model.StatusConfirmed},
		},
	}
}

func TestEngineAvailability(t *testing.T) {
	store := seededStore()
	engine := NewEngine(store)

	res, err := engine.Availability(context.Background(), Query{CourtID: 1, Date: day, Slot: time.Hour, Now: at(8, 0)})
	if err != nil {
		t.Fatalf("Availability: %v", err)
	}
	if res.NoSchedule() {
		t.Fatal("expected a schedule")
	}
	assertWindows(t, res.Free, []Window{win(8, 0, 20, 0), win(21, 0, 23, 0)})
	assertStarts(t, res.Slots, "08:00", "09:00", "12:00", "13:00", "14:00", "15:00", "16:00",
		"17:00", "18:00", "19:00", "21:00", "22:00")
	if !store.closureFrom.Equal(day) || !store.closureTo.Equal(day.AddDate(0, 0, 1)) {
		t.Fatalf("closures queried over [%s, %s)", store.closureFrom, store.closureTo)
	}
}

func TestEngineAvailability_CourtClosedAllDay(t *testing.T) {
	res, err := NewEngine(seededStore()).Availability(context.Background(), Query{CourtID: 2, Date: day, Slot: time.Hour, Now: at(8, 0)})
	if err != nil {
		t.Fatalf("Availability: %v", err)
	}
	if res.NoSchedule() || len(res.Free) != 0 || len(res.Slots) != 0 {
		t.Fatalf("expected schedule with no free time, got %+v", res)
	}
}

func TestEngineAvailability_NoSchedule(t *testing.T) {
	res, err := NewEngine(seededStore()).Availability(context.Background(), Query{CourtID: 1, Date: day.AddDate(0, 0, 1), Slot: time.Hour})
	if err != nil {
		t.Fatalf("Availability: %v", err)
	}
	if !res.NoSchedule() || res.Slots != nil {
		t.Fatalf("expected no schedule, got %+v", res)
	}
}

func TestEngineAvailability_Override(t *testing.T) {
	res, err := NewEngine(seededStore()).Availability(context.Background(), Query{
		CourtID:  1,
		Date:     day,
		Slot:     30 * time.Minute,
		Now:      at(8, 0),
		Override: []Window{win(9, 0, 12, 0)},
	})
	if err != nil {
		t.Fatalf("Availability: %v", err)
	}
	assertStarts(t, res.Slots, "09:00", "09:30", "11:30")
}

func TestEngineAvailability_StoreError(t *testing.T) {
	store := seededStore()
	store.err = errors.New("db down")
	if _, err := NewEngine(store).Availability(context.Background(), Query{CourtID: 1, Date: day, Slot: time.Hour}); err == nil {
		t.Fatal("expected store error to propagate")
	}
}

func TestEngineFreeWindows(t *testing.T) {
	free, err := NewEngine(seededStore()).FreeWindows(context.Background(), 1, day)
	if err != nil {
		t.Fatalf("FreeWindows: %v", err)
	}
	if TotalSlots(free, time.Hour) != 14 {
		t.Fatalf("expected 14 total slots, got %d", TotalSlots(free, time.Hour))
	}
}
