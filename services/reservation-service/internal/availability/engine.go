package availability

import (
	"context"
	"time"

	otelx "github.com/md-rashed-zaman/courtreserve/libs/otel"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/model"
	"go.opentelemetry.io/otel/attribute"
)

const tracerName = "reservation-service/availability"

// Store is the narrow read side the engine needs. Any backend that answers these interval
// queries can drive it.
type Store interface {
	// ListScheduleRules returns active rules for the weekday bound to courtID or to every court.
	ListScheduleRules(ctx context.Context, courtID int64, day model.Weekday) ([]model.ScheduleRule, error)
	// ListClosures returns closures for courtID or every court intersecting [from, to).
	ListClosures(ctx context.Context, courtID int64, from, to time.Time) ([]model.Closure, error)
	// ListOccupied returns the intervals blocked at now by reservations of courtID intersecting [from, to).
	ListOccupied(ctx context.Context, courtID int64, from, to, now time.Time) ([]Window, error)
}

type Engine struct {
	store Store
}

func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// ResolveWindows returns the operating windows of courtID on date.
func (e *Engine) ResolveWindows(ctx context.Context, courtID int64, date time.Time) ([]Window, error) {
	ctx, span := otelx.StartSpan(ctx, tracerName, "availability.ResolveWindows")
	defer span.End()
	span.SetAttributes(attribute.Int64("court.id", courtID))

	rules, err := e.store.ListScheduleRules(ctx, courtID, model.WeekdayOf(date))
	if err != nil {
		return nil, err
	}
	return ResolveWindows(rules, courtID, date), nil
}

// SubtractClosures removes the closures of the windows' calendar day from windows.
func (e *Engine) SubtractClosures(ctx context.Context, courtID int64, windows []Window) ([]Window, error) {
	if len(windows) == 0 {
		return nil, nil
	}
	ctx, span := otelx.StartSpan(ctx, tracerName, "availability.SubtractClosures")
	defer span.End()

	day := DaySpan(windows[0].start)
	lo, hi := day.start, day.end
	for _, w := range windows {
		if w.start.Before(lo) {
			lo = w.start
		}
		if w.end.After(hi) {
			hi = w.end
		}
	}
	closures, err := e.store.ListClosures(ctx, courtID, lo, hi)
	if err != nil {
		return nil, err
	}
	return SubtractClosures(windows, closures, courtID), nil
}

func (e *Engine) ComputeAvailableSlots(free, occupied []Window, slot time.Duration) []Window {
	return ComputeAvailableSlots(free, occupied, slot)
}

// FreeWindows is ResolveWindows followed by SubtractClosures.
func (e *Engine) FreeWindows(ctx context.Context, courtID int64, date time.Time) ([]Window, error) {
	windows, err := e.ResolveWindows(ctx, courtID, date)
	if err != nil {
		return nil, err
	}
	return e.SubtractClosures(ctx, courtID, windows)
}

// Query describes one availability lookup. Override, when set, replaces the schedule windows.
type Query struct {
	CourtID  int64
	Date     time.Time
	Slot     time.Duration
	Now      time.Time
	Override []Window
}

type Result struct {
	Operating []Window
	Free      []Window
	Slots     []Window
}

// NoSchedule reports that no operating window exists for the day.
func (r Result) NoSchedule() bool { return len(r.Operating) == 0 }

// Availability runs the whole pipeline for q.
func (e *Engine) Availability(ctx context.Context, q Query) (Result, error) {
	ctx, span := otelx.StartSpan(ctx, tracerName, "availability.Availability")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("court.id", q.CourtID),
		attribute.String("date", q.Date.Format(model.DateLayout)),
		attribute.Int64("slot.minutes", int64(q.Slot/time.Minute)),
	)

	operating := q.Override
	if len(operating) == 0 {
		var err error
		operating, err = e.ResolveWindows(ctx, q.CourtID, q.Date)
		if err != nil {
			return Result{}, err
		}
	}
	res := Result{Operating: operating}
	if len(operating) == 0 {
		return res, nil
	}

	free, err := e.SubtractClosures(ctx, q.CourtID, operating)
	if err != nil {
		return Result{}, err
	}
	res.Free = free
	if len(free) == 0 {
		return res, nil
	}

	occupied, err := e.store.ListOccupied(ctx, q.CourtID, free[0].start, free[len(free)-1].end, q.Now)
	if err != nil {
		return Result{}, err
	}
	res.Slots = ComputeAvailableSlots(free, occupied, q.Slot)
	span.SetAttributes(attribute.Int("slots", len(res.Slots)))
	return res, nil
}
