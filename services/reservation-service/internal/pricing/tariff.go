package pricing

import (
	"context"
	"sort"
	"time"

	otelx "github.com/md-rashed-zaman/courtreserve/libs/otel"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/model"
	"go.opentelemetry.io/otel/attribute"
)

type Store interface {
	// ListTariffRules returns active rules for courtID or every court, on day or every day.
	ListTariffRules(ctx context.Context, courtID int64, day model.Weekday) ([]model.TariffRule, error)
}

// Match picks the most specific active rule whose clock span covers [start, end) on start's weekday.
// Court bound rules beat global ones, then weekday bound rules beat every-day ones, then the later
// starting rule wins. Remaining ties keep input order.
// The end is measured from start's midnight, so a slot reaching into the next day ends past every
// rule and matches none.
func Match(rules []model.TariffRule, courtID int64, start, end time.Time) (model.TariffRule, bool) {
	day := model.WeekdayOf(start)
	from := model.ClockOf(start)
	to := model.ClockTime(end.Sub(model.DateOf(start)))

	candidates := make([]model.TariffRule, 0, len(rules))
	for _, r := range rules {
		if !r.Active || !r.Court.Matches(courtID) || !r.Day.Matches(day) {
			continue
		}
		if r.StartTime <= from && r.EndTime >= to {
			candidates = append(candidates, r)
		}
	}
	if len(candidates) == 0 {
		return model.TariffRule{}, false
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Court.Specific() != b.Court.Specific() {
			return a.Court.Specific()
		}
		if a.Day.Specific() != b.Day.Specific() {
			return a.Day.Specific()
		}
		return a.StartTime > b.StartTime
	})
	return candidates[0], true
}

// Price charges perHour for the whole minutes in [start, end), truncating toward zero.
func Price(perHourCents int64, start, end time.Time) int64 {
	minutes := int64(end.Sub(start) / time.Minute)
	return perHourCents * minutes / 60
}

type Resolver struct {
	store Store
}

func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// ResolvePrice returns the price in cents and whether any tariff applied.
func (r *Resolver) ResolvePrice(ctx context.Context, courtID int64, start, end time.Time) (int64, bool, error) {
	ctx, span := otelx.StartSpan(ctx, "reservation-service/pricing", "pricing.ResolvePrice")
	defer span.End()
	span.SetAttributes(attribute.Int64("court.id", courtID))

	rules, err := r.store.ListTariffRules(ctx, courtID, model.WeekdayOf(start))
	if err != nil {
		return 0, false, err
	}
	rule, ok := Match(rules, courtID, start, end)
	if !ok {
		span.SetAttributes(attribute.Bool("tariff.found", false))
		return 0, false, nil
	}
	span.SetAttributes(attribute.Bool("tariff.found", true), attribute.Int64("tariff.id", rule.ID))
	return Price(rule.PricePerHourCents, start, end), true, nil
}
