package booking

import (
	"context"
	"log/slog"
	"time"

	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/model"
)

// Expirer releases lapsed holds. *Service implements it.
type Expirer interface {
	ExpireLapsed(ctx context.Context, courtID *int64) ([]model.Reservation, error)
}

// ExpiryWorker periodically cancels pending reservations whose hold has lapsed, so their
// outbox events go out even when no request touches the court.
type ExpiryWorker struct {
	expirer  Expirer
	logger   *slog.Logger
	interval time.Duration
}

type ExpiryConfig struct {
	Interval time.Duration
}

func NewExpiryWorker(expirer Expirer, logger *slog.Logger, cfg ExpiryConfig) *ExpiryWorker {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	return &ExpiryWorker{expirer: expirer, logger: logger, interval: cfg.Interval}
}

func (w *ExpiryWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *ExpiryWorker) sweep(ctx context.Context) int {
	expired, err := w.expirer.ExpireLapsed(ctx, nil)
	if err != nil {
		w.logger.Error("hold expiry failed", "err", err)
		return 0
	}
	return len(expired)
}
