package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/model"
)

// Store is the notification persistence the dispatcher needs.
type Store interface {
	InTx(ctx context.Context, fn func(pgx.Tx) error) error
	ClaimPending(ctx context.Context, tx pgx.Tx, limit int) ([]model.Notification, error)
	ResetNotification(ctx context.Context, tx pgx.Tx, id int64) (model.Notification, error)
	MarkNotificationSent(ctx context.Context, tx pgx.Tx, id int64, sentAt time.Time) error
	MarkNotificationFailed(ctx context.Context, tx pgx.Tx, id int64, reason string) error
}

type Dispatcher struct {
	store     Store
	sender    Sender
	channels  map[string]Sender
	logger    *slog.Logger
	interval  time.Duration
	batchSize int
	now       func() time.Time
}

type DispatcherConfig struct {
	Interval  time.Duration
	BatchSize int
	// Channels overrides the default sender for the named channels.
	Channels map[string]Sender
}

func NewDispatcher(store Store, sender Sender, logger *slog.Logger, cfg DispatcherConfig) *Dispatcher {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 20
	}
	return &Dispatcher{
		store:     store,
		sender:    sender,
		channels:  cfg.Channels,
		logger:    logger,
		interval:  cfg.Interval,
		batchSize: cfg.BatchSize,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := d.DispatchPending(ctx); err != nil {
				d.logger.Error("notification batch failed", "err", err)
			}
		}
	}
}

// DispatchPending sends one batch of pending notifications and returns how many were handled.
func (d *Dispatcher) DispatchPending(ctx context.Context) (int, error) {
	var handled int
	err := d.store.InTx(ctx, func(tx pgx.Tx) error {
		batch, err := d.store.ClaimPending(ctx, tx, d.batchSize)
		if err != nil {
			return err
		}
		for _, n := range batch {
			if _, err := d.deliver(ctx, tx, n); err != nil {
				return err
			}
			handled++
		}
		return nil
	})
	return handled, err
}

// Resend resets a notification to pending and delivers it right away.
func (d *Dispatcher) Resend(ctx context.Context, id int64) (model.Notification, error) {
	var out model.Notification
	err := d.store.InTx(ctx, func(tx pgx.Tx) error {
		n, err := d.store.ResetNotification(ctx, tx, id)
		if err != nil {
			return err
		}
		out, err = d.deliver(ctx, tx, n)
		return err
	})
	return out, err
}

func (d *Dispatcher) senderFor(channel string) Sender {
	if s, ok := d.channels[channel]; ok {
		return s
	}
	return d.sender
}

// deliver sends n and records the outcome. A send failure is recorded, not returned.
func (d *Dispatcher) deliver(ctx context.Context, tx pgx.Tx, n model.Notification) (model.Notification, error) {
	subject, body, err := Compose(n)
	if err == nil {
		err = d.senderFor(n.Channel).Send(ctx, n.Recipient, subject, body)
	}
	if err != nil {
		d.logger.Warn("notification send failed", "notification_id", n.ID, "event_type", n.EventType, "err", err)
		if markErr := d.store.MarkNotificationFailed(ctx, tx, n.ID, err.Error()); markErr != nil {
			return n, markErr
		}
		n.Status = model.NotificationFailed
		n.ErrorMessage = err.Error()
		return n, nil
	}

	sentAt := d.now()
	if err := d.store.MarkNotificationSent(ctx, tx, n.ID, sentAt); err != nil {
		return n, err
	}
	n.Status = model.NotificationSent
	n.ErrorMessage = ""
	n.SentAt = &sentAt
	return n, nil
}
