// Package app wires the reservation service from its configuration.
package app

import (
	"context"
	"log/slog"

	"github.com/md-rashed-zaman/courtreserve/libs/db"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/availability"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/booking"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/handlers"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/model"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/notify"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/outbox"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/pricing"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/reports"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/storage"
)

type App struct {
	Pool       *db.Pool
	Repo       *storage.Repository
	Outbox     *outbox.Repository
	Engine     *availability.Engine
	Tariffs    *pricing.Resolver
	Bookings   *booking.Service
	Reports    *reports.Builder
	Dispatcher *notify.Dispatcher
	Publisher  *outbox.Publisher
	Expiry     *booking.ExpiryWorker
	Auth       *handlers.Authenticator
}

// New opens the database and builds every component on top of it.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*App, error) {
	opts := db.DefaultOptions()
	opts.MaxConns = cfg.DBMaxConns
	pool, err := db.Open(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		return nil, err
	}

	repo := storage.NewRepository(pool)
	outboxRepo := outbox.NewRepository(pool)
	engine := availability.NewEngine(repo)
	tariffs := pricing.NewResolver(repo)
	bookings := booking.NewService(repo, outboxRepo, tariffs, logger, booking.Config{Hold: cfg.Hold()})

	logSender := notify.NewLogSender(logger)
	var sender notify.Sender = logSender
	if cfg.SMTPHost != "" {
		sender = notify.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom)
	}
	var sms notify.Sender = logSender
	if cfg.SMSWebhookURL != "" {
		sms = notify.NewWebhookSMSSender(cfg.SMSWebhookURL, cfg.SMSWebhookToken)
	}

	return &App{
		Pool:     pool,
		Repo:     repo,
		Outbox:   outboxRepo,
		Engine:   engine,
		Tariffs:  tariffs,
		Bookings: bookings,
		Reports:  reports.NewBuilder(repo, engine),
		Dispatcher: notify.NewDispatcher(repo, sender, logger, notify.DispatcherConfig{
			Interval:  cfg.NotifyInterval,
			BatchSize: cfg.NotifyBatchSize,
			Channels:  map[string]notify.Sender{model.ChannelSMS: sms},
		}),
		Publisher: outbox.NewPublisher(outboxRepo, logger, outbox.PublisherConfig{
			Brokers:     cfg.KafkaBrokers,
			PollEvery:   cfg.OutboxPollEvery,
			BatchSize:   cfg.OutboxBatchSize,
			MaxAttempts: cfg.OutboxMaxAttempts,
		}),
		Expiry: booking.NewExpiryWorker(bookings, logger, booking.ExpiryConfig{Interval: cfg.ExpiryInterval}),
		Auth:   handlers.NewAuthenticator(repo, cfg.JWTSecret, cfg.AccessTokenTTL, logger),
	}, nil
}

// API builds the HTTP surface over the app's components.
func (a *App) API(logger *slog.Logger) *handlers.API {
	return handlers.NewAPI(handlers.Deps{
		Repo:     a.Repo,
		Bookings: a.Bookings,
		Engine:   a.Engine,
		Tariffs:  a.Tariffs,
		Reports:  a.Reports,
		Notifier: a.Dispatcher,
		Auth:     a.Auth,
		Logger:   logger,
	})
}

// RunWorkers starts the background loops; they stop when ctx is cancelled.
func (a *App) RunWorkers(ctx context.Context) {
	go a.Publisher.Run(ctx)
	go a.Dispatcher.Run(ctx)
	go a.Expiry.Run(ctx)
}

func (a *App) Close() {
	a.Pool.Close()
}
