package outbox

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/md-rashed-zaman/courtreserve/libs/kafkax"
	otelx "github.com/md-rashed-zaman/courtreserve/libs/otel"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/attribute"
)

// Store is the outbox persistence the publisher drains. *Repository implements it.
type Store interface {
	InTx(ctx context.Context, fn func(pgx.Tx) error) error
	FetchUnpublished(ctx context.Context, tx pgx.Tx, limit, maxAttempts int) ([]Record, error)
	MarkPublished(ctx context.Context, tx pgx.Tx, ids []int64) error
	RecordFailure(ctx context.Context, tx pgx.Tx, ids []int64, reason string) error
}

// MessageWriter is the part of *kafka.Writer the publisher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type Publisher struct {
	store       Store
	logger      *slog.Logger
	brokers     string
	pollEvery   time.Duration
	batchSize   int
	maxAttempts int
}

type PublisherConfig struct {
	Brokers   string
	PollEvery time.Duration
	BatchSize int

	// MaxAttempts parks an event after this many failed publishes.
	MaxAttempts int
}

func NewPublisher(store Store, logger *slog.Logger, cfg PublisherConfig) *Publisher {
	if cfg.PollEvery <= 0 {
		cfg.PollEvery = 2 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 10
	}
	return &Publisher{
		store:       store,
		logger:      logger,
		brokers:     cfg.Brokers,
		pollEvery:   cfg.PollEvery,
		batchSize:   cfg.BatchSize,
		maxAttempts: cfg.MaxAttempts,
	}
}

// Run drains the outbox into Kafka until ctx is cancelled. Without brokers it returns at once and
// events stay in the table.
func (p *Publisher) Run(ctx context.Context) {
	if len(kafkax.SplitBrokers(p.brokers)) == 0 {
		p.logger.Warn("outbox publisher disabled (no kafka brokers configured)")
		return
	}
	writer := kafkax.NewWriter(p.brokers)
	defer writer.Close()

	ticker := time.NewTicker(p.pollEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := p.publishBatch(ctx, writer)
			if err != nil {
				p.logger.Error("outbox publish failed", "err", err)
				continue
			}
			if n > 0 {
				p.logger.Debug("outbox events published", "count", n)
			}
		}
	}
}

// publishBatch sends one batch and returns how many events were published. A failed send is
// counted against every event of the batch before the error is returned.
func (p *Publisher) publishBatch(ctx context.Context, writer MessageWriter) (int, error) {
	ctx, span := otelx.StartSpan(ctx, "reservation-service/outbox", "outbox.publishBatch")
	defer span.End()

	var published int
	var sendErr error
	err := p.store.InTx(ctx, func(tx pgx.Tx) error {
		records, err := p.store.FetchUnpublished(ctx, tx, p.batchSize, p.maxAttempts)
		if err != nil || len(records) == 0 {
			return err
		}
		msgs := make([]kafka.Message, 0, len(records))
		ids := make([]int64, 0, len(records))
		for _, r := range records {
			msgs = append(msgs, toMessage(ctx, r))
			ids = append(ids, r.ID)
		}
		if sendErr = writer.WriteMessages(ctx, msgs...); sendErr != nil {
			for _, r := range records {
				if r.Attempts+1 >= p.maxAttempts {
					p.logger.Warn("outbox event parked", "event_id", r.EventID, "event_type", r.EventType, "attempts", r.Attempts+1)
				}
			}
			return p.store.RecordFailure(ctx, tx, ids, sendErr.Error())
		}
		published = len(records)
		return p.store.MarkPublished(ctx, tx, ids)
	})
	span.SetAttributes(attribute.Int("outbox.published", published))
	if err != nil {
		return 0, err
	}
	return published, sendErr
}

func toMessage(ctx context.Context, r Record) kafka.Message {
	msgCtx := otelx.ContextWithTraceContext(ctx, r.Traceparent, r.Tracestate)
	msg := kafka.Message{
		Topic: r.EventType,
		Key:   []byte(r.AggregateID),
		Value: r.Payload,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(r.EventID)},
			{Key: "event_type", Value: []byte(r.EventType)},
			{Key: "aggregate_type", Value: []byte(r.AggregateType)},
		},
	}
	msg.Headers = kafkax.InjectTraceHeaders(msgCtx, msg.Headers)
	return msg
}
