package booking

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/availability"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/model"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/notify"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/outbox"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/pricing"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/storage"
)

// Store is the part of the repository the reservation workflow runs on. Reads that must see the
// transaction's own writes take the tx.
type Store interface {
	InTx(ctx context.Context, fn func(pgx.Tx) error) error

	LockCourt(ctx context.Context, tx pgx.Tx, id int64) (model.Court, error)
	GetCourt(ctx context.Context, id int64) (model.Court, error)
	GetUser(ctx context.Context, id int64) (model.User, error)
	ListScheduleRules(ctx context.Context, courtID int64, day model.Weekday) ([]model.ScheduleRule, error)
	ClosuresOverlapping(ctx context.Context, tx pgx.Tx, courtID int64, from, to time.Time) ([]model.Closure, error)

	HasOverlap(ctx context.Context, tx pgx.Tx, courtID int64, start, end time.Time) (bool, error)
	CreateReservation(ctx context.Context, tx pgx.Tx, res model.Reservation) (model.Reservation, error)
	GetReservation(ctx context.Context, id int64) (model.Reservation, error)
	GetReservationForUpdate(ctx context.Context, tx pgx.Tx, id int64) (model.Reservation, error)
	SetReservationStatus(ctx context.Context, tx pgx.Tx, id int64, status model.ReservationStatus, now time.Time) (model.Reservation, error)
	ListReservations(ctx context.Context, f storage.ReservationFilter) ([]model.Reservation, error)
	ExpireLapsed(ctx context.Context, tx pgx.Tx, courtID *int64, now time.Time) ([]model.Reservation, error)

	QueueNotification(ctx context.Context, tx pgx.Tx, n model.Notification) (model.Notification, error)
}

// Events appends outbox events inside a transaction.
type Events interface {
	Insert(ctx context.Context, tx pgx.Tx, evt outbox.Event) error
}

// Pricer quotes a slot; *pricing.Resolver implements it.
type Pricer interface {
	ResolvePrice(ctx context.Context, courtID int64, start, end time.Time) (int64, bool, error)
}

var (
	_ Store  = (*storage.Repository)(nil)
	_ Events = (*outbox.Repository)(nil)
	_ Pricer = (*pricing.Resolver)(nil)
)

// Service runs the reservation workflow: holds, confirmation, cancellation and hold expiry.
// Each operation commits its state change, queued notification and outbox event together.
type Service struct {
	repo    Store
	outbox  Events
	tariffs Pricer
	logger  *slog.Logger
	hold    time.Duration
	now     func() time.Time
}

type Config struct {
	// Hold is how long a pending reservation blocks its slot. Zero disables expiry.
	Hold time.Duration
}

func NewService(repo Store, events Events, tariffs Pricer, logger *slog.Logger, cfg Config) *Service {
	if cfg.Hold < 0 {
		cfg.Hold = 0
	}
	return &Service{
		repo:    repo,
		outbox:  events,
		tariffs: tariffs,
		logger:  logger,
		hold:    cfg.Hold,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

type CreateRequest struct {
	CourtID       int64
	Slot          availability.Window
	CustomerName  string
	CustomerPhone string
	// UserID books on behalf of another user; only honoured for admins.
	UserID *int64
}

func (s *Service) Create(ctx context.Context, actor model.User, req CreateRequest) (model.Reservation, error) {
	now := s.now()
	var created model.Reservation

	err := s.repo.InTx(ctx, func(tx pgx.Tx) error {
		if err := s.expire(ctx, tx, nil, now); err != nil {
			return err
		}

		court, err := s.repo.LockCourt(ctx, tx, req.CourtID)
		if storage.IsNotFound(err) || (err == nil && !court.IsActive) {
			return ErrCourtNotFound
		}
		if err != nil {
			return err
		}

		rules, err := s.repo.ListScheduleRules(ctx, court.ID, model.WeekdayOf(req.Slot.Start()))
		if err != nil {
			return err
		}
		closures, err := s.repo.ClosuresOverlapping(ctx, tx, court.ID, req.Slot.Start(), req.Slot.End())
		if err != nil {
			return err
		}
		operating := availability.ResolveWindows(rules, court.ID, req.Slot.Start())
		if err := CheckSlot(req.Slot, operating, closures, court.ID); err != nil {
			return err
		}

		owner := actor
		if req.UserID != nil && actor.IsAdmin && *req.UserID != actor.ID {
			owner, err = s.repo.GetUser(ctx, *req.UserID)
			if storage.IsNotFound(err) {
				return ErrUserNotFound
			}
			if err != nil {
				return err
			}
		}

		taken, err := s.repo.HasOverlap(ctx, tx, court.ID, req.Slot.Start(), req.Slot.End())
		if err != nil {
			return err
		}
		if taken {
			return ErrSlotTaken
		}

		res := model.Reservation{
			CourtID:       court.ID,
			UserID:        &owner.ID,
			StartTime:     req.Slot.Start(),
			EndTime:       req.Slot.End(),
			CustomerName:  req.CustomerName,
			CustomerPhone: req.CustomerPhone,
			Status:        model.StatusPending,
		}
		if s.hold > 0 {
			expires := now.Add(s.hold)
			res.ExpiresAt = &expires
		}
		price, ok, err := s.tariffs.ResolvePrice(ctx, court.ID, res.StartTime, res.EndTime)
		if err != nil {
			return err
		}
		if ok {
			res.PriceCents = &price
		}

		created, err = s.repo.CreateReservation(ctx, tx, res)
		if storage.IsConflict(err) {
			return ErrSlotConflict
		}
		if err != nil {
			return err
		}
		return s.record(ctx, tx, created, court, &owner, model.EventReservationCreated, outbox.ReservationCreated, now)
	})
	if err != nil {
		return model.Reservation{}, err
	}
	s.logger.Info("reservation created",
		"reservation_id", created.ID,
		"court_id", created.CourtID,
		"start_time", created.StartTime.Format(model.TimestampLayout),
	)
	return created, nil
}

// Confirm turns a pending reservation into a confirmed one. Confirming twice is a no-op; a
// cancelled reservation, or one whose hold has lapsed, cannot be confirmed.
func (s *Service) Confirm(ctx context.Context, actor model.User, id int64) (model.Reservation, error) {
	now := s.now()
	var (
		out     model.Reservation
		expired bool
	)
	err := s.repo.InTx(ctx, func(tx pgx.Tx) error {
		res, err := s.lockAccessible(ctx, tx, actor, id)
		if err != nil {
			return err
		}
		switch {
		case res.HoldLapsed(now):
			expired = true
			return s.expire(ctx, tx, &res.CourtID, now)
		case res.Status == model.StatusCancelled:
			return ErrCancelled
		case res.Status == model.StatusConfirmed:
			out = res
			return nil
		}

		out, err = s.repo.SetReservationStatus(ctx, tx, res.ID, model.StatusConfirmed, now)
		if err != nil {
			return err
		}
		return s.recordFor(ctx, tx, out, model.EventReservationConfirmed, outbox.ReservationConfirmed, now)
	})
	if err != nil {
		return model.Reservation{}, err
	}
	if expired {
		return model.Reservation{}, ErrCancelled
	}
	return out, nil
}

// Cancel releases the reservation. Cancelling an already cancelled reservation returns it unchanged.
func (s *Service) Cancel(ctx context.Context, actor model.User, id int64) (model.Reservation, error) {
	now := s.now()
	var out model.Reservation
	err := s.repo.InTx(ctx, func(tx pgx.Tx) error {
		res, err := s.lockAccessible(ctx, tx, actor, id)
		if err != nil {
			return err
		}
		if res.Status == model.StatusCancelled {
			out = res
			return nil
		}
		out, err = s.repo.SetReservationStatus(ctx, tx, res.ID, model.StatusCancelled, now)
		if err != nil {
			return err
		}
		return s.recordFor(ctx, tx, out, model.EventReservationCancelled, outbox.ReservationCancelled, now)
	})
	if err != nil {
		return model.Reservation{}, err
	}
	return out, nil
}

// Get returns the reservation if actor may see it.
func (s *Service) Get(ctx context.Context, actor model.User, id int64) (model.Reservation, error) {
	if _, err := s.ExpireLapsed(ctx, nil); err != nil {
		return model.Reservation{}, err
	}
	res, err := s.repo.GetReservation(ctx, id)
	if storage.IsNotFound(err) {
		return model.Reservation{}, ErrReservationNotFound
	}
	if err != nil {
		return model.Reservation{}, err
	}
	if !CanAccess(actor, res) {
		return model.Reservation{}, ErrForbidden
	}
	return res, nil
}

// List applies filter, restricted to the actor's own reservations unless the actor is an admin.
func (s *Service) List(ctx context.Context, actor model.User, filter storage.ReservationFilter) ([]model.Reservation, error) {
	if _, err := s.ExpireLapsed(ctx, nil); err != nil {
		return nil, err
	}
	if !actor.IsAdmin {
		filter.UserID = &actor.ID
	}
	return s.repo.ListReservations(ctx, filter)
}

// ExpireLapsed cancels every pending reservation whose hold has run out, for one court or all.
func (s *Service) ExpireLapsed(ctx context.Context, courtID *int64) ([]model.Reservation, error) {
	now := s.now()
	var expired []model.Reservation
	err := s.repo.InTx(ctx, func(tx pgx.Tx) error {
		var err error
		expired, err = s.expireReturning(ctx, tx, courtID, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(expired) > 0 {
		s.logger.Info("reservation holds expired", "count", len(expired))
	}
	return expired, nil
}

func (s *Service) expire(ctx context.Context, tx pgx.Tx, courtID *int64, now time.Time) error {
	_, err := s.expireReturning(ctx, tx, courtID, now)
	return err
}

func (s *Service) expireReturning(ctx context.Context, tx pgx.Tx, courtID *int64, now time.Time) ([]model.Reservation, error) {
	expired, err := s.repo.ExpireLapsed(ctx, tx, courtID, now)
	if err != nil {
		return nil, err
	}
	for _, r := range expired {
		evt, err := outbox.ReservationEvent(outbox.ReservationExpired, r, now)
		if err != nil {
			return nil, err
		}
		if err := s.outbox.Insert(ctx, tx, evt); err != nil {
			return nil, err
		}
	}
	return expired, nil
}

func (s *Service) lockAccessible(ctx context.Context, tx pgx.Tx, actor model.User, id int64) (model.Reservation, error) {
	res, err := s.repo.GetReservationForUpdate(ctx, tx, id)
	if storage.IsNotFound(err) {
		return model.Reservation{}, ErrReservationNotFound
	}
	if err != nil {
		return model.Reservation{}, err
	}
	if !CanAccess(actor, res) {
		return model.Reservation{}, ErrForbidden
	}
	return res, nil
}

// recordFor loads the court and owner of res and records the change.
func (s *Service) recordFor(ctx context.Context, tx pgx.Tx, res model.Reservation, notification, event string, now time.Time) error {
	court, err := s.repo.GetCourt(ctx, res.CourtID)
	if err != nil && !storage.IsNotFound(err) {
		return err
	}
	var owner *model.User
	if res.UserID != nil {
		u, err := s.repo.GetUser(ctx, *res.UserID)
		switch {
		case err == nil:
			owner = &u
		case !storage.IsNotFound(err):
			return err
		}
	}
	return s.record(ctx, tx, res, court, owner, notification, event, now)
}

// record queues the customer notification and the outbox event for res.
func (s *Service) record(ctx context.Context, tx pgx.Tx, res model.Reservation, court model.Court, owner *model.User, notification, event string, now time.Time) error {
	payload, err := json.Marshal(notify.DetailsFor(res, court))
	if err != nil {
		return err
	}
	n := model.Notification{
		ReservationID: &res.ID,
		Channel:       model.ChannelSMS,
		EventType:     notification,
		Recipient:     res.CustomerPhone,
		Payload:       payload,
	}
	if owner != nil {
		n.UserID = &owner.ID
		n.Channel = model.ChannelEmail
		n.Recipient = owner.Email
	}
	if n.Recipient != "" {
		if _, err := s.repo.QueueNotification(ctx, tx, n); err != nil {
			return err
		}
	}

	evt, err := outbox.ReservationEvent(event, res, now)
	if err != nil {
		return err
	}
	return s.outbox.Insert(ctx, tx, evt)
}

// IsClientError reports errors caused by the request rather than by the service.
func IsClientError(err error) bool {
	for _, target := range []error{
		ErrCourtNotFound, ErrUserNotFound, ErrReservationNotFound, ErrNoSchedule, ErrOutsideHours,
		ErrCourtClosed, ErrSlotTaken, ErrSlotConflict, ErrCancelled, ErrForbidden,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
