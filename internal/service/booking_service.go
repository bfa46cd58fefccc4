package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/cache"
	"github.com/Freeeeeet/salon_scheduler/internal/events"
	"github.com/Freeeeeet/salon_scheduler/internal/model"
	"github.com/Freeeeeet/salon_scheduler/internal/scheduling"
	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	conflictRetryDelay = 25 * time.Millisecond
	afterCommitTimeout = 5 * time.Second
)

// Config - параметры BookingService
type Config struct {
	Location           *time.Location // часовой пояс салона
	GranularityMinutes int
	BookingTimeout     time.Duration
	NoShowAfter        time.Duration
	Cache              AvailabilityCache // nil - без кэша
	Publisher          events.Publisher  // nil - события не публикуются
}

// BookingService - движок записи: свободные слоты, создание и перенос
// записей без пересечений, смена статусов
type BookingService struct {
	tx       Transactor
	hours    WorkingHoursProvider
	bookings BookingStore
	services ServiceCatalog
	clients  ClientStatistics
	staff    StaffDirectory

	cache       AvailabilityCache
	publisher   events.Publisher
	loc         *time.Location
	granularity int
	timeout     time.Duration
	noShowAfter time.Duration
	now         func() time.Time
	logger      *zap.Logger
}

func NewBookingService(
	tx Transactor,
	hours WorkingHoursProvider,
	bookings BookingStore,
	services ServiceCatalog,
	clients ClientStatistics,
	staff StaffDirectory,
	cfg Config,
	logger *zap.Logger,
) *BookingService {
	s := &BookingService{
		tx:          tx,
		hours:       hours,
		bookings:    bookings,
		services:    services,
		clients:     clients,
		staff:       staff,
		cache:       cfg.Cache,
		publisher:   cfg.Publisher,
		loc:         cfg.Location,
		granularity: cfg.GranularityMinutes,
		timeout:     cfg.BookingTimeout,
		noShowAfter: cfg.NoShowAfter,
		now:         time.Now,
		logger:      logger,
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.granularity <= 0 {
		s.granularity = scheduling.DefaultGranularityMinutes
	}
	if s.publisher == nil {
		s.publisher = events.Nop{}
	}
	return s
}

// Location возвращает часовой пояс салона
func (s *BookingService) Location() *time.Location {
	return s.loc
}

// Availability - свободные слоты мастера на день для услуги
type Availability struct {
	IsAvailable bool
	Slots       []model.Slot
	Message     string
}

// BookingRequest - запрос на новую запись
type BookingRequest struct {
	StaffID               uuid.UUID
	ServiceID             uuid.UUID
	ClientID              uuid.UUID
	StartAt               time.Time
	Notes                 string
	PackageSubscriptionID *uuid.UUID
	PaidAmount            decimal.NullDecimal // предоплата; статистику клиента не меняет
}

func (r BookingRequest) validate() error {
	switch {
	case r.StaffID == uuid.Nil:
		return fmt.Errorf("%w: staff id is required", scheduling.ErrInvalidInput)
	case r.ServiceID == uuid.Nil:
		return fmt.Errorf("%w: service id is required", scheduling.ErrInvalidInput)
	case r.ClientID == uuid.Nil:
		return fmt.Errorf("%w: client id is required", scheduling.ErrInvalidInput)
	case r.StartAt.IsZero():
		return fmt.Errorf("%w: start time is required", scheduling.ErrInvalidInput)
	case r.PaidAmount.Valid && r.PaidAmount.Decimal.IsNegative():
		return fmt.Errorf("%w: paid amount is negative", scheduling.ErrInvalidInput)
	}
	return nil
}

// BookingChanges - изменения записи. nil-поля не меняются.
// Смена мастера, услуги или времени заново проверяет слот.
type BookingChanges struct {
	StaffID               *uuid.UUID
	ServiceID             *uuid.UUID
	StartAt               *time.Time
	Notes                 *string
	PackageSubscriptionID *uuid.UUID
	Status                *model.BookingStatus
	PaidAmount            decimal.NullDecimal
}

func (c BookingChanges) reschedules() bool {
	return c.StaffID != nil || c.ServiceID != nil || c.StartAt != nil
}

func (c BookingChanges) validate() error {
	switch {
	case c.StaffID != nil && *c.StaffID == uuid.Nil:
		return fmt.Errorf("%w: staff id is empty", scheduling.ErrInvalidInput)
	case c.ServiceID != nil && *c.ServiceID == uuid.Nil:
		return fmt.Errorf("%w: service id is empty", scheduling.ErrInvalidInput)
	case c.StartAt != nil && c.StartAt.IsZero():
		return fmt.Errorf("%w: start time is empty", scheduling.ErrInvalidInput)
	case c.PaidAmount.Valid && c.PaidAmount.Decimal.IsNegative():
		return fmt.Errorf("%w: paid amount is negative", scheduling.ErrInvalidInput)
	}
	if c.Status != nil {
		if _, ok := model.ParseBookingStatus(string(*c.Status)); !ok {
			return fmt.Errorf("%w: unknown status %q", scheduling.ErrInvalidInput, *c.Status)
		}
	}
	return nil
}

// DayAgenda - расписание мастера на день
type DayAgenda struct {
	Staff     *model.Staff
	Date      model.Date
	Windows   []scheduling.Window
	Bookings  []*model.Booking // все статусы, по возрастанию начала
	FreeSlots []model.Slot     // слоты длиной в шаг сетки
}

type staffDay struct {
	staffID uuid.UUID
	date    model.Date
}

func (d staffDay) key() string {
	return d.staffID.String() + "/" + d.date.String()
}

func (s *BookingService) dayOf(b *model.Booking) staffDay {
	return staffDay{staffID: b.StaffID, date: model.DateOf(b.StartAt, s.loc)}
}

// ComputeAvailability возвращает свободные слоты мастера на дату для услуги.
// Если мастер в этот день не работает, IsAvailable = false и Message объясняет почему.
func (s *BookingService) ComputeAvailability(ctx context.Context, staffID, serviceID uuid.UUID, date model.Date) (*Availability, error) {
	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", scheduling.ErrInvalidInput)
	}
	staff, err := s.requireStaff(ctx, staffID)
	if err != nil {
		return nil, err
	}
	if err := activeStaff(staff); err != nil {
		return nil, err
	}
	svc, err := s.requireService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if err := activeService(svc); err != nil {
		return nil, err
	}

	key := cache.Key{
		StaffID:            staffID,
		Date:               date,
		DurationMinutes:    svc.DurationMinutes,
		GranularityMinutes: s.granularity,
	}

	var (
		version   int64
		cacheable bool
	)
	if s.cache != nil {
		snap, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			s.logger.Warn("Availability cache read failed", zap.Error(err))
		case snap.Hit:
			return availabilityOf(snap.Slots), nil
		default:
			version, cacheable = snap.Version, true
		}
	}

	windows, err := s.windowsOn(ctx, staffID, date)
	if err != nil {
		return nil, err
	}
	if len(windows) == 0 {
		return &Availability{
			Slots:   []model.Slot{},
			Message: fmt.Sprintf("%s (%s)", scheduling.ErrNoWorkday, date.Weekday()),
		}, nil
	}

	existing, err := s.activeOn(ctx, staffID, date)
	if err != nil {
		return nil, err
	}

	slots := scheduling.FreeSlots(windows, existing, svc.DurationMinutes, s.granularity)

	if cacheable {
		if err := s.cache.Set(ctx, key, version, slots); err != nil {
			s.logger.Warn("Availability cache write failed", zap.Error(err))
		}
	}

	return availabilityOf(slots), nil
}

func availabilityOf(slots []model.Slot) *Availability {
	if slots == nil {
		slots = []model.Slot{}
	}
	a := &Availability{IsAvailable: len(slots) > 0, Slots: slots}
	if !a.IsAvailable {
		a.Message = "no free slots for this service"
	}
	return a
}

// CreateBooking проверяет и создаёт запись в статусе scheduled. Проверка и вставка
// идут в одной транзакции под блокировкой дня мастера. Проигранная гонка при
// вставке повторяется один раз на свежих данных.
func (s *BookingService) CreateBooking(ctx context.Context, req BookingRequest) (*model.Booking, error) {
	fields := []zap.Field{
		zap.String("staff_id", req.StaffID.String()),
		zap.String("service_id", req.ServiceID.String()),
		zap.String("client_id", req.ClientID.String()),
		zap.Time("start_at", req.StartAt),
	}

	if err := req.validate(); err != nil {
		s.logRejected("Booking rejected", err, fields...)
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var booking *model.Booking
	err := s.retryOnConflict(ctx, func(ctx context.Context) error {
		b, err := s.createOnce(ctx, req)
		if err != nil {
			return err
		}
		booking = b
		return nil
	})
	if err != nil {
		s.logRejected("Booking rejected", err, fields...)
		return nil, err
	}

	s.logger.Info("Booking created",
		append(fields,
			zap.String("booking_id", booking.ID.String()),
			zap.Int("duration_minutes", booking.DurationMinutes),
			zap.String("outcome", scheduling.Outcome(nil)))...)

	s.afterCommit(ctx, events.NewBookingEvent(events.BookingCreated, booking, s.now()), s.dayOf(booking))

	return booking, nil
}

func (s *BookingService) createOnce(ctx context.Context, req BookingRequest) (*model.Booking, error) {
	date := model.DateOf(req.StartAt, s.loc)

	var booking *model.Booking
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.tx.LockStaffDay(ctx, req.StaffID, date); err != nil {
			return err
		}

		staff, err := s.requireStaff(ctx, req.StaffID)
		if err != nil {
			return err
		}
		if err := activeStaff(staff); err != nil {
			return err
		}

		svc, err := s.requireService(ctx, req.ServiceID)
		if err != nil {
			return err
		}
		if err := activeService(svc); err != nil {
			return err
		}

		if err := s.requireClient(ctx, req.ClientID); err != nil {
			return err
		}

		slot, err := s.evaluate(ctx, req.StaffID, date, req.StartAt, svc.DurationMinutes, uuid.Nil)
		if err != nil {
			return err
		}

		b := &model.Booking{
			ID:                    uuid.New(),
			StaffID:               req.StaffID,
			ServiceID:             req.ServiceID,
			ClientID:              req.ClientID,
			StartAt:               slot.Start,
			DurationMinutes:       svc.DurationMinutes,
			Status:                model.BookingStatusScheduled,
			Paid:                  req.PaidAmount.Valid,
			PaidAmount:            req.PaidAmount,
			Notes:                 req.Notes,
			PackageSubscriptionID: req.PackageSubscriptionID,
		}
		if err := s.bookings.Insert(ctx, b); err != nil {
			return err
		}

		booking = b
		return nil
	})

	return booking, err
}

// UpdateBooking меняет запись. При смене мастера, услуги или времени слот проверяется
// заново без учёта самой записи; смена статуса идёт через те же правила, что Transition.
func (s *BookingService) UpdateBooking(ctx context.Context, id uuid.UUID, changes BookingChanges) (*model.Booking, error) {
	fields := []zap.Field{zap.String("booking_id", id.String())}

	if id == uuid.Nil {
		err := fmt.Errorf("%w: booking id is required", scheduling.ErrInvalidInput)
		s.logRejected("Booking update rejected", err, fields...)
		return nil, err
	}
	if err := changes.validate(); err != nil {
		s.logRejected("Booking update rejected", err, fields...)
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var updated, previous *model.Booking
	err := s.retryOnConflict(ctx, func(ctx context.Context) error {
		b, prev, err := s.updateOnce(ctx, id, changes)
		if err != nil {
			return err
		}
		updated, previous = b, prev
		return nil
	})
	if err != nil {
		s.logRejected("Booking update rejected", err, fields...)
		return nil, err
	}

	eventType := events.BookingUpdated
	switch {
	case !updated.StartAt.Equal(previous.StartAt) || updated.StaffID != previous.StaffID ||
		updated.DurationMinutes != previous.DurationMinutes:
		eventType = events.BookingRescheduled
	case updated.Status != previous.Status:
		eventType = events.BookingStatusChanged
	}

	s.logger.Info("Booking updated",
		append(fields,
			zap.String("event", string(eventType)),
			zap.Time("start_at", updated.StartAt),
			zap.String("status", string(updated.Status)))...)

	e := events.NewBookingEvent(eventType, updated, s.now())
	if updated.Status != previous.Status {
		e.PreviousStatus = previous.Status
	}
	if eventType == events.BookingRescheduled {
		start := previous.StartAt
		e.PreviousStartAt = &start
		if previous.StaffID != updated.StaffID {
			staffID := previous.StaffID
			e.PreviousStaffID = &staffID
		}
	}
	s.afterCommit(ctx, e, s.dayOf(previous), s.dayOf(updated))

	return updated, nil
}

func (s *BookingService) updateOnce(ctx context.Context, id uuid.UUID, changes BookingChanges) (*model.Booking, *model.Booking, error) {
	var updated, previous *model.Booking

	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		var locked []staffDay
		if changes.reschedules() {
			// дни блокируются до строки записи, в том же порядке, что и при создании
			current, err := s.bookings.GetByID(ctx, id)
			if err != nil {
				return fmt.Errorf("get booking: %w", err)
			}
			if current == nil {
				return fmt.Errorf("%w: booking %s", scheduling.ErrNotFound, id)
			}
			locked = []staffDay{s.dayOf(current), s.targetDay(current, changes)}
			if err := s.lockDays(ctx, locked...); err != nil {
				return err
			}
		}

		b, err := s.bookings.GetByIDForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("get booking: %w", err)
		}
		if b == nil {
			return fmt.Errorf("%w: booking %s", scheduling.ErrNotFound, id)
		}
		snapshot := *b
		previous = &snapshot

		if changes.reschedules() {
			if err := s.reschedule(ctx, b, changes, locked); err != nil {
				return err
			}
		}

		if changes.Notes != nil {
			b.Notes = *changes.Notes
		}
		if changes.PackageSubscriptionID != nil {
			b.PackageSubscriptionID = changes.PackageSubscriptionID
		}
		statusChange := changes.Status != nil && *changes.Status != b.Status
		if changes.PaidAmount.Valid && !statusChange {
			b.PaidAmount = changes.PaidAmount
			b.Paid = true
		}

		if err := s.bookings.Update(ctx, b); err != nil {
			return err
		}

		if statusChange {
			if err := s.applyTransition(ctx, b, *changes.Status, changes.PaidAmount); err != nil {
				return err
			}
		}

		updated = b
		return nil
	})

	return updated, previous, err
}

func (s *BookingService) targetDay(b *model.Booking, changes BookingChanges) staffDay {
	day := s.dayOf(b)
	if changes.StaffID != nil {
		day.staffID = *changes.StaffID
	}
	if changes.StartAt != nil {
		day.date = model.DateOf(*changes.StartAt, s.loc)
	}
	return day
}

// reschedule проверяет новый слот и применяет его к b
func (s *BookingService) reschedule(ctx context.Context, b *model.Booking, changes BookingChanges, locked []staffDay) error {
	if b.Status.Terminal() {
		return fmt.Errorf("%w: cannot reschedule a %s booking", scheduling.ErrInvalidTransition, b.Status)
	}

	// запись могли перенести между чтением и блокировкой строки
	target := s.targetDay(b, changes)
	if !slices.Contains(locked, target) {
		if err := s.tx.LockStaffDay(ctx, target.staffID, target.date); err != nil {
			return err
		}
	}

	if target.staffID != b.StaffID {
		staff, err := s.requireStaff(ctx, target.staffID)
		if err != nil {
			return err
		}
		if err := activeStaff(staff); err != nil {
			return err
		}
	}

	serviceID := b.ServiceID
	if changes.ServiceID != nil {
		serviceID = *changes.ServiceID
	}
	svc, err := s.requireService(ctx, serviceID)
	if err != nil {
		return err
	}
	if serviceID != b.ServiceID {
		if err := activeService(svc); err != nil {
			return err
		}
	}

	start := b.StartAt
	if changes.StartAt != nil {
		start = *changes.StartAt
	}

	slot, err := s.evaluate(ctx, target.staffID, target.date, start, svc.DurationMinutes, b.ID)
	if err != nil {
		return err
	}

	b.StaffID = target.staffID
	b.ServiceID = serviceID
	b.StartAt = slot.Start
	b.DurationMinutes = svc.DurationMinutes
	return nil
}

// lockDays блокирует дни в стабильном порядке, чтобы встречные переносы не
// ждали друг друга по кругу
func (s *BookingService) lockDays(ctx context.Context, days ...staffDay) error {
	days = slices.Clone(days)
	slices.SortFunc(days, func(a, b staffDay) int { return cmp.Compare(a.key(), b.key()) })
	days = slices.Compact(days)

	for _, d := range days {
		if err := s.tx.LockStaffDay(ctx, d.staffID, d.date); err != nil {
			return err
		}
	}
	return nil
}

// DeleteBooking удаляет запись (административное действие)
func (s *BookingService) DeleteBooking(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var deleted *model.Booking
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		b, err := s.bookings.GetByIDForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("get booking: %w", err)
		}
		if b == nil {
			return fmt.Errorf("%w: booking %s", scheduling.ErrNotFound, id)
		}

		ok, err := s.bookings.Delete(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: booking %s", scheduling.ErrNotFound, id)
		}

		deleted = b
		return nil
	})
	if err != nil {
		s.logRejected("Booking delete failed", err, zap.String("booking_id", id.String()))
		return err
	}

	s.logger.Info("Booking deleted",
		zap.String("booking_id", id.String()),
		zap.String("staff_id", deleted.StaffID.String()),
		zap.Time("start_at", deleted.StartAt))

	s.afterCommit(ctx, events.NewBookingEvent(events.BookingDeleted, deleted, s.now()), s.dayOf(deleted))

	return nil
}

// GetBooking возвращает запись по ID
func (s *BookingService) GetBooking(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if b == nil {
		return nil, fmt.Errorf("%w: booking %s", scheduling.ErrNotFound, id)
	}
	return b, nil
}

// ListStaffDay возвращает рабочие окна, записи и свободные слоты мастера на дату
func (s *BookingService) ListStaffDay(ctx context.Context, staffID uuid.UUID, date model.Date) (*DayAgenda, error) {
	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", scheduling.ErrInvalidInput)
	}

	staff, err := s.requireStaff(ctx, staffID)
	if err != nil {
		return nil, err
	}

	windows, err := s.windowsOn(ctx, staffID, date)
	if err != nil {
		return nil, err
	}

	from, to := date.Bounds(s.loc)
	bookings, err := s.bookings.GetByStaffBetween(ctx, staffID, from, to)
	if err != nil {
		return nil, fmt.Errorf("get bookings: %w", err)
	}

	return &DayAgenda{
		Staff:     staff,
		Date:      date,
		Windows:   windows,
		Bookings:  bookings,
		FreeSlots: scheduling.FreeSlots(windows, bookings, s.granularity, s.granularity),
	}, nil
}

func (s *BookingService) evaluate(ctx context.Context, staffID uuid.UUID, date model.Date, start time.Time, durationMinutes int, exclude uuid.UUID) (model.Slot, error) {
	windows, err := s.windowsOn(ctx, staffID, date)
	if err != nil {
		return model.Slot{}, err
	}

	existing, err := s.activeOn(ctx, staffID, date)
	if err != nil {
		return model.Slot{}, err
	}

	slot, err := scheduling.Evaluate(scheduling.Request{
		Start:              start.In(s.loc),
		DurationMinutes:    durationMinutes,
		GranularityMinutes: s.granularity,
		ExcludeBookingID:   exclude,
	}, windows, existing)

	if errors.Is(err, scheduling.ErrNoWorkday) {
		return model.Slot{}, fmt.Errorf("%w: staff %s on %s (%s)", err, staffID, date, date.Weekday())
	}
	return slot, err
}

func (s *BookingService) windowsOn(ctx context.Context, staffID uuid.UUID, date model.Date) ([]scheduling.Window, error) {
	ww, err := s.hours.GetWorkingWindows(ctx, staffID, date.Weekday())
	if err != nil {
		return nil, fmt.Errorf("get working hours: %w", err)
	}
	return scheduling.WindowsOn(date, s.loc, ww), nil
}

func (s *BookingService) activeOn(ctx context.Context, staffID uuid.UUID, date model.Date) ([]*model.Booking, error) {
	from, to := date.Bounds(s.loc)
	existing, err := s.bookings.GetActiveBookings(ctx, staffID, from, to)
	if err != nil {
		return nil, fmt.Errorf("get active bookings: %w", err)
	}
	return existing, nil
}

func (s *BookingService) requireStaff(ctx context.Context, id uuid.UUID) (*model.Staff, error) {
	staff, err := s.staff.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get staff: %w", err)
	}
	if staff == nil {
		return nil, fmt.Errorf("%w: staff %s", scheduling.ErrNotFound, id)
	}
	return staff, nil
}

func (s *BookingService) requireService(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	svc, err := s.services.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get service: %w", err)
	}
	if svc == nil {
		return nil, fmt.Errorf("%w: service %s", scheduling.ErrNotFound, id)
	}
	if svc.DurationMinutes <= 0 {
		return nil, fmt.Errorf("%w: service %s has duration %d", scheduling.ErrInvalidInput, id, svc.DurationMinutes)
	}
	return svc, nil
}

// activeStaff отклоняет неактивного мастера: его время не предлагается и не бронируется
func activeStaff(staff *model.Staff) error {
	if !staff.IsActive {
		return fmt.Errorf("%w: staff %s is not active", scheduling.ErrInvalidInput, staff.ID)
	}
	return nil
}

// activeService отклоняет снятую с продажи услугу
func activeService(svc *model.Service) error {
	if !svc.IsActive {
		return fmt.Errorf("%w: service %s is not active", scheduling.ErrInvalidInput, svc.ID)
	}
	return nil
}

func (s *BookingService) requireClient(ctx context.Context, id uuid.UUID) error {
	client, err := s.clients.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get client: %w", err)
	}
	if client == nil {
		return fmt.Errorf("%w: client %s", scheduling.ErrNotFound, id)
	}
	return nil
}

// retryOnConflict повторяет fn один раз, если она проиграла гонку при фиксации
func (s *BookingService) retryOnConflict(ctx context.Context, fn func(ctx context.Context) error) error {
	attempt := 0
	backoff := retry.WithMaxRetries(1, retry.NewConstant(conflictRetryDelay))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := fn(ctx)
		if errors.Is(err, scheduling.ErrConflictOnCommit) {
			s.logger.Warn("Conflict on commit",
				zap.Int("attempt", attempt),
				zap.Error(err))
			return retry.RetryableError(err)
		}
		return err
	})
}

func (s *BookingService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// afterCommit сбрасывает кэш дней и публикует событие. Ошибки только логируются:
// изменение уже зафиксировано.
func (s *BookingService) afterCommit(ctx context.Context, e events.Event, days ...staffDay) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), afterCommitTimeout)
	defer cancel()

	if s.cache != nil {
		for _, d := range slices.Compact(days) {
			if err := s.cache.Invalidate(ctx, d.staffID, d.date); err != nil {
				s.logger.Error("Failed to invalidate availability cache",
					zap.String("staff_id", d.staffID.String()),
					zap.String("date", d.date.String()),
					zap.Error(err))
			}
		}
	}

	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.Error("Failed to publish booking event",
			zap.String("type", string(e.Type)),
			zap.String("booking_id", e.BookingID.String()),
			zap.Error(err))
	}
}

func (s *BookingService) logRejected(msg string, err error, fields ...zap.Field) {
	outcome := scheduling.Outcome(err)
	fields = append(fields, zap.String("outcome", outcome), zap.Error(err))

	if outcome == "error" || outcome == "lock_timeout" {
		s.logger.Error(msg, fields...)
		return
	}
	s.logger.Warn(msg, fields...)
}
