package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/events"
	"github.com/Freeeeeet/salon_scheduler/internal/model"
	"github.com/Freeeeeet/salon_scheduler/internal/scheduling"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const sweepBatchSize = 100

// TransitionRequest - смена статуса записи. PaidAmount, если задана,
// сохраняется и учитывается при завершении визита.
type TransitionRequest struct {
	BookingID  uuid.UUID
	Status     model.BookingStatus
	PaidAmount decimal.NullDecimal
}

// Transition меняет статус записи. Переход в completed один раз обновляет
// статистику клиента в той же транзакции.
func (s *BookingService) Transition(ctx context.Context, req TransitionRequest) (*model.Booking, error) {
	fields := []zap.Field{
		zap.String("booking_id", req.BookingID.String()),
		zap.String("status", string(req.Status)),
	}

	if err := req.validate(); err != nil {
		s.logRejected("Status change rejected", err, fields...)
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var (
		booking *model.Booking
		prev    model.BookingStatus
	)
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		b, err := s.bookings.GetByIDForUpdate(ctx, req.BookingID)
		if err != nil {
			return fmt.Errorf("get booking: %w", err)
		}
		if b == nil {
			return fmt.Errorf("%w: booking %s", scheduling.ErrNotFound, req.BookingID)
		}

		prev = b.Status
		if err := s.applyTransition(ctx, b, req.Status, req.PaidAmount); err != nil {
			return err
		}

		booking = b
		return nil
	})
	if err != nil {
		s.logRejected("Status change rejected", err, fields...)
		return nil, err
	}

	s.logger.Info("Booking status changed",
		append(fields, zap.String("previous_status", string(prev)))...)

	e := events.NewBookingEvent(events.BookingStatusChanged, booking, s.now())
	e.PreviousStatus = prev
	s.afterCommit(ctx, e, s.dayOf(booking))

	return booking, nil
}

func (r TransitionRequest) validate() error {
	if r.BookingID == uuid.Nil {
		return fmt.Errorf("%w: booking id is required", scheduling.ErrInvalidInput)
	}
	if _, ok := model.ParseBookingStatus(string(r.Status)); !ok {
		return fmt.Errorf("%w: unknown status %q", scheduling.ErrInvalidInput, r.Status)
	}
	if r.PaidAmount.Valid && r.PaidAmount.Decimal.IsNegative() {
		return fmt.Errorf("%w: paid amount is negative", scheduling.ErrInvalidInput)
	}
	return nil
}

// applyTransition выполняется внутри транзакции над строкой, прочитанной FOR UPDATE
func (s *BookingService) applyTransition(ctx context.Context, b *model.Booking, next model.BookingStatus, paid decimal.NullDecimal) error {
	prev := b.Status
	if err := scheduling.CheckTransition(prev, next); err != nil {
		return fmt.Errorf("booking %s: %w", b.ID, err)
	}

	ok, err := s.bookings.UpdateStatus(ctx, b.ID, prev, next, paid)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: booking %s is no longer %s", scheduling.ErrInvalidTransition, b.ID, prev)
	}

	if effect, fire := scheduling.CompletionEffect(prev, next, b, paid); fire {
		if err := s.clients.RecordVisit(ctx, effect.ClientID, effect.LastVisit, effect.Amount); err != nil {
			return fmt.Errorf("record visit: %w", err)
		}
		s.logger.Info("Client visit recorded",
			zap.String("client_id", effect.ClientID.String()),
			zap.String("booking_id", b.ID.String()),
			zap.String("amount", effect.Amount.StringFixed(2)))
	}

	b.Status = next
	if paid.Valid {
		b.PaidAmount = paid
		b.Paid = true
	}
	return nil
}

// SweepNoShows помечает no_show записи, которые закончились больше
// NoShowAfter назад и так и не были закрыты. Возвращает число помеченных.
func (s *BookingService) SweepNoShows(ctx context.Context, now time.Time) (int, error) {
	if s.noShowAfter <= 0 {
		return 0, nil
	}

	overdue, err := s.bookings.GetOverdue(ctx, now.Add(-s.noShowAfter), sweepBatchSize)
	if err != nil {
		return 0, fmt.Errorf("get overdue bookings: %w", err)
	}

	marked := 0
	for _, b := range overdue {
		_, err := s.Transition(ctx, TransitionRequest{BookingID: b.ID, Status: model.BookingStatusNoShow})
		switch {
		case err == nil:
			marked++
		case errors.Is(err, scheduling.ErrInvalidTransition), errors.Is(err, scheduling.ErrNotFound):
			// закрыта или удалена после выборки
		default:
			return marked, fmt.Errorf("mark booking %s as no-show: %w", b.ID, err)
		}
	}

	if marked > 0 {
		s.logger.Info("No-show sweep finished", zap.Int("marked", marked))
	}
	return marked, nil
}
