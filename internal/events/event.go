package events

import (
	"context"
	"errors"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/model"
	"github.com/google/uuid"
)

// Type - тип события записи
type Type string

const (
	BookingCreated       Type = "booking.created"
	BookingRescheduled   Type = "booking.rescheduled"
	BookingUpdated       Type = "booking.updated"
	BookingStatusChanged Type = "booking.status_changed"
	BookingDeleted       Type = "booking.deleted"
)

// Event публикуется после фиксации изменения записи
type Event struct {
	ID              uuid.UUID           `json:"id"`
	Type            Type                `json:"type"`
	BookingID       uuid.UUID           `json:"booking_id"`
	StaffID         uuid.UUID           `json:"staff_id"`
	ServiceID       uuid.UUID           `json:"service_id"`
	ClientID        uuid.UUID           `json:"client_id"`
	StartAt         time.Time           `json:"start_at"`
	EndAt           time.Time           `json:"end_at"`
	Status          model.BookingStatus `json:"status"`
	PreviousStatus  model.BookingStatus `json:"previous_status,omitempty"`
	PreviousStartAt *time.Time          `json:"previous_start_at,omitempty"`
	PreviousStaffID *uuid.UUID          `json:"previous_staff_id,omitempty"`
	OccurredAt      time.Time           `json:"occurred_at"`
}

// NewBookingEvent собирает событие из состояния записи
func NewBookingEvent(t Type, b *model.Booking, occurredAt time.Time) Event {
	return Event{
		ID:         uuid.New(),
		Type:       t,
		BookingID:  b.ID,
		StaffID:    b.StaffID,
		ServiceID:  b.ServiceID,
		ClientID:   b.ClientID,
		StartAt:    b.StartAt,
		EndAt:      b.EndAt(),
		Status:     b.Status,
		OccurredAt: occurredAt.UTC(),
	}
}

// Publisher доставляет события. Ошибка доставки не отменяет уже
// зафиксированное изменение.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop отбрасывает события
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Fanout публикует событие во все получатели и собирает ошибки
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
