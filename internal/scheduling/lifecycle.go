package scheduling

import (
	"fmt"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var transitions = map[model.BookingStatus][]model.BookingStatus{
	model.BookingStatusScheduled: {
		model.BookingStatusConfirmed,
		model.BookingStatusCancelled,
		model.BookingStatusNoShow,
		model.BookingStatusCompleted,
	},
	model.BookingStatusConfirmed: {
		model.BookingStatusCompleted,
		model.BookingStatusCancelled,
		model.BookingStatusNoShow,
	},
}

// CanTransition сообщает, допустим ли переход from -> to
func CanTransition(from, to model.BookingStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CheckTransition возвращает ErrInvalidTransition с пояснением
func CheckTransition(from, to model.BookingStatus) error {
	if CanTransition(from, to) {
		return nil
	}
	if from.Terminal() {
		return fmt.Errorf("%w: booking is already %s", ErrInvalidTransition, from)
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

// VisitEffect - изменение статистики клиента при завершении визита
type VisitEffect struct {
	ClientID  uuid.UUID
	LastVisit time.Time
	Amount    decimal.Decimal
}

// CompletionEffect возвращает эффект перехода в completed. Эффект есть только
// когда статус действительно меняется на completed. Сумма: переданная оплата,
// иначе ранее сохранённая, иначе ноль.
func CompletionEffect(prev, next model.BookingStatus, b *model.Booking, supplied decimal.NullDecimal) (VisitEffect, bool) {
	if next != model.BookingStatusCompleted || prev == model.BookingStatusCompleted {
		return VisitEffect{}, false
	}

	amount := decimal.Zero
	switch {
	case supplied.Valid:
		amount = supplied.Decimal
	case b.PaidAmount.Valid:
		amount = b.PaidAmount.Decimal
	}

	return VisitEffect{
		ClientID:  b.ClientID,
		LastVisit: b.StartAt,
		Amount:    amount,
	}, true
}
