package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusScheduled BookingStatus = "scheduled" // Создана, ожидает визита
	BookingStatusConfirmed BookingStatus = "confirmed" // Подтверждена клиентом
	BookingStatusCompleted BookingStatus = "completed" // Визит состоялся
	BookingStatusCancelled BookingStatus = "cancelled" // Отменена
	BookingStatusNoShow    BookingStatus = "no_show"   // Клиент не пришёл
)

// ParseBookingStatus разбирает статус из строки
func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch st := BookingStatus(s); st {
	case BookingStatusScheduled, BookingStatusConfirmed, BookingStatusCompleted,
		BookingStatusCancelled, BookingStatusNoShow:
		return st, true
	}
	return "", false
}

// Occupies сообщает, занимает ли запись время мастера
func (s BookingStatus) Occupies() bool {
	return s != BookingStatusCancelled && s != BookingStatusNoShow
}

// Terminal сообщает, что из статуса нет переходов
func (s BookingStatus) Terminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled || s == BookingStatusNoShow
}

type Booking struct {
	ID                    uuid.UUID           `json:"id"`
	StaffID               uuid.UUID           `json:"staff_id"`
	ServiceID             uuid.UUID           `json:"service_id"`
	ClientID              uuid.UUID           `json:"client_id"`
	StartAt               time.Time           `json:"start_at"`
	DurationMinutes       int                 `json:"duration_minutes"` // снимок длительности услуги на момент записи
	Status                BookingStatus       `json:"status"`
	Paid                  bool                `json:"paid"`
	PaidAmount            decimal.NullDecimal `json:"paid_amount"`
	Notes                 string              `json:"notes"`
	PackageSubscriptionID *uuid.UUID          `json:"package_subscription_id"`
	CreatedAt             time.Time           `json:"created_at"`
	UpdatedAt             time.Time           `json:"updated_at"`
}

// EndAt возвращает момент окончания записи
func (b *Booking) EndAt() time.Time {
	return b.StartAt.Add(time.Duration(b.DurationMinutes) * time.Minute)
}
