package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/cache"
	"github.com/Freeeeeet/salon_scheduler/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Репозитории возвращают nil, nil, если строки нет

// WorkingHoursProvider отдаёт рабочие окна мастера на день недели
type WorkingHoursProvider interface {
	GetWorkingWindows(ctx context.Context, staffID uuid.UUID, weekday model.Weekday) ([]model.WorkingWindow, error)
}

// BookingStore хранит записи. Insert и Update возвращают
// scheduling.ErrConflictOnCommit при пересечении с активной записью мастера.
type BookingStore interface {
	Insert(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	GetActiveBookings(ctx context.Context, staffID uuid.UUID, from, to time.Time) ([]*model.Booking, error)
	GetByStaffBetween(ctx context.Context, staffID uuid.UUID, from, to time.Time) ([]*model.Booking, error)
	GetOverdue(ctx context.Context, before time.Time, limit int) ([]*model.Booking, error)
	Update(ctx context.Context, b *model.Booking) error
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.BookingStatus, paidAmount decimal.NullDecimal) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// ServiceCatalog отдаёт услуги салона
type ServiceCatalog interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Service, error)
}

// ClientStatistics - клиенты и их статистика визитов
type ClientStatistics interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Client, error)
	RecordVisit(ctx context.Context, clientID uuid.UUID, lastVisit time.Time, amount decimal.Decimal) error
}

// StaffDirectory отдаёт мастеров
type StaffDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Staff, error)
}

// Transactor выполняет fn в одной транзакции. LockStaffDay внутри транзакции
// сериализует все изменения дня мастера до commit/rollback.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
	LockStaffDay(ctx context.Context, staffID uuid.UUID, date model.Date) error
}

// AvailabilityCache кэширует свободные слоты дня
type AvailabilityCache interface {
	Get(ctx context.Context, key cache.Key) (cache.Snapshot, error)
	Set(ctx context.Context, key cache.Key, version int64, slots []model.Slot) error
	Invalidate(ctx context.Context, staffID uuid.UUID, date model.Date) error
}
