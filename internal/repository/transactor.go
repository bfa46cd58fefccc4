package repository

import (
	"context"

	"github.com/Freeeeeet/salon_scheduler/internal/model"
	"github.com/Freeeeeet/salon_scheduler/internal/repository/base"
	"github.com/google/uuid"
)

// Transactor открывает транзакции и сериализует изменения одного дня мастера
type Transactor struct {
	db *base.Repository
}

func NewTransactor(db *base.Repository) *Transactor {
	return &Transactor{db: db}
}

// InTx выполняет fn в транзакции
func (t *Transactor) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.db.InTx(ctx, fn)
}

// LockStaffDay блокирует день мастера до конца текущей транзакции
func (t *Transactor) LockStaffDay(ctx context.Context, staffID uuid.UUID, date model.Date) error {
	if err := t.db.AdvisoryXactLock(ctx, StaffDayLockKey(staffID, date)); err != nil {
		return translate("lock staff day", err)
	}
	return nil
}

// StaffDayLockKey - ключ advisory-блокировки дня мастера
func StaffDayLockKey(staffID uuid.UUID, date model.Date) string {
	return staffID.String() + "/" + date.String()
}
