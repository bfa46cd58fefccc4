package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/model"
	"github.com/Freeeeeet/salon_scheduler/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const bookingColumns = `id, staff_id, service_id, client_id, start_at, duration_minutes, status,
	paid, paid_amount, notes, package_subscription_id, created_at, updated_at`

type BookingRepository struct {
	db *base.Repository
}

func NewBookingRepository(db *base.Repository) *BookingRepository {
	return &BookingRepository{db: db}
}

func scanBooking(row pgx.Row) (*model.Booking, error) {
	var b model.Booking
	err := row.Scan(
		&b.ID,
		&b.StaffID,
		&b.ServiceID,
		&b.ClientID,
		&b.StartAt,
		&b.DurationMinutes,
		&b.Status,
		&b.Paid,
		&b.PaidAmount,
		&b.Notes,
		&b.PackageSubscriptionID,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func collectBookings(rows pgx.Rows) ([]*model.Booking, error) {
	defer rows.Close()

	var bookings []*model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}

	return bookings, nil
}

// Insert создаёт запись. Пересечение с активной записью мастера
// возвращается как scheduling.ErrConflictOnCommit.
func (r *BookingRepository) Insert(ctx context.Context, b *model.Booking) error {
	query := `
		INSERT INTO bookings (id, staff_id, service_id, client_id, start_at, end_at, duration_minutes,
			status, paid, paid_amount, notes, package_subscription_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		b.ID,
		b.StaffID,
		b.ServiceID,
		b.ClientID,
		b.StartAt,
		b.EndAt(),
		b.DurationMinutes,
		b.Status,
		b.Paid,
		b.PaidAmount,
		b.Notes,
		b.PackageSubscriptionID,
	).Scan(&b.CreatedAt, &b.UpdatedAt)

	if err != nil {
		return translate("insert booking", err)
	}

	return nil
}

// GetByID получает запись по ID
func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	b, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by id: %w", err)
	}

	return b, nil
}

// GetByIDForUpdate получает запись и блокирует строку до конца транзакции
func (r *BookingRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 FOR UPDATE`

	b, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, translate("lock booking", err)
	}

	return b, nil
}

// GetActiveBookings получает записи мастера, занимающие время в [from, to).
// Отменённые записи и неявки не возвращаются.
func (r *BookingRepository) GetActiveBookings(ctx context.Context, staffID uuid.UUID, from, to time.Time) ([]*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE staff_id = $1
		  AND status NOT IN ('cancelled', 'no_show')
		  AND start_at < $3
		  AND end_at > $2
		ORDER BY start_at
	`

	rows, err := r.db.Query(ctx, query, staffID, from, to)
	if err != nil {
		return nil, fmt.Errorf("get active bookings: %w", err)
	}

	return collectBookings(rows)
}

// GetByStaffBetween получает все записи мастера в [from, to) с любым статусом
func (r *BookingRepository) GetByStaffBetween(ctx context.Context, staffID uuid.UUID, from, to time.Time) ([]*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE staff_id = $1
		  AND start_at < $3
		  AND end_at > $2
		ORDER BY start_at
	`

	rows, err := r.db.Query(ctx, query, staffID, from, to)
	if err != nil {
		return nil, fmt.Errorf("get bookings by staff: %w", err)
	}

	return collectBookings(rows)
}

// GetOverdue получает незакрытые записи, закончившиеся до before
func (r *BookingRepository) GetOverdue(ctx context.Context, before time.Time, limit int) ([]*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE status IN ('scheduled', 'confirmed')
		  AND end_at < $1
		ORDER BY end_at
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, before, limit)
	if err != nil {
		return nil, fmt.Errorf("get overdue bookings: %w", err)
	}

	return collectBookings(rows)
}

// Update сохраняет изменяемые поля записи
func (r *BookingRepository) Update(ctx context.Context, b *model.Booking) error {
	query := `
		UPDATE bookings
		SET staff_id = $2,
		    service_id = $3,
		    start_at = $4,
		    end_at = $5,
		    duration_minutes = $6,
		    status = $7,
		    paid = $8,
		    paid_amount = $9,
		    notes = $10,
		    package_subscription_id = $11,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		b.ID,
		b.StaffID,
		b.ServiceID,
		b.StartAt,
		b.EndAt(),
		b.DurationMinutes,
		b.Status,
		b.Paid,
		b.PaidAmount,
		b.Notes,
		b.PackageSubscriptionID,
	).Scan(&b.UpdatedAt)

	if err != nil {
		if base.IsNotFound(err) {
			return fmt.Errorf("booking %s not found", b.ID)
		}
		return translate("update booking", err)
	}

	return nil
}

// UpdateStatus меняет статус, только если текущий статус равен from.
// Переданная сумма оплаты сохраняется вместе со статусом.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.BookingStatus, paidAmount decimal.NullDecimal) (bool, error) {
	query := `
		UPDATE bookings
		SET status = $3,
		    paid_amount = COALESCE($4::numeric, paid_amount),
		    paid = paid OR $4::numeric IS NOT NULL,
		    updated_at = NOW()
		WHERE id = $1 AND status = $2
	`

	affected, err := r.db.ExecAffected(ctx, query, id, from, to, paidAmount)
	if err != nil {
		return false, translate("update booking status", err)
	}

	return affected == 1, nil
}

// Delete удаляет запись
func (r *BookingRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	affected, err := r.db.ExecAffected(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete booking: %w", err)
	}

	return affected == 1, nil
}
