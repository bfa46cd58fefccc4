package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/salon_scheduler/internal/model"
	"github.com/Freeeeeet/salon_scheduler/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const microsPerMinute = int64(60 * 1_000_000)

// WorkingHoursRepository хранит регулярные рабочие окна мастеров
type WorkingHoursRepository struct {
	db *base.Repository
}

func NewWorkingHoursRepository(db *base.Repository) *WorkingHoursRepository {
	return &WorkingHoursRepository{db: db}
}

func toPgTime(t model.TimeOfDay) pgtype.Time {
	return pgtype.Time{Microseconds: int64(t) * microsPerMinute, Valid: true}
}

func fromPgTime(t pgtype.Time) model.TimeOfDay {
	return model.TimeOfDay(t.Microseconds / microsPerMinute)
}

// Create добавляет рабочее окно
func (r *WorkingHoursRepository) Create(ctx context.Context, w *model.WorkingWindow) error {
	if err := w.Validate(); err != nil {
		return fmt.Errorf("create working window: %w", err)
	}
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}

	query := `
		INSERT INTO working_hours (id, staff_id, weekday, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecAffected(ctx, query, w.ID, w.StaffID, int(w.Weekday), toPgTime(w.Start), toPgTime(w.End))
	if err != nil {
		return fmt.Errorf("create working window: %w", err)
	}

	return nil
}

// GetWorkingWindows получает окна мастера на день недели, по возрастанию начала
func (r *WorkingHoursRepository) GetWorkingWindows(ctx context.Context, staffID uuid.UUID, weekday model.Weekday) ([]model.WorkingWindow, error) {
	query := `
		SELECT id, staff_id, weekday, start_time, end_time
		FROM working_hours
		WHERE staff_id = $1 AND weekday = $2
		ORDER BY start_time
	`

	rows, err := r.db.Query(ctx, query, staffID, int(weekday))
	if err != nil {
		return nil, fmt.Errorf("get working windows: %w", err)
	}
	defer rows.Close()

	var windows []model.WorkingWindow
	for rows.Next() {
		var (
			w          model.WorkingWindow
			day        int16
			start, end pgtype.Time
		)
		if err := rows.Scan(&w.ID, &w.StaffID, &day, &start, &end); err != nil {
			return nil, fmt.Errorf("scan working window: %w", err)
		}
		w.Weekday = model.Weekday(day)
		w.Start = fromPgTime(start)
		w.End = fromPgTime(end)
		windows = append(windows, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate working windows: %w", err)
	}

	return windows, nil
}

// DeleteByStaff удаляет все окна мастера
func (r *WorkingHoursRepository) DeleteByStaff(ctx context.Context, staffID uuid.UUID) error {
	if _, err := r.db.ExecAffected(ctx, `DELETE FROM working_hours WHERE staff_id = $1`, staffID); err != nil {
		return fmt.Errorf("delete working windows: %w", err)
	}
	return nil
}
