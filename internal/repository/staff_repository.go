package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/salon_scheduler/internal/model"
	"github.com/Freeeeeet/salon_scheduler/internal/repository/base"
	"github.com/google/uuid"
)

type StaffRepository struct {
	db *base.Repository
}

func NewStaffRepository(db *base.Repository) *StaffRepository {
	return &StaffRepository{db: db}
}

// Create добавляет мастера
func (r *StaffRepository) Create(ctx context.Context, s *model.Staff) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}

	query := `
		INSERT INTO staff (id, name, telegram_chat_id, is_active)
		VALUES ($1, $2, $3, $4)
	`

	if _, err := r.db.ExecAffected(ctx, query, s.ID, s.Name, s.TelegramChatID, s.IsActive); err != nil {
		return fmt.Errorf("create staff: %w", err)
	}

	return nil
}

// GetByID получает мастера по ID
func (r *StaffRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Staff, error) {
	query := `
		SELECT id, name, telegram_chat_id, is_active
		FROM staff
		WHERE id = $1
	`

	var s model.Staff
	err := r.db.QueryRow(ctx, query, id).Scan(&s.ID, &s.Name, &s.TelegramChatID, &s.IsActive)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get staff by id: %w", err)
	}

	return &s, nil
}
