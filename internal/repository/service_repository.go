package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/salon_scheduler/internal/model"
	"github.com/Freeeeeet/salon_scheduler/internal/repository/base"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ServiceRepository - каталог услуг салона
type ServiceRepository struct {
	db     *base.Repository
	logger *zap.Logger
}

func NewServiceRepository(db *base.Repository, logger *zap.Logger) *ServiceRepository {
	return &ServiceRepository{
		db:     db,
		logger: logger,
	}
}

// Create создаёт новую услугу
func (r *ServiceRepository) Create(ctx context.Context, s *model.Service) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}

	query := `
		INSERT INTO services (id, name, duration_minutes, price, is_active)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecAffected(ctx, query, s.ID, s.Name, s.DurationMinutes, s.Price, s.IsActive)
	if err != nil {
		r.logger.Error("Failed to insert service",
			zap.String("name", s.Name),
			zap.Error(err))
		return fmt.Errorf("create service: %w", err)
	}

	r.logger.Info("Service created",
		zap.String("service_id", s.ID.String()),
		zap.String("name", s.Name),
		zap.Int("duration_minutes", s.DurationMinutes))

	return nil
}

// GetByID получает услугу по ID
func (r *ServiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	query := `
		SELECT id, name, duration_minutes, price, is_active
		FROM services
		WHERE id = $1
	`

	var s model.Service
	err := r.db.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.Name,
		&s.DurationMinutes,
		&s.Price,
		&s.IsActive,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get service by id: %w", err)
	}

	return &s, nil
}

// GetActive получает активные услуги
func (r *ServiceRepository) GetActive(ctx context.Context) ([]*model.Service, error) {
	query := `
		SELECT id, name, duration_minutes, price, is_active
		FROM services
		WHERE is_active = TRUE
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get active services: %w", err)
	}
	defer rows.Close()

	var services []*model.Service
	for rows.Next() {
		var s model.Service
		if err := rows.Scan(&s.ID, &s.Name, &s.DurationMinutes, &s.Price, &s.IsActive); err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		services = append(services, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate services: %w", err)
	}

	return services, nil
}
