package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/model"
	"github.com/Freeeeeet/salon_scheduler/internal/repository/base"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ClientRepository struct {
	db *base.Repository
}

func NewClientRepository(db *base.Repository) *ClientRepository {
	return &ClientRepository{db: db}
}

// Create добавляет клиента
func (r *ClientRepository) Create(ctx context.Context, c *model.Client) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}

	query := `INSERT INTO clients (id, name) VALUES ($1, $2)`

	if _, err := r.db.ExecAffected(ctx, query, c.ID, c.Name); err != nil {
		return fmt.Errorf("create client: %w", err)
	}

	return nil
}

// GetByID получает клиента по ID
func (r *ClientRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	query := `
		SELECT id, name, last_visit, total_spent, visit_count
		FROM clients
		WHERE id = $1
	`

	var c model.Client
	err := r.db.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.LastVisit, &c.TotalSpent, &c.VisitCount)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client by id: %w", err)
	}

	return &c, nil
}

// RecordVisit учитывает завершённый визит одним атомарным обновлением
func (r *ClientRepository) RecordVisit(ctx context.Context, clientID uuid.UUID, lastVisit time.Time, amount decimal.Decimal) error {
	query := `
		UPDATE clients
		SET last_visit = $2,
		    total_spent = total_spent + $3,
		    visit_count = visit_count + 1
		WHERE id = $1
	`

	affected, err := r.db.ExecAffected(ctx, query, clientID, lastVisit, amount)
	if err != nil {
		return translate("record client visit", err)
	}
	if affected == 0 {
		return fmt.Errorf("client %s not found", clientID)
	}

	return nil
}
