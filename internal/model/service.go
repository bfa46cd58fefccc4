package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service - услуга салона, для движка расписания только для чтения
type Service struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	DurationMinutes int             `json:"duration_minutes"`
	Price           decimal.Decimal `json:"price"`
	IsActive        bool            `json:"is_active"`
}
