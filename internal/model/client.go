package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Client содержит только статистику визитов, остальные поля движку не нужны
type Client struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	LastVisit  *time.Time      `json:"last_visit"`
	TotalSpent decimal.Decimal `json:"total_spent"`
	VisitCount int             `json:"visit_count"`
}
