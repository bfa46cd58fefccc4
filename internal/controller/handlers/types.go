package handlers

import (
	"context"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/model"
	"github.com/Freeeeeet/salon_scheduler/internal/service"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookingEngine - операции записи, доступные из бота
type BookingEngine interface {
	ComputeAvailability(ctx context.Context, staffID, serviceID uuid.UUID, date model.Date) (*service.Availability, error)
	CreateBooking(ctx context.Context, req service.BookingRequest) (*model.Booking, error)
	UpdateBooking(ctx context.Context, id uuid.UUID, changes service.BookingChanges) (*model.Booking, error)
	Transition(ctx context.Context, req service.TransitionRequest) (*model.Booking, error)
	DeleteBooking(ctx context.Context, id uuid.UUID) error
	GetBooking(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	ListStaffDay(ctx context.Context, staffID uuid.UUID, date model.Date) (*service.DayAgenda, error)
}

// Reply - ответ на команду: текст или картинка с подписью
type Reply struct {
	Text      string
	Photo     []byte
	PhotoName string
}

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	engine  BookingEngine
	loc     *time.Location
	isAdmin func(userID int64) bool
	logger  *zap.Logger
}

// NewHandlers создаёт новый обработчик команд.
// isAdmin == nil закрывает команды для всех.
func NewHandlers(engine BookingEngine, loc *time.Location, isAdmin func(int64) bool, logger *zap.Logger) *Handlers {
	if loc == nil {
		loc = time.UTC
	}
	return &Handlers{
		engine:  engine,
		loc:     loc,
		isAdmin: isAdmin,
		logger:  logger,
	}
}
