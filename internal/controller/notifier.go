package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/controller/formatting"
	"github.com/Freeeeeet/salon_scheduler/internal/events"
	"github.com/Freeeeeet/salon_scheduler/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MessageSender - часть *bot.Bot, нужная для уведомлений
type MessageSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// StaffLookup находит мастера, которому адресовано уведомление
type StaffLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Staff, error)
}

// Notifier отправляет мастеру сообщение о событиях его записей
type Notifier struct {
	sender MessageSender
	staff  StaffLookup
	loc    *time.Location
	logger *zap.Logger
}

var _ events.Publisher = (*Notifier)(nil)

func NewNotifier(sender MessageSender, staff StaffLookup, loc *time.Location, logger *zap.Logger) *Notifier {
	if loc == nil {
		loc = time.UTC
	}
	return &Notifier{
		sender: sender,
		staff:  staff,
		loc:    loc,
		logger: logger,
	}
}

// Publish отправляет уведомление, если у мастера указан чат. При переносе к
// другому мастеру предыдущий тоже получает сообщение.
func (n *Notifier) Publish(ctx context.Context, e events.Event) error {
	err := n.notify(ctx, e.StaffID, e.Type, formatting.FormatEvent(e, n.loc))
	if e.PreviousStaffID != nil && *e.PreviousStaffID != e.StaffID {
		err = errors.Join(err, n.notify(ctx, *e.PreviousStaffID, e.Type, formatting.FormatHandover(e, n.loc)))
	}
	return err
}

func (n *Notifier) notify(ctx context.Context, staffID uuid.UUID, eventType events.Type, text string) error {
	staff, err := n.staff.GetByID(ctx, staffID)
	if err != nil {
		return fmt.Errorf("get staff for notification: %w", err)
	}
	if staff == nil || staff.TelegramChatID == nil {
		n.logger.Debug("Staff has no telegram chat, skipping notification",
			zap.String("staff_id", staffID.String()),
			zap.String("event", string(eventType)))
		return nil
	}

	_, err = n.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: *staff.TelegramChatID,
		Text:   text,
	})
	if err != nil {
		return fmt.Errorf("send notification to staff %s: %w", staffID, err)
	}
	return nil
}
