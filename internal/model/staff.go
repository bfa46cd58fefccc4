package model

import "github.com/google/uuid"

type Staff struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	TelegramChatID *int64    `json:"telegram_chat_id"` // куда слать уведомления, может быть nil
	IsActive       bool      `json:"is_active"`
}
