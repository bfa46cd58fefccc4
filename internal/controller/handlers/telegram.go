package handlers

import (
	"bytes"
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleCommand - обработчик текстовых команд для go-telegram/bot
func (h *Handlers) HandleCommand(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}
	chatID := update.Message.Chat.ID

	if !h.allowed(update) {
		h.sendMessage(ctx, b, chatID, "❌ Эта команда доступна только администраторам салона.")
		return
	}

	reply := h.Execute(ctx, update.Message.Text)
	switch {
	case reply.Photo != nil:
		h.sendPhoto(ctx, b, chatID, reply)
	case reply.Text != "":
		h.sendMessage(ctx, b, chatID, reply.Text)
	}
}

// allowed проверяет, что отправитель есть в списке администраторов.
// Без списка команды закрыты для всех.
func (h *Handlers) allowed(update *models.Update) bool {
	if h.isAdmin == nil || update.Message.From == nil {
		return false
	}
	return h.isAdmin(update.Message.From.ID)
}

// sendMessage отправляет сообщение и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

// sendPhoto отправляет картинку с подписью
func (h *Handlers) sendPhoto(ctx context.Context, b *bot.Bot, chatID int64, reply Reply) {
	_, err := b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:  chatID,
		Photo:   &models.InputFileUpload{Filename: reply.PhotoName, Data: bytes.NewReader(reply.Photo)},
		Caption: reply.Text,
	})
	if err != nil {
		h.logger.Error("Failed to send photo",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}
