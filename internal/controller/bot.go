package controller

import (
	"context"

	"github.com/Freeeeeet/salon_scheduler/internal/controller/handlers"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type BotController struct {
	bot      *bot.Bot
	handlers *handlers.Handlers
	logger   *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	cmdHandlers *handlers.Handlers,
	logger *zap.Logger,
) *BotController {
	return &BotController{
		bot:      botInstance,
		handlers: cmdHandlers,
		logger:   logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	// Все команды разбирает один роутер
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/", bot.MatchTypePrefix, c.handlers.HandleCommand)

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "help", Description: "❓ Справка по командам"},
		{Command: "availability", Description: "🟢 Свободные слоты мастера"},
		{Command: "day", Description: "🗓 Расписание мастера на день"},
		{Command: "book", Description: "➕ Записать клиента"},
		{Command: "move", Description: "🔁 Перенести запись"},
		{Command: "status", Description: "📊 Сменить статус записи"},
		{Command: "booking", Description: "🔎 Показать запись"},
		{Command: "delete", Description: "🗑 Удалить запись"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота, блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}
