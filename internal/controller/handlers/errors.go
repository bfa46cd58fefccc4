package handlers

import (
	"errors"

	"github.com/Freeeeeet/salon_scheduler/internal/scheduling"
)

// ErrorMessage переводит ошибку записи в текст для пользователя
func ErrorMessage(err error) string {
	if u, ok := isUsage(err); ok {
		return u.usage
	}

	switch {
	case errors.Is(err, scheduling.ErrNotFound):
		return "❌ Не найдено. Проверьте идентификаторы."
	case errors.Is(err, scheduling.ErrNoWorkday):
		return "🚫 Мастер не работает в этот день."
	case errors.Is(err, scheduling.ErrNoSlot):
		return "🚫 Это время недоступно. Посмотрите свободные слоты: /availability"
	case errors.Is(err, scheduling.ErrConflictOnCommit):
		return "⚠️ Время только что заняли. Выберите другой слот."
	case errors.Is(err, scheduling.ErrInvalidTransition):
		return "❌ Такая смена статуса невозможна."
	case errors.Is(err, scheduling.ErrInvalidInput):
		return "❌ Неверные данные запроса."
	case errors.Is(err, scheduling.ErrLockTimeout):
		return "⏳ Расписание сейчас занято. Попробуйте ещё раз."
	default:
		return "❌ Произошла ошибка. Попробуйте позже."
	}
}
