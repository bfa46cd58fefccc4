package formatting

import "github.com/Freeeeeet/salon_scheduler/internal/model"

// BookingStatusDisplay представляет отображение статуса записи
type BookingStatusDisplay struct {
	Emoji string
	Text  string
}

// GetBookingStatusDisplay возвращает emoji и текст для статуса записи
func GetBookingStatusDisplay(status model.BookingStatus) BookingStatusDisplay {
	displays := map[model.BookingStatus]BookingStatusDisplay{
		model.BookingStatusScheduled: {"🗓", "Запланирована"},
		model.BookingStatusConfirmed: {"✅", "Подтверждена"},
		model.BookingStatusCompleted: {"✔️", "Завершена"},
		model.BookingStatusCancelled: {"❌", "Отменена"},
		model.BookingStatusNoShow:    {"🚷", "Неявка"},
	}

	if display, ok := displays[status]; ok {
		return display
	}

	return BookingStatusDisplay{"❓", "Неизвестно"}
}
