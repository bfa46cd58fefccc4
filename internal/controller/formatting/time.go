package formatting

import (
	"fmt"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/model"
)

// FormatDateTime форматирует дату и время
func FormatDateTime(t time.Time) string {
	return t.Format("02.01.2006 15:04")
}

// FormatDate форматирует календарную дату с днём недели
func FormatDate(d model.Date) string {
	return fmt.Sprintf("%02d.%02d.%04d (%s)", d.Day, int(d.Month), d.Year, GetWeekdayShort(d.Weekday()))
}

// FormatTime форматирует только время
func FormatTime(t time.Time) string {
	return t.Format("15:04")
}

// FormatTimeRange форматирует диапазон времени
func FormatTimeRange(start, end time.Time) string {
	return fmt.Sprintf("%s-%s", start.Format("15:04"), end.Format("15:04"))
}

// FormatDuration форматирует длительность в минутах
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d мин", minutes)
	}
	hours := minutes / 60
	mins := minutes % 60
	if mins == 0 {
		return fmt.Sprintf("%d ч", hours)
	}
	return fmt.Sprintf("%d ч %d мин", hours, mins)
}

// GetWeekdayName возвращает название дня недели на русском
func GetWeekdayName(weekday model.Weekday) string {
	names := map[model.Weekday]string{
		model.Monday:    "Понедельник",
		model.Tuesday:   "Вторник",
		model.Wednesday: "Среда",
		model.Thursday:  "Четверг",
		model.Friday:    "Пятница",
		model.Saturday:  "Суббота",
		model.Sunday:    "Воскресенье",
	}
	if name, ok := names[weekday]; ok {
		return name
	}
	return "Неизвестно"
}

// GetWeekdayShort возвращает короткое название дня недели
func GetWeekdayShort(weekday model.Weekday) string {
	names := []string{"Пн", "Вт", "Ср", "Чт", "Пт", "Сб", "Вс"}
	if weekday.Valid() {
		return names[weekday-1]
	}
	return "?"
}
