package scheduling

import (
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/model"
	"github.com/google/uuid"
)

// 2026-02-02 - понедельник
var monday = model.Date{Year: 2026, Month: time.February, Day: 2}

func at(hour, minute int) time.Time {
	return time.Date(2026, time.February, 2, hour, minute, 0, 0, time.UTC)
}

func window(fromH, fromM, toH, toM int) Window {
	return Window{Start: at(fromH, fromM), End: at(toH, toM)}
}

func booking(hour, minute, duration int, status model.BookingStatus) *model.Booking {
	return &model.Booking{
		ID:              uuid.New(),
		StartAt:         at(hour, minute),
		DurationMinutes: duration,
		Status:          status,
	}
}

func starts(slots []model.Slot) []string {
	result := make([]string, 0, len(slots))
	for _, s := range slots {
		result = append(result, s.Start.Format("15:04"))
	}
	return result
}
