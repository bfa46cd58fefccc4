package scheduling

import (
	"fmt"
	"slices"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/model"
	"github.com/google/uuid"
)

// Request - запрос на проверку времени записи
type Request struct {
	Start              time.Time
	DurationMinutes    int
	GranularityMinutes int
	ExcludeBookingID   uuid.UUID // запись, которую переносят
}

// FreeSlots возвращает свободные слоты дня по возрастанию начала
func FreeSlots(windows []Window, existing []*model.Booking, durationMinutes, granularityMinutes int) []model.Slot {
	slots := slices.Collect(FilterFree(GenerateSlots(windows, durationMinutes, granularityMinutes), existing))
	if slots == nil {
		slots = []model.Slot{}
	}
	return slots
}

// Evaluate принимает запрос, только если его начало точно совпадает с началом
// свободного слота. windows - окна мастера на дату запроса, existing - активные записи
// мастера на эту дату.
func Evaluate(req Request, windows []Window, existing []*model.Booking) (model.Slot, error) {
	if req.DurationMinutes <= 0 {
		return model.Slot{}, fmt.Errorf("%w: service duration must be positive, got %d", ErrInvalidInput, req.DurationMinutes)
	}
	if req.Start.IsZero() {
		return model.Slot{}, fmt.Errorf("%w: start time is required", ErrInvalidInput)
	}

	granularity := req.GranularityMinutes
	if granularity <= 0 {
		granularity = DefaultGranularityMinutes
	}

	if len(windows) == 0 {
		return model.Slot{}, ErrNoWorkday
	}

	existing = WithoutBooking(existing, req.ExcludeBookingID)

	for candidate := range GenerateSlots(windows, req.DurationMinutes, granularity) {
		if !candidate.Start.Equal(req.Start) {
			continue
		}

		if b := firstConflict(candidate, existing); b != nil {
			loc := candidate.Start.Location()
			return model.Slot{}, fmt.Errorf("%w: %s-%s overlaps booking %s (%s-%s)",
				ErrNoSlot,
				candidate.Start.Format("15:04"), candidate.End.Format("15:04"),
				b.ID, b.StartAt.In(loc).Format("15:04"), b.EndAt().In(loc).Format("15:04"))
		}
		return candidate, nil
	}

	return model.Slot{}, fmt.Errorf("%w: %s is not a %d-minute slot start within working hours",
		ErrNoSlot, req.Start.Format(time.RFC3339), granularity)
}
