package scheduling

import (
	"iter"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/model"
	"github.com/google/uuid"
)

// Overlaps проверяет пересечение полуинтервалов [aStart, aEnd) и [bStart, bEnd).
// Касание концами пересечением не считается.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// FilterFree оставляет только кандидатов, не пересекающихся ни с одной записью.
// Конец каждой записи считается по её собственной длительности.
// Отменённые записи и неявки время не занимают.
func FilterFree(candidates iter.Seq[model.Slot], existing []*model.Booking) iter.Seq[model.Slot] {
	return func(yield func(model.Slot) bool) {
		for slot := range candidates {
			if firstConflict(slot, existing) != nil {
				continue
			}
			if !yield(slot) {
				return
			}
		}
	}
}

func firstConflict(slot model.Slot, existing []*model.Booking) *model.Booking {
	for _, b := range existing {
		if b == nil || !b.Status.Occupies() {
			continue
		}
		if Overlaps(slot.Start, slot.End, b.StartAt, b.EndAt()) {
			return b
		}
	}
	return nil
}

// WithoutBooking убирает из списка запись id: при переносе запись не должна
// конфликтовать сама с собой
func WithoutBooking(existing []*model.Booking, id uuid.UUID) []*model.Booking {
	if id == uuid.Nil {
		return existing
	}

	result := make([]*model.Booking, 0, len(existing))
	for _, b := range existing {
		if b.ID != id {
			result = append(result, b)
		}
	}
	return result
}
