package scheduling

import (
	"iter"
	"sort"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/model"
)

// DefaultGranularityMinutes - шаг сетки кандидатов, не зависит от длительности услуги
const DefaultGranularityMinutes = 30

// Window - рабочее окно, привязанное к конкретной дате
type Window struct {
	Start time.Time
	End   time.Time
}

// WindowsOn переводит регулярные окна в конкретные моменты времени для даты date.
// Окна других дней недели и окна с нарушенным инвариантом пропускаются.
// Результат отсортирован по началу.
func WindowsOn(date model.Date, loc *time.Location, windows []model.WorkingWindow) []Window {
	weekday := date.Weekday()

	result := make([]Window, 0, len(windows))
	for _, w := range windows {
		if w.Weekday != weekday || w.Validate() != nil {
			continue
		}
		result = append(result, Window{
			Start: date.At(w.Start, loc),
			End:   date.At(w.End, loc),
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Start.Before(result[j].Start)
	})

	return result
}

// GenerateSlots выдаёт кандидатов [cursor, cursor+duration) для каждого окна,
// сдвигая курсор на granularityMinutes. Окна обходятся в переданном порядке.
// Последовательность ленивая и может перебираться повторно.
func GenerateSlots(windows []Window, durationMinutes, granularityMinutes int) iter.Seq[model.Slot] {
	return func(yield func(model.Slot) bool) {
		if durationMinutes <= 0 || granularityMinutes <= 0 {
			return
		}

		duration := time.Duration(durationMinutes) * time.Minute
		step := time.Duration(granularityMinutes) * time.Minute

		for _, w := range windows {
			for cursor := w.Start; !cursor.Add(duration).After(w.End); cursor = cursor.Add(step) {
				if !yield(model.Slot{Start: cursor, End: cursor.Add(duration)}) {
					return
				}
			}
		}
	}
}
