package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Weekday - день недели в нумерации ISO: понедельник = 1, воскресенье = 7
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [...]string{"", "mon", "tue", "wed", "thu", "fri", "sat", "sun"}

// WeekdayOf переводит time.Weekday (воскресенье = 0) в ISO-нумерацию
func WeekdayOf(d time.Weekday) Weekday {
	if d == time.Sunday {
		return Sunday
	}
	return Weekday(d)
}

func (w Weekday) Valid() bool {
	return w >= Monday && w <= Sunday
}

func (w Weekday) String() string {
	if !w.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(w))
	}
	return weekdayNames[w]
}

// TimeOfDay - время суток в минутах от полуночи
type TimeOfDay int

// ParseTimeOfDay разбирает время в формате "15:04"
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("parse time of day %q: %w", s, err)
	}
	return TimeOfDay(t.Hour()*60 + t.Minute()), nil
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// WorkingWindow - регулярный интервал работы мастера в заданный день недели
type WorkingWindow struct {
	ID      uuid.UUID `json:"id"`
	StaffID uuid.UUID `json:"staff_id"`
	Weekday Weekday   `json:"weekday"`
	Start   TimeOfDay `json:"start"`
	End     TimeOfDay `json:"end"`
}

// Validate проверяет инвариант Start < End
func (w WorkingWindow) Validate() error {
	if !w.Weekday.Valid() {
		return fmt.Errorf("invalid weekday %d", int(w.Weekday))
	}
	if w.Start < 0 || w.End > 24*60 || w.Start >= w.End {
		return fmt.Errorf("window %s-%s: start must be before end", w.Start, w.End)
	}
	return nil
}
