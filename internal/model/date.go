package model

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// Date - календарная дата без часового пояса
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate разбирает дату в формате YYYY-MM-DD
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return DateOf(t, time.UTC), nil
}

// DateOf возвращает календарную дату момента t в часовом поясе loc
func DateOf(t time.Time, loc *time.Location) Date {
	y, m, d := t.In(loc).Date()
	return Date{Year: y, Month: m, Day: d}
}

// Weekday вычисляется по григорианскому календарю, без локалей
func (d Date) Weekday() Weekday {
	return WeekdayOf(time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Weekday())
}

// At возвращает момент времени tod в эту дату в часовом поясе loc
func (d Date) At(tod TimeOfDay, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, tod.Hour(), tod.Minute(), 0, 0, loc)
}

// Bounds возвращает полуинтервал [начало суток, начало следующих суток) в loc
func (d Date) Bounds(loc *time.Location) (time.Time, time.Time) {
	start := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
	return start, time.Date(d.Year, d.Month, d.Day+1, 0, 0, 0, 0, loc)
}

func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}
