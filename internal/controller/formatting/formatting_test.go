package formatting

import (
	"testing"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/events"
	"github.com/Freeeeeet/salon_scheduler/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var msk = time.FixedZone("MSK", 3*3600)

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "45 мин", FormatDuration(45))
	assert.Equal(t, "1 ч", FormatDuration(60))
	assert.Equal(t, "1 ч 30 мин", FormatDuration(90))
}

func TestPluralize(t *testing.T) {
	tests := []struct {
		n     int
		slots string
		books string
	}{
		{1, "слот", "запись"},
		{3, "слота", "записи"},
		{5, "слотов", "записей"},
		{11, "слотов", "записей"},
		{21, "слот", "запись"},
		{22, "слота", "записи"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.slots, PluralizeSlots(tt.n), tt.n)
		assert.Equal(t, tt.books, PluralizeBookings(tt.n), tt.n)
	}
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "1500 ₽", FormatMoney(decimal.NewFromInt(1500)))
	assert.Equal(t, "99.50 ₽", FormatMoney(decimal.RequireFromString("99.5")))
}

func TestWeekdayNames(t *testing.T) {
	assert.Equal(t, "Пн", GetWeekdayShort(model.Monday))
	assert.Equal(t, "Вс", GetWeekdayShort(model.Sunday))
	assert.Equal(t, "?", GetWeekdayShort(model.Weekday(0)))
	assert.Equal(t, "Среда", GetWeekdayName(model.Wednesday))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "02.02.2026 (Пн)", FormatDate(model.Date{Year: 2026, Month: time.February, Day: 2}))
}

func TestFormatBooking(t *testing.T) {
	b := &model.Booking{
		ID:              uuid.New(),
		StartAt:         time.Date(2026, 2, 2, 7, 0, 0, 0, time.UTC),
		DurationMinutes: 90,
		Status:          model.BookingStatusCompleted,
		PaidAmount:      decimal.NewNullDecimal(decimal.NewFromInt(4000)),
		Notes:           "окрашивание",
	}

	text := FormatBooking(b, msk)

	assert.Contains(t, text, "Завершена")
	assert.Contains(t, text, "02.02.2026 (Пн), 10:00-11:30 (1 ч 30 мин)")
	assert.Contains(t, text, "4000 ₽")
	assert.Contains(t, text, "окрашивание")
}

func TestFormatAvailability(t *testing.T) {
	date := model.Date{Year: 2026, Month: time.February, Day: 2}
	slots := []model.Slot{
		{Start: time.Date(2026, 2, 2, 6, 0, 0, 0, time.UTC)},
		{Start: time.Date(2026, 2, 2, 6, 30, 0, 0, time.UTC)},
	}

	assert.Equal(t, "🟢 02.02.2026 (Пн): 2 слота\n\n09:00 09:30", FormatAvailability(date, slots, "", msk))
	assert.Equal(t, "🚫 02.02.2026 (Пн): staff does not work this day", FormatAvailability(date, nil, "staff does not work this day", msk))
}

func TestFormatEvent(t *testing.T) {
	prev := time.Date(2026, 2, 2, 6, 0, 0, 0, time.UTC)
	e := events.Event{
		Type:            events.BookingRescheduled,
		StartAt:         time.Date(2026, 2, 2, 10, 0, 0, 0, time.UTC),
		EndAt:           time.Date(2026, 2, 2, 11, 0, 0, 0, time.UTC),
		PreviousStartAt: &prev,
	}

	assert.Equal(t, "🔁 Запись перенесена с 02.02.2026 09:00 на 02.02.2026 (Пн) 13:00-14:00", FormatEvent(e, msk))

	e.Type = events.BookingStatusChanged
	e.Status = model.BookingStatusCancelled
	assert.Equal(t, "❌ Запись 02.02.2026 (Пн) 13:00-14:00: отменена", FormatEvent(e, msk))
}

func TestFormatHandover(t *testing.T) {
	prev := time.Date(2026, 2, 2, 6, 0, 0, 0, time.UTC)
	e := events.Event{
		Type:    events.BookingRescheduled,
		StartAt: time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, "↪️ Запись на 03.02.2026 13:00 передана другому мастеру", FormatHandover(e, msk))

	e.PreviousStartAt = &prev
	assert.Equal(t, "↪️ Запись на 02.02.2026 09:00 передана другому мастеру", FormatHandover(e, msk))
}
