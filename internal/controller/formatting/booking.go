package formatting

import (
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/events"
	"github.com/Freeeeeet/salon_scheduler/internal/model"
)

// FormatBooking форматирует запись для отображения
func FormatBooking(b *model.Booking, loc *time.Location) string {
	display := GetBookingStatusDisplay(b.Status)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s Запись %s\n\n", display.Emoji, b.ID)
	fmt.Fprintf(&sb, "📊 Статус: %s\n", display.Text)
	fmt.Fprintf(&sb, "📅 %s, %s (%s)\n",
		FormatDate(model.DateOf(b.StartAt, loc)),
		FormatTimeRange(b.StartAt.In(loc), b.EndAt().In(loc)),
		FormatDuration(b.DurationMinutes))
	fmt.Fprintf(&sb, "💇 Мастер: %s\n", b.StaffID)
	fmt.Fprintf(&sb, "🧾 Услуга: %s\n", b.ServiceID)
	fmt.Fprintf(&sb, "👤 Клиент: %s", b.ClientID)

	if b.PaidAmount.Valid {
		fmt.Fprintf(&sb, "\n💰 Оплачено: %s", FormatMoney(b.PaidAmount.Decimal))
	}
	if b.Notes != "" {
		fmt.Fprintf(&sb, "\n📝 %s", b.Notes)
	}

	return sb.String()
}

// FormatAvailability форматирует свободные слоты дня
func FormatAvailability(date model.Date, slots []model.Slot, message string, loc *time.Location) string {
	if len(slots) == 0 {
		if message == "" {
			message = "свободного времени нет"
		}
		return fmt.Sprintf("🚫 %s: %s", FormatDate(date), message)
	}

	starts := make([]string, 0, len(slots))
	for _, s := range slots {
		starts = append(starts, FormatTime(s.Start.In(loc)))
	}

	return fmt.Sprintf("🟢 %s: %d %s\n\n%s",
		FormatDate(date), len(slots), PluralizeSlots(len(slots)), strings.Join(starts, " "))
}

// FormatDaySummary - подпись к картинке дня
func FormatDaySummary(staffName string, date model.Date, bookings []*model.Booking, freeSlots int) string {
	active := 0
	for _, b := range bookings {
		if b.Status.Occupies() {
			active++
		}
	}

	return fmt.Sprintf("🗓 %s, %s\n%d %s, свободно %d %s",
		staffName, FormatDate(date),
		active, PluralizeBookings(active),
		freeSlots, PluralizeSlots(freeSlots))
}

// FormatEvent форматирует уведомление мастеру
func FormatEvent(e events.Event, loc *time.Location) string {
	when := fmt.Sprintf("%s %s",
		FormatDate(model.DateOf(e.StartAt, loc)),
		FormatTimeRange(e.StartAt.In(loc), e.EndAt.In(loc)))

	switch e.Type {
	case events.BookingCreated:
		return "🆕 Новая запись: " + when
	case events.BookingRescheduled:
		if e.PreviousStartAt != nil {
			return fmt.Sprintf("🔁 Запись перенесена с %s на %s",
				FormatDateTime(e.PreviousStartAt.In(loc)), when)
		}
		return "🔁 Запись перенесена: " + when
	case events.BookingStatusChanged:
		display := GetBookingStatusDisplay(e.Status)
		return fmt.Sprintf("%s Запись %s: %s", display.Emoji, when, strings.ToLower(display.Text))
	case events.BookingDeleted:
		return "🗑 Запись удалена: " + when
	default:
		return "✏️ Запись изменена: " + when
	}
}

// FormatHandover - уведомление мастеру, у которого забрали запись при переносе
func FormatHandover(e events.Event, loc *time.Location) string {
	start := e.StartAt
	if e.PreviousStartAt != nil {
		start = *e.PreviousStartAt
	}
	return fmt.Sprintf("↪️ Запись на %s передана другому мастеру", FormatDateTime(start.In(loc)))
}
