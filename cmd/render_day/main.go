package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/controller/render"
	"github.com/Freeeeeet/salon_scheduler/internal/model"
	"github.com/Freeeeeet/salon_scheduler/internal/scheduling"
	"github.com/google/uuid"
)

func main() {
	out := flag.String("out", "day.png", "куда сохранить картинку")
	tz := flag.String("tz", "Europe/Moscow", "часовой пояс салона")
	flag.Parse()

	loc, err := time.LoadLocation(*tz)
	if err != nil {
		fmt.Printf("Неверный часовой пояс: %v\n", err)
		os.Exit(1)
	}

	// Тестовый день: ближайший понедельник
	date := model.DateOf(time.Now(), loc)
	for date.Weekday() != model.Monday {
		date = model.DateOf(time.Date(date.Year, date.Month, date.Day+1, 12, 0, 0, 0, loc), loc)
	}

	staffID := uuid.New()
	hours := []model.WorkingWindow{
		{StaffID: staffID, Weekday: model.Monday, Start: 9 * 60, End: 12 * 60},
		{StaffID: staffID, Weekday: model.Monday, Start: 13 * 60, End: 18 * 60},
	}
	windows := scheduling.WindowsOn(date, loc, hours)

	bookings := []*model.Booking{
		newBooking(staffID, date.At(9*60+30, loc), 60, model.BookingStatusCompleted),
		newBooking(staffID, date.At(11*60, loc), 30, model.BookingStatusConfirmed),
		newBooking(staffID, date.At(14*60, loc), 90, model.BookingStatusScheduled),
		newBooking(staffID, date.At(16*60, loc), 60, model.BookingStatusCancelled),
	}

	active := make([]*model.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.Status.Occupies() {
			active = append(active, b)
		}
	}
	free := scheduling.FreeSlots(windows, active, scheduling.DefaultGranularityMinutes, scheduling.DefaultGranularityMinutes)

	imageData, err := render.DayImage(render.Day{
		StaffName: "Anna",
		Date:      date,
		Windows:   windows,
		Bookings:  bookings,
		FreeSlots: free,
	}, loc)
	if err != nil {
		fmt.Printf("Ошибка генерации изображения: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*out, imageData, 0644); err != nil {
		fmt.Printf("Ошибка сохранения файла: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Изображение успешно сохранено в %s\n", *out)
	fmt.Printf("📅 День: %s\n", date)
	fmt.Printf("📊 Записей: %d, свободных слотов: %d\n", len(bookings), len(free))
}

func newBooking(staffID uuid.UUID, start time.Time, minutes int, status model.BookingStatus) *model.Booking {
	return &model.Booking{
		ID:              uuid.New(),
		StaffID:         staffID,
		StartAt:         start,
		DurationMinutes: minutes,
		Status:          status,
	}
}
