package render

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/model"
	"github.com/Freeeeeet/salon_scheduler/internal/scheduling"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var msk = time.FixedZone("MSK", 3*3600)

func at(hour, minute int) time.Time {
	return time.Date(2026, time.February, 2, hour, minute, 0, 0, msk)
}

func sampleDay() Day {
	return Day{
		StaffName: "Anna",
		Date:      model.Date{Year: 2026, Month: time.February, Day: 2},
		Windows: []scheduling.Window{
			{Start: at(9, 0), End: at(12, 0)},
			{Start: at(13, 0), End: at(18, 0)},
		},
		Bookings: []*model.Booking{
			{ID: uuid.New(), StartAt: at(10, 0), DurationMinutes: 60, Status: model.BookingStatusConfirmed},
			{ID: uuid.New(), StartAt: at(14, 30), DurationMinutes: 90, Status: model.BookingStatusCancelled, Notes: "перенос"},
		},
		FreeSlots: []model.Slot{{Start: at(9, 0), End: at(9, 30)}},
	}
}

func TestCalculateHourRange(t *testing.T) {
	assert.Equal(t, hourRange{start: 8, end: 19}, calculateHourRange(sampleDay(), msk))
	assert.Equal(t, hourRange{start: 8, end: 19}, calculateHourRange(Day{}, msk))
}

func TestDayImage(t *testing.T) {
	data, err := DayImage(sampleDay(), msk)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, imageWidth, img.Bounds().Dx())
	assert.Equal(t, headerHeight+int(11*hourHeight)+8, img.Bounds().Dy())
}
