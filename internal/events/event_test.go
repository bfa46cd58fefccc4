package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	events []Event
	err    error
}

func (r *recorder) Publish(_ context.Context, e Event) error {
	r.events = append(r.events, e)
	return r.err
}

func testBooking() *model.Booking {
	return &model.Booking{
		ID:              uuid.New(),
		StaffID:         uuid.New(),
		ServiceID:       uuid.New(),
		ClientID:        uuid.New(),
		StartAt:         time.Date(2026, 2, 2, 10, 0, 0, 0, time.UTC),
		DurationMinutes: 45,
		Status:          model.BookingStatusScheduled,
	}
}

func TestNewBookingEvent(t *testing.T) {
	b := testBooking()
	at := time.Date(2026, 2, 1, 12, 0, 0, 0, time.FixedZone("MSK", 3*3600))

	e := NewBookingEvent(BookingCreated, b, at)

	assert.NotEqual(t, uuid.Nil, e.ID)
	assert.Equal(t, BookingCreated, e.Type)
	assert.Equal(t, b.ID, e.BookingID)
	assert.Equal(t, b.StaffID, e.StaffID)
	assert.True(t, e.EndAt.Equal(time.Date(2026, 2, 2, 10, 45, 0, 0, time.UTC)))
	assert.Equal(t, time.UTC, e.OccurredAt.Location())
}

func TestEvent_JSON(t *testing.T) {
	e := NewBookingEvent(BookingStatusChanged, testBooking(), time.Now())
	e.PreviousStatus = model.BookingStatusScheduled

	body, err := json.Marshal(e)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(body, &fields))
	assert.Equal(t, "booking.status_changed", fields["type"])
	assert.Equal(t, "scheduled", fields["previous_status"])
	assert.NotContains(t, fields, "previous_start_at")
}

func TestFanout(t *testing.T) {
	ok := &recorder{}
	failing := &recorder{err: errors.New("telegram down")}

	err := Fanout{ok, nil, failing, Nop{}}.Publish(context.Background(), NewBookingEvent(BookingDeleted, testBooking(), time.Now()))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "telegram down")
	assert.Len(t, ok.events, 1)
	assert.Len(t, failing.events, 1)
}
