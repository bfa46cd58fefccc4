package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/model"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeys(t *testing.T) {
	staffID := uuid.MustParse("0b6f1d2e-6a43-4d1c-9f3e-2f1a7c0d9e11")
	key := Key{
		StaffID:            staffID,
		Date:               model.Date{Year: 2026, Month: time.February, Day: 2},
		DurationMinutes:    45,
		GranularityMinutes: 30,
	}

	assert.Equal(t, "availability:ver:0b6f1d2e-6a43-4d1c-9f3e-2f1a7c0d9e11:2026-02-02", versionKey(staffID, key.Date))
	assert.Equal(t, "availability:0b6f1d2e-6a43-4d1c-9f3e-2f1a7c0d9e11:2026-02-02:v3:45:30", slotsKey(key, 3))
	assert.NotEqual(t, slotsKey(key, 3), slotsKey(key, 4))
}

func TestDecodeSlots(t *testing.T) {
	loc := time.FixedZone("MSK", 3*3600)
	want := []model.Slot{
		{Start: time.Date(2026, 2, 2, 9, 0, 0, 0, loc), End: time.Date(2026, 2, 2, 9, 45, 0, 0, loc)},
		{Start: time.Date(2026, 2, 2, 9, 30, 0, 0, loc), End: time.Date(2026, 2, 2, 10, 15, 0, 0, loc)},
	}

	raw, err := json.Marshal(want)
	require.NoError(t, err)

	got, err := decodeSlots(raw)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for i := range want {
		assert.True(t, want[i].Start.Equal(got[i].Start))
		assert.True(t, want[i].End.Equal(got[i].End))
	}
}

func TestDecodeSlots_EmptyIsNotNil(t *testing.T) {
	got, err := decodeSlots([]byte("[]"))
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	_, err = decodeSlots([]byte("{"))
	assert.Error(t, err)
}

func newTestCache(t *testing.T) (*AvailabilityCache, *miniredis.Miniredis) {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewAvailabilityCache(client, time.Minute), srv
}

func testSlots() []model.Slot {
	loc := time.FixedZone("MSK", 3*3600)
	return []model.Slot{
		{Start: time.Date(2026, 2, 2, 9, 0, 0, 0, loc), End: time.Date(2026, 2, 2, 10, 0, 0, 0, loc)},
	}
}

func TestAvailabilityCache_SetThenGet(t *testing.T) {
	c, srv := newTestCache(t)
	ctx := context.Background()
	key := Key{StaffID: uuid.New(), Date: model.Date{Year: 2026, Month: time.February, Day: 2}, DurationMinutes: 60, GranularityMinutes: 30}

	snap, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, snap.Hit)
	assert.Zero(t, snap.Version)

	require.NoError(t, c.Set(ctx, key, snap.Version, testSlots()))
	assert.Equal(t, time.Minute, srv.TTL(slotsKey(key, 0)))

	snap, err = c.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, snap.Hit)
	require.Len(t, snap.Slots, 1)
	assert.True(t, snap.Slots[0].Start.Equal(testSlots()[0].Start))

	srv.FastForward(2 * time.Minute)
	snap, err = c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, snap.Hit)
}

func TestAvailabilityCache_StaleSetIsUnreachable(t *testing.T) {
	c, srv := newTestCache(t)
	ctx := context.Background()
	monday := model.Date{Year: 2026, Month: time.February, Day: 2}
	key := Key{StaffID: uuid.New(), Date: monday, DurationMinutes: 60, GranularityMinutes: 30}

	// чтение до записи брони, сохранение после инвалидации
	before, err := c.Get(ctx, key)
	require.NoError(t, err)

	require.NoError(t, c.Invalidate(ctx, key.StaffID, monday))
	require.NoError(t, c.Set(ctx, key, before.Version, testSlots()))

	snap, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, snap.Hit)
	assert.Equal(t, int64(1), snap.Version)
	assert.Equal(t, versionTTL, srv.TTL(versionKey(key.StaffID, monday)))

	// свежие данные под новой версией читаются
	require.NoError(t, c.Set(ctx, key, snap.Version, []model.Slot{}))
	snap, err = c.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, snap.Hit)
	assert.Empty(t, snap.Slots)
}

func TestAvailabilityCache_InvalidateIsPerStaffDay(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	monday := model.Date{Year: 2026, Month: time.February, Day: 2}
	tuesday := model.Date{Year: 2026, Month: time.February, Day: 3}
	key := Key{StaffID: uuid.New(), Date: tuesday, DurationMinutes: 60, GranularityMinutes: 30}

	require.NoError(t, c.Set(ctx, key, 0, testSlots()))
	require.NoError(t, c.Invalidate(ctx, key.StaffID, monday))
	require.NoError(t, c.Invalidate(ctx, uuid.New(), tuesday))

	snap, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, snap.Hit)
}

func TestAvailabilityCache_RedisDown(t *testing.T) {
	c, srv := newTestCache(t)
	srv.Close()

	_, err := c.Get(context.Background(), Key{StaffID: uuid.New(), Date: model.Date{Year: 2026, Month: time.February, Day: 2}})
	assert.Error(t, err)
	assert.Error(t, c.Invalidate(context.Background(), uuid.New(), model.Date{Year: 2026, Month: time.February, Day: 2}))
}
