package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/model"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "availability"

// versionTTL должен быть заметно больше ttl слотов, иначе сброс версии в 0
// может снова открыть старые ключи
const versionTTL = 48 * time.Hour

// Key - параметры, от которых зависят свободные слоты дня
type Key struct {
	StaffID            uuid.UUID
	Date               model.Date
	DurationMinutes    int
	GranularityMinutes int
}

// Snapshot - результат чтения кэша. Version нужно передать в Set, чтобы
// данные, посчитанные до инвалидации, не попали под новую версию.
type Snapshot struct {
	Version int64
	Slots   []model.Slot
	Hit     bool
}

// AvailabilityCache кэширует свободные слоты в Redis. Запись или изменение
// брони увеличивает версию дня мастера, после чего старые ключи не читаются.
type AvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAvailabilityCache(client *redis.Client, ttl time.Duration) *AvailabilityCache {
	return &AvailabilityCache{client: client, ttl: ttl}
}

func versionKey(staffID uuid.UUID, date model.Date) string {
	return fmt.Sprintf("%s:ver:%s:%s", keyPrefix, staffID, date)
}

func slotsKey(key Key, version int64) string {
	return fmt.Sprintf("%s:%s:%s:v%d:%d:%d",
		keyPrefix, key.StaffID, key.Date, version, key.DurationMinutes, key.GranularityMinutes)
}

// Get читает текущую версию дня и слоты под этой версией
func (c *AvailabilityCache) Get(ctx context.Context, key Key) (Snapshot, error) {
	version, err := c.client.Get(ctx, versionKey(key.StaffID, key.Date)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return Snapshot{}, fmt.Errorf("get availability version: %w", err)
	}

	raw, err := c.client.Get(ctx, slotsKey(key, version)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Snapshot{Version: version}, nil
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("get availability: %w", err)
	}

	slots, err := decodeSlots(raw)
	if err != nil {
		return Snapshot{Version: version}, err
	}

	return Snapshot{Version: version, Slots: slots, Hit: true}, nil
}

// Set сохраняет слоты под версией, прочитанной в Get
func (c *AvailabilityCache) Set(ctx context.Context, key Key, version int64, slots []model.Slot) error {
	raw, err := json.Marshal(slots)
	if err != nil {
		return fmt.Errorf("marshal availability: %w", err)
	}

	if err := c.client.Set(ctx, slotsKey(key, version), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set availability: %w", err)
	}
	return nil
}

// Invalidate делает устаревшими все закэшированные слоты дня мастера
func (c *AvailabilityCache) Invalidate(ctx context.Context, staffID uuid.UUID, date model.Date) error {
	vk := versionKey(staffID, date)

	pipe := c.client.TxPipeline()
	pipe.Incr(ctx, vk)
	pipe.Expire(ctx, vk, versionTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("invalidate availability: %w", err)
	}
	return nil
}

func decodeSlots(raw []byte) ([]model.Slot, error) {
	slots := []model.Slot{}
	if err := json.Unmarshal(raw, &slots); err != nil {
		return nil, fmt.Errorf("decode availability: %w", err)
	}
	return slots, nil
}
