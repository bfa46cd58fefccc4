package service

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/cache"
	"github.com/Freeeeeet/salon_scheduler/internal/events"
	"github.com/Freeeeeet/salon_scheduler/internal/model"
	"github.com/Freeeeeet/salon_scheduler/internal/scheduling"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// fakeDB - хранилище в памяти. Транзакции идут параллельно, день мастера
// блокируется как advisory lock: повторно в той же транзакции не ждёт,
// освобождается при завершении. При ошибке изменения транзакции откатываются.
type fakeDB struct {
	mu  sync.Mutex
	loc *time.Location

	bookings map[uuid.UUID]model.Booking
	clients  map[uuid.UUID]model.Client
	services map[uuid.UUID]model.Service
	staff    map[uuid.UUID]model.Staff
	windows  []model.WorkingWindow
	dayLocks map[string]chan struct{}

	insertConflicts int // столько следующих Insert вернут ErrConflictOnCommit
	inserts         int
	visits          int
	lockedDays      []string
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		loc:      time.UTC,
		bookings: map[uuid.UUID]model.Booking{},
		clients:  map[uuid.UUID]model.Client{},
		services: map[uuid.UUID]model.Service{},
		staff:    map[uuid.UUID]model.Staff{},
		dayLocks: map[string]chan struct{}{},
	}
}

type fakeTxKey struct{}

// fakeTxState - блокировки и журнал отката одной транзакции
type fakeTxState struct {
	held map[string]bool
	undo []func()
}

func txState(ctx context.Context) *fakeTxState {
	st, _ := ctx.Value(fakeTxKey{}).(*fakeTxState)
	return st
}

func dayKey(staffID uuid.UUID, date model.Date) string {
	return staffID.String() + "/" + date.String()
}

// bookingDayKey - ключ дня, который занимает запись
func (db *fakeDB) bookingDayKey(b *model.Booking) string {
	return dayKey(b.StaffID, model.DateOf(b.StartAt, db.loc))
}

// requireDayLock проверяет, что транзакция держит блокировку дня записи
func (db *fakeDB) requireDayLock(ctx context.Context, b *model.Booking) error {
	st := txState(ctx)
	if st == nil || !st.held[db.bookingDayKey(b)] {
		return fmt.Errorf("booking %s written without lock on %s", b.ID, db.bookingDayKey(b))
	}
	return nil
}

// onRollback запоминает обратное действие, вызывается под db.mu
func (db *fakeDB) onRollback(ctx context.Context, undo func()) {
	if st := txState(ctx); st != nil {
		st.undo = append(st.undo, undo)
	}
}

func (db *fakeDB) dayLock(key string) chan struct{} {
	db.mu.Lock()
	defer db.mu.Unlock()

	ch, ok := db.dayLocks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		db.dayLocks[key] = ch
	}
	return ch
}

type fakeTx struct{ db *fakeDB }

func (t fakeTx) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if txState(ctx) != nil {
		return fn(ctx)
	}

	st := &fakeTxState{held: map[string]bool{}}
	err := fn(context.WithValue(ctx, fakeTxKey{}, st))
	if err != nil {
		t.db.mu.Lock()
		for i := len(st.undo) - 1; i >= 0; i-- {
			st.undo[i]()
		}
		t.db.mu.Unlock()
	}

	for key := range st.held {
		<-t.db.dayLock(key)
	}
	return err
}

func (t fakeTx) LockStaffDay(ctx context.Context, staffID uuid.UUID, date model.Date) error {
	st := txState(ctx)
	if st == nil {
		return fmt.Errorf("lock outside transaction")
	}

	key := dayKey(staffID, date)
	if st.held[key] {
		return nil
	}

	select {
	case t.db.dayLock(key) <- struct{}{}:
	case <-ctx.Done():
		return fmt.Errorf("lock staff day %s: %w", key, scheduling.ErrLockTimeout)
	}
	st.held[key] = true

	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	t.db.lockedDays = append(t.db.lockedDays, key)
	return nil
}

type fakeHours struct{ db *fakeDB }

func (h fakeHours) GetWorkingWindows(_ context.Context, staffID uuid.UUID, weekday model.Weekday) ([]model.WorkingWindow, error) {
	h.db.mu.Lock()
	defer h.db.mu.Unlock()

	var out []model.WorkingWindow
	for _, w := range h.db.windows {
		if w.StaffID == staffID && w.Weekday == weekday {
			out = append(out, w)
		}
	}
	return out, nil
}

type fakeBookings struct{ db *fakeDB }

func (f fakeBookings) overlapsLocked(b *model.Booking) *model.Booking {
	if !b.Status.Occupies() {
		return nil
	}
	for _, other := range f.db.bookings {
		if other.ID == b.ID || other.StaffID != b.StaffID || !other.Status.Occupies() {
			continue
		}
		if scheduling.Overlaps(b.StartAt, b.EndAt(), other.StartAt, other.EndAt()) {
			return &other
		}
	}
	return nil
}

// restore возвращает запись к прежнему состоянию при откате
func (f fakeBookings) restore(ctx context.Context, id uuid.UUID) {
	prev, existed := f.db.bookings[id]
	f.db.onRollback(ctx, func() {
		if existed {
			f.db.bookings[id] = prev
		} else {
			delete(f.db.bookings, id)
		}
	})
}

func (f fakeBookings) Insert(ctx context.Context, b *model.Booking) error {
	if err := f.db.requireDayLock(ctx, b); err != nil {
		return err
	}

	f.db.mu.Lock()
	defer f.db.mu.Unlock()

	f.db.inserts++
	if f.db.insertConflicts > 0 {
		f.db.insertConflicts--
		return fmt.Errorf("insert booking: %w: injected", scheduling.ErrConflictOnCommit)
	}
	if other := f.overlapsLocked(b); other != nil {
		return fmt.Errorf("insert booking: %w: overlaps %s", scheduling.ErrConflictOnCommit, other.ID)
	}

	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	f.restore(ctx, b.ID)
	f.db.bookings[b.ID] = *b
	return nil
}

func (f fakeBookings) get(id uuid.UUID) *model.Booking {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()

	b, ok := f.db.bookings[id]
	if !ok {
		return nil
	}
	return &b
}

func (f fakeBookings) GetByID(_ context.Context, id uuid.UUID) (*model.Booking, error) {
	return f.get(id), nil
}

func (f fakeBookings) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	if ctx.Value(fakeTxKey{}) == nil {
		return nil, fmt.Errorf("select for update outside transaction")
	}
	return f.get(id), nil
}

func (f fakeBookings) filter(keep func(b model.Booking) bool) []*model.Booking {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()

	var out []*model.Booking
	for _, b := range f.db.bookings {
		if keep(b) {
			out = append(out, &b)
		}
	}
	slices.SortFunc(out, func(a, b *model.Booking) int { return a.StartAt.Compare(b.StartAt) })
	return out
}

func (f fakeBookings) GetActiveBookings(_ context.Context, staffID uuid.UUID, from, to time.Time) ([]*model.Booking, error) {
	return f.filter(func(b model.Booking) bool {
		return b.StaffID == staffID && b.Status.Occupies() && scheduling.Overlaps(b.StartAt, b.EndAt(), from, to)
	}), nil
}

func (f fakeBookings) GetByStaffBetween(_ context.Context, staffID uuid.UUID, from, to time.Time) ([]*model.Booking, error) {
	return f.filter(func(b model.Booking) bool {
		return b.StaffID == staffID && scheduling.Overlaps(b.StartAt, b.EndAt(), from, to)
	}), nil
}

func (f fakeBookings) GetOverdue(_ context.Context, before time.Time, limit int) ([]*model.Booking, error) {
	out := f.filter(func(b model.Booking) bool {
		open := b.Status == model.BookingStatusScheduled || b.Status == model.BookingStatusConfirmed
		return open && b.EndAt().Before(before)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f fakeBookings) Update(ctx context.Context, b *model.Booking) error {
	f.db.mu.Lock()
	stored, ok := f.db.bookings[b.ID]
	f.db.mu.Unlock()
	if !ok {
		return fmt.Errorf("booking %s not found", b.ID)
	}

	moved := stored.StaffID != b.StaffID || !stored.StartAt.Equal(b.StartAt) || stored.DurationMinutes != b.DurationMinutes
	if moved {
		if err := f.db.requireDayLock(ctx, b); err != nil {
			return err
		}
	}

	f.db.mu.Lock()
	defer f.db.mu.Unlock()

	if other := f.overlapsLocked(b); other != nil {
		return fmt.Errorf("update booking: %w: overlaps %s", scheduling.ErrConflictOnCommit, other.ID)
	}
	b.UpdatedAt = time.Now()
	f.restore(ctx, b.ID)
	f.db.bookings[b.ID] = *b
	return nil
}

func (f fakeBookings) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.BookingStatus, paid decimal.NullDecimal) (bool, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()

	b, ok := f.db.bookings[id]
	if !ok || b.Status != from {
		return false, nil
	}
	f.restore(ctx, id)
	b.Status = to
	if paid.Valid {
		b.PaidAmount = paid
		b.Paid = true
	}
	f.db.bookings[id] = b
	return true, nil
}

func (f fakeBookings) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()

	if _, ok := f.db.bookings[id]; !ok {
		return false, nil
	}
	f.restore(ctx, id)
	delete(f.db.bookings, id)
	return true, nil
}

type fakeServices struct{ db *fakeDB }

func (f fakeServices) GetByID(_ context.Context, id uuid.UUID) (*model.Service, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()

	s, ok := f.db.services[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

type fakeStaff struct{ db *fakeDB }

func (f fakeStaff) GetByID(_ context.Context, id uuid.UUID) (*model.Staff, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()

	s, ok := f.db.staff[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

type fakeClients struct{ db *fakeDB }

func (f fakeClients) GetByID(_ context.Context, id uuid.UUID) (*model.Client, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()

	c, ok := f.db.clients[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (f fakeClients) RecordVisit(ctx context.Context, clientID uuid.UUID, lastVisit time.Time, amount decimal.Decimal) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()

	c, ok := f.db.clients[clientID]
	if !ok {
		return fmt.Errorf("client %s not found", clientID)
	}
	prev := c
	f.db.onRollback(ctx, func() { f.db.clients[clientID] = prev })
	c.LastVisit = &lastVisit
	c.TotalSpent = c.TotalSpent.Add(amount)
	c.VisitCount++
	f.db.clients[clientID] = c
	f.db.visits++
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]events.Type, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// memoryCache повторяет схему версий AvailabilityCache
type memoryCache struct {
	mu       sync.Mutex
	versions map[string]int64
	entries  map[string][]model.Slot
	gets     int
	hits     int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{versions: map[string]int64{}, entries: map[string][]model.Slot{}}
}

func (c *memoryCache) entryKey(key cache.Key, version int64) string {
	return fmt.Sprintf("%s/%s/%d/%d/%d", key.StaffID, key.Date, version, key.DurationMinutes, key.GranularityMinutes)
}

func (c *memoryCache) Get(_ context.Context, key cache.Key) (cache.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gets++
	version := c.versions[key.StaffID.String()+"/"+key.Date.String()]
	slots, ok := c.entries[c.entryKey(key, version)]
	if ok {
		c.hits++
	}
	return cache.Snapshot{Version: version, Slots: slots, Hit: ok}, nil
}

func (c *memoryCache) Set(_ context.Context, key cache.Key, version int64, slots []model.Slot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[c.entryKey(key, version)] = slots
	return nil
}

func (c *memoryCache) Invalidate(_ context.Context, staffID uuid.UUID, date model.Date) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.versions[staffID.String()+"/"+date.String()]++
	return nil
}

// salon - тестовое окружение: мастер работает по понедельникам 09:00-12:00
// и 13:00-18:00 по Москве
type salon struct {
	svc        *BookingService
	db         *fakeDB
	events     *recordingPublisher
	cache      *memoryCache
	staffID    uuid.UUID
	clientID   uuid.UUID
	hour       uuid.UUID // 60 минут
	half       uuid.UUID // 30 минут
	long       uuid.UUID // 90 минут
	inactive   uuid.UUID
	otherStaff uuid.UUID
}

var msk = time.FixedZone("MSK", 3*3600)

// 2026-02-02 - понедельник
var monday = model.Date{Year: 2026, Month: time.February, Day: 2}

func at(hour, minute int) time.Time {
	return time.Date(2026, time.February, 2, hour, minute, 0, 0, msk)
}

func newSalon(t *testing.T) *salon {
	t.Helper()

	db := newFakeDB()
	db.loc = msk
	s := &salon{
		db:         db,
		events:     &recordingPublisher{},
		cache:      newMemoryCache(),
		staffID:    uuid.New(),
		clientID:   uuid.New(),
		hour:       uuid.New(),
		half:       uuid.New(),
		long:       uuid.New(),
		inactive:   uuid.New(),
		otherStaff: uuid.New(),
	}

	db.staff[s.staffID] = model.Staff{ID: s.staffID, Name: "Anna", IsActive: true}
	db.staff[s.otherStaff] = model.Staff{ID: s.otherStaff, Name: "Olga", IsActive: true}
	db.clients[s.clientID] = model.Client{ID: s.clientID, Name: "Ivan"}
	db.services[s.hour] = model.Service{ID: s.hour, Name: "Haircut", DurationMinutes: 60, Price: decimal.NewFromInt(1500), IsActive: true}
	db.services[s.half] = model.Service{ID: s.half, Name: "Fringe", DurationMinutes: 30, Price: decimal.NewFromInt(500), IsActive: true}
	db.services[s.long] = model.Service{ID: s.long, Name: "Coloring", DurationMinutes: 90, Price: decimal.NewFromInt(4000), IsActive: true}
	db.services[s.inactive] = model.Service{ID: s.inactive, Name: "Perm", DurationMinutes: 60, IsActive: false}

	tod := func(h, m int) model.TimeOfDay { return model.TimeOfDay(h*60 + m) }
	db.windows = []model.WorkingWindow{
		{ID: uuid.New(), StaffID: s.staffID, Weekday: model.Monday, Start: tod(13, 0), End: tod(18, 0)},
		{ID: uuid.New(), StaffID: s.staffID, Weekday: model.Monday, Start: tod(9, 0), End: tod(12, 0)},
		{ID: uuid.New(), StaffID: s.otherStaff, Weekday: model.Monday, Start: tod(10, 0), End: tod(14, 0)},
	}

	s.svc = NewBookingService(
		fakeTx{db},
		fakeHours{db},
		fakeBookings{db},
		fakeServices{db},
		fakeClients{db},
		fakeStaff{db},
		Config{
			Location:       msk,
			BookingTimeout: 5 * time.Second,
			NoShowAfter:    2 * time.Hour,
			Cache:          s.cache,
			Publisher:      s.events,
		},
		zap.NewNop(),
	)
	return s
}

func (s *salon) book(t *testing.T, serviceID uuid.UUID, start time.Time) *model.Booking {
	t.Helper()

	b, err := s.svc.CreateBooking(context.Background(), BookingRequest{
		StaffID:   s.staffID,
		ServiceID: serviceID,
		ClientID:  s.clientID,
		StartAt:   start,
	})
	if err != nil {
		t.Fatalf("book %s: %v", start.Format("15:04"), err)
	}
	return b
}

func (s *salon) client() model.Client {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return s.db.clients[s.clientID]
}

func startsOf(slots []model.Slot) []string {
	out := make([]string, 0, len(slots))
	for _, sl := range slots {
		out = append(out, sl.Start.In(msk).Format("15:04"))
	}
	return out
}
