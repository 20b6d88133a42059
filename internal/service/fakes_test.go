package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Freeeeeet/quran_academy/internal/model"
)

var errStoreDown = errors.New("connection refused")

type memBookingStore struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*model.Booking

	listFailures int // сколько первых вызовов ListByParticipant завершатся ошибкой
	listCalls    int
	createErr    error
	updateErr    error
	writes       int

	// beforeUpdate вызывается внутри UpdateStatus до сравнения статуса
	beforeUpdate func(b *model.Booking)
	// onList вызывается в начале ListByParticipant без блокировки
	onList func()
	// storeNow время, которое хранилище пишет в updated_at
	storeNow time.Time
}

func newMemBookingStore() *memBookingStore {
	return &memBookingStore{bookings: make(map[uuid.UUID]*model.Booking)}
}

func (m *memBookingStore) Create(ctx context.Context, booking *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.createErr != nil {
		return m.createErr
	}
	m.writes++
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt
	cp := *booking
	m.bookings[booking.ID] = &cp
	return nil
}

func (m *memBookingStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.bookings[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (m *memBookingStore) ListByParticipant(ctx context.Context, participantID int64) ([]*model.Booking, error) {
	if m.onList != nil {
		m.onList()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.listCalls++
	if m.listFailures > 0 {
		m.listFailures--
		return nil, errStoreDown
	}

	var out []*model.Booking
	for _, b := range m.bookings {
		if b.Involves(participantID) {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ScheduledTime.Before(out[j].ScheduledTime)
	})
	return out, nil
}

func (m *memBookingStore) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.BookingStatus) (time.Time, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.updateErr != nil {
		return time.Time{}, false, m.updateErr
	}
	b, ok := m.bookings[id]
	if !ok {
		return time.Time{}, false, nil
	}
	if m.beforeUpdate != nil {
		m.beforeUpdate(b)
	}
	if b.Status != from {
		return time.Time{}, false, nil
	}
	m.writes++
	b.Status = to
	b.UpdatedAt = m.storeNow
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = time.Now()
	}
	return b.UpdatedAt, true, nil
}

func (m *memBookingStore) HasOverlap(ctx context.Context, teacherID int64, start, end time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, b := range m.bookings {
		if b.TeacherID != teacherID || !b.Status.IsActive() {
			continue
		}
		if b.ScheduledTime.Before(end) && b.EndTime().After(start) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memBookingStore) GetDueReminders(ctx context.Context, from, to time.Time) ([]*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*model.Booking
	for _, b := range m.bookings {
		if b.Status != model.BookingStatusConfirmed || b.ReminderSentAt != nil {
			continue
		}
		if !b.ScheduledTime.Before(from) && b.ScheduledTime.Before(to) {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memBookingStore) MarkReminded(ctx context.Context, id uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.bookings[id]
	if !ok {
		return errors.New("booking not found")
	}
	b.ReminderSentAt = &at
	return nil
}

func (m *memBookingStore) put(b *model.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *b
	m.bookings[b.ID] = &cp
}

func (m *memBookingStore) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

type recordingNotifier struct {
	mu        sync.Mutex
	created   []uuid.UUID
	changed   []model.BookingStatus
	reminded  []uuid.UUID
	remindErr error
}

func (r *recordingNotifier) BookingCreated(ctx context.Context, booking *model.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, booking.ID)
	return nil
}

func (r *recordingNotifier) BookingStatusChanged(ctx context.Context, booking *model.Booking, from model.BookingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changed = append(r.changed, booking.Status)
	return errors.New("telegram unavailable")
}

func (r *recordingNotifier) LessonReminder(ctx context.Context, booking *model.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.remindErr != nil {
		return r.remindErr
	}
	r.reminded = append(r.reminded, booking.ID)
	return nil
}

type memUserStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*model.User
	err    error
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[int64]*model.User)}
}

// putUser кладёт участника с заданным ID
func (m *memUserStore) putUser(id int64, role model.Role) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[id] = &model.User{ID: id, TelegramID: 1000 + id, FirstName: string(role), Role: role}
	if id > m.nextID {
		m.nextID = id
	}
}

func (m *memUserStore) Create(ctx context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.nextID++
	user.ID = m.nextID
	user.CreatedAt = time.Now()
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *memUserStore) GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if u.TelegramID == telegramID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUserStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *memUserStore) Update(ctx context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[user.ID]
	if !ok {
		return errors.New("user not found")
	}
	role := u.Role
	cp := *user
	cp.Role = role
	m.users[user.ID] = &cp
	return nil
}

func (m *memUserStore) UpdateRole(ctx context.Context, userID int64, role model.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return errors.New("user not found")
	}
	u.Role = role
	return nil
}

func (m *memUserStore) ListByRole(ctx context.Context, role model.Role) ([]*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []*model.User
	for _, u := range m.users {
		if u.Role == role {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type roleRecorder struct {
	changes map[int64]model.Role
	calls   int
}

func (r *roleRecorder) OnRoleChange(participantID int64, role model.Role) {
	r.calls++
	if r.changes == nil {
		r.changes = make(map[int64]model.Role)
	}
	r.changes[participantID] = role
}
