package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Freeeeeet/quran_academy/internal/model"
)

// Calendar загруженный список уроков одного участника.
// Каждое изменение делает одну запись в хранилище и после успеха перечитывает
// весь список. При ошибке ранее загруженный список не меняется.
type Calendar struct {
	bookingService *BookingService
	owner          model.Actor

	mu       sync.RWMutex
	bookings []*model.Booking
	inflight int // незавершённые Refresh
	loaded   bool
}

// NewCalendar создаёт календарь участника
func NewCalendar(bookingService *BookingService, owner model.Actor) *Calendar {
	return &Calendar{
		bookingService: bookingService,
		owner:          owner,
	}
}

// Owner участник, которому принадлежит календарь
func (c *Calendar) Owner() model.Actor {
	return c.owner
}

// Refresh перечитывает список из хранилища
func (c *Calendar) Refresh(ctx context.Context) error {
	c.beginLoad()
	defer c.endLoad()

	bookings, err := c.bookingService.ListBookings(ctx, c.owner.ID)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.bookings = bookings
	c.loaded = true
	c.mu.Unlock()

	return nil
}

// Create бронирует урок. Студент указывает учителя, учитель указывает студента.
// Бронирование возвращается, даже если последующее обновление списка не удалось.
func (c *Calendar) Create(
	ctx context.Context,
	counterpartID int64,
	scheduledTime time.Time,
	durationMinutes int,
	notes string,
) (*model.Booking, error) {
	req := CreateBookingRequest{
		ScheduledTime:   scheduledTime,
		DurationMinutes: durationMinutes,
		Notes:           notes,
	}

	switch c.owner.Role {
	case model.RoleStudent:
		req.StudentID = c.owner.ID
		req.TeacherID = counterpartID
	case model.RoleInstructor:
		req.TeacherID = c.owner.ID
		req.StudentID = counterpartID
	default:
		verr := &ValidationError{}
		verr.add("role", "only students and instructors can book lessons")
		return nil, verr
	}

	booking, err := c.bookingService.CreateBooking(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := c.Refresh(ctx); err != nil {
		return booking, fmt.Errorf("refresh after create: %w", err)
	}

	return booking, nil
}

// Transition меняет статус урока от имени владельца календаря
func (c *Calendar) Transition(ctx context.Context, bookingID uuid.UUID, status model.BookingStatus) (*model.Booking, error) {
	booking, err := c.bookingService.TransitionStatus(ctx, bookingID, c.owner, status)
	if err != nil {
		return nil, err
	}

	if err := c.Refresh(ctx); err != nil {
		return booking, fmt.Errorf("refresh after transition: %w", err)
	}

	return booking, nil
}

// Bookings копия загруженного списка
func (c *Calendar) Bookings() []*model.Booking {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*model.Booking, len(c.bookings))
	for i, b := range c.bookings {
		cp := *b
		out[i] = &cp
	}
	return out
}

// Upcoming активные уроки, которые ещё не закончились
func (c *Calendar) Upcoming(now time.Time) []*model.Booking {
	var upcoming []*model.Booking
	for _, b := range c.Bookings() {
		if b.Status.IsActive() && b.EndTime().After(now) {
			upcoming = append(upcoming, b)
		}
	}
	return upcoming
}

// Counterparts ID вторых участников уроков без повторов, в порядке списка
func (c *Calendar) Counterparts() []int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seen := make(map[int64]struct{})
	var ids []int64
	for _, b := range c.bookings {
		id := b.StudentID
		if b.StudentID == c.owner.ID {
			id = b.TeacherID
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// Loading сообщает, что идёт загрузка списка
func (c *Calendar) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.inflight > 0
}

// Loaded сообщает, что список хотя бы раз успешно загружен
func (c *Calendar) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

func (c *Calendar) beginLoad() {
	c.mu.Lock()
	c.inflight++
	c.mu.Unlock()
}

func (c *Calendar) endLoad() {
	c.mu.Lock()
	c.inflight--
	c.mu.Unlock()
}
