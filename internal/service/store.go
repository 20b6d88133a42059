package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Freeeeeet/quran_academy/internal/model"
)

// BookingStore хранилище бронирований; реализуется repository.BookingRepository.
// GetByID возвращает nil, nil, если бронирование не найдено.
// UpdateStatus возвращает updated_at, записанный хранилищем.
type BookingStore interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	ListByParticipant(ctx context.Context, participantID int64) ([]*model.Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.BookingStatus) (time.Time, bool, error)
	HasOverlap(ctx context.Context, teacherID int64, start, end time.Time) (bool, error)
	GetDueReminders(ctx context.Context, from, to time.Time) ([]*model.Booking, error)
	MarkReminded(ctx context.Context, id uuid.UUID, at time.Time) error
}

// ParticipantLookup находит участника по ID; nil, nil если не найден
type ParticipantLookup interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// UserStore хранилище участников; реализуется repository.UserRepository
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	UpdateRole(ctx context.Context, userID int64, role model.Role) error
	ListByRole(ctx context.Context, role model.Role) ([]*model.User, error)
}

// Notifier доставляет уведомления участникам
type Notifier interface {
	BookingCreated(ctx context.Context, booking *model.Booking) error
	BookingStatusChanged(ctx context.Context, booking *model.Booking, from model.BookingStatus) error
	LessonReminder(ctx context.Context, booking *model.Booking) error
}

type noopNotifier struct{}

func (noopNotifier) BookingCreated(context.Context, *model.Booking) error { return nil }

func (noopNotifier) BookingStatusChanged(context.Context, *model.Booking, model.BookingStatus) error {
	return nil
}

func (noopNotifier) LessonReminder(context.Context, *model.Booking) error { return nil }
