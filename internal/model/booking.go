package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"   // Ожидает подтверждения учителя
	BookingStatusConfirmed BookingStatus = "confirmed" // Подтверждено
	BookingStatusCompleted BookingStatus = "completed" // Завершено
	BookingStatusCancelled BookingStatus = "cancelled" // Отменено
)

const (
	DefaultDurationMinutes = 60
	MinDurationMinutes     = 30
	MaxDurationMinutes     = 180
)

// bookingTransitions граф допустимых переходов статуса
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCompleted, BookingStatusCancelled},
	BookingStatusCompleted: nil,
	BookingStatusCancelled: nil,
}

// BookingStatuses возвращает все статусы
func BookingStatuses() []BookingStatus {
	return []BookingStatus{
		BookingStatusPending,
		BookingStatusConfirmed,
		BookingStatusCompleted,
		BookingStatusCancelled,
	}
}

// ParseBookingStatus разбирает статус из строки
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if _, ok := bookingTransitions[status]; !ok {
		return "", fmt.Errorf("unknown booking status: %q", s)
	}
	return status, nil
}

// CanTransition проверяет, есть ли ребро from -> to в графе статусов
func CanTransition(from, to BookingStatus) bool {
	for _, next := range bookingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal сообщает, что из статуса нет переходов
func (s BookingStatus) IsTerminal() bool {
	next, ok := bookingTransitions[s]
	return ok && len(next) == 0
}

// IsActive сообщает, что бронирование занимает время учителя
func (s BookingStatus) IsActive() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

type Booking struct {
	ID              uuid.UUID     `json:"id"`
	TeacherID       int64         `json:"teacher_id"`
	StudentID       int64         `json:"student_id"`
	ScheduledTime   time.Time     `json:"scheduled_time"`
	DurationMinutes int           `json:"duration_minutes"`
	Status          BookingStatus `json:"status"`
	Notes           string        `json:"notes,omitempty"`
	ReminderSentAt  *time.Time    `json:"reminder_sent_at"` // Когда отправлено напоминание
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// EndTime время окончания урока
func (b *Booking) EndTime() time.Time {
	return b.ScheduledTime.Add(time.Duration(b.DurationMinutes) * time.Minute)
}

// Involves проверяет, является ли участник учителем или студентом бронирования
func (b *Booking) Involves(participantID int64) bool {
	return b.TeacherID == participantID || b.StudentID == participantID
}
