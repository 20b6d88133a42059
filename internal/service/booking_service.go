package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"github.com/Freeeeeet/quran_academy/internal/model"
)

const maxNotesLength = 1000

// BookingOptions настройки обращений к хранилищу
type BookingOptions struct {
	StoreTimeout time.Duration // Ограничение на один вызов хранилища
	ReadRetries  uint64        // Повторы чтения после первой попытки
	RetryBase    time.Duration // Базовая задержка экспоненциального backoff
}

// DefaultBookingOptions настройки по умолчанию
func DefaultBookingOptions() BookingOptions {
	return BookingOptions{
		StoreTimeout: 5 * time.Second,
		ReadRetries:  3,
		RetryBase:    100 * time.Millisecond,
	}
}

// CreateBookingRequest данные нового бронирования
type CreateBookingRequest struct {
	TeacherID       int64
	StudentID       int64
	ScheduledTime   time.Time
	DurationMinutes int
	Notes           string
}

type BookingService struct {
	bookingRepo BookingStore
	users       ParticipantLookup
	notifier    Notifier
	opts        BookingOptions
	now         func() time.Time
	logger      *zap.Logger
}

func NewBookingService(
	bookingRepo BookingStore,
	users ParticipantLookup,
	notifier Notifier,
	opts BookingOptions,
	logger *zap.Logger,
) *BookingService {
	if notifier == nil {
		notifier = noopNotifier{}
	}

	defaults := DefaultBookingOptions()
	if opts.StoreTimeout <= 0 {
		opts.StoreTimeout = defaults.StoreTimeout
	}
	if opts.RetryBase <= 0 {
		opts.RetryBase = defaults.RetryBase
	}

	return &BookingService{
		bookingRepo: bookingRepo,
		users:       users,
		notifier:    notifier,
		opts:        opts,
		now:         time.Now,
		logger:      logger,
	}
}

// SetClock подменяет источник времени
func (s *BookingService) SetClock(now func() time.Time) {
	s.now = now
}

// ListBookings получает все бронирования участника по возрастанию времени урока
func (s *BookingService) ListBookings(ctx context.Context, participantID int64) ([]*model.Booking, error) {
	var bookings []*model.Booking

	backoff := retry.WithMaxRetries(s.opts.ReadRetries, retry.NewExponential(s.opts.RetryBase))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
		defer cancel()

		list, err := s.bookingRepo.ListByParticipant(callCtx, participantID)
		if err != nil {
			s.logger.Warn("List bookings attempt failed",
				zap.Int64("participant_id", participantID),
				zap.Error(err),
			)
			return retry.RetryableError(err)
		}

		bookings = list
		return nil
	})
	if err != nil {
		return nil, &TransportError{Op: "list bookings", Err: err}
	}

	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].ScheduledTime.Before(bookings[j].ScheduledTime)
	})

	return bookings, nil
}

// CreateBooking создаёт бронирование в статусе pending
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*model.Booking, error) {
	req.Notes = strings.TrimSpace(req.Notes)
	if req.DurationMinutes == 0 {
		req.DurationMinutes = model.DefaultDurationMinutes
	}

	if verr := s.validate(req); verr.HasErrors() {
		return nil, verr
	}

	// Учитель должен быть преподавателем, студент студентом,
	// иначе урок никто не сможет подтвердить
	if err := s.checkParticipants(ctx, req); err != nil {
		return nil, err
	}

	booking := &model.Booking{
		ID:              uuid.New(),
		TeacherID:       req.TeacherID,
		StudentID:       req.StudentID,
		ScheduledTime:   req.ScheduledTime.UTC(),
		DurationMinutes: req.DurationMinutes,
		Status:          model.BookingStatusPending,
		Notes:           req.Notes,
	}

	// Учитель не может вести два урока одновременно
	overlap, err := s.hasOverlap(ctx, booking)
	if err != nil {
		return nil, &TransportError{Op: "check booking overlap", Err: err}
	}
	if overlap {
		return nil, ErrBookingConflict
	}

	callCtx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()

	if err := s.bookingRepo.Create(callCtx, booking); err != nil {
		s.logger.Error("Failed to create booking",
			zap.Int64("teacher_id", booking.TeacherID),
			zap.Int64("student_id", booking.StudentID),
			zap.Error(err),
		)
		return nil, &TransportError{Op: "create booking", Err: err}
	}

	s.logger.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.Int64("teacher_id", booking.TeacherID),
		zap.Int64("student_id", booking.StudentID),
		zap.Time("scheduled_time", booking.ScheduledTime),
		zap.Int("duration_minutes", booking.DurationMinutes),
	)

	if err := s.notifier.BookingCreated(ctx, booking); err != nil {
		s.logger.Warn("Failed to notify about new booking",
			zap.String("booking_id", booking.ID.String()),
			zap.Error(err),
		)
	}

	return booking, nil
}

// TransitionStatus переводит бронирование в новый статус.
// Подтверждать, завершать и отменять урок может только его учитель.
func (s *BookingService) TransitionStatus(
	ctx context.Context,
	bookingID uuid.UUID,
	actor model.Actor,
	requested model.BookingStatus,
) (*model.Booking, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	from := booking.Status
	if !model.CanTransition(from, requested) {
		return nil, &InvalidTransitionError{From: from, To: requested}
	}

	if actor.Role != model.RoleInstructor || actor.ID != booking.TeacherID {
		s.logger.Warn("Booking transition denied",
			zap.String("booking_id", bookingID.String()),
			zap.Int64("actor_id", actor.ID),
			zap.String("actor_role", string(actor.Role)),
			zap.String("requested", string(requested)),
		)
		return nil, ErrNotPermitted
	}

	callCtx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()

	updatedAt, updated, err := s.bookingRepo.UpdateStatus(callCtx, bookingID, from, requested)
	if err != nil {
		return nil, &TransportError{Op: "update booking status", Err: err}
	}

	if !updated {
		// Статус успели изменить параллельно
		current, err := s.getBooking(ctx, bookingID)
		if err != nil {
			return nil, err
		}
		return nil, &InvalidTransitionError{From: current.Status, To: requested}
	}

	booking.Status = requested
	booking.UpdatedAt = updatedAt

	s.logger.Info("Booking status changed",
		zap.String("booking_id", bookingID.String()),
		zap.Int64("actor_id", actor.ID),
		zap.String("from", string(from)),
		zap.String("to", string(requested)),
	)

	if err := s.notifier.BookingStatusChanged(ctx, booking, from); err != nil {
		s.logger.Warn("Failed to notify about status change",
			zap.String("booking_id", bookingID.String()),
			zap.Error(err),
		)
	}

	return booking, nil
}

// GetBooking получает бронирование, доступное участнику
func (s *BookingService) GetBooking(ctx context.Context, bookingID uuid.UUID, participantID int64) (*model.Booking, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !booking.Involves(participantID) {
		return nil, ErrBookingNotFound
	}

	return booking, nil
}

// SendReminders напоминает участникам об уроках, начинающихся в ближайшие lead.
// Возвращает количество отправленных напоминаний.
func (s *BookingService) SendReminders(ctx context.Context, lead time.Duration) (int, error) {
	now := s.now().UTC()

	callCtx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
	due, err := s.bookingRepo.GetDueReminders(callCtx, now, now.Add(lead))
	cancel()
	if err != nil {
		return 0, &TransportError{Op: "get due reminders", Err: err}
	}

	sent := 0
	for _, booking := range due {
		if err := s.notifier.LessonReminder(ctx, booking); err != nil {
			s.logger.Warn("Failed to send lesson reminder",
				zap.String("booking_id", booking.ID.String()),
				zap.Error(err),
			)
			continue
		}

		callCtx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
		err := s.bookingRepo.MarkReminded(callCtx, booking.ID, now)
		cancel()
		if err != nil {
			return sent, &TransportError{Op: "mark booking reminded", Err: err}
		}
		sent++
	}

	return sent, nil
}

func (s *BookingService) getBooking(ctx context.Context, bookingID uuid.UUID) (*model.Booking, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()

	booking, err := s.bookingRepo.GetByID(callCtx, bookingID)
	if err != nil {
		return nil, &TransportError{Op: "get booking", Err: err}
	}

	if booking == nil {
		return nil, ErrBookingNotFound
	}

	return booking, nil
}

func (s *BookingService) checkParticipants(ctx context.Context, req CreateBookingRequest) error {
	verr := &ValidationError{}

	if err := s.expectRole(ctx, verr, "teacher_id", req.TeacherID, model.RoleInstructor); err != nil {
		return err
	}
	if err := s.expectRole(ctx, verr, "student_id", req.StudentID, model.RoleStudent); err != nil {
		return err
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}

func (s *BookingService) expectRole(ctx context.Context, verr *ValidationError, field string, id int64, role model.Role) error {
	callCtx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()

	user, err := s.users.GetByID(callCtx, id)
	if err != nil {
		return &TransportError{Op: "get participant", Err: err}
	}

	switch {
	case user == nil:
		verr.add(field, "participant not found")
	case user.Role != role:
		verr.add(field, fmt.Sprintf("participant must have role %s", role))
	}
	return nil
}

func (s *BookingService) hasOverlap(ctx context.Context, booking *model.Booking) (bool, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()

	return s.bookingRepo.HasOverlap(callCtx, booking.TeacherID, booking.ScheduledTime, booking.EndTime())
}

func (s *BookingService) validate(req CreateBookingRequest) *ValidationError {
	verr := &ValidationError{}

	if req.TeacherID <= 0 {
		verr.add("teacher_id", "teacher is required")
	}
	if req.StudentID <= 0 {
		verr.add("student_id", "student is required")
	}
	if req.TeacherID > 0 && req.TeacherID == req.StudentID {
		verr.add("student_id", "teacher cannot book a lesson with themselves")
	}

	if req.ScheduledTime.IsZero() {
		verr.add("scheduled_time", "scheduled time is required")
	} else if !req.ScheduledTime.After(s.now()) {
		verr.add("scheduled_time", "scheduled time must be in the future")
	}

	if req.DurationMinutes < model.MinDurationMinutes || req.DurationMinutes > model.MaxDurationMinutes {
		verr.add("duration_minutes", fmt.Sprintf(
			"duration must be between %d and %d minutes",
			model.MinDurationMinutes, model.MaxDurationMinutes,
		))
	}

	if utf8.RuneCountInString(req.Notes) > maxNotesLength {
		verr.add("notes", fmt.Sprintf("notes must be at most %d characters", maxNotesLength))
	}

	return verr
}
