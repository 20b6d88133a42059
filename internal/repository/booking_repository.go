package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Freeeeeet/quran_academy/internal/model"
	"github.com/Freeeeeet/quran_academy/internal/repository/base"
)

const bookingColumns = `id, teacher_id, student_id, scheduled_time, duration_minutes, status, notes, reminder_sent_at, created_at, updated_at`

type BookingRepository struct {
	*base.Repository
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{Repository: base.NewRepository(pool)}
}

// Create создаёт новое бронирование
func (r *BookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	query := `
		INSERT INTO lesson_bookings (id, teacher_id, student_id, scheduled_time, duration_minutes, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err := r.QueryRow(
		ctx, query,
		booking.ID,
		booking.TeacherID,
		booking.StudentID,
		booking.ScheduledTime,
		booking.DurationMinutes,
		booking.Status,
		booking.Notes,
	).Scan(&booking.CreatedAt, &booking.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create booking: %w", err)
	}

	return nil
}

// GetByID получает бронирование по ID
func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM lesson_bookings WHERE id = $1`

	booking, err := scanBooking(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by id: %w", err)
	}

	return booking, nil
}

// ListByParticipant получает все бронирования, где участник учитель или студент
func (r *BookingRepository) ListByParticipant(ctx context.Context, participantID int64) ([]*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM lesson_bookings
		WHERE teacher_id = $1 OR student_id = $1
		ORDER BY scheduled_time ASC, created_at ASC
	`

	rows, err := r.Query(ctx, query, participantID)
	if err != nil {
		return nil, fmt.Errorf("get bookings by participant: %w", err)
	}

	return collectBookings(rows)
}

// UpdateStatus меняет статус, только если текущий статус равен from.
// Возвращает false, если бронирование не найдено или статус уже изменён.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.BookingStatus) (time.Time, bool, error) {
	query := `
		UPDATE lesson_bookings
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
		RETURNING updated_at
	`

	var updatedAt time.Time
	err := r.QueryRow(ctx, query, to, id, from).Scan(&updatedAt)
	if err != nil {
		if base.IsNotFound(err) || base.IsCheckViolation(err) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("update booking status: %w", err)
	}

	return updatedAt, true, nil
}

// HasOverlap проверяет, есть ли у учителя активный урок, пересекающий [start, end)
func (r *BookingRepository) HasOverlap(ctx context.Context, teacherID int64, start, end time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM lesson_bookings
			WHERE teacher_id = $1
				AND status IN ('pending', 'confirmed')
				AND scheduled_time < $3
				AND scheduled_time + make_interval(mins => duration_minutes) > $2
		)
	`

	var exists bool
	if err := r.QueryRow(ctx, query, teacherID, start, end).Scan(&exists); err != nil {
		return false, fmt.Errorf("check booking overlap: %w", err)
	}

	return exists, nil
}

// GetDueReminders получает подтверждённые уроки в интервале [from, to) без напоминания
func (r *BookingRepository) GetDueReminders(ctx context.Context, from, to time.Time) ([]*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM lesson_bookings
		WHERE status = 'confirmed'
			AND reminder_sent_at IS NULL
			AND scheduled_time >= $1
			AND scheduled_time < $2
		ORDER BY scheduled_time ASC
	`

	rows, err := r.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("get due reminders: %w", err)
	}

	return collectBookings(rows)
}

// MarkReminded отмечает, что напоминание отправлено
func (r *BookingRepository) MarkReminded(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `UPDATE lesson_bookings SET reminder_sent_at = $1 WHERE id = $2`

	affected, err := r.ExecAffected(ctx, query, at, id)
	if err != nil {
		return fmt.Errorf("mark booking reminded: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("booking not found")
	}

	return nil
}

func scanBooking(row pgx.Row) (*model.Booking, error) {
	var (
		booking model.Booking
		notes   *string
	)

	err := row.Scan(
		&booking.ID,
		&booking.TeacherID,
		&booking.StudentID,
		&booking.ScheduledTime,
		&booking.DurationMinutes,
		&booking.Status,
		&notes,
		&booking.ReminderSentAt,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if notes != nil {
		booking.Notes = *notes
	}

	return &booking, nil
}

func collectBookings(rows pgx.Rows) ([]*model.Booking, error) {
	defer rows.Close()

	var bookings []*model.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}

	return bookings, nil
}
