package handlers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Freeeeeet/quran_academy/internal/model"
)

const lessonTimeLayout = "2006-01-02 15:04"

// Callback data patterns
const (
	navPrefix     = "nav:"     // nav:<view_id>
	bookingPrefix = "booking:" // booking:<status>:<booking_id>
	noop          = "noop"
)

// BookCommand разобранная команда /book
type BookCommand struct {
	CounterpartID   int64
	ScheduledTime   time.Time
	DurationMinutes int
	Notes           string
}

// ParseBookCommand разбирает "/book <id> <YYYY-MM-DD> <HH:MM> [минуты] [заметки]"
func ParseBookCommand(text string, loc *time.Location) (BookCommand, error) {
	var cmd BookCommand

	fields := strings.Fields(text)
	if len(fields) < 4 {
		return cmd, fmt.Errorf("usage: /book <id> <YYYY-MM-DD> <HH:MM> [minutes] [notes]")
	}

	id, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil || id <= 0 {
		return cmd, fmt.Errorf("invalid participant id %q", fields[1])
	}
	cmd.CounterpartID = id

	if loc == nil {
		loc = time.UTC
	}
	cmd.ScheduledTime, err = time.ParseInLocation(lessonTimeLayout, fields[2]+" "+fields[3], loc)
	if err != nil {
		return cmd, fmt.Errorf("invalid lesson time: %w", err)
	}

	rest := fields[4:]
	if len(rest) > 0 {
		if minutes, err := strconv.Atoi(rest[0]); err == nil {
			cmd.DurationMinutes = minutes
			rest = rest[1:]
		}
	}
	cmd.Notes = strings.Join(rest, " ")

	return cmd, nil
}

// ParseSetRoleCommand разбирает "/setrole <user_id> <role>"
func ParseSetRoleCommand(text string) (int64, model.Role, error) {
	fields := strings.Fields(text)
	if len(fields) != 3 {
		return 0, "", fmt.Errorf("usage: /setrole <user_id> <student|instructor|admin>")
	}

	id, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("invalid user id %q", fields[1])
	}

	role, err := model.ParseRole(fields[2])
	if err != nil {
		return 0, "", err
	}

	return id, role, nil
}

// BookingCallbackData callback для кнопки смены статуса
func BookingCallbackData(status model.BookingStatus, id uuid.UUID) string {
	return bookingPrefix + string(status) + ":" + id.String()
}

// ParseBookingCallback разбирает "booking:<status>:<id>"
func ParseBookingCallback(data string) (model.BookingStatus, uuid.UUID, error) {
	parts := strings.SplitN(strings.TrimPrefix(data, bookingPrefix), ":", 2)
	if len(parts) != 2 {
		return "", uuid.Nil, fmt.Errorf("invalid callback data format")
	}

	status, err := model.ParseBookingStatus(parts[0])
	if err != nil {
		return "", uuid.Nil, err
	}

	id, err := uuid.Parse(parts[1])
	if err != nil {
		return "", uuid.Nil, fmt.Errorf("invalid booking id: %w", err)
	}

	return status, id, nil
}
