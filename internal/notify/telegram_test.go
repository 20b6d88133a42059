package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Freeeeeet/quran_academy/internal/model"
)

type fakeSender struct {
	sent []*bot.SendMessageParams
	err  error
}

func (f *fakeSender) SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, params)
	return &models.Message{}, nil
}

type fakeUsers map[int64]*model.User

func (f fakeUsers) GetByID(ctx context.Context, id int64) (*model.User, error) {
	u, ok := f[id]
	if !ok {
		return nil, errors.New("user not found")
	}
	return u, nil
}

func testBooking() *model.Booking {
	return &model.Booking{
		ID:              uuid.New(),
		TeacherID:       1,
		StudentID:       2,
		ScheduledTime:   time.Date(2026, 10, 16, 15, 0, 0, 0, time.UTC),
		DurationMinutes: 90,
		Status:          model.BookingStatusPending,
		Notes:           "مراجعة جزء عم",
	}
}

func newTestNotifier(sender *fakeSender) *TelegramNotifier {
	users := fakeUsers{
		1: {ID: 1, TelegramID: 1001, Role: model.RoleInstructor},
		2: {ID: 2, TelegramID: 2002, Role: model.RoleStudent},
	}
	return NewTelegramNotifier(sender, users, time.UTC, zap.NewNop())
}

func TestBookingCreatedGoesToTeacher(t *testing.T) {
	sender := &fakeSender{}
	n := newTestNotifier(sender)

	require.NoError(t, n.BookingCreated(context.Background(), testBooking()))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, int64(1001), sender.sent[0].ChatID)
	assert.Contains(t, sender.sent[0].Text, "16.10.2026 15:00")
	assert.Contains(t, sender.sent[0].Text, "مراجعة جزء عم")
}

func TestStatusChangedGoesToStudent(t *testing.T) {
	sender := &fakeSender{}
	n := newTestNotifier(sender)

	b := testBooking()
	b.Status = model.BookingStatusConfirmed
	require.NoError(t, n.BookingStatusChanged(context.Background(), b, model.BookingStatusPending))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, int64(2002), sender.sent[0].ChatID)
	assert.Contains(t, sender.sent[0].Text, "مؤكد")
}

func TestReminderGoesToBoth(t *testing.T) {
	sender := &fakeSender{}
	n := newTestNotifier(sender)

	require.NoError(t, n.LessonReminder(context.Background(), testBooking()))
	require.Len(t, sender.sent, 2)
	assert.Equal(t, int64(1001), sender.sent[0].ChatID)
	assert.Equal(t, int64(2002), sender.sent[1].ChatID)
}

func TestNotifierErrors(t *testing.T) {
	n := newTestNotifier(&fakeSender{err: errors.New("forbidden: bot was blocked by the user")})
	assert.Error(t, n.BookingCreated(context.Background(), testBooking()))

	b := testBooking()
	b.StudentID = 404
	n = newTestNotifier(&fakeSender{})
	assert.Error(t, n.BookingStatusChanged(context.Background(), b, model.BookingStatusPending))
}
