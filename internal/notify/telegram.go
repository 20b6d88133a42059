package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Freeeeeet/quran_academy/internal/formatting"
	"github.com/Freeeeeet/quran_academy/internal/model"
)

// Sender отправляет сообщения в Telegram; реализуется *bot.Bot
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// UserLookup находит участника по ID
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// TelegramNotifier уведомляет участников уроков в Telegram
type TelegramNotifier struct {
	sender   Sender
	users    UserLookup
	location *time.Location
	logger   *zap.Logger
}

// NewTelegramNotifier создаёт уведомитель
func NewTelegramNotifier(sender Sender, users UserLookup, location *time.Location, logger *zap.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		sender:   sender,
		users:    users,
		location: location,
		logger:   logger,
	}
}

// BookingCreated сообщает учителю о новой заявке
func (n *TelegramNotifier) BookingCreated(ctx context.Context, booking *model.Booking) error {
	text := fmt.Sprintf(
		"📚 طلب درس جديد\n\n🗓 %s\n⏱ %s\n%s",
		formatting.FormatLessonTime(booking.ScheduledTime, n.location),
		formatting.FormatDuration(booking.DurationMinutes),
		formatting.FormatStatusLabel(booking.Status),
	)
	if booking.Notes != "" {
		text += "\n\n📝 " + booking.Notes
	}

	return n.send(ctx, booking.TeacherID, text)
}

// BookingStatusChanged сообщает студенту о новом статусе урока
func (n *TelegramNotifier) BookingStatusChanged(ctx context.Context, booking *model.Booking, from model.BookingStatus) error {
	text := fmt.Sprintf(
		"🔔 تم تحديث حالة الدرس\n\n🗓 %s\n%s → %s",
		formatting.FormatLessonTime(booking.ScheduledTime, n.location),
		formatting.FormatStatusLabel(from),
		formatting.FormatStatusLabel(booking.Status),
	)

	return n.send(ctx, booking.StudentID, text)
}

// LessonReminder напоминает обоим участникам о скором уроке
func (n *TelegramNotifier) LessonReminder(ctx context.Context, booking *model.Booking) error {
	text := fmt.Sprintf(
		"⏰ تذكير: لديك درس في %s (%s)",
		formatting.FormatLessonTime(booking.ScheduledTime, n.location),
		formatting.FormatDuration(booking.DurationMinutes),
	)

	if err := n.send(ctx, booking.TeacherID, text); err != nil {
		return err
	}
	return n.send(ctx, booking.StudentID, text)
}

func (n *TelegramNotifier) send(ctx context.Context, userID int64, text string) error {
	user, err := n.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get recipient %d: %w", userID, err)
	}

	_, err = n.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: user.TelegramID,
		Text:   text,
	})
	if err != nil {
		return fmt.Errorf("send message to %d: %w", userID, err)
	}

	n.logger.Debug("Notification sent",
		zap.Int64("user_id", userID),
		zap.Int64("telegram_id", user.TelegramID),
	)

	return nil
}
