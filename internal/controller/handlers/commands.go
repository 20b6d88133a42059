package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Freeeeeet/quran_academy/internal/model"
	"github.com/Freeeeeet/quran_academy/internal/navigation"
	"github.com/Freeeeeet/quran_academy/internal/service"
)

// HandleStart регистрирует пользователя и показывает меню его роли
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	from := update.Message.From
	user, err := h.userService.RegisterUser(
		ctx,
		from.ID,
		from.Username,
		from.FirstName,
		from.LastName,
		from.LanguageCode,
	)
	if err != nil {
		h.logger.Error("Failed to register user", zap.Int64("telegram_id", from.ID), zap.Error(err))
		h.send(ctx, b, update.Message.Chat.ID, service.ErrorMessage(err), nil)
		return
	}

	h.send(ctx, b, update.Message.Chat.ID, fmt.Sprintf("👋 السلام عليكم، %s!\nرقمك: #%d", user.DisplayName(), user.ID), nil)
	h.showMenu(ctx, b, update.Message.Chat.ID, user)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	helpText := "📚 الأوامر:\n\n" +
		"/start - البدء\n" +
		"/menu - القائمة\n" +
		"/bookings - دروسي\n" +
		"/teachers - المعلمون\n" +
		"/book <id> <YYYY-MM-DD> <HH:MM> [minutes] [notes] - حجز درس\n\n" +
		"للمشرف:\n" +
		"/setrole <user_id> <student|instructor|admin>"

	h.send(ctx, b, update.Message.Chat.ID, helpText, nil)
}

// HandleMenu показывает вкладки текущей роли
func (h *Handlers) HandleMenu(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	user, ok := h.requireUser(ctx, b, update.Message.Chat.ID, update.Message.From.ID)
	if !ok {
		return
	}

	h.showMenu(ctx, b, update.Message.Chat.ID, user)
}

// HandleBookings показывает уроки участника
func (h *Handlers) HandleBookings(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	chatID := update.Message.Chat.ID

	user, ok := h.requireUser(ctx, b, chatID, update.Message.From.ID)
	if !ok {
		return
	}

	calendar := service.NewCalendar(h.bookingService, actorOf(user))
	if err := calendar.Refresh(ctx); err != nil {
		h.logger.Error("Failed to load bookings", zap.Int64("user_id", user.ID), zap.Error(err))
		h.send(ctx, b, chatID, service.ErrorMessage(err), nil)
		return
	}

	text, kb := RenderBookings(calendar.Bookings(), calendar.Owner(), h.location)
	h.send(ctx, b, chatID, text, kb)
}

// HandleTeachers показывает список учителей
func (h *Handlers) HandleTeachers(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	teachers, err := h.userService.ListTeachers(ctx)
	if err != nil {
		h.logger.Error("Failed to list teachers", zap.Error(err))
		h.send(ctx, b, update.Message.Chat.ID, service.ErrorMessage(err), nil)
		return
	}

	h.send(ctx, b, update.Message.Chat.ID, RenderTeachers(teachers), nil)
}

// HandleBook бронирует урок: студент указывает учителя, учитель указывает студента
func (h *Handlers) HandleBook(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	chatID := update.Message.Chat.ID

	user, ok := h.requireUser(ctx, b, chatID, update.Message.From.ID)
	if !ok {
		return
	}

	cmd, err := ParseBookCommand(update.Message.Text, h.location)
	if err != nil {
		h.send(ctx, b, chatID, "❌ "+err.Error(), nil)
		return
	}

	calendar := service.NewCalendar(h.bookingService, actorOf(user))
	booking, err := calendar.Create(ctx, cmd.CounterpartID, cmd.ScheduledTime, cmd.DurationMinutes, cmd.Notes)
	if booking == nil {
		h.logger.Info("Booking rejected",
			zap.Int64("user_id", user.ID),
			zap.Error(err),
		)
		h.send(ctx, b, chatID, service.ErrorMessage(err), nil)
		return
	}
	if err != nil {
		h.logger.Warn("Booking created but list refresh failed", zap.Error(err))
	}

	h.send(ctx, b, chatID, "✅ تم حجز الدرس بنجاح", nil)

	text, kb := RenderBookings(calendar.Bookings(), calendar.Owner(), h.location)
	h.send(ctx, b, chatID, text, kb)
}

// HandleSetRole меняет роль пользователя (только администратор)
func (h *Handlers) HandleSetRole(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	chatID := update.Message.Chat.ID

	admin, ok := h.requireUser(ctx, b, chatID, update.Message.From.ID)
	if !ok {
		return
	}

	userID, role, err := ParseSetRoleCommand(update.Message.Text)
	if err != nil {
		h.send(ctx, b, chatID, "❌ "+err.Error(), nil)
		return
	}

	user, err := h.userService.ChangeRole(ctx, actorOf(admin), userID, role)
	if err != nil {
		h.send(ctx, b, chatID, service.ErrorMessage(err), nil)
		return
	}

	h.send(ctx, b, chatID, fmt.Sprintf("✅ %s → %s", user.DisplayName(), user.Role), nil)
	h.send(ctx, b, user.TelegramID, "🔄 تم تغيير صلاحياتك", nil)
	h.showMenu(ctx, b, user.TelegramID, user)
}

func (h *Handlers) showMenu(ctx context.Context, b *bot.Bot, chatID int64, user *model.User) {
	text, kb := h.renderActiveView(ctx, user)
	h.send(ctx, b, chatID, text, kb)
}

// renderActiveView рисует текущую вкладку участника вместе с меню
func (h *Handlers) renderActiveView(ctx context.Context, user *model.User) (string, *models.InlineKeyboardMarkup) {
	state := h.navigation.State(user.ID)
	if state.Role != user.Role {
		// Роль изменилась в хранилище, а не через этот процесс
		state = h.navigation.ChangeRole(user.ID, user.Role)
	}

	text, menu := RenderMenu(state)

	switch state.ActiveView {
	case navigation.ViewSchedule, navigation.ViewLessonBooking:
		calendar := service.NewCalendar(h.bookingService, actorOf(user))
		if err := calendar.Refresh(ctx); err != nil {
			h.logger.Error("Failed to load bookings", zap.Int64("user_id", user.ID), zap.Error(err))
			return text + "\n\n" + service.ErrorMessage(err), menu
		}

		list, actions := RenderBookings(calendar.Bookings(), calendar.Owner(), h.location)
		text += "\n\n" + list
		if actions != nil {
			menu.InlineKeyboard = append(actions.InlineKeyboard, menu.InlineKeyboard...)
		}

	case navigation.ViewDiscover:
		teachers, err := h.userService.ListTeachers(ctx)
		if err != nil {
			return text + "\n\n" + service.ErrorMessage(err), menu
		}
		text += "\n\n" + RenderTeachers(teachers)

	case navigation.ViewMyStudents:
		students, err := h.ownStudents(ctx, user)
		if err != nil {
			h.logger.Error("Failed to load own students", zap.Int64("user_id", user.ID), zap.Error(err))
			return text + "\n\n" + service.ErrorMessage(err), menu
		}
		text += "\n\n" + RenderStudents(students)

	case navigation.ViewManageUsers:
		students, err := h.userService.ListStudents(ctx)
		if err != nil {
			return text + "\n\n" + service.ErrorMessage(err), menu
		}
		text += "\n\n" + RenderStudents(students)

	default:
		text += "\n\nهذا القسم متاح في تطبيق الويب"
	}

	return text, menu
}

// ownStudents студенты, у которых есть уроки с этим учителем
func (h *Handlers) ownStudents(ctx context.Context, user *model.User) ([]*model.User, error) {
	calendar := service.NewCalendar(h.bookingService, actorOf(user))
	if err := calendar.Refresh(ctx); err != nil {
		return nil, err
	}

	var students []*model.User
	for _, id := range calendar.Counterparts() {
		student, err := h.userService.GetByID(ctx, id)
		if errors.Is(err, service.ErrUserNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		students = append(students, student)
	}
	return students, nil
}
