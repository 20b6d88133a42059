package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Freeeeeet/quran_academy/internal/formatting"
	"github.com/Freeeeeet/quran_academy/internal/service"
)

// HandleCallbackQuery - главный обработчик callback queries
func (h *Handlers) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}

	callback := update.CallbackQuery
	data := callback.Data

	h.logger.Info("Callback received",
		zap.String("data", data),
		zap.Int64("user_id", callback.From.ID),
	)

	switch {
	case data == noop:
		h.answer(ctx, b, callback.ID, "", false)
	case strings.HasPrefix(data, navPrefix):
		h.handleNavigate(ctx, b, callback)
	case strings.HasPrefix(data, bookingPrefix):
		h.handleBookingStatus(ctx, b, callback)
	default:
		h.logger.Warn("Unknown callback", zap.String("data", data))
		h.answer(ctx, b, callback.ID, "❌", false)
	}
}

// handleNavigate переключает вкладку; недоступная роли вкладка игнорируется
func (h *Handlers) handleNavigate(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	msg := messageFromCallback(callback)
	if msg == nil {
		h.answer(ctx, b, callback.ID, "❌", false)
		return
	}

	user, ok := h.requireUser(ctx, b, msg.Chat.ID, callback.From.ID)
	if !ok {
		h.answer(ctx, b, callback.ID, "", false)
		return
	}

	viewID := strings.TrimPrefix(callback.Data, navPrefix)
	if !h.navigation.SelectView(user.ID, viewID) {
		h.logger.Debug("Ignored navigation to invisible view",
			zap.Int64("user_id", user.ID),
			zap.String("view", viewID),
		)
	}

	text, kb := h.renderActiveView(ctx, user)
	h.edit(ctx, b, msg, text, kb)
	h.answer(ctx, b, callback.ID, "", false)
}

// handleBookingStatus меняет статус урока по кнопке учителя
func (h *Handlers) handleBookingStatus(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	msg := messageFromCallback(callback)
	if msg == nil {
		h.answer(ctx, b, callback.ID, "❌", false)
		return
	}

	status, bookingID, err := ParseBookingCallback(callback.Data)
	if err != nil {
		h.logger.Error("Failed to parse booking callback", zap.String("data", callback.Data), zap.Error(err))
		h.answer(ctx, b, callback.ID, "❌", true)
		return
	}

	user, ok := h.requireUser(ctx, b, msg.Chat.ID, callback.From.ID)
	if !ok {
		h.answer(ctx, b, callback.ID, "", false)
		return
	}

	calendar := service.NewCalendar(h.bookingService, actorOf(user))
	booking, err := calendar.Transition(ctx, bookingID, status)
	if booking == nil {
		h.answer(ctx, b, callback.ID, service.ErrorMessage(err), true)
		return
	}
	if err != nil {
		h.logger.Warn("Status changed but list refresh failed", zap.Error(err))
	}

	text, kb := h.renderActiveView(ctx, user)
	h.edit(ctx, b, msg, text, kb)
	h.answer(ctx, b, callback.ID, formatting.FormatStatusLabel(booking.Status), false)
}
