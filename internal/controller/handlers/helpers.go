package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Freeeeeet/quran_academy/internal/model"
	"github.com/Freeeeeet/quran_academy/internal/service"
)

// requireUser находит зарегистрированного участника по Telegram ID
func (h *Handlers) requireUser(ctx context.Context, b *bot.Bot, chatID, telegramID int64) (*model.User, bool) {
	user, err := h.userService.GetByTelegramID(ctx, telegramID)
	if err != nil {
		h.logger.Error("Failed to get user", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.send(ctx, b, chatID, service.ErrorMessage(err), nil)
		return nil, false
	}

	return user, true
}

// send отправляет сообщение и логирует если не удалось
func (h *Handlers) send(ctx context.Context, b *bot.Bot, chatID int64, text string, markup *models.InlineKeyboardMarkup) {
	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}
	if markup != nil {
		params.ReplyMarkup = markup
	}

	if _, err := b.SendMessage(ctx, params); err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

// edit заменяет текст и клавиатуру сообщения
func (h *Handlers) edit(ctx context.Context, b *bot.Bot, msg *models.Message, text string, markup *models.InlineKeyboardMarkup) {
	params := &bot.EditMessageTextParams{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
		Text:      text,
	}
	if markup != nil {
		params.ReplyMarkup = markup
	}

	if _, err := b.EditMessageText(ctx, params); err != nil {
		h.logger.Warn("Failed to edit message",
			zap.Int64("chat_id", msg.Chat.ID),
			zap.Int("message_id", msg.ID),
			zap.Error(err),
		)
	}
}

// answer отвечает на callback query
func (h *Handlers) answer(ctx context.Context, b *bot.Bot, callbackID, text string, alert bool) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       alert,
	})
}

func actorOf(user *model.User) model.Actor {
	return model.Actor{ID: user.ID, Role: user.Role}
}

// messageFromCallback извлекает сообщение из callback query
func messageFromCallback(callback *models.CallbackQuery) *models.Message {
	if callback.Message.Message != nil {
		return callback.Message.Message
	}
	return nil
}
