package handlers

import (
	"context"
	"errors"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/dove-bot/pkg/bot/reminders"
	"github.com/smith3v/dove-bot/pkg/logger"
	"github.com/smith3v/dove-bot/pkg/prefs"
	"github.com/smith3v/dove-bot/pkg/ui"
)

func (h *Handler) HandleReminder(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !validMessage(update) {
		logger.Error("invalid update in HandleReminder")
		return
	}
	userID := update.Message.From.ID
	text, keyboard, err := h.renderReminderSheet(ctx, userID, h.reminderDraft(ctx, userID))
	if err != nil {
		logger.Error("failed to render reminder sheet", "user_id", userID, "error", err)
		sendText(ctx, b, update.Message.Chat.ID, "Failed to load your reminder. Please try again later.")
		return
	}
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      update.Message.Chat.ID,
		Text:        text,
		ReplyMarkup: keyboard,
	}); err != nil {
		logger.Error("failed to send reminder sheet", "user_id", userID, "error", err)
	}
}

func (h *Handler) HandleReminderCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.CallbackQuery == nil {
		logger.Error("invalid update in HandleReminderCallback")
		return
	}
	msg, ok := callbackMessage(update)
	if !ok {
		answerCallback(ctx, b, update, "Message missing")
		return
	}
	action, err := ui.ParseReminderCallback(ui.ReminderCallbackPrefix, update.CallbackQuery.Data)
	if err != nil {
		answerCallback(ctx, b, update, "Unknown action")
		return
	}
	userID := update.CallbackQuery.From.ID
	draft := action.Draft

	switch action.Op {
	case ui.ReminderOpView:
	case ui.ReminderOpTZUp, ui.ReminderOpTZDown:
		delta := 1
		if action.Op == ui.ReminderOpTZDown {
			delta = -1
		}
		if err := h.shiftOffset(ctx, userID, delta); err != nil {
			if errors.Is(err, reminders.ErrOffsetOutOfRange) {
				answerCallback(ctx, b, update, "Timezone limit reached")
				return
			}
			logger.Error("failed to update timezone offset", "user_id", userID, "error", err)
			answerCallback(ctx, b, update, "Failed")
			return
		}
	case ui.ReminderOpSave:
		if !draft.AnyDay() {
			answerCallback(ctx, b, update, "Choose at least one day")
			return
		}
		if err := h.saveReminder(ctx, userID, draft); err != nil {
			logger.Error("failed to save reminder", "user_id", userID, "error", err)
			answerCallback(ctx, b, update, "Failed")
			return
		}
		text := "Reminder set: " + ui.FormatReminder(draft.Time(), draft.DaySlice())
		if err := editMessage(ctx, b, msg.Chat.ID, msg.ID, text, emptyKeyboard()); err != nil {
			logger.Error("failed to edit reminder message", "user_id", userID, "error", err)
		}
		answerCallback(ctx, b, update, "Saved")
		return
	case ui.ReminderOpOff:
		if err := h.cancelReminder(ctx, userID); err != nil {
			logger.Error("failed to turn off reminder", "user_id", userID, "error", err)
			answerCallback(ctx, b, update, "Failed")
			return
		}
		if err := editMessage(ctx, b, msg.Chat.ID, msg.ID, "Reminder turned off.", emptyKeyboard()); err != nil {
			logger.Error("failed to edit reminder message", "user_id", userID, "error", err)
		}
		answerCallback(ctx, b, update, "")
		return
	case ui.ReminderOpClose:
		if err := editMessage(ctx, b, msg.Chat.ID, msg.ID, "Reminder unchanged.", emptyKeyboard()); err != nil {
			logger.Error("failed to edit reminder message", "user_id", userID, "error", err)
		}
		answerCallback(ctx, b, update, "")
		return
	default:
		answerCallback(ctx, b, update, "Unknown action")
		return
	}

	text, keyboard, err := h.renderReminderSheet(ctx, userID, draft)
	if err != nil {
		logger.Error("failed to render reminder sheet", "user_id", userID, "error", err)
		answerCallback(ctx, b, update, "Failed")
		return
	}
	if err := editMessage(ctx, b, msg.Chat.ID, msg.ID, text, keyboard); err != nil {
		logger.Error("failed to edit reminder sheet", "user_id", userID, "error", err)
	}
	answerCallback(ctx, b, update, "")
}

func (h *Handler) renderReminderSheet(ctx context.Context, userID int64, draft ui.ReminderDraft) (string, *models.InlineKeyboardMarkup, error) {
	offset, err := h.settings.OffsetHours(ctx, userID)
	if err != nil {
		return "", nil, err
	}
	triggers, err := h.scheduler.Triggers(ctx, userID)
	if err != nil {
		return "", nil, err
	}
	return ui.RenderReminderSheet(draft, offset, len(triggers) > 0)
}

func (h *Handler) shiftOffset(ctx context.Context, userID int64, delta int) error {
	offset, err := h.settings.OffsetHours(ctx, userID)
	if err != nil {
		return err
	}
	return h.settings.SetOffsetHours(ctx, userID, offset+delta)
}

// saveReminder records the choice in the preference record and replaces the
// user's triggers.
func (h *Handler) saveReminder(ctx context.Context, userID int64, draft ui.ReminderDraft) error {
	reminder := prefs.Reminder{Time: draft.Time(), Days: draft.DaySlice()}
	if err := h.writer.Merge(ctx, userID, prefs.Patch{prefs.KeyReminder: reminder}); err != nil {
		return err
	}
	return h.scheduler.Schedule(ctx, userID, reminder.Time, reminder.Days)
}

func (h *Handler) cancelReminder(ctx context.Context, userID int64) error {
	if err := h.writer.Merge(ctx, userID, prefs.Patch{prefs.KeyReminder: nil}); err != nil {
		return err
	}
	return h.scheduler.Cancel(ctx, userID)
}
